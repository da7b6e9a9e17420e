// Command wsclient tails the engine events pushed to one participant's
// websocket. Useful against a local server running with telegramAuth.debugMode.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"

	"ambassador_engine/internal/notify"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

func main() {
	server := flag.String("server", "ws://localhost:8888", "engine base url")
	participantID := flag.Int64("participant", 0, "participant id to subscribe to")
	initData := flag.String("init-data", os.Getenv("TELEGRAM_INIT_DATA"), "telegram web app init data")
	flag.Parse()

	if *participantID == 0 {
		log.Fatal("participant id is required")
	}

	url := fmt.Sprintf("%s/api/v1/ws/%d", *server, *participantID)
	header := http.Header{}
	header.Add("Authorization", "Telegram "+*initData)

	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		log.Fatal("dial:", err)
	}
	defer conn.Close()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, p, err := conn.ReadMessage()
			if err != nil {
				log.Println("read error:", err)
				return
			}

			var msg notify.Message
			if err := json.Unmarshal(p, &msg); err != nil {
				log.Printf("Received (raw):\n%s\n", p)
				continue
			}
			pretty, _ := json.MarshalIndent(msg.Payload, "", "  ")
			log.Printf("%s\n%s\n", msg.Type, pretty)
		}
	}()

	select {
	case <-done:
	case <-interrupt:
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}
}
