package notify

import (
	"context"
	"fmt"

	"ambassador_engine/internal/model"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type messageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier messages the participant through the bot. Events for
// participants without a linked telegram account are skipped.
type TelegramNotifier struct {
	bot messageSender
}

func NewTelegramNotifier(botToken string) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize bot: %w", err)
	}
	return &TelegramNotifier{bot: bot}, nil
}

func messageText(event model.Event) (string, bool) {
	switch event.Type {
	case model.EventSubmissionTakenOnRevision:
		return fmt.Sprintf("Your report for task #%v is being reviewed.", event.Payload["task_id"]), true
	case model.EventSubmissionApproved:
		return fmt.Sprintf("Task #%v approved! You earned %v points.", event.Payload["task_id"], event.Payload["rating"]), true
	case model.EventSubmissionRejected:
		return fmt.Sprintf("Your submission for task #%v was rejected.", event.Payload["task_id"]), true
	case model.EventSubmissionReturned:
		return fmt.Sprintf("Task #%v needs changes: %v", event.Payload["task_id"], event.Payload["comment"]), true
	case model.EventParticipantLeveledUp:
		return fmt.Sprintf("Congratulations, you reached level %v!", event.Payload["level"]), true
	case model.EventTaskPublished:
		return fmt.Sprintf("A new task #%v is available for you.", event.Payload["task_id"]), true
	}
	return "", false
}

func (n *TelegramNotifier) Notify(_ context.Context, event model.Event) error {
	if event.TelegramID == nil {
		return nil
	}
	text, ok := messageText(event)
	if !ok {
		return nil
	}

	if _, err := n.bot.Send(tgbotapi.NewMessage(*event.TelegramID, text)); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}

	return nil
}
