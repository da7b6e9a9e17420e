// Package auth identifies mini app callers from the init data Telegram signs
// with the bot token.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ambassador_engine/pkg/logger"

	"github.com/gin-gonic/gin"
	initdata "github.com/telegram-mini-apps/init-data-golang"
	"go.uber.org/zap"
)

const (
	scheme = "Telegram "

	// Init data older than this is refused even when correctly signed.
	maxInitDataAge = 24 * time.Hour

	// UserKey is the gin context key holding *TelegramUserData.
	UserKey = "telegram_user"
)

var (
	ErrMissingHeader = errors.New("authorization header is required")
	ErrInvalidScheme = errors.New("invalid authorization format")
	ErrInvalidData   = errors.New("invalid telegram auth data")
	ErrMissingUser   = errors.New("init data carries no user")
)

type Config struct {
	BotToken  string `mapstructure:"botToken"`
	DebugMode bool   `mapstructure:"debugMode"`
}

type TelegramAuth struct {
	botToken  string
	debugMode bool
}

func NewTelegramAuth(botToken string, debugMode bool) *TelegramAuth {
	return &TelegramAuth{
		botToken:  botToken,
		debugMode: debugMode,
	}
}

type TelegramUserData struct {
	ID       int64
	Username string
	AuthDate time.Time
}

// Authenticate resolves the caller from an Authorization header value of the
// form "Telegram <init data>". Debug mode trusts unsigned init data.
func (t *TelegramAuth) Authenticate(header string) (*TelegramUserData, error) {
	if header == "" {
		return nil, ErrMissingHeader
	}

	raw, ok := strings.CutPrefix(header, scheme)
	if !ok {
		return nil, ErrInvalidScheme
	}

	if !t.debugMode {
		if err := initdata.Validate(raw, t.botToken, maxInitDataAge); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidData, err)
		}
	}

	return ExtractTelegramData(raw)
}

func (t *TelegramAuth) TelegramAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := t.Authenticate(c.GetHeader("Authorization"))
		if err != nil {
			logger.Logger().Info("telegram auth failed", zap.Error(err), zap.String("path", c.FullPath()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": publicMessage(err)})
			return
		}

		c.Set(UserKey, user)
		c.Next()
	}
}

// publicMessage hides library detail behind the package sentinels.
func publicMessage(err error) string {
	for _, sentinel := range []error{ErrMissingHeader, ErrInvalidScheme, ErrMissingUser} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return ErrInvalidData.Error()
}

// UserFromContext returns the user stored by TelegramAuthMiddleware.
func UserFromContext(c *gin.Context) (*TelegramUserData, bool) {
	v, exists := c.Get(UserKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*TelegramUserData)
	return user, ok
}

// ExtractTelegramData reads the user out of init data without checking the
// signature.
func ExtractTelegramData(raw string) (*TelegramUserData, error) {
	data, err := initdata.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidData, err)
	}
	if data.User.ID == 0 {
		return nil, ErrMissingUser
	}

	return &TelegramUserData{
		ID:       data.User.ID,
		Username: data.User.Username,
		AuthDate: data.AuthDate(),
	}, nil
}
