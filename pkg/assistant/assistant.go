// Package assistant holds the chat panel state: quick-action presets, the last
// reply from the healthcare backend, and the inline error shown under it.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/careassist/care-reminder/pkg/logging"
	"github.com/careassist/care-reminder/pkg/models"
)

var ErrEmptyMessage = errors.New("assistant: message is empty")

// Preset is a quick action that fills the question box
type Preset struct {
	Label   string
	Message string
}

// Presets are the quick healthcare options, in display order
var Presets = []Preset{
	{Label: "Book GP", Message: "I need help booking a GP appointment"},
	{Label: "Emergency", Message: "What should I do if I have chest pain?"},
	{Label: "Condition", Message: "Explain high blood pressure in simple terms"},
}

// PresetMessage returns the message for a preset label
func PresetMessage(label string) (string, bool) {
	for _, p := range Presets {
		if p.Label == label {
			return p.Message, true
		}
	}
	return "", false
}

// Chatter sends one question to the backend
type Chatter interface {
	Chat(ctx context.Context, message string) (*models.ChatReply, error)
}

type Assistant struct {
	mu       sync.Mutex
	chatter  Chatter
	reply    *models.ChatReply
	err      error
	onUpdate func()
	logger   *logging.Logger
}

func New(chatter Chatter, logger *logging.Logger) *Assistant {
	if logger == nil {
		logger = logging.Default()
	}
	return &Assistant{chatter: chatter, logger: logger}
}

// SetOnUpdate sets a callback run after each answer or failure
func (a *Assistant) SetOnUpdate(fn func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onUpdate = fn
}

// Ask sends message and keeps the reply. On failure the previous reply is
// kept and the error is recorded for inline display.
func (a *Assistant) Ask(ctx context.Context, message string) (*models.ChatReply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	reply, err := a.chatter.Chat(ctx, message)
	if err != nil {
		err = fmt.Errorf("assistant: ask: %w", err)
		a.logger.Warn("chat request failed", "error", err)
		a.set(nil, err)
		return nil, err
	}
	if reply.Sources == nil {
		reply.Sources = []models.Source{}
	}

	a.logger.Info("chat answered", "emergency", reply.Emergency, "sources", len(reply.Sources))
	a.set(reply, nil)
	return reply, nil
}

func (a *Assistant) set(reply *models.ChatReply, err error) {
	a.mu.Lock()
	if reply != nil {
		a.reply = reply
	}
	a.err = err
	fn := a.onUpdate
	a.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Reply returns the last successful answer, or nil
func (a *Assistant) Reply() *models.ChatReply {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.reply
}

// Err returns the error from the last Ask, or nil if it succeeded
func (a *Assistant) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.err
}
