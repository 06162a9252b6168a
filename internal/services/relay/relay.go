//go:generate go tool mockgen -source=relay.go -destination=relay_mock_test.go -package=relay
package relay

import (
	"context"
	"errors"
	"fmt"

	"github.com/DIMO-Network/waba-relay/internal/clients/responder"
	"github.com/DIMO-Network/waba-relay/internal/clients/waba"
	"github.com/DIMO-Network/waba-relay/internal/metrics"
	"github.com/rs/zerolog"
)

const (
	// FallbackNotUnderstood is sent when the responder answered without reply text.
	FallbackNotUnderstood = "I didn't understand, could you repeat?"
	// FallbackBusy is sent when the responder answered with a non-success status.
	FallbackBusy = "The system is busy right now, please try again later."
	// FallbackTechnical is sent when the responder could not be reached.
	FallbackTechnical = "We are experiencing a technical difficulty, we will get back to you shortly."
)

// Outcome describes how the reply text was chosen.
type Outcome string

const (
	OutcomeReplied       Outcome = "replied"
	OutcomeNotUnderstood Outcome = "not_understood"
	OutcomeBusy          Outcome = "busy"
	OutcomeTechnical     Outcome = "technical_error"
)

type Responder interface {
	Chat(ctx context.Context, req responder.ChatRequest) (*responder.ChatResponse, error)
}

type Sender interface {
	SendText(ctx context.Context, to, body string) (*waba.SendMessageResponse, error)
}

// Message is a single inbound message eligible for relay.
type Message struct {
	ID   string
	From string
	Text string
}

// Eligible reports whether the message has both a sender and text.
func (m Message) Eligible() bool {
	return m.From != "" && m.Text != ""
}

// Service relays inbound messages to the responder and its reply back to the sender.
type Service struct {
	responder    Responder
	sender       Sender
	contextLabel string
}

// NewService creates a new relay Service.
func NewService(chatResponder Responder, sender Sender, contextLabel string) *Service {
	return &Service{
		responder:    chatResponder,
		sender:       sender,
		contextLabel: contextLabel,
	}
}

// Relay resolves a reply for msg and delivers it to msg.From.
// Responder failures are replaced by fallback text; only delivery failures are returned.
func (s *Service) Relay(ctx context.Context, msg Message) error {
	reply, outcome := s.ResolveReply(ctx, msg)
	metrics.RelayedMessages.WithLabelValues(string(outcome)).Inc()

	if _, err := s.sender.SendText(ctx, msg.From, reply); err != nil {
		return fmt.Errorf("failed to deliver reply for message %q: %w", msg.ID, err)
	}
	return nil
}

// ResolveReply asks the responder for a reply and falls back to fixed text on failure.
func (s *Service) ResolveReply(ctx context.Context, msg Message) (string, Outcome) {
	logger := zerolog.Ctx(ctx)
	logger.Info().Str("text", msg.Text).Msg("Sending message to responder")

	resp, err := s.responder.Chat(ctx, responder.ChatRequest{
		Message:        msg.Text,
		UserID:         msg.From,
		Context:        s.contextLabel,
		ConversationID: msg.From,
	})
	if err != nil {
		if errors.Is(err, responder.ErrUnavailable) {
			logger.Warn().Err(err).Msg("Responder did not answer successfully")
			return FallbackBusy, OutcomeBusy
		}
		logger.Error().Err(err).Msg("Responder call failed")
		return FallbackTechnical, OutcomeTechnical
	}

	reply := resp.Reply()
	if reply == "" {
		logger.Info().Msg("Responder returned no reply text")
		return FallbackNotUnderstood, OutcomeNotUnderstood
	}
	logger.Info().Str("reply", reply).Msg("Responder reply received")
	return reply, OutcomeReplied
}
