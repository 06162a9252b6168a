//go:generate go tool mockgen -source=webhook_controller.go -destination=webhook_controller_mock_test.go -package=webhook
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"sync/atomic"

	"github.com/DIMO-Network/server-garage/pkg/richerrors"
	"github.com/DIMO-Network/waba-relay/internal/clients/waba"
	"github.com/DIMO-Network/waba-relay/internal/metrics"
	"github.com/DIMO-Network/waba-relay/internal/services/relay"
	"github.com/DIMO-Network/waba-relay/internal/tasks"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type Relayer interface {
	Relay(ctx context.Context, msg relay.Message) error
}

type Sender interface {
	SendText(ctx context.Context, to, body string) (*waba.SendMessageResponse, error)
}

type TaskRunner interface {
	Go(ctx context.Context, name string, fn func(ctx context.Context) error)
}

type Deduplicator interface {
	Seen(messageID string) bool
}

type noDedup struct{}

func (noDedup) Seen(string) bool { return false }

// Config holds the controller's settings.
type Config struct {
	VerifyToken       string
	MaxRelaysPerEvent int
}

// WebhookController handles the platform's webhook calls and the manual send endpoint.
type WebhookController struct {
	relayer           Relayer
	sender            Sender
	tasks             TaskRunner
	dedup             Deduplicator
	verifyToken       string
	maxRelaysPerEvent int
}

// NewWebhookController creates a new WebhookController.
func NewWebhookController(cfg Config, relayer Relayer, sender Sender, runner TaskRunner, dedup Deduplicator) *WebhookController {
	maxRelays := cfg.MaxRelaysPerEvent
	if maxRelays < 1 {
		maxRelays = 1
	}
	if dedup == nil {
		dedup = noDedup{}
	}
	return &WebhookController{
		relayer:           relayer,
		sender:            sender,
		tasks:             runner,
		dedup:             dedup,
		verifyToken:       cfg.VerifyToken,
		maxRelaysPerEvent: maxRelays,
	}
}

// VerifyWebhook godoc
// @Summary      Verify webhook subscription
// @Description  Echoes hub.challenge when hub.mode is "subscribe" and hub.verify_token matches the configured secret.
// @Tags         Webhook
// @Produce      plain
// @Param        hub.mode          query  string  true  "Subscription mode"
// @Param        hub.verify_token  query  string  true  "Shared verification secret"
// @Param        hub.challenge     query  string  true  "Challenge to echo"
// @Success      200  {string}  string  "The challenge"
// @Failure      403  "Verification failed"
// @Router       /webhook/waba [get]
func (w *WebhookController) VerifyWebhook(c *fiber.Ctx) error {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	logger := zerolog.Ctx(c.UserContext())
	logger.Info().Str("mode", mode).Bool("tokenPresent", token != "").Msg("Webhook verification attempt")

	if !VerifySubscription(mode, token, w.verifyToken) {
		logger.Warn().Str("mode", mode).Msg("Webhook verification failed")
		c.Status(fiber.StatusForbidden)
		return nil
	}

	logger.Info().Msg("Webhook verified")
	return c.Status(fiber.StatusOK).SendString(challenge)
}

// ReceiveEvent godoc
// @Summary      Receive webhook event
// @Description  Accepts a platform event. Messages are relayed in the background; the acknowledgement does not wait for delivery.
// @Tags         Webhook
// @Accept       json
// @Produce      plain
// @Param        event  body  Event  true  "Platform event"
// @Success      200  {string}  string  "EVENT_RECEIVED"
// @Failure      403  "Invalid signature"
// @Failure      404  "Unknown event object"
// @Failure      500  "Malformed event"
// @Router       /webhook/waba [post]
func (w *WebhookController) ReceiveEvent(c *fiber.Ctx) (err error) {
	logger := zerolog.Ctx(c.UserContext()).With().Str("dispatchId", uuid.NewString()).Logger()

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error().Bytes("stack", debug.Stack()).Msgf("Webhook processing panic: %v", rec)
			metrics.WebhookEvents.WithLabelValues("error").Inc()
			err = c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
		}
	}()

	// an empty body is an event without a discriminator
	var event Event
	if body := c.Body(); len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &event); err != nil {
			logger.Error().Err(err).Msg("Webhook processing error")
			metrics.WebhookEvents.WithLabelValues("error").Inc()
			return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
		}
		logger.Debug().RawJSON("payload", body).Msg("Webhook received")
	}

	if event.Object != BusinessAccountObject {
		logger.Warn().Str("object", event.Object).Msg("Unknown webhook object")
		metrics.WebhookEvents.WithLabelValues("unknown_object").Inc()
		return c.SendStatus(fiber.StatusNotFound)
	}

	// the fiber user context is recycled after the handler returns
	w.dispatch(logger.WithContext(context.Background()), &event)

	metrics.WebhookEvents.WithLabelValues("accepted").Inc()
	return c.Status(fiber.StatusOK).SendString(EventReceived)
}

// dispatch logs every message and status in the event and starts a detached
// relay for the eligible messages. It does not wait for the relays.
func (w *WebhookController) dispatch(ctx context.Context, event *Event) {
	logger := zerolog.Ctx(ctx)
	var pending []relay.Message
	for _, entry := range event.Entry {
		for _, change := range entry.Changes {
			for _, m := range change.Value.Messages {
				msg := relay.Message{ID: m.ID, From: m.From, Text: m.Body()}
				logger.Info().
					Str("from", msg.From).
					Str("messageId", msg.ID).
					Str("timestamp", string(m.Timestamp)).
					Str("text", msg.Text).
					Msg("New message")

				if !msg.Eligible() {
					logger.Debug().Str("messageId", msg.ID).Str("type", m.Type).Msg("Message has no text or sender; skipping relay")
					continue
				}
				if w.dedup.Seen(msg.ID) {
					logger.Info().Str("messageId", msg.ID).Msg("Duplicate message delivery; skipping relay")
					continue
				}
				pending = append(pending, msg)
			}

			for _, status := range change.Value.Statuses {
				logger.Info().
					Str("status", status.Status).
					Str("messageId", status.ID).
					Str("recipientId", status.RecipientID).
					Msg("Message status")
			}
		}
	}

	if len(pending) == 0 {
		return
	}
	w.tasks.Go(ctx, "relay-event", func(ctx context.Context) error {
		return w.relayAll(ctx, pending)
	})
}

// relayAll relays each message in its own failure boundary, at most
// maxRelaysPerEvent at a time.
func (w *WebhookController) relayAll(ctx context.Context, msgs []relay.Message) error {
	var group errgroup.Group
	group.SetLimit(w.maxRelaysPerEvent)
	var failed atomic.Int32
	for _, msg := range msgs {
		group.Go(func() error {
			msgLogger := zerolog.Ctx(ctx).With().Str("messageId", msg.ID).Str("from", msg.From).Logger()
			msgCtx := msgLogger.WithContext(ctx)
			err := tasks.Isolate(msgCtx, func(ctx context.Context) error {
				return w.relayer.Relay(ctx, msg)
			})
			if err != nil {
				msgLogger.Error().Err(err).Msg("Message relay failed")
				failed.Add(1)
			}
			return nil
		})
	}
	_ = group.Wait()

	if n := failed.Load(); n > 0 {
		return fmt.Errorf("%d of %d message relays failed", n, len(msgs))
	}
	return nil
}

// SendTestMessage godoc
// @Summary      Send a test message
// @Description  Sends a text message directly through the platform send API.
// @Tags         Test
// @Accept       json
// @Produce      json
// @Param        request  body      TestMessageRequest   true  "Recipient and text"
// @Success      200      {object}  TestMessageResponse  "Message sent"
// @Failure      400      {object}  TestMessageResponse  "Invalid request payload"
// @Failure      500      {object}  TestMessageResponse  "Send failed"
// @Router       /test-message [post]
func (w *WebhookController) SendTestMessage(c *fiber.Ctx) error {
	var payload TestMessageRequest
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(TestMessageResponse{Error: "Invalid request payload"})
	}
	if payload.To == "" || payload.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(TestMessageResponse{Error: "Both 'to' and 'message' are required"})
	}

	result, err := w.sender.SendText(c.UserContext(), payload.To, payload.Message)
	if err != nil {
		msg := err.Error()
		if richErr, ok := richerrors.AsRichError(err); ok && richErr.ExternalMsg != "" {
			msg = richErr.ExternalMsg
		}
		return c.Status(fiber.StatusInternalServerError).JSON(TestMessageResponse{Error: msg})
	}
	return c.JSON(TestMessageResponse{Success: true, Data: result})
}
