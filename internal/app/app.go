package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/DIMO-Network/server-garage/pkg/fibercommon"
	"github.com/DIMO-Network/server-garage/pkg/richerrors"
	_ "github.com/DIMO-Network/waba-relay/docs" // Import Swagger docs
	"github.com/DIMO-Network/waba-relay/internal/clients/responder"
	"github.com/DIMO-Network/waba-relay/internal/clients/waba"
	"github.com/DIMO-Network/waba-relay/internal/config"
	"github.com/DIMO-Network/waba-relay/internal/controllers/webhook"
	"github.com/DIMO-Network/waba-relay/internal/services/dedup"
	"github.com/DIMO-Network/waba-relay/internal/services/relay"
	"github.com/DIMO-Network/waba-relay/internal/tasks"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/rs/zerolog"
)

// StatusMessage is reported by the root endpoint.
const StatusMessage = "Trek WhatsApp Webhook Active!"

type errorResponse struct {
	Error string `json:"error"`
}

type statusResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// CreateServers builds the outbound clients and the HTTP app. The returned runner
// tracks detached relays so the caller can drain them on shutdown.
func CreateServers(ctx context.Context, settings *config.Settings, logger zerolog.Logger) (*fiber.App, *tasks.Runner, error) {
	chatClient, err := responder.New(settings.HuggingFaceURL, settings.ResponderTimeout)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create responder client: %w", err)
	}

	sender, err := waba.NewSender(&http.Client{Timeout: 30 * time.Second}, settings.WABAAPIURL, settings.PhoneNumberID, settings.WABAAccessToken)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create send API client: %w", err)
	}

	runner := tasks.NewRunner(settings.MaxInFlightRelays)
	relayService := relay.NewService(chatClient, sender, settings.ResponderContext)

	var deduplicator webhook.Deduplicator
	if cache := dedup.NewCache(settings.DedupWindow); cache != nil {
		logger.Info().Dur("window", settings.DedupWindow).Msg("Message de-duplication enabled")
		deduplicator = cache
	}

	controller := webhook.NewWebhookController(webhook.Config{
		VerifyToken:       settings.VerifyToken,
		MaxRelaysPerEvent: settings.MaxRelaysPerEvent,
	}, relayService, sender, runner, deduplicator)

	app := CreateFiberApp(logger, controller, settings)
	return app, runner, nil
}

// CreateFiberApp sets up the API routes.
func CreateFiberApp(logger zerolog.Logger, controller *webhook.WebhookController, settings *config.Settings) *fiber.App {
	logger.Info().Msg("Starting WhatsApp relay...")

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return ErrorHandler(c, err)
		},
		DisableStartupMessage: true,
	})
	app.Use(fibercommon.ContextLoggerMiddleware)
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))

	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(statusResponse{
			Status:    StatusMessage,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"data": "Server is up and running",
		})
	})

	if settings.WABAAppSecret == "" {
		logger.Warn().Msg("WABA_APP_SECRET is not set; webhook signatures will not be checked")
	}

	logger.Info().Msg("Registering routes...")
	app.Get("/webhook/waba", controller.VerifyWebhook)
	app.Post("/webhook/waba", webhook.SignatureMiddleware(settings.WABAAppSecret), controller.ReceiveEvent)
	app.Post("/test-message", controller.SendTestMessage)

	return app
}

// ErrorHandler logs errors that escape the handlers and returns them as JSON.
// Details of unexpected errors are never exposed to the caller.
func ErrorHandler(ctx *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	} else if richErr, ok := richerrors.AsRichError(err); ok && richErr.Code >= 400 && richErr.Code < 500 {
		code = richErr.Code
		message = richErr.ExternalMsg
	}

	// log all errors except 404
	if code != fiber.StatusNotFound {
		logger := zerolog.Ctx(ctx.UserContext())
		logger.Err(err).Int("httpStatusCode", code).
			Str("httpPath", strings.TrimPrefix(ctx.Path(), "/")).
			Str("httpMethod", ctx.Method()).
			Msg("caught an error from http request")
	}

	return ctx.Status(code).JSON(errorResponse{Error: message})
}
