// Command waba-sandbox stands in for both upstreams of the relay during local
// development: it answers responder chat calls and accepts send API requests,
// logging everything it receives.
package main

import (
	"flag"
	"strconv"
	"strings"

	"github.com/DIMO-Network/server-garage/pkg/fibercommon"
	"github.com/DIMO-Network/server-garage/pkg/logging"
	"github.com/DIMO-Network/waba-relay/internal/clients/responder"
	"github.com/DIMO-Network/waba-relay/internal/clients/waba"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func main() {
	logger := logging.GetAndSetDefaultLogger("waba-sandbox")
	port := flag.Int("port", 8081, "listen port")
	flag.Parse()

	app := newSandboxApp()
	baseURL := "http://localhost:" + strconv.Itoa(*port)
	logger.Info().
		Str("HUGGING_FACE_URL", baseURL).
		Str("WABA_API_URL", baseURL+"/v18.0").
		Msg("Sandbox listening; point the relay at these URLs")
	if err := app.Listen(":" + strconv.Itoa(*port)); err != nil {
		logger.Fatal().Err(err).Msg("Sandbox failed")
	}
}

func newSandboxApp() *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(fibercommon.ContextLoggerMiddleware)
	app.Post("/chat", chatHandler)
	app.Post("/:version/:phoneNumberId/messages", sendHandler)
	// WABA_API_URL without a version segment
	app.Post("/:phoneNumberId/messages", sendHandler)
	return app
}

// chatHandler echoes the user's message back as the reply.
func chatHandler(c *fiber.Ctx) error {
	var req responder.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	zerolog.Ctx(c.UserContext()).Info().Str("userId", req.UserID).Str("message", req.Message).Msg("Chat request received")
	if strings.TrimSpace(req.Message) == "" {
		return c.JSON(responder.ChatResponse{})
	}
	return c.JSON(responder.ChatResponse{Response: "You said: " + req.Message})
}

func sendHandler(c *fiber.Ctx) error {
	token := strings.TrimSpace(strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer"))
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(waba.GraphError{Error: waba.GraphErrorDetail{
			Message: "An active access token must be used to query information about the current user.",
			Type:    "OAuthException",
			Code:    2500,
		}})
	}
	var req waba.SendMessageRequest
	if err := c.BodyParser(&req); err != nil || req.To == "" {
		return c.Status(fiber.StatusBadRequest).JSON(waba.GraphError{Error: waba.GraphErrorDetail{
			Message: "(#100) Invalid parameter",
			Type:    "OAuthException",
			Code:    100,
		}})
	}
	zerolog.Ctx(c.UserContext()).Info().
		Str("phoneNumberId", c.Params("phoneNumberId")).
		Str("to", req.To).
		Str("text", req.Text.Body).
		Msg("Send request received")
	return c.JSON(waba.SendMessageResponse{
		MessagingProduct: req.MessagingProduct,
		Contacts:         []waba.ResponseContact{{Input: req.To, WaID: req.To}},
		Messages:         []waba.ResponseMessage{{ID: "wamid." + uuid.NewString()}},
	})
}
