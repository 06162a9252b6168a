package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"github.com/DIMO-Network/server-garage/pkg/richerrors"
	"github.com/DIMO-Network/waba-relay/internal/metrics"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

const (
	// SignatureHeader carries the HMAC-SHA256 of the raw body keyed by the app secret.
	SignatureHeader = "X-Hub-Signature-256"
	signaturePrefix = "sha256="

	subscribeMode = "subscribe"
)

// VerifySubscription reports whether a verification request may subscribe.
func VerifySubscription(mode, token, verifyToken string) bool {
	if mode != subscribeMode || token == "" || verifyToken == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(verifyToken)) == 1
}

// ValidSignature checks an X-Hub-Signature-256 header value against body.
func ValidSignature(body []byte, header, appSecret string) bool {
	expected, ok := strings.CutPrefix(header, signaturePrefix)
	if !ok {
		return false
	}
	mac := hmac.New(sha256.New, []byte(appSecret))
	mac.Write(body)
	computed := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(strings.ToLower(expected)), []byte(computed))
}

// SignatureMiddleware rejects event deliveries whose signature does not match appSecret.
// It is a no-op when appSecret is empty.
func SignatureMiddleware(appSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if appSecret == "" {
			return c.Next()
		}
		if !ValidSignature(c.Body(), c.Get(SignatureHeader), appSecret) {
			zerolog.Ctx(c.UserContext()).Warn().Msg("Webhook signature mismatch")
			metrics.WebhookEvents.WithLabelValues("bad_signature").Inc()
			return richerrors.Error{
				ExternalMsg: "Invalid signature",
				Code:        fiber.StatusForbidden,
			}
		}
		return c.Next()
	}
}
