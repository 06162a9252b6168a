package waba

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/DIMO-Network/server-garage/pkg/richerrors"
	"github.com/DIMO-Network/waba-relay/internal/metrics"
	"github.com/rs/zerolog"
)

const (
	// Default timeout for send API requests
	defaultSendTimeout = 30 * time.Second
	// Maximum response body size to read for error logging
	maxResponseBodySize = 1024

	messagingProduct = "whatsapp"
	recipientPrefix  = "whatsapp:"
)

// Sender delivers text messages through the WhatsApp Business Cloud API.
type Sender struct {
	client      *http.Client
	messagesURL string
	accessToken string
}

// NewSender creates a Sender posting to {apiURL}/{phoneNumberID}/messages.
// A nil client gets a default one with a 30s timeout.
func NewSender(client *http.Client, apiURL, phoneNumberID, accessToken string) (*Sender, error) {
	if client == nil {
		client = &http.Client{
			Timeout: defaultSendTimeout,
		}
	}
	parsedURL, err := url.ParseRequestURI(apiURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse send API URL: %w", err)
	}
	return &Sender{
		client:      client,
		messagesURL: parsedURL.JoinPath(phoneNumberID, "messages").String(),
		accessToken: accessToken,
	}, nil
}

// NormalizeRecipient strips the "whatsapp:" channel prefix and a leading "+".
func NormalizeRecipient(to string) string {
	cleaned := strings.Replace(to, recipientPrefix, "", 1)
	return strings.Replace(cleaned, "+", "", 1)
}

// SendText sends body as a text message to the recipient.
// Returns the decoded API response on success. A non-2xx answer is returned as a
// richerrors.Error whose Code is the upstream status and whose Err is an *APIError.
func (s *Sender) SendText(ctx context.Context, to, body string) (*SendMessageResponse, error) {
	logger := zerolog.Ctx(ctx)
	recipient := NormalizeRecipient(to)

	payload, err := json.Marshal(SendMessageRequest{
		MessagingProduct: messagingProduct,
		RecipientType:    "individual",
		To:               recipient,
		Type:             "text",
		Text:             TextContent{Body: body},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal send request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.messagesURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.accessToken)

	resp, err := s.client.Do(req)
	if err != nil {
		metrics.SentMessages.WithLabelValues("transport_error").Inc()
		logger.Error().Err(err).Str("to", recipient).Msg("Failed to send WhatsApp message")
		return nil, fmt.Errorf("failed to POST to send API: %w", err)
	}
	defer resp.Body.Close() // nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := readAPIError(resp)
		metrics.SentMessages.WithLabelValues("api_error").Inc()
		event := logger.Error().Int("status", apiErr.StatusCode).Str("to", recipient)
		if apiErr.Graph != nil {
			event = event.
				Str("graph_message", apiErr.Graph.Message).
				Str("graph_type", apiErr.Graph.Type).
				Int("graph_code", apiErr.Graph.Code).
				Str("fbtrace_id", apiErr.Graph.FBTraceID)
		} else {
			event = event.Str("body", apiErr.Body)
		}
		event.Msg("Failed to send WhatsApp message")
		return nil, richerrors.Error{
			Code:        apiErr.StatusCode,
			ExternalMsg: apiErr.Error(),
			Err:         apiErr,
		}
	}

	var sendResp SendMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&sendResp); err != nil {
		metrics.SentMessages.WithLabelValues("decode_error").Inc()
		return nil, fmt.Errorf("failed to decode send response: %w", err)
	}

	metrics.SentMessages.WithLabelValues("success").Inc()
	logger.Info().Str("to", recipient).Interface("response", sendResp).Msg("WhatsApp message sent")
	return &sendResp, nil
}

func readAPIError(resp *http.Response) *APIError {
	// Read response body for error details (limited size for security)
	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Body:       string(respBody),
	}
	var graphErr GraphError
	if err := json.Unmarshal(respBody, &graphErr); err == nil && graphErr.Error.Message != "" {
		apiErr.Graph = &graphErr.Error
	}
	return apiErr
}
