package responder

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

const (
	chatPath = "/chat"
	// maximum response body size kept for error logging
	maxErrorBodySize = 1024
)

// ErrUnavailable is returned when the responder answers with a non-200 status.
var ErrUnavailable = errors.New("responder unavailable")

// ChatRequest is the body sent to the responder's chat endpoint.
type ChatRequest struct {
	Message        string `json:"message"`
	UserID         string `json:"user_id"`
	Context        string `json:"context"`
	ConversationID string `json:"conversation_id"`
}

// ChatResponse is the responder's reply. Either field may carry the text.
type ChatResponse struct {
	Response string `json:"response"`
	Message  string `json:"message"`
}

// Reply returns the first non-empty reply field, or "" when neither is set.
func (r *ChatResponse) Reply() string {
	if r == nil {
		return ""
	}
	if r.Response != "" {
		return r.Response
	}
	return r.Message
}

// StatusError carries the status code of a non-200 responder answer.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("responder returned status code %d: %s", e.StatusCode, e.Body)
}

// Unwrap lets callers match StatusError with errors.Is(err, ErrUnavailable).
func (e *StatusError) Unwrap() error {
	return ErrUnavailable
}

// Client for the natural-language responder service.
type Client struct {
	chatURL    string
	httpClient *http.Client
}

// New creates a new Client for the responder at baseURL.
func New(baseURL string, timeout time.Duration) (*Client, error) {
	parsedURL, err := url.ParseRequestURI(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse responder URL: %w", err)
	}
	return &Client{
		chatURL:    parsedURL.JoinPath(chatPath).String(),
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// Chat posts the request to the responder and decodes its reply.
// A 200 answer whose body cannot be decoded yields an empty ChatResponse.
func (c *Client) Chat(ctx context.Context, chatReq ChatRequest) (*ChatResponse, error) {
	body, err := json.Marshal(chatReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.chatURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to POST to responder: %w", err)
	}
	defer resp.Body.Close() // nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var chatResp ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("Responder returned an undecodable body")
		return &ChatResponse{}, nil
	}
	return &chatResp, nil
}
