package waba

import "fmt"

// SendMessageRequest is the payload for sending a text message.
type SendMessageRequest struct {
	MessagingProduct string      `json:"messaging_product"`
	RecipientType    string      `json:"recipient_type"`
	To               string      `json:"to"`
	Type             string      `json:"type"`
	Text             TextContent `json:"text"`
}

// TextContent holds a text message body.
type TextContent struct {
	Body string `json:"body"`
}

// SendMessageResponse is the response from the send message API.
type SendMessageResponse struct {
	MessagingProduct string            `json:"messaging_product"`
	Contacts         []ResponseContact `json:"contacts,omitempty"`
	Messages         []ResponseMessage `json:"messages,omitempty"`
}

type ResponseContact struct {
	Input string `json:"input"`
	WaID  string `json:"wa_id"`
}

type ResponseMessage struct {
	ID string `json:"id"`
}

// GraphError is the structured error body returned by the Graph API.
type GraphError struct {
	Error GraphErrorDetail `json:"error"`
}

type GraphErrorDetail struct {
	Message      string `json:"message"`
	Type         string `json:"type"`
	Code         int    `json:"code"`
	ErrorSubcode int    `json:"error_subcode,omitempty"`
	FBTraceID    string `json:"fbtrace_id,omitempty"`
}

// APIError describes a non-2xx answer from the send API. SendText returns it
// as the Err of a richerrors.Error.
type APIError struct {
	StatusCode int
	// Graph is set when the body carried a structured Graph error.
	Graph *GraphErrorDetail
	// Body is the raw (truncated) response body.
	Body string
}

func (e *APIError) Error() string {
	if e.Graph != nil && e.Graph.Message != "" {
		return fmt.Sprintf("send API returned status code %d: %s", e.StatusCode, e.Graph.Message)
	}
	return fmt.Sprintf("send API returned status code %d: %s", e.StatusCode, e.Body)
}
