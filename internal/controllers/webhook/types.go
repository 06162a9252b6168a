package webhook

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const (
	// BusinessAccountObject is the discriminator of WhatsApp Business Account events.
	BusinessAccountObject = "whatsapp_business_account"
	// EventReceived is the acknowledgement body for accepted events.
	EventReceived = "EVENT_RECEIVED"
)

// Event is the top-level webhook delivery pushed by the platform.
type Event struct {
	// Object identifies the kind of payload.
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

// Entry represents one business account entry.
type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

// Change wraps a single change notification.
type Change struct {
	Field string      `json:"field"`
	Value ChangeValue `json:"value"`
}

// ChangeValue holds the message and status data.
type ChangeValue struct {
	MessagingProduct string    `json:"messaging_product"`
	Metadata         Metadata  `json:"metadata"`
	Contacts         []Contact `json:"contacts,omitempty"`
	Messages         []Message `json:"messages,omitempty"`
	Statuses         []Status  `json:"statuses,omitempty"`
}

// Metadata about the receiving phone number.
type Metadata struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	PhoneNumberID      string `json:"phone_number_id"`
}

type Contact struct {
	Profile ContactProfile `json:"profile"`
	WaID    string         `json:"wa_id"`
}

type ContactProfile struct {
	Name string `json:"name"`
}

// Message is an inbound user message.
type Message struct {
	From      string       `json:"from"`
	ID        string       `json:"id"`
	Timestamp Timestamp    `json:"timestamp"`
	Type      string       `json:"type"`
	Text      *TextContent `json:"text,omitempty"`
}

// Body returns the text body, or "" for non-text messages.
func (m Message) Body() string {
	if m.Text == nil {
		return ""
	}
	return m.Text.Body
}

type TextContent struct {
	Body string `json:"body"`
}

// Status is a delivery status update for a previously sent message.
type Status struct {
	ID          string    `json:"id"`
	Status      string    `json:"status"`
	Timestamp   Timestamp `json:"timestamp"`
	RecipientID string    `json:"recipient_id"`
}

// Timestamp accepts both JSON strings and numbers.
type Timestamp string

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*t = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Timestamp(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("invalid timestamp %s: %w", data, err)
		}
		*t = Timestamp(n.String())
	}
	return nil
}

// TestMessageRequest is the payload of the manual send endpoint.
type TestMessageRequest struct {
	// To is the recipient phone number, optionally prefixed with "whatsapp:" and "+".
	To string `json:"to"`
	// Message is the text to deliver.
	Message string `json:"message"`
}

// TestMessageResponse reports the outcome of a manual send.
type TestMessageResponse struct {
	Success bool `json:"success"`
	// Data is the platform's send response on success.
	Data any `json:"data,omitempty"`
	// Error is the failure message.
	Error string `json:"error,omitempty"`
}
