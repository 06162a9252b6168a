package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

const (
	// DefaultVerifyToken is the insecure verification secret used when VERIFY_TOKEN is unset.
	DefaultVerifyToken = "trek_verify_2024"
	// DefaultHuggingFaceURL is a placeholder responder base URL.
	DefaultHuggingFaceURL = "https://your-space.hf.space"
	// DefaultWABAAPIURL is the Graph API base used for the send endpoint.
	DefaultWABAAPIURL = "https://graph.facebook.com/v18.0"
	// DefaultResponderContext is the context label sent with every responder request.
	DefaultResponderContext = "WhatsApp Business API"
)

// Settings contains the application config
type Settings struct {
	Port        int    `env:"PORT"`
	MonPort     int    `env:"MON_PORT"`
	EnablePprof bool   `env:"ENABLE_PPROF"`
	LogLevel    string `env:"LOG_LEVEL"`
	ServiceName string `env:"SERVICE_NAME"`

	VerifyToken      string        `env:"VERIFY_TOKEN"`
	HuggingFaceURL   string        `env:"HUGGING_FACE_URL"`
	ResponderContext string        `env:"RESPONDER_CONTEXT"`
	ResponderTimeout time.Duration `env:"RESPONDER_TIMEOUT"`

	WABAAccessToken string `env:"WABA_ACCESS_TOKEN"`
	PhoneNumberID   string `env:"PHONE_NUMBER_ID"`
	WABAAPIURL      string `env:"WABA_API_URL"`
	// WABAAppSecret enables X-Hub-Signature-256 checks on inbound events when set.
	WABAAppSecret string `env:"WABA_APP_SECRET"`

	MaxRelaysPerEvent int           `env:"MAX_RELAYS_PER_EVENT"`
	MaxInFlightRelays int64         `env:"MAX_INFLIGHT_RELAYS"`
	DedupWindow       time.Duration `env:"DEDUP_WINDOW"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT"`
}

// SetDefaults fills every unset optional field with its default value.
func (s *Settings) SetDefaults() {
	if s.Port == 0 {
		s.Port = 3000
	}
	if s.MonPort == 0 {
		s.MonPort = 8888
	}
	if s.LogLevel == "" {
		s.LogLevel = "info"
	}
	if s.ServiceName == "" {
		s.ServiceName = "waba-relay"
	}
	if s.VerifyToken == "" {
		s.VerifyToken = DefaultVerifyToken
	}
	if s.HuggingFaceURL == "" {
		s.HuggingFaceURL = DefaultHuggingFaceURL
	}
	if s.ResponderContext == "" {
		s.ResponderContext = DefaultResponderContext
	}
	if s.ResponderTimeout <= 0 {
		s.ResponderTimeout = 30 * time.Second
	}
	if s.WABAAPIURL == "" {
		s.WABAAPIURL = DefaultWABAAPIURL
	}
	if s.MaxRelaysPerEvent < 1 {
		s.MaxRelaysPerEvent = 4
	}
	if s.MaxInFlightRelays < 1 {
		s.MaxInFlightRelays = 64
	}
	if s.DedupWindow < 0 {
		s.DedupWindow = 0
	}
	if s.ShutdownTimeout <= 0 {
		s.ShutdownTimeout = 15 * time.Second
	}
}

// Validate checks that required settings are present and URLs parse.
func (s *Settings) Validate() error {
	var errs []error
	if s.WABAAccessToken == "" {
		errs = append(errs, errors.New("WABA_ACCESS_TOKEN is required"))
	}
	if s.PhoneNumberID == "" {
		errs = append(errs, errors.New("PHONE_NUMBER_ID is required"))
	}
	if _, err := url.ParseRequestURI(s.HuggingFaceURL); err != nil {
		errs = append(errs, fmt.Errorf("invalid HUGGING_FACE_URL: %w", err))
	}
	if _, err := url.ParseRequestURI(s.WABAAPIURL); err != nil {
		errs = append(errs, fmt.Errorf("invalid WABA_API_URL: %w", err))
	}
	return errors.Join(errs...)
}

// UsesDefaultVerifyToken reports whether the webhook secret is still the built-in default.
func (s *Settings) UsesDefaultVerifyToken() bool {
	return s.VerifyToken == DefaultVerifyToken
}
