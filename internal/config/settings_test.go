package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings_SetDefaults(t *testing.T) {
	t.Parallel()

	t.Run("empty settings get defaults", func(t *testing.T) {
		var s Settings
		s.SetDefaults()

		assert.Equal(t, 3000, s.Port)
		assert.Equal(t, 8888, s.MonPort)
		assert.Equal(t, "info", s.LogLevel)
		assert.Equal(t, "waba-relay", s.ServiceName)
		assert.Equal(t, DefaultVerifyToken, s.VerifyToken)
		assert.Equal(t, DefaultHuggingFaceURL, s.HuggingFaceURL)
		assert.Equal(t, DefaultResponderContext, s.ResponderContext)
		assert.Equal(t, 30*time.Second, s.ResponderTimeout)
		assert.Equal(t, DefaultWABAAPIURL, s.WABAAPIURL)
		assert.Equal(t, 4, s.MaxRelaysPerEvent)
		assert.Equal(t, int64(64), s.MaxInFlightRelays)
		assert.Zero(t, s.DedupWindow)
		assert.Equal(t, 15*time.Second, s.ShutdownTimeout)
		assert.True(t, s.UsesDefaultVerifyToken())
	})

	t.Run("explicit values are kept", func(t *testing.T) {
		s := Settings{
			Port:              8080,
			VerifyToken:       "secret",
			HuggingFaceURL:    "https://bot.example.com",
			ResponderTimeout:  5 * time.Second,
			MaxRelaysPerEvent: 2,
			DedupWindow:       time.Minute,
		}
		s.SetDefaults()

		assert.Equal(t, 8080, s.Port)
		assert.Equal(t, "secret", s.VerifyToken)
		assert.Equal(t, "https://bot.example.com", s.HuggingFaceURL)
		assert.Equal(t, 5*time.Second, s.ResponderTimeout)
		assert.Equal(t, 2, s.MaxRelaysPerEvent)
		assert.Equal(t, time.Minute, s.DedupWindow)
		assert.False(t, s.UsesDefaultVerifyToken())
	})
}

func TestSettings_Validate(t *testing.T) {
	t.Parallel()

	valid := func() Settings {
		s := Settings{WABAAccessToken: "token", PhoneNumberID: "12345"}
		s.SetDefaults()
		return s
	}

	t.Run("valid settings", func(t *testing.T) {
		s := valid()
		require.NoError(t, s.Validate())
	})

	t.Run("missing access token", func(t *testing.T) {
		s := valid()
		s.WABAAccessToken = ""
		err := s.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "WABA_ACCESS_TOKEN")
	})

	t.Run("missing phone number id and bad responder url", func(t *testing.T) {
		s := valid()
		s.PhoneNumberID = ""
		s.HuggingFaceURL = "not a url"
		err := s.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "PHONE_NUMBER_ID")
		assert.Contains(t, err.Error(), "HUGGING_FACE_URL")
	})
}
