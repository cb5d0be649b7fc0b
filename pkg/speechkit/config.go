package speechkit

import (
	"fmt"

	"github.com/voicebridge/speechkit/pkg/errorsx"
)

// EncodingLinear16PCM is the only audio encoding the streaming session
// sends; resampling and transcoding are the caller's responsibility.
const EncodingLinear16PCM = "LINEAR16_PCM"

// DefaultEndpoint is the public SpeechKit STT v3 gRPC endpoint.
const DefaultEndpoint = "stt.api.cloud.yandex.net:443"

// SessionConfig is fixed for the lifetime of a session. Language and
// DetectLanguage are mutually exclusive; use SetLanguage or
// SetDetectLanguage so setting one clears the other.
type SessionConfig struct {
	Model           string
	Language        string
	DetectLanguage  bool
	InterimResults  bool
	ProfanityFilter bool
	SampleRate      int
	Encoding        string
	Endpoint        string
}

func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		Model:          ModelGeneral,
		Language:       DefaultLanguage,
		InterimResults: true,
		SampleRate:     16000,
		Encoding:       EncodingLinear16PCM,
		Endpoint:       DefaultEndpoint,
	}
}

// SetLanguage pins recognition to one language and disables detection.
func (c *SessionConfig) SetLanguage(language string) {
	c.Language = NormalizeLanguage(language)
	c.DetectLanguage = false
}

// SetDetectLanguage enables automatic language detection, clearing any
// pinned language.
func (c *SessionConfig) SetDetectLanguage() {
	c.DetectLanguage = true
	c.Language = ""
}

// normalize fills defaults and enforces the language exclusivity
// invariant in place.
func (c *SessionConfig) normalize() {
	if c.Model == "" {
		c.Model = ModelGeneral
	}
	if c.Encoding == "" {
		c.Encoding = EncodingLinear16PCM
	}
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if c.DetectLanguage {
		c.Language = ""
	} else if c.Language != "" {
		c.Language = NormalizeLanguage(c.Language)
	}
}

func (c *SessionConfig) validate() error {
	if !supportedSampleRate(c.SampleRate) {
		return &errorsx.AudioFormatError{
			Msg: fmt.Sprintf("unsupported sample rate: %dHz (supported: 8000, 16000, 48000)", c.SampleRate),
		}
	}
	if c.Encoding != EncodingLinear16PCM {
		return &errorsx.AudioFormatError{
			Msg: fmt.Sprintf("unsupported audio encoding: %s", c.Encoding),
		}
	}
	if !c.DetectLanguage && c.Language != "" && !SupportedLanguage(c.Language) {
		return &errorsx.ConfigurationError{
			Msg: fmt.Sprintf("unsupported language code: %s", c.Language),
		}
	}
	return nil
}

// Validate normalizes the config and reports the first violation.
func (c *SessionConfig) Validate() error {
	c.normalize()
	return c.validate()
}
