package speechkit

import (
	"errors"
	"testing"

	"github.com/voicebridge/speechkit/pkg/errorsx"
)

func TestDefaultSessionConfigValid(t *testing.T) {
	cfg := DefaultSessionConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected default config valid, got %v", err)
	}
	if cfg.Model != ModelGeneral || cfg.Language != DefaultLanguage {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestValidateFillsDefaults(t *testing.T) {
	cfg := SessionConfig{SampleRate: 16000}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Model != ModelGeneral {
		t.Fatalf("expected default model, got %q", cfg.Model)
	}
	if cfg.Encoding != EncodingLinear16PCM {
		t.Fatalf("expected default encoding, got %q", cfg.Encoding)
	}
	if cfg.Endpoint != DefaultEndpoint {
		t.Fatalf("expected default endpoint, got %q", cfg.Endpoint)
	}
}

func TestLanguageAndDetectAreExclusive(t *testing.T) {
	cfg := DefaultSessionConfig()
	cfg.SetDetectLanguage()
	if cfg.Language != "" || !cfg.DetectLanguage {
		t.Fatalf("expected detection to clear language, got %+v", cfg)
	}
	cfg.SetLanguage("en-US")
	if cfg.DetectLanguage || cfg.Language != "en-US" {
		t.Fatalf("expected language to clear detection, got %+v", cfg)
	}

	// Both set by hand: normalization resolves toward detection.
	cfg = SessionConfig{SampleRate: 16000, Language: "ru-RU", DetectLanguage: true}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Language != "" {
		t.Fatalf("expected language cleared when detection enabled, got %q", cfg.Language)
	}
}

func TestSetLanguageNormalizesAliases(t *testing.T) {
	cfg := DefaultSessionConfig()
	cfg.SetLanguage("en")
	if cfg.Language != "en-US" {
		t.Fatalf("expected alias normalized to en-US, got %q", cfg.Language)
	}
	cfg.SetLanguage("russian")
	if cfg.Language != "ru-RU" {
		t.Fatalf("expected alias normalized to ru-RU, got %q", cfg.Language)
	}
}

func TestValidateRejectsUnsupportedSampleRate(t *testing.T) {
	for _, rate := range []int{0, 11025, 22050, 44100} {
		cfg := DefaultSessionConfig()
		cfg.SampleRate = rate
		err := cfg.Validate()
		var formatErr *errorsx.AudioFormatError
		if !errors.As(err, &formatErr) {
			t.Fatalf("rate %d: expected AudioFormatError, got %v", rate, err)
		}
	}
	for _, rate := range SupportedSampleRates {
		cfg := DefaultSessionConfig()
		cfg.SampleRate = rate
		if err := cfg.Validate(); err != nil {
			t.Fatalf("rate %d: unexpected error: %v", rate, err)
		}
	}
}

func TestValidateRejectsUnsupportedEncoding(t *testing.T) {
	cfg := DefaultSessionConfig()
	cfg.Encoding = "OGG_OPUS"
	err := cfg.Validate()
	var formatErr *errorsx.AudioFormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("expected AudioFormatError, got %v", err)
	}
}

func TestValidateRejectsUnknownLanguage(t *testing.T) {
	cfg := DefaultSessionConfig()
	cfg.Language = "xx-XX"
	err := cfg.Validate()
	var confErr *errorsx.ConfigurationError
	if !errors.As(err, &confErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
}

func TestSupportedLanguage(t *testing.T) {
	for _, code := range []string{"ru-RU", "en-US", "de", "ja", "en", "russian"} {
		if !SupportedLanguage(code) {
			t.Fatalf("expected %q supported", code)
		}
	}
	if SupportedLanguage("tlh") {
		t.Fatalf("expected unknown code rejected")
	}
}

func TestCredentialsValidate(t *testing.T) {
	err := Credentials{}.Validate()
	var confErr *errorsx.ConfigurationError
	if !errors.As(err, &confErr) {
		t.Fatalf("expected missing folder id first, got %v", err)
	}

	err = Credentials{FolderID: "b1gfolder"}.Validate()
	var authErr *errorsx.AuthenticationError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthenticationError for missing api key, got %v", err)
	}

	if err := (Credentials{APIKey: "key", FolderID: "b1gfolder"}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
