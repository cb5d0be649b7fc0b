package speechkit

import "github.com/voicebridge/speechkit/pkg/errorsx"

// Credentials authenticate a session against the backend. They are
// always supplied by the caller; the session never reads the
// environment or files itself.
type Credentials struct {
	APIKey   string
	FolderID string
}

func (c Credentials) Validate() error {
	if c.FolderID == "" {
		return &errorsx.ConfigurationError{
			Msg: "folder id is required",
		}
	}
	if c.APIKey == "" {
		return &errorsx.AuthenticationError{
			Msg: "api key is required",
		}
	}
	return nil
}
