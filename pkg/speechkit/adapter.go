package speechkit

import (
	"fmt"

	"github.com/voicebridge/speechkit/pkg/errorsx"
	"github.com/voicebridge/speechkit/pkg/frames"
)

// frameAdapter turns queue frames into wire-ready PCM payloads. It
// validates the sample rate against the session's fixed format; the
// session does not resample.
type frameAdapter struct {
	sampleRate int
	seen       int
}

func newFrameAdapter(sampleRate int) *frameAdapter {
	return &frameAdapter{sampleRate: sampleRate}
}

// adapt returns the raw PCM payload for an audio frame. A rate
// mismatch yields an AudioFormatError; whether that is fatal is the
// caller's call (it is, when firstFrame reports true). A frame with no
// samples adapts to nil, and nil payloads are never sent as chunks.
func (a *frameAdapter) adapt(f frames.AudioFrame) ([]byte, error) {
	a.seen++
	if f.Rate() != a.sampleRate {
		return nil, &errorsx.AudioFormatError{
			Msg: fmt.Sprintf("frame sample rate %dHz does not match session rate %dHz", f.Rate(), a.sampleRate),
		}
	}
	payload := f.RawPayload()
	if len(payload) == 0 {
		return nil, nil
	}
	return payload, nil
}

// firstFrame reports whether the frame just adapted was the very first
// one pushed into the session.
func (a *frameAdapter) firstFrame() bool { return a.seen == 1 }
