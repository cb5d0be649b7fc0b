package speechkit

import (
	"context"

	"github.com/voicebridge/speechkit/pkg/frames"
)

// Recognize performs batch recognition over a complete PCM buffer by
// running a streaming session to completion and returning the first
// final transcript. The backend focuses on streaming, so batch is a
// thin wrapper.
func Recognize(ctx context.Context, cfg SessionConfig, creds Credentials, pcm []byte, opts ...Option) (TranscriptEvent, error) {
	sess, err := NewSession(ctx, cfg, creds, opts...)
	if err != nil {
		return TranscriptEvent{}, err
	}
	defer sess.Close()

	// 100ms worth of 16-bit mono samples per frame.
	chunk := cfg.SampleRate / 10 * 2
	if chunk <= 0 {
		chunk = 3200
	}
	for off := 0; off < len(pcm); off += chunk {
		end := off + chunk
		if end > len(pcm) {
			end = len(pcm)
		}
		frame := frames.NewAudioFrame(pcm[off:end], cfg.SampleRate, 1, nil)
		if err := sess.PushFrame(frame); err != nil {
			return TranscriptEvent{}, err
		}
	}
	if err := sess.Flush(); err != nil {
		return TranscriptEvent{}, err
	}

	for ev := range sess.Events() {
		if ev.Type == EventFinal {
			return ev, nil
		}
	}
	if err := sess.Err(); err != nil {
		return TranscriptEvent{}, err
	}
	// No speech recognized; mirror the streaming contract with an
	// empty final rather than an error.
	return TranscriptEvent{Type: EventFinal, Language: cfg.Language}, nil
}
