package frames

import "sync"

type Kind string

const (
	KindAudio Kind = "audio"
	KindFlush Kind = "flush"
)

const (
	MetaSessionID = "session_id"
	MetaSource    = "source"
	MetaReason    = "reason"
)

// Frame is the element type of a session's input queue. The concrete
// variant is discriminated by Kind, never by runtime type-name checks.
type Frame interface {
	Kind() Kind
	Meta() map[string]string
}

// AudioFrame carries one buffer of raw PCM samples.
type AudioFrame struct {
	data    []byte
	rate    int
	ch      int
	samples int
	meta    map[string]string
	pooled  bool
}

func NewAudioFrame(data []byte, rate, ch int, meta map[string]string) AudioFrame {
	if ch <= 0 {
		ch = 1
	}
	return AudioFrame{
		data:    data,
		rate:    rate,
		ch:      ch,
		samples: len(data) / (2 * ch),
		meta:    cloneMeta(meta),
	}
}

// NewAudioFrameFromPool copies data into a pooled buffer. Callers that
// push frames at a high rate should release them with ReleaseAudioFrame
// once the frame is no longer referenced.
func NewAudioFrameFromPool(data []byte, rate, ch int, meta map[string]string) AudioFrame {
	buf := AcquireAudioBuf(len(data))
	copy(buf, data)
	f := NewAudioFrame(buf, rate, ch, meta)
	f.pooled = true
	return f
}

func (a AudioFrame) Kind() Kind              { return KindAudio }
func (a AudioFrame) Meta() map[string]string { return cloneMeta(a.meta) }
func (a AudioFrame) Data() []byte            { return append([]byte(nil), a.data...) }
func (a AudioFrame) RawPayload() []byte      { return a.data }
func (a AudioFrame) Rate() int               { return a.rate }
func (a AudioFrame) Channels() int           { return a.ch }
func (a AudioFrame) Samples() int            { return a.samples }

func ReleaseAudioFrame(f Frame) bool {
	af, ok := f.(AudioFrame)
	if !ok {
		if ap, ok := f.(*AudioFrame); ok {
			af = *ap
		} else {
			return false
		}
	}
	if af.pooled {
		ReleaseAudioBuf(af.data)
		return true
	}
	return false
}

// FlushMarker signals "no more audio in this segment". It is a distinct
// tagged variant rather than a sentinel AudioFrame so queue consumers
// can switch on Kind.
type FlushMarker struct {
	meta map[string]string
}

func NewFlushMarker(meta map[string]string) FlushMarker {
	return FlushMarker{meta: cloneMeta(meta)}
}

func (f FlushMarker) Kind() Kind              { return KindFlush }
func (f FlushMarker) Meta() map[string]string { return cloneMeta(f.meta) }

var audioBufPool = sync.Pool{
	New: func() any {
		return make([]byte, 0, 4096)
	},
}

func AcquireAudioBuf(size int) []byte {
	b := audioBufPool.Get().([]byte)
	if cap(b) < size {
		return make([]byte, size)
	}
	return b[:size]
}

func ReleaseAudioBuf(b []byte) {
	audioBufPool.Put(b[:0])
}

func cloneMeta(meta map[string]string) map[string]string {
	if meta == nil {
		return nil
	}
	out := make(map[string]string, len(meta))
	for k, v := range meta {
		out[k] = v
	}
	return out
}
