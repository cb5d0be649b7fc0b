package speechkit

import (
	stt "github.com/yandex-cloud/go-genproto/yandex/cloud/ai/stt/v3"
)

// requestEncoder builds the two outbound message kinds. The session
// options request must be the first message on every stream; sending a
// chunk before it is a programming error and panics.
type requestEncoder struct {
	cfg         SessionConfig
	optionsSent bool
}

func newRequestEncoder(cfg SessionConfig) *requestEncoder {
	return &requestEncoder{cfg: cfg}
}

func (e *requestEncoder) sessionRequest() *stt.StreamingRequest {
	if e.optionsSent {
		panic("speechkit: session options encoded twice on one stream")
	}
	e.optionsSent = true
	return &stt.StreamingRequest{
		Event: &stt.StreamingRequest_SessionOptions{
			SessionOptions: buildStreamingOptions(e.cfg),
		},
	}
}

func (e *requestEncoder) chunkRequest(pcm []byte) *stt.StreamingRequest {
	if !e.optionsSent {
		panic("speechkit: audio chunk encoded before session options")
	}
	if len(pcm) == 0 {
		panic("speechkit: empty audio chunk")
	}
	return &stt.StreamingRequest{
		Event: &stt.StreamingRequest_Chunk{
			Chunk: &stt.AudioChunk{Data: pcm},
		},
	}
}

func buildStreamingOptions(cfg SessionConfig) *stt.StreamingOptions {
	model := &stt.RecognitionModelOptions{
		Model: cfg.Model,
		AudioFormat: &stt.AudioFormatOptions{
			AudioFormat: &stt.AudioFormatOptions_RawAudio{
				RawAudio: &stt.RawAudio{
					AudioEncoding:     stt.RawAudio_LINEAR16_PCM,
					SampleRateHertz:   int64(cfg.SampleRate),
					AudioChannelCount: 1,
				},
			},
		},
		TextNormalization: &stt.TextNormalizationOptions{
			TextNormalization: stt.TextNormalizationOptions_TEXT_NORMALIZATION_ENABLED,
			ProfanityFilter:   cfg.ProfanityFilter,
			LiteratureText:    false,
		},
		AudioProcessingType: stt.RecognitionModelOptions_REAL_TIME,
	}

	if cfg.Language != "" && !cfg.DetectLanguage {
		model.LanguageRestriction = &stt.LanguageRestrictionOptions{
			RestrictionType: stt.LanguageRestrictionOptions_WHITELIST,
			LanguageCode:    []string{cfg.Language},
		}
	}

	return &stt.StreamingOptions{RecognitionModel: model}
}
