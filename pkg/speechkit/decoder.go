package speechkit

import (
	"fmt"
	"log/slog"
	"strings"

	stt "github.com/yandex-cloud/go-genproto/yandex/cloud/ai/stt/v3"
)

// responseDecoder turns backend streaming responses into normalized
// transcript events. It returns nil for responses that produce no
// caller-visible event: empty alternative lists, whitespace-only final
// transcripts, and response variants this client does not know.
type responseDecoder struct {
	language string
	logger   *slog.Logger
}

func newResponseDecoder(cfg SessionConfig, logger *slog.Logger) *responseDecoder {
	language := cfg.Language
	if language == "" {
		language = DefaultLanguage
	}
	return &responseDecoder{language: language, logger: logger}
}

func (d *responseDecoder) decode(resp *stt.StreamingResponse) *TranscriptEvent {
	switch event := resp.GetEvent().(type) {
	case *stt.StreamingResponse_Partial:
		return d.transcriptEvent(EventInterim, event.Partial.GetAlternatives(), false)

	case *stt.StreamingResponse_Final:
		return d.transcriptEvent(EventFinal, event.Final.GetAlternatives(), true)

	case *stt.StreamingResponse_FinalRefinement:
		// Normalized text supersedes the raw final for the same index.
		normalized := event.FinalRefinement.GetNormalizedText()
		if normalized == nil {
			return nil
		}
		return d.transcriptEvent(EventFinal, normalized.GetAlternatives(), true)

	case *stt.StreamingResponse_EouUpdate:
		return &TranscriptEvent{Type: EventEndOfSpeech, Language: d.language}

	case *stt.StreamingResponse_StatusCode:
		return &TranscriptEvent{
			Type:          EventStatus,
			Language:      d.language,
			StatusCode:    int32(event.StatusCode.GetCodeType()),
			StatusMessage: event.StatusCode.GetMessage(),
		}

	default:
		if d.logger != nil {
			d.logger.Debug("unrecognized streaming response variant",
				slog.String("variant", fmt.Sprintf("%T", event)))
		}
		return nil
	}
}

// transcriptEvent extracts the first-ranked alternative. Confidence and
// time offsets default to zero; the backend frequently omits them for
// interim results.
func (d *responseDecoder) transcriptEvent(kind EventType, alternatives []*stt.Alternative, filterEmpty bool) *TranscriptEvent {
	if len(alternatives) == 0 {
		return nil
	}
	best := alternatives[0]
	if filterEmpty && strings.TrimSpace(best.GetText()) == "" {
		if d.logger != nil {
			d.logger.Debug("suppressing empty final transcript")
		}
		return nil
	}
	return &TranscriptEvent{
		Type:       kind,
		Text:       best.GetText(),
		Language:   d.language,
		Confidence: best.GetConfidence(),
		StartTime:  float64(best.GetStartTimeMs()) / 1000.0,
		EndTime:    float64(best.GetEndTimeMs()) / 1000.0,
	}
}
