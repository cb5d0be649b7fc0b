package speechkit

import (
	"testing"

	stt "github.com/yandex-cloud/go-genproto/yandex/cloud/ai/stt/v3"
)

func TestDecodePartialToInterim(t *testing.T) {
	d := newTestDecoder("en-US")
	ev := d.decode(partialResponse("hel", 0.42, 0, 500))
	if ev == nil {
		t.Fatalf("expected interim event")
	}
	if ev.Type != EventInterim || ev.Text != "hel" {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if ev.Language != "en-US" {
		t.Fatalf("expected session language, got %q", ev.Language)
	}
	if ev.IsFinal() {
		t.Fatalf("expected interim not final")
	}
}

func TestDecodeFinalCarriesTiming(t *testing.T) {
	d := newTestDecoder("ru-RU")
	ev := d.decode(finalResponse("привет мир", 0.91, 250, 1750))
	if ev == nil || ev.Type != EventFinal {
		t.Fatalf("expected final event, got %+v", ev)
	}
	if ev.Confidence != 0.91 {
		t.Fatalf("expected confidence 0.91, got %v", ev.Confidence)
	}
	if ev.StartTime != 0.25 || ev.EndTime != 1.75 {
		t.Fatalf("expected millisecond offsets converted to seconds, got %v-%v", ev.StartTime, ev.EndTime)
	}
	if !ev.IsFinal() {
		t.Fatalf("expected IsFinal true")
	}
}

func TestDecodeSuppressesEmptyFinal(t *testing.T) {
	d := newTestDecoder("ru-RU")
	for _, text := range []string{"", "   ", "\t\n"} {
		if ev := d.decode(finalResponse(text, 0, 0, 0)); ev != nil {
			t.Fatalf("expected empty final %q suppressed, got %+v", text, ev)
		}
	}
	// Interim results with empty text are kept; only finals are filtered.
	if ev := d.decode(partialResponse("", 0, 0, 0)); ev == nil {
		t.Fatalf("expected empty interim kept")
	}
}

func TestDecodeFinalRefinementIsFinal(t *testing.T) {
	d := newTestDecoder("ru-RU")
	resp := &stt.StreamingResponse{
		Event: &stt.StreamingResponse_FinalRefinement{
			FinalRefinement: &stt.FinalRefinement{
				Type: &stt.FinalRefinement_NormalizedText{
					NormalizedText: &stt.AlternativeUpdate{
						Alternatives: []*stt.Alternative{{Text: "Привет, мир."}},
					},
				},
			},
		},
	}
	ev := d.decode(resp)
	if ev == nil || ev.Type != EventFinal || ev.Text != "Привет, мир." {
		t.Fatalf("expected refinement surfaced as final, got %+v", ev)
	}
}

func TestDecodeEouUpdate(t *testing.T) {
	d := newTestDecoder("ru-RU")
	resp := &stt.StreamingResponse{
		Event: &stt.StreamingResponse_EouUpdate{EouUpdate: &stt.EouUpdate{TimeMs: 2000}},
	}
	ev := d.decode(resp)
	if ev == nil || ev.Type != EventEndOfSpeech {
		t.Fatalf("expected end-of-speech event, got %+v", ev)
	}
}

func TestDecodeStatusCode(t *testing.T) {
	d := newTestDecoder("ru-RU")
	resp := &stt.StreamingResponse{
		Event: &stt.StreamingResponse_StatusCode{
			StatusCode: &stt.StatusCode{CodeType: stt.CodeType_WORKING, Message: "ok"},
		},
	}
	ev := d.decode(resp)
	if ev == nil || ev.Type != EventStatus {
		t.Fatalf("expected status event, got %+v", ev)
	}
	if ev.StatusCode != int32(stt.CodeType_WORKING) || ev.StatusMessage != "ok" {
		t.Fatalf("unexpected status payload: %+v", ev)
	}
}

func TestDecodeUnknownVariantIgnored(t *testing.T) {
	d := newTestDecoder("ru-RU")
	if ev := d.decode(&stt.StreamingResponse{}); ev != nil {
		t.Fatalf("expected unknown variant to decode to nil, got %+v", ev)
	}
}

func TestDecodeEmptyAlternativesIgnored(t *testing.T) {
	d := newTestDecoder("ru-RU")
	resp := &stt.StreamingResponse{
		Event: &stt.StreamingResponse_Partial{Partial: &stt.AlternativeUpdate{}},
	}
	if ev := d.decode(resp); ev != nil {
		t.Fatalf("expected response without alternatives ignored, got %+v", ev)
	}
}

func newTestDecoder(language string) *responseDecoder {
	cfg := DefaultSessionConfig()
	cfg.SetLanguage(language)
	return newResponseDecoder(cfg, nil)
}

func partialResponse(text string, confidence float64, startMs, endMs int64) *stt.StreamingResponse {
	return &stt.StreamingResponse{
		Event: &stt.StreamingResponse_Partial{
			Partial: &stt.AlternativeUpdate{
				Alternatives: []*stt.Alternative{{
					Text:        text,
					Confidence:  confidence,
					StartTimeMs: startMs,
					EndTimeMs:   endMs,
				}},
			},
		},
	}
}

func finalResponse(text string, confidence float64, startMs, endMs int64) *stt.StreamingResponse {
	return &stt.StreamingResponse{
		Event: &stt.StreamingResponse_Final{
			Final: &stt.AlternativeUpdate{
				Alternatives: []*stt.Alternative{{
					Text:        text,
					Confidence:  confidence,
					StartTimeMs: startMs,
					EndTimeMs:   endMs,
				}},
			},
		},
	}
}
