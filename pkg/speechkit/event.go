package speechkit

// EventType discriminates the transcript event union.
type EventType string

const (
	EventInterim     EventType = "interim_transcript"
	EventFinal       EventType = "final_transcript"
	EventEndOfSpeech EventType = "end_of_speech"
	EventStatus      EventType = "status_update"
)

// TranscriptEvent is one normalized recognition event. Text,
// Confidence and the time offsets are only meaningful for the
// transcript kinds; StatusCode and StatusMessage only for EventStatus.
type TranscriptEvent struct {
	Type       EventType
	Text       string
	Language   string
	Confidence float64
	StartTime  float64
	EndTime    float64

	StatusCode    int32
	StatusMessage string
}

func (e TranscriptEvent) IsFinal() bool { return e.Type == EventFinal }
