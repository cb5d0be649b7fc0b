package errorsx

// ReasonCode is a short machine-readable error reason.
type ReasonCode string

const (
	ReasonUnknown ReasonCode = "unknown"

	ReasonConnect     ReasonCode = "stt_connect"
	ReasonSend        ReasonCode = "stt_send"
	ReasonReceive     ReasonCode = "stt_receive"
	ReasonRetry       ReasonCode = "stt_retry"
	ReasonRateLimit   ReasonCode = "stt_rate_limit"
	ReasonCircuitOpen ReasonCode = "stt_circuit_open"
	ReasonAudioFormat ReasonCode = "stt_audio_format"
	ReasonConfig      ReasonCode = "stt_config"
	ReasonAuth        ReasonCode = "stt_auth"
	ReasonTimeout     ReasonCode = "stt_timeout"
)
