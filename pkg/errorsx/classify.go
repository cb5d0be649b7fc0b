package errorsx

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Classify maps a transport-level failure onto the error taxonomy.
// Already-classified errors pass through unchanged; the result decides
// retry eligibility:
//
//	UNAUTHENTICATED    -> AuthenticationError   (no retry)
//	UNAVAILABLE        -> NetworkError          (retry)
//	DEADLINE_EXCEEDED  -> TimeoutError          (retry)
//	RESOURCE_EXHAUSTED -> APIError, rate limit  (retry)
//	INVALID_ARGUMENT   -> APIError              (no retry)
//	INTERNAL+RST_STREAM-> NetworkError          (retry)
//	anything else      -> APIError              (retry)
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var r retryer
	if errors.As(err, &r) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Err: err}
	}

	st, ok := status.FromError(err)
	if !ok {
		return &NetworkError{Err: err}
	}
	details := st.Message()
	switch st.Code() {
	case codes.Unauthenticated:
		return &AuthenticationError{Msg: details, Err: err}
	case codes.Unavailable:
		return &NetworkError{Msg: "service unavailable: " + details, Err: err}
	case codes.DeadlineExceeded:
		return &TimeoutError{Msg: details, Err: err}
	case codes.ResourceExhausted:
		return &APIError{Msg: "rate limit exceeded: " + details, Err: err, Retry: true, RateLimit: true}
	case codes.InvalidArgument:
		return &APIError{Msg: "invalid request: " + details, Err: err, Retry: false}
	case codes.Internal:
		if strings.Contains(details, "RST_STREAM") {
			return &NetworkError{Msg: "connection reset: " + details, Err: err}
		}
		return &APIError{Msg: details, Err: err, Retry: true}
	default:
		return &APIError{Msg: st.Code().String() + ": " + details, Err: err, Retry: true}
	}
}
