package speechkit

import (
	"context"
	"crypto/tls"
	"log/slog"
	"sync"
	"time"

	stt "github.com/yandex-cloud/go-genproto/yandex/cloud/ai/stt/v3"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/metadata"

	"github.com/voicebridge/speechkit/pkg/errorsx"
)

const (
	// streamTimeout bounds one recognition stream; long-running agent
	// sessions reconnect well before this.
	streamTimeout = time.Hour

	maxMessageSize = 4 * 1024 * 1024
)

// recognizerStream is the bidirectional stream surface the session
// drives. The gRPC client stream satisfies it; tests substitute fakes.
type recognizerStream interface {
	Send(*stt.StreamingRequest) error
	Recv() (*stt.StreamingResponse, error)
	CloseSend() error
}

// streamOpener owns the transport lifecycle: each open yields a fresh
// stream, and the whole connection is the unit of retry.
type streamOpener interface {
	open(ctx context.Context) (recognizerStream, error)
	close() error
}

// connectionManager dials the recognizer endpoint over TLS, attaches
// authentication metadata per call and classifies transport failures.
type connectionManager struct {
	endpoint string
	creds    Credentials
	logger   *slog.Logger

	mu     sync.Mutex
	conn   *grpc.ClientConn
	cancel context.CancelFunc
}

func newConnectionManager(cfg SessionConfig, creds Credentials, logger *slog.Logger) *connectionManager {
	return &connectionManager{
		endpoint: cfg.Endpoint,
		creds:    creds,
		logger:   logger,
	}
}

func (m *connectionManager) open(ctx context.Context) (recognizerStream, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn == nil {
		conn, err := grpc.NewClient(m.endpoint,
			grpc.WithTransportCredentials(credentials.NewTLS(&tls.Config{MinVersion: tls.VersionTLS12})),
			grpc.WithKeepaliveParams(keepalive.ClientParameters{
				Time:                60 * time.Second,
				Timeout:             10 * time.Second,
				PermitWithoutStream: true,
			}),
			grpc.WithDefaultCallOptions(
				grpc.MaxCallRecvMsgSize(maxMessageSize),
				grpc.MaxCallSendMsgSize(maxMessageSize),
			),
		)
		if err != nil {
			return nil, errorsx.Wrap(&errorsx.NetworkError{Msg: "dial " + m.endpoint, Err: err}, errorsx.ReasonConnect)
		}
		m.conn = conn
		m.logger.Debug("created grpc connection", slog.String("endpoint", m.endpoint))
	}

	callCtx, cancel := context.WithTimeout(ctx, streamTimeout)
	callCtx = metadata.AppendToOutgoingContext(callCtx,
		"authorization", "Api-Key "+m.creds.APIKey,
		"x-folder-id", m.creds.FolderID,
	)

	stream, err := stt.NewRecognizerClient(m.conn).RecognizeStreaming(callCtx)
	if err != nil {
		cancel()
		return nil, errorsx.Wrap(errorsx.Classify(err), errorsx.ReasonConnect)
	}
	m.cancel = cancel
	return stream, nil
}

// close tears the connection down, tolerating a connection already
// closed by the peer.
func (m *connectionManager) close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	if m.conn == nil {
		return nil
	}
	err := m.conn.Close()
	m.conn = nil
	if err != nil {
		m.logger.Warn("error closing grpc connection", slog.String("error", err.Error()))
	}
	return nil
}
