package server

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"io"
	"net"
	"os"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	coreport "github.com/abdelrahman-aldesoky/bank-server/internal/domain/port/core"
	"github.com/abdelrahman-aldesoky/bank-server/internal/protocol"
)

// SessionState tracks where a connection is in its lifecycle.
type SessionState int32

const (
	StateConnecting SessionState = iota
	StateHandshaking
	StateActive
	StateClosing
	StateClosed
)

const handshakeTimeout = 10 * time.Second

// Session owns one client connection: it reads frames, routes requests, and
// writes responses, strictly one request in flight at a time. An idle timer
// tears the connection down when no request arrives within the configured
// window; each received request re-arms it.
type Session struct {
	id           string
	conn         net.Conn
	router       *Router
	logger       coreport.Logger
	timeProvider coreport.TimeProvider

	idleTimeout time.Duration
	compress    bool

	state   atomic.Int32
	closing atomic.Bool
	onClose func(*Session)
}

// NewSession creates a session for an accepted connection. onClose is invoked
// exactly once when the session finishes, after the connection is released.
func NewSession(
	conn net.Conn,
	router *Router,
	logger coreport.Logger,
	timeProvider coreport.TimeProvider,
	idleTimeout time.Duration,
	compress bool,
	onClose func(*Session),
) *Session {
	id := uuid.NewString()
	return &Session{
		id:   id,
		conn: conn,
		logger: logger.With(map[string]any{
			"session_id":  id,
			"remote_addr": conn.RemoteAddr().String(),
		}),
		router:       router,
		timeProvider: timeProvider,
		idleTimeout:  idleTimeout,
		compress:     compress,
		onClose:      onClose,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// State returns the current lifecycle state.
func (s *Session) State() SessionState {
	return SessionState(s.state.Load())
}

func (s *Session) setState(state SessionState) {
	s.state.Store(int32(state))
}

// Run drives the session until disconnect, idle timeout, or shutdown. It
// never panics the caller: engine and transport failures end at this session.
func (s *Session) Run(ctx context.Context) {
	defer func() {
		s.setState(StateClosed)
		if err := s.conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			s.logger.Debug("Error closing connection", map[string]any{"error": err.Error()})
		}
		s.logger.Info("Session closed", nil)
		if s.onClose != nil {
			s.onClose(s)
		}
	}()

	if tlsConn, ok := s.conn.(*tls.Conn); ok {
		s.setState(StateHandshaking)
		hsCtx, cancel := s.timeProvider.WithTimeout(ctx, handshakeTimeout)
		err := tlsConn.HandshakeContext(hsCtx)
		cancel()
		if err != nil {
			s.logger.Warn("TLS handshake failed", map[string]any{"error": err.Error()})
			return
		}
		s.logger.Info("TLS handshake completed", map[string]any{
			"version":      tlsConn.ConnectionState().Version,
			"cipher_suite": tlsConn.ConnectionState().CipherSuite,
		})
	}

	s.setState(StateActive)
	s.logger.Info("Session active", nil)

	for {
		if s.closing.Load() {
			s.setState(StateClosing)
			return
		}

		if err := s.conn.SetReadDeadline(s.timeProvider.Now().Add(s.idleTimeout)); err != nil {
			s.logger.Debug("Failed to set read deadline", map[string]any{"error": err.Error()})
			return
		}

		payload, err := protocol.ReadFrame(s.conn)
		if err != nil {
			s.logReadError(err)
			s.setState(StateClosing)
			return
		}

		// The deadline is cleared while a request is in flight: an operation
		// always runs to completion before teardown.
		_ = s.conn.SetReadDeadline(time.Time{})

		response := s.router.Dispatch(ctx, payload)
		if err := s.writeResponse(response); err != nil {
			s.logger.Warn("Failed to write response", map[string]any{"error": err.Error()})
			s.setState(StateClosing)
			return
		}
	}
}

// Close asks the session to stop after its current request. The read deadline
// is forced so a session blocked on an idle connection wakes immediately.
func (s *Session) Close() {
	if s.closing.Swap(true) {
		return
	}
	_ = s.conn.SetReadDeadline(time.Unix(1, 0))
}

func (s *Session) writeResponse(response any) error {
	payload, err := json.Marshal(response)
	if err != nil {
		return err
	}

	if s.compress {
		payload, err = protocol.Compress(payload)
		if err != nil {
			return err
		}
	}

	return protocol.WriteFrame(s.conn, payload)
}

func (s *Session) logReadError(err error) {
	switch {
	case errors.Is(err, io.EOF):
		s.logger.Info("Client disconnected", nil)
	case errors.Is(err, os.ErrDeadlineExceeded):
		if s.closing.Load() {
			s.logger.Info("Session stopping for shutdown", nil)
		} else {
			s.logger.Info("Client idle, disconnecting", map[string]any{
				"idle_timeout": s.idleTimeout.String(),
			})
		}
	case errors.Is(err, protocol.ErrFrameTooLarge), errors.Is(err, protocol.ErrEmptyFrame):
		s.logger.Warn("Protocol violation, disconnecting", map[string]any{"error": err.Error()})
	default:
		s.logger.Warn("Read failed", map[string]any{"error": err.Error()})
	}
}
