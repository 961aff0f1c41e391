package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	coreport "github.com/abdelrahman-aldesoky/bank-server/internal/domain/port/core"
)

// DispatcherConfig carries the listener settings.
type DispatcherConfig struct {
	// Addr is the listen address, e.g. ":19908".
	Addr string
	// TLS enables the encrypted transport when non-nil.
	TLS *tls.Config
	// MaxSessions is the admission ceiling; zero means unbounded. Connections
	// above the ceiling are accepted at the transport level and immediately
	// closed.
	MaxSessions int
	// IdleTimeout disconnects a session after this much inactivity.
	IdleTimeout time.Duration
	// Compress enables response compression for all sessions.
	Compress bool
}

// Dispatcher accepts inbound connections, enforces the session ceiling, and
// runs one Session goroutine per accepted connection.
type Dispatcher struct {
	cfg          DispatcherConfig
	router       *Router
	logger       coreport.Logger
	timeProvider coreport.TimeProvider

	listener net.Listener

	mu       sync.Mutex
	sessions map[string]*Session
	wg       sync.WaitGroup

	shuttingDown atomic.Bool
	accepted     atomic.Uint64
	rejected     atomic.Uint64
}

// NewDispatcher creates a dispatcher for the given router.
func NewDispatcher(
	cfg DispatcherConfig,
	router *Router,
	logger coreport.Logger,
	timeProvider coreport.TimeProvider,
) *Dispatcher {
	return &Dispatcher{
		cfg:          cfg,
		router:       router,
		logger:       logger,
		timeProvider: timeProvider,
		sessions:     make(map[string]*Session),
	}
}

// Start opens the listening socket and launches the accept loop.
func (d *Dispatcher) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", d.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", d.cfg.Addr, err)
	}
	d.listener = listener

	d.logger.Info("Listening for connections", map[string]any{
		"addr":         listener.Addr().String(),
		"tls":          d.cfg.TLS != nil,
		"max_sessions": d.cfg.MaxSessions,
		"idle_timeout": d.cfg.IdleTimeout.String(),
	})

	d.wg.Add(1)
	go d.acceptLoop(ctx)
	return nil
}

// Addr returns the bound listener address.
func (d *Dispatcher) Addr() net.Addr {
	if d.listener == nil {
		return nil
	}
	return d.listener.Addr()
}

func (d *Dispatcher) acceptLoop(ctx context.Context) {
	defer d.wg.Done()

	for {
		conn, err := d.listener.Accept()
		if err != nil {
			if d.shuttingDown.Load() || errors.Is(err, net.ErrClosed) {
				return
			}
			d.logger.Warn("Accept failed", map[string]any{"error": err.Error()})
			continue
		}

		if !d.admit() {
			d.rejected.Add(1)
			d.logger.Warn("Session ceiling reached, rejecting connection", map[string]any{
				"remote_addr":  conn.RemoteAddr().String(),
				"max_sessions": d.cfg.MaxSessions,
			})
			_ = conn.Close()
			continue
		}

		if d.cfg.TLS != nil {
			conn = tls.Server(conn, d.cfg.TLS)
		}

		session := NewSession(
			conn,
			d.router,
			d.logger,
			d.timeProvider,
			d.cfg.IdleTimeout,
			d.cfg.Compress,
			d.removeSession,
		)

		d.addSession(session)
		d.accepted.Add(1)

		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			session.Run(ctx)
		}()
	}
}

// admit reports whether a new session fits under the ceiling.
func (d *Dispatcher) admit() bool {
	if d.shuttingDown.Load() {
		return false
	}
	if d.cfg.MaxSessions <= 0 {
		return true
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.sessions) < d.cfg.MaxSessions
}

func (d *Dispatcher) addSession(s *Session) {
	d.mu.Lock()
	d.sessions[s.ID()] = s
	count := len(d.sessions)
	d.mu.Unlock()

	d.logger.Info("Client connected", map[string]any{
		"session_id":        s.ID(),
		"connected_clients": count,
	})
}

func (d *Dispatcher) removeSession(s *Session) {
	d.mu.Lock()
	delete(d.sessions, s.ID())
	count := len(d.sessions)
	d.mu.Unlock()

	d.logger.Info("Client disconnected", map[string]any{
		"session_id":        s.ID(),
		"connected_clients": count,
	})
}

// ActiveSessions returns the current session count.
func (d *Dispatcher) ActiveSessions() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.sessions)
}

// TotalAccepted returns the number of sessions admitted since start.
func (d *Dispatcher) TotalAccepted() uint64 {
	return d.accepted.Load()
}

// TotalRejected returns the number of connections refused at the ceiling.
func (d *Dispatcher) TotalRejected() uint64 {
	return d.rejected.Load()
}

// Shutdown stops accepting, asks every session to finish its in-flight
// request, and waits until they drain or ctx expires. On expiry the remaining
// connections are closed outright.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.shuttingDown.Store(true)

	if d.listener != nil {
		_ = d.listener.Close()
	}

	d.mu.Lock()
	for _, s := range d.sessions {
		s.Close()
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.logger.Info("All sessions drained", nil)
		return nil
	case <-ctx.Done():
		d.logger.Warn("Shutdown deadline reached, forcing remaining sessions closed", map[string]any{
			"remaining": d.ActiveSessions(),
		})
		d.mu.Lock()
		for _, s := range d.sessions {
			_ = s.conn.Close()
		}
		d.mu.Unlock()
		<-done
		return ctx.Err()
	}
}
