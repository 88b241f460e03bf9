package server

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	arborerrors "github.com/arbor-ui/arbor/internal/errors"
	"github.com/arbor-ui/arbor/pkg/compose"
	"github.com/arbor-ui/arbor/pkg/middleware"
	"github.com/arbor-ui/arbor/pkg/protocol"
)

// Session is one live WebSocket connection with its own composer. All
// event handling and recomposition happens on the session's event
// loop goroutine; the composer is never touched from elsewhere.
type Session struct {
	id     uint64
	server *Server
	conn   *websocket.Conn
	logger *slog.Logger

	composer *compose.Composer
	page     Page
	lastHTML string

	actMu   sync.RWMutex
	actions map[string]ActionFunc

	events   chan *protocol.Event
	renderCh chan struct{}
	done     chan struct{}

	closeOnce sync.Once
	closed    atomic.Bool
	sendSeq   atomic.Uint64
	writeMu   sync.Mutex

	lastActive atomic.Int64
}

func newSession(server *Server, id uint64, conn *websocket.Conn, factory PageFactory) *Session {
	logger := server.logger.With("component", "session", "session_id", id)
	sess := &Session{
		id:       id,
		server:   server,
		conn:     conn,
		logger:   logger,
		events:   make(chan *protocol.Event, server.config.EventQueueSize),
		renderCh: make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	sess.composer = compose.New(compose.WithLogger(logger))

	// The factory runs before the loops start, so it may bind
	// session-scoped action handlers without racing the event loop.
	sess.page = factory(sess)

	// Wake from cell writes outside event handling (timers, async
	// completions) lands on the event loop, never recomposes inline.
	sess.composer.Scheduler().OnWake(func() {
		select {
		case sess.renderCh <- struct{}{}:
		default:
		}
	})
	return sess
}

// BindAction registers a handler scoped to this session. It shadows a
// server-wide handler of the same action type for events arriving on
// this connection.
func (s *Session) BindAction(actionType string, fn ActionFunc) {
	s.actMu.Lock()
	defer s.actMu.Unlock()
	if s.actions == nil {
		s.actions = make(map[string]ActionFunc)
	}
	s.actions[actionType] = fn
}

// lookupAction resolves a handler, session-scoped bindings first.
func (s *Session) lookupAction(actionType string) ActionFunc {
	s.actMu.RLock()
	fn := s.actions[actionType]
	s.actMu.RUnlock()
	if fn != nil {
		return fn
	}
	return s.server.lookupAction(actionType)
}

// ID returns the session identifier.
func (s *Session) ID() uint64 {
	return s.id
}

// Start runs the initial composition and spawns the session loops.
func (s *Session) Start() {
	s.touch()
	go s.eventLoop()
	go s.readLoop()
	go s.writeLoop()
}

// Close tears the session down. Safe to call from any goroutine and
// more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		close(s.done)
		_ = s.conn.Close()
		s.server.removeSession(s.id)
		s.logger.Info("session closed")
	})
}

func (s *Session) touch() {
	s.lastActive.Store(time.Now().UnixNano())
}

// LastActive reports the time of the last client message.
func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

// readLoop reads frames from the connection until it closes. Events
// are queued for the event loop; malformed frames are logged and
// dropped without closing the connection.
func (s *Session) readLoop() {
	defer s.Close()

	for {
		_ = s.conn.SetReadDeadline(time.Now().Add(s.server.config.ReadTimeout))

		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
				middleware.RecordWebSocketError("read")
			}
			return
		}
		s.touch()

		frame, err := protocol.DecodeFrame(msg)
		if err != nil {
			s.logger.Error("frame decode error", "error", err)
			s.sendError(arborerrors.New("A201"))
			continue
		}

		switch frame.Type {
		case protocol.FrameEvent:
			ev, err := frame.DecodeEvent()
			if err != nil {
				s.logger.Error("event decode error", "error", err)
				s.sendError(arborerrors.New("A201").WithMessagef("malformed event payload"))
				continue
			}
			select {
			case s.events <- ev:
			default:
				s.logger.Warn("event queue full, dropping event",
					"type", ev.Action.Type)
			}

		case protocol.FramePing:
			// Client keepalive. Activity already recorded.

		default:
			s.logger.Warn("unknown frame type", "type", frame.Type)
		}
	}
}

// writeLoop sends periodic heartbeats until the session closes.
func (s *Session) writeLoop() {
	ticker := time.NewTicker(s.server.config.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.sendFrame(protocol.FramePing, nil); err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}

// eventLoop owns the composer. It runs the initial pass, then applies
// queued events and scheduler wakes one at a time.
func (s *Session) eventLoop() {
	defer s.composer.Dispose()

	s.flush(true)

	for {
		select {
		case ev := <-s.events:
			s.handleEvent(ev)
		case <-s.renderCh:
			s.flush(false)
		case <-s.done:
			return
		}
	}
}

// handleEvent dispatches one action to its registered handler, then
// flushes any recomposition the handler caused.
func (s *Session) handleEvent(ev *protocol.Event) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("action handler panic",
				"type", ev.Action.Type,
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()

	fn := s.lookupAction(ev.Action.Type)
	if fn == nil {
		s.logger.Warn("no handler for action", "type", ev.Action.Type)
		s.sendError(arborerrors.New("A102"))
		middleware.RecordEvent(ev.Action.Type, fmt.Errorf("unknown action"))
		return
	}

	err := fn(s, ev)
	middleware.RecordEvent(ev.Action.Type, err)
	if err != nil {
		s.logger.Error("action handler failed",
			"type", ev.Action.Type,
			"target", ev.Action.TargetID,
			"error", err)
		s.sendError(arborerrors.New("A203").Wrap(err))
	}

	s.flush(false)
}

// flush runs pending recomposition and ships the changed markup. The
// initial pass establishes lastHTML without sending a patch.
func (s *Session) flush(initial bool) {
	if initial {
		html, err := renderRoot(s.composer, s.page)
		if err != nil {
			s.logger.Error("initial composition failed", "error", err)
			s.Close()
			return
		}
		s.lastHTML = html
		return
	}

	if !s.composer.Scheduler().HasPending() {
		return
	}
	s.composer.Scheduler().Flush()
	middleware.RecordRecomposition()

	html, err := rootHTML(s.composer)
	if err != nil {
		s.logger.Error("render failed", "error", err)
		return
	}
	if html == s.lastHTML {
		return
	}
	s.lastHTML = html
	s.sendPatches([]protocol.Patch{{TargetID: RootID, HTML: html}})
}

// sendPatches ships markup updates to the client.
func (s *Session) sendPatches(patches []protocol.Patch) {
	if err := s.sendFrame(protocol.FramePatch, patches); err != nil {
		return
	}
	middleware.RecordPatches(len(patches))
}

// sendError ships a coded error frame. Codes and messages come from
// the error registry so the wire never drifts from the docs.
func (s *Session) sendError(e *arborerrors.ArborError) {
	_ = s.sendFrame(protocol.FrameError, &protocol.ErrorInfo{Code: e.Code, Message: e.Message})
}

func (s *Session) sendFrame(t protocol.FrameType, payload any) error {
	if s.closed.Load() {
		return fmt.Errorf("session closed")
	}

	data, err := protocol.EncodeFrame(t, s.sendSeq.Add(1), payload)
	if err != nil {
		s.logger.Error("frame encode error", "type", t, "error", err)
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_ = s.conn.SetWriteDeadline(time.Now().Add(s.server.config.WriteTimeout))
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		s.logger.Error("write error", "type", t, "error", err)
		middleware.RecordWebSocketError("write")
		s.Close()
		return err
	}
	return nil
}
