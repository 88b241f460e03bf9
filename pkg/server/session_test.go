package server

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	arborerrors "github.com/arbor-ui/arbor/internal/errors"
	"github.com/arbor-ui/arbor/pkg/protocol"
	"github.com/arbor-ui/arbor/pkg/state"
)

func dialSession(t *testing.T, srv *Server, pagePath string) (*websocket.Conn, func()) {
	t.Helper()
	ts := httptest.NewServer(srv)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/_arbor/live?page=" + pagePath
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		ts.Close()
		t.Fatalf("dial: %v", err)
	}
	return conn, func() {
		conn.Close()
		ts.Close()
	}
}

func sendEvent(t *testing.T, conn *websocket.Conn, ev *protocol.Event) {
	t.Helper()
	data, err := protocol.EncodeFrame(protocol.FrameEvent, 1, ev)
	if err != nil {
		t.Fatalf("encode event: %v", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		t.Fatalf("write event: %v", err)
	}
}

// readFrame reads frames until one of the wanted type arrives.
func readFrame(t *testing.T, conn *websocket.Conn, want protocol.FrameType) *protocol.Frame {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	_ = conn.SetReadDeadline(deadline)
	for time.Now().Before(deadline) {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		frame, err := protocol.DecodeFrame(msg)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if frame.Type == want {
			return frame
		}
	}
	t.Fatalf("no %s frame within deadline", want)
	return nil
}

func TestSessionToggleRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	open := state.NewCell(false)
	srv.RegisterPage("/", "Home", menuPage(open))
	srv.OnAction(protocol.ActionToggle, func(sess *Session, ev *protocol.Event) error {
		open.Update(func(v bool) bool { return !v })
		return nil
	})

	conn, cleanup := dialSession(t, srv, "/")
	defer cleanup()

	sendEvent(t, conn, &protocol.Event{
		Action:   protocol.ActionDescriptor{Type: protocol.ActionToggle, TargetID: "menu"},
		SourceID: "menu-trigger",
	})

	frame := readFrame(t, conn, protocol.FramePatch)
	patches, err := frame.DecodePatches()
	if err != nil {
		t.Fatalf("decode patches: %v", err)
	}
	if len(patches) != 1 {
		t.Fatalf("got %d patches, want 1", len(patches))
	}
	if patches[0].TargetID != RootID {
		t.Errorf("patch target = %q, want %q", patches[0].TargetID, RootID)
	}
	if !strings.Contains(patches[0].HTML, "display:block") {
		t.Errorf("patch should show the open menu, got: %s", patches[0].HTML)
	}

	// Toggle back. The second patch returns to the closed state.
	sendEvent(t, conn, &protocol.Event{
		Action: protocol.ActionDescriptor{Type: protocol.ActionToggle, TargetID: "menu"},
	})
	frame = readFrame(t, conn, protocol.FramePatch)
	patches, err = frame.DecodePatches()
	if err != nil {
		t.Fatalf("decode patches: %v", err)
	}
	if !strings.Contains(patches[0].HTML, "display:none") {
		t.Errorf("patch should show the closed menu, got: %s", patches[0].HTML)
	}
}

func TestSessionStateIsolatedBetweenConnections(t *testing.T) {
	srv := newTestServer(t)
	srv.RegisterSessionPage("/", "Home", func(sess *Session) Page {
		open := state.NewCell(false)
		if sess != nil {
			sess.BindAction(protocol.ActionToggle, func(_ *Session, _ *protocol.Event) error {
				open.Update(func(v bool) bool { return !v })
				return nil
			})
		}
		return menuPage(open)
	})

	toggle := &protocol.Event{
		Action: protocol.ActionDescriptor{Type: protocol.ActionToggle, TargetID: "menu"},
	}

	connA, cleanupA := dialSession(t, srv, "/")
	defer cleanupA()

	sendEvent(t, connA, toggle)
	patches, err := readFrame(t, connA, protocol.FramePatch).DecodePatches()
	if err != nil {
		t.Fatalf("decode patches: %v", err)
	}
	if !strings.Contains(patches[0].HTML, "display:block") {
		t.Errorf("first session's toggle should open its menu, got: %s", patches[0].HTML)
	}

	// A session joining afterwards starts from its own closed menu, so
	// its first toggle opens too. A menu cell shared across sessions
	// would leave it closing a menu it never opened.
	connB, cleanupB := dialSession(t, srv, "/")
	defer cleanupB()

	sendEvent(t, connB, toggle)
	patches, err = readFrame(t, connB, protocol.FramePatch).DecodePatches()
	if err != nil {
		t.Fatalf("decode patches: %v", err)
	}
	if !strings.Contains(patches[0].HTML, "display:block") {
		t.Errorf("new session's toggle should open its own menu, got: %s", patches[0].HTML)
	}
}

func TestSessionUnknownActionGetsErrorFrame(t *testing.T) {
	srv := newTestServer(t)
	open := state.NewCell(false)
	srv.RegisterPage("/", "Home", menuPage(open))

	conn, cleanup := dialSession(t, srv, "/")
	defer cleanup()

	sendEvent(t, conn, &protocol.Event{
		Action: protocol.ActionDescriptor{Type: "bogus", TargetID: "menu"},
	})

	frame := readFrame(t, conn, protocol.FrameError)
	var info protocol.ErrorInfo
	if err := decodeInto(frame, &info); err != nil {
		t.Fatalf("decode error info: %v", err)
	}
	if info.Code != "A102" {
		t.Errorf("error code = %q, want A102", info.Code)
	}
	if want := arborerrors.New("A102").Message; info.Message != want {
		t.Errorf("error message = %q, want registry message %q", info.Message, want)
	}
}

func TestActionHandlerErrorSendsCodedFrame(t *testing.T) {
	srv := newTestServer(t)
	open := state.NewCell(false)
	srv.RegisterPage("/", "Home", menuPage(open))
	srv.OnAction(protocol.ActionToggle, func(sess *Session, ev *protocol.Event) error {
		return errors.New("boom")
	})

	conn, cleanup := dialSession(t, srv, "/")
	defer cleanup()

	sendEvent(t, conn, &protocol.Event{
		Action: protocol.ActionDescriptor{Type: protocol.ActionToggle, TargetID: "menu"},
	})

	frame := readFrame(t, conn, protocol.FrameError)
	var info protocol.ErrorInfo
	if err := decodeInto(frame, &info); err != nil {
		t.Fatalf("decode error info: %v", err)
	}
	if info.Code != "A203" {
		t.Errorf("error code = %q, want A203", info.Code)
	}
	if want := arborerrors.New("A203").Message; info.Message != want {
		t.Errorf("error message = %q, want registry message %q", info.Message, want)
	}
}

func TestSessionUnknownPageRejected(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/_arbor/live?page=/nope"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("dial should fail for unregistered page")
	}
	if resp == nil || resp.StatusCode != 404 {
		t.Errorf("expected 404 handshake response, got %+v", resp)
	}
}

func TestSessionCountTracksLifecycle(t *testing.T) {
	srv := newTestServer(t)
	open := state.NewCell(false)
	srv.RegisterPage("/", "Home", menuPage(open))

	conn, cleanup := dialSession(t, srv, "/")
	waitFor(t, func() bool { return srv.SessionCount() == 1 })

	conn.Close()
	waitFor(t, func() bool { return srv.SessionCount() == 0 })
	cleanup()
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met within deadline")
}

func decodeInto(frame *protocol.Frame, v any) error {
	return json.Unmarshal(frame.Data, v)
}

func TestMalformedFrameKeepsConnectionOpen(t *testing.T) {
	srv := newTestServer(t)
	open := state.NewCell(false)
	srv.RegisterPage("/", "Home", menuPage(open))
	srv.OnAction(protocol.ActionToggle, func(sess *Session, ev *protocol.Event) error {
		open.Update(func(v bool) bool { return !v })
		return nil
	})

	conn, cleanup := dialSession(t, srv, "/")
	defer cleanup()

	if err := conn.WriteMessage(websocket.TextMessage, []byte("{not json")); err != nil {
		t.Fatalf("write: %v", err)
	}
	readFrame(t, conn, protocol.FrameError)

	// The session still processes valid events afterwards.
	sendEvent(t, conn, &protocol.Event{
		Action: protocol.ActionDescriptor{Type: protocol.ActionToggle, TargetID: "menu"},
	})
	readFrame(t, conn, protocol.FramePatch)
}
