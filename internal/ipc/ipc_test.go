package ipc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/mkern/scribe/internal/protocol"
)

// fakeHost accepts one websocket connection and echoes every envelope
// back with a marker id.
func fakeHost(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close(websocket.StatusNormalClosure, "done")
		ctx := r.Context()
		for {
			var env protocol.Envelope
			if err := wsjson.Read(ctx, ws, &env); err != nil {
				return
			}
			env.ID = "echo:" + env.ID
			if err := wsjson.Write(ctx, ws, env); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestSendAndReceiveRoundTrip(t *testing.T) {
	t.Parallel()
	srv := fakeHost(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, err := Dial(ctx, wsURL(srv))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	sent := protocol.RequestAffix("en_US")
	if err := conn.Send(ctx, sent); err != nil {
		t.Fatalf("send: %v", err)
	}

	got, err := conn.Receive(ctx)
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	if got.Command != sent.Command {
		t.Fatalf("command = %q, want %q", got.Command, sent.Command)
	}
	if got.ID != "echo:"+sent.ID {
		t.Fatalf("id = %q, want echo of %q", got.ID, sent.ID)
	}
}

func TestDialFailure(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if _, err := Dial(ctx, "ws://127.0.0.1:1/ipc"); err == nil {
		t.Fatal("expected dial error for closed port")
	}
}
