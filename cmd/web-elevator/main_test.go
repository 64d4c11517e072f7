package main

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"go-elevator-3d/pkg/config"
)

type received struct {
	Type      string          `json:"type"`
	EventType string          `json:"eventType"`
	Payload   json.RawMessage `json:"payload"`
	Floor     int             `json:"floor"`
	Target    int             `json:"target"`
	Moving    bool            `json:"moving"`
	Requests  []int           `json:"requests"`
	Stopped   bool            `json:"stopped"`
}

func dial(t *testing.T) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(handleWebSocket(config.Default()))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Failed to dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// waitFor reads messages until match accepts one or the deadline passes.
func waitFor(t *testing.T, conn *websocket.Conn, what string, match func(received) bool) received {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		var msg received
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("Timed out waiting for %s: %v", what, err)
		}
		if match(msg) {
			return msg
		}
	}
}

func send(t *testing.T, conn *websocket.Conn, msg ClientMessage) {
	t.Helper()
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("Failed to send %s: %v", msg.Action, err)
	}
}

func TestSession_InitialState(t *testing.T) {
	conn := dial(t)

	msg := waitFor(t, conn, "initial state", func(m received) bool { return m.Type == "state" })
	if msg.Floor != 1 || msg.Moving || msg.Target != -1 {
		t.Errorf("Expected idle at floor 1, got %+v", msg)
	}
}

func TestSession_RequestFloor(t *testing.T) {
	conn := dial(t)
	waitFor(t, conn, "initial state", func(m received) bool { return m.Type == "state" })

	send(t, conn, ClientMessage{Action: "requestFloor", Floor: 5})

	added := waitFor(t, conn, "RequestAdded event", func(m received) bool {
		return m.Type == "event" && m.EventType == "RequestAdded"
	})
	if string(added.Payload) != "5" {
		t.Errorf("Expected payload 5, got %s", added.Payload)
	}

	waitFor(t, conn, "moving state", func(m received) bool {
		return m.Type == "state" && m.Moving && m.Target == 5
	})
}

func TestSession_ToggleStopAndGetState(t *testing.T) {
	conn := dial(t)
	waitFor(t, conn, "initial state", func(m received) bool { return m.Type == "state" })

	send(t, conn, ClientMessage{Action: "bogus"})
	send(t, conn, ClientMessage{Action: "toggleStop"})
	waitFor(t, conn, "stopped state", func(m received) bool { return m.Type == "state" && m.Stopped })

	// getState always answers, even when nothing changed.
	send(t, conn, ClientMessage{Action: "getState"})
	waitFor(t, conn, "forced state", func(m received) bool { return m.Type == "state" && m.Stopped })
}
