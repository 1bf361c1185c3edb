package speech

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/kargotek/destek/backend/internal/config"
)

var upgrader = websocket.Upgrader{}

// ttsServer runs a fake streaming endpoint driven by the given frame
// script.
func ttsServer(t *testing.T, handle func(t *testing.T, conn *websocket.Conn, req ttsRequest)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q", got)
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()

		var req ttsRequest
		if _, data, err := conn.ReadMessage(); err != nil {
			t.Errorf("read request: %v", err)
			return
		} else if err := json.Unmarshal(data, &req); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}
		handle(t, conn, req)
	}))
}

func testConfig(endpoint string) config.SpeechConfig {
	return config.SpeechConfig{
		Endpoint:    endpoint,
		AppID:       "app-1",
		AccessToken: "test-token",
		Voice:       "tr-standart",
		Language:    "tr",
		Timeout:     5,
		Enabled:     true,
	}
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestSynthesize(t *testing.T) {
	audio := []byte("mp3-bytes-here")
	srv := ttsServer(t, func(t *testing.T, conn *websocket.Conn, req ttsRequest) {
		if req.Text != "Kargonuz dağıtımda." {
			t.Errorf("text = %q", req.Text)
		}
		if req.Format != "mp3" || req.ReqID == "" {
			t.Errorf("request = %+v", req)
		}

		// One binary chunk, one base64 chunk, then the final marker.
		if err := conn.WriteMessage(websocket.BinaryMessage, audio[:4]); err != nil {
			t.Errorf("write binary frame: %v", err)
		}
		mid, _ := json.Marshal(ttsServerMessage{Sequence: 1, Data: base64.StdEncoding.EncodeToString(audio[4:])})
		if err := conn.WriteMessage(websocket.TextMessage, mid); err != nil {
			t.Errorf("write data frame: %v", err)
		}
		done, _ := json.Marshal(ttsServerMessage{Sequence: -1})
		if err := conn.WriteMessage(websocket.TextMessage, done); err != nil {
			t.Errorf("write final frame: %v", err)
		}
	})
	defer srv.Close()

	staticDir := t.TempDir()
	client := NewClient(testConfig(wsURL(srv)), staticDir)

	ref, err := client.Synthesize(context.Background(), "Kargonuz dağıtımda.")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if !strings.HasPrefix(ref, "/static/ses_") || !strings.HasSuffix(ref, ".mp3") {
		t.Errorf("audio ref = %q", ref)
	}

	written, err := os.ReadFile(filepath.Join(staticDir, strings.TrimPrefix(ref, "/static/")))
	if err != nil {
		t.Fatalf("read audio file: %v", err)
	}
	if string(written) != string(audio) {
		t.Errorf("audio file = %q, want %q", written, audio)
	}
}

func TestSynthesizeServerError(t *testing.T) {
	srv := ttsServer(t, func(t *testing.T, conn *websocket.Conn, _ ttsRequest) {
		frame, _ := json.Marshal(ttsServerMessage{Code: 401, Message: "invalid token"})
		if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			t.Errorf("write error frame: %v", err)
		}
	})
	defer srv.Close()

	client := NewClient(testConfig(wsURL(srv)), t.TempDir())

	if _, err := client.Synthesize(context.Background(), "merhaba"); err == nil {
		t.Fatal("expected a server error")
	}
}

func TestSynthesizeDisabled(t *testing.T) {
	client := NewClient(config.SpeechConfig{}, t.TempDir())

	if _, err := client.Synthesize(context.Background(), "merhaba"); err != ErrDisabled {
		t.Fatalf("err = %v, want ErrDisabled", err)
	}
}

func TestSynthesizeEmptyText(t *testing.T) {
	client := NewClient(testConfig("ws://127.0.0.1:0"), t.TempDir())

	if _, err := client.Synthesize(context.Background(), "   "); err == nil {
		t.Fatal("expected an error for empty text")
	}
}
