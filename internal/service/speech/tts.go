package speech

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/kargotek/destek/backend/internal/config"
)

// ErrDisabled marks a synthesizer without configured credentials.
var ErrDisabled = errors.New("speech synthesis disabled")

// Client renders reply text to an mp3 file over the provider's websocket
// streaming API and returns a /static/ reference to it.
type Client struct {
	cfg       config.SpeechConfig
	staticDir string
	dialer    *websocket.Dialer
}

// NewClient builds a TTS client writing audio files under staticDir.
func NewClient(cfg config.SpeechConfig, staticDir string) *Client {
	return &Client{
		cfg:       cfg,
		staticDir: staticDir,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
	}
}

type ttsRequest struct {
	ReqID    string `json:"reqid"`
	AppID    string `json:"appid,omitempty"`
	Text     string `json:"text"`
	Voice    string `json:"voice,omitempty"`
	Language string `json:"language,omitempty"`
	Format   string `json:"format"`
}

type ttsServerMessage struct {
	ReqID    string `json:"reqid"`
	Code     int    `json:"code"`
	Message  string `json:"message"`
	Sequence int    `json:"sequence"`
	Data     string `json:"data"`
}

// Synthesize renders the text and returns the audio resource reference.
// Callers degrade to text-only replies on any error.
func (c *Client) Synthesize(ctx context.Context, text string) (string, error) {
	if !c.cfg.Enabled {
		return "", ErrDisabled
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("tts text is empty")
	}

	timeout := time.Duration(c.cfg.Timeout) * time.Second
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	header := http.Header{}
	header.Set("Authorization", "Bearer "+c.cfg.AccessToken)

	conn, resp, err := c.dialer.DialContext(ctx, c.cfg.Endpoint, header)
	if err != nil {
		if resp != nil {
			return "", fmt.Errorf("tts dial failed with HTTP %d: %w", resp.StatusCode, err)
		}
		return "", fmt.Errorf("tts dial failed: %w", err)
	}
	defer conn.Close()

	req := ttsRequest{
		ReqID:    uuid.NewString(),
		AppID:    c.cfg.AppID,
		Text:     text,
		Voice:    c.cfg.Voice,
		Language: c.cfg.Language,
		Format:   "mp3",
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal tts request: %w", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return "", fmt.Errorf("send tts request: %w", err)
	}

	audio, err := c.collectAudio(ctx, conn)
	if err != nil {
		return "", err
	}
	return c.writeAudioFile(audio)
}

// collectAudio reads server frames until the final chunk. Chunks carry
// base64 audio; a negative sequence marks the last one.
func (c *Client) collectAudio(ctx context.Context, conn *websocket.Conn) ([]byte, error) {
	var audio bytes.Buffer
	for {
		if deadline, ok := ctx.Deadline(); ok {
			_ = conn.SetReadDeadline(deadline)
		}

		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return nil, fmt.Errorf("read tts frame: %w", err)
		}

		if msgType == websocket.BinaryMessage {
			audio.Write(data)
			continue
		}

		var msg ttsServerMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("decode tts frame: %w", err)
		}
		if msg.Code != 0 {
			return nil, fmt.Errorf("tts server error %d: %s", msg.Code, msg.Message)
		}
		if msg.Data != "" {
			chunk, err := base64.StdEncoding.DecodeString(msg.Data)
			if err != nil {
				return nil, fmt.Errorf("decode tts chunk: %w", err)
			}
			audio.Write(chunk)
		}
		if msg.Sequence < 0 {
			break
		}
	}

	if audio.Len() == 0 {
		return nil, fmt.Errorf("tts returned no audio")
	}
	return audio.Bytes(), nil
}

func (c *Client) writeAudioFile(audio []byte) (string, error) {
	if err := os.MkdirAll(c.staticDir, 0o755); err != nil {
		return "", fmt.Errorf("create static dir: %w", err)
	}
	name := fmt.Sprintf("ses_%s.mp3", uuid.NewString())
	if err := os.WriteFile(filepath.Join(c.staticDir, name), audio, 0o644); err != nil {
		return "", fmt.Errorf("write audio file: %w", err)
	}
	return "/static/" + name, nil
}
