// Package transcription wraps the AssemblyAI v3 realtime streaming API behind
// one blocking capture-and-transcribe call.
package transcription

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
)

const streamURL = "wss://streaming.assemblyai.com/v3/ws"

type turnMessage struct {
	Type            string `json:"type"`
	Transcript      string `json:"transcript"`
	TurnIsFormatted bool   `json:"turn_is_formatted"`
	EndOfTurn       bool   `json:"end_of_turn"`
}

// Client holds the streaming websocket connection. All writes go through one
// mutex; the read loop runs in its own goroutine per connection.
type Client struct {
	mu           sync.Mutex
	conn         *websocket.Conn
	sampleRate   int
	onTranscript func(text string, isFinal bool, endOfTurn bool)
	onTerminated func()
}

func NewClient(sampleRate int, onTranscript func(string, bool, bool), onTerminated func()) *Client {
	return &Client{
		sampleRate:   sampleRate,
		onTranscript: onTranscript,
		onTerminated: onTerminated,
	}
}

// Connect dials the streaming endpoint and starts the read loop.
func (c *Client) Connect(apiKey string) error {
	u, err := url.Parse(streamURL)
	if err != nil {
		return fmt.Errorf("parsing stream URL: %v", err)
	}
	query := u.Query()
	query.Set("sample_rate", strconv.Itoa(c.sampleRate))
	query.Set("format_turns", "true")
	u.RawQuery = query.Encode()

	headers := map[string][]string{"Authorization": {apiKey}}
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), headers)
	if err != nil {
		return fmt.Errorf("connecting to streaming API: %v", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	go c.readLoop(conn)
	return nil
}

// SendAudio streams one chunk of raw PCM16 audio.
func (c *Client) SendAudio(pcm []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return fmt.Errorf("streaming connection not established")
	}
	err := c.conn.WriteMessage(websocket.BinaryMessage, pcm)
	if err != nil && connClosed(err) {
		c.conn = nil
	}
	return err
}

// Terminate asks the server to finalize the session. The Termination message
// comes back on the read loop.
func (c *Client) Terminate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return
	}
	msg, _ := json.Marshal(map[string]string{"type": "Terminate"})
	c.conn.WriteMessage(websocket.TextMessage, msg)
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		c.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.conn.Close()
		c.conn = nil
	}
}

// IsConnected probes the connection with a ping; a dead connection is cleaned
// up so the next session reconnects.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return false
	}
	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.conn.Close()
		c.conn = nil
		return false
	}
	return true
}

func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			// Normal closure and shutdown races are expected here; the
			// session-level termination wait handles the rest.
			return
		}

		var msg turnMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		switch msg.Type {
		case "Turn":
			if msg.Transcript != "" && c.onTranscript != nil {
				c.onTranscript(msg.Transcript, msg.TurnIsFormatted, msg.EndOfTurn)
			}
		case "Termination":
			if c.onTerminated != nil {
				c.onTerminated()
			}
		}
	}
}

func connClosed(err error) bool {
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "websocket: close sent") ||
		strings.Contains(s, "use of closed network connection") ||
		strings.Contains(s, "connection reset by peer")
}
