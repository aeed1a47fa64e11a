package openai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"nhooyr.io/websocket"
)

// realtimeInstructions is the standing persona for the live voice session.
const realtimeInstructions = `You are LARK, a Law Enforcement Assistant and Resource Kit. You provide hands-free assistance to law enforcement officers in the field. Keep replies short enough to be spoken over a radio. Never speculate about legal outcomes.`

// RealtimeClient holds a bidirectional voice session against the OpenAI
// Realtime API. Audio flows in as PCM16 chunks and comes back as base64
// deltas interleaved with text.
type RealtimeClient struct {
	apiKey  string
	modelID string
	log     *zap.Logger
	conn    *websocket.Conn
}

func NewRealtimeClient(apiKey string, log *zap.Logger) *RealtimeClient {
	return &RealtimeClient{
		apiKey:  apiKey,
		modelID: "gpt-4o-realtime-preview",
		log:     log,
	}
}

// Connect dials the realtime endpoint and configures the session.
func (c *RealtimeClient) Connect(ctx context.Context) error {
	url := "wss://api.openai.com/v1/realtime?model=" + c.modelID

	headers := http.Header{
		"Authorization": []string{"Bearer " + c.apiKey},
		"OpenAI-Beta":   []string{"realtime=v1"},
	}

	conn, _, err := websocket.Dial(ctx, url, &websocket.DialOptions{
		HTTPHeader: headers,
	})
	if err != nil {
		return fmt.Errorf("openai realtime: dial: %w", err)
	}
	c.conn = conn

	setup := map[string]interface{}{
		"type": "session.update",
		"session": map[string]interface{}{
			"modalities":          []string{"text", "audio"},
			"voice":               "ash",
			"instructions":        realtimeInstructions,
			"input_audio_format":  "pcm16",
			"output_audio_format": "pcm16",
			"turn_detection": map[string]interface{}{
				"type": "server_vad",
			},
		},
	}
	return c.send(ctx, setup)
}

// SendAudioChunk appends PCM16 audio to the session's input buffer.
func (c *RealtimeClient) SendAudioChunk(ctx context.Context, audioData []byte) error {
	msg := map[string]interface{}{
		"type":  "input_audio_buffer.append",
		"audio": base64.StdEncoding.EncodeToString(audioData),
	}
	return c.send(ctx, msg)
}

// CommitAudio closes the current utterance and asks for a response. Only
// needed when server-side voice activity detection is disabled.
func (c *RealtimeClient) CommitAudio(ctx context.Context) error {
	if err := c.send(ctx, map[string]interface{}{"type": "input_audio_buffer.commit"}); err != nil {
		return err
	}
	return c.send(ctx, map[string]interface{}{"type": "response.create"})
}

// RealtimeEvent is one server event from the session.
type RealtimeEvent struct {
	Type       string `json:"type"`
	Delta      string `json:"delta,omitempty"`
	Transcript string `json:"transcript,omitempty"`
	Error      *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Receive reads the next server event.
func (c *RealtimeClient) Receive(ctx context.Context) (*RealtimeEvent, error) {
	_, data, err := c.conn.Read(ctx)
	if err != nil {
		return nil, err
	}

	var event RealtimeEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, err
	}
	if event.Error != nil {
		c.log.Warn("realtime session error",
			zap.String("type", event.Error.Type),
			zap.String("message", event.Error.Message),
		)
	}
	return &event, nil
}

// AudioDelta decodes the base64 audio payload of a response.audio.delta
// event.
func (e *RealtimeEvent) AudioDelta() ([]byte, error) {
	if e.Type != "response.audio.delta" || e.Delta == "" {
		return nil, nil
	}
	return base64.StdEncoding.DecodeString(e.Delta)
}

func (c *RealtimeClient) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close(websocket.StatusNormalClosure, "session ended")
}

func (c *RealtimeClient) send(ctx context.Context, msg interface{}) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return c.conn.Write(ctx, websocket.MessageText, data)
}
