package websocket

import (
	"context"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/larkfield/lark-server/internal/adapter/ai/openai"
)

// RealtimeProxy bridges a field client to the OpenAI Realtime API for full
// duplex voice. Each connection gets its own upstream session.
type RealtimeProxy struct {
	newClient func() *openai.RealtimeClient
	log       *zap.Logger
}

func NewRealtimeProxy(apiKey string, log *zap.Logger) *RealtimeProxy {
	return &RealtimeProxy{
		newClient: func() *openai.RealtimeClient {
			return openai.NewRealtimeClient(apiKey, log)
		},
		log: log,
	}
}

type realtimeControl struct {
	Type string `json:"type"`
}

// SetupRealtimeRoutes mounts the realtime bridge endpoint.
func SetupRealtimeRoutes(app *fiber.App, proxy *RealtimeProxy, auth fiber.Handler) {
	app.Use("/ws/realtime", auth, func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/realtime", websocket.New(proxy.HandleRealtime))
}

// HandleRealtime pumps audio both ways until either side drops. Binary
// frames from the client are appended to the upstream audio buffer; a text
// frame {"type":"commit"} finalizes the utterance and requests a response.
func (p *RealtimeProxy) HandleRealtime(c *websocket.Conn) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := p.newClient()
	if err := client.Connect(ctx); err != nil {
		p.log.Error("realtime session connect failed", zap.Error(err))
		c.WriteMessage(websocket.TextMessage, []byte(`{"type":"error","error":"upstream unavailable"}`))
		return
	}
	defer client.Close()

	// Upstream to client.
	go func() {
		defer cancel()
		for {
			event, err := client.Receive(ctx)
			if err != nil {
				return
			}
			payload, err := json.Marshal(event)
			if err != nil {
				continue
			}
			if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		}
	}()

	// Client to upstream.
	for {
		messageType, data, err := c.ReadMessage()
		if err != nil {
			return
		}

		switch messageType {
		case websocket.BinaryMessage:
			if err := client.SendAudioChunk(ctx, data); err != nil {
				p.log.Error("failed to forward audio chunk", zap.Error(err))
				return
			}
		case websocket.TextMessage:
			var ctrl realtimeControl
			if err := json.Unmarshal(data, &ctrl); err != nil {
				continue
			}
			if ctrl.Type == "commit" {
				if err := client.CommitAudio(ctx); err != nil {
					p.log.Error("failed to commit audio", zap.Error(err))
					return
				}
			}
		}
	}
}
