package websocket

import (
	"context"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/larkfield/lark-server/internal/domain"
	"github.com/larkfield/lark-server/internal/ports"
)

// VoiceStreamHandler is the bidirectional voice channel: binary frames carry
// recorded audio which is transcribed and run through the assistant; text
// frames carry already-transcribed commands.
type VoiceStreamHandler struct {
	assistant   ports.AssistantService
	transcriber ports.Transcriber
	log         *zap.Logger
}

func NewVoiceStreamHandler(assistant ports.AssistantService, transcriber ports.Transcriber, log *zap.Logger) *VoiceStreamHandler {
	return &VoiceStreamHandler{
		assistant:   assistant,
		transcriber: transcriber,
		log:         log,
	}
}

type commandFrame struct {
	Text string `json:"text"`
}

type responseFrame struct {
	Transcript string                    `json:"transcript,omitempty"`
	Response   *domain.AssistantResponse `json:"response,omitempty"`
	Error      string                    `json:"error,omitempty"`
}

// HandleVoiceStream services one officer connection until it drops.
func (h *VoiceStreamHandler) HandleVoiceStream(c *websocket.Conn) {
	profile, _ := c.Locals("officer_profile").(domain.OfficerProfile)
	ctx := context.Background()

	for {
		messageType, data, err := c.ReadMessage()
		if err != nil {
			return
		}

		var frame responseFrame
		switch messageType {
		case websocket.BinaryMessage:
			transcript, err := h.transcriber.Transcribe(ctx, data, "utterance.wav")
			if err != nil {
				h.log.Error("transcription failed", zap.Error(err))
				frame.Error = "could not transcribe audio"
				break
			}
			frame.Transcript = transcript
			frame.Response, err = h.assistant.ProcessCommand(ctx, transcript, profile)
			if err != nil {
				h.log.Error("command processing failed", zap.Error(err))
				frame.Error = "could not process command"
			}
		case websocket.TextMessage:
			var cmd commandFrame
			if err := json.Unmarshal(data, &cmd); err != nil || cmd.Text == "" {
				frame.Error = "invalid command frame"
				break
			}
			frame.Response, err = h.assistant.ProcessCommand(ctx, cmd.Text, profile)
			if err != nil {
				h.log.Error("command processing failed", zap.Error(err))
				frame.Error = "could not process command"
			}
		default:
			continue
		}

		payload, err := json.Marshal(frame)
		if err != nil {
			h.log.Error("failed to encode response frame", zap.Error(err))
			continue
		}
		if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}

// SetupVoiceRoutes mounts the voice stream and event hub endpoints. The auth
// middleware runs before the upgrade so connection Locals carry the officer.
func SetupVoiceRoutes(app *fiber.App, handler *VoiceStreamHandler, hub *Hub, auth fiber.Handler) {
	upgrade := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}

	app.Use("/ws/voice", auth, upgrade)
	app.Get("/ws/voice", websocket.New(handler.HandleVoiceStream))

	app.Use("/ws/events", auth, upgrade)
	app.Get("/ws/events", websocket.New(func(c *websocket.Conn) {
		officerID, _ := c.Locals("officer_id").(string)
		hub.AddClient(c, officerID)
	}))
}
