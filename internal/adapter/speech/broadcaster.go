package speech

import (
	"context"
	"encoding/base64"
	"fmt"

	"go.uber.org/zap"

	"github.com/larkfield/lark-server/internal/adapter/websocket"
	"github.com/larkfield/lark-server/internal/domain"
	"github.com/larkfield/lark-server/internal/ports"
)

// Synthesizer renders an utterance with a TTS backend and pushes the audio to
// connected clients over the websocket hub. It is the playback primitive
// behind the speech queue, so calls arrive strictly one at a time.
type Synthesizer struct {
	tts Renderer
	hub *websocket.Hub
	log *zap.Logger
}

// Renderer produces encoded speech audio for a piece of text.
type Renderer interface {
	Synthesize(ctx context.Context, text string, opts domain.VoiceOptions) ([]byte, error)
}

func NewSynthesizer(tts Renderer, hub *websocket.Hub, log *zap.Logger) *Synthesizer {
	return &Synthesizer{tts: tts, hub: hub, log: log}
}

type speechPayload struct {
	Text   string  `json:"text"`
	Audio  string  `json:"audio"`
	Format string  `json:"format"`
	Volume float64 `json:"volume"`
}

func (s *Synthesizer) Speak(ctx context.Context, text string, opts domain.VoiceOptions) error {
	audio, err := s.tts.Synthesize(ctx, text, opts)
	if err != nil {
		return fmt.Errorf("synthesizing speech: %w", err)
	}

	err = s.hub.BroadcastEvent(websocket.Event{
		Type: "speech",
		Payload: speechPayload{
			Text:   text,
			Audio:  base64.StdEncoding.EncodeToString(audio),
			Format: "mp3",
			Volume: opts.Volume,
		},
	})
	if err != nil {
		return fmt.Errorf("broadcasting speech: %w", err)
	}

	s.log.Debug("utterance broadcast",
		zap.Int("audio_bytes", len(audio)),
		zap.Float64("volume", opts.Volume))
	return nil
}

var _ ports.SpeechSynthesizer = (*Synthesizer)(nil)
