package assistant

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/larkfield/lark-server/internal/domain"
	"github.com/larkfield/lark-server/internal/observability/telemetry"
	"github.com/larkfield/lark-server/internal/ports"
)

// Service is the dialogue engine. It owns one conversational Context and
// hands every speakable reply to the speech queue. Construct it once at the
// composition root and share the instance; the context is not meant to be
// split across engines.
type Service struct {
	ctx    *Context
	speech ports.SpeechQueue
	log    *zap.Logger
}

func NewService(speech ports.SpeechQueue, log *zap.Logger) *Service {
	return &Service{
		ctx:    NewContext(),
		speech: speech,
		log:    log,
	}
}

var _ ports.AssistantService = (*Service)(nil)

// ProcessCommand records the utterance, classifies it against the intent
// table, queues the speakable text, and returns the structured response.
// Unmatched input never fails; it falls through to a context-aware default.
func (s *Service) ProcessCommand(ctx context.Context, command string, profile domain.OfficerProfile) (*domain.AssistantResponse, error) {
	s.ctx.AddRecentCommand(command)

	in := &commandInput{
		input:    strings.ToLower(command),
		userName: profile.DisplayName(),
		ctx:      s.ctx,
	}

	intent, result := classify(in)
	if result.activity != "" {
		s.ctx.SetCurrentActivity(result.activity)
	}

	telemetry.VoiceCommandsTotal.WithLabelValues(intent, "ok").Inc()
	s.log.Debug("command classified",
		zap.String("intent", intent),
		zap.String("priority", string(result.response.Priority)),
	)

	s.enqueueSpeech(result.response, nil)

	return result.response, nil
}

// AlertThreat records a detected threat and returns a high-priority response,
// speaking it at elevated volume. The alert is still FIFO-queued behind any
// pending speech.
func (s *Service) AlertThreat(ctx context.Context, threat string, profile domain.OfficerProfile) (*domain.AssistantResponse, error) {
	userName := profile.DisplayName()

	response := &domain.AssistantResponse{
		Text:     fmt.Sprintf("ALERT %s: %s detected. Proceed with caution.", userName, threat),
		Action:   domain.ThreatAlertAction{Threat: threat},
		Priority: domain.PriorityHigh,
	}

	s.ctx.AddDetectedThreat(threat)
	telemetry.ThreatAlertsTotal.Inc()
	s.log.Warn("threat alert raised", zap.String("threat", threat))

	s.enqueueSpeech(response, &domain.VoiceOptions{Volume: response.Priority.Volume()})

	return response, nil
}

// DeliverMirandaRights returns a miranda action carrying the requested
// language. The rights text itself is served by the miranda service; this is
// the dialogue-side acknowledgement.
func (s *Service) DeliverMirandaRights(ctx context.Context, language string, profile domain.OfficerProfile) (*domain.AssistantResponse, error) {
	if language == "" {
		language = "english"
	}

	response := &domain.AssistantResponse{
		Text:   fmt.Sprintf("Delivering Miranda Rights in %s.%s, %s.", language, s.ctx.OfflineNote(), profile.DisplayName()),
		Action: domain.MirandaAction{Language: language},
	}

	s.enqueueSpeech(response, nil)

	return response, nil
}

// RequestBackup always escalates to emergency priority with a shortened
// voice line.
func (s *Service) RequestBackup(ctx context.Context, situation string, profile domain.OfficerProfile) (*domain.AssistantResponse, error) {
	userName := profile.DisplayName()

	response := &domain.AssistantResponse{
		Text:      fmt.Sprintf("Emergency backup requested, %s. Dispatch has been notified of your situation and location. Stay safe.", userName),
		VoiceText: fmt.Sprintf("Backup requested, %s. Stay safe.", userName),
		Action: domain.EmergencyAction{
			RequestBackup: true,
			Situation:     situation,
		},
		Priority: domain.PriorityEmergency,
	}

	s.enqueueSpeech(response, &domain.VoiceOptions{Volume: response.Priority.Volume()})

	return response, nil
}

// TranslateCommunication starts translated communication in the given
// language.
func (s *Service) TranslateCommunication(ctx context.Context, text, language string, profile domain.OfficerProfile) (*domain.AssistantResponse, error) {
	response := &domain.AssistantResponse{
		Text: fmt.Sprintf("Translating to %s.%s, %s. %q", language, s.ctx.OfflineNote(), profile.DisplayName(), text),
		Action: domain.TranslateAction{
			Language:     language,
			OriginalText: text,
		},
	}

	s.enqueueSpeech(response, nil)

	return response, nil
}

func (s *Service) SetOfflineMode(offline bool) {
	s.ctx.SetOffline(offline)
	s.log.Info("offline mode changed", zap.Bool("offline", offline))
}

func (s *Service) SetCurrentActivity(activity string) {
	s.ctx.SetCurrentActivity(activity)
}

func (s *Service) SetLocation(loc domain.Location) {
	s.ctx.SetLocation(loc)
}

func (s *Service) RecentCommands() []string {
	return s.ctx.RecentCommands()
}

func (s *Service) DetectedThreats() []string {
	return s.ctx.DetectedThreats()
}

// enqueueSpeech hands the response's speakable text to the queue without
// waiting for playback. Playback failures are reported on the request channel
// and logged here so one failed utterance never fails the command.
func (s *Service) enqueueSpeech(response *domain.AssistantResponse, opts *domain.VoiceOptions) {
	done := s.speech.Enqueue(response.SpeakableText(), opts)
	go func() {
		if err := <-done; err != nil {
			s.log.Error("speech playback failed", zap.Error(err))
		}
	}()
}
