package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/larkfield/lark-server/internal/domain"
	"github.com/larkfield/lark-server/internal/observability/telemetry"
	"github.com/larkfield/lark-server/internal/ports"
)

const (
	SubjectLocation = "dispatch.location"
	SubjectBackup   = "dispatch.backup"

	// maxBuffered bounds the offline buffer; when full, the oldest buffered
	// message is dropped so the most recent positions survive.
	maxBuffered = 256
)

type buffered struct {
	subject string
	payload []byte
}

// Service publishes officer telemetry to the dispatch broker. While offline
// it buffers messages in memory and replays them in order once connectivity
// returns.
type Service struct {
	mq  ports.MessageQueue
	log *zap.Logger

	mu      sync.Mutex
	offline bool
	backlog []buffered
}

func NewService(mq ports.MessageQueue, log *zap.Logger) *Service {
	return &Service{mq: mq, log: log}
}

var _ ports.DispatchService = (*Service)(nil)

func (s *Service) SendLocation(ctx context.Context, update domain.LocationUpdate) error {
	if update.Timestamp.IsZero() {
		update.Timestamp = time.Now()
	}
	return s.publish(SubjectLocation, update)
}

func (s *Service) RequestBackup(ctx context.Context, req domain.BackupRequest) error {
	if req.Timestamp.IsZero() {
		req.Timestamp = time.Now()
	}
	return s.publish(SubjectBackup, req)
}

// SetOfflineMode toggles buffering. Leaving offline mode replays the backlog
// in arrival order before new messages go out.
func (s *Service) SetOfflineMode(offline bool) {
	s.mu.Lock()
	s.offline = offline
	var backlog []buffered
	if !offline {
		backlog = s.backlog
		s.backlog = nil
	}
	s.mu.Unlock()

	for _, msg := range backlog {
		if err := s.mq.Publish(msg.subject, msg.payload); err != nil {
			s.log.Error("failed to replay buffered dispatch message",
				zap.String("subject", msg.subject),
				zap.Error(err),
			)
			telemetry.DispatchMessagesTotal.WithLabelValues(msg.subject, "error").Inc()
			continue
		}
		telemetry.DispatchMessagesTotal.WithLabelValues(msg.subject, "replayed").Inc()
	}
	if len(backlog) > 0 {
		s.log.Info("dispatch backlog replayed", zap.Int("messages", len(backlog)))
	}
}

func (s *Service) publish(subject string, message interface{}) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("encode dispatch message: %w", err)
	}

	s.mu.Lock()
	if s.offline {
		if len(s.backlog) >= maxBuffered {
			s.backlog = s.backlog[1:]
		}
		s.backlog = append(s.backlog, buffered{subject: subject, payload: payload})
		s.mu.Unlock()
		telemetry.DispatchMessagesTotal.WithLabelValues(subject, "buffered").Inc()
		return nil
	}
	s.mu.Unlock()

	if err := s.mq.Publish(subject, payload); err != nil {
		telemetry.DispatchMessagesTotal.WithLabelValues(subject, "error").Inc()
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	telemetry.DispatchMessagesTotal.WithLabelValues(subject, "ok").Inc()
	return nil
}
