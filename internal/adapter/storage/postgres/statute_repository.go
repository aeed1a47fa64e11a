package postgres

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/larkfield/lark-server/internal/domain"
	"github.com/larkfield/lark-server/internal/observability/telemetry"
	"github.com/larkfield/lark-server/internal/ports"
)

type StatuteRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewStatuteRepository(db *gorm.DB, log *zap.Logger) ports.StatuteRepository {
	return &StatuteRepository{
		db:  db,
		log: log,
	}
}

func (r *StatuteRepository) Save(ctx context.Context, statute *domain.Statute) error {
	return r.db.WithContext(ctx).Save(statute).Error
}

func (r *StatuteRepository) FindByID(ctx context.Context, id string) (*domain.Statute, error) {
	var statute domain.Statute
	err := r.db.WithContext(ctx).First(&statute, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &statute, nil
}

// Search matches on statute number or title, case-insensitively.
func (r *StatuteRepository) Search(ctx context.Context, query string) ([]domain.Statute, error) {
	start := time.Now()
	var statutes []domain.Statute
	pattern := "%" + query + "%"
	err := r.db.WithContext(ctx).
		Where("id ILIKE ? OR title ILIKE ?", pattern, pattern).
		Order("id").
		Find(&statutes).Error
	telemetry.DatabaseLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}
	return statutes, nil
}
