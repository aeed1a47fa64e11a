package postgres

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/larkfield/lark-server/internal/domain"
	"github.com/larkfield/lark-server/internal/ports"
)

type OfficerRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewOfficerRepository(db *gorm.DB, log *zap.Logger) ports.OfficerRepository {
	return &OfficerRepository{
		db:  db,
		log: log,
	}
}

func (r *OfficerRepository) Save(ctx context.Context, officer *domain.Officer) error {
	return r.db.WithContext(ctx).Save(officer).Error
}

func (r *OfficerRepository) FindByID(ctx context.Context, id string) (*domain.Officer, error) {
	var officer domain.Officer
	err := r.db.WithContext(ctx).First(&officer, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &officer, nil
}

func (r *OfficerRepository) FindByEmail(ctx context.Context, email string) (*domain.Officer, error) {
	var officer domain.Officer
	err := r.db.WithContext(ctx).First(&officer, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &officer, nil
}

func (r *OfficerRepository) FindByBadge(ctx context.Context, badgeNumber string) (*domain.Officer, error) {
	var officer domain.Officer
	err := r.db.WithContext(ctx).First(&officer, "badge_number = ?", badgeNumber).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &officer, nil
}
