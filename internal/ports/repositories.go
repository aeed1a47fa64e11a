package ports

import (
	"context"
	"time"

	"github.com/larkfield/lark-server/internal/domain"
)

type OfficerRepository interface {
	Save(ctx context.Context, officer *domain.Officer) error
	FindByID(ctx context.Context, id string) (*domain.Officer, error)
	FindByEmail(ctx context.Context, email string) (*domain.Officer, error)
	FindByBadge(ctx context.Context, badgeNumber string) (*domain.Officer, error)
}

type StatuteRepository interface {
	Save(ctx context.Context, statute *domain.Statute) error
	FindByID(ctx context.Context, id string) (*domain.Statute, error)
	Search(ctx context.Context, query string) ([]domain.Statute, error)
}

type ReportRepository interface {
	Save(ctx context.Context, report *domain.Report) error
	FindByID(ctx context.Context, id string) (*domain.Report, error)
	FindByOfficerID(ctx context.Context, officerID string) ([]domain.Report, error)
	Update(ctx context.Context, report *domain.Report) error
}

// Cache is the shared read-through cache used for offline fallbacks and
// session state.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping() error
	Close() error
}
