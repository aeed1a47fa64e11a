package mocks

import (
	"context"

	"github.com/larkfield/lark-server/internal/domain"
)

// MockOfficerRepository is a mock implementation of OfficerRepository interface
type MockOfficerRepository struct {
	SaveFunc        func(ctx context.Context, officer *domain.Officer) error
	FindByIDFunc    func(ctx context.Context, id string) (*domain.Officer, error)
	FindByEmailFunc func(ctx context.Context, email string) (*domain.Officer, error)
	FindByBadgeFunc func(ctx context.Context, badgeNumber string) (*domain.Officer, error)
}

func (m *MockOfficerRepository) Save(ctx context.Context, officer *domain.Officer) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, officer)
	}
	return nil
}

func (m *MockOfficerRepository) FindByID(ctx context.Context, id string) (*domain.Officer, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockOfficerRepository) FindByEmail(ctx context.Context, email string) (*domain.Officer, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *MockOfficerRepository) FindByBadge(ctx context.Context, badgeNumber string) (*domain.Officer, error) {
	if m.FindByBadgeFunc != nil {
		return m.FindByBadgeFunc(ctx, badgeNumber)
	}
	return nil, nil
}

// MockStatuteRepository is a mock implementation of StatuteRepository interface
type MockStatuteRepository struct {
	SaveFunc     func(ctx context.Context, statute *domain.Statute) error
	FindByIDFunc func(ctx context.Context, id string) (*domain.Statute, error)
	SearchFunc   func(ctx context.Context, query string) ([]domain.Statute, error)
}

func (m *MockStatuteRepository) Save(ctx context.Context, statute *domain.Statute) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, statute)
	}
	return nil
}

func (m *MockStatuteRepository) FindByID(ctx context.Context, id string) (*domain.Statute, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockStatuteRepository) Search(ctx context.Context, query string) ([]domain.Statute, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query)
	}
	return []domain.Statute{}, nil
}

// MockReportRepository is a mock implementation of ReportRepository interface
type MockReportRepository struct {
	SaveFunc            func(ctx context.Context, report *domain.Report) error
	FindByIDFunc        func(ctx context.Context, id string) (*domain.Report, error)
	FindByOfficerIDFunc func(ctx context.Context, officerID string) ([]domain.Report, error)
	UpdateFunc          func(ctx context.Context, report *domain.Report) error
}

func (m *MockReportRepository) Save(ctx context.Context, report *domain.Report) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, report)
	}
	return nil
}

func (m *MockReportRepository) FindByID(ctx context.Context, id string) (*domain.Report, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockReportRepository) FindByOfficerID(ctx context.Context, officerID string) ([]domain.Report, error) {
	if m.FindByOfficerIDFunc != nil {
		return m.FindByOfficerIDFunc(ctx, officerID)
	}
	return []domain.Report{}, nil
}

func (m *MockReportRepository) Update(ctx context.Context, report *domain.Report) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, report)
	}
	return nil
}
