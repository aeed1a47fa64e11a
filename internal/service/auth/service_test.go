package auth

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/larkfield/lark-server/internal/domain"
	"github.com/larkfield/lark-server/internal/mocks"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func TestLogin_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	password := "password123"
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	mockOfficer := &domain.Officer{
		ID:          "officer-123",
		Email:       "reyes@larkfield.gov",
		Password:    string(hashedPassword),
		Role:        domain.OfficerRoleOfficer,
		BadgeNumber: "4411",
		Status:      "Active",
	}

	mockRepo := &mocks.MockOfficerRepository{
		FindByEmailFunc: func(ctx context.Context, email string) (*domain.Officer, error) {
			if email == "reyes@larkfield.gov" {
				return mockOfficer, nil
			}
			return nil, nil
		},
	}

	service := NewService(mockRepo, mocks.NewMockCache(), "test-secret-key", newTestLogger())

	// Act
	accessToken, refreshToken, err := service.Login(ctx, "reyes@larkfield.gov", password)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if accessToken == "" {
		t.Error("expected access token, got empty string")
	}
	if refreshToken == "" {
		t.Error("expected refresh token, got empty string")
	}
}

func TestLogin_InvalidEmail(t *testing.T) {
	// Arrange
	ctx := context.Background()

	mockRepo := &mocks.MockOfficerRepository{
		FindByEmailFunc: func(ctx context.Context, email string) (*domain.Officer, error) {
			return nil, nil // Officer not found
		},
	}

	service := NewService(mockRepo, mocks.NewMockCache(), "test-secret-key", newTestLogger())

	// Act
	_, _, err := service.Login(ctx, "notfound@larkfield.gov", "password")

	// Assert
	if err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_InvalidPassword(t *testing.T) {
	// Arrange
	ctx := context.Background()
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("correctpassword"), bcrypt.DefaultCost)

	mockOfficer := &domain.Officer{
		ID:       "officer-123",
		Email:    "reyes@larkfield.gov",
		Password: string(hashedPassword),
	}

	mockRepo := &mocks.MockOfficerRepository{
		FindByEmailFunc: func(ctx context.Context, email string) (*domain.Officer, error) {
			return mockOfficer, nil
		},
	}

	service := NewService(mockRepo, mocks.NewMockCache(), "test-secret-key", newTestLogger())

	// Act
	_, _, err := service.Login(ctx, "reyes@larkfield.gov", "wrongpassword")

	// Assert
	if err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRegister_HashesPasswordAndDefaults(t *testing.T) {
	// Arrange
	ctx := context.Background()
	var saved *domain.Officer

	mockRepo := &mocks.MockOfficerRepository{
		SaveFunc: func(ctx context.Context, officer *domain.Officer) error {
			saved = officer
			return nil
		},
	}

	service := NewService(mockRepo, mocks.NewMockCache(), "test-secret-key", newTestLogger())

	officer := &domain.Officer{
		Email:       "new@larkfield.gov",
		Password:    "plaintext",
		BadgeNumber: "9001",
	}

	// Act
	err := service.Register(ctx, officer)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if saved == nil {
		t.Fatal("expected officer saved")
	}
	if saved.Password == "plaintext" {
		t.Error("expected password hashed before save")
	}
	if bcrypt.CompareHashAndPassword([]byte(saved.Password), []byte("plaintext")) != nil {
		t.Error("hashed password does not verify")
	}
	if saved.Role != domain.OfficerRoleOfficer {
		t.Errorf("expected default role, got %s", saved.Role)
	}
	if saved.ID == "" {
		t.Error("expected generated id")
	}
}

func TestRegister_DuplicateBadge(t *testing.T) {
	ctx := context.Background()

	mockRepo := &mocks.MockOfficerRepository{
		FindByBadgeFunc: func(ctx context.Context, badgeNumber string) (*domain.Officer, error) {
			return &domain.Officer{ID: "other", BadgeNumber: badgeNumber}, nil
		},
	}

	service := NewService(mockRepo, mocks.NewMockCache(), "test-secret-key", newTestLogger())

	err := service.Register(ctx, &domain.Officer{
		Email:       "dup@larkfield.gov",
		Password:    "pw",
		BadgeNumber: "4411",
	})

	if err == nil {
		t.Fatal("expected error for duplicate badge")
	}
}

func TestValidateToken_RoundTrip(t *testing.T) {
	// Arrange
	ctx := context.Background()
	password := "password123"
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	mockOfficer := &domain.Officer{
		ID:       "officer-123",
		Email:    "reyes@larkfield.gov",
		Password: string(hashedPassword),
	}

	mockRepo := &mocks.MockOfficerRepository{
		FindByEmailFunc: func(ctx context.Context, email string) (*domain.Officer, error) {
			return mockOfficer, nil
		},
		FindByIDFunc: func(ctx context.Context, id string) (*domain.Officer, error) {
			if id == "officer-123" {
				return mockOfficer, nil
			}
			return nil, nil
		},
	}

	service := NewService(mockRepo, mocks.NewMockCache(), "test-secret-key", newTestLogger())
	accessToken, _, err := service.Login(ctx, "reyes@larkfield.gov", password)
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	// Act
	officer, err := service.ValidateToken(ctx, accessToken)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if officer == nil || officer.ID != "officer-123" {
		t.Errorf("expected officer-123, got %+v", officer)
	}
}

func TestValidateToken_RejectsRefreshToken(t *testing.T) {
	// Arrange
	ctx := context.Background()
	password := "password123"
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	mockOfficer := &domain.Officer{
		ID:       "officer-123",
		Email:    "reyes@larkfield.gov",
		Password: string(hashedPassword),
	}

	mockRepo := &mocks.MockOfficerRepository{
		FindByEmailFunc: func(ctx context.Context, email string) (*domain.Officer, error) {
			return mockOfficer, nil
		},
		FindByIDFunc: func(ctx context.Context, id string) (*domain.Officer, error) {
			return mockOfficer, nil
		},
	}

	service := NewService(mockRepo, mocks.NewMockCache(), "test-secret-key", newTestLogger())
	_, refreshToken, err := service.Login(ctx, "reyes@larkfield.gov", password)
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	// Act
	_, err = service.ValidateToken(ctx, refreshToken)

	// Assert
	if err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestRefreshToken_IssuesNewAccessToken(t *testing.T) {
	// Arrange
	ctx := context.Background()
	password := "password123"
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	mockOfficer := &domain.Officer{
		ID:       "officer-123",
		Email:    "reyes@larkfield.gov",
		Password: string(hashedPassword),
	}

	mockRepo := &mocks.MockOfficerRepository{
		FindByEmailFunc: func(ctx context.Context, email string) (*domain.Officer, error) {
			return mockOfficer, nil
		},
		FindByIDFunc: func(ctx context.Context, id string) (*domain.Officer, error) {
			return mockOfficer, nil
		},
	}

	service := NewService(mockRepo, mocks.NewMockCache(), "test-secret-key", newTestLogger())
	_, refreshToken, err := service.Login(ctx, "reyes@larkfield.gov", password)
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	// Act
	accessToken, err := service.RefreshToken(ctx, refreshToken)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if accessToken == "" {
		t.Error("expected new access token")
	}

	officer, err := service.ValidateToken(ctx, accessToken)
	if err != nil || officer == nil {
		t.Errorf("refreshed token should validate, got %v", err)
	}
}
