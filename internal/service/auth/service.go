package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/larkfield/lark-server/internal/domain"
	"github.com/larkfield/lark-server/internal/ports"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

type Service struct {
	officers  ports.OfficerRepository
	cache     ports.Cache
	jwtSecret []byte
	log       *zap.Logger
}

func NewService(officers ports.OfficerRepository, cache ports.Cache, jwtSecret string, log *zap.Logger) *Service {
	return &Service{
		officers:  officers,
		cache:     cache,
		jwtSecret: []byte(jwtSecret),
		log:       log,
	}
}

var _ ports.AuthService = (*Service)(nil)

func (s *Service) Login(ctx context.Context, email, password string) (string, string, error) {
	officer, err := s.officers.FindByEmail(ctx, email)
	if err != nil || officer == nil {
		return "", "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(officer.Password), []byte(password)); err != nil {
		return "", "", ErrInvalidCredentials
	}

	accessToken, err := s.signToken(officer, "access", accessTokenTTL)
	if err != nil {
		return "", "", err
	}
	refreshToken, err := s.signToken(officer, "refresh", refreshTokenTTL)
	if err != nil {
		return "", "", err
	}

	s.log.Info("officer logged in",
		zap.String("officer_id", officer.ID),
		zap.String("badge_number", officer.BadgeNumber),
	)
	return accessToken, refreshToken, nil
}

func (s *Service) Register(ctx context.Context, officer *domain.Officer) error {
	existing, err := s.officers.FindByEmail(ctx, officer.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return errors.New("email already registered")
	}
	if officer.BadgeNumber != "" {
		byBadge, err := s.officers.FindByBadge(ctx, officer.BadgeNumber)
		if err != nil {
			return err
		}
		if byBadge != nil {
			return errors.New("badge number already registered")
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(officer.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	officer.Password = string(hashed)

	if officer.ID == "" {
		officer.ID = uuid.New().String()
	}
	if officer.Role == "" {
		officer.Role = domain.OfficerRoleOfficer
	}
	officer.Status = "Active"
	officer.CreatedAt = time.Now()
	officer.UpdatedAt = time.Now()

	return s.officers.Save(ctx, officer)
}

// RefreshToken exchanges a valid refresh token for a new access token.
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.parseToken(refreshToken)
	if err != nil {
		return "", errors.New("invalid refresh token")
	}
	if tokenType, _ := claims["type"].(string); tokenType != "refresh" {
		return "", errors.New("invalid refresh token")
	}

	officerID, ok := claims["sub"].(string)
	if !ok {
		return "", errors.New("invalid refresh token")
	}

	officer, err := s.officers.FindByID(ctx, officerID)
	if err != nil || officer == nil {
		return "", errors.New("officer not found")
	}

	return s.signToken(officer, "access", accessTokenTTL)
}

// ValidateToken checks an access token and loads the officer it names.
func (s *Service) ValidateToken(ctx context.Context, tokenStr string) (*domain.Officer, error) {
	claims, err := s.parseToken(tokenStr)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if tokenType, _ := claims["type"].(string); tokenType != "access" {
		return nil, ErrInvalidToken
	}

	officerID, ok := claims["sub"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}

	officer, err := s.officers.FindByID(ctx, officerID)
	if err != nil {
		return nil, err
	}
	if officer == nil {
		return nil, ErrInvalidToken
	}
	return officer, nil
}

func (s *Service) parseToken(tokenStr string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *Service) signToken(officer *domain.Officer, tokenType string, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   officer.ID,
		"role":  officer.Role,
		"badge": officer.BadgeNumber,
		"exp":   time.Now().Add(ttl).Unix(),
		"type":  tokenType,
	})
	return token.SignedString(s.jwtSecret)
}
