package livekit

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenProvider mints LiveKit room access tokens. Live voice sessions ride
// LiveKit rooms; the server only hands out scoped join tokens and never sees
// the media path.
type TokenProvider struct {
	apiKey    string
	apiSecret string
	ttl       time.Duration
}

func NewTokenProvider(apiKey, apiSecret string) *TokenProvider {
	return &TokenProvider{
		apiKey:    apiKey,
		apiSecret: apiSecret,
		ttl:       6 * time.Hour,
	}
}

type videoGrant struct {
	RoomJoin     bool   `json:"roomJoin"`
	Room         string `json:"room"`
	CanPublish   bool   `json:"canPublish"`
	CanSubscribe bool   `json:"canSubscribe"`
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Video videoGrant `json:"video"`
}

// Mint issues a join token for the given identity and room with publish and
// subscribe rights.
func (p *TokenProvider) Mint(identity, room string) (string, error) {
	if p.apiKey == "" || p.apiSecret == "" {
		return "", errors.New("livekit: API key or secret not configured")
	}
	if identity == "" || room == "" {
		return "", errors.New("livekit: identity and room are required")
	}

	now := time.Now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    p.apiKey,
			Subject:   identity,
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
		},
		Video: videoGrant{
			RoomJoin:     true,
			Room:         room,
			CanPublish:   true,
			CanSubscribe: true,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(p.apiSecret))
}
