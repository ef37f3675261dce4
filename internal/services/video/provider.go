// Package video issues media access tokens for the external audio-video
// provider. The coordinator only ever sees opaque tokens; room wiring and
// media transport are the provider's concern.
package video

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mcoot/townsquare-go/internal/dependencies/clock"
	"github.com/mcoot/townsquare-go/internal/model"
)

// Errors
var (
	ErrNoSigningSecret = errors.New("video token signing secret is empty")
)

// TokenProvider mints a media token granting a player access to a town's
// audio-video room. A failure here fails the player's join.
type TokenProvider interface {
	GetTokenForTown(ctx context.Context, townID model.TownID, playerID model.PlayerID) (string, error)
}

// Config holds configuration for the JWT token provider
type Config struct {
	// SigningSecret is the HS256 key shared with the media provider
	SigningSecret string
	// TokenTTL bounds how long an issued token grants room access
	TokenTTL time.Duration
}

// DefaultConfig returns default provider configuration
func DefaultConfig() Config {
	return Config{
		TokenTTL: 4 * time.Hour,
	}
}

// JWTProvider implements TokenProvider by signing room-grant JWTs, the
// shape most hosted media providers accept
type JWTProvider struct {
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
}

// NewJWTProvider creates a JWTProvider
func NewJWTProvider(cfg Config, clk clock.Clock) (*JWTProvider, error) {
	if cfg.SigningSecret == "" {
		return nil, ErrNoSigningSecret
	}
	ttl := cfg.TokenTTL
	if ttl == 0 {
		ttl = DefaultConfig().TokenTTL
	}
	return &JWTProvider{
		secret: []byte(cfg.SigningSecret),
		ttl:    ttl,
		clock:  clk,
	}, nil
}

var _ TokenProvider = (*JWTProvider)(nil)

// RoomClaims are the claims carried by an issued room token
type RoomClaims struct {
	Room string `json:"room"`
	jwt.RegisteredClaims
}

// GetTokenForTown signs a token granting playerID access to townID's room
func (p *JWTProvider) GetTokenForTown(_ context.Context, townID model.TownID, playerID model.PlayerID) (string, error) {
	now := p.clock.Now()
	claims := RoomClaims{
		Room: string(townID),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   string(playerID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

// ParseToken verifies a token issued by this provider and returns its
// claims. Used by tests and by operators debugging room access.
func (p *JWTProvider) ParseToken(tokenString string) (*RoomClaims, error) {
	claims := &RoomClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return p.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	return claims, nil
}
