package server

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/jonathan/resume-refiner/internal/config"
)

const tokenIssuer = "resume-refiner"

// ErrInvalidToken wraps every reason a session token is refused.
var ErrInvalidToken = errors.New("invalid session token")

// Claims binds a token to one review session.
type Claims struct {
	SessionID uuid.UUID `json:"sid"`
	jwt.RegisteredClaims
}

// TokenService signs and checks HS256 session tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(cfg *config.SessionConfig) *TokenService {
	return &TokenService{secret: []byte(cfg.Secret), ttl: cfg.TTL(), now: time.Now}
}

// GenerateToken issues a token for sessionID. It expires after one session lifetime; the
// session itself may be swept earlier if left idle.
func (s *TokenService) GenerateToken(sessionID uuid.UUID) (string, time.Time, error) {
	now := s.now().Truncate(time.Second)
	exp := now.Add(s.ttl)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return signed, exp, nil
}

// ValidateToken returns the claims of a well-signed, unexpired token that names a session.
func (s *TokenService) ValidateToken(raw string) (*Claims, error) {
	if raw == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidToken)
	}
	claims := new(Claims)
	_, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, fmt.Errorf("%w: token expired", ErrInvalidToken)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, fmt.Errorf("%w: bad signature", ErrInvalidToken)
	case errors.Is(err, jwt.ErrTokenMalformed):
		return nil, fmt.Errorf("%w: malformed", ErrInvalidToken)
	default:
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.SessionID == uuid.Nil {
		return nil, fmt.Errorf("%w: no session", ErrInvalidToken)
	}
	return claims, nil
}

// SessionFor resolves a token to its session ID, for middleware.Authenticate.
func (s *TokenService) SessionFor(raw string) (uuid.UUID, error) {
	claims, err := s.ValidateToken(raw)
	if err != nil {
		return uuid.Nil, err
	}
	return claims.SessionID, nil
}
