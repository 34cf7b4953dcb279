package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	CookieName = "admin_session"
	SessionTTL = 7 * 24 * time.Hour
	issuer     = "agency-api"
)

var (
	ErrInvalidSession = errors.New("invalid session")
	ErrRevokedSession = errors.New("session has been revoked")
)

type Claims struct {
	Email string `json:"email"`
	Admin bool   `json:"admin"`
	jwt.RegisteredClaims
}

// SessionManager issues and checks HS256 admin session tokens.
type SessionManager struct {
	secret      []byte
	ttl         time.Duration
	revocations RevocationList
	now         func() time.Time
}

func NewSessionManager(secret string, ttl time.Duration, revocations RevocationList) (*SessionManager, error) {
	if len(secret) < 32 {
		return nil, errors.New("session secret must be at least 32 bytes")
	}
	if ttl <= 0 {
		ttl = SessionTTL
	}
	return &SessionManager{secret: []byte(secret), ttl: ttl, revocations: revocations, now: time.Now}, nil
}

func (m *SessionManager) Issue(email string) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(m.ttl)
	claims := &Claims{
		Email: email,
		Admin: true,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    issuer,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w", err)
	}
	return token, expiresAt, nil
}

// Parse validates signature, expiry, the admin claim and the revocation list.
func (m *SessionManager) Parse(ctx context.Context, tokenString string) (*Claims, error) {
	claims, err := m.verify(tokenString)
	if err != nil {
		return nil, err
	}

	if m.revocations != nil {
		revoked, err := m.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("check revocation: %w", err)
		}
		if revoked {
			return nil, ErrRevokedSession
		}
	}
	return claims, nil
}

// Revoke blacklists the token until its natural expiry. Invalid tokens are
// ignored since they are rejected anyway.
func (m *SessionManager) Revoke(ctx context.Context, tokenString string) error {
	claims, err := m.verify(tokenString)
	if err != nil || m.revocations == nil {
		return nil
	}
	return m.revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Sub(m.now()))
}

func (m *SessionManager) verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || !claims.Admin || claims.ID == "" {
		return nil, ErrInvalidSession
	}
	return claims, nil
}
