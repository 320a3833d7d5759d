package token

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"
)

// ErrInvalidToken is returned for malformed, forged or expired tokens.
var ErrInvalidToken = errors.New("invalid token")

const (
	confirmationInfo = "api-yamdb confirmation code"
	accessInfo       = "api-yamdb access token"
	keySize          = 32
)

// ConfirmationClaims is the payload of an emailed confirmation code.
type ConfirmationClaims struct {
	UserID int64 `json:"id"`
	jwt.RegisteredClaims
}

// AccessClaims is the payload of a bearer access token.
type AccessClaims struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Manager signs and verifies confirmation codes and access tokens.
type Manager struct {
	confirmationKey []byte
	accessKey       []byte
	confirmationTTL time.Duration
	accessTTL       time.Duration
	now             func() time.Time
}

type Option func(*Manager)

// WithClock overrides the time source used for issuing and validating.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager derives one signing key per token kind from secret.
func NewManager(secret string, confirmationTTL, accessTTL time.Duration, opts ...Option) (*Manager, error) {
	if secret == "" {
		return nil, errors.New("token secret is empty")
	}

	confirmationKey, err := deriveKey(secret, confirmationInfo)
	if err != nil {
		return nil, err
	}
	accessKey, err := deriveKey(secret, accessInfo)
	if err != nil {
		return nil, err
	}

	m := &Manager{
		confirmationKey: confirmationKey,
		accessKey:       accessKey,
		confirmationTTL: confirmationTTL,
		accessTTL:       accessTTL,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

func deriveKey(secret, info string) ([]byte, error) {
	key := make([]byte, keySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(info)), key); err != nil {
		return nil, fmt.Errorf("derive %q key: %w", info, err)
	}
	return key, nil
}

// IssueConfirmation returns a code proving control of the account's email.
func (m *Manager) IssueConfirmation(userID int64) (string, error) {
	claims := ConfirmationClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(m.now().Add(m.confirmationTTL)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.confirmationKey)
}

// VerifyConfirmation checks the code signature, expiry and owner.
// It can be called repeatedly for the same code until it expires.
func (m *Manager) VerifyConfirmation(code string, userID int64) error {
	claims := &ConfirmationClaims{}
	if err := m.parse(code, claims, m.confirmationKey); err != nil {
		return err
	}

	if claims.UserID != userID {
		return fmt.Errorf("%w: issued for another account", ErrInvalidToken)
	}
	return nil
}

// IssueAccess returns a bearer token for the user.
func (m *Manager) IssueAccess(userID int64, role string) (string, error) {
	now := m.now()
	claims := AccessClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTTL)),
			ID:        uuid.NewString(),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.accessKey)
}

// ParseAccess validates a bearer token and returns its claims.
func (m *Manager) ParseAccess(raw string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := m.parse(raw, claims, m.accessKey); err != nil {
		return nil, err
	}
	return claims, nil
}

func (m *Manager) parse(raw string, claims jwt.Claims, key []byte) error {
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return ErrInvalidToken
	}
	return nil
}
