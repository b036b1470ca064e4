package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "inkwell"

// TokenKind distinguishes the two token classes. They share a claim shape
// but are signed with independent secrets and lifetimes.
type TokenKind string

const (
	TokenAccess  TokenKind = "access"
	TokenRefresh TokenKind = "refresh"
)

var (
	// ErrTokenExpired indicates the embedded expiry has passed.
	ErrTokenExpired = errors.New("auth: token expired")
	// ErrTokenMalformed indicates the token cannot be parsed or its
	// signature does not match.
	ErrTokenMalformed = errors.New("auth: token malformed")
	// ErrWrongKind indicates a token of one kind was presented as the other.
	ErrWrongKind = errors.New("auth: wrong token kind")
)

// Claims is the signed payload of both token kinds.
type Claims struct {
	UserID int64  `json:"uid"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	Kind   string `json:"token_kind"`
	jwt.RegisteredClaims
}

// Codec signs and verifies access and refresh tokens using HS256. It is a
// pure function of configuration and input; it holds no persistent state.
type Codec struct {
	secrets map[TokenKind][]byte
	ttls    map[TokenKind]time.Duration
	now     func() time.Time
}

// CodecConfig carries the per-kind secrets and lifetimes.
type CodecConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// CodecOption configures Codec behavior.
type CodecOption func(*Codec)

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) CodecOption {
	return func(c *Codec) {
		if fn != nil {
			c.now = fn
		}
	}
}

// NewCodec validates configuration and builds a Codec. A missing secret is
// a construction error so the process fails at startup, never per request.
func NewCodec(cfg CodecConfig, opts ...CodecOption) (*Codec, error) {
	access := strings.TrimSpace(cfg.AccessSecret)
	refresh := strings.TrimSpace(cfg.RefreshSecret)
	if access == "" || refresh == "" {
		return nil, errors.New("auth: token secrets are not configured")
	}
	if access == refresh {
		return nil, errors.New("auth: access and refresh secrets must differ")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("auth: token lifetimes must be positive")
	}
	c := &Codec{
		secrets: map[TokenKind][]byte{
			TokenAccess:  []byte(access),
			TokenRefresh: []byte(refresh),
		},
		ttls: map[TokenKind]time.Duration{
			TokenAccess:  cfg.AccessTTL,
			TokenRefresh: cfg.RefreshTTL,
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// TTL returns the configured lifetime for the given kind.
func (c *Codec) TTL(kind TokenKind) time.Duration {
	return c.ttls[kind]
}

// Issue signs a token of the given kind for the identity and returns the
// token with its expiry.
func (c *Codec) Issue(kind TokenKind, id Identity) (string, time.Time, error) {
	secret, ok := c.secrets[kind]
	if !ok {
		return "", time.Time{}, fmt.Errorf("auth: unknown token kind %q", kind)
	}
	now := c.now().UTC()
	exp := now.Add(c.ttls[kind])
	claims := Claims{
		UserID: id.UserID,
		Email:  id.Email,
		Role:   id.Role,
		Kind:   string(kind),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatInt(id.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Verify parses and validates a token of the given kind. It fails with
// ErrTokenExpired past expiry, ErrTokenMalformed on parse or signature
// failure, and ErrWrongKind when a valid token of the other kind is
// presented.
func (c *Codec) Verify(kind TokenKind, token string) (*Claims, error) {
	secret, ok := c.secrets[kind]
	if !ok {
		return nil, fmt.Errorf("auth: unknown token kind %q", kind)
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrTokenMalformed
	}
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenMalformed
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenMalformed
	}
	if claims.Kind != string(kind) {
		return nil, ErrWrongKind
	}
	if claims.UserID <= 0 || !claims.Role.Valid() {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}
