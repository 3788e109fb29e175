package qr

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/classtrack/attendance-service/internal/domain"
)

// Key id written to the token header; verification falls back to the
// previous secret during a rotation window.
const keyIDCurrent = "cur"

// ErrInvalidToken covers any signature, structure or time-claim failure.
// Callers never learn which check failed.
var ErrInvalidToken = errors.New("invalid or expired attendance token")

// Claims is the signed payload of an attendance token. The display fields
// (mat, nome, uid) travel for verifier-side UX only; authorization always
// re-resolves the profile by sub.
type Claims struct {
	Matricula string `json:"mat"`
	Nome      string `json:"nome"`
	UnidadeID string `json:"uid"`
	Nonce     string `json:"nonce"`
	jwt.RegisteredClaims
}

// Codec signs and verifies compact attendance tokens with a symmetric key.
type Codec struct {
	secret     []byte
	prevSecret []byte
	ttl        time.Duration
	now        func() time.Time
}

// NewCodec builds a codec. prevSecret may be empty; when set it is accepted
// during verification only, never used for signing.
func NewCodec(secret, prevSecret string, ttl time.Duration) *Codec {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	c := &Codec{secret: []byte(secret), ttl: ttl, now: time.Now}
	if prevSecret != "" {
		c.prevSecret = []byte(prevSecret)
	}
	return c
}

// WithClock overrides the time source. Tests only.
func (c *Codec) WithClock(now func() time.Time) *Codec {
	c.now = now
	return c
}

// TTL returns the fixed token lifetime.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Sign mints a fresh token for the professor with a new random nonce.
// The nonce is a v4 UUID: 122 random bits, collision probability negligible.
func (c *Codec) Sign(professor *domain.Professor) (tokenStr, nonce string, issuedAt, expiresAt time.Time, err error) {
	issuedAt = c.now()
	expiresAt = issuedAt.Add(c.ttl)
	nonce = uuid.NewString()

	claims := &Claims{
		Matricula: professor.Matricula,
		Nome:      professor.Nome,
		UnidadeID: professor.UnidadeID,
		Nonce:     nonce,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   professor.ID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token.Header["kid"] = keyIDCurrent
	tokenStr, err = token.SignedString(c.secret)
	if err != nil {
		return "", "", time.Time{}, time.Time{}, err
	}
	return tokenStr, nonce, issuedAt, expiresAt, nil
}

// Verify checks the MAC and time claims, returning the embedded claims.
// This is stateless: no ledger access happens here, so garbage input is
// rejected cheaply. Any failure maps to ErrInvalidToken.
func (c *Codec) Verify(tokenStr string) (*Claims, error) {
	claims, err := c.parseWith(tokenStr, c.secret)
	if err != nil && c.prevSecret != nil {
		claims, err = c.parseWith(tokenStr, c.prevSecret)
	}
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.Nonce == "" || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (c *Codec) parseWith(tokenStr string, secret []byte) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	}, jwt.WithTimeFunc(c.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
