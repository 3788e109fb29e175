package qr

import (
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classtrack/attendance-service/internal/domain"
)

func testProfessor() *domain.Professor {
	return &domain.Professor{
		ID:        "prof-1",
		Nome:      "Ana Souza",
		Matricula: "M-1042",
		UnidadeID: "unit-7",
	}
}

func TestCodec_SignVerifyRoundtrip(t *testing.T) {
	t.Parallel()

	codec := NewCodec("test-secret", "", 60*time.Second)
	tokenStr, nonce, issuedAt, expiresAt, err := codec.Sign(testProfessor())
	require.NoError(t, err)
	require.NotEmpty(t, tokenStr)
	require.NotEmpty(t, nonce)
	assert.WithinDuration(t, issuedAt.Add(60*time.Second), expiresAt, time.Second)

	claims, err := codec.Verify(tokenStr)
	require.NoError(t, err)
	assert.Equal(t, "prof-1", claims.Subject)
	assert.Equal(t, "M-1042", claims.Matricula)
	assert.Equal(t, "Ana Souza", claims.Nome)
	assert.Equal(t, "unit-7", claims.UnidadeID)
	assert.Equal(t, nonce, claims.Nonce)
}

func TestCodec_FreshNoncePerToken(t *testing.T) {
	t.Parallel()

	codec := NewCodec("test-secret", "", 60*time.Second)
	_, nonce1, _, _, err := codec.Sign(testProfessor())
	require.NoError(t, err)
	_, nonce2, _, _, err := codec.Sign(testProfessor())
	require.NoError(t, err)

	assert.NotEqual(t, nonce1, nonce2)
}

func TestCodec_TamperedTokenRejected(t *testing.T) {
	t.Parallel()

	codec := NewCodec("test-secret", "", 60*time.Second)
	tokenStr, _, _, _, err := codec.Sign(testProfessor())
	require.NoError(t, err)

	parts := strings.Split(tokenStr, ".")
	require.Len(t, parts, 3)

	// Flip one character in the payload segment.
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	_, err = codec.Verify(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodec_WrongSecretRejected(t *testing.T) {
	t.Parallel()

	forger := NewCodec("some-other-secret", "", 60*time.Second)
	tokenStr, _, _, _, err := forger.Sign(testProfessor())
	require.NoError(t, err)

	verifier := NewCodec("test-secret", "", 60*time.Second)
	_, err = verifier.Verify(tokenStr)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodec_ExpiredTokenRejected(t *testing.T) {
	t.Parallel()

	now := time.Now()
	codec := NewCodec("test-secret", "", 60*time.Second).WithClock(func() time.Time { return now })

	tokenStr, _, _, _, err := codec.Sign(testProfessor())
	require.NoError(t, err)

	// Still valid just before expiry.
	codec.WithClock(func() time.Time { return now.Add(59 * time.Second) })
	_, err = codec.Verify(tokenStr)
	require.NoError(t, err)

	codec.WithClock(func() time.Time { return now.Add(61 * time.Second) })
	_, err = codec.Verify(tokenStr)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodec_PreviousSecretAcceptedDuringRotation(t *testing.T) {
	t.Parallel()

	oldCodec := NewCodec("old-secret", "", 60*time.Second)
	tokenStr, _, _, _, err := oldCodec.Sign(testProfessor())
	require.NoError(t, err)

	rotated := NewCodec("new-secret", "old-secret", 60*time.Second)
	claims, err := rotated.Verify(tokenStr)
	require.NoError(t, err)
	assert.Equal(t, "prof-1", claims.Subject)

	// Without the previous secret configured the old token dies.
	strict := NewCodec("new-secret", "", 60*time.Second)
	_, err = strict.Verify(tokenStr)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodec_MissingNonceRejected(t *testing.T) {
	t.Parallel()

	// Correctly signed but without a nonce claim: structurally invalid for
	// the attendance protocol.
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "prof-1",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(60 * time.Second)),
		},
	}
	tokenStr, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	codec := NewCodec("test-secret", "", 60*time.Second)
	_, err = codec.Verify(tokenStr)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodec_UnexpectedSigningMethodRejected(t *testing.T) {
	t.Parallel()

	claims := &Claims{
		Nonce: "n-1",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "prof-1",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(60 * time.Second)),
		},
	}
	tokenStr, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	codec := NewCodec("test-secret", "", 60*time.Second)
	_, err = codec.Verify(tokenStr)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
