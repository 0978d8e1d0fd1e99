package authenticator

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

type claims[T any] struct {
	jwt.RegisteredClaims
	Object T `json:"obj,omitempty"`
}

type jwtTokenEngine[T any] struct {
	secret     []byte
	issuer     string
	expiration time.Duration
	parser     *jwt.Parser
}

// NewTokenEngine signs HS256 tokens carrying obj. Tokens are only accepted
// when issued by issuer.
func NewTokenEngine[T any](secret, issuer string, expiration time.Duration) TokenEngine[T] {
	return &jwtTokenEngine[T]{
		secret:     []byte(secret),
		issuer:     issuer,
		expiration: expiration,
		parser:     jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
	}
}

func (e *jwtTokenEngine[T]) Generate(sub string, obj T) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims[T]{
		Object: obj,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    e.issuer,
			Subject:   sub,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(e.expiration)),
		},
	})

	return token.SignedString(e.secret)
}

func (e *jwtTokenEngine[T]) Verify(token string) (T, error) {
	var c claims[T]
	var zero T

	_, err := e.parser.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return e.secret, nil
	})
	if err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	// A token without expiration never expires otherwise.
	if c.ExpiresAt == nil {
		return zero, fmt.Errorf("%w: missing exp", ErrInvalidToken)
	}

	if !c.VerifyIssuer(e.issuer, e.issuer != "") {
		return zero, fmt.Errorf("%w: unexpected issuer %q", ErrInvalidToken, c.Issuer)
	}

	if c.Subject == "" {
		return zero, fmt.Errorf("%w: missing sub", ErrInvalidToken)
	}

	return c.Object, nil
}
