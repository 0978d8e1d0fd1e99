// Package account is the read-only view of the external Account Directory.
// Accounts are issued by the identity provider as signed access tokens, the
// service never creates or modifies them.
package account

import (
	"context"
	"net/http"
	"strings"

	"github.com/sparkloop/backend/pkg/authenticator"
)

type Account struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// NormalizedEmail is the form used to compare the account against referral
// targets.
func (a *Account) NormalizedEmail() string {
	return strings.ToLower(strings.TrimSpace(a.Email))
}

type Directory interface {
	// CurrentAccount returns nil, nil when the request carries no valid
	// identity.
	CurrentAccount(ctx context.Context, r *http.Request) (*Account, error)
}

type tokenDirectory struct {
	engine     authenticator.TokenEngine[Account]
	cookieName string
}

func NewTokenDirectory(engine authenticator.TokenEngine[Account], cookieName string) *tokenDirectory {
	return &tokenDirectory{engine: engine, cookieName: cookieName}
}

func (d *tokenDirectory) CurrentAccount(ctx context.Context, r *http.Request) (*Account, error) {
	if r == nil {
		return nil, nil
	}

	token := d.accessToken(r)
	if token == "" {
		return nil, nil
	}

	acc, err := d.engine.Verify(token)
	if err != nil {
		return nil, err
	}

	if acc.ID == "" {
		return nil, nil
	}

	return &acc, nil
}

func (d *tokenDirectory) accessToken(r *http.Request) string {
	authorization := r.Header.Get("Authorization")
	auth, token, found := strings.Cut(authorization, " ")
	if found {
		if auth == "Bearer" {
			return token
		}
		return ""
	}

	if d.cookieName == "" {
		return ""
	}

	cookie, err := r.Cookie(d.cookieName)
	if err != nil {
		return ""
	}

	return cookie.Value
}
