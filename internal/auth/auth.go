// Package auth verifies bearer tokens and issues session tokens. It only
// establishes who the caller is; what they may do is decided per request
// from the stored account.
package auth

import (
	"context"

	"github.com/itsatony/w4b_v3/server/apiary/internal/models"
)

// Identity is what a verified token asserts. Exactly one of AccountID and
// Email is used to look the account up, AccountID first.
type Identity struct {
	AccountID string
	Email     string
}

// Authenticator verifies a bearer token.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*Identity, error)
}

// TokenIssuer produces the session token handed out on login. password is
// the already verified plaintext, needed by issuers that log in upstream.
type TokenIssuer interface {
	Issue(ctx context.Context, account *models.Account, password string) (string, error)
}
