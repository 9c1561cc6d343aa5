package auth

import (
	"context"

	"github.com/Nerzal/gocloak/v13"
	"github.com/itsatony/w4b_v3/server/apiary/internal/errors"
	"github.com/itsatony/w4b_v3/server/apiary/internal/models"
)

type KeycloakConfig struct {
	URL          string
	Realm        string
	ClientID     string
	ClientSecret string
}

// KeycloakService delegates token handling to a Keycloak realm. Accounts
// are matched to Keycloak users by email.
type KeycloakService struct {
	client *gocloak.GoCloak
	config KeycloakConfig
}

func NewKeycloakService(config KeycloakConfig) *KeycloakService {
	return &KeycloakService{
		client: gocloak.NewClient(config.URL),
		config: config,
	}
}

func (k *KeycloakService) Authenticate(ctx context.Context, token string) (*Identity, error) {
	result, err := k.client.RetrospectToken(ctx, token, k.config.ClientID, k.config.ClientSecret, k.config.Realm)
	if err != nil {
		return nil, errors.NewAuthError("invalid token", err)
	}
	if result.Active == nil || !*result.Active {
		return nil, errors.NewAuthError("invalid token", nil)
	}

	info, err := k.client.GetUserInfo(ctx, token, k.config.Realm)
	if err != nil {
		return nil, errors.NewAuthError("failed to get user info", err)
	}
	if info.Email == nil || *info.Email == "" {
		return nil, errors.NewAuthError("token carries no email", nil)
	}
	return &Identity{Email: *info.Email}, nil
}

// Issue exchanges the verified credentials for a Keycloak access token.
func (k *KeycloakService) Issue(ctx context.Context, account *models.Account, password string) (string, error) {
	jwt, err := k.client.Login(ctx, k.config.ClientID, k.config.ClientSecret, k.config.Realm, account.Email, password)
	if err != nil {
		return "", errors.NewAuthError("keycloak login failed", err)
	}
	return jwt.AccessToken, nil
}
