// Package services maps each backend entity type to its HTTP verbs. Every
// function returns the decoded response body on success and propagates the
// adapter's typed error unchanged on failure; the session manager's
// authentication case is the only place an error kind is interpreted.
package services

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/storeadmin/app/models"
	"github.com/shashiranjanraj/storeadmin/pkg/api"
	"github.com/shashiranjanraj/storeadmin/pkg/logger"
	"github.com/shashiranjanraj/storeadmin/pkg/session"
)

// AuthService owns the session-token lifecycle: Unauthenticated →
// Authenticated on a successful Authenticate, back on Logout. There is no
// refresh transition; expiry shows up as Unauthorized on a later call.
type AuthService struct {
	client *api.Client
	store  session.Store
}

func NewAuthService(client *api.Client, store session.Store) *AuthService {
	return &AuthService{client: client, store: store}
}

// Authenticate exchanges credentials for a bearer token and persists it.
// A 401/403 comes back as an InvalidCredentials api.Error; transport
// failures come back as Network.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (string, error) {
	var resp models.AuthResponse
	err := s.client.Post("/authenticate").
		Auth().
		Body(models.AuthRequest{Email: email, Password: password}).
		Send(ctx, &resp)
	if err != nil {
		return "", err
	}

	if resp.Token == "" {
		return "", fmt.Errorf("auth: backend returned an empty token")
	}
	if err := s.store.Set(resp.Token); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// Register creates a staff account. The dashboard itself never calls this;
// it is exposed for provisioning scripts.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) error {
	return s.client.Post("/register").Auth().Body(req).Send(ctx, nil)
}

// Logout clears the persisted token. Side-effect only: a failure to remove
// the file is logged, not returned, because the in-memory slot is already
// cleared and every subsequent request goes out unauthenticated.
func (s *AuthService) Logout() {
	if err := s.store.Clear(); err != nil {
		logger.Warn("auth: clearing persisted token", "error", err)
	}
}

// CurrentToken returns the persisted token, or "" when logged out.
func (s *AuthService) CurrentToken() string {
	return s.store.Current()
}
