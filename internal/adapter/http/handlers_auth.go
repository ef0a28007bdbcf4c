// Package adapthttp implements the HTTP adapter for the application.
package adapthttp

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"storefront/internal/auth"
	"storefront/internal/domain"
)

// OIDCConfig holds the SSO provider. The zero value has SSO disabled.
type OIDCConfig struct {
	Enabled      bool
	Provider     *oidc.Provider
	OAuth2Config oauth2.Config
}

// NewOIDCConfig discovers the issuer and builds the OAuth2 client config.
func NewOIDCConfig(ctx context.Context, issuer, clientID, clientSecret, redirectURL string) (*OIDCConfig, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, err
	}
	return &OIDCConfig{
		Enabled:  true,
		Provider: provider,
		OAuth2Config: oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
	}, nil
}

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := parseJSON(w, r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}

	token, err := s.authSvc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			s.metrics.observeLogin("rejected")
		}
		s.writeErr(w, r, err)
		return
	}

	s.metrics.observeLogin("success")
	writeToken(w, token)
}

// writeToken answers a successful login. The token travels in the
// Authorization header; the body only echoes who and until when.
func writeToken(w http.ResponseWriter, token auth.Token) {
	w.Header().Set("Authorization", "Bearer "+token.Raw)
	writeJSON(w, http.StatusOK, map[string]any{
		"username":  token.Subject,
		"expiresAt": token.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username        string `json:"username"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	if err := parseJSON(w, r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}

	user, err := s.authSvc.Register(r.Context(), req.Username, req.Password, req.ConfirmPassword)
	if err != nil {
		s.log.Info("registration rejected", zap.String("username", req.Username), zap.Error(err))
		s.writeErr(w, r, err)
		return
	}

	s.log.Info("user created", zap.String("username", user.Username))
	writeJSON(w, http.StatusOK, userResponse{ID: user.ID, Username: user.Username, Password: user.PasswordHash})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"sso_enabled": s.oidc.Enabled,
	})
}

func (s *Server) handleSSOLogin(w http.ResponseWriter, r *http.Request) {
	if !s.oidc.Enabled {
		writeError(w, http.StatusNotFound, errors.New("sso disabled"))
		return
	}
	state := generateState()
	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode, // Lax required for cross-site redirect returns
		MaxAge:   300,
	})
	http.Redirect(w, r, s.oidc.OAuth2Config.AuthCodeURL(state), http.StatusFound)
}

func (s *Server) handleSSOCallback(w http.ResponseWriter, r *http.Request) {
	if !s.oidc.Enabled {
		writeError(w, http.StatusNotFound, errors.New("sso disabled"))
		return
	}

	state, err := r.Cookie("oauth_state")
	if err != nil || state.Value == "" || r.URL.Query().Get("state") != state.Value {
		s.writeErr(w, r, domain.BadRequest("invalid state"))
		return
	}
	http.SetCookie(w, &http.Cookie{Name: "oauth_state", MaxAge: -1, Path: "/"})

	oauthToken, err := s.oidc.OAuth2Config.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		s.log.Warn("sso code exchange failed", zap.Error(err))
		s.writeErr(w, r, domain.Forbidden("sso login failed"))
		return
	}

	rawIDToken, ok := oauthToken.Extra("id_token").(string)
	if !ok {
		s.writeErr(w, r, domain.Forbidden("sso login failed"))
		return
	}

	verifier := s.oidc.Provider.Verifier(&oidc.Config{ClientID: s.oidc.OAuth2Config.ClientID})
	idToken, err := verifier.Verify(r.Context(), rawIDToken)
	if err != nil {
		s.log.Warn("sso id token rejected", zap.Error(err))
		s.writeErr(w, r, domain.Forbidden("sso login failed"))
		return
	}

	var claims struct {
		Email string `json:"email"`
		Sub   string `json:"sub"`
	}
	if err := idToken.Claims(&claims); err != nil {
		s.writeErr(w, r, err)
		return
	}

	username := claims.Email
	if username == "" {
		username = claims.Sub
	}

	token, err := s.authSvc.LoginWithUser(r.Context(), username)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}

	s.metrics.observeLogin("sso")
	writeToken(w, token)
}

func generateState() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}
