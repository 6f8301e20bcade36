package auth

import (
	"github.com/8bitCyborg/demoCredit/internal/config"
	"github.com/8bitCyborg/demoCredit/internal/identity"
)

// Service issues token pairs for authenticated users.
type Service struct {
	cfg config.Config
}

// NewService builds the token service.
func NewService(cfg config.Config) *Service {
	return &Service{cfg: cfg}
}

// TokenPair bundles the access and refresh tokens returned at login.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Issue signs an access/refresh pair for the user.
func (s *Service) Issue(user identity.User) (TokenPair, error) {
	access, err := Sign(user.ID, []byte(s.cfg.JWTSecret), s.cfg.AccessTokenTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := Sign(user.ID, []byte(s.cfg.RefreshSecret), s.cfg.RefreshTokenTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.cfg.AccessTokenTTL.Seconds()),
	}, nil
}

// Refresh verifies a refresh token and issues a fresh access token.
func (s *Service) Refresh(refreshToken string) (string, int64, error) {
	userID, err := Parse(refreshToken, []byte(s.cfg.RefreshSecret))
	if err != nil {
		return "", 0, err
	}
	access, err := Sign(userID, []byte(s.cfg.JWTSecret), s.cfg.AccessTokenTTL)
	if err != nil {
		return "", 0, err
	}
	return access, int64(s.cfg.AccessTokenTTL.Seconds()), nil
}
