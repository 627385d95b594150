package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/huey-app/huey/models"
	"github.com/huey-app/huey/repository"
	"github.com/huey-app/huey/utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type Session struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *models.User `json:"user"`
}

// Account is what an authenticated owner sees about themselves.
type Account struct {
	User       *models.User       `json:"user"`
	Restaurant *models.Restaurant `json:"restaurant"`
}

type AuthService struct {
	repos     repository.Repositories
	jwt       *utils.JWTManager
	blacklist utils.TokenBlacklist
}

func NewAuthService(repos repository.Repositories, jwt *utils.JWTManager, blacklist utils.TokenBlacklist) *AuthService {
	if blacklist == nil {
		blacklist = utils.NewMemoryBlacklist()
	}
	return &AuthService{repos: repos, jwt: jwt, blacklist: blacklist}
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	user, err := s.repos.Users().GetByEmail(ctx, in.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, invalidCredentials()
	}
	if err != nil {
		return nil, persistence("lookup user", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		utils.InfoLogger.WithField("user_id", user.ID).Warn("Login failed: wrong password")
		return nil, invalidCredentials()
	}

	token, expiresAt, err := s.jwt.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	utils.InfoLogger.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("User logged in")
	return &Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Authenticate turns a session token into a principal. Expired, forged and
// revoked tokens are all reported as UnauthorizedError.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*Principal, error) {
	if token == "" {
		return nil, &UnauthorizedError{Message: "authentication required"}
	}
	claims, err := s.jwt.ParseToken(token)
	if err != nil {
		return nil, &UnauthorizedError{Message: err.Error()}
	}

	revoked, err := s.blacklist.IsRevoked(ctx, token)
	if err != nil {
		return nil, persistence("check token revocation", err)
	}
	if revoked {
		return nil, &UnauthorizedError{Message: "session has been revoked"}
	}
	return &Principal{UserID: claims.UserID, Email: claims.Email, Role: claims.Role}, nil
}

// Logout revokes token until it would have expired on its own.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.jwt.ParseToken(token)
	if err != nil {
		return &UnauthorizedError{Message: err.Error()}
	}
	until := time.Now().Add(s.jwt.TTL())
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	if err := s.blacklist.Revoke(ctx, token, until); err != nil {
		return persistence("revoke token", err)
	}
	utils.InfoLogger.WithField("user_id", claims.UserID).Info("User logged out")
	return nil
}

func (s *AuthService) Me(ctx context.Context, p *Principal) (*Account, error) {
	if p == nil {
		return nil, &UnauthorizedError{}
	}
	user, err := s.repos.Users().Get(ctx, p.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &UnauthorizedError{Message: "account no longer exists"}
	}
	if err != nil {
		return nil, persistence("get user", err)
	}

	account := &Account{User: user}
	restaurant, err := s.repos.Restaurants().GetByOwner(ctx, user.ID)
	switch {
	case err == nil:
		account.Restaurant = restaurant
	case !errors.Is(err, repository.ErrNotFound):
		return nil, persistence("get owned restaurant", err)
	}
	return account, nil
}

func invalidCredentials() error {
	return &UnauthorizedError{Message: "invalid credentials"}
}
