// Package services contains server-side business logic: the bid
// acceptance protocol, auction lifecycle operations, and the minimal
// identity and item catalog the auctions depend on.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/auctionhouse/internal/common"
	"github.com/dmitrijs2005/auctionhouse/internal/server/auth"
	"github.com/dmitrijs2005/auctionhouse/internal/server/models"
	"github.com/dmitrijs2005/auctionhouse/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// UserService registers users and issues the access tokens that identify
// them to the rest of the API.
type UserService struct {
	store                       repomanager.Store
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

func NewUserService(store repomanager.Store, secretKey string, accessTokenValidity time.Duration) *UserService {
	return &UserService{
		store:                       store,
		jwtSecret:                   []byte(secretKey),
		accessTokenValidityDuration: accessTokenValidity,
	}
}

func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	username, email = strings.TrimSpace(username), strings.TrimSpace(email)
	if username == "" || email == "" {
		return nil, fmt.Errorf("%w: username and email are required", common.ErrorInvalidInput)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", common.ErrorInvalidInput, minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		UserName:     username,
		Email:        email,
		PasswordHash: hash,
	}

	user, err = s.store.Users().Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, fmt.Errorf("%w: username or email already registered", common.ErrorConflict)
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// Login checks the credentials and returns a signed access token. Unknown
// users and wrong passwords are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, userName, password string) (string, error) {
	user, err := s.store.Users().GetUserByLogin(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", common.ErrorInternal
	}

	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return "", common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", common.ErrorInternal
	}
	return token, nil
}

// Authenticate resolves an access token to its user id.
func (s *UserService) Authenticate(token string) (string, error) {
	return auth.GetUserIDFromToken(token, s.jwtSecret)
}
