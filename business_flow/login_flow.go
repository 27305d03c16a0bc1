// Package businessflow contains the core business logic and use cases for lead and customer workflows
package businessflow

import (
	"context"
	"strings"

	"github.com/leadkit/leadkit/app/dto"
	"github.com/leadkit/leadkit/app/services"
	"github.com/leadkit/leadkit/models"
	"github.com/leadkit/leadkit/repository"
	"github.com/leadkit/leadkit/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// LoginFlow handles user authentication
type LoginFlow interface {
	Login(ctx context.Context, request *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error)
}

// LoginFlowImpl implements the login business flow
type LoginFlowImpl struct {
	userRepo     repository.UserRepository
	tokenService services.TokenService
	db           *gorm.DB
}

// NewLoginFlow creates a new login flow instance
func NewLoginFlow(
	userRepo repository.UserRepository,
	tokenService services.TokenService,
	db *gorm.DB,
) LoginFlow {
	return &LoginFlowImpl{
		userRepo:     userRepo,
		tokenService: tokenService,
		db:           db,
	}
}

// Login authenticates a user by email and password and issues an access token
func (lf *LoginFlowImpl) Login(ctx context.Context, request *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error) {
	var user *models.User

	resp, err := func() (*dto.LoginResponse, error) {
		email := strings.ToLower(strings.TrimSpace(request.Email))

		var err error
		user, err = lf.userRepo.ByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, ErrUserNotFound
		}

		if !utils.IsTrue(user.IsActive) {
			return nil, ErrAccountInactive
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(request.Password)); err != nil {
			return nil, ErrIncorrectPassword
		}

		token, err := lf.tokenService.GenerateAccessToken(user.ID)
		if err != nil {
			return nil, err
		}

		if err := lf.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
			return nil, err
		}

		return &dto.LoginResponse{
			Message:     "Login successful",
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   int(utils.AccessTokenTTL.Seconds()),
			User:        ToUserInfo(*user),
		}, nil
	}()

	if err != nil {
		return nil, NewBusinessError("LOGIN_FAILED", "Login failed", err)
	}

	return resp, nil
}
