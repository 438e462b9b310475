package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"taskflow/internal/auth"
	"taskflow/internal/errors"
	"taskflow/internal/model"
	"taskflow/internal/repository"
)

const (
	bcryptCost        = 10
	minPasswordLength = 8
)

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	PasswordConfirm string
	FirstName       string
	LastName        string
	Phone           string
	Role            model.Role
}

// UpdateProfileInput carries the partial profile update. Nil fields are
// left unchanged.
type UpdateProfileInput struct {
	Email     *string
	FirstName *string
	LastName  *string
	Phone     *string
	Avatar    *string
}

// TokenPair bundles the tokens issued on register and login.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService handles registration, authentication and profile operations.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, *TokenPair, error)
	Login(ctx context.Context, username, password string) (*model.User, *TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (accessToken string, err error)
	Logout(ctx context.Context, claims *auth.Claims, refreshToken string) error
	Profile(ctx context.Context, userID uint) (*model.User, error)
	UpdateProfile(ctx context.Context, userID uint, in UpdateProfileInput) (*model.User, error)
	Employees(ctx context.Context, actor Actor) ([]model.User, error)
	IsTokenRevoked(ctx context.Context, tokenID string) bool
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		tokenStore: tokenStore,
	}
}

// Register creates a new user with hashed password and issues tokens.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, *TokenPair, error) {
	if len(in.Password) < minPasswordLength {
		return nil, nil, errors.ErrPasswordTooShort
	}
	if in.Password != in.PasswordConfirm {
		return nil, nil, errors.ErrPasswordMismatch
	}

	exists, err := s.userRepo.ExistsByUsernameOrEmail(ctx, in.Username, in.Email)
	if err != nil {
		return nil, nil, fmt.Errorf("check user existence: %w", err)
	}
	if exists {
		return nil, nil, errors.ErrUserAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	role := in.Role
	if role == "" {
		role = model.RoleEmployee
	}

	user := &model.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hashedPassword),
		Role:         role,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
		Active:       true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

// Login authenticates a user and returns access and refresh tokens.
func (s *authService) Login(ctx context.Context, username, password string) (*model.User, *TokenPair, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, errors.ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, errors.ErrInvalidCredentials
	}

	if !user.Active {
		return nil, nil, errors.ErrAccountInactive
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

func (s *authService) issueTokens(ctx context.Context, user *model.User) (*TokenPair, error) {
	accessToken, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	tokenID, refreshToken, err := s.jwtService.GenerateRefreshToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.tokenStore.StoreRefreshToken(ctx, tokenID, user.ID, auth.RefreshTokenExpiry); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Refresh redeems a refresh token for a new access token. The token must
// validate, still exist in the store, and belong to an active user; logout
// deletes the stored entry, so revoked tokens fail here.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil || claims.ID == "" {
		return "", errors.ErrInvalidRefreshToken
	}

	storedUserID, err := s.tokenStore.GetRefreshToken(ctx, claims.ID)
	if err != nil || storedUserID != claims.UserID {
		return "", errors.ErrInvalidRefreshToken
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return "", errors.ErrInvalidRefreshToken
		}
		return "", fmt.Errorf("find user: %w", err)
	}
	if !user.Active {
		return "", errors.ErrAccountInactive
	}

	accessToken, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	return accessToken, nil
}

// Logout revokes the caller's current access token and, when supplied, the
// refresh token. A missing or already-expired token is not an error.
func (s *authService) Logout(ctx context.Context, claims *auth.Claims, refreshToken string) error {
	if claims != nil && claims.ID != "" && claims.ExpiresAt != nil {
		ttl := time.Until(claims.ExpiresAt.Time)
		_ = s.tokenStore.BlacklistAccessToken(ctx, claims.ID, ttl)
	}
	if refreshToken != "" {
		if refreshClaims, err := s.jwtService.ValidateToken(refreshToken); err == nil && refreshClaims.ID != "" {
			_ = s.tokenStore.DeleteRefreshToken(ctx, refreshClaims.ID)
		}
	}
	return nil
}

// IsTokenRevoked reports whether an access token has been blacklisted.
func (s *authService) IsTokenRevoked(ctx context.Context, tokenID string) bool {
	revoked, _ := s.tokenStore.IsAccessTokenBlacklisted(ctx, tokenID)
	return revoked
}

// Profile returns the caller's own record.
func (s *authService) Profile(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile applies a partial update to the caller's own record.
func (s *authService) UpdateProfile(ctx context.Context, userID uint, in UpdateProfileInput) (*model.User, error) {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Email != nil {
		user.Email = *in.Email
	}
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.Phone != nil {
		user.Phone = *in.Phone
	}
	if in.Avatar != nil {
		user.Avatar = *in.Avatar
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// Employees lists all users with the employee role. Admin only.
func (s *authService) Employees(ctx context.Context, actor Actor) ([]model.User, error) {
	if !CanListEmployees(actor) {
		return nil, errors.ErrPermissionDenied
	}
	return s.userRepo.ListByRole(ctx, model.RoleEmployee)
}
