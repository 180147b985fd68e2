// Package identity owns user accounts: signup, login, profile CRUD and the
// resolve-by-id contract used by the gateway's USER reference resolver.
package identity

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/marketmesh/marketmesh/internal/apperrors"
	"github.com/marketmesh/marketmesh/internal/auth"
	"github.com/marketmesh/marketmesh/internal/logging"
	"github.com/marketmesh/marketmesh/internal/models"
)

const bcryptCost = 10

// Service implements the identity operations.
type Service struct {
	repo   UserRepository
	tokens *auth.TokenIssuer
	logger *logging.Logger
}

// NewService creates the identity service.
func NewService(repo UserRepository, tokens *auth.TokenIssuer, logger *logging.Logger) *Service {
	return &Service{repo: repo, tokens: tokens, logger: logger}
}

// Signup registers a new account and issues its first token.
func (s *Service) Signup(ctx context.Context, input *models.SignupInput) (*models.AuthPayload, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperrors.NewValidation("email", "a valid email is required")
	}
	if len(input.Password) < 8 {
		return nil, apperrors.NewValidation("password", "password must be at least 8 characters")
	}
	role := input.Role
	if role == "" {
		role = models.RoleCustomer
	}
	if !models.ValidRole(role) {
		return nil, apperrors.NewValidation("role", "unknown role")
	}

	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.NewValidation("email", "user already exists with this email")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &models.User{
		ID:           "user_" + uuid.NewString(),
		Email:        email,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Role:         role,
		Status:       models.UserStatusActive,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User signed up", logging.Fields{
		"user_id": user.ID,
		"role":    string(user.Role),
	})
	return &models.AuthPayload{Token: token, User: user}, nil
}

// Login authenticates an account and issues a token.
func (s *Service) Login(ctx context.Context, input *models.LoginInput) (*models.AuthPayload, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Status != models.UserStatusActive {
		return nil, apperrors.NewAuthentication("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, apperrors.NewAuthentication("invalid credentials")
	}

	if err := s.repo.SetLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn("Failed to stamp last login", logging.Fields{
			"user_id": user.ID,
			"error":   err.Error(),
		})
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &models.AuthPayload{Token: token, User: user}, nil
}

// Me returns the caller's own profile.
func (s *Service) Me(ctx context.Context, ident models.Identity) (*models.User, error) {
	if ident.IsAnonymous() {
		return nil, apperrors.NewAuthentication("not authenticated")
	}
	user, err := s.repo.GetByID(ctx, ident.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NewNotFound("user")
	}
	return user, nil
}

// GetUser returns a profile by id; callers may read themselves, admins may
// read anyone.
func (s *Service) GetUser(ctx context.Context, ident models.Identity, id string) (*models.User, error) {
	if ident.IsAnonymous() {
		return nil, apperrors.NewAuthentication("not authenticated")
	}
	if id != ident.UserID && !ident.IsAdmin() {
		return nil, apperrors.NewAuthorization("not authorized to view this user")
	}
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NewNotFound("user")
	}
	return user, nil
}

// ListUsers lists accounts, admin only.
func (s *Service) ListUsers(ctx context.Context, ident models.Identity, role *models.Role, page, limit int) ([]*models.User, error) {
	if ident.IsAnonymous() {
		return nil, apperrors.NewAuthentication("not authenticated")
	}
	if !ident.IsAdmin() {
		return nil, apperrors.NewAuthorization("not authorized")
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if page < 1 {
		page = 1
	}
	return s.repo.List(ctx, role, limit, (page-1)*limit)
}

// UpdateProfile updates the caller's own profile.
func (s *Service) UpdateProfile(ctx context.Context, ident models.Identity, input *models.UpdateUserInput) (*models.User, error) {
	if ident.IsAnonymous() {
		return nil, apperrors.NewAuthentication("not authenticated")
	}

	user, err := s.repo.GetByID(ctx, ident.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NewNotFound("user")
	}

	if input.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*input.Email))
		if email != user.Email {
			existing, err := s.repo.GetByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, apperrors.NewValidation("email", "email already in use")
			}
			user.Email = email
		}
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteAccount removes the caller's own account.
func (s *Service) DeleteAccount(ctx context.Context, ident models.Identity) error {
	if ident.IsAnonymous() {
		return apperrors.NewAuthentication("not authenticated")
	}
	return s.repo.Delete(ctx, ident.UserID)
}
