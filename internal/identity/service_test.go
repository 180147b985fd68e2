package identity

import (
	"context"
	"testing"
	"time"

	"github.com/marketmesh/marketmesh/internal/apperrors"
	"github.com/marketmesh/marketmesh/internal/auth"
	"github.com/marketmesh/marketmesh/internal/logging"
	"github.com/marketmesh/marketmesh/internal/models"
)

type memUserRepo struct {
	users map[string]*models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*models.User)}
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := r.users[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) Create(_ context.Context, user *models.User) error {
	c := *user
	r.users[user.ID] = &c
	return nil
}

func (r *memUserRepo) Update(_ context.Context, user *models.User) error {
	c := *user
	r.users[user.ID] = &c
	return nil
}

func (r *memUserRepo) Delete(_ context.Context, id string) error {
	delete(r.users, id)
	return nil
}

func (r *memUserRepo) List(_ context.Context, role *models.Role, limit, offset int) ([]*models.User, error) {
	var out []*models.User
	for _, u := range r.users {
		if role != nil && u.Role != *role {
			continue
		}
		c := *u
		out = append(out, &c)
	}
	return out, nil
}

func (r *memUserRepo) SetLastLogin(_ context.Context, id string) error {
	if u, ok := r.users[id]; ok {
		now := time.Now()
		u.LastLogin = &now
	}
	return nil
}

func newTestIdentityService() (*Service, *memUserRepo) {
	repo := newMemUserRepo()
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	return NewService(repo, issuer, logging.NewLogger("test")), repo
}

func signup(t *testing.T, svc *Service, email string, role models.Role) *models.AuthPayload {
	t.Helper()
	payload, err := svc.Signup(context.Background(), &models.SignupInput{
		Email:     email,
		Password:  "correct-horse",
		FirstName: "Test",
		LastName:  "User",
		Role:      role,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	return payload
}

func TestSignup(t *testing.T) {
	svc, _ := newTestIdentityService()

	payload := signup(t, svc, "a@example.com", "")

	if payload.Token == "" {
		t.Error("Expected a token")
	}
	if payload.User.Role != models.RoleCustomer {
		t.Errorf("Expected default role CUSTOMER, got %s", payload.User.Role)
	}
	if payload.User.PasswordHash == "correct-horse" {
		t.Error("Expected the password to be hashed")
	}
}

func TestSignup_Validation(t *testing.T) {
	svc, _ := newTestIdentityService()
	ctx := context.Background()

	tests := []struct {
		name  string
		input models.SignupInput
	}{
		{"bad email", models.SignupInput{Email: "nope", Password: "correct-horse"}},
		{"short password", models.SignupInput{Email: "a@example.com", Password: "short"}},
		{"unknown role", models.SignupInput{Email: "a@example.com", Password: "correct-horse", Role: "WIZARD"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Signup(ctx, &tt.input); !apperrors.Is(err, apperrors.KindValidation) {
				t.Errorf("Expected validation error, got %v", err)
			}
		})
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	svc, _ := newTestIdentityService()
	signup(t, svc, "a@example.com", "")

	_, err := svc.Signup(context.Background(), &models.SignupInput{
		Email:    "A@Example.com",
		Password: "correct-horse",
	})
	if !apperrors.Is(err, apperrors.KindValidation) {
		t.Errorf("Expected validation error for duplicate email, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc, _ := newTestIdentityService()
	signup(t, svc, "a@example.com", "")

	payload, err := svc.Login(context.Background(), &models.LoginInput{
		Email:    "a@example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if payload.Token == "" {
		t.Error("Expected a token")
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc, _ := newTestIdentityService()
	signup(t, svc, "a@example.com", "")
	ctx := context.Background()

	if _, err := svc.Login(ctx, &models.LoginInput{Email: "a@example.com", Password: "wrong"}); !apperrors.Is(err, apperrors.KindAuthentication) {
		t.Errorf("Expected authentication error, got %v", err)
	}
	if _, err := svc.Login(ctx, &models.LoginInput{Email: "unknown@example.com", Password: "correct-horse"}); !apperrors.Is(err, apperrors.KindAuthentication) {
		t.Errorf("Expected authentication error, got %v", err)
	}
}

func TestGetUser_SelfOrAdmin(t *testing.T) {
	svc, _ := newTestIdentityService()
	a := signup(t, svc, "a@example.com", "")
	b := signup(t, svc, "b@example.com", "")
	adm := signup(t, svc, "admin@example.com", models.RoleAdmin)
	ctx := context.Background()

	self := models.Identity{UserID: a.User.ID, Role: a.User.Role}
	if _, err := svc.GetUser(ctx, self, a.User.ID); err != nil {
		t.Errorf("Expected self read to succeed, got %v", err)
	}
	if _, err := svc.GetUser(ctx, self, b.User.ID); !apperrors.Is(err, apperrors.KindAuthorization) {
		t.Errorf("Expected authorization error, got %v", err)
	}

	adminIdent := models.Identity{UserID: adm.User.ID, Role: models.RoleAdmin}
	if _, err := svc.GetUser(ctx, adminIdent, b.User.ID); err != nil {
		t.Errorf("Expected admin read to succeed, got %v", err)
	}
}

func TestUpdateProfile_EmailUniqueness(t *testing.T) {
	svc, _ := newTestIdentityService()
	a := signup(t, svc, "a@example.com", "")
	signup(t, svc, "b@example.com", "")

	taken := "b@example.com"
	self := models.Identity{UserID: a.User.ID, Role: a.User.Role}
	_, err := svc.UpdateProfile(context.Background(), self, &models.UpdateUserInput{Email: &taken})
	if !apperrors.Is(err, apperrors.KindValidation) {
		t.Errorf("Expected validation error, got %v", err)
	}
}

func TestDeleteAccount(t *testing.T) {
	svc, repo := newTestIdentityService()
	a := signup(t, svc, "a@example.com", "")

	self := models.Identity{UserID: a.User.ID, Role: a.User.Role}
	if err := svc.DeleteAccount(context.Background(), self); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, ok := repo.users[a.User.ID]; ok {
		t.Error("Expected account to be removed")
	}
}

func TestListUsers_AdminOnly(t *testing.T) {
	svc, _ := newTestIdentityService()
	a := signup(t, svc, "a@example.com", "")
	adm := signup(t, svc, "admin@example.com", models.RoleAdmin)
	ctx := context.Background()

	self := models.Identity{UserID: a.User.ID, Role: a.User.Role}
	if _, err := svc.ListUsers(ctx, self, nil, 1, 20); !apperrors.Is(err, apperrors.KindAuthorization) {
		t.Errorf("Expected authorization error, got %v", err)
	}

	adminIdent := models.Identity{UserID: adm.User.ID, Role: models.RoleAdmin}
	users, err := svc.ListUsers(ctx, adminIdent, nil, 1, 20)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(users) != 2 {
		t.Errorf("Expected 2 users, got %d", len(users))
	}
}
