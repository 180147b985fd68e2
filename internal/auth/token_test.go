package auth

import (
	"testing"
	"time"

	"github.com/marketmesh/marketmesh/internal/apperrors"
	"github.com/marketmesh/marketmesh/internal/models"
)

func TestIssueAndVerify(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	token, err := issuer.Issue("user_1", models.RoleSeller)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	ident, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if ident.UserID != "user_1" {
		t.Errorf("Expected user_1, got %s", ident.UserID)
	}
	if ident.Role != models.RoleSeller {
		t.Errorf("Expected SELLER, got %s", ident.Role)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	other := NewTokenIssuer("other-secret", time.Hour)

	token, err := issuer.Issue("user_1", models.RoleCustomer)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if _, err := other.Verify(token); !apperrors.Is(err, apperrors.KindAuthentication) {
		t.Errorf("Expected authentication error, got %v", err)
	}
}

func TestVerify_Expired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", -time.Minute)

	token, err := issuer.Issue("user_1", models.RoleCustomer)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if _, err := issuer.Verify(token); !apperrors.Is(err, apperrors.KindAuthentication) {
		t.Errorf("Expected authentication error for expired token, got %v", err)
	}
}

func TestVerify_Garbage(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	if _, err := issuer.Verify("not-a-token"); !apperrors.Is(err, apperrors.KindAuthentication) {
		t.Errorf("Expected authentication error, got %v", err)
	}
}
