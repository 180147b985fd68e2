package apperrors

import (
	"errors"
	"net/http"
	"testing"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"authentication", NewAuthentication("no token"), http.StatusUnauthorized},
		{"authorization", NewAuthorization("not yours"), http.StatusForbidden},
		{"validation", NewValidation("quantity", "must be positive"), http.StatusBadRequest},
		{"not found", NewNotFound("order"), http.StatusNotFound},
		{"state conflict", NewStateConflict("already shipped"), http.StatusConflict},
		{"internal", NewInternal("boom"), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusCode(tt.err); got != tt.want {
				t.Errorf("StatusCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	if got := KindOf(NewNotFound("order")); got != KindNotFound {
		t.Errorf("Expected NOT_FOUND, got %s", got)
	}
	if got := KindOf(errors.New("boom")); got != KindInternal {
		t.Errorf("Expected plain errors to map to INTERNAL, got %s", got)
	}
}

func TestIs(t *testing.T) {
	err := NewValidation("field", "bad")
	if !Is(err, KindValidation) {
		t.Error("Expected Is to match the kind")
	}
	if Is(err, KindNotFound) {
		t.Error("Expected Is to reject other kinds")
	}
	if Is(nil, KindValidation) {
		t.Error("Expected Is(nil) to be false")
	}
}

func TestErrorMessage(t *testing.T) {
	withField := NewValidation("quantity", "must be positive")
	if withField.Error() != "VALIDATION: quantity: must be positive" {
		t.Errorf("Unexpected message: %s", withField.Error())
	}

	noField := NewStateConflict("already shipped")
	if noField.Error() != "STATE_CONFLICT: already shipped" {
		t.Errorf("Unexpected message: %s", noField.Error())
	}
}

func TestPayload_MasksInternal(t *testing.T) {
	payload := Payload(NewInternal("db password leaked"))
	if payload["error"] != "internal server error" {
		t.Errorf("Expected internal detail to be masked, got %v", payload["error"])
	}

	kinded := Payload(NewValidation("quantity", "must be positive"))
	if kinded["error"] != "must be positive" || kinded["kind"] != "VALIDATION" || kinded["field"] != "quantity" {
		t.Errorf("Unexpected payload: %v", kinded)
	}
}
