package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{BadRequest("employee id is required"), http.StatusBadRequest},
		{Unauthorized("incorrect password"), http.StatusUnauthorized},
		{Forbidden("refresh token revoked"), http.StatusForbidden},
		{fmt.Errorf("login: %w", NotFound("user not found")), http.StatusNotFound},
		{errors.New("db unreachable"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := Status(tc.err); got != tc.want {
			t.Fatalf("Status(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestMessageHidesServerErrors(t *testing.T) {
	if got := Message(errors.New("dial tcp 10.0.0.1:5432: refused")); got != "Server error" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := Message(fmt.Errorf("wrapped: %w", NotFound("User not found"))); got != "User not found" {
		t.Fatalf("unexpected message %q", got)
	}
}
