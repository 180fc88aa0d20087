package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestSignAndVerifyJWT(t *testing.T) {
	userID := uuid.New()
	token, err := SignJWT("secret", userID, "alice", time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	claims, err := VerifyJWT("secret", token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != userID.String() {
		t.Errorf("subject = %q, want %q", claims.Subject, userID)
	}
	if claims.Username != "alice" {
		t.Errorf("username = %q, want alice", claims.Username)
	}
}

func TestVerifyJWTRejectsWrongSecret(t *testing.T) {
	token, err := SignJWT("secret", uuid.New(), "alice", time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := VerifyJWT("other-secret", token); err == nil {
		t.Error("expected verification error for wrong secret")
	}
}

func TestVerifyJWTRejectsExpired(t *testing.T) {
	token, err := SignJWT("secret", uuid.New(), "alice", -time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := VerifyJWT("secret", token); err == nil {
		t.Error("expected verification error for expired token")
	}
}

func TestAuthJWTMiddleware(t *testing.T) {
	userID := uuid.New()
	token, err := SignJWT("secret", userID, "alice", time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	var gotID uuid.UUID
	var gotOK bool
	handler := AuthJWT("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, gotOK = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"valid token", "Bearer " + token, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.token", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotID, gotOK = uuid.Nil, false
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK {
				if !gotOK || gotID != userID {
					t.Errorf("context user id = %v (%v), want %v", gotID, gotOK, userID)
				}
			}
		})
	}
}
