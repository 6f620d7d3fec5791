package auth

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStaticAPIKeyValidatorParsing(t *testing.T) {
	validator, err := NewStaticAPIKeyValidator("k1:ward-3:assistant_user|inventory_admin, k2:kiosk:assistant_user")
	if err != nil {
		t.Fatalf("NewStaticAPIKeyValidator() error = %v", err)
	}
	if validator.Len() != 2 {
		t.Fatalf("Len() = %d", validator.Len())
	}
	identity, ok := validator.Validate(context.Background(), "k1")
	if !ok {
		t.Fatal("expected key to be valid")
	}
	if identity.Subject != "ward-3" {
		t.Fatalf("Subject = %q", identity.Subject)
	}
	if !identity.HasRole(RoleInventoryAdmin) {
		t.Fatal("expected inventory_admin role")
	}
	kiosk, _ := validator.Validate(context.Background(), "k2")
	if kiosk.HasAnyRole(RoleInventoryAdmin) {
		t.Fatal("kiosk key should not be an inventory admin")
	}
}

func TestStaticAPIKeyValidatorRejectsBadSpec(t *testing.T) {
	for _, spec := range []string{"invalid", "k1::assistant_user", "k1:s1: | ", "k1:a:r,k1:b:r"} {
		if _, err := NewStaticAPIKeyValidator(spec); err == nil {
			t.Fatalf("NewStaticAPIKeyValidator(%q) expected error", spec)
		}
	}
}

func TestMiddlewareRequiresKey(t *testing.T) {
	validator, err := NewStaticAPIKeyValidator("k1:nurse:assistant_user")
	if err != nil {
		t.Fatalf("validator setup: %v", err)
	}

	mw := Middleware(slog.New(slog.NewJSONHandler(io.Discard, nil)), validator)
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/assistant", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusUnauthorized)
	}

	badKey := httptest.NewRequest(http.MethodPost, "/v1/assistant", nil)
	badKey.Header.Set("X-API-Key", "nope")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, badKey)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("bad key status = %d", rr.Code)
	}
}

func TestMiddlewareInjectsIdentityFromBearerToken(t *testing.T) {
	validator, err := NewStaticAPIKeyValidator("k1:nurse:assistant_user")
	if err != nil {
		t.Fatalf("validator setup: %v", err)
	}

	mw := Middleware(nil, validator)
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok || identity.Subject != "nurse" {
			t.Errorf("identity = %+v ok=%v", identity, ok)
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/supplies", nil)
	req.Header.Set("Authorization", "Bearer k1")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestMiddlewareReportsRejectionReason(t *testing.T) {
	validator, err := NewStaticAPIKeyValidator("k1:nurse:assistant_user")
	if err != nil {
		t.Fatalf("validator setup: %v", err)
	}
	handler := Middleware(nil, validator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run for rejected keys")
	}))

	req := httptest.NewRequest(http.MethodPost, "/v1/assistant", nil)
	req.Header.Set("X-API-Key", "k2")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rr.Code)
	}
	if got := rr.Header().Get("WWW-Authenticate"); got != `Bearer realm="medstock"` {
		t.Fatalf("WWW-Authenticate = %q", got)
	}
	var body struct {
		ErrorCode string         `json:"error_code"`
		Context   map[string]any `json:"context"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("json decode failed: %v", err)
	}
	if body.ErrorCode != "UNAUTHORIZED" || body.Context["reason"] != FailureInvalidKey {
		t.Fatalf("body = %+v", body)
	}
}

func TestExtractAPIKey(t *testing.T) {
	cases := []struct {
		name   string
		header string
		value  string
		want   string
	}{
		{name: "api key header", header: "X-API-Key", value: " k1 ", want: "k1"},
		{name: "bearer", header: "Authorization", value: "Bearer k1", want: "k1"},
		{name: "lowercase bearer", header: "Authorization", value: "bearer k1", want: "k1"},
		{name: "basic scheme", header: "Authorization", value: "Basic azE6", want: ""},
		{name: "bare token", header: "Authorization", value: "k1", want: ""},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/v1/supplies", nil)
		req.Header.Set(tc.header, tc.value)
		if got := ExtractAPIKey(req); got != tc.want {
			t.Fatalf("%s: ExtractAPIKey() = %q, want %q", tc.name, got, tc.want)
		}
	}
}
