package middleware

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"math/big"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"

	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/api/generated"
	"github.com/Alifka-project/smart-logsitics-1-sub000/internal/domain/model"
)

const (
	testKeyID  = "test-key-ops"
	testIssuer = "https://idp.test/realms/logistics"
)

func generateTestKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}
	return key
}

// buildJWKSetJSON строит JWKS JSON из RSA публичного ключа.
func buildJWKSetJSON(pub *rsa.PublicKey, kid string) json.RawMessage {
	jwks := map[string]any{
		"keys": []map[string]any{
			{
				"kty": "RSA",
				"kid": kid,
				"use": "sig",
				"alg": "RS256",
				"n":   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
				"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
			},
		},
	}
	data, _ := json.Marshal(jwks)
	return data
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestJWTAuth(t *testing.T, key *rsa.PrivateKey) *JWTAuth {
	t.Helper()
	kf, err := keyfunc.NewJWKSetJSON(buildJWKSetJSON(&key.PublicKey, testKeyID))
	if err != nil {
		t.Fatalf("не удалось создать keyfunc: %v", err)
	}
	return NewJWTAuthWithKeyfunc(kf, testIssuer, testLogger())
}

type tokenOpts struct {
	sub        string
	role       string
	realmRoles []string
	issuer     string
	expired    bool
}

func signToken(t *testing.T, key *rsa.PrivateKey, o tokenOpts) string {
	t.Helper()
	exp := time.Now().Add(time.Hour)
	if o.expired {
		exp = time.Now().Add(-time.Hour)
	}
	issuer := o.issuer
	if issuer == "" {
		issuer = testIssuer
	}

	claims := jwt.MapClaims{
		"sub":                o.sub,
		"preferred_username": "operator",
		"iss":                issuer,
		"exp":                jwt.NewNumericDate(exp),
		"iat":                jwt.NewNumericDate(time.Now()),
	}
	if o.role != "" {
		claims["role"] = o.role
	}
	if len(o.realmRoles) > 0 {
		claims["realm_access"] = map[string]any{"roles": o.realmRoles}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = testKeyID
	s, err := token.SignedString(key)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestJWTAuth_Middleware(t *testing.T) {
	key := generateTestKey(t)
	otherKey := generateTestKey(t)
	auth := newTestJWTAuth(t, key)

	var got *AuthClaims
	handler := auth.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantRole   model.Role
	}{
		{"без заголовка", "", http.StatusUnauthorized, ""},
		{"не Bearer", "Basic abc", http.StatusUnauthorized, ""},
		{"пустой токен", "Bearer ", http.StatusUnauthorized, ""},
		{"мусор", "Bearer not-a-jwt", http.StatusUnauthorized, ""},
		{"role claim", "Bearer " + signToken(t, key, tokenOpts{sub: "u1", role: "manager"}), http.StatusOK, model.RoleManager},
		{"realm roles, берётся высшая", "Bearer " + signToken(t, key, tokenOpts{sub: "u1", realmRoles: []string{"offline_access", "sales_ops", "admin"}}), http.StatusOK, model.RoleAdmin},
		{"просроченный", "Bearer " + signToken(t, key, tokenOpts{sub: "u1", role: "admin", expired: true}), http.StatusUnauthorized, ""},
		{"чужой issuer", "Bearer " + signToken(t, key, tokenOpts{sub: "u1", role: "admin", issuer: "https://evil"}), http.StatusUnauthorized, ""},
		{"чужой ключ", "Bearer " + signToken(t, otherKey, tokenOpts{sub: "u1", role: "admin"}), http.StatusUnauthorized, ""},
		{"без sub", "Bearer " + signToken(t, key, tokenOpts{role: "admin"}), http.StatusUnauthorized, ""},
		{"без роли", "Bearer " + signToken(t, key, tokenOpts{sub: "u1", realmRoles: []string{"offline_access"}}), http.StatusForbidden, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got = nil
			req := httptest.NewRequest(http.MethodGet, "/api/v1/presence", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("статус = %d, хотели %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			if got == nil {
				t.Fatal("claims не попали в контекст")
			}
			if got.Role != tt.wantRole {
				t.Errorf("Role = %q, хотели %q", got.Role, tt.wantRole)
			}
			if got.Subject != "u1" || got.Actor() != "operator" {
				t.Errorf("Subject/Actor = %q/%q", got.Subject, got.Actor())
			}
		})
	}
}

func TestRequireScopes(t *testing.T) {
	tests := []struct {
		name       string
		claims     *AuthClaims
		scopes     []string
		wantStatus int
	}{
		{"операция без безопасности", nil, nil, http.StatusOK},
		{"без claims", nil, []string{"view"}, http.StatusUnauthorized},
		{"без claims и без scopes", nil, []string{}, http.StatusUnauthorized},
		{"sales_ops смотрит", &AuthClaims{Subject: "u", Role: model.RoleSalesOps}, []string{"view"}, http.StatusOK},
		{"sales_ops не диспетчер", &AuthClaims{Subject: "u", Role: model.RoleSalesOps}, []string{"dispatch"}, http.StatusForbidden},
		{"manager без настроек", &AuthClaims{Subject: "u", Role: model.RoleManager}, []string{"manage_settings"}, http.StatusForbidden},
		{"admin с настройками", &AuthClaims{Subject: "u", Role: model.RoleAdmin}, []string{"manage_settings"}, http.StatusOK},
		{"driver не допускается", &AuthClaims{Subject: "u", Role: model.RoleDriver}, []string{"view"}, http.StatusForbidden},
		{"неизвестный scope", &AuthClaims{Subject: "u", Role: model.RoleAdmin}, []string{"root"}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := RequireScopes()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))
			ctx := context.Background()
			if tt.scopes != nil {
				ctx = context.WithValue(ctx, generated.BearerAuthScopes, tt.scopes)
			}
			if tt.claims != nil {
				ctx = WithClaims(ctx, tt.claims)
			}
			req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Errorf("статус = %d, хотели %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestActorFromContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if ActorFromContext(req.Context()) != "" {
		t.Error("без claims actor должен быть пустым")
	}
	ctx := WithClaims(req.Context(), &AuthClaims{Subject: "u-42"})
	if got := ActorFromContext(ctx); got != "u-42" {
		t.Errorf("actor = %q, хотели sub при пустом username", got)
	}
}
