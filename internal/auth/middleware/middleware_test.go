package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/mind-engage/eduquiz/internal/rbac"
)

func TestIssueAndParse(t *testing.T) {
	a := NewAuthService("test-secret")
	tok, err := a.IssueJWT("admin", "admin")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	c, err := a.Parse(tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.Sub != "admin" || c.Role != "admin" {
		t.Fatalf("claims = %+v", c)
	}

	if _, err := NewAuthService("other-secret").Parse(tok); err == nil {
		t.Fatal("token verified with the wrong secret")
	}
}

func TestLoginHandler(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	a := NewAuthService("test-secret")
	h := LoginHandler(a, "admin", string(hash))

	cases := []struct {
		name, body string
		want       int
	}{
		{"ok", `{"username":"admin","password":"s3cret"}`, http.StatusOK},
		{"wrong password", `{"username":"admin","password":"nope"}`, http.StatusUnauthorized},
		{"wrong user", `{"username":"root","password":"s3cret"}`, http.StatusUnauthorized},
		{"bad json", `{`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h(rr, httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(tc.body)))
			if rr.Code != tc.want {
				t.Fatalf("status = %d, want %d (%s)", rr.Code, tc.want, rr.Body.String())
			}
			if tc.want == http.StatusOK {
				var out map[string]string
				_ = json.Unmarshal(rr.Body.Bytes(), &out)
				if _, err := a.Parse(out["access_token"]); err != nil {
					t.Fatalf("issued token does not parse: %v", err)
				}
			}
		})
	}
}

func TestJWTMiddlewareSetsRole(t *testing.T) {
	a := NewAuthService("test-secret")
	var gotRole, gotSub string
	h := JWTMiddleware(a)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRole = rbac.RoleFromContext(r.Context())
		gotSub = SubjectFromContext(r.Context())
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("no bearer: status = %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: status = %d", rr.Code)
	}

	tok, _ := a.IssueJWT("ops", "admin")
	rr = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK || gotRole != "admin" || gotSub != "ops" {
		t.Fatalf("status=%d role=%q sub=%q", rr.Code, gotRole, gotSub)
	}
}
