package server

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/campuslab/campusite/config"
)

func adminHandler() *AdminHandler {
	return &AdminHandler{
		Cfg: &config.Config{
			General: config.GeneralConfig{JWTSecret: "test-secret"},
			Site: config.SiteConfig{
				AdminUsername: "admin",
				AdminPassword: "letmein",
			},
		},
		Logger: log.New(io.Discard, "", 0),
	}
}

func doLogin(t *testing.T, h *AdminHandler, body string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return rec, h.login(e.NewContext(req, rec))
}

func TestAdminLoginIssuesToken(t *testing.T) {
	rec, err := doLogin(t, adminHandler(), `{"username":"admin","password":"letmein"}`)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["success"] != true || resp["token"] == "" {
		t.Fatalf("got %+v", resp)
	}
	var cookie *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "auth" {
			cookie = ck
		}
	}
	if cookie == nil || cookie.Value == "" {
		t.Fatal("expected an auth cookie")
	}
}

func TestAdminLoginRejectsBadPassword(t *testing.T) {
	_, err := doLogin(t, adminHandler(), `{"username":"admin","password":"wrong"}`)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAdminLoginRejectsUnknownUser(t *testing.T) {
	_, err := doLogin(t, adminHandler(), `{"username":"root","password":"letmein"}`)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAdminLoginBcryptHash(t *testing.T) {
	h := adminHandler()
	hash, err := bcrypt.GenerateFromPassword([]byte("letmein"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	h.Cfg.Site.AdminPassword = string(hash)
	if !h.credentialsValid("admin", "letmein") {
		t.Fatal("expected hashed password to verify")
	}
	if h.credentialsValid("admin", "wrong") {
		t.Fatal("wrong password must not verify")
	}
}
