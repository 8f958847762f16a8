package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"

	"perfumeria/internal/config"
	"perfumeria/internal/repos"
	"perfumeria/internal/server"
	"perfumeria/internal/services"
	"perfumeria/internal/storage"
)

const (
	adminEmail = "administrador@perfumes.com"
	password   = "Passw0rd!"
)

type testEnv struct {
	app   *fiber.App
	db    *sqlx.DB
	auth  *services.AuthService
	media string
}

func newTestEnv(t *testing.T, loginMax int) *testEnv {
	t.Helper()
	return newTestEnvWith(t, loginMax, nil)
}

// newTestEnvWith lets a test adjust the config before the app is built.
func newTestEnvWith(t *testing.T, loginMax int, adjust func(*config.Config)) *testEnv {
	t.Helper()
	db, err := repos.OpenDB("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	auth := services.NewAuthService(repos.NewUserRepo(db), "test-secret", time.Hour, adminEmail)
	if _, err := auth.EnsureAdmin(context.Background(), "Admin", password); err != nil {
		t.Fatalf("admin: %v", err)
	}

	media := t.TempDir()
	disk, err := storage.NewLocal(media, "/media")
	if err != nil {
		t.Fatalf("disk: %v", err)
	}
	cfg := config.Config{
		TemplatesDir:   "../../web/templates",
		StaticDir:      "../../web/static",
		WhatsAppNumber: "593978984433",
	}
	if adjust != nil {
		adjust(&cfg)
	}
	app := server.New(server.Options{Config: cfg, DB: db, Auth: auth, Disk: disk, LoginMax: loginMax})
	return &testEnv{app: app, db: db, auth: auth, media: media}
}

// session returns a signed session token for email.
func (e *testEnv) session(t *testing.T, email string) string {
	t.Helper()
	tok, _, err := e.auth.Login(context.Background(), email, password)
	if err != nil {
		t.Fatalf("login %s: %v", email, err)
	}
	return tok
}

func (e *testEnv) csrf(t *testing.T) string {
	t.Helper()
	resp, err := e.app.Test(httptest.NewRequest("GET", "/login", nil))
	if err != nil {
		t.Fatal(err)
	}
	tok := extractCookie(resp, "csrf_")
	if tok == "" {
		t.Fatal("csrf token missing")
	}
	return tok
}

func extractCookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// webp is the smallest payload http.DetectContentType reports as image/webp.
func webp() []byte {
	return append([]byte("RIFF\x24\x00\x00\x00WEBPVP8 "), bytes.Repeat([]byte{0}, 32)...)
}

// multipartReq builds an admin form post. An empty filename sends no file.
func multipartReq(t *testing.T, target, csrfTok, sid string, fields map[string]string, filename string, file []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	_ = w.WriteField("csrf", csrfTok)
	for k, v := range fields {
		_ = w.WriteField(k, v)
	}
	if filename != "" {
		fw, err := w.CreateFormFile("imagen", filename)
		if err != nil {
			t.Fatal(err)
		}
		_, _ = fw.Write(file)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest("POST", target, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.AddCookie(&http.Cookie{Name: "csrf_", Value: csrfTok})
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	return req
}

func formReq(target, csrfTok, sid, form string) *http.Request {
	body := "csrf=" + csrfTok
	if form != "" {
		body += "&" + form
	}
	req := httptest.NewRequest("POST", target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "csrf_", Value: csrfTok})
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	return req
}

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	User   string         `json:"user"`
	Fields map[string]any `json:"fields"`
}

type lockedWriter struct {
	w  *bytes.Buffer
	mu *sync.Mutex
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Write(p)
}

// captureLogs collects the JSON log lines written while fn runs.
func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	var buf bytes.Buffer
	var mu sync.Mutex
	oldW := log.Writer()
	oldFlags := log.Flags()
	log.SetOutput(&lockedWriter{w: &buf, mu: &mu})
	log.SetFlags(0)
	defer func() {
		log.SetOutput(oldW)
		log.SetFlags(oldFlags)
	}()

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func findLog(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}
