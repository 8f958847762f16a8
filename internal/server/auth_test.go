package server_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLoginSuccessFailAndThrottle(t *testing.T) {
	env := newTestEnv(t, 2)
	csrfTok := env.csrf(t)

	// bad password -> 401 and logged
	var respBad *http.Response
	var err error
	failLogs := captureLogs(t, func() {
		respBad, err = env.app.Test(formReq("/login", csrfTok, "", "email="+adminEmail+"&password=wrongpass!"))
	})
	if err != nil {
		t.Fatal(err)
	}
	if respBad.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad creds, got %d", respBad.StatusCode)
	}
	if e, ok := findLog(failLogs, "auth.login.fail"); !ok || e.Fields["email"] == nil {
		t.Fatalf("auth.login.fail with email not logged: %+v", failLogs)
	}

	// good password -> panel, with a session cookie
	var respGood *http.Response
	okLogs := captureLogs(t, func() {
		respGood, err = env.app.Test(formReq("/login", csrfTok, "", "email="+adminEmail+"&password="+password))
	})
	if err != nil {
		t.Fatal(err)
	}
	if respGood.StatusCode != http.StatusFound || respGood.Header.Get("Location") != "/admin" {
		t.Fatalf("expected redirect to /admin, got %d -> %q", respGood.StatusCode, respGood.Header.Get("Location"))
	}
	sid := extractCookie(respGood, "sid")
	if sid == "" {
		t.Fatal("session cookie not set")
	}
	if _, ok := findLog(okLogs, "auth.login.success"); !ok {
		t.Fatal("auth.login.success log not found")
	}
	if _, err := env.auth.CurrentUser(t.Context(), sid); err != nil {
		t.Fatalf("issued session does not resolve: %v", err)
	}

	// third attempt within the window -> 429
	respThird, err := env.app.Test(formReq("/login", csrfTok, "", "email="+adminEmail+"&password=wrongpass!"))
	if err != nil {
		t.Fatal(err)
	}
	if respThird.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after throttle, got %d", respThird.StatusCode)
	}
}

func TestLoginRejectsMalformedEmail(t *testing.T) {
	env := newTestEnv(t, 0)
	csrfTok := env.csrf(t)

	var resp *http.Response
	var err error
	logs := captureLogs(t, func() {
		resp, err = env.app.Test(formReq("/login", csrfTok, "", "email=not-an-email&password="+password))
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	e, ok := findLog(logs, "auth.login.fail")
	if !ok || e.Fields["reason"] != "bad_format" {
		t.Fatalf("expected bad_format failure, got %+v", logs)
	}
}

func TestLoginWithoutCSRFIsRejected(t *testing.T) {
	env := newTestEnv(t, 0)

	var resp *http.Response
	var err error
	logs := captureLogs(t, func() {
		req := formReq("/login", "", "", "email="+adminEmail+"&password="+password)
		resp, err = env.app.Test(req)
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 without csrf, got %d", resp.StatusCode)
	}
	if _, ok := findLog(logs, "csrf.fail"); !ok {
		t.Fatal("csrf.fail log not found")
	}
}

func TestLogoutClearsSession(t *testing.T) {
	env := newTestEnv(t, 0)
	csrfTok := env.csrf(t)
	sid := env.session(t, adminEmail)

	var resp *http.Response
	var err error
	logs := captureLogs(t, func() {
		resp, err = env.app.Test(formReq("/logout", csrfTok, sid, ""))
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/" {
		t.Fatalf("expected redirect to /, got %d", resp.StatusCode)
	}
	for _, c := range resp.Cookies() {
		if c.Name == "sid" && c.Value != "" {
			t.Fatalf("session cookie not cleared: %q", c.Value)
		}
	}
	if e, ok := findLog(logs, "auth.logout"); !ok || e.User != adminEmail {
		t.Fatalf("auth.logout not logged for admin: %+v", logs)
	}

	// anonymous login page still renders
	respForm, err := env.app.Test(httptest.NewRequest("GET", "/login", nil))
	if err != nil {
		t.Fatal(err)
	}
	if respForm.StatusCode != http.StatusOK {
		t.Fatalf("login form: %d", respForm.StatusCode)
	}
}
