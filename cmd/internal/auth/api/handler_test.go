package authapi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"relay/cmd/identity"
	"relay/cmd/internal/auth/session"
	"relay/cmd/internal/media"

	"log/slog"
)

type fakeUploader struct {
	url string
	err error
}

func (f *fakeUploader) Upload(ctx context.Context, img media.Image) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

func newTestHandler(t *testing.T, up media.Uploader) (*Handler, *http.ServeMux) {
	t.Helper()

	// Low cost keeps the bcrypt-heavy tests fast.
	t.Setenv("RELAY_BCRYPT_COST", "4")

	sessCfg := session.DefaultConfig()
	sessCfg.Secret = []byte(strings.Repeat("k", 32))
	tokens, err := session.NewHS256Manager(sessCfg)
	if err != nil {
		t.Fatalf("NewHS256Manager: %v", err)
	}

	if up == nil {
		up = &fakeUploader{url: "https://cdn.example.com/avatars/x.png"}
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	h, err := NewHandler(log, LoadConfigFromEnv(), sessCfg, identity.NewMemoryStore(), tokens, up)
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}

	mux := http.NewServeMux()
	h.Register(mux)
	return h, mux
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func signup(t *testing.T, mux *http.ServeMux, fullName, email, password string) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(map[string]string{
		"fullName": fullName,
		"email":    email,
		"password": password,
	})
	return doJSON(t, mux, http.MethodPost, "/api/auth/signup", string(body), nil)
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == "jwt" {
			return c
		}
	}
	t.Fatalf("no jwt cookie in response")
	return nil
}

func TestSignup_Success(t *testing.T) {
	_, mux := newTestHandler(t, nil)

	rec := signup(t, mux, "Jane Doe", "jane@example.com", "secret1")
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var u userResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &u); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if u.ID == "" || u.FullName != "Jane Doe" || u.Email != "jane@example.com" {
		t.Fatalf("unexpected user payload: %+v", u)
	}
	if u.ProfilePic != "" {
		t.Fatalf("new user should have empty profilePic")
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("response leaks password material: %s", rec.Body.String())
	}

	c := sessionCookie(t, rec)
	if c.Value == "" {
		t.Fatalf("empty session cookie")
	}
	if !c.HttpOnly {
		t.Fatalf("cookie must be HttpOnly")
	}
	if c.SameSite != http.SameSiteStrictMode {
		t.Fatalf("cookie SameSite = %v, want Strict", c.SameSite)
	}
	if c.Secure {
		t.Fatalf("cookie must not be Secure outside production")
	}
	if want := int(7 * 24 * time.Hour / time.Second); c.MaxAge != want {
		t.Fatalf("cookie MaxAge = %d, want %d", c.MaxAge, want)
	}
}

func TestSignup_Validation(t *testing.T) {
	_, mux := newTestHandler(t, nil)

	cases := []struct {
		name                      string
		fullName, email, password string
	}{
		{"missing name", "", "a@example.com", "secret1"},
		{"missing email", "Jane", "", "secret1"},
		{"missing password", "Jane", "a@example.com", ""},
	}
	for _, tc := range cases {
		rec := signup(t, mux, tc.fullName, tc.email, tc.password)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d", tc.name, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "All fields are required") {
			t.Fatalf("%s: body = %s", tc.name, rec.Body.String())
		}
	}
}

func TestSignup_PasswordLengthBoundary(t *testing.T) {
	_, mux := newTestHandler(t, nil)

	rec := signup(t, mux, "Jane", "short@example.com", "12345")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("5-char password: status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "at least 6 characters") {
		t.Fatalf("5-char password: body = %s", rec.Body.String())
	}

	rec = signup(t, mux, "Jane", "exact@example.com", "123456")
	if rec.Code != http.StatusCreated {
		t.Fatalf("6-char password: status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	_, mux := newTestHandler(t, nil)

	if rec := signup(t, mux, "Jane", "dup@example.com", "secret1"); rec.Code != http.StatusCreated {
		t.Fatalf("first signup: %d", rec.Code)
	}
	rec := signup(t, mux, "Other", "DUP@example.com", "secret2")
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate signup: status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestLogin_Success(t *testing.T) {
	_, mux := newTestHandler(t, nil)
	signup(t, mux, "Jane", "jane@example.com", "secret1")

	rec := doJSON(t, mux, http.MethodPost, "/api/auth/login",
		`{"email":"jane@example.com","password":"secret1"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if c := sessionCookie(t, rec); c.Value == "" {
		t.Fatalf("login did not set session cookie")
	}
}

func TestLogin_AntiEnumeration(t *testing.T) {
	_, mux := newTestHandler(t, nil)
	signup(t, mux, "Jane", "known@example.com", "secret1")

	unknown := doJSON(t, mux, http.MethodPost, "/api/auth/login",
		`{"email":"nobody@example.com","password":"secret1"}`, nil)
	wrongPw := doJSON(t, mux, http.MethodPost, "/api/auth/login",
		`{"email":"known@example.com","password":"wrong-password"}`, nil)

	if unknown.Code != http.StatusUnauthorized || wrongPw.Code != http.StatusUnauthorized {
		t.Fatalf("statuses = %d, %d; want both 401", unknown.Code, wrongPw.Code)
	}
	// The two failure modes must be byte-identical to the client.
	if unknown.Body.String() != wrongPw.Body.String() {
		t.Fatalf("failure bodies differ:\n%s\n%s", unknown.Body.String(), wrongPw.Body.String())
	}
	if !strings.Contains(unknown.Body.String(), invalidCredentialsMessage) {
		t.Fatalf("body = %s", unknown.Body.String())
	}
}

func TestLogout_ClearsCookie(t *testing.T) {
	_, mux := newTestHandler(t, nil)

	rec := doJSON(t, mux, http.MethodPost, "/api/auth/logout", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Logged out successfully") {
		t.Fatalf("body = %s", rec.Body.String())
	}

	c := sessionCookie(t, rec)
	if c.Value != "" || c.MaxAge >= 0 {
		t.Fatalf("cookie not cleared: value=%q maxage=%d", c.Value, c.MaxAge)
	}
}

func TestCheck_Authenticated(t *testing.T) {
	_, mux := newTestHandler(t, nil)
	rec := signup(t, mux, "Jane", "jane@example.com", "secret1")
	cookie := sessionCookie(t, rec)

	check := doJSON(t, mux, http.MethodGet, "/api/auth/check", "", []*http.Cookie{cookie})
	if check.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", check.Code, check.Body.String())
	}

	var u userResponse
	if err := json.Unmarshal(check.Body.Bytes(), &u); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if u.Email != "jane@example.com" {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func TestCheck_Unauthenticated(t *testing.T) {
	_, mux := newTestHandler(t, nil)

	// No cookie at all.
	rec := doJSON(t, mux, http.MethodGet, "/api/auth/check", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no cookie: status = %d", rec.Code)
	}

	// Garbage token.
	rec = doJSON(t, mux, http.MethodGet, "/api/auth/check", "",
		[]*http.Cookie{{Name: "jwt", Value: "not-a-token"}})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token: status = %d", rec.Code)
	}
}

func TestCheck_TokenSignedWithOtherSecret(t *testing.T) {
	_, mux := newTestHandler(t, nil)
	signup(t, mux, "Jane", "jane@example.com", "secret1")

	otherCfg := session.DefaultConfig()
	otherCfg.Secret = []byte(strings.Repeat("z", 32))
	other, err := session.NewHS256Manager(otherCfg)
	if err != nil {
		t.Fatalf("NewHS256Manager: %v", err)
	}
	forged, _, err := other.Issue("some-user-id", time.Now().UTC())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	rec := doJSON(t, mux, http.MethodGet, "/api/auth/check", "",
		[]*http.Cookie{{Name: "jwt", Value: forged}})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("forged token: status = %d", rec.Code)
	}
}

func TestUpdateProfile(t *testing.T) {
	up := &fakeUploader{url: "https://cdn.example.com/avatars/new.png"}
	_, mux := newTestHandler(t, up)

	rec := signup(t, mux, "Jane", "jane@example.com", "secret1")
	cookie := sessionCookie(t, rec)

	// Unauthenticated.
	r := doJSON(t, mux, http.MethodPut, "/api/auth/update-profile",
		`{"profilePic":"x"}`, nil)
	if r.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated: status = %d", r.Code)
	}

	// Empty payload.
	r = doJSON(t, mux, http.MethodPut, "/api/auth/update-profile",
		`{"profilePic":""}`, []*http.Cookie{cookie})
	if r.Code != http.StatusBadRequest {
		t.Fatalf("empty payload: status = %d", r.Code)
	}

	// Not a data URL.
	r = doJSON(t, mux, http.MethodPut, "/api/auth/update-profile",
		`{"profilePic":"hello"}`, []*http.Cookie{cookie})
	if r.Code != http.StatusBadRequest {
		t.Fatalf("bad payload: status = %d, body = %s", r.Code, r.Body.String())
	}

	// Success.
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("fake png bytes"))
	body, _ := json.Marshal(map[string]string{"profilePic": dataURL})
	r = doJSON(t, mux, http.MethodPut, "/api/auth/update-profile", string(body), []*http.Cookie{cookie})
	if r.Code != http.StatusOK {
		t.Fatalf("success case: status = %d, body = %s", r.Code, r.Body.String())
	}
	var u userResponse
	if err := json.Unmarshal(r.Body.Bytes(), &u); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if u.ProfilePic != up.url {
		t.Fatalf("profilePic = %q, want %q", u.ProfilePic, up.url)
	}

	// The new URL must be visible on subsequent checks.
	check := doJSON(t, mux, http.MethodGet, "/api/auth/check", "", []*http.Cookie{cookie})
	if !strings.Contains(check.Body.String(), up.url) {
		t.Fatalf("updated url not persisted: %s", check.Body.String())
	}
}

func TestUpdateProfile_UploadFailure(t *testing.T) {
	up := &fakeUploader{err: errors.New("bucket down")}
	_, mux := newTestHandler(t, up)

	rec := signup(t, mux, "Jane", "jane@example.com", "secret1")
	cookie := sessionCookie(t, rec)

	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("fake png bytes"))
	body, _ := json.Marshal(map[string]string{"profilePic": dataURL})
	r := doJSON(t, mux, http.MethodPut, "/api/auth/update-profile", string(body), []*http.Cookie{cookie})
	if r.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", r.Code)
	}
	if strings.Contains(r.Body.String(), "bucket down") {
		t.Fatalf("internal detail leaked: %s", r.Body.String())
	}

	// No partial state: the old (empty) picture must survive.
	check := doJSON(t, mux, http.MethodGet, "/api/auth/check", "", []*http.Cookie{cookie})
	var u userResponse
	if err := json.Unmarshal(check.Body.Bytes(), &u); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if u.ProfilePic != "" {
		t.Fatalf("profilePic changed despite failed upload: %q", u.ProfilePic)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	_, mux := newTestHandler(t, nil)

	rec := doJSON(t, mux, http.MethodGet, "/api/auth/signup", "", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET signup: status = %d", rec.Code)
	}
}
