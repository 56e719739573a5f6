package command

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// fakeBackend is an in-memory SMS backend with one account,
// a@b.com / pw, whose token is T1.
type fakeBackend struct {
	*httptest.Server

	mu       sync.Mutex
	user     map[string]any
	password string
	tokens   map[string]bool
	calls    []string
	// registered is the last register body received.
	registered map[string]any
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{
		user: map[string]any{
			"id":      1,
			"email":   "a@b.com",
			"role":    "teacher",
			"profile": map[string]any{"firstName": "A", "lastName": "B"},
		},
		password: "pw",
		tokens:   map[string]bool{"T1": true},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", b.login)
	mux.HandleFunc("POST /api/auth/register", b.register)
	mux.HandleFunc("GET /api/auth/me", b.authed(b.me))
	mux.HandleFunc("PUT /api/auth/profile", b.authed(b.profile))
	mux.HandleFunc("PUT /api/auth/change-password", b.authed(b.changePassword))

	b.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.calls = append(b.calls, r.Method+" "+r.URL.Path)
		b.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(b.Close)
	return b
}

// baseURL is the API root as configured in the CLI.
func (b *fakeBackend) baseURL() string {
	return b.URL + "/api"
}

func (b *fakeBackend) callCount(call string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (b *fakeBackend) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		b.mu.Lock()
		ok := b.tokens[token]
		b.mu.Unlock()
		if !ok {
			jsonResponse(w, http.StatusUnauthorized, map[string]string{"message": "Invalid token"})
			return
		}
		next(w, r)
	}
}

func (b *fakeBackend) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	json.NewDecoder(r.Body).Decode(&body)

	b.mu.Lock()
	defer b.mu.Unlock()
	if body.Email != b.user["email"] || body.Password != b.password {
		jsonResponse(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{"token": "T1", "user": b.user})
}

func (b *fakeBackend) register(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	json.NewDecoder(r.Body).Decode(&body)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.registered = body
	if body["email"] == b.user["email"] {
		jsonResponse(w, http.StatusConflict, map[string]string{"message": "User already exists"})
		return
	}
	user := map[string]any{"id": 2, "email": body["email"], "role": "student"}
	if p, ok := body["profile"]; ok {
		user["profile"] = p
	}
	b.tokens["T2"] = true
	jsonResponse(w, http.StatusCreated, map[string]any{"token": "T2", "user": user})
}

func (b *fakeBackend) me(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	jsonResponse(w, http.StatusOK, map[string]any{"user": b.user})
}

func (b *fakeBackend) profile(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Profile map[string]any `json:"profile"`
	}
	json.NewDecoder(r.Body).Decode(&body)

	b.mu.Lock()
	defer b.mu.Unlock()
	merged := map[string]any{}
	if old, ok := b.user["profile"].(map[string]any); ok {
		for k, v := range old {
			merged[k] = v
		}
	}
	for k, v := range body.Profile {
		merged[k] = v
	}
	b.user["profile"] = merged
	jsonResponse(w, http.StatusOK, map[string]any{"user": b.user})
}

func (b *fakeBackend) changePassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	json.NewDecoder(r.Body).Decode(&body)

	b.mu.Lock()
	defer b.mu.Unlock()
	if body.CurrentPassword != b.password {
		jsonResponse(w, http.StatusBadRequest, map[string]string{"message": "Current password is incorrect"})
		return
	}
	b.password = body.NewPassword
	jsonResponse(w, http.StatusOK, map[string]string{"message": "Password updated"})
}

// jsonResponse writes a JSON response.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// testEnv is a config file and token file in a temporary directory.
type testEnv struct {
	dir        string
	configPath string
	tokenPath  string
}

// newTestEnv writes a configuration pointing at server.
func newTestEnv(t *testing.T, server string) *testEnv {
	t.Helper()
	dir := t.TempDir()
	te := &testEnv{
		dir:        dir,
		configPath: filepath.Join(dir, "cli.yaml"),
		tokenPath:  filepath.Join(dir, "token.json"),
	}
	yaml := fmt.Sprintf("server: %s\nlog:\n  level: error\ntoken:\n  store: file\n  path: %s\n", server, te.tokenPath)
	if err := os.WriteFile(te.configPath, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	return te
}

type runResult struct {
	stdout string
	stderr string
	err    error
}

// run executes the CLI with the test configuration and stdin as input.
func (te *testEnv) run(t *testing.T, stdin string, args ...string) runResult {
	t.Helper()
	var stdout, stderr bytes.Buffer

	app := App()
	app.Reader = strings.NewReader(stdin)
	app.Writer = &stdout
	app.ErrWriter = &stderr

	full := append([]string{"smsauth-cli", "--config", te.configPath}, args...)
	err := app.Run(full)
	return runResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}
