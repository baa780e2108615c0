package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/signalpost/signalpost/internal/config"
	"github.com/signalpost/signalpost/internal/logging"
)

func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		cache.Close()
		mr.Close()
	})

	cfg := config.Config{
		AppName:            "signalpost-test",
		AppEnv:             "development",
		JWTSecret:          "test-secret",
		AccessTokenTTL:     time.Minute,
		RegistrationOTPTTL: 300 * time.Second,
		ResetOTPTTL:        600 * time.Second,
		OTPMaxAttempts:     3,
		DebugEchoOTP:       true,
	}

	app := fiber.New()
	if err := Setup(app, Deps{Cfg: cfg, Cache: cache, Logger: logging.Discard()}); err != nil {
		t.Fatalf("setup routes: %v", err)
	}
	return app
}

type envelope struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
	Errors  map[string]any `json:"errors"`
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any, token string) (int, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode %s %s response: %v", method, path, err)
	}
	return resp.StatusCode, env
}

func TestRegistrationLoginEndToEnd(t *testing.T) {
	app := setupTestApp(t)

	status, env := doJSON(t, app, fiber.MethodPost, "/api/v1/register", fiber.Map{
		"first_name":       "Jane",
		"last_name":        "Doe",
		"phone":            "+15551234567",
		"password":         "secret1",
		"confirm_password": "secret1",
	}, "")
	if status != http.StatusOK || !env.Success {
		t.Fatalf("register: status %d, envelope %+v", status, env)
	}
	code, _ := env.Data["otp"].(string)
	if code == "" {
		t.Fatalf("expected echoed otp in debug mode, got %+v", env.Data)
	}
	if secs, _ := env.Data["otp_expires_in_seconds"].(float64); secs != 300 {
		t.Fatalf("expected otp_expires_in_seconds 300, got %v", env.Data["otp_expires_in_seconds"])
	}

	status, env = doJSON(t, app, fiber.MethodPost, "/api/v1/verify-otp", fiber.Map{
		"phone": "+15551234567",
		"otp":   code,
	}, "")
	if status != http.StatusOK || !env.Success {
		t.Fatalf("verify-otp: status %d, envelope %+v", status, env)
	}

	status, env = doJSON(t, app, fiber.MethodPost, "/api/v1/login", fiber.Map{
		"phone":    "+15551234567",
		"password": "secret1",
	}, "")
	if status != http.StatusOK || !env.Success {
		t.Fatalf("login: status %d, envelope %+v", status, env)
	}
	token, _ := env.Data["access_token"].(string)
	if token == "" {
		t.Fatalf("expected access token, got %+v", env.Data)
	}
	user, _ := env.Data["user"].(map[string]any)
	if user["phone"] != "+15551234567" || user["is_active"] != true {
		t.Fatalf("unexpected user payload: %+v", user)
	}

	status, env = doJSON(t, app, fiber.MethodGet, "/api/v1/me", nil, token)
	if status != http.StatusOK || !env.Success {
		t.Fatalf("me: status %d, envelope %+v", status, env)
	}
	if env.Data["first_name"] != "Jane" {
		t.Fatalf("unexpected profile: %+v", env.Data)
	}

	status, env = doJSON(t, app, fiber.MethodPost, "/api/v1/login", fiber.Map{
		"phone":    "+15551234567",
		"password": "wrong",
	}, "")
	if status != http.StatusBadRequest || env.Success {
		t.Fatalf("wrong password login: status %d, envelope %+v", status, env)
	}
}

func TestVerifyOTPWrongCode(t *testing.T) {
	app := setupTestApp(t)

	status, _ := doJSON(t, app, fiber.MethodPost, "/api/v1/register", fiber.Map{
		"first_name":       "Jane",
		"last_name":        "Doe",
		"phone":            "+15551234567",
		"password":         "secret1",
		"confirm_password": "secret1",
	}, "")
	if status != http.StatusOK {
		t.Fatalf("register status %d", status)
	}

	status, env := doJSON(t, app, fiber.MethodPost, "/api/v1/verify-otp", fiber.Map{
		"phone": "+15551234567",
		"otp":   "000000",
	}, "")
	if status != http.StatusBadRequest || env.Success {
		t.Fatalf("expected 400 for wrong otp, got %d %+v", status, env)
	}

	status, env = doJSON(t, app, fiber.MethodPost, "/api/v1/login", fiber.Map{
		"phone":    "+15551234567",
		"password": "secret1",
	}, "")
	if status != http.StatusBadRequest {
		t.Fatalf("unconfirmed account must not log in, got %d %+v", status, env)
	}
}

func TestPasswordResetEndToEnd(t *testing.T) {
	app := setupTestApp(t)

	_, env := doJSON(t, app, fiber.MethodPost, "/api/v1/register", fiber.Map{
		"first_name":       "Jane",
		"last_name":        "Doe",
		"phone":            "+15551234567",
		"password":         "secret1",
		"confirm_password": "secret1",
	}, "")
	code, _ := env.Data["otp"].(string)
	doJSON(t, app, fiber.MethodPost, "/api/v1/verify-otp", fiber.Map{"phone": "+15551234567", "otp": code}, "")

	status, env := doJSON(t, app, fiber.MethodPost, "/api/v1/forgot-password", fiber.Map{
		"phone": "+15551234567",
	}, "")
	if status != http.StatusOK || !env.Success {
		t.Fatalf("forgot-password: status %d, envelope %+v", status, env)
	}
	if mins, _ := env.Data["otp_expires_in_minutes"].(float64); mins != 5 {
		t.Fatalf("expected otp_expires_in_minutes 5, got %v", env.Data["otp_expires_in_minutes"])
	}
	resetCode, _ := env.Data["otp"].(string)

	status, env = doJSON(t, app, fiber.MethodPost, "/api/v1/reset-password", fiber.Map{
		"phone":        "+15551234567",
		"otp":          resetCode,
		"new_password": "newsecret",
	}, "")
	if status != http.StatusOK || !env.Success {
		t.Fatalf("reset-password: status %d, envelope %+v", status, env)
	}

	status, _ = doJSON(t, app, fiber.MethodPost, "/api/v1/login", fiber.Map{
		"phone":    "+15551234567",
		"password": "newsecret",
	}, "")
	if status != http.StatusOK {
		t.Fatalf("login with new password: status %d", status)
	}
}

func TestForgotPasswordUnknownPhone(t *testing.T) {
	app := setupTestApp(t)

	status, env := doJSON(t, app, fiber.MethodPost, "/api/v1/forgot-password", fiber.Map{
		"phone": "+15559999999",
	}, "")
	if status != http.StatusNotFound || env.Success {
		t.Fatalf("expected 404, got %d %+v", status, env)
	}
}

func TestProfileRequiresToken(t *testing.T) {
	app := setupTestApp(t)

	status, env := doJSON(t, app, fiber.MethodGet, "/api/v1/me", nil, "")
	if status != http.StatusUnauthorized || env.Success {
		t.Fatalf("expected 401 without token, got %d %+v", status, env)
	}
}

func TestCategoryAndPostEndpoints(t *testing.T) {
	app := setupTestApp(t)

	// Register an author first; posts require a real user.
	_, env := doJSON(t, app, fiber.MethodPost, "/api/v1/register", fiber.Map{
		"first_name":       "Jane",
		"last_name":        "Doe",
		"phone":            "+15551234567",
		"password":         "secret1",
		"confirm_password": "secret1",
	}, "")
	code, _ := env.Data["otp"].(string)
	doJSON(t, app, fiber.MethodPost, "/api/v1/verify-otp", fiber.Map{"phone": "+15551234567", "otp": code}, "")

	status, env := doJSON(t, app, fiber.MethodPost, "/api/v1/categories", fiber.Map{"name": "Tech"}, "")
	if status != http.StatusOK || !env.Success {
		t.Fatalf("create category: status %d, envelope %+v", status, env)
	}
	catID, _ := env.Data["id"].(string)
	if catID == "" {
		t.Fatalf("expected category id, got %+v", env.Data)
	}

	status, env = doJSON(t, app, fiber.MethodGet, "/api/v1/categories", nil, "")
	if status != http.StatusOK {
		t.Fatalf("list categories: status %d", status)
	}

	status, env = doJSON(t, app, fiber.MethodPost, "/api/v1/categories", fiber.Map{"name": "x"}, "")
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for short category name, got %d", status)
	}

	status, env = doJSON(t, app, fiber.MethodGet, "/api/v1/posts", nil, "")
	if status != http.StatusOK || !env.Success {
		t.Fatalf("list posts: status %d, envelope %+v", status, env)
	}
}
