package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/paydash/paydash/internal/config"
	"github.com/paydash/paydash/internal/identity"
	"github.com/paydash/paydash/internal/logging"
)

func testConfig() config.Config {
	return config.Config{
		AppName:   "PayDash",
		AppEnv:    "test",
		JWTSecret: "test-secret",
		JWTIssuer: "paydash-test",
		TokenTTL:  time.Hour,
	}
}

func setupApp(t *testing.T) (*fiber.App, Services) {
	t.Helper()
	app := fiber.New()
	services, err := Setup(app, Deps{Cfg: testConfig(), Logger: logging.Discard()})
	if err != nil {
		t.Fatalf("setup routes: %v", err)
	}
	if err := services.Identity.EnsureDefaultAdmin(context.Background(), "admin", "admin@example.com", "admin123"); err != nil {
		t.Fatalf("bootstrap admin: %v", err)
	}
	return app, services
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, payload any) (*http.Response, map[string]any) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test %s %s: %v", method, path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	decoded := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if len(raw) > 0 {
		// Some error responses are plain text; tolerate that.
		_ = json.Unmarshal(raw, &decoded)
		decoded["_raw"] = string(raw)
	}
	return resp, decoded
}

func login(t *testing.T, app *fiber.App, username, password string) (*http.Response, map[string]any) {
	t.Helper()
	return doJSON(t, app, fiber.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": username,
		"password": password,
	})
}

func mustLogin(t *testing.T, app *fiber.App, username, password string) string {
	t.Helper()
	resp, body := login(t, app, username, password)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: status %d", username, resp.StatusCode)
	}
	token, _ := body["access_token"].(string)
	if token == "" {
		t.Fatalf("login %s: missing access_token in %v", username, body)
	}
	return token
}

func TestLoginThenProtectedOperation(t *testing.T) {
	app, _ := setupApp(t)

	token := mustLogin(t, app, "admin", "admin123")

	resp, _ := doJSON(t, app, fiber.MethodGet, "/api/v1/payments/stats", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("stats with fresh token: status %d, want 200", resp.StatusCode)
	}

	resp, _ = doJSON(t, app, fiber.MethodGet, "/api/v1/payments/stats", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("stats without token: status %d, want 401", resp.StatusCode)
	}
}

func TestLoginFailureShapeIsUniform(t *testing.T) {
	app, _ := setupApp(t)

	wrongResp, wrongBody := login(t, app, "admin", "wrong")
	noUserResp, noUserBody := login(t, app, "nouser", "x")

	if wrongResp.StatusCode != http.StatusUnauthorized || noUserResp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for both failure modes, got %d and %d", wrongResp.StatusCode, noUserResp.StatusCode)
	}
	if wrongBody["_raw"] != noUserBody["_raw"] {
		t.Fatalf("failure bodies differ: %q vs %q", wrongBody["_raw"], noUserBody["_raw"])
	}
}

func TestPaymentLifecycleOverHTTP(t *testing.T) {
	app, _ := setupApp(t)
	token := mustLogin(t, app, "admin", "admin123")

	resp, created := doJSON(t, app, fiber.MethodPost, "/api/v1/payments", token, map[string]any{
		"amount":   125.50,
		"method":   "credit_card",
		"status":   "success",
		"receiver": "merchant@example.com",
		"sender":   "customer@example.com",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create payment: status %d", resp.StatusCode)
	}
	id, _ := created["id"].(string)
	if id == "" {
		t.Fatalf("created payment missing id: %v", created)
	}

	resp, fetched := doJSON(t, app, fiber.MethodGet, "/api/v1/payments/"+id, token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get payment: status %d", resp.StatusCode)
	}
	if fetched["transaction_id"] != created["transaction_id"] {
		t.Fatalf("transaction id changed between create and get")
	}

	resp, page := doJSON(t, app, fiber.MethodGet, "/api/v1/payments?status=success&page=1&page_size=1", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list payments: status %d", resp.StatusCode)
	}
	if total, _ := page["total"].(float64); total != 1 {
		t.Fatalf("total = %v, want 1", page["total"])
	}

	resp, _ = doJSON(t, app, fiber.MethodGet, fmt.Sprintf("/api/v1/payments/%s", "00000000-0000-0000-0000-000000000000"), token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown payment id: status %d, want 404", resp.StatusCode)
	}
}

func TestListRejectsNonPositivePageSize(t *testing.T) {
	app, _ := setupApp(t)
	token := mustLogin(t, app, "admin", "admin123")

	for _, query := range []string{"page_size=0", "page_size=-3", "page=0"} {
		resp, _ := doJSON(t, app, fiber.MethodGet, "/api/v1/payments?"+query, token, nil)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: status %d, want 400", query, resp.StatusCode)
		}
	}
}

func TestSeedIsAdminOnly(t *testing.T) {
	app, services := setupApp(t)

	if _, err := services.Identity.Register(context.Background(), identity.RegisterInput{
		Username: "viewer1",
		Email:    "viewer1@example.com",
		Password: "secret12",
		Roles:    []string{identity.RoleViewer},
	}); err != nil {
		t.Fatalf("register viewer: %v", err)
	}

	viewerToken := mustLogin(t, app, "viewer1", "secret12")
	resp, _ := doJSON(t, app, fiber.MethodPost, "/api/v1/payments/seed", viewerToken, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("viewer seed: status %d, want 403", resp.StatusCode)
	}

	adminToken := mustLogin(t, app, "admin", "admin123")
	resp, body := doJSON(t, app, fiber.MethodPost, "/api/v1/payments/seed", adminToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin seed: status %d, want 200", resp.StatusCode)
	}
	if body["status"] != "seeded" {
		t.Fatalf("first seed status = %v, want seeded", body["status"])
	}

	resp, body = doJSON(t, app, fiber.MethodPost, "/api/v1/payments/seed", adminToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("second seed: status %d", resp.StatusCode)
	}
	if body["status"] != "skipped" {
		t.Fatalf("second seed status = %v, want skipped", body["status"])
	}
}

func TestUserManagementIsAdminOnly(t *testing.T) {
	app, services := setupApp(t)

	if _, err := services.Identity.Register(context.Background(), identity.RegisterInput{
		Username: "viewer1",
		Email:    "viewer1@example.com",
		Password: "secret12",
		Roles:    []string{identity.RoleViewer},
	}); err != nil {
		t.Fatalf("register viewer: %v", err)
	}

	viewerToken := mustLogin(t, app, "viewer1", "secret12")
	resp, _ := doJSON(t, app, fiber.MethodGet, "/api/v1/users", viewerToken, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("viewer list users: status %d, want 403", resp.StatusCode)
	}

	adminToken := mustLogin(t, app, "admin", "admin123")
	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/v1/users", adminToken, map[string]any{
		"username": "viewer2",
		"email":    "viewer2@example.com",
		"password": "secret12",
		"roles":    []string{identity.RoleViewer},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("admin create user: status %d, want 201", resp.StatusCode)
	}
}
