package routes

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"tripmate-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// buildAdminTestApp wires the admin party with the real verifier and RBAC
// middleware. Handlers are stubbed so no database is needed.
func buildAdminTestApp() *iris.Application {
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")
	app := iris.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	ok := func(ctx iris.Context) {
		ctx.JSON(iris.Map{"success": true})
	}

	admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		admin.Get("/stats", ok)
		admin.Patch("/users/{userID:uint}/role", utils.SuperAdminOnlyMiddleware, ok)
	}

	app.Build()
	return app
}

func signTestToken(t *testing.T, id uint, role string) string {
	t.Helper()
	signer := jwt.NewSigner(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")), 0)
	token, err := signer.Sign(utils.AccessToken{ID: id, Role: role})
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return string(token)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	app := buildAdminTestApp()

	req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code == http.StatusOK {
		t.Fatalf("expected non-200 without token, got %d", resp.Code)
	}
}

func TestAdminRoutesRejectRegularUsers(t *testing.T) {
	app := buildAdminTestApp()

	req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, 1, "user"))
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for user role, got %d", resp.Code)
	}
}

func TestAdminRoutesAllowAdmins(t *testing.T) {
	app := buildAdminTestApp()

	req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, 1, "admin"))
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin role, got %d", resp.Code)
	}
}

func TestRoleChangeRequiresSuperAdmin(t *testing.T) {
	app := buildAdminTestApp()

	req := httptest.NewRequest(http.MethodPatch, "/api/admin/users/2/role", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, 1, "admin"))
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for admin on super-admin route, got %d", resp.Code)
	}

	req2 := httptest.NewRequest(http.MethodPatch, "/api/admin/users/2/role", nil)
	req2.Header.Set("Authorization", "Bearer "+signTestToken(t, 1, "super_admin"))
	resp2 := httptest.NewRecorder()
	app.ServeHTTP(resp2, req2)
	if resp2.Code != http.StatusOK {
		t.Fatalf("expected 200 for super admin, got %d", resp2.Code)
	}
}
