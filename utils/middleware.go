package utils

import (
	"os"
	"strings"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// OptionalUser resolves the caller's identity on routes that serve both
// anonymous and authenticated requests (public trip pages, invite previews).
// Bearer header first, then the auth_token cookie; any verification failure
// means anonymous, never an error.
func OptionalUser(ctx iris.Context) *AccessToken {
	token := ""
	if auth := ctx.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		token = strings.TrimPrefix(auth, "Bearer ")
	} else if cookie := ctx.GetCookie("auth_token"); cookie != "" {
		token = cookie
	}
	if token == "" {
		return nil
	}

	verifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	verified, err := verifier.VerifyToken([]byte(token))
	if err != nil {
		return nil
	}
	var claims AccessToken
	if err := verified.Claims(&claims); err != nil {
		return nil
	}
	return &claims
}

// AdminOnlyMiddleware ensures the requester has platform admin or super_admin role
func AdminOnlyMiddleware(ctx iris.Context) {
	claims := jwt.Get(ctx).(*AccessToken)
	role := claims.Role
	if role != "admin" && role != "super_admin" {
		ctx.StatusCode(iris.StatusForbidden)
		ctx.JSON(iris.Map{"error": "forbidden", "message": "admin access required"})
		return
	}
	ctx.Values().Set("userID", claims.ID)
	ctx.Next()
}

// SuperAdminOnlyMiddleware ensures only super admins can access
func SuperAdminOnlyMiddleware(ctx iris.Context) {
	claims := jwt.Get(ctx).(*AccessToken)
	role := claims.Role
	if role != "super_admin" {
		ctx.StatusCode(iris.StatusForbidden)
		ctx.JSON(iris.Map{"error": "forbidden", "message": "super_admin access required"})
		return
	}
	ctx.Next()
}
