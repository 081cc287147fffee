package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"draftsync/internal/errors"
)

// Middleware verifies the bearer token and scopes the request to its
// user by setting user_id on the context.
func Middleware(tokens *Tokens) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			ctx.Error(errors.Unauthorized("Authorization is not found!", nil))
			ctx.Abort()
			return
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")

		userID, err := tokens.Verify(token)
		if err != nil {
			ctx.Error(errors.Unauthorized("Invalid token!", err))
			ctx.Abort()
			return
		}

		ctx.Set("user_id", userID)
		ctx.Next()
	}
}
