package middlewares

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	globalinfosDB "github.com/OdamboMichael/ims.xp/pkg/db/global-infos"
	jwthandling "github.com/OdamboMichael/ims.xp/pkg/jwt-handling"
)

const HeaderAuthorization = "Authorization"

// GetAndValidateUserJWT extracts the JWT from the request, checks the block
// list and validates the signature.
func GetAndValidateUserJWT(tokenSignKey string, globalInfosDBService *globalinfosDB.GlobalInfosDBService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := extractToken(c)
		if err != nil {
			slog.Warn("no Authorization token found")
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		if globalInfosDBService.IsJwtBlocked(token) {
			slog.Warn("token logged out")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token logged out"})
			c.Abort()
			return
		}

		parsedToken, ok, err := jwthandling.ValidateUserToken(token, tokenSignKey)
		if err != nil || !ok {
			slog.Warn("token validation failed")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "error during token validation"})
			c.Abort()
			return
		}
		c.Set("token", token)
		c.Set("validatedToken", parsedToken)
	}
}

// GetAndValidateUserJWTWithIgnoringExpiration accepts expired tokens, used by
// the token renew endpoint.
func GetAndValidateUserJWTWithIgnoringExpiration(tokenSignKey string, globalInfosDBService *globalinfosDB.GlobalInfosDBService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := extractToken(c)
		if err != nil {
			slog.Warn("no Authorization token found")
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		if globalInfosDBService.IsJwtBlocked(token) {
			slog.Warn("token logged out")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token logged out"})
			c.Abort()
			return
		}

		parsedToken, _, err := jwthandling.ValidateUserToken(token, tokenSignKey)
		if err != nil && !strings.Contains(err.Error(), "token is expired") {
			slog.Warn("token validation failed", slog.String("error", err.Error()))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "error during token validation"})
			c.Abort()
			return
		}
		c.Set("token", token)
		c.Set("validatedToken", parsedToken)
	}
}

func extractToken(c *gin.Context) (string, error) {
	req := c.Request

	var token string
	tokens, ok := req.Header[HeaderAuthorization]
	if ok && len(tokens) > 0 {
		token = tokens[0]
		token = strings.TrimPrefix(token, "Bearer ")
		if len(token) == 0 {
			return token, errors.New("no token found in Authorization header")
		}
	} else {
		return token, errors.New("no Authorization header found")
	}
	return token, nil
}
