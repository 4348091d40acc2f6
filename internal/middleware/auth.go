package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "github.com/vetcare/clinic-api/pkg/errors"
	"github.com/vetcare/clinic-api/pkg/httputil"
)

const (
	ContextCallerID   = "callerID"
	ContextCallerRole = "callerRole"
)

// Roles recognized by the clinic API.
const (
	RoleClient       = "CLIENT"
	RoleVeterinarian = "VETERINARIAN"
	RoleReceptionist = "RECEPTIONIST"
)

// Claims is the JWT payload issued to clinic users. Subject carries the
// user ID.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type AuthMiddleware struct {
	secret []byte
}

func NewAuthMiddleware(secret string) *AuthMiddleware {
	return &AuthMiddleware{secret: []byte(secret)}
}

// Authenticate verifies the bearer token and sets caller identity in context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "invalid authorization format")
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return m.secret, nil
		})
		if err != nil || !token.Valid {
			abortUnauthorized(c, "invalid token")
			return
		}

		callerID, err := uuid.Parse(claims.Subject)
		if err != nil {
			abortUnauthorized(c, "invalid token subject")
			return
		}

		c.Set(ContextCallerID, callerID)
		c.Set(ContextCallerRole, claims.Role)
		c.Next()
	}
}

// RequireRole restricts a route to the given roles.
func (m *AuthMiddleware) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextCallerRole)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		httputil.RespondWithError(c, apperrors.Unauthorized("insufficient role", nil))
		c.Abort()
	}
}

// CallerID returns the authenticated caller set by Authenticate.
func CallerID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextCallerID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, httputil.Response{
		Success: false,
		Error:   &httputil.Error{Code: http.StatusUnauthorized, Message: msg},
	})
}
