package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	apperrors "welth/internal/errors"
	"welth/internal/logger"
	"welth/internal/services"
)

// IdentityClaims are the claims carried by tokens from the identity provider.
type IdentityClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	jwt.RegisteredClaims
}

var errMissingSubject = errors.New("token has no subject")

// ParseIdentityToken verifies an HS256 token signed with secret. When issuer
// is non-empty the iss claim must match it.
func ParseIdentityToken(tokenString string, secret []byte, issuer string) (*IdentityClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}

	claims := &IdentityClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.Subject == "" {
		return nil, errMissingSubject
	}
	return claims, nil
}

// AuthMiddleware verifies the bearer token, maps the external identity to a
// local user, and stores the local user ID in the context under "userID".
func AuthMiddleware(secret, issuer string, users services.UserServicer) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		if len(key) == 0 {
			abortWithError(c, apperrors.ErrUnauthorized)
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Authorization header is required"))
			return
		}

		scheme, tokenString, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || tokenString == "" {
			abortWithError(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Invalid authorization header format"))
			return
		}

		claims, err := ParseIdentityToken(tokenString, key, issuer)
		if err != nil {
			logger.Get().Debugw("identity token rejected", "error", err, "path", c.Request.URL.Path)
			abortWithError(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Invalid or expired token"))
			return
		}

		user, err := users.SyncUser(services.Identity{
			ExternalID: claims.Subject,
			Email:      claims.Email,
			Name:       claims.Name,
			ImageURL:   claims.Picture,
		})
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.Set("userID", user.ID)
		c.Set("email", user.Email)
		c.Next()
	}
}
