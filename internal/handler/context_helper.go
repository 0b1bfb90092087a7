package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/gradebook-api/internal/middleware"
	"github.com/noah-isme/gradebook-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// actorFromContext projects the JWT claims into the UserInfo shape services
// take as the acting user.
func actorFromContext(c *gin.Context) (models.UserInfo, bool) {
	claims := claimsFromContext(c)
	if claims == nil {
		return models.UserInfo{}, false
	}
	return models.UserInfo{
		ID:            claims.UserID,
		Username:      claims.Username,
		FullName:      claims.FullName,
		Role:          claims.Role,
		AssignedClass: claims.AssignedClass,
	}, true
}
