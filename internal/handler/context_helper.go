package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ProyectoMep/Colegiosapp/internal/middleware"
	"github.com/ProyectoMep/Colegiosapp/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		return nil
	}
	return claims
}
