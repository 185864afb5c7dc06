package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"planassist/internal/model"
)

type UserHandler struct {
	logger *zap.Logger
}

func NewUserHandler(logger *zap.Logger) *UserHandler {
	return &UserHandler{logger: logger}
}

// Profile returns the authenticated user. The middleware already
// resolved the account from the token.
func (h *UserHandler) Profile(c *gin.Context) {
	u, ok := c.MustGet("user").(*model.User)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user not resolved"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user_id": u.ID.String(),
		"name":    u.Name,
		"email":   u.Email,
	})
}
