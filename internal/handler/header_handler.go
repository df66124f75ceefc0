package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/utils"
)

// UserFromHeaders resolves the caller identity for log attribution: an
// explicit username header wins, otherwise the Authorization JWT claims
func UserFromHeaders(c *gin.Context) string {
	if user := c.GetHeader("X-User-Name"); user != "" {
		return user
	}
	if auth := c.GetHeader("Authorization"); auth != "" {
		return utils.ExtractUserNameFromToken(auth)
	}
	return "unknown"
}
