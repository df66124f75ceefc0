package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/bootstrap"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/logger"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/types"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/usage"
	"go.uber.org/zap"
)

type questionRequest struct {
	Text string `json:"text" binding:"required"`
	Hint string `json:"hint"`
}

type questionResponse struct {
	TurnID   string                 `json:"turnId"`
	Answer   string                 `json:"answer"`
	Decision *types.RoutingDecision `json:"decision"`
	Cost     usage.PricedSummary    `json:"cost"`
}

// NewQuestionHandler answers one question per request
func NewQuestionHandler(svcCtx *bootstrap.ServiceContext) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req questionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
			return
		}

		question := types.Question{
			Text: req.Text,
			Hint: types.RouteHint(req.Hint),
		}

		result, err := svcCtx.Turn.Process(c.Request.Context(), question)
		if err != nil {
			status, message := mapError(err)
			logger.Warn("question turn failed",
				zap.String("user", UserFromHeaders(c)),
				zap.Int("status", status),
				zap.Error(err))
			c.JSON(status, gin.H{"error": message})
			return
		}

		c.JSON(http.StatusOK, questionResponse{
			TurnID:   result.TurnID,
			Answer:   result.Answer,
			Decision: result.Decision,
			Cost:     result.Summary,
		})
	}
}

// mapError translates pipeline errors onto HTTP statuses. Routing outages
// are retryable; unsafe generated queries are the caller's question shape;
// upstream failures are a plain bad gateway.
func mapError(err error) (int, string) {
	if types.IsRouterUnavailable(err) {
		return http.StatusServiceUnavailable, "routing is temporarily unavailable, please retry"
	}
	switch types.SpecialistErrKind(err) {
	case types.ErrKindUnsafeQuery:
		return http.StatusBadRequest, "the question produced an unsafe query and was rejected"
	case types.ErrKindUpstreamUnavailable:
		return http.StatusBadGateway, "an upstream data service is unavailable"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
