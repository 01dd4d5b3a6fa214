package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"manifest-analyzer/internal/domains/valuation/model"
	"manifest-analyzer/internal/domains/valuation/service"
	"manifest-analyzer/internal/shared/response"
)

// ValuationHandler exposes the manifest valuation agent over HTTP
type ValuationHandler struct {
	agent *service.Agent
}

func NewValuationHandler(agent *service.Agent) *ValuationHandler {
	return &ValuationHandler{agent: agent}
}

// Evaluate handles POST /valuations: raw manifest CSV plus deal economics
// in, snapshot, brand comps, scenarios and a verdict out.
func (h *ValuationHandler) Evaluate(c *gin.Context) {
	var input model.ManifestValuationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := input.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	output, err := h.agent.Run(c.Request.Context(), input)
	if err != nil {
		var agentErr *service.AgentError
		if errors.As(err, &agentErr) {
			response.ErrorResponse(c, http.StatusBadRequest, agentErr.Code, agentErr.Message)
			return
		}
		log.Error().Err(err).Msg("valuation failed")
		response.InternalServerError(c, "failed to evaluate manifest")
		return
	}

	response.Success(c, http.StatusOK, output)
}
