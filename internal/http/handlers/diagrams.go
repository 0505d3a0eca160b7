package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"studyhub/internal/diagram"
	"studyhub/internal/domain"
)

const maxDiagramBodyBytes = 16 << 10

// CreateDiagram handles POST /v1/diagrams. The request blocks until the image
// job settles, so callers should allow for the coordinator's full budget.
func (a *App) CreateDiagram(w http.ResponseWriter, r *http.Request) {
	var req domain.DiagramRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxDiagramBodyBytes)).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if err := req.Validate(); err != nil {
		a.error(w, http.StatusBadRequest, "invalid_topic", "topic is required")
		return
	}

	res, err := a.Diagrams.Generate(r.Context(), req)
	if err != nil {
		status, code, message := classifyDiagramError(r.Context(), err)
		log := zerolog.Ctx(r.Context())
		log.Warn().Err(err).Str("code", code).Int("status", status).Msg("diagram request failed")
		a.error(w, status, code, message)
		return
	}
	a.json(w, http.StatusOK, res)
}

// classifyDiagramError maps a Generate failure to a response. A request whose
// own context ended is reported as canceled whatever stage it was in.
func classifyDiagramError(ctx context.Context, err error) (int, string, string) {
	var (
		timeoutErr    *diagram.TimeoutError
		generationErr *diagram.GenerationError
		submissionErr *diagram.SubmissionError
	)
	switch {
	case errors.Is(err, domain.ErrInvalidTopic):
		return http.StatusBadRequest, "invalid_topic", "topic is required"
	case ctx.Err() != nil, errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, "canceled", "request canceled"
	case errors.As(err, &timeoutErr):
		return http.StatusGatewayTimeout, "generation_timeout", publicMessage(timeoutErr)
	case errors.As(err, &generationErr):
		return http.StatusBadGateway, "generation_failed", publicMessage(generationErr)
	case errors.As(err, &submissionErr):
		return http.StatusBadGateway, "submission_failed", "image job could not be submitted"
	case errors.Is(err, diagram.ErrPromptSynthesis) && errors.Is(err, domain.ErrProviderFailure):
		return http.StatusBadGateway, "prompt_failed", "text model request failed"
	case errors.Is(err, diagram.ErrPromptSynthesis):
		return http.StatusBadGateway, "prompt_failed", "prompt generation failed"
	default:
		return http.StatusInternalServerError, "internal", "diagram generation failed"
	}
}

func publicMessage(err error) string {
	return strings.TrimPrefix(err.Error(), "diagram: ")
}
