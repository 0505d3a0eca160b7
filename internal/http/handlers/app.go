package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"studyhub/internal/domain"
	"studyhub/internal/infra"
)

// DiagramGenerator is satisfied by *diagram.Coordinator.
type DiagramGenerator interface {
	Generate(ctx context.Context, req domain.DiagramRequest) (domain.DiagramResult, error)
	Budget() time.Duration
}

type App struct {
	Diagrams       DiagramGenerator
	Logger         *infra.Logger
	PromptProvider string
	ImageProvider  string
}

func NewApp(diagrams DiagramGenerator, logger *infra.Logger) *App {
	if logger == nil {
		logger = infra.NopLogger()
	}
	return &App{Diagrams: diagrams, Logger: logger, ImageProvider: "kie"}
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, errorBody{Error: errorDetail{Code: code, Message: message}})
}
