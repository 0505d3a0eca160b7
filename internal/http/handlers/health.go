package handlers

import (
	"net/http"
)

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{"status": "ok"}
	if a.PromptProvider != "" {
		body["promptProvider"] = a.PromptProvider
	}
	if a.ImageProvider != "" {
		body["imageProvider"] = a.ImageProvider
	}
	if a.Diagrams != nil {
		body["pollBudgetSeconds"] = int(a.Diagrams.Budget().Seconds())
	}
	a.json(w, http.StatusOK, body)
}
