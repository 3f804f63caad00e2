// Package server exposes the submission endpoint over HTTP.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"solicitacao-compras/internal/config"
	"solicitacao-compras/internal/domain/ports"
	"solicitacao-compras/internal/usecase"
)

// Portuguese client-facing messages, kept stable as part of the API.
const (
	msgMethodNotAllowed = "Método não permitido"
	msgSuccess          = "Solicitação enviada com sucesso!"
	msgInternalError    = "Erro interno no servidor."
)

// Server holds the HTTP transport for the intake endpoint.
type Server struct {
	submission *usecase.Submission
	logger     ports.Logger
	maxUpload  int64
}

// New constructs the Server.
func New(cfg *config.Config, submission *usecase.Submission, logger ports.Logger) *Server {
	return &Server{
		submission: submission,
		logger:     logger,
		maxUpload:  cfg.MaxUploadBytes,
	}
}

// Handler returns the route table: the intake endpoint plus metrics
// and health probes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/solicitacao", s.handleSubmission)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/live", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.HandleFunc("/ready", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	return mux
}

func respondJSON(w http.ResponseWriter, status int, message string) {
	if message == "" {
		message = msgInternalError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
