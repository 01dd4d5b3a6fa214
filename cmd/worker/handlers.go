package main

import (
	"github.com/hibiken/asynq"

	manifestJob "manifest-analyzer/internal/domains/manifest/job"
	"manifest-analyzer/internal/shared"
	"manifest-analyzer/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	analyze *manifestJob.AnalyzeHandler
	cleanup *manifestJob.CleanupHandler
	requeue *manifestJob.RequeueHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(c *container.Container) *HandlerRegistry {
	var summary manifestJob.SummaryGenerator
	if c.Gemini != nil {
		summary = c.Gemini
	}

	return &HandlerRegistry{
		analyze: manifestJob.NewAnalyzeHandler(c.ManifestRepo, c.Cache, summary),
		cleanup: manifestJob.NewCleanupHandler(c.ManifestRepo, c.MinIO),
		requeue: manifestJob.NewRequeueHandler(c.ManifestRepo, c.AsynqClient),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeManifestAnalyze, h.analyze.ProcessTask)
	mux.HandleFunc(shared.TypeManifestCleanup, h.cleanup.ProcessTask)
	mux.HandleFunc(shared.TypeManifestRequeue, h.requeue.ProcessTask)
}
