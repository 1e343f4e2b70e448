package handlers

import (
	"net/http"

	"gorm.io/gorm"

	"mockmate/interview/internal/llm"
	"mockmate/interview/internal/prompts"
	"mockmate/interview/internal/utils"
)

type ReadinessCheck struct {
	Status  string `json:"status"` // "ok" | "failed"
	Message string `json:"message,omitempty"`
}

type ReadinessResponse struct {
	Status  string                    `json:"status"`  // "ready" | "not_ready"
	Service string                    `json:"service"` // Service name
	Checks  map[string]ReadinessCheck `json:"checks"`  // Individual check results
}

type HealthHandler struct {
	provider llm.Provider
	prompts  prompts.PromptProvider
	db       *gorm.DB
}

func NewHealthHandler(provider llm.Provider, promptProvider prompts.PromptProvider, db *gorm.DB) *HealthHandler {
	return &HealthHandler{
		provider: provider,
		prompts:  promptProvider,
		db:       db,
	}
}

func (handler *HealthHandler) HealthzHandler(writer http.ResponseWriter, request *http.Request) {
	utils.JSON(writer, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "interview",
		"version": "1.0.0",
	})
}

func (handler *HealthHandler) ReadyzHandler(writer http.ResponseWriter, request *http.Request) {
	checks := make(map[string]ReadinessCheck)
	allChecksPass := true

	if handler.provider == nil {
		checks["provider"] = ReadinessCheck{
			Status:  "failed",
			Message: "generation provider not initialized",
		}
		allChecksPass = false
	} else {
		checks["provider"] = ReadinessCheck{Status: "ok"}
	}

	if handler.prompts == nil || len(handler.prompts.Modes()) == 0 {
		checks["prompts"] = ReadinessCheck{
			Status:  "failed",
			Message: "prompt templates not loaded",
		}
		allChecksPass = false
	} else {
		checks["prompts"] = ReadinessCheck{Status: "ok"}
	}

	if handler.db == nil {
		checks["database"] = ReadinessCheck{
			Status:  "failed",
			Message: "database not initialized",
		}
		allChecksPass = false
	} else if sqlDB, err := handler.db.DB(); err != nil || sqlDB.Ping() != nil {
		checks["database"] = ReadinessCheck{
			Status:  "failed",
			Message: "database not reachable",
		}
		allChecksPass = false
	} else {
		checks["database"] = ReadinessCheck{Status: "ok"}
	}

	status := "ready"
	code := http.StatusOK
	if !allChecksPass {
		status = "not_ready"
		code = http.StatusServiceUnavailable
	}

	utils.JSON(writer, code, ReadinessResponse{
		Status:  status,
		Service: "interview",
		Checks:  checks,
	})
}
