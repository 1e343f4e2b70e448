package jobs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"mockmate/interview/internal/models"
	"mockmate/interview/internal/repositories"
)

// FeedbackExporterJob periodically writes generated interview feedback
// to JSONL files for offline analysis. Records are flagged once
// exported so each run only picks up new feedback.
type FeedbackExporterJob struct {
	feedbacks *repositories.FeedbackRepository
	config    *ExporterConfig
	cron      *cron.Cron
	logger    *zap.Logger
}

// ExporterConfig contains configuration for the exporter job
type ExporterConfig struct {
	Schedule  string // Cron schedule (e.g., "0 2 * * *" for 2 AM daily)
	ExportDir string // Directory to store exported files
	Enabled   bool   // Whether to run exports
}

// exportRecord is one JSONL line; the candidate's user id is omitted.
type exportRecord struct {
	FeedbackID          string   `json:"feedback_id"`
	InterviewID         string   `json:"interview_id"`
	OverallScore        float64  `json:"overall_score"`
	Strengths           []string `json:"strengths"`
	AreasForImprovement []string `json:"areas_for_improvement"`
	DetailedFeedback    string   `json:"detailed_feedback"`
	CreatedAt           string   `json:"created_at"`
}

func NewFeedbackExporterJob(feedbacks *repositories.FeedbackRepository, config *ExporterConfig, logger *zap.Logger) *FeedbackExporterJob {
	return &FeedbackExporterJob{
		feedbacks: feedbacks,
		config:    config,
		cron:      cron.New(),
		logger:    logger,
	}
}

// Start begins the scheduled export job
func (job *FeedbackExporterJob) Start() error {
	if !job.config.Enabled {
		job.logger.Info("feedback export is disabled, skipping scheduler")
		return nil
	}

	_, err := job.cron.AddFunc(job.config.Schedule, func() {
		if err := job.RunExport(); err != nil {
			job.logger.Error("feedback export run failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule export job: %w", err)
	}

	job.cron.Start()
	job.logger.Info("feedback exporter started", zap.String("schedule", job.config.Schedule))

	return nil
}

// Stop stops the scheduled export job
func (job *FeedbackExporterJob) Stop() {
	if job.cron != nil {
		job.cron.Stop()
	}
}

// RunExport performs a single export run
func (job *FeedbackExporterJob) RunExport() error {
	feedback, err := job.feedbacks.GetUnexported(0) // no limit
	if err != nil {
		return fmt.Errorf("failed to get unexported feedback: %w", err)
	}
	if len(feedback) == 0 {
		job.logger.Info("no unexported feedback found")
		return nil
	}

	jsonlData, err := toJSONL(feedback)
	if err != nil {
		return fmt.Errorf("failed to serialize feedback: %w", err)
	}

	if err := os.MkdirAll(job.config.ExportDir, 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("feedback_export_%s.jsonl", timestamp)
	path := filepath.Join(job.config.ExportDir, filename)

	if err := os.WriteFile(path, jsonlData, 0o644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}

	ids := make([]string, len(feedback))
	for i, fb := range feedback {
		ids[i] = fb.ID
	}
	if _, err := job.feedbacks.MarkExported(ids); err != nil {
		return fmt.Errorf("failed to mark feedback as exported: %w", err)
	}

	job.logger.Info("exported feedback records",
		zap.Int("count", len(feedback)),
		zap.String("file", path))

	return nil
}

func toJSONL(feedback []models.Feedback) ([]byte, error) {
	var out []byte
	for i, fb := range feedback {
		record := exportRecord{
			FeedbackID:          fb.ID,
			InterviewID:         fb.InterviewID,
			OverallScore:        fb.OverallScore,
			Strengths:           fb.Strengths,
			AreasForImprovement: fb.AreasForImprovement,
			DetailedFeedback:    fb.DetailedFeedback,
			CreatedAt:           fb.CreatedAt.Format(time.RFC3339),
		}
		line, err := json.Marshal(record)
		if err != nil {
			return nil, err
		}
		out = append(out, line...)
		if i < len(feedback)-1 {
			out = append(out, '\n')
		}
	}
	return out, nil
}
