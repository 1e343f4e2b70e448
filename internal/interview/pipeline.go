package interview

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mockmate/interview/internal/events"
	"mockmate/interview/internal/metrics"
	"mockmate/interview/internal/models"
)

// GenerateFeedback runs the feedback pipeline for one completed
// interview: reconstruct the transcript, obtain a structured evaluation
// and persist it linked to the interview. It runs decoupled from the
// request that ended the session; errors here are logged by the caller
// and never reach the End response. A failed run leaves the interview
// permanently without feedback (no retry).
func (s *Service) GenerateFeedback(ctx context.Context, interviewID string) error {
	interview, err := s.interviews.GetByID(interviewID)
	if err != nil {
		metrics.FeedbackPipelineRuns.WithLabelValues("failed").Inc()
		return fmt.Errorf("failed to load interview %s: %w", interviewID, err)
	}

	// Internal contract: the pipeline is only invoked from the End
	// transition, so anything other than completed is a caller bug.
	if interview.Status != models.StatusCompleted {
		metrics.FeedbackPipelineRuns.WithLabelValues("invalid_state").Inc()
		return fmt.Errorf("interview %s is not completed: %w", interviewID, ErrInvalidState)
	}
	if interview.FeedbackID != nil {
		metrics.FeedbackPipelineRuns.WithLabelValues("duplicate").Inc()
		return nil
	}

	// The evaluation operation is total: backend failures yield the
	// fully-populated default record, never an error.
	evaluation := s.gateway.Evaluation(ctx, interview.JobDescription, interview.ResumeText, interview.Transcript)

	feedback := &models.Feedback{
		ID:                      uuid.New().String(),
		InterviewID:             interview.ID,
		UserID:                  interview.UserID,
		OverallScore:            evaluation.OverallScore,
		Strengths:               evaluation.Strengths,
		AreasForImprovement:     evaluation.AreasForImprovement,
		TechnicalAssessment:     evaluation.TechnicalAssessment,
		CommunicationAssessment: evaluation.CommunicationAssessment,
		JobFitAssessment:        evaluation.JobFitAssessment,
		RecommendedResources:    evaluation.RecommendedResources,
		DetailedFeedback:        evaluation.DetailedFeedback,
	}

	if err := s.feedbacks.Create(feedback); err != nil {
		metrics.FeedbackPipelineRuns.WithLabelValues("failed").Inc()
		return fmt.Errorf("failed to store feedback for interview %s: %w", interviewID, err)
	}
	if err := s.interviews.SetFeedbackID(interview.ID, feedback.ID); err != nil {
		metrics.FeedbackPipelineRuns.WithLabelValues("failed").Inc()
		return fmt.Errorf("failed to link feedback for interview %s: %w", interviewID, err)
	}

	s.publisher.FeedbackReady(ctx, events.FeedbackReadyEvent{
		InterviewID:  interview.ID,
		FeedbackID:   feedback.ID,
		UserID:       interview.UserID,
		OverallScore: feedback.OverallScore,
	})

	metrics.FeedbackPipelineRuns.WithLabelValues("success").Inc()
	s.logger.Info("feedback generated",
		zap.String("interview_id", interview.ID),
		zap.String("feedback_id", feedback.ID),
		zap.Float64("overall_score", feedback.OverallScore))

	return nil
}
