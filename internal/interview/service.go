package interview

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mockmate/interview/internal/events"
	"mockmate/interview/internal/gateway"
	"mockmate/interview/internal/models"
	"mockmate/interview/internal/repositories"
)

// DefaultMaxInterviewerTurns is the automatic termination threshold:
// once the interviewer has asked this many questions, no further
// answers are accepted and the session must be ended.
const DefaultMaxInterviewerTurns = 10

// Service owns the interview lifecycle: the turn-taking loop, the
// termination rule and the asynchronous feedback pipeline.
type Service struct {
	interviews          *repositories.InterviewRepository
	feedbacks           *repositories.FeedbackRepository
	gateway             *gateway.Gateway
	publisher           events.Publisher
	scheduler           Scheduler
	locks               *keyedMutex
	logger              *zap.Logger
	maxInterviewerTurns int
}

func NewService(
	interviews *repositories.InterviewRepository,
	feedbacks *repositories.FeedbackRepository,
	gw *gateway.Gateway,
	publisher events.Publisher,
	scheduler Scheduler,
	logger *zap.Logger,
) *Service {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if scheduler == nil {
		scheduler = AsyncScheduler{}
	}
	return &Service{
		interviews:          interviews,
		feedbacks:           feedbacks,
		gateway:             gw,
		publisher:           publisher,
		scheduler:           scheduler,
		locks:               newKeyedMutex(),
		logger:              logger,
		maxInterviewerTurns: DefaultMaxInterviewerTurns,
	}
}

// WithMaxInterviewerTurns overrides the termination threshold.
func (s *Service) WithMaxInterviewerTurns(max int) *Service {
	s.maxInterviewerTurns = max
	return s
}

// Create starts a new interview and seeds the transcript with the
// interviewer's opening question. The gateway guarantees a usable
// opening even when the backend is down.
func (s *Service) Create(ctx context.Context, userID, jobDescription, resumeURL, resumeText string) (*models.Interview, error) {
	if strings.TrimSpace(jobDescription) == "" ||
		strings.TrimSpace(resumeURL) == "" ||
		strings.TrimSpace(resumeText) == "" {
		return nil, ErrInvalidInput
	}

	interview := &models.Interview{
		ID:             uuid.New().String(),
		UserID:         userID,
		JobDescription: jobDescription,
		ResumeURL:      resumeURL,
		ResumeText:     resumeText,
		Status:         models.StatusActive,
		StartTime:      time.Now(),
	}

	if err := s.interviews.Create(interview); err != nil {
		return nil, fmt.Errorf("failed to create interview: %w", err)
	}

	firstQuestion := s.gateway.FirstQuestion(ctx, jobDescription, resumeText)
	opening := models.Turn{
		InterviewID: interview.ID,
		Role:        models.RoleInterviewer,
		Content:     firstQuestion,
		Timestamp:   time.Now(),
	}
	if err := s.interviews.AddTurn(&opening); err != nil {
		return nil, fmt.Errorf("failed to record opening question: %w", err)
	}
	interview.Transcript = append(interview.Transcript, opening)

	s.logger.Info("interview started",
		zap.String("interview_id", interview.ID),
		zap.String("user_id", userID))

	return interview, nil
}

// List returns the caller's interview summaries, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]models.InterviewSummary, error) {
	interviews, err := s.interviews.ListForUser(userID)
	if err != nil {
		return nil, err
	}
	summaries := make([]models.InterviewSummary, 0, len(interviews))
	for i := range interviews {
		summaries = append(summaries, interviews[i].Summary())
	}
	return summaries, nil
}

// Get returns the caller's interview with its full transcript.
func (s *Service) Get(ctx context.Context, userID, id string) (*models.Interview, error) {
	interview, err := s.interviews.GetForUser(id, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrInterviewNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return interview, nil
}

// SubmitAnswer appends the candidate's answer, generates the next
// interviewer question and appends it. The whole operation holds the
// per-interview lock so concurrent submits cannot interleave turns.
func (s *Service) SubmitAnswer(ctx context.Context, userID, id, text string) (string, *models.Interview, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil, ErrInvalidInput
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	interview, err := s.Get(ctx, userID, id)
	if err != nil {
		return "", nil, err
	}
	if interview.Status != models.StatusActive {
		return "", nil, ErrInvalidState
	}
	if interview.InterviewerTurns() >= s.maxInterviewerTurns {
		return "", nil, ErrLimitReached
	}

	answer := models.Turn{
		InterviewID: interview.ID,
		Role:        models.RoleCandidate,
		Content:     text,
		Timestamp:   time.Now(),
	}
	if err := s.interviews.AddTurn(&answer); err != nil {
		return "", nil, fmt.Errorf("failed to record answer: %w", err)
	}
	interview.Transcript = append(interview.Transcript, answer)

	// Gateway failures degrade to fallback text, so the transcript
	// always advances by exactly one interviewer turn per answer.
	reply := s.gateway.FollowUp(ctx, interview.JobDescription, interview.ResumeText, interview.Transcript)
	question := models.Turn{
		InterviewID: interview.ID,
		Role:        models.RoleInterviewer,
		Content:     reply,
		Timestamp:   time.Now(),
	}
	if err := s.interviews.AddTurn(&question); err != nil {
		return "", nil, fmt.Errorf("failed to record interviewer question: %w", err)
	}
	interview.Transcript = append(interview.Transcript, question)

	return reply, interview, nil
}

// End transitions an active interview to completed, stamps its end time
// and duration, and schedules feedback generation in the background.
// It returns before feedback exists.
func (s *Service) End(ctx context.Context, userID, id string) (*models.Interview, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	interview, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if interview.Status != models.StatusActive {
		return nil, ErrInvalidState
	}

	endTime := time.Now()
	durationSec := int(math.Round(endTime.Sub(interview.StartTime).Seconds()))
	if err := s.interviews.MarkCompleted(id, endTime, durationSec); err != nil {
		return nil, fmt.Errorf("failed to complete interview: %w", err)
	}

	interview.Status = models.StatusCompleted
	interview.EndTime = &endTime
	interview.DurationSec = &durationSec

	s.logger.Info("interview completed",
		zap.String("interview_id", id),
		zap.Int("duration_sec", durationSec),
		zap.Int("interviewer_turns", interview.InterviewerTurns()))

	s.scheduler.Schedule(func() {
		if err := s.GenerateFeedback(context.Background(), id); err != nil {
			s.logger.Error("feedback generation failed",
				zap.String("interview_id", id),
				zap.Error(err))
		}
	})

	return interview, nil
}

// GetFeedback returns the interview's feedback record, or
// ErrFeedbackNotReady while the pipeline has not linked one yet.
func (s *Service) GetFeedback(ctx context.Context, userID, id string) (*models.Feedback, error) {
	interview, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if interview.FeedbackID == nil {
		return nil, ErrFeedbackNotReady
	}

	feedback, err := s.feedbacks.GetByID(*interview.FeedbackID)
	if err != nil {
		if errors.Is(err, repositories.ErrFeedbackNotFound) {
			return nil, ErrFeedbackNotReady
		}
		return nil, err
	}
	return feedback, nil
}
