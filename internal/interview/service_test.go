package interview

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"go.uber.org/zap"

	"mockmate/interview/internal/gateway"
	"mockmate/interview/internal/models"
	"mockmate/interview/internal/prompts"
	"mockmate/interview/internal/repositories"
	"mockmate/interview/internal/testhelpers"
)

type stubProvider struct {
	generateTextFn func(ctx context.Context, prompt string) (string, error)
}

func (s *stubProvider) GenerateText(ctx context.Context, prompt string) (string, error) {
	if s.generateTextFn == nil {
		return "Tell me about your experience.", nil
	}
	return s.generateTextFn(ctx, prompt)
}

func (s *stubProvider) GetProviderName() string { return "stub" }

// manualScheduler queues tasks so tests control when the feedback
// pipeline runs.
type manualScheduler struct {
	mu    sync.Mutex
	tasks []func()
}

func (m *manualScheduler) Schedule(task func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = append(m.tasks, task)
}

func (m *manualScheduler) RunAll() {
	m.mu.Lock()
	tasks := m.tasks
	m.tasks = nil
	m.mu.Unlock()
	for _, task := range tasks {
		task()
	}
}

const evaluationJSON = `Here is my evaluation:
{
  "overallScore": 7.5,
  "strengths": ["Clear communication", "Strong Go background"],
  "areasForImprovement": ["More system design depth"],
  "technicalAssessment": "Solid grasp of distributed systems.",
  "communicationAssessment": "Communicated clearly.",
  "jobFitAssessment": "Good fit for a backend role.",
  "recommendedResources": ["Designing Data-Intensive Applications"],
  "detailedFeedback": "A strong performance overall."
}`

func newTestService(t *testing.T, provider *stubProvider, scheduler Scheduler) *Service {
	t.Helper()

	db := testhelpers.SetupTestDB(t)
	promptManager, err := prompts.NewManager()
	if err != nil {
		t.Fatalf("failed to load prompts: %v", err)
	}

	logger := zap.NewNop()
	gw := gateway.New(provider, promptManager, logger)
	return NewService(
		&repositories.InterviewRepository{DB: db},
		&repositories.FeedbackRepository{DB: db},
		gw,
		nil,
		scheduler,
		logger,
	)
}

func createTestInterview(t *testing.T, svc *Service, userID string) *models.Interview {
	t.Helper()
	created, err := svc.Create(context.Background(), userID, "Backend Engineer", "/uploads/resume.txt", "5 years Go, distributed systems")
	if err != nil {
		t.Fatalf("failed to create interview: %v", err)
	}
	return created
}

func TestCreateSeedsOpeningQuestion(t *testing.T) {
	svc := newTestService(t, &stubProvider{}, SyncScheduler{})

	created := createTestInterview(t, svc, "user-1")

	if created.Status != models.StatusActive {
		t.Fatalf("expected active status, got %s", created.Status)
	}
	if len(created.Transcript) != 1 {
		t.Fatalf("expected 1 transcript turn, got %d", len(created.Transcript))
	}
	if created.Transcript[0].Role != models.RoleInterviewer {
		t.Fatalf("expected interviewer opening turn, got %s", created.Transcript[0].Role)
	}
	if created.Transcript[0].Content == "" {
		t.Fatal("expected non-empty opening question")
	}
}

func TestCreateRejectsEmptyFields(t *testing.T) {
	svc := newTestService(t, &stubProvider{}, SyncScheduler{})

	if _, err := svc.Create(context.Background(), "user-1", "", "/uploads/r.txt", "resume"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Create(context.Background(), "user-1", "job", "/uploads/r.txt", "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSubmitAnswerAppendsPair(t *testing.T) {
	svc := newTestService(t, &stubProvider{}, SyncScheduler{})
	created := createTestInterview(t, svc, "user-1")

	reply, updated, err := svc.SubmitAnswer(context.Background(), "user-1", created.ID, "I built a key-value store")
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if reply == "" {
		t.Fatal("expected non-empty interviewer reply")
	}
	if len(updated.Transcript) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(updated.Transcript))
	}
	if updated.Transcript[1].Role != models.RoleCandidate || updated.Transcript[1].Content != "I built a key-value store" {
		t.Fatalf("unexpected candidate turn: %+v", updated.Transcript[1])
	}
	if updated.Transcript[2].Role != models.RoleInterviewer || updated.Transcript[2].Content != reply {
		t.Fatalf("unexpected interviewer turn: %+v", updated.Transcript[2])
	}
	if updated.InterviewerTurns() != 2 {
		t.Fatalf("expected 2 interviewer turns, got %d", updated.InterviewerTurns())
	}
}

func TestTranscriptAlternationInvariant(t *testing.T) {
	svc := newTestService(t, &stubProvider{}, SyncScheduler{})
	created := createTestInterview(t, svc, "user-1")

	for i := 0; i < 5; i++ {
		if _, _, err := svc.SubmitAnswer(context.Background(), "user-1", created.ID, fmt.Sprintf("answer %d", i)); err != nil {
			t.Fatalf("submit %d failed: %v", i, err)
		}
	}

	loaded, err := svc.Get(context.Background(), "user-1", created.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}

	interviewer, candidate := 0, 0
	for i, turn := range loaded.Transcript {
		if i%2 == 0 {
			if turn.Role != models.RoleInterviewer {
				t.Fatalf("turn %d: expected interviewer, got %s", i, turn.Role)
			}
			interviewer++
		} else {
			if turn.Role != models.RoleCandidate {
				t.Fatalf("turn %d: expected candidate, got %s", i, turn.Role)
			}
			candidate++
		}
	}
	if interviewer != candidate+1 {
		t.Fatalf("expected interviewer count = candidate count + 1, got %d and %d", interviewer, candidate)
	}
}

func TestSubmitAnswerValidation(t *testing.T) {
	svc := newTestService(t, &stubProvider{}, SyncScheduler{})
	created := createTestInterview(t, svc, "user-1")

	if _, _, err := svc.SubmitAnswer(context.Background(), "user-1", created.ID, "   "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty answer, got %v", err)
	}
	if _, _, err := svc.SubmitAnswer(context.Background(), "someone-else", created.ID, "hello"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign owner, got %v", err)
	}
	if _, _, err := svc.SubmitAnswer(context.Background(), "user-1", "no-such-id", "hello"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing interview, got %v", err)
	}
}

func TestSubmitAnswerAfterEndFails(t *testing.T) {
	svc := newTestService(t, &stubProvider{}, &manualScheduler{})
	created := createTestInterview(t, svc, "user-1")

	if _, err := svc.End(context.Background(), "user-1", created.ID); err != nil {
		t.Fatalf("end failed: %v", err)
	}

	if _, _, err := svc.SubmitAnswer(context.Background(), "user-1", created.ID, "one more"); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}

	// transcript must be unchanged
	loaded, err := svc.Get(context.Background(), "user-1", created.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(loaded.Transcript) != 1 {
		t.Fatalf("expected transcript unchanged at 1 turn, got %d", len(loaded.Transcript))
	}
}

func TestTurnLimitEnforced(t *testing.T) {
	svc := newTestService(t, &stubProvider{}, SyncScheduler{})
	created := createTestInterview(t, svc, "user-1")

	// Opening question counts as the first interviewer turn; nine more
	// answers bring the count to the threshold of ten.
	for i := 0; i < 9; i++ {
		if _, _, err := svc.SubmitAnswer(context.Background(), "user-1", created.ID, fmt.Sprintf("answer %d", i)); err != nil {
			t.Fatalf("submit %d failed: %v", i, err)
		}
	}

	loaded, _ := svc.Get(context.Background(), "user-1", created.ID)
	if loaded.InterviewerTurns() != DefaultMaxInterviewerTurns {
		t.Fatalf("expected %d interviewer turns, got %d", DefaultMaxInterviewerTurns, loaded.InterviewerTurns())
	}

	// Further answers are rejected even though End has not been called.
	if _, _, err := svc.SubmitAnswer(context.Background(), "user-1", created.ID, "one too many"); !errors.Is(err, ErrLimitReached) {
		t.Fatalf("expected ErrLimitReached, got %v", err)
	}

	// Ending still works.
	ended, err := svc.End(context.Background(), "user-1", created.ID)
	if err != nil {
		t.Fatalf("end failed: %v", err)
	}
	if ended.Status != models.StatusCompleted {
		t.Fatalf("expected completed status, got %s", ended.Status)
	}
}

func TestEndSetsDurationOnce(t *testing.T) {
	svc := newTestService(t, &stubProvider{}, &manualScheduler{})
	created := createTestInterview(t, svc, "user-1")

	ended, err := svc.End(context.Background(), "user-1", created.ID)
	if err != nil {
		t.Fatalf("end failed: %v", err)
	}
	if ended.EndTime == nil || ended.DurationSec == nil {
		t.Fatal("expected end time and duration to be set")
	}
	if *ended.DurationSec < 0 {
		t.Fatalf("expected non-negative duration, got %d", *ended.DurationSec)
	}

	// Second End is rejected; duration is written exactly once.
	if _, err := svc.End(context.Background(), "user-1", created.ID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState on second end, got %v", err)
	}

	loaded, _ := svc.Get(context.Background(), "user-1", created.ID)
	if *loaded.DurationSec != *ended.DurationSec {
		t.Fatalf("duration changed after second end: %d vs %d", *loaded.DurationSec, *ended.DurationSec)
	}
}

func TestGetFeedbackNotReadyThenReady(t *testing.T) {
	scheduler := &manualScheduler{}
	provider := &stubProvider{generateTextFn: func(ctx context.Context, prompt string) (string, error) {
		return evaluationJSON, nil
	}}
	svc := newTestService(t, provider, scheduler)
	created := createTestInterview(t, svc, "user-1")

	if _, err := svc.End(context.Background(), "user-1", created.ID); err != nil {
		t.Fatalf("end failed: %v", err)
	}

	// Pipeline has not run yet: explicit not-ready, not an error state.
	if _, err := svc.GetFeedback(context.Background(), "user-1", created.ID); !errors.Is(err, ErrFeedbackNotReady) {
		t.Fatalf("expected ErrFeedbackNotReady, got %v", err)
	}

	scheduler.RunAll()

	feedback, err := svc.GetFeedback(context.Background(), "user-1", created.ID)
	if err != nil {
		t.Fatalf("get feedback failed: %v", err)
	}
	if feedback.InterviewID != created.ID {
		t.Fatalf("feedback references wrong interview: %s", feedback.InterviewID)
	}
	if feedback.OverallScore != 7.5 {
		t.Fatalf("expected overall score 7.5, got %v", feedback.OverallScore)
	}
	for name, text := range map[string]string{
		"technicalAssessment":     feedback.TechnicalAssessment,
		"communicationAssessment": feedback.CommunicationAssessment,
		"jobFitAssessment":        feedback.JobFitAssessment,
		"detailedFeedback":        feedback.DetailedFeedback,
	} {
		if text == "" {
			t.Fatalf("expected non-empty %s", name)
		}
	}
}

func TestFeedbackIsolatedPerInterview(t *testing.T) {
	scheduler := &manualScheduler{}
	provider := &stubProvider{generateTextFn: func(ctx context.Context, prompt string) (string, error) {
		return evaluationJSON, nil
	}}
	svc := newTestService(t, provider, scheduler)

	first := createTestInterview(t, svc, "user-1")
	second := createTestInterview(t, svc, "user-1")

	if _, err := svc.End(context.Background(), "user-1", first.ID); err != nil {
		t.Fatalf("end failed: %v", err)
	}
	scheduler.RunAll()

	// The second interview's feedback must stay pending; no stale data
	// from the first may leak.
	if _, err := svc.GetFeedback(context.Background(), "user-1", second.ID); !errors.Is(err, ErrFeedbackNotReady) {
		t.Fatalf("expected ErrFeedbackNotReady for second interview, got %v", err)
	}

	feedback, err := svc.GetFeedback(context.Background(), "user-1", first.ID)
	if err != nil {
		t.Fatalf("get feedback failed: %v", err)
	}
	if feedback.InterviewID != first.ID {
		t.Fatalf("feedback references wrong interview: %s", feedback.InterviewID)
	}
}

func TestBackendFailureDegradesToFallbacks(t *testing.T) {
	provider := &stubProvider{generateTextFn: func(ctx context.Context, prompt string) (string, error) {
		return "", errors.New("backend down")
	}}
	svc := newTestService(t, provider, SyncScheduler{})

	created := createTestInterview(t, svc, "user-1")
	if created.Transcript[0].Content != gateway.FirstQuestionFallback {
		t.Fatalf("expected first-question fallback, got %q", created.Transcript[0].Content)
	}

	reply, updated, err := svc.SubmitAnswer(context.Background(), "user-1", created.ID, "my answer")
	if err != nil {
		t.Fatalf("submit must succeed on backend failure, got %v", err)
	}
	if reply != gateway.FollowUpFallback {
		t.Fatalf("expected follow-up fallback, got %q", reply)
	}
	if len(updated.Transcript) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(updated.Transcript))
	}

	// Feedback pipeline must still produce a fully-populated record.
	if _, err := svc.End(context.Background(), "user-1", created.ID); err != nil {
		t.Fatalf("end failed: %v", err)
	}
	feedback, err := svc.GetFeedback(context.Background(), "user-1", created.ID)
	if err != nil {
		t.Fatalf("expected default feedback record, got %v", err)
	}
	if feedback.OverallScore != 5 {
		t.Fatalf("expected default score 5, got %v", feedback.OverallScore)
	}
	if feedback.DetailedFeedback == "" || feedback.TechnicalAssessment == "" {
		t.Fatal("expected fully-populated default feedback")
	}
}

func TestGenerateFeedbackRequiresCompletedInterview(t *testing.T) {
	svc := newTestService(t, &stubProvider{}, &manualScheduler{})
	created := createTestInterview(t, svc, "user-1")

	if err := svc.GenerateFeedback(context.Background(), created.ID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState for active interview, got %v", err)
	}
}

func TestGenerateFeedbackIsIdempotent(t *testing.T) {
	scheduler := &manualScheduler{}
	svc := newTestService(t, &stubProvider{}, scheduler)
	created := createTestInterview(t, svc, "user-1")

	if _, err := svc.End(context.Background(), "user-1", created.ID); err != nil {
		t.Fatalf("end failed: %v", err)
	}
	scheduler.RunAll()

	first, err := svc.GetFeedback(context.Background(), "user-1", created.ID)
	if err != nil {
		t.Fatalf("get feedback failed: %v", err)
	}

	// A duplicate pipeline run must not replace the linked record.
	if err := svc.GenerateFeedback(context.Background(), created.ID); err != nil {
		t.Fatalf("duplicate run should be a no-op, got %v", err)
	}
	second, err := svc.GetFeedback(context.Background(), "user-1", created.ID)
	if err != nil {
		t.Fatalf("get feedback failed: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("feedback record changed: %s vs %s", first.ID, second.ID)
	}
}

func TestListReturnsSummariesOnly(t *testing.T) {
	svc := newTestService(t, &stubProvider{}, SyncScheduler{})
	createTestInterview(t, svc, "user-1")
	createTestInterview(t, svc, "user-1")
	createTestInterview(t, svc, "user-2")

	summaries, err := svc.List(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	for _, summary := range summaries {
		if summary.Status != models.StatusActive {
			t.Fatalf("unexpected status %s", summary.Status)
		}
	}
}
