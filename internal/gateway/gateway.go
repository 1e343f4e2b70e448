package gateway

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"mockmate/interview/internal/llm"
	"mockmate/interview/internal/metrics"
	"mockmate/interview/internal/models"
	"mockmate/interview/internal/prompts"
)

// Deterministic substitutes used whenever the generation backend fails
// or returns unusable output. Every gateway operation yields a usable
// result; the turn loop never sees a raw backend error.
const (
	FirstQuestionFallback = "Hello! I'm your AI interviewer today. Could you please tell me about your background and why you're interested in this position?"
	FollowUpFallback      = "That's interesting. Could you elaborate more on your experience with similar projects or roles?"
)

const defaultTimeout = 30 * time.Second

// Gateway translates interview context into generation requests and
// normalizes the responses.
type Gateway struct {
	provider llm.Provider
	prompts  prompts.PromptProvider
	logger   *zap.Logger
	timeout  time.Duration
}

func New(provider llm.Provider, promptProvider prompts.PromptProvider, logger *zap.Logger) *Gateway {
	return &Gateway{
		provider: provider,
		prompts:  promptProvider,
		logger:   logger,
		timeout:  defaultTimeout,
	}
}

// WithTimeout overrides the per-call backend timeout.
func (g *Gateway) WithTimeout(timeout time.Duration) *Gateway {
	g.timeout = timeout
	return g
}

// FirstQuestion produces the interviewer's opening utterance: a brief
// self-introduction plus exactly one question.
func (g *Gateway) FirstQuestion(ctx context.Context, jobDescription, resumeText string) string {
	text, err := g.generate(ctx, prompts.ModeFirstQuestion, map[string]string{
		"JobDescription": jobDescription,
		"ResumeText":     resumeText,
	})
	if err != nil {
		g.fallback(prompts.ModeFirstQuestion, err)
		return FirstQuestionFallback
	}
	return text
}

// FollowUp produces the next interviewer question conditioned on the
// candidate's latest answer.
func (g *Gateway) FollowUp(ctx context.Context, jobDescription, resumeText string, transcript []models.Turn) string {
	text, err := g.generate(ctx, prompts.ModeFollowUp, map[string]string{
		"JobDescription": jobDescription,
		"ResumeText":     resumeText,
		"Transcript":     FormatTranscript(transcript),
	})
	if err != nil {
		g.fallback(prompts.ModeFollowUp, err)
		return FollowUpFallback
	}
	return text
}

// Evaluation produces a structured evaluation for a completed interview.
// The backend response is scanned for an embedded JSON payload; if none
// is found, or the payload is incomplete, the default record is used.
func (g *Gateway) Evaluation(ctx context.Context, jobDescription, resumeText string, transcript []models.Turn) *models.Evaluation {
	text, err := g.generate(ctx, prompts.ModeEvaluation, map[string]string{
		"JobDescription": jobDescription,
		"ResumeText":     resumeText,
		"Transcript":     FormatTranscript(transcript),
	})
	if err != nil {
		g.fallback(prompts.ModeEvaluation, err)
		return DefaultEvaluation()
	}

	evaluation, err := ParseEvaluation(text)
	if err != nil {
		g.fallback(prompts.ModeEvaluation, err)
		return DefaultEvaluation()
	}
	return evaluation
}

func (g *Gateway) generate(ctx context.Context, mode string, data map[string]string) (string, error) {
	prompt, err := g.prompts.BuildPrompt(mode, data)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	text, err := g.provider.GenerateText(ctx, prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", &llm.ProviderError{
			Provider: g.provider.GetProviderName(),
			Code:     llm.ErrCodeInvalidInput,
			Message:  "Empty response generated",
		}
	}
	return strings.TrimSpace(text), nil
}

// fallback records a degraded generation. The caller substitutes canned
// content, so this is observability only, never a user-visible failure.
func (g *Gateway) fallback(operation string, err error) {
	metrics.GatewayFallbacks.WithLabelValues(operation).Inc()
	g.logger.Warn("generation degraded to fallback content",
		zap.String("operation", operation),
		zap.Error(err))
}

// FormatTranscript renders a transcript for inclusion in a prompt.
func FormatTranscript(transcript []models.Turn) string {
	lines := make([]string, 0, len(transcript))
	for _, turn := range transcript {
		speaker := "Candidate"
		if turn.Role == models.RoleInterviewer {
			speaker = "Interviewer"
		}
		lines = append(lines, speaker+": "+turn.Content)
	}
	return strings.Join(lines, "\n\n")
}

// ParseEvaluation extracts the JSON object embedded in a model response
// and validates it against the evaluation contract.
func ParseEvaluation(text string) (*models.Evaluation, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return nil, &llm.ProviderError{
			Provider: "gateway",
			Code:     llm.ErrCodeInvalidInput,
			Message:  "No JSON payload in evaluation response",
		}
	}

	var evaluation models.Evaluation
	if err := json.Unmarshal([]byte(text[start:end+1]), &evaluation); err != nil {
		return nil, &llm.ProviderError{
			Provider: "gateway",
			Code:     llm.ErrCodeInvalidInput,
			Message:  "Malformed JSON in evaluation response",
			Err:      err,
		}
	}
	if !evaluation.Complete() {
		return nil, &llm.ProviderError{
			Provider: "gateway",
			Code:     llm.ErrCodeInvalidInput,
			Message:  "Evaluation response is missing required fields",
		}
	}

	// Scores are contractually 0-10; clamp anything out of range.
	if evaluation.OverallScore < 0 {
		evaluation.OverallScore = 0
	}
	if evaluation.OverallScore > 10 {
		evaluation.OverallScore = 10
	}

	return &evaluation, nil
}

// DefaultEvaluation is the fully-populated placeholder record used when
// the evaluation call fails end to end.
func DefaultEvaluation() *models.Evaluation {
	return &models.Evaluation{
		OverallScore: 5,
		Strengths: []string{
			"Communication skills",
			"Technical knowledge",
			"Problem-solving approach",
		},
		AreasForImprovement: []string{
			"Could provide more specific examples",
			"Could elaborate more on technical experiences",
		},
		TechnicalAssessment:     "The candidate demonstrated adequate technical knowledge relevant to the position.",
		CommunicationAssessment: "The candidate communicated clearly throughout the interview.",
		JobFitAssessment:        "Based on the interview, the candidate appears to have the basic qualifications for the role.",
		RecommendedResources: []string{
			"Relevant online courses",
			"Industry publications",
		},
		DetailedFeedback: "The candidate performed adequately in the interview, showing strengths in communication and technical knowledge. With additional preparation and more specific examples, they could improve their interview performance.",
	}
}
