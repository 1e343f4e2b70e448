package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"mockmate/interview/internal/interview"
	"mockmate/interview/internal/middleware"
	"mockmate/interview/internal/models"
	"mockmate/interview/internal/utils"
)

type InterviewHandler struct {
	service *interview.Service
	logger  *zap.Logger
}

func NewInterviewHandler(service *interview.Service, logger *zap.Logger) *InterviewHandler {
	return &InterviewHandler{
		service: service,
		logger:  logger,
	}
}

// CreateHandler starts an interview seeded with the opening question.
func (h *InterviewHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.CreateInterviewRequest](r)
	userID := middleware.GetUserID(r)

	created, err := h.service.Create(r.Context(), userID, req.JobDescription, req.ResumeURL, req.ResumeText)
	if err != nil {
		h.writeError(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, created)
}

// ListHandler returns the caller's interview summaries.
func (h *InterviewHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)

	summaries, err := h.service.List(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, models.ListInterviewsResponse{
		Count:      len(summaries),
		Interviews: summaries,
	})
}

// GetHandler returns one interview with its full transcript.
func (h *InterviewHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	id := chi.URLParam(r, "id")

	found, err := h.service.Get(r.Context(), userID, id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, found)
}

// SendMessageHandler submits a candidate answer and returns the
// interviewer's next question with the updated interview.
func (h *InterviewHandler) SendMessageHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.SendMessageRequest](r)
	userID := middleware.GetUserID(r)
	id := chi.URLParam(r, "id")

	reply, updated, err := h.service.SubmitAnswer(r.Context(), userID, id, req.Message)
	if err != nil {
		h.writeError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, models.SendMessageResponse{
		Message:   reply,
		Interview: updated,
	})
}

// EndHandler completes the interview. Feedback generation is scheduled
// in the background; the response does not wait for it.
func (h *InterviewHandler) EndHandler(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	id := chi.URLParam(r, "id")

	ended, err := h.service.End(r.Context(), userID, id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, models.EndInterviewResponse{
		Message:   "Interview ended. Feedback is being generated.",
		Interview: ended,
	})
}

// GetFeedbackHandler returns the evaluation once the pipeline has
// linked it; before that it answers 202 with a pending status.
func (h *InterviewHandler) GetFeedbackHandler(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	id := chi.URLParam(r, "id")

	feedback, err := h.service.GetFeedback(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, interview.ErrFeedbackNotReady) {
			utils.JSON(w, http.StatusAccepted, models.FeedbackPendingResponse{
				Status:  "pending",
				Message: "Feedback not available yet",
			})
			return
		}
		h.writeError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, feedback)
}

// writeError maps orchestrator error kinds onto HTTP responses.
func (h *InterviewHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, interview.ErrNotFound):
		utils.JSON(w, http.StatusNotFound, models.ErrorResponse{
			Code:    "interview_not_found",
			Message: "Interview not found",
		})
	case errors.Is(err, interview.ErrLimitReached):
		utils.JSON(w, http.StatusConflict, models.ErrorResponse{
			Code:    "turn_limit_reached",
			Message: "The question limit for this interview has been reached. Please end the interview.",
		})
	case errors.Is(err, interview.ErrInvalidState):
		utils.JSON(w, http.StatusConflict, models.ErrorResponse{
			Code:    "invalid_state",
			Message: "This interview has already ended",
		})
	case errors.Is(err, interview.ErrInvalidInput):
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "invalid_input",
			Message: "Missing required field",
		})
	default:
		h.logger.Error("interview operation failed", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "internal_error",
			Message: "Something went wrong",
		})
	}
}
