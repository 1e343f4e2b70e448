package models

// uniform error responses
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ErrorResponse) Error() string {
	return e.Message
}

// SendMessageResponse returns the interviewer's reply together with the
// updated interview record.
type SendMessageResponse struct {
	Message   string     `json:"message"`
	Interview *Interview `json:"interview"`
}

// EndInterviewResponse acknowledges termination; feedback is generated
// in the background and fetched separately.
type EndInterviewResponse struct {
	Message   string     `json:"message"`
	Interview *Interview `json:"interview"`
}

// FeedbackPendingResponse signals that feedback generation has not
// finished yet. This is a non-error boundary signal, not a failure.
type FeedbackPendingResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type ListInterviewsResponse struct {
	Count      int                `json:"count"`
	Interviews []InterviewSummary `json:"interviews"`
}
