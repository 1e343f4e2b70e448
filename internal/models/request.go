package models

import (
	"strings"
)

type CreateInterviewRequest struct {
	JobDescription string `json:"jobDescription"`
	ResumeURL      string `json:"resumeUrl"`
	ResumeText     string `json:"resumeText"`
}

// implements the Validator interface used by the validation middleware
func (r *CreateInterviewRequest) Validate() error {
	if strings.TrimSpace(r.JobDescription) == "" {
		return &ErrorResponse{
			Code:    "missing_job_description",
			Message: "Job description is required",
		}
	}
	if strings.TrimSpace(r.ResumeURL) == "" {
		return &ErrorResponse{
			Code:    "missing_resume_url",
			Message: "Resume URL is required",
		}
	}
	if strings.TrimSpace(r.ResumeText) == "" {
		return &ErrorResponse{
			Code:    "missing_resume_text",
			Message: "Resume text is required",
		}
	}
	return nil
}

type SendMessageRequest struct {
	Message string `json:"message"`
}

func (r *SendMessageRequest) Validate() error {
	if strings.TrimSpace(r.Message) == "" {
		return &ErrorResponse{
			Code:    "missing_message",
			Message: "Please provide a message",
		}
	}
	return nil
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *RegisterRequest) Validate() error {
	if r.Username == "" || r.Email == "" || r.Password == "" {
		return &ErrorResponse{
			Code:    "missing_fields",
			Message: "Username, email and password are required",
		}
	}
	if !strings.Contains(r.Email, "@") {
		return &ErrorResponse{
			Code:    "invalid_email",
			Message: "Email address is not valid",
		}
	}
	if len(r.Password) < 8 {
		return &ErrorResponse{
			Code:    "weak_password",
			Message: "Password must be at least 8 characters",
		}
	}
	return nil
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	if r.Username == "" || r.Password == "" {
		return &ErrorResponse{
			Code:    "missing_credentials",
			Message: "Username and password are required",
		}
	}
	return nil
}
