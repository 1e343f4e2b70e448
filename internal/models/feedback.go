package models

import (
	"strings"
	"time"
)

// Feedback is the structured evaluation of one completed interview.
// Created exactly once per interview, never mutated afterwards (the
// Exported flags are bookkeeping for the offline export job, not part
// of the evaluation itself).
type Feedback struct {
	ID                      string     `gorm:"primaryKey" json:"id"`
	InterviewID             string     `gorm:"not null;uniqueIndex" json:"interviewId"`
	UserID                  string     `gorm:"not null;index" json:"userId"`
	OverallScore            float64    `gorm:"not null" json:"overallScore"`
	Strengths               StringList `gorm:"type:text" json:"strengths"`
	AreasForImprovement     StringList `gorm:"type:text" json:"areasForImprovement"`
	TechnicalAssessment     string     `gorm:"type:text;not null" json:"technicalAssessment"`
	CommunicationAssessment string     `gorm:"type:text;not null" json:"communicationAssessment"`
	JobFitAssessment        string     `gorm:"type:text;not null" json:"jobFitAssessment"`
	RecommendedResources    StringList `gorm:"type:text" json:"recommendedResources"`
	DetailedFeedback        string     `gorm:"type:text;not null" json:"detailedFeedback"`
	Exported                bool       `gorm:"not null;default:false;index" json:"-"`
	ExportedAt              *time.Time `json:"-"`
	CreatedAt               time.Time  `json:"createdAt"`
}

// Evaluation is the payload shape the generation backend is asked to
// return for a completed interview. Scores are on a 0-10 scale.
type Evaluation struct {
	OverallScore            float64  `json:"overallScore"`
	Strengths               []string `json:"strengths"`
	AreasForImprovement     []string `json:"areasForImprovement"`
	TechnicalAssessment     string   `json:"technicalAssessment"`
	CommunicationAssessment string   `json:"communicationAssessment"`
	JobFitAssessment        string   `json:"jobFitAssessment"`
	RecommendedResources    []string `json:"recommendedResources"`
	DetailedFeedback        string   `json:"detailedFeedback"`
}

// Complete reports whether every required assessment paragraph is present.
func (e *Evaluation) Complete() bool {
	return strings.TrimSpace(e.TechnicalAssessment) != "" &&
		strings.TrimSpace(e.CommunicationAssessment) != "" &&
		strings.TrimSpace(e.JobFitAssessment) != "" &&
		strings.TrimSpace(e.DetailedFeedback) != ""
}
