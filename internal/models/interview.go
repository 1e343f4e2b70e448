package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type InterviewStatus string

const (
	StatusActive    InterviewStatus = "active"
	StatusCompleted InterviewStatus = "completed"
	StatusCancelled InterviewStatus = "cancelled"
)

type TurnRole string

const (
	RoleInterviewer TurnRole = "interviewer"
	RoleCandidate   TurnRole = "candidate"
)

// Interview represents one interview session and its transcript.
// JobDescription and ResumeText are immutable after creation.
type Interview struct {
	ID             string          `gorm:"primaryKey" json:"id"`
	UserID         string          `gorm:"not null;index" json:"userId"`
	JobDescription string          `gorm:"type:text;not null" json:"jobDescription"`
	ResumeURL      string          `gorm:"not null" json:"resumeUrl"`
	ResumeText     string          `gorm:"type:text;not null" json:"resumeText"`
	Status         InterviewStatus `gorm:"not null;default:active;index" json:"status"`
	Transcript     []Turn          `gorm:"foreignKey:InterviewID;constraint:OnDelete:CASCADE" json:"transcript"`
	FeedbackID     *string         `gorm:"index" json:"feedbackId,omitempty"`
	StartTime      time.Time       `gorm:"not null" json:"startTime"`
	EndTime        *time.Time      `json:"endTime,omitempty"`
	// DurationSec is set exactly once when the interview completes.
	DurationSec *int      `json:"duration,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// InterviewerTurns counts interviewer-role entries in the transcript.
// The turn limit is defined over this count, not the total length.
func (i *Interview) InterviewerTurns() int {
	count := 0
	for _, turn := range i.Transcript {
		if turn.Role == RoleInterviewer {
			count++
		}
	}
	return count
}

// Turn is a single utterance in a transcript. Immutable once appended.
type Turn struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	InterviewID string    `gorm:"not null;index" json:"-"`
	Role        TurnRole  `gorm:"not null" json:"role"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	Timestamp   time.Time `gorm:"not null" json:"timestamp"`
}

// InterviewSummary is the listing projection: no transcript, no resume text.
type InterviewSummary struct {
	ID          string          `json:"id"`
	Status      InterviewStatus `json:"status"`
	StartTime   time.Time       `json:"startTime"`
	EndTime     *time.Time      `json:"endTime,omitempty"`
	DurationSec *int            `json:"duration,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (i *Interview) Summary() InterviewSummary {
	return InterviewSummary{
		ID:          i.ID,
		Status:      i.Status,
		StartTime:   i.StartTime,
		EndTime:     i.EndTime,
		DurationSec: i.DurationSec,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

// StringList stores an ordered list of short strings as a JSON text column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (l *StringList) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*l = StringList{}
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}
}
