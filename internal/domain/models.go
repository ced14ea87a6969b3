package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RequestStatus is the pipeline position of a generation request.
type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusResearch  RequestStatus = "research"
	StatusWriting   RequestStatus = "writing"
	StatusReviewing RequestStatus = "reviewing"
	StatusSEO       RequestStatus = "seo"
	StatusImaging   RequestStatus = "imaging"
	StatusApproving RequestStatus = "approving"
	StatusComplete  RequestStatus = "complete"
	StatusFailed    RequestStatus = "failed"
)

// IsTerminal reports whether no further transition can happen.
func (s RequestStatus) IsTerminal() bool {
	return s == StatusComplete || s == StatusFailed
}

// WorkflowStatus is the position of a draft in the human and AI review cycle.
type WorkflowStatus string

const (
	WorkflowAIReview    WorkflowStatus = "ai_review"
	WorkflowStaffReview WorkflowStatus = "staff_review"
	WorkflowApproved    WorkflowStatus = "approved"
	WorkflowPublished   WorkflowStatus = "published"
)

func (s WorkflowStatus) Valid() bool {
	switch s {
	case WorkflowAIReview, WorkflowStaffReview, WorkflowApproved, WorkflowPublished:
		return true
	}
	return false
}

// Gate names recorded by the review stages.
const (
	GateClinicalAccuracy = "clinical_accuracy"
	GateSEOScore         = "seo_score"
)

// GenerationRequest tracks one run of the pipeline.
type GenerationRequest struct {
	ID           string                      `json:"id" gorm:"type:uuid;primaryKey"`
	Topic        string                      `json:"topic" gorm:"type:text;not null"`
	CategoryID   string                      `json:"category_id" gorm:"type:text;index"`
	Keywords     datatypes.JSONSlice[string] `json:"keywords"`
	Status       RequestStatus               `json:"status" gorm:"type:text;not null;default:'pending';index"`
	RequestedBy  *string                     `json:"requested_by,omitempty" gorm:"type:text"`
	DraftID      *string                     `json:"draft_id,omitempty" gorm:"type:uuid"`
	ErrorMessage string                      `json:"error_message,omitempty" gorm:"column:error_message;type:text"`
	CreatedAt    time.Time                   `json:"created_at"`
	UpdatedAt    time.Time                   `json:"updated_at"`
	CompletedAt  *time.Time                  `json:"completed_at,omitempty"`
}

func (GenerationRequest) TableName() string { return "generation_requests" }

func (r *GenerationRequest) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// Draft is a generated blog article awaiting review.
type Draft struct {
	ID              string         `json:"id" gorm:"type:uuid;primaryKey"`
	Title           string         `json:"title" gorm:"type:text;not null"`
	Slug            string         `json:"slug" gorm:"type:text;index"`
	CategoryID      string         `json:"category_id" gorm:"type:text;index"`
	Content         string         `json:"content" gorm:"type:text"`
	Excerpt         string         `json:"excerpt" gorm:"type:text"`
	MetaDescription string         `json:"meta_description" gorm:"type:text"`
	SEOScore        int            `json:"seo_score" gorm:"column:seo_score;not null;default:0"`
	LLMScore        int            `json:"llm_score" gorm:"column:llm_score;not null;default:0"`
	WorkflowStatus  WorkflowStatus `json:"workflow_status" gorm:"type:text;not null;default:'ai_review';index"`
	HeroImageURL    string         `json:"hero_image_url" gorm:"type:text"`
	ReadTimeMinutes int            `json:"read_time_minutes" gorm:"not null;default:5"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

func (Draft) TableName() string { return "drafts" }

func (d *Draft) BeforeCreate(*gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

// DraftSection is one H2 section of a draft. Sections of a draft are ordered by OrderIndex starting at 0.
type DraftSection struct {
	ID         string    `json:"id" gorm:"type:uuid;primaryKey"`
	DraftID    string    `json:"draft_id" gorm:"type:uuid;not null;index"`
	Heading    string    `json:"h2" gorm:"column:h2;type:text"`
	Content    string    `json:"content" gorm:"type:text"`
	OrderIndex int       `json:"order_index" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`
}

func (DraftSection) TableName() string { return "draft_sections" }

func (s *DraftSection) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// QualityGate is a named pass/fail check with its measured value and threshold.
// RequestID is the correlation key of the evaluated draft.
type QualityGate struct {
	ID        string            `json:"id" gorm:"type:uuid;primaryKey"`
	RequestID string            `json:"request_id" gorm:"type:uuid;not null;index:idx_quality_gates_request_gate"`
	GateName  string            `json:"gate_name" gorm:"type:text;not null;index:idx_quality_gates_request_gate"`
	Passed    bool              `json:"passed" gorm:"not null"`
	Value     datatypes.JSONMap `json:"value"`
	Threshold datatypes.JSONMap `json:"threshold"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func (QualityGate) TableName() string { return "quality_gates" }

func (g *QualityGate) BeforeCreate(*gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}

// Category is a blog category drafts are filed under.
type Category struct {
	ID          string `json:"id" gorm:"type:text;primaryKey"`
	Name        string `json:"name" gorm:"type:text;not null"`
	Slug        string `json:"slug" gorm:"type:text;uniqueIndex"`
	Description string `json:"description" gorm:"type:text"`
}

func (Category) TableName() string { return "categories" }
