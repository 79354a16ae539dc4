package types

import (
  "time"

  "github.com/google/uuid"
)

const (
  SuggestionStatusPending  = "pending"
  SuggestionStatusAccepted = "accepted"
  SuggestionStatusRejected = "rejected"
)

// Suggestion is a candidate rewrite of one section, awaiting teacher
// review. Its lecture id is rewritten to the new version once the edit
// is actually published; until then it points at the version whose text
// it was generated against.
type Suggestion struct {
  ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  LectureID     string    `gorm:"type:text;not null;index" json:"lecture_id"`
  SectionID     uuid.UUID `gorm:"type:uuid;not null;index" json:"section_id"`
  OriginalText  string    `gorm:"column:original_text;not null" json:"original_text"`
  SuggestedText string    `gorm:"column:suggested_text;not null" json:"suggested_text"`
  Status        string    `gorm:"column:status;not null;default:pending" json:"status"`
  CreatedAt     time.Time `gorm:"not null;default:now()" json:"created_at"`
  UpdatedAt     time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Suggestion) TableName() string { return "suggestion" }
