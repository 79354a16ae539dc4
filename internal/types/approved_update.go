package types

import (
  "time"

  "github.com/google/uuid"
)

// ApprovedSectionUpdate is a staged edit: approved by the teacher but
// not yet folded into a published version. All entries for a lecture
// are consumed together by one publish.
type ApprovedSectionUpdate struct {
  ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  LectureID     string    `gorm:"type:text;not null;index" json:"lecture_id"`
  SectionID     uuid.UUID `gorm:"type:uuid;not null" json:"section_id"`
  SuggestedText string    `gorm:"column:suggested_text;not null" json:"suggested_text"`
  SuggestionID  uuid.UUID `gorm:"type:uuid;not null;index" json:"suggestion_id"`
  CreatedAt     time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (ApprovedSectionUpdate) TableName() string { return "approved_section_update" }
