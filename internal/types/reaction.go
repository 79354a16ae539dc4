package types

import (
  "time"

  "github.com/google/uuid"
)

const (
  ReactionTypeTypo             = "typo"
  ReactionTypeConfused         = "confused"
  ReactionTypeCalculationError = "calculation_error"
)

func ValidReactionType(t string) bool {
  switch t {
  case ReactionTypeTypo, ReactionTypeConfused, ReactionTypeCalculationError:
    return true
  default:
    return false
  }
}

// Reaction is a student's typed feedback on one section of one lecture
// version. It stays pinned to the version it was created against; only
// the addressed flag changes after creation.
type Reaction struct {
  ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  LectureID string    `gorm:"type:text;not null;index" json:"lecture_id"`
  SectionID uuid.UUID `gorm:"type:uuid;not null;index" json:"section_id"`
  UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
  Type      string    `gorm:"column:type;not null" json:"type"`
  Comment   string    `gorm:"column:comment" json:"comment"`
  Addressed bool      `gorm:"column:addressed;not null;default:false" json:"addressed"`
  CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Reaction) TableName() string { return "reaction" }
