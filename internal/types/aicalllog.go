package types

import (
  "time"

  "github.com/google/uuid"
  "gorm.io/datatypes"
)

// AICallLog records one call to the revision proposer, success or not.
type AICallLog struct {
  ID         uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  LectureID  string         `gorm:"type:text;not null;index" json:"lecture_id"`
  Model      string         `gorm:"column:model;not null" json:"model"`
  Request    datatypes.JSON `gorm:"type:jsonb;column:request" json:"request"`
  Response   datatypes.JSON `gorm:"type:jsonb;column:response" json:"response"`
  Success    bool           `gorm:"column:success;not null" json:"success"`
  Error      string         `gorm:"column:error" json:"error"`
  DurationMS int64          `gorm:"column:duration_ms;not null;default:0" json:"duration_ms"`
  CreatedAt  time.Time      `gorm:"not null;default:now()" json:"created_at"`
}

func (AICallLog) TableName() string { return "ai_call_log" }
