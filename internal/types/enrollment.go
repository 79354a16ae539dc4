package types

import (
  "time"

  "github.com/google/uuid"
)

type Enrollment struct {
  ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_user_course" json:"user_id"`
  User      *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
  CourseID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_user_course" json:"course_id"`
  Course    *Course   `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`
  CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Enrollment) TableName() string { return "enrollment" }
