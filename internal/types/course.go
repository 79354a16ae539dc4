package types

import (
  "time"

  "github.com/google/uuid"
)

type Course struct {
  ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  Name      string    `gorm:"column:name;not null" json:"name"`
  TeacherID uuid.UUID `gorm:"type:uuid;not null;index" json:"teacher_id"`
  Teacher   *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:TeacherID;references:ID" json:"teacher,omitempty"`
  CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
  UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Course) TableName() string { return "course" }
