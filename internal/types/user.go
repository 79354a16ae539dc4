package types

import (
  "time"

  "github.com/google/uuid"
)

const (
  UserRoleStudent = "student"
  UserRoleTeacher = "teacher"
)

type User struct {
  ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  Name      string    `gorm:"column:name;not null" json:"name"`
  Role      string    `gorm:"column:role;not null" json:"role"`
  CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
  UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (User) TableName() string { return "user" }
