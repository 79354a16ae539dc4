package types

import (
  "fmt"
  "time"

  "github.com/google/uuid"
)

// Lecture is one immutable version of a lecture. All versions of the
// same logical lecture share BaseLectureID; exactly one of them is
// current at any time. The row id encodes base identity and version
// ("<base-uuid>-v3") so a version id is stable and self-describing.
type Lecture struct {
  ID            string     `gorm:"type:text;primaryKey" json:"id"`
  BaseLectureID uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_lecture_base_version" json:"base_lecture_id"`
  Version       int        `gorm:"column:version;not null;uniqueIndex:idx_lecture_base_version" json:"version"`
  IsCurrent     bool       `gorm:"column:is_current;not null;index" json:"is_current"`
  Title         string     `gorm:"column:title;not null" json:"title"`
  TeacherID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"teacher_id"`
  CourseID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"course_id"`
  Sections      []*Section `gorm:"foreignKey:LectureID;references:ID" json:"sections"`
  CreatedAt     time.Time  `gorm:"not null;default:now()" json:"created_at"`
  UpdatedAt     time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (Lecture) TableName() string { return "lecture" }

// LectureVersionID derives a version row id from the base identity.
func LectureVersionID(baseLectureID uuid.UUID, version int) string {
  return fmt.Sprintf("%s-v%d", baseLectureID, version)
}

// Section is embedded in a lecture version. A section keeps its id when
// cloned into the next version, so the composite key is (lecture, id).
type Section struct {
  LectureID string    `gorm:"type:text;primaryKey" json:"lecture_id"`
  ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
  Order     int       `gorm:"column:position;not null" json:"order"`
  Text      string    `gorm:"column:text;not null" json:"text"`
}

func (Section) TableName() string { return "lecture_section" }
