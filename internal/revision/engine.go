package revision

import (
  "fmt"

  "github.com/google/uuid"

  "github.com/yungbote/lecturebridge-backend/internal/apperr"
  "github.com/yungbote/lecturebridge-backend/internal/types"
)

// NextVersion clones old into the next lecture version, replacing the
// text of every section whose id appears in updates. Section ids and
// ordering are preserved; sections are never added or removed here.
// The returned lecture has fresh section storage, so later edits to
// either version cannot leak into the other. The old version is not
// mutated; retiring its is_current flag is the store's job, in the same
// transaction that inserts the result.
func NextVersion(old *types.Lecture, updates map[uuid.UUID]string) (*types.Lecture, error) {
  if old == nil {
    return nil, fmt.Errorf("old lecture required: %w", apperr.ErrInvalidArgument)
  }
  if !old.IsCurrent {
    return nil, fmt.Errorf("lecture %s is not the current version: %w", old.ID, apperr.ErrInvalidArgument)
  }

  known := make(map[uuid.UUID]bool, len(old.Sections))
  for _, s := range old.Sections {
    known[s.ID] = true
  }
  for sectionID := range updates {
    if !known[sectionID] {
      return nil, fmt.Errorf("section %s does not exist in lecture %s: %w", sectionID, old.ID, apperr.ErrInvalidArgument)
    }
  }

  newVersion := old.Version + 1
  newID := types.LectureVersionID(old.BaseLectureID, newVersion)

  sections := make([]*types.Section, 0, len(old.Sections))
  for _, s := range old.Sections {
    text := s.Text
    if updated, ok := updates[s.ID]; ok {
      text = updated
    }
    sections = append(sections, &types.Section{
      LectureID: newID,
      ID:        s.ID,
      Order:     s.Order,
      Text:      text,
    })
  }

  return &types.Lecture{
    ID:            newID,
    BaseLectureID: old.BaseLectureID,
    Version:       newVersion,
    IsCurrent:     true,
    Title:         old.Title,
    TeacherID:     old.TeacherID,
    CourseID:      old.CourseID,
    Sections:      sections,
  }, nil
}
