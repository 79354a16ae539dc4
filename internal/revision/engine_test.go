package revision

import (
  "errors"
  "testing"

  "github.com/google/uuid"

  "github.com/yungbote/lecturebridge-backend/internal/apperr"
  "github.com/yungbote/lecturebridge-backend/internal/types"
)

func lectureFixture(version int, current bool) *types.Lecture {
  baseID := uuid.New()
  id := types.LectureVersionID(baseID, version)
  return &types.Lecture{
    ID:            id,
    BaseLectureID: baseID,
    Version:       version,
    IsCurrent:     current,
    Title:         "Intro to Algorithms",
    TeacherID:     uuid.New(),
    CourseID:      uuid.New(),
    Sections: []*types.Section{
      {LectureID: id, ID: uuid.New(), Order: 1, Text: "An algorithm is a step-by-step procedure."},
      {LectureID: id, ID: uuid.New(), Order: 2, Text: "Big-O bounds growth of running time."},
      {LectureID: id, ID: uuid.New(), Order: 3, Text: "Worst case analysis is the default."},
    },
  }
}

func TestNextVersionBumpsVersionAndDerivesID(t *testing.T) {
  old := lectureFixture(3, true)
  updates := map[uuid.UUID]string{old.Sections[0].ID: "rewritten"}

  next, err := NextVersion(old, updates)
  if err != nil {
    t.Fatalf("NextVersion: %v", err)
  }
  if next.Version != 4 {
    t.Fatalf("version: want=4 got=%d", next.Version)
  }
  wantID := types.LectureVersionID(old.BaseLectureID, 4)
  if next.ID != wantID {
    t.Fatalf("id: want=%s got=%s", wantID, next.ID)
  }
  if !next.IsCurrent {
    t.Fatalf("new version must be current")
  }
  if next.BaseLectureID != old.BaseLectureID {
    t.Fatalf("base id changed: want=%s got=%s", old.BaseLectureID, next.BaseLectureID)
  }
  if next.Title != old.Title || next.TeacherID != old.TeacherID || next.CourseID != old.CourseID {
    t.Fatalf("carried fields changed")
  }
}

func TestNextVersionAppliesBatchAndCopiesTheRest(t *testing.T) {
  old := lectureFixture(1, true)
  updates := map[uuid.UUID]string{
    old.Sections[0].ID: "x",
    old.Sections[1].ID: "y",
  }

  next, err := NextVersion(old, updates)
  if err != nil {
    t.Fatalf("NextVersion: %v", err)
  }
  if len(next.Sections) != len(old.Sections) {
    t.Fatalf("section count: want=%d got=%d", len(old.Sections), len(next.Sections))
  }
  if next.Sections[0].Text != "x" || next.Sections[1].Text != "y" {
    t.Fatalf("updated texts not applied: got=%q %q", next.Sections[0].Text, next.Sections[1].Text)
  }
  if next.Sections[2].Text != old.Sections[2].Text {
    t.Fatalf("untouched section text changed: got=%q", next.Sections[2].Text)
  }
  for i, s := range next.Sections {
    if s.ID != old.Sections[i].ID {
      t.Fatalf("section %d id changed across versions", i)
    }
    if s.Order != old.Sections[i].Order {
      t.Fatalf("section %d order changed across versions", i)
    }
    if s.LectureID != next.ID {
      t.Fatalf("section %d points at %s, want %s", i, s.LectureID, next.ID)
    }
  }
}

func TestNextVersionDoesNotShareSectionStorage(t *testing.T) {
  old := lectureFixture(1, true)
  next, err := NextVersion(old, map[uuid.UUID]string{old.Sections[0].ID: "new"})
  if err != nil {
    t.Fatalf("NextVersion: %v", err)
  }

  next.Sections[1].Text = "mutated after clone"
  if old.Sections[1].Text == "mutated after clone" {
    t.Fatalf("new version shares section storage with the old one")
  }
  if old.Sections[0].Text == "new" {
    t.Fatalf("old version text was overwritten")
  }
  if !old.IsCurrent {
    t.Fatalf("engine must not retire the old version itself")
  }
}

func TestNextVersionRejectsUnknownSection(t *testing.T) {
  old := lectureFixture(1, true)
  _, err := NextVersion(old, map[uuid.UUID]string{uuid.New(): "text"})
  if err == nil {
    t.Fatalf("expected error for unknown section id")
  }
  if !errors.Is(err, apperr.ErrInvalidArgument) {
    t.Fatalf("want ErrInvalidArgument, got %v", err)
  }
}

func TestNextVersionRejectsNonCurrentLecture(t *testing.T) {
  old := lectureFixture(2, false)
  _, err := NextVersion(old, map[uuid.UUID]string{old.Sections[0].ID: "text"})
  if err == nil {
    t.Fatalf("expected error for non-current lecture")
  }
  if !errors.Is(err, apperr.ErrInvalidArgument) {
    t.Fatalf("want ErrInvalidArgument, got %v", err)
  }
}
