package services

import (
  "context"
  "fmt"
  "sync"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/yungbote/lecturebridge-backend/internal/repos"
  "github.com/yungbote/lecturebridge-backend/internal/types"
)

// In-memory repo fakes. Services under test run with a nil *gorm.DB, so
// every repo call arrives with tx == nil and the fakes just guard their
// maps with a mutex.

type fakeLectureRepo struct {
  mu       sync.Mutex
  lectures map[string]*types.Lecture
}

func newFakeLectureRepo() *fakeLectureRepo {
  return &fakeLectureRepo{lectures: make(map[string]*types.Lecture)}
}

func (f *fakeLectureRepo) Create(ctx context.Context, tx *gorm.DB, lectures []*types.Lecture) ([]*types.Lecture, error) {
  f.mu.Lock()
  defer f.mu.Unlock()
  for _, l := range lectures {
    f.lectures[l.ID] = l
  }
  return lectures, nil
}

func (f *fakeLectureRepo) GetByIDs(ctx context.Context, tx *gorm.DB, lectureIDs []string) ([]*types.Lecture, error) {
  f.mu.Lock()
  defer f.mu.Unlock()
  var out []*types.Lecture
  for _, id := range lectureIDs {
    if l, ok := f.lectures[id]; ok {
      out = append(out, l)
    }
  }
  return out, nil
}

func (f *fakeLectureRepo) GetCurrentByBaseIDs(ctx context.Context, tx *gorm.DB, baseIDs []uuid.UUID) ([]*types.Lecture, error) {
  f.mu.Lock()
  defer f.mu.Unlock()
  var out []*types.Lecture
  for _, baseID := range baseIDs {
    for _, l := range f.lectures {
      if l.BaseLectureID == baseID && l.IsCurrent {
        out = append(out, l)
      }
    }
  }
  return out, nil
}

func (f *fakeLectureRepo) GetByTeacherIDs(ctx context.Context, tx *gorm.DB, teacherIDs []uuid.UUID) ([]*types.Lecture, error) {
  f.mu.Lock()
  defer f.mu.Unlock()
  var out []*types.Lecture
  for _, teacherID := range teacherIDs {
    for _, l := range f.lectures {
      if l.TeacherID == teacherID {
        out = append(out, l)
      }
    }
  }
  return out, nil
}

func (f *fakeLectureRepo) GetCurrentByCourseIDs(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID) ([]*types.Lecture, error) {
  f.mu.Lock()
  defer f.mu.Unlock()
  var out []*types.Lecture
  for _, courseID := range courseIDs {
    for _, l := range f.lectures {
      if l.CourseID == courseID && l.IsCurrent {
        out = append(out, l)
      }
    }
  }
  return out, nil
}

func (f *fakeLectureRepo) CreateVersionRetiringOld(ctx context.Context, tx *gorm.DB, oldID string, newLecture *types.Lecture) error {
  f.mu.Lock()
  defer f.mu.Unlock()
  old, ok := f.lectures[oldID]
  if !ok || !old.IsCurrent {
    return fmt.Errorf("lecture %s is no longer the current version", oldID)
  }
  old.IsCurrent = false
  f.lectures[newLecture.ID] = newLecture
  return nil
}

func (f *fakeLectureRepo) versionCount(baseID uuid.UUID) int {
  f.mu.Lock()
  defer f.mu.Unlock()
  n := 0
  for _, l := range f.lectures {
    if l.BaseLectureID == baseID {
      n++
    }
  }
  return n
}

type fakeSuggestionRepo struct {
  mu          sync.Mutex
  suggestions map[uuid.UUID]*types.Suggestion
}

func newFakeSuggestionRepo() *fakeSuggestionRepo {
  return &fakeSuggestionRepo{suggestions: make(map[uuid.UUID]*types.Suggestion)}
}

func (f *fakeSuggestionRepo) Create(ctx context.Context, tx *gorm.DB, suggestions []*types.Suggestion) ([]*types.Suggestion, error) {
  f.mu.Lock()
  defer f.mu.Unlock()
  for _, s := range suggestions {
    if s.ID == uuid.Nil {
      s.ID = uuid.New()
    }
    if s.CreatedAt.IsZero() {
      s.CreatedAt = time.Now()
    }
    f.suggestions[s.ID] = s
  }
  return suggestions, nil
}

func (f *fakeSuggestionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, suggestionIDs []uuid.UUID) ([]*types.Suggestion, error) {
  f.mu.Lock()
  defer f.mu.Unlock()
  var out []*types.Suggestion
  for _, id := range suggestionIDs {
    if s, ok := f.suggestions[id]; ok {
      out = append(out, s)
    }
  }
  return out, nil
}

func (f *fakeSuggestionRepo) GetByLectureIDs(ctx context.Context, tx *gorm.DB, lectureIDs []string) ([]*types.Suggestion, error) {
  f.mu.Lock()
  defer f.mu.Unlock()
  var out []*types.Suggestion
  for _, id := range lectureIDs {
    for _, s := range f.suggestions {
      if s.LectureID == id {
        out = append(out, s)
      }
    }
  }
  return out, nil
}

func (f *fakeSuggestionRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, suggestionID uuid.UUID, status string) error {
  f.mu.Lock()
  defer f.mu.Unlock()
  s, ok := f.suggestions[suggestionID]
  if !ok {
    return fmt.Errorf("suggestion %s not found", suggestionID)
  }
  s.Status = status
  return nil
}

func (f *fakeSuggestionRepo) RelinkLecture(ctx context.Context, tx *gorm.DB, suggestionIDs []uuid.UUID, newLectureID string) error {
  f.mu.Lock()
  defer f.mu.Unlock()
  for _, id := range suggestionIDs {
    if s, ok := f.suggestions[id]; ok {
      s.LectureID = newLectureID
    }
  }
  return nil
}

type fakeReactionRepo struct {
  mu        sync.Mutex
  reactions []*types.Reaction
}

func (f *fakeReactionRepo) Create(ctx context.Context, tx *gorm.DB, reactions []*types.Reaction) ([]*types.Reaction, error) {
  f.mu.Lock()
  defer f.mu.Unlock()
  for _, r := range reactions {
    if r.ID == uuid.Nil {
      r.ID = uuid.New()
    }
    f.reactions = append(f.reactions, r)
  }
  return reactions, nil
}

func (f *fakeReactionRepo) GetByUserAndLecture(ctx context.Context, tx *gorm.DB, userID uuid.UUID, lectureID string) ([]*types.Reaction, error) {
  f.mu.Lock()
  defer f.mu.Unlock()
  var out []*types.Reaction
  for _, r := range f.reactions {
    if r.UserID == userID && r.LectureID == lectureID {
      out = append(out, r)
    }
  }
  return out, nil
}

func (f *fakeReactionRepo) GetByLectureIDs(ctx context.Context, tx *gorm.DB, lectureIDs []string) ([]*types.Reaction, error) {
  f.mu.Lock()
  defer f.mu.Unlock()
  var out []*types.Reaction
  for _, id := range lectureIDs {
    for _, r := range f.reactions {
      if r.LectureID == id {
        out = append(out, r)
      }
    }
  }
  return out, nil
}

func (f *fakeReactionRepo) GetByLectureSection(ctx context.Context, tx *gorm.DB, lectureID string, sectionID uuid.UUID) ([]*types.Reaction, error) {
  f.mu.Lock()
  defer f.mu.Unlock()
  var out []*types.Reaction
  for _, r := range f.reactions {
    if r.LectureID == lectureID && r.SectionID == sectionID {
      out = append(out, r)
    }
  }
  return out, nil
}

func (f *fakeReactionRepo) CountBySection(ctx context.Context, tx *gorm.DB, lectureIDs []string) ([]repos.SectionReactionCount, error) {
  f.mu.Lock()
  defer f.mu.Unlock()
  inScope := func(lectureID string) bool {
    if len(lectureIDs) == 0 {
      return true
    }
    for _, id := range lectureIDs {
      if id == lectureID {
        return true
      }
    }
    return false
  }
  type key struct {
    lectureID string
    sectionID uuid.UUID
  }
  counts := make(map[key]int64)
  for _, r := range f.reactions {
    if inScope(r.LectureID) {
      counts[key{r.LectureID, r.SectionID}]++
    }
  }
  var out []repos.SectionReactionCount
  for k, n := range counts {
    out = append(out, repos.SectionReactionCount{LectureID: k.lectureID, SectionID: k.sectionID, Count: n})
  }
  return out, nil
}

func (f *fakeReactionRepo) MarkAddressed(ctx context.Context, tx *gorm.DB, lectureID string, sectionID uuid.UUID) error {
  f.mu.Lock()
  defer f.mu.Unlock()
  for _, r := range f.reactions {
    if r.LectureID == lectureID && r.SectionID == sectionID {
      r.Addressed = true
    }
  }
  return nil
}

type fakeApprovedRepo struct {
  mu      sync.Mutex
  updates []*types.ApprovedSectionUpdate
}

func (f *fakeApprovedRepo) Create(ctx context.Context, tx *gorm.DB, updates []*types.ApprovedSectionUpdate) ([]*types.ApprovedSectionUpdate, error) {
  f.mu.Lock()
  defer f.mu.Unlock()
  for _, u := range updates {
    if u.ID == uuid.Nil {
      u.ID = uuid.New()
    }
    if u.CreatedAt.IsZero() {
      u.CreatedAt = time.Now()
    }
    f.updates = append(f.updates, u)
  }
  return updates, nil
}

func (f *fakeApprovedRepo) GetByLectureIDs(ctx context.Context, tx *gorm.DB, lectureIDs []string) ([]*types.ApprovedSectionUpdate, error) {
  f.mu.Lock()
  defer f.mu.Unlock()
  var out []*types.ApprovedSectionUpdate
  for _, id := range lectureIDs {
    for _, u := range f.updates {
      if u.LectureID == id {
        out = append(out, u)
      }
    }
  }
  return out, nil
}

func (f *fakeApprovedRepo) DeleteByLectureIDs(ctx context.Context, tx *gorm.DB, lectureIDs []string) error {
  f.mu.Lock()
  defer f.mu.Unlock()
  keep := f.updates[:0]
  for _, u := range f.updates {
    drop := false
    for _, id := range lectureIDs {
      if u.LectureID == id {
        drop = true
        break
      }
    }
    if !drop {
      keep = append(keep, u)
    }
  }
  f.updates = keep
  return nil
}

type fakeEnrollmentRepo struct {
  courseIDsByUser map[uuid.UUID][]uuid.UUID
}

func (f *fakeEnrollmentRepo) Create(ctx context.Context, tx *gorm.DB, enrollments []*types.Enrollment) ([]*types.Enrollment, error) {
  return enrollments, nil
}

func (f *fakeEnrollmentRepo) GetCourseIDsByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]uuid.UUID, error) {
  var out []uuid.UUID
  for _, userID := range userIDs {
    out = append(out, f.courseIDsByUser[userID]...)
  }
  return out, nil
}

type fakeProposer struct {
  mu         sync.Mutex
  calls      int
  candidates [][]*types.Section
  revisions  []SectionRevision
  err        error
}

func (f *fakeProposer) ProposeRevisions(ctx context.Context, lecture *types.Lecture, candidates []*types.Section, feedback map[uuid.UUID][]*types.Reaction) ([]SectionRevision, error) {
  f.mu.Lock()
  defer f.mu.Unlock()
  f.calls++
  f.candidates = append(f.candidates, candidates)
  if f.err != nil {
    return nil, f.err
  }
  return f.revisions, nil
}
