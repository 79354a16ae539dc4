package services

import (
  "context"
  "errors"
  "testing"

  "github.com/google/uuid"

  "github.com/yungbote/lecturebridge-backend/internal/apperr"
  "github.com/yungbote/lecturebridge-backend/internal/logger"
  "github.com/yungbote/lecturebridge-backend/internal/types"
)

func newLectureFixture(t *testing.T) (*fakeLectureRepo, *fakeEnrollmentRepo, LectureService) {
  t.Helper()
  log, err := logger.New("test")
  if err != nil {
    t.Fatalf("logger.New: %v", err)
  }
  lectureRepo := newFakeLectureRepo()
  enrollmentRepo := &fakeEnrollmentRepo{courseIDsByUser: make(map[uuid.UUID][]uuid.UUID)}
  svc := NewLectureService(nil, log, lectureRepo, enrollmentRepo)
  return lectureRepo, enrollmentRepo, svc
}

func TestCreateBaseLectureStartsAtVersionOne(t *testing.T) {
  _, _, svc := newLectureFixture(t)

  lecture, err := svc.CreateBaseLecture(context.Background(), "Intro to Algorithms", []string{"first", "second"}, uuid.New(), uuid.New())
  if err != nil {
    t.Fatalf("CreateBaseLecture: %v", err)
  }
  if lecture.Version != 1 || !lecture.IsCurrent {
    t.Fatalf("new lecture: want v1 current, got v%d current=%v", lecture.Version, lecture.IsCurrent)
  }
  if want := types.LectureVersionID(lecture.BaseLectureID, 1); lecture.ID != want {
    t.Fatalf("lecture id: want=%q got=%q", want, lecture.ID)
  }
  if len(lecture.Sections) != 2 {
    t.Fatalf("sections: want=2 got=%d", len(lecture.Sections))
  }
  for i, sec := range lecture.Sections {
    if sec.Order != i+1 {
      t.Fatalf("section %d order: want=%d got=%d", i, i+1, sec.Order)
    }
    if sec.LectureID != lecture.ID {
      t.Fatalf("section %d lecture id: want=%q got=%q", i, lecture.ID, sec.LectureID)
    }
  }
}

func TestCreateBaseLectureValidatesInput(t *testing.T) {
  _, _, svc := newLectureFixture(t)

  if _, err := svc.CreateBaseLecture(context.Background(), "  ", []string{"x"}, uuid.New(), uuid.New()); !errors.Is(err, apperr.ErrInvalidArgument) {
    t.Fatalf("blank title: want ErrInvalidArgument got %v", err)
  }
  if _, err := svc.CreateBaseLecture(context.Background(), "T", nil, uuid.New(), uuid.New()); !errors.Is(err, apperr.ErrInvalidArgument) {
    t.Fatalf("no sections: want ErrInvalidArgument got %v", err)
  }
}

func TestRecentLecturesForStudentFollowsEnrollment(t *testing.T) {
  lectureRepo, enrollmentRepo, svc := newLectureFixture(t)
  studentID := uuid.New()

  enrolled := makeLecture(uuid.New(), "enrolled course text")
  other := makeLecture(uuid.New(), "other course text")
  if _, err := lectureRepo.Create(context.Background(), nil, []*types.Lecture{enrolled, other}); err != nil {
    t.Fatalf("seed lectures: %v", err)
  }
  enrollmentRepo.courseIDsByUser[studentID] = []uuid.UUID{enrolled.CourseID}

  lectures, err := svc.RecentLecturesForStudent(context.Background(), studentID)
  if err != nil {
    t.Fatalf("RecentLecturesForStudent: %v", err)
  }
  if len(lectures) != 1 || lectures[0].ID != enrolled.ID {
    t.Fatalf("want only the enrolled course's lecture, got %d", len(lectures))
  }
}

func TestRecentLecturesOnlyCurrentVersions(t *testing.T) {
  lectureRepo, enrollmentRepo, svc := newLectureFixture(t)
  studentID := uuid.New()

  lecture := makeLecture(uuid.New(), "v1 text")
  if _, err := lectureRepo.Create(context.Background(), nil, []*types.Lecture{lecture}); err != nil {
    t.Fatalf("seed lecture: %v", err)
  }
  enrollmentRepo.courseIDsByUser[studentID] = []uuid.UUID{lecture.CourseID}

  v2 := &types.Lecture{
    ID:            types.LectureVersionID(lecture.BaseLectureID, 2),
    BaseLectureID: lecture.BaseLectureID,
    Version:       2,
    IsCurrent:     true,
    Title:         lecture.Title,
    TeacherID:     lecture.TeacherID,
    CourseID:      lecture.CourseID,
  }
  if err := lectureRepo.CreateVersionRetiringOld(context.Background(), nil, lecture.ID, v2); err != nil {
    t.Fatalf("CreateVersionRetiringOld: %v", err)
  }

  lectures, err := svc.RecentLecturesForStudent(context.Background(), studentID)
  if err != nil {
    t.Fatalf("RecentLecturesForStudent: %v", err)
  }
  if len(lectures) != 1 || lectures[0].ID != v2.ID {
    t.Fatalf("want only v2, got %d lectures", len(lectures))
  }
}

func TestLectureForTeacherHidesForeignLectures(t *testing.T) {
  lectureRepo, _, svc := newLectureFixture(t)
  owner := uuid.New()
  lecture := makeLecture(owner, "intro text")
  if _, err := lectureRepo.Create(context.Background(), nil, []*types.Lecture{lecture}); err != nil {
    t.Fatalf("seed lecture: %v", err)
  }

  if _, err := svc.LectureForTeacher(context.Background(), owner, lecture.ID); err != nil {
    t.Fatalf("owner lookup: %v", err)
  }
  if _, err := svc.LectureForTeacher(context.Background(), uuid.New(), lecture.ID); !errors.Is(err, apperr.ErrNotFound) {
    t.Fatalf("foreign lookup: want ErrNotFound got %v", err)
  }
}
