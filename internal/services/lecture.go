package services

import (
  "context"
  "fmt"
  "strings"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/yungbote/lecturebridge-backend/internal/apperr"
  "github.com/yungbote/lecturebridge-backend/internal/logger"
  "github.com/yungbote/lecturebridge-backend/internal/repos"
  "github.com/yungbote/lecturebridge-backend/internal/types"
)

type LectureService interface {
  GetLecture(ctx context.Context, lectureID string) (*types.Lecture, error)
  CreateBaseLecture(ctx context.Context, title string, sectionTexts []string, teacherID, courseID uuid.UUID) (*types.Lecture, error)
  RecentLecturesForStudent(ctx context.Context, userID uuid.UUID) ([]*types.Lecture, error)
  LecturesForTeacher(ctx context.Context, teacherID uuid.UUID) ([]*types.Lecture, error)
  LectureForTeacher(ctx context.Context, teacherID uuid.UUID, lectureID string) (*types.Lecture, error)
}

type lectureService struct {
  db             *gorm.DB
  log            *logger.Logger
  lectureRepo    repos.LectureRepo
  enrollmentRepo repos.EnrollmentRepo
}

func NewLectureService(
  db *gorm.DB,
  baseLog *logger.Logger,
  lectureRepo repos.LectureRepo,
  enrollmentRepo repos.EnrollmentRepo,
) LectureService {
  return &lectureService{
    db:             db,
    log:            baseLog.With("service", "LectureService"),
    lectureRepo:    lectureRepo,
    enrollmentRepo: enrollmentRepo,
  }
}

func (s *lectureService) GetLecture(ctx context.Context, lectureID string) (*types.Lecture, error) {
  if strings.TrimSpace(lectureID) == "" {
    return nil, fmt.Errorf("missing lecture id: %w", apperr.ErrInvalidArgument)
  }

  lectures, err := s.lectureRepo.GetByIDs(ctx, nil, []string{lectureID})
  if err != nil {
    s.log.Warn("GetLecture: load failed", "lecture_id", lectureID, "error", err)
    return nil, err
  }
  if len(lectures) == 0 || lectures[0] == nil {
    return nil, fmt.Errorf("lecture %s: %w", lectureID, apperr.ErrNotFound)
  }
  return lectures[0], nil
}

func (s *lectureService) CreateBaseLecture(ctx context.Context, title string, sectionTexts []string, teacherID, courseID uuid.UUID) (*types.Lecture, error) {
  if strings.TrimSpace(title) == "" || len(sectionTexts) == 0 || teacherID == uuid.Nil || courseID == uuid.Nil {
    return nil, fmt.Errorf("missing fields: %w", apperr.ErrInvalidArgument)
  }

  baseID := uuid.New()
  lectureID := types.LectureVersionID(baseID, 1)

  sections := make([]*types.Section, 0, len(sectionTexts))
  for i, text := range sectionTexts {
    sections = append(sections, &types.Section{
      LectureID: lectureID,
      ID:        uuid.New(),
      Order:     i + 1,
      Text:      text,
    })
  }

  lecture := &types.Lecture{
    ID:            lectureID,
    BaseLectureID: baseID,
    Version:       1,
    IsCurrent:     true,
    Title:         title,
    TeacherID:     teacherID,
    CourseID:      courseID,
    Sections:      sections,
  }

  created, err := s.lectureRepo.Create(ctx, nil, []*types.Lecture{lecture})
  if err != nil {
    s.log.Warn("CreateBaseLecture: create failed", "base_lecture_id", baseID, "error", err)
    return nil, err
  }
  return created[0], nil
}

func (s *lectureService) RecentLecturesForStudent(ctx context.Context, userID uuid.UUID) ([]*types.Lecture, error) {
  if userID == uuid.Nil {
    return nil, fmt.Errorf("missing user id: %w", apperr.ErrInvalidArgument)
  }

  courseIDs, err := s.enrollmentRepo.GetCourseIDsByUserIDs(ctx, nil, []uuid.UUID{userID})
  if err != nil {
    s.log.Warn("RecentLecturesForStudent: load enrollments failed", "user_id", userID, "error", err)
    return nil, err
  }
  if len(courseIDs) == 0 {
    return []*types.Lecture{}, nil
  }

  lectures, err := s.lectureRepo.GetCurrentByCourseIDs(ctx, nil, courseIDs)
  if err != nil {
    s.log.Warn("RecentLecturesForStudent: load lectures failed", "user_id", userID, "error", err)
    return nil, err
  }
  return lectures, nil
}

func (s *lectureService) LecturesForTeacher(ctx context.Context, teacherID uuid.UUID) ([]*types.Lecture, error) {
  if teacherID == uuid.Nil {
    return nil, fmt.Errorf("missing teacher id: %w", apperr.ErrInvalidArgument)
  }

  lectures, err := s.lectureRepo.GetByTeacherIDs(ctx, nil, []uuid.UUID{teacherID})
  if err != nil {
    s.log.Warn("LecturesForTeacher: load failed", "teacher_id", teacherID, "error", err)
    return nil, err
  }
  return lectures, nil
}

func (s *lectureService) LectureForTeacher(ctx context.Context, teacherID uuid.UUID, lectureID string) (*types.Lecture, error) {
  lecture, err := s.GetLecture(ctx, lectureID)
  if err != nil {
    return nil, err
  }
  if lecture.TeacherID != teacherID {
    return nil, fmt.Errorf("lecture %s not found for this teacher: %w", lectureID, apperr.ErrNotFound)
  }
  return lecture, nil
}
