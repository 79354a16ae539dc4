package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/yungbote/lecturebridge-backend/internal/logger"
  "github.com/yungbote/lecturebridge-backend/internal/types"
)

type EnrollmentRepo interface {
  Create(ctx context.Context, tx *gorm.DB, enrollments []*types.Enrollment) ([]*types.Enrollment, error)
  GetCourseIDsByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]uuid.UUID, error)
}

type enrollmentRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewEnrollmentRepo(db *gorm.DB, baseLog *logger.Logger) EnrollmentRepo {
  repoLog := baseLog.With("repo", "EnrollmentRepo")
  return &enrollmentRepo{db: db, log: repoLog}
}

func (r *enrollmentRepo) Create(ctx context.Context, tx *gorm.DB, enrollments []*types.Enrollment) ([]*types.Enrollment, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(enrollments) == 0 {
    return []*types.Enrollment{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&enrollments).Error; err != nil {
    return nil, err
  }
  return enrollments, nil
}

func (r *enrollmentRepo) GetCourseIDsByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]uuid.UUID, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var courseIDs []uuid.UUID
  if len(userIDs) == 0 {
    return courseIDs, nil
  }

  if err := transaction.WithContext(ctx).
    Model(&types.Enrollment{}).
    Where("user_id IN ?", userIDs).
    Distinct().
    Pluck("course_id", &courseIDs).Error; err != nil {
    return nil, err
  }
  return courseIDs, nil
}
