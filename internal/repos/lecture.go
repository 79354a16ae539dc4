package repos

import (
  "context"
  "fmt"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/yungbote/lecturebridge-backend/internal/logger"
  "github.com/yungbote/lecturebridge-backend/internal/types"
)

type LectureRepo interface {
  Create(ctx context.Context, tx *gorm.DB, lectures []*types.Lecture) ([]*types.Lecture, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, lectureIDs []string) ([]*types.Lecture, error)
  GetCurrentByBaseIDs(ctx context.Context, tx *gorm.DB, baseIDs []uuid.UUID) ([]*types.Lecture, error)
  GetByTeacherIDs(ctx context.Context, tx *gorm.DB, teacherIDs []uuid.UUID) ([]*types.Lecture, error)
  GetCurrentByCourseIDs(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID) ([]*types.Lecture, error)
  // CreateVersionRetiringOld flips the old version's is_current off and
  // inserts the new version (with sections) in one transaction. Fails if
  // the old version is no longer current, so two publishers can never
  // both build on the same baseline.
  CreateVersionRetiringOld(ctx context.Context, tx *gorm.DB, oldID string, newLecture *types.Lecture) error
}

type lectureRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewLectureRepo(db *gorm.DB, baseLog *logger.Logger) LectureRepo {
  repoLog := baseLog.With("repo", "LectureRepo")
  return &lectureRepo{db: db, log: repoLog}
}

func (r *lectureRepo) Create(ctx context.Context, tx *gorm.DB, lectures []*types.Lecture) ([]*types.Lecture, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(lectures) == 0 {
    return []*types.Lecture{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&lectures).Error; err != nil {
    return nil, err
  }
  return lectures, nil
}

func (r *lectureRepo) GetByIDs(ctx context.Context, tx *gorm.DB, lectureIDs []string) ([]*types.Lecture, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Lecture
  if len(lectureIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Preload("Sections", func(db *gorm.DB) *gorm.DB {
      return db.Order("lecture_section.position ASC")
    }).
    Where("id IN ?", lectureIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *lectureRepo) GetCurrentByBaseIDs(ctx context.Context, tx *gorm.DB, baseIDs []uuid.UUID) ([]*types.Lecture, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Lecture
  if len(baseIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Preload("Sections", func(db *gorm.DB) *gorm.DB {
      return db.Order("lecture_section.position ASC")
    }).
    Where("base_lecture_id IN ? AND is_current = ?", baseIDs, true).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *lectureRepo) GetByTeacherIDs(ctx context.Context, tx *gorm.DB, teacherIDs []uuid.UUID) ([]*types.Lecture, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Lecture
  if len(teacherIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("teacher_id IN ?", teacherIDs).
    Order("base_lecture_id, version").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *lectureRepo) GetCurrentByCourseIDs(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID) ([]*types.Lecture, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Lecture
  if len(courseIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("course_id IN ? AND is_current = ?", courseIDs, true).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *lectureRepo) CreateVersionRetiringOld(ctx context.Context, tx *gorm.DB, oldID string, newLecture *types.Lecture) error {
  if newLecture == nil {
    return fmt.Errorf("new lecture required")
  }

  run := func(transaction *gorm.DB) error {
    res := transaction.WithContext(ctx).
      Model(&types.Lecture{}).
      Where("id = ? AND is_current = ?", oldID, true).
      Update("is_current", false)
    if res.Error != nil {
      return res.Error
    }
    if res.RowsAffected == 0 {
      return fmt.Errorf("lecture %s is no longer the current version", oldID)
    }
    if err := transaction.WithContext(ctx).Create(newLecture).Error; err != nil {
      return err
    }
    return nil
  }

  if tx != nil {
    return run(tx)
  }
  return r.db.Transaction(run)
}
