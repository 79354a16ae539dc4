package repos

import (
  "context"

  "gorm.io/gorm"

  "github.com/yungbote/lecturebridge-backend/internal/logger"
  "github.com/yungbote/lecturebridge-backend/internal/types"
)

type ApprovedUpdateRepo interface {
  Create(ctx context.Context, tx *gorm.DB, updates []*types.ApprovedSectionUpdate) ([]*types.ApprovedSectionUpdate, error)
  GetByLectureIDs(ctx context.Context, tx *gorm.DB, lectureIDs []string) ([]*types.ApprovedSectionUpdate, error)
  DeleteByLectureIDs(ctx context.Context, tx *gorm.DB, lectureIDs []string) error
}

type approvedUpdateRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewApprovedUpdateRepo(db *gorm.DB, baseLog *logger.Logger) ApprovedUpdateRepo {
  repoLog := baseLog.With("repo", "ApprovedUpdateRepo")
  return &approvedUpdateRepo{db: db, log: repoLog}
}

func (r *approvedUpdateRepo) Create(ctx context.Context, tx *gorm.DB, updates []*types.ApprovedSectionUpdate) ([]*types.ApprovedSectionUpdate, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(updates) == 0 {
    return []*types.ApprovedSectionUpdate{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&updates).Error; err != nil {
    return nil, err
  }
  return updates, nil
}

func (r *approvedUpdateRepo) GetByLectureIDs(ctx context.Context, tx *gorm.DB, lectureIDs []string) ([]*types.ApprovedSectionUpdate, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.ApprovedSectionUpdate
  if len(lectureIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("lecture_id IN ?", lectureIDs).
    Order("created_at").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *approvedUpdateRepo) DeleteByLectureIDs(ctx context.Context, tx *gorm.DB, lectureIDs []string) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(lectureIDs) == 0 {
    return nil
  }

  if err := transaction.WithContext(ctx).
    Where("lecture_id IN ?", lectureIDs).
    Delete(&types.ApprovedSectionUpdate{}).Error; err != nil {
    return err
  }
  return nil
}
