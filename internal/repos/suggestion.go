package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/yungbote/lecturebridge-backend/internal/logger"
  "github.com/yungbote/lecturebridge-backend/internal/types"
)

type SuggestionRepo interface {
  Create(ctx context.Context, tx *gorm.DB, suggestions []*types.Suggestion) ([]*types.Suggestion, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, suggestionIDs []uuid.UUID) ([]*types.Suggestion, error)
  GetByLectureIDs(ctx context.Context, tx *gorm.DB, lectureIDs []string) ([]*types.Suggestion, error)
  UpdateStatus(ctx context.Context, tx *gorm.DB, suggestionID uuid.UUID, status string) error
  // RelinkLecture repoints published suggestions at the new version id.
  RelinkLecture(ctx context.Context, tx *gorm.DB, suggestionIDs []uuid.UUID, newLectureID string) error
}

type suggestionRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewSuggestionRepo(db *gorm.DB, baseLog *logger.Logger) SuggestionRepo {
  repoLog := baseLog.With("repo", "SuggestionRepo")
  return &suggestionRepo{db: db, log: repoLog}
}

func (r *suggestionRepo) Create(ctx context.Context, tx *gorm.DB, suggestions []*types.Suggestion) ([]*types.Suggestion, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(suggestions) == 0 {
    return []*types.Suggestion{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&suggestions).Error; err != nil {
    return nil, err
  }
  return suggestions, nil
}

func (r *suggestionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, suggestionIDs []uuid.UUID) ([]*types.Suggestion, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Suggestion
  if len(suggestionIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("id IN ?", suggestionIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *suggestionRepo) GetByLectureIDs(ctx context.Context, tx *gorm.DB, lectureIDs []string) ([]*types.Suggestion, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Suggestion
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

func (r *suggestionRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, suggestionID uuid.UUID, status string) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if err := transaction.WithContext(ctx).
    Model(&types.Suggestion{}).
    Where("id = ?", suggestionID).
    Update("status", status).Error; err != nil {
    return err
  }
  return nil
}

func (r *suggestionRepo) RelinkLecture(ctx context.Context, tx *gorm.DB, suggestionIDs []uuid.UUID, newLectureID string) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(suggestionIDs) == 0 {
    return nil
  }

  if err := transaction.WithContext(ctx).
    Model(&types.Suggestion{}).
    Where("id IN ?", suggestionIDs).
    Update("lecture_id", newLectureID).Error; err != nil {
    return err
  }
  return nil
}
