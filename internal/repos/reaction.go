package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/yungbote/lecturebridge-backend/internal/logger"
  "github.com/yungbote/lecturebridge-backend/internal/types"
)

// SectionReactionCount is one row of the lecture/section aggregation.
type SectionReactionCount struct {
  LectureID string    `gorm:"column:lecture_id"`
  SectionID uuid.UUID `gorm:"column:section_id"`
  Count     int64     `gorm:"column:count"`
}

type ReactionRepo interface {
  Create(ctx context.Context, tx *gorm.DB, reactions []*types.Reaction) ([]*types.Reaction, error)
  GetByUserAndLecture(ctx context.Context, tx *gorm.DB, userID uuid.UUID, lectureID string) ([]*types.Reaction, error)
  GetByLectureIDs(ctx context.Context, tx *gorm.DB, lectureIDs []string) ([]*types.Reaction, error)
  GetByLectureSection(ctx context.Context, tx *gorm.DB, lectureID string, sectionID uuid.UUID) ([]*types.Reaction, error)
  CountBySection(ctx context.Context, tx *gorm.DB, lectureIDs []string) ([]SectionReactionCount, error)
  MarkAddressed(ctx context.Context, tx *gorm.DB, lectureID string, sectionID uuid.UUID) error
}

type reactionRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewReactionRepo(db *gorm.DB, baseLog *logger.Logger) ReactionRepo {
  repoLog := baseLog.With("repo", "ReactionRepo")
  return &reactionRepo{db: db, log: repoLog}
}

func (r *reactionRepo) Create(ctx context.Context, tx *gorm.DB, reactions []*types.Reaction) ([]*types.Reaction, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(reactions) == 0 {
    return []*types.Reaction{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&reactions).Error; err != nil {
    return nil, err
  }
  return reactions, nil
}

func (r *reactionRepo) GetByUserAndLecture(ctx context.Context, tx *gorm.DB, userID uuid.UUID, lectureID string) ([]*types.Reaction, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Reaction
  if err := transaction.WithContext(ctx).
    Where("user_id = ? AND lecture_id = ?", userID, lectureID).
    Order("created_at").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *reactionRepo) GetByLectureIDs(ctx context.Context, tx *gorm.DB, lectureIDs []string) ([]*types.Reaction, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Reaction
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

func (r *reactionRepo) GetByLectureSection(ctx context.Context, tx *gorm.DB, lectureID string, sectionID uuid.UUID) ([]*types.Reaction, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Reaction
  if err := transaction.WithContext(ctx).
    Where("lecture_id = ? AND section_id = ?", lectureID, sectionID).
    Order("created_at").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *reactionRepo) CountBySection(ctx context.Context, tx *gorm.DB, lectureIDs []string) ([]SectionReactionCount, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  query := transaction.WithContext(ctx).
    Model(&types.Reaction{}).
    Select("lecture_id, section_id, count(*) as count").
    Group("lecture_id, section_id")
  if len(lectureIDs) > 0 {
    query = query.Where("lecture_id IN ?", lectureIDs)
  }

  var results []SectionReactionCount
  if err := query.Scan(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *reactionRepo) MarkAddressed(ctx context.Context, tx *gorm.DB, lectureID string, sectionID uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if err := transaction.WithContext(ctx).
    Model(&types.Reaction{}).
    Where("lecture_id = ? AND section_id = ?", lectureID, sectionID).
    Update("addressed", true).Error; err != nil {
    return err
  }
  return nil
}
