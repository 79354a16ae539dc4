package services

import (
  "context"
  "fmt"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/yungbote/lecturebridge-backend/internal/apperr"
  redisclient "github.com/yungbote/lecturebridge-backend/internal/clients/redis"
  "github.com/yungbote/lecturebridge-backend/internal/logger"
  "github.com/yungbote/lecturebridge-backend/internal/repos"
  "github.com/yungbote/lecturebridge-backend/internal/types"
)

type ReactionService interface {
  CreateReaction(ctx context.Context, userID uuid.UUID, lectureID string, sectionID uuid.UUID, reactionType, comment string) (*types.Reaction, error)
  ReactionsByUserAndLecture(ctx context.Context, userID uuid.UUID, lectureID string) ([]*types.Reaction, error)
  ReactionsForLecture(ctx context.Context, lectureID string) ([]*types.Reaction, error)
  // SectionCountsForLecture returns sectionID -> reaction count for one
  // lecture version, served from the redis cache when warm.
  SectionCountsForLecture(ctx context.Context, lectureID string) (map[uuid.UUID]int64, error)
  // CountCommentsBySection aggregates every reaction in the system into
  // lectureID -> sectionID -> count.
  CountCommentsBySection(ctx context.Context) (map[string]map[uuid.UUID]int64, error)
}

type reactionService struct {
  db           *gorm.DB
  log          *logger.Logger
  lectureRepo  repos.LectureRepo
  reactionRepo repos.ReactionRepo
  countCache   redisclient.ReactionCountCache
}

func NewReactionService(
  db *gorm.DB,
  baseLog *logger.Logger,
  lectureRepo repos.LectureRepo,
  reactionRepo repos.ReactionRepo,
  countCache redisclient.ReactionCountCache,
) ReactionService {
  return &reactionService{
    db:           db,
    log:          baseLog.With("service", "ReactionService"),
    lectureRepo:  lectureRepo,
    reactionRepo: reactionRepo,
    countCache:   countCache,
  }
}

func (s *reactionService) CreateReaction(ctx context.Context, userID uuid.UUID, lectureID string, sectionID uuid.UUID, reactionType, comment string) (*types.Reaction, error) {
  if !types.ValidReactionType(reactionType) {
    return nil, fmt.Errorf("invalid reaction type %q: %w", reactionType, apperr.ErrInvalidArgument)
  }
  if userID == uuid.Nil {
    return nil, fmt.Errorf("missing user id: %w", apperr.ErrInvalidArgument)
  }

  lectures, err := s.lectureRepo.GetByIDs(ctx, nil, []string{lectureID})
  if err != nil {
    s.log.Warn("CreateReaction: load lecture failed", "lecture_id", lectureID, "error", err)
    return nil, err
  }
  if len(lectures) == 0 || lectures[0] == nil {
    return nil, fmt.Errorf("lecture %s: %w", lectureID, apperr.ErrNotFound)
  }

  var section *types.Section
  for _, sec := range lectures[0].Sections {
    if sec.ID == sectionID {
      section = sec
      break
    }
  }
  if section == nil {
    return nil, fmt.Errorf("section %s in lecture %s: %w", sectionID, lectureID, apperr.ErrNotFound)
  }

  reaction := &types.Reaction{
    LectureID: lectureID,
    SectionID: sectionID,
    UserID:    userID,
    Type:      reactionType,
    Comment:   comment,
    Addressed: false,
  }
  created, err := s.reactionRepo.Create(ctx, nil, []*types.Reaction{reaction})
  if err != nil {
    s.log.Warn("CreateReaction: create failed", "lecture_id", lectureID, "section_id", sectionID, "error", err)
    return nil, err
  }

  if s.countCache != nil {
    s.countCache.Invalidate(ctx, lectureID)
  }
  return created[0], nil
}

func (s *reactionService) ReactionsByUserAndLecture(ctx context.Context, userID uuid.UUID, lectureID string) ([]*types.Reaction, error) {
  reactions, err := s.reactionRepo.GetByUserAndLecture(ctx, nil, userID, lectureID)
  if err != nil {
    s.log.Warn("ReactionsByUserAndLecture: load failed", "lecture_id", lectureID, "error", err)
    return nil, err
  }
  return reactions, nil
}

func (s *reactionService) ReactionsForLecture(ctx context.Context, lectureID string) ([]*types.Reaction, error) {
  reactions, err := s.reactionRepo.GetByLectureIDs(ctx, nil, []string{lectureID})
  if err != nil {
    s.log.Warn("ReactionsForLecture: load failed", "lecture_id", lectureID, "error", err)
    return nil, err
  }
  return reactions, nil
}

func (s *reactionService) SectionCountsForLecture(ctx context.Context, lectureID string) (map[uuid.UUID]int64, error) {
  if s.countCache != nil {
    if counts, ok := s.countCache.GetCounts(ctx, lectureID); ok {
      return counts, nil
    }
  }

  rows, err := s.reactionRepo.CountBySection(ctx, nil, []string{lectureID})
  if err != nil {
    s.log.Warn("SectionCountsForLecture: count failed", "lecture_id", lectureID, "error", err)
    return nil, err
  }

  counts := make(map[uuid.UUID]int64, len(rows))
  for _, row := range rows {
    counts[row.SectionID] = row.Count
  }

  if s.countCache != nil {
    s.countCache.SetCounts(ctx, lectureID, counts)
  }
  return counts, nil
}

func (s *reactionService) CountCommentsBySection(ctx context.Context) (map[string]map[uuid.UUID]int64, error) {
  rows, err := s.reactionRepo.CountBySection(ctx, nil, nil)
  if err != nil {
    s.log.Warn("CountCommentsBySection: count failed", "error", err)
    return nil, err
  }

  out := make(map[string]map[uuid.UUID]int64)
  for _, row := range rows {
    byLecture := out[row.LectureID]
    if byLecture == nil {
      byLecture = make(map[uuid.UUID]int64)
      out[row.LectureID] = byLecture
    }
    byLecture[row.SectionID] = row.Count
  }
  return out, nil
}
