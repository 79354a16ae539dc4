package services

import (
  "context"
  "fmt"
  "sync"

  "github.com/google/uuid"
  "golang.org/x/sync/singleflight"
  "gorm.io/gorm"

  "github.com/yungbote/lecturebridge-backend/internal/apperr"
  "github.com/yungbote/lecturebridge-backend/internal/logger"
  "github.com/yungbote/lecturebridge-backend/internal/repos"
  "github.com/yungbote/lecturebridge-backend/internal/revision"
  "github.com/yungbote/lecturebridge-backend/internal/types"
)

// PublishResult is what one publish produces: the new current version
// and the suggestions that were folded into it (now pointing at it).
type PublishResult struct {
  Lecture     *types.Lecture      `json:"lecture"`
  Suggestions []*types.Suggestion `json:"suggestions"`
}

type SuggestionService interface {
  // Approve transitions pending -> accepted and stages the edit for the
  // next publish. It does not create a lecture version.
  Approve(ctx context.Context, suggestionID uuid.UUID) (*types.Suggestion, *types.ApprovedSectionUpdate, error)
  // Reject transitions pending -> rejected and marks the section's
  // reactions addressed without any text change.
  Reject(ctx context.Context, suggestionID uuid.UUID) (*types.Suggestion, error)
  // Publish folds every staged edit for the lecture into exactly one new
  // version, relinks the suggestions to it, marks the affected reactions
  // addressed and clears the staged queue.
  Publish(ctx context.Context, teacherID uuid.UUID, lectureID string) (*PublishResult, error)
  // GenerateForLecture asks the revision proposer for candidate rewrites
  // of sections with enough feedback. Best-effort: proposer failure
  // yields zero suggestions, not an error.
  GenerateForLecture(ctx context.Context, lectureID string, sectionIDs []uuid.UUID) ([]*types.Suggestion, error)
  SuggestionsForLecture(ctx context.Context, lectureID string) ([]*types.Suggestion, error)
}

type suggestionService struct {
  db             *gorm.DB
  log            *logger.Logger
  lectureRepo    repos.LectureRepo
  suggestionRepo repos.SuggestionRepo
  reactionRepo   repos.ReactionRepo
  approvedRepo   repos.ApprovedUpdateRepo
  reactions      ReactionService
  proposer       RevisionProposer
  minReactions   int

  generateGroup singleflight.Group

  // publishLocks serializes the read-current/compute/swap window per
  // base lecture so concurrent publishes can never both build on the
  // same baseline.
  mu           sync.Mutex
  publishLocks map[uuid.UUID]*sync.Mutex
}

func NewSuggestionService(
  db *gorm.DB,
  baseLog *logger.Logger,
  lectureRepo repos.LectureRepo,
  suggestionRepo repos.SuggestionRepo,
  reactionRepo repos.ReactionRepo,
  approvedRepo repos.ApprovedUpdateRepo,
  reactions ReactionService,
  proposer RevisionProposer,
  minReactions int,
) SuggestionService {
  if minReactions < 1 {
    minReactions = 1
  }
  return &suggestionService{
    db:             db,
    log:            baseLog.With("service", "SuggestionService"),
    lectureRepo:    lectureRepo,
    suggestionRepo: suggestionRepo,
    reactionRepo:   reactionRepo,
    approvedRepo:   approvedRepo,
    reactions:      reactions,
    proposer:       proposer,
    minReactions:   minReactions,
    publishLocks:   make(map[uuid.UUID]*sync.Mutex),
  }
}

func (s *suggestionService) baseLock(baseLectureID uuid.UUID) *sync.Mutex {
  s.mu.Lock()
  defer s.mu.Unlock()
  lock := s.publishLocks[baseLectureID]
  if lock == nil {
    lock = &sync.Mutex{}
    s.publishLocks[baseLectureID] = lock
  }
  return lock
}

// withTransaction runs fn inside a gorm transaction. Unit tests wire the
// service with a nil db and in-memory repos, so fall back to running fn
// directly in that case.
func (s *suggestionService) withTransaction(fn func(tx *gorm.DB) error) error {
  if s.db == nil {
    return fn(nil)
  }
  return s.db.Transaction(fn)
}

func (s *suggestionService) getSuggestion(ctx context.Context, suggestionID uuid.UUID) (*types.Suggestion, error) {
  suggestions, err := s.suggestionRepo.GetByIDs(ctx, nil, []uuid.UUID{suggestionID})
  if err != nil {
    s.log.Warn("load suggestion failed", "suggestion_id", suggestionID, "error", err)
    return nil, err
  }
  if len(suggestions) == 0 || suggestions[0] == nil {
    return nil, fmt.Errorf("suggestion %s: %w", suggestionID, apperr.ErrNotFound)
  }
  return suggestions[0], nil
}

func (s *suggestionService) getLecture(ctx context.Context, lectureID string) (*types.Lecture, error) {
  lectures, err := s.lectureRepo.GetByIDs(ctx, nil, []string{lectureID})
  if err != nil {
    s.log.Warn("load lecture failed", "lecture_id", lectureID, "error", err)
    return nil, err
  }
  if len(lectures) == 0 || lectures[0] == nil {
    return nil, fmt.Errorf("lecture %s: %w", lectureID, apperr.ErrNotFound)
  }
  return lectures[0], nil
}

func (s *suggestionService) Approve(ctx context.Context, suggestionID uuid.UUID) (*types.Suggestion, *types.ApprovedSectionUpdate, error) {
  suggestion, err := s.getSuggestion(ctx, suggestionID)
  if err != nil {
    return nil, nil, err
  }
  if suggestion.Status != types.SuggestionStatusPending {
    return nil, nil, fmt.Errorf("suggestion %s is %s, not pending: %w", suggestionID, suggestion.Status, apperr.ErrInvalidArgument)
  }
  if _, err := s.getLecture(ctx, suggestion.LectureID); err != nil {
    return nil, nil, err
  }

  staged := &types.ApprovedSectionUpdate{
    LectureID:     suggestion.LectureID,
    SectionID:     suggestion.SectionID,
    SuggestedText: suggestion.SuggestedText,
    SuggestionID:  suggestion.ID,
  }

  err = s.withTransaction(func(tx *gorm.DB) error {
    if err := s.suggestionRepo.UpdateStatus(ctx, tx, suggestion.ID, types.SuggestionStatusAccepted); err != nil {
      return err
    }
    if _, err := s.approvedRepo.Create(ctx, tx, []*types.ApprovedSectionUpdate{staged}); err != nil {
      return err
    }
    return nil
  })
  if err != nil {
    s.log.Warn("Approve: transaction failed", "suggestion_id", suggestionID, "error", err)
    return nil, nil, err
  }

  suggestion.Status = types.SuggestionStatusAccepted
  s.log.Info("suggestion approved", "suggestion_id", suggestionID, "lecture_id", suggestion.LectureID, "section_id", suggestion.SectionID)
  return suggestion, staged, nil
}

func (s *suggestionService) Reject(ctx context.Context, suggestionID uuid.UUID) (*types.Suggestion, error) {
  suggestion, err := s.getSuggestion(ctx, suggestionID)
  if err != nil {
    return nil, err
  }
  if suggestion.Status != types.SuggestionStatusPending {
    return nil, fmt.Errorf("suggestion %s is %s, not pending: %w", suggestionID, suggestion.Status, apperr.ErrInvalidArgument)
  }
  if _, err := s.getLecture(ctx, suggestion.LectureID); err != nil {
    return nil, err
  }

  err = s.withTransaction(func(tx *gorm.DB) error {
    if err := s.suggestionRepo.UpdateStatus(ctx, tx, suggestion.ID, types.SuggestionStatusRejected); err != nil {
      return err
    }
    // Feedback counts as resolved even though the text stays as-is.
    if err := s.reactionRepo.MarkAddressed(ctx, tx, suggestion.LectureID, suggestion.SectionID); err != nil {
      return err
    }
    return nil
  })
  if err != nil {
    s.log.Warn("Reject: transaction failed", "suggestion_id", suggestionID, "error", err)
    return nil, err
  }

  suggestion.Status = types.SuggestionStatusRejected
  s.log.Info("suggestion rejected", "suggestion_id", suggestionID, "lecture_id", suggestion.LectureID, "section_id", suggestion.SectionID)
  return suggestion, nil
}

func (s *suggestionService) Publish(ctx context.Context, teacherID uuid.UUID, lectureID string) (*PublishResult, error) {
  lecture, err := s.getLecture(ctx, lectureID)
  if err != nil {
    return nil, err
  }
  if lecture.TeacherID != teacherID {
    return nil, fmt.Errorf("lecture %s not found for this teacher: %w", lectureID, apperr.ErrNotFound)
  }

  lock := s.baseLock(lecture.BaseLectureID)
  lock.Lock()
  defer lock.Unlock()

  // Re-read under the lock: a publish that just finished may have
  // retired this version and drained its queue.
  lecture, err = s.getLecture(ctx, lectureID)
  if err != nil {
    return nil, err
  }

  staged, err := s.approvedRepo.GetByLectureIDs(ctx, nil, []string{lectureID})
  if err != nil {
    s.log.Warn("Publish: load staged updates failed", "lecture_id", lectureID, "error", err)
    return nil, err
  }
  if len(staged) == 0 {
    return nil, fmt.Errorf("no approved updates for lecture %s: %w", lectureID, apperr.ErrInvalidArgument)
  }

  updates := make(map[uuid.UUID]string, len(staged))
  suggestionIDs := make([]uuid.UUID, 0, len(staged))
  sectionIDs := make(map[uuid.UUID]bool, len(staged))
  for _, u := range staged {
    // Later approvals win when two staged edits target one section.
    updates[u.SectionID] = u.SuggestedText
    suggestionIDs = append(suggestionIDs, u.SuggestionID)
    sectionIDs[u.SectionID] = true
  }

  newLecture, err := revision.NextVersion(lecture, updates)
  if err != nil {
    return nil, err
  }

  err = s.withTransaction(func(tx *gorm.DB) error {
    if err := s.lectureRepo.CreateVersionRetiringOld(ctx, tx, lecture.ID, newLecture); err != nil {
      return err
    }
    if err := s.suggestionRepo.RelinkLecture(ctx, tx, suggestionIDs, newLecture.ID); err != nil {
      return err
    }
    for sectionID := range sectionIDs {
      if err := s.reactionRepo.MarkAddressed(ctx, tx, lectureID, sectionID); err != nil {
        return err
      }
    }
    if err := s.approvedRepo.DeleteByLectureIDs(ctx, tx, []string{lectureID}); err != nil {
      return err
    }
    return nil
  })
  if err != nil {
    s.log.Warn("Publish: transaction failed", "lecture_id", lectureID, "error", err)
    return nil, err
  }

  published, err := s.suggestionRepo.GetByIDs(ctx, nil, suggestionIDs)
  if err != nil {
    s.log.Warn("Publish: reload suggestions failed", "lecture_id", lectureID, "error", err)
    return nil, err
  }

  s.log.Info("lecture version published",
    "base_lecture_id", lecture.BaseLectureID,
    "old_lecture_id", lecture.ID,
    "new_lecture_id", newLecture.ID,
    "version", newLecture.Version,
    "sections_updated", len(updates),
  )
  return &PublishResult{Lecture: newLecture, Suggestions: published}, nil
}

func (s *suggestionService) GenerateForLecture(ctx context.Context, lectureID string, sectionIDs []uuid.UUID) ([]*types.Suggestion, error) {
  // Generation is idempotent and best-effort; concurrent requests for
  // the same lecture share one proposer call.
  result, err, _ := s.generateGroup.Do(lectureID, func() (interface{}, error) {
    return s.generateForLecture(ctx, lectureID, sectionIDs)
  })
  if err != nil {
    return nil, err
  }
  return result.([]*types.Suggestion), nil
}

func (s *suggestionService) generateForLecture(ctx context.Context, lectureID string, sectionIDs []uuid.UUID) ([]*types.Suggestion, error) {
  lecture, err := s.getLecture(ctx, lectureID)
  if err != nil {
    return nil, err
  }

  sectionsByID := make(map[uuid.UUID]*types.Section, len(lecture.Sections))
  for _, sec := range lecture.Sections {
    sectionsByID[sec.ID] = sec
  }

  counts, err := s.reactions.SectionCountsForLecture(ctx, lectureID)
  if err != nil {
    return nil, err
  }

  var candidates []*types.Section
  if len(sectionIDs) > 0 {
    // Explicitly named sections only need some feedback, not the full
    // threshold.
    for _, sectionID := range sectionIDs {
      sec, ok := sectionsByID[sectionID]
      if !ok {
        return nil, fmt.Errorf("section %s in lecture %s: %w", sectionID, lectureID, apperr.ErrNotFound)
      }
      if counts[sectionID] >= 1 {
        candidates = append(candidates, sec)
      }
    }
  } else {
    for _, sec := range lecture.Sections {
      if counts[sec.ID] >= int64(s.minReactions) {
        candidates = append(candidates, sec)
      }
    }
  }
  if len(candidates) == 0 {
    return []*types.Suggestion{}, nil
  }

  if s.proposer == nil {
    s.log.Warn("GenerateForLecture: no revision proposer configured", "lecture_id", lectureID)
    return []*types.Suggestion{}, nil
  }

  feedback := make(map[uuid.UUID][]*types.Reaction, len(candidates))
  for _, sec := range candidates {
    reactions, err := s.reactionRepo.GetByLectureSection(ctx, nil, lectureID, sec.ID)
    if err != nil {
      s.log.Warn("GenerateForLecture: load reactions failed", "lecture_id", lectureID, "section_id", sec.ID, "error", err)
      return nil, err
    }
    feedback[sec.ID] = reactions
  }

  revisions, err := s.proposer.ProposeRevisions(ctx, lecture, candidates, feedback)
  if err != nil {
    // Best-effort boundary: the caller sees zero suggestions, and
    // nothing partial is persisted.
    s.log.Warn("GenerateForLecture: proposer failed", "lecture_id", lectureID, "error", err)
    return []*types.Suggestion{}, nil
  }
  if len(revisions) == 0 {
    return []*types.Suggestion{}, nil
  }

  suggestions := make([]*types.Suggestion, 0, len(revisions))
  for _, rev := range revisions {
    sec := sectionsByID[rev.SectionID]
    if sec == nil {
      continue
    }
    suggestions = append(suggestions, &types.Suggestion{
      LectureID:     lectureID,
      SectionID:     rev.SectionID,
      OriginalText:  sec.Text,
      SuggestedText: rev.RevisedText,
      Status:        types.SuggestionStatusPending,
    })
  }

  created, err := s.suggestionRepo.Create(ctx, nil, suggestions)
  if err != nil {
    s.log.Warn("GenerateForLecture: persist failed", "lecture_id", lectureID, "error", err)
    return nil, err
  }

  s.log.Info("suggestions generated", "lecture_id", lectureID, "count", len(created))
  return created, nil
}

func (s *suggestionService) SuggestionsForLecture(ctx context.Context, lectureID string) ([]*types.Suggestion, error) {
  suggestions, err := s.suggestionRepo.GetByLectureIDs(ctx, nil, []string{lectureID})
  if err != nil {
    s.log.Warn("SuggestionsForLecture: load failed", "lecture_id", lectureID, "error", err)
    return nil, err
  }
  return suggestions, nil
}
