package redis

import (
  "context"
  "encoding/json"
  "fmt"
  "os"
  "strings"
  "time"

  "github.com/google/uuid"
  goredis "github.com/redis/go-redis/v9"

  "github.com/yungbote/lecturebridge-backend/internal/logger"
)

// ReactionCountCache keeps per-lecture section reaction counts so the
// generation threshold check doesn't re-aggregate on every request.
// Strictly best-effort: a miss or a redis outage just falls through to
// the database.
type ReactionCountCache interface {
  GetCounts(ctx context.Context, lectureID string) (map[uuid.UUID]int64, bool)
  SetCounts(ctx context.Context, lectureID string, counts map[uuid.UUID]int64)
  Invalidate(ctx context.Context, lectureID string)
  Close() error
}

type reactionCountCache struct {
  log *logger.Logger
  rdb *goredis.Client
  ttl time.Duration
}

func NewReactionCountCache(log *logger.Logger) (ReactionCountCache, error) {
  if log == nil {
    return nil, fmt.Errorf("logger required")
  }

  addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
  if addr == "" {
    return nil, fmt.Errorf("missing REDIS_ADDR")
  }

  rdb := goredis.NewClient(&goredis.Options{
    Addr:        addr,
    DialTimeout: 5 * time.Second,
  })

  ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
  defer cancel()
  if err := rdb.Ping(ctx).Err(); err != nil {
    _ = rdb.Close()
    return nil, fmt.Errorf("redis ping: %w", err)
  }

  return &reactionCountCache{
    log: log.With("service", "ReactionCountCache"),
    rdb: rdb,
    ttl: 60 * time.Second,
  }, nil
}

func cacheKey(lectureID string) string {
  return "reaction_counts:" + lectureID
}

func (c *reactionCountCache) GetCounts(ctx context.Context, lectureID string) (map[uuid.UUID]int64, bool) {
  if c == nil || c.rdb == nil {
    return nil, false
  }
  raw, err := c.rdb.Get(ctx, cacheKey(lectureID)).Bytes()
  if err != nil {
    if err != goredis.Nil {
      c.log.Warn("reaction count cache read failed", "lecture_id", lectureID, "error", err)
    }
    return nil, false
  }
  var counts map[uuid.UUID]int64
  if err := json.Unmarshal(raw, &counts); err != nil {
    c.log.Warn("bad reaction count cache payload", "lecture_id", lectureID, "error", err)
    return nil, false
  }
  return counts, true
}

func (c *reactionCountCache) SetCounts(ctx context.Context, lectureID string, counts map[uuid.UUID]int64) {
  if c == nil || c.rdb == nil {
    return
  }
  raw, err := json.Marshal(counts)
  if err != nil {
    return
  }
  if err := c.rdb.Set(ctx, cacheKey(lectureID), raw, c.ttl).Err(); err != nil {
    c.log.Warn("reaction count cache write failed", "lecture_id", lectureID, "error", err)
  }
}

func (c *reactionCountCache) Invalidate(ctx context.Context, lectureID string) {
  if c == nil || c.rdb == nil {
    return
  }
  if err := c.rdb.Del(ctx, cacheKey(lectureID)).Err(); err != nil {
    c.log.Warn("reaction count cache invalidate failed", "lecture_id", lectureID, "error", err)
  }
}

func (c *reactionCountCache) Close() error {
  if c == nil || c.rdb == nil {
    return nil
  }
  return c.rdb.Close()
}
