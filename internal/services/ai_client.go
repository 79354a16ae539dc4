package services

import (
  "bytes"
  "context"
  "encoding/json"
  "errors"
  "fmt"
  "io"
  "math/rand"
  "net"
  "net/http"
  "os"
  "strconv"
  "strings"
  "time"

  "github.com/google/uuid"
  "gorm.io/datatypes"

  "github.com/yungbote/lecturebridge-backend/internal/apperr"
  "github.com/yungbote/lecturebridge-backend/internal/logger"
  "github.com/yungbote/lecturebridge-backend/internal/repos"
  "github.com/yungbote/lecturebridge-backend/internal/types"
)

// SectionRevision is one proposed rewrite returned by the model.
type SectionRevision struct {
  SectionID   uuid.UUID
  RevisedText string
}

// RevisionProposer drafts replacement text for sections that collected
// student feedback. Fallible and possibly empty; callers treat failure
// as "zero suggestions", never as a hard error.
type RevisionProposer interface {
  ProposeRevisions(ctx context.Context, lecture *types.Lecture, candidates []*types.Section, feedback map[uuid.UUID][]*types.Reaction) ([]SectionRevision, error)
}

type aiClient struct {
  log        *logger.Logger
  callLogs   repos.AICallLogRepo
  baseURL    string
  apiKey     string
  model      string
  httpClient *http.Client

  maxRetries int
}

func NewAIClient(log *logger.Logger, callLogs repos.AICallLogRepo) (RevisionProposer, error) {
  apiKey := os.Getenv("OPENAI_API_KEY")
  if apiKey == "" {
    return nil, fmt.Errorf("missing OPENAI_API_KEY")
  }

  baseURL := os.Getenv("OPENAI_BASE_URL")
  if baseURL == "" {
    baseURL = "https://api.openai.com"
  }

  model := os.Getenv("OPENAI_MODEL")
  if model == "" {
    model = "gpt-5.2"
  }

  timeoutSec := 60
  if v := os.Getenv("OPENAI_TIMEOUT_SECONDS"); v != "" {
    if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
      timeoutSec = parsed
    }
  }

  maxRetries := 2
  if v := os.Getenv("OPENAI_MAX_RETRIES"); v != "" {
    if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed >= 0 {
      maxRetries = parsed
    }
  }

  return &aiClient{
    log:        log.With("service", "AIClient"),
    callLogs:   callLogs,
    baseURL:    baseURL,
    apiKey:     apiKey,
    model:      model,
    httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
    maxRetries: maxRetries,
  }, nil
}

type aiHTTPError struct {
  StatusCode int
  Body       string
}

func (e *aiHTTPError) Error() string {
  return fmt.Sprintf("openai http %d: %s", e.StatusCode, e.Body)
}

func isRetryableHTTP(code int) bool {
  if code == 408 || code == 429 {
    return true
  }
  if code >= 500 && code <= 599 {
    return true
  }
  return false
}

func isRetryableErr(err error) bool {
  if err == nil {
    return false
  }
  if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
    return true
  }
  var netErr net.Error
  if errors.As(err, &netErr) {
    if netErr.Timeout() {
      return true
    }
  }
  var httpErr *aiHTTPError
  if errors.As(err, &httpErr) {
    return isRetryableHTTP(httpErr.StatusCode)
  }
  return false
}

func jitterSleep(base time.Duration) time.Duration {
  // +/- 20%
  if base <= 0 {
    return 0
  }
  j := 0.2
  delta := base.Seconds() * j
  low := base.Seconds() - delta
  high := base.Seconds() + delta
  if low < 0 {
    low = 0
  }
  v := low + rand.Float64()*(high-low)
  return time.Duration(v * float64(time.Second))
}

func (c *aiClient) doOnce(ctx context.Context, method, path string, body any) (*http.Response, []byte, error) {
  var buf bytes.Buffer
  if body != nil {
    if err := json.NewEncoder(&buf).Encode(body); err != nil {
      return nil, nil, err
    }
  }

  req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
  if err != nil {
    return nil, nil, err
  }
  req.Header.Set("Authorization", "Bearer "+c.apiKey)
  req.Header.Set("Content-Type", "application/json")

  resp, err := c.httpClient.Do(req)
  if err != nil {
    return nil, nil, err
  }

  raw, readErr := io.ReadAll(resp.Body)
  _ = resp.Body.Close()
  if readErr != nil {
    return resp, nil, readErr
  }

  if resp.StatusCode < 200 || resp.StatusCode >= 300 {
    return resp, raw, &aiHTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
  }
  return resp, raw, nil
}

func (c *aiClient) do(ctx context.Context, method, path string, body any, out any) error {
  backoff := 1 * time.Second

  for attempt := 0; attempt <= c.maxRetries; attempt++ {
    if ctx.Err() != nil {
      return ctx.Err()
    }

    resp, raw, err := c.doOnce(ctx, method, path, body)
    if err == nil {
      if out == nil {
        return nil
      }
      if uErr := json.Unmarshal(raw, out); uErr != nil {
        return fmt.Errorf("openai decode error: %w; raw=%s", uErr, string(raw))
      }
      return nil
    }

    if !isRetryableErr(err) {
      return err
    }
    if attempt == c.maxRetries {
      return err
    }

    sleepFor := backoff
    if resp != nil {
      ra := strings.TrimSpace(resp.Header.Get("Retry-After"))
      if ra != "" {
        if secs, parseErr := strconv.Atoi(ra); parseErr == nil && secs > 0 {
          sleepFor = time.Duration(secs) * time.Second
        }
      }
    }
    if sleepFor > 10*time.Second {
      sleepFor = 10 * time.Second
    }
    sleepFor = jitterSleep(sleepFor)

    c.log.Warn("OpenAI request retrying",
      "path", path,
      "attempt", attempt+1,
      "max_retries", c.maxRetries,
      "sleep", sleepFor.String(),
      "error", err.Error(),
    )

    time.Sleep(sleepFor)
    backoff *= 2
  }

  return fmt.Errorf("unreachable retry loop")
}

// ---- Responses JSON (Structured Outputs via text.format json_schema) ----

type responsesRequest struct {
  Model string `json:"model"`
  Input []struct {
    Role    string `json:"role"`
    Content string `json:"content"`
  } `json:"input"`
  Text struct {
    Format map[string]any `json:"format"`
  } `json:"text"`
  Temperature float64 `json:"temperature,omitempty"`
}

type responsesResponse struct {
  Output []struct {
    Type    string `json:"type"`
    Role    string `json:"role,omitempty"`
    Content []struct {
      Type string `json:"type"`
      Text string `json:"text,omitempty"`
    } `json:"content,omitempty"`
  } `json:"output"`
  Refusal string `json:"refusal,omitempty"`
}

var revisionSchema = map[string]any{
  "type":                 "object",
  "additionalProperties": false,
  "properties": map[string]any{
    "revisions": map[string]any{
      "type": "array",
      "items": map[string]any{
        "type":                 "object",
        "additionalProperties": false,
        "properties": map[string]any{
          "section_id":   map[string]any{"type": "string"},
          "revised_text": map[string]any{"type": "string"},
        },
        "required": []string{"section_id", "revised_text"},
      },
    },
  },
  "required": []string{"revisions"},
}

const revisionSystemPrompt = "You are a teaching assistant revising lecture notes. " +
  "Students flagged the sections below with typed feedback (typo, confused, calculation_error). " +
  "Rewrite each listed section so the flagged problems are fixed while keeping the original scope and tone. " +
  "Only return revisions for the listed sections; skip a section if no improvement is warranted."

func (c *aiClient) ProposeRevisions(ctx context.Context, lecture *types.Lecture, candidates []*types.Section, feedback map[uuid.UUID][]*types.Reaction) ([]SectionRevision, error) {
  if lecture == nil || len(candidates) == 0 {
    return []SectionRevision{}, nil
  }

  user := buildRevisionPrompt(lecture, candidates, feedback)

  req := responsesRequest{
    Model: c.model,
    Input: []struct {
      Role    string `json:"role"`
      Content string `json:"content"`
    }{
      {Role: "system", Content: revisionSystemPrompt},
      {Role: "user", Content: user},
    },
    Temperature: 0.2,
  }
  req.Text.Format = map[string]any{
    "type":   "json_schema",
    "name":   "section_revisions",
    "schema": revisionSchema,
    "strict": true,
  }

  started := time.Now()
  revisions, raw, err := c.callForRevisions(ctx, req, candidates)
  c.recordCall(ctx, lecture.ID, req, raw, time.Since(started), err)
  if err != nil {
    return nil, fmt.Errorf("propose revisions: %v: %w", err, apperr.ErrExternalService)
  }
  return revisions, nil
}

func (c *aiClient) callForRevisions(ctx context.Context, req responsesRequest, candidates []*types.Section) ([]SectionRevision, []byte, error) {
  var resp responsesResponse
  if err := c.do(ctx, "POST", "/v1/responses", req, &resp); err != nil {
    return nil, nil, err
  }
  if resp.Refusal != "" {
    return nil, nil, fmt.Errorf("model refused: %s", resp.Refusal)
  }

  var jsonText string
  for _, item := range resp.Output {
    if item.Type == "message" && item.Role == "assistant" {
      for _, part := range item.Content {
        if part.Type == "output_text" && part.Text != "" {
          jsonText += part.Text
        }
      }
    }
  }
  if jsonText == "" {
    return nil, nil, fmt.Errorf("empty model output")
  }

  var parsed struct {
    Revisions []struct {
      SectionID   string `json:"section_id"`
      RevisedText string `json:"revised_text"`
    } `json:"revisions"`
  }
  if err := json.Unmarshal([]byte(jsonText), &parsed); err != nil {
    return nil, []byte(jsonText), fmt.Errorf("malformed model output: %w", err)
  }

  allowed := make(map[uuid.UUID]bool, len(candidates))
  for _, s := range candidates {
    allowed[s.ID] = true
  }

  out := make([]SectionRevision, 0, len(parsed.Revisions))
  for _, rev := range parsed.Revisions {
    sectionID, err := uuid.Parse(rev.SectionID)
    if err != nil {
      return nil, []byte(jsonText), fmt.Errorf("model returned bad section id %q", rev.SectionID)
    }
    if !allowed[sectionID] {
      return nil, []byte(jsonText), fmt.Errorf("model returned unknown section id %s", sectionID)
    }
    if strings.TrimSpace(rev.RevisedText) == "" {
      continue
    }
    out = append(out, SectionRevision{SectionID: sectionID, RevisedText: rev.RevisedText})
  }
  return out, []byte(jsonText), nil
}

func buildRevisionPrompt(lecture *types.Lecture, candidates []*types.Section, feedback map[uuid.UUID][]*types.Reaction) string {
  var b strings.Builder
  fmt.Fprintf(&b, "Lecture: %s\n\n", lecture.Title)
  for _, s := range candidates {
    fmt.Fprintf(&b, "Section %s (position %d):\n%s\n", s.ID, s.Order, s.Text)
    for _, r := range feedback[s.ID] {
      if r.Comment != "" {
        fmt.Fprintf(&b, "- feedback [%s]: %s\n", r.Type, r.Comment)
      } else {
        fmt.Fprintf(&b, "- feedback [%s]\n", r.Type)
      }
    }
    b.WriteString("\n")
  }
  return b.String()
}

func (c *aiClient) recordCall(ctx context.Context, lectureID string, req responsesRequest, rawResponse []byte, dur time.Duration, callErr error) {
  if c.callLogs == nil {
    return
  }

  reqJSON, err := json.Marshal(req)
  if err != nil {
    reqJSON = nil
  }
  entry := &types.AICallLog{
    LectureID:  lectureID,
    Model:      c.model,
    Request:    datatypes.JSON(reqJSON),
    Success:    callErr == nil,
    DurationMS: dur.Milliseconds(),
  }
  if len(rawResponse) > 0 && json.Valid(rawResponse) {
    entry.Response = datatypes.JSON(rawResponse)
  }
  if callErr != nil {
    entry.Error = callErr.Error()
  }

  if _, err := c.callLogs.Create(ctx, nil, []*types.AICallLog{entry}); err != nil {
    c.log.Warn("failed to record AI call", "lecture_id", lectureID, "error", err)
  }
}
