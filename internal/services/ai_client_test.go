package services

import (
  "context"
  "encoding/json"
  "errors"
  "fmt"
  "net/http"
  "net/http/httptest"
  "sync"
  "testing"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/yungbote/lecturebridge-backend/internal/apperr"
  "github.com/yungbote/lecturebridge-backend/internal/logger"
  "github.com/yungbote/lecturebridge-backend/internal/types"
)

type fakeCallLogRepo struct {
  mu   sync.Mutex
  logs []*types.AICallLog
}

func (f *fakeCallLogRepo) Create(ctx context.Context, tx *gorm.DB, logs []*types.AICallLog) ([]*types.AICallLog, error) {
  f.mu.Lock()
  defer f.mu.Unlock()
  f.logs = append(f.logs, logs...)
  return logs, nil
}

func responsesBody(revisions string) string {
  body := map[string]any{
    "output": []map[string]any{
      {
        "type": "message",
        "role": "assistant",
        "content": []map[string]any{
          {"type": "output_text", "text": revisions},
        },
      },
    },
  }
  raw, _ := json.Marshal(body)
  return string(raw)
}

func newAIClientAgainst(t *testing.T, url string, callLogs *fakeCallLogRepo) RevisionProposer {
  t.Helper()
  t.Setenv("OPENAI_API_KEY", "test-key")
  t.Setenv("OPENAI_BASE_URL", url)
  t.Setenv("OPENAI_MAX_RETRIES", "0")
  log, err := logger.New("test")
  if err != nil {
    t.Fatalf("logger.New: %v", err)
  }
  client, err := NewAIClient(log, callLogs)
  if err != nil {
    t.Fatalf("NewAIClient: %v", err)
  }
  return client
}

func TestProposeRevisionsParsesStructuredOutput(t *testing.T) {
  lecture := makeLecture(uuid.New(), "intro text")
  sec := lecture.Sections[0]

  server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
    if r.URL.Path != "/v1/responses" {
      t.Errorf("path: got=%q", r.URL.Path)
    }
    if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
      t.Errorf("auth header: got=%q", got)
    }
    payload := fmt.Sprintf(`{"revisions":[{"section_id":%q,"revised_text":"clearer intro"}]}`, sec.ID)
    fmt.Fprint(w, responsesBody(payload))
  }))
  defer server.Close()

  callLogs := &fakeCallLogRepo{}
  client := newAIClientAgainst(t, server.URL, callLogs)

  revisions, err := client.ProposeRevisions(context.Background(), lecture, lecture.Sections, nil)
  if err != nil {
    t.Fatalf("ProposeRevisions: %v", err)
  }
  if len(revisions) != 1 {
    t.Fatalf("revisions: want=1 got=%d", len(revisions))
  }
  if revisions[0].SectionID != sec.ID || revisions[0].RevisedText != "clearer intro" {
    t.Fatalf("revision: %+v", revisions[0])
  }

  if len(callLogs.logs) != 1 {
    t.Fatalf("call log entries: want=1 got=%d", len(callLogs.logs))
  }
  if !callLogs.logs[0].Success {
    t.Fatalf("call log should record success")
  }
  if callLogs.logs[0].LectureID != lecture.ID {
    t.Fatalf("call log lecture id: want=%q got=%q", lecture.ID, callLogs.logs[0].LectureID)
  }
}

func TestProposeRevisionsRejectsUnknownSectionID(t *testing.T) {
  lecture := makeLecture(uuid.New(), "intro text")

  server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
    payload := fmt.Sprintf(`{"revisions":[{"section_id":%q,"revised_text":"made up"}]}`, uuid.New())
    fmt.Fprint(w, responsesBody(payload))
  }))
  defer server.Close()

  callLogs := &fakeCallLogRepo{}
  client := newAIClientAgainst(t, server.URL, callLogs)

  _, err := client.ProposeRevisions(context.Background(), lecture, lecture.Sections, nil)
  if !errors.Is(err, apperr.ErrExternalService) {
    t.Fatalf("unknown section id: want ErrExternalService got %v", err)
  }
  if len(callLogs.logs) != 1 || callLogs.logs[0].Success {
    t.Fatalf("failed call must be logged as failure")
  }
}

func TestProposeRevisionsUpstreamErrorWrapped(t *testing.T) {
  server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
    http.Error(w, `{"error":"bad request"}`, http.StatusBadRequest)
  }))
  defer server.Close()

  lecture := makeLecture(uuid.New(), "intro text")
  client := newAIClientAgainst(t, server.URL, &fakeCallLogRepo{})

  _, err := client.ProposeRevisions(context.Background(), lecture, lecture.Sections, nil)
  if !errors.Is(err, apperr.ErrExternalService) {
    t.Fatalf("upstream 400: want ErrExternalService got %v", err)
  }
}

func TestProposeRevisionsSkipsBlankRewrites(t *testing.T) {
  lecture := makeLecture(uuid.New(), "intro text", "big-o text")
  keep, blank := lecture.Sections[0], lecture.Sections[1]

  server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
    payload := fmt.Sprintf(`{"revisions":[{"section_id":%q,"revised_text":"clearer intro"},{"section_id":%q,"revised_text":"  "}]}`, keep.ID, blank.ID)
    fmt.Fprint(w, responsesBody(payload))
  }))
  defer server.Close()

  client := newAIClientAgainst(t, server.URL, &fakeCallLogRepo{})

  revisions, err := client.ProposeRevisions(context.Background(), lecture, lecture.Sections, nil)
  if err != nil {
    t.Fatalf("ProposeRevisions: %v", err)
  }
  if len(revisions) != 1 || revisions[0].SectionID != keep.ID {
    t.Fatalf("blank rewrite should be dropped: %+v", revisions)
  }
}

func TestNewAIClientRequiresAPIKey(t *testing.T) {
  t.Setenv("OPENAI_API_KEY", "")
  log, err := logger.New("test")
  if err != nil {
    t.Fatalf("logger.New: %v", err)
  }
  if _, err := NewAIClient(log, nil); err == nil {
    t.Fatalf("NewAIClient without key should fail")
  }
}
