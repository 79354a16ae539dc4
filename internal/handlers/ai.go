package handlers

import (
  "fmt"
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/yungbote/lecturebridge-backend/internal/services"
)

type AIHandler struct {
  suggestions services.SuggestionService
}

func NewAIHandler(suggestions services.SuggestionService) *AIHandler {
  return &AIHandler{suggestions: suggestions}
}

type generateSuggestionsRequest struct {
  LectureID  string   `json:"lectureId"`
  SectionIDs []string `json:"sectionIds"`
}

// POST /api/ai/generate-suggestions
func (h *AIHandler) GenerateSuggestions(c *gin.Context) {
  var req generateSuggestionsRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", err)
    return
  }
  if req.LectureID == "" {
    RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("missing lecture id"))
    return
  }

  sectionIDs := make([]uuid.UUID, 0, len(req.SectionIDs))
  for _, raw := range req.SectionIDs {
    sectionID, err := uuid.Parse(raw)
    if err != nil {
      RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid section id %q", raw))
      return
    }
    sectionIDs = append(sectionIDs, sectionID)
  }

  created, err := h.suggestions.GenerateForLecture(c.Request.Context(), req.LectureID, sectionIDs)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"createdSuggestions": created})
}
