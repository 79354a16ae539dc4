package handlers

import (
  "fmt"
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/yungbote/lecturebridge-backend/internal/services"
)

type TeacherHandler struct {
  lectures    services.LectureService
  reactions   services.ReactionService
  suggestions services.SuggestionService
}

func NewTeacherHandler(
  lectures services.LectureService,
  reactions services.ReactionService,
  suggestions services.SuggestionService,
) *TeacherHandler {
  return &TeacherHandler{
    lectures:    lectures,
    reactions:   reactions,
    suggestions: suggestions,
  }
}

// GET /api/teacher/:teacherId/lectures
func (h *TeacherHandler) ListLectures(c *gin.Context) {
  teacherID, err := uuid.Parse(c.Param("teacherId"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid teacher id"))
    return
  }

  lectures, err := h.lectures.LecturesForTeacher(c.Request.Context(), teacherID)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"lectures": lectures})
}

// GET /api/teacher/:teacherId/lectures/:lectureId/comments
func (h *TeacherHandler) CommentsForLecture(c *gin.Context) {
  teacherID, err := uuid.Parse(c.Param("teacherId"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid teacher id"))
    return
  }
  lectureID := c.Param("lectureId")

  if _, err := h.lectures.LectureForTeacher(c.Request.Context(), teacherID, lectureID); err != nil {
    RespondServiceError(c, err)
    return
  }

  reactions, err := h.reactions.ReactionsForLecture(c.Request.Context(), lectureID)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  suggestions, err := h.suggestions.SuggestionsForLecture(c.Request.Context(), lectureID)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"reactions": reactions, "suggestions": suggestions})
}

// POST /api/teacher/suggestions/:id/approve
func (h *TeacherHandler) ApproveSuggestion(c *gin.Context) {
  suggestionID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid suggestion id"))
    return
  }

  suggestion, staged, err := h.suggestions.Approve(c.Request.Context(), suggestionID)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"suggestion": suggestion, "stagedUpdate": staged})
}

// POST /api/teacher/suggestions/:id/reject
func (h *TeacherHandler) RejectSuggestion(c *gin.Context) {
  suggestionID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid suggestion id"))
    return
  }

  suggestion, err := h.suggestions.Reject(c.Request.Context(), suggestionID)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"suggestion": suggestion})
}

// POST /api/teacher/:teacherId/lectures/:lectureId/publish
func (h *TeacherHandler) PublishLecture(c *gin.Context) {
  teacherID, err := uuid.Parse(c.Param("teacherId"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid teacher id"))
    return
  }
  lectureID := c.Param("lectureId")

  result, err := h.suggestions.Publish(c.Request.Context(), teacherID, lectureID)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, result)
}
