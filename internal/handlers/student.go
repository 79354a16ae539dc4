package handlers

import (
  "fmt"
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/yungbote/lecturebridge-backend/internal/services"
)

type StudentHandler struct {
  lectures  services.LectureService
  reactions services.ReactionService
}

func NewStudentHandler(lectures services.LectureService, reactions services.ReactionService) *StudentHandler {
  return &StudentHandler{lectures: lectures, reactions: reactions}
}

// GET /api/student/:userId/lectures/recent
func (h *StudentHandler) RecentLectures(c *gin.Context) {
  userID, err := uuid.Parse(c.Param("userId"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid user id"))
    return
  }

  lectures, err := h.lectures.RecentLecturesForStudent(c.Request.Context(), userID)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"lectures": lectures})
}

// GET /api/student/:userId/lectures/:lectureId/comments
func (h *StudentHandler) CommentsByLecture(c *gin.Context) {
  userID, err := uuid.Parse(c.Param("userId"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid user id"))
    return
  }
  lectureID := c.Param("lectureId")

  if _, err := h.lectures.GetLecture(c.Request.Context(), lectureID); err != nil {
    RespondServiceError(c, err)
    return
  }

  reactions, err := h.reactions.ReactionsByUserAndLecture(c.Request.Context(), userID, lectureID)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"reactions": reactions})
}

type createReactionRequest struct {
  UserID    string `json:"userId"`
  LectureID string `json:"lectureId"`
  SectionID string `json:"sectionId"`
  Type      string `json:"type"`
  Comment   string `json:"comment"`
}

// POST /api/reactions
func (h *StudentHandler) CreateReaction(c *gin.Context) {
  var req createReactionRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", err)
    return
  }
  userID, err := uuid.Parse(req.UserID)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid user id"))
    return
  }
  sectionID, err := uuid.Parse(req.SectionID)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid section id"))
    return
  }

  reaction, err := h.reactions.CreateReaction(c.Request.Context(), userID, req.LectureID, sectionID, req.Type, req.Comment)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondCreated(c, reaction)
}
