package handlers

import (
  "fmt"
  "net/http"
  "strings"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/yungbote/lecturebridge-backend/internal/services"
)

type LectureHandler struct {
  svc services.LectureService
}

func NewLectureHandler(svc services.LectureService) *LectureHandler {
  return &LectureHandler{svc: svc}
}

// GET /api/lectures/:id
func (h *LectureHandler) GetLecture(c *gin.Context) {
  lecture, err := h.svc.GetLecture(c.Request.Context(), c.Param("id"))
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, lecture)
}

type createLectureRequest struct {
  Title     string   `json:"title"`
  Sections  []string `json:"sections"`
  TeacherID string   `json:"teacherId"`
  CourseID  string   `json:"courseId"`
}

// POST /api/lectures
func (h *LectureHandler) CreateLecture(c *gin.Context) {
  var req createLectureRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", err)
    return
  }
  if strings.TrimSpace(req.Title) == "" || len(req.Sections) == 0 || req.TeacherID == "" || req.CourseID == "" {
    RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("missing fields"))
    return
  }
  teacherID, err := uuid.Parse(req.TeacherID)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid teacher id"))
    return
  }
  courseID, err := uuid.Parse(req.CourseID)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid course id"))
    return
  }

  lecture, err := h.svc.CreateBaseLecture(c.Request.Context(), req.Title, req.Sections, teacherID, courseID)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondCreated(c, lecture)
}
