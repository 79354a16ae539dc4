package server

import (
  "github.com/gin-contrib/cors"
  "github.com/gin-gonic/gin"
  "go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

  "github.com/yungbote/lecturebridge-backend/internal/handlers"
)

type RouterConfig struct {
  LectureHandler *handlers.LectureHandler
  StudentHandler *handlers.StudentHandler
  TeacherHandler *handlers.TeacherHandler
  AIHandler      *handlers.AIHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()

  // Cors
  router.Use(cors.New(cors.Config{
    AllowOrigins: []string{
      "http://localhost:80",
      "http://localhost:3000",
      "http://localhost:5174",
    },
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))
  router.Use(otelgin.Middleware("lecturebridge-backend"))

  router.GET("/healthcheck", handlers.HealthCheck)
  router.GET("/", handlers.HealthCheck)

  api := router.Group("/api")
  {
    // Lectures
    api.GET("/lectures/:id", cfg.LectureHandler.GetLecture)
    api.POST("/lectures", cfg.LectureHandler.CreateLecture)

    // Student
    api.GET("/student/:userId/lectures/recent", cfg.StudentHandler.RecentLectures)
    api.GET("/student/:userId/lectures/:lectureId/comments", cfg.StudentHandler.CommentsByLecture)
    api.POST("/reactions", cfg.StudentHandler.CreateReaction)

    // Teacher
    api.GET("/teacher/:teacherId/lectures", cfg.TeacherHandler.ListLectures)
    api.GET("/teacher/:teacherId/lectures/:lectureId/comments", cfg.TeacherHandler.CommentsForLecture)
    api.POST("/teacher/suggestions/:id/approve", cfg.TeacherHandler.ApproveSuggestion)
    api.POST("/teacher/suggestions/:id/reject", cfg.TeacherHandler.RejectSuggestion)
    api.POST("/teacher/:teacherId/lectures/:lectureId/publish", cfg.TeacherHandler.PublishLecture)

    // AI
    api.POST("/ai/generate-suggestions", cfg.AIHandler.GenerateSuggestions)
  }

  return router
}
