package main

import (
  "context"
  "fmt"
  "os"

  "github.com/yungbote/lecturebridge-backend/internal/clients/redis"
  "github.com/yungbote/lecturebridge-backend/internal/db"
  "github.com/yungbote/lecturebridge-backend/internal/handlers"
  "github.com/yungbote/lecturebridge-backend/internal/logger"
  "github.com/yungbote/lecturebridge-backend/internal/observability"
  "github.com/yungbote/lecturebridge-backend/internal/repos"
  "github.com/yungbote/lecturebridge-backend/internal/server"
  "github.com/yungbote/lecturebridge-backend/internal/services"
  "github.com/yungbote/lecturebridge-backend/internal/utils"
)

func main() {
  // Logger
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // Tracing
  ctx := context.Background()
  shutdownOTel := observability.InitOTel(ctx, log, observability.OtelConfig{
    ServiceName: "lecturebridge-backend",
    Environment: utils.GetEnv("APP_ENV", "development", log),
    Version:     utils.GetEnv("APP_VERSION", "dev", log),
  })
  if shutdownOTel != nil {
    defer shutdownOTel(ctx)
  }

  // Env
  log.Info("Loading environment variables from main...")
  minReactions := utils.GetEnvAsInt("MIN_REACTIONS_PER_SECTION", 2, log)

  // Postgres
  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Error("Postgres init failed", "error", err)
    os.Exit(1)
  }
  if err = postgresService.AutoMigrateAll(); err != nil {
    log.Error("Postgres auto migration failed", "error", err)
    os.Exit(1)
  }
  if err = postgresService.SeedDemoData(); err != nil {
    log.Warn("Demo data seed failed", "error", err)
  }
  thePG := postgresService.DB()

  // Redis (optional, reaction count cache)
  countCache, err := redis.NewReactionCountCache(log)
  if err != nil {
    log.Warn("Could not init reaction count cache, serving counts from postgres", "error", err)
    countCache = nil
  }
  if countCache != nil {
    defer countCache.Close()
  }

  // Repos
  log.Info("Setting up Repos from main...")
  lectureRepo := repos.NewLectureRepo(thePG, log)
  reactionRepo := repos.NewReactionRepo(thePG, log)
  suggestionRepo := repos.NewSuggestionRepo(thePG, log)
  approvedUpdateRepo := repos.NewApprovedUpdateRepo(thePG, log)
  enrollmentRepo := repos.NewEnrollmentRepo(thePG, log)
  aiCallLogRepo := repos.NewAICallLogRepo(thePG, log)

  // Services
  log.Info("Setting up Services from main...")
  proposer, err := services.NewAIClient(log, aiCallLogRepo)
  if err != nil {
    log.Warn("Could not init AI client, suggestion generation disabled", "error", err)
    proposer = nil
  }
  lectureService := services.NewLectureService(thePG, log, lectureRepo, enrollmentRepo)
  reactionService := services.NewReactionService(thePG, log, lectureRepo, reactionRepo, countCache)
  suggestionService := services.NewSuggestionService(
    thePG,
    log,
    lectureRepo,
    suggestionRepo,
    reactionRepo,
    approvedUpdateRepo,
    reactionService,
    proposer,
    minReactions,
  )

  // Handlers
  log.Info("Setting up handlers from main...")
  lectureHandler := handlers.NewLectureHandler(lectureService)
  studentHandler := handlers.NewStudentHandler(lectureService, reactionService)
  teacherHandler := handlers.NewTeacherHandler(lectureService, reactionService, suggestionService)
  aiHandler := handlers.NewAIHandler(suggestionService)

  // Router
  log.Info("Setting up router from main...")
  router := server.NewRouter(server.RouterConfig{
    LectureHandler: lectureHandler,
    StudentHandler: studentHandler,
    TeacherHandler: teacherHandler,
    AIHandler:      aiHandler,
  })

  port := utils.GetEnv("PORT", "8080", log)
  fmt.Printf("Server listening on :%s\n", port)
  if err := router.Run(":" + port); err != nil {
    log.Warn("Server failed", "error", err)
  }
}
