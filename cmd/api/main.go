package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/examportal-api/internal/config"
	"github.com/yourusername/examportal-api/internal/handler"
	"github.com/yourusername/examportal-api/internal/middleware"
	"github.com/yourusername/examportal-api/internal/repository/postgres"
	redisrepo "github.com/yourusername/examportal-api/internal/repository/redis"
	"github.com/yourusername/examportal-api/internal/service"
	"github.com/yourusername/examportal-api/internal/websocket"
	"github.com/yourusername/examportal-api/pkg/auth"
	"github.com/yourusername/examportal-api/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Подключаемся к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to run migrations: %v", err)
		os.Exit(1)
	}

	// Подключаемся к Redis
	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	userRepo := postgres.NewUserRepo(db)
	examRepo := postgres.NewExamRepo(db)
	submissionRepo := postgres.NewSubmissionRepo(db)

	cacheRepo, err := redisrepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize cache repository: %v", err)
		os.Exit(1)
	}

	// Инициализируем JWT сервис
	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs)
	if err != nil {
		log.Printf("Failed to initialize JWTService: %v", err)
		os.Exit(1)
	}

	// WebSocket-хаб мониторинга экзаменов
	hub := websocket.NewHub()
	go hub.Run()

	// Инициализируем сервисы
	authService := service.NewAuthService(userRepo, jwtService)
	userService := service.NewUserService(userRepo)
	examService := service.NewExamService(examRepo)
	submissionService := service.NewSubmissionService(examRepo, submissionRepo, cacheRepo, service.SystemClock(), hub)
	analyticsService := service.NewAnalyticsService(examRepo, submissionRepo)

	// Инициализируем обработчики
	authHandler := handler.NewAuthHandler(authService, userService)
	examHandler := handler.NewExamHandler(examService)
	submissionHandler := handler.NewSubmissionHandler(submissionService, examService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)
	wsHandler := handler.NewWSHandler(hub, jwtService)

	// Инициализируем middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	isProduction := os.Getenv("GIN_MODE") == "release"

	// Инициализируем роутер Gin
	router := gin.Default()

	// Настройка доверенных прокси для корректной работы c.ClientIP()
	// В production (GIN_MODE=release): не доверяем прокси (защита от IP spoofing)
	// При деплое за load balancer: добавьте IP балансировщика в список
	if isProduction {
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Настраиваем маршруты API
	api := router.Group("/api")
	{
		// Аутентификация
		authGroup := api.Group("/auth")
		authGroup.Use(rateLimiter.Limit(middleware.StrictAuthRateLimitConfig()))
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		// Пользователи
		users := api.Group("/users")
		users.Use(authMiddleware.RequireAuth())
		{
			users.GET("/me", authHandler.Me)
		}

		// Экзамены
		exams := api.Group("/exams")
		exams.Use(authMiddleware.RequireAuth())
		{
			exams.GET("", examHandler.ListExams)
			exams.POST("", authMiddleware.TeacherOnly(), examHandler.CreateExam)

			// Группа маршрутов, требующих examID
			examWithID := exams.Group("/:id")
			examWithID.Use(middleware.ExtractUintParam("id", "examID"))
			{
				examWithID.GET("", examHandler.GetExam)
				examWithID.GET("/questions", examHandler.GetExamQuestions)
				examWithID.GET("/my-submission", submissionHandler.GetMySubmission)

				// Отправка решения (с лимитом частоты против скриптовых дублей)
				examWithID.POST("/submit",
					rateLimiter.Limit(middleware.SubmitRateLimitConfig(cfg.RateLimit.SubmitPerMinute)),
					submissionHandler.Submit,
				)
				examWithID.POST("/warnings", submissionHandler.RegisterWarning)

				// Маршруты для преподавателей
				teacherExams := examWithID.Group("")
				teacherExams.Use(authMiddleware.TeacherOnly())
				{
					teacherExams.POST("/questions", examHandler.UploadQuestions)
					teacherExams.PUT("/schedule", examHandler.ScheduleExam)
					teacherExams.PUT("/start", examHandler.StartExam)
					teacherExams.PUT("/complete", examHandler.CompleteExam)
					teacherExams.PUT("/cancel", examHandler.CancelExam)
					teacherExams.GET("/submissions", submissionHandler.ListExamSubmissions)
					teacherExams.GET("/submissions/export", submissionHandler.ExportExamSubmissions)
					teacherExams.GET("/analytics", analyticsHandler.GetExamAnalytics)
				}
			}
		}
	}

	// WebSocket маршрут мониторинга (аутентификация через query-параметр внутри обработчика)
	router.GET("/ws/monitor", wsHandler.Monitor)

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	// Ожидаем сигнал остановки
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Контекст с таймаутом для graceful shutdown сервера
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	if err := redisClient.Close(); err != nil {
		log.Printf("Error closing Redis client: %v", err)
	}

	if sqlDB, err := database.GetSQLDB(db); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("Error closing database connection: %v", err)
		}
	}

	log.Println("Server exited")
}
