package main

import (
	"context"
	"crm-file-server/config"
	_ "crm-file-server/docs"
	"crm-file-server/internal/handler"
	"crm-file-server/internal/repository"
	"crm-file-server/internal/security"
	"crm-file-server/internal/service"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title CRM File Server
// @version 1.0
// @description REST API реестра файлов CRM: версии документов, привязки к сущностям и выдача ссылок на загрузку и просмотр

// @host localhost:8080

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	db, err := config.SetupDatabase(cfg.DatabaseConfig.DSN)
	if err != nil {
		log.Fatalf("Не удалось подключиться к БД: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Ошибка при закрытии БД: %v", err)
		}
	}()

	redisClient, err := config.SetupRedis(&cfg.RedisConfig)
	if err != nil {
		log.Fatalf("Ошибка подключения к Redis: %v", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Printf("Ошибка при закрытии Redis: %v", err)
		}
	}()

	srv, router := config.SetupServer(cfg.ServerAddr)

	fileRepo := repository.NewFileRepository(db)
	linkRepo := repository.NewLinkRepository(db)
	crmRepo := repository.NewCRMRepository(db)
	userRepo := repository.NewUserRepository(db)
	handleRepo := repository.NewHandleRepository(redisClient)

	s3Service, err := service.NewS3Service(ctx, &cfg.S3Config)
	if err != nil {
		log.Fatalf("Ошибка создания S3 сервиса: %v", err)
	}

	accessService := service.NewAccessService(
		fileRepo,
		handleRepo,
		s3Service,
		cfg.S3Config.Bucket,
		time.Duration(cfg.TTL.UploadURL)*time.Second,
		time.Duration(cfg.TTL.ViewURL)*time.Second,
	)
	fileService := service.NewFileService(fileRepo, linkRepo, handleRepo, accessService)
	linkService := service.NewLinkService(linkRepo, fileRepo, crmRepo, userRepo)

	jwtService := security.NewJWTService(&cfg.JWT)

	fileHandler := handler.NewFileHandler(fileService, accessService)
	linkHandler := handler.NewLinkHandler(linkService)

	router.Use(config.DBMiddleware(db))
	router.Get("/swagger/*", httpSwagger.WrapHandler)

	setupFileRoutes(router, fileHandler, linkHandler, jwtService, cfg)
	setupLinkRoutes(router, linkHandler, jwtService, cfg)

	runServer(ctx, srv)
}

func setupFileRoutes(r chi.Router, h *handler.FileHandler, lh *handler.LinkHandler, jwtService *security.JWTService, cfg *config.AppConfig) {
	r.Route("/api/files", func(r chi.Router) {
		r.Use(security.JWTMiddleware([]byte(cfg.JWT.SecretKey), jwtService))
		r.Post("/", h.CreateFile)
		r.Get("/related", lh.RelatedFiles)

		r.Route("/{file_id}", func(r chi.Router) {
			r.Patch("/", h.UpdateFile)
			r.Delete("/", h.DeleteFile)
			r.Get("/versions", h.ListVersions)
			r.Post("/versions", h.CreateNewVersion)
			r.Get("/view-url", h.GetViewURL)
		})
	})
}

func setupLinkRoutes(r chi.Router, h *handler.LinkHandler, jwtService *security.JWTService, cfg *config.AppConfig) {
	r.Route("/api/links", func(r chi.Router) {
		r.Use(security.JWTMiddleware([]byte(cfg.JWT.SecretKey), jwtService))
		r.Post("/", h.CreateLink)
		r.Get("/{entity_type}/{entity_id}", h.ListLinksForEntity)
	})
}

func runServer(ctx context.Context, server *http.Server) {
	serverErrors := make(chan error, 1)
	go func() {
		log.Println("сервер запущен на " + server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	signalChannel := make(chan os.Signal, 1)
	signal.Notify(signalChannel, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil {
			log.Fatalf("ошибка работы сервера: %v", err)
		}
	case sig := <-signalChannel:
		log.Printf("получен сигнал %v остановки работы сервера ", sig)
	}

	shutDownCtx, shutDownCancel := context.WithTimeout(ctx, 5*time.Second)
	defer shutDownCancel()

	if err := server.Shutdown(shutDownCtx); err != nil {
		log.Printf("ошибка при остановке сервера: %v", err)
	} else {
		log.Println("Сервер успешно остановлен")
	}
}
