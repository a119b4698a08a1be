package server

import (
	"context"
	"log/slog"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"ragsearch/app/api"
	"ragsearch/config"
	"ragsearch/extract"
	"ragsearch/index"
	"ragsearch/model"
	"ragsearch/pipeline"
	"ragsearch/store"
)

var fiberConfig = fiber.Config{
	ErrorHandler: api.ErrorHandler,
}

type Server struct {
	settings *config.Settings
	logger   *slog.Logger
	vectors  index.Indexer
}

func NewServer(settings *config.Settings) *Server {
	return &Server{
		settings: settings,
		logger:   slog.Default(),
	}
}

func (s *Server) fatal(msg string, err error) {
	s.logger.Error(msg, "error", err.Error())
	os.Exit(1)
}

func (s *Server) Stop() {
	if s.vectors != nil {
		s.vectors.Close()
	}
	s.logger.Info("server stopped")
}

// Run wires the whole graph by hand, leaves first: adapters, then
// pipelines, then handlers. The vector collection is initialized before
// the listener starts accepting traffic.
func (s *Server) Run() {
	ctx := context.Background()
	cfg := s.settings

	documents, err := store.NewMinioStore(ctx, store.MinioConfig{
		Endpoint:            cfg.MinioEndpoint,
		AccessKey:           cfg.MinioAccessKey,
		SecretKey:           cfg.MinioSecretKey,
		BucketName:          cfg.MinioBucketName,
		Secure:              cfg.MinioSecure,
		SupportedExtensions: cfg.SupportedFileExtensions,
	})
	if err != nil {
		s.fatal("error to connect to MinIO storage", err)
	}

	vectors, err := index.NewPgVectorIndex(ctx, cfg.ConnString(), cfg.IndexTableName, cfg.EmbeddingDimension)
	if err != nil {
		s.fatal("error to connect to Postgres database", err)
	}
	s.vectors = vectors

	if err := vectors.Init(ctx); err != nil {
		s.fatal("error to initialize vector collection", err)
	}

	chunker, err := model.NewChunker(cfg.ChunkMaxTokens)
	if err != nil {
		s.fatal("error to initialize token chunker", err)
	}
	embedder := model.NewOllamaEmbedder(cfg.OllamaEmbeddingURL, cfg.OllamaEmbeddingModel, cfg.EmbeddingDimension, chunker)
	parser := extract.NewFileParser(cfg.SupportedFileExtensions)

	var (
		app             = fiber.New(fiberConfig)
		uploadPipeline  = pipeline.NewUploadPipeline(documents, vectors, embedder, parser)
		queryPipeline   = pipeline.NewQueryPipeline(vectors, embedder)
		documentHandler = api.NewDocumentHandler(uploadPipeline)
		queryHandler    = api.NewQueryHandler(queryPipeline)
		checkHandler    = api.NewCheckHandler(cfg.APITitle, cfg.APIVersion)
	)

	app.Use(cors.New())

	app.Get("/", checkHandler.HandleRoot)
	app.Get("/health", checkHandler.HandleHealthy)
	app.Post("/documents", documentHandler.HandleUpload)
	app.Post("/query", queryHandler.HandleQuery)

	s.logger.Info("starting server", "addr", cfg.ServerAddr, "environment", cfg.Environment)
	if err := app.Listen(cfg.ServerAddr); err != nil {
		s.logger.Error("error to start server", "error", err.Error())
		return
	}
}
