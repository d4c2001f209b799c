package server

import (
	"net/http"
	"time"

	"pig-parade/internal/config"
	"pig-parade/internal/db"
	"pig-parade/internal/geo"
	"pig-parade/internal/metrics"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	rateLimitWindow         = 10 * time.Minute
	maxSubmissionsPerWindow = 3
	maxCommentsPerWindow    = 5
)

type Server struct {
	db             *gorm.DB
	cfg            config.Config
	resolver       *geo.Resolver
	log            *zap.SugaredLogger
	submitLimiter  *db.RateLimiter
	commentLimiter *db.RateLimiter
}

func New(conn *gorm.DB, cfg config.Config, resolver *geo.Resolver, logger *zap.SugaredLogger) *Server {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if resolver == nil {
		resolver, _ = geo.Open("")
	}
	metrics.Init()
	return &Server{
		db:             conn,
		cfg:            cfg,
		resolver:       resolver,
		log:            logger,
		submitLimiter:  db.NewRateLimiter(conn, "submission_logs", rateLimitWindow, maxSubmissionsPerWindow),
		commentLimiter: db.NewRateLimiter(conn, "comment_submission_logs", rateLimitWindow, maxCommentsPerWindow),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/pigs", s.handleSubmitPig)
	mux.HandleFunc("GET /api/pigs", s.handleListPigs)
	mux.HandleFunc("GET /api/pigs/{id}", s.handleGetPig)
	mux.HandleFunc("POST /api/pigs/{id}/like", s.handleLikePig)
	mux.HandleFunc("DELETE /api/pigs/{id}", s.handleDeletePig)
	mux.HandleFunc("GET /api/pigs/{id}/comments", s.handleListComments)
	mux.HandleFunc("POST /api/pigs/{id}/comments", s.handleAddComment)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /api/events", s.handleListEvents)
	mux.HandleFunc("POST /api/ai/generate", s.handleGenerate)
	mux.Handle("GET /metrics", metrics.Handler())
	mux.Handle("GET /", http.FileServer(http.Dir(s.cfg.StaticDir)))
	return s.requestLogger(metrics.Middleware(mux))
}
