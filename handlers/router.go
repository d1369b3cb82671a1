package handlers

import (
	"io"
	"log/slog"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const defaultMaxPageSize = 100

type Options struct {
	MaxPageSize int
}

func NewRouter(log *slog.Logger, tasks Tasks, db Pinger, opts Options) *gin.Engine {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.MaxPageSize < 1 {
		opts.MaxPageSize = defaultMaxPageSize
	}

	r := gin.New()
	r.Use(gin.Recovery(), WithRequestID(), AccessLog(log), cors.Default())

	r.GET("/healthz", Healthz)
	r.GET("/readyz", Readyz(db))

	h := &TaskHandler{tasks: tasks, log: log, maxPageSize: opts.MaxPageSize}

	api := r.Group("/api/v1/tasks")
	api.POST("", h.Create)
	api.GET("", h.List)
	api.PUT("/:id", h.Update)
	api.DELETE("/:id", h.Delete)

	return r
}
