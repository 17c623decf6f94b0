package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/yt-filter/internal/config"
	"github.com/yt-filter/internal/export"
	"github.com/yt-filter/internal/filter"
	"github.com/yt-filter/internal/models"
)

// Server represents the API server
type Server struct {
	router *gin.Engine
	filter *filter.Filter
	store  filter.RunStore
	cfg    *config.Config
}

// NewServer creates a new API server. store may be nil when the archive is disabled.
func NewServer(cfg *config.Config, platform filter.Platform, store filter.RunStore) *Server {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", "Pragma"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	server := &Server{
		router: router,
		filter: filter.New(platform),
		store:  store,
		cfg:    cfg,
	}

	server.setupRoutes()

	return server
}

// setupRoutes configures all the routes for the server
func (s *Server) setupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	s.router.GET("/videos", s.getVideos)
	s.router.GET("/videos/export/:format", s.exportVideos)
	s.router.GET("/runs/latest", s.getLatestRun)
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the server on the configured port
func (s *Server) Start() error {
	log.Info().Str("port", s.cfg.Port).Msg("Server starting")
	return s.router.Run(":" + s.cfg.Port)
}

// VideosResponse is the body of GET /videos
type VideosResponse struct {
	Channel    models.Channel       `json:"channel"`
	PlaylistID string               `json:"playlistId"`
	Videos     []models.VideoRecord `json:"videos"`
	Summary    models.RunSummary    `json:"summary"`
}

// getVideos runs the filter for the query parameters and returns the ordered videos
func (s *Server) getVideos(c *gin.Context) {
	result, ok := s.run(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, VideosResponse{
		Channel:    result.Channel,
		PlaylistID: result.PlaylistID,
		Videos:     result.Sorted(),
		Summary:    result.Summary,
	})
}

// exportVideos runs the filter and renders one exporter into the response
func (s *Server) exportVideos(c *gin.Context) {
	format, err := export.ParseFormat(c.Param("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, ok := s.run(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, result.Videos, result.Order); err != nil {
		if errors.Is(err, models.ErrEmptyResultExport) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(result.Channel.Title, format)))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

// getLatestRun returns the most recent archived run for ?channel=
func (s *Server) getLatestRun(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "run archive is not configured"})
		return
	}

	channel := c.Query("channel")
	if channel == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "channel query parameter is required"})
		return
	}

	run, err := s.store.GetLatestRun(channel)
	if err != nil {
		if errors.Is(err, models.ErrRunNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, run)
}

// run parses the query, executes the filter and archives the result.
// It writes the error response itself and reports whether to continue.
func (s *Server) run(c *gin.Context) (*filter.Result, bool) {
	opts, err := s.optionsFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	result, err := s.filter.Run(c.Request.Context(), opts)
	if err != nil {
		log.Error().Err(err).Str("url", opts.Link).Msg("Filter run failed")
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return nil, false
	}

	if s.store != nil {
		if err := s.store.StoreRun(result.Record()); err != nil {
			log.Error().Err(err).Msg("Failed to store filter run")
		}
	}
	return result, true
}

// optionsFromQuery reads the run configuration from query parameters
func (s *Server) optionsFromQuery(c *gin.Context) (filter.Options, error) {
	link := c.Query("url")
	if link == "" {
		return filter.Options{}, fmt.Errorf("url query parameter is required")
	}

	opts := filter.DefaultOptions(link)
	opts.Concurrency = s.cfg.Concurrency

	if v := c.Query("minViews"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return opts, fmt.Errorf("invalid minViews: %w", err)
		}
		opts.Criteria.MinViews = n
	}
	if v := c.Query("maxViews"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return opts, fmt.Errorf("invalid maxViews: %w", err)
		}
		opts.Criteria.MaxViews = n
	}
	if v := c.Query("minDate"); v != "" {
		d, err := models.ParseDate(v)
		if err != nil {
			return opts, fmt.Errorf("invalid minDate: %w", err)
		}
		opts.Criteria.MinDate = d
	}
	if v := c.Query("maxDate"); v != "" {
		d, err := models.ParseDate(v)
		if err != nil {
			return opts, fmt.Errorf("invalid maxDate: %w", err)
		}
		opts.Criteria.MaxDate = d
	}

	switch c.Query("sortBy") {
	case "", "views":
		opts.Sort.By = models.SortByViews
	case "date":
		opts.Sort.By = models.SortByDate
	default:
		return opts, fmt.Errorf("invalid sortBy %q", c.Query("sortBy"))
	}

	for key, target := range map[string]*bool{
		"ascending": &opts.Sort.Ascending,
		"earlyStop": &opts.EarlyStop,
		"useList":   &opts.UseListPlaylist,
	} {
		if v := c.Query(key); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return opts, fmt.Errorf("invalid %s: %w", key, err)
			}
			*target = b
		}
	}

	return opts, nil
}

// statusFor maps run errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrWrongLink):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrMalformedResponse), errors.Is(err, models.ErrTransportFailure):
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}
