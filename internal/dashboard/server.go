package dashboard

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"io"
	"log"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"cloudtrail-explorer/internal/facet"
	"cloudtrail-explorer/internal/ingest"
	"cloudtrail-explorer/internal/metrics"
	"cloudtrail-explorer/internal/output"
	"cloudtrail-explorer/internal/types"
)

//go:embed templates/*
var templatesFS embed.FS

const (
	maxUploadBytes = 256 << 20
	uploadName     = "upload.json"

	shutdownTimeout = 5 * time.Second
)

// Server represents the dashboard HTTP server
type Server struct {
	engine   *gin.Engine
	store    EventStore
	mode     types.TimeMode
	pageSize types.PageSize
	port     string
}

// NewServer creates a new dashboard server
func NewServer(store EventStore, mode types.TimeMode, pageSize types.PageSize, port string) (*Server, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.SetHTMLTemplate(tmpl)

	s := &Server{
		engine:   engine,
		store:    store,
		mode:     mode,
		pageSize: pageSize,
		port:     port,
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	// Web UI
	s.engine.GET("/", s.handleDashboard)
	s.engine.GET("/healthz", s.handleHealth)

	// API endpoints
	api := s.engine.Group("/api/v1")
	api.GET("/events", s.handleAPIEvents)
	api.GET("/events/:index", s.handleAPIEvent)
	api.GET("/stats", s.handleAPIStats)
	api.GET("/suggestions/:field", s.handleAPISuggestions)
	api.POST("/documents", s.handleAPILoad)
	api.DELETE("/documents", s.handleAPIClear)

	s.engine.GET("/ws", s.handleWebSocket)
	s.engine.GET("/metrics", gin.WrapH(metrics.Handler()))
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start starts the HTTP server and shuts it down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{Addr: s.port, Handler: s.engine}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[DASHBOARD] Shutdown failed: %v", err)
		}
	}()

	log.Printf("[DASHBOARD] Starting on %s", s.port)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// handleDashboard renders the main dashboard page
func (s *Server) handleDashboard(c *gin.Context) {
	req, err := parseRequest(c, s.pageSize)
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	res, snap := s.store.Query(req)

	suggestions := make(map[string][]string)
	if snap != nil {
		for f, values := range snap.Suggestions {
			suggestions[string(f)] = values
		}
	}

	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"Stats":       statsOf(snap, s.mode),
		"Results":     output.ResultsLine(res),
		"PageLine":    output.PageLine(res.Page),
		"Events":      recordsOf(res.Page.Rows, s.mode),
		"Request":     req,
		"PageSize":    req.PageSize.String(),
		"Prev":        max(1, res.Page.Number-1),
		"Next":        min(res.Page.TotalPages, res.Page.Number+1),
		"Fields":      types.SortableFields,
		"Suggestions": suggestions,
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	snap := s.store.Snapshot()
	body := gin.H{"status": "ok", "loaded": snap != nil}
	if snap != nil {
		body["snapshotId"] = snap.ID
		body["events"] = len(snap.Rows)
	}
	c.JSON(http.StatusOK, body)
}

// handleAPIEvents returns one page of the filtered, sorted events
func (s *Server) handleAPIEvents(c *gin.Context) {
	req, err := parseRequest(c, s.pageSize)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, snap := s.store.Query(req)
	body := gin.H{
		"page":       res.Page.Number,
		"pageSize":   res.Page.Size,
		"totalPages": res.Page.TotalPages,
		"matched":    res.Matched,
		"total":      res.Total,
		"sort":       req.Sort,
		"criteria":   req.Criteria,
		"rows":       res.Page.Rows,
	}
	if snap != nil {
		body["snapshotId"] = snap.ID
	}
	c.JSON(http.StatusOK, body)
}

// handleAPIEvent returns the detail view of a single event
func (s *Server) handleAPIEvent(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event index"})
		return
	}
	row, ok := s.store.Row(index)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}

	d := output.Describe(row)
	c.JSON(http.StatusOK, gin.H{
		"index": d.Index,
		"hint":  d.Hint,
		"json":  d.JSON,
		"event": row.Raw,
	})
}

// handleAPIStats returns statistics as JSON
func (s *Server) handleAPIStats(c *gin.Context) {
	c.JSON(http.StatusOK, statsOf(s.store.Snapshot(), s.mode))
}

// handleAPISuggestions returns the distinct values of a filterable field
func (s *Server) handleAPISuggestions(c *gin.Context) {
	field, err := types.ParseField(c.Param("field"))
	if err != nil || !slices.Contains(facet.SuggestionFields, field) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no suggestions for field " + strconv.Quote(c.Param("field"))})
		return
	}

	values := []string{}
	if snap := s.store.Snapshot(); snap != nil && snap.Suggestions[field] != nil {
		values = snap.Suggestions[field]
	}
	c.JSON(http.StatusOK, gin.H{"field": field, "values": values})
}

// handleAPILoad ingests the request body as a new document
func (s *Server) handleAPILoad(c *gin.Context) {
	text, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes))
	if err != nil {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
		return
	}
	name := c.DefaultQuery("name", uploadName)

	snap, err := s.store.Load(name, text, true)
	if err != nil {
		var invalid *ingest.InvalidJSONError
		var malformed *ingest.MalformedInputError
		if errors.As(err, &invalid) || errors.As(err, &malformed) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	log.Printf("[DASHBOARD] Loaded %s (%d events)", name, snap.Summary.Total)
	c.JSON(http.StatusCreated, statsOf(snap, s.mode))
}

// handleAPIClear drops the loaded document and its cached copy
func (s *Server) handleAPIClear(c *gin.Context) {
	s.store.Clear()
	c.Status(http.StatusNoContent)
}
