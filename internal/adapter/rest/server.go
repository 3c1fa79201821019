package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/TempAcc-hue/Financial-Portfolio/internal/adapter/dto"
	"github.com/TempAcc-hue/Financial-Portfolio/internal/domain"
	"github.com/TempAcc-hue/Financial-Portfolio/internal/usecase/importer"
	"github.com/TempAcc-hue/Financial-Portfolio/internal/usecase/news"
	"github.com/TempAcc-hue/Financial-Portfolio/internal/usecase/portfolio"
)

const dateLayout = "2006-01-02"

// Server exposes the portfolio over JSON REST
type Server struct {
	PortfolioService *portfolio.PortfolioService
	Importer         *importer.CSVImporter
	NewsService      *news.NewsService

	log    zerolog.Logger
	engine *gin.Engine
}

// NewServer creates the REST server and registers its routes
func NewServer(portfolioService *portfolio.PortfolioService, csvImporter *importer.CSVImporter, newsService *news.NewsService, log zerolog.Logger) *Server {
	if log.GetLevel() > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		PortfolioService: portfolioService,
		Importer:         csvImporter,
		NewsService:      newsService,
		log:              log.With().Str("component", "rest").Logger(),
		engine:           gin.New(),
	}

	s.engine.Use(gin.Recovery(), s.requestLogger(), cors())
	s.setupRoutes()
	return s
}

// Handler returns the HTTP handler serving every route
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) setupRoutes() {
	assets := s.engine.Group("/api/assets")
	assets.GET("", s.listHoldings)
	assets.GET("/search", s.searchHoldings)
	assets.GET("/type/:type", s.listHoldingsByType)
	assets.GET("/:id", s.getHolding)
	assets.POST("", s.createHolding)
	assets.POST("/upload", s.uploadHoldings)
	assets.PUT("/:id", s.updateHolding)
	assets.DELETE("/:id", s.deleteHolding)

	p := s.engine.Group("/api/portfolio")
	p.GET("/summary", s.getSummary)
	p.GET("/allocation", s.getAllocation)
	p.GET("/performance", s.getPerformance)

	n := s.engine.Group("/api/news")
	n.GET("/market", s.getMarketNews)
	n.GET("/company/:symbol", s.getCompanyNews)

	s.engine.GET("/api/health", s.getHealth)
}

// -----------------------------------------------------------------------------
// Middleware
// -----------------------------------------------------------------------------

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		event := s.log.Info()
		if c.Writer.Status() >= http.StatusInternalServerError {
			event = s.log.Error()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("http request")
	}
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// -----------------------------------------------------------------------------
// Asset handlers
// -----------------------------------------------------------------------------

func (s *Server) listHoldings(c *gin.Context) {
	valuations, err := s.PortfolioService.ListHoldings(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success("", dto.FromValuations(valuations)))
}

func (s *Server) getHolding(c *gin.Context) {
	id, ok := s.parseID(c)
	if !ok {
		return
	}

	v, err := s.PortfolioService.GetHolding(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success("", dto.FromValuation(v)))
}

func (s *Server) listHoldingsByType(c *gin.Context) {
	assetType, err := domain.ParseAssetType(c.Param("type"))
	if err != nil {
		s.fail(c, err)
		return
	}

	valuations, err := s.PortfolioService.ListHoldingsByType(c.Request.Context(), assetType)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success("", dto.FromValuations(valuations)))
}

func (s *Server) searchHoldings(c *gin.Context) {
	valuations, err := s.PortfolioService.SearchHoldings(c.Request.Context(), c.Query("q"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success("", dto.FromValuations(valuations)))
}

func (s *Server) createHolding(c *gin.Context) {
	draft, ok := s.bindDraft(c)
	if !ok {
		return
	}

	v, err := s.PortfolioService.CreateHolding(c.Request.Context(), draft)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.Success("Asset created successfully", dto.FromValuation(v)))
}

func (s *Server) updateHolding(c *gin.Context) {
	id, ok := s.parseID(c)
	if !ok {
		return
	}
	draft, ok := s.bindDraft(c)
	if !ok {
		return
	}

	v, err := s.PortfolioService.UpdateHolding(c.Request.Context(), id, draft)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success("Asset updated successfully", dto.FromValuation(v)))
}

func (s *Server) deleteHolding(c *gin.Context) {
	id, ok := s.parseID(c)
	if !ok {
		return
	}

	if err := s.PortfolioService.DeleteHolding(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success("Asset deleted successfully", nil))
}

// uploadHoldings imports a CSV file sent as the multipart field "file"
func (s *Server) uploadHoldings(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil || header.Size == 0 {
		c.JSON(http.StatusBadRequest, dto.Error("Empty file"))
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".csv" && ext != ".txt" {
		c.JSON(http.StatusBadRequest, dto.Error("Unsupported file type. Use CSV (or .txt)"))
		return
	}

	file, err := header.Open()
	if err != nil {
		s.fail(c, fmt.Errorf("failed to open upload: %w", err))
		return
	}
	defer file.Close()

	created, err := s.Importer.Import(c.Request.Context(), file)
	if err != nil {
		if errors.Is(err, importer.ErrEmptyFile) {
			c.JSON(http.StatusBadRequest, dto.Error("CSV has no header/rows"))
			return
		}
		c.JSON(http.StatusInternalServerError, dto.Error("Failed to parse file: "+err.Error()))
		return
	}

	valuations, err := s.PortfolioService.Engine.EnrichAll(c.Request.Context(), created)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.Success(fmt.Sprintf("Imported %d assets", len(created)), dto.FromValuations(valuations)))
}

// -----------------------------------------------------------------------------
// Portfolio handlers
// -----------------------------------------------------------------------------

func (s *Server) getSummary(c *gin.Context) {
	summary, err := s.PortfolioService.GetSummary(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success("Portfolio summary retrieved", dto.FromSummary(summary)))
}

func (s *Server) getAllocation(c *gin.Context) {
	allocation, err := s.PortfolioService.GetAllocation(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success("Allocation data retrieved", dto.Allocation(allocation)))
}

func (s *Server) getPerformance(c *gin.Context) {
	perf, err := s.PortfolioService.GetPerformanceByType(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success("Performance data retrieved", dto.Performance(perf)))
}

// -----------------------------------------------------------------------------
// News handlers
// -----------------------------------------------------------------------------

func (s *Server) getMarketNews(c *gin.Context) {
	articles := s.NewsService.MarketNews(c.Request.Context(), c.Query("category"))
	c.JSON(http.StatusOK, dto.Success("", dto.FromNews(articles)))
}

// getCompanyNews serves headlines about a symbol, optionally bounded by from and to (YYYY-MM-DD)
func (s *Server) getCompanyNews(c *gin.Context) {
	from, ok := s.parseDateQuery(c, "from")
	if !ok {
		return
	}
	to, ok := s.parseDateQuery(c, "to")
	if !ok {
		return
	}

	articles, err := s.NewsService.CompanyNews(c.Request.Context(), c.Param("symbol"), from, to)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success("", dto.FromNews(articles)))
}

func (s *Server) getHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func (s *Server) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Error(fmt.Sprintf("invalid id format: %v", err)))
		return uuid.Nil, false
	}
	return id, true
}

// parseDateQuery reads an optional date query parameter, zero when absent
func (s *Server) parseDateQuery(c *gin.Context, key string) (time.Time, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return time.Time{}, true
	}
	d, err := time.Parse(dateLayout, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Error(fmt.Sprintf("invalid %s date, expected YYYY-MM-DD", key)))
		return time.Time{}, false
	}
	return d, true
}

func (s *Server) bindDraft(c *gin.Context) (domain.HoldingDraft, bool) {
	var req dto.HoldingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Error(fmt.Sprintf("invalid request body: %v", err)))
		return domain.HoldingDraft{}, false
	}
	draft, err := req.ToDraft()
	if err != nil {
		s.fail(c, err)
		return domain.HoldingDraft{}, false
	}
	return draft, true
}

// fail writes the error envelope with the status matching err
func (s *Server) fail(c *gin.Context, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, dto.Error(ve.Error()))
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.Error(err.Error()))
	case errors.Is(err, context.Canceled):
		c.AbortWithStatus(499)
	default:
		s.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, dto.Error("internal error"))
	}
}
