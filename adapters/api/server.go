package api

import (
	"io"
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"gosleuth/app"
	"gosleuth/internal/config"
	"gosleuth/internal/errors"
)

// Server exposes the analysis pipeline over HTTP. The transport stays thin:
// it parses uploads and serializes AnalysisResults, nothing more.
type Server struct {
	router   *gin.Engine
	analysis *app.AnalysisService
	cfg      config.ServerConfig
}

// NewServer builds the HTTP server around the analysis service.
func NewServer(analysis *app.AnalysisService, cfg config.ServerConfig) *Server {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()
	router.Use(cors.Default())

	s := &Server{router: router, analysis: analysis, cfg: cfg}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.POST("/scan-image", s.handleScanImage)
	s.router.POST("/scan-video", s.handleScanVideo)
	s.router.GET("/healthz", s.handleHealth)
}

// Run blocks serving HTTP on the configured port.
func (s *Server) Run() error {
	addr := ":" + s.cfg.Port
	log.Printf("[API] listening on %s", addr)
	return s.router.Run(addr)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler { return s.router }

// handleScanImage accepts one uploaded image file and returns the fused
// AnalysisResult. Undecodable input is a transport-level 400, distinct from
// the ERROR verdict (which means analysis ran and every detector failed).
func (s *Server) handleScanImage(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"code": errors.CodeInvalidInput, "message": "missing image file upload"},
		})
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"code": errors.CodeInvalidInput, "message": "failed to read image upload"},
		})
		return
	}

	log.Printf("[API] received image: %s (%d bytes)", header.Filename, len(raw))

	result, err := s.analysis.Analyze(c.Request.Context(), raw)
	if err != nil {
		if errors.GetCode(err) == errors.CodeInvalidInput {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": gin.H{"code": errors.CodeInvalidInput, "message": err.Error()},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{"code": errors.CodeInternalError, "message": "analysis failed"},
		})
		return
	}

	c.JSON(http.StatusOK, result.Wire())
}

// videoRequest is the reserved scan-video payload.
type videoRequest struct {
	URL string `json:"url" binding:"required"`
}

// handleScanVideo is the reserved video boundary. Frame extraction is not
// implemented; once it is, a representative frame goes through the same
// analyze contract as images.
func (s *Server) handleScanVideo(c *gin.Context) {
	var req videoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"code": errors.CodeInvalidInput, "message": "url is required"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"verdict":          "REAL",
		"confidence_score": "0.00%",
		"analysis":         "Video scanning temporarily disabled to test Image Ensemble.",
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
