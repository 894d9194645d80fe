package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hexaciphers/hexaciphers/internal/application/dashboard"
	"github.com/hexaciphers/hexaciphers/pkg/domain"
	"go.uber.org/zap"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Response is the envelope of every successful API response
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

// ErrorResponse is the envelope of every failed API response
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// TextRequest carries text to classify or preprocess
type TextRequest struct {
	Text string `json:"text"`
}

// URLRequest carries a post URL to analyze
type URLRequest struct {
	URL string `json:"url"`
}

// CollectTwitterRequest is the body of POST /api/collect/twitter
type CollectTwitterRequest struct {
	Keywords []string `json:"keywords"`
	Limit    *int     `json:"limit"`
}

// CollectRedditRequest is the body of POST /api/collect/reddit
type CollectRedditRequest struct {
	Subreddit string `json:"subreddit"`
	Limit     *int   `json:"limit"`
}

// CollectYouTubeRequest is the body of POST /api/collect/youtube
type CollectYouTubeRequest struct {
	Query string `json:"query"`
	Limit *int   `json:"limit"`
}

// handleLiveness answers without touching dependencies
func (s *Server) handleLiveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// handleHealth reports API health including the store
func (s *Server) handleHealth(c *gin.Context) {
	if err := s.dashboard.Health(c.Request.Context()); err != nil {
		s.logger.Warn("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Status:  "unhealthy",
			Message: "Database unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "HexaCiphers API is running",
	})
}

func (s *Server) handleStats(c *gin.Context) {
	stats, err := s.dashboard.Stats(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.ok(c, "", stats)
}

func (s *Server) handleListPosts(c *gin.Context) {
	posts, err := s.dashboard.ListPosts(c.Request.Context(), dashboard.PostQuery{
		Platform:       c.Query("platform"),
		Sentiment:      c.Query("sentiment"),
		Classification: c.Query("classification"),
		Limit:          c.Query("limit"),
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.ok(c, "", posts)
}

func (s *Server) handleCreatePost(c *gin.Context) {
	var post domain.Post
	if err := c.ShouldBindJSON(&post); err != nil {
		s.badRequest(c, err)
		return
	}
	// IDs and timestamps are assigned by the store
	post.ID = 0

	created, err := s.dashboard.CreatePost(c.Request.Context(), &post)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{
		Status:  statusSuccess,
		Message: "Post created successfully",
		Data:    created,
	})
}

func (s *Server) handleListCampaigns(c *gin.Context) {
	campaigns, err := s.dashboard.ListCampaigns(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.ok(c, "", campaigns)
}

func (s *Server) handleDetectCampaigns(c *gin.Context) {
	campaigns, err := s.dashboard.DetectCampaigns(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.ok(c, fmt.Sprintf("Detected %d campaigns", len(campaigns)), campaigns)
}

func (s *Server) handleDetectBots(c *gin.Context) {
	bots, err := s.dashboard.DetectBots(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.ok(c, fmt.Sprintf("Detected %d potential bots", len(bots)), bots)
}

func (s *Server) handleListUsers(c *gin.Context) {
	users, err := s.dashboard.ListUsers(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.ok(c, "", users)
}

func (s *Server) handleInfluenceRankings(c *gin.Context) {
	rankings, err := s.dashboard.InfluenceRankings(c.Request.Context(), dashboard.InfluenceQuery{
		RiskLevel: c.Query("risk_level"),
		Limit:     c.Query("limit"),
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.ok(c, "", rankings)
}

func (s *Server) handleListAlerts(c *gin.Context) {
	list, err := s.dashboard.ListAlerts(c.Request.Context(), dashboard.AlertQuery{
		Status:   c.Query("status"),
		Severity: c.Query("severity"),
		Limit:    c.Query("limit"),
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.ok(c, "", list)
}

func (s *Server) handleCollectTwitter(c *gin.Context) {
	var req CollectTwitterRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		s.badRequest(c, err)
		return
	}

	posts, err := s.dashboard.CollectTwitter(c.Request.Context(), req.Keywords, req.Limit)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.ok(c, fmt.Sprintf("Collected %d tweets", len(posts)), posts)
}

func (s *Server) handleCollectReddit(c *gin.Context) {
	var req CollectRedditRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		s.badRequest(c, err)
		return
	}

	posts, err := s.dashboard.CollectReddit(c.Request.Context(), req.Subreddit, req.Limit)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.ok(c, fmt.Sprintf("Collected %d Reddit posts", len(posts)), posts)
}

func (s *Server) handleCollectYouTube(c *gin.Context) {
	var req CollectYouTubeRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		s.badRequest(c, err)
		return
	}

	posts, err := s.dashboard.CollectYouTube(c.Request.Context(), req.Query, req.Limit)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.ok(c, fmt.Sprintf("Collected %d YouTube videos", len(posts)), posts)
}

func (s *Server) handleClassify(c *gin.Context) {
	var req TextRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		s.badRequest(c, err)
		return
	}

	result, err := s.dashboard.Classify(c.Request.Context(), req.Text)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.ok(c, "", result)
}

func (s *Server) handleProcessText(c *gin.Context) {
	var req TextRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		s.badRequest(c, err)
		return
	}

	result, err := s.dashboard.ProcessText(c.Request.Context(), req.Text)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.ok(c, "", result)
}

func (s *Server) handleAnalyzeURL(c *gin.Context) {
	var req URLRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		s.badRequest(c, err)
		return
	}

	result, err := s.dashboard.AnalyzeURL(c.Request.Context(), req.URL)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.ok(c, "URL analyzed successfully", result)
}

func (s *Server) ok(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Status:  statusSuccess,
		Message: message,
		Data:    data,
	})
}

func (s *Server) badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Status:  statusError,
		Message: fmt.Sprintf("Invalid request body: %v", err),
	})
}

// writeError maps domain errors to HTTP status codes. Unexpected errors are
// logged and hidden behind a generic message.
func (s *Server) writeError(c *gin.Context, err error) {
	status, message := http.StatusInternalServerError, "Internal server error"

	switch {
	case errors.Is(err, domain.ErrUnsupportedURL):
		status, message = http.StatusBadRequest, "Only Twitter/X URLs are supported for analysis"
	case errors.Is(err, domain.ErrInvalidInput):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrNotFound):
		status, message = http.StatusNotFound, err.Error()
	default:
		s.logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}

	c.JSON(status, ErrorResponse{Status: statusError, Message: message})
}

// bindOptionalJSON decodes the body into dest; an empty body leaves dest untouched
func bindOptionalJSON(c *gin.Context, dest interface{}) error {
	if err := c.ShouldBindJSON(dest); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
