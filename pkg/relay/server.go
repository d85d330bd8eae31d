package relay

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/germanamz/tasksolver/pkg/assembler"
	"github.com/germanamz/tasksolver/pkg/chats/message"
	"github.com/germanamz/tasksolver/pkg/chats/role"
	"github.com/germanamz/tasksolver/pkg/credential"
	"github.com/germanamz/tasksolver/pkg/providers/openrouter"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Error texts returned to clients.
const (
	MsgTaskRequired   = "task or messages are required"
	MsgImagesNoTask   = "task is required when images are attached"
	MsgAPIKeyRequired = "apiKey is required"
	MsgAPIKeyMissing  = "API key not found. Please configure your OpenRouter API key first."
)

// Completer sends a conversation upstream and returns the reply text.
type Completer interface {
	Complete(ctx context.Context, apiKey string, msgs []assembler.ProviderMessage) (string, error)
}

// Credentials resolves and stores the upstream key.
type Credentials interface {
	Resolve(ctx context.Context) (string, credential.Source, error)
	Save(ctx context.Context, key string) error
	Has(ctx context.Context) (bool, error)
	Delete(ctx context.Context) error
}

// Config tunes a Server. The zero value is usable.
type Config struct {
	BasePath      string // Route prefix, e.g. "/make-server". Empty mounts at root.
	RatePerMinute int    // Per-user solve requests per minute; 0 disables limiting.
	RateBurst     int    // Defaults to RatePerMinute.
	CORS          *CORSConfig
	Logger        *zerolog.Logger // Nil logs nothing.
}

// Server is the relay HTTP service.
type Server struct {
	completer Completer
	creds     Credentials
	log       zerolog.Logger
	limiter   *userLimiter
	engine    *gin.Engine
	now       func() time.Time
}

// New builds the relay with its routes mounted.
func New(completer Completer, creds Credentials, cfg Config) *Server {
	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = *cfg.Logger
	}

	s := &Server{
		completer: completer,
		creds:     creds,
		log:       log,
		limiter:   newUserLimiter(cfg.RatePerMinute, cfg.RateBurst),
		now:       time.Now,
	}

	cors := DefaultCORSConfig()
	if cfg.CORS != nil {
		cors = *cfg.CORS
	}

	e := gin.New()
	e.Use(gin.Recovery(), requestLogger(s.log), corsMiddleware(cors))
	// Preflight requests for any path reach the CORS middleware through here.
	e.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	g := e.Group("/" + strings.Trim(cfg.BasePath, "/"))
	g.GET("/health", s.health)
	g.POST("/api-key", s.saveAPIKey)
	g.DELETE("/api-key", s.deleteAPIKey)
	g.GET("/api-key/:userId", s.hasAPIKey)
	g.POST("/solve-task", s.solveTask)

	s.engine = e
	return s
}

// Handler returns the http.Handler serving all routes.
func (s *Server) Handler() http.Handler { return s.engine }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("relay listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("relay shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("relay: shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type saveKeyRequest struct {
	UserID string `json:"userId"`
	APIKey string `json:"apiKey"`
}

func (s *Server) saveAPIKey(c *gin.Context) {
	var req saveKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.APIKey) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": MsgAPIKeyRequired})
		return
	}

	if err := s.creds.Save(c.Request.Context(), req.APIKey); err != nil {
		if errors.Is(err, credential.ErrEmpty) {
			c.JSON(http.StatusBadRequest, gin.H{"error": MsgAPIKeyRequired})
			return
		}
		s.log.Error().Err(err).Str("user", req.UserID).Msg("save API key")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save API key: " + err.Error()})
		return
	}

	s.log.Info().Str("user", req.UserID).Str("key", credential.Mask(req.APIKey)).Msg("API key saved")
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// deleteAPIKey removes the stored key. A key supplied through the
// environment keeps working afterwards.
func (s *Server) deleteAPIKey(c *gin.Context) {
	if err := s.creds.Delete(c.Request.Context()); err != nil {
		s.log.Error().Err(err).Msg("delete API key")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete API key: " + err.Error()})
		return
	}
	s.log.Info().Msg("API key deleted")
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) hasAPIKey(c *gin.Context) {
	ok, err := s.creds.Has(c.Request.Context())
	if err != nil {
		s.log.Error().Err(err).Str("user", c.Param("userId")).Msg("check API key")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve API key: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"hasApiKey": ok})
}

func (s *Server) solveTask(c *gin.Context) {
	var req assembler.SolveTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	user := req.UserID
	if user == "" {
		user = c.ClientIP()
	}
	if ok, wait := s.limiter.reserve(user, s.now()); !ok {
		c.Header("Retry-After", retryAfterSeconds(wait))
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
		return
	}

	if strings.TrimSpace(req.Task) == "" && len(req.Messages) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": MsgTaskRequired})
		return
	}
	if strings.TrimSpace(req.Task) == "" && len(req.Images()) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": MsgImagesNoTask})
		return
	}
	for i, m := range req.Messages {
		if err := m.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("messages[%d]: %v", i, err)})
			return
		}
	}

	ctx := c.Request.Context()
	apiKey, source, err := s.creds.Resolve(ctx)
	switch {
	case errors.Is(err, credential.ErrNotFound):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": MsgAPIKeyMissing,
			"code":  assembler.CodeCredentialMissing,
		})
		return
	case err != nil:
		s.fail(c, user, err)
		return
	}

	msgs := BuildUpstreamMessages(req)
	s.log.Info().
		Str("user", user).
		Str("key", credential.Mask(apiKey)).
		Str("source", string(source)).
		Int("messages", len(msgs)).
		Int("images", len(req.Images())).
		Msg("solving task")

	solution, err := s.completer.Complete(ctx, apiKey, msgs)
	if err != nil {
		var apiErr *openrouter.APIError
		if errors.As(err, &apiErr) {
			s.log.Warn().Int("status", apiErr.Status).Str("user", user).Msg("upstream rejected request")
			c.JSON(apiErr.Status, gin.H{"error": apiErr.Error()})
			return
		}
		s.fail(c, user, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"solution": solution})
}

func (s *Server) fail(c *gin.Context, user string, err error) {
	s.log.Error().Err(err).Str("user", user).Msg("solve task")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to solve task: " + err.Error()})
}

// BuildUpstreamMessages returns the history verbatim followed, when a task is
// present, by a user turn holding the task text and its images.
func BuildUpstreamMessages(req assembler.SolveTaskRequest) []assembler.ProviderMessage {
	out := make([]assembler.ProviderMessage, 0, len(req.Messages)+1)
	out = append(out, req.Messages...)
	if strings.TrimSpace(req.Task) != "" {
		out = append(out, assembler.ToProviderMessage(message.New(role.User, req.Task, req.Images()...)))
	}
	return out
}
