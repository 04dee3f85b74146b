package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/brayanMuniz/daijoubu/internal/chat"
	"github.com/brayanMuniz/daijoubu/internal/config"
	"github.com/brayanMuniz/daijoubu/internal/llm"
	"github.com/brayanMuniz/daijoubu/internal/llm/gemini"
	"github.com/brayanMuniz/daijoubu/internal/llm/groq"
	"github.com/brayanMuniz/daijoubu/internal/memory"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

type ChatRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

type ChatResponse struct {
	Reply *chat.Reply `json:"reply"`
}

type Server struct {
	echo    *echo.Echo
	service *chat.Service
	cfg     *config.Config
	logger  *zap.Logger
}

// NewServer builds the provider named by the configuration and wires the full
// pipeline behind it. A missing API key does not stop boot; /chat reports the
// misconfiguration per request instead.
func NewServer(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	provider, err := buildProvider(cfg)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		logger.Warn("no completion API key configured, /chat will fail until one is set",
			zap.String("provider", cfg.Provider))
	}

	service := chat.NewService(provider, memory.NewInMemory(), cfg.Timeout(), logger)
	return NewServerWith(service, cfg, logger), nil
}

// NewServerWith accepts a prebuilt service, which is how tests inject a fake
// completion provider.
func NewServerWith(service *chat.Service, cfg *config.Config, logger *zap.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger(), middleware.Recover(), middleware.CORS())

	s := &Server{
		echo:    e,
		service: service,
		cfg:     cfg,
		logger:  logger,
	}

	s.setupRoutes()
	return s
}

func buildProvider(cfg *config.Config) (llm.Provider, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, nil
		}
		return gemini.NewProvider(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
	case config.ProviderGroq:
		if cfg.GroqAPIKey == "" {
			return nil, nil
		}
		return groq.NewProvider(cfg.GroqAPIKey, cfg.GroqModel), nil
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.Provider)
	}
}

func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

func (s *Server) setupRoutes() {
	s.echo.Static("/", "views")
	s.echo.GET("/healthz", s.health)
	s.echo.POST("/chat", s.handleChat)
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleChat(c echo.Context) error {
	req := new(ChatRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.UserID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}
	if len(req.Message) > s.cfg.MaxMessageLength {
		s.logger.Warn("message too long",
			zap.String("user_id", req.UserID),
			zap.Int("length", len(req.Message)))
		return echo.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("Message too long (max %d characters)", s.cfg.MaxMessageLength))
	}

	s.logger.Info("/chat request received", zap.String("user_id", req.UserID))

	reply, err := s.service.Respond(c.Request().Context(), req.UserID, req.Message)
	if err != nil {
		return chatHTTPError(err)
	}

	return c.JSON(http.StatusOK, ChatResponse{Reply: reply})
}

// chatHTTPError maps pipeline failures onto the status codes and guidance
// text clients rely on. Model-unavailable intentionally shares 400 with
// validation errors; consumers distinguish it by the detail text.
func chatHTTPError(err error) error {
	if errors.Is(err, chat.ErrNotConfigured) {
		return echo.NewHTTPError(http.StatusInternalServerError, "Completion API key not configured")
	}

	var upstream *chat.UpstreamError
	if errors.As(err, &upstream) {
		switch upstream.Kind {
		case llm.ErrRateLimited:
			return echo.NewHTTPError(http.StatusTooManyRequests,
				"Completion API rate limit exceeded. Please try again later.")
		case llm.ErrQuotaExceeded:
			return echo.NewHTTPError(http.StatusPaymentRequired,
				"Completion API quota exceeded. Please check your plan and billing details.")
		case llm.ErrModelUnavailable:
			return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf(
				"The configured model appears to be decommissioned. "+
					"Please set a supported model in the GROQ_MODEL environment variable. "+
					"See: https://console.groq.com/docs/deprecations for recommended replacements. "+
					"(Original error: %v)", upstream.Err))
		}
		return echo.NewHTTPError(http.StatusInternalServerError,
			fmt.Sprintf("Completion API error: %v", upstream.Err))
	}

	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
