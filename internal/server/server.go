package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"hl-action-server/internal/chains"
	"hl-action-server/internal/config"
	"hl-action-server/internal/hl/exchange"
	"hl-action-server/internal/hl/info"
	"hl-action-server/internal/metrics"
	"hl-action-server/internal/pricing"
	"hl-action-server/internal/recorder"
	"hl-action-server/internal/wallet"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// Server owns the HTTP surface: route registration, middleware, and
// lifecycle of the listener.
type Server struct {
	cfg      *config.Config
	log      *zap.Logger
	handlers *Handlers
	metrics  *metrics.Prometheus
	http     *http.Server
}

func New(cfg *config.Config, log *zap.Logger, wallets *wallet.Provider, store recorder.Store) *Server {
	registerValidators()
	gin.SetMode(gin.ReleaseMode)

	prom := metrics.NewPrometheus()
	resolver := chains.NewResolver(cfg)
	prices := pricing.NewResolver(cfg.Gateway.BaseURL, cfg.Gateway.Timeout, log)

	mainnetInfo := info.New(cfg.Exchange.MainnetURL, cfg.Exchange.Timeout, log)
	testnetInfo := info.New(cfg.Exchange.TestnetURL, cfg.Exchange.Timeout, log)
	infoFactory := func(chain chains.ChainConfig) Info {
		if chain.IsMainnet() {
			return mainnetInfo
		}
		return testnetInfo
	}
	exchangeFactory := func(chain chains.ChainConfig, signer *exchange.Signer) (Exchange, error) {
		client, err := exchange.NewClient(chain.APIBaseURL, cfg.Exchange.Timeout, signer)
		if err != nil {
			return nil, err
		}
		client.SetLogger(log)
		return client, nil
	}

	handlers := NewHandlers(resolver, wallets, prices, store, prom, log, cfg.Builder, exchangeFactory, infoFactory)

	s := &Server{
		cfg:      cfg,
		log:      log,
		handlers: handlers,
		metrics:  prom,
	}
	s.http = &http.Server{
		Addr:    cfg.Server.Listen,
		Handler: s.corsHandler(s.router()),
	}
	return s
}

func (s *Server) router() *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(s.log))

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	engine.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	v1 := engine.Group("/v1")
	v1.POST("/entry", s.handlers.Entry())
	v1.POST("/cancel", s.handlers.Cancel())
	v1.POST("/status", s.handlers.Status())
	v1.POST("/subaccount/create", s.handlers.CreateSubAccount())
	v1.POST("/subaccount/transfer", s.handlers.TransferSubAccount())
	v1.POST("/portfolio-margin", s.handlers.PortfolioMargin())
	v1.POST("/builder-fee", s.handlers.ApproveBuilderFee())
	v1.GET("/actions", s.handlers.Actions())
	return engine
}

func (s *Server) corsHandler(next http.Handler) http.Handler {
	origins := s.cfg.Server.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}).Handler(next)
}

// Run serves until ctx is cancelled, then drains in-flight requests within
// the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", zap.String("addr", s.http.Addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}
