package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"sync"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/iic-dev/portfolio/internal/config"
	"github.com/iic-dev/portfolio/internal/contact"
	"github.com/iic-dev/portfolio/internal/gallery"
	"github.com/iic-dev/portfolio/internal/logging"
	"github.com/iic-dev/portfolio/internal/metrics"
	"github.com/iic-dev/portfolio/internal/motion"
	"github.com/iic-dev/portfolio/internal/store"
)

type server struct {
	cfg        config.Config
	logger     *zap.Logger
	store      *store.Store
	contact    *contact.Service
	catalog    *gallery.Catalog
	plan       motion.Plan
	content    Content
	adminToken string
	html       bool

	// background visitor inserts
	tracking sync.WaitGroup
}

func main() {
	configPath := flag.String("config", "", "optional config file (yaml, json or toml)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck // best-effort flush

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gin.SetMode(cfg.Server.Mode)
	metrics.Init()

	st, err := store.Open(ctx, cfg.DB.Path, store.Options{
		Salt:      cfg.Privacy.Salt,
		Retention: cfg.Retention(),
		Logger:    logger.Named("store"),
	})
	if err != nil {
		return err
	}
	defer st.Close()

	s := newServer(cfg, logger, st)
	r := s.setupRouter()

	go s.cleanupLoop(ctx, 24*time.Hour)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.tracking.Wait()
	return nil
}

func newServer(cfg config.Config, logger *zap.Logger, st *store.Store) *server {
	s := &server{
		cfg:        cfg,
		logger:     logger,
		store:      st,
		catalog:    gallery.NewCatalog(Projects...),
		plan:       motion.DefaultPlan(),
		content:    siteContent(),
		adminToken: store.RandomToken(),
	}
	s.contact = contact.NewService(newSender(cfg),
		contact.WithRecorder(st),
		contact.WithLogger(logger.Named("contact")),
	)
	s.initAdmin()
	return s
}

func newSender(cfg config.Config) contact.Sender {
	if cfg.Mail.Driver == config.DriverSMTP {
		return contact.NewSMTP(contact.SMTPConfig{
			Host: cfg.SMTP.Host,
			Port: cfg.SMTP.Port,
			User: cfg.SMTP.User,
			Pass: cfg.SMTP.Pass,
			To:   cfg.SMTP.To,
		})
	}
	return contact.NewEmailJS(contact.EmailJSConfig{
		ServiceID:  cfg.EmailJS.ServiceID,
		TemplateID: cfg.EmailJS.TemplateID,
		PublicKey:  cfg.EmailJS.PublicKey,
		PrivateKey: cfg.EmailJS.PrivateKey,
		Endpoint:   cfg.EmailJS.Endpoint,
		Timeout:    cfg.MailTimeout(),
	}, nil)
}

func (s *server) setupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logging.Gin(s.logger.Named("http")), metrics.Middleware())
	if s.cfg.Privacy.TrackVisitors {
		r.Use(s.visitorTrackingMiddleware())
	}

	if glob := s.cfg.Server.Templates; glob != "" {
		if matches, _ := filepath.Glob(glob); len(matches) > 0 {
			r.LoadHTMLGlob(glob)
			s.html = true
		} else {
			s.logger.Warn("no templates found, serving JSON only", zap.String("glob", glob))
		}
	}
	if s.cfg.Server.Static != "" {
		r.Static("/static", s.cfg.Server.Static)
	}

	// Home page route
	r.GET("/", func(c *gin.Context) {
		s.render(c, http.StatusOK, "index.html", gin.H{
			"content": s.content,
			"plan":    s.plan,
			"status":  contact.Status{Kind: contact.KindIdle},
		})
	})

	api := r.Group("/api")
	api.GET("/content", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.content)
	})
	api.GET("/motion", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.plan)
	})

	// Showcase list with the highlighted project clamped into range
	api.GET("/projects", func(c *gin.Context) {
		active, err := strconv.Atoi(c.DefaultQuery("active", "0"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "active must be an integer"})
			return
		}
		projects := make([]gallery.Project, 0, s.catalog.Len())
		for _, p := range s.catalog.All() {
			projects = append(projects, p)
		}
		p, ok := s.catalog.At(active)
		if !ok {
			c.JSON(http.StatusOK, gin.H{"projects": projects, "ids": []string{}, "active": 0})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"projects": projects,
			"ids":      s.catalog.IDs(),
			"active":   gallery.ClampIndex(active, s.catalog.Len()),
			"current":  p.ID,
		})
	})

	// Modal navigation: open, arrows and escape
	api.GET("/projects/:id/gallery", func(c *gin.Context) {
		p, err := s.catalog.Get(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		index, err := strconv.Atoi(c.DefaultQuery("index", "0"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "index must be an integer"})
			return
		}
		c.JSON(http.StatusOK, gallery.Navigate(p, index, c.Query("key")))
	})

	api.GET("/gallery/strip", func(c *gin.Context) {
		var q struct {
			gallery.Strip
			Dir int `form:"dir"`
		}
		if err := c.ShouldBindQuery(&q); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		next := q.Strip.Scroll(q.Dir)
		c.JSON(http.StatusOK, gin.H{
			"scrollLeft":     next.ScrollLeft,
			"delta":          next.Delta(),
			"canScrollLeft":  next.CanScrollLeft(),
			"canScrollRight": next.CanScrollRight(),
		})
	})

	// Contact form submission: JSON for fetch callers, an HTML fragment for HTMX
	r.POST("/contact", s.handleContact)

	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/healthz", func(c *gin.Context) {
		if err := s.store.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	s.setupAdminRoutes(r)
	return r
}

func (s *server) handleContact(c *gin.Context) {
	var form contact.Form
	if err := c.ShouldBind(&form); err != nil {
		s.logger.Debug("unreadable contact body", zap.Error(err))
		form = contact.Form{}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.cfg.MailTimeout())
	defer cancel()
	res := s.contact.Submit(ctx, form)
	metrics.ObserveContact(res.Outcome)

	if c.GetHeader("HX-Request") == "true" {
		s.render(c, http.StatusOK, "contact-status.html", gin.H{"status": res})
		return
	}
	c.JSON(contactStatusCode(res.Outcome), res)
}

func contactStatusCode(outcome string) int {
	switch outcome {
	case contact.OutcomeValidation:
		return http.StatusUnprocessableEntity
	case contact.OutcomeConfiguration:
		return http.StatusServiceUnavailable
	case contact.OutcomeTransport:
		return http.StatusBadGateway
	default:
		return http.StatusOK
	}
}

// render writes an HTML template, or the template data as JSON when the
// server runs without templates.
func (s *server) render(c *gin.Context, code int, name string, data gin.H) {
	if s.html {
		c.HTML(code, name, data)
		return
	}
	c.JSON(code, data)
}

func (s *server) cleanupLoop(ctx context.Context, every time.Duration) {
	if _, err := s.store.Cleanup(ctx); err != nil {
		s.logger.Warn("visitor cleanup", zap.Error(err))
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if _, err := s.store.Cleanup(ctx); err != nil {
				s.logger.Warn("visitor cleanup", zap.Error(err))
			}
		}
	}
}
