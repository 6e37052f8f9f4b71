// admin.go - privacy-conscious visitor tracking and the admin area
package main

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/iic-dev/portfolio/internal/metrics"
	"github.com/iic-dev/portfolio/internal/motion"
	"github.com/iic-dev/portfolio/internal/store"
)

const adminCookie = "admin_token"

func (s *server) initAdmin() {
	s.logger.Info("admin access available at /admin/login")
	if gin.Mode() == gin.DebugMode {
		s.logger.Debug("admin token (dev only)", zap.String("token", s.adminToken))
	}
	if s.cfg.DefaultCredentials() {
		s.logger.Warn("using default admin credentials, set ADMIN_USERNAME and ADMIN_PASSWORD")
	}
	if s.cfg.Privacy.TrackVisitors {
		s.logger.Info("visitor tracking enabled with hashed IP addresses")
	}
}

// adminAuthMiddleware checks the session cookie.
func (s *server) adminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || !equal(token, s.adminToken) {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// untrackedPrefixes are never recorded as page views.
var untrackedPrefixes = []string{
	"/static/", "/images/", "/admin/", "/favicon", "/privacy", "/metrics", "/healthz",
}

// visitorTrackingMiddleware records page views with hashed IPs, off the
// request path. Do Not Track and Global Privacy Control are honoured.
func (s *server) visitorTrackingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, p := range untrackedPrefixes {
			if strings.HasPrefix(path, p) {
				c.Next()
				return
			}
		}
		if c.GetHeader("DNT") == "1" || c.GetHeader("Sec-GPC") == "1" {
			c.Next()
			return
		}

		ip, ua := c.ClientIP(), c.GetHeader("User-Agent")
		s.tracking.Add(1)
		go func() {
			defer s.tracking.Done()
			if err := s.store.RecordVisit(context.Background(), ip, ua, path); err != nil {
				s.logger.Warn("recording visitor", zap.Error(err))
				return
			}
			metrics.ObserveVisit()
		}()
		c.Next()
	}
}

// setupAdminRoutes mounts the privacy page and the protected admin area.
func (s *server) setupAdminRoutes(r *gin.Engine) {
	r.GET("/privacy", func(c *gin.Context) {
		s.render(c, http.StatusOK, "privacy.html", gin.H{
			"title":         "Privacy Policy",
			"retentionDays": s.cfg.Privacy.RetentionDays,
		})
	})

	r.GET("/admin/login", func(c *gin.Context) {
		s.render(c, http.StatusOK, "admin-login.html", gin.H{"title": "Admin Login"})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		username := c.PostForm("username")
		password := c.PostForm("password")
		visitor := s.store.HashIP(c.ClientIP())

		if equal(username, s.cfg.Admin.Username) && equal(password, s.cfg.Admin.Password) {
			c.SetCookie(adminCookie, s.adminToken, 3600*24, "/admin", "", gin.Mode() == gin.ReleaseMode, true)
			s.logger.Info("admin login", zap.String("from", visitor))
			c.Redirect(http.StatusFound, "/admin/dashboard")
			return
		}
		s.logger.Warn("failed admin login", zap.String("from", visitor))
		s.render(c, http.StatusUnauthorized, "admin-login.html", gin.H{
			"title": "Admin Login",
			"error": "Invalid credentials",
		})
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", false, true)
		c.Redirect(http.StatusFound, "/admin/login")
	})

	admin := r.Group("/admin")
	admin.Use(s.adminAuthMiddleware())

	admin.GET("/dashboard", func(c *gin.Context) {
		stats, err := s.store.Stats(c.Request.Context())
		if err != nil {
			s.logger.Error("loading admin stats", zap.Error(err))
			s.render(c, http.StatusInternalServerError, "admin-error.html", gin.H{"error": "Failed to load statistics"})
			return
		}
		s.render(c, http.StatusOK, "admin-dashboard.html", gin.H{"stats": stats})
	})

	admin.GET("/api/stats", func(c *gin.Context) {
		stats, err := s.store.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	admin.GET("/visitors", func(c *gin.Context) {
		visitors, err := s.store.Visitors(c.Request.Context(), 200)
		if err != nil {
			s.render(c, http.StatusInternalServerError, "admin-error.html", gin.H{"error": "Failed to load visitors"})
			return
		}
		s.render(c, http.StatusOK, "admin-visitors.html", gin.H{"visitors": visitors})
	})

	admin.GET("/messages", func(c *gin.Context) {
		msgs, err := s.store.Messages(c.Request.Context(), 200)
		if err != nil {
			s.render(c, http.StatusInternalServerError, "admin-error.html", gin.H{"error": "Failed to load messages"})
			return
		}
		s.render(c, http.StatusOK, "admin-messages.html", gin.H{"messages": msgs})
	})

	admin.DELETE("/messages/:id", func(c *gin.Context) {
		id := c.Param("id")
		err := s.store.DeleteMessage(c.Request.Context(), id)
		switch {
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
			return
		case err != nil:
			s.logger.Error("deleting message", zap.String("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete message"})
			return
		}
		s.logger.Info("message deleted by admin", zap.String("id", id))
		c.JSON(http.StatusOK, gin.H{"message": "Message deleted successfully"})
	})

	admin.POST("/privacy/delete-visitor-data", func(c *gin.Context) {
		n, err := s.store.Cleanup(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup complete", "removed": n})
	})

	admin.GET("/export/stats", func(c *gin.Context) {
		stats, err := s.store.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		c.JSON(http.StatusOK, stats)
	})

	// Replays a recorded scroll trace through the reveal engine and returns
	// the resulting timeline.
	admin.POST("/api/motion/replay", func(c *gin.Context) {
		var trace motion.Trace
		if err := c.ShouldBindJSON(&trace); err != nil {
			metrics.ObserveReplay(false, 0)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		tl, err := motion.Replay(s.plan, trace)
		if err != nil {
			metrics.ObserveReplay(false, 0)
			code := http.StatusInternalServerError
			if errors.Is(err, motion.ErrInvalidTrace) {
				code = http.StatusBadRequest
			}
			c.JSON(code, gin.H{"error": err.Error()})
			return
		}
		metrics.ObserveReplay(true, len(tl.Events))
		c.JSON(http.StatusOK, tl)
	})

	admin.GET("/api/motion/layout", func(c *gin.Context) {
		c.JSON(http.StatusOK, motion.DefaultLayout())
	})
}
