package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"netscope-copilot/internal/adapter"
	"netscope-copilot/internal/agent"
	"netscope-copilot/internal/alerts"
	"netscope-copilot/internal/graph"
	"netscope-copilot/internal/retrieval"
	"netscope-copilot/internal/tools"
	"netscope-copilot/pkg/config"
	"netscope-copilot/pkg/logger"
	"go.uber.org/zap"
)

// copilot is the responder-tree surface the HTTP layer consumes.
type copilot interface {
	HandleRequest(ctx context.Context, tenantID, roleID, userID, conversationID, deviceID, requestText string) agent.Result
}

// conversationStore covers the read-side endpoints backed by the graph.
type conversationStore interface {
	ListDevices(ctx context.Context, tenantID string, limit int) ([]map[string]any, error)
	ListConversations(ctx context.Context, userID string) ([]string, error)
	GetConversation(ctx context.Context, userID, conversationID string) ([]graph.TurnMessage, error)
}

func main() {
	// Load configuration first: the logger needs the environment.
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}

	if err := logger.Init(cfg.Env); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting copilot server...")

	// Graph store: one driver per process, closed on shutdown.
	ctx := context.Background()
	store, err := graph.NewStore(ctx, cfg.GraphURI, cfg.GraphUser, cfg.GraphPassword)
	if err != nil {
		log.Fatal("Failed to connect to graph store", zap.Error(err))
	}
	defer store.Close(context.Background())

	// Providers and the responder tree.
	client, err := adapter.NewClient(cfg)
	if err != nil {
		log.Fatal("Failed to build provider client", zap.Error(err))
	}
	embedder := adapter.NewEmbedder(cfg, client)

	retriever := retrieval.NewService(store, embedder, retrieval.Options{
		DefaultTopK:      cfg.DefaultTopK,
		OversampleFactor: cfg.OversampleFactor,
		MinCandidates:    cfg.MinCandidates,
		MaxCandidates:    cfg.MaxCandidates,
	})
	executor := tools.NewExecutor(retriever, alerts.NewWriter(cfg.AlertsDir))

	root := agent.BuildTree(agent.TreeDeps{
		RouterModel:        adapter.NewRouterModel(cfg, client),
		ObservabilityModel: adapter.NewObservabilityModel(cfg, client),
		AlertingModel:      adapter.NewAlertingModel(cfg, client),
		Executor:           executor,
		Store:              store,
	})

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := newRouter(root, store, log)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started", zap.String("port", cfg.Port))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}

// newRouter wires the HTTP routes over the responder tree and the graph
// read side.
func newRouter(root copilot, store conversationStore, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(ginLogger(log))
	router.Use(gin.Recovery())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		// Route a request through the responder tree. Faults come back as
		// textual results, never as transport errors.
		api.POST("/copilot/chat", func(c *gin.Context) {
			var req struct {
				TenantID       string `json:"tenant_id" binding:"required"`
				RoleID         string `json:"role_id"`
				UserID         string `json:"user_id" binding:"required"`
				ConversationID string `json:"conversation_id" binding:"required"`
				DeviceID       string `json:"device_id"`
				Message        string `json:"message" binding:"required"`
			}

			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			result := root.HandleRequest(c.Request.Context(),
				req.TenantID, req.RoleID, req.UserID, req.ConversationID, req.DeviceID, req.Message)
			c.JSON(http.StatusOK, result)
		})

		// Tenant-scoped device inventory for the external dashboard.
		api.GET("/devices", func(c *gin.Context) {
			tenantID := c.Query("tenant_id")
			if tenantID == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "tenant_id is required"})
				return
			}

			devices, err := store.ListDevices(c.Request.Context(), tenantID, 100)
			if err != nil {
				log.Error("Failed to list devices", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list devices"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"devices": devices})
		})

		// Conversation inventory and transcript.
		api.GET("/conversations/:user_id", func(c *gin.Context) {
			ids, err := store.ListConversations(c.Request.Context(), c.Param("user_id"))
			if err != nil {
				log.Error("Failed to list conversations", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list conversations"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"conversations": ids})
		})

		api.GET("/conversations/:user_id/:conversation_id", func(c *gin.Context) {
			messages, err := store.GetConversation(c.Request.Context(), c.Param("user_id"), c.Param("conversation_id"))
			if err != nil {
				log.Error("Failed to fetch conversation", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch conversation"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"messages": messages})
		})
	}

	return router
}

// ginLogger is a custom logger middleware for Gin
func ginLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		log.Info("HTTP Request",
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
		)
	}
}
