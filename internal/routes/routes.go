package routes

import (
	"net/http"

	"eisenhower-board/internal/auth"
	"eisenhower-board/internal/handlers"
	"eisenhower-board/internal/middleware"
	"eisenhower-board/internal/realtime"
	"eisenhower-board/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Repo      repository.Repository
	Hub       *realtime.Hub
	Uploads   *handlers.UploadStore
	Images    handlers.ImageGenerator
	Log       *zap.Logger
	StaticDir string

	// Signer is nil when authentication is disabled.
	Signer       *auth.Signer
	PasswordHash string
}

func SetupRoutes(d Deps) *gin.Engine {
	ginRouter := gin.New()
	ginRouter.Use(gin.Recovery())
	ginRouter.Use(middleware.RequestLogger(d.Log))
	ginRouter.Use(middleware.CORS())

	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Eisenhower board is running",
		})
	})
	if d.StaticDir != "" {
		ginRouter.Static("/static", d.StaticDir)
	}

	pages := handlers.NewPageHandler(d.Repo, d.Log)
	tasks := handlers.NewTaskHandler(d.Repo, d.Hub, d.Log)
	staff := handlers.NewStaffHandler(d.Repo, d.Uploads, d.Images, d.Hub, d.Log)
	images := handlers.NewImageHandler(d.Images, d.Uploads, d.Log)
	ws := handlers.NewWSHandler(d.Hub, d.Log)

	ginRouter.GET("/", pages.Index)

	api := ginRouter.Group("/api")
	if d.Signer != nil {
		api.POST("/login", handlers.NewAuthHandler(d.Signer, d.PasswordHash).Login)
	}

	api.GET("/bootstrap", pages.Bootstrap)
	api.GET("/tasks", tasks.List)
	api.GET("/staff", staff.List)

	protected := api.Group("")
	wsGroup := ginRouter.Group("")
	if d.Signer != nil {
		protected.Use(middleware.JWTAuthMiddleware(d.Signer))
		wsGroup.Use(middleware.JWTAuthMiddleware(d.Signer))
	}
	{
		protected.POST("/tasks", tasks.Create)
		protected.PUT("/tasks/:id", tasks.Update)
		protected.PATCH("/tasks/:id/quadrant", tasks.Move)
		protected.DELETE("/tasks/:id", tasks.Delete)

		protected.POST("/staff", staff.Create)
		protected.PUT("/staff/:id", staff.Update)
		protected.DELETE("/staff/:id", staff.Delete)

		protected.POST("/gemini/test-image", images.TestImage)
	}
	wsGroup.GET("/ws", ws.Stream)

	return ginRouter
}
