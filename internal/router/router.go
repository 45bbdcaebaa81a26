package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ompps/backend/config"
	"github.com/ompps/backend/internal/handler"
)

func Setup(
	cfg *config.Config,
	wsHandler *handler.WorkspaceHandler,
	objHandler *handler.ObjectiveHandler,
	recHandler *handler.RecordHandler,
	expHandler *handler.ExportHandler,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
	}))
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(requestID())

	api := r.Group("/api")
	{
		workspaces := api.Group("/workspaces")
		{
			workspaces.POST("", wsHandler.Create)
			workspaces.POST("/drafts", wsHandler.CreateDraft)
			workspaces.POST("/delete", wsHandler.DeleteByCode)
			workspaces.GET("/:code", wsHandler.Get)
			workspaces.GET("/:code/objectives", objHandler.Get)
			workspaces.POST("/:code/objectives", objHandler.Save)
			workspaces.GET("/:code/records", recHandler.List)
			workspaces.POST("/:code/records", recHandler.Add)
			workspaces.DELETE("/:code/records/:id", recHandler.Delete)
			workspaces.GET("/:code/export", expHandler.Download)
		}
	}

	return r
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}
