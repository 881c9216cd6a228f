package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (s *Server) setupSwagger() {
	s.router.GET("/api/info", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"title":       "ChickEye Backend API",
			"version":     "1.0.0",
			"description": "Video streaming backend with detection smoothing and annotation",
			"swagger_ui":  "/docs/index.html",
			"endpoints": gin.H{
				"status":     "/",
				"health":     "/health",
				"config":     "/config",
				"save_video": "/save-video",
				"stream":     "/ws/video",
			},
			"port": s.cfg.Port,
		})
	})

	s.router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	s.router.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/docs/index.html")
	})
}
