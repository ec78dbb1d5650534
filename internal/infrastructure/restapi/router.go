package restapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RouterOptions configures the optional parts of the router.
type RouterOptions struct {
	AllowOrigins []string     // empty allows all origins
	Metrics      http.Handler // mounted on /metrics when not nil
	SwaggerPath  string       // Swagger UI prefix, empty disables it
}

// SetupRouter настраивает и возвращает экземпляр Gin роутера.
func SetupRouter(h *NetworkHandler, opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	corsCfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(opts.AllowOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = opts.AllowOrigins
	}
	router.Use(cors.New(corsCfg))

	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	if opts.Metrics != nil {
		router.GET("/metrics", gin.WrapH(opts.Metrics))
	}
	if opts.SwaggerPath != "" {
		router.GET(opts.SwaggerPath+"/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Группа для API v1
	v1 := router.Group("/api/v1")
	{
		v1.GET("/networks", h.ListNetworks)
		v1.PUT("/networks", h.SetNetworks)
		v1.PUT("/networks/error", h.SetAllNetworksError)
		v1.GET("/networks/:chainId", h.GetNetwork)
		v1.DELETE("/networks/:chainId", h.RemoveNetwork)
		v1.GET("/networks/:chainId/state", h.GetState)
		v1.GET("/states", h.ListStates)
		v1.POST("/blocks", h.ObserveBlock)
		v1.GET("/selected", h.GetSelected)
		v1.PUT("/selected", h.SetSelected)
		v1.GET("/balances/:chainId", h.GetBalances)
	}

	return router
}
