package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"publisher-backend/internal/shared/middleware"
	"publisher-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthorRoutes(v1, c)
		setupBookRoutes(v1, c)
		setupCustomerRoutes(v1, c)
		setupSaleRoutes(v1, c)
		setupCommissionRoutes(v1, c)
	}

	return router
}

// ========================================
// AUTHOR ROUTES
// ========================================
func setupAuthorRoutes(v1 *gin.RouterGroup, c *container.Container) {
	authors := v1.Group("/authors")
	{
		authors.POST("", c.AuthorHandler.Create)
		authors.GET("", c.AuthorHandler.GetAll)
		authors.GET("/:id", c.AuthorHandler.GetByID)
		authors.GET("/:id/detail", c.AuthorHandler.GetWithBookCount)
		authors.PUT("/:id", c.AuthorHandler.Update)
		authors.DELETE("/:id", c.AuthorHandler.Delete)
	}
}

// ========================================
// BOOK ROUTES
// ========================================
func setupBookRoutes(v1 *gin.RouterGroup, c *container.Container) {
	books := v1.Group("/books")
	{
		books.POST("", c.BookHandler.Create)
		books.GET("", c.BookHandler.GetAll)
		books.GET("/:id", c.BookHandler.GetByID)
		books.PUT("/:id", c.BookHandler.Update)
		books.DELETE("/:id", c.BookHandler.Delete)
	}
}

// ========================================
// CUSTOMER ROUTES
// ========================================
func setupCustomerRoutes(v1 *gin.RouterGroup, c *container.Container) {
	customers := v1.Group("/customers")
	{
		customers.POST("", c.CustomerHandler.Create)
		customers.GET("", c.CustomerHandler.GetAll)
		customers.GET("/:id", c.CustomerHandler.GetByID)
		customers.PUT("/:id", c.CustomerHandler.Update)
		customers.DELETE("/:id", c.CustomerHandler.Delete)
	}
}

// ========================================
// SALE ROUTES
// ========================================
func setupSaleRoutes(v1 *gin.RouterGroup, c *container.Container) {
	sales := v1.Group("/sales")
	{
		sales.POST("", c.SaleHandler.Create)
		sales.POST("/bulk", c.SaleHandler.BulkCreate)
		sales.GET("", c.SaleHandler.GetAll)
		sales.GET("/summary", c.SaleHandler.GetRevenueSummary)
		sales.GET("/:id", c.SaleHandler.GetByID)
		sales.PUT("/:id", c.SaleHandler.Update)
		sales.PUT("/:id/cancel", c.SaleHandler.Cancel)
		sales.DELETE("/:id", c.SaleHandler.Delete)
	}
}

// ========================================
// COMMISSION ROUTES
// ========================================
func setupCommissionRoutes(v1 *gin.RouterGroup, c *container.Container) {
	commissions := v1.Group("/commissions")
	{
		commissions.POST("", c.CommissionHandler.Create)
		commissions.POST("/author/:id/calculate", c.CommissionHandler.CalculateForAuthor)
		commissions.GET("", c.CommissionHandler.GetAll)
		commissions.GET("/pendingCommissions", c.CommissionHandler.GetPending)
		commissions.GET("/paidCommissions", c.CommissionHandler.GetPaid)
		commissions.GET("/:id", c.CommissionHandler.GetByID)
		commissions.PUT("/:id", c.CommissionHandler.Update)
		commissions.PUT("/:id/payCommission", c.CommissionHandler.MarkPaid)
		commissions.DELETE("/:id", c.CommissionHandler.Delete)
	}
}

// ========================================
// HEALTH CHECK HANDLER
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"services":  gin.H{},
		}

		dbStatus := "ok"
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus = "disconnected"
			health["status"] = "degraded"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.DB.HealthCheck(ctx); err != nil {
				dbStatus = fmt.Sprintf("error: %v", err)
				health["status"] = "degraded"
			}
		}

		redisStatus := "ok"
		if appCtx.Cache == nil {
			redisStatus = "disconnected"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.Cache.Ping(ctx); err != nil {
				redisStatus = fmt.Sprintf("error: %v", err)
			}
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}
