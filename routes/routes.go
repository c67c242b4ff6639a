package routes

import (
	"net/http"

	"github.com/AbdelrahmanBadr7422/plot-twist-backend/controllers"
	"github.com/AbdelrahmanBadr7422/plot-twist-backend/middleware"
	"github.com/gin-gonic/gin"
)

// Setup registers every route. Book reads are public; everything else
// requires a token, and catalog writes plus order administration require the
// admin role.
func Setup(
	router *gin.Engine,
	authController *controllers.AuthController,
	bookController *controllers.BookController,
	orderController *controllers.OrderController,
	tokens middleware.TokenValidator,
) {
	api := router.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := api.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.GET("/profile", middleware.AuthMiddleware(tokens), authController.Profile)
	}

	books := api.Group("/books")
	{
		books.GET("", bookController.ListBooks)
		books.GET("/:id", bookController.GetBook)

		adminBooks := books.Group("", middleware.AuthMiddleware(tokens), middleware.AdminOnly())
		{
			adminBooks.POST("", bookController.CreateBook)
			adminBooks.PUT("/:id", bookController.UpdateBook)
			adminBooks.DELETE("/:id", bookController.DeleteBook)
		}
	}

	orders := api.Group("/orders", middleware.AuthMiddleware(tokens))
	{
		orders.POST("", orderController.CreateOrder)
		orders.GET("/my-orders", orderController.GetMyOrders)
		orders.GET("/:id", orderController.GetOrderByID)
		orders.PUT("/:id/cancel", orderController.CancelOrder)

		adminOrders := orders.Group("", middleware.AdminOnly())
		{
			adminOrders.GET("", orderController.GetAllOrders)
			adminOrders.PUT("/:id/status", orderController.UpdateOrderStatus)
		}
	}
}
