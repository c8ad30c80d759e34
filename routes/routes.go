package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restora/configs"
	"restora/controllers"
	"restora/middlewares"
	"restora/pkg/resp"
	"restora/repository"
)

// allowedMethods backs the 405 handler: an unsupported method on a known
// resource answers with the Allow header enumerating what it does support.
var allowedMethods = map[string][]string{
	"/menu":         {"GET", "POST", "PUT", "DELETE"},
	"/reviews":      {"GET", "POST", "DELETE"},
	"/reservations": {"GET", "POST", "PATCH", "DELETE"},
	"/sales":        {"GET", "POST"},
	"/users":        {"GET", "POST"},
	"/auth/login":   {"POST"},
}

// RegisterRoutes wires the REST surface onto r. Collection endpoints are
// public; only the admin dashboard sits behind auth.
func RegisterRoutes(r *gin.Engine, repos *repository.Repositories, cfg *configs.Config) {
	r.Use(middlewares.CORSMiddleware())

	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		if allow, ok := allowedMethods[c.Request.URL.Path]; ok {
			resp.MethodNotAllowed(c, allow...)
			return
		}
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	menuCtrl := controllers.NewMenuController(repos.Menu)
	reviewCtrl := controllers.NewReviewController(repos.Reviews, repos.Menu)
	reservationCtrl := controllers.NewReservationController(repos.Reservations)
	saleCtrl := controllers.NewSaleController(repos.Sales)
	userCtrl := controllers.NewUserController(repos.Users)
	authCtrl := controllers.NewAuthController(repos.Users, cfg.JWTSecret, cfg.JWTTTL)
	adminCtrl := controllers.NewAdminController(repos)

	r.GET("/menu", menuCtrl.List)
	r.POST("/menu", menuCtrl.Create)
	r.PUT("/menu", menuCtrl.Update)
	r.DELETE("/menu", menuCtrl.Delete)

	r.GET("/reviews", reviewCtrl.List)
	r.POST("/reviews", reviewCtrl.Create)
	r.DELETE("/reviews", reviewCtrl.Delete)

	r.GET("/reservations", reservationCtrl.List)
	r.POST("/reservations", reservationCtrl.Create)
	r.PATCH("/reservations", reservationCtrl.SetStatus)
	r.DELETE("/reservations", reservationCtrl.Delete)

	r.GET("/sales", saleCtrl.List)
	r.POST("/sales", saleCtrl.Create)

	r.GET("/users", userCtrl.List)
	r.POST("/users", userCtrl.Create)

	r.POST("/auth/login", authCtrl.Login)

	admin := r.Group("/admin", middlewares.AuthMiddleware(cfg.JWTSecret, "admin"))
	{
		admin.GET("/dashboard", adminCtrl.Dashboard)
	}
}
