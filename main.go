package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"backend/internal/cache"
	"backend/internal/config"
	"backend/internal/database"
	"backend/internal/handlers"
	"backend/internal/middleware"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureProductIndexes(db); err != nil {
		log.Println("product index warning:", err)
	}
	if err := database.EnsureUserIndexes(db); err != nil {
		log.Println("user index warning:", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Println("order index warning:", err)
	}
	if err := database.EnsureCouponIndexes(db); err != nil {
		log.Println("coupon index warning:", err)
	}
	if err := database.EnsureStoreSettings(db); err != nil {
		log.Println("settings seed warning:", err)
	}

	var store cache.Cache
	if config.AppEnv.RedisAddr != "" {
		store = cache.NewRedisCache(config.AppEnv.RedisAddr, "storefront")
		log.Println("Redis cache enabled:", config.AppEnv.RedisAddr)
	}
	cacheTTL := config.AppEnv.SettingsCacheTTL

	r := gin.Default()

	r.GET("/products", handlers.GetProducts(db))
	r.GET("/products/campaign", handlers.GetCampaignProducts(db))
	r.GET("/products/:id", handlers.GetProduct(db))
	r.GET("/categories", handlers.GetCategories(db))
	r.GET("/settings", handlers.GetSettings(db, store, cacheTTL))
	r.GET("/zipcodes", handlers.LookupZipcodes())
	r.POST("/coupons/validate", handlers.ValidateCoupon(db, store, cacheTTL))

	r.POST("/auth/register", handlers.Register(
		db,
		config.AppEnv.JWTSecret,
		config.AppEnv.AccessTokenTTL,
		config.AppEnv.RefreshTokenTTL,
	))
	r.POST("/auth/login", handlers.Login(
		db,
		config.AppEnv.JWTSecret,
		config.AppEnv.AccessTokenTTL,
		config.AppEnv.RefreshTokenTTL,
	))
	r.POST("/auth/refresh", handlers.Refresh(
		db,
		config.AppEnv.JWTSecret,
		config.AppEnv.AccessTokenTTL,
		config.AppEnv.RefreshTokenTTL,
	))
	r.POST("/auth/logout", handlers.Logout(db))

	r.POST("/admin/login", handlers.AdminLogin(db, config.AppEnv.JWTSecret, config.AppEnv.AccessTokenTTL))

	user := r.Group("/")
	user.Use(middleware.UserAuth(config.AppEnv.JWTSecret))
	{
		user.GET("auth/me", handlers.GetMe(db))

		user.GET("user/addresses", handlers.GetUserAddresses(db))
		user.POST("user/addresses", handlers.CreateUserAddress(db))
		user.PUT("user/addresses/:id", handlers.UpdateUserAddress(db))
		user.DELETE("user/addresses/:id", handlers.DeleteUserAddress(db))

		user.POST("orders", handlers.CreateOrder(db, store, cacheTTL))
		user.GET("orders", handlers.GetMyOrders(db))
		user.GET("orders/:id", handlers.GetMyOrder(db))
		user.PUT("orders/:id", handlers.CancelOrder(db))
	}

	admin := r.Group("/admin/api")
	admin.Use(middleware.AdminAuth(config.AppEnv.JWTSecret))
	{
		admin.GET("/products", handlers.GetAllProducts(db))
		admin.POST("/products", handlers.CreateProduct(db))
		admin.PUT("/products/:id", handlers.UpdateProduct(db))
		admin.DELETE("/products/:id", handlers.DeleteProduct(db))

		admin.GET("/categories", handlers.GetAllCategories(db))
		admin.POST("/categories", handlers.CreateCategory(db))
		admin.PUT("/categories/:id", handlers.UpdateCategory(db))
		admin.DELETE("/categories/:id", handlers.DeleteCategory(db))

		admin.GET("/coupons", handlers.GetAllCoupons(db))
		admin.POST("/coupons", handlers.CreateCoupon(db))
		admin.PUT("/coupons/:id", handlers.UpdateCoupon(db))
		admin.DELETE("/coupons/:id", handlers.DeleteCoupon(db))

		admin.GET("/orders", handlers.GetAllOrders(db))
		admin.GET("/orders/:id", handlers.GetOrder(db))
		admin.PUT("/orders/:id", handlers.UpdateOrderStatus(db, store, cacheTTL))

		admin.GET("/settings", handlers.GetSettings(db, store, cacheTTL))
		admin.PUT("/settings", handlers.UpdateSettings(db, store))
	}

	r.Run(":" + config.AppEnv.Port)
}
