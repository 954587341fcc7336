// routes.go
//
// A neighborhood social network data service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of barrio.
// barrio is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// barrio is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with barrio.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package main

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/localnerve/barrio/internal/config"
	"github.com/localnerve/barrio/internal/handlers"
	"github.com/localnerve/barrio/internal/mail"
	"github.com/localnerve/barrio/internal/middleware"
	"github.com/localnerve/barrio/internal/push"
	"github.com/localnerve/barrio/internal/services"
	"github.com/localnerve/barrio/internal/utils"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

// newApp builds the fiber app with every route. HTTP metrics register with registry.
func newApp(cfg *config.Config, db *gorm.DB, pusher push.Sender, mailer mail.Sender, registry prometheus.Registerer) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		// Disable startup message for cleaner logs
		DisableStartupMessage: false,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	// Prometheus metrics
	metrics := fiberprometheus.NewWithRegistry(registry, "barrio", "http", "", nil)
	metrics.RegisterAt(app, "/metrics")
	app.Use(metrics.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API routes under /api
	api := app.Group("/api")

	// Version middleware
	api.Use(middleware.VersionMiddleware())

	// Shared services
	issuer := services.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	notifier := services.NewDispatcher(db, pusher, cfg.TransportTimeout)
	codes := &services.CodeMailer{Sender: mailer, Timeout: cfg.TransportTimeout, TTL: cfg.VerificationCodeTTL}

	authUser := middleware.AuthUser(issuer)
	authAdmin := middleware.AuthAdmin(issuer)

	// Create handlers
	authHandler := &handlers.AuthHandler{DB: db, Issuer: issuer, Codes: codes}
	userHandler := &handlers.UserHandler{DB: db}
	graphHandler := &handlers.GraphHandler{DB: db, Notifier: notifier}
	likeHandler := &handlers.LikeHandler{DB: db, Notifier: notifier}
	postHandler := &handlers.PostHandler{DB: db, Notifier: notifier}
	locationHandler := &handlers.LocationHandler{DB: db}
	productHandler := &handlers.ProductHandler{DB: db}
	communityHandler := &handlers.CommunityHandler{DB: db}
	categoryHandler := &handlers.CategoryHandler{DB: db}
	notificationHandler := &handlers.NotificationHandler{DB: db}
	adminHandler := &handlers.AdminHandler{DB: db}
	healthHandler := &handlers.HealthHandler{DB: db, Config: cfg}

	// Public routes
	api.Post("/create_users", authHandler.CreateUser)
	api.Post("/login", authHandler.Login)
	api.Post("/auth/forgot", authHandler.ForgotPassword)
	api.Post("/auth/reset", authHandler.ResetPassword)
	api.Post("/auth/verify/request", authHandler.RequestVerification)
	api.Post("/auth/verify/confirm", authHandler.ConfirmVerification)
	api.Get("/categories", categoryHandler.ListCategories)
	api.Get("/categories/:id", categoryHandler.GetCategory)
	api.Get("/health", healthHandler.Health)

	// Users
	api.Post("/users/all", authUser, userHandler.ListUsers)
	api.Post("/users/getById", authUser, userHandler.GetUserByID)
	api.Post("/users/update", authUser, userHandler.UpdateUser)
	api.Post("/users/delete", authUser, userHandler.DeleteUser)
	api.Post("/auth/password", authUser, authHandler.UpdatePassword)

	// Graph
	api.Post("/follow", authUser, graphHandler.Follow)
	api.Post("/unfollow", authUser, graphHandler.Unfollow)
	api.Post("/followers", authUser, graphHandler.Followers)
	api.Post("/following", authUser, graphHandler.Following)

	// Likes
	api.Post("/create_likes", authUser, likeHandler.CreateLike)
	api.Post("/likes/delete", authUser, likeHandler.DeleteLike)
	api.Post("/likes/byPost/:id", authUser, likeHandler.LikesByPost)
	api.Post("/likes/count/:id", authUser, likeHandler.CountByPost)

	// Posts
	api.Post("/postscreate", authUser, postHandler.CreatePost)
	api.Post("/posts", authUser, postHandler.Feed)
	api.Post("/post/:id", authUser, postHandler.GetPost)
	api.Put("/updateposts/:id", authUser, postHandler.UpdatePost)
	api.Delete("/deleteposts/:id", authUser, postHandler.DeletePost)
	api.Post("/posts/user/:id", authUser, postHandler.PostsByUser)

	// Locations
	api.Post("/locations/getById", authUser, locationHandler.GetByID)
	api.Post("/locations/update", authUser, locationHandler.Update)

	// Products
	api.Post("/productscreate", authUser, productHandler.CreateProduct)
	api.Post("/products", authUser, productHandler.ListProducts)
	api.Post("/product/:id", authUser, productHandler.GetProduct)
	api.Put("/updateproducts/:id", authUser, productHandler.UpdateProduct)
	api.Delete("/deleteproducts/:id", authUser, productHandler.DeleteProduct)
	api.Post("/products/user/:id", authUser, productHandler.ProductsByUser)

	// Communities
	api.Post("/communities/create", authUser, communityHandler.CreateCommunity)
	api.Post("/communities/mine", authUser, communityHandler.MyCommunities)
	api.Post("/communities", authUser, communityHandler.ListCommunities)
	api.Post("/community/:id", authUser, communityHandler.GetCommunity)
	api.Put("/communities/:id", authUser, communityHandler.UpdateCommunity)
	api.Delete("/communities/:id", authUser, communityHandler.DeleteCommunity)

	// Notifications
	api.Post("/notifications", authUser, notificationHandler.ListNotifications)
	api.Post("/notifications/read", authUser, notificationHandler.MarkRead)

	// Admin-only routes
	api.Post("/categories/create", authAdmin, categoryHandler.CreateCategory)
	api.Put("/categories/:id", authAdmin, categoryHandler.UpdateCategory)
	api.Delete("/categories/:id", authAdmin, categoryHandler.DeleteCategory)
	api.Post("/admin/reconcile", authAdmin, adminHandler.Reconcile)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return utils.NotFoundResponse(c, "[404] Resource Not Found: "+c.OriginalURL())
	})

	return app
}

// customErrorHandler handles errors globally
func customErrorHandler(c *fiber.Ctx, err error) error {
	return utils.ErrorHandler(c, err)
}
