package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"sharehub/internal/config"
	"sharehub/internal/database"
	"sharehub/internal/middleware"
	"sharehub/internal/modules/admin"
	"sharehub/internal/modules/auth"
	"sharehub/internal/modules/booking"
	"sharehub/internal/modules/catalog"
	"sharehub/internal/modules/events"
	"sharehub/internal/modules/exchange"
	jwtsvc "sharehub/internal/pkg/jwt"
	"sharehub/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	placeRepo := repository.NewPlaceRepository(db)
	bookRepo := repository.NewBookRepository(db)
	reservationRepo := repository.NewReservationRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)

	hub := events.NewHub()
	defer hub.Close()
	feed := events.NewFeed(hub)
	wsHandler := events.NewWSHandler(hub, j)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	catalogService := catalog.NewService(placeRepo, bookRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	bookingService := booking.NewService(reservationRepo, placeRepo, feed)
	bookingHandler := booking.NewHandler(bookingService)

	exchangeService := exchange.NewService(bookRepo, feed)
	exchangeHandler := exchange.NewHandler(exchangeService)

	adminService := admin.NewService(userRepo, placeRepo, bookRepo, reservationRepo)
	adminHandler := admin.NewHandler(adminService)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterPublicRoutes(v1)
		catalogHandler.RegisterPublicRoutes(v1)
		bookingHandler.RegisterPublicRoutes(v1)
		wsHandler.RegisterRoutes(v1)

		// protected
		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			catalogHandler.RegisterProtectedRoutes(protected)
			bookingHandler.RegisterRoutes(protected)
			exchangeHandler.RegisterRoutes(protected)

			adminGroup := protected.Group("/")
			adminGroup.Use(middleware.AdminOnly())
			{
				adminHandler.RegisterRoutes(adminGroup)
			}
		}
	}

	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal(err)
	}
}
