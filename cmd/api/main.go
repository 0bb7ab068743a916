package main

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"studiobooking/internal/config"
	"studiobooking/internal/database"
	"studiobooking/internal/middleware"
	"studiobooking/internal/modules/auth"
	"studiobooking/internal/modules/availability"
	"studiobooking/internal/modules/booking"
	"studiobooking/internal/modules/entity"
	"studiobooking/internal/modules/holiday"
	"studiobooking/internal/modules/offering"
	"studiobooking/internal/modules/studio"
	"studiobooking/internal/modules/user"
	"studiobooking/internal/pkg/cache"
	jwtsvc "studiobooking/internal/pkg/jwt"
	"studiobooking/internal/pkg/logger"
	"studiobooking/internal/repository"
)

func main() {
	logger.Init()
	log := logger.Get()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config", zap.Error(err))
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("database connect", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("database migrate", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(db)
	entityRepo := repository.NewEntityRepository(db)
	studioRepo := repository.NewStudioRepository(db)
	offeringRepo := repository.NewOfferingRepository(db)
	availRepo := repository.NewAvailabilityRepository(db)
	holidayRepo := repository.NewHolidayRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	logRepo := repository.NewChangeLogRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)
	dayCache := cache.New(cfg.RedisAddr)

	authHandler := auth.NewHandler(auth.NewService(userRepo, j))
	userHandler := user.NewHandler(user.NewService(userRepo))
	entityHandler := entity.NewHandler(entity.NewService(entityRepo, bookingRepo))
	studioHandler := studio.NewHandler(studio.NewService(studioRepo))
	offeringHandler := offering.NewHandler(offering.NewService(offeringRepo))
	availHandler := availability.NewHandler(availability.NewService(availRepo, cfg.Schedule, dayCache))
	holidayHandler := holiday.NewHandler(holiday.NewService(holidayRepo))
	bookingHandler := booking.NewHandler(booking.NewService(
		bookingRepo, userRepo, studioRepo, offeringRepo, availRepo, holidayRepo, logRepo, cfg.Schedule,
	))

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.RequestLogger(), middleware.CORS())

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterRoutes(v1)

		// any authenticated user
		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			authHandler.RegisterProtected(protected)
			userHandler.RegisterPublic(protected)
			studioHandler.RegisterRoutes(protected)
			offeringHandler.RegisterRoutes(protected)
			availHandler.RegisterRoutes(protected)
			holidayHandler.RegisterRoutes(protected)
			bookingHandler.RegisterRoutes(protected)
		}

		// secretaries and admins
		staff := v1.Group("/")
		staff.Use(middleware.Auth(j), middleware.Staff())
		{
			entityHandler.RegisterRoutes(staff)
			holidayHandler.RegisterStaff(staff)
			bookingHandler.RegisterStaff(staff)
		}

		// admins only
		admin := v1.Group("/")
		admin.Use(middleware.Auth(j), middleware.AdminOnly())
		{
			userHandler.RegisterRoutes(admin)
			studioHandler.RegisterAdmin(admin)
			offeringHandler.RegisterAdmin(admin)
		}
	}

	log.Info("listening", zap.String("addr", cfg.Addr))
	if err := r.Run(cfg.Addr); err != nil {
		log.Fatal("server", zap.Error(err))
	}
}
