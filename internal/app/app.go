package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/fathoor/library-service/config"
	"github.com/fathoor/library-service/internal/controller"
	"github.com/fathoor/library-service/internal/infrastructure/cache"
	circuitbreaker "github.com/fathoor/library-service/internal/infrastructure/circuit-breaker"
	localkafka "github.com/fathoor/library-service/internal/infrastructure/message-queue/kafka"
	"github.com/fathoor/library-service/internal/infrastructure/tracing"
	localmiddleware "github.com/fathoor/library-service/internal/middleware"
	"github.com/fathoor/library-service/internal/repository"
	"github.com/fathoor/library-service/internal/service"
	"github.com/fathoor/library-service/pkg/response"
	"github.com/go-co-op/gocron/v2"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

type App struct {
	DB            *sqlx.DB
	Config        *config.Config
	KafkaProducer *kafka.Conn
	KafkaReader   *kafka.Reader
	Server        *echo.Echo
}

func (app *App) Start() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = logger

	e := echo.New()
	traceProvider, err := tracing.InitTracing(app.Config.TracingConfig.CollectorHost)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize tracing")
	}

	defer func() {
		if err := traceProvider.Shutdown(context.Background()); err != nil {
			logger.Error().Err(err).Msg("Failed to shutdown tracing")
		}
	}()

	tracer := traceProvider.Tracer("library-service")

	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// span creation and naming
			ctx, span := tracer.Start(c.Request().Context(), fmt.Sprintf("[%s] %s", c.Request().Method, c.Path()))
			defer span.End()

			// add the context to the request
			req := c.Request()
			c.SetRequest(req.WithContext(ctx))

			return next(c)
		}
	})

	// Used empty string so that metrics are not prefixed with the service name making it easier to aggregate across services
	e.Use(echoprometheus.NewMiddleware(""))

	go func() {
		metrics := echo.New()
		metrics.GET("/metrics", echoprometheus.NewHandler())
		if err := metrics.Start(fmt.Sprintf(":%s", app.Config.MetricsPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start metrics server")
		}
	}()

	g := e.Group("/api/v1")

	g.Use(localmiddleware.Logger)

	userRepo := repository.CreateNewUserRepository(app.DB)
	roleRepo := repository.CreateNewRoleRepository(app.DB)
	bookRepo := repository.CreateNewBookRepository(app.DB)
	borrowRepo := repository.CreateNewBorrowRepository(app.DB)
	tokenRepo := repository.CreateNewTokenRepository(app.DB)

	listCache := cache.CreateNewCache(10 * time.Minute)
	producer := localkafka.CreateProducer(app.KafkaProducer)
	breaker := circuitbreaker.CreateCircuitBreaker("smtp")

	authService := service.CreateNewAuthService(userRepo, roleRepo, tokenRepo, *app.Config)
	authorizer := service.CreateNewAuthorizer(roleRepo)
	roleService := service.CreateNewRoleService(roleRepo, userRepo)
	bookService := service.CreateNewBookService(bookRepo, borrowRepo, listCache, producer)
	notificationService := service.CreateNewNotificationService(app.KafkaReader, service.SMTPMailSender{Config: app.Config.SMTPConfig}, breaker, *app.Config)

	isLoggedIn := localmiddleware.JWTAuth(authService)

	controller.CreateAuthController(g, authService, isLoggedIn)
	controller.CreateRoleController(g, roleService, authorizer, isLoggedIn)
	controller.CreateBookController(g, bookService, authorizer, isLoggedIn)

	g.GET("/ping", func(c echo.Context) error {
		return response.WriteSuccessResponse(c, "pong", nil)
	})

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create scheduler")
	} else {
		_, err = scheduler.NewJob(gocron.DurationJob(time.Hour), gocron.NewTask(func() {
			if err := tokenRepo.DeleteExpiredTokens(context.Background(), time.Now().UnixMilli()); err != nil {
				log.Error().Err(err).Str("component", "DeleteExpiredTokens").Msg("")
			}
		}))
		if err != nil {
			logger.Error().Err(err).Msg("Failed to schedule revoked token sweep")
		}
		scheduler.Start()
		defer scheduler.Shutdown()
	}

	go notificationService.ConsumeEvents()

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%s", app.Config.ServicePort)))

	app.Server = e
}

func (app *App) StopServer() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return app.Server.Shutdown(ctx)
}
