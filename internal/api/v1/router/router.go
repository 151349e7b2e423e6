package router

import (
	"context"
	"database/sql"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awsmiddleware "github.com/aws/smithy-go/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"app/internal/api/v1/handler"
	"app/internal/config"
	"app/internal/gateway"
	"app/internal/mailer"
	"app/internal/middleware"
	"app/internal/migrations"
	"app/internal/model"
	"app/internal/repository"
	"app/internal/service"
	"app/internal/storage"
	"app/internal/token"
)

// New builds the whole API: it connects to Postgres, applies migrations,
// constructs every repository, service and handler, and returns the root
// handler plus the pool the caller must close on shutdown.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (http.Handler, *pgxpool.Pool, error) {
	dsn := cfg.DBConnectionString
	if cfg.Environment == "development" && !strings.Contains(dsn, "sslmode") {
		separator := "?"
		if strings.Contains(dsn, "?") {
			separator = "&"
		}
		dsn += separator + "sslmode=disable"
	}

	// Migrations need database/sql; the short-lived handle is closed as soon
	// as the schema is current.
	migDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, nil, err
	}
	if err := migrations.Run(migDB, cfg.MigrationsPath); err != nil {
		migDB.Close()
		return nil, nil, err
	}
	migDB.Close()
	logger.Info().Msg("Database schema is current")

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	logger.Info().Msg("Database connection successful")

	s3Config, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")),
		awsconfig.WithAPIOptions([]func(*awsmiddleware.Stack) error{removeDisableGzip()}),
	)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	s3Client := s3.NewFromConfig(s3Config, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3URL)
		o.UsePathStyle = true
	})

	validate := validator.New(validator.WithRequiredStructEnabled())
	maker := token.NewMaker(cfg.JWTSecret, cfg.TokenTTL)
	media := storage.NewS3Store(s3Client, cfg.S3Bucket, cfg.S3URL, logger)
	mail := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom, logger)
	gatewayClient := gateway.NewClient(cfg.GatewayKeyID, cfg.GatewayKeySecret, cfg.GatewayBaseURL)

	userRepo := repository.NewUserRepo(pool)
	courseRepo := repository.NewCourseRepo(pool, logger)
	lectureRepo := repository.NewLectureRepo(pool, logger)
	paymentRepo := repository.NewPaymentRepo(pool)

	userSvc := service.NewUserService(userRepo, media, mail, cfg.FrontendURL, logger)
	courseSvc := service.NewCourseService(courseRepo, lectureRepo, media, logger)
	lectureSvc := service.NewLectureService(lectureRepo, courseRepo, media, logger)
	subscriptionSvc := service.NewSubscriptionService(userRepo, paymentRepo, gatewayClient, cfg.GatewayPlanID, cfg.GatewayKeySecret, logger)
	statsSvc := service.NewStatsService(userRepo)

	debug := !cfg.IsProduction()
	userHandler := handler.NewUserHandler(userSvc, maker, validate, debug, logger)
	courseHandler := handler.NewCourseHandler(courseSvc, lectureSvc, validate, debug, logger)
	paymentHandler := handler.NewPaymentHandler(subscriptionSvc, userSvc, maker, cfg.GatewayKeyID, validate, debug, logger)
	miscHandler := handler.NewMiscHandler(statsSvc, mail, cfg.ContactEmail, validate, debug, logger)

	requireAuth := middleware.RequireAuth(maker, logger)
	requireAdmin := middleware.RequireRole(model.RoleAdmin)
	requireSubscription := middleware.RequireActiveSubscription(userRepo, logger)
	rejectAuthed := middleware.RejectIfAuthenticated(maker)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /ping", miscHandler.Ping)
	mux.HandleFunc("POST /contact", miscHandler.Contact)

	mux.Handle("POST /user/register", rejectAuthed(http.HandlerFunc(userHandler.Register)))
	mux.Handle("POST /user/login", rejectAuthed(http.HandlerFunc(userHandler.Login)))
	mux.HandleFunc("GET /user/logout", userHandler.Logout)
	mux.HandleFunc("POST /user/forgot-password", userHandler.ForgotPassword)
	mux.HandleFunc("POST /user/reset-password/{token}", userHandler.ResetPassword)
	mux.Handle("GET /user/me", requireAuth(http.HandlerFunc(userHandler.Me)))
	mux.Handle("POST /user/change-password", requireAuth(http.HandlerFunc(userHandler.ChangePassword)))
	mux.Handle("PUT /user/update-profile", requireAuth(http.HandlerFunc(userHandler.UpdateProfile)))

	mux.HandleFunc("GET /course/{$}", courseHandler.List)
	mux.Handle("GET /course/{id}", requireAuth(requireSubscription(http.HandlerFunc(courseHandler.Get))))
	mux.Handle("POST /course/create", requireAuth(requireAdmin(http.HandlerFunc(courseHandler.Create))))
	mux.Handle("PUT /course/update/{id}", requireAuth(requireAdmin(http.HandlerFunc(courseHandler.Update))))
	mux.Handle("DELETE /course/remove/{id}", requireAuth(requireAdmin(http.HandlerFunc(courseHandler.Delete))))
	mux.Handle("POST /course/create/lectures/{id}", requireAuth(requireAdmin(http.HandlerFunc(courseHandler.CreateLecture))))
	mux.Handle("PUT /course/update/lectures/{id}/{lectureId}", requireAuth(requireAdmin(http.HandlerFunc(courseHandler.UpdateLecture))))
	mux.Handle("DELETE /course/remove/lectures/{id}/{lectureId}", requireAuth(requireAdmin(http.HandlerFunc(courseHandler.DeleteLecture))))

	mux.Handle("GET /payment/apikey", requireAuth(http.HandlerFunc(paymentHandler.Apikey)))
	mux.Handle("POST /payment/subscribe", requireAuth(http.HandlerFunc(paymentHandler.Subscribe)))
	mux.Handle("POST /payment/verify-subscription", requireAuth(http.HandlerFunc(paymentHandler.VerifySubscription)))
	mux.Handle("POST /payment/unsubscribe", requireAuth(requireSubscription(http.HandlerFunc(paymentHandler.Unsubscribe))))
	mux.Handle("GET /payment/{$}", requireAuth(requireAdmin(http.HandlerFunc(paymentHandler.ListPayments))))

	mux.Handle("GET /admin/stats", requireAuth(requireAdmin(http.HandlerFunc(miscHandler.Stats))))

	root := http.NewServeMux()
	root.Handle("/api/v1/", http.StripPrefix("/api/v1", mux))

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return middleware.Logger(logger)(c.Handler(root)), pool, nil
}

// removeDisableGzip works around S3 signature errors with some S3-compatible
// services. See: https://github.com/supabase/storage/issues/577
func removeDisableGzip() func(*awsmiddleware.Stack) error {
	return func(stack *awsmiddleware.Stack) error {
		if _, ok := stack.Finalize.Get("DisableAcceptEncodingGzip"); ok {
			_, err := stack.Finalize.Remove("DisableAcceptEncodingGzip")
			return err
		}
		return nil
	}
}
