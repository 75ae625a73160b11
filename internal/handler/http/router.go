package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/presence-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	JWTService jwt.Service,
	presenceHandler PresenceHandler,
	attendanceHandler AttendanceHandler,
	deviceHandler DeviceHandler,
	sweeperHandler SweeperHandler,
	env string,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "presence-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// Public routes: ESP32 beacons and the mobile scanner app
		// report without credentials
		r.Route("/presence", func(r chi.Router) {
			r.Post("/", presenceHandler.Report)
			r.Get("/{employeeCode}", presenceHandler.GetStatus)
		})

		r.Route("/attendance", func(r chi.Router) {
			r.Post("/", attendanceHandler.LogEvent)
			r.Get("/", attendanceHandler.GetLogs)

			// Dashboard routes
			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
				r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

				r.Get("/history/{employeeCode}", attendanceHandler.GetHistory)
				r.Get("/employee/{employeeCode}/monthly-presence", attendanceHandler.GetMonthlyPresence)
				r.Put("/{id}", attendanceHandler.Update)
				r.Delete("/{id}", attendanceHandler.Delete)
			})
		})

		r.Route("/scanners", func(r chi.Router) {
			r.Post("/scan", deviceHandler.Scan)
			r.Post("/beacon", deviceHandler.Beacon)
			r.Get("/status", deviceHandler.Overview)

			// Dashboard routes
			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
				r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

				r.Get("/", deviceHandler.List)
				r.Post("/", deviceHandler.Register)
				r.Put("/{id}", deviceHandler.Update)
				r.Delete("/{id}", deviceHandler.Delete)
			})
		})

		// Sweeper control surface, dashboard only
		r.Route("/sweeper", func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Get("/status", sweeperHandler.GetStatus)
			r.Post("/trigger", sweeperHandler.Trigger)
			r.Post("/start", sweeperHandler.Start)
			r.Post("/stop", sweeperHandler.Stop)
		})
	})

	return r
}
