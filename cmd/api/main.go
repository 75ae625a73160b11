package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/presence-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/events"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/presence-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/presence-backend-go/internal/service/attendance"
	deviceService "github.com/cmlabs-hris/presence-backend-go/internal/service/device"
	presenceService "github.com/cmlabs-hris/presence-backend-go/internal/service/presence"
	"github.com/cmlabs-hris/presence-backend-go/internal/service/sweeper"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	employeeRepo := postgresql.NewEmployeeRepository(db)
	deviceRepo := postgresql.NewDeviceRepository(db)
	eventRepo := postgresql.NewAttendanceEventRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	hub := events.NewHub()
	go logTransitions(hub)

	presenceSvc := presenceService.NewPresenceService(eventRepo, employeeRepo, deviceRepo, hub)
	attendanceSvc := attendanceService.NewEventService(eventRepo, employeeRepo, presenceSvc)
	deviceSvc := deviceService.NewDeviceService(deviceRepo)

	presenceSweeper := sweeper.New(eventRepo, employeeRepo, hub, cfg.Sweeper.Interval)
	presenceSweeper.Start()

	presenceHandler := appHTTP.NewPresenceHandler(presenceSvc)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	deviceHandler := appHTTP.NewDeviceHandler(deviceSvc)
	sweeperHandler := appHTTP.NewSweeperHandler(presenceSweeper)

	router := appHTTP.NewRouter(
		JWTService,
		presenceHandler,
		attendanceHandler,
		deviceHandler,
		sweeperHandler,
		cfg.App.Env,
	)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Server running at http://localhost%s\n", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Println("Server error:", err)
		}
	}()

	// Graceful shutdown: stop the sweeper before the HTTP server exits
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down gracefully")
	presenceSweeper.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
}

// logTransitions drains presence transitions from the hub so every
// present/absent flip lands in the logs.
func logTransitions(hub *events.Hub) {
	ch, cleanup := hub.Subscribe()
	defer cleanup()

	for t := range ch {
		slog.Info("Presence transition",
			"employee", t.FullName,
			"employee_id", t.EmployeeID,
			"from", t.From,
			"to", t.To,
			"origin", t.Origin,
		)
	}
}
