package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"sync"
	"time"

	"github.com/zeetms/fleet-admin/internal/assignment"
	"github.com/zeetms/fleet-admin/internal/auth"
	"github.com/zeetms/fleet-admin/internal/database"
	"github.com/zeetms/fleet-admin/internal/env"
	"github.com/zeetms/fleet-admin/internal/model"
	"github.com/zeetms/fleet-admin/internal/reports"
	"github.com/zeetms/fleet-admin/internal/storage"
	"github.com/zeetms/fleet-admin/internal/version"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	err := run(logger)
	if err != nil {
		trace := string(debug.Stack())
		logger.Error(err.Error(), "trace", trace)
		os.Exit(1)
	}
}

type config struct {
	httpHost string
	httpPort int
	db       struct {
		dsn         string
		automigrate bool
	}
	auth struct {
		secret   string
		tokenTTL time.Duration
	}
	uploads struct {
		dir string
	}
	admin struct {
		username string
		password string
	}
}

type application struct {
	config      config
	db          *database.DB
	logger      *slog.Logger
	auth        *auth.Service
	assignments *assignment.Service
	reports     *reports.Service
	uploads     *storage.Uploads
	wg          sync.WaitGroup
}

func run(logger *slog.Logger) error {
	cfgFile := flag.String("cfg", "", "path to config file")
	showVersion := flag.Bool("version", false, "display version and exit")

	flag.Parse()

	if *showVersion {
		fmt.Printf("version: %s\n", version.Get())
		return nil
	}

	var cfg config

	if *cfgFile != "" {
		err := env.Load(*cfgFile)
		if err != nil {
			return err
		}
	}

	cfg.httpHost = env.GetString("HTTP_HOST", "localhost")
	cfg.httpPort = env.GetInt("HTTP_PORT", 8080)
	cfg.db.dsn = env.GetString("DB_DSN", "postgres:postgres@localhost:5432/postgres")
	cfg.db.automigrate = env.GetBool("DB_AUTOMIGRATE", true)
	cfg.auth.secret = env.GetString("JWT_SECRET", "default-secret-key-change-in-production")
	cfg.auth.tokenTTL = env.GetDuration("JWT_EXPIRY", 24*time.Hour)
	cfg.uploads.dir = env.GetString("UPLOAD_DIR", "uploads")
	cfg.admin.username = env.GetString("ADMIN_USERNAME", "admin")
	cfg.admin.password = env.GetString("ADMIN_PASSWORD", "")

	db, err := database.New(cfg.db.dsn, cfg.db.automigrate)
	if err != nil {
		return err
	}
	defer db.Close()

	uploads, err := storage.NewUploads(logger, cfg.uploads.dir)
	if err != nil {
		return err
	}

	employees := database.NewEmployeeDAO(logger, db)
	vehicles := database.NewVehicleDAO(logger, db)
	ledger := database.NewAssignmentDAO(logger, db)

	app := &application{
		config:  cfg,
		db:      db,
		logger:  logger,
		auth:    auth.NewService(auth.Config{Secret: cfg.auth.secret, TokenTTL: cfg.auth.tokenTTL}),
		uploads: uploads,
	}
	app.assignments = assignment.NewService(logger, ledger, fleetDirectory{employees, vehicles})
	app.reports = reports.NewService(logger, vehicles, employees)

	if cfg.admin.password != "" {
		hash, err := app.auth.HashPassword(cfg.admin.password)
		if err != nil {
			return err
		}
		if err := database.SeedAdminUser(context.Background(), logger, db, cfg.admin.username, hash); err != nil {
			return err
		}
	}

	return app.serveHTTP()
}

// fleetDirectory adapts the entity DAOs to the assignment service's
// Directory interface.
type fleetDirectory struct {
	employees *database.EmployeeDAO
	vehicles  *database.VehicleDAO
}

func (d fleetDirectory) GetEmployee(ctx context.Context, id model.ID) (model.Employee, error) {
	row, err := d.employees.Get(ctx, id)
	return row.Employee, err
}

func (d fleetDirectory) GetVehicle(ctx context.Context, id model.ID) (model.Vehicle, error) {
	row, err := d.vehicles.Get(ctx, id)
	return row.Vehicle, err
}
