package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	_ "modernc.org/sqlite"

	"chainmigrator/internal/app"
	"chainmigrator/internal/domain"
	"chainmigrator/internal/infrastructure/sqlledger"
	"chainmigrator/migrations"
)

type config struct {
	Driver        string
	DSN           string
	MigrationsDir string
}

func main() {
	if len(os.Args) < 2 {
		printHelp()
		os.Exit(1)
	}

	logger := log.New()
	logger.SetFormatter(&log.JSONFormatter{})

	command := os.Args[1]
	args := os.Args[2:]

	cfg, err := loadConfig()
	if err != nil {
		fail(logger, err)
	}

	if command == "create" {
		if len(args) < 1 {
			printHelp()
			os.Exit(1)
		}
		path, err := app.Create(cfg.MigrationsDir, args[0], migrations.Units())
		if err != nil {
			fail(logger, err)
		}
		fmt.Println("generated new migration file:", path)
		return
	}

	db, err := openDB(cfg)
	if err != nil {
		fail(logger, err)
	}
	defer func() {
		_ = db.Close()
	}()

	var locker domain.Locker = sqlledger.SQLiteLocker{}
	if cfg.Driver == "postgres" {
		locker = sqlledger.NewPostgresLocker(db)
	}
	var service domain.MigrationService = app.NewMigrationService(db, sqlledger.NewLedger(db), locker, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch command {
	case "upgrade":
		target := domain.TargetHead
		if len(args) > 0 {
			target = args[0]
		}
		res, err := service.Upgrade(ctx, migrations.Units(), target)
		report(logger, res, err)
	case "downgrade":
		target := domain.TargetNone
		if len(args) > 0 {
			target = args[0]
		}
		res, err := service.Downgrade(ctx, migrations.Units(), target)
		report(logger, res, err)
	case "current":
		version, err := service.Current(ctx, migrations.Units())
		if err != nil {
			fail(logger, err)
		}
		fmt.Println(version)
	case "history":
		entries, err := service.History(ctx)
		if err != nil {
			fail(logger, err)
		}
		for _, e := range entries {
			fmt.Printf("%s\t%s\n", e.UnitID, e.AppliedAt.Format(time.RFC3339))
		}
	default:
		fmt.Println("Unknown command:", command)
		printHelp()
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("usage: chainmigrator <upgrade [target]|downgrade [target]|current|history|create <name>>")
}

func report(logger *log.Logger, res domain.Result, err error) {
	if err != nil {
		logger.WithError(err).WithFields(log.Fields{
			"applied": res.Applied,
			"version": res.Version,
		}).Error("migration run failed")
		fmt.Println(err.Error())
		os.Exit(1)
	}
	logger.WithFields(log.Fields{
		"applied": res.Applied,
		"version": res.Version,
	}).Info("migration run complete")
}

func fail(logger *log.Logger, err error) {
	logger.WithError(err).Error("command failed")
	fmt.Println(err.Error())
	os.Exit(1)
}

func loadConfig() (config, error) {
	// Optional .env next to the binary; real env still wins.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "newsletter.db")
	v.SetDefault("migrations.dir", "migrations")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return config{}, errors.Wrap(err, "read config file")
		}
	}

	cfg := config{
		Driver:        v.GetString("database.driver"),
		DSN:           v.GetString("database.dsn"),
		MigrationsDir: v.GetString("migrations.dir"),
	}
	if driver := os.Getenv("DATABASE_DRIVER"); driver != "" {
		cfg.Driver = driver
	}
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		cfg.DSN = dsn
	}
	if dir := os.Getenv("MIGRATIONS_DIR"); dir != "" {
		cfg.MigrationsDir = dir
	}
	if cfg.Driver != "sqlite" && cfg.Driver != "postgres" {
		return config{}, errors.Errorf("unsupported database driver %q", cfg.Driver)
	}
	return cfg, nil
}

func openDB(cfg config) (*sql.DB, error) {
	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s database", cfg.Driver)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "ping %s database", cfg.Driver)
	}
	return db, nil
}
