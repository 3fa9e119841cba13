package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jgoulah/kcaltrack/internal/config"
	"github.com/jgoulah/kcaltrack/internal/database"
	"github.com/jgoulah/kcaltrack/internal/entry"
	"github.com/jgoulah/kcaltrack/internal/errs"
	"github.com/jgoulah/kcaltrack/internal/goal"
	"github.com/jgoulah/kcaltrack/internal/kv"
	"github.com/jgoulah/kcaltrack/internal/logging"
	"github.com/jgoulah/kcaltrack/internal/recognizer"
)

var (
	cfgFile  string
	dbPath   string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "kcaltrack",
	Short: "Track meals, calories and macronutrients",
	Long: `kcaltrack records food entries with calories and macronutrients, keeps a daily
calorie goal, and reports daily, weekly and monthly nutrition totals.
Entries are stored in a local SQLite database (or Redis) and fall back to
memory when durable storage is unavailable.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database file (default is ./kcaltrack.db)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error (overrides config)")
}

// getConfigPath returns the config file path
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultConfigPath()
}

// getDBPath returns the database file path
func getDBPath(cfg *config.Config) string {
	if dbPath != "" {
		return dbPath
	}
	return cfg.GetDBPath()
}

// loadConfig loads the configuration file
func loadConfig() (*config.Config, error) {
	return config.Load(getConfigPath())
}

// app bundles the stores a command works with
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	kv      *kv.Adapter
	entries *entry.Store
	goals   *goal.Store
	closers []func() error
}

// openApp loads config, opens storage and builds the stores
func openApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	logger, err := logging.Setup(level)
	if err != nil {
		return nil, fmt.Errorf("setting up logging: %w", err)
	}

	a := &app{cfg: cfg, logger: logger}

	durable, closer, err := openMedium(ctx, cfg)
	if err != nil {
		// Keep going on the in-memory fallback
		logger.Warn("durable storage unavailable, changes will not persist", zap.Error(err))
	}
	if closer != nil {
		a.closers = append(a.closers, closer)
	}

	a.kv = kv.New(durable, kv.NewMemory(), logger)
	a.entries = entry.NewStore(a.kv, entry.WithLogger(logger))
	a.goals = goal.NewStore(a.kv, logger)
	return a, nil
}

// openMedium opens the configured durable medium. A nil medium means memory only.
func openMedium(ctx context.Context, cfg *config.Config) (kv.Medium, func() error, error) {
	switch cfg.GetDriver() {
	case "memory":
		return nil, nil, nil
	case "redis":
		rc := cfg.Storage.Redis
		opts := &redis.Options{Addr: rc.Addr, Password: rc.Password, DB: rc.DB}
		medium, err := database.NewRedisMedium(ctx, opts, rc.URL, cfg.GetRedisPrefix())
		if err != nil {
			return nil, nil, fmt.Errorf("opening redis: %w", err)
		}
		return medium, medium.Close, nil
	default:
		path := getDBPath(cfg)

		// Ensure directory exists
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, nil, fmt.Errorf("creating database directory: %w", err)
		}

		db, err := database.New(path, cfg.GetQuotaBytes())
		if err != nil {
			return nil, nil, fmt.Errorf("opening database: %w", err)
		}
		return db, db.Close, nil
	}
}

// Close releases storage and flushes the logger
func (a *app) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.logger.Warn("closing storage", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

// recognizer builds the image recognizer for the configured mode
func (a *app) recognizer() recognizer.ImageRecognizer {
	simulated := recognizer.NewSimulated(recognizer.DefaultTable(), a.cfg.GetSimulatedDelay(), nil)

	rc := a.cfg.Recognizer
	switch a.cfg.GetRecognizerMode() {
	case "simulated":
		return simulated
	case "vision":
		return recognizer.NewVision(rc.Endpoint, rc.APIKey, a.cfg.GetRecognizerTimeout())
	default:
		if rc.APIKey == "" {
			return simulated
		}
		vision := recognizer.NewVision(rc.Endpoint, rc.APIKey, a.cfg.GetRecognizerTimeout())
		return recognizer.NewChain(a.logger, vision, simulated)
	}
}

// reportOutcome prints a notice when a write had to drop photos
func reportOutcome(outcome entry.WriteOutcome) {
	if outcome == entry.WriteDegraded {
		fmt.Println("Warning: storage is full, photos were removed from all entries to make room")
	}
}

// userMessage turns known failures into actionable text
func userMessage(err error) string {
	switch {
	case errors.Is(err, errs.ErrPersistence):
		return fmt.Sprintf("Error: storage full, delete old entries and try again (%v)", err)
	case errors.Is(err, errs.ErrRecognition):
		return fmt.Sprintf("Error: could not recognize food, nothing was saved (%v)", err)
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}

// parseDate parses a date string in either YYYY-MM-DD format or relative format (e.g., "7d")
func parseDate(dateStr string) (time.Time, error) {
	// Try absolute date format first
	t, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
	if err == nil {
		return t, nil
	}

	if dateStr == "today" {
		return time.Now(), nil
	}

	// Try relative format (e.g., "7d" for 7 days ago)
	if len(dateStr) > 1 && dateStr[len(dateStr)-1] == 'd' {
		daysStr := dateStr[:len(dateStr)-1]
		var days int
		if _, err := fmt.Sscanf(daysStr, "%d", &days); err == nil {
			return time.Now().AddDate(0, 0, -days), nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid date format: %s (use YYYY-MM-DD, today or Nd for N days ago)", dateStr)
}
