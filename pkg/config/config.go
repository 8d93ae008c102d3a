package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App        AppConfig
	Server     ServerConfig
	Log        LogConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Simulation SimulationConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port string
}

type LogConfig struct {
	Level      string
	Format     string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// DatabaseConfig is optional; runs are kept in memory when Host is empty.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

func (d DatabaseConfig) Enabled() bool { return d.Host != "" }

// RedisConfig is optional; the result cache is in process when Host is empty.
type RedisConfig struct {
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	ResultTTLMin  int
}

func (r RedisConfig) Enabled() bool { return r.RedisHost != "" }

// SimulationConfig holds the defaults a simulation request falls back on.
type SimulationConfig struct {
	Seed                 uint64
	Horizon              int
	MaxHorizon           int
	MaxArmRounds         int
	Trials               int
	ConvergenceThreshold float64
	OutputDir            string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "patrol-bandit"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", ""),
			Format: getEnv("LOG_FORMAT", ""),
			File:   getEnv("LOG_FILE", ""),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", ""),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "patrol_bandit"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Redis: RedisConfig{
			RedisHost:     getEnv("REDIS_HOST", ""),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
		},
		Simulation: SimulationConfig{
			OutputDir: getEnv("SIM_OUTPUT_DIR", "out"),
		},
	}

	var err error
	ints := []struct {
		key string
		def int
		dst *int
	}{
		{"LOG_MAX_SIZE_MB", 100, &cfg.Log.MaxSizeMB},
		{"LOG_MAX_BACKUPS", 5, &cfg.Log.MaxBackups},
		{"LOG_MAX_AGE_DAYS", 30, &cfg.Log.MaxAgeDays},
		{"REDIS_DB", 0, &cfg.Redis.RedisDB},
		{"REDIS_RESULT_TTL_MIN", 1440, &cfg.Redis.ResultTTLMin},
		{"SIM_HORIZON", 5000, &cfg.Simulation.Horizon},
		{"SIM_MAX_HORIZON", 20000, &cfg.Simulation.MaxHorizon},
		{"SIM_MAX_ARM_ROUNDS", 5000000, &cfg.Simulation.MaxArmRounds},
		{"SIM_TRIALS", 1000, &cfg.Simulation.Trials},
	}
	for _, v := range ints {
		if *v.dst, err = getEnvInt(v.key, v.def); err != nil {
			return nil, err
		}
	}

	if cfg.Simulation.Seed, err = getEnvUint("SIM_SEED", 123); err != nil {
		return nil, err
	}
	if cfg.Simulation.ConvergenceThreshold, err = getEnvFloat("SIM_CONVERGENCE_THRESHOLD", 0.05); err != nil {
		return nil, err
	}

	if cfg.Database.Enabled() && cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}
	if cfg.Simulation.Horizon <= 0 || cfg.Simulation.Trials <= 0 {
		return nil, errors.New("simulation horizon and trials must be positive")
	}
	if cfg.Simulation.Horizon > cfg.Simulation.MaxHorizon {
		return nil, fmt.Errorf("simulation horizon %d exceeds max %d", cfg.Simulation.Horizon, cfg.Simulation.MaxHorizon)
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvUint(key string, defaultVal uint64) (uint64, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, defaultVal float64) (float64, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}
