package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Config struct {
	Environment string
	Level       string // trace, debug, info, warn, error
	Format      string // json or text
	File        string // empty logs to stdout
	MaxSizeMB   int
	MaxBackups  int
	MaxAgeDays  int
}

var (
	mu  sync.RWMutex
	log = newLogger(Config{Environment: "development"})
)

// Init replaces the package logger. Production defaults to JSON at info,
// everything else to text at debug.
func Init(cfg Config) {
	l := newLogger(cfg)
	mu.Lock()
	log = l
	mu.Unlock()
}

func newLogger(cfg Config) *logrus.Logger {
	l := logrus.New()

	level := cfg.Level
	if level == "" {
		level = "debug"
		if cfg.Environment == "production" {
			level = "info"
		}
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	l.SetLevel(parsed)

	format := cfg.Format
	if format == "" && cfg.Environment == "production" {
		format = "json"
	}
	if format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	l.SetOutput(output(cfg))
	return l
}

func output(cfg Config) io.Writer {
	if cfg.File == "" {
		return os.Stdout
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "logger: falling back to stdout: %v\n", err)
		return os.Stdout
	}
	return &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    orDefault(cfg.MaxSizeMB, 100),
		MaxBackups: orDefault(cfg.MaxBackups, 5),
		MaxAge:     orDefault(cfg.MaxAgeDays, 30),
		Compress:   true,
	}
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// fields pairs up keyvals. A trailing unpaired value is kept under "error"
// when it is one, "detail" otherwise.
func fields(keyvals []any) logrus.Fields {
	f := logrus.Fields{}
	for i := 0; i < len(keyvals); i += 2 {
		if i+1 == len(keyvals) {
			if err, ok := keyvals[i].(error); ok {
				f["error"] = err.Error()
			} else {
				f["detail"] = keyvals[i]
			}
			break
		}
		key, ok := keyvals[i].(string)
		if !ok {
			key = fmt.Sprint(keyvals[i])
		}
		if err, ok := keyvals[i+1].(error); ok {
			f[key] = err.Error()
			continue
		}
		f[key] = keyvals[i+1]
	}
	return f
}

func entry(keyvals []any) *logrus.Entry {
	mu.RLock()
	l := log
	mu.RUnlock()
	return l.WithFields(fields(keyvals))
}

func Debug(msg string, keyvals ...any) { entry(keyvals).Debug(msg) }
func Info(msg string, keyvals ...any)  { entry(keyvals).Info(msg) }
func Warn(msg string, keyvals ...any)  { entry(keyvals).Warn(msg) }
func Error(msg string, keyvals ...any) { entry(keyvals).Error(msg) }
func Fatal(msg string, keyvals ...any) { entry(keyvals).Fatal(msg) }
