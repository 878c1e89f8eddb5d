package logger

import (
	"KolBD/internal/api/config"
	"io"
	log "log/slog"
	"os"
	"strings"
)

var LogWriter io.Writer = os.Stdout

// Init 安装全局 JSON logger，debug 模式下输出 Debug 级别
func Init(cfg *config.Config) {
	InitWithWriter(cfg, os.Stdout)
}

func InitWithWriter(cfg *config.Config, w io.Writer) {
	level := ParseLevel(cfg.Server.LogLevel)
	if cfg.Debug {
		level = log.LevelDebug
	}

	LogWriter = w
	handler := log.NewJSONHandler(w, &log.HandlerOptions{Level: level})
	logger := log.New(&ContextHandler{handler}).With(log.String("app", cfg.AppName))
	log.SetDefault(logger)
}

func ParseLevel(s string) log.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.LevelDebug
	case "warn", "warning":
		return log.LevelWarn
	case "error":
		return log.LevelError
	default:
		return log.LevelInfo
	}
}
