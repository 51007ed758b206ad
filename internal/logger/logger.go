package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/gratefultolord/mc_forms_bot/internal/config"
)

const logFileName = "formbot.log"

// New builds the process logger. Output "file" rotates through lumberjack,
// anything else goes to stdout.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("logger.New: %w", err)
	}

	var writer zapcore.WriteSyncer

	switch cfg.Output {
	case "file":
		if cfg.Path == "" {
			return nil, fmt.Errorf("logger.New: log path is required when output is 'file'")
		}

		if err := os.MkdirAll(cfg.Path, 0755); err != nil {
			return nil, fmt.Errorf("logger.New: cannot create dir %s: %w", cfg.Path, err)
		}

		writer = zapcore.AddSync(&lumberjack.Logger{
			Filename:   filepath.Join(cfg.Path, logFileName),
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		})
	default:
		writer = zapcore.AddSync(os.Stdout)
	}

	core := zapcore.NewCore(newEncoder(), writer, level)

	return zap.New(core, zap.AddCaller()), nil
}

func newEncoder() zapcore.Encoder {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.MessageKey = "msg"
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.Format("2006-01-02 15:04:05"))
	}
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	return zapcore.NewConsoleEncoder(encoderConfig)
}

func parseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}
