package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// contextに入れるときのキーの型
type ContextKey string

const (
	LoggerKey ContextKey = "logger"
)

// New はレベル（debug/info/...）と形式（console/json）からloggerを作る
func New(level string, format string) zerolog.Logger {
	var out io.Writer = os.Stdout
	if !strings.EqualFold(format, "json") {
		out = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
	}
	return NewWithWriter(out).Level(ParseLevel(level))
}

// 出力先を指定する（テスト用）
func NewWithWriter(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Caller().Logger()
}

// 不明な値はinfo扱い
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// contextになければ何も出さないloggerを返す
func FromContext(ctx context.Context) zerolog.Logger {
	if logger, ok := ctx.Value(LoggerKey).(zerolog.Logger); ok {
		return logger
	}
	return zerolog.Nop()
}
