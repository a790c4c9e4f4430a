package logger

import (
	"log/slog"
	"os"
)

type Logger interface {
	Info(msg string)
	Error(msg string, err error)
	Debug(msg string)
}

type HanabiLogger struct {
	logger *slog.Logger
}

func New(loggerName string) Logger {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
	})
	attrs := []slog.Attr{slog.String("logger", loggerName)}
	h := handler.WithAttrs(attrs)
	logger := slog.New(h)
	return HanabiLogger{logger}
}

func (hl HanabiLogger) Info(msg string) {
	hl.logger.Info(msg)
}

func (hl HanabiLogger) Error(msg string, err error) {
	if err != nil {
		e := slog.String("error", err.Error())
		hl.logger.Error(msg, e)
		return
	}
	hl.logger.Error(msg)
}

func (hl HanabiLogger) Debug(msg string) {
	hl.logger.Debug(msg)
}
