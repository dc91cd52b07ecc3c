package logger

import (
	"io"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	maxSize = 10
	maxBack = 5
	maxAge  = 30
)

// Options selects where a logger writes. Console and FilePath are both optional;
// a logger with neither discards everything.
type Options struct {
	ServiceName string
	Level       string
	FilePath    string
	Console     io.Writer
}

func NewLogger(opts Options) (zerolog.Logger, error) {
	level := zerolog.InfoLevel
	if opts.Level != "" {
		parsed, err := zerolog.ParseLevel(opts.Level)
		if err != nil {
			return zerolog.Nop(), err
		}
		level = parsed
	}

	var writers []io.Writer
	if opts.Console != nil {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        opts.Console,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		})
	}

	if opts.FilePath != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   opts.FilePath, // log file location
			MaxSize:    maxSize,       // megabytes before rotation
			MaxBackups: maxBack,       // number of old files to retain
			MaxAge:     maxAge,        // days to retain rotated files
			Compress:   true,          // gzip old log files
		})
	}

	if len(writers) == 0 {
		return zerolog.Nop(), nil
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).With().
		Timestamp().
		Str("service", opts.ServiceName).
		Logger().
		Level(level)

	logger.Debug().
		Str("logsFilePath", opts.FilePath).
		Msg("logger initialized")

	return logger, nil
}
