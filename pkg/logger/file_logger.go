package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	fileMode = 0o644
	dirMode  = 0o755
)

// NewFileLogger returns the JSON zap logger that records provider HTTP round
// trips in filePath (HTTP_LOGS_PATH). Missing parent directories are created.
// An empty filePath yields a no-op logger.
func NewFileLogger(filePath string) (*zap.Logger, error) {
	if filePath == "" {
		return zap.NewNop(), nil
	}

	filePath = filepath.Clean(filePath)
	if err := os.MkdirAll(filepath.Dir(filePath), dirMode); err != nil {
		return nil, fmt.Errorf("create http log dir: %w", err)
	}

	file, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, fileMode)
	if err != nil {
		return nil, fmt.Errorf("open http log: %w", err)
	}

	writer := zapcore.AddSync(file)

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		writer,
		zap.InfoLevel,
	)
	return zap.New(core), nil
}
