package logging

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a console logger writing to w. An empty level means "warn".
// The returned level can be raised later, e.g. by a --verbose flag.
func New(level string, w io.Writer) (*zap.Logger, zap.AtomicLevel, error) {
	lvl := zapcore.WarnLevel
	if trimmed := strings.TrimSpace(level); trimmed != "" {
		if err := lvl.UnmarshalText([]byte(strings.ToLower(trimmed))); err != nil {
			return nil, zap.AtomicLevel{}, fmt.Errorf("parse log level %q: %w", level, err)
		}
	}
	atomic := zap.NewAtomicLevelAt(lvl)

	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.TimeKey = ""

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.AddSync(w),
		atomic,
	)

	return zap.New(core), atomic, nil
}
