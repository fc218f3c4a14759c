package container

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log encodings accepted by Options.LogFormat.
const (
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

// NewLogger builds a logger writing to stdout and, when file is set, to a
// rotated log file.
func NewLogger(format, file string) (*zap.Logger, error) {
	var encoder zapcore.Encoder

	switch format {
	case LogFormatConsole:
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	case LogFormatJSON:
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}

	syncer := zapcore.AddSync(os.Stdout)
	if file != "" {
		syncer = zapcore.NewMultiWriteSyncer(syncer, zapcore.AddSync(&lumberjack.Logger{
			Filename:   file,
			MaxSize:    10,
			MaxBackups: 5,
			MaxAge:     30,
		}))
	}

	core := zapcore.NewCore(encoder, syncer, zap.InfoLevel)

	return zap.New(core, zap.AddCaller()), nil
}
