package logger

import (
	// 外部依赖
	"context"
	"os"

	otelzap "github.com/uptrace/opentelemetry-go-extra/otelzap"
	zap "go.uber.org/zap"
	zapcore "go.uber.org/zap/zapcore"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

type ServiceEnv struct {
	Platform string
	Service  string
	Env      string
}

type LogConfig struct {
	Path     string
	LogLevel string
	ServiceEnv
}

var (
	lg    *otelzap.Logger
	sugar *otelzap.SugaredLogger
)

// Init builds the process logger: console core plus a rotated file core
// when a path is configured. Must run before any other package logs.
func Init(conf *LogConfig) {
	level := zapcore.InfoLevel
	if l, err := zapcore.ParseLevel(conf.LogLevel); err == nil {
		level = l
	}

	encConf := zap.NewProductionEncoderConfig()
	encConf.EncodeTime = zapcore.ISO8601TimeEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encConf), zapcore.Lock(os.Stdout), level),
	}
	if conf.Path != "" {
		rotated := &lumberjack.Logger{
			Filename:   conf.Path,
			MaxSize:    256, // MB
			MaxBackups: 10,
			MaxAge:     30, // days
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encConf), zapcore.AddSync(rotated), level))
	}

	z := zap.New(zapcore.NewTee(cores...),
		zap.AddCaller(),
		zap.AddCallerSkip(1),
		zap.Fields(
			zap.String("platform", conf.Platform),
			zap.String("service", conf.Service),
			zap.String("env", conf.Env),
		))

	lg = otelzap.New(z, otelzap.WithMinLevel(level))
	sugar = lg.Sugar()
}

func Close() {
	if lg != nil {
		_ = lg.Sync()
	}
}

func Debugf(ctx context.Context, format string, args ...any) {
	if sugar == nil {
		return
	}
	sugar.DebugfContext(ctx, format, args...)
}

func Infof(ctx context.Context, format string, args ...any) {
	if sugar == nil {
		return
	}
	sugar.InfofContext(ctx, format, args...)
}

func Warnf(ctx context.Context, format string, args ...any) {
	if sugar == nil {
		return
	}
	sugar.WarnfContext(ctx, format, args...)
}

func Errorf(ctx context.Context, format string, args ...any) {
	if sugar == nil {
		return
	}
	sugar.ErrorfContext(ctx, format, args...)
}

func Fatalf(ctx context.Context, format string, args ...any) {
	if sugar == nil {
		os.Exit(1)
	}
	sugar.FatalfContext(ctx, format, args...)
}
