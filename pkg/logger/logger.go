package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var L *zap.Logger

func init() {
	L = build(zap.NewProductionConfig())
}

// Init 依環境重建全域 logger；development 使用彩色 console 輸出
func Init(env string) error {
	if env == "production" {
		L = build(zap.NewProductionConfig())
		zap.ReplaceGlobals(L)
		return nil
	}
	config := zap.NewDevelopmentConfig()
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	l, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}
	L = l
	zap.ReplaceGlobals(L)
	return nil
}

func build(config zap.Config) *zap.Logger {
	config.EncoderConfig.TimeKey = "ts"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	l, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic(err)
	}
	return l
}

// WithComponent 回傳帶有 component 欄位的 logger，供 MQ、handler、service 等使用
func WithComponent(component string) *zap.Logger {
	return L.With(zap.String("component", component))
}

// Sync flushes buffered entries; call once on shutdown.
func Sync() {
	_ = L.Sync()
}
