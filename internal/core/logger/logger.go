package logger

import (
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ServiceName is attached to every entry written by the global logger.
const ServiceName = "shipment-tracker"

var global atomic.Pointer[zap.Logger]

var nop = zap.NewNop()

// Init builds and installs the global logger. Development gets colored
// console output with caller info; production gets JSON with ISO8601
// timestamps. An unknown level keeps the environment default.
func Init(environment string, level string) error {
	var cfg zap.Config

	if environment == "production" {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if l, err := zapcore.ParseLevel(level); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(l)
	}
	cfg.InitialFields = map[string]interface{}{"service": ServiceName}

	built, err := cfg.Build()
	if err != nil {
		return err
	}

	global.Store(built)
	return nil
}

// Get returns the global logger, or a no-op logger before Init.
func Get() *zap.Logger {
	if l := global.Load(); l != nil {
		return l
	}
	return nop
}

// Named returns a child of the global logger scoped to a component.
func Named(component string) *zap.Logger {
	return Get().Named(component)
}

// ForShipment returns a component logger carrying the tracking number.
func ForShipment(component, trackingNumber string) *zap.Logger {
	return Named(component).With(zap.String("tracking_number", trackingNumber))
}

// Sync flushes any buffered log entries.
func Sync() {
	if l := global.Load(); l != nil {
		_ = l.Sync()
	}
}

func reset() {
	global.Store(nil)
}
