package logger

// Logger is the printf style surface of the zap sugared logger.
type Logger interface {
	Infow(msg string, keysAndValues ...interface{})
	Info(args ...interface{})
	Infof(template string, args ...interface{})
	Warnf(template string, args ...interface{})
	Sync() error
	Debug(args ...interface{})
	Debugf(template string, args ...interface{})
	Debugw(template string, keysAndValues ...interface{})
	Fatalf(template string, args ...interface{})
	Fatal(args ...interface{})
}
