package output

// LoggerPort is the structured logging boundary. Args are alternating
// key/value pairs, matching the sugared zap call style the adapter wraps.
type LoggerPort interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	WithField(key string, value any) LoggerPort
	WithFields(fields map[string]any) LoggerPort

	Close() error
}
