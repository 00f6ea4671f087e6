package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

const serviceName = "td-boost"

var Logger *logrus.Logger

// Options configures the process logger. Empty fields fall back to the environment
// defaults: debug text output in development, info JSON otherwise.
type Options struct {
	Level       string
	Format      string // "json" or "text"
	Development bool
	Output      io.Writer
}

// serviceHook stamps entries with the service name unless one is already set.
type serviceHook struct{}

func (serviceHook) Levels() []logrus.Level { return logrus.AllLevels }

func (serviceHook) Fire(entry *logrus.Entry) error {
	if _, ok := entry.Data["service"]; !ok {
		entry.Data["service"] = serviceName
	}
	return nil
}

// InitLogger builds the process logger from opts and stores it for GetLogger.
func InitLogger(opts Options) *logrus.Logger {
	log := logrus.New()
	log.AddHook(serviceHook{})

	level, levelErr := resolveLevel(opts)
	log.SetLevel(level)
	log.SetFormatter(newFormatter(opts))

	if opts.Output != nil {
		log.SetOutput(opts.Output)
	} else {
		log.SetOutput(os.Stdout)
	}

	if levelErr != nil {
		log.WithField("invalid_level", opts.Level).Warn("Invalid LOG_LEVEL, using INFO")
	}

	Logger = log
	return log
}

func resolveLevel(opts Options) (logrus.Level, error) {
	name := strings.ToLower(strings.TrimSpace(opts.Level))
	if name == "" {
		if opts.Development {
			return logrus.DebugLevel, nil
		}
		return logrus.InfoLevel, nil
	}
	level, err := logrus.ParseLevel(name)
	if err != nil {
		return logrus.InfoLevel, err
	}
	return level, nil
}

func newFormatter(opts Options) logrus.Formatter {
	format := strings.ToLower(opts.Format)
	if format == "json" || (format == "" && !opts.Development) {
		return &logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		}
	}
	return &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		ForceColors:     opts.Development,
	}
}

// GetLogger returns the process logger, building a production one if none exists
func GetLogger() *logrus.Logger {
	if Logger == nil {
		return InitLogger(Options{})
	}
	return Logger
}

// WithComponent scopes the logger to one part of the service
func WithComponent(component string) *logrus.Entry {
	return GetLogger().WithField("component", component)
}

// WithRequestID scopes the logger to one HTTP request
func WithRequestID(requestID string) *logrus.Entry {
	return GetLogger().WithField("request_id", requestID)
}

// WithSeasonContext scopes the logger to a season and, when known, a week
func WithSeasonContext(season, week int) *logrus.Entry {
	fields := logrus.Fields{"season": season}
	if week > 0 {
		fields["week"] = week
	}
	return GetLogger().WithFields(fields)
}
