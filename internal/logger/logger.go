package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	FormatJSON = "json"
	FormatText = "text"
)

// Config controls where and how log lines are written
type Config struct {
	Level   string
	Format  string
	File    string // optional; rotated by lumberjack when set
	Service string
	Output  io.Writer
}

// New creates a logrus logger from cfg. Unknown levels fall back to info.
func New(cfg Config) *logrus.Logger {
	log := logrus.New()

	level, err := logrus.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Format == FormatText {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	var out io.Writer = os.Stdout
	if cfg.Output != nil {
		out = cfg.Output
	}
	if cfg.File != "" {
		out = io.MultiWriter(out, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		})
	}
	log.SetOutput(out)

	if cfg.Service != "" {
		log.AddHook(serviceHook(cfg.Service))
	}

	return log
}

type serviceHook string

func (h serviceHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h serviceHook) Fire(e *logrus.Entry) error {
	e.Data["service"] = string(h)
	return nil
}

// TemporalLogger adapts logrus to the Temporal SDK logger interface
type TemporalLogger struct {
	entry *logrus.Entry
}

// NewTemporalLogger wraps log for client.Options.Logger
func NewTemporalLogger(log *logrus.Logger) *TemporalLogger {
	return &TemporalLogger{entry: logrus.NewEntry(log).WithField("component", "temporal")}
}

func (t *TemporalLogger) Debug(msg string, keyvals ...interface{}) {
	t.entry.WithFields(fields(keyvals)).Debug(msg)
}

func (t *TemporalLogger) Info(msg string, keyvals ...interface{}) {
	t.entry.WithFields(fields(keyvals)).Info(msg)
}

func (t *TemporalLogger) Warn(msg string, keyvals ...interface{}) {
	t.entry.WithFields(fields(keyvals)).Warn(msg)
}

func (t *TemporalLogger) Error(msg string, keyvals ...interface{}) {
	t.entry.WithFields(fields(keyvals)).Error(msg)
}

func fields(keyvals []interface{}) logrus.Fields {
	f := make(logrus.Fields, len(keyvals)/2)
	for i := 0; i < len(keyvals); i += 2 {
		key := fmt.Sprint(keyvals[i])
		if i+1 < len(keyvals) {
			f[key] = keyvals[i+1]
		} else {
			f[key] = "(MISSING)"
		}
	}
	return f
}
