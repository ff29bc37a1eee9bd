package csutils

import (
	"fmt"
	"sort"
	"strings"

	"github.com/corrreia/gostrike-utils/internal/bridge"
)

// LogLevel represents logging severity
type LogLevel int

const (
	LogDebug LogLevel = iota
	LogInfo
	LogWarning
	LogError
)

// Logger provides structured logging for plugins
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warning(format string, args ...interface{})
	Error(format string, args ...interface{})

	WithField(key string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
}

// logger implements Logger
type logger struct {
	tag    string
	debug  bool
	fields map[string]interface{}
}

// GetLogger returns a logger for the given tag with debug output enabled
func GetLogger(tag string) Logger {
	return newLogger(tag, true)
}

func newLogger(tag string, debug bool) *logger {
	return &logger{
		tag:    tag,
		debug:  debug,
		fields: make(map[string]interface{}),
	}
}

// formatMessage renders the message followed by its fields as key=value
func (l *logger) formatMessage(format string, args ...interface{}) string {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	if len(l.fields) == 0 {
		return msg
	}

	keys := make([]string, 0, len(l.fields))
	for k := range l.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(msg)
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=%v", k, l.fields[k])
	}
	return sb.String()
}

func (l *logger) Debug(format string, args ...interface{}) {
	if !l.debug {
		return
	}
	bridge.Log(bridge.LogLevelDebug, l.tag, l.formatMessage(format, args...))
}

func (l *logger) Info(format string, args ...interface{}) {
	bridge.Log(bridge.LogLevelInfo, l.tag, l.formatMessage(format, args...))
}

func (l *logger) Warning(format string, args ...interface{}) {
	bridge.Log(bridge.LogLevelWarning, l.tag, l.formatMessage(format, args...))
}

func (l *logger) Error(format string, args ...interface{}) {
	bridge.Log(bridge.LogLevelError, l.tag, l.formatMessage(format, args...))
}

func (l *logger) WithField(key string, value interface{}) Logger {
	return l.WithFields(map[string]interface{}{key: value})
}

func (l *logger) WithFields(fields map[string]interface{}) Logger {
	newFields := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		newFields[k] = v
	}
	for k, v := range fields {
		newFields[k] = v
	}
	return &logger{
		tag:    l.tag,
		debug:  l.debug,
		fields: newFields,
	}
}
