// Package logger provides the prefixed, colour-tagged logger used across the
// application.
package logger

import (
	"errors"
	"io"
	"log"

	"github.com/beka-birhanu/vinom-rollmaze/config"
	"github.com/beka-birhanu/vinom-rollmaze/service/i"
)

var _ i.Logger = &Logger{}

// Logger writes lines of the form "[PREFIX] [LEVEL] message".
type Logger struct {
	prefix string
	color  string
	out    *log.Logger
}

// New creates a logger writing to w. The prefix is printed in the given color.
func New(prefix, color string, w io.Writer) (*Logger, error) {
	if w == nil {
		return nil, errors.New("logger writer is nil")
	}
	if prefix == "" {
		return nil, errors.New("logger prefix is empty")
	}

	return &Logger{
		prefix: prefix,
		color:  color,
		out:    log.New(w, "", log.LstdFlags),
	}, nil
}

// Info implements i.Logger.
func (l *Logger) Info(msg string) {
	l.write("INFO", config.LogInfoColor, msg)
}

// Warning implements i.Logger.
func (l *Logger) Warning(msg string) {
	l.write("WARNING", config.LogWarningColor, msg)
}

// Error implements i.Logger.
func (l *Logger) Error(msg string) {
	l.write("ERROR", config.LogErrorColor, msg)
}

func (l *Logger) write(level, levelColor, msg string) {
	l.out.Printf("%s[%s]%s %s[%s]%s %s",
		l.color, l.prefix, config.ColorReset,
		levelColor, level, config.LogColorReset,
		msg,
	)
}
