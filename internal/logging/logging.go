// Package logging builds the process logger.
package logging

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"
)

// New returns a logger writing to stderr: colored text at debug level in
// development, JSON at info level otherwise. When logFile is set every entry
// is also appended to it as JSON, rotated by size.
func New(development bool, logFile string) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	level := logrus.InfoLevel
	if development {
		level = logrus.DebugLevel
		log.SetFormatter(&logrus.TextFormatter{ForceColors: true, FullTimestamp: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	log.SetLevel(level)

	if logFile == "" {
		return log, nil
	}
	hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
		Filename:   logFile,
		MaxSize:    50, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Level:      level,
		Formatter:  &logrus.JSONFormatter{},
	})
	if err != nil {
		return nil, fmt.Errorf("unable to open log file %s: %w", logFile, err)
	}
	log.AddHook(hook)

	return log, nil
}
