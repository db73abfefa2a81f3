package utils

import (
	"os"

	"github.com/sirupsen/logrus"
)

var (
	InfoLogger  = logrus.New()
	ErrorLogger = logrus.New()
)

func InitLogger() {
	InfoLogger = logrus.New()
	ErrorLogger = logrus.New()

	// InfoLogger -> stdout, ErrorLogger -> stderr
	InfoLogger.SetOutput(os.Stdout)
	InfoLogger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	ErrorLogger.SetOutput(os.Stderr)
	ErrorLogger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	InfoLogger.SetLevel(logrus.InfoLevel)
	ErrorLogger.SetLevel(logrus.WarnLevel)
}

// ConfigureLogger applies the configured level and format ("text" or "json") to both loggers.
func ConfigureLogger(level, format string) error {
	InitLogger()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	InfoLogger.SetLevel(lvl)
	// warnings from the transition policy go through ErrorLogger
	if lvl > logrus.WarnLevel {
		ErrorLogger.SetLevel(logrus.WarnLevel)
	} else {
		ErrorLogger.SetLevel(lvl)
	}

	if format == "json" {
		InfoLogger.SetFormatter(&logrus.JSONFormatter{})
		ErrorLogger.SetFormatter(&logrus.JSONFormatter{})
	}
	return nil
}
