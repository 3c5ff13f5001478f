package bootstrap

import (
	"os"

	"github.com/sirupsen/logrus"
)

// setupLogger configures the standard logrus logger and returns it, so
// packages logging through the package-level functions share the same sink.
func setupLogger(level string) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	return log
}
