package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

var (
	logger = logrus.New()

	// warnLimiter throttles repeated protocol warnings from the server
	// stream so a misbehaving peer cannot flood the log.
	warnLimiter = rate.NewLimiter(rate.Every(time.Second), 5)
	warnDropped atomic.Int64
)

// setupLogging configures the shared logger. Level and format fall back to
// LOG_LEVEL and LOG_FORMAT when the settings leave them empty. Output goes
// to a timestamped file under logs/ and, when console is set, to stdout.
func setupLogging(level, format string, debug, console bool) {
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	if debug {
		lvl = logrus.DebugLevel
	}
	logger.SetLevel(lvl)

	if format == "" {
		format = os.Getenv("LOG_FORMAT")
	}
	if strings.EqualFold(format, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	var out io.Writer = os.Stdout
	if !console {
		out = io.Discard
	}
	logDir := filepath.Join(baseDir, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		fmt.Printf("could not create log directory: %v\n", err)
	} else {
		ts := time.Now().Format("20060102-150405")
		if f, err := os.Create(filepath.Join(logDir, fmt.Sprintf("gotiles-%s.log", ts))); err == nil {
			if console {
				out = io.MultiWriter(os.Stdout, f)
			} else {
				out = f
			}
		}
	}
	logger.SetOutput(out)
}

func logError(format string, v ...interface{}) {
	logger.Errorf(format, v...)
	addNotice(fmt.Sprintf(format, v...))
}

func logDebug(format string, v ...interface{}) {
	logger.Debugf(format, v...)
}

// logWarn logs a protocol warning subject to warnLimiter.
func logWarn(fields logrus.Fields, msg string) {
	if !warnLimiter.Allow() {
		warnDropped.Add(1)
		return
	}
	entry := logger.WithFields(fields)
	if n := warnDropped.Swap(0); n > 0 {
		entry = entry.WithField("suppressed", n)
	}
	entry.Warn(msg)
}
