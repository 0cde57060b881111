// Package logger wraps go-logging with a console backend, a per-run log file
// and a small in-memory buffer of recent entries.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/op/go-logging"
	"github.com/otedola/cadastral/config"
)

const (
	moduleName       = "cadastral"
	maxLogBufferSize = 2048
	logFileName      = "cadastral.log"
	timeFormat       = "2006/01/02 15:04:05"
)

type entry struct {
	time  string
	level logging.Level
	log   string
}

var (
	logger  *logging.Logger
	logFile *os.File

	bufMu     sync.Mutex
	logBuffer []entry
)

func init() {
	// usable before InitLogger runs (tests, CLI subcommands)
	l := logging.MustGetLogger(moduleName)
	backend := logging.NewBackendFormatter(logging.NewLogBackend(os.Stderr, "", 0), newFormatter(true))
	leveled := logging.AddModuleLevel(backend)
	leveled.SetLevel(logging.WARNING, moduleName)
	l.SetBackend(leveled)
	logger = l
}

// InitLogger installs the console backend at level and a DEBUG file backend.
func InitLogger(level logging.Level) {
	newLogger := logging.MustGetLogger(moduleName)
	backends := make([]logging.Backend, 0, 2)

	console := logging.NewBackendFormatter(logging.NewLogBackend(os.Stderr, "", 0), newFormatter(true))
	leveledConsole := logging.AddModuleLevel(console)
	leveledConsole.SetLevel(level, moduleName)
	backends = append(backends, leveledConsole)

	if fileBackend := initFileBackend(); fileBackend != nil {
		leveledFile := logging.AddModuleLevel(fileBackend)
		leveledFile.SetLevel(logging.DEBUG, moduleName)
		backends = append(backends, leveledFile)
	}

	newLogger.SetBackend(logging.MultiLogger(backends...))
	logger = newLogger
}

// initFileBackend truncates the log file so each run starts fresh.
func initFileBackend() logging.Backend {
	logDir := config.GetLogFolder()
	if err := os.MkdirAll(logDir, 0o750); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create log folder %s: %v\n", logDir, err)
		return nil
	}

	logPath := filepath.Join(logDir, logFileName)
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o660)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file %s: %v\n", logPath, err)
		return nil
	}

	if logFile != nil {
		_ = logFile.Close()
	}
	logFile = file

	return logging.NewBackendFormatter(logging.NewLogBackend(file, "", 0), newFormatter(true))
}

func newFormatter(withTime bool) logging.Formatter {
	format := `%{level} - %{message}`
	if withTime {
		format = `%{time:` + timeFormat + `} %{level} - %{message}`
	}
	return logging.MustStringFormatter(format)
}

// CloseLogger closes the log file. Call it on shutdown.
func CloseLogger() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

func Debug(args ...any) {
	logger.Debug(args...)
	addToBuffer(logging.DEBUG, fmt.Sprint(args...))
}

func Debugf(format string, args ...any) {
	logger.Debugf(format, args...)
	addToBuffer(logging.DEBUG, fmt.Sprintf(format, args...))
}

func Info(args ...any) {
	logger.Info(args...)
	addToBuffer(logging.INFO, fmt.Sprint(args...))
}

func Infof(format string, args ...any) {
	logger.Infof(format, args...)
	addToBuffer(logging.INFO, fmt.Sprintf(format, args...))
}

func Warning(args ...any) {
	logger.Warning(args...)
	addToBuffer(logging.WARNING, fmt.Sprint(args...))
}

func Warningf(format string, args ...any) {
	logger.Warningf(format, args...)
	addToBuffer(logging.WARNING, fmt.Sprintf(format, args...))
}

func Error(args ...any) {
	logger.Error(args...)
	addToBuffer(logging.ERROR, fmt.Sprint(args...))
}

func Errorf(format string, args ...any) {
	logger.Errorf(format, args...)
	addToBuffer(logging.ERROR, fmt.Sprintf(format, args...))
}

func addToBuffer(level logging.Level, msg string) {
	bufMu.Lock()
	defer bufMu.Unlock()
	if len(logBuffer) >= maxLogBufferSize {
		logBuffer = logBuffer[1:]
	}
	logBuffer = append(logBuffer, entry{
		time:  time.Now().Format(timeFormat),
		level: level,
		log:   msg,
	})
}

// GetLogs returns up to c of the newest entries at or more severe than level,
// newest first.
func GetLogs(c int, level string) []string {
	logLevel, err := logging.LogLevel(level)
	if err != nil {
		logLevel = logging.DEBUG
	}

	bufMu.Lock()
	defer bufMu.Unlock()
	var output []string
	for i := len(logBuffer) - 1; i >= 0 && len(output) < c; i-- {
		if logBuffer[i].level <= logLevel {
			output = append(output, fmt.Sprintf("%s %s - %s", logBuffer[i].time, logBuffer[i].level, logBuffer[i].log))
		}
	}
	return output
}
