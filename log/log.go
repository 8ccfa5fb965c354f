package log

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var logger = logrus.New()

// Init configures the shared logger. File rotation is optional; when path is
// empty everything goes to stdout only.
func Init(path string, level string) {
	lv, err := logrus.ParseLevel(level)
	if err != nil {
		lv = logrus.InfoLevel
	}
	logger.SetLevel(lv)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})

	if path != "" {
		rotator := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    100, // MB
			MaxBackups: 7,
			MaxAge:     30, // days
			Compress:   true,
		}
		logger.SetOutput(io.MultiWriter(os.Stdout, rotator))
	} else {
		logger.SetOutput(os.Stdout)
	}
}

func Debug(args ...interface{})                 { logger.Debug(args...) }
func Info(args ...interface{})                  { logger.Info(args...) }
func Warn(args ...interface{})                  { logger.Warn(args...) }
func Error(args ...interface{})                 { logger.Error(args...) }
func Fatal(args ...interface{})                 { logger.Fatal(args...) }
func Debugf(format string, args ...interface{}) { logger.Debugf(format, args...) }
func Infof(format string, args ...interface{})  { logger.Infof(format, args...) }
func Warnf(format string, args ...interface{})  { logger.Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { logger.Errorf(format, args...) }
func Fatalf(format string, args ...interface{}) { logger.Fatalf(format, args...) }
func Printf(format string, args ...interface{}) { logger.Infof(format, args...) }
