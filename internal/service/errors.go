package service

import (
	"errors"

	"github.com/sirupsen/logrus"
)

var (
	ErrEmployeeNotFound      = errors.New("employee not found")
	ErrEmployerNotConfigured = errors.New("employer is not configured")
	ErrUserNotFound          = errors.New("user not found")
	ErrAccessDenied          = errors.New("access denied")
	ErrNoTaxRates            = errors.New("no tax rates are loaded")
)

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return logger
}
