// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package xdrschema

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the package's logger instance.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger configures the package's logger.
// This must be called before compiling anything.
func SetLogger(l *zap.Logger) {
	logger = l
}
