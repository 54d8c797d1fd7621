// Copyright 2026 The Sycoca Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package logger is the ambient structured-logging layer shared by the
// builder and reader: a slog.Logger with a custom severity handler (TRACE
// and DEBUG below slog's own floor) and an optional rotating log file.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Severity is sycoca's own five-level scale, wider than slog's four
// built-in levels (TRACE and DEBUG both sit below slog.LevelInfo).
type Severity = slog.Level

const (
	LevelTrace Severity = -8
	LevelDebug Severity = slog.LevelDebug
	LevelInfo  Severity = slog.LevelInfo
	LevelWarn  Severity = slog.LevelWarn
	LevelError Severity = slog.LevelError
	LevelOff   Severity = 12
)

var severityNames = map[slog.Leveler]string{
	LevelTrace: "TRACE",
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARNING",
	LevelError: "ERROR",
}

// RotateConfig mirrors the handful of lumberjack knobs the builder/reader
// CLIs expose for the optional on-disk log file.
type RotateConfig struct {
	MaxFileSizeMB   int
	BackupFileCount int
	Compress        bool
}

// DefaultRotateConfig returns a 100 MB size limit, three backup files and
// no compression.
func DefaultRotateConfig() RotateConfig {
	return RotateConfig{MaxFileSizeMB: 100, BackupFileCount: 3, Compress: false}
}

type loggerFactory struct {
	file         *lumberjack.Logger
	sysWriter    io.Writer
	format       string // "text" or "json"; "" defaults to json
	level        Severity
	rotateConfig RotateConfig
}

var (
	defaultLoggerFactory = &loggerFactory{sysWriter: os.Stderr, level: LevelInfo}
	defaultLogger        = slog.New(defaultLoggerFactory.createHandler(os.Stderr, new(slog.LevelVar)))
	programLevel         = new(slog.LevelVar)
)

func (f *loggerFactory) createHandler(w io.Writer, lv *slog.LevelVar) slog.Handler {
	opts := &slog.HandlerOptions{
		Level: lv,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				lvl := a.Value.Any().(slog.Level)
				name, ok := severityNames[lvl]
				if !ok {
					name = lvl.String()
				}
				return slog.String("severity", name)
			}
			return a
		},
	}
	if f.format == "text" {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

func (f *loggerFactory) writer() io.Writer {
	if f.file != nil {
		return f.file
	}
	return f.sysWriter
}

func rebuild() {
	programLevel.Set(defaultLoggerFactory.level)
	defaultLogger = slog.New(defaultLoggerFactory.createHandler(defaultLoggerFactory.writer(), programLevel))
}

// InitLogFile redirects logging to a rotating file at path, using cfg for
// the rotation policy via lumberjack.Logger.
func InitLogFile(path string, level Severity, format string, cfg RotateConfig) error {
	defaultLoggerFactory.file = &lumberjack.Logger{
		Filename:   path,
		MaxSize:    cfg.MaxFileSizeMB,
		MaxBackups: cfg.BackupFileCount,
		Compress:   cfg.Compress,
	}
	defaultLoggerFactory.sysWriter = nil
	defaultLoggerFactory.level = level
	defaultLoggerFactory.format = format
	rebuild()
	return nil
}

// SetLogFormat switches between "text" and "json" (default) rendering.
func SetLogFormat(format string) {
	defaultLoggerFactory.format = format
	rebuild()
}

// SetLevel adjusts the minimum severity emitted.
func SetLevel(level Severity) {
	defaultLoggerFactory.level = level
	rebuild()
}

func log(ctx context.Context, level Severity, format string, args ...interface{}) {
	if !defaultLogger.Enabled(ctx, level) {
		return
	}
	defaultLogger.Log(ctx, level, fmt.Sprintf(format, args...))
}

func Tracef(format string, args ...interface{}) { log(context.Background(), LevelTrace, format, args...) }
func Debugf(format string, args ...interface{}) { log(context.Background(), LevelDebug, format, args...) }
func Infof(format string, args ...interface{})  { log(context.Background(), LevelInfo, format, args...) }
func Warnf(format string, args ...interface{})  { log(context.Background(), LevelWarn, format, args...) }
func Errorf(format string, args ...interface{}) { log(context.Background(), LevelError, format, args...) }
