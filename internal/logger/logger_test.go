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

package logger

import (
	"bytes"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

func redirectToBuffer(buf *bytes.Buffer, level Severity, format string) {
	defaultLoggerFactory.format = format
	defaultLoggerFactory.level = level
	defaultLoggerFactory.sysWriter = buf
	defaultLoggerFactory.file = nil
	rebuild()
}

func TestLevelFilteringEmitsOnlyAtOrAboveConfiguredSeverity(t *testing.T) {
	var buf bytes.Buffer
	redirectToBuffer(&buf, LevelWarn, "text")

	Debugf("hidden")
	require.Empty(t, buf.String())

	Warnf("shown")
	require.Regexp(t, regexp.MustCompile(`severity=WARNING`), buf.String())
}

func TestTextFormatUsesCustomSeverityName(t *testing.T) {
	var buf bytes.Buffer
	redirectToBuffer(&buf, LevelTrace, "text")

	Tracef("www.traceExample.com")
	require.Regexp(t, regexp.MustCompile(`severity=TRACE`), buf.String())
}

func TestJSONFormatUsesCustomSeverityName(t *testing.T) {
	var buf bytes.Buffer
	redirectToBuffer(&buf, LevelError, "json")

	Errorf("www.errorExample.com")
	require.Regexp(t, regexp.MustCompile(`"severity":"ERROR"`), buf.String())
}

func TestLevelOffSuppressesEverything(t *testing.T) {
	var buf bytes.Buffer
	redirectToBuffer(&buf, LevelOff, "text")

	Errorf("should not appear")
	require.Empty(t, buf.String())
}
