package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogLevels(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		log      func()
		expected string
		absent   string
	}{
		{
			name:     "info visible at info level",
			level:    "info",
			log:      func() { Info("checking for update", Fields{"app": "MyApp"}) },
			expected: "checking for update",
		},
		{
			name:   "debug hidden at info level",
			level:  "info",
			log:    func() { Debugf("probing %s", "github.com") },
			absent: "probing",
		},
		{
			name:     "debug visible at debug level",
			level:    "debug",
			log:      func() { Debugf("probing %s", "github.com") },
			expected: "probing github.com",
		},
		{
			name:     "warn visible at warn level",
			level:    "warn",
			log:      func() { Warnf("rotation failed for %s", "app") },
			expected: "rotation failed for app",
		},
		{
			name:   "info hidden at error level",
			level:  "error",
			log:    func() { Info("quiet") },
			absent: "quiet",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			SetTestOutput(&buf)
			defer UnsetTestOutput()
			InitLogger(tt.level)

			tt.log()

			out := buf.String()
			if tt.expected != "" {
				assert.Contains(t, out, tt.expected)
			}
			if tt.absent != "" {
				assert.NotContains(t, out, tt.absent)
			}
		})
	}
}

func TestFieldsAppearInOutput(t *testing.T) {
	var buf bytes.Buffer
	SetTestOutput(&buf)
	defer UnsetTestOutput()
	InitLogger("info")

	Info("download complete", Fields{"app": "OrcaSlicer", "bytes": 1024})

	out := buf.String()
	assert.True(t, strings.Contains(out, "app=OrcaSlicer"))
	assert.True(t, strings.Contains(out, "bytes=1024"))
}
