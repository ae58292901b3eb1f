package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestInit(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		expectError bool
	}{
		{name: "Debug level", level: "debug"},
		{name: "Info level", level: "info"},
		{name: "Warn level", level: "warn"},
		{name: "Invalid level", level: "chatty", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Init(tt.level)
			if tt.expectError {
				if err == nil {
					t.Error("Expected error, got nil")
				}
			} else if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		DisableColors:    true,
	})
	log.SetLevel(logrus.DebugLevel)
	return &buf
}

func TestLogging(t *testing.T) {
	buf := captureLogs(t)

	tests := []struct {
		name          string
		logFunc       func(string, ...map[string]interface{})
		message       string
		fields        map[string]interface{}
		expectedLevel string
	}{
		{
			name:          "Debug message",
			logFunc:       Debug,
			message:       "Loading tree",
			expectedLevel: "debug",
		},
		{
			name:          "Info with fields",
			logFunc:       Info,
			message:       "Imported structure",
			fields:        map[string]interface{}{"project": "p1"},
			expectedLevel: "info",
		},
		{
			name:          "Warn with fields",
			logFunc:       Warn,
			message:       "Discarding scaffold",
			fields:        map[string]interface{}{"key": "app_structure_p1"},
			expectedLevel: "warning",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()

			if tt.fields != nil {
				tt.logFunc(tt.message, tt.fields)
			} else {
				tt.logFunc(tt.message)
			}

			output := buf.String()
			if !strings.Contains(output, "level="+tt.expectedLevel) {
				t.Errorf("Expected log level %s, got %s", tt.expectedLevel, output)
			}
			if !strings.Contains(output, tt.message) {
				t.Errorf("Expected message %s, got %s", tt.message, output)
			}
			for k, v := range tt.fields {
				if !strings.Contains(output, k+"="+v.(string)) {
					t.Errorf("Expected field %s=%v in output: %s", k, v, output)
				}
			}
		})
	}
}

func TestError(t *testing.T) {
	buf := captureLogs(t)

	testError := errors.New("connection reset")

	Error("Sync aborted", testError)
	output := buf.String()
	if !strings.Contains(output, "level=error") {
		t.Error("Expected error level")
	}
	if !strings.Contains(output, testError.Error()) {
		t.Error("Expected error details")
	}

	buf.Reset()
	Error("Sync aborted", testError, map[string]interface{}{"step": "delete_page"})
	output = buf.String()
	if !strings.Contains(output, "step=delete_page") {
		t.Error("Expected error with fields")
	}
}
