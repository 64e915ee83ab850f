package logger

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestInitWithWriter_Level(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("warn", &buf)
	defer Init("info")

	Info().Msg("hidden")
	Warn().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info message should be filtered at warn level")
	}
	if !strings.Contains(out, "shown") {
		t.Error("warn message should be written")
	}
}

func TestInitWithWriter_InvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("verbose", &buf)
	defer Init("info")

	Debug().Msg("debug")
	Info().Msg("info")

	if strings.Contains(buf.String(), "\"debug\"") {
		t.Error("debug should be filtered when level falls back to info")
	}
	if !strings.Contains(buf.String(), "\"message\":\"info\"") {
		t.Errorf("expected info message, got %q", buf.String())
	}
}

func TestGinLogger_StatusLevels(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{http.StatusOK, "info"},
		{http.StatusUnauthorized, "warn"},
		{http.StatusInternalServerError, "error"},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		InitWithWriter("debug", &buf)

		router := gin.New()
		router.Use(GinLogger())
		router.GET("/x", func(c *gin.Context) {
			c.Set("user_id", "u-1")
			c.Status(tt.status)
		})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/x?token=secret", nil)
		router.ServeHTTP(w, req)

		var entry map[string]interface{}
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("status %d: invalid log line %q: %v", tt.status, buf.String(), err)
		}
		if entry["level"] != tt.level {
			t.Errorf("status %d: level = %v, expected %s", tt.status, entry["level"], tt.level)
		}
		if entry["user_id"] != "u-1" {
			t.Errorf("status %d: user_id = %v, expected u-1", tt.status, entry["user_id"])
		}
		if strings.Contains(buf.String(), "secret") {
			t.Error("query string must not be logged")
		}
	}
	Init("info")
}

func TestGinLogger_SkipsHealth(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("debug", &buf)
	defer Init("info")

	router := gin.New()
	router.Use(GinLogger())
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	if buf.Len() != 0 {
		t.Errorf("health checks should not be logged, got %q", buf.String())
	}
}

func TestGinRecovery(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("debug", &buf)
	defer Init("info")

	router := gin.New()
	router.Use(GinRecovery())
	router.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/panic", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
	if !strings.Contains(buf.String(), "panic recovered") {
		t.Errorf("expected panic log, got %q", buf.String())
	}
}
