package httpapi

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"collect/internal/http/handlers"
)

func TestRequestLogCarriesLocaleAndCountry(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	app := &handlers.App{Logger: log}
	router := NewRouter(app, Options{
		Logger:          log,
		RateLimitPerMin: 100,
		AllowedOrigins:  []string{"*"},
		DefaultLocale:   "en",
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/healthz", nil)
	req.Header.Set("X-Country-Code", "DE")
	req.Header.Set("X-Locale", "ru")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	line := buf.String()
	if !strings.Contains(line, `"country":"DE"`) {
		t.Errorf("log line missing country: %s", line)
	}
	if !strings.Contains(line, `"locale":"ru"`) {
		t.Errorf("log line missing locale: %s", line)
	}
	if !strings.Contains(line, `"request_id"`) {
		t.Errorf("log line missing request_id: %s", line)
	}
}
