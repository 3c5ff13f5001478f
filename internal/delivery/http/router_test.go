package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"clinic-appointment-api/config"
	"clinic-appointment-api/internal/delivery/http/handler"
	"clinic-appointment-api/internal/delivery/http/middleware"
	"clinic-appointment-api/internal/service"
	"clinic-appointment-api/pkg/jwt"
	"clinic-appointment-api/pkg/validator"
)

func newTestRouter() http.Handler {
	jwtService := jwt.NewJWTService(config.JWTConfig{Secret: "s", AccessExpiry: time.Minute, RefreshExpiry: time.Hour})
	v := validator.NewValidator()

	// Usecases are never reached: every request below stops in middleware or health
	var tokenStore service.TokenStore
	r := NewRouter(
		handler.NewAuthHandler(nil, v, jwtService),
		handler.NewDoctorHandler(nil, v),
		handler.NewAppointmentHandler(nil, v),
		handler.NewAuditLogHandler(nil),
		middleware.NewAuthMiddleware(jwtService, tokenStore),
		middleware.NewCORSMiddleware([]string{"*"}),
	)
	return r.Setup()
}

func TestRouter(t *testing.T) {
	h := newTestRouter()

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/api/v1/health", http.StatusOK},
		{http.MethodPost, "/api/v1/appointments", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/appointments", http.StatusUnauthorized},
		{http.MethodPut, "/api/v1/appointments/reschedule", http.StatusUnauthorized},
		{http.MethodPut, "/api/v1/appointments/cancel", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/doctors", http.StatusUnauthorized},
		{http.MethodDelete, "/api/v1/doctors/123", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/admin/audit-logs", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/auth/me", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
