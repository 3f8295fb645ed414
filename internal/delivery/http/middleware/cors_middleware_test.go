package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCORSMiddleware(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	tests := []struct {
		name    string
		allowed []string
		origin  string
		method  string
		want    string
		code    int
	}{
		{"wildcard", []string{"*"}, "https://clinic.example", http.MethodGet, "*", http.StatusOK},
		{"empty list allows any", nil, "https://clinic.example", http.MethodGet, "*", http.StatusOK},
		{"listed origin echoed", []string{"https://clinic.example"}, "https://clinic.example", http.MethodGet, "https://clinic.example", http.StatusOK},
		{"unlisted origin", []string{"https://clinic.example"}, "https://evil.example", http.MethodGet, "", http.StatusOK},
		{"preflight", []string{"*"}, "https://clinic.example", http.MethodOptions, "*", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/v1/slots", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()

			NewCORSMiddleware(tt.allowed).Handle(ok).ServeHTTP(rec, req)

			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.want {
				t.Errorf("expected allow-origin %q, got %q", tt.want, got)
			}
			if rec.Code != tt.code {
				t.Errorf("expected %d, got %d", tt.code, rec.Code)
			}
		})
	}
}
