package middleware

import "net/http"

type CORSMiddleware struct {
	allowAll bool
	origins  map[string]struct{}
}

// NewCORSMiddleware allows the given origins. An empty list or "*" allows any origin.
func NewCORSMiddleware(allowedOrigins []string) *CORSMiddleware {
	m := &CORSMiddleware{origins: make(map[string]struct{}, len(allowedOrigins))}
	for _, o := range allowedOrigins {
		if o == "*" {
			m.allowAll = true
		}
		m.origins[o] = struct{}{}
	}
	if len(allowedOrigins) == 0 {
		m.allowAll = true
	}
	return m
}

func (m *CORSMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		origin := req.Header.Get("Origin")
		switch {
		case m.allowAll:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case origin != "":
			w.Header().Add("Vary", "Origin")
			if _, ok := m.origins[origin]; ok {
				w.Header().Set("Access-Control-Allow-Origin", origin)
			}
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if req.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, req)
	})
}
