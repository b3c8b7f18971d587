package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestAuthMiddleware_NoPasswordPassesThrough(t *testing.T) {
	h := AuthMiddleware("", okHandler)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/state", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 with auth disabled, got %d", rec.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	h := AuthMiddleware("secret", okHandler)

	tests := []struct {
		name     string
		path     string
		cookie   *http.Cookie
		expected int
	}{
		{"login page open", "/login", nil, http.StatusOK},
		{"login endpoint open", "/auth/login", nil, http.StatusOK},
		{"stylesheets open", "/static/css/style.css", nil, http.StatusOK},
		{"page redirects", "/", nil, http.StatusSeeOther},
		{"api rejects", "/api/state", nil, http.StatusUnauthorized},
		{"wrong cookie", "/api/state", &http.Cookie{Name: AuthCookie, Value: "false"}, http.StatusUnauthorized},
		{"authenticated", "/api/state", &http.Cookie{Name: AuthCookie, Value: "true"}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, rec.Code)
			}
			if tt.expected == http.StatusSeeOther && rec.Header().Get("Location") != "/login" {
				t.Errorf("Expected redirect to /login, got %q", rec.Header().Get("Location"))
			}
		})
	}
}
