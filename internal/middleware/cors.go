package middleware

import (
	"log/slog"
	"net/http"
	"regexp"
	"strings"
)

const (
	corsMethods = "GET, OPTIONS"
	corsHeaders = "referer, origin, content-type, x-sf"
)

// CORS echoes the request origin back when it matches the allow-list and
// answers preflight requests from allowed origins. Entries are "*", an exact
// origin, or a regular expression starting with "^".
func CORS(allowed []string, logger *slog.Logger) func(http.Handler) http.Handler {
	matcher := newOriginMatcher(allowed, logger)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqOrigin := r.Header.Get("Origin")
			if reqOrigin == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !matcher.allowed(reqOrigin) {
				w.Header().Set("Access-Control-Allow-Origin", "")
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", reqOrigin)
			w.Header().Add("Vary", "Origin")

			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", corsMethods)
				w.Header().Set("Access-Control-Allow-Headers", corsHeaders)
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

type originMatcher struct {
	any      bool
	exact    map[string]bool
	patterns []*regexp.Regexp
}

func newOriginMatcher(allowed []string, logger *slog.Logger) *originMatcher {
	m := &originMatcher{exact: make(map[string]bool)}
	for _, a := range allowed {
		switch {
		case a == "*":
			m.any = true
		case strings.HasPrefix(a, "^"):
			re, err := regexp.Compile(a)
			if err != nil {
				logger.Warn("ignoring invalid origin pattern", "pattern", a, "error", err)
				continue
			}
			m.patterns = append(m.patterns, re)
		default:
			m.exact[a] = true
		}
	}
	return m
}

func (m *originMatcher) allowed(origin string) bool {
	if m.any || m.exact[origin] {
		return true
	}
	for _, re := range m.patterns {
		if re.MatchString(origin) {
			return true
		}
	}
	return false
}
