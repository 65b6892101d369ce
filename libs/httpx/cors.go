package httpx

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"
)

// CORSPolicy lists the origins allowed to call the API from a browser.
type CORSPolicy struct {
	AllowedOrigins   []string // "*" allows any origin
	AllowedMethods   []string // defaults to the methods the API routes use
	AllowedHeaders   []string
	AllowCredentials bool
	MaxAge           time.Duration
}

var defaultCORSMethods = []string{
	http.MethodGet, http.MethodPost, http.MethodPut,
	http.MethodPatch, http.MethodDelete, http.MethodOptions,
}

// corsHeaders is the policy rendered once into header values.
type corsHeaders struct {
	origins     []string
	anyOrigin   bool
	credentials bool
	methods     string
	headers     string
	maxAge      string
}

func compileCORS(p CORSPolicy) corsHeaders {
	c := corsHeaders{credentials: p.AllowCredentials}
	for _, o := range trimAll(p.AllowedOrigins) {
		if o == "*" {
			c.anyOrigin = true
			continue
		}
		c.origins = append(c.origins, strings.ToLower(o))
	}
	methods := trimAll(p.AllowedMethods)
	if len(methods) == 0 {
		methods = defaultCORSMethods
	}
	c.methods = strings.Join(methods, ", ")
	c.headers = strings.Join(trimAll(p.AllowedHeaders), ", ")
	if secs := int(p.MaxAge / time.Second); secs > 0 {
		c.maxAge = strconv.Itoa(secs)
	}
	return c
}

// allowOrigin returns the Access-Control-Allow-Origin value for origin, or "" when denied.
// A wildcard echoes the origin when credentials are allowed.
func (c corsHeaders) allowOrigin(origin string) string {
	if slices.Contains(c.origins, strings.ToLower(origin)) {
		return origin
	}
	if c.anyOrigin {
		if c.credentials {
			return origin
		}
		return "*"
	}
	return ""
}

func (c corsHeaders) write(h http.Header, allow string) {
	h.Set("Access-Control-Allow-Origin", allow)
	h.Set("Access-Control-Allow-Methods", c.methods)
	if c.credentials {
		h.Set("Access-Control-Allow-Credentials", "true")
	}
	if c.headers != "" {
		h.Set("Access-Control-Allow-Headers", c.headers)
	}
	if c.maxAge != "" {
		h.Set("Access-Control-Max-Age", c.maxAge)
	}
	h.Add("Vary", "Origin")
	h.Add("Vary", "Access-Control-Request-Method")
	h.Add("Vary", "Access-Control-Request-Headers")
}

// WithCORS answers preflights with 204 and decorates responses for allowed origins.
// With no allowed origins it passes requests through untouched.
func WithCORS(policy CORSPolicy) Middleware {
	c := compileCORS(policy)
	if len(c.origins) == 0 && !c.anyOrigin {
		return func(next http.Handler) http.Handler { return next }
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			allow := ""
			if origin != "" {
				allow = c.allowOrigin(origin)
			}
			if allow == "" {
				next.ServeHTTP(w, r)
				return
			}
			c.write(w.Header(), allow)
			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
