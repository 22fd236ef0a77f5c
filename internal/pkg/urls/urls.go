// Package urls keeps named route patterns and reverses them into paths.
package urls

import (
	"fmt"
	"net/url"
	"path"
	"strings"
	"sync"
)

type Registry struct {
	mu     sync.RWMutex
	prefix string
	routes map[string]string
}

func NewRegistry(prefix string) *Registry {
	prefix = "/" + strings.Trim(prefix, "/")
	if prefix == "/" {
		prefix = ""
	}
	return &Registry{prefix: prefix, routes: make(map[string]string)}
}

// Add registers pattern (gin syntax, relative to the prefix) under name and
// returns the pattern so it can be passed straight to the router.
func (r *Registry) Add(name, pattern string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[name] = pattern
	return pattern
}

// Reverse fills the ":param" segments of the named pattern, in order, with
// params and returns the absolute path.
func (r *Registry) Reverse(name string, params ...string) (string, error) {
	r.mu.RLock()
	pattern, ok := r.routes[name]
	r.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("no route named %q", name)
	}
	segments := strings.Split(pattern, "/")
	used := 0
	for i, seg := range segments {
		if !strings.HasPrefix(seg, ":") {
			continue
		}
		if used >= len(params) {
			return "", fmt.Errorf("route %q expects more than %d params", name, len(params))
		}
		if params[used] == "" {
			return "", fmt.Errorf("route %q: empty value for %s", name, seg)
		}
		segments[i] = url.PathEscape(params[used])
		used++
	}
	if used != len(params) {
		return "", fmt.Errorf("route %q expects %d params, got %d", name, used, len(params))
	}
	out := r.prefix + strings.Join(segments, "/")
	if strings.HasSuffix(pattern, "/") && !strings.HasSuffix(out, "/") {
		out += "/"
	}
	if !strings.HasPrefix(out, "/") {
		out = "/" + out
	}
	return out, nil
}

// MustReverse is Reverse for names and arities fixed at compile time.
func (r *Registry) MustReverse(name string, params ...string) string {
	out, err := r.Reverse(name, params...)
	if err != nil {
		panic(err)
	}
	return out
}

// Join is a helper for building absolute links from a base url.
func Join(base, p string) string {
	if base == "" {
		return p
	}
	u, err := url.Parse(base)
	if err != nil {
		return strings.TrimRight(base, "/") + p
	}
	trailing := strings.HasSuffix(p, "/")
	u.Path = path.Join(u.Path, p)
	if trailing && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}
