package routes

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/celestiaorg/taskman/pkg/api/v1/handlers"
)

// Route is one entry of the routing table
type Route struct {
	Name    string
	Method  string
	Pattern string
	Handler handlers.HandlerFunc

	re     *regexp.Regexp
	params []string
}

// Table holds the routes of each HTTP method in declaration order
type Table struct {
	routes map[string][]*Route
}

// NewTable creates an empty routing table
func NewTable() *Table {
	return &Table{routes: make(map[string][]*Route)}
}

var paramSegment = regexp.MustCompile(`^:([A-Za-z_][A-Za-z0-9_]*)$`)

// Add registers a route. Registering the same method and pattern twice, or
// using a method other than GET or POST, is a configuration error.
func (t *Table) Add(method, pattern, name string, h handlers.HandlerFunc) error {
	method = strings.ToUpper(method)
	if method != fiber.MethodGet && method != fiber.MethodPost {
		return fmt.Errorf("route %s: unsupported method %q", name, method)
	}
	if !strings.HasPrefix(pattern, "/") {
		return fmt.Errorf("route %s: pattern %q must start with /", name, pattern)
	}
	for _, r := range t.routes[method] {
		if r.Pattern == pattern {
			return fmt.Errorf("route %s: %s %s is already registered as %s", name, method, pattern, r.Name)
		}
	}

	re, params, err := compilePattern(pattern)
	if err != nil {
		return fmt.Errorf("route %s: %w", name, err)
	}
	t.routes[method] = append(t.routes[method], &Route{
		Name:    name,
		Method:  method,
		Pattern: pattern,
		Handler: h,
		re:      re,
		params:  params,
	})
	return nil
}

// Match returns the first route for method whose pattern matches path, with
// its URL-unescaped path parameters
func (t *Table) Match(method, path string) (*Route, map[string]string, bool) {
	for _, r := range t.routes[strings.ToUpper(method)] {
		m := r.re.FindStringSubmatch(path)
		if m == nil {
			continue
		}
		params := make(map[string]string, len(r.params))
		for i, name := range r.params {
			value, err := url.PathUnescape(m[i+1])
			if err != nil {
				value = m[i+1]
			}
			params[name] = value
		}
		return r, params, true
	}
	return nil, nil, false
}

// Routes returns every registered route, GET routes first
func (t *Table) Routes() []Route {
	var out []Route
	for _, method := range []string{fiber.MethodGet, fiber.MethodPost} {
		for _, r := range t.routes[method] {
			out = append(out, *r)
		}
	}
	return out
}

// compilePattern turns /api/projects/:name/tasks into an anchored regular
// expression with one capture group per parameter
func compilePattern(pattern string) (*regexp.Regexp, []string, error) {
	var (
		b      strings.Builder
		params []string
	)
	b.WriteString("^")
	for _, seg := range strings.Split(strings.TrimPrefix(pattern, "/"), "/") {
		b.WriteString("/")
		if m := paramSegment.FindStringSubmatch(seg); m != nil {
			for _, p := range params {
				if p == m[1] {
					return nil, nil, fmt.Errorf("duplicate parameter %q in %s", p, pattern)
				}
			}
			params = append(params, m[1])
			b.WriteString("([^/]+)")
			continue
		}
		if strings.HasPrefix(seg, ":") {
			return nil, nil, fmt.Errorf("invalid parameter %q in %s", seg, pattern)
		}
		b.WriteString(regexp.QuoteMeta(seg))
	}
	b.WriteString("$")

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, nil, err
	}
	return re, params, nil
}
