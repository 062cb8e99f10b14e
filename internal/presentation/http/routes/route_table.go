package routes

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// Route binds one (method, path) pair to its handler chain
type Route struct {
	Method   string
	Path     string
	Handlers []gin.HandlerFunc
}

// RouteTable is an explicit list of routes. Every (method, path) pair must be
// unique; path parameters match regardless of their name, so "/:id" and
// "/:invoiceID" collide.
type RouteTable []Route

// DuplicateRouteError reports a route that would shadow an earlier one
type DuplicateRouteError struct {
	Method string
	Path   string
	First  string
}

func (e *DuplicateRouteError) Error() string {
	return fmt.Sprintf("routes: %s %s duplicates %s %s", e.Method, e.Path, e.Method, e.First)
}

// Validate returns a *DuplicateRouteError for the first shadowed route
func (t RouteTable) Validate() error {
	seen := make(map[string]string, len(t))
	for _, r := range t {
		if len(r.Handlers) == 0 {
			return fmt.Errorf("routes: %s %s has no handler", r.Method, r.Path)
		}
		key := strings.ToUpper(r.Method) + " " + routeShape(r.Path)
		if first, ok := seen[key]; ok {
			return &DuplicateRouteError{Method: strings.ToUpper(r.Method), Path: r.Path, First: first}
		}
		seen[key] = r.Path
	}
	return nil
}

// Register validates the table and adds every route to group
func (t RouteTable) Register(group gin.IRoutes) error {
	if err := t.Validate(); err != nil {
		return err
	}
	for _, r := range t {
		group.Handle(strings.ToUpper(r.Method), r.Path, r.Handlers...)
	}
	return nil
}

// routeShape erases parameter names and trailing slashes so equivalent
// patterns compare equal
func routeShape(path string) string {
	path = strings.TrimSuffix(path, "/")
	segments := strings.Split(path, "/")
	for i, s := range segments {
		switch {
		case strings.HasPrefix(s, ":"):
			segments[i] = ":"
		case strings.HasPrefix(s, "*"):
			segments[i] = "*"
		}
	}
	return strings.Join(segments, "/")
}
