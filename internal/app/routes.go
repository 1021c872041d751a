package app

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

const (
	RouteDashboard  = "dashboard"
	RouteLibrary    = "library"
	RouteCategories = "categories"
	RouteSettings   = "settings"
)

// Route is a parsed navigation target
type Route struct {
	Name       string
	CategoryID *int64
}

func (r Route) String() string {
	if r.Name == RouteLibrary && r.CategoryID != nil {
		return fmt.Sprintf("library/category/%d", *r.CategoryID)
	}
	return r.Name
}

// ParseRoute resolves a route string. Anything unrecognised goes to the dashboard.
func ParseRoute(s string) Route {
	s = strings.Trim(strings.TrimSpace(s), "/#")
	switch s {
	case "", RouteDashboard:
		return Route{Name: RouteDashboard}
	case RouteLibrary, RouteCategories, RouteSettings:
		return Route{Name: s}
	}

	if rest, ok := strings.CutPrefix(s, "library/category/"); ok {
		if id, err := strconv.ParseInt(rest, 10, 64); err == nil && id > 0 {
			return Route{Name: RouteLibrary, CategoryID: &id}
		}
	}

	slog.Warn("Unknown route, showing dashboard", "route", s)
	return Route{Name: RouteDashboard}
}

// CategoryRoute is the library route scoped to one category
func CategoryRoute(id int64) string {
	return Route{Name: RouteLibrary, CategoryID: &id}.String()
}
