package structures

import "net/http"

type Route struct {
	Method  string
	Url     string
	Handler http.Handler
}

// Pattern renders the ServeMux registration pattern, e.g. "GET /api/pages/{id}".
func (r Route) Pattern() string {
	return r.Method + " " + r.Url
}
