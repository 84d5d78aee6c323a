package handlers

import (
	"net/http"
	"slices"
	"strings"
)

// Methods routes a request by method. Any other method gets a JSON 405 with
// an Allow header listing what the resource supports.
type Methods map[string]http.HandlerFunc

func (m Methods) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h, ok := m[r.Method]; ok {
		h(w, r)
		return
	}

	w.Header().Set("Allow", m.allow())
	respondWithError(w, http.StatusMethodNotAllowed, ErrMethodNotAllowed, "", nil)
}

func (m Methods) allow() string {
	methods := make([]string, 0, len(m))
	for method := range m {
		methods = append(methods, method)
	}
	slices.Sort(methods)
	return strings.Join(methods, ", ")
}
