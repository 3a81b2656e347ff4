package router

import (
	"errors"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
)

type Route struct {
	Method string
	Path   string
}

// Routes lists every method/path pair registered on a handler built by New.
func Routes(h http.Handler) ([]Route, error) {
	routes, ok := h.(chi.Routes)
	if !ok {
		return nil, errors.New("handler does not expose its routes")
	}

	var out []Route
	err := chi.Walk(routes, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		out = append(out, Route{Method: method, Path: route})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Method < out[j].Method
	})
	return out, nil
}
