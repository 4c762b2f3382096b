// Package registry resolves endpoint names to their path and supported version
// range. It is populated once per session from the discovery call and read by
// every subsequent request.
package registry

import "errors"

// Endpoint describes where an API lives and which versions it speaks.
type Endpoint struct {
	Path       string `json:"path"`
	MinVersion int    `json:"minVersion"`
	MaxVersion int    `json:"maxVersion"`
}

var ErrUnknownEndpoint = errors.New("registry: unknown endpoint")

// Registry is a name → endpoint map. It is written once by Load and read-only
// afterwards; concurrent readers are safe after the session is connected.
type Registry struct {
	m map[string]Endpoint
}

func New() *Registry {
	return &Registry{m: make(map[string]Endpoint)}
}

// Load replaces the registry contents with the discovery result.
func (r *Registry) Load(endpoints map[string]Endpoint) {
	m := make(map[string]Endpoint, len(endpoints))
	for name, ep := range endpoints {
		m[name] = ep
	}
	r.m = m
}

// Resolve returns the endpoint for name.
func (r *Registry) Resolve(name string) (Endpoint, error) {
	ep, ok := r.m[name]
	if !ok {
		return Endpoint{}, ErrUnknownEndpoint
	}
	return ep, nil
}

// ResolveVersion returns the endpoint and the highest version it supports that
// does not exceed want. A want of 0 selects the endpoint's maximum.
func (r *Registry) ResolveVersion(name string, want int) (Endpoint, int, error) {
	ep, err := r.Resolve(name)
	if err != nil {
		return Endpoint{}, 0, err
	}
	v := ep.MaxVersion
	if want > 0 && want < v {
		v = want
	}
	if v < ep.MinVersion {
		v = ep.MinVersion
	}
	return ep, v, nil
}

// Len reports the number of known endpoints.
func (r *Registry) Len() int { return len(r.m) }

// All returns a copy of every known endpoint keyed by name.
func (r *Registry) All() map[string]Endpoint {
	m := make(map[string]Endpoint, len(r.m))
	for name, ep := range r.m {
		m[name] = ep
	}
	return m
}
