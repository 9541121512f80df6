// Package module resolves cross-module ports during bootstrap
package module

import "reflect"

// Provider is anything exposing a port set, modkit.Module included
type Provider interface {
	Name() string
	Ports() any
}

// PortsOf finds T in p's port set: the set itself or one of its exported struct fields
func PortsOf[T any](p Provider) (T, bool) {
	var zero T
	set := p.Ports()
	if set == nil {
		return zero, false
	}
	if v, ok := set.(T); ok {
		return v, true
	}
	rv := reflect.ValueOf(set)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return zero, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return zero, false
	}
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if !f.CanInterface() {
			continue
		}
		if v, ok := f.Interface().(T); ok {
			return v, true
		}
	}
	return zero, false
}

// MustPortsOf is PortsOf that panics naming the provider
func MustPortsOf[T any](p Provider) T {
	if v, ok := PortsOf[T](p); ok {
		return v
	}
	panic("module: requested port not found on module " + p.Name())
}
