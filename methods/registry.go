// Package methods holds named queryset operations and the adapters exposing them as query parameters.
// Operations are registered up front and resolved by name when a resource is configured, never at
// request time.
package methods

import (
	"errors"
	"fmt"
	"sort"

	"github.com/datastax/data-api-filters/types"
)

var (
	ErrArity         = errors.New("wrong number of arguments")
	ErrUnknownMethod = errors.New("unknown queryset method")
)

// Variadic marks a method accepting any number of arguments.
const Variadic = -1

// Func narrows a queryset using positional string arguments.
type Func func(qs types.Queryset, args []string) (types.Queryset, error)

type Method struct {
	Arity int
	Fn    Func
}

// NoArgs adapts a zero argument operation.
func NoArgs(fn func(qs types.Queryset) (types.Queryset, error)) Method {
	return Method{
		Arity: 0,
		Fn: func(qs types.Queryset, _ []string) (types.Queryset, error) {
			return fn(qs)
		},
	}
}

type Registry struct {
	methods map[string]Method
}

func NewRegistry() *Registry {
	return &Registry{methods: map[string]Method{}}
}

func (r *Registry) Register(name string, method Method) error {
	if _, ok := r.methods[name]; ok {
		return fmt.Errorf("queryset method %s is already registered", name)
	}
	if method.Fn == nil {
		return fmt.Errorf("queryset method %s has no implementation", name)
	}
	if method.Arity < Variadic {
		return fmt.Errorf("queryset method %s has invalid arity %d", name, method.Arity)
	}
	r.methods[name] = method
	return nil
}

func (r *Registry) Lookup(name string) (Method, bool) {
	method, ok := r.methods[name]
	return method, ok
}

// Names returns the registered method names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.methods))
	for name := range r.methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Call invokes the named method, failing with ErrArity when the argument count does not match.
func (r *Registry) Call(name string, qs types.Queryset, args []string) (types.Queryset, error) {
	method, ok := r.methods[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, name)
	}
	if method.Arity != Variadic && method.Arity != len(args) {
		return nil, fmt.Errorf("%w: %s takes %d, got %d", ErrArity, name, method.Arity, len(args))
	}
	return method.Fn(qs, args)
}
