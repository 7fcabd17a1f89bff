package param

import (
	"sync"

	"github.com/jhuapl-dtnma/ari-go/ari"
)

// PermissionChecker decides whether a caller identity may invoke a
// given object path, the hook a management front-end wires up to its
// own authorization store before a CTRL is allowed to run.
type PermissionChecker interface {
	Allowed(caller string, obj ari.ObjectPath) bool
}

// AllowAll is the permissive PermissionChecker used when no
// authorization policy is configured.
type AllowAll struct{}

func (AllowAll) Allowed(string, ari.ObjectPath) bool { return true }

// ValueFunc produces an EDD or CONST's current value given its bound
// parameters.
type ValueFunc func(binding *Binding) (ari.Value, error)

// ValueProducer is a registry of ValueFuncs keyed by object name,
// mirroring the map-of-callbacks dispatch the core agent uses to wire
// externally-defined data and controls to Go functions rather than
// interpreted expressions.
type ValueProducer struct {
	mu    sync.RWMutex
	funcs map[string]ValueFunc
}

// NewValueProducer returns an empty registry.
func NewValueProducer() *ValueProducer {
	return &ValueProducer{funcs: make(map[string]ValueFunc)}
}

// Register installs fn under name, replacing any previous registration.
func (p *ValueProducer) Register(name string, fn ValueFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.funcs[name] = fn
}

// Produce looks up name's callback and invokes it with binding,
// failing with StatusUnimplemented if nothing is registered.
func (p *ValueProducer) Produce(name string, binding *Binding) (ari.Value, error) {
	p.mu.RLock()
	fn, ok := p.funcs[name]
	p.mu.RUnlock()
	if !ok {
		return ari.Undefined(), ari.NewErr(ari.StatusUnimplemented, "no producer registered for %q", name)
	}
	return fn(binding)
}

// Invoke runs the whole CTRL/EDD evaluation pipeline: checks the
// caller's permission on obj, binds actual against formals, and
// dispatches to the registered producer.
func Invoke(checker PermissionChecker, caller string, obj ari.ObjectPath, name string, formals []Formal, actual ari.ParamBlock, producer *ValueProducer) (ari.Value, error) {
	if checker == nil {
		checker = AllowAll{}
	}
	if !checker.Allowed(caller, obj) {
		return ari.Undefined(), ari.NewErr(ari.StatusPermissionDenied, "caller %q may not invoke %q", caller, name)
	}
	binding, err := Populate(formals, actual)
	if err != nil {
		return ari.Undefined(), err
	}
	return producer.Produce(name, binding)
}
