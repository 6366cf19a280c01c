// Package validation checks module invocation parameters against their
// manifest. The rule is an exact-set match: every supplied parameter must be
// declared, every required parameter must be supplied, and each value's type
// must be one of the declared accepted types.
package validation

import (
	"fmt"
	"sort"

	"github.com/artpar/windowkit/core/schema"
)

// ExtraParamError reports a supplied parameter the manifest does not declare.
type ExtraParamError struct {
	Module string
	Param  string
}

func (e *ExtraParamError) Error() string {
	return fmt.Sprintf("module %q: unknown parameter %q", e.Module, e.Param)
}

// ParamTypeError reports a supplied value whose type is not accepted.
type ParamTypeError struct {
	Module   string
	Param    string
	Accepted string           // declared types, formatted for messages
	Actual   schema.ParamType // observed type of the supplied value
}

func (e *ParamTypeError) Error() string {
	return fmt.Sprintf("module %q: parameter %q must be %s, got %s",
		e.Module, e.Param, e.Accepted, e.Actual)
}

// MissingParamError reports an undeclared required parameter.
type MissingParamError struct {
	Module string
	Param  string
}

func (e *MissingParamError) Error() string {
	return fmt.Sprintf("module %q: missing required parameter %q", e.Module, e.Param)
}

// ValidateParams checks the supplied parameters of one module invocation.
//
// Extra-parameter and wrong-type errors surface first, during a single pass
// over the supplied keys in sorted order; missing-required errors surface in
// a sweep afterwards. The first error stops validation.
func ValidateParams(m schema.Manifest, params map[string]any) error {
	for _, name := range sortedKeys(params) {
		spec, declared := m.Params[name]
		if !declared {
			return &ExtraParamError{Module: m.Module, Param: name}
		}
		if actual := schema.TypeOf(params[name]); !spec.Accepts(actual) {
			return &ParamTypeError{
				Module:   m.Module,
				Param:    name,
				Accepted: spec.TypeNames(),
				Actual:   actual,
			}
		}
	}

	for _, name := range m.ParamNames() {
		if !m.Params[name].Required() {
			continue
		}
		if _, supplied := params[name]; !supplied {
			return &MissingParamError{Module: m.Module, Param: name}
		}
	}
	return nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
