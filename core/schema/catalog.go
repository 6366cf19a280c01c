package schema

// Catalog types expose module metadata over the inspector API so hosts can
// discover available modules and their parameters.

// ModuleKind distinguishes how a module produces its output.
type ModuleKind string

const (
	// KindGo marks modules whose build function is Go code.
	KindGo ModuleKind = "go"
	// KindTemplate marks modules instantiated from a declarative template.
	KindTemplate ModuleKind = "template"
)

// Descriptor is the catalog entry served for one module.
type Descriptor struct {
	Module      string                     `json:"module"`
	Kind        ModuleKind                 `json:"kind"`
	Description string                     `json:"description,omitempty"`
	Params      map[string]ParamDescriptor `json:"params,omitempty"`
	Handlers    []string                   `json:"handlers,omitempty"`
}

// ParamDescriptor describes one parameter for the catalog.
type ParamDescriptor struct {
	Types       []ParamType `json:"types"`
	Required    bool        `json:"required"`
	Default     any         `json:"default,omitempty"`
	Description string      `json:"description,omitempty"`
}

// Describe builds the catalog entry for a manifest.
func Describe(m Manifest, kind ModuleKind) Descriptor {
	d := Descriptor{
		Module:      m.Module,
		Kind:        kind,
		Description: m.Description,
		Handlers:    append([]string(nil), m.Handlers...),
	}
	if len(m.Params) > 0 {
		d.Params = make(map[string]ParamDescriptor, len(m.Params))
		for name, spec := range m.Params {
			d.Params[name] = ParamDescriptor{
				Types:       append([]ParamType(nil), spec.Types...),
				Required:    spec.Required(),
				Default:     spec.Default,
				Description: spec.Description,
			}
		}
	}
	return d
}
