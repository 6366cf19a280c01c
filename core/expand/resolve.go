package expand

import (
	"sort"

	"github.com/artpar/windowkit/domain/gui"
)

// Resolve rewrites every symbolic handler reference in tree to the function
// registered under that name, storing the function on the node's reference.
// Runs strictly after expansion so module-provided handlers are in the table.
//
// A name the table does not hold fails with UnknownHandlerError.
func Resolve(tree []*gui.Node, table *gui.HandlerTable) error {
	return gui.Walk(tree, func(c gui.Cursor) error {
		ref := c.Node.Handler
		if ref == nil {
			return nil
		}

		if ref.Name != "" {
			fn, ok := table.Get(ref.Name)
			if !ok {
				return &UnknownHandlerError{Handler: ref.Name, Element: c.Node.Name}
			}
			ref.Fn = fn
			return nil
		}

		if len(ref.ByKind) == 0 {
			return nil
		}
		kinds := make([]string, 0, len(ref.ByKind))
		for kind := range ref.ByKind {
			kinds = append(kinds, kind)
		}
		sort.Strings(kinds)

		ref.FnByKind = make(map[string]gui.HandlerFunc, len(kinds))
		for _, kind := range kinds {
			name := ref.ByKind[kind]
			fn, ok := table.Get(name)
			if !ok {
				return &UnknownHandlerError{Handler: name, Element: c.Node.Name, Kind: kind}
			}
			ref.FnByKind[kind] = fn
		}
		return nil
	})
}
