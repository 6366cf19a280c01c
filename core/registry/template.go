package registry

import (
	"fmt"
	"regexp"

	"github.com/artpar/windowkit/core/schema"
	"github.com/artpar/windowkit/domain/gui"
)

var (
	wholePlaceholder = regexp.MustCompile(`^\$\{([A-Za-z0-9_]+)\}$`)
	embedPlaceholder = regexp.MustCompile(`\$\{([A-Za-z0-9_]+)\}`)
)

// templateBuilder returns a BuildFunc that clones the manifest's template and
// substitutes ${param} placeholders with the invocation's parameters.
func templateBuilder(m schema.Manifest) BuildFunc {
	return func(node *gui.Node) (*gui.Node, error) {
		root := m.Template[0].Clone()
		if err := substituteTree(root, m.Module, node.Props); err != nil {
			return nil, err
		}
		return root, nil
	}
}

func substituteTree(root *gui.Node, module string, params map[string]any) error {
	return gui.Walk([]*gui.Node{root}, func(c gui.Cursor) error {
		n := c.Node

		name, err := substituteText(n.Name, module, params)
		if err != nil {
			return err
		}
		n.Name = name

		for key, value := range n.Props {
			replaced, err := substituteValue(value, module, params)
			if err != nil {
				return err
			}
			n.Props[key] = replaced
		}

		if n.Handler != nil {
			if n.Handler.Name != "" {
				replaced, err := substituteText(n.Handler.Name, module, params)
				if err != nil {
					return err
				}
				n.Handler.Name = replaced
			}
			for kind, handlerName := range n.Handler.ByKind {
				replaced, err := substituteText(handlerName, module, params)
				if err != nil {
					return err
				}
				n.Handler.ByKind[kind] = replaced
			}
		}
		return nil
	})
}

func substituteValue(v any, module string, params map[string]any) (any, error) {
	switch val := v.(type) {
	case string:
		return substituteString(val, module, params)
	case map[string]any:
		for k, item := range val {
			replaced, err := substituteValue(item, module, params)
			if err != nil {
				return nil, err
			}
			val[k] = replaced
		}
		return val, nil
	case []any:
		for i, item := range val {
			replaced, err := substituteValue(item, module, params)
			if err != nil {
				return nil, err
			}
			val[i] = replaced
		}
		return val, nil
	default:
		return v, nil
	}
}

// substituteText replaces placeholders in a string-typed field, coercing a
// whole-string placeholder's value to text.
func substituteText(s, module string, params map[string]any) (string, error) {
	v, err := substituteString(s, module, params)
	if err != nil {
		return "", err
	}
	if str, ok := v.(string); ok {
		return str, nil
	}
	return fmt.Sprintf("%v", v), nil
}

// substituteString replaces placeholders in s. A placeholder spanning the
// whole string keeps the parameter's type; embedded placeholders interpolate
// as text.
func substituteString(s, module string, params map[string]any) (any, error) {
	if s == "" {
		return s, nil
	}
	if m := wholePlaceholder.FindStringSubmatch(s); m != nil {
		value, ok := params[m[1]]
		if !ok {
			return nil, fmt.Errorf("module %q: template references parameter %q which was not supplied", module, m[1])
		}
		return value, nil
	}

	var missing string
	out := embedPlaceholder.ReplaceAllStringFunc(s, func(match string) string {
		key := embedPlaceholder.FindStringSubmatch(match)[1]
		value, ok := params[key]
		if !ok {
			if missing == "" {
				missing = key
			}
			return match
		}
		return fmt.Sprintf("%v", value)
	})
	if missing != "" {
		return nil, fmt.Errorf("module %q: template references parameter %q which was not supplied", module, missing)
	}
	return out, nil
}
