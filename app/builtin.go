package app

import (
	"context"
	"fmt"

	"github.com/artpar/windowkit/core/registry"
	"github.com/artpar/windowkit/core/schema"
	"github.com/artpar/windowkit/domain/gui"
)

// Builtins returns the Go-backed module definitions the service ships with.
// The bootstrap registers them before loading manifest modules.
func (s *WindowService) Builtins() []registry.Definition {
	return []registry.Definition{
		s.titlebarModule(),
		s.buttonRowModule(),
	}
}

// titlebarModule builds a window title bar: a title label, a pin toggle and
// optionally a close button wired to the standard close handler.
func (s *WindowService) titlebarModule() registry.Definition {
	return registry.Definition{
		Manifest: schema.Manifest{
			Module:      "titlebar",
			Description: "Window title bar with pin and close buttons.",
			Params: map[string]schema.ParamSpec{
				"title":    {Types: []schema.ParamType{schema.TypeString}, Description: "Title text."},
				"closable": {Types: []schema.ParamType{schema.TypeBool}, Optional: true, Default: true, Description: "Include a close button."},
			},
			Handlers: []string{"on_pin"},
		},
		Build: buildTitlebar,
		Handlers: map[string]gui.HandlerFunc{
			"on_pin": s.handlePin,
		},
	}
}

func buildTitlebar(node *gui.Node) (*gui.Node, error) {
	name := node.Name
	if name == "" {
		name = "titlebar"
	}
	title, _ := node.Props["title"].(string)
	closable, _ := node.Props["closable"].(bool)

	bar := &gui.Node{
		Type:  "container",
		Name:  name,
		Props: map[string]any{"layout": "row"},
		Children: []*gui.Node{
			{Type: "label", Name: name + "_title", Props: map[string]any{"text": title}},
			{Type: "button", Name: name + "_pin", Props: map[string]any{"icon": "pin"}, Handler: &gui.HandlerRef{Name: "on_pin"}},
		},
	}
	if closable {
		bar.Children = append(bar.Children, &gui.Node{
			Type:    "button",
			Name:    name + "_close",
			Props:   map[string]any{"icon": "close"},
			Handler: &gui.HandlerRef{Name: HandlerClose},
		})
	}
	return bar, nil
}

// handlePin flips the window's pin and persists it.
func (s *WindowService) handlePin(ctx context.Context, st *gui.State, ev gui.Event) error {
	return s.persistPin(ctx, st, !st.Pinned())
}

// buttonRowModule builds a horizontal row of uniformly named buttons, all
// wired to the same click handler.
func (s *WindowService) buttonRowModule() registry.Definition {
	return registry.Definition{
		Manifest: schema.Manifest{
			Module:      "button_row",
			Description: "Horizontal row of uniformly named buttons.",
			Params: map[string]schema.ParamSpec{
				"count":  {Types: []schema.ParamType{schema.TypeNumber}, Description: "Number of buttons."},
				"prefix": {Types: []schema.ParamType{schema.TypeString}, Optional: true, Default: "btn", Description: "Element name prefix."},
			},
			Handlers: []string{"on_click"},
		},
		Build: buildButtonRow,
		Handlers: map[string]gui.HandlerFunc{
			"on_click": s.handleRowClick,
		},
	}
}

func buildButtonRow(node *gui.Node) (*gui.Node, error) {
	count := intProp(node.Props["count"])
	if count < 0 {
		return nil, fmt.Errorf("button_row: count must not be negative, got %d", count)
	}
	prefix, _ := node.Props["prefix"].(string)

	name := node.Name
	if name == "" {
		name = prefix + "_row"
	}

	row := &gui.Node{
		Type:  "container",
		Name:  name,
		Props: map[string]any{"layout": "row"},
	}
	for i := 0; i < count; i++ {
		row.Children = append(row.Children, &gui.Node{
			Type:    "button",
			Name:    fmt.Sprintf("%s_%d", prefix, i),
			Handler: &gui.HandlerRef{Name: "on_click"},
		})
	}
	return row, nil
}

func (s *WindowService) handleRowClick(ctx context.Context, st *gui.State, ev gui.Event) error {
	s.logger.Debug().
		Str("namespace", ev.Namespace).
		Str("element", ev.Element).
		Msg("button clicked")
	return nil
}

func intProp(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}
