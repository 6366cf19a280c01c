package gui

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func named(name string, children ...*Node) *Node {
	return &Node{Type: "flow", Name: name, Children: children}
}

func TestWalk_Order(t *testing.T) {
	tests := []struct {
		name  string
		roots []*Node
		want  []string
	}{
		{
			name:  "empty",
			roots: nil,
			want:  nil,
		},
		{
			name:  "single node",
			roots: []*Node{named("a")},
			want:  []string{"a"},
		},
		{
			name: "depth first before siblings",
			roots: []*Node{
				named("a", named("a1"), named("a2", named("a2x"))),
				named("b"),
			},
			want: []string{"a", "a1", "a2", "a2x", "b"},
		},
		{
			name: "child fields in declaration order",
			roots: []*Node{
				{
					Type:     "frame",
					Name:     "w",
					Titlebar: []*Node{named("bar")},
					Children: []*Node{named("body")},
					Footer:   []*Node{named("foot")},
				},
			},
			want: []string{"w", "bar", "body", "foot"},
		},
		{
			name: "nil entries are skipped",
			roots: []*Node{
				nil,
				named("a", nil, named("a1")),
			},
			want: []string{"a", "a1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			err := Walk(tt.roots, func(c Cursor) error {
				got = append(got, c.Node.Name)
				return nil
			})
			if err != nil {
				t.Fatalf("Walk() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("visit order mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWalk_CursorMatchesSequence(t *testing.T) {
	roots := []*Node{named("a"), named("b", named("b1"))}

	err := Walk(roots, func(c Cursor) error {
		if c.Seq[c.Index] != c.Node {
			t.Errorf("node %q: Seq[Index] does not point at the visited node", c.Node.Name)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
}

func TestWalk_ReplaceMutatesLiveTree(t *testing.T) {
	roots := []*Node{named("a"), named("old"), named("c")}

	err := Walk(roots, func(c Cursor) error {
		if c.Node.Name == "old" {
			c.Replace(named("new"))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if roots[1].Name != "new" {
		t.Errorf("roots[1].Name = %q, want %q", roots[1].Name, "new")
	}
}

func TestWalk_ReplacementNotRevisited(t *testing.T) {
	roots := []*Node{named("old")}

	visits := make(map[string]int)
	err := Walk(roots, func(c Cursor) error {
		visits[c.Node.Name]++
		if c.Node.Name == "old" {
			// A replacement that would loop forever if re-visited as input.
			c.Replace(named("old"))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if visits["old"] != 1 {
		t.Errorf("visited replaced position %d times, want 1", visits["old"])
	}
}

func TestWalk_DescendsIntoReplacementChildren(t *testing.T) {
	roots := []*Node{named("old"), named("sibling")}

	var got []string
	err := Walk(roots, func(c Cursor) error {
		got = append(got, c.Node.Name)
		if c.Node.Name == "old" {
			c.Replace(&Node{
				Type:     "frame",
				Name:     "new",
				Titlebar: []*Node{named("new_bar")},
				Children: []*Node{named("new_body")},
			})
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}

	// The replacement's children are walked before the next sibling, but the
	// replacement node itself is never visited.
	want := []string{"old", "new_bar", "new_body", "sibling"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("visit order mismatch (-want +got):\n%s", diff)
	}
}

func TestWalk_VisitErrorStopsWalk(t *testing.T) {
	roots := []*Node{named("a"), named("b"), named("c")}
	boom := errors.New("boom")

	var got []string
	err := Walk(roots, func(c Cursor) error {
		got = append(got, c.Node.Name)
		if c.Node.Name == "b" {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Walk() error = %v, want %v", err, boom)
	}
	if len(got) != 2 {
		t.Errorf("visited %d nodes after error, want 2", len(got))
	}
}
