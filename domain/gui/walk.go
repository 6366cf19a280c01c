package gui

// Cursor addresses one visit during a Walk: the node together with its
// position in the containing sequence.
type Cursor struct {
	// Seq is the sequence containing the visited node.
	Seq []*Node
	// Index is the node's position within Seq.
	Index int
	// Node is the visited node, equal to Seq[Index] at visit time.
	Node *Node
}

// Replace swaps the visited node for another in the containing sequence.
// The walk does not visit the replacement itself; it does descend into the
// replacement's child sequences before moving to the next sibling.
func (c Cursor) Replace(n *Node) {
	c.Seq[c.Index] = n
}

// VisitFunc is called once per visited node. Returning a non-nil error stops
// the walk and surfaces the error from Walk.
type VisitFunc func(Cursor) error

type walkFrame struct {
	seq []*Node
	idx int
}

// Walk visits every node reachable from roots exactly once, depth-first,
// child fields in declaration order (Titlebar, Children, Footer) and index
// order within each. visit runs before the node's children are entered.
//
// Replacements made through the cursor take effect on the live tree: the
// walk continues into the replacement's children but never re-visits the
// replacement node itself.
func Walk(roots []*Node, visit VisitFunc) error {
	if len(roots) == 0 {
		return nil
	}
	stack := []walkFrame{{seq: roots}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.idx >= len(top.seq) {
			stack = stack[:len(stack)-1]
			continue
		}
		i := top.idx
		top.idx++
		seq := top.seq
		node := seq[i]
		if node == nil {
			continue
		}
		if err := visit(Cursor{Seq: seq, Index: i, Node: node}); err != nil {
			return err
		}
		// Re-read the slot: visit may have replaced the node, and the
		// replacement's children are the ones to descend into.
		cur := seq[i]
		if cur == nil {
			continue
		}
		// Push in reverse declaration order so Titlebar is walked first.
		for _, child := range [][]*Node{cur.Footer, cur.Children, cur.Titlebar} {
			if len(child) > 0 {
				stack = append(stack, walkFrame{seq: child})
			}
		}
	}
	return nil
}
