/*
Package gui defines the declarative window tree model and the pure operations
over it: deep-first walking with in-place replacement, handler tables, and the
live per-user window state.

A window is declared as a tree of nodes. Primitive nodes name an element kind
the toolkit understands; module nodes name a registered module that expands
into a primitive subtree before the window is built.

A minimal declaration in YAML:

	namespace: inventory
	root: screen
	shortcut: toggle-inventory
	tree:
	  - type: frame
	    name: window
	    titlebar:
	      - type: module
	        module: titlebar
	        props: { caption: Inventory }
	    children:
	      - type: module
	        module: button_row
	        props: { count: 3 }

Handler references are symbolic names, either one name for every event kind or
a mapping from kind to name:

	- type: button
	  name: apply
	  handler: on_apply
	- type: textfield
	  name: search
	  handler:
	    text_changed: on_search
	    confirmed: on_search_submit

Names are resolved to functions during namespace registration; after that the
tree is immutable and shared by every build.
*/
package gui
