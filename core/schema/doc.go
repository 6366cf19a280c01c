/*
Package schema defines module manifests: the declared interface of a window
module, covering its parameters, the handlers it provides, and an optional
declarative template.

A Go-backed module registers its manifest in code next to its build function.
A template-backed module is pure data and can be loaded from a YAML manifest
file:

	module: status_footer
	description: Footer bar with a status label.
	params:
	  text:  { types: [string] }
	  width: { types: [number], default: 300 }
	template:
	  - type: flow
	    props: { direction: horizontal, width: "${width}" }
	    children:
	      - type: label
	        name: status
	        props: { caption: "${text}" }

Placeholders of the form ${param} are substituted with the invocation's
parameter values when the template is instantiated. A placeholder that is the
whole string keeps the parameter's type; embedded placeholders interpolate as
text.
*/
package schema
