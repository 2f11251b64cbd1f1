// Package template defines the template engine seam used by the HTML
// renderer. github.com/goliatone/go-template's Engine satisfies it.
package template
