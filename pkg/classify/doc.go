// Package classify drives a labeling pass: it resolves a representative
// point per element, looks it up in a zone index, writes the label
// through a host-supplied Writer and tallies the outcome per category.
//
// A pass is two-phase. Planning resolves and classifies every element
// without side effects, so a degenerate zone or element transform fails
// the pass before anything is written. Applying then walks the plan in
// input order and calls the Writer.
package classify
