// Package host is an in-memory stand-in for the CAD document a
// classification pass runs against. It answers the queries the pass
// needs (elements created in a phase, scope boxes) and applies label
// writes to a named parameter inside a transaction.
//
// Documents are built in code, decoded from YAML or JSON files, or
// produced by evaluating a scene script with package engine.
package host
