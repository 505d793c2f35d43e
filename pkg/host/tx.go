package host

import (
	"errors"
	"fmt"

	"github.com/chazu/zonelabel/pkg/classify"
	"github.com/chazu/zonelabel/pkg/scene"
)

// ErrTxClosed is returned when a committed or rolled-back transaction is
// used again.
var ErrTxClosed = errors.New("host: transaction already closed")

// Tx stages label writes to one parameter and applies them atomically on
// Commit. It implements classify.Writer.
type Tx struct {
	doc     *Document
	name    string
	param   string
	pending map[scene.ElementID]string
	order   []scene.ElementID
	closed  bool
}

var _ classify.Writer = (*Tx)(nil)

// Begin opens a transaction that writes labels into param.
func (d *Document) Begin(name, param string) *Tx {
	return &Tx{
		doc:     d,
		name:    name,
		param:   param,
		pending: make(map[scene.ElementID]string),
	}
}

// Name returns the transaction name.
func (tx *Tx) Name() string { return tx.name }

// Pending returns the number of staged writes.
func (tx *Tx) Pending() int { return len(tx.order) }

// IsWritable reports whether the element has the target parameter and it
// is not read-only.
func (tx *Tx) IsWritable(e scene.Element) bool {
	return tx.check(e.ID) == nil
}

func (tx *Tx) check(id scene.ElementID) error {
	p, ok := tx.doc.Param(id, tx.param)
	if !ok {
		return &classify.WriteError{Kind: classify.WriteMissingField, Element: id, Field: tx.param}
	}
	if p.ReadOnly {
		return &classify.WriteError{Kind: classify.WriteReadOnly, Element: id, Field: tx.param}
	}
	return nil
}

// WriteLabel stages label for the element's target parameter.
func (tx *Tx) WriteLabel(e scene.Element, label string) error {
	if tx.closed {
		return ErrTxClosed
	}
	if err := tx.check(e.ID); err != nil {
		return err
	}
	if _, staged := tx.pending[e.ID]; !staged {
		tx.order = append(tx.order, e.ID)
	}
	tx.pending[e.ID] = label
	return nil
}

// Commit applies every staged write. Either all writes land or, if a
// target changed underneath the transaction, none do.
func (tx *Tx) Commit() error {
	if tx.closed {
		return ErrTxClosed
	}
	tx.closed = true

	d := tx.doc
	d.mu.Lock()
	defer d.mu.Unlock()

	targets := make([]*Parameter, len(tx.order))
	for i, id := range tx.order {
		e, ok := d.byID[id]
		if !ok {
			return fmt.Errorf("host: commit %q: element %q vanished", tx.name, id)
		}
		p, ok := e.Params[tx.param]
		if !ok || p == nil || p.ReadOnly {
			return fmt.Errorf("host: commit %q: %s.%s is no longer writable", tx.name, id, tx.param)
		}
		targets[i] = p
	}
	for i, id := range tx.order {
		targets[i].Value = tx.pending[id]
	}
	return nil
}

// Rollback discards staged writes. Rolling back a closed transaction is a
// no-op so it can be deferred unconditionally.
func (tx *Tx) Rollback() {
	tx.closed = true
	tx.pending = nil
	tx.order = nil
}
