package classify

import (
	"errors"
	"fmt"

	"github.com/chazu/zonelabel/pkg/scene"
)

// Writer is the host persistence boundary. IsWritable is consulted before
// WriteLabel; an element that is not writable, or whose write fails, is
// skipped and counted in neither the written nor the unwritten tally.
type Writer interface {
	IsWritable(e scene.Element) bool
	WriteLabel(e scene.Element, label string) error
}

// WriteErrorKind classifies a rejected write.
type WriteErrorKind int

const (
	WriteReadOnly     WriteErrorKind = iota // target field exists but is read-only
	WriteMissingField                       // element has no target field
)

func (k WriteErrorKind) String() string {
	switch k {
	case WriteReadOnly:
		return "read-only"
	case WriteMissingField:
		return "missing field"
	default:
		return fmt.Sprintf("WriteErrorKind(%d)", int(k))
	}
}

// WriteError is returned by a Writer that refuses a label.
type WriteError struct {
	Kind    WriteErrorKind
	Element scene.ElementID
	Field   string
}

func (e *WriteError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("write %s: %s", e.Element, e.Kind)
	}
	return fmt.Sprintf("write %s.%s: %s", e.Element, e.Field, e.Kind)
}

// Is lets errors.Is match the ErrReadOnly and ErrMissingField sentinels.
func (e *WriteError) Is(target error) bool {
	switch target {
	case ErrReadOnly:
		return e.Kind == WriteReadOnly
	case ErrMissingField:
		return e.Kind == WriteMissingField
	}
	return false
}

var (
	ErrReadOnly     = errors.New("target field is read-only")
	ErrMissingField = errors.New("target field is missing")
)

// WriterFuncs adapts a pair of functions to Writer.
type WriterFuncs struct {
	Writable func(e scene.Element) bool
	Write    func(e scene.Element, label string) error
}

func (w WriterFuncs) IsWritable(e scene.Element) bool {
	if w.Writable == nil {
		return true
	}
	return w.Writable(e)
}

func (w WriterFuncs) WriteLabel(e scene.Element, label string) error {
	if w.Write == nil {
		return nil
	}
	return w.Write(e, label)
}

// Discard accepts every label and stores nothing. Useful for dry runs.
var Discard Writer = WriterFuncs{}
