package filters

import (
	"errors"
	"fmt"
)

// ErrFilter is the base error all primitive parsing/validation failures
// wrap; errors.Is(err, ErrFilter) matches the whole taxonomy.
var ErrFilter = errors.New("filter processing")

// Error is a typed per-primitive failure. It is raised at parameter-parsing
// time and caught at each primitive's Apply boundary, where it becomes
// Result{OK:false} — it never unwinds past a single primitive.
type Error struct {
	Kind  Kind
	Stage string // "parse" or "validate"
	Msg   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Kind, e.Stage, e.Msg)
}

func (e *Error) Unwrap() error { return ErrFilter }

func parseErr(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Stage: "parse", Msg: fmt.Sprintf(format, args...)}
}
