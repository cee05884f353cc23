package buildergen

import (
	"fmt"
	"go/token"

	"github.com/thorn-jmh/errorst"

	"github.com/thorn-jmh/buildergen/pkg/source"
)

var (
	ErrUnsupportedShape    = errorst.NewError("unsupported declaration shape")
	ErrUnsupportedType     = errorst.NewError("unsupported type expression")
	ErrUnresolvedQualifier = errorst.NewError("unresolved package qualifier")
	ErrDotImport           = errorst.NewError("dot imports are not supported")
	ErrNameCollision       = errorst.NewError("generated name collides with an existing one")
	ErrDeclNotFound        = errorst.NewError("type declaration not found")
	ErrNoDeclarations      = errorst.NewError("no type declarations selected")
)

// Diagnostic is a generation-time error located in the source. Err is one
// of the sentinels above.
type Diagnostic struct {
	Pos    token.Position
	Type   string       // declaration the diagnostic is about
	Shape  source.Shape // set for ErrUnsupportedShape
	Err    error
	Detail string
}

func (d *Diagnostic) Error() string {
	msg := fmt.Sprintf("cannot generate builder for %s: %v", d.Type, d.Err)
	if d.Detail != "" {
		msg += ": " + d.Detail
	}
	if d.Pos.IsValid() {
		return d.Pos.String() + ": " + msg
	}
	return msg
}

func (d *Diagnostic) Unwrap() error {
	return d.Err
}

func diag(pos token.Position, typeName string, err error, format string, args ...any) *Diagnostic {
	return &Diagnostic{
		Pos:    pos,
		Type:   typeName,
		Err:    err,
		Detail: fmt.Sprintf(format, args...),
	}
}
