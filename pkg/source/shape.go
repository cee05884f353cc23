package source

import "go/ast"

// Shape classifies a type declaration.
type Shape string

const (
	ShapeStruct    Shape = "struct"
	ShapeInterface Shape = "interface"
	ShapeOpaque    Shape = "opaque"
)

// ShapeOf returns the shape of spec. Aliases are opaque even when they
// alias a struct type: the builder would belong to the aliased type.
func ShapeOf(spec *ast.TypeSpec) Shape {
	if spec.Assign.IsValid() {
		return ShapeOpaque
	}
	switch spec.Type.(type) {
	case *ast.StructType:
		return ShapeStruct
	case *ast.InterfaceType:
		return ShapeInterface
	default:
		return ShapeOpaque
	}
}

// IsSupported returns true if a builder can be generated for shape.
func IsSupported(shape Shape) bool {
	return shape == ShapeStruct
}
