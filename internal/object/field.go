package object

import "oogen/internal/ctype"

// FieldDescriptor is one instance-state field owned by exactly one class.
type FieldDescriptor struct {
	Name string
	Type ctype.TypeID
	// Init is an optional initializer literal carried into the generated
	// module-scope definition. Empty means zero-initialized.
	Init string
}
