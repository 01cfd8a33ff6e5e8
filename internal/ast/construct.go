package ast

// Constructors for nodes that carry source position, so other packages
// can build them without reaching into the unexported pos field.

func NewIntLit(line, col int, v int64) *IntLit {
	return &IntLit{pos: pos{line, col}, Value: v}
}

func NewBoolLit(line, col int, v bool) *BoolLit {
	return &BoolLit{pos: pos{line, col}, Value: v}
}

func NewVarRef(line, col int, name string) *VarRef {
	return &VarRef{pos: pos{line, col}, Name: name}
}

func NewArraySelect(line, col int, array string, index Expr) *ArraySelect {
	return &ArraySelect{pos: pos{line, col}, Array: array, Index: index}
}

func NewNot(line, col int, operand Expr) *Not {
	return &Not{pos: pos{line, col}, Operand: operand}
}
