package pysrc

// Stmt is a Python statement node.
type Stmt interface {
	writeStmt(w *writer)
}

// Expr is a Python expression node.
type Expr interface {
	writeExpr(w *writer)
}

// Module is a Python source file: an ordered list of top-level statements.
type Module struct {
	Body []Stmt
}

// Param is a single function parameter. Annotation is reserved for a
// future type-annotation pass and is rendered only when set.
type Param struct {
	Name       string
	Annotation string
}

// FunctionDef is a (possibly async) function definition.
type FunctionDef struct {
	Name   string
	Async  bool
	Params []Param
	Body   []Stmt
}

// AppendBody appends one statement to the end of the function's immediate
// body. Existing statements and any blocks nested inside them are left
// untouched.
func (f *FunctionDef) AppendBody(stmt Stmt) {
	f.Body = append(f.Body, stmt)
}

// Assign is a single-target assignment statement.
type Assign struct {
	Target string
	Value  Expr
}

// ExprStmt is an expression used as a statement.
type ExprStmt struct {
	Value Expr
}

// Pass is the `pass` statement.
type Pass struct{}

// If is a conditional with a nested body. It exists so that callers can
// hold statements whose inner blocks must stay opaque to body appends.
type If struct {
	Cond Expr
	Body []Stmt
}

// Call is a function or constructor call.
type Call struct {
	Func     string
	Args     []Expr
	Keywords []Keyword
}

// Keyword is a keyword argument in a call.
type Keyword struct {
	Name  string
	Value Expr
}

// Str is a string literal.
type Str struct {
	Value string
}

// Name is a bare (possibly dotted) identifier reference.
type Name struct {
	ID string
}

// DictItem is one key/value entry of a dict literal.
type DictItem struct {
	Key   Expr
	Value Expr
}

// Dict is a dict literal with entries in declaration order.
type Dict struct {
	Items []DictItem
}
