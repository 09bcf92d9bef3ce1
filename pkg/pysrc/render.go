package pysrc

import (
	"strconv"
	"strings"
)

const indentUnit = "    "

// writer accumulates rendered source with indentation tracking.
type writer struct {
	b      strings.Builder
	indent int
}

func (w *writer) line(s string) {
	for i := 0; i < w.indent; i++ {
		w.b.WriteString(indentUnit)
	}
	w.b.WriteString(s)
	w.b.WriteString("\n")
}

// Code renders the module to Python source text. An empty module renders
// to an empty string. Rendering is recomputed on every call.
func (m *Module) Code() string {
	w := &writer{}
	for _, stmt := range m.Body {
		stmt.writeStmt(w)
	}
	return w.b.String()
}

func (f *FunctionDef) writeStmt(w *writer) {
	var sig strings.Builder
	if f.Async {
		sig.WriteString("async ")
	}
	sig.WriteString("def ")
	sig.WriteString(f.Name)
	sig.WriteString("(")
	for i, p := range f.Params {
		if i > 0 {
			sig.WriteString(", ")
		}
		sig.WriteString(p.Name)
		if p.Annotation != "" {
			sig.WriteString(": ")
			sig.WriteString(p.Annotation)
		}
	}
	sig.WriteString("):")
	w.line(sig.String())
	writeBlock(w, f.Body)
}

// writeBlock renders an indented statement block, emitting `pass` when the
// block is empty so the output stays syntactically valid.
func writeBlock(w *writer, body []Stmt) {
	w.indent++
	if len(body) == 0 {
		Pass{}.writeStmt(w)
	} else {
		for _, stmt := range body {
			stmt.writeStmt(w)
		}
	}
	w.indent--
}

func (a Assign) writeStmt(w *writer) {
	w.line(a.Target + " = " + renderExpr(a.Value))
}

func (e ExprStmt) writeStmt(w *writer) {
	w.line(renderExpr(e.Value))
}

func (Pass) writeStmt(w *writer) {
	w.line("pass")
}

func (s If) writeStmt(w *writer) {
	w.line("if " + renderExpr(s.Cond) + ":")
	writeBlock(w, s.Body)
}

func renderExpr(e Expr) string {
	w := &writer{}
	e.writeExpr(w)
	return w.b.String()
}

func (c Call) writeExpr(w *writer) {
	w.b.WriteString(c.Func)
	w.b.WriteString("(")
	written := 0
	for _, arg := range c.Args {
		if written > 0 {
			w.b.WriteString(", ")
		}
		arg.writeExpr(w)
		written++
	}
	for _, kw := range c.Keywords {
		if written > 0 {
			w.b.WriteString(", ")
		}
		w.b.WriteString(kw.Name)
		w.b.WriteString("=")
		kw.Value.writeExpr(w)
		written++
	}
	w.b.WriteString(")")
}

func (s Str) writeExpr(w *writer) {
	// Go's quoting rules are a compatible subset of Python's for the
	// double-quoted form.
	w.b.WriteString(strconv.Quote(s.Value))
}

func (n Name) writeExpr(w *writer) {
	w.b.WriteString(n.ID)
}

func (d Dict) writeExpr(w *writer) {
	w.b.WriteString("{")
	for i, item := range d.Items {
		if i > 0 {
			w.b.WriteString(", ")
		}
		item.Key.writeExpr(w)
		w.b.WriteString(": ")
		item.Value.writeExpr(w)
	}
	w.b.WriteString("}")
}
