package netlist

import (
	"fmt"
	"strings"
)

// DumpExpr renders e as a parenthesized text form suitable for the
// round-trip check of spec 8's invariant 3: "dumping E and its
// duplicate yields identical text". It dispatches on the concrete
// expression kind the same way emitNode dispatches on node kind,
// following spec 9's tagged-union-as-switch redesign note.
func DumpExpr(e Expr) string {
	switch v := e.(type) {
	case *EConst:
		return v.Value.String()
	case *EIdent:
		return v.Name
	case *ESignal:
		return v.Sig.Name()
	case *ESubSignal:
		return fmt.Sprintf("%s[%s]", v.Sig.Name(), DumpExpr(v.Index))
	case *EMemElement:
		return fmt.Sprintf("%s[%s]", v.Mem.Name, DumpExpr(v.Addr))
	case *EBinary:
		return fmt.Sprintf("(%s %d %s)", DumpExpr(v.Left), v.Op, DumpExpr(v.Right))
	case *EUnary:
		return fmt.Sprintf("(%d %s)", v.Op, DumpExpr(v.Operand))
	case *ETernary:
		return fmt.Sprintf("(%s ? %s : %s)", DumpExpr(v.Cond), DumpExpr(v.Then), DumpExpr(v.Else))
	case *EConcat:
		parts := make([]string, len(v.Operands))
		for i, o := range v.Operands {
			parts[i] = DumpExpr(o)
		}
		return fmt.Sprintf("{%d{%s}}", v.Repeat, strings.Join(parts, ","))
	case *ECall:
		parts := make([]string, len(v.Args))
		for i, a := range v.Args {
			parts[i] = DumpExpr(a)
		}
		return fmt.Sprintf("%s(%s)", v.Name, strings.Join(parts, ","))
	case *EScopeLit:
		return v.Path
	case *EParam:
		if v.Resolved != nil {
			return DumpExpr(v.Resolved)
		}
		return v.Name
	default:
		return fmt.Sprintf("<%T>", e)
	}
}
