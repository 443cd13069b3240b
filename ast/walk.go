package ast

// Visitor is implemented by callers that want to inspect or rewrite an
// AST during traversal. Visit is called before a node's children are
// walked; returning nil stops descent into that node.
type Visitor interface {
	Visit(node Node) Visitor
}

// Walk traverses an AST in depth-first order, calling v.Visit on node
// and on every child reachable from it.
func Walk(v Visitor, node Node) {
	if node == nil {
		return
	}
	if v = v.Visit(node); v == nil {
		return
	}

	switch n := node.(type) {
	case *Program:
		for _, s := range n.Statements {
			Walk(v, s)
		}

	case *VarDecl:
		if n.Initializer != nil {
			Walk(v, n.Initializer)
		}
	case *TypedefDecl:
		// type specs are not walked: they carry no expressions beyond
		// ArraySize, which is reachable via Type.ArraySize's own
		// statement context when relevant to the caller.
	case *Assign:
		Walk(v, n.Target)
		Walk(v, n.Value)
	case *If:
		Walk(v, n.Condition)
		Walk(v, n.Consequence)
		if n.Alternative != nil {
			Walk(v, n.Alternative)
		}
	case *While:
		Walk(v, n.Condition)
		Walk(v, n.Body)
	case *DoWhile:
		Walk(v, n.Body)
		Walk(v, n.Condition)
	case *For:
		if n.Init != nil {
			Walk(v, n.Init)
		}
		if n.Condition != nil {
			Walk(v, n.Condition)
		}
		if n.Post != nil {
			Walk(v, n.Post)
		}
		Walk(v, n.Body)
	case *ForEach:
		Walk(v, n.Collection)
		Walk(v, n.Body)
	case *Break, *Continue:
		// leaves

	case *BlockStatement:
		for _, s := range n.Body {
			Walk(v, s)
		}
		for _, h := range n.Handlers {
			for _, s := range h.Body {
				Walk(v, s)
			}
		}
	case *CallStatement:
		for _, a := range n.Args {
			Walk(v, a.Value)
		}
	case *Return:
		if n.Value != nil {
			Walk(v, n.Value)
		}
	case *Print:
		Walk(v, n.Value)
	case *Import:
		// leaf
	case *Connect:
		if n.Spec != nil {
			Walk(v, n.Spec)
		}
	case *UseConnection:
		Walk(v, n.Body)
	case *CloseConnection:
		// leaf
	case *CursorDecl:
		Walk(v, n.Query)
	case *OpenCursor:
		for _, a := range n.Args {
			Walk(v, a.Value)
		}
	case *CloseCursor:
		// leaf
	case *Screen:
		Walk(v, n.Spec)
	case *ShowScreen:
		for _, a := range n.Args {
			Walk(v, a)
		}
	case *HideScreen, *CloseScreen, *SubmitScreen:
		// leaves
	case *Try:
		for _, s := range n.TryBlock {
			Walk(v, s)
		}
		for _, h := range n.Handlers {
			for _, s := range h.Body {
				Walk(v, s)
			}
		}
	case *Raise:
		for _, a := range n.Args {
			Walk(v, a)
		}

	case *Literal, *Variable:
		// leaves
	case *Property:
		Walk(v, n.Target)
	case *Index:
		Walk(v, n.Target)
		for _, idx := range n.Indices {
			Walk(v, idx)
		}
	case *LengthExpr:
		Walk(v, n.Target)
	case *Unary:
		Walk(v, n.Right)
	case *Binary:
		Walk(v, n.Left)
		Walk(v, n.Right)
	case *ChainedComparison:
		for _, o := range n.Operands {
			Walk(v, o)
		}
	case *CallExpr:
		for _, a := range n.Args {
			Walk(v, a.Value)
		}
	case *Cast:
		Walk(v, n.Value)
	case *ArrayLiteral:
		for _, e := range n.Elements {
			Walk(v, e)
		}
	case *ArrayAlloc:
		for _, d := range n.Dims {
			Walk(v, d)
		}
		if n.Initializer != nil {
			Walk(v, n.Initializer)
		}
	case *QueueLiteral:
		for _, e := range n.Elements {
			Walk(v, e)
		}
	case *JsonLiteral, *SqlSelect:
		// leaves: raw text is reparsed by the JSON reader / SQL cursor
		// subsystem, not walked as AST
	case *CursorHasNext, *CursorNext:
		// leaves
	}
}

// Inspector flattens a Program into its constituent nodes for
// after-the-fact queries such as FindVariables.
type Inspector struct {
	nodes []Node
}

// NewInspector walks program and records every node reachable from it.
func NewInspector(program *Program) *Inspector {
	insp := &Inspector{}
	Walk(collectorFunc(insp.add), program)
	return insp
}

func (insp *Inspector) add(n Node) { insp.nodes = append(insp.nodes, n) }

// collectorFunc adapts a plain func(Node) into a Visitor that never
// stops descent.
type collectorFunc func(Node)

func (f collectorFunc) Visit(node Node) Visitor {
	f(node)
	return f
}

// FindVariables returns every variable reference in the inspected tree.
func (insp *Inspector) FindVariables() []*Variable {
	var out []*Variable
	for _, n := range insp.nodes {
		if v, ok := n.(*Variable); ok {
			out = append(out, v)
		}
	}
	return out
}

// FindCalls returns every call expression in the inspected tree.
func (insp *Inspector) FindCalls() []*CallExpr {
	var out []*CallExpr
	for _, n := range insp.nodes {
		if c, ok := n.(*CallExpr); ok {
			out = append(out, c)
		}
	}
	return out
}

// FindCallStatements returns every call statement in the inspected tree.
func (insp *Inspector) FindCallStatements() []*CallStatement {
	var out []*CallStatement
	for _, n := range insp.nodes {
		if c, ok := n.(*CallStatement); ok {
			out = append(out, c)
		}
	}
	return out
}

// FindBlocks returns every block statement (named or anonymous) in the
// inspected tree.
func (insp *Inspector) FindBlocks() []*BlockStatement {
	var out []*BlockStatement
	for _, n := range insp.nodes {
		if b, ok := n.(*BlockStatement); ok {
			out = append(out, b)
		}
	}
	return out
}
