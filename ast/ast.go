// Package ast defines the Abstract Syntax Tree nodes produced by the
// EBS parser (spec §3.2).
package ast

import (
	"strings"

	"github.com/ebscore/ebs/token"
)

// Node is implemented by every statement and expression node.
type Node interface {
	TokenLiteral() string
	String() string
	Line() int
}

// Statement is implemented by AST statement nodes.
type Statement interface {
	Node
	statementNode()
}

// Expression is implemented by AST expression nodes.
type Expression interface {
	Node
	expressionNode()
}

// Program is the parser's output: the ordered top-level statements and
// the table of named blocks declared anywhere in the source (spec §4.2
// "Parser" contract: `(blocks: map<name, BlockStatement>, statements:
// ordered list<Statement>)`).
type Program struct {
	Statements []Statement
	Blocks     map[string]*BlockStatement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}
func (p *Program) Line() int { return 0 }
func (p *Program) String() string {
	var out strings.Builder
	for _, s := range p.Statements {
		out.WriteString(s.String())
		out.WriteString("\n")
	}
	return out.String()
}

// ---------------------------------------------------------------------------
// Types
// ---------------------------------------------------------------------------

// FieldSpec is one field of an inline or aliased record type.
type FieldSpec struct {
	Name string
	Type *TypeSpec
}

// BitFieldSpec is one field of a bitmap/intmap type: a named bit range.
type BitFieldSpec struct {
	Name     string
	StartBit int
	EndBit   int // == StartBit for single-bit (boolean) fields
}

// TypeSpec is the parsed form of the type grammar (spec §4.2 "Type
// grammar"): a primitive keyword, a type-alias name, or an inline
// composite (record/bitmap/intmap/array/queue/map).
type TypeSpec struct {
	Tok token.Token

	Name string // primitive keyword, or alias name when Alias is true
	Alias bool

	IsArray   bool
	ElemType  *TypeSpec
	ArraySize Expression // nil => dynamic ("*")

	IsQueue bool // queue.T

	IsMap  bool
	Sorted bool // "sorted map"

	IsRecord  bool
	Fields    []FieldSpec
	IsBitmap  bool
	IsIntmap  bool
	BitFields []BitFieldSpec
}

func (t *TypeSpec) String() string {
	switch {
	case t == nil:
		return ""
	case t.IsArray:
		if t.ArraySize != nil {
			return "array." + t.ElemType.String() + "[" + t.ArraySize.String() + "]"
		}
		return "array." + t.ElemType.String() + "[*]"
	case t.IsQueue:
		return "queue." + t.ElemType.String()
	case t.IsMap:
		if t.Sorted {
			return "sorted map"
		}
		return "map"
	case t.IsRecord:
		return "record{...}"
	case t.IsBitmap:
		return "bitmap{...}"
	case t.IsIntmap:
		return "intmap{...}"
	default:
		return t.Name
	}
}

// ---------------------------------------------------------------------------
// Parameters and call arguments
// ---------------------------------------------------------------------------

// Parameter is one formal parameter of a block declaration.
type Parameter struct {
	Name      string
	Type      *TypeSpec
	Default   Expression
	Mandatory bool
}

// Argument is one actual argument at a call site: Name is empty for a
// positional argument, set for a named one (spec §4.2.1).
type Argument struct {
	Name  string
	Value Expression
}

// ExceptionHandler is one `when KIND(var) { ... }` clause.
type ExceptionHandler struct {
	Kind string
	Var  string
	Body []Statement
}

// ---------------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------------

// VarDecl declares a local variable, optionally const, with an
// optional initializer (spec §4.5.1 "VarDecl").
type VarDecl struct {
	Tok         token.Token
	Name        string
	Type        *TypeSpec
	Initializer Expression
	Const       bool
}

func (n *VarDecl) statementNode()       {}
func (n *VarDecl) TokenLiteral() string { return n.Tok.Literal }
func (n *VarDecl) Line() int            { return n.Tok.Line }
func (n *VarDecl) String() string       { return "var " + n.Name }

// TypedefDecl registers a type alias in the Type Registry at parse
// time (spec §4.3).
type TypedefDecl struct {
	Tok  token.Token
	Name string
	Type *TypeSpec
}

func (n *TypedefDecl) statementNode()       {}
func (n *TypedefDecl) TokenLiteral() string { return n.Tok.Literal }
func (n *TypedefDecl) Line() int            { return n.Tok.Line }
func (n *TypedefDecl) String() string       { return n.Name + " typeof " + n.Type.String() }

// Assign writes to an lvalue: a bare variable, a property
// (`lvalue.field`), or an indexed element (`lvalue[i,j]`). The parser
// produces the same node for all three; the interpreter dispatches on
// the dynamic type of Target (spec §4.5.1 "Assign / IndexedAssign").
type Assign struct {
	Tok    token.Token
	Target Expression
	Value  Expression
}

func (n *Assign) statementNode()       {}
func (n *Assign) TokenLiteral() string { return n.Tok.Literal }
func (n *Assign) Line() int            { return n.Tok.Line }
func (n *Assign) String() string       { return n.Target.String() + " = " + n.Value.String() }

// If is the `if (cond) then stmt [else stmt]` statement.
type If struct {
	Tok         token.Token
	Condition   Expression
	Consequence Statement
	Alternative Statement
}

func (n *If) statementNode()       {}
func (n *If) TokenLiteral() string { return n.Tok.Literal }
func (n *If) Line() int            { return n.Tok.Line }
func (n *If) String() string       { return "if (" + n.Condition.String() + ") then ..." }

// While is a pre-tested loop.
type While struct {
	Tok       token.Token
	Condition Expression
	Body      *BlockStatement
}

func (n *While) statementNode()       {}
func (n *While) TokenLiteral() string { return n.Tok.Literal }
func (n *While) Line() int            { return n.Tok.Line }
func (n *While) String() string       { return "while (" + n.Condition.String() + ") ..." }

// DoWhile is a post-tested loop.
type DoWhile struct {
	Tok       token.Token
	Body      *BlockStatement
	Condition Expression
}

func (n *DoWhile) statementNode()       {}
func (n *DoWhile) TokenLiteral() string { return n.Tok.Literal }
func (n *DoWhile) Line() int            { return n.Tok.Line }
func (n *DoWhile) String() string       { return "do ... while (" + n.Condition.String() + ")" }

// For is the classic init/condition/post loop.
type For struct {
	Tok       token.Token
	Init      Statement
	Condition Expression
	Post      Statement
	Body      *BlockStatement
}

func (n *For) statementNode()       {}
func (n *For) TokenLiteral() string { return n.Tok.Literal }
func (n *For) Line() int            { return n.Tok.Line }
func (n *For) String() string       { return "for (...) ..." }

// ForEach iterates over an Array/Map/Queue/Json (insertion order) or a
// numeric range (integer stepping).
type ForEach struct {
	Tok        token.Token
	VarName    string
	Collection Expression
	Body       *BlockStatement
}

func (n *ForEach) statementNode()       {}
func (n *ForEach) TokenLiteral() string { return n.Tok.Literal }
func (n *ForEach) Line() int            { return n.Tok.Line }
func (n *ForEach) String() string {
	return "foreach " + n.VarName + " in " + n.Collection.String() + " ..."
}

// Break exits the innermost enclosing loop.
type Break struct{ Tok token.Token }

func (n *Break) statementNode()       {}
func (n *Break) TokenLiteral() string { return n.Tok.Literal }
func (n *Break) Line() int            { return n.Tok.Line }
func (n *Break) String() string       { return "break" }

// Continue skips to the next iteration of the innermost enclosing loop.
type Continue struct{ Tok token.Token }

func (n *Continue) statementNode()       {}
func (n *Continue) TokenLiteral() string { return n.Tok.Literal }
func (n *Continue) Line() int            { return n.Tok.Line }
func (n *Continue) String() string       { return "continue" }

// BlockStatement is a named or anonymous callable compound statement.
// With a ReturnType it behaves as a function; with Handlers set, its
// body runs under an implicit try/exceptions wrapper (spec §4.5.1
// "Block statements with `exceptions` clause").
type BlockStatement struct {
	Tok         token.Token
	Name        string // "" for an anonymous block
	Params      []Parameter
	ReturnType  *TypeSpec
	Body        []Statement
	Handlers    []ExceptionHandler
	Anonymous   bool
}

func (n *BlockStatement) statementNode()       {}
func (n *BlockStatement) expressionNode()      {} // a bare block can appear where a statement is expected
func (n *BlockStatement) TokenLiteral() string { return n.Tok.Literal }
func (n *BlockStatement) Line() int            { return n.Tok.Line }
func (n *BlockStatement) String() string {
	if n.Name == "" {
		return "block(...) {...}"
	}
	return n.Name + "(...) {...}"
}

// CallStatement invokes a block or builtin and discards any return
// value (spec §4.5.1 "Call (statement)").
type CallStatement struct {
	Tok  token.Token
	Name string
	Args []Argument

	ResolvedBlock   *BlockStatement
	ResolvedBuiltin bool
}

func (n *CallStatement) statementNode()       {}
func (n *CallStatement) TokenLiteral() string { return n.Tok.Literal }
func (n *CallStatement) Line() int            { return n.Tok.Line }
func (n *CallStatement) String() string       { return "call " + n.Name + "(...)" }

// Return sets the nearest function frame's return slot and unwinds to it.
type Return struct {
	Tok   token.Token
	Value Expression
}

func (n *Return) statementNode()       {}
func (n *Return) TokenLiteral() string { return n.Tok.Literal }
func (n *Return) Line() int            { return n.Tok.Line }
func (n *Return) String() string       { return "return" }

// Print writes a value to one of the host's output streams.
type Print struct {
	Tok    token.Token
	Stream string // "info" unless explicitly qualified
	Value  Expression
}

func (n *Print) statementNode()       {}
func (n *Print) TokenLiteral() string { return n.Tok.Literal }
func (n *Print) Line() int            { return n.Tok.Line }
func (n *Print) String() string       { return "print " + n.Value.String() }

// Import substitutes another file's blocks and statements in place,
// memoized per canonical path (spec §4.5.1 "Import").
type Import struct {
	Tok  token.Token
	Path string
}

func (n *Import) statementNode()       {}
func (n *Import) TokenLiteral() string { return n.Tok.Literal }
func (n *Import) Line() int            { return n.Tok.Line }
func (n *Import) String() string       { return "import \"" + n.Path + "\"" }

// Connect opens a named connection for the remainder of the program.
type Connect struct {
	Tok  token.Token
	Name string
	Spec Expression // JSON literal describing the connection
}

func (n *Connect) statementNode()       {}
func (n *Connect) TokenLiteral() string { return n.Tok.Literal }
func (n *Connect) Line() int            { return n.Tok.Line }
func (n *Connect) String() string       { return "connect " + n.Name }

// UseConnection activates Name as the current connection for Body's
// lexical scope, guaranteed to pop on every exit path (spec §4.5.1,
// §5 "Resource discipline").
type UseConnection struct {
	Tok  token.Token
	Name string
	Body *BlockStatement
}

func (n *UseConnection) statementNode()       {}
func (n *UseConnection) TokenLiteral() string { return n.Tok.Literal }
func (n *UseConnection) Line() int            { return n.Tok.Line }
func (n *UseConnection) String() string       { return "use " + n.Name + " {...}" }

// CloseConnection releases a named connection; closing an already
// closed connection is a no-op warning, never an error.
type CloseConnection struct {
	Tok  token.Token
	Name string
}

func (n *CloseConnection) statementNode()       {}
func (n *CloseConnection) TokenLiteral() string { return n.Tok.Literal }
func (n *CloseConnection) Line() int            { return n.Tok.Line }
func (n *CloseConnection) String() string       { return "close connection " + n.Name }

// CursorDecl declares a named, re-openable SELECT (spec §4.7).
type CursorDecl struct {
	Tok   token.Token
	Name  string
	Query *SqlSelect
}

func (n *CursorDecl) statementNode()       {}
func (n *CursorDecl) TokenLiteral() string { return n.Tok.Literal }
func (n *CursorDecl) Line() int            { return n.Tok.Line }
func (n *CursorDecl) String() string       { return "cursor " + n.Name + " = " + n.Query.String() }

// OpenCursor prepares and binds a declared cursor against the current
// connection; re-opening an open cursor is an error (spec §3.7).
type OpenCursor struct {
	Tok  token.Token
	Name string
	Args []Argument
}

func (n *OpenCursor) statementNode()       {}
func (n *OpenCursor) TokenLiteral() string { return n.Tok.Literal }
func (n *OpenCursor) Line() int            { return n.Tok.Line }
func (n *OpenCursor) String() string       { return "open " + n.Name + "(...)" }

// CloseCursor releases driver resources for a cursor.
type CloseCursor struct {
	Tok  token.Token
	Name string
}

func (n *CloseCursor) statementNode()       {}
func (n *CloseCursor) TokenLiteral() string { return n.Tok.Literal }
func (n *CloseCursor) Line() int            { return n.Tok.Line }
func (n *CloseCursor) String() string       { return "close " + n.Name }

// Screen declares or replaces a host-owned UI surface spec.
type Screen struct {
	Tok     token.Token
	Name    string
	Spec    Expression
	Replace bool
}

func (n *Screen) statementNode()       {}
func (n *Screen) TokenLiteral() string { return n.Tok.Literal }
func (n *Screen) Line() int            { return n.Tok.Line }
func (n *Screen) String() string       { return "screen " + n.Name + " = {...}" }

// ShowScreen, HideScreen, CloseScreen, SubmitScreen delegate to the
// Host; a "" Name targets the currently active screen.
type ShowScreen struct {
	Tok  token.Token
	Name string
	Args []Expression
}

func (n *ShowScreen) statementNode()       {}
func (n *ShowScreen) TokenLiteral() string { return n.Tok.Literal }
func (n *ShowScreen) Line() int            { return n.Tok.Line }
func (n *ShowScreen) String() string       { return "show screen " + n.Name }

type HideScreen struct {
	Tok  token.Token
	Name string
}

func (n *HideScreen) statementNode()       {}
func (n *HideScreen) TokenLiteral() string { return n.Tok.Literal }
func (n *HideScreen) Line() int            { return n.Tok.Line }
func (n *HideScreen) String() string       { return "hide screen " + n.Name }

type CloseScreen struct {
	Tok  token.Token
	Name string
}

func (n *CloseScreen) statementNode()       {}
func (n *CloseScreen) TokenLiteral() string { return n.Tok.Literal }
func (n *CloseScreen) Line() int            { return n.Tok.Line }
func (n *CloseScreen) String() string       { return "close screen " + n.Name }

type SubmitScreen struct {
	Tok  token.Token
	Name string
}

func (n *SubmitScreen) statementNode()       {}
func (n *SubmitScreen) TokenLiteral() string { return n.Tok.Literal }
func (n *SubmitScreen) Line() int            { return n.Tok.Line }
func (n *SubmitScreen) String() string       { return "submit screen " + n.Name }

// Try runs TryBlock, dispatching any raised exception to the first
// matching handler in Handlers, in source order (spec §4.5.1 "Try").
type Try struct {
	Tok      token.Token
	TryBlock []Statement
	Handlers []ExceptionHandler
}

func (n *Try) statementNode()       {}
func (n *Try) TokenLiteral() string { return n.Tok.Literal }
func (n *Try) Line() int            { return n.Tok.Line }
func (n *Try) String() string       { return "try {...} exceptions {...}" }

// Raise constructs and raises an exception: a standard kind with at
// most one string message, or a custom name with any positional
// params (spec §4.5.1 "Raise").
type Raise struct {
	Tok  token.Token
	Kind string
	Args []Expression
}

func (n *Raise) statementNode()       {}
func (n *Raise) TokenLiteral() string { return n.Tok.Literal }
func (n *Raise) Line() int            { return n.Tok.Line }
func (n *Raise) String() string       { return "raise exception " + n.Kind + "(...)" }

// ---------------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------------

// Literal is a typed constant: integer, long, float, double, string,
// date, boolean, or null.
type Literal struct {
	Tok        token.Token
	Kind       string // "int","long","float","double","string","date","bool","null"
	IntVal     int64
	FloatVal   float64
	StringVal  string
	BoolVal    bool
}

func (n *Literal) expressionNode()      {}
func (n *Literal) TokenLiteral() string { return n.Tok.Literal }
func (n *Literal) Line() int            { return n.Tok.Line }
func (n *Literal) String() string       { return n.Tok.Literal }

// Variable is a reference to a single name; a dotted reference such as
// `screenName.varName` parses as a Property on a Variable.
type Variable struct {
	Tok  token.Token
	Name string
}

func (n *Variable) expressionNode()      {}
func (n *Variable) TokenLiteral() string { return n.Tok.Literal }
func (n *Variable) Line() int            { return n.Tok.Line }
func (n *Variable) String() string       { return n.Name }

// Property reads `target.field` on a Record or Json value.
type Property struct {
	Tok    token.Token
	Target Expression
	Field  string
}

func (n *Property) expressionNode()      {}
func (n *Property) TokenLiteral() string { return n.Tok.Literal }
func (n *Property) Line() int            { return n.Tok.Line }
func (n *Property) String() string       { return n.Target.String() + "." + n.Field }

// Index reads `target[i, j, ...]`; multiple indices address a
// multi-dimensional array by row-major offset (spec §4.5.1).
type Index struct {
	Tok     token.Token
	Target  Expression
	Indices []Expression
}

func (n *Index) expressionNode()      {}
func (n *Index) TokenLiteral() string { return n.Tok.Literal }
func (n *Index) Line() int            { return n.Tok.Line }
func (n *Index) String() string       { return n.Target.String() + "[...]" }

// LengthExpr is `length(x)` / `size(x)`: element count for
// Array/Map/Queue/String, field count for Record.
type LengthExpr struct {
	Tok    token.Token
	Target Expression
}

func (n *LengthExpr) expressionNode()      {}
func (n *LengthExpr) TokenLiteral() string { return n.Tok.Literal }
func (n *LengthExpr) Line() int            { return n.Tok.Line }
func (n *LengthExpr) String() string       { return "length(" + n.Target.String() + ")" }

// Unary is a prefix operator: -, +, !, or typeof.
type Unary struct {
	Tok   token.Token
	Op    string
	Right Expression
}

func (n *Unary) expressionNode()      {}
func (n *Unary) TokenLiteral() string { return n.Tok.Literal }
func (n *Unary) Line() int            { return n.Tok.Line }
func (n *Unary) String() string       { return "(" + n.Op + n.Right.String() + ")" }

// Binary is an infix operator.
type Binary struct {
	Tok   token.Token
	Op    string
	Left  Expression
	Right Expression
}

func (n *Binary) expressionNode()      {}
func (n *Binary) TokenLiteral() string { return n.Tok.Literal }
func (n *Binary) Line() int            { return n.Tok.Line }
func (n *Binary) String() string {
	return "(" + n.Left.String() + " " + n.Op + " " + n.Right.String() + ")"
}

// ChainedComparison desugars `a < b <= c` into a single node: each
// operand is evaluated exactly once, and the comparators short-circuit
// left to right on the first failure (spec §4.5.2).
type ChainedComparison struct {
	Tok      token.Token
	Operands []Expression
	Ops      []string // len(Ops) == len(Operands)-1
}

func (n *ChainedComparison) expressionNode()      {}
func (n *ChainedComparison) TokenLiteral() string { return n.Tok.Literal }
func (n *ChainedComparison) Line() int            { return n.Tok.Line }
func (n *ChainedComparison) String() string        { return "(chained comparison)" }

// CallExpr invokes a block or builtin and yields its return value
// (Null if the callee did not return one).
type CallExpr struct {
	Tok  token.Token
	Name string
	Args []Argument

	ResolvedBlock    *BlockStatement
	ResolvedBuiltin  bool
	ResolvedBuiltinName string
}

func (n *CallExpr) expressionNode()      {}
func (n *CallExpr) TokenLiteral() string { return n.Tok.Literal }
func (n *CallExpr) Line() int            { return n.Tok.Line }
func (n *CallExpr) String() string       { return n.Name + "(...)" }

// Cast applies a type conversion, including a cast-via-alias to a
// Bitmap/Intmap type (spec §4.5.2 "Cast"). The alias cast yields a new
// container seeded from a copy of the value's bits; writes to its fields
// do not change the source value.
type Cast struct {
	Tok   token.Token
	Type  *TypeSpec
	Value Expression
}

func (n *Cast) expressionNode()      {}
func (n *Cast) TokenLiteral() string { return n.Tok.Literal }
func (n *Cast) Line() int            { return n.Tok.Line }
func (n *Cast) String() string       { return n.Type.String() + "(" + n.Value.String() + ")" }

// ArrayLiteral is a fixed list of element expressions.
type ArrayLiteral struct {
	Tok      token.Token
	ElemType *TypeSpec
	Elements []Expression
}

func (n *ArrayLiteral) expressionNode()      {}
func (n *ArrayLiteral) TokenLiteral() string { return n.Tok.Literal }
func (n *ArrayLiteral) Line() int            { return n.Tok.Line }
func (n *ArrayLiteral) String() string       { return "[...]" }

// ArrayAlloc allocates an array of ElemType with the given dimensions
// (or a dynamic array when Dims is nil), with an optional initializer.
type ArrayAlloc struct {
	Tok         token.Token
	ElemType    *TypeSpec
	Dims        []Expression
	Initializer Expression
}

func (n *ArrayAlloc) expressionNode()      {}
func (n *ArrayAlloc) TokenLiteral() string { return n.Tok.Literal }
func (n *ArrayAlloc) Line() int            { return n.Tok.Line }
func (n *ArrayAlloc) String() string       { return "array." + n.ElemType.String() + "[...]" }

// QueueLiteral is a fixed list of initial queue elements, front to back.
type QueueLiteral struct {
	Tok      token.Token
	ElemType *TypeSpec
	Elements []Expression
}

func (n *QueueLiteral) expressionNode()      {}
func (n *QueueLiteral) TokenLiteral() string { return n.Tok.Literal }
func (n *QueueLiteral) Line() int            { return n.Tok.Line }
func (n *QueueLiteral) String() string       { return "queue{...}" }

// JsonLiteral holds the raw source slice of a `{...}`/`[...]` literal
// until first evaluation (spec §4.2 "JSON and SQL literals"). TypeName
// is set when the literal is an aliased record initializer
// (`TypeAlias { field: value, ... }`, spec §4.2 "Record literals").
type JsonLiteral struct {
	Tok      token.Token
	Raw      string
	TypeName string
}

func (n *JsonLiteral) expressionNode()      {}
func (n *JsonLiteral) TokenLiteral() string { return n.Tok.Literal }
func (n *JsonLiteral) Line() int            { return n.Tok.Line }
func (n *JsonLiteral) String() string       { return n.Raw }

// SqlSelect holds raw SELECT text captured verbatim up to its
// terminating semicolon (spec §4.2 "JSON and SQL literals").
type SqlSelect struct {
	Tok token.Token
	Raw string
}

func (n *SqlSelect) expressionNode()      {}
func (n *SqlSelect) TokenLiteral() string { return n.Tok.Literal }
func (n *SqlSelect) Line() int            { return n.Tok.Line }
func (n *SqlSelect) String() string       { return n.Raw }

// CursorHasNext / CursorNext are the two cursor-driving expressions.
type CursorHasNext struct {
	Tok        token.Token
	CursorName string
}

func (n *CursorHasNext) expressionNode()      {}
func (n *CursorHasNext) TokenLiteral() string { return n.Tok.Literal }
func (n *CursorHasNext) Line() int            { return n.Tok.Line }
func (n *CursorHasNext) String() string       { return n.CursorName + ".hasNext()" }

type CursorNext struct {
	Tok        token.Token
	CursorName string
}

func (n *CursorNext) expressionNode()      {}
func (n *CursorNext) TokenLiteral() string { return n.Tok.Literal }
func (n *CursorNext) Line() int            { return n.Tok.Line }
func (n *CursorNext) String() string       { return n.CursorName + ".next()" }
