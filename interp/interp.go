package interp

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/ebscore/ebs/ast"
	"github.com/ebscore/ebs/builtin"
	"github.com/ebscore/ebs/env"
	"github.com/ebscore/ebs/host"
	"github.com/ebscore/ebs/lexer"
	"github.com/ebscore/ebs/parser"
	"github.com/ebscore/ebs/source"
	"github.com/ebscore/ebs/typereg"
	"github.com/ebscore/ebs/value"
	"github.com/google/uuid"
)

// Importer resolves an `import "path";` statement's path to its source
// text (spec §4.5.1 "Import"). cmd/ebs wires this to the filesystem;
// tests can supply an in-memory map.
type Importer interface {
	Read(path string) (string, error)
}

// connEntry pairs an open Connection with the correlation id its
// "connection opened"/"connection closed" log lines share, so grepping
// a log for one id finds both ends of a connection's lifetime.
type connEntry struct {
	Conn host.Connection
	ID   string
}

// Interp is the tree-walking interpreter's session state: the shared
// value arena, the global scope, the type and builtin registries, the
// Host capability surface, and every piece of resource bookkeeping the
// language's statements touch (call stack, connection stack, open
// cursors, import memoization).
type Interp struct {
	Arena      *value.Arena
	Globals    *env.Environment
	Types      *typereg.Registry
	Builtins   *builtin.Registry
	Host       host.Host
	ScreenVars *env.ScreenVars
	Importer   Importer
	Log        *slog.Logger

	Program *ast.Program

	callStack []frame

	connStack   []string
	connections map[string]connEntry

	cursors map[string]*cursorState

	importedCanonical   map[string]bool
	currentlyImporting  map[string]bool
	builtinSigsCache    map[string]parser.BuiltinSignature
	embedDepth          int
}

// New builds an interpreter session. types/builtins/screenVars are
// owned by the caller (typically shared with the Parser that produced
// program, so typedef aliases resolve identically on both sides).
func New(arena *value.Arena, globals *env.Environment, types *typereg.Registry, builtins *builtin.Registry, h host.Host, screenVars *env.ScreenVars, importer Importer) *Interp {
	return &Interp{
		Arena:              arena,
		Globals:            globals,
		Types:              types,
		Builtins:           builtins,
		Host:               h,
		ScreenVars:         screenVars,
		Importer:           importer,
		Log:                slog.Default(),
		connections:        map[string]connEntry{},
		cursors:            map[string]*cursorState{},
		importedCanonical:  map[string]bool{},
		currentlyImporting: map[string]bool{},
	}
}

// Run executes a parsed, bound program's top-level statements against
// the global scope (spec §4.5 "Interpreter"). A raised exception that
// reaches the top unhandled is returned as an *Exception; a bare
// top-level `return` simply ends the run, matching a script used as a
// one-shot entry point.
func (i *Interp) Run(program *ast.Program) error {
	i.Program = program
	err := i.execStatements(program.Statements, i.Globals)
	switch err.(type) {
	case nil, returnSignal:
		return nil
	case breakSignal, continueSignal:
		return fmt.Errorf("TypeError: %v at top level", err)
	default:
		return err
	}
}

func (i *Interp) execStatements(stmts []ast.Statement, en *env.Environment) error {
	for _, s := range stmts {
		if i.Host.IsCancelled() {
			return &Exception{Kind: KindCancelled, Line: s.Line()}
		}
		if err := i.exec(s, en); err != nil {
			return err
		}
	}
	return nil
}

// exec executes one statement (spec §4.5.1).
func (i *Interp) exec(s ast.Statement, en *env.Environment) error {
	switch n := s.(type) {
	case *ast.VarDecl:
		return i.execVarDecl(n, en)
	case *ast.TypedefDecl:
		return nil // registered in the Type Registry at parse time
	case *ast.Assign:
		v, err := i.eval(n.Value, en)
		if err != nil {
			return err
		}
		return i.assignLvalue(n.Target, v, en)
	case *ast.If:
		cond, err := i.eval(n.Condition, en)
		if err != nil {
			return err
		}
		if cond.Truthy() {
			return i.exec(n.Consequence, en.Push())
		}
		if n.Alternative != nil {
			return i.exec(n.Alternative, en.Push())
		}
		return nil
	case *ast.While:
		return i.execWhile(n, en)
	case *ast.DoWhile:
		return i.execDoWhile(n, en)
	case *ast.For:
		return i.execFor(n, en)
	case *ast.ForEach:
		return i.execForEach(n, en)
	case *ast.Break:
		return breakSignal{}
	case *ast.Continue:
		return continueSignal{}
	case *ast.BlockStatement:
		if !n.Anonymous {
			return nil // named declaration; already hoisted into Program.Blocks
		}
		return i.execStatements(n.Body, en.Push())
	case *ast.CallStatement:
		_, err := i.evalCall(n.Name, n.Args, n.ResolvedBlock, n.ResolvedBuiltin, "", n.Line(), en)
		return err
	case *ast.Return:
		if n.Value == nil {
			return returnSignal{Value: value.Null}
		}
		v, err := i.eval(n.Value, en)
		if err != nil {
			return err
		}
		return returnSignal{Value: v}
	case *ast.Print:
		v, err := i.eval(n.Value, en)
		if err != nil {
			return err
		}
		stream := host.StreamInfo
		switch n.Stream {
		case "warn":
			stream = host.StreamWarn
		case "error":
			stream = host.StreamError
		case "ok":
			stream = host.StreamOK
		}
		i.Host.Print(stream, i.stringify(v))
		return nil
	case *ast.Import:
		return i.execImport(n, en)
	case *ast.Connect:
		return i.execConnect(n, en)
	case *ast.UseConnection:
		return i.execUseConnection(n, en)
	case *ast.CloseConnection:
		return i.execCloseConnection(n)
	case *ast.CursorDecl:
		i.cursors[n.Name] = &cursorState{Decl: n}
		return nil
	case *ast.OpenCursor:
		return i.execOpenCursor(n, en)
	case *ast.CloseCursor:
		return i.execCloseCursor(n)
	case *ast.Screen:
		return i.execScreen(n, en)
	case *ast.ShowScreen:
		return i.execShowScreen(n, en)
	case *ast.HideScreen:
		return i.Host.HideScreen(n.Name)
	case *ast.CloseScreen:
		return i.Host.CloseScreen(n.Name)
	case *ast.SubmitScreen:
		return i.Host.SubmitScreen(n.Name)
	case *ast.Try:
		return i.execTry(n, en)
	case *ast.Raise:
		return i.execRaise(n, en)
	default:
		return fmt.Errorf("TypeError: cannot execute statement of type %T", s)
	}
}

// resolveDeclType walks an alias TypeSpec to its underlying structure
// the way execVarDecl/callBlock need for value.ZeroOf/env.KindOf: a
// record/bitmap/intmap's own TypeSpec carries no name (typedef is what
// names it), so the alias name is grafted back onto a copy rather than
// lost, matching how evalJsonLiteral already threads TypeName through
// for record literals.
func (i *Interp) resolveDeclType(t *ast.TypeSpec) (*ast.TypeSpec, error) {
	if t == nil || !t.Alias {
		return t, nil
	}
	resolved, err := i.Types.Resolve(t)
	if err != nil {
		return nil, fmt.Errorf("TypeError: %w", err)
	}
	if resolved.IsRecord || resolved.IsBitmap || resolved.IsIntmap {
		named := *resolved
		named.Name = t.Name
		return &named, nil
	}
	return resolved, nil
}

func (i *Interp) execVarDecl(n *ast.VarDecl, en *env.Environment) error {
	declType, err := i.resolveDeclType(n.Type)
	if err != nil {
		return err
	}

	var v value.Value
	switch {
	case n.Initializer != nil:
		ev, err := i.eval(n.Initializer, en)
		if err != nil {
			return err
		}
		v = ev
	case declType != nil:
		v = value.ZeroOf(i.Arena, declType)
	default:
		v = value.Null
	}
	if declType != nil {
		coerced, err := value.CoerceOnStore(v, env.KindOf(declType))
		if err != nil {
			return err
		}
		v = coerced
	}
	return en.Define(n.Name, n.Type, v, n.Const)
}

func (i *Interp) execWhile(n *ast.While, en *env.Environment) error {
	for {
		if i.Host.IsCancelled() {
			return &Exception{Kind: KindCancelled, Line: n.Line()}
		}
		cond, err := i.eval(n.Condition, en)
		if err != nil {
			return err
		}
		if !cond.Truthy() {
			return nil
		}
		if err := i.runLoopBody(n.Body, en); err != nil {
			if _, ok := err.(breakSignal); ok {
				return nil
			}
			if _, ok := err.(continueSignal); ok {
				continue
			}
			return err
		}
	}
}

func (i *Interp) execDoWhile(n *ast.DoWhile, en *env.Environment) error {
	for {
		if i.Host.IsCancelled() {
			return &Exception{Kind: KindCancelled, Line: n.Line()}
		}
		err := i.runLoopBody(n.Body, en)
		if _, ok := err.(breakSignal); ok {
			return nil
		}
		if _, ok := err.(continueSignal); err != nil && !ok {
			return err
		}
		cond, err := i.eval(n.Condition, en)
		if err != nil {
			return err
		}
		if !cond.Truthy() {
			return nil
		}
	}
}

func (i *Interp) execFor(n *ast.For, en *env.Environment) error {
	child := en.Push()
	if n.Init != nil {
		if err := i.exec(n.Init, child); err != nil {
			return err
		}
	}
	for {
		if i.Host.IsCancelled() {
			return &Exception{Kind: KindCancelled, Line: n.Line()}
		}
		if n.Condition != nil {
			cond, err := i.eval(n.Condition, child)
			if err != nil {
				return err
			}
			if !cond.Truthy() {
				return nil
			}
		}
		err := i.runLoopBody(n.Body, child)
		if _, ok := err.(breakSignal); ok {
			return nil
		}
		if _, ok := err.(continueSignal); err != nil && !ok {
			return err
		}
		if n.Post != nil {
			if err := i.exec(n.Post, child); err != nil {
				return err
			}
		}
	}
}

func (i *Interp) execForEach(n *ast.ForEach, en *env.Environment) error {
	coll, err := i.eval(n.Collection, en)
	if err != nil {
		return err
	}
	items, err := i.iterate(coll)
	if err != nil {
		return err
	}
	for _, item := range items {
		if i.Host.IsCancelled() {
			return &Exception{Kind: KindCancelled, Line: n.Line()}
		}
		child := en.Push()
		if err := child.Define(n.VarName, nil, item, false); err != nil {
			return err
		}
		lerr := i.execStatements(n.Body.Body, child)
		if _, ok := lerr.(breakSignal); ok {
			return nil
		}
		if _, ok := lerr.(continueSignal); ok {
			continue
		}
		if lerr != nil {
			return lerr
		}
	}
	return nil
}

// runLoopBody executes one iteration of a While/DoWhile/For body in a
// fresh child scope, returning break/continue signals unmodified so the
// caller's loop can interpret them.
func (i *Interp) runLoopBody(body *ast.BlockStatement, en *env.Environment) error {
	return i.execStatements(body.Body, en.Push())
}

func (i *Interp) execImport(n *ast.Import, en *env.Environment) error {
	if i.importedCanonical[n.Path] {
		return nil
	}
	if i.currentlyImporting[n.Path] {
		return fmt.Errorf("IOError: import cycle detected at %q", n.Path)
	}
	if i.Importer == nil {
		return errIOf("no importer configured to resolve %q", n.Path)
	}
	text, err := i.Importer.Read(n.Path)
	if err != nil {
		return errIOf("%v", err)
	}
	i.currentlyImporting[n.Path] = true
	defer delete(i.currentlyImporting, n.Path)

	l := lexer.New(text)
	buf := source.New(n.Path, text)
	p := parser.New(l, buf)
	p.Types = i.Types
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		return fmt.Errorf("ParseError: %s", strings.Join(errs, "; "))
	}
	if errs := parser.Bind(prog, i.builtinSignatures()); len(errs) > 0 {
		return fmt.Errorf("ParseError: %s", strings.Join(errsToStrings(errs), "; "))
	}
	for name, block := range prog.Blocks {
		i.Program.Blocks[name] = block
	}
	i.importedCanonical[n.Path] = true
	return i.execStatements(prog.Statements, en)
}

func errsToStrings(errs []error) []string {
	out := make([]string, len(errs))
	for k, e := range errs {
		out[k] = e.Error()
	}
	return out
}

// BuiltinSignatures exposes builtinSignatures for callers (cmd/ebs)
// that need to run parser.Bind themselves before the first Run, the
// same table this package's own re-parse paths (import, embedded
// builtin calls) already share.
func (i *Interp) BuiltinSignatures() map[string]parser.BuiltinSignature {
	return i.builtinSignatures()
}

// builtinSignatures lazily derives the parser.BuiltinSignature table
// from the live Builtin Registry, cached for every Bind call a runtime
// `import` or embedded builtin re-parse needs.
func (i *Interp) builtinSignatures() map[string]parser.BuiltinSignature {
	if i.builtinSigsCache != nil {
		return i.builtinSigsCache
	}
	sigs := make(map[string]parser.BuiltinSignature, len(i.Builtins.Names()))
	for _, name := range i.Builtins.Names() {
		info, _ := i.Builtins.Lookup(name)
		sigs[name] = parser.BuiltinSignature{
			Name:       info.Name,
			Params:     info.Params,
			ReturnType: info.ReturnType,
			Dynamic:    info.Dynamic,
		}
	}
	i.builtinSigsCache = sigs
	return sigs
}

// parseSingleCallSnippet reuses the full lexer/parser/binder pipeline to
// parse one embedded `#ns.name(args)` call (spec §4.8 extension 2),
// synthesized as a one-statement `print #call;` program so the existing
// CallExpr machinery evaluates it rather than a second hand-rolled
// parser.
func (i *Interp) parseSingleCallSnippet(call string) (*ast.Print, error) {
	src := "print #" + call + ";"
	l := lexer.New(src)
	buf := source.New("<embedded>", src)
	p := parser.New(l, buf)
	p.Types = i.Types
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, fmt.Errorf("ParseError: %s", strings.Join(errs, "; "))
	}
	if len(prog.Statements) != 1 {
		return nil, fmt.Errorf("ParseError: embedded call %q did not parse to one statement", call)
	}
	pr, ok := prog.Statements[0].(*ast.Print)
	if !ok {
		return nil, fmt.Errorf("ParseError: embedded call %q did not parse to a call", call)
	}
	if errs := parser.Bind(prog, i.builtinSignatures()); len(errs) > 0 {
		return nil, fmt.Errorf("ParseError: %s", strings.Join(errsToStrings(errs), "; "))
	}
	return pr, nil
}

func (i *Interp) execConnect(n *ast.Connect, en *env.Environment) error {
	specVal, err := i.eval(n.Spec, en)
	if err != nil {
		return err
	}
	var node *value.JsonNode
	if specVal.Kind == value.KindJson {
		node = specVal.Json()
	} else {
		node = valueToJSONNode(specVal)
	}
	conn, err := i.Host.OpenConnection(n.Name, node)
	if err != nil {
		return errDBf("%v", err)
	}
	id := uuid.NewString()
	i.connections[n.Name] = connEntry{Conn: conn, ID: id}
	i.Log.Debug("connection opened", "name", n.Name, "id", id)
	return nil
}

func (i *Interp) execUseConnection(n *ast.UseConnection, en *env.Environment) error {
	if _, ok := i.connections[n.Name]; !ok {
		return errDBf("connection %q is not open", n.Name)
	}
	i.connStack = append(i.connStack, n.Name)
	err := i.execStatements(n.Body.Body, en.Push())
	i.connStack = i.connStack[:len(i.connStack)-1]
	return err
}

func (i *Interp) execCloseConnection(n *ast.CloseConnection) error {
	entry, ok := i.connections[n.Name]
	if !ok {
		i.Log.Warn("close of a connection that is not open", "name", n.Name)
		return nil // closing an already-closed connection is a no-op apart from the warning (spec §4.5.1)
	}
	if err := entry.Conn.Close(); err != nil {
		i.Log.Warn("close connection failed", "name", n.Name, "id", entry.ID, "err", err)
	}
	if err := i.Host.CloseConnection(n.Name); err != nil {
		i.Log.Warn("host close connection failed", "name", n.Name, "id", entry.ID, "err", err)
	}
	i.Log.Debug("connection closed", "name", n.Name, "id", entry.ID)
	delete(i.connections, n.Name)
	return nil
}

// currentConnection resolves the innermost active `use` activation
// (spec §4.7: cursors and bare SELECT expressions run against it).
func (i *Interp) currentConnection() (host.Connection, error) {
	if len(i.connStack) == 0 {
		return nil, errDBf("no active connection")
	}
	name := i.connStack[len(i.connStack)-1]
	entry, ok := i.connections[name]
	if !ok {
		return nil, errDBf("connection %q is not open", name)
	}
	return entry.Conn, nil
}

func (i *Interp) execOpenCursor(n *ast.OpenCursor, en *env.Environment) error {
	cs, ok := i.cursors[n.Name]
	if !ok {
		return errDBf("cursor %q is not declared", n.Name)
	}
	if cs.Open {
		return errDBf("cursor %q is already open", n.Name)
	}
	conn, err := i.currentConnection()
	if err != nil {
		return err
	}
	args := make([]host.QueryArg, len(n.Args))
	for k, a := range n.Args {
		v, err := i.eval(a.Value, en)
		if err != nil {
			return err
		}
		args[k] = host.QueryArg{Name: a.Name, Value: v}
	}
	rows, err := conn.Query(cs.Decl.Query.Raw, args)
	if err != nil {
		return errDBf("%v", err)
	}
	cs.Rows = rows
	cs.Open = true
	cs.pendingValid = false
	cs.exhausted = false
	cs.pendingErr = nil
	cs.ID = uuid.NewString()
	i.Log.Debug("cursor opened", "name", n.Name, "id", cs.ID)
	return nil
}

func (i *Interp) execCloseCursor(n *ast.CloseCursor) error {
	cs, ok := i.cursors[n.Name]
	if !ok || !cs.Open {
		return nil // closing an already-closed cursor is a no-op
	}
	if err := cs.Rows.Close(); err != nil {
		i.Log.Warn("close cursor failed", "name", n.Name, "id", cs.ID, "err", err)
	}
	i.Log.Debug("cursor closed", "name", n.Name, "id", cs.ID)
	cs.Open = false
	return nil
}

func (i *Interp) execScreen(n *ast.Screen, en *env.Environment) error {
	specVal, err := i.eval(n.Spec, en)
	if err != nil {
		return err
	}
	var node *value.JsonNode
	if specVal.Kind == value.KindJson {
		node = specVal.Json()
	} else {
		node = valueToJSONNode(specVal)
	}
	return i.Host.DefineScreen(n.Name, node, n.Replace)
}

func (i *Interp) execShowScreen(n *ast.ShowScreen, en *env.Environment) error {
	args := make([]value.Value, len(n.Args))
	for k, a := range n.Args {
		v, err := i.eval(a, en)
		if err != nil {
			return err
		}
		args[k] = v
	}
	// A shown screen's completion callback has no AST-level binding to a
	// handler block (spec §9 Open Question: ShowScreen callback), so
	// richer Hosts wire their own convention outside the interpreter.
	return i.Host.ShowScreen(n.Name, args, nil)
}

func (i *Interp) execTry(n *ast.Try, en *env.Environment) error {
	err := i.execStatements(n.TryBlock, en.Push())
	if err == nil {
		return nil
	}
	if _, ok := err.(breakSignal); ok {
		return err
	}
	if _, ok := err.(continueSignal); ok {
		return err
	}
	if _, ok := err.(returnSignal); ok {
		return err
	}
	exc := classifyError(err, n.Line())
	return i.dispatchHandlers(exc, n.Handlers, en)
}

// dispatchHandlers implements handler matching (spec §7): the first
// handler in source order whose kind matches catches the exception and
// runs in its own scope with the error variable bound; a raise from
// inside a handler replaces the in-flight exception. An unmatched
// exception is returned unchanged so it keeps propagating.
func (i *Interp) dispatchHandlers(exc *Exception, handlers []ast.ExceptionHandler, en *env.Environment) error {
	for _, h := range handlers {
		if !matches(h.Kind, exc) {
			continue
		}
		child := en.Push()
		if h.Var != "" {
			if err := child.Define(h.Var, nil, exc.AsValue(i.Arena), false); err != nil {
				return err
			}
		}
		return i.execStatements(h.Body, child)
	}
	return exc
}

func (i *Interp) execRaise(n *ast.Raise, en *env.Environment) error {
	args := make([]value.Value, len(n.Args))
	for k, a := range n.Args {
		v, err := i.eval(a, en)
		if err != nil {
			return err
		}
		args[k] = v
	}
	exc, err := buildException(n.Kind, args, n.Line())
	if err != nil {
		return err
	}
	return exc
}

// evalCall resolves and invokes a block or builtin (spec §4.2 "Two-phase
// binding"): a call already resolved at bind time dispatches directly;
// an unresolved one (a forward reference a runtime `import` just
// satisfied) is retried against the live Program.Blocks/Builtins tables.
func (i *Interp) evalCall(name string, args []ast.Argument, resolvedBlock *ast.BlockStatement, resolvedBuiltin bool, resolvedBuiltinName string, line int, en *env.Environment) (value.Value, error) {
	if resolvedBlock != nil {
		return i.callBlock(resolvedBlock, args, line, en)
	}
	if resolvedBuiltin {
		bname := resolvedBuiltinName
		if bname == "" {
			bname = name
		}
		return i.callBuiltin(bname, args, en)
	}
	if block, ok := i.Program.Blocks[name]; ok {
		return i.callBlock(block, args, line, en)
	}
	if _, ok := i.Builtins.Lookup(name); ok {
		return i.callBuiltin(name, args, en)
	}
	return value.Null, errNamef("no such block or builtin %q", name)
}

// callBlock binds actuals to formals (spec §4.2.1), pushes a fresh call
// frame rooted at globals (blocks do not close over the caller's
// locals, spec §3.5), runs the body, and unwraps its return signal.
func (i *Interp) callBlock(block *ast.BlockStatement, args []ast.Argument, callLine int, callerEnv *env.Environment) (value.Value, error) {
	bound, err := parser.MatchParameters(block.Params, args)
	if err != nil {
		return value.Null, err
	}
	newEnv := i.Globals.Push()
	for k, formal := range block.Params {
		p := bound[k]
		formalType, err := i.resolveDeclType(formal.Type)
		if err != nil {
			return value.Null, err
		}
		var v value.Value
		if p.Default != nil {
			ev, err := i.eval(p.Default, callerEnv)
			if err != nil {
				return value.Null, err
			}
			v = ev
		} else {
			v = value.ZeroOf(i.Arena, formalType)
		}
		if formalType != nil {
			coerced, err := value.CoerceOnStore(v, env.KindOf(formalType))
			if err != nil {
				return value.Null, err
			}
			v = coerced
		}
		if err := newEnv.Define(formal.Name, formal.Type, v, false); err != nil {
			return value.Null, err
		}
	}

	i.callStack = append(i.callStack, frame{Name: block.Name, Line: callLine, Env: newEnv})
	defer func() { i.callStack = i.callStack[:len(i.callStack)-1] }()

	bodyErr := i.execStatements(block.Body, newEnv)

	if len(block.Handlers) > 0 {
		switch bodyErr.(type) {
		case nil, breakSignal, continueSignal, returnSignal:
			// no exception to dispatch
		default:
			exc := classifyError(bodyErr, callLine)
			bodyErr = i.dispatchHandlers(exc, block.Handlers, newEnv)
		}
	}

	if rs, ok := bodyErr.(returnSignal); ok {
		return rs.Value, nil
	}
	if bodyErr != nil {
		return value.Null, bodyErr
	}
	return value.Null, nil
}

// callBuiltin binds actuals to a builtin's formal signature the same
// way callBlock does for a user block, then invokes the registered
// native function (spec §4.5.2 "Call (expression)", §4.6).
func (i *Interp) callBuiltin(name string, args []ast.Argument, en *env.Environment) (value.Value, error) {
	info, ok := i.Builtins.Lookup(name)
	if !ok {
		return value.Null, errNamef("no such builtin %q", name)
	}

	var argVals []value.Value
	if info.Dynamic {
		argVals = make([]value.Value, len(args))
		for k, a := range args {
			if a.Name != "" {
				return value.Null, fmt.Errorf("ParseError: %q takes only positional arguments", name)
			}
			v, err := i.eval(a.Value, en)
			if err != nil {
				return value.Null, err
			}
			argVals[k] = v
		}
	} else {
		bound, err := parser.MatchParameters(info.Params, args)
		if err != nil {
			return value.Null, err
		}
		argVals = make([]value.Value, len(bound))
		for k, p := range bound {
			if p.Default == nil {
				argVals[k] = value.Null
				continue
			}
			v, err := i.eval(p.Default, en)
			if err != nil {
				return value.Null, err
			}
			argVals[k] = v
		}
	}

	ctx := &builtin.Context{Arena: i.Arena, Types: i.Types}
	return info.Invoke(ctx, argVals)
}

// assignLvalue writes to a Variable, Property, or Index target (spec
// §4.5.1 "Assign / IndexedAssign").
func (i *Interp) assignLvalue(target ast.Expression, v value.Value, en *env.Environment) error {
	switch t := target.(type) {
	case *ast.Variable:
		return en.Assign(t.Name, v)
	case *ast.Property:
		return i.assignProperty(t, v, en)
	case *ast.Index:
		return i.assignIndex(t, v, en)
	default:
		return errTypef("cannot assign to expression of type %T", target)
	}
}

func (i *Interp) assignProperty(t *ast.Property, v value.Value, en *env.Environment) error {
	if tv, ok := t.Target.(*ast.Variable); ok {
		if _, err := en.Get(tv.Name); err != nil {
			i.ScreenVars.Set(tv.Name, t.Field, v)
			return nil
		}
	}
	targetVal, err := i.eval(t.Target, en)
	if err != nil {
		return err
	}
	switch targetVal.Kind {
	case value.KindRecord:
		c := i.Arena.Get(targetVal.Handle())
		if _, ok := c.Fields[t.Field]; !ok {
			return errNamef("record %q has no field %q", c.RecordType, t.Field)
		}
		coerced := v
		if fieldType := i.recordFieldType(c, t.Field); fieldType != nil {
			cv, err := value.CoerceOnStore(v, env.KindOf(fieldType))
			if err != nil {
				return err
			}
			coerced = cv
		}
		c.Fields[t.Field] = coerced
		return nil
	case value.KindBitmap:
		c := i.Arena.Get(targetVal.Handle())
		spec, err := i.resolveNamedType(c.BitsType)
		if err != nil {
			return err
		}
		return value.SetBitmapField(c, spec, t.Field, v)
	case value.KindIntmap:
		c := i.Arena.Get(targetVal.Handle())
		spec, err := i.resolveNamedType(c.BitsType)
		if err != nil {
			return err
		}
		return value.SetIntmapField(c, spec, t.Field, v)
	default:
		return errTypef("cannot assign field %q of a %s", t.Field, targetVal.Kind)
	}
}

func (i *Interp) recordFieldType(c *value.Container, field string) *ast.TypeSpec {
	spec, ok := i.Types.Lookup(c.RecordType)
	if !ok {
		return nil
	}
	resolved, err := i.Types.Resolve(spec)
	if err != nil || !resolved.IsRecord {
		return nil
	}
	for _, f := range resolved.Fields {
		if f.Name == field {
			return f.Type
		}
	}
	return nil
}

func (i *Interp) resolveNamedType(name string) (*ast.TypeSpec, error) {
	spec, ok := i.Types.Lookup(name)
	if !ok {
		return nil, errNamef("undefined type alias %q", name)
	}
	resolved, err := i.Types.Resolve(spec)
	if err != nil {
		return nil, fmt.Errorf("TypeError: %w", err)
	}
	return resolved, nil
}

func (i *Interp) assignIndex(t *ast.Index, v value.Value, en *env.Environment) error {
	targetVal, err := i.eval(t.Target, en)
	if err != nil {
		return err
	}
	switch targetVal.Kind {
	case value.KindArray:
		c := i.Arena.Get(targetVal.Handle())
		idx, err := i.evalIntIndices(t.Indices, en)
		if err != nil {
			return err
		}
		off, err := value.Offset(c.Dims, idx)
		if err != nil {
			return err
		}
		coerced, err := i.coerceToElemType(v, c.ElemType)
		if err != nil {
			return err
		}
		c.Elements[off] = coerced
		return nil
	case value.KindMap:
		if len(t.Indices) != 1 {
			return errIndexf("map index expects 1 key, got %d", len(t.Indices))
		}
		key, err := i.evalMapKey(t.Indices[0], en)
		if err != nil {
			return err
		}
		c := i.Arena.Get(targetVal.Handle())
		coerced, err := i.coerceToElemType(v, c.ElemType)
		if err != nil {
			return err
		}
		if _, exists := c.Fields[key]; !exists {
			if c.Sorted {
				pos := sort.SearchStrings(c.Keys, key)
				c.Keys = append(c.Keys, "")
				copy(c.Keys[pos+1:], c.Keys[pos:])
				c.Keys[pos] = key
			} else {
				c.Keys = append(c.Keys, key)
			}
		}
		c.Fields[key] = coerced
		return nil
	case value.KindQueue:
		c := i.Arena.Get(targetVal.Handle())
		idx, err := i.evalIntIndices(t.Indices, en)
		if err != nil {
			return err
		}
		if len(idx) != 1 || idx[0] < 0 || idx[0] >= len(c.Elements) {
			return errIndexf("queue index out of bounds")
		}
		coerced, err := i.coerceToElemType(v, c.ElemType)
		if err != nil {
			return err
		}
		c.Elements[idx[0]] = coerced
		return nil
	default:
		return errTypef("cannot index-assign a %s", targetVal.Kind)
	}
}

// coerceToElemType coerces v to a container's declared element type
// name, resolving it through the Type Registry when it names an alias
// rather than a primitive; an empty elemType (no declared element type)
// stores v unchanged.
func (i *Interp) coerceToElemType(v value.Value, elemType string) (value.Value, error) {
	kind := i.kindForTypeName(elemType)
	if kind < 0 {
		return v, nil
	}
	return value.CoerceOnStore(v, kind)
}

func (i *Interp) kindForTypeName(name string) value.Kind {
	switch name {
	case "":
		return -1
	case "byte":
		return value.KindByte
	case "integer":
		return value.KindInteger
	case "long":
		return value.KindLong
	case "float":
		return value.KindFloat
	case "double":
		return value.KindDouble
	case "string":
		return value.KindString
	case "boolean":
		return value.KindBoolean
	case "date":
		return value.KindDate
	case "json":
		return value.KindJson
	}
	spec, ok := i.Types.Lookup(name)
	if !ok {
		return -1
	}
	resolved, err := i.Types.Resolve(spec)
	if err != nil {
		return -1
	}
	return env.KindOf(resolved)
}

// stringify renders a value for `print`, resolving containers through
// the arena the way value.Value.Display cannot on its own.
func (i *Interp) stringify(v value.Value) string {
	switch v.Kind {
	case value.KindArray, value.KindQueue:
		c := i.Arena.Get(v.Handle())
		parts := make([]string, len(c.Elements))
		for k, e := range c.Elements {
			parts[k] = i.stringify(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case value.KindRecord:
		c := i.Arena.Get(v.Handle())
		parts := make([]string, 0, len(c.Fields))
		for _, k := range i.recordFieldOrder(c) {
			parts = append(parts, k+": "+i.stringify(c.Fields[k]))
		}
		return c.RecordType + "{" + strings.Join(parts, ", ") + "}"
	case value.KindMap:
		c := i.Arena.Get(v.Handle())
		parts := make([]string, len(c.Keys))
		for k, key := range c.Keys {
			parts[k] = key + ": " + i.stringify(c.Fields[key])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case value.KindJson:
		return v.Json().String()
	default:
		return v.Display()
	}
}

func (i *Interp) recordFieldOrder(c *value.Container) []string {
	if spec, ok := i.Types.Lookup(c.RecordType); ok {
		if resolved, err := i.Types.Resolve(spec); err == nil && resolved.IsRecord {
			names := make([]string, len(resolved.Fields))
			for k, f := range resolved.Fields {
				names[k] = f.Name
			}
			return names
		}
	}
	names := make([]string, 0, len(c.Fields))
	for k := range c.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
