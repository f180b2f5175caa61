// Package compiler transforms Python source into bytecode for the adder
// virtual machine. The supported language is a Python subset: functions,
// conditionals, while and for loops, lists, dicts, strings, and arithmetic.
//
// Compilation is a single pass over the AST produced by the gpython parser.
// Each compiled instruction records the source location it came from, which
// is what makes line level stepping and disassembly annotation possible.
package compiler

import (
	"strings"

	"github.com/go-python/gpython/ast"
	"github.com/go-python/gpython/parser"
	"github.com/go-python/gpython/py"

	"github.com/adder-lang/adder/errz"
	"github.com/adder-lang/adder/op"
)

// Compiler compiles a parsed module into a Code object. Create one with New
// and then call Compile once. Zero value is not usable.
type Compiler struct {
	main     *Code
	current  *Code
	filename string
	envKeys  []string
	loc      errz.SourceLocation
}

// Option is a configuration function for a Compiler.
type Option func(*Compiler)

// WithFilename sets the filename reported in error locations and stored on
// the compiled code.
func WithFilename(name string) Option {
	return func(c *Compiler) {
		c.filename = name
	}
}

// WithGlobalNames reserves global slots for names that the runtime
// environment will provide, such as builtin functions. These names resolve
// as globals during compilation and are recorded as env keys on the
// resulting code.
func WithGlobalNames(names []string) Option {
	return func(c *Compiler) {
		c.envKeys = append(c.envKeys, names...)
	}
}

// New creates a Compiler with the given options.
func New(opts ...Option) *Compiler {
	c := &Compiler{filename: "<string>"}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile parses and compiles Python source in one call.
func Compile(source string, opts ...Option) (*Code, error) {
	return New(opts...).Compile(source)
}

// Compile compiles the given source into an executable Code object.
func (c *Compiler) Compile(source string) (*Code, error) {
	mod, err := parser.Parse(strings.NewReader(source), c.filename, py.ExecMode)
	if err != nil {
		return nil, errz.SyntaxErrorf("invalid syntax: %v", err).
			WithLocation(errz.SourceLocation{Filename: c.filename})
	}
	module, ok := mod.(*ast.Module)
	if !ok {
		return nil, errz.SyntaxErrorf("expected a module, got %T", mod)
	}
	c.main = &Code{
		id:       "main",
		name:     "<module>",
		symbols:  NewSymbolTable(),
		source:   source,
		filename: c.filename,
	}
	c.current = c.main
	for _, key := range c.envKeys {
		c.main.symbols.Define(key)
		c.main.envKeys = append(c.main.envKeys, key)
	}
	for _, stmt := range module.Body {
		if err := c.compileStmt(stmt); err != nil {
			return nil, err
		}
	}
	// The trailing halt carries no location so it never registers as a step
	c.loc = errz.SourceLocation{}
	c.emit(op.Halt)
	return c.main, nil
}

// stmtLoc captures the source location of a statement so that every
// instruction it compiles to maps back to that line.
func (c *Compiler) stmtLoc(node ast.Ast) {
	line := node.GetLineno()
	c.loc = errz.SourceLocation{
		Filename: c.filename,
		Line:     line,
		Column:   node.GetColOffset(),
		Source:   c.main.GetSourceLine(line),
	}
}

func (c *Compiler) emit(opcode op.Code, operands ...op.Code) int {
	pos := len(c.current.instructions)
	c.current.instructions = append(c.current.instructions, opcode)
	c.current.instructions = append(c.current.instructions, operands...)
	for i := 0; i < 1+len(operands); i++ {
		c.current.locations = append(c.current.locations, c.loc)
	}
	return pos
}

// patchJump rewrites the operand of the jump instruction at pos to point at
// the current instruction position.
func (c *Compiler) patchJump(pos int) {
	c.current.instructions[pos+1] = op.Code(len(c.current.instructions))
}

func (c *Compiler) constant(value any) uint16 {
	for i, existing := range c.current.constants {
		if existing == value {
			return uint16(i)
		}
	}
	c.current.constants = append(c.current.constants, value)
	return uint16(len(c.current.constants) - 1)
}

func (c *Compiler) syntaxErrorf(node ast.Ast, format string, args ...any) error {
	line := node.GetLineno()
	return errz.SyntaxErrorf(format, args...).WithLocation(errz.SourceLocation{
		Filename: c.filename,
		Line:     line,
		Column:   node.GetColOffset(),
		Source:   c.main.GetSourceLine(line),
	})
}

func (c *Compiler) compileStmt(stmt ast.Stmt) error {
	c.stmtLoc(stmt)
	switch s := stmt.(type) {
	case *ast.Assign:
		return c.compileAssign(s)
	case *ast.AugAssign:
		return c.compileAugAssign(s)
	case *ast.ExprStmt:
		if err := c.compileExpr(s.Value); err != nil {
			return err
		}
		c.emit(op.PopTop)
		return nil
	case *ast.If:
		return c.compileIf(s)
	case *ast.While:
		return c.compileWhile(s)
	case *ast.For:
		return c.compileFor(s)
	case *ast.Break:
		return c.compileBreak(s)
	case *ast.Continue:
		return c.compileContinue(s)
	case *ast.FunctionDef:
		return c.compileFunctionDef(s)
	case *ast.Return:
		return c.compileReturn(s)
	case *ast.Pass:
		c.emit(op.Nop)
		return nil
	case *ast.ClassDef:
		return c.syntaxErrorf(s, "class definitions are not supported")
	case *ast.Import, *ast.ImportFrom:
		return c.syntaxErrorf(stmt, "imports are not supported")
	case *ast.Try:
		return c.syntaxErrorf(s, "try statements are not supported")
	case *ast.With:
		return c.syntaxErrorf(s, "with statements are not supported")
	case *ast.Global:
		// Module level variables are already globals everywhere, so a
		// global declaration only matters for assignment inside functions.
		for _, name := range s.Names {
			c.current.symbols.Root().Define(string(name))
		}
		return nil
	default:
		return c.syntaxErrorf(stmt, "unsupported statement: %T", stmt)
	}
}

func (c *Compiler) compileAssign(s *ast.Assign) error {
	if len(s.Targets) != 1 {
		return c.syntaxErrorf(s, "chained assignment is not supported")
	}
	switch target := s.Targets[0].(type) {
	case *ast.Name:
		if err := c.compileExpr(s.Value); err != nil {
			return err
		}
		c.compileStore(string(target.Id))
		return nil
	case *ast.Tuple:
		return c.compileUnpack(s, target, s.Value)
	case *ast.Subscript:
		if err := c.compileExpr(target.Value); err != nil {
			return err
		}
		index, ok := target.Slice.(*ast.Index)
		if !ok {
			return c.syntaxErrorf(s, "cannot assign to a slice")
		}
		if err := c.compileExpr(index.Value); err != nil {
			return err
		}
		if err := c.compileExpr(s.Value); err != nil {
			return err
		}
		c.emit(op.StoreSubscr)
		return nil
	default:
		return c.syntaxErrorf(s, "cannot assign to %T", target)
	}
}

// compileUnpack compiles "a, b = expr" by storing the right hand side in a
// hidden temporary and indexing it per target. The temporary uses a dunder
// name so it stays out of variable snapshots.
func (c *Compiler) compileUnpack(s ast.Stmt, target *ast.Tuple, value ast.Expr) error {
	if err := c.compileExpr(value); err != nil {
		return err
	}
	const tmp = "__unpack"
	c.compileStore(tmp)
	for i, elt := range target.Elts {
		name, ok := elt.(*ast.Name)
		if !ok {
			return c.syntaxErrorf(s, "cannot unpack into %T", elt)
		}
		c.compileLoad(tmp)
		c.emit(op.LoadConst, op.Code(c.constant(int64(i))))
		c.emit(op.BinarySubscr)
		c.compileStore(string(name.Id))
	}
	return nil
}

func (c *Compiler) compileAugAssign(s *ast.AugAssign) error {
	target, ok := s.Target.(*ast.Name)
	if !ok {
		return c.syntaxErrorf(s, "augmented assignment target must be a name")
	}
	binType, ok := binaryOpType(s.Op)
	if !ok {
		return c.syntaxErrorf(s, "unsupported augmented assignment operator")
	}
	c.compileLoad(string(target.Id))
	if err := c.compileExpr(s.Value); err != nil {
		return err
	}
	c.emit(op.BinaryOp, op.Code(binType))
	c.compileStore(string(target.Id))
	return nil
}

func (c *Compiler) compileIf(s *ast.If) error {
	if err := c.compileExpr(s.Test); err != nil {
		return err
	}
	jumpElse := c.emit(op.PopJumpIfFalse, 0)
	for _, stmt := range s.Body {
		if err := c.compileStmt(stmt); err != nil {
			return err
		}
	}
	if len(s.Orelse) == 0 {
		c.patchJump(jumpElse)
		return nil
	}
	jumpEnd := c.emit(op.Jump, 0)
	c.patchJump(jumpElse)
	for _, stmt := range s.Orelse {
		if err := c.compileStmt(stmt); err != nil {
			return err
		}
	}
	c.patchJump(jumpEnd)
	return nil
}

func (c *Compiler) compileWhile(s *ast.While) error {
	start := len(c.current.instructions)
	c.current.loops = append(c.current.loops, &loop{start: start})
	if err := c.compileExpr(s.Test); err != nil {
		return err
	}
	jumpEnd := c.emit(op.PopJumpIfFalse, 0)
	for _, stmt := range s.Body {
		if err := c.compileStmt(stmt); err != nil {
			return err
		}
	}
	c.emit(op.Jump, op.Code(start))
	c.patchJump(jumpEnd)
	c.finishLoop()
	return nil
}

func (c *Compiler) compileFor(s *ast.For) error {
	if len(s.Orelse) > 0 {
		return c.syntaxErrorf(s, "for-else is not supported")
	}
	if err := c.compileExpr(s.Iter); err != nil {
		return err
	}
	c.emit(op.GetIter)
	start := len(c.current.instructions)
	c.current.loops = append(c.current.loops, &loop{start: start})
	jumpEnd := c.emit(op.ForIter, 0)
	switch target := s.Target.(type) {
	case *ast.Name:
		c.compileStore(string(target.Id))
	case *ast.Tuple:
		const tmp = "__iter_unpack"
		c.compileStore(tmp)
		for i, elt := range target.Elts {
			name, ok := elt.(*ast.Name)
			if !ok {
				return c.syntaxErrorf(s, "cannot unpack into %T", elt)
			}
			c.compileLoad(tmp)
			c.emit(op.LoadConst, op.Code(c.constant(int64(i))))
			c.emit(op.BinarySubscr)
			c.compileStore(string(name.Id))
		}
	default:
		return c.syntaxErrorf(s, "unsupported loop target: %T", s.Target)
	}
	for _, stmt := range s.Body {
		if err := c.compileStmt(stmt); err != nil {
			return err
		}
	}
	c.emit(op.Jump, op.Code(start))
	c.patchJump(jumpEnd)
	c.finishLoop()
	return nil
}

// finishLoop patches pending break jumps to the current position, which is
// just past the loop, and pops the loop context.
func (c *Compiler) finishLoop() {
	ctx := c.current.loops[len(c.current.loops)-1]
	for _, pos := range ctx.breakPos {
		c.patchJump(pos)
	}
	c.current.loops = c.current.loops[:len(c.current.loops)-1]
}

func (c *Compiler) compileBreak(s *ast.Break) error {
	if len(c.current.loops) == 0 {
		return c.syntaxErrorf(s, "'break' outside loop")
	}
	ctx := c.current.loops[len(c.current.loops)-1]
	ctx.breakPos = append(ctx.breakPos, c.emit(op.Jump, 0))
	return nil
}

func (c *Compiler) compileContinue(s *ast.Continue) error {
	if len(c.current.loops) == 0 {
		return c.syntaxErrorf(s, "'continue' not properly in loop")
	}
	ctx := c.current.loops[len(c.current.loops)-1]
	c.emit(op.Jump, op.Code(ctx.start))
	return nil
}

func (c *Compiler) compileFunctionDef(s *ast.FunctionDef) error {
	if len(s.DecoratorList) > 0 {
		return c.syntaxErrorf(s, "decorators are not supported")
	}
	if len(s.Args.Defaults) > 0 || len(s.Args.KwDefaults) > 0 ||
		s.Args.Vararg != nil || s.Args.Kwarg != nil {
		return c.syntaxErrorf(s, "only plain positional parameters are supported")
	}
	name := string(s.Name)
	params := make([]string, 0, len(s.Args.Args))
	for _, arg := range s.Args.Args {
		params = append(params, string(arg.Arg))
	}

	parent := c.current
	c.current = parent.newChild(name)
	declaredGlobal := map[string]bool{}
	for _, declared := range globalDeclarations(s.Body) {
		declaredGlobal[declared] = true
		c.current.symbols.Root().Define(declared)
	}
	for _, param := range params {
		if declaredGlobal[param] {
			return c.syntaxErrorf(s, "name '%s' is parameter and global", param)
		}
		c.current.symbols.Define(param)
	}
	// Python scoping: any name assigned anywhere in the body is a local for
	// the whole body, unless declared global, so collect them up front.
	for _, assigned := range assignedNames(s.Body) {
		if declaredGlobal[assigned] {
			continue
		}
		c.current.symbols.Define(assigned)
	}
	for _, stmt := range s.Body {
		if err := c.compileStmt(stmt); err != nil {
			return err
		}
	}
	// The implicit return carries no location so falling off the end of a
	// function does not register as a step back at the def line
	c.loc = errz.SourceLocation{}
	c.emit(op.Nil)
	c.emit(op.ReturnValue)
	code := c.current
	c.current = parent
	c.stmtLoc(s)

	fn := &Function{name: name, parameters: params, code: code}
	c.current.constants = append(c.current.constants, fn)
	c.emit(op.LoadConst, op.Code(len(c.current.constants)-1))
	c.compileStore(name)
	return nil
}

func (c *Compiler) compileReturn(s *ast.Return) error {
	if c.current.IsRoot() {
		return c.syntaxErrorf(s, "'return' outside function")
	}
	if s.Value != nil {
		if err := c.compileExpr(s.Value); err != nil {
			return err
		}
	} else {
		c.emit(op.Nil)
	}
	c.emit(op.ReturnValue)
	return nil
}

// compileStore emits a store for the given name, defining it in the current
// scope if needed.
func (c *Compiler) compileStore(name string) {
	if c.current.symbols.IsRoot() {
		sym := c.current.symbols.Define(name)
		c.emit(op.StoreGlobal, op.Code(sym.Index()))
		return
	}
	if res, ok := c.current.symbols.Lookup(name); ok && res.Global {
		// Declared global inside this function
		c.emit(op.StoreGlobal, op.Code(res.Symbol.Index()))
		return
	}
	sym := c.current.symbols.Define(name)
	c.emit(op.StoreFast, op.Code(sym.Index()))
}

// compileLoad emits a load for the given name. A name that resolves nowhere
// is given a global slot anyway: the VM raises a NameError if the slot is
// still empty when the load runs, which matches Python's late binding.
func (c *Compiler) compileLoad(name string) {
	if res, ok := c.current.symbols.Lookup(name); ok {
		if res.Global {
			c.emit(op.LoadGlobal, op.Code(res.Symbol.Index()))
		} else {
			c.emit(op.LoadFast, op.Code(res.Symbol.Index()))
		}
		return
	}
	sym := c.current.symbols.Root().Define(name)
	c.emit(op.LoadGlobal, op.Code(sym.Index()))
}

func (c *Compiler) compileExpr(expr ast.Expr) error {
	switch e := expr.(type) {
	case *ast.Num:
		return c.compileNum(e)
	case *ast.Str:
		c.emit(op.LoadConst, op.Code(c.constant(string(e.S))))
		return nil
	case *ast.NameConstant:
		switch e.Value {
		case py.True:
			c.emit(op.True)
		case py.False:
			c.emit(op.False)
		case py.None:
			c.emit(op.Nil)
		default:
			return c.syntaxErrorf(e, "unsupported constant: %v", e.Value)
		}
		return nil
	case *ast.Name:
		c.compileLoad(string(e.Id))
		return nil
	case *ast.BinOp:
		return c.compileBinOp(e)
	case *ast.BoolOp:
		return c.compileBoolOp(e)
	case *ast.Compare:
		return c.compileCompare(e)
	case *ast.UnaryOp:
		return c.compileUnaryOp(e)
	case *ast.Call:
		return c.compileCall(e)
	case *ast.List:
		return c.compileSequence(e.Elts)
	case *ast.Tuple:
		// Tuples behave as lists in this subset
		return c.compileSequence(e.Elts)
	case *ast.Dict:
		return c.compileDict(e)
	case *ast.Attribute:
		if err := c.compileExpr(e.Value); err != nil {
			return err
		}
		c.emit(op.LoadAttr, op.Code(c.current.addName(string(e.Attr))))
		return nil
	case *ast.Subscript:
		return c.compileSubscript(e)
	case *ast.IfExp:
		return c.compileIfExp(e)
	case *ast.Lambda:
		return c.syntaxErrorf(e, "lambda expressions are not supported")
	case *ast.ListComp, *ast.DictComp, *ast.SetComp, *ast.GeneratorExp:
		return c.syntaxErrorf(expr, "comprehensions are not supported")
	default:
		return c.syntaxErrorf(expr, "unsupported expression: %T", expr)
	}
}

func (c *Compiler) compileNum(e *ast.Num) error {
	switch n := e.N.(type) {
	case py.Int:
		c.emit(op.LoadConst, op.Code(c.constant(int64(n))))
		return nil
	case py.Float:
		c.emit(op.LoadConst, op.Code(c.constant(float64(n))))
		return nil
	}
	return c.syntaxErrorf(e, "unsupported number literal: %v", e.N)
}

func (c *Compiler) compileBinOp(e *ast.BinOp) error {
	binType, ok := binaryOpType(e.Op)
	if !ok {
		return c.syntaxErrorf(e, "unsupported binary operator")
	}
	if err := c.compileExpr(e.Left); err != nil {
		return err
	}
	if err := c.compileExpr(e.Right); err != nil {
		return err
	}
	c.emit(op.BinaryOp, op.Code(binType))
	return nil
}

func binaryOpType(astOp ast.OperatorNumber) (op.BinaryOpType, bool) {
	switch astOp {
	case ast.Add:
		return op.Add, true
	case ast.Sub:
		return op.Subtract, true
	case ast.Mult:
		return op.Multiply, true
	case ast.Div:
		return op.Divide, true
	case ast.FloorDiv:
		return op.FloorDiv, true
	case ast.Modulo:
		return op.Modulo, true
	case ast.Pow:
		return op.Power, true
	case ast.LShift:
		return op.LShift, true
	case ast.RShift:
		return op.RShift, true
	case ast.BitAnd:
		return op.BitwiseAnd, true
	case ast.BitOr:
		return op.BitwiseOr, true
	case ast.BitXor:
		return op.BitwiseXor, true
	default:
		return 0, false
	}
}

// compileBoolOp compiles "and"/"or" with short circuit jumps: each operand
// but the last either decides the result or is popped.
func (c *Compiler) compileBoolOp(e *ast.BoolOp) error {
	jumpOp := op.JumpIfFalseOrPop
	if e.Op == ast.Or {
		jumpOp = op.JumpIfTrueOrPop
	}
	var pending []int
	for i, value := range e.Values {
		if err := c.compileExpr(value); err != nil {
			return err
		}
		if i < len(e.Values)-1 {
			pending = append(pending, c.emit(jumpOp, 0))
		}
	}
	for _, pos := range pending {
		c.patchJump(pos)
	}
	return nil
}

func (c *Compiler) compileCompare(e *ast.Compare) error {
	if len(e.Ops) != 1 {
		return c.syntaxErrorf(e, "chained comparisons are not supported")
	}
	if err := c.compileExpr(e.Left); err != nil {
		return err
	}
	if err := c.compileExpr(e.Comparators[0]); err != nil {
		return err
	}
	switch e.Ops[0] {
	case ast.Eq, ast.Is:
		c.emit(op.CompareOp, op.Code(op.Equal))
	case ast.NotEq, ast.IsNot:
		c.emit(op.CompareOp, op.Code(op.NotEqual))
	case ast.Lt:
		c.emit(op.CompareOp, op.Code(op.LessThan))
	case ast.LtE:
		c.emit(op.CompareOp, op.Code(op.LessThanOrEqual))
	case ast.Gt:
		c.emit(op.CompareOp, op.Code(op.GreaterThan))
	case ast.GtE:
		c.emit(op.CompareOp, op.Code(op.GreaterThanOrEqual))
	case ast.In:
		c.emit(op.ContainsOp, 0)
	case ast.NotIn:
		c.emit(op.ContainsOp, 1)
	default:
		return c.syntaxErrorf(e, "unsupported comparison operator")
	}
	return nil
}

func (c *Compiler) compileUnaryOp(e *ast.UnaryOp) error {
	if err := c.compileExpr(e.Operand); err != nil {
		return err
	}
	switch e.Op {
	case ast.USub:
		c.emit(op.UnaryNegative)
	case ast.UAdd:
		// no-op
	case ast.Not:
		c.emit(op.UnaryNot)
	default:
		return c.syntaxErrorf(e, "unsupported unary operator")
	}
	return nil
}

func (c *Compiler) compileCall(e *ast.Call) error {
	if len(e.Keywords) > 0 {
		return c.syntaxErrorf(e, "keyword arguments are not supported")
	}
	if err := c.compileExpr(e.Func); err != nil {
		return err
	}
	for _, arg := range e.Args {
		if err := c.compileExpr(arg); err != nil {
			return err
		}
	}
	c.emit(op.Call, op.Code(len(e.Args)))
	return nil
}

func (c *Compiler) compileSequence(elts []ast.Expr) error {
	for _, elt := range elts {
		if err := c.compileExpr(elt); err != nil {
			return err
		}
	}
	c.emit(op.BuildList, op.Code(len(elts)))
	return nil
}

func (c *Compiler) compileDict(e *ast.Dict) error {
	for i := range e.Keys {
		if e.Keys[i] == nil {
			return c.syntaxErrorf(e, "dict unpacking is not supported")
		}
		if err := c.compileExpr(e.Keys[i]); err != nil {
			return err
		}
		if err := c.compileExpr(e.Values[i]); err != nil {
			return err
		}
	}
	c.emit(op.BuildMap, op.Code(len(e.Keys)))
	return nil
}

func (c *Compiler) compileSubscript(e *ast.Subscript) error {
	if err := c.compileExpr(e.Value); err != nil {
		return err
	}
	switch sl := e.Slice.(type) {
	case *ast.Index:
		if err := c.compileExpr(sl.Value); err != nil {
			return err
		}
		c.emit(op.BinarySubscr)
		return nil
	case *ast.Slice:
		if sl.Step != nil {
			return c.syntaxErrorf(e, "slice step is not supported")
		}
		if sl.Lower != nil {
			if err := c.compileExpr(sl.Lower); err != nil {
				return err
			}
		} else {
			c.emit(op.Nil)
		}
		if sl.Upper != nil {
			if err := c.compileExpr(sl.Upper); err != nil {
				return err
			}
		} else {
			c.emit(op.Nil)
		}
		c.emit(op.Slice)
		return nil
	default:
		return c.syntaxErrorf(e, "unsupported subscript: %T", e.Slice)
	}
}

// compileIfExp compiles "a if cond else b".
func (c *Compiler) compileIfExp(e *ast.IfExp) error {
	if err := c.compileExpr(e.Test); err != nil {
		return err
	}
	jumpElse := c.emit(op.PopJumpIfFalse, 0)
	if err := c.compileExpr(e.Body); err != nil {
		return err
	}
	jumpEnd := c.emit(op.Jump, 0)
	c.patchJump(jumpElse)
	if err := c.compileExpr(e.Orelse); err != nil {
		return err
	}
	c.patchJump(jumpEnd)
	return nil
}

// globalDeclarations collects the names declared global anywhere in a
// statement list, in first-appearance order. Nested function bodies are
// not entered; their declarations belong to their own scopes.
func globalDeclarations(body []ast.Stmt) []string {
	var names []string
	seen := map[string]bool{}
	var walk func(stmts []ast.Stmt)
	walk = func(stmts []ast.Stmt) {
		for _, stmt := range stmts {
			switch s := stmt.(type) {
			case *ast.Global:
				for _, name := range s.Names {
					if !seen[string(name)] {
						seen[string(name)] = true
						names = append(names, string(name))
					}
				}
			case *ast.For:
				walk(s.Body)
			case *ast.While:
				walk(s.Body)
			case *ast.If:
				walk(s.Body)
				walk(s.Orelse)
			}
		}
	}
	walk(body)
	return names
}

// assignedNames collects names bound by assignment anywhere in a statement
// list, including inside nested blocks. Used to decide function locals.
func assignedNames(body []ast.Stmt) []string {
	var names []string
	seen := map[string]bool{}
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	var walkTarget func(expr ast.Expr)
	walkTarget = func(expr ast.Expr) {
		switch t := expr.(type) {
		case *ast.Name:
			add(string(t.Id))
		case *ast.Tuple:
			for _, elt := range t.Elts {
				walkTarget(elt)
			}
		}
	}
	var walk func(stmts []ast.Stmt)
	walk = func(stmts []ast.Stmt) {
		for _, stmt := range stmts {
			switch s := stmt.(type) {
			case *ast.Assign:
				for _, target := range s.Targets {
					walkTarget(target)
				}
			case *ast.AugAssign:
				walkTarget(s.Target)
			case *ast.For:
				walkTarget(s.Target)
				walk(s.Body)
			case *ast.While:
				walk(s.Body)
			case *ast.If:
				walk(s.Body)
				walk(s.Orelse)
			case *ast.FunctionDef:
				add(string(s.Name))
			}
		}
	}
	walk(body)
	return names
}
