// Package check is the inference engine of spec §4.5: it walks the
// untyped tree, builds the typed tree, and emits equality constraints
// into a shared Constraints store. It never imports the module driver
// package; ModuleView is the seam that lets the driver hand this package
// just enough of itself (the untyped/typed maps, an in-progress marker)
// to resolve forward references among top-level definitions without a
// import cycle.
package check

import (
	"github.com/sunholo/neuronc/internal/ast"
	"github.com/sunholo/neuronc/internal/builtins"
	"github.com/sunholo/neuronc/internal/compileerrs"
	"github.com/sunholo/neuronc/internal/intern"
	"github.com/sunholo/neuronc/internal/scope"
	"github.com/sunholo/neuronc/internal/source"
	"github.com/sunholo/neuronc/internal/typedast"
	"github.com/sunholo/neuronc/internal/types"
)

// ModuleView is the module driver's self-interface (spec §3 Module:
// untyped, typed, and the in-progress bookkeeping §4.7 needs to report
// RecursiveValue).
type ModuleView interface {
	Untyped(name intern.Handle) (ast.Expr, bool)
	Typed(name intern.Handle) (typedast.TypedNode, bool)
	SetTyped(name intern.Handle, node typedast.TypedNode)
	InProgress(name intern.Handle) bool
	MarkInProgress(name intern.Handle)
	UnmarkInProgress(name intern.Handle)
}

// Checker carries everything inferExpr needs across one module's worth
// of top-level inference: the shared scope stack, the constraint store,
// the builtins table, the error collector, and the module view used to
// resolve forward top-level references.
type Checker struct {
	Scope       *scope.Scope
	Constraints *types.Constraints
	Builtins    *builtins.Table
	Collector   *compileerrs.Collector
	View        ModuleView
}

// New builds a Checker. Scope must already have its global frame pushed
// (scope.New does this).
func New(sc *scope.Scope, cs *types.Constraints, bt *builtins.Table, coll *compileerrs.Collector, view ModuleView) *Checker {
	return &Checker{Scope: sc, Constraints: cs, Builtins: bt, Collector: coll, View: view}
}

// abortInference unwinds inferExpr back to Infer when a local error makes
// continuing within this top-level pointless (spec §7: "aborts the
// current top-level's inference... the driver continues with the next
// export").
type abortInference struct{}

func (c *Checker) fail(err error) typedast.TypedNode {
	c.Collector.Add(err)
	panic(abortInference{})
}

func (c *Checker) failBinding(err error) scope.Binding {
	c.Collector.Add(err)
	panic(abortInference{})
}

// Infer implements spec §4.5's entry point. It is memoized via
// View.Typed and safe to call repeatedly or reentrantly for the same
// name: a self-reference while already in progress resolves through the
// pre-bound global binding inserted below, and is only flagged as
// RecursiveValue when the top-level value being defined is not itself a
// function literal (spec §4.7, §9).
func (c *Checker) Infer(name intern.Handle) {
	if _, ok := c.View.Typed(name); ok {
		return
	}
	if c.View.InProgress(name) {
		untyped, _ := c.View.Untyped(name)
		if _, isFunc := untyped.(*ast.Function); !isFunc {
			c.Collector.Add(&compileerrs.RecursiveValue{Name: name})
		}
		return
	}

	untyped, ok := c.View.Untyped(name)
	if !ok {
		return
	}

	c.View.MarkInProgress(name)
	defer c.View.UnmarkInProgress(name)

	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(abortInference); ok {
				return
			}
			panic(r)
		}
	}()

	fresh := c.Constraints.Fresh()
	c.Scope.Global()[name] = scope.Binding{Type: fresh, Global: true, Mutable: false}

	value := c.inferExpr(untyped)
	c.Constraints.Equate(fresh, value.MonoType(), untyped.Span())
	c.View.SetTyped(name, value)
}

// resolveSymbol looks up name, triggering Infer first when name is a
// known top-level definition not yet in scope (a forward reference).
// Purely local names (parameters, define bindings) skip Infer entirely,
// since they are never present in the untyped top-level map.
func (c *Checker) resolveSymbol(name intern.Handle, sp source.Span) scope.Binding {
	if _, isTopLevel := c.View.Untyped(name); isTopLevel {
		c.Infer(name)
	}
	if b, ok := c.Scope.Lookup(name); ok {
		return b
	}
	return c.failBinding(&compileerrs.UnknownSymbol{Name: name, Sp: sp})
}

// inferExpr dispatches on the untyped node's concrete kind, implementing
// each rule of spec §4.5.
func (c *Checker) inferExpr(e ast.Expr) typedast.TypedNode {
	switch n := e.(type) {
	case *ast.Int:
		return &typedast.Int{TypedExpr: typedast.TypedExpr{Sp: n.Sp, Type: c.Constraints.FreshWithOrigin(types.OriginInt)}, Text: n.Text}

	case *ast.Float:
		return &typedast.Float{TypedExpr: typedast.TypedExpr{Sp: n.Sp, Type: c.Constraints.FreshWithOrigin(types.OriginFloat)}, Text: n.Text}

	case *ast.Bool:
		return &typedast.Bool{TypedExpr: typedast.TypedExpr{Sp: n.Sp, Type: types.Bool}, Value: n.Value}

	case *ast.String:
		return &typedast.String{TypedExpr: typedast.TypedExpr{Sp: n.Sp, Type: types.String}, Text: n.Text}

	case *ast.Symbol:
		b := c.resolveSymbol(n.Name, n.Sp)
		return &typedast.Symbol{TypedExpr: typedast.TypedExpr{Sp: n.Sp, Type: b.Type}, Name: n.Name, Global: b.Global}

	case *ast.Define:
		value := c.inferExpr(n.Value)
		c.Scope.Insert(n.Name, scope.Binding{Type: value.MonoType(), Global: false, Mutable: n.Mutable})
		return &typedast.Define{TypedExpr: typedast.TypedExpr{Sp: n.Sp, Type: types.Void}, Name: n.Name, Value: value, Mutable: n.Mutable}

	case *ast.Drop:
		value := c.inferExpr(n.Value)
		return &typedast.Drop{TypedExpr: typedast.TypedExpr{Sp: n.Sp, Type: types.Void}, Value: value}

	case *ast.PlusEqual:
		b, ok := c.Scope.Lookup(n.Name)
		if !ok {
			return c.fail(&compileerrs.UnknownSymbol{Name: n.Name, Sp: n.Sp})
		}
		if !b.Mutable {
			return c.fail(&compileerrs.AssignToImmutable{Name: n.Name, Sp: n.Sp})
		}
		value := c.inferExpr(n.Value)
		c.Constraints.Equate(b.Type, value.MonoType(), n.Sp)
		return &typedast.PlusEqual{TypedExpr: typedast.TypedExpr{Sp: n.Sp, Type: types.Void}, Name: n.Name, Value: value}

	case *ast.TimesEqual:
		b, ok := c.Scope.Lookup(n.Name)
		if !ok {
			return c.fail(&compileerrs.UnknownSymbol{Name: n.Name, Sp: n.Sp})
		}
		if !b.Mutable {
			return c.fail(&compileerrs.AssignToImmutable{Name: n.Name, Sp: n.Sp})
		}
		value := c.inferExpr(n.Value)
		c.Constraints.Equate(b.Type, value.MonoType(), n.Sp)
		return &typedast.TimesEqual{TypedExpr: typedast.TypedExpr{Sp: n.Sp, Type: types.Void}, Name: n.Name, Value: value}

	case *ast.Function:
		c.Scope.Push()
		paramTypes := make([]types.Mono, len(n.Params))
		for i, p := range n.Params {
			pv := c.Constraints.Fresh()
			paramTypes[i] = pv
			c.Scope.Insert(p.Name, scope.Binding{Type: pv, Global: false, Mutable: true})
		}
		body := c.inferExpr(n.Body)
		retType := c.Constraints.Fresh()
		if n.ReturnType != "" {
			if g, ok := c.Builtins.Ground(n.ReturnType); ok {
				retType = g
			}
		}
		c.Constraints.Equate(retType, body.MonoType(), n.Sp)
		c.Scope.Pop()
		return &typedast.Function{
			TypedExpr: typedast.TypedExpr{Sp: n.Sp, Type: &types.Function{Params: paramTypes, Return: retType}},
			Params:    n.Params,
			Body:      body,
		}

	case *ast.BinaryOp:
		left := c.inferExpr(n.Left)
		right := c.inferExpr(n.Right)
		c.Constraints.Equate(left.MonoType(), right.MonoType(), n.Sp)
		nodeType := left.MonoType()
		if n.Kind.IsComparison() {
			nodeType = types.Bool
		}
		return &typedast.BinaryOp{TypedExpr: typedast.TypedExpr{Sp: n.Sp, Type: nodeType}, Kind: n.Kind, Left: left, Right: right}

	case *ast.Group:
		typed := make([]typedast.TypedNode, len(n.Exprs))
		var last types.Mono = types.Void
		for i, sub := range n.Exprs {
			typed[i] = c.inferExpr(sub)
			last = typed[i].MonoType()
		}
		return &typedast.Group{TypedExpr: typedast.TypedExpr{Sp: n.Sp, Type: last}, Exprs: typed}

	case *ast.Block:
		c.Scope.Push()
		typed := make([]typedast.TypedNode, len(n.Exprs))
		var last types.Mono = types.Void
		for i, sub := range n.Exprs {
			typed[i] = c.inferExpr(sub)
			last = typed[i].MonoType()
		}
		c.Scope.Pop()
		return &typedast.Block{TypedExpr: typedast.TypedExpr{Sp: n.Sp, Type: last}, Exprs: typed}

	case *ast.Branch:
		resultVar := c.Constraints.Fresh()
		typedArms := make([]typedast.Arm, len(n.Arms))
		for i, arm := range n.Arms {
			cond := c.inferExpr(arm.Condition)
			c.Constraints.Equate(cond.MonoType(), types.Bool, arm.Condition.Span())
			body := c.inferExpr(arm.Body)
			c.Constraints.Equate(body.MonoType(), resultVar, arm.Body.Span())
			typedArms[i] = typedast.Arm{Condition: cond, Body: body}
		}
		elseBody := c.inferExpr(n.Else)
		c.Constraints.Equate(elseBody.MonoType(), resultVar, n.Else.Span())
		return &typedast.Branch{TypedExpr: typedast.TypedExpr{Sp: n.Sp, Type: resultVar}, Arms: typedArms, Else: elseBody}

	case *ast.Call:
		fn := c.inferExpr(n.Func)
		args := make([]typedast.TypedNode, len(n.Args))
		argTypes := make([]types.Mono, len(n.Args))
		for i, a := range n.Args {
			args[i] = c.inferExpr(a)
			argTypes[i] = args[i].MonoType()
		}
		ret := c.Constraints.Fresh()
		c.Constraints.Equate(fn.MonoType(), &types.Function{Params: argTypes, Return: ret}, n.Sp)
		return &typedast.Call{TypedExpr: typedast.TypedExpr{Sp: n.Sp, Type: ret}, Func: fn, Args: args}

	case *ast.Intrinsic:
		sig, ok := c.Builtins.Intrinsic(n.Name)
		if !ok {
			return c.fail(&compileerrs.UnknownSymbol{Name: n.Name, Sp: n.Sp})
		}
		if len(sig.Params) != len(n.Args) {
			return c.fail(&types.ArityMismatch{Expected: len(sig.Params), Found: len(n.Args), Sp: n.Sp})
		}
		args := make([]typedast.TypedNode, len(n.Args))
		for i, a := range n.Args {
			args[i] = c.inferExpr(a)
			c.Constraints.Equate(args[i].MonoType(), sig.Params[i], a.Span())
		}
		return &typedast.Intrinsic{TypedExpr: typedast.TypedExpr{Sp: n.Sp, Type: sig.Return}, Name: n.Name, Args: args}

	case *ast.ForeignImport:
		fresh := c.Constraints.Fresh()
		label := c.Builtins.Interner.Lookup(n.Module) + "." + c.Builtins.Interner.Lookup(n.Name)
		c.Constraints.RecordForeignImport(label, fresh.ID)
		return &typedast.ForeignImport{TypedExpr: typedast.TypedExpr{Sp: n.Sp, Type: fresh}, Module: n.Module, Name: n.Name}

	case *ast.ForeignExport:
		value := c.inferExpr(n.Value)
		return &typedast.ForeignExport{TypedExpr: typedast.TypedExpr{Sp: n.Sp, Type: types.Void}, Name: n.Name, Value: value}

	case *ast.Convert:
		value := c.inferExpr(n.Value)
		return &typedast.Convert{TypedExpr: typedast.TypedExpr{Sp: n.Sp, Type: c.Constraints.Fresh()}, Value: value}

	case *ast.Undefined:
		return &typedast.Undefined{TypedExpr: typedast.TypedExpr{Sp: n.Sp, Type: c.Constraints.Fresh()}}

	default:
		return c.fail(&compileerrs.UnknownSymbol{})
	}
}
