// Package repl adapts the teacher's peterh/liner line editor into an
// interactive driver over internal/module. Since the parser that would
// turn source text into an untyped expression tree is out of scope
// (spec §1), the REPL's input unit is a YAML fixture describing that
// tree directly - the same shape the (hypothetical) parser would hand
// the checker, encoded for a human to type by hand.
package repl

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/sunholo/neuronc/internal/ast"
	"github.com/sunholo/neuronc/internal/intern"
)

// Definition is one top-level fixture entry: a name, its untyped
// expression, and whether it is a declared foreign export.
type Definition struct {
	Name   string    `yaml:"name"`
	Export bool      `yaml:"export"`
	Expr   yaml.Node `yaml:"expr"`
}

// Fixture is a whole module's worth of definitions, as loaded from a
// *.yaml file such as those under internal/repl/testdata, or named by
// path at the REPL prompt.
type Fixture struct {
	Definitions []Definition `yaml:"definitions"`
}

// ParseFixture decodes a YAML document into a Fixture.
func ParseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	return &f, nil
}

// node is the generic shape every fixture expression decodes through
// before dispatching on Kind.
type node struct {
	Kind       string `yaml:"kind"`
	Text       string `yaml:"text"`
	Value      bool   `yaml:"value"`
	Name       string `yaml:"name"`
	Mutable    bool   `yaml:"mutable"`
	Op         string `yaml:"op"`
	ReturnType string `yaml:"return_type"`
	Module     string `yaml:"module"`

	Value_  *yaml.Node  `yaml:"value_expr"`
	Left    *yaml.Node  `yaml:"left"`
	Right   *yaml.Node  `yaml:"right"`
	Body    *yaml.Node  `yaml:"body"`
	Else    *yaml.Node  `yaml:"else"`
	Func    *yaml.Node  `yaml:"func"`
	Params  []paramNode `yaml:"params"`
	Args    []yaml.Node `yaml:"args"`
	Exprs   []yaml.Node `yaml:"exprs"`
	Arms    []armNode   `yaml:"arms"`
}

type paramNode struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type armNode struct {
	Condition yaml.Node `yaml:"condition"`
	Body      yaml.Node `yaml:"body"`
}

var binaryOps = map[string]ast.BinaryOpKind{
	"+":  ast.OpPlus,
	"-":  ast.OpMinus,
	"*":  ast.OpTimes,
	"/":  ast.OpSlash,
	"^":  ast.OpCaret,
	"%":  ast.OpPercent,
	"==": ast.OpEqualEqual,
	">":  ast.OpGreater,
	"<":  ast.OpLess,
}

// DecodeExpr turns a single YAML node into an ast.Expr, interning every
// name it encounters against in. Spans are left zero-valued: a fixture
// has no backing source text to point at.
func DecodeExpr(n *yaml.Node, in *intern.Interner) (ast.Expr, error) {
	if n == nil {
		return &ast.Undefined{}, nil
	}
	var raw node
	if err := n.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode expr: %w", err)
	}

	sub := func(child *yaml.Node) (ast.Expr, error) { return DecodeExpr(child, in) }

	switch raw.Kind {
	case "int":
		return &ast.Int{Text: in.Store(raw.Text)}, nil
	case "float":
		return &ast.Float{Text: in.Store(raw.Text)}, nil
	case "bool":
		return &ast.Bool{Value: raw.Value}, nil
	case "string":
		return &ast.String{Text: in.Store(raw.Text)}, nil
	case "symbol":
		return &ast.Symbol{Name: in.Store(raw.Name)}, nil
	case "undefined":
		return &ast.Undefined{}, nil

	case "define":
		v, err := sub(raw.Value_)
		if err != nil {
			return nil, err
		}
		return &ast.Define{Name: in.Store(raw.Name), Value: v, Mutable: raw.Mutable}, nil

	case "drop":
		v, err := sub(raw.Value_)
		if err != nil {
			return nil, err
		}
		return &ast.Drop{Value: v}, nil

	case "plus_equal":
		v, err := sub(raw.Value_)
		if err != nil {
			return nil, err
		}
		return &ast.PlusEqual{Name: in.Store(raw.Name), Value: v}, nil

	case "times_equal":
		v, err := sub(raw.Value_)
		if err != nil {
			return nil, err
		}
		return &ast.TimesEqual{Name: in.Store(raw.Name), Value: v}, nil

	case "function":
		body, err := sub(raw.Body)
		if err != nil {
			return nil, err
		}
		params := make([]ast.Param, len(raw.Params))
		for i, p := range raw.Params {
			params[i] = ast.Param{Name: in.Store(p.Name), Type: p.Type}
		}
		return &ast.Function{Params: params, ReturnType: raw.ReturnType, Body: body}, nil

	case "binary_op":
		left, err := sub(raw.Left)
		if err != nil {
			return nil, err
		}
		right, err := sub(raw.Right)
		if err != nil {
			return nil, err
		}
		kind, ok := binaryOps[raw.Op]
		if !ok {
			return nil, fmt.Errorf("unknown binary op %q", raw.Op)
		}
		return &ast.BinaryOp{Kind: kind, Left: left, Right: right}, nil

	case "group":
		exprs, err := decodeAll(raw.Exprs, in)
		if err != nil {
			return nil, err
		}
		return &ast.Group{Exprs: exprs}, nil

	case "block":
		exprs, err := decodeAll(raw.Exprs, in)
		if err != nil {
			return nil, err
		}
		return &ast.Block{Exprs: exprs}, nil

	case "branch":
		arms := make([]ast.Arm, len(raw.Arms))
		for i, a := range raw.Arms {
			cond, err := sub(&a.Condition)
			if err != nil {
				return nil, err
			}
			body, err := sub(&a.Body)
			if err != nil {
				return nil, err
			}
			arms[i] = ast.Arm{Condition: cond, Body: body}
		}
		elseBody, err := sub(raw.Else)
		if err != nil {
			return nil, err
		}
		return &ast.Branch{Arms: arms, Else: elseBody}, nil

	case "call":
		fn, err := sub(raw.Func)
		if err != nil {
			return nil, err
		}
		args, err := decodeAll(raw.Args, in)
		if err != nil {
			return nil, err
		}
		return &ast.Call{Func: fn, Args: args}, nil

	case "intrinsic":
		args, err := decodeAll(raw.Args, in)
		if err != nil {
			return nil, err
		}
		return &ast.Intrinsic{Name: in.Store(raw.Name), Args: args}, nil

	case "foreign_import":
		return &ast.ForeignImport{Module: in.Store(raw.Module), Name: in.Store(raw.Name)}, nil

	case "foreign_export":
		v, err := sub(raw.Value_)
		if err != nil {
			return nil, err
		}
		return &ast.ForeignExport{Name: in.Store(raw.Name), Value: v}, nil

	case "convert":
		v, err := sub(raw.Value_)
		if err != nil {
			return nil, err
		}
		return &ast.Convert{Value: v}, nil

	default:
		return nil, fmt.Errorf("unknown expression kind %q", raw.Kind)
	}
}

func decodeAll(ns []yaml.Node, in *intern.Interner) ([]ast.Expr, error) {
	out := make([]ast.Expr, len(ns))
	for i := range ns {
		e, err := DecodeExpr(&ns[i], in)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}
