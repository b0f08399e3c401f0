package typedast

import (
	"testing"

	"github.com/sunholo/neuronc/internal/types"
)

func TestApplySubstitutionRewritesNestedTypes(t *testing.T) {
	v1 := &types.Var{ID: 1}
	v2 := &types.Var{ID: 2}

	left := &Int{TypedExpr: TypedExpr{Type: v1}}
	right := &Int{TypedExpr: TypedExpr{Type: v2}}
	op := &BinaryOp{TypedExpr: TypedExpr{Type: v1}, Left: left, Right: right}

	sub := types.Substitution{1: types.I32, 2: types.I32}
	ApplySubstitution(op, sub.Apply)

	if !types.Equal(op.Type, types.I32) {
		t.Fatalf("expected op type i32, got %s", op.Type)
	}
	if !types.Equal(left.Type, types.I32) {
		t.Fatalf("expected left type i32, got %s", left.Type)
	}
	if !types.Equal(right.Type, types.I32) {
		t.Fatalf("expected right type i32, got %s", right.Type)
	}
}

func TestApplySubstitutionVisitsBranchArms(t *testing.T) {
	v := &types.Var{ID: 7}
	cond := &Bool{TypedExpr: TypedExpr{Type: types.Bool}, Value: true}
	body := &Int{TypedExpr: TypedExpr{Type: v}}
	elseBody := &Int{TypedExpr: TypedExpr{Type: v}}
	branch := &Branch{
		TypedExpr: TypedExpr{Type: v},
		Arms:      []Arm{{Condition: cond, Body: body}},
		Else:      elseBody,
	}

	sub := types.Substitution{7: types.I32}
	ApplySubstitution(branch, sub.Apply)

	if !types.Equal(branch.Type, types.I32) || !types.Equal(body.Type, types.I32) || !types.Equal(elseBody.Type, types.I32) {
		t.Fatal("expected branch, arm body, and else body all resolved to i32")
	}
}
