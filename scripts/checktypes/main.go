// Command checktypes is a development-time check (not part of the
// library surface): it statically verifies that every types.Mono ground
// constant and variant constructor is referenced somewhere under
// internal/check, catching a variant that got added to internal/types
// but never wired into the inference engine. Grounded on funxy's
// golang.org/x/tools/go/packages-based static inspection
// (internal/ext/inspector.go).
package main

import (
	"fmt"
	"go/ast"
	"go/types"
	"os"

	"golang.org/x/tools/go/packages"
)

// groundNames are the spec §3 ground type identifiers exported by
// internal/types; variantNames are the Mono variant constructors.
var groundNames = []string{"Void", "Bool", "I32", "I64", "F32", "F64", "String"}
var variantNames = []string{"Ground", "Var", "Function", "Imported"}

func main() {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedSyntax | packages.NeedTypes | packages.NeedTypesInfo | packages.NeedImports,
	}
	pkgs, err := packages.Load(cfg, "github.com/sunholo/neuronc/internal/check")
	if err != nil {
		fmt.Fprintln(os.Stderr, "load:", err)
		os.Exit(1)
	}
	if packages.PrintErrors(pkgs) > 0 {
		os.Exit(1)
	}

	referenced := make(map[string]bool)
	for _, pkg := range pkgs {
		for _, file := range pkg.Syntax {
			ast.Inspect(file, func(n ast.Node) bool {
				sel, ok := n.(*ast.SelectorExpr)
				if !ok {
					return true
				}
				ident, ok := sel.X.(*ast.Ident)
				if !ok {
					return true
				}
				obj := pkg.TypesInfo.Uses[ident]
				pn, ok := obj.(*types.PkgName)
				if !ok || pn.Imported().Path() != "github.com/sunholo/neuronc/internal/types" {
					return true
				}
				referenced[sel.Sel.Name] = true
				return true
			})
		}
	}

	var missing []string
	for _, name := range append(append([]string{}, groundNames...), variantNames...) {
		if !referenced[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		fmt.Println("unreferenced types.Mono identifiers under internal/check:")
		for _, name := range missing {
			fmt.Println(" -", name)
		}
		os.Exit(1)
	}
	fmt.Println("all ground types and Mono variants are referenced under internal/check")
}
