// Package filter compiles filter expressions over data items.
//
// Expressions are written in CEL (https://cel.dev) and can refer to two
// variables: id, the ID of the item, and item, a map of its fields. Examples:
//
//	item.active == true
//	has(item.due) && item.category in ["work", "home"]
//	id.startsWith("draft-") == false
package filter

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"src.boundview.dev/pkg/datasource"
	"src.boundview.dev/pkg/logutil"
)

var logger = logutil.GetLogger("[filter] ")

// Compile compiles a filter expression into a predicate. The expression must
// evaluate to a boolean; an item is excluded when the evaluation fails or
// yields anything other than true.
func Compile(expr string) (func(datasource.Item) bool, error) {
	env, err := cel.NewEnv(
		cel.Variable("id", cel.StringType),
		cel.Variable("item", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, err
	}
	ast, iss := env.Compile(expr)
	if iss.Err() != nil {
		return nil, fmt.Errorf("compile filter: %w", iss.Err())
	}
	if t := ast.OutputType(); !t.IsExactType(cel.BoolType) && !t.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("filter %q has type %v, want bool", expr, t)
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("compile filter: %w", err)
	}
	return func(it datasource.Item) bool {
		fields := it.Fields
		if fields == nil {
			fields = map[string]any{}
		}
		out, _, err := prg.Eval(map[string]any{"id": it.ID, "item": fields})
		if err != nil {
			logger.Debug("filter evaluation failed", "id", it.ID, "err", err)
			return false
		}
		b, ok := out.Value().(bool)
		return ok && b
	}, nil
}
