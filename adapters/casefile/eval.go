package casefile

import (
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// newEvalContext returns the context case expressions are evaluated in.
// local.<name> resolves to values from locals blocks.
func newEvalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"local": cty.EmptyObjectVal,
		},
		Functions: map[string]function.Function{
			"min":    stdlib.MinFunc,
			"max":    stdlib.MaxFunc,
			"abs":    stdlib.AbsoluteFunc,
			"floor":  stdlib.FloorFunc,
			"ceil":   stdlib.CeilFunc,
			"format": stdlib.FormatFunc,
			"lower":  stdlib.LowerFunc,
			"upper":  stdlib.UpperFunc,
		},
	}
}

// addLocals evaluates the attributes of a locals block in source order and
// adds them to ctx. A local may refer to locals defined above it.
func addLocals(ctx *hcl.EvalContext, body hcl.Body) hcl.Diagnostics {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return diags
	}

	ordered := make([]*hcl.Attribute, 0, len(attrs))
	for _, attr := range attrs {
		ordered = append(ordered, attr)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Range.Start.Byte < ordered[j].Range.Start.Byte
	})

	locals := ctx.Variables["local"].AsValueMap()
	if locals == nil {
		locals = map[string]cty.Value{}
	}
	for _, attr := range ordered {
		if _, dup := locals[attr.Name]; dup {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate local value",
				Detail:   "local." + attr.Name + " is already defined",
				Subject:  attr.NameRange.Ptr(),
			})
			return diags
		}
		val, valDiags := attr.Expr.Value(ctx)
		diags = append(diags, valDiags...)
		if valDiags.HasErrors() {
			return diags
		}
		if !val.IsWhollyKnown() || val.IsNull() {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid local value",
				Detail:   "local." + attr.Name + " must be a known, non-null value",
				Subject:  attr.Expr.Range().Ptr(),
			})
			return diags
		}
		locals[attr.Name] = val
		ctx.Variables["local"] = cty.ObjectVal(locals)
	}
	return diags
}
