// Package casefile reads batch calculation cases from HCL files.
//
//	locals {
//	  header = "100 mm"
//	}
//
//	defaults {
//	  fluid    = "steam"
//	  material = "commercial-steel"
//	}
//
//	case "header-a" {
//	  pressure    = "10 bar(a)"
//	  temperature = "250 C"
//	  diameter    = local.header
//	  length      = "50 m"
//	  mass_flow   = "2 t/h"
//	  fitting "elbow-90" { count = 4 }
//	}
//
// Values given as strings carry their unit; bare numbers are SI. Every case
// is converted to a solver.Request before anything is solved.
package casefile

import (
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"steam-toolbox/adapters/input"
	"steam-toolbox/core/batch"
	"steam-toolbox/internal/errors"
)

// Extension is the conventional case file extension
const Extension = ".hcl"

// Defaults fill values a case and the file's defaults block both leave out
type Defaults = input.Defaults

// Parser decodes case files
type Parser struct {
	builder *input.Builder
}

// NewParser creates a new case file parser
func NewParser(defaults Defaults, opts ...input.Option) *Parser {
	return &Parser{
		builder: input.NewBuilder(defaults, opts...),
	}
}

var fileSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "locals"},
		{Type: "defaults"},
		{Type: "case", LabelNames: []string{"name"}},
	},
}

// ParseFile reads and decodes the cases in path
func (p *Parser) ParseFile(path string) ([]batch.Case, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Parsing("failed to read case file", err).WithContext("file", path)
	}
	return p.Parse(src, path)
}

// Parse decodes the cases in src. filename is only used in diagnostics.
func (p *Parser) Parse(src []byte, filename string) ([]batch.Case, error) {
	// hclparse caches by filename, so each call gets its own parser
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diagError(filename, diags)
	}

	content, diags := file.Body.Content(fileSchema)
	if diags.HasErrors() {
		return nil, diagError(filename, diags)
	}

	ctx := newEvalContext()
	var defaults input.Input
	var caseBlocks []*hcl.Block
	seen := map[string]int{}
	defaultsLine := 0

	// locals first so defaults and cases may reference them regardless of order
	for _, block := range content.Blocks.OfType("locals") {
		if diags := addLocals(ctx, block.Body); diags.HasErrors() {
			return nil, diagError(filename, diags)
		}
	}
	for _, block := range content.Blocks {
		switch block.Type {
		case "defaults":
			if defaultsLine != 0 {
				return nil, errors.Newf(errors.TypeParsing, "duplicate defaults block (first defined on line %d)", defaultsLine).
					WithContext("file", filename).
					WithContext("line", block.DefRange.Start.Line)
			}
			defaultsLine = block.DefRange.Start.Line
			if diags := gohcl.DecodeBody(block.Body, ctx, &defaults); diags.HasErrors() {
				return nil, diagError(filename, diags)
			}
		case "case":
			name := block.Labels[0]
			if line, dup := seen[name]; dup {
				return nil, errors.Newf(errors.TypeParsing, "duplicate case %q (first defined on line %d)", name, line).
					WithContext("file", filename).
					WithContext("line", block.DefRange.Start.Line)
			}
			seen[name] = block.DefRange.Start.Line
			caseBlocks = append(caseBlocks, block)
		}
	}

	if len(caseBlocks) == 0 {
		return nil, errors.New(errors.TypeParsing, "no case blocks found").WithContext("file", filename)
	}

	cases := make([]batch.Case, 0, len(caseBlocks))
	for _, block := range caseBlocks {
		var body input.Input
		if diags := gohcl.DecodeBody(block.Body, ctx, &body); diags.HasErrors() {
			return nil, diagError(filename, diags)
		}
		name := block.Labels[0]
		req, err := p.builder.Build(defaults.Merge(body))
		if err != nil {
			return nil, errors.Wrapf(errors.TypeParsing, err, "case %q", name).
				WithContext("file", filename).
				WithContext("case", name).
				WithContext("line", block.DefRange.Start.Line)
		}
		cases = append(cases, batch.Case{Name: name, Request: req})
	}
	return cases, nil
}

// diagError turns the error diagnostics into a parsing error carrying the
// position of the first one
func diagError(filename string, diags hcl.Diagnostics) error {
	var msgs []string
	line := 0
	for _, diag := range diags {
		if diag.Severity != hcl.DiagError {
			continue
		}
		if line == 0 && diag.Subject != nil {
			line = diag.Subject.Start.Line
		}
		msg := diag.Summary
		if diag.Detail != "" {
			msg += ": " + diag.Detail
		}
		msgs = append(msgs, msg)
	}
	return errors.Parsing(strings.Join(msgs, "; "), diags).
		WithContext("file", filename).
		WithContext("line", line)
}
