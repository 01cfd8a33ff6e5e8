// Package problem loads a verification or synthesis task from a YAML
// problem file: a WHILE program plus the assertions a CLI invocation
// needs to build a driver.VerifyRequest or driver.SynthesizeRequest,
// without forcing the caller to hand-assemble ASTs.
package problem

import (
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/lhaig/whileverify/internal/ast"
	"github.com/lhaig/whileverify/internal/parser"
)

// Example is one input/output pair for a synthesis query.
type Example struct {
	Pre  string `yaml:"pre"`
	Post string `yaml:"post"`
}

// File is the on-disk YAML shape. Verify mode supplies Pre/Post
// directly; synthesis mode supplies Examples instead, one per
// input/output pair the spec requires holes to satisfy.
type File struct {
	Program   string    `yaml:"program"`
	Invariant string    `yaml:"invariant"`
	Pre       string    `yaml:"pre"`
	Post      string    `yaml:"post"`
	Examples  []Example `yaml:"examples"`
}

// Parsed is a problem File with every source string already parsed
// into an AST, ready to hand to internal/driver.
type Parsed struct {
	Program   ast.Command
	Invariant ast.Expr // nil if the file omitted it (treated as `true`)
	Pre       ast.Expr // nil in synthesis mode
	Post      ast.Expr // nil in synthesis mode
	Inputs    []ast.Expr
	Outputs   []ast.Expr
}

// Load reads and parses a problem file from raw YAML bytes.
func Load(data []byte) (*Parsed, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing problem file: %w", err)
	}
	return f.Parse()
}

// Parse converts every WHILE-language string field into an AST node,
// reporting the first parse error encountered with the field name that
// produced it.
func (f *File) Parse() (*Parsed, error) {
	if f.Program == "" {
		return nil, fmt.Errorf("problem file has no program")
	}

	prog, err := parseCommand(f.Program)
	if err != nil {
		return nil, fmt.Errorf("program: %w", err)
	}

	out := &Parsed{Program: prog}

	if f.Invariant != "" {
		out.Invariant, err = parseExpr(f.Invariant)
		if err != nil {
			return nil, fmt.Errorf("invariant: %w", err)
		}
	}

	if f.Pre != "" {
		out.Pre, err = parseExpr(f.Pre)
		if err != nil {
			return nil, fmt.Errorf("pre: %w", err)
		}
	}
	if f.Post != "" {
		out.Post, err = parseExpr(f.Post)
		if err != nil {
			return nil, fmt.Errorf("post: %w", err)
		}
	}

	for i, ex := range f.Examples {
		in, err := parseExpr(ex.Pre)
		if err != nil {
			return nil, fmt.Errorf("examples[%d].pre: %w", i, err)
		}
		o, err := parseExpr(ex.Post)
		if err != nil {
			return nil, fmt.Errorf("examples[%d].post: %w", i, err)
		}
		out.Inputs = append(out.Inputs, in)
		out.Outputs = append(out.Outputs, o)
	}

	return out, nil
}

// IsSynthesis reports whether the file describes a synthesis query
// (examples present) rather than a single Hoare triple.
func (f *File) IsSynthesis() bool {
	return len(f.Examples) > 0
}

func parseCommand(src string) (ast.Command, error) {
	p := parser.New(src)
	cmd := p.Parse()
	if p.Diagnostics().HasErrors() {
		return nil, fmt.Errorf("%s", p.Diagnostics().Format("problem"))
	}
	return cmd, nil
}

func parseExpr(src string) (ast.Expr, error) {
	p := parser.New(src)
	e := p.ParseExpr()
	if p.Diagnostics().HasErrors() {
		return nil, fmt.Errorf("%s", p.Diagnostics().Format("problem"))
	}
	return e, nil
}
