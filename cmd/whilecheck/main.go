package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/lhaig/whileverify/internal/driver"
	"github.com/lhaig/whileverify/internal/printer"
	"github.com/lhaig/whileverify/internal/problem"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

const usage = `whilecheck - weakest-precondition verifier and sketch synthesizer for WHILE

Usage:
  whilecheck verify [--max-depth N] [--z3 path] <problem.yaml>     Check a Hoare triple
  whilecheck synth  [--max-depth N] [--z3 path] <problem.yaml>     Synthesize hole values

Options:
  --max-depth N   Maximum loop-unfolding retry depth (default 9)
  --z3 path       Path to the z3 binary (default: resolved from PATH)

A problem file is YAML with a "program" field and either "pre"/"post"
(verify mode) or an "examples" list of {pre, post} pairs (synth mode),
plus an optional "invariant" field used by the loop rule.

Examples:
  whilecheck verify examples/sum.yaml
  whilecheck synth examples/sketch.yaml
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	command := os.Args[1]

	if command == "--version" || command == "version" {
		fmt.Printf("whilecheck %s\n", version)
		os.Exit(0)
	}

	switch command {
	case "verify":
		handleVerify(os.Args[2:])
	case "synth":
		handleSynth(os.Args[2:])
	case "help", "--help", "-h":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func parseCommonFlags(args []string) (opts driver.Options, filePath string) {
	opts = driver.DefaultOptions()

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "--max-depth":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "Error: --max-depth requires an argument")
				os.Exit(1)
			}
			i++
			depth, err := strconv.Atoi(args[i])
			if err != nil || depth < 0 {
				fmt.Fprintf(os.Stderr, "Error: invalid --max-depth: %s\n", args[i])
				os.Exit(1)
			}
			opts.MaxUnfoldDepth = depth
		case "--z3":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "Error: --z3 requires an argument")
				os.Exit(1)
			}
			i++
			opts.Z3Path = args[i]
		default:
			if strings.HasPrefix(arg, "-") {
				fmt.Fprintf(os.Stderr, "Unknown option: %s\n", arg)
				os.Exit(1)
			}
			filePath = arg
		}
	}

	if filePath == "" {
		fmt.Fprintln(os.Stderr, "Error: no problem file specified")
		os.Exit(1)
	}
	return opts, filePath
}

func loadProblem(filePath string) *problem.Parsed {
	data, err := os.ReadFile(filePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %s\n", err)
		os.Exit(1)
	}
	parsed, err := problem.Load(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	return parsed
}

func handleVerify(args []string) {
	opts, filePath := parseCommonFlags(args)
	p := loadProblem(filePath)

	if p.Pre == nil || p.Post == nil {
		fmt.Fprintln(os.Stderr, "Error: verify mode requires both pre and post in the problem file")
		os.Exit(1)
	}

	req := driver.VerifyRequest{Pre: p.Pre, Program: p.Program, Post: p.Post, Invariant: p.Invariant}
	ok, outcomes := driver.Verify(context.Background(), req, opts)

	for _, o := range outcomes {
		fmt.Printf("  depth %d: %s\n", o.Depth, o.Verdict)
	}

	if ok {
		color.Green("VERIFIED")
		return
	}
	color.Red("NOT VERIFIED (exhausted %d unfolding depths)", opts.MaxUnfoldDepth)
	os.Exit(1)
}

func handleSynth(args []string) {
	opts, filePath := parseCommonFlags(args)
	p := loadProblem(filePath)

	if len(p.Inputs) == 0 {
		fmt.Fprintln(os.Stderr, "Error: synth mode requires an examples list in the problem file")
		os.Exit(1)
	}

	req := driver.SynthesizeRequest{
		Program:   p.Program,
		Invariant: p.Invariant,
		Inputs:    p.Inputs,
		Outputs:   p.Outputs,
	}
	model, ok, outcomes := driver.Synthesize(context.Background(), req, opts)

	for _, o := range outcomes {
		fmt.Printf("  depth %d: %s\n", o.Depth, o.Verdict)
	}

	if !ok {
		color.Red("NO MODEL (exhausted %d unfolding depths)", opts.MaxUnfoldDepth)
		os.Exit(1)
	}

	color.Green("FOUND MODEL")
	fmt.Println(printer.Print(p.Program, model))
}
