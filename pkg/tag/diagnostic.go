package tag

import "fmt"

// DiagnosticKind is the closed set of parse-time and project-level problems
// the lexer, parser, and scanner can surface without aborting their walk.
type DiagnosticKind int

const (
	UnclosedBlock DiagnosticKind = iota
	InvalidName
	UnknownTransformer
	InvalidTransformerArgs
	DuplicateProvider
	NonTemplateProvider
	InlineMissingTemplate
	UnusedProvider
)

func (k DiagnosticKind) String() string {
	switch k {
	case UnclosedBlock:
		return "unclosed-block"
	case InvalidName:
		return "invalid-name"
	case UnknownTransformer:
		return "unknown-transformer"
	case InvalidTransformerArgs:
		return "invalid-transformer-args"
	case DuplicateProvider:
		return "duplicate-provider"
	case NonTemplateProvider:
		return "non-template-provider"
	case InlineMissingTemplate:
		return "inline-missing-template"
	case UnusedProvider:
		return "unused-provider"
	default:
		return "unknown"
	}
}

// Code returns the mdt::-namespaced diagnostic code, mirroring the
// code/help-text pairing pattern of a thiserror+miette diagnostic enum.
func (k DiagnosticKind) Code() string {
	return "mdt::" + k.String()
}

// Help returns a short actionable suggestion for the diagnostic kind.
func (k DiagnosticKind) Help() string {
	switch k {
	case UnclosedBlock:
		return "add a matching `<!-- {/name} -->` to close this block"
	case InvalidName:
		return "block names must match [A-Za-z_][A-Za-z0-9_]*"
	case UnknownTransformer:
		return "available transformers: trim, trimStart, trimEnd, indent, linePrefix, lineSuffix, prefix, suffix, wrap, code, codeBlock, replace, if"
	case InvalidTransformerArgs:
		return "check the transformer's expected argument count"
	case DuplicateProvider:
		return "each provider block name must be unique across the project"
	case NonTemplateProvider:
		return "provider blocks are only authoritative in *.t.md files"
	case InlineMissingTemplate:
		return "inline blocks require a template string as their first argument"
	case UnusedProvider:
		return "no consumer or inline block references this provider"
	default:
		return ""
	}
}

// Diagnostic is a single non-fatal problem found while parsing or scanning.
type Diagnostic struct {
	Kind    DiagnosticKind
	File    string
	Range   Range
	Message string
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s:%d:%d: [%s] %s", d.File, d.Range.Start.Line, d.Range.Start.Column, d.Kind.Code(), d.Message)
}
