package tag

import "fmt"

// ArgumentKind discriminates the tagged-union Argument value.
type ArgumentKind int

const (
	ArgString ArgumentKind = iota
	ArgNumber
	ArgBool
)

// Argument is a literal value carried by a tag or transformer: a string,
// a float64 number, or a boolean.
type Argument struct {
	Kind ArgumentKind
	Str  string
	Num  float64
	Bool bool
}

// String returns a display form of the argument, used for coercion into
// provider parameter bindings.
func (a Argument) String() string {
	switch a.Kind {
	case ArgString:
		return a.Str
	case ArgNumber:
		return formatNumber(a.Num)
	case ArgBool:
		if a.Bool {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

func formatNumber(n float64) string {
	if n == float64(int64(n)) {
		return fmt.Sprintf("%d", int64(n))
	}
	return fmt.Sprintf("%g", n)
}

// Truthy reports whether the argument should be treated as true by the
// `if` transformer's truthiness rule: non-empty string, non-zero number,
// true boolean.
func (a Argument) Truthy() bool {
	switch a.Kind {
	case ArgString:
		return a.Str != ""
	case ArgNumber:
		return a.Num != 0
	case ArgBool:
		return a.Bool
	default:
		return false
	}
}
