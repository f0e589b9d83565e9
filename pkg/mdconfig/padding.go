package mdconfig

import "fmt"

// PaddingConfig controls blank lines inserted between a block's tags and
// its content. Absent entirely from a Config, no padding logic runs. When
// present, Before and After each default to one blank line.
type PaddingConfig struct {
	Before PaddingValue
	After  PaddingValue
}

// PaddingValue is either disabled (content inline with the tag) or a count
// of blank lines (0 means content starts on the very next line).
type PaddingValue struct {
	Disabled bool
	Lines    uint32
}

func defaultPaddingValue() PaddingValue {
	return PaddingValue{Lines: 1}
}

// parsePadding resolves a [padding] table's raw before/after values. A
// missing field defaults to one blank line, matching the original's serde
// default of PaddingValue::Lines(1).
func parsePadding(raw rawPadding) (*PaddingConfig, error) {
	before, err := parsePaddingValue(raw.Before)
	if err != nil {
		return nil, fmt.Errorf("before: %w", err)
	}
	after, err := parsePaddingValue(raw.After)
	if err != nil {
		return nil, fmt.Errorf("after: %w", err)
	}
	return &PaddingConfig{Before: before, After: after}, nil
}

func parsePaddingValue(v any) (PaddingValue, error) {
	switch value := v.(type) {
	case nil:
		return defaultPaddingValue(), nil
	case bool:
		if !value {
			return PaddingValue{Disabled: true}, nil
		}
		return PaddingValue{Lines: 1}, nil
	case int64:
		return PaddingValue{Lines: uint32(value)}, nil
	case float64:
		return PaddingValue{Lines: uint32(value)}, nil
	default:
		return PaddingValue{}, fmt.Errorf("%w: expected a boolean or a non-negative integer, got %T", errUnsupportedShape, v)
	}
}
