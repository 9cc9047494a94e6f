package suite

import (
	"fmt"
	"strconv"
)

// StringArg returns args[i] as a string.
func StringArg(args []any, i int) (string, error) {
	if i < 0 || i >= len(args) {
		return "", fmt.Errorf("argument %d not provided (have %d)", i, len(args))
	}
	switch v := args[i].(type) {
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		return fmt.Sprint(v), nil
	}
}

// IntArg returns args[i] as an int. Integer-valued strings and floats are
// accepted.
func IntArg(args []any, i int) (int, error) {
	if i < 0 || i >= len(args) {
		return 0, fmt.Errorf("argument %d not provided (have %d)", i, len(args))
	}
	switch v := args[i].(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case int32:
		return int(v), nil
	case float64:
		if v == float64(int(v)) {
			return int(v), nil
		}
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n, nil
		}
	}
	return 0, fmt.Errorf("argument %d: %v (%T) is not an integer", i, args[i], args[i])
}
