package jsonpath

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Missing is the value reported for a path that does not exist in the
// document. It is distinct from JSON null, which resolves to nil.
var Missing = missing{}

type missing struct{}

func (missing) String() string { return "<missing>" }

// IsMissing reports whether v is the Missing sentinel.
func IsMissing(v any) bool {
	_, ok := v.(missing)
	return ok
}

type segment struct {
	key     string
	index   int
	isIndex bool
}

// Resolve looks up path in body. The second result is false when the path
// does not exist; the first is then nil. An empty path yields the whole
// document.
func Resolve(body gjson.Result, path string) (any, bool) {
	if !body.Exists() {
		return nil, false
	}
	if path == "" {
		return body.Value(), true
	}

	segs, err := parse(path)
	if err != nil {
		return nil, false
	}

	// Walk one segment at a time: an index only applies to an array and a
	// key only to an object, so obj[0] and arr.0 are both missing.
	cur := body
	for _, s := range segs {
		if s.isIndex {
			if !cur.IsArray() {
				return nil, false
			}
			cur = cur.Get(strconv.Itoa(s.index))
		} else {
			if !cur.IsObject() {
				return nil, false
			}
			cur = cur.Get(escapeKey(s.key))
		}
		if !cur.Exists() {
			return nil, false
		}
	}
	return cur.Value(), true
}

// ResolveBytes is Resolve over raw JSON. Invalid JSON resolves nothing.
func ResolveBytes(body []byte, path string) (any, bool) {
	if !gjson.ValidBytes(body) {
		return nil, false
	}
	return Resolve(gjson.ParseBytes(body), path)
}

// Valid reports whether path is well formed.
func Valid(path string) error {
	_, err := parse(path)
	return err
}

// ToGJSON converts path to a gjson path in which every key is escaped, so
// gjson's wildcard and query syntax never applies. gjson itself does not
// tell an index from a numeric key; Resolve does.
// e.g. "data[0].first_name" -> "data.0.first_name"
func ToGJSON(path string) (string, error) {
	segs, err := parse(path)
	if err != nil {
		return "", err
	}

	parts := make([]string, len(segs))
	for i, s := range segs {
		if s.isIndex {
			parts[i] = strconv.Itoa(s.index)
		} else {
			parts[i] = escapeKey(s.key)
		}
	}
	return strings.Join(parts, "."), nil
}

func parse(path string) ([]segment, error) {
	if path == "" {
		return nil, nil
	}

	var segs []segment
	i := 0
	expectKey := true // at start or right after a dot
	for i < len(path) {
		switch c := path[i]; c {
		case '.':
			if expectKey {
				return nil, fmt.Errorf("invalid path %q: empty segment at offset %d", path, i)
			}
			expectKey = true
			i++
			if i == len(path) {
				return nil, fmt.Errorf("invalid path %q: trailing dot", path)
			}
		case '[':
			if expectKey && i > 0 {
				return nil, fmt.Errorf("invalid path %q: index must follow a key at offset %d", path, i)
			}
			end := strings.IndexByte(path[i:], ']')
			if end < 0 {
				return nil, fmt.Errorf("invalid path %q: unclosed bracket at offset %d", path, i)
			}
			raw := path[i+1 : i+end]
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 || raw != strconv.Itoa(n) {
				return nil, fmt.Errorf("invalid path %q: index %q is not a non-negative integer", path, raw)
			}
			segs = append(segs, segment{index: n, isIndex: true})
			expectKey = false
			i += end + 1
			if i < len(path) && path[i] != '.' && path[i] != '[' {
				return nil, fmt.Errorf("invalid path %q: unexpected %q after index", path, path[i])
			}
		case ']':
			return nil, fmt.Errorf("invalid path %q: unmatched ']' at offset %d", path, i)
		default:
			if !expectKey {
				return nil, fmt.Errorf("invalid path %q: unexpected %q at offset %d", path, c, i)
			}
			j := i
			for j < len(path) && path[j] != '.' && path[j] != '[' && path[j] != ']' {
				j++
			}
			segs = append(segs, segment{key: path[i:j]})
			expectKey = false
			i = j
		}
	}
	return segs, nil
}

func escapeKey(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch r {
		case '\\', '.', '*', '?', '|', '#', '@', '!', '=', '<', '>', '%', '(', ')', '{', '}', '[', ']', '"', ',', ':':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
