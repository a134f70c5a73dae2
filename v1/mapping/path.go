package mapping

import (
	"fmt"
	"strconv"
	"strings"
)

// Lookup resolves a source path in data. A key containing dots is tried
// literally first; otherwise each dot descends one level into nested maps,
// and numeric segments index into lists. Missing keys and nil values are
// Absent.
func Lookup(data map[string]interface{}, path string) Resolved {
	if data == nil || path == "" {
		return Absent
	}
	if v, ok := data[path]; ok {
		return Of(v)
	}
	if !strings.Contains(path, ".") {
		return Absent
	}

	var cur interface{} = data
	for _, seg := range strings.Split(path, ".") {
		next, ok := step(cur, seg)
		if !ok {
			return Absent
		}
		cur = next
	}
	return Of(cur)
}

func step(cur interface{}, seg string) (interface{}, bool) {
	switch node := cur.(type) {
	case map[string]interface{}:
		v, ok := node[seg]
		return v, ok
	case map[interface{}]interface{}:
		v, ok := node[seg]
		return v, ok
	case []interface{}:
		i, err := strconv.Atoi(seg)
		if err != nil || i < 0 || i >= len(node) {
			return nil, false
		}
		return node[i], true
	}
	return nil, false
}

// AsMap returns v as a string-keyed map when it is one.
func AsMap(v interface{}) (map[string]interface{}, bool) {
	switch m := v.(type) {
	case map[string]interface{}:
		return m, true
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	}
	return nil, false
}
