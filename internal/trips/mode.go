package trips

import "sort"

// Count is one row of a frequency table.
type Count struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// mode returns the value that first reaches the maximum frequency when
// scanning values in order. ok is false for an empty slice.
func mode[T comparable](values []T) (m T, ok bool) {
	if len(values) == 0 {
		return m, false
	}
	counts := make(map[T]int, len(values))
	best := 0
	for _, v := range values {
		counts[v]++
		if counts[v] > best {
			best = counts[v]
		}
	}
	running := make(map[T]int, len(counts))
	for _, v := range values {
		running[v]++
		if running[v] == best {
			return v, true
		}
	}
	return m, false
}

// valueCounts returns a frequency table sorted by descending count, ties
// kept in first-encounter order.
func valueCounts(values []string) []Count {
	pos := make(map[string]int)
	out := []Count{}
	for _, v := range values {
		i, seen := pos[v]
		if !seen {
			pos[v] = len(out)
			out = append(out, Count{Value: v})
			i = len(out) - 1
		}
		out[i].Count++
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Count > out[b].Count })
	return out
}

// nonBlank collects the non-empty results of get over rows.
func nonBlank(rows []Trip, get func(*Trip) string) []string {
	out := make([]string, 0, len(rows))
	for i := range rows {
		if v := get(&rows[i]); v != "" {
			out = append(out, v)
		}
	}
	return out
}
