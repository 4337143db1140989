package pathname

import (
	"strconv"
	"strings"
)

// CompareOrderKeys compares two order keys segment-wise numerically.
// A key that runs out of segments sorts before one that continues, so ""
// sorts before "01" and "01" before "01.01".
func CompareOrderKeys(a, b string) int {
	as := splitKey(a)
	bs := splitKey(b)
	for i := 0; i < len(as) && i < len(bs); i++ {
		if as[i] != bs[i] {
			if as[i] < bs[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(as) < len(bs):
		return -1
	case len(as) > len(bs):
		return 1
	}
	return 0
}

func splitKey(key string) []int {
	if key == "" {
		return nil
	}
	parts := strings.Split(key, ".")
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			n = 0
		}
		out = append(out, n)
	}
	return out
}

// Compare orders two pathnames by order key, then lexically.
func Compare(aKey, aPath, bKey, bPath string) int {
	if c := CompareOrderKeys(aKey, bKey); c != 0 {
		return c
	}
	return strings.Compare(aPath, bPath)
}
