package graph

import (
	"cmp"
	"fmt"
	"strings"
	"time"
)

// SortBy returns a comparator ordering entries by field: "title",
// "pathname" or a front matter key. Entries missing the field sort last in
// either direction; ties fall back to the pathname.
func SortBy(field string, descending bool) SortFunc {
	value := func(en *Entry) (any, bool) {
		switch field {
		case "title":
			return en.Title, en.Title != ""
		case "pathname":
			return en.Pathname, true
		}
		v, ok := en.FrontMatter[field]
		return v, ok && v != nil
	}

	return func(a, b *Entry) int {
		va, oka := value(a)
		vb, okb := value(b)
		switch {
		case !oka && !okb:
			return strings.Compare(a.Pathname, b.Pathname)
		case !oka:
			return 1
		case !okb:
			return -1
		}
		c := compareValues(va, vb)
		if descending {
			c = -c
		}
		if c != 0 {
			return c
		}
		return strings.Compare(a.Pathname, b.Pathname)
	}
}

// compareValues orders times and numbers by value and everything else by
// its string form.
func compareValues(a, b any) int {
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Compare(tb)
		}
	}
	if fa, ok := number(a); ok {
		if fb, ok := number(b); ok {
			return cmp.Compare(fa, fb)
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
