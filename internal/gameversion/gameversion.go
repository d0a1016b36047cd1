// Package gameversion orders Minecraft game version strings such as
// "1.18", "1.18.2" or "1.20.1-rc1".
package gameversion

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
)

// parse splits "1.18.2-pre1" into [1 18 2] and "-pre1".
// ok is false when any dot segment is not numeric.
func parse(v string) (parts []int, suffix string, ok bool) {
	v = strings.TrimSpace(v)
	if idx := strings.IndexByte(v, '-'); idx >= 0 {
		suffix = v[idx:]
		v = v[:idx]
	}
	if v == "" {
		return nil, suffix, false
	}
	for _, s := range strings.Split(v, ".") {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, suffix, false
		}
		parts = append(parts, n)
	}
	return parts, suffix, true
}

// Compare returns -1, 0 or 1. Numeric segments compare numerically, missing
// segments count as zero, and a suffixed pre-release sorts before its release.
// Non-numeric versions fall back to plain string comparison.
func Compare(a, b string) int {
	pa, sa, okA := parse(a)
	pb, sb, okB := parse(b)
	if !okA || !okB {
		return cmp.Compare(a, b)
	}

	for i := 0; i < max(len(pa), len(pb)); i++ {
		var x, y int
		if i < len(pa) {
			x = pa[i]
		}
		if i < len(pb) {
			y = pb[i]
		}
		if c := cmp.Compare(x, y); c != 0 {
			return c
		}
	}

	switch {
	case sa == sb:
		return 0
	case sa == "":
		return 1
	case sb == "":
		return -1
	default:
		return cmp.Compare(sa, sb)
	}
}

// Sorted returns versions in ascending order without modifying the input.
func Sorted(versions []string) []string {
	out := slices.Clone(versions)
	slices.SortStableFunc(out, Compare)
	return out
}
