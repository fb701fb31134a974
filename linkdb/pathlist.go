package linkdb

import "strings"

// TrustedPaths are always visible regardless of rpath/runpath/library_path,
// matching classical dynamic-linker search semantics (spec.md §4.1).
var TrustedPaths = []string{"/lib", "/usr/lib"}

// ColonSplit splits a colon-delimited path string into its components, in
// order. An empty string yields no components.
func ColonSplit(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ":")
}

// normalize strips duplicate slashes and resolves "." and ".." segments
// syntactically, returning "/" rather than "" for a path that normalizes
// to the root. Per spec.md §9's open question, this always normalizes in
// place: there is no code path that returns the input unchanged while
// having computed a different normalized form.
func normalize(p string) string {
	if p == "" {
		return ""
	}
	abs := strings.HasPrefix(p, "/")
	parts := strings.Split(p, "/")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		switch part {
		case "", ".":
			continue
		case "..":
			if len(out) > 0 && out[len(out)-1] != ".." {
				out = out[:len(out)-1]
			} else if !abs {
				out = append(out, part)
			}
		default:
			out = append(out, part)
		}
	}
	joined := strings.Join(out, "/")
	if abs {
		return "/" + joined
	}
	if joined == "" {
		return "."
	}
	return joined
}

// Normalize is the exported form of normalize, usable by loaders that
// need to pre-normalize paths before constructing Objects.
func Normalize(p string) string {
	return normalize(p)
}

func containsPath(list []string, dir string) bool {
	for _, d := range list {
		if d == dir {
			return true
		}
	}
	return false
}

// ldAppend appends dir (normalized) to list unless already present,
// returning the new list.
func ldAppend(list []string, dir string) []string {
	dir = normalize(dir)
	if containsPath(list, dir) {
		return list
	}
	return append(list, dir)
}

// ldPrepend prepends dir (normalized) to list, removing any existing
// occurrence first so there is never a duplicate.
func ldPrepend(list []string, dir string) []string {
	dir = normalize(dir)
	list = ldDeleteDir(list, dir)
	out := make([]string, 0, len(list)+1)
	out = append(out, dir)
	return append(out, list...)
}

// ldInsert inserts dir (normalized) at index i, moving an existing equal
// entry to the new index rather than creating a duplicate (spec.md §4.5).
func ldInsert(list []string, i int, dir string) []string {
	dir = normalize(dir)
	list = ldDeleteDir(list, dir)
	if i < 0 {
		i = 0
	}
	if i > len(list) {
		i = len(list)
	}
	out := make([]string, 0, len(list)+1)
	out = append(out, list[:i]...)
	out = append(out, dir)
	out = append(out, list[i:]...)
	return out
}

// ldDeleteAt removes the entry at index i, if in range.
func ldDeleteAt(list []string, i int) []string {
	if i < 0 || i >= len(list) {
		return list
	}
	out := make([]string, 0, len(list)-1)
	out = append(out, list[:i]...)
	out = append(out, list[i+1:]...)
	return out
}

// ldDeleteDir removes dir (normalized) from list, if present.
func ldDeleteDir(list []string, dir string) []string {
	dir = normalize(dir)
	out := make([]string, 0, len(list))
	for _, d := range list {
		if d == dir {
			continue
		}
		out = append(out, d)
	}
	return out
}
