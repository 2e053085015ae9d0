package imgops

import "sort"

// References returns the distinct image names that ops need from a
// Resolver, sorted. Names are case sensitive.
func References(ops []Operation) []string {
	seen := map[string]bool{}
	var out []string
	add := func(names ...string) {
		for _, n := range names {
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	for _, op := range ops {
		switch op := op.(type) {
		case AlphaMask:
			add(op.Images...)
		case Blend:
			add(op.Images...)
		case CopyInto:
			add(op.Image)
		case DrawInto:
			add(op.Image)
		}
	}
	sort.Strings(out)
	return out
}
