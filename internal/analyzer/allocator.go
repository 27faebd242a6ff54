package analyzer

// resolveAllocatorFixedPoint implements SPEC_FULL.md §4.3's allocator-need
// fixed-point analysis: a function also needs an allocator if it calls
// another function that needs one. Unresolved callees (names not present
// in r.Functions — built-ins, methods, or unknown names) are treated as
// not-needing. Class methods are excluded: per §4.4.6 they are never
// fallible in the supported subset.
func resolveAllocatorFixedPoint(r *Result) {
	for {
		changed := false
		for _, fn := range r.Functions {
			if fn.NeedsAllocator {
				continue
			}
			for callee := range fn.Calls {
				target, ok := r.Functions[callee]
				if ok && target.NeedsAllocator {
					fn.NeedsAllocator = true
					changed = true
					break
				}
			}
		}
		if !changed {
			return
		}
	}
}
