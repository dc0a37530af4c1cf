package rtlexpr

// Search returns the first subtree of root equal (under wildcard
// matching) to pattern, visited depth-first pre-order: the node itself
// before its children, and for Binary/Ternary left before right.
func Search(root, pattern Exp) (Exp, bool) {
	if Equal(root, pattern) {
		return root, true
	}
	for _, c := range root.Children() {
		if found, ok := Search(c, pattern); ok {
			return found, true
		}
	}
	return nil, false
}

// SearchAll returns every subtree of root equal to pattern, in the same
// pre-order as Search. A node that matches is still descended into: the
// only pruning is that each node is tested once.
func SearchAll(root, pattern Exp) []Exp {
	var results []Exp
	var walk func(Exp)
	walk = func(e Exp) {
		if Equal(e, pattern) {
			results = append(results, e)
		}
		for _, c := range e.Children() {
			walk(c)
		}
	}
	walk(root)
	return results
}

// SearchReplace replaces the first subtree of root equal to pattern with
// a clone of replacement, pre-order. It reports whether a replacement
// was made.
func SearchReplace(root, pattern, replacement Exp) (Exp, bool) {
	done := false
	var walk func(Exp) Exp
	walk = func(e Exp) Exp {
		if done {
			return e
		}
		if Equal(e, pattern) {
			done = true
			return replacement.Clone()
		}
		children := e.Children()
		if len(children) == 0 {
			return e
		}
		newChildren := make([]Exp, len(children))
		changedHere := false
		for i, c := range children {
			nc := walk(c)
			newChildren[i] = nc
			if nc != c {
				changedHere = true
			}
		}
		if !changedHere {
			return e
		}
		return e.WithChildren(newChildren)
	}
	newRoot := walk(root)
	return newRoot, done
}

// SearchReplaceAll replaces every subtree of root equal to pattern with a
// fresh clone of replacement. Matches are determined against the
// original tree as it is walked; a replacement subtree is never itself
// rescanned, so a pattern that would match part of replacement is not
// chased through a second pass.
func SearchReplaceAll(root, pattern, replacement Exp) (Exp, bool) {
	changed := false
	var walk func(Exp) Exp
	walk = func(e Exp) Exp {
		if Equal(e, pattern) {
			changed = true
			return replacement.Clone()
		}
		children := e.Children()
		if len(children) == 0 {
			return e
		}
		newChildren := make([]Exp, len(children))
		changedHere := false
		for i, c := range children {
			nc := walk(c)
			newChildren[i] = nc
			if nc != c {
				changedHere = true
			}
		}
		if !changedHere {
			return e
		}
		return e.WithChildren(newChildren)
	}
	newRoot := walk(root)
	return newRoot, changed
}
