package router

// node is a radix tree node, generalized from the teacher's single-level
// method trees (bolt/core/router.go) to also hold a mounted sub-Router
// (see Layer) so that nested routers compose the same way a literal or
// parameter segment does. Field order keeps the hot lookup fields
// (label, kind, children, handler) first, mirroring the cache-line
// grouping comment style the teacher annotates its own node with.
type node struct {
	label byte
	kind  segmentKind

	text      string
	children  []*node
	handler   Handler
	mount     *Layer // non-nil if this node forwards into a nested Router
	mountSegs int    // number of path segments consumed to reach this mount

	indices  string
	priority uint32
}

func (n *node) findOrCreateChild(seg segment) *node {
	var label byte
	if seg.kind == segLiteral && len(seg.text) > 0 {
		label = seg.text[0]
	}

	for i, c := range n.indices {
		if byte(c) == label {
			child := n.children[i]
			if child.kind == seg.kind && child.text == seg.text {
				return child
			}
		}
	}
	for _, child := range n.children {
		if child.kind == seg.kind && child.text == seg.text {
			return child
		}
	}

	child := &node{kind: seg.kind, text: seg.text, label: label, priority: 1}
	n.children = append(n.children, child)
	n.indices += string(label)
	return child
}

// search walks the tree for segments[idx:], extracting parameters into
// rp as it descends, precedence literal > param > wildcard exactly as
// the teacher's searchNodeBytes applies it.
func (n *node) search(segments []string, idx int, rp *RouteParams) *node {
	if n.mount != nil {
		// A mount swallows every remaining segment: the nested Router
		// gets the full, un-matched tail regardless of how many more
		// segments there are.
		return n
	}
	if idx >= len(segments) {
		if n.handler != nil {
			return n
		}
		return nil
	}
	seg := segments[idx]

	if len(seg) > 0 {
		label := seg[0]
		for i, c := range n.indices {
			if byte(c) != label {
				continue
			}
			child := n.children[i]
			if child.kind != segLiteral || child.label != label {
				continue
			}
			if child.text == seg {
				child.priority++
				if i > 0 && child.priority > n.children[0].priority {
					n.children[0], n.children[i] = n.children[i], n.children[0]
					idxBytes := []byte(n.indices)
					idxBytes[0], idxBytes[i] = idxBytes[i], idxBytes[0]
					n.indices = string(idxBytes)
				}
				if found := child.search(segments, idx+1, rp); found != nil {
					return found
				}
			}
		}
	}

	for _, child := range n.children {
		if child.kind != segParam {
			continue
		}
		countBefore, overflowBefore := rp.count, len(rp.overflow)
		rp.addParam(child.text, seg)
		if found := child.search(segments, idx+1, rp); found != nil {
			return found
		}
		rp.count = countBefore
		rp.overflow = rp.overflow[:overflowBefore]
	}

	for _, child := range n.children {
		if child.kind != segWildcard {
			continue
		}
		remaining := joinRemaining(segments, idx)
		rp.addParam(child.text, remaining)
		return child
	}

	return nil
}

func joinRemaining(segments []string, idx int) string {
	if idx >= len(segments) {
		return ""
	}
	out := segments[idx]
	for _, s := range segments[idx+1:] {
		out += "/" + s
	}
	return out
}
