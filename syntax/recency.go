package syntax

import "container/list"

// recencyList is the per-kind "most recently successfully matched" LRU
// from spec.md §4.3 and §9: a small intrusive doubly-linked list with
// move-to-front and dedup-on-acknowledge, backed by stdlib container/list
// since spec.md explicitly suggests exactly that shape and nothing in the
// example pack supplies a ready-made LRU.
type recencyList struct {
	order *list.List               // front = most recently used
	index map[*Info]*list.Element
}

func newRecencyList() *recencyList {
	return &recencyList{order: list.New(), index: make(map[*Info]*list.Element)}
}

// acknowledge moves info to the front, inserting it if new.
func (r *recencyList) acknowledge(info *Info) {
	if el, ok := r.index[info]; ok {
		r.order.MoveToFront(el)
		return
	}
	el := r.order.PushFront(info)
	r.index[info] = el
}

// forget removes info from the recency list (used when an Info is
// unregistered — not exercised by spec.md's registration model, which
// has no unregister operation, but kept so the list stays consistent if
// a future caller ever needs it).
func (r *recencyList) forget(info *Info) {
	if el, ok := r.index[info]; ok {
		r.order.Remove(el)
		delete(r.index, info)
	}
}

// ordered returns the recency list's contents, most-recent first.
func (r *recencyList) ordered() []*Info {
	out := make([]*Info, 0, r.order.Len())
	for el := r.order.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value.(*Info))
	}
	return out
}

func (r *recencyList) has(info *Info) bool {
	_, ok := r.index[info]
	return ok
}
