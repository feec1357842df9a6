package wall

// queue is the FIFO presentation queue. An identifier is held at most once.
// It is not safe for concurrent use; the coordinator guards it.
type queue struct {
	items []Item
	ids   map[string]struct{}
}

func newQueue() *queue {
	return &queue{ids: make(map[string]struct{})}
}

// push appends item unless its identifier is already queued.
func (q *queue) push(item Item) bool {
	if _, ok := q.ids[item.ID]; ok {
		return false
	}
	q.ids[item.ID] = struct{}{}
	q.items = append(q.items, item)
	return true
}

// pop removes the oldest item.
func (q *queue) pop() (Item, bool) {
	if len(q.items) == 0 {
		return Item{}, false
	}
	item := q.items[0]
	q.items[0] = Item{}
	q.items = q.items[1:]
	delete(q.ids, item.ID)
	return item, true
}

func (q *queue) len() int {
	return len(q.items)
}

func (q *queue) snapshot() []Item {
	if len(q.items) == 0 {
		return nil
	}
	out := make([]Item, len(q.items))
	copy(out, q.items)
	return out
}
