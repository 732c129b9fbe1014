package explorer

import "log"

// Subscribe returns a buffered channel that receives every Notice.
func (e *Explorer) Subscribe() <-chan Notice {
	ch := make(chan Notice, subscriberBuffer)
	e.mu.Lock()
	e.subscribers = append(e.subscribers, ch)
	e.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes a channel returned by Subscribe.
func (e *Explorer) Unsubscribe(ch <-chan Notice) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, c := range e.subscribers {
		if c == ch {
			e.subscribers = append(e.subscribers[:i], e.subscribers[i+1:]...)
			close(c)
			return
		}
	}
}

// Dropped returns the number of notices dropped for slow subscribers.
func (e *Explorer) Dropped() int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.dropped
}

// broadcast never blocks: a full subscriber misses the notice.
func (e *Explorer) broadcast(n Notice) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, ch := range e.subscribers {
		select {
		case ch <- n:
		default:
			e.dropped++
			log.Printf("[EXPLORER] Dropped notice for slow subscriber (total dropped: %d)", e.dropped)
		}
	}
}
