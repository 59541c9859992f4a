package responder

import "sync"

// DefaultHistoryLimit is how many exchanges are remembered per sender.
const DefaultHistoryLimit = 5

type Exchange struct {
	Question string
	Answer   string
}

// Context keeps the most recent exchanges per sender, oldest evicted first.
// Replies never read it back; it only bounds what the assistant remembers.
type Context struct {
	mu      sync.Mutex
	limit   int
	history map[string][]Exchange
}

func NewContext(limit int) *Context {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &Context{limit: limit, history: make(map[string][]Exchange)}
}

func (c *Context) Add(sender, question, answer string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	h := append(c.history[sender], Exchange{Question: question, Answer: answer})
	if len(h) > c.limit {
		h = append([]Exchange(nil), h[len(h)-c.limit:]...)
	}
	c.history[sender] = h
}

// History returns a copy of sender's exchanges, oldest first.
func (c *Context) History(sender string) []Exchange {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Exchange(nil), c.history[sender]...)
}

func (c *Context) Forget(sender string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.history, sender)
}
