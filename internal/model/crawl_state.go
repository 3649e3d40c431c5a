package model

// CrawlState is the mutable bookkeeping of one crawl.
// It is owned by a single analysis and never shared between goroutines.
type CrawlState struct {
	// visited holds normalized URLs already fetched.
	visited map[string]struct{}

	// order keeps visited URLs in visit order for reporting.
	order []string

	// queue is the FIFO of URLs waiting to be fetched.
	queue []string

	// queued mirrors queue for O(1) membership checks.
	queued map[string]struct{}

	// capacity bounds both the queue length and the visited set.
	capacity int
}

// NewCrawlState creates a state seeded with a single URL.
func NewCrawlState(seed string, capacity int) *CrawlState {
	s := &CrawlState{
		visited:  make(map[string]struct{}),
		order:    make([]string, 0, capacity),
		queue:    make([]string, 0, capacity),
		queued:   make(map[string]struct{}),
		capacity: capacity,
	}
	s.Enqueue(seed)
	return s
}

// HasNext reports whether the crawl may process another URL:
// the queue is non-empty and the page budget is not spent.
func (s *CrawlState) HasNext() bool {
	return len(s.queue) > 0 && len(s.visited) < s.capacity
}

// Next pops the next unvisited URL and marks it visited.
// It returns false when the queue holds nothing new.
func (s *CrawlState) Next() (string, bool) {
	for len(s.queue) > 0 {
		u := s.queue[0]
		s.queue = s.queue[1:]
		delete(s.queued, u)
		if _, seen := s.visited[u]; seen {
			continue
		}
		s.visited[u] = struct{}{}
		s.order = append(s.order, u)
		return u, true
	}
	return "", false
}

// Enqueue appends a URL unless it was already visited, is already queued,
// or the queue is full. It reports whether the URL was added.
func (s *CrawlState) Enqueue(u string) bool {
	if len(s.queue) >= s.capacity {
		return false
	}
	if _, seen := s.visited[u]; seen {
		return false
	}
	if _, ok := s.queued[u]; ok {
		return false
	}
	s.queue = append(s.queue, u)
	s.queued[u] = struct{}{}
	return true
}

// IsVisited reports whether the URL was already fetched.
func (s *CrawlState) IsVisited(u string) bool {
	_, ok := s.visited[u]
	return ok
}

// Visited returns a copy of the visited URLs in visit order.
func (s *CrawlState) Visited() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// VisitedCount returns the number of pages visited so far.
func (s *CrawlState) VisitedCount() int {
	return len(s.visited)
}

// QueueLen returns the number of URLs waiting.
func (s *CrawlState) QueueLen() int {
	return len(s.queue)
}
