package model

import (
	"reflect"
	"testing"
)

// TestCrawlState tests queue and visited-set bookkeeping.
func TestCrawlState(t *testing.T) {
	t.Parallel()

	t.Run("seed is the first URL", func(t *testing.T) {
		t.Parallel()
		s := NewCrawlState("https://a.example/", 5)
		if !s.HasNext() {
			t.Fatal("expected seed to be queued")
		}
		u, ok := s.Next()
		if !ok || u != "https://a.example/" {
			t.Errorf("Next() = %q, %v", u, ok)
		}
		if !s.IsVisited(u) {
			t.Error("expected seed to be visited")
		}
		if s.HasNext() {
			t.Error("expected empty queue")
		}
	})

	t.Run("visited and queued URLs are not re-enqueued", func(t *testing.T) {
		t.Parallel()
		s := NewCrawlState("https://a.example/", 5)
		s.Next()
		if s.Enqueue("https://a.example/") {
			t.Error("expected visited URL to be rejected")
		}
		if !s.Enqueue("https://a.example/b") {
			t.Error("expected new URL to be accepted")
		}
		if s.Enqueue("https://a.example/b") {
			t.Error("expected queued URL to be rejected")
		}
		if s.QueueLen() != 1 {
			t.Errorf("expected queue length 1, got %d", s.QueueLen())
		}
	})

	t.Run("queue is bounded by capacity", func(t *testing.T) {
		t.Parallel()
		s := NewCrawlState("https://a.example/", 2)
		if !s.Enqueue("https://a.example/b") {
			t.Error("expected second URL to fit")
		}
		if s.Enqueue("https://a.example/c") {
			t.Error("expected full queue to reject")
		}
	})

	t.Run("budget stops the crawl", func(t *testing.T) {
		t.Parallel()
		s := NewCrawlState("https://a.example/", 2)
		s.Next()
		s.Enqueue("https://a.example/b")
		s.Next()
		s.Enqueue("https://a.example/c")
		if s.HasNext() {
			t.Error("expected budget to be spent")
		}
		want := []string{"https://a.example/", "https://a.example/b"}
		if got := s.Visited(); !reflect.DeepEqual(got, want) {
			t.Errorf("Visited() = %v, want %v", got, want)
		}
		if s.VisitedCount() != 2 {
			t.Errorf("expected 2 visited, got %d", s.VisitedCount())
		}
	})

	t.Run("Visited returns a copy", func(t *testing.T) {
		t.Parallel()
		s := NewCrawlState("https://a.example/", 2)
		s.Next()
		v := s.Visited()
		v[0] = "mutated"
		if s.Visited()[0] != "https://a.example/" {
			t.Error("expected internal order to be unaffected")
		}
	})
}
