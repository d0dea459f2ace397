package crawl

import (
	"container/heap"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/sheetsprojectsofficial/coldemail"
)

// QueuedURL is a frontier entry.
type QueuedURL struct {
	URL    string
	Depth  int
	Source coldemail.Source
	// Parent is the page the URL was discovered on, empty for seeds.
	Parent string
}

// Frontier is the per-run crawl state: a pending queue and a Bloom filter
// of URLs already queued or visited. Deeper entries are popped first and
// entries of equal depth in insertion order, so a page's child links are
// visited right after it. It is safe for concurrent use.
//
// A filter false positive drops a URL that was never queued; it never lets
// a URL be queued twice.
type Frontier struct {
	mu      sync.Mutex
	seen    *bloom.BloomFilter
	visited []string
	queue   *entryHeap
	seq     int
}

// NewFrontier creates a Frontier whose filter is sized for expectedItems
// URLs at the given false positive rate.
func NewFrontier(expectedItems uint, fpRate float64) *Frontier {
	if expectedItems == 0 {
		expectedItems = 64
	}
	h := &entryHeap{}
	heap.Init(h)
	return &Frontier{
		seen:  bloom.NewWithEstimates(expectedItems, fpRate),
		queue: h,
	}
}

// Push adds an entry. Returns false if its normalized URL has already been
// queued or visited in this run.
func (f *Frontier) Push(q QueuedURL) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := coldemail.NormalizeURL(q.URL)
	if key == "" {
		return false
	}
	if f.seen.TestAndAddString(key) {
		return false
	}

	heap.Push(f.queue, entry{QueuedURL: q, seq: f.seq})
	f.seq++
	return true
}

// Pop removes the next entry and marks it visited.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (QueuedURL, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.queue.Len() == 0 {
		return QueuedURL{}, false
	}
	e, _ := heap.Pop(f.queue).(entry)
	f.visited = append(f.visited, coldemail.NormalizeURL(e.URL))
	return e.QueuedURL, true
}

// Len returns the number of pending entries.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queue.Len()
}

// Seen returns true if the URL has been queued or visited.
func (f *Frontier) Seen(rawURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := coldemail.NormalizeURL(rawURL)
	return key != "" && f.seen.TestString(key)
}

// Visited returns the number of popped entries.
func (f *Frontier) Visited() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.visited)
}

// VisitedURLs returns the normalized visited URLs in visit order.
func (f *Frontier) VisitedURLs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.visited...)
}

type entry struct {
	QueuedURL
	seq int
}

// entryHeap implements heap.Interface: higher depth first, then FIFO.
type entryHeap []entry

func (h entryHeap) Len() int { return len(h) }

func (h entryHeap) Less(i, j int) bool {
	if h[i].Depth != h[j].Depth {
		return h[i].Depth > h[j].Depth
	}
	return h[i].seq < h[j].seq
}

func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *entryHeap) Push(x any) {
	e, _ := x.(entry)
	*h = append(*h, e)
}

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}
