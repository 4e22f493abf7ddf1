package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"github.com/affirmly/affirmation-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubSource struct {
	fetchFn func(ctx context.Context) (string, error)
	calls   atomic.Int64
}

func (s *stubSource) Fetch(ctx context.Context) (string, error) {
	s.calls.Add(1)
	return s.fetchFn(ctx)
}

func returning(text string, err error) *stubSource {
	return &stubSource{fetchFn: func(context.Context) (string, error) { return text, err }}
}

// sequence returns texts[0], texts[1], ... on successive calls.
func sequence(texts ...string) *stubSource {
	var mu sync.Mutex
	i := 0
	return &stubSource{fetchFn: func(context.Context) (string, error) {
		mu.Lock()
		defer mu.Unlock()
		t := texts[i%len(texts)]
		i++
		return t, nil
	}}
}

func newCache(src *stubSource) *AffirmationCache {
	return NewAffirmationCache(src, 0, zerolog.Nop())
}

// ---------------------------------------------------------------------------
// Fetch
// ---------------------------------------------------------------------------

func TestAffirmationCache_Fetch_Success(t *testing.T) {
	c := newCache(returning("You are amazing!", nil))

	before := c.Count()
	res := c.Fetch(context.Background())

	if res.Outcome != domain.OutcomeFetched || !res.OK() {
		t.Fatalf("expected fetched, got %+v", res)
	}
	if res.Affirmation != "You are amazing!" {
		t.Errorf("unexpected affirmation %q", res.Affirmation)
	}
	if c.Count() != before+1 {
		t.Errorf("expected count %d, got %d", before+1, c.Count())
	}
	all := c.List()
	if all[len(all)-1] != "You are amazing!" {
		t.Errorf("last element: want %q, got %q", "You are amazing!", all[len(all)-1])
	}
}

func TestAffirmationCache_Fetch_NoData(t *testing.T) {
	c := newCache(returning("", fmt.Errorf("status 503: %w", domain.ErrNoAffirmation)))

	res := c.Fetch(context.Background())

	if res.Outcome != domain.OutcomeNoData {
		t.Fatalf("expected no_data, got %+v", res)
	}
	if res.OK() {
		t.Error("no_data must not report OK")
	}
	if c.Count() != 0 {
		t.Errorf("cache must not change on no_data, got count %d", c.Count())
	}
}

func TestAffirmationCache_Fetch_EmptyTextIsNoData(t *testing.T) {
	c := newCache(returning("", nil))

	res := c.Fetch(context.Background())

	if res.Outcome != domain.OutcomeNoData {
		t.Fatalf("expected no_data for empty text, got %+v", res)
	}
	if c.Count() != 0 {
		t.Errorf("empty text must never be stored")
	}
}

func TestAffirmationCache_Fetch_TransportError(t *testing.T) {
	c := newCache(returning("", errors.New("API error")))

	res := c.Fetch(context.Background())

	if res.Outcome != domain.OutcomeTransportError {
		t.Fatalf("expected transport_error, got %+v", res)
	}
	if !strings.Contains(res.Message, "API error") {
		t.Errorf("message must carry the error description, got %q", res.Message)
	}
	if res.Affirmation != "" {
		t.Errorf("transport_error must not carry an affirmation")
	}
	if c.Count() != 0 {
		t.Errorf("cache must not change on transport_error, got count %d", c.Count())
	}
}

func TestAffirmationCache_Fetch_OneUpstreamCallPerInvocation(t *testing.T) {
	src := returning("", errors.New("connection refused"))
	c := newCache(src)

	c.Fetch(context.Background())

	if n := src.calls.Load(); n != 1 {
		t.Errorf("expected exactly 1 upstream call, got %d", n)
	}
}

func TestAffirmationCache_Fetch_PreservesOrderAndDuplicates(t *testing.T) {
	texts := []string{"Stay positive", "You got this", "Stay positive"}
	c := newCache(sequence(texts...))

	for range texts {
		if res := c.Fetch(context.Background()); !res.OK() {
			t.Fatalf("unexpected result %+v", res)
		}
	}

	if c.Count() != len(texts) {
		t.Fatalf("expected count %d, got %d", len(texts), c.Count())
	}
	got := c.List()
	for i := range texts {
		if got[i] != texts[i] {
			t.Errorf("index %d: want %q, got %q", i, texts[i], got[i])
		}
	}
}

func TestAffirmationCache_Fetch_ConcurrentNoLostUpdates(t *testing.T) {
	c := newCache(returning("Breathe", nil))
	const n = 200

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			c.Fetch(context.Background())
		}()
	}
	wg.Wait()

	if c.Count() != n {
		t.Errorf("expected %d stored affirmations, got %d", n, c.Count())
	}
}

func TestAffirmationCache_Fetch_DoesNotHoldLockDuringUpstreamCall(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	src := &stubSource{fetchFn: func(context.Context) (string, error) {
		close(entered)
		<-release
		return "Later", nil
	}}
	c := newCache(src)

	done := make(chan domain.FetchResult)
	go func() { done <- c.Fetch(context.Background()) }()

	<-entered
	// Readers must not block while the upstream call is in flight.
	if c.Count() != 0 {
		t.Errorf("expected pre-append count 0, got %d", c.Count())
	}
	c.Clear()
	close(release)

	if res := <-done; !res.OK() {
		t.Fatalf("unexpected result %+v", res)
	}
	if c.Count() != 1 {
		t.Errorf("expected post-append count 1, got %d", c.Count())
	}
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

func TestAffirmationCache_List_ReturnsCopy(t *testing.T) {
	c := newCache(sequence("Stay positive", "You got this"))
	c.Fetch(context.Background())
	c.Fetch(context.Background())

	got := c.List()
	got[0] = "tampered"

	if c.List()[0] != "Stay positive" {
		t.Error("mutating the returned slice must not affect the cache")
	}
}

func TestAffirmationCache_List_EmptyIsNonNil(t *testing.T) {
	c := newCache(returning("x", nil))

	got := c.List()
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestAffirmationCache_Clear(t *testing.T) {
	c := newCache(sequence("Stay positive", "You got this"))
	c.Fetch(context.Background())
	c.Fetch(context.Background())

	c.Clear()

	if c.Count() != 0 {
		t.Errorf("expected empty cache after clear, got %d", c.Count())
	}
	if len(c.List()) != 0 {
		t.Errorf("expected empty list after clear")
	}
}

func TestAffirmationCache_Clear_Idempotent(t *testing.T) {
	c := newCache(returning("x", nil))

	c.Clear()
	c.Clear()
	c.Clear()

	if c.Count() != 0 {
		t.Errorf("expected 0, got %d", c.Count())
	}

	// Cache keeps working after repeated clears.
	c.Fetch(context.Background())
	if c.Count() != 1 {
		t.Errorf("expected 1 after fetch, got %d", c.Count())
	}
}

func TestAffirmationCache_Random_Empty(t *testing.T) {
	c := newCache(returning("x", nil))

	text, ok := c.Random()
	if ok {
		t.Fatalf("expected unavailable on empty cache, got %q", text)
	}
	if text != "" {
		t.Errorf("expected empty text, got %q", text)
	}
}

func TestAffirmationCache_Random_MemberOfList(t *testing.T) {
	c := newCache(sequence("a", "b", "c", "d"))
	for i := 0; i < 4; i++ {
		c.Fetch(context.Background())
	}

	members := make(map[string]bool)
	for _, s := range c.List() {
		members[s] = true
	}
	for i := 0; i < 100; i++ {
		text, ok := c.Random()
		if !ok {
			t.Fatal("expected a value from a non-empty cache")
		}
		if !members[text] {
			t.Fatalf("random pick %q is not in the stored list", text)
		}
	}
}

func TestAffirmationCache_Random_DrawsFromWholeHistory(t *testing.T) {
	c := newCache(sequence("first", "second", "third"))
	for i := 0; i < 3; i++ {
		c.Fetch(context.Background())
	}
	c.intn = func(int) int { return 0 }

	text, ok := c.Random()
	if !ok || text != "first" {
		t.Errorf("expected the oldest entry to be selectable, got %q (ok=%v)", text, ok)
	}
}

func TestAffirmationCache_Fetch_LogsCountOfItsOwnAppend(t *testing.T) {
	var logs bytes.Buffer
	c := NewAffirmationCache(sequence("a", "b", "c"), 2, zerolog.New(&logs))

	for i := 0; i < 3; i++ {
		c.Fetch(context.Background())
	}

	var counts []int
	dec := json.NewDecoder(&logs)
	for dec.More() {
		var line struct {
			Message string `json:"message"`
			Count   int    `json:"count"`
		}
		if err := dec.Decode(&line); err != nil {
			t.Fatalf("decode log line: %v", err)
		}
		if line.Message == "affirmation stored" {
			counts = append(counts, line.Count)
		}
	}

	want := []int{1, 2, 2}
	if len(counts) != len(want) {
		t.Fatalf("expected %d stored lines, got %v", len(want), counts)
	}
	for i := range want {
		if counts[i] != want[i] {
			t.Errorf("line %d: want count %d, got %d", i, want[i], counts[i])
		}
	}
}

func TestAffirmationCache_Append_ReturnsLengthUnderLock(t *testing.T) {
	c := NewAffirmationCache(returning("x", nil), 0, zerolog.Nop())
	const n = 100

	seen := make(chan int, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			seen <- c.append("x")
		}()
	}
	wg.Wait()
	close(seen)

	distinct := make(map[int]bool, n)
	for v := range seen {
		if distinct[v] {
			t.Fatalf("length %d returned twice", v)
		}
		distinct[v] = true
	}
	if len(distinct) != n {
		t.Errorf("expected %d distinct lengths, got %d", n, len(distinct))
	}
}

// ---------------------------------------------------------------------------
// Capacity
// ---------------------------------------------------------------------------

func TestAffirmationCache_Capacity_DropsOldest(t *testing.T) {
	c := NewAffirmationCache(sequence("a", "b", "c", "d"), 2, zerolog.Nop())
	for i := 0; i < 4; i++ {
		c.Fetch(context.Background())
	}

	got := c.List()
	if len(got) != 2 || got[0] != "c" || got[1] != "d" {
		t.Errorf("expected [c d], got %v", got)
	}
}

func TestAffirmationCache_Capacity_NegativeMeansUnbounded(t *testing.T) {
	c := NewAffirmationCache(returning("x", nil), -5, zerolog.Nop())
	for i := 0; i < 10; i++ {
		c.Fetch(context.Background())
	}
	if c.Count() != 10 {
		t.Errorf("expected 10, got %d", c.Count())
	}
}
