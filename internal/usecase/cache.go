package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/fairyhunter13/ai-interview-analyzer/internal/domain"
)

// resultCache deduplicates identical analysis requests within a TTL window.
// Capacity-bounded with FIFO eviction; safe for concurrent use. Reads and
// writes are synchronous in-memory operations, never suspension points.
type resultCache struct {
	ttl      time.Duration
	capacity int
	mu       sync.Mutex
	m        map[string]cacheEntry
	ord      []string
	now      func() time.Time
}

type cacheEntry struct {
	analysis domain.InterviewAnalysis
	storedAt time.Time
}

func newResultCache(ttl time.Duration, capacity int) *resultCache {
	return &resultCache{
		ttl:      ttl,
		capacity: capacity,
		m:        make(map[string]cacheEntry),
		ord:      make([]string, 0, capacity),
		now:      time.Now,
	}
}

// cacheKey is a stable hash over candidate identity, job title, the ordered
// question ids and answer texts, and the resolved provider. Options that do
// not change the result (detailed, transcript) stay out of the key.
func cacheKey(req domain.AnalysisRequest, provider domain.ProviderID) string {
	var b strings.Builder
	b.WriteString(req.SessionID)
	b.WriteByte(0)
	b.WriteString(req.CandidateName)
	b.WriteByte(0)
	b.WriteString(req.JobTitle)
	b.WriteByte(0)
	for _, qa := range req.QuestionAnswers {
		b.WriteString(qa.QuestionID)
		b.WriteByte(0)
		b.WriteString(qa.Answer)
		b.WriteByte(0)
	}
	b.WriteString(string(provider))
	h := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(h[:])
}

func (c *resultCache) get(key string) (domain.InterviewAnalysis, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.m[key]
	if !ok {
		return domain.InterviewAnalysis{}, false
	}
	if c.now().Sub(e.storedAt) > c.ttl {
		delete(c.m, key)
		c.dropOrd(key)
		return domain.InterviewAnalysis{}, false
	}
	return e.analysis, true
}

// dropOrd removes key from the insertion-order slice. Keeping ord and m in
// lockstep is what makes FIFO eviction pick the true oldest entry after a
// TTL expiry and re-insert of the same key. Caller holds mu.
func (c *resultCache) dropOrd(key string) {
	for i, k := range c.ord {
		if k == key {
			c.ord = append(c.ord[:i], c.ord[i+1:]...)
			return
		}
	}
}

func (c *resultCache) put(key string, a domain.InterviewAnalysis) {
	if c.capacity <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.m[key]; exists {
		c.m[key] = cacheEntry{analysis: a, storedAt: c.now()}
		return
	}
	if len(c.ord) >= c.capacity {
		oldest := c.ord[0]
		c.ord = c.ord[1:]
		delete(c.m, oldest)
	}
	c.m[key] = cacheEntry{analysis: a, storedAt: c.now()}
	c.ord = append(c.ord, key)
}
