package dataset

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tphakala/rps-results/internal/lru"
	"github.com/tphakala/rps-results/internal/observability/metrics"
)

// Memo is a bounded dataset memo whose keys end in ":<result set id>".
type Memo struct {
	name    string
	cache   *lru.Cache[string, *Dataset]
	metrics *metrics.ResultCacheMetrics
}

// NewMemo creates a memo named name for metrics labels.
func NewMemo(name string, size int, m *metrics.ResultCacheMetrics) *Memo {
	return &Memo{name: name, cache: lru.New[string, *Dataset](size), metrics: m}
}

// Get returns the memoized dataset of key.
func (m *Memo) Get(key string) (*Dataset, bool) {
	ds, ok := m.cache.Get(key)
	if ok {
		m.metrics.RecordRequest(m.name, metrics.OutcomeHit)
	}
	return ds, ok
}

// Put memoizes ds under key. A nil dataset is counted but not stored so the
// next request reads storage again.
func (m *Memo) Put(key string, ds *Dataset) {
	if ds == nil {
		m.metrics.RecordRequest(m.name, metrics.OutcomeEmpty)
		return
	}
	m.metrics.RecordRequest(m.name, metrics.OutcomeMiss)
	m.cache.Set(key, ds)
	m.metrics.SetMemoEntries(m.name, m.cache.Len())
}

// Delete removes one key.
func (m *Memo) Delete(key string) bool {
	if !m.cache.Delete(key) {
		return false
	}
	m.afterRemove(1)
	return true
}

// DeleteFunc removes the keys matched by match.
func (m *Memo) DeleteFunc(match func(string) bool) int {
	n := m.cache.DeleteFunc(match)
	m.afterRemove(n)
	return n
}

// DeleteResultSet removes every key of a result set.
func (m *Memo) DeleteResultSet(resultSetID uint) int {
	return m.DeleteFunc(ResultSetMatcher(resultSetID))
}

// Clear removes everything.
func (m *Memo) Clear() {
	n := m.cache.Len()
	m.cache.Clear()
	m.afterRemove(n)
}

// Keys returns the memoized keys, most recent first.
func (m *Memo) Keys() []string {
	return m.cache.Keys()
}

// Stats returns the LRU counters.
func (m *Memo) Stats() lru.Stats {
	return m.cache.Stats()
}

func (m *Memo) afterRemove(n int) {
	m.metrics.RecordInvalidation(m.name, n)
	m.metrics.SetMemoEntries(m.name, m.cache.Len())
}

// ResultSetMatcher matches memo keys that end in the result set id. The
// separator keeps id 1 from matching 11.
func ResultSetMatcher(resultSetID uint) func(string) bool {
	suffix := ":" + strconv.FormatUint(uint64(resultSetID), 10)
	return func(key string) bool {
		return strings.HasSuffix(key, suffix)
	}
}

// MemoKey joins key parts with ':'. The result set id must be last.
func MemoKey(parts ...any) string {
	var b strings.Builder
	for i, p := range parts {
		if i > 0 {
			b.WriteByte(':')
		}
		switch v := p.(type) {
		case string:
			b.WriteString(v)
		case uint:
			b.WriteString(strconv.FormatUint(uint64(v), 10))
		case int:
			b.WriteString(strconv.Itoa(v))
		default:
			fmt.Fprint(&b, v)
		}
	}
	return b.String()
}
