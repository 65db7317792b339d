package wintype

import (
	"log/slog"
	"regexp"
	"strings"
	"sync"
)

// DefaultCacheCapacity bounds the compiled-pattern cache. Preview tooling can
// generate many one-off patterns; the cap keeps memory bounded.
const DefaultCacheCapacity = 50

// Matcher tests windows against WindowType patterns. Compiled patterns are
// memoized in a bounded cache with oldest-inserted-first eviction.
type Matcher struct {
	mu       sync.Mutex
	capacity int
	compiled map[string]*regexp.Regexp
	order    []string // insertion order, oldest first
	failed   map[string]bool
	logger   *slog.Logger
}

// NewMatcher creates a matcher with the given cache capacity. A capacity
// of 0 or less uses DefaultCacheCapacity.
func NewMatcher(capacity int, logger *slog.Logger) *Matcher {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{
		capacity: capacity,
		compiled: make(map[string]*regexp.Regexp),
		failed:   make(map[string]bool),
		logger:   logger,
	}
}

// Matches reports whether a window with the given title and class belongs to
// type t. Disabled types never match; both patterns must match.
func (m *Matcher) Matches(t WindowType, title, class string) bool {
	if !t.Enabled {
		return false
	}
	return m.matchPattern(t.TitlePattern, title) && m.matchPattern(t.ClassPattern, class)
}

func (m *Matcher) matchPattern(pattern, value string) bool {
	if pattern == "" || pattern == "*" {
		return true
	}

	re, ok := m.pattern(pattern)
	if !ok {
		return false
	}
	return re.MatchString(value)
}

func (m *Matcher) pattern(pattern string) (*regexp.Regexp, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if re, ok := m.compiled[pattern]; ok {
		return re, true
	}
	if m.failed[pattern] {
		return nil, false
	}

	re, err := compilePattern(pattern)
	if err != nil {
		// Malformed patterns disqualify the rule, never abort the pass.
		m.logger.Warn("invalid window type pattern", "pattern", pattern, "error", err)
		m.failed[pattern] = true
		return nil, false
	}

	if len(m.order) >= m.capacity {
		oldest := m.order[0]
		m.order = m.order[1:]
		delete(m.compiled, oldest)
	}
	m.compiled[pattern] = re
	m.order = append(m.order, pattern)

	return re, true
}

// compilePattern converts a glob pattern into an anchored, case-insensitive
// regexp. Every character except `*` is treated literally.
func compilePattern(pattern string) (*regexp.Regexp, error) {
	parts := strings.Split(pattern, "*")
	for i, part := range parts {
		parts[i] = regexp.QuoteMeta(part)
	}
	return regexp.Compile("(?i)^" + strings.Join(parts, ".*") + "$")
}
