// Package snmptranslate converts between numeric OIDs and PROFTPD-MIB
// object names.
//
// The translator is built from a registry table: every entry contributes
// its object and instance names, and the group arcs between BaseOID and
// the objects are named after the leading segments of the object names.
// A handful of SNMPv2 names (sysUpTime, snmpTrapOID and the generic trap
// notifications) are always known.
//
// Basic Usage:
//
//	reg, _ := mib.NewDefault(store.New())
//	tr, err := snmptranslate.New(reg, snmptranslate.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer tr.Close()
//
//	name, _ := tr.Translate(".1.3.6.1.4.1.17852.2.2.2.7.0")
//	// name == "daemon.connectionTotal.0"
//
//	oid, _ := tr.Resolve("ftp.sessions.sessionCount.0")
//	// oid.String() == "1.3.6.1.4.1.17852.2.2.3.1.1.0"
//
// OIDs below a known node but not themselves registered translate to the
// deepest known name followed by the remaining numeric arcs, the way
// snmptranslate prints partially known OIDs.
package snmptranslate

import (
	"container/list"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/geekxflood/ftpmib/logging"
	"github.com/geekxflood/ftpmib/mib"
)

// Module names used when qualifying translations.
const (
	ModuleProFTPD = "PROFTPD-MIB"
	ModuleSNMPv2  = "SNMPv2-MIB"
)

var (
	// ErrClosed is returned by every operation after Close.
	ErrClosed = errors.New("translator closed")

	// ErrUnknownOID is returned when no known node prefixes an OID.
	ErrUnknownOID = errors.New("OID not found")

	// ErrUnknownName is returned when a name does not resolve.
	ErrUnknownName = errors.New("name not found")
)

// Stats provides statistics about the translator's performance and state.
type Stats struct {
	TotalOIDs        int           `json:"total_oids"`
	CacheHits        int64         `json:"cache_hits"`
	CacheMisses      int64         `json:"cache_misses"`
	TranslationCount int64         `json:"translation_count"`
	AverageLatency   time.Duration `json:"average_latency"`
}

// Config holds configuration options for the translator.
type Config struct {
	// MaxCacheSize bounds the translation cache. Zero disables caching.
	MaxCacheSize int `json:"max_cache_size"`

	// Qualified prefixes translations with their module, e.g.
	// "PROFTPD-MIB::daemon.uptime.0".
	Qualified bool `json:"qualified"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		MaxCacheSize: 1024,
	}
}

// Translator maps OIDs to names and back. It is safe for concurrent use.
type Translator struct {
	mu        sync.RWMutex
	trie      *OIDTrie
	names     map[string]mib.OID
	cache     *Cache
	qualified bool
	stats     Stats
	closed    bool
	logger    logging.Logger
}

// New builds a translator over the registry's table. Disabled entries are
// translated too: naming an object does not depend on whether the server
// currently serves it.
func New(reg *mib.Registry, config Config) (*Translator, error) {
	if reg == nil {
		return nil, errors.New("registry cannot be nil")
	}
	if config.MaxCacheSize < 0 {
		return nil, fmt.Errorf("max cache size must not be negative, got %d", config.MaxCacheSize)
	}

	t := &Translator{
		trie:      NewOIDTrie(),
		names:     make(map[string]mib.OID),
		cache:     NewCache(config.MaxCacheSize),
		qualified: config.Qualified,
		logger:    logging.NewComponentLogger("snmptranslate", "translator"),
	}

	for _, wk := range wellKnown {
		t.add(mib.MustParseOID(wk.oid), wk.name, ModuleSNMPv2)
	}
	t.add(mib.EnterpriseOID, "proftpd", ModuleProFTPD)
	t.add(mib.EnterpriseOID.Append(2), "proftpd.modules", ModuleProFTPD)
	t.add(mib.BaseOID, "proftpd.modules.snmp", ModuleProFTPD)

	for _, e := range reg.All() {
		module := ModuleProFTPD
		if !e.OID.HasPrefix(mib.BaseOID) {
			module = ModuleSNMPv2
		}
		t.addGroups(e, module)
		t.add(e.ObjectOID(), e.Name, module)
		t.add(e.OID, e.InstanceName, module)
	}

	t.stats.TotalOIDs = t.trie.Size()
	t.logger.Debug("translator ready", "oids", t.stats.TotalOIDs, "cache_size", config.MaxCacheSize)
	return t, nil
}

// add registers one node. The first registration of a name wins.
func (t *Translator) add(oid mib.OID, name, module string) {
	t.trie.Insert(oid, name, module)
	if _, ok := t.names[name]; !ok {
		t.names[name] = oid.Clone()
	}
}

// addGroups names the arcs between BaseOID and an entry's object OID after
// the leading segments of the entry name, e.g. "ftp" and "ftp.sessions"
// for ftp.sessions.sessionCount. Entries whose name depth does not match
// their arc depth are left alone.
func (t *Translator) addGroups(e mib.Entry, module string) {
	obj := e.ObjectOID()
	if !obj.HasPrefix(mib.BaseOID) {
		return
	}
	segments := strings.Split(e.Name, ".")
	depth := len(obj) - mib.BaseLen
	if len(segments) != depth {
		return
	}
	for i := 1; i < depth; i++ {
		t.add(obj[:mib.BaseLen+i], strings.Join(segments[:i], "."), module)
	}
}

// Translate converts an OID string to its name. Unknown OIDs are returned
// normalized, with a leading dot, together with ErrUnknownOID.
func (t *Translator) Translate(oid string) (string, error) {
	start := time.Now()
	defer func() {
		t.updateStats(time.Since(start))
	}()

	t.mu.RLock()
	closed := t.closed
	t.mu.RUnlock()
	if closed {
		return "", ErrClosed
	}

	normalizedOID := normalizeOID(oid)
	if cached, found := t.cache.Get(normalizedOID); found {
		t.mu.Lock()
		t.stats.CacheHits++
		t.mu.Unlock()
		return cached, nil
	}

	t.mu.Lock()
	t.stats.CacheMisses++
	t.mu.Unlock()

	parsed, err := mib.ParseOID(normalizedOID)
	if err != nil {
		return normalizedOID, fmt.Errorf("%w: %s", err, normalizedOID)
	}

	node, depth := t.trie.LongestPrefix(parsed)
	if node == nil {
		return normalizedOID, fmt.Errorf("%w: %s", ErrUnknownOID, normalizedOID)
	}

	name := node.name
	if rest := parsed[depth:]; len(rest) > 0 {
		name += "." + rest.String()
	}
	if t.qualified {
		name = node.module + "::" + name
	}

	t.cache.Set(normalizedOID, name)
	return name, nil
}

// TranslateBatch translates multiple OIDs. Every input appears in the
// result, untranslated ones as their normalized OID; the failures are
// returned joined.
func (t *Translator) TranslateBatch(oids []string) (map[string]string, error) {
	result := make(map[string]string, len(oids))
	var errs []error

	for _, oid := range oids {
		name, err := t.Translate(oid)
		if errors.Is(err, ErrClosed) {
			return nil, err
		}
		result[oid] = name
		if err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return result, fmt.Errorf("batch translation: %w", errors.Join(errs...))
	}
	return result, nil
}

// Resolve converts a name, optionally module-qualified, back to its OID.
// Numeric arcs after a known name are appended, so Resolve accepts
// everything Translate produces.
func (t *Translator) Resolve(name string) (mib.OID, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.closed {
		return nil, ErrClosed
	}

	if _, after, found := strings.Cut(name, "::"); found {
		name = after
	}
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrUnknownName)
	}
	if oid, err := mib.ParseOID(name); err == nil {
		return oid, nil
	}

	segments := strings.Split(name, ".")
	for i := len(segments); i > 0; i-- {
		base, ok := t.names[strings.Join(segments[:i], ".")]
		if !ok {
			continue
		}
		if i == len(segments) {
			return base.Clone(), nil
		}
		rest, err := mib.ParseOID(strings.Join(segments[i:], "."))
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownName, name)
		}
		return base.Append(rest...), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownName, name)
}

// GetStats returns translation statistics.
func (t *Translator) GetStats() Stats {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.stats
}

// CacheStats returns the translation cache statistics.
func (t *Translator) CacheStats() CacheStats {
	return t.cache.GetStats()
}

// Close releases the cache and trie. Later calls fail with ErrClosed.
func (t *Translator) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cache.Clear()
	t.trie = NewOIDTrie()
	t.names = make(map[string]mib.OID)
	t.closed = true
	return nil
}

// updateStats updates translation statistics.
func (t *Translator) updateStats(duration time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stats.TranslationCount++

	// exponential moving average, alpha = 0.1
	if t.stats.AverageLatency == 0 {
		t.stats.AverageLatency = duration
	} else {
		t.stats.AverageLatency = time.Duration(
			0.9*float64(t.stats.AverageLatency) + 0.1*float64(duration),
		)
	}
}

// normalizeOID normalizes an OID string by ensuring it has a leading dot.
func normalizeOID(oid string) string {
	oid = strings.TrimSpace(oid)
	if oid == "" {
		return oid
	}
	if !strings.HasPrefix(oid, ".") {
		return "." + oid
	}
	return oid
}

// wellKnown lists the SNMPv2 names needed to read PROFTPD-MIB
// notifications.
var wellKnown = []struct {
	oid  string
	name string
}{
	{"1.3.6.1.6.3.1.1.5.1", "coldStart"},
	{"1.3.6.1.6.3.1.1.5.2", "warmStart"},
	{"1.3.6.1.6.3.1.1.5.3", "linkDown"},
	{"1.3.6.1.6.3.1.1.5.4", "linkUp"},
	{"1.3.6.1.6.3.1.1.5.5", "authenticationFailure"},
	{"1.3.6.1.6.3.1.1.5.6", "egpNeighborLoss"},
	{"1.3.6.1.4.1", "enterprises"},
}

// =============================================================================
// OID Trie Implementation
// =============================================================================

// OIDTrie is a prefix tree over OID sub-identifiers. Each node can carry a
// name; LongestPrefix finds the deepest named node on an OID's path.
type OIDTrie struct {
	mu   sync.RWMutex
	root *TrieNode
	size int
}

// TrieNode represents a single node in the OID trie.
type TrieNode struct {
	children map[uint32]*TrieNode
	name     string
	module   string
	named    bool
}

// NewOIDTrie returns an empty trie.
func NewOIDTrie() *OIDTrie {
	return &OIDTrie{root: &TrieNode{children: make(map[uint32]*TrieNode)}}
}

// Insert names the node at oid, creating intermediate nodes as needed. An
// existing name is kept.
func (tr *OIDTrie) Insert(oid mib.OID, name, module string) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	node := tr.root
	for _, arc := range oid {
		child, ok := node.children[arc]
		if !ok {
			child = &TrieNode{children: make(map[uint32]*TrieNode)}
			node.children[arc] = child
		}
		node = child
	}
	if node.named {
		return
	}
	node.name = name
	node.module = module
	node.named = true
	tr.size++
}

// Lookup returns the name stored at exactly oid.
func (tr *OIDTrie) Lookup(oid mib.OID) (string, bool) {
	node, depth := tr.LongestPrefix(oid)
	if node == nil || depth != len(oid) {
		return "", false
	}
	return node.name, true
}

// LongestPrefix returns the deepest named node on oid's path and the number
// of sub-identifiers it covers, or nil when no prefix of oid is named.
func (tr *OIDTrie) LongestPrefix(oid mib.OID) (*TrieNode, int) {
	tr.mu.RLock()
	defer tr.mu.RUnlock()

	var best *TrieNode
	depth := 0
	node := tr.root
	for i, arc := range oid {
		child, ok := node.children[arc]
		if !ok {
			break
		}
		node = child
		if node.named {
			best = node
			depth = i + 1
		}
	}
	return best, depth
}

// Size returns the number of named nodes.
func (tr *OIDTrie) Size() int {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	return tr.size
}

// =============================================================================
// Cache Implementation
// =============================================================================

// Cache is a thread-safe LRU cache of translations: a map for lookups and
// a list ordered from most to least recently used.
type Cache struct {
	mu       sync.Mutex
	capacity int
	items    map[string]*list.Element
	lruList  *list.List
	stats    CacheStats
}

type cacheEntry struct {
	key   string
	value string
}

// CacheStats provides statistics about cache performance.
type CacheStats struct {
	Hits      int64   `json:"hits"`
	Misses    int64   `json:"misses"`
	Evictions int64   `json:"evictions"`
	Size      int     `json:"size"`
	Capacity  int     `json:"capacity"`
	HitRatio  float64 `json:"hit_ratio"`
}

// NewCache returns a cache holding at most capacity entries. A capacity of
// zero stores nothing.
func NewCache(capacity int) *Cache {
	return &Cache{
		capacity: max(capacity, 0),
		items:    make(map[string]*list.Element),
		lruList:  list.New(),
	}
}

// Get returns the cached value for key and marks it recently used.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		c.stats.Misses++
		return "", false
	}
	c.stats.Hits++
	c.lruList.MoveToFront(elem)
	return elem.Value.(*cacheEntry).value, true
}

// Set stores value under key, evicting the least recently used entry when
// the cache is full.
func (c *Cache) Set(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capacity == 0 {
		return
	}
	if elem, ok := c.items[key]; ok {
		elem.Value.(*cacheEntry).value = value
		c.lruList.MoveToFront(elem)
		return
	}
	if c.lruList.Len() >= c.capacity {
		oldest := c.lruList.Back()
		c.lruList.Remove(oldest)
		delete(c.items, oldest.Value.(*cacheEntry).key)
		c.stats.Evictions++
	}
	c.items[key] = c.lruList.PushFront(&cacheEntry{key: key, value: value})
}

// Clear drops every entry. Statistics are kept.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*list.Element)
	c.lruList.Init()
}

// GetStats returns a snapshot of the cache statistics.
func (c *Cache) GetStats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := c.stats
	stats.Size = c.lruList.Len()
	stats.Capacity = c.capacity
	if total := stats.Hits + stats.Misses; total > 0 {
		stats.HitRatio = float64(stats.Hits) / float64(total)
	}
	return stats
}
