package tokens

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize 是 CachedCounter 的默认容量。
const DefaultCacheSize = 1024

// CachedCounter 用 LRU 缓存包装另一个 Counter。
//
// 槽位内容在相邻轮次之间大多不变，而 tiktoken 编码代价较高，
// 缓存按文本内容作为键。可安全并发使用。
type CachedCounter struct {
	next  Counter
	cache *lru.Cache[string, int]
}

// NewCachedCounter 创建带缓存的计数器。size <= 0 时使用 DefaultCacheSize。
func NewCachedCounter(next Counter, size int) (*CachedCounter, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, int](size)
	if err != nil {
		return nil, err
	}
	return &CachedCounter{next: OrDefault(next), cache: cache}, nil
}

// Count 返回缓存的计数，未命中时委托给底层计数器。
func (c *CachedCounter) Count(text string) int {
	if n, ok := c.cache.Get(text); ok {
		return n
	}
	n := c.next.Count(text)
	c.cache.Add(text, n)
	return n
}

// Len 返回当前缓存条目数。
func (c *CachedCounter) Len() int {
	return c.cache.Len()
}

var _ Counter = (*CachedCounter)(nil)
