package query

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/makbarsyahwana/logistic-gateway/internal/ports"
	"github.com/makbarsyahwana/logistic-gateway/pkg/metrics"
)

// Проверка, что Cache удовлетворяет порту QueryCache.
var _ ports.QueryCache = (*Cache)(nil)

// entry — запись кэша. До закрытия ready запись считается in-flight:
// параллельные Fetch по тому же ключу ждут ready вместо собственного вызова load.
type entry struct {
	key      string
	families []string

	ready chan struct{} // закрывается по завершении load
	value any
	err   error

	expiresAt time.Time
	doomed    bool // инвалидация пришла во время загрузки: результат отдать, но не кэшировать

	elem *list.Element // позиция в LRU; nil, пока запись in-flight
}

// Cache — кэш серверных чтений: ключ «операция + параметры»,
// коалесценция одинаковых in-flight запросов, инвалидация по семействам,
// вытеснение LRU + TTL.
type Cache struct {
	capacity int
	ttl      time.Duration

	mu       sync.Mutex
	index    map[string]*entry
	families map[string]map[string]struct{} // семейство → множество ключей
	ll       *list.List                     // только готовые записи, свежие в голове
}

// New — конструктор. capacity <= 0 трактуется как 1, ttl <= 0 — без истечения.
func New(capacity int, ttl time.Duration) *Cache {
	if capacity <= 0 {
		capacity = 1
	}
	return &Cache{
		capacity: capacity,
		ttl:      ttl,
		index:    make(map[string]*entry),
		families: make(map[string]map[string]struct{}),
		ll:       list.New(),
	}
}

// Fetch — вернуть значение по ключу.
// Свежая запись отдаётся из кэша; in-flight запись коалесцирует ожидающих;
// иначе запускается load, и его результат раздаётся всем ожидающим.
// Ошибка load ничего не кэширует.
func (c *Cache) Fetch(ctx context.Context, key string, families []string, load ports.QueryLoader) (any, error) {
	now := time.Now()

	c.mu.Lock()
	if ent, ok := c.index[key]; ok {
		select {
		case <-ent.ready:
			// Запись готова: проверяем свежесть.
			if !c.isExpired(ent, now) {
				c.ll.MoveToFront(ent.elem)
				c.mu.Unlock()
				metrics.CacheOps.WithLabelValues("hit").Inc()
				return ent.value, ent.err
			}
			c.removeEntry(ent)
			metrics.CacheOps.WithLabelValues("expired").Inc()
		default:
			// Загрузка уже идёт — присоединяемся к ней.
			c.mu.Unlock()
			metrics.CacheOps.WithLabelValues("coalesced").Inc()
			return c.wait(ctx, ent)
		}
	}

	ent := &entry{key: key, families: families, ready: make(chan struct{})}
	c.index[key] = ent
	c.linkFamilies(ent)
	c.mu.Unlock()

	metrics.CacheOps.WithLabelValues("miss").Inc()
	go c.load(ctx, ent, load)

	return c.wait(ctx, ent)
}

// Invalidate — сбросить все ключи перечисленных семейств.
// Готовые записи удаляются сразу; для in-flight результат будет отдан
// ожидающим, но в кэше не останется.
func (c *Cache) Invalidate(_ context.Context, families ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, family := range families {
		for key := range c.families[family] {
			ent, ok := c.index[key]
			if !ok {
				continue
			}
			select {
			case <-ent.ready:
				c.removeEntry(ent)
			default:
				ent.doomed = true
			}
			metrics.CacheOps.WithLabelValues("invalidated").Inc()
		}
	}
	metrics.CacheSize.Set(float64(c.ll.Len()))
}

// load — выполняет сетевую загрузку и публикует результат.
// Загрузка идёт на контексте без отмены: отмена одного из ожидающих
// (размонтированная вьюха) не должна ронять общий для всех запрос.
func (c *Cache) load(ctx context.Context, ent *entry, load ports.QueryLoader) {
	value, err := load(context.WithoutCancel(ctx))

	c.mu.Lock()
	defer c.mu.Unlock()

	ent.value = value
	ent.err = err
	close(ent.ready)

	if err != nil || ent.doomed {
		if err != nil {
			metrics.CacheOps.WithLabelValues("load_error").Inc()
		}
		c.removeEntry(ent)
		return
	}

	if c.ttl > 0 {
		ent.expiresAt = time.Now().Add(c.ttl)
	}
	ent.elem = c.ll.PushFront(ent)
	if c.ll.Len() > c.capacity {
		c.evictLRU()
	}
	metrics.CacheSize.Set(float64(c.ll.Len()))
}

// wait — дождаться результата записи либо отмены контекста ожидающего.
func (c *Cache) wait(ctx context.Context, ent *entry) (any, error) {
	select {
	case <-ent.ready:
		return ent.value, ent.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// ------вспомогательные функции (под c.mu)------

func (c *Cache) isExpired(ent *entry, now time.Time) bool {
	if c.ttl <= 0 {
		return false
	}
	return now.After(ent.expiresAt)
}

func (c *Cache) evictLRU() {
	if back := c.ll.Back(); back != nil {
		c.removeEntry(back.Value.(*entry))
		metrics.CacheOps.WithLabelValues("evicted").Inc()
	}
}

func (c *Cache) removeEntry(ent *entry) {
	if cur, ok := c.index[ent.key]; !ok || cur != ent {
		return
	}
	delete(c.index, ent.key)
	for _, family := range ent.families {
		if keys, ok := c.families[family]; ok {
			delete(keys, ent.key)
			if len(keys) == 0 {
				delete(c.families, family)
			}
		}
	}
	if ent.elem != nil {
		c.ll.Remove(ent.elem)
		ent.elem = nil
	}
	metrics.CacheSize.Set(float64(c.ll.Len()))
}

func (c *Cache) linkFamilies(ent *entry) {
	for _, family := range ent.families {
		keys, ok := c.families[family]
		if !ok {
			keys = make(map[string]struct{})
			c.families[family] = keys
		}
		keys[ent.key] = struct{}{}
	}
}
