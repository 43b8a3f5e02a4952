package query

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/makbarsyahwana/logistic-gateway/internal/domain"
)

func TestFetch_HitMiss(t *testing.T) {
	c := New(4, 5*time.Minute)
	ctx := context.Background()

	var calls int32
	load := func(context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		return "value-1", nil
	}

	got, err := c.Fetch(ctx, "k1", []string{FamilyOrdersList}, load)
	if err != nil || got != "value-1" {
		t.Fatalf("first fetch: got=%v err=%v", got, err)
	}

	// Повторное чтение свежей записи — без вызова load.
	got, err = c.Fetch(ctx, "k1", []string{FamilyOrdersList}, load)
	if err != nil || got != "value-1" {
		t.Fatalf("second fetch: got=%v err=%v", got, err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("want 1 load call, got %d", calls)
	}
}

func TestFetch_CoalescesConcurrentIdenticalKeys(t *testing.T) {
	c := New(4, time.Minute)
	ctx := context.Background()

	var calls int32
	release := make(chan struct{})
	load := func(context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return "shared", nil
	}

	const readers = 5
	results := make([]any, readers)
	errs := make([]error, readers)

	var wg sync.WaitGroup
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = c.Fetch(ctx, "same-key", []string{FamilyOrdersList}, load)
		}(i)
	}

	// Даём всем читателям встать в очередь, затем отпускаем загрузку.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("want single coalesced load, got %d", got)
	}
	for i := 0; i < readers; i++ {
		if errs[i] != nil || results[i] != "shared" {
			t.Fatalf("reader %d: got=%v err=%v", i, results[i], errs[i])
		}
	}
}

func TestInvalidate_ByFamily(t *testing.T) {
	c := New(8, time.Minute)
	ctx := context.Background()

	var listCalls, orderCalls int32
	loadList := func(context.Context) (any, error) {
		atomic.AddInt32(&listCalls, 1)
		return &domain.OrderPage{}, nil
	}
	loadOrder := func(context.Context) (any, error) {
		atomic.AddInt32(&orderCalls, 1)
		return &domain.Order{ID: "o-1"}, nil
	}

	listKey := ListKey(domain.ListQuery{Page: 1, Limit: 10})
	if _, err := c.Fetch(ctx, listKey, []string{FamilyOrdersList}, loadList); err != nil {
		t.Fatalf("list fetch: %v", err)
	}
	if _, err := c.Fetch(ctx, OrderKey("o-1"), []string{FamilyOrder("o-1")}, loadOrder); err != nil {
		t.Fatalf("order fetch: %v", err)
	}

	// Мутация заказа o-1: сбрасываем список и сам заказ.
	c.Invalidate(ctx, FamilyOrdersList, FamilyOrder("o-1"))

	if _, err := c.Fetch(ctx, listKey, []string{FamilyOrdersList}, loadList); err != nil {
		t.Fatalf("list refetch: %v", err)
	}
	if _, err := c.Fetch(ctx, OrderKey("o-1"), []string{FamilyOrder("o-1")}, loadOrder); err != nil {
		t.Fatalf("order refetch: %v", err)
	}

	if listCalls != 2 || orderCalls != 2 {
		t.Fatalf("want refetch after invalidate, list=%d order=%d", listCalls, orderCalls)
	}
}

func TestInvalidate_UntouchedFamilyStaysCached(t *testing.T) {
	c := New(8, time.Minute)
	ctx := context.Background()

	var calls int32
	load := func(context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		return &domain.Order{ID: "o-2"}, nil
	}

	if _, err := c.Fetch(ctx, OrderKey("o-2"), []string{FamilyOrder("o-2")}, load); err != nil {
		t.Fatalf("fetch: %v", err)
	}

	c.Invalidate(ctx, FamilyOrder("o-1")) // другое семейство

	if _, err := c.Fetch(ctx, OrderKey("o-2"), []string{FamilyOrder("o-2")}, load); err != nil {
		t.Fatalf("refetch: %v", err)
	}
	if calls != 1 {
		t.Fatalf("want cached read, got %d load calls", calls)
	}
}

func TestFetch_ErrorIsNotCached(t *testing.T) {
	c := New(4, time.Minute)
	ctx := context.Background()

	boom := errors.New("backend down")
	var calls int32
	load := func(context.Context) (any, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return nil, boom
		}
		return "recovered", nil
	}

	if _, err := c.Fetch(ctx, "k-err", nil, load); !errors.Is(err, boom) {
		t.Fatalf("want load error, got %v", err)
	}

	got, err := c.Fetch(ctx, "k-err", nil, load)
	if err != nil || got != "recovered" {
		t.Fatalf("want retry after error, got=%v err=%v", got, err)
	}
	if calls != 2 {
		t.Fatalf("want 2 load calls, got %d", calls)
	}
}

func TestFetch_TTLExpiry(t *testing.T) {
	c := New(4, 50*time.Millisecond)
	ctx := context.Background()

	var calls int32
	load := func(context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		return "v", nil
	}

	if _, err := c.Fetch(ctx, "k-ttl", nil, load); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	time.Sleep(80 * time.Millisecond)
	if _, err := c.Fetch(ctx, "k-ttl", nil, load); err != nil {
		t.Fatalf("refetch: %v", err)
	}
	if calls != 2 {
		t.Fatalf("want reload after TTL, got %d", calls)
	}
}

func TestLRUEviction(t *testing.T) {
	c := New(2, 0) // 0 = без TTL
	ctx := context.Background()

	counts := map[string]*int32{"A": new(int32), "B": new(int32), "C": new(int32)}
	loader := func(key string) func(context.Context) (any, error) {
		return func(context.Context) (any, error) {
			atomic.AddInt32(counts[key], 1)
			return key, nil
		}
	}

	_, _ = c.Fetch(ctx, "A", nil, loader("A"))
	_, _ = c.Fetch(ctx, "B", nil, loader("B"))
	// A становится «свежим».
	_, _ = c.Fetch(ctx, "A", nil, loader("A"))
	// C вытесняет B (самый старый).
	_, _ = c.Fetch(ctx, "C", nil, loader("C"))

	_, _ = c.Fetch(ctx, "B", nil, loader("B"))
	_, _ = c.Fetch(ctx, "A", nil, loader("A"))

	if got := atomic.LoadInt32(counts["B"]); got != 2 {
		t.Fatalf("want B evicted and reloaded, got %d loads", got)
	}
	if got := atomic.LoadInt32(counts["A"]); got != 1 {
		t.Fatalf("want A to stay cached, got %d loads", got)
	}
}

func TestFetch_WaiterCancelDoesNotFailTheLoad(t *testing.T) {
	c := New(4, time.Minute)

	release := make(chan struct{})
	load := func(context.Context) (any, error) {
		<-release
		return "late", nil
	}

	canceledCtx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := c.Fetch(canceledCtx, "k-late", nil, load)
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled for the waiter, got %v", err)
	}

	// Загрузка доживает до конца и кэшируется: поздний ответ не теряется.
	close(release)
	time.Sleep(20 * time.Millisecond)
	got, err := c.Fetch(context.Background(), "k-late", nil, func(context.Context) (any, error) {
		t.Fatal("unexpected reload")
		return nil, nil
	})
	if err != nil || got != "late" {
		t.Fatalf("want cached late value, got=%v err=%v", got, err)
	}
}
