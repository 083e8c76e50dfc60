// internal/core/services/store.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/solesync/solesync/internal/adapters/api"
	"github.com/solesync/solesync/internal/core/domain"
	"github.com/solesync/solesync/internal/core/ports"
)

// Remote resource paths. StockTransmission is the backend's spelling for the
// stock transaction resource.
const (
	pathShoes        = "/Shoes"
	pathSuppliers    = "/Suppliers"
	pathTransactions = "/StockTransmission"
	pathPurchases    = "/PurchaseRecord"
)

const (
	// loadPageSize is the fixed page size LoadAll pages with
	loadPageSize = 100
	// defaultViewSize is the page size used before a view's first fetch
	defaultViewSize = 10
)

// Store is the single source of truth for the dashboard: an aggregated cache
// of all four resource collections plus three independently paginated views.
// The aggregated cache and a page view for the same resource are independent
// copies, not views over one source; every write updates the cache
// synchronously and then re-fetches the affected page so displayed totals
// and ordering stay authoritative.
//
// A failed call never mutates local state, and a permission failure never
// reaches the transport at all.
type Store struct {
	gw     ports.Gateway
	logger *slog.Logger

	mu       sync.RWMutex
	role     domain.Role
	data     domain.Dataset
	loading  bool
	lastErr  string
	inflight map[string]bool

	shoePage     PageView[domain.Shoe]
	txPage       PageView[domain.StockTransaction]
	purchasePage PageView[domain.PurchaseRecord]
}

// NewStore creates a reconciling store over the given transport
func NewStore(gw ports.Gateway, role domain.Role, logger *slog.Logger) *Store {
	return &Store{
		gw:       gw,
		role:     role,
		logger:   logger.With(slog.String("service", "store")),
		inflight: make(map[string]bool),
	}
}

// SetRole swaps the active role. Role is injected configuration; the store
// performs no authentication.
func (s *Store) SetRole(role domain.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.role = role
}

// Role returns the active role, defaulting to inventory when unset
func (s *Store) Role() domain.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.role == "" {
		return domain.RoleInventory
	}
	return s.role
}

// Capabilities returns the capability set of the active role
func (s *Store) Capabilities() domain.Capabilities {
	return domain.CapabilitiesFor(s.Role())
}

// Loading reports whether a LoadAll is in progress
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the message of the last failed load or page fetch
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Snapshot returns a copy of the aggregated cache
func (s *Store) Snapshot() domain.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Clone()
}

// ShoePage returns a copy of the shoes page view
func (s *Store) ShoePage() PageView[domain.Shoe] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clonePage(s.shoePage)
}

// TransactionPage returns a copy of the stock transactions page view
func (s *Store) TransactionPage() PageView[domain.StockTransaction] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clonePage(s.txPage)
}

// PurchasePage returns a copy of the purchase records page view
func (s *Store) PurchasePage() PageView[domain.PurchaseRecord] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clonePage(s.purchasePage)
}

// LoadAll fetches every page of every resource and atomically replaces the
// aggregated cache. The four resource loops run concurrently; each loop is
// sequential because its termination depends on the running item count.
// On any failure nothing is applied and the error slot records the message.
// A concurrent second call is wasteful but harmless, since the cache is only
// ever replaced wholesale at the end.
func (s *Store) LoadAll(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.lastErr = ""
	s.mu.Unlock()

	paths := []string{pathShoes, pathSuppliers, pathTransactions, pathPurchases}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		firstErr  error
		collected = make(map[string][]api.Wire, len(paths))
	)
	for _, path := range paths {
		wg.Add(1)
		go func(p string) {
			defer wg.Done()
			items, err := s.fetchAllPages(ctx, p)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("%s: %w", p, err)
				}
				return
			}
			collected[p] = items
		}(path)
	}
	wg.Wait()

	if firstErr != nil {
		s.recordErr(firstErr)
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
		return fmt.Errorf("load all: %w", firstErr)
	}

	data := domain.Dataset{
		Shoes:             mapWire(collected[pathShoes], api.ShoeFromWire),
		Sources:           mapWire(collected[pathSuppliers], api.SourceFromWire),
		StockTransactions: mapWire(collected[pathTransactions], api.TransactionFromWire),
		PurchaseRecords:   mapWire(collected[pathPurchases], api.PurchaseFromWire),
	}

	s.mu.Lock()
	s.data = data
	s.loading = false
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "aggregated cache replaced",
		slog.Int("shoes", len(data.Shoes)),
		slog.Int("sources", len(data.Sources)),
		slog.Int("transactions", len(data.StockTransactions)),
		slog.Int("purchases", len(data.PurchaseRecords)))
	return nil
}

// fetchAllPages pages through one resource until the running item count
// reaches the server-reported total or a page comes back empty
func (s *Store) fetchAllPages(ctx context.Context, path string) ([]api.Wire, error) {
	var items []api.Wire
	for page := 1; ; page++ {
		raw, err := s.gw.GetJSON(ctx, path, map[string]string{
			"pageNumber": strconv.Itoa(page),
			"pageSize":   strconv.Itoa(loadPageSize),
		})
		if err != nil {
			return nil, err
		}
		pg, err := api.NormalizePage(raw)
		if err != nil {
			return nil, err
		}
		if len(pg.Items) == 0 {
			break
		}
		items = append(items, pg.Items...)
		if len(items) >= pg.TotalCount {
			break
		}
	}
	return items, nil
}

// FetchShoePage fetches exactly one page of shoes and replaces the shoes
// page view wholesale
func (s *Store) FetchShoePage(ctx context.Context, pageNumber, pageSize int) error {
	return fetchPage(ctx, s, pathShoes, pageNumber, pageSize, api.ShoeFromWire, &s.shoePage)
}

// FetchTransactionPage fetches exactly one page of stock transactions and
// replaces the transactions page view wholesale
func (s *Store) FetchTransactionPage(ctx context.Context, pageNumber, pageSize int) error {
	return fetchPage(ctx, s, pathTransactions, pageNumber, pageSize, api.TransactionFromWire, &s.txPage)
}

// FetchPurchasePage fetches exactly one page of purchase records and
// replaces the purchases page view wholesale
func (s *Store) FetchPurchasePage(ctx context.Context, pageNumber, pageSize int) error {
	return fetchPage(ctx, s, pathPurchases, pageNumber, pageSize, api.PurchaseFromWire, &s.purchasePage)
}

// fetchPage runs the shared page-fetch pattern: an in-flight guard per
// resource (a concurrent fetch for the same resource is skipped rather than
// allowed to clobber the view), envelope normalization, and a wholesale
// replacement of the view slot. The result is never merged with prior page
// contents.
func fetchPage[T any](ctx context.Context, s *Store, path string, pageNumber, pageSize int, from func(api.Wire) T, slot *PageView[T]) error {
	s.mu.Lock()
	if s.inflight[path] {
		s.mu.Unlock()
		s.logger.DebugContext(ctx, "page fetch already in flight, skipping",
			slog.String("resource", path))
		return nil
	}
	s.inflight[path] = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.inflight, path)
		s.mu.Unlock()
	}()

	if pageNumber < 1 {
		pageNumber = 1
	}
	if pageSize < 1 {
		pageSize = defaultViewSize
	}

	raw, err := s.gw.GetJSON(ctx, path, map[string]string{
		"pageNumber": strconv.Itoa(pageNumber),
		"pageSize":   strconv.Itoa(pageSize),
	})
	if err != nil {
		s.recordErr(err)
		return fmt.Errorf("fetch page %d of %s: %w", pageNumber, path, err)
	}
	pg, err := api.NormalizePage(raw)
	if err != nil {
		s.recordErr(err)
		return fmt.Errorf("fetch page %d of %s: %w", pageNumber, path, err)
	}

	s.mu.Lock()
	*slot = PageView[T]{
		Items:      mapWire(pg.Items, from),
		TotalCount: pg.TotalCount,
		PageNumber: pg.PageNumber,
		PageSize:   pg.PageSize,
	}
	s.mu.Unlock()
	return nil
}

// recordErr stores the message of a failed load into the shared error slot
func (s *Store) recordErr(err error) {
	s.mu.Lock()
	s.lastErr = err.Error()
	s.mu.Unlock()
}

// decodeWire decodes a single-object response body, tolerating an empty one
func decodeWire(raw json.RawMessage) (api.Wire, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var m api.Wire
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, false
	}
	return m, true
}
