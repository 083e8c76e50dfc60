// internal/core/services/mutations.go
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/solesync/solesync/internal/adapters/api"
	"github.com/solesync/solesync/internal/core/domain"
)

// Every mutation follows the same pattern: permission gate (fails fast,
// before any network call), map to wire, perform the call, commit to the
// aggregated cache, then re-fetch the resource's current page so displayed
// totals and ordering reflect the server's canonical state. Suppliers have
// no page view, so their writes stop at the cache commit.
//
// Create and delete trust the server-confirmed record plus the page refresh;
// update deliberately merges the locally submitted fields over the cache
// entry instead of the server response. The asymmetry is carried over from
// the backend contract, whose update call discards the response body.

// CreateShoe persists a new shoe. The identifier is omitted from the request
// and taken from the server's response.
func (s *Store) CreateShoe(ctx context.Context, shoe domain.Shoe) (domain.Shoe, error) {
	if !s.Capabilities().CrudShoes {
		return domain.Shoe{}, fmt.Errorf("role %q may not modify shoes: %w", s.Role(), domain.ErrNotAllowed)
	}

	raw, err := s.gw.PostJSON(ctx, pathShoes, api.ShoeToWire(shoe, false))
	if err != nil {
		return domain.Shoe{}, fmt.Errorf("create shoe: %w", err)
	}
	created := shoe
	if m, ok := decodeWire(raw); ok {
		created = api.ShoeFromWire(m)
	}

	s.mu.Lock()
	s.data.Shoes = append(s.data.Shoes, created)
	page, size := s.shoePage.PageNumber, s.shoePage.PageSize
	s.mu.Unlock()

	s.refreshPage(ctx, "shoes", func() error { return s.FetchShoePage(ctx, page, size) })
	return created, nil
}

// UpdateShoe persists changes to an existing shoe and merges the submitted
// fields over the cached entry
func (s *Store) UpdateShoe(ctx context.Context, shoe domain.Shoe) error {
	if !s.Capabilities().CrudShoes {
		return fmt.Errorf("role %q may not modify shoes: %w", s.Role(), domain.ErrNotAllowed)
	}

	path := fmt.Sprintf("%s/%d", pathShoes, shoe.ShoeID)
	if _, err := s.gw.PutJSON(ctx, path, api.ShoeToWire(shoe, true)); err != nil {
		return fmt.Errorf("update shoe %d: %w", shoe.ShoeID, err)
	}

	s.mu.Lock()
	for i := range s.data.Shoes {
		if s.data.Shoes[i].ShoeID == shoe.ShoeID {
			s.data.Shoes[i] = shoe
			break
		}
	}
	page, size := s.shoePage.PageNumber, s.shoePage.PageSize
	s.mu.Unlock()

	s.refreshPage(ctx, "shoes", func() error { return s.FetchShoePage(ctx, page, size) })
	return nil
}

// DeleteShoe removes a shoe. Deleting master data is an admin capability.
func (s *Store) DeleteShoe(ctx context.Context, id int) error {
	if !s.Capabilities().DeleteMasterData {
		return fmt.Errorf("role %q may not delete shoes: %w", s.Role(), domain.ErrNotAllowed)
	}

	if _, err := s.gw.DeleteJSON(ctx, fmt.Sprintf("%s/%d", pathShoes, id)); err != nil {
		return fmt.Errorf("delete shoe %d: %w", id, err)
	}

	s.mu.Lock()
	s.data.Shoes = removeByID(s.data.Shoes, func(v domain.Shoe) int { return v.ShoeID }, id)
	page, size := s.shoePage.PageNumber, s.shoePage.PageSize
	s.mu.Unlock()

	s.refreshPage(ctx, "shoes", func() error { return s.FetchShoePage(ctx, page, size) })
	return nil
}

// CreateSource persists a new supplier
func (s *Store) CreateSource(ctx context.Context, source domain.Source) (domain.Source, error) {
	if !s.Capabilities().CrudSuppliers {
		return domain.Source{}, fmt.Errorf("role %q may not modify suppliers: %w", s.Role(), domain.ErrNotAllowed)
	}

	raw, err := s.gw.PostJSON(ctx, pathSuppliers, api.SourceToWire(source, false))
	if err != nil {
		return domain.Source{}, fmt.Errorf("create supplier: %w", err)
	}
	created := source
	if m, ok := decodeWire(raw); ok {
		created = api.SourceFromWire(m)
	}

	s.mu.Lock()
	s.data.Sources = append(s.data.Sources, created)
	s.mu.Unlock()
	return created, nil
}

// UpdateSource persists changes to an existing supplier
func (s *Store) UpdateSource(ctx context.Context, source domain.Source) error {
	if !s.Capabilities().CrudSuppliers {
		return fmt.Errorf("role %q may not modify suppliers: %w", s.Role(), domain.ErrNotAllowed)
	}

	path := fmt.Sprintf("%s/%d", pathSuppliers, source.SourceID)
	if _, err := s.gw.PutJSON(ctx, path, api.SourceToWire(source, true)); err != nil {
		return fmt.Errorf("update supplier %d: %w", source.SourceID, err)
	}

	s.mu.Lock()
	for i := range s.data.Sources {
		if s.data.Sources[i].SourceID == source.SourceID {
			s.data.Sources[i] = source
			break
		}
	}
	s.mu.Unlock()
	return nil
}

// DeleteSource removes a supplier. Deleting master data is an admin
// capability.
func (s *Store) DeleteSource(ctx context.Context, id int) error {
	if !s.Capabilities().DeleteMasterData {
		return fmt.Errorf("role %q may not delete suppliers: %w", s.Role(), domain.ErrNotAllowed)
	}

	if _, err := s.gw.DeleteJSON(ctx, fmt.Sprintf("%s/%d", pathSuppliers, id)); err != nil {
		return fmt.Errorf("delete supplier %d: %w", id, err)
	}

	s.mu.Lock()
	s.data.Sources = removeByID(s.data.Sources, func(v domain.Source) int { return v.SourceID }, id)
	s.mu.Unlock()
	return nil
}

// CreateTransaction persists a new stock transaction
func (s *Store) CreateTransaction(ctx context.Context, tx domain.StockTransaction) (domain.StockTransaction, error) {
	if !s.Capabilities().AddEditTransactions {
		return domain.StockTransaction{}, fmt.Errorf("role %q may not record transactions: %w", s.Role(), domain.ErrNotAllowed)
	}

	raw, err := s.gw.PostJSON(ctx, pathTransactions, api.TransactionToWire(tx, false))
	if err != nil {
		return domain.StockTransaction{}, fmt.Errorf("create transaction: %w", err)
	}
	created := tx
	if m, ok := decodeWire(raw); ok {
		created = api.TransactionFromWire(m)
	}

	s.mu.Lock()
	s.data.StockTransactions = append(s.data.StockTransactions, created)
	page, size := s.txPage.PageNumber, s.txPage.PageSize
	s.mu.Unlock()

	s.refreshPage(ctx, "transactions", func() error { return s.FetchTransactionPage(ctx, page, size) })
	return created, nil
}

// UpdateTransaction persists changes to an existing stock transaction
func (s *Store) UpdateTransaction(ctx context.Context, tx domain.StockTransaction) error {
	if !s.Capabilities().AddEditTransactions {
		return fmt.Errorf("role %q may not record transactions: %w", s.Role(), domain.ErrNotAllowed)
	}

	path := fmt.Sprintf("%s/%d", pathTransactions, tx.TransactionID)
	if _, err := s.gw.PutJSON(ctx, path, api.TransactionToWire(tx, true)); err != nil {
		return fmt.Errorf("update transaction %d: %w", tx.TransactionID, err)
	}

	s.mu.Lock()
	for i := range s.data.StockTransactions {
		if s.data.StockTransactions[i].TransactionID == tx.TransactionID {
			s.data.StockTransactions[i] = tx
			break
		}
	}
	page, size := s.txPage.PageNumber, s.txPage.PageSize
	s.mu.Unlock()

	s.refreshPage(ctx, "transactions", func() error { return s.FetchTransactionPage(ctx, page, size) })
	return nil
}

// DeleteTransaction removes a stock transaction. A stronger capability than
// add/edit gates this.
func (s *Store) DeleteTransaction(ctx context.Context, id int) error {
	if !s.Capabilities().DeleteTransactions {
		return fmt.Errorf("role %q may not delete transactions: %w", s.Role(), domain.ErrNotAllowed)
	}

	if _, err := s.gw.DeleteJSON(ctx, fmt.Sprintf("%s/%d", pathTransactions, id)); err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}

	s.mu.Lock()
	s.data.StockTransactions = removeByID(s.data.StockTransactions, func(v domain.StockTransaction) int { return v.TransactionID }, id)
	page, size := s.txPage.PageNumber, s.txPage.PageSize
	s.mu.Unlock()

	s.refreshPage(ctx, "transactions", func() error { return s.FetchTransactionPage(ctx, page, size) })
	return nil
}

// CreatePurchase persists a new purchase record. The total is recomputed
// client-side immediately before the send.
func (s *Store) CreatePurchase(ctx context.Context, rec domain.PurchaseRecord) (domain.PurchaseRecord, error) {
	if !s.Capabilities().CrudPurchases {
		return domain.PurchaseRecord{}, fmt.Errorf("role %q may not modify purchases: %w", s.Role(), domain.ErrNotAllowed)
	}

	rec.RecalculateTotal()
	raw, err := s.gw.PostJSON(ctx, pathPurchases, api.PurchaseToWire(rec, false))
	if err != nil {
		return domain.PurchaseRecord{}, fmt.Errorf("create purchase: %w", err)
	}
	created := rec
	if m, ok := decodeWire(raw); ok {
		created = api.PurchaseFromWire(m)
	}

	s.mu.Lock()
	s.data.PurchaseRecords = append(s.data.PurchaseRecords, created)
	page, size := s.purchasePage.PageNumber, s.purchasePage.PageSize
	s.mu.Unlock()

	s.refreshPage(ctx, "purchases", func() error { return s.FetchPurchasePage(ctx, page, size) })
	return created, nil
}

// UpdatePurchase persists changes to an existing purchase record,
// recomputing the total before the send
func (s *Store) UpdatePurchase(ctx context.Context, rec domain.PurchaseRecord) error {
	if !s.Capabilities().CrudPurchases {
		return fmt.Errorf("role %q may not modify purchases: %w", s.Role(), domain.ErrNotAllowed)
	}

	rec.RecalculateTotal()
	path := fmt.Sprintf("%s/%d", pathPurchases, rec.PurchaseID)
	if _, err := s.gw.PutJSON(ctx, path, api.PurchaseToWire(rec, true)); err != nil {
		return fmt.Errorf("update purchase %d: %w", rec.PurchaseID, err)
	}

	s.mu.Lock()
	for i := range s.data.PurchaseRecords {
		if s.data.PurchaseRecords[i].PurchaseID == rec.PurchaseID {
			s.data.PurchaseRecords[i] = rec
			break
		}
	}
	page, size := s.purchasePage.PageNumber, s.purchasePage.PageSize
	s.mu.Unlock()

	s.refreshPage(ctx, "purchases", func() error { return s.FetchPurchasePage(ctx, page, size) })
	return nil
}

// DeletePurchase removes a purchase record
func (s *Store) DeletePurchase(ctx context.Context, id int) error {
	if !s.Capabilities().CrudPurchases {
		return fmt.Errorf("role %q may not modify purchases: %w", s.Role(), domain.ErrNotAllowed)
	}

	if _, err := s.gw.DeleteJSON(ctx, fmt.Sprintf("%s/%d", pathPurchases, id)); err != nil {
		return fmt.Errorf("delete purchase %d: %w", id, err)
	}

	s.mu.Lock()
	s.data.PurchaseRecords = removeByID(s.data.PurchaseRecords, func(v domain.PurchaseRecord) int { return v.PurchaseID }, id)
	page, size := s.purchasePage.PageNumber, s.purchasePage.PageSize
	s.mu.Unlock()

	s.refreshPage(ctx, "purchases", func() error { return s.FetchPurchasePage(ctx, page, size) })
	return nil
}

// refreshPage re-fetches a resource's current page after a successful write.
// The write itself already succeeded, so a refresh failure is recorded in
// the error slot and logged rather than propagated.
func (s *Store) refreshPage(ctx context.Context, resource string, fetch func() error) {
	if err := fetch(); err != nil {
		s.logger.WarnContext(ctx, "page refresh after write failed",
			slog.String("resource", resource),
			slog.String("error", err.Error()))
	}
}

// removeByID filters out the record whose key matches id
func removeByID[T any](items []T, key func(T) int, id int) []T {
	out := items[:0]
	for _, v := range items {
		if key(v) != id {
			out = append(out, v)
		}
	}
	return out
}
