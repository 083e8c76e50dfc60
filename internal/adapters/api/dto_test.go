// internal/adapters/api/dto_test.go
package api_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solesync/solesync/internal/adapters/api"
	"github.com/solesync/solesync/internal/core/domain"
)

func TestShoeFromWire(t *testing.T) {
	tests := []struct {
		name string
		wire api.Wire
		want domain.Shoe
	}{
		{
			name: "camel_case_fields",
			wire: api.Wire{
				"shoeId":        float64(7),
				"brand":         "Nike",
				"model":         "Dunk Low",
				"colorway":      "Panda",
				"size":          "10.5",
				"condition":     "DS",
				"purchasePrice": 110.0,
				"currentStock":  float64(4),
			},
			want: domain.Shoe{
				ShoeID:        7,
				Brand:         "Nike",
				Model:         "Dunk Low",
				Colorway:      "Panda",
				Size:          10.5,
				Condition:     "DS",
				PurchasePrice: decimal.NewFromInt(110),
				CurrentStock:  4,
			},
		},
		{
			name: "pascal_case_fields",
			wire: api.Wire{
				"ShoeID":        float64(7),
				"Brand":         "Nike",
				"Model":         "Dunk Low",
				"Colorway":      "Panda",
				"Size":          10.5,
				"Condition":     "DS",
				"PurchasePrice": "110",
				"CurrentStock":  float64(4),
			},
			want: domain.Shoe{
				ShoeID:        7,
				Brand:         "Nike",
				Model:         "Dunk Low",
				Colorway:      "Panda",
				Size:          10.5,
				Condition:     "DS",
				PurchasePrice: decimal.NewFromInt(110),
				CurrentStock:  4,
			},
		},
		{
			name: "non_numeric_values_coerce_to_zero",
			wire: api.Wire{
				"shoeId":        "not-a-number",
				"purchasePrice": "n/a",
				"currentStock":  nil,
			},
			want: domain.Shoe{PurchasePrice: decimal.Zero},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := api.ShoeFromWire(tt.wire)
			assert.Equal(t, tt.want.ShoeID, got.ShoeID)
			assert.Equal(t, tt.want.Brand, got.Brand)
			assert.Equal(t, tt.want.Size, got.Size)
			assert.Equal(t, tt.want.CurrentStock, got.CurrentStock)
			assert.True(t, tt.want.PurchasePrice.Equal(got.PurchasePrice),
				"want price %s, got %s", tt.want.PurchasePrice, got.PurchasePrice)
		})
	}
}

func TestShoeMapping_RoundTrip(t *testing.T) {
	wire := api.Wire{
		"shoeId":        float64(3),
		"brand":         "New Balance",
		"model":         "550",
		"colorway":      "White Green",
		"size":          9.5,
		"condition":     "VNDS",
		"purchasePrice": 95.5,
		"currentStock":  float64(2),
	}

	first := api.ShoeFromWire(wire)
	second := api.ShoeFromWire(api.ShoeToWire(first, true))

	assert.Equal(t, first.ShoeID, second.ShoeID)
	assert.Equal(t, first.Brand, second.Brand)
	assert.Equal(t, first.Model, second.Model)
	assert.Equal(t, first.Colorway, second.Colorway)
	assert.Equal(t, first.Size, second.Size)
	assert.Equal(t, first.Condition, second.Condition)
	assert.Equal(t, first.CurrentStock, second.CurrentStock)
	assert.True(t, first.PurchasePrice.Equal(second.PurchasePrice))
}

func TestShoeToWire(t *testing.T) {
	shoe := domain.Shoe{
		ShoeID:        12,
		Brand:         "Asics",
		Size:          8,
		PurchasePrice: decimal.NewFromFloat(120.50),
		CurrentStock:  1,
	}

	withID := api.ShoeToWire(shoe, true)
	assert.Equal(t, 12, withID["shoeId"])
	// Size crosses the wire as a string.
	assert.Equal(t, "8", withID["size"])
	assert.Equal(t, 120.50, withID["purchasePrice"])

	created := api.ShoeToWire(shoe, false)
	_, hasID := created["shoeId"]
	assert.False(t, hasID, "create payload must omit the identifier")
}

func TestSourceMapping_SupplierAlias(t *testing.T) {
	// The wire speaks supplierId; the domain keeps SourceID.
	got := api.SourceFromWire(api.Wire{
		"supplierId":  float64(9),
		"name":        "Vault",
		"contactInfo": "vault@example.com",
	})
	assert.Equal(t, 9, got.SourceID)
	assert.Equal(t, "Vault", got.Name)

	wire := api.SourceToWire(domain.Source{SourceID: 9, Name: "Vault"}, true)
	assert.Equal(t, 9, wire["supplierId"])
	_, hasSourceID := wire["sourceId"]
	assert.False(t, hasSourceID)
}

func TestTransactionFromWire_TypeEncodings(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  domain.TransactionType
	}{
		{"numeric_in", float64(0), domain.TransactionIn},
		{"numeric_out", float64(1), domain.TransactionOut},
		{"numeric_adjustment", float64(2), domain.TransactionAdjustment},
		{"unknown_code_falls_back_to_in", float64(42), domain.TransactionIn},
		{"string_passes_through", "Out", domain.TransactionOut},
		{"empty_string_falls_back_to_in", "", domain.TransactionIn},
		{"missing_falls_back_to_in", nil, domain.TransactionIn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wire := api.Wire{"transactionId": float64(1)}
			if tt.value != nil {
				wire["transactionType"] = tt.value
			}
			got := api.TransactionFromWire(wire)
			assert.Equal(t, tt.want, got.TransactionType)
		})
	}
}

func TestTransactionToWire(t *testing.T) {
	tx := domain.StockTransaction{
		TransactionID:   5,
		ShoeID:          2,
		TransactionType: domain.TransactionOut,
		Quantity:        -3,
		Date:            time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
		Notes:           "sold pair",
	}

	wire := api.TransactionToWire(tx, true)

	// The numeric encoding stays at the boundary; quantity is normalized to
	// its absolute value.
	assert.Equal(t, 1, wire["transactionType"])
	assert.Equal(t, 3, wire["quantity"])
	assert.Equal(t, "2026-08-30T10:00:00Z", wire["date"])
	assert.Equal(t, 5, wire["transactionId"])
}

func TestPurchaseFromWire_FallbackChains(t *testing.T) {
	tests := []struct {
		name string
		wire api.Wire
	}{
		{
			name: "modern_spellings",
			wire: api.Wire{
				"purchaseId":   float64(4),
				"shoeId":       float64(2),
				"sourceId":     float64(3),
				"purchaseDate": "2026-08-15T09:30:00Z",
				"quantity":     float64(3),
				"unitPrice":    19.99,
				"totalCost":    59.97,
			},
		},
		{
			name: "legacy_spellings",
			wire: api.Wire{
				"PurchaseID": float64(4),
				"ShoeID":     float64(2),
				"supplierId": float64(3),
				"purchase":   "2026-08-15T09:30:00Z",
				"Quantity":   float64(3),
				"UnitPrice":  "19.99",
				"TotalCost":  "59.97",
			},
		},
	}

	want := domain.PurchaseRecord{
		PurchaseID:   4,
		ShoeID:       2,
		SourceID:     3,
		PurchaseDate: time.Date(2026, 8, 15, 9, 30, 0, 0, time.UTC),
		Quantity:     3,
		UnitPrice:    decimal.NewFromFloat(19.99),
		TotalCost:    decimal.NewFromFloat(59.97),
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := api.PurchaseFromWire(tt.wire)
			assert.Equal(t, want.PurchaseID, got.PurchaseID)
			assert.Equal(t, want.ShoeID, got.ShoeID)
			assert.Equal(t, want.SourceID, got.SourceID)
			assert.True(t, want.PurchaseDate.Equal(got.PurchaseDate))
			assert.Equal(t, want.Quantity, got.Quantity)
			assert.True(t, want.UnitPrice.Equal(got.UnitPrice))
			assert.True(t, want.TotalCost.Equal(got.TotalCost))
		})
	}
}

func TestPurchaseFromWire_FirstSpellingWins(t *testing.T) {
	got := api.PurchaseFromWire(api.Wire{
		"sourceId":   float64(3),
		"supplierId": float64(99),
	})
	assert.Equal(t, 3, got.SourceID)
}

func TestPurchaseToWire_EmitsAllSpellings(t *testing.T) {
	rec := domain.PurchaseRecord{
		PurchaseID:   4,
		ShoeID:       2,
		SourceID:     3,
		PurchaseDate: time.Date(2026, 8, 15, 9, 30, 0, 0, time.UTC),
		Quantity:     3,
		UnitPrice:    decimal.NewFromFloat(19.99),
		TotalCost:    decimal.NewFromFloat(59.97),
	}

	wire := api.PurchaseToWire(rec, true)

	// Both ID aliases and both date spellings go out, so the server binds
	// whichever it expects.
	assert.Equal(t, 3, wire["sourceId"])
	assert.Equal(t, 3, wire["supplierId"])
	assert.Equal(t, "2026-08-15T09:30:00Z", wire["purchaseDate"])
	assert.Equal(t, "2026-08-15T09:30:00Z", wire["purchase"])
	assert.Equal(t, 4, wire["purchaseId"])

	require.NotNil(t, wire["unitPrice"])
	assert.InDelta(t, 19.99, wire["unitPrice"].(float64), 0.0001)
}
