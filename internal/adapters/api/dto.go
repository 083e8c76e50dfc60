// internal/adapters/api/dto.go
//
// Bidirectional translation between the remote API's wire shapes and the
// dashboard domain records. The wire side is inconsistent about field casing
// and, for some resources, field names; the read side therefore decodes into
// a generic map and resolves each field through an ordered fallback chain of
// known spellings. The write side emits every spelling the server is known to
// bind. The numeric transaction-type encoding never leaves this file.
package api

import (
	"math"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/solesync/solesync/internal/core/domain"
)

// Wire is a decoded JSON object as received from the server
type Wire = map[string]any

// Transaction type wire codes: {In:0, Out:1, Adjustment:2}
var transactionTypeCodes = map[domain.TransactionType]int{
	domain.TransactionIn:         0,
	domain.TransactionOut:        1,
	domain.TransactionAdjustment: 2,
}

var transactionTypesByCode = map[int]domain.TransactionType{
	0: domain.TransactionIn,
	1: domain.TransactionOut,
	2: domain.TransactionAdjustment,
}

// pick returns the first value present under any of the given keys
func pick(m Wire, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func pickString(m Wire, keys ...string) string {
	v, ok := pick(m, keys...)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// asFloat coerces a wire value to a number; non-numeric values coerce to 0
func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func pickFloat(m Wire, keys ...string) float64 {
	v, ok := pick(m, keys...)
	if !ok {
		return 0
	}
	return asFloat(v)
}

func pickInt(m Wire, keys ...string) int {
	return int(pickFloat(m, keys...))
}

func pickDecimal(m Wire, keys ...string) decimal.Decimal {
	v, ok := pick(m, keys...)
	if !ok {
		return decimal.Zero
	}
	if s, isStr := v.(string); isStr {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero
		}
		return d
	}
	return decimal.NewFromFloat(asFloat(v))
}

// pickTime parses a wire date. RFC 3339 instants and bare dates are
// accepted; anything else yields the zero time.
func pickTime(m Wire, keys ...string) time.Time {
	s := pickString(m, keys...)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// wireDate normalizes a domain time to an ISO-8601 instant for the wire
func wireDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// ShoeFromWire maps a server shoe DTO to its domain record
func ShoeFromWire(m Wire) domain.Shoe {
	return domain.Shoe{
		ShoeID:        pickInt(m, "shoeId", "ShoeId", "ShoeID"),
		Brand:         pickString(m, "brand", "Brand"),
		Model:         pickString(m, "model", "Model"),
		Colorway:      pickString(m, "colorway", "Colorway"),
		Size:          pickFloat(m, "size", "Size"),
		Condition:     pickString(m, "condition", "Condition"),
		PurchasePrice: pickDecimal(m, "purchasePrice", "PurchasePrice"),
		CurrentStock:  pickInt(m, "currentStock", "CurrentStock"),
	}
}

// ShoeToWire maps a domain shoe to its DTO. The identifier is omitted on
// create so the server assigns it. Size goes over the wire as a string.
func ShoeToWire(s domain.Shoe, includeID bool) Wire {
	w := Wire{
		"brand":         s.Brand,
		"model":         s.Model,
		"colorway":      s.Colorway,
		"size":          strconv.FormatFloat(s.Size, 'f', -1, 64),
		"condition":     s.Condition,
		"purchasePrice": s.PurchasePrice.InexactFloat64(),
		"currentStock":  s.CurrentStock,
	}
	if includeID {
		w["shoeId"] = s.ShoeID
	}
	return w
}

// SourceFromWire maps a supplier DTO to its domain record. The wire calls
// the key supplierId; the domain keeps the legacy SourceID alias, and this
// is the single place that translation occurs.
func SourceFromWire(m Wire) domain.Source {
	return domain.Source{
		SourceID:    pickInt(m, "supplierId", "SupplierId", "SupplierID", "sourceId", "SourceID"),
		Name:        pickString(m, "name", "Name"),
		ContactInfo: pickString(m, "contactInfo", "ContactInfo"),
	}
}

// SourceToWire maps a domain source to its supplier DTO
func SourceToWire(s domain.Source, includeID bool) Wire {
	w := Wire{
		"name":        s.Name,
		"contactInfo": s.ContactInfo,
	}
	if includeID {
		w["supplierId"] = s.SourceID
	}
	return w
}

// transactionTypeFromWire tolerates both encodings: a numeric code maps
// through the code table with unknown codes falling back to In; a non-empty
// string passes through; anything else falls back to In.
func transactionTypeFromWire(v any) domain.TransactionType {
	switch t := v.(type) {
	case float64:
		if tt, ok := transactionTypesByCode[int(t)]; ok {
			return tt
		}
		return domain.TransactionIn
	case string:
		if t != "" {
			return domain.TransactionType(t)
		}
	}
	return domain.TransactionIn
}

// TransactionFromWire maps a stock transaction DTO to its domain record
func TransactionFromWire(m Wire) domain.StockTransaction {
	typeValue, _ := pick(m, "transactionType", "TransactionType")
	return domain.StockTransaction{
		TransactionID:   pickInt(m, "transactionId", "TransactionId", "TransactionID"),
		ShoeID:          pickInt(m, "shoeId", "ShoeId", "ShoeID"),
		TransactionType: transactionTypeFromWire(typeValue),
		Quantity:        pickInt(m, "quantity", "Quantity"),
		Date:            pickTime(m, "date", "Date"),
		Notes:           pickString(m, "notes", "Notes"),
	}
}

// TransactionToWire maps a domain transaction to its DTO. The type goes out
// as its numeric code and the quantity as its absolute value; sign is a
// presentation concern, not a stored one.
func TransactionToWire(t domain.StockTransaction, includeID bool) Wire {
	code, ok := transactionTypeCodes[t.TransactionType]
	if !ok {
		code = transactionTypeCodes[domain.TransactionIn]
	}
	w := Wire{
		"shoeId":          t.ShoeID,
		"transactionType": code,
		"quantity":        int(math.Abs(float64(t.Quantity))),
		"date":            wireDate(t.Date),
		"notes":           t.Notes,
	}
	if includeID {
		w["transactionId"] = t.TransactionID
	}
	return w
}

// PurchaseFromWire maps a purchase record DTO to its domain record,
// accepting every spelling the server has been observed to emit,
// first match wins.
func PurchaseFromWire(m Wire) domain.PurchaseRecord {
	return domain.PurchaseRecord{
		PurchaseID:   pickInt(m, "purchaseId", "PurchaseId", "PurchaseID"),
		ShoeID:       pickInt(m, "shoeId", "ShoeId", "ShoeID"),
		SourceID:     pickInt(m, "sourceId", "SourceId", "SourceID", "supplierId", "SupplierId", "SupplierID"),
		PurchaseDate: pickTime(m, "purchaseDate", "PurchaseDate", "purchase", "Purchase"),
		Quantity:     pickInt(m, "quantity", "Quantity"),
		UnitPrice:    pickDecimal(m, "unitPrice", "UnitPrice"),
		TotalCost:    pickDecimal(m, "totalCost", "TotalCost"),
	}
}

// PurchaseToWire maps a domain purchase record to its DTO, emitting all
// known field spellings so the server binds whichever it expects.
func PurchaseToWire(p domain.PurchaseRecord, includeID bool) Wire {
	date := wireDate(p.PurchaseDate)
	w := Wire{
		"shoeId":       p.ShoeID,
		"sourceId":     p.SourceID,
		"supplierId":   p.SourceID,
		"purchaseDate": date,
		"purchase":     date,
		"quantity":     p.Quantity,
		"unitPrice":    p.UnitPrice.InexactFloat64(),
		"totalCost":    p.TotalCost.InexactFloat64(),
	}
	if includeID {
		w["purchaseId"] = p.PurchaseID
	}
	return w
}
