// Package extract turns raw client records from the payment store into
// normalized payment entries. The source data is adversarial: several schema
// generations coexist, fields are hand-typed, and amounts arrive as strings,
// numbers, or garbage. Extraction therefore never fails — unparsable fields
// default to zero and unrecognizable records yield no entries.
package extract

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/paylens-dev/paylens/internal/model"
)

// Provenance identifies where a raw record came from. It is supplied by the
// store layer; sub-items inside a record typically lack this information.
type Provenance struct {
	Department string
	Path       string
	RecordID   string
}

// shapeDecoder attempts one known record shape. Decoders are tried in order
// and the first that applies wins; the refund log is decoded independently
// and its entries are additive.
type shapeDecoder interface {
	Name() string
	Decode(rec map[string]any, prov Provenance) ([]model.PaymentEntry, bool)
}

var decoders = []shapeDecoder{
	paymentsListShape{},
	flatRecordShape{},
}

// Extract converts one raw record into zero or more payment entries. The
// order of returned entries is not significant; the aggregator re-sorts.
func Extract(rec map[string]any, prov Provenance) []model.PaymentEntry {
	if rec == nil {
		return nil
	}

	var entries []model.PaymentEntry
	for _, d := range decoders {
		if out, ok := d.Decode(rec, prov); ok {
			entries = out
			break
		}
	}

	entries = append(entries, refundLogEntries(rec, prov)...)
	return entries
}

// paymentsListShape handles records holding a payments list (or a map used
// as a list — the current store schema).
type paymentsListShape struct{}

func (paymentsListShape) Name() string { return "payments-list" }

func (paymentsListShape) Decode(rec map[string]any, prov Provenance) ([]model.PaymentEntry, bool) {
	items, ok := itemsOf(rec, paymentsKeys)
	if !ok {
		return nil, false
	}

	var entries []model.PaymentEntry
	for _, item := range items {
		entries = append(entries, buildEntry(item, rec, prov))
	}
	return entries, true
}

// flatRecordShape handles legacy records that predate the list schema and
// carry a single payment's fields at top level. It applies only when the
// record has at least one payment-ish field, so records with no payment
// information yield nothing.
type flatRecordShape struct{}

func (flatRecordShape) Name() string { return "flat-record" }

func (flatRecordShape) Decode(rec map[string]any, prov Provenance) ([]model.PaymentEntry, bool) {
	if !hasAny(rec, paidAliases) && !hasAny(rec, balanceAliases) &&
		!hasAny(rec, refundAliases) && !hasAny(rec, receiptAliases) &&
		!hasAny(rec, dateAliases) {
		return nil, false
	}
	return []model.PaymentEntry{buildEntry(rec, rec, prov)}, true
}

// refundLogEntries extracts additional refund-only entries from a record's
// payment log. Log items without a positive refund amount are dropped.
func refundLogEntries(rec map[string]any, prov Provenance) []model.PaymentEntry {
	items, ok := itemsOf(rec, logKeys)
	if !ok {
		return nil
	}

	var entries []model.PaymentEntry
	for _, item := range items {
		amount, found := resolve(item, refundAliases)
		if !found {
			continue
		}
		refund := toDecimal(amount)
		if refund.Sign() <= 0 {
			continue
		}

		e := buildEntry(item, rec, prov)
		// Log items record only the refunded amount; anything that resolved
		// as a paid amount is the same figure and must not offset the refund.
		e.Paid = decimal.Zero
		e.Refund = refund
		e.RefundFlag = true
		entries = append(entries, e)
	}
	return entries
}

// buildEntry reads one payment item through the alias tables. Client
// identity always comes from the owning record and provenance from the
// caller, never from the sub-item.
func buildEntry(item, rec map[string]any, prov Provenance) model.PaymentEntry {
	e := model.PaymentEntry{
		SourceID:   prov.RecordID,
		Department: prov.Department,
	}

	e.ClientID, e.ClientName = clientIdentity(rec)

	if v, ok := resolve(item, paidAliases); ok {
		e.Paid = toDecimal(v)
	}
	if v, ok := resolve(item, travelAliases); ok {
		e.Travel = toDecimal(v)
	}
	if v, ok := resolve(item, balanceAliases); ok {
		e.Balance = toDecimal(v)
	}
	if v, ok := resolve(item, refundAliases); ok {
		e.Refund = toDecimal(v)
	}
	if v, ok := resolve(item, receiptAliases); ok {
		e.Receipt = toString(v)
	}
	if v, ok := resolve(item, methodAliases); ok {
		e.Method = toString(v)
	}
	if v, ok := resolve(item, refundFlagAliases); ok {
		e.RefundFlag = toBool(v)
	}
	if v, ok := resolve(item, clearedFlagAliases); ok {
		e.ClearedFlag = toBool(v)
	}

	if v, ok := resolve(item, dateAliases); ok {
		e.RawDate = toString(v)
		if t, parsed := ParseDate(v); parsed {
			e.Date = t
		}
	}

	return e
}

// unknownClient labels entries whose record has no identifiable client, so
// their amounts still count toward totals instead of being discarded.
const unknownClient = "Unknown"

func clientIdentity(rec map[string]any) (id, name string) {
	if v, ok := resolve(rec, clientIDAliases); ok {
		id = toString(v)
	}
	if v, ok := resolve(rec, clientNameAliases); ok {
		name = toString(v)
	}
	if id == "" && name == "" {
		return unknownClient, unknownClient
	}
	if id == "" {
		id = name
	}
	if name == "" {
		name = id
	}
	return id, name
}

// itemsOf returns a record's sub-items under the first matching key,
// accepting either a list or a map treated as a list. Map iteration order is
// made deterministic by sorting keys; item order is not otherwise
// significant.
func itemsOf(rec map[string]any, keys []string) ([]map[string]any, bool) {
	v, ok := resolve(rec, keys)
	if !ok {
		return nil, false
	}

	switch list := v.(type) {
	case []any:
		var items []map[string]any
		for _, it := range list {
			if m, isMap := it.(map[string]any); isMap {
				items = append(items, m)
			}
		}
		return items, true
	case map[string]any:
		ks := make([]string, 0, len(list))
		for k := range list {
			ks = append(ks, k)
		}
		sort.Strings(ks)

		var items []map[string]any
		for _, k := range ks {
			if m, isMap := list[k].(map[string]any); isMap {
				items = append(items, m)
			}
		}
		return items, true
	default:
		return nil, false
	}
}
