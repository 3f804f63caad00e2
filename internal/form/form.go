// Package form implements the flat multipart encoding of a purchase
// request: scalar fields plus an item list linearized into
// index-suffixed pairs with an item_count field carrying the
// authoritative length.
package form

import (
	"fmt"
	"mime/multipart"
	"strconv"

	"solicitacao-compras/internal/domain/model"
)

// Wire field names.
const (
	FieldDate          = "data"
	FieldSector        = "setor"
	FieldRequestedBy   = "requisitadoPor"
	FieldUrgency       = "urgencia"
	FieldJustification = "justificativa"
	FieldCcEmail       = "copiaEmail"
	FieldItemCount     = "item_count"
	FieldPhoto         = "foto"

	// Raw per-row input names. The composer must not let these leak
	// onto the wire; only the indexed variants are part of the contract.
	rawService  = "servico"
	rawQuantity = "quantidade"
)

// maxItemRows caps how many indexed rows the decoder will walk,
// whatever item_count claims.
const maxItemRows = 1000

// ServiceField returns the wire name of the description field at index i.
func ServiceField(i int) string { return fmt.Sprintf("servico_%d", i) }

// QuantityField returns the wire name of the quantity field at index i.
func QuantityField(i int) string { return fmt.Sprintf("quantidade_%d", i) }

// Values is the decoded field set: each name maps to the ordered
// sequence of values it arrived with. Multipart encoders disagree on
// whether a single value travels bare or as a one-element sequence,
// so every read goes through First.
type Values map[string][]string

// First returns the first value for key, or "" when the key is absent
// or carries an empty sequence.
func (v Values) First(key string) string {
	if vals, ok := v[key]; ok && len(vals) > 0 {
		return vals[0]
	}
	return ""
}

// Set replaces the sequence for key with a single value.
func (v Values) Set(key, value string) {
	v[key] = []string{value}
}

// DecodeItems reconstructs the ordered item list from the indexed
// fields. An item_count that does not parse as a non-negative integer
// yields an empty list instead of an error. Indexes whose description
// field is missing or empty are skipped; the survivors keep ascending
// index order.
func DecodeItems(v Values) []model.LineItem {
	count, err := strconv.Atoi(v.First(FieldItemCount))
	if err != nil || count <= 0 {
		return nil
	}

	// item_count is client-supplied; never size an allocation or a
	// loop from it directly.
	if count > maxItemRows {
		count = maxItemRows
	}
	capacity := count
	if capacity > len(v) {
		// Every present item contributes at least its description key.
		capacity = len(v)
	}

	items := make([]model.LineItem, 0, capacity)
	for i := 0; i < count; i++ {
		description := v.First(ServiceField(i))
		if description == "" {
			continue
		}
		items = append(items, model.LineItem{
			Description: description,
			Quantity:    v.First(QuantityField(i)),
		})
	}
	return items
}

// EncodeItems writes the indexed pair fields and item_count into dst,
// dropping any raw per-row fields a naive form serialization may have
// produced. Rows with an empty description are encoded too; dropping
// them is the decoder's job.
func EncodeItems(items []model.LineItem, dst Values) {
	delete(dst, rawService)
	delete(dst, rawQuantity)

	for i, item := range items {
		dst.Set(ServiceField(i), item.Description)
		dst.Set(QuantityField(i), item.Quantity)
	}
	dst.Set(FieldItemCount, strconv.Itoa(len(items)))
}

// WriteItems appends the indexed item fields to a multipart body.
func WriteItems(items []model.LineItem, w *multipart.Writer) error {
	for i, item := range items {
		if err := w.WriteField(ServiceField(i), item.Description); err != nil {
			return err
		}
		if err := w.WriteField(QuantityField(i), item.Quantity); err != nil {
			return err
		}
	}
	return w.WriteField(FieldItemCount, strconv.Itoa(len(items)))
}

// DecodeRequest builds the request record from the scalar fields and
// the item list. The photo travels outside the value set and is
// attached by the caller.
func DecodeRequest(v Values) model.PurchaseRequest {
	return model.PurchaseRequest{
		Date:          v.First(FieldDate),
		Sector:        v.First(FieldSector),
		RequestedBy:   v.First(FieldRequestedBy),
		Urgency:       v.First(FieldUrgency),
		Justification: v.First(FieldJustification),
		CcEmail:       v.First(FieldCcEmail),
		Items:         DecodeItems(v),
	}
}
