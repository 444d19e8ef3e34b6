package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"homeledger/internal/repositories/docstore"
)

const (
	CollectionTransactions = "transactions"
	CollectionCategories   = "categories"
	CollectionHouseholds   = "households"
	CollectionInvitations  = "invitations"
)

// ErrMalformedDocument marks a stored document that does not decode
// into its entity. All type checking of raw documents happens here, at
// the persistence boundary, so the rest of the code only ever sees
// typed entities.
var ErrMalformedDocument = errors.New("malformed document")

// docDecoder walks one raw document, remembering the first field that
// fails to decode.
type docDecoder struct {
	collection string
	id         string
	doc        docstore.Document
	err        error
}

func newDecoder(collection string, doc docstore.Document) *docDecoder {
	d := &docDecoder{collection: collection, doc: doc}
	id, ok := doc["id"].(string)
	if !ok || id == "" {
		d.fail("id")
		return d
	}
	d.id = id
	return d
}

func (d *docDecoder) fail(field string) {
	if d.err == nil {
		d.err = fmt.Errorf("%s/%s field %q: %w", d.collection, d.id, field, ErrMalformedDocument)
	}
}

func (d *docDecoder) str(field string, required bool) string {
	v, ok := d.doc[field]
	if !ok {
		if required {
			d.fail(field)
		}
		return ""
	}
	s, ok := v.(string)
	if !ok {
		d.fail(field)
		return ""
	}
	return s
}

func (d *docDecoder) boolean(field string) bool {
	v, ok := d.doc[field]
	if !ok {
		return false
	}
	b, ok := v.(bool)
	if !ok {
		d.fail(field)
		return false
	}
	return b
}

func (d *docDecoder) amount(field string, required bool) decimal.Decimal {
	v, ok := d.doc[field]
	if !ok {
		if required {
			d.fail(field)
		}
		return decimal.Zero
	}
	dec, ok := amountValue(v)
	if !ok {
		d.fail(field)
		return decimal.Zero
	}
	return dec
}

func (d *docDecoder) timestamp(field string, required bool) time.Time {
	v, ok := d.doc[field]
	if !ok {
		if required {
			d.fail(field)
		}
		return time.Time{}
	}
	s, ok := v.(string)
	if !ok {
		d.fail(field)
		return time.Time{}
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		d.fail(field)
		return time.Time{}
	}
	return ts
}

func (d *docDecoder) stringList(field string) []string {
	v, ok := d.doc[field]
	if !ok {
		return nil
	}
	switch list := v.(type) {
	case []string:
		out := make([]string, len(list))
		copy(out, list)
		return out
	case []interface{}:
		out := make([]string, 0, len(list))
		for _, e := range list {
			s, ok := e.(string)
			if !ok {
				d.fail(field)
				return nil
			}
			out = append(out, s)
		}
		return out
	}
	d.fail(field)
	return nil
}

func (d *docDecoder) stringMap(field string) map[string]string {
	v, ok := d.doc[field]
	if !ok {
		return nil
	}
	m, ok := v.(map[string]interface{})
	if !ok {
		d.fail(field)
		return nil
	}
	out := make(map[string]string, len(m))
	for k, e := range m {
		s, ok := e.(string)
		if !ok {
			d.fail(field)
			return nil
		}
		out[k] = s
	}
	return out
}

func (d *docDecoder) shares(field string) []SplitShare {
	v, ok := d.doc[field]
	if !ok {
		return nil
	}
	list, ok := v.([]interface{})
	if !ok {
		d.fail(field)
		return nil
	}
	out := make([]SplitShare, 0, len(list))
	for _, e := range list {
		m, ok := e.(map[string]interface{})
		if !ok {
			d.fail(field)
			return nil
		}
		member, ok := m["memberUserId"].(string)
		if !ok || member == "" {
			d.fail(field)
			return nil
		}
		amount, ok := amountValue(m["amount"])
		if !ok {
			d.fail(field)
			return nil
		}
		percentage, ok := amountValue(m["percentage"])
		if !ok {
			d.fail(field)
			return nil
		}
		out = append(out, SplitShare{
			MemberUserID: member,
			Amount:       amount,
			Percentage:   percentage,
		})
	}
	return out
}

// amountValue accepts the two encodings amounts arrive in: the string
// form this codec writes, and a raw JSON number written by older
// clients.
func amountValue(v interface{}) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case string:
		dec, err := decimal.NewFromString(n)
		if err != nil {
			return decimal.Zero, false
		}
		return dec, true
	case float64:
		return decimal.NewFromFloat(n), true
	}
	return decimal.Zero, false
}

func timestampValue(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func sharesValue(shares []SplitShare) []interface{} {
	out := make([]interface{}, 0, len(shares))
	for _, s := range shares {
		out = append(out, map[string]interface{}{
			"memberUserId": s.MemberUserID,
			"amount":       s.Amount.String(),
			"percentage":   s.Percentage.String(),
		})
	}
	return out
}

func stringListValue(list []string) []interface{} {
	out := make([]interface{}, 0, len(list))
	for _, s := range list {
		out = append(out, s)
	}
	return out
}

func stringMapValue(m map[string]string) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func DecodeTransaction(doc docstore.Document) (Transaction, error) {
	d := newDecoder(CollectionTransactions, doc)
	t := Transaction{
		ID:                d.id,
		Amount:            d.amount("amount", true),
		Description:       d.str("description", false),
		Date:              d.timestamp("date", true),
		CategoryID:        d.str("categoryId", false),
		OwnerUserID:       d.str("ownerUserId", true),
		Kind:              TransactionKind(d.str("kind", true)),
		HouseholdID:       d.str("householdId", false),
		SplitInfo:         d.shares("splitInfo"),
		IsSplitPortion:    d.boolean("isSplitPortion"),
		MainTransactionID: d.str("mainTransactionId", false),
		CreatedAt:         d.timestamp("createdAt", false),
		UpdatedAt:         d.timestamp("updatedAt", false),
	}
	if d.err == nil && t.Kind != KindIncome && t.Kind != KindExpense {
		d.fail("kind")
	}
	if d.err == nil && t.IsSplitPortion && t.MainTransactionID == "" {
		d.fail("mainTransactionId")
	}
	return t, d.err
}

func (t Transaction) Document() docstore.Document {
	doc := docstore.Document{
		"amount":      t.Amount.String(),
		"description": t.Description,
		"date":        timestampValue(t.Date),
		"categoryId":  t.CategoryID,
		"ownerUserId": t.OwnerUserID,
		"kind":        string(t.Kind),
	}
	if t.HouseholdID != "" {
		doc["householdId"] = t.HouseholdID
	}
	if len(t.SplitInfo) > 0 {
		doc["splitInfo"] = sharesValue(t.SplitInfo)
	}
	if t.IsSplitPortion {
		doc["isSplitPortion"] = true
		doc["mainTransactionId"] = t.MainTransactionID
	}
	if !t.CreatedAt.IsZero() {
		doc["createdAt"] = timestampValue(t.CreatedAt)
	}
	if !t.UpdatedAt.IsZero() {
		doc["updatedAt"] = timestampValue(t.UpdatedAt)
	}
	return doc
}

// DocumentPatch is the partial update for an existing transaction.
// Optional fields the transaction no longer carries map to nil so the
// store drops them; createdAt is never rewritten.
func (t Transaction) DocumentPatch() docstore.Document {
	doc := t.Document()
	for _, field := range []string{"householdId", "splitInfo", "isSplitPortion", "mainTransactionId"} {
		if _, ok := doc[field]; !ok {
			doc[field] = nil
		}
	}
	delete(doc, "createdAt")
	return doc
}

func DecodeCategory(doc docstore.Document) (Category, error) {
	d := newDecoder(CollectionCategories, doc)
	c := Category{
		ID:          d.id,
		Name:        d.str("name", true),
		Kind:        TransactionKind(d.str("kind", true)),
		OwnerUserID: d.str("ownerUserId", false),
		CreatedAt:   d.timestamp("createdAt", false),
	}
	if d.err == nil && c.Kind != KindIncome && c.Kind != KindExpense {
		d.fail("kind")
	}
	return c, d.err
}

func (c Category) Document() docstore.Document {
	doc := docstore.Document{
		"name": c.Name,
		"kind": string(c.Kind),
	}
	if c.OwnerUserID != "" {
		doc["ownerUserId"] = c.OwnerUserID
	}
	if !c.CreatedAt.IsZero() {
		doc["createdAt"] = timestampValue(c.CreatedAt)
	}
	return doc
}

func DecodeHousehold(doc docstore.Document) (Household, error) {
	d := newDecoder(CollectionHouseholds, doc)
	h := Household{
		ID:            d.id,
		Name:          d.str("name", true),
		Description:   d.str("description", false),
		OwnerUserID:   d.str("ownerUserId", true),
		MemberUserIDs: d.stringList("memberUserIds"),
		MemberEmails:  d.stringMap("memberEmails"),
		CreatedAt:     d.timestamp("createdAt", false),
		UpdatedAt:     d.timestamp("updatedAt", false),
	}
	return h, d.err
}

func (h Household) Document() docstore.Document {
	doc := docstore.Document{
		"name":          h.Name,
		"description":   h.Description,
		"ownerUserId":   h.OwnerUserID,
		"memberUserIds": stringListValue(h.MemberUserIDs),
	}
	if len(h.MemberEmails) > 0 {
		doc["memberEmails"] = stringMapValue(h.MemberEmails)
	}
	if !h.CreatedAt.IsZero() {
		doc["createdAt"] = timestampValue(h.CreatedAt)
	}
	if !h.UpdatedAt.IsZero() {
		doc["updatedAt"] = timestampValue(h.UpdatedAt)
	}
	return doc
}

func DecodeInvitation(doc docstore.Document) (Invitation, error) {
	d := newDecoder(CollectionInvitations, doc)
	i := Invitation{
		ID:          d.id,
		HouseholdID: d.str("householdId", true),
		Email:       d.str("email", true),
		TokenHash:   d.str("tokenHash", true),
		Status:      d.str("status", true),
		InvitedBy:   d.str("invitedBy", false),
		ExpiresAt:   d.timestamp("expiresAt", true),
		CreatedAt:   d.timestamp("createdAt", false),
	}
	return i, d.err
}

func (i Invitation) Document() docstore.Document {
	doc := docstore.Document{
		"householdId": i.HouseholdID,
		"email":       i.Email,
		"tokenHash":   i.TokenHash,
		"status":      i.Status,
		"expiresAt":   timestampValue(i.ExpiresAt),
	}
	if i.InvitedBy != "" {
		doc["invitedBy"] = i.InvitedBy
	}
	if !i.CreatedAt.IsZero() {
		doc["createdAt"] = timestampValue(i.CreatedAt)
	}
	return doc
}
