// Package txerpad converts invoice fields coming out of document extraction
// into the values the Txerpad invoicing system expects: alpha-2 country
// codes, exact decimal amounts, year-qualified trimester periods and tax
// system codes.
package txerpad

// InvoiceType classifies an invoice. The tags are the wire values used by
// the Txerpad integration.
type InvoiceType string

const (
	Sale               InvoiceType = "venta"
	Purchase           InvoiceType = "compra"
	SaleRectifying     InvoiceType = "rectifica_venta"
	PurchaseRectifying InvoiceType = "rectifica_compra"
)

// InvoiceTypes lists every known invoice type
var InvoiceTypes = []InvoiceType{Sale, Purchase, SaleRectifying, PurchaseRectifying}

// IsSale reports whether the invoice belongs to the sales group
func (t InvoiceType) IsSale() bool {
	return t == Sale || t == SaleRectifying
}

// IsPurchase reports whether the invoice belongs to the purchases group
func (t InvoiceType) IsPurchase() bool {
	return t == Purchase || t == PurchaseRectifying
}

// IsRectifying reports whether the invoice rectifies a previous one
func (t InvoiceType) IsRectifying() bool {
	return t == SaleRectifying || t == PurchaseRectifying
}

// Valid reports whether t is one of the known invoice types
func (t InvoiceType) Valid() bool {
	return t.IsSale() || t.IsPurchase()
}
