package txerpad

// TaxType is the Spanish tax category a rate belongs to
type TaxType string

const (
	TaxIVA  TaxType = "IVA"  // value-added tax
	TaxIRPF TaxType = "IRPF" // personal income tax withholding
)

// Txerpad tax code tables, keyed by rate percentage. Rates must match a
// key exactly; there is no rounding or interpolation.
var (
	ivaSaleCodes = map[float64]string{
		0:  "IVANOSUJETO",
		4:  "IVAVENTASE4",
		10: "IVAVENTASE10",
		21: "IVAVENTASE21",
	}

	ivaPurchaseCodes = map[float64]string{
		0:   "IVACOMPRASNOSUJETO",
		0.5: "IVACOMPRASRE05",
		1.4: "IVACOMPRASRE14",
		5.2: "IVACOMPRASRE52",
		4:   "IVACOMPRASE4",
		10:  "IVACOMPRASE10",
		21:  "IVACOMPRASE21",
	}

	irpfSaleCodes = map[float64]string{
		1:    "IRPFCUENTA1",
		2:    "IRPFCUENTA2",
		7:    "IRPFCUENTA7",
		15:   "IRPFCUENTA15",
		19:   "IRPFCUENTA19A",
		19.5: "IRPFCUENTA195A",
		20:   "IRPFCUENTA20",
		21:   "IRPFCUENTA21",
	}

	irpfPurchaseCodes = map[float64]string{
		1:    "RETIRPF1",
		2:    "RETIRPF2",
		7:    "RETIRPF7",
		15:   "RETIRPF15",
		19:   "RETIRPF19A",
		19.5: "RETIRPF195A",
		20:   "RETIRPF20",
		21:   "RETIRPF21",
	}
)

// TaxCode resolves the Txerpad tax code for an invoice type, tax type and
// rate. Comma-ok false when no mapping exists for the combination.
func TaxCode(invoiceType InvoiceType, taxType TaxType, rate float64) (string, bool) {
	var table map[float64]string

	switch taxType {
	case TaxIVA:
		switch {
		case invoiceType.IsSale():
			table = ivaSaleCodes
		case invoiceType.IsPurchase():
			table = ivaPurchaseCodes
		}
	case TaxIRPF:
		switch {
		case invoiceType.IsSale():
			table = irpfSaleCodes
		case invoiceType.IsPurchase():
			table = irpfPurchaseCodes
		}
	}

	if table == nil {
		return "", false
	}
	code, ok := table[rate]
	return code, ok
}
