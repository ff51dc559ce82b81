package domain

// SourceType restricts a report run to a single remote transaction type.
// The values mirror the remote platform's type names. An empty value means
// no restriction; an unrecognized value matches no extractor, so every
// extractor yields empty results.
type SourceType string

const (
	SourceTypeSalesInvoice       SourceType = "ACCREC"
	SourceTypePurchaseInvoice    SourceType = "ACCPAY"
	SourceTypeSalesCreditNote    SourceType = "ACCRECCREDIT"
	SourceTypePurchaseCreditNote SourceType = "ACCPAYCREDIT"
	SourceTypeReceiveMoney       SourceType = "CASHREC"
	SourceTypeSpendMoney         SourceType = "CASHPAID"
	SourceTypeManualJournal      SourceType = "MANJOURNAL"
)

// Human-readable source labels carried on emitted rows.
const (
	LabelSalesInvoice       = "Sales Invoice"
	LabelPurchaseInvoice    = "Purchase Invoice"
	LabelSalesCreditNote    = "Sales Credit Note"
	LabelPurchaseCreditNote = "Purchase Credit Note"
	LabelSpendMoney         = "Spend Money"
	LabelReceiveMoney       = "Receive Money"
	LabelManualJournal      = "Manual Journal"
)
