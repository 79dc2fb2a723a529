package extract

// Field alias tables. Raw records span several schema generations, so each
// logical field is read through an ordered alias list: the first alias whose
// value is present and non-empty wins. The order here is a compatibility
// contract — downstream tooling relies on it — and is declared only in this
// file.
var (
	paidAliases    = []string{"paidAmount", "amount", "payment", "paymentAmount"}
	travelAliases  = []string{"travelAmount", "travel"}
	balanceAliases = []string{"balance", "balanceAmount"}
	refundAliases  = []string{"refundAmount", "refund"}
	dateAliases    = []string{"date", "paymentDate", "createdAt", "paymentFor"}
	receiptAliases = []string{"receptNo", "receiptNo", "receipt", "receipt_number"}
	methodAliases  = []string{"paymentMethod", "type", "mode", "method"}

	clientIDAliases   = []string{"clientId", "client_id", "id"}
	clientNameAliases = []string{"clientName", "client_name", "name"}

	refundFlagAliases  = []string{"isRefund", "refunded"}
	clearedFlagAliases = []string{"clearBalance", "balanceCleared", "isBalanceClear"}
)

// Keys under which a record may carry its list of payments or its refund log.
var (
	paymentsKeys = []string{"payments", "paymentList"}
	logKeys      = []string{"paymentLogs", "paymentLog", "refundLogs"}
)

// resolve returns the value of the first present, non-empty alias.
func resolve(rec map[string]any, aliases []string) (any, bool) {
	for _, k := range aliases {
		v, ok := rec[k]
		if !ok || v == nil {
			continue
		}
		if s, isStr := v.(string); isStr && s == "" {
			continue
		}
		return v, true
	}
	return nil, false
}

// hasAny reports whether any alias is present with a non-empty value.
func hasAny(rec map[string]any, aliases []string) bool {
	_, ok := resolve(rec, aliases)
	return ok
}
