package vnpay

const (
	ProcessorName = "vnpay"

	// Currency is fixed: the gateway's vnp_CurrCode is not reliably echoed
	// back in notifications for this merchant integration.
	Currency = "VND"

	// Amounts travel in minor units.
	AmountScale = 100
)

const (
	fieldPrefix = "vnp_"

	FieldVersion        = "vnp_Version"
	FieldCommand        = "vnp_Command"
	FieldTmnCode        = "vnp_TmnCode"
	FieldAmount         = "vnp_Amount"
	FieldCurrCode       = "vnp_CurrCode"
	FieldTxnRef         = "vnp_TxnRef"
	FieldOrderInfo      = "vnp_OrderInfo"
	FieldOrderType      = "vnp_OrderType"
	FieldLocale         = "vnp_Locale"
	FieldBankCode       = "vnp_BankCode"
	FieldCreateDate     = "vnp_CreateDate"
	FieldIPAddr         = "vnp_IpAddr"
	FieldReturnURL      = "vnp_ReturnUrl"
	FieldTransactionNo  = "vnp_TransactionNo"
	FieldCardType       = "vnp_CardType"
	FieldResponseCode   = "vnp_ResponseCode"
	FieldPayDate        = "vnp_PayDate"
	FieldSecureHash     = "vnp_SecureHash"
	FieldSecureHashType = "vnp_SecureHashType"
)
