package ipnprotocol

const (
	ConfirmSuccess  RspCode = "00"
	BasketNotFound  RspCode = "01"
	AlreadyUpdated  RspCode = "02"
	InvalidSign     RspCode = "97"
	InvalidOrSystem RspCode = "99"
)

type RspCode string

// Response is the acknowledgement the gateway expects from an IPN call.
type Response struct {
	RspCode RspCode `json:"RspCode"`
	Message string  `json:"Message"`
}

var (
	Success          = Response{RspCode: ConfirmSuccess, Message: "Confirm Success"}
	NotFound         = Response{RspCode: BasketNotFound, Message: "Basket not found"}
	Redundant        = Response{RspCode: AlreadyUpdated, Message: "Order Already Update"}
	InvalidSignature = Response{RspCode: InvalidSign, Message: "Invalid signature"}
	InvalidRequest   = Response{RspCode: InvalidOrSystem, Message: "Invalid request"}
	SystemError      = Response{RspCode: InvalidOrSystem, Message: "System error"}
)
