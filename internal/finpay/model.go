package finpay

// ResponseCodeSuccess is the code Finpay returns when the initiation was
// accepted and a hosted payment page is available.
const ResponseCodeSuccess = "2000000"

type Customer struct {
	Email       string `json:"email"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	MobilePhone string `json:"mobilePhone"`
}

type Item struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

type OrderPayload struct {
	ID          uint    `json:"id"`
	Amount      float64 `json:"amount"`
	Items       []Item  `json:"item"`
	Description string  `json:"description"`
}

type CallbackURLs struct {
	CallbackURL string `json:"callbackUrl"`
	BackURL     string `json:"backUrl,omitempty"`
	FailURL     string `json:"failUrl,omitempty"`
	SuccessURL  string `json:"successUrl,omitempty"`
}

type PaymentRequest struct {
	MerchantID  string       `json:"merchant_id"`
	MerchantPwd string       `json:"merchant_pwd"`
	Customer    Customer     `json:"customer"`
	Order       OrderPayload `json:"order"`
	URL         CallbackURLs `json:"url"`
}

type PaymentResponse struct {
	ResponseCode    string `json:"responseCode"`
	ResponseMessage string `json:"responseMessage"`
	RedirectURL     string `json:"redirecturl"`
}

// Notification is the typed view of the webhook body. Signature checking
// works on the raw bytes, not on this struct, so unknown fields the gateway
// adds still count toward the signature.
type Notification struct {
	Order struct {
		ID uint `json:"id"`
	} `json:"order"`
	Result struct {
		Payment struct {
			Status string `json:"status"`
		} `json:"payment"`
	} `json:"result"`
	SourceOfFunds struct {
		Type string `json:"type"`
	} `json:"sourceOfFunds"`
	Signature string `json:"signature"`
}

const (
	PaymentStatusPaid     = "PAID"
	PaymentStatusCaptured = "CAPTURED"

	SourceOfFundsCreditCard = "cc"
)

// Paid reports whether the notification represents a completed payment:
// either a settled PAID, or a CAPTURED card payment.
func (n *Notification) Paid() bool {
	status := n.Result.Payment.Status
	if status == PaymentStatusPaid {
		return true
	}
	return status == PaymentStatusCaptured && n.SourceOfFunds.Type == SourceOfFundsCreditCard
}
