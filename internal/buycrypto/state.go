// Package buycrypto holds the state of the buy-crypto form: the amount typed,
// the fiat/crypto pair, the recipient and the provider minimums.
package buycrypto

// Field names one side of the currency pair.
type Field string

const (
	Input  Field = "INPUT"
	Output Field = "OUTPUT"
)

type CurrencySelection struct {
	CurrencyID string `json:"currencyId"`
}

type State struct {
	TypedValue    string            `json:"typedValue"`
	Recipient     *string           `json:"recipient"`
	Input         CurrencySelection `json:"INPUT"`
	Output        CurrencySelection `json:"OUTPUT"`
	MinAmount     string            `json:"minAmount"`
	MinBaseAmount string            `json:"minBaseAmount"`
	UserIPAddress *string           `json:"userIpAddress"`
}

func InitialState() State {
	return State{}
}
