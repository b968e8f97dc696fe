package buycrypto

// Action is a state transition understood by Reduce.
type Action interface {
	isAction()
}

// ResetState returns the form to its initial state.
type ResetState struct{}

type TypeInput struct {
	TypedValue string
}

type SelectCurrency struct {
	CurrencyID string
	Field      Field
}

type SetMinAmount struct {
	MinAmount     string
	MinBaseAmount string
}

type SetRecipient struct {
	Recipient *string
}

type SetUsersIPAddress struct {
	IP *string
}

// ReplaceState overwrites the form, typically from URL parameters.
type ReplaceState struct {
	TypedValue       string
	Recipient        *string
	InputCurrencyID  string
	OutputCurrencyID string
	MinAmount        string
	MinBaseAmount    string
}

func (ResetState) isAction()        {}
func (TypeInput) isAction()         {}
func (SelectCurrency) isAction()    {}
func (SetMinAmount) isAction()      {}
func (SetRecipient) isAction()      {}
func (SetUsersIPAddress) isAction() {}
func (ReplaceState) isAction()      {}
