package buycrypto

// Reduce returns the state after applying a. It never mutates s.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case ResetState:
		return InitialState()
	case TypeInput:
		s.TypedValue = a.TypedValue
	case SelectCurrency:
		switch a.Field {
		case Input:
			s.Input = CurrencySelection{CurrencyID: a.CurrencyID}
		case Output:
			s.Output = CurrencySelection{CurrencyID: a.CurrencyID}
		}
	case SetMinAmount:
		s.MinAmount = a.MinAmount
		s.MinBaseAmount = a.MinBaseAmount
	case SetRecipient:
		s.Recipient = a.Recipient
	case SetUsersIPAddress:
		s.UserIPAddress = a.IP
	case ReplaceState:
		// Only the detected IP address survives a replace.
		return State{
			TypedValue:    a.TypedValue,
			Recipient:     a.Recipient,
			Input:         CurrencySelection{CurrencyID: a.InputCurrencyID},
			Output:        CurrencySelection{CurrencyID: a.OutputCurrencyID},
			MinAmount:     a.MinAmount,
			MinBaseAmount: a.MinBaseAmount,
			UserIPAddress: s.UserIPAddress,
		}
	}
	return s
}
