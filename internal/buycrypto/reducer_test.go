package buycrypto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestInitialStateJSON(t *testing.T) {
	raw, err := json.Marshal(InitialState())
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"typedValue": "",
		"recipient": null,
		"INPUT": {"currencyId": ""},
		"OUTPUT": {"currencyId": ""},
		"minAmount": "",
		"minBaseAmount": "",
		"userIpAddress": null
	}`, string(raw))
}

func TestReduce(t *testing.T) {
	base := State{
		TypedValue:    "100",
		Recipient:     ptr("0xabc"),
		Input:         CurrencySelection{CurrencyID: "USD"},
		Output:        CurrencySelection{CurrencyID: "BNB"},
		MinAmount:     "30",
		MinBaseAmount: "0.1",
		UserIPAddress: ptr("10.0.0.1"),
	}

	tests := []struct {
		name   string
		action Action
		want   func(State) State
	}{
		{"type input", TypeInput{TypedValue: "250"}, func(s State) State { s.TypedValue = "250"; return s }},
		{"select input", SelectCurrency{CurrencyID: "EUR", Field: Input}, func(s State) State { s.Input.CurrencyID = "EUR"; return s }},
		{"select output", SelectCurrency{CurrencyID: "CAKE", Field: Output}, func(s State) State { s.Output.CurrencyID = "CAKE"; return s }},
		{"select unknown field", SelectCurrency{CurrencyID: "X", Field: "SIDEWAYS"}, func(s State) State { return s }},
		{"min amount", SetMinAmount{MinAmount: "50", MinBaseAmount: "0.2"}, func(s State) State { s.MinAmount, s.MinBaseAmount = "50", "0.2"; return s }},
		{"recipient", SetRecipient{Recipient: ptr("0xdef")}, func(s State) State { s.Recipient = ptr("0xdef"); return s }},
		{"clear recipient", SetRecipient{}, func(s State) State { s.Recipient = nil; return s }},
		{"ip address", SetUsersIPAddress{IP: ptr("192.168.1.1")}, func(s State) State { s.UserIPAddress = ptr("192.168.1.1"); return s }},
		{"reset", ResetState{}, func(State) State { return InitialState() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want(base), Reduce(base, tt.action))
		})
	}
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	s := State{TypedValue: "1"}
	_ = Reduce(s, TypeInput{TypedValue: "2"})
	assert.Equal(t, "1", s.TypedValue)
}

func TestReplaceStateKeepsOnlyIPAddress(t *testing.T) {
	prev := State{
		TypedValue:    "100",
		Recipient:     ptr("0xabc"),
		Input:         CurrencySelection{CurrencyID: "USD"},
		Output:        CurrencySelection{CurrencyID: "BNB"},
		MinAmount:     "30",
		MinBaseAmount: "0.1",
		UserIPAddress: ptr("10.0.0.1"),
	}

	got := Reduce(prev, ReplaceState{
		TypedValue:       "5",
		InputCurrencyID:  "GBP",
		OutputCurrencyID: "ETH",
	})

	assert.Equal(t, State{
		TypedValue:    "5",
		Input:         CurrencySelection{CurrencyID: "GBP"},
		Output:        CurrencySelection{CurrencyID: "ETH"},
		UserIPAddress: ptr("10.0.0.1"),
	}, got)
}
