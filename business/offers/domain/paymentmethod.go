package domain

// PaymentMethodKey identifies how the user pays (buy) or gets paid (sell).
type PaymentMethodKey string

const (
	MethodACH              PaymentMethodKey = "ach"
	MethodApplePay         PaymentMethodKey = "applePay"
	MethodCreditCard       PaymentMethodKey = "creditCard"
	MethodDebitCard        PaymentMethodKey = "debitCard"
	MethodGooglePay        PaymentMethodKey = "googlePay"
	MethodSEPABankTransfer PaymentMethodKey = "sepaBankTransfer"
	MethodPix              PaymentMethodKey = "pix"
	MethodPayPal           PaymentMethodKey = "paypal"
	MethodVenmo            PaymentMethodKey = "venmo"
	MethodOther            PaymentMethodKey = "other"
)

// PaymentMethod describes one payment method and which providers accept
// it on each trade side.
type PaymentMethod struct {
	Key   PaymentMethodKey
	Label string
	Buy   map[ProviderKey]bool
	Sell  map[ProviderKey]bool
}

// PaymentMethods is the method support matrix. Per-provider acceptance
// reflects each exchange's published capabilities; country gating is
// separate (see AvailableInCountry).
var PaymentMethods = map[PaymentMethodKey]PaymentMethod{
	MethodACH: {
		Key:   MethodACH,
		Label: "ACH Bank Transfer",
		Buy:   map[ProviderKey]bool{MoonPay: true, Sardine: true},
		Sell:  map[ProviderKey]bool{MoonPay: true},
	},
	MethodApplePay: {
		Key:   MethodApplePay,
		Label: "Apple Pay",
		Buy:   map[ProviderKey]bool{Banxa: true, MoonPay: true, Ramp: true, Sardine: true, Transak: true},
		Sell:  map[ProviderKey]bool{},
	},
	MethodCreditCard: {
		Key:   MethodCreditCard,
		Label: "Credit Card",
		Buy:   map[ProviderKey]bool{Banxa: true, MoonPay: true, Ramp: true, Simplex: true, Transak: true},
		Sell:  map[ProviderKey]bool{},
	},
	MethodDebitCard: {
		Key:   MethodDebitCard,
		Label: "Debit Card",
		Buy:   map[ProviderKey]bool{Banxa: true, MoonPay: true, Sardine: true, Simplex: true, Transak: true},
		Sell:  map[ProviderKey]bool{MoonPay: true},
	},
	MethodGooglePay: {
		Key:   MethodGooglePay,
		Label: "Google Pay",
		Buy:   map[ProviderKey]bool{Banxa: true, MoonPay: true, Ramp: true, Sardine: true, Transak: true},
		Sell:  map[ProviderKey]bool{},
	},
	MethodPix: {
		Key:   MethodPix,
		Label: "Pix",
		Buy:   map[ProviderKey]bool{MoonPay: true, Transak: true},
		Sell:  map[ProviderKey]bool{},
	},
	MethodSEPABankTransfer: {
		Key:   MethodSEPABankTransfer,
		Label: "SEPA Bank Transfer",
		Buy:   map[ProviderKey]bool{Banxa: true, MoonPay: true, Ramp: true, Transak: true},
		Sell:  map[ProviderKey]bool{MoonPay: true, Ramp: true},
	},
	MethodPayPal: {
		Key:   MethodPayPal,
		Label: "PayPal",
		Buy:   map[ProviderKey]bool{},
		Sell:  map[ProviderKey]bool{MoonPay: true},
	},
	MethodVenmo: {
		Key:   MethodVenmo,
		Label: "Venmo",
		Buy:   map[ProviderKey]bool{},
		Sell:  map[ProviderKey]bool{MoonPay: true},
	},
	MethodOther: {
		Key:   MethodOther,
		Label: "Other",
		Buy:   map[ProviderKey]bool{Banxa: true, MoonPay: true, Ramp: true, Sardine: true, Simplex: true, Transak: true},
		Sell:  map[ProviderKey]bool{MoonPay: true, Ramp: true, Simplex: true},
	},
}

// euCountries mirrors the SEPA zone membership used for the
// sepaBankTransfer gate.
var euCountries = map[string]bool{
	"AT": true, "BE": true, "BG": true, "HR": true, "CY": true, "CZ": true,
	"DK": true, "EE": true, "FI": true, "FR": true, "DE": true, "GR": true,
	"HU": true, "IE": true, "IT": true, "LV": true, "LT": true, "LU": true,
	"MT": true, "NL": true, "PL": true, "PT": true, "RO": true, "SK": true,
	"SI": true, "ES": true, "SE": true, "IS": true, "LI": true, "NO": true,
}

// AvailableInCountry reports whether a payment method can be offered at
// all in a country: ACH and Venmo are US-only, SEPA is EU-only, Pix is
// Brazil-only.
func (m PaymentMethod) AvailableInCountry(country string) bool {
	switch m.Key {
	case MethodACH, MethodVenmo:
		return country == "US"
	case MethodSEPABankTransfer:
		return euCountries[country]
	case MethodPix:
		return country == "BR"
	default:
		return true
	}
}

// SupportsProvider reports whether the method is accepted by the
// provider on the given trade side.
func (m PaymentMethod) SupportsProvider(provider ProviderKey, side TradeSide) bool {
	if side == Sell {
		return m.Sell[provider]
	}
	return m.Buy[provider]
}

// MethodLabel returns the label for a method key, falling back to the
// raw key for unknown methods.
func MethodLabel(key PaymentMethodKey) string {
	if m, ok := PaymentMethods[key]; ok {
		return m.Label
	}
	return string(key)
}
