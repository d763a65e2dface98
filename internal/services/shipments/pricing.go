package shipments

import (
	"math"
	"strings"

	"github.com/BearBump/ShipTrack/internal/models"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type PriceLine struct {
	Label     string  `json:"label"`
	Amount    float64 `json:"amount"`
	Formatted string  `json:"formatted"`
	Total     bool    `json:"total,omitempty"`
}

// PriceLines is the cost breakdown shown under the shipment details.
func PriceLines(s models.Shipment) []PriceLine {
	p := s.Pricing
	line := func(label string, v float64) PriceLine {
		return PriceLine{Label: label, Amount: v, Formatted: FormatMoney(v, p.Currency)}
	}
	total := line("Total", p.Total)
	total.Total = true
	return []PriceLine{
		line("Product Value", p.Subtotal),
		line("Shipping", p.Shipping),
		line("Insurance", p.Insurance),
		line("Custom Duties", p.CustomDuties),
		line("Taxes", p.Taxes),
		total,
	}
}

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

var moneyPrinter = message.NewPrinter(language.English)

// FormatMoney renders 146785 USD as "$146,785.00".
func FormatMoney(v float64, currency string) string {
	neg := v < 0
	amount := moneyPrinter.Sprintf("%.2f", math.Abs(v))

	if sym, ok := currencySymbols[strings.ToUpper(currency)]; ok {
		amount = sym + amount
	} else if currency != "" {
		amount = amount + " " + strings.ToUpper(currency)
	}
	if neg {
		amount = "-" + amount
	}
	return amount
}
