package stripebilling

import (
	"fmt"
	"strconv"
	"strings"
)

type SubscriptionInput struct {
	IdempotencyKey   string
	ProposalID       string
	SignedProposalID string
	Email            string
	Name             string
	BusinessName     string
	AddonIDs         []string
}

type Totals struct {
	SetupFee      int64 `json:"setup_fee"`
	BaseMonthly   int64 `json:"base_monthly"`
	AddonsMonthly int64 `json:"addons_monthly"`
	MonthlyTotal  int64 `json:"monthly_total"`
	DueNow        int64 `json:"due_now"`
}

type SubscriptionResult struct {
	CustomerID     string
	SubscriptionID string
	InvoiceID      string
	InvoiceURL     string
	InvoicePDF     string
	PriceIDs       []string
	Totals         Totals
}

// Price is a Stripe price id and the amount in cents it charges.
type Price struct {
	ID     string
	Amount int64
}

type PriceTable struct {
	Base   Price
	Setup  Price
	Addons map[string]Price
}

// ParsePrice reads "price_id:amount_cents".
func ParsePrice(raw string) (Price, error) {
	id, amount, ok := strings.Cut(strings.TrimSpace(raw), ":")
	if !ok || id == "" {
		return Price{}, fmt.Errorf("price %q must look like price_id:amount_cents", raw)
	}
	cents, err := strconv.ParseInt(amount, 10, 64)
	if err != nil || cents < 0 {
		return Price{}, fmt.Errorf("price %q has an invalid amount", raw)
	}
	return Price{ID: id, Amount: cents}, nil
}

// ParseAddonPrices reads "addon-id=price_id:amount,addon-id=price_id:amount".
func ParseAddonPrices(raw string) (map[string]Price, error) {
	out := map[string]Price{}
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		addonID, price, ok := strings.Cut(entry, "=")
		if !ok || strings.TrimSpace(addonID) == "" {
			return nil, fmt.Errorf("add-on price %q must look like addon-id=price_id:amount_cents", entry)
		}
		p, err := ParsePrice(price)
		if err != nil {
			return nil, err
		}
		out[strings.TrimSpace(addonID)] = p
	}
	return out, nil
}
