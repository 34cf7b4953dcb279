package stripebilling

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
)

type fakeAPI struct {
	existing     *stripe.Customer
	invoice      *stripe.Invoice
	subErr       error
	calls        []string
	idempotency  []string
	subscription *stripe.SubscriptionParams
	created      *stripe.CustomerParams
}

func (f *fakeAPI) FindCustomerByEmail(params *stripe.CustomerListParams) (*stripe.Customer, error) {
	f.calls = append(f.calls, "customers.list")
	return f.existing, nil
}

func (f *fakeAPI) NewCustomer(params *stripe.CustomerParams) (*stripe.Customer, error) {
	f.calls = append(f.calls, "customers.new")
	f.idempotency = append(f.idempotency, *params.IdempotencyKey)
	f.created = params
	return &stripe.Customer{ID: "cus_new"}, nil
}

func (f *fakeAPI) UpdateCustomer(id string, params *stripe.CustomerParams) (*stripe.Customer, error) {
	f.calls = append(f.calls, "customers.update")
	f.idempotency = append(f.idempotency, *params.IdempotencyKey)
	return &stripe.Customer{ID: id}, nil
}

func (f *fakeAPI) NewSubscription(params *stripe.SubscriptionParams) (*stripe.Subscription, error) {
	f.calls = append(f.calls, "subscriptions.new")
	f.subscription = params
	if f.subErr != nil {
		return nil, f.subErr
	}
	f.idempotency = append(f.idempotency, *params.IdempotencyKey)
	return &stripe.Subscription{ID: "sub_1", LatestInvoice: &stripe.Invoice{ID: "in_1"}}, nil
}

func (f *fakeAPI) GetInvoice(id string, params *stripe.InvoiceParams) (*stripe.Invoice, error) {
	f.calls = append(f.calls, "invoices.get")
	return f.invoice, nil
}

func (f *fakeAPI) FinalizeInvoice(id string, params *stripe.InvoiceFinalizeInvoiceParams) (*stripe.Invoice, error) {
	f.calls = append(f.calls, "invoices.finalize")
	f.idempotency = append(f.idempotency, *params.IdempotencyKey)
	return &stripe.Invoice{ID: id, Status: stripe.InvoiceStatusOpen}, nil
}

func (f *fakeAPI) SendInvoice(id string, params *stripe.InvoiceSendInvoiceParams) (*stripe.Invoice, error) {
	f.calls = append(f.calls, "invoices.send")
	f.idempotency = append(f.idempotency, *params.IdempotencyKey)
	return &stripe.Invoice{
		ID:               id,
		Status:           stripe.InvoiceStatusOpen,
		HostedInvoiceURL: "https://invoice.stripe.com/i/in_1",
		InvoicePDF:       "https://pay.stripe.com/invoice/in_1/pdf",
	}, nil
}

func testPrices() PriceTable {
	return PriceTable{
		Base:  Price{ID: "price_base", Amount: 150000},
		Setup: Price{ID: "price_setup", Amount: 50000},
		Addons: map[string]Price{
			"seo-blog": {ID: "price_blog", Amount: 29900},
			"gbp":      {ID: "price_gbp", Amount: 19900},
		},
	}
}

func newTestClient(api *fakeAPI) *Client {
	return &Client{api: api, prices: testPrices(), logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func TestCreateSubscriptionSkipsUnknownAddons(t *testing.T) {
	api := &fakeAPI{invoice: &stripe.Invoice{ID: "in_1", Status: stripe.InvoiceStatusDraft}}
	c := newTestClient(api)

	res, err := c.CreateSubscription(context.Background(), SubscriptionInput{
		IdempotencyKey: "chk_1",
		ProposalID:     "prop-1",
		Email:          "jane@x.com",
		Name:           "Jane",
		AddonIDs:       []string{"seo-blog", "unknown-id"},
	})

	require.NoError(t, err)
	require.Len(t, api.subscription.Items, 2)
	assert.Equal(t, "price_base", *api.subscription.Items[0].Price)
	assert.Equal(t, "price_blog", *api.subscription.Items[1].Price)
	assert.Equal(t, []string{"price_base", "price_blog"}, res.PriceIDs)
	assert.Equal(t, int64(150000+29900), res.Totals.MonthlyTotal)
	assert.Equal(t, int64(50000+150000+29900), res.Totals.DueNow)
}

func TestCreateSubscriptionCallOrderAndTerms(t *testing.T) {
	api := &fakeAPI{invoice: &stripe.Invoice{ID: "in_1", Status: stripe.InvoiceStatusDraft}}
	c := newTestClient(api)

	res, err := c.CreateSubscription(context.Background(), SubscriptionInput{
		IdempotencyKey: "chk_1", ProposalID: "prop-1", Email: "jane@x.com", Name: "Jane",
	})

	require.NoError(t, err)
	assert.Equal(t, []string{
		"customers.list", "customers.new", "subscriptions.new",
		"invoices.get", "invoices.finalize", "invoices.send",
	}, api.calls)
	assert.Equal(t, []string{
		"chk_1:customer-create", "chk_1:subscription", "chk_1:invoice-finalize", "chk_1:invoice-send",
	}, api.idempotency)

	sub := api.subscription
	assert.Equal(t, "send_invoice", *sub.CollectionMethod)
	assert.Equal(t, int64(7), *sub.DaysUntilDue)
	require.Len(t, sub.AddInvoiceItems, 1)
	assert.Equal(t, "price_setup", *sub.AddInvoiceItems[0].Price)
	assert.Equal(t, "prop-1", sub.Metadata["proposal_id"])
	assert.Equal(t, "jane@x.com", *api.created.Email)

	assert.Equal(t, "cus_new", res.CustomerID)
	assert.Equal(t, "sub_1", res.SubscriptionID)
	assert.Equal(t, "in_1", res.InvoiceID)
	assert.Equal(t, "https://invoice.stripe.com/i/in_1", res.InvoiceURL)
}

func TestCreateSubscriptionUpdatesExistingCustomerAndSkipsSentInvoice(t *testing.T) {
	api := &fakeAPI{
		existing: &stripe.Customer{ID: "cus_existing"},
		invoice:  &stripe.Invoice{ID: "in_1", Status: stripe.InvoiceStatusOpen, HostedInvoiceURL: "https://x"},
	}
	c := newTestClient(api)

	res, err := c.CreateSubscription(context.Background(), SubscriptionInput{IdempotencyKey: "k", Email: "jane@x.com"})

	require.NoError(t, err)
	assert.Equal(t, "cus_existing", res.CustomerID)
	assert.Equal(t, []string{"customers.list", "customers.update", "subscriptions.new", "invoices.get"}, api.calls)
}

func TestCreateSubscriptionFailureStopsWithoutCompensation(t *testing.T) {
	api := &fakeAPI{subErr: errors.New("card_declined")}
	c := newTestClient(api)

	_, err := c.CreateSubscription(context.Background(), SubscriptionInput{IdempotencyKey: "k", Email: "jane@x.com"})

	assert.ErrorContains(t, err, "create subscription")
	assert.Equal(t, []string{"customers.list", "customers.new", "subscriptions.new"}, api.calls)
}

func TestCreateSubscriptionNotConfigured(t *testing.T) {
	c := NewClient("", testPrices(), slog.Default())
	_, err := c.CreateSubscription(context.Background(), SubscriptionInput{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestParseAddonPrices(t *testing.T) {
	prices, err := ParseAddonPrices("seo-blog=price_blog:29900, gbp=price_gbp:19900")
	require.NoError(t, err)
	assert.Equal(t, Price{ID: "price_blog", Amount: 29900}, prices["seo-blog"])
	assert.Len(t, prices, 2)

	_, err = ParseAddonPrices("seo-blog=price_blog")
	assert.Error(t, err)
}
