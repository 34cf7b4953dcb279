package stripebilling

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

const daysUntilDue = 7

var ErrNotConfigured = errors.New("stripe billing is not configured")

// api is the slice of the Stripe client this package calls.
type api interface {
	FindCustomerByEmail(params *stripe.CustomerListParams) (*stripe.Customer, error)
	NewCustomer(params *stripe.CustomerParams) (*stripe.Customer, error)
	UpdateCustomer(id string, params *stripe.CustomerParams) (*stripe.Customer, error)
	NewSubscription(params *stripe.SubscriptionParams) (*stripe.Subscription, error)
	GetInvoice(id string, params *stripe.InvoiceParams) (*stripe.Invoice, error)
	FinalizeInvoice(id string, params *stripe.InvoiceFinalizeInvoiceParams) (*stripe.Invoice, error)
	SendInvoice(id string, params *stripe.InvoiceSendInvoiceParams) (*stripe.Invoice, error)
}

type Client struct {
	api    api
	prices PriceTable
	logger *slog.Logger
}

func NewClient(secretKey string, prices PriceTable, logger *slog.Logger) *Client {
	var a api
	if secretKey != "" {
		sc := &client.API{}
		sc.Init(secretKey, nil)
		a = &stripeAPI{sc: sc}
	}
	return &Client{api: a, prices: prices, logger: logger}
}

// CreateSubscription runs the four billing steps in order. Completed steps are
// not undone when a later one fails; every write carries an idempotency key
// derived from the checkout key so a retry reuses the same Stripe objects.
func (c *Client) CreateSubscription(ctx context.Context, input SubscriptionInput) (*SubscriptionResult, error) {
	if c.api == nil || c.prices.Base.ID == "" {
		return nil, ErrNotConfigured
	}

	customerID, err := c.upsertCustomer(ctx, input)
	if err != nil {
		return nil, err
	}

	items, priceIDs, totals := c.lineItems(input.AddonIDs)

	params := &stripe.SubscriptionParams{
		Customer:         stripe.String(customerID),
		Items:            items,
		CollectionMethod: stripe.String(string(stripe.SubscriptionCollectionMethodSendInvoice)),
		DaysUntilDue:     stripe.Int64(daysUntilDue),
	}
	if c.prices.Setup.ID != "" {
		params.AddInvoiceItems = []*stripe.SubscriptionAddInvoiceItemParams{
			{Price: stripe.String(c.prices.Setup.ID), Quantity: stripe.Int64(1)},
		}
	}
	params.Context = ctx
	params.AddMetadata("proposal_id", input.ProposalID)
	params.AddMetadata("signed_proposal_id", input.SignedProposalID)
	params.AddExpand("latest_invoice")
	params.SetIdempotencyKey(stepKey(input.IdempotencyKey, "subscription"))

	sub, err := c.api.NewSubscription(params)
	if err != nil {
		c.logger.Error("stripe subscription create failed", "proposal_id", input.ProposalID, "error", err)
		return nil, fmt.Errorf("create subscription: %w", err)
	}

	result := &SubscriptionResult{
		CustomerID:     customerID,
		SubscriptionID: sub.ID,
		PriceIDs:       priceIDs,
		Totals:         totals,
	}
	if sub.LatestInvoice == nil {
		return result, nil
	}

	inv, err := c.deliverInvoice(ctx, sub.LatestInvoice.ID, input.IdempotencyKey)
	if err != nil {
		c.logger.Error("stripe invoice delivery failed", "subscription_id", sub.ID, "error", err)
		return nil, err
	}
	result.InvoiceID = inv.ID
	result.InvoiceURL = inv.HostedInvoiceURL
	result.InvoicePDF = inv.InvoicePDF
	return result, nil
}

func (c *Client) upsertCustomer(ctx context.Context, input SubscriptionInput) (string, error) {
	list := &stripe.CustomerListParams{Email: stripe.String(input.Email)}
	list.Limit = stripe.Int64(1)
	list.Context = ctx
	existing, err := c.api.FindCustomerByEmail(list)
	if err != nil {
		return "", fmt.Errorf("find customer: %w", err)
	}

	params := &stripe.CustomerParams{Name: stripe.String(input.Name)}
	params.Context = ctx
	params.AddMetadata("proposal_id", input.ProposalID)
	if input.BusinessName != "" {
		params.AddMetadata("business_name", input.BusinessName)
	}

	if existing != nil {
		params.SetIdempotencyKey(stepKey(input.IdempotencyKey, "customer-update"))
		cust, err := c.api.UpdateCustomer(existing.ID, params)
		if err != nil {
			return "", fmt.Errorf("update customer: %w", err)
		}
		return cust.ID, nil
	}

	params.Email = stripe.String(input.Email)
	params.SetIdempotencyKey(stepKey(input.IdempotencyKey, "customer-create"))
	cust, err := c.api.NewCustomer(params)
	if err != nil {
		return "", fmt.Errorf("create customer: %w", err)
	}
	return cust.ID, nil
}

// lineItems prices the base plus each known add-on. Unknown add-on ids are skipped.
func (c *Client) lineItems(addonIDs []string) ([]*stripe.SubscriptionItemsParams, []string, Totals) {
	items := []*stripe.SubscriptionItemsParams{
		{Price: stripe.String(c.prices.Base.ID), Quantity: stripe.Int64(1)},
	}
	priceIDs := []string{c.prices.Base.ID}
	totals := Totals{SetupFee: c.prices.Setup.Amount, BaseMonthly: c.prices.Base.Amount}

	for _, id := range addonIDs {
		p, ok := c.prices.Addons[id]
		if !ok {
			c.logger.Warn("no stripe price for add-on, skipping", "addon_id", id)
			continue
		}
		items = append(items, &stripe.SubscriptionItemsParams{Price: stripe.String(p.ID), Quantity: stripe.Int64(1)})
		priceIDs = append(priceIDs, p.ID)
		totals.AddonsMonthly += p.Amount
	}
	totals.MonthlyTotal = totals.BaseMonthly + totals.AddonsMonthly
	totals.DueNow = totals.SetupFee + totals.MonthlyTotal
	return items, priceIDs, totals
}

func (c *Client) deliverInvoice(ctx context.Context, invoiceID, key string) (*stripe.Invoice, error) {
	get := &stripe.InvoiceParams{}
	get.Context = ctx
	inv, err := c.api.GetInvoice(invoiceID, get)
	if err != nil {
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	if inv.Status != stripe.InvoiceStatusDraft {
		return inv, nil
	}

	finalize := &stripe.InvoiceFinalizeInvoiceParams{}
	finalize.Context = ctx
	finalize.SetIdempotencyKey(stepKey(key, "invoice-finalize"))
	inv, err = c.api.FinalizeInvoice(invoiceID, finalize)
	if err != nil {
		return nil, fmt.Errorf("finalize invoice: %w", err)
	}

	send := &stripe.InvoiceSendInvoiceParams{}
	send.Context = ctx
	send.SetIdempotencyKey(stepKey(key, "invoice-send"))
	inv, err = c.api.SendInvoice(invoiceID, send)
	if err != nil {
		return nil, fmt.Errorf("send invoice: %w", err)
	}
	return inv, nil
}

func stepKey(key, step string) string {
	return key + ":" + step
}

type stripeAPI struct {
	sc *client.API
}

func (s *stripeAPI) FindCustomerByEmail(params *stripe.CustomerListParams) (*stripe.Customer, error) {
	it := s.sc.Customers.List(params)
	if it.Next() {
		return it.Customer(), nil
	}
	return nil, it.Err()
}

func (s *stripeAPI) NewCustomer(params *stripe.CustomerParams) (*stripe.Customer, error) {
	return s.sc.Customers.New(params)
}

func (s *stripeAPI) UpdateCustomer(id string, params *stripe.CustomerParams) (*stripe.Customer, error) {
	return s.sc.Customers.Update(id, params)
}

func (s *stripeAPI) NewSubscription(params *stripe.SubscriptionParams) (*stripe.Subscription, error) {
	return s.sc.Subscriptions.New(params)
}

func (s *stripeAPI) GetInvoice(id string, params *stripe.InvoiceParams) (*stripe.Invoice, error) {
	return s.sc.Invoices.Get(id, params)
}

func (s *stripeAPI) FinalizeInvoice(id string, params *stripe.InvoiceFinalizeInvoiceParams) (*stripe.Invoice, error) {
	return s.sc.Invoices.FinalizeInvoice(id, params)
}

func (s *stripeAPI) SendInvoice(id string, params *stripe.InvoiceSendInvoiceParams) (*stripe.Invoice, error) {
	return s.sc.Invoices.SendInvoice(id, params)
}
