package models

import (
	"bytes"
	"strconv"
)

// FlexNumber accepts either a JSON number or a numeric string. WooCommerce
// sends order totals as strings ("500") but ids as numbers; GoKwik cart
// totals come through as numbers.
type FlexNumber string

func (n *FlexNumber) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if string(b) == "null" {
		*n = ""
		return nil
	}
	*n = FlexNumber(b)
	return nil
}

func (n FlexNumber) String() string { return string(n) }

// Float64 returns the numeric value. An absent field is 0, matching the
// upstream payloads' defaults; a present but unparseable value is an error
// so callers never act on a wrong amount.
func (n FlexNumber) Float64() (float64, error) {
	if n == "" {
		return 0, nil
	}
	return strconv.ParseFloat(string(n), 64)
}

// Contact is the canonical record upserted into the Mautic CRM. Field names
// match Mautic custom-field aliases, so the JSON tags are load-bearing.
type Contact struct {
	Email      string   `json:"email"`
	Firstname  string   `json:"firstname,omitempty"`
	Lastname   string   `json:"lastname,omitempty"`
	Mobile     string   `json:"mobile,omitempty"`
	LeadSource string   `json:"lead_source"`
	Tags       []string `json:"tags"`

	// Abandoned-cart fields
	CartURL               string     `json:"cart_url,omitempty"`
	CartValue             FlexNumber `json:"cart_value,omitempty"`
	DropStage             string     `json:"drop_stage,omitempty"`
	LastAbandonedCartDate string     `json:"last_abandoned_cart_date,omitempty"`

	// Order fields
	LastOrderID         string `json:"last_order_id,omitempty"`
	LastOrderDate       string `json:"last_order_date,omitempty"`
	FirstOrderDate      string `json:"first_order_date,omitempty"`
	HasPurchased        bool   `json:"has_purchased,omitempty"`
	LastProductNames    string `json:"last_product_names,omitempty"`
	LastProductCategory string `json:"last_product_category,omitempty"`
	City                string `json:"city,omitempty"`
	Pincode             string `json:"pincode,omitempty"`

	// Lifecycle flags consumed by Mautic's own automation rules. The relay
	// only sets them per event type, it never reads them back.
	AbcCupon5Sent bool `json:"abc_cupon5_sent"`
	Abc1          bool `json:"abc1"`
	Abc2          bool `json:"abc2"`
	Abc3          bool `json:"abc3"`
}

// CartEvent is the GoKwik abandoned-cart webhook payload.
type CartEvent struct {
	Carts []Cart `json:"carts"`
}

type Cart struct {
	Customer   CartCustomer `json:"customer"`
	AbcURL     string       `json:"abc_url"`
	TotalPrice FlexNumber   `json:"total_price"`
	DropStage  string       `json:"drop_stage"`
	Items      []CartItem   `json:"items"`
}

type CartCustomer struct {
	Email     string `json:"email"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Phone     string `json:"phone"`
}

type CartItem struct {
	Name     string      `json:"name"`
	Metadata []MetaEntry `json:"metadata"`
}

// MetaEntry is a key/value attribute attached to a line item.
type MetaEntry struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

// Order is the WooCommerce order webhook payload.
type Order struct {
	ID             FlexNumber      `json:"id"`
	Status         string          `json:"status"`
	Total          FlexNumber      `json:"total"`
	PaymentMethod  string          `json:"payment_method"`
	DateCreated    string          `json:"date_created"`
	DateCreatedGMT string          `json:"date_created_gmt"`
	Billing        Billing         `json:"billing"`
	LineItems      []OrderLineItem `json:"line_items"`
}

type Billing struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	City      string `json:"city"`
	Postcode  string `json:"postcode"`
}

type OrderLineItem struct {
	Name     string      `json:"name"`
	MetaData []MetaEntry `json:"meta_data"`
}
