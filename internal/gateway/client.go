// Package gateway is the REST client for the recurring-billing payment
// gateway. Requests are authenticated with basic auth over the key pair;
// signature verification for payment callbacks lives in the subscription
// service, not here.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"app/internal/apperr"
)

// Client talks to the gateway's subscriptions API.
type Client struct {
	keyID      string
	keySecret  string
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a gateway client. baseURL has no trailing slash,
// e.g. "https://api.razorpay.com/v1".
func NewClient(keyID, keySecret, baseURL string) *Client {
	return &Client{
		keyID:      keyID,
		keySecret:  keySecret,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperr.Wrap(apperr.Upstream, "payment gateway unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return apperr.Wrap(apperr.Upstream,
			"payment gateway error",
			fmt.Errorf("%s %s: %s: %s", req.Method, req.URL.Path, resp.Status, body))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperr.Wrap(apperr.Upstream, "decode gateway response", err)
	}
	return nil
}

// CreateSubscription starts a recurring-billing instance of the plan.
// Every call creates a new gateway subscription; the caller owns dedupe.
func (c *Client) CreateSubscription(ctx context.Context, planID string) (*Subscription, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/subscriptions", createSubscriptionRequest{
		PlanID:         planID,
		CustomerNotify: 1,
		TotalCount:     12,
	})
	if err != nil {
		return nil, err
	}
	var sub Subscription
	if err := c.do(req, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// CancelSubscription cancels the subscription and returns its final state.
func (c *Client) CancelSubscription(ctx context.Context, subscriptionID string) (*Subscription, error) {
	req, err := c.newRequest(ctx, http.MethodPost,
		"/subscriptions/"+url.PathEscape(subscriptionID)+"/cancel", nil)
	if err != nil {
		return nil, err
	}
	var sub Subscription
	if err := c.do(req, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// ListSubscriptions pages through the gateway's subscription records.
func (c *Client) ListSubscriptions(ctx context.Context, count, skip int) (*SubscriptionList, error) {
	q := url.Values{}
	q.Set("count", strconv.Itoa(count))
	q.Set("skip", strconv.Itoa(skip))
	req, err := c.newRequest(ctx, http.MethodGet, "/subscriptions?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	var list SubscriptionList
	if err := c.do(req, &list); err != nil {
		return nil, err
	}
	return &list, nil
}
