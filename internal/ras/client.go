// Package ras is the client for the remote radiology-reporting service
// (RAS). The service's procedure set is fixed: sign-in/sign-out on the
// Session endpoint, order browsing on the Explorer endpoint and report event
// retrieval on the Report endpoint.
//
// The session token travels out-of-band from the declared results: the
// service attaches it to responses as the AccountSession header. Every call
// goes through a single wrapper that extracts that header and hands it back
// to the caller together with the decoded body, so no transport hook needs a
// back-reference to session state.
package ras

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// SessionHeader is the HTTP header carrying the session token in both
// directions.
const SessionHeader = "AccountSession"

// timeFormat renders window bounds with millisecond precision, as the
// Explorer endpoint expects.
const timeFormat = "2006-01-02T15:04:05.000-07:00"

// Client is the remote session interface consumed by the agent core.
// Implementations must be safe for sequential use; the agent never issues
// concurrent calls on one session.
type Client interface {
	// SignIn authenticates and returns the account identity together with
	// the session token extracted from the response metadata.
	SignIn(ctx context.Context, p SignInParams) (Account, Token, error)

	// SignOut releases the session. The returned bool reports whether the
	// service acknowledged the sign-out.
	SignOut(ctx context.Context, token Token) (bool, error)

	// BrowseOrders returns one page of completed orders matching the query.
	BrowseOrders(ctx context.Context, token Token, q OrderQuery) ([]Order, error)

	// GetReportEvents returns the activity events recorded for a report.
	GetReportEvents(ctx context.Context, token Token, q EventQuery) ([]ActivityEvent, error)
}

// HTTPClient talks JSON over HTTP to the RAS endpoints under /RAS on the
// configured host.
type HTTPClient struct {
	baseURL string
	hc      *http.Client
}

// NewHTTPClient builds a client for the given host (host or host:port,
// without scheme). The per-call timeout bounds a stuck remote call so the
// single-threaded poll loop cannot hang indefinitely.
func NewHTTPClient(host string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: fmt.Sprintf("http://%s/RAS", host),
		hc:      &http.Client{Timeout: timeout},
	}
}

// call posts the request body to <base>/<service>.svc/<operation> and decodes
// the response into out. It returns the AccountSession header value from the
// response, which is empty for operations that do not refresh the token.
func (c *HTTPClient) call(ctx context.Context, service, operation string, token Token, in, out any) (Token, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return "", fmt.Errorf("%s.%s: encode request: %w", service, operation, err)
	}

	url := fmt.Sprintf("%s/%s.svc/%s", c.baseURL, service, operation)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%s.%s: %w", service, operation, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(SessionHeader, string(token))
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s.%s: %w", service, operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s.%s: unexpected status %s", service, operation, resp.Status)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return "", fmt.Errorf("%s.%s: decode response: %w", service, operation, err)
		}
	}

	return Token(resp.Header.Get(SessionHeader)), nil
}

type signInResponse struct {
	SignInResult struct {
		AccountID int64 `json:"AccountID"`
		Person    struct {
			FirstName string `json:"FirstName"`
			LastName  string `json:"LastName"`
		} `json:"Person"`
	} `json:"SignInResult"`
}

func (c *HTTPClient) SignIn(ctx context.Context, p SignInParams) (Account, Token, error) {
	var resp signInResponse
	token, err := c.call(ctx, "Session", "SignIn", "", p, &resp)
	if err != nil {
		return Account{}, "", err
	}
	account := Account{
		ID:        resp.SignInResult.AccountID,
		FirstName: resp.SignInResult.Person.FirstName,
		LastName:  resp.SignInResult.Person.LastName,
	}
	return account, token, nil
}

type signOutResponse struct {
	SignOutResult bool `json:"SignOutResult"`
}

func (c *HTTPClient) SignOut(ctx context.Context, token Token) (bool, error) {
	var resp signOutResponse
	if _, err := c.call(ctx, "Session", "SignOut", token, struct{}{}, &resp); err != nil {
		return false, err
	}
	return resp.SignOutResult, nil
}

type browseOrdersRequest struct {
	SiteID         int         `json:"siteID"`
	Time           customRange `json:"time"`
	OrderStatus    string      `json:"orderStatus"`
	TransferStatus string      `json:"transferStatus"`
	ReportStatus   string      `json:"reportStatus"`
	Sort           string      `json:"sort"`
	PageSize       int         `json:"pageSize"`
	PageNumber     int         `json:"pageNumber"`
}

type customRange struct {
	Period string `json:"Period"`
	From   string `json:"From"`
	To     string `json:"To"`
}

type browseOrdersResponse struct {
	BrowseOrdersResult []Order `json:"BrowseOrdersResult"`
}

func (c *HTTPClient) BrowseOrders(ctx context.Context, token Token, q OrderQuery) ([]Order, error) {
	req := browseOrdersRequest{
		SiteID: q.SiteID,
		Time: customRange{
			Period: "Custom",
			From:   q.From.Format(timeFormat),
			To:     q.To.Format(timeFormat),
		},
		OrderStatus:    q.OrderStatus,
		TransferStatus: q.TransferStatus,
		ReportStatus:   q.ReportStatus,
		Sort:           q.Sort,
		PageSize:       q.PageSize,
		PageNumber:     q.PageNumber,
	}
	var resp browseOrdersResponse
	if _, err := c.call(ctx, "Explorer", "BrowseOrders", token, req, &resp); err != nil {
		return nil, err
	}
	return resp.BrowseOrdersResult, nil
}

type reportEventsRequest struct {
	ReportID          int64 `json:"reportID"`
	EventsWithContent bool  `json:"eventsWithContent"`
	ExcludeViewEvents bool  `json:"excludeViewEvents"`
	FetchBlob         bool  `json:"fetchBlob"`
}

type reportEventsResponse struct {
	GetReportEventsResult []ActivityEvent `json:"GetReportEventsResult"`
}

func (c *HTTPClient) GetReportEvents(ctx context.Context, token Token, q EventQuery) ([]ActivityEvent, error) {
	req := reportEventsRequest{
		ReportID:          q.ReportID,
		EventsWithContent: q.EventsWithContent,
		ExcludeViewEvents: q.ExcludeViewEvents,
		FetchBlob:         q.FetchBlob,
	}
	var resp reportEventsResponse
	if _, err := c.call(ctx, "Report", "GetReportEvents", token, req, &resp); err != nil {
		return nil, err
	}
	return resp.GetReportEventsResult, nil
}
