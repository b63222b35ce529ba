package remote

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

	"github.com/google/uuid"

	"loantrack/internal/domain/fraud"
	"loantrack/internal/domain/loan"
	"loantrack/internal/domain/payment"
)

// TokenSource supplies the bearer token for upstream calls. Token storage
// and refresh live outside this module.
type TokenSource func() string

type Client struct {
	base  *url.URL
	http  *http.Client
	token TokenSource
}

func NewClient(baseURL string, timeout time.Duration, token TokenSource) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("remote: bad base url %q: %w", baseURL, err)
	}
	return &Client{
		base:  u,
		http:  &http.Client{Timeout: timeout},
		token: token,
	}, nil
}

// envelope is the upstream response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, body, out any) error {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	if q != nil {
		u.RawQuery = q.Encode()
	}

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: KindTransport, Message: err.Error()}
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
	if err != nil {
		return &Error{Kind: KindTransport, Message: err.Error()}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		if t := c.token(); t != "" {
			req.Header.Set("Authorization", "Bearer "+t)
		}
	}
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Kind: KindTransport, Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindTransport, Message: err.Error()}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= 400 {
			return &Error{Kind: classify(resp.StatusCode, ""), Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return &Error{Kind: KindTransport, Message: "malformed response body"}
	}

	if resp.StatusCode >= 400 || !env.Success {
		msg := StripFieldPrefix(env.Message)
		return &Error{Kind: classify(resp.StatusCode, env.Message), Status: resp.StatusCode, Message: msg}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &Error{Kind: KindTransport, Message: "malformed response data"}
		}
	}
	return nil
}

func classify(status int, msg string) Kind {
	if strings.Contains(strings.ToLower(msg), "already") {
		return KindStale
	}
	switch {
	case status == http.StatusConflict:
		return KindStale
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return KindValidation
	case status >= 500:
		return KindTransport
	default:
		return KindRejected
	}
}

func (c *Client) PlanStatus(ctx context.Context) (*PlanStatus, error) {
	var out PlanStatus
	if err := c.do(ctx, http.MethodGet, "/v1/subscription/status", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) FraudLookup(ctx context.Context, nationalID string) (*fraud.Status, error) {
	var out fraud.Status
	if err := c.do(ctx, http.MethodGet, "/v1/fraud/"+url.PathEscape(nationalID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateLoan(ctx context.Context, req CreateLoanRequest) (*CreateLoanResult, error) {
	var out CreateLoanResult
	if err := c.do(ctx, http.MethodPost, "/v1/loans", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) VerifyGatewayPayment(ctx context.Context, loanID string, receipt GatewayReceipt) (*loan.Loan, error) {
	var out loan.Loan
	if err := c.do(ctx, http.MethodPost, "/v1/loans/"+url.PathEscape(loanID)+"/payment/verify", nil, receipt, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) VerifyOTP(ctx context.Context, loanID, code string) (*loan.Loan, error) {
	var out loan.Loan
	body := map[string]string{"code": code}
	if err := c.do(ctx, http.MethodPost, "/v1/loans/"+url.PathEscape(loanID)+"/otp/verify", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ResendOTP(ctx context.Context, loanID string) error {
	return c.do(ctx, http.MethodPost, "/v1/loans/"+url.PathEscape(loanID)+"/otp/resend", nil, nil, nil)
}

func (c *Client) SkipOTP(ctx context.Context, loanID string) error {
	return c.do(ctx, http.MethodPost, "/v1/loans/"+url.PathEscape(loanID)+"/otp/skip", nil, nil, nil)
}

func (c *Client) UpdateAcceptance(ctx context.Context, loanID string, status loan.AcceptanceStatus) (*loan.Loan, error) {
	var out loan.Loan
	body := map[string]string{"status": string(status)}
	if err := c.do(ctx, http.MethodPatch, "/v1/loans/"+url.PathEscape(loanID)+"/acceptance", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdatePaymentStatus(ctx context.Context, loanID string, status loan.RawStatus) (*loan.Loan, error) {
	var out loan.Loan
	body := map[string]string{"status": string(status)}
	if err := c.do(ctx, http.MethodPatch, "/v1/loans/"+url.PathEscape(loanID)+"/status", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SubmitPayment(ctx context.Context, req SubmitPaymentRequest) (*payment.Payment, error) {
	var out payment.Payment
	if err := c.do(ctx, http.MethodPost, "/v1/loans/"+url.PathEscape(req.LoanID)+"/payments", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) PendingPayments(ctx context.Context, page, limit int) (*PendingPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	var out PendingPage
	if err := c.do(ctx, http.MethodGet, "/v1/payments/pending", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ConfirmPayment(ctx context.Context, loanID, paymentID, note string) (*Resolution, error) {
	var out Resolution
	body := map[string]string{"note": note}
	if err := c.do(ctx, http.MethodPost, "/v1/loans/"+url.PathEscape(loanID)+"/payments/"+url.PathEscape(paymentID)+"/confirm", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RejectPayment(ctx context.Context, loanID, paymentID, reason string) (*Resolution, error) {
	var out Resolution
	body := map[string]string{"reason": reason}
	if err := c.do(ctx, http.MethodPost, "/v1/loans/"+url.PathEscape(loanID)+"/payments/"+url.PathEscape(paymentID)+"/reject", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetLoan(ctx context.Context, loanID string) (*loan.Loan, error) {
	var out loan.Loan
	if err := c.do(ctx, http.MethodGet, "/v1/loans/"+url.PathEscape(loanID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListLoans(ctx context.Context, role Role, page, limit int) ([]*loan.Loan, error) {
	q := url.Values{}
	q.Set("role", string(role))
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	var out []*loan.Loan
	if err := c.do(ctx, http.MethodGet, "/v1/loans", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

var _ API = (*Client)(nil)
