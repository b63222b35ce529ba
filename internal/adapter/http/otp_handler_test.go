package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"loantrack/internal/domain/loan"
	"loantrack/internal/remote"
	"loantrack/internal/store"
	"loantrack/internal/testutil/remotemock"
	"loantrack/internal/usecase/otp"
)

func TestVerifyOTP_Success(t *testing.T) {
	e := newEchoWithValidator()
	api := &remotemock.API{
		VerifyOTPFn: func(ctx context.Context, id, code string) (*loan.Loan, error) {
			return &loan.Loan{ID: id, Acceptance: loan.AcceptanceAccepted, RawStatus: loan.StatusPending}, nil
		},
	}
	h := NewOTPHandler(otp.NewUsecase(api, store.New(nil), nil, time.Minute))

	req := httptest.NewRequest(stdhttp.MethodPost, "/v1/loans/l1/otp/verify", mustJSON(map[string]any{"code": "1234"}))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("loan_id")
	c.SetParamValues("l1")

	if err := h.Verify(c); err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
}

func TestVerifyOTP_ShortCodeIs422(t *testing.T) {
	e := newEchoWithValidator()
	api := &remotemock.API{
		VerifyOTPFn: func(ctx context.Context, id, code string) (*loan.Loan, error) {
			t.Fatal("incomplete code must not reach the server")
			return nil, nil
		},
	}
	h := NewOTPHandler(otp.NewUsecase(api, store.New(nil), nil, time.Minute))

	req := httptest.NewRequest(stdhttp.MethodPost, "/v1/loans/l1/otp/verify", mustJSON(map[string]any{"code": "12"}))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("loan_id")
	c.SetParamValues("l1")

	if err := h.Verify(c); err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestVerifyOTP_WrongCodeSurfacesServerMessage(t *testing.T) {
	e := newEchoWithValidator()
	api := &remotemock.API{
		VerifyOTPFn: func(ctx context.Context, id, code string) (*loan.Loan, error) {
			return nil, &remote.Error{Kind: remote.KindRejected, Message: "incorrect code"}
		},
	}
	h := NewOTPHandler(otp.NewUsecase(api, store.New(nil), nil, time.Minute))

	req := httptest.NewRequest(stdhttp.MethodPost, "/v1/loans/l1/otp/verify", mustJSON(map[string]any{"code": "9999"}))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("loan_id")
	c.SetParamValues("l1")

	if err := h.Verify(c); err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var er ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &er)
	if er.Error != "incorrect code" {
		t.Fatalf("error = %q, want the server message verbatim", er.Error)
	}
}

func TestResendOTP_CooldownIs429(t *testing.T) {
	e := newEchoWithValidator()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	api := &remotemock.API{
		ResendOTPFn: func(ctx context.Context, id string) error { return nil },
	}
	h := NewOTPHandler(otp.NewUsecase(api, store.New(nil), rdb, time.Minute))

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(stdhttp.MethodPost, "/v1/loans/l1/otp/resend", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("loan_id")
		c.SetParamValues("l1")
		if err := h.Resend(c); err != nil {
			t.Fatalf("Resend error: %v", err)
		}
		return rec
	}

	if rec := send(); rec.Code != stdhttp.StatusOK {
		t.Fatalf("first resend status = %d, want 200", rec.Code)
	}
	if rec := send(); rec.Code != stdhttp.StatusTooManyRequests {
		t.Fatalf("second resend status = %d, want 429", rec.Code)
	}
}

func TestSkipOTP_OK(t *testing.T) {
	e := newEchoWithValidator()
	api := &remotemock.API{
		SkipOTPFn: func(ctx context.Context, id string) error { return nil },
	}
	h := NewOTPHandler(otp.NewUsecase(api, store.New(nil), nil, time.Minute))

	req := httptest.NewRequest(stdhttp.MethodPost, "/v1/loans/l1/otp/skip", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("loan_id")
	c.SetParamValues("l1")

	if err := h.Skip(c); err != nil {
		t.Fatalf("Skip error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]bool
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if !body["skipped"] {
		t.Fatalf("body = %v, want skipped=true", body)
	}
}
