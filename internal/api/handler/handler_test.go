package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/licensehub/console-gateway/internal/api/middleware"
	"github.com/licensehub/console-gateway/internal/core/domain"
	"github.com/licensehub/console-gateway/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs and helpers
// ---------------------------------------------------------------------------

type stubProxy struct {
	forwardFn     func(ctx context.Context, call ports.ProxyCall) (*ports.ProxyResult, error)
	licensePathFn func(role, partnerID string) string
	calls         []ports.ProxyCall
}

func (s *stubProxy) Forward(ctx context.Context, call ports.ProxyCall) (*ports.ProxyResult, error) {
	s.calls = append(s.calls, call)
	if s.forwardFn == nil {
		return &ports.ProxyResult{StatusCode: http.StatusOK, Body: []byte(`{}`)}, nil
	}
	return s.forwardFn(ctx, call)
}

func (s *stubProxy) LicensePath(role, partnerID string) string {
	if s.licensePathFn == nil {
		return "/license"
	}
	return s.licensePathFn(role, partnerID)
}

func ok(status int, body string) func(context.Context, ports.ProxyCall) (*ports.ProxyResult, error) {
	return func(context.Context, ports.ProxyCall) (*ports.ProxyResult, error) {
		return &ports.ProxyResult{StatusCode: status, Body: []byte(body)}, nil
	}
}

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.ContextKeyToken, "tkn")
	return c, rec
}

func expectKind(t *testing.T, err error, kind domain.ErrorKind) *domain.GatewayError {
	t.Helper()
	ge, isGateway := err.(*domain.GatewayError)
	if !isGateway || ge.Kind != kind {
		t.Fatalf("expected %s, got %v", kind, err)
	}
	return ge
}

// ---------------------------------------------------------------------------
// Auth
// ---------------------------------------------------------------------------

func TestAuthHandler_Login_Passthrough(t *testing.T) {
	stub := &stubProxy{forwardFn: ok(http.StatusOK, `{"message":"ok","token":"jwt","user":{"role":"admin_platform"}}`)}
	c, rec := newContext(http.MethodPost, "/api/auth/login", `{"username":"alice","password":"secret"}`)

	if err := NewAuthHandler(stub).Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"token":"jwt"`) {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
	if len(stub.calls) != 1 || stub.calls[0].Path != "/auth/login" || stub.calls[0].Method != http.MethodPost {
		t.Fatalf("unexpected calls %+v", stub.calls)
	}
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	stub := &stubProxy{}
	c, _ := newContext(http.MethodPost, "/api/auth/login", `{"username":"alice"}`)

	ge := expectKind(t, NewAuthHandler(stub).Login(c), domain.KindValidation)
	if ge.StatusCode != http.StatusBadRequest || ge.Cause != "password is required" {
		t.Fatalf("unexpected error %+v", ge)
	}
	if len(stub.calls) != 0 {
		t.Fatalf("expected no upstream call, got %d", len(stub.calls))
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	stub := &stubProxy{}
	c, _ := newContext(http.MethodPost, "/api/auth/login", "{")

	ge := expectKind(t, NewAuthHandler(stub).Login(c), domain.KindValidation)
	if ge.Message != "invalid payload" {
		t.Fatalf("unexpected message %q", ge.Message)
	}
	if len(stub.calls) != 0 {
		t.Fatalf("expected no upstream call")
	}
}

// ---------------------------------------------------------------------------
// Partner
// ---------------------------------------------------------------------------

func TestPartnerHandler_Create_ForwardsRawBody(t *testing.T) {
	stub := &stubProxy{forwardFn: ok(http.StatusCreated, `{"partner_id":"p1"}`)}
	raw := `{"business_name":"Acme","business_email":"a@acme.id","business_phone":"0812","extra":true}`
	c, rec := newContext(http.MethodPost, "/api/partner", raw)

	if err := NewPartnerHandler(stub).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	call := stub.calls[0]
	if string(call.Body) != raw || call.Token != "tkn" || call.Route != "partner.create" {
		t.Fatalf("unexpected call %+v", call)
	}
}

func TestPartnerHandler_Create_MissingFields(t *testing.T) {
	stub := &stubProxy{}
	c, _ := newContext(http.MethodPost, "/api/partner", `{"business_name":"Acme"}`)

	ge := expectKind(t, NewPartnerHandler(stub).Create(c), domain.KindValidation)
	if ge.Message != "Missing required fields" {
		t.Fatalf("unexpected message %q", ge.Message)
	}
	if !strings.Contains(ge.Cause, "business_email is required") || !strings.Contains(ge.Cause, "business_phone is required") {
		t.Fatalf("cause should name each field: %q", ge.Cause)
	}
	if len(stub.calls) != 0 {
		t.Fatalf("expected no upstream call")
	}
}

func TestPartnerHandler_Update_WrapsResponse(t *testing.T) {
	stub := &stubProxy{forwardFn: ok(http.StatusOK, `{"partner_id":"p1","business_name":"Acme"}`)}
	c, rec := newContext(http.MethodPut, "/api/partner/p1",
		`{"business_name":"Acme","business_email":"a@acme.id","business_phone":"0812"}`)
	c.SetParamNames("id")
	c.SetParamValues("p1")

	if err := NewPartnerHandler(stub).Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp successResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp.Success || resp.Message != "Partner updated successfully" {
		t.Fatalf("unexpected envelope %+v", resp)
	}
	data, _ := resp.Data.(map[string]any)
	if data["partner_id"] != "p1" {
		t.Fatalf("backend data not wrapped: %+v", resp.Data)
	}
	if stub.calls[0].Path != "/partner/p1" || stub.calls[0].Method != http.MethodPut {
		t.Fatalf("unexpected call %+v", stub.calls[0])
	}
}

func TestPartnerHandler_Delete_NoContentBecomesOK(t *testing.T) {
	stub := &stubProxy{forwardFn: ok(http.StatusNoContent, `{}`)}
	c, rec := newContext(http.MethodDelete, "/api/partner/p1", "")
	c.SetParamNames("id")
	c.SetParamValues("p1")

	if err := NewPartnerHandler(stub).Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Partner suspended successfully") {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestPartnerHandler_Get_EscapesID(t *testing.T) {
	stub := &stubProxy{}
	c, _ := newContext(http.MethodGet, "/api/partner/x", "")
	c.SetParamNames("id")
	c.SetParamValues("a/b")

	if err := NewPartnerHandler(stub).Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if stub.calls[0].Path != "/partner/a%2Fb" {
		t.Fatalf("unexpected path %q", stub.calls[0].Path)
	}
}

func TestPartnerHandler_List_PropagatesError(t *testing.T) {
	upstreamErr := &domain.GatewayError{Kind: domain.KindUpstreamTimeout, StatusCode: http.StatusGatewayTimeout}
	stub := &stubProxy{forwardFn: func(context.Context, ports.ProxyCall) (*ports.ProxyResult, error) {
		return nil, upstreamErr
	}}
	c, _ := newContext(http.MethodGet, "/api/partner", "")

	expectKind(t, NewPartnerHandler(stub).List(c), domain.KindUpstreamTimeout)
}

// ---------------------------------------------------------------------------
// Subscription plan
// ---------------------------------------------------------------------------

func TestPlanHandler_Create_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"all present", `{"plan_name":"Pro","price":150000,"branch_limit":3,"device_limit":10}`, ""},
		{"zero limits count as present", `{"plan_name":"Free","price":0,"branch_limit":0,"device_limit":0}`, ""},
		{"numeric strings", `{"plan_name":"Pro","price":"150000.00","branch_limit":"3","device_limit":"10"}`, ""},
		{"missing price", `{"plan_name":"Pro","branch_limit":3,"device_limit":10}`, "price is required"},
		{"missing name", `{"price":1,"branch_limit":3,"device_limit":10}`, "plan_name is required"},
		{"missing limits", `{"plan_name":"Pro","price":1}`, "branch_limit is required; device_limit is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubProxy{forwardFn: ok(http.StatusCreated, `{"plan_id":"x"}`)}
			c, rec := newContext(http.MethodPost, "/api/subscription-plan", tt.body)

			err := NewPlanHandler(stub).Create(c)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if rec.Code != http.StatusCreated || len(stub.calls) != 1 {
					t.Fatalf("expected forwarded create, got %d with %d calls", rec.Code, len(stub.calls))
				}
				return
			}

			ge := expectKind(t, err, domain.KindValidation)
			if ge.Cause != tt.wantErr {
				t.Fatalf("cause = %q, want %q", ge.Cause, tt.wantErr)
			}
			if len(stub.calls) != 0 {
				t.Fatalf("expected no upstream call")
			}
		})
	}
}

func TestPlanHandler_List(t *testing.T) {
	stub := &stubProxy{forwardFn: ok(http.StatusOK, `[{"plan_id":"basic"}]`)}
	c, rec := newContext(http.MethodGet, "/api/subscription-plan", "")

	if err := NewPlanHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Body.String() != `[{"plan_id":"basic"}]` {
		t.Fatalf("body not passed through: %s", rec.Body.String())
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != echo.MIMEApplicationJSON {
		t.Fatalf("unexpected content type %q", ct)
	}
}

// ---------------------------------------------------------------------------
// License
// ---------------------------------------------------------------------------

func TestLicenseHandler_List_UsesTenantHints(t *testing.T) {
	var gotRole, gotPartner string
	stub := &stubProxy{licensePathFn: func(role, partnerID string) string {
		gotRole, gotPartner = role, partnerID
		return "/license/partner/" + partnerID
	}}
	c, _ := newContext(http.MethodGet, "/api/license", "")
	c.Set(middleware.ContextKeyRole, "admin_mitra")
	c.Set(middleware.ContextKeyPartnerID, "p7")

	if err := NewLicenseHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if gotRole != "admin_mitra" || gotPartner != "p7" {
		t.Fatalf("hints not passed: %q %q", gotRole, gotPartner)
	}
	if stub.calls[0].Path != "/license/partner/p7" {
		t.Fatalf("unexpected path %q", stub.calls[0].Path)
	}
}

// ---------------------------------------------------------------------------
// Health
// ---------------------------------------------------------------------------

type stubUpstream struct {
	pingErr error
}

func (s stubUpstream) Do(context.Context, ports.UpstreamRequest) (*ports.UpstreamResponse, error) {
	return nil, nil
}

func (s stubUpstream) Ping(context.Context) error { return s.pingErr }

func TestHealthHandler_Readiness(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/health/ready", "")
	if err := NewHealthHandler(stubUpstream{}).Readiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	c, rec = newContext(http.MethodGet, "/health/ready", "")
	if err := NewHealthHandler(stubUpstream{pingErr: io.ErrUnexpectedEOF}).Readiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable || !strings.Contains(rec.Body.String(), "degraded") {
		t.Fatalf("unexpected readiness %d %s", rec.Code, rec.Body.String())
	}
}

func TestHealthHandler_Liveness(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/health", "")
	if err := NewHealthHandler(stubUpstream{}).Liveness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
