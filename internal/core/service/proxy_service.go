package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/licensehub/console-gateway/internal/core/domain"
	"github.com/licensehub/console-gateway/internal/core/ports"
)

const (
	defaultTimeout = 10 * time.Second
	excerptLimit   = 200
)

// CallRecorder receives one observation per upstream call.
type CallRecorder interface {
	Observe(route, outcome string, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) Observe(string, string, time.Duration) {}

// ProxyOptions configures the proxy service.
type ProxyOptions struct {
	// Timeout bounds GET calls. Writes are bound only by the caller's context.
	Timeout time.Duration
	// LicenseTenantPath is the tenant-scoped license path; "{id}" is replaced
	// by the escaped partner id.
	LicenseTenantPath string
}

// ProxyService forwards calls to the backend and classifies the outcome.
type ProxyService struct {
	upstream ports.Upstream
	opts     ProxyOptions
	recorder CallRecorder
	log      zerolog.Logger
}

// NewProxyService returns a ProxyService. A nil recorder disables metrics.
func NewProxyService(upstream ports.Upstream, opts ProxyOptions, recorder CallRecorder, log zerolog.Logger) *ProxyService {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.LicenseTenantPath == "" {
		opts.LicenseTenantPath = DefaultLicenseTenantPath
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &ProxyService{upstream: upstream, opts: opts, recorder: recorder, log: log}
}

// LicensePath implements ports.ProxyService.
func (s *ProxyService) LicensePath(role, partnerID string) string {
	return LicensePath(s.opts.LicenseTenantPath, role, partnerID)
}

// Forward relays call upstream. On success the body is returned untouched;
// every failure is a *domain.GatewayError.
func (s *ProxyService) Forward(ctx context.Context, call ports.ProxyCall) (*ports.ProxyResult, error) {
	if call.Method == http.MethodGet {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := s.upstream.Do(ctx, ports.UpstreamRequest{
		Method: call.Method,
		Path:   call.Path,
		Token:  call.Token,
		Body:   call.Body,
	})
	if err != nil {
		gerr := s.transportError(ctx, err)
		s.done(call, start, 0, gerr, err)
		return nil, gerr
	}

	result, err := normalize(resp)
	s.done(call, start, resp.StatusCode, err, nil)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// transportError keeps backend addresses out of the envelope. The full error
// is only logged.
func (s *ProxyService) transportError(ctx context.Context, err error) *domain.GatewayError {
	if isTimeout(ctx, err) {
		return &domain.GatewayError{
			Kind:       domain.KindUpstreamTimeout,
			StatusCode: http.StatusGatewayTimeout,
			Message:    fmt.Sprintf("Backend request timeout (%s)", s.opts.Timeout),
		}
	}
	return &domain.GatewayError{
		Kind:       domain.KindUpstreamUnreachable,
		StatusCode: http.StatusInternalServerError,
		Message:    "Error fetching from backend",
		Cause:      leafMessage(err),
	}
}

// leafMessage returns the innermost error text, e.g. "connection refused".
func leafMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}

func (s *ProxyService) done(call ports.ProxyCall, start time.Time, status int, err, transportErr error) {
	elapsed := time.Since(start)
	outcome := "ok"

	var ge *domain.GatewayError
	if errors.As(err, &ge) {
		outcome = strings.ToLower(string(ge.Kind))
	}
	s.recorder.Observe(call.Route, outcome, elapsed)

	evt := s.log.Info()
	switch {
	case ge == nil:
	case ge.Kind == domain.KindUpstreamError:
		evt = s.log.Warn()
	case transportErr != nil:
		evt = s.log.Error().Err(transportErr)
	default:
		evt = s.log.Error().Str("cause", ge.Cause)
	}
	evt.Str("route", call.Route).
		Str("method", call.Method).
		Str("path", call.Path).
		Int("upstream_status", status).
		Str("outcome", outcome).
		Dur("elapsed", elapsed).
		Msg("upstream call")
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// normalize inspects content type, JSON validity and status, in that order.
func normalize(resp *ports.UpstreamResponse) (*ports.ProxyResult, error) {
	status := resp.StatusCode
	body := bytes.TrimSpace(resp.Body)

	if len(body) == 0 {
		body = []byte("{}")
	} else if !isJSONContentType(resp.ContentType) {
		return nil, &domain.GatewayError{
			Kind:           domain.KindBadContentType,
			StatusCode:     http.StatusBadGateway,
			Message:        "Invalid response from backend. Expected JSON, got " + describeContentType(resp.ContentType),
			Details:        excerpt(body),
			UpstreamStatus: status,
		}
	}

	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, &domain.GatewayError{
			Kind:           domain.KindMalformedJSON,
			StatusCode:     http.StatusBadGateway,
			Message:        "Failed to parse backend JSON",
			Cause:          err.Error(),
			UpstreamStatus: status,
		}
	}

	if status < 200 || status > 299 {
		return nil, upstreamError(status, data)
	}
	return &ports.ProxyResult{StatusCode: status, Body: body}, nil
}

// upstreamError keeps the backend's status and message verbatim.
func upstreamError(status int, data any) *domain.GatewayError {
	msg := "Backend error: " + http.StatusText(status)
	cause := ""
	if obj, ok := data.(map[string]any); ok {
		if m, ok := obj["message"].(string); ok && m != "" {
			msg = m
		}
		if e, ok := obj["error"].(string); ok && e != "" {
			cause = e
		}
	}
	if cause == "" {
		cause = fmt.Sprintf("Backend returned status %d", status)
	}
	return &domain.GatewayError{
		Kind:           domain.KindUpstreamError,
		StatusCode:     status,
		Message:        msg,
		Cause:          cause,
		Details:        data,
		UpstreamStatus: status,
	}
}

func isJSONContentType(ct string) bool {
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return strings.Contains(strings.ToLower(ct), "application/json")
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

func describeContentType(ct string) string {
	if strings.TrimSpace(ct) == "" {
		return "no content type"
	}
	return ct
}

// excerpt returns at most excerptLimit characters of body.
func excerpt(body []byte) string {
	if utf8.RuneCount(body) <= excerptLimit {
		return string(body)
	}
	runes := []rune(string(body))
	return string(runes[:excerptLimit])
}
