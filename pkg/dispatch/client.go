package dispatch

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-go-golems/readviz/pkg/protocol"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const DefaultBaseURL = "http://127.0.0.1:5000"

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 64 << 20

type Client interface {
	// Do sends req and never returns a Go error: transport problems come back
	// as an Unhandled Failure.
	Do(ctx context.Context, req protocol.ActionRequest) protocol.Response
	ExportURL(params protocol.Params) string
}

type Options struct {
	BaseURL string
	// Timeout bounds each request. Zero leaves requests unbounded.
	Timeout    time.Duration
	HTTPClient *http.Client
}

type client struct {
	base    string
	timeout time.Duration
	http    *http.Client
}

var _ Client = (*client)(nil)

func New(opts Options) (Client, error) {
	base := strings.TrimSpace(opts.BaseURL)
	if base == "" {
		base = DefaultBaseURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, errors.Wrap(err, "parse base url")
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.Errorf("base url %q must include scheme and host", base)
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	return &client{
		base:    strings.TrimRight(base, "/"),
		timeout: opts.Timeout,
		http:    hc,
	}, nil
}

func (c *client) Do(ctx context.Context, req protocol.ActionRequest) protocol.Response {
	if err := protocol.ValidateRequest(req); err != nil {
		return protocol.Failure{Code: protocol.ErrUnhandled, Err: err}
	}
	ep, _ := req.Kind.Endpoint()
	if ep.Navigate {
		return protocol.Failure{Code: protocol.ErrUnhandled, Err: errors.Errorf("%s is a navigation, use ExportURL", req.Kind)}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	ctx = WithRequestID(ctx, req.ID)

	httpReq, err := http.NewRequestWithContext(ctx, ep.Method, c.base+ep.Path, strings.NewReader(EncodeParams(req.Params)))
	if err != nil {
		return protocol.Failure{Code: protocol.ErrUnhandled, Err: errors.Wrap(err, "build request")}
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
	httpReq.Header.Set("X-Requested-With", "XMLHttpRequest")
	httpReq.Header.Set("X-Request-ID", RequestIDFromContext(ctx))

	started := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		log.Debug().Err(err).Str("action", string(req.Kind)).Str("request_id", req.ID).Msg("request failed")
		return protocol.Failure{Code: protocol.ErrUnhandled, Err: errors.Wrap(err, "send request")}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	log.Debug().
		Str("action", string(req.Kind)).
		Str("request_id", req.ID).
		Str("path", ep.Path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(started)).
		Msg("response")
	if err != nil {
		return protocol.Failure{Code: protocol.ErrUnhandled, Status: resp.StatusCode, Err: errors.Wrap(err, "read body")}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return protocol.Failure{
			Code:   protocol.CodeForStatus(resp.StatusCode),
			Status: resp.StatusCode,
			Err:    &StatusError{Kind: req.Kind, Status: resp.StatusCode, Body: snippet(body)},
		}
	}

	payload, err := protocol.Decode(req.Kind, body)
	if err != nil {
		return protocol.Failure{Code: protocol.ErrUnhandled, Status: resp.StatusCode, Err: err}
	}
	return protocol.Success{Payload: payload}
}

func (c *client) ExportURL(params protocol.Params) string {
	ep := protocol.Endpoints[protocol.ActionExportTSV]
	return c.base + ep.Path + "?" + EncodeParams(params)
}

// EncodeParams joins params as key=value pairs in their given order. Values
// are query-escaped; "true" and "false" pass through unchanged.
func EncodeParams(params protocol.Params) string {
	var b strings.Builder
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}

func snippet(b []byte) string {
	const max = 200
	s := strings.TrimSpace(string(b))
	if len(s) > max {
		return s[:max] + "…"
	}
	return s
}
