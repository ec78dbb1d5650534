package httpclient

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

const defaultProbeTimeout = 5 * time.Second

var errEmptyProbeURL = errors.New("probe url is empty")

// HTTPProber checks outbound connectivity with a single GET request.
// Any transport error or non-2xx status counts as unreachable.
type HTTPProber struct {
	client  *fasthttp.Client
	url     string
	timeout time.Duration
	logger  *zap.Logger
}

// NewHTTPProber creates a prober for probeURL.
func NewHTTPProber(probeURL string, timeout time.Duration, logger *zap.Logger) (*HTTPProber, error) {
	probeURL = strings.TrimSpace(probeURL)
	if probeURL == "" {
		return nil, errEmptyProbeURL
	}
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	return &HTTPProber{
		client: &fasthttp.Client{
			Name:                          "network-registry-probe",
			NoDefaultUserAgentHeader:      true,
			DisableHeaderNamesNormalizing: true,
		},
		url:     probeURL,
		timeout: timeout,
		logger:  logger.Named("HTTPProber"),
	}, nil
}

// Probe performs the request. The ctx deadline wins over the configured timeout when it is earlier.
func (p *HTTPProber) Probe(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(p.url)
	req.Header.SetMethod(fasthttp.MethodGet)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)
	resp.SkipBody = true

	deadline := time.Now().Add(p.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := p.client.DoDeadline(req, resp, deadline); err != nil {
		p.logger.Debug("Connectivity probe failed", zap.String("url", p.url), zap.Error(err))
		return fmt.Errorf("probe %s: %w", p.url, err)
	}

	status := resp.StatusCode()
	if status < fasthttp.StatusOK || status >= fasthttp.StatusMultipleChoices {
		p.logger.Debug("Connectivity probe got unexpected status", zap.String("url", p.url), zap.Int("status", status))
		return fmt.Errorf("probe %s: unexpected status %d", p.url, status)
	}
	return nil
}
