package executor

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/studiowebux/hac/internal/collection"
)

// DefaultTimeout is used when no timeout is configured
const DefaultTimeout = 30 * time.Second

// Sink receives the single response of a dispatched request. Returning an
// error means nobody is listening anymore.
type Sink func(Response) error

// Recorder stores finished executions, for example in the history database
type Recorder interface {
	Record(req collection.Request, resp Response) error
}

// ClientOptions configures the HTTP client shared by all requests
type ClientOptions struct {
	Timeout            time.Duration
	InsecureSkipVerify bool
	CAFile             string
	CertFile           string
	KeyFile            string
}

// Pipeline runs requests on background goroutines, one per request.
// Requests are never retried or cancelled; the client timeout bounds them.
type Pipeline struct {
	client   *http.Client
	recorder Recorder
	inflight sync.WaitGroup
}

// NewPipeline creates a pipeline. recorder may be nil.
func NewPipeline(client *http.Client, recorder Recorder) *Pipeline {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &Pipeline{client: client, recorder: recorder}
}

// Dispatch starts the request and returns immediately. The response is
// delivered exactly once through sink from the request goroutine.
func (p *Pipeline) Dispatch(req collection.Request, sink Sink) error {
	req = req.Clone()
	if req.BodyKind == "" {
		req.Normalize()
	}

	strategy, err := StrategyFor(req.BodyKind)
	if err != nil {
		return err
	}

	p.inflight.Add(1)
	go func() {
		defer p.inflight.Done()

		log.Debug("request started", "id", req.ID, "method", req.Method, "uri", req.URI)
		resp := strategy.Execute(context.Background(), p.client, req)
		log.Debug("request finished", "id", req.ID, "status", resp.StatusCode(), "duration", resp.Duration, "error", resp.IsError)

		if err := sink(resp); err != nil {
			// the consumer is gone, typically during shutdown
			log.Debug("response dropped", "id", req.ID, "err", err)
			return
		}

		if p.recorder != nil {
			if err := p.recorder.Record(req, resp); err != nil {
				log.Warn("failed to record history", "id", req.ID, "err", err)
			}
		}
	}()
	return nil
}

// Wait blocks until every dispatched request has delivered its response
func (p *Pipeline) Wait() {
	p.inflight.Wait()
}

// NewHTTPClient creates an HTTP client with optional TLS/mTLS configuration
func NewHTTPClient(opts ClientOptions) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if opts.InsecureSkipVerify || opts.CAFile != "" || opts.CertFile != "" {
		tlsCfg := &tls.Config{
			InsecureSkipVerify: opts.InsecureSkipVerify,
		}

		// Load client certificate if provided (for mTLS)
		if opts.CertFile != "" && opts.KeyFile != "" {
			cert, err := tls.LoadX509KeyPair(opts.CertFile, opts.KeyFile)
			if err != nil {
				return nil, fmt.Errorf("failed to load client certificate: %w", err)
			}
			tlsCfg.Certificates = []tls.Certificate{cert}
		}

		if opts.CAFile != "" {
			caCert, err := os.ReadFile(opts.CAFile)
			if err != nil {
				return nil, fmt.Errorf("failed to read CA certificate: %w", err)
			}
			pool := x509.NewCertPool()
			if !pool.AppendCertsFromPEM(caCert) {
				return nil, fmt.Errorf("failed to parse CA certificate")
			}
			tlsCfg.RootCAs = pool
		}

		transport.TLSClientConfig = tlsCfg
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}, nil
}

// FormatDuration formats a duration to a short human-readable string
func FormatDuration(d time.Duration) string {
	ms := d.Milliseconds()
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}

// FormatSize formats byte size to human-readable string
func FormatSize(bytes int) string {
	if bytes < 1024 {
		return fmt.Sprintf("%dB", bytes)
	}
	if bytes < 1024*1024 {
		return fmt.Sprintf("%.2fKB", float64(bytes)/1024.0)
	}
	return fmt.Sprintf("%.2fMB", float64(bytes)/(1024.0*1024.0))
}

// IsSuccessStatus returns true if status code is 2xx
func IsSuccessStatus(status int) bool {
	return status >= 200 && status < 300
}

// IsClientErrorStatus returns true if status code is 4xx
func IsClientErrorStatus(status int) bool {
	return status >= 400 && status < 500
}

// IsServerErrorStatus returns true if status code is 5xx
func IsServerErrorStatus(status int) bool {
	return status >= 500 && status < 600
}
