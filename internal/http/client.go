package http

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"time"

	"golang.org/x/time/rate"

	"github.com/handiism/bandcamp-explorer/internal/logger"
)

// ClientConfig holds connection settings.
type ClientConfig struct {
	// ConnectTimeout bounds dialing and the TLS handshake.
	ConnectTimeout time.Duration

	// ReadTimeout bounds the wait for response headers and every read
	// from the connection.
	ReadTimeout time.Duration

	// MaxRedirects is the number of redirect hops followed before giving up.
	MaxRedirects int

	// UserAgent is sent with every request.
	UserAgent string

	// RequestsPerSecond limits outgoing requests. 0 disables the limit.
	RequestsPerSecond float64
}

// DefaultClientConfig returns the stock connection settings.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		ConnectTimeout: 60 * time.Second,
		ReadTimeout:    60 * time.Second,
		MaxRedirects:   10,
		UserAgent:      "BandcampExplorer",
	}
}

// Client opens connections to pages and files.
//
// Client is safe for concurrent use. It keeps two transports: the regular
// one and an insecure one that is only used after a server presented an
// untrusted certificate chain.
type Client struct {
	cfg      ClientConfig
	secure   *http.Client
	insecure *http.Client
	limiter  *rate.Limiter
	log      *logger.Logger
}

// NewClient creates a new Client.
func NewClient(cfg ClientConfig, log *logger.Logger) *Client {
	c := &Client{
		cfg:      cfg,
		secure:   newHTTPClient(cfg, nil),
		insecure: newHTTPClient(cfg, &tls.Config{InsecureSkipVerify: true}),
		log:      logger.OrDiscard(log).WithComponent("http"),
	}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return c
}

func newHTTPClient(cfg ClientConfig, tlsConfig *tls.Config) *http.Client {
	dialer := &net.Dialer{Timeout: cfg.ConnectTimeout}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			conn, err := dialer.DialContext(ctx, network, addr)
			if err != nil || cfg.ReadTimeout <= 0 {
				return conn, err
			}
			return &deadlineConn{Conn: conn, timeout: cfg.ReadTimeout}, nil
		},
		TLSClientConfig:       tlsConfig,
		TLSHandshakeTimeout:   cfg.ConnectTimeout,
		ResponseHeaderTimeout: cfg.ReadTimeout,
		MaxIdleConnsPerHost:   8,
		IdleConnTimeout:       30 * time.Second,
	}

	return &http.Client{
		Transport: transport,
		// Redirects are followed by Client.openHTTP.
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// deadlineConn refreshes the read deadline before every read.
type deadlineConn struct {
	net.Conn
	timeout time.Duration
}

func (c *deadlineConn) Read(p []byte) (int, error) {
	if err := c.Conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
		return 0, err
	}
	return c.Conn.Read(p)
}

// Connection is an open resource: an HTTP response that is not a redirect,
// or a local file.
type Connection struct {
	// Body must be closed by the caller, preferably through Close.
	Body io.ReadCloser

	// ContentLength is -1 when unknown.
	ContentLength int64

	url    *url.URL
	status int
}

// URL returns the final URL, after redirects.
func (c *Connection) URL() *url.URL {
	return c.url
}

// StatusCode returns the HTTP status, 200 for files.
func (c *Connection) StatusCode() int {
	return c.status
}

// Close closes the connection body.
func (c *Connection) Close() error {
	return c.Body.Close()
}

// Open opens u. For http and https URLs it returns the first response that
// is not a 301, 302 or 303 redirect, regardless of its status code.
func (c *Client) Open(ctx context.Context, u *url.URL) (*Connection, error) {
	switch u.Scheme {
	case "file":
		return openFile(u)
	case "http", "https":
		return c.openHTTP(ctx, u)
	default:
		return nil, &FetchError{URL: u.String(), Err: fmt.Errorf("%w: %q", ErrUnsupportedProtocol, u.Scheme)}
	}
}

func openFile(u *url.URL) (*Connection, error) {
	path := u.Path
	if path == "" {
		path = u.Opaque
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, &FetchError{URL: u.String(), Err: err}
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, &FetchError{URL: u.String(), Err: err}
	}
	if info.IsDir() {
		file.Close()
		return nil, &FetchError{URL: u.String(), Err: fmt.Errorf("%s is a directory", path)}
	}

	return &Connection{
		Body:          file,
		ContentLength: info.Size(),
		url:           u,
		status:        http.StatusOK,
	}, nil
}

func (c *Client) openHTTP(ctx context.Context, u *url.URL) (*Connection, error) {
	current := u
	redirects := 0

	for {
		resp, err := c.do(ctx, current)
		if err != nil {
			return nil, &FetchError{URL: current.String(), Err: err}
		}

		if !isRedirect(resp.StatusCode) {
			return &Connection{
				Body:          resp.Body,
				ContentLength: resp.ContentLength,
				url:           current,
				status:        resp.StatusCode,
			}, nil
		}

		location := resp.Header.Get("Location")
		drain(resp.Body)

		if location == "" {
			return nil, &FetchError{URL: current.String(), StatusCode: resp.StatusCode, Err: errors.New("redirect without Location header")}
		}
		if redirects >= c.cfg.MaxRedirects {
			return nil, &FetchError{URL: u.String(), Err: fmt.Errorf("%w: more than %d", ErrTooManyRedirects, c.cfg.MaxRedirects)}
		}

		next, err := current.Parse(location)
		if err != nil {
			return nil, &FetchError{URL: current.String(), StatusCode: resp.StatusCode, Err: fmt.Errorf("invalid Location %q: %w", location, err)}
		}

		redirects++
		c.log.Debug("following redirect", "from", current.String(), "to", next.String(), "status", resp.StatusCode, "hop", redirects)
		current = next
	}
}

// do sends one GET request. An untrusted certificate chain triggers a single
// retry through the insecure transport.
func (c *Client) do(ctx context.Context, u *url.URL) (*http.Response, error) {
	resp, err := c.send(ctx, c.secure, u)
	if err == nil || !isUntrustedCertificate(err) {
		return resp, err
	}

	c.log.Warn("accepting untrusted certificate", "url", u.String(), "error", err)
	return c.send(ctx, c.insecure, u)
}

func (c *Client) send(ctx context.Context, hc *http.Client, u *url.URL) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	return hc.Do(req)
}

func isRedirect(code int) bool {
	switch code {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther:
		return true
	}
	return false
}

func isUntrustedCertificate(err error) bool {
	var unknown x509.UnknownAuthorityError
	return errors.As(err, &unknown)
}

// drain discards what is left of body so the connection can be reused.
func drain(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 64<<10))
	_ = body.Close()
}

// GetString opens u and returns its body as text along with the final URL.
//
// A response status other than 200 OK is returned as a *FetchError that
// carries the status code.
func (c *Client) GetString(ctx context.Context, u *url.URL) (string, *url.URL, error) {
	body, final, err := c.Get(ctx, u)
	if err != nil {
		return "", nil, err
	}
	return string(body), final, nil
}

// Get opens u and returns its body as bytes along with the final URL.
func (c *Client) Get(ctx context.Context, u *url.URL) ([]byte, *url.URL, error) {
	conn, err := c.Open(ctx, u)
	if err != nil {
		return nil, nil, err
	}
	defer conn.Close()

	if conn.StatusCode() != http.StatusOK {
		return nil, nil, &FetchError{URL: conn.URL().String(), StatusCode: conn.StatusCode(), Err: errors.New(http.StatusText(conn.StatusCode()))}
	}

	data, err := io.ReadAll(conn.Body)
	if err != nil {
		return nil, nil, &FetchError{URL: conn.URL().String(), StatusCode: conn.StatusCode(), Err: err}
	}

	return data, conn.URL(), nil
}
