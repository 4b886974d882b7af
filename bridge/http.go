package bridge

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/solenne/mend/errors"
)

// HTTPOptions configures an HTTP bridge.
type HTTPOptions struct {
	// Timeout bounds each request end to end. Zero means 10s. The
	// orchestrator additionally bounds calls with its bridge timeout.
	Timeout time.Duration

	// AllowPrivateHosts permits localhost and private address ranges.
	// Off by default: the legacy URL usually comes from configuration, and
	// a hijacked value must not be able to probe the internal network.
	AllowPrivateHosts bool

	// MaxRedirects caps redirect chains. Zero means 10.
	MaxRedirects int

	// Client overrides the HTTP client, for tests.
	Client *http.Client
}

// HTTPBridge fetches legacy entries over HTTP: GET <base>/<type>/<id>
// returns the entry body, 404 means no entry.
type HTTPBridge struct {
	base         *url.URL
	client       *http.Client
	allowPrivate bool
}

// NewHTTP creates an HTTP bridge rooted at baseURL.
func NewHTTP(baseURL string, opts HTTPOptions) (*HTTPBridge, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid legacy base URL %q", baseURL)
	}

	b := &HTTPBridge{base: base, allowPrivate: opts.AllowPrivateHosts}
	if err := b.checkURL(base); err != nil {
		return nil, err
	}

	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.MaxRedirects <= 0 {
		opts.MaxRedirects = 10
	}

	if opts.Client != nil {
		b.client = opts.Client
		return b, nil
	}

	dialer := &net.Dialer{Timeout: 30 * time.Second, KeepAlive: 30 * time.Second}
	b.client = &http.Client{
		Timeout: opts.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= opts.MaxRedirects {
				return errors.Newf("stopped after %d redirects", opts.MaxRedirects)
			}
			return b.checkURL(req.URL)
		},
		Transport: &http.Transport{
			DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				if !b.allowPrivate {
					// Re-check at dial time so DNS rebinding cannot dodge
					// the URL-level host check.
					host, _, err := net.SplitHostPort(addr)
					if err != nil {
						return nil, errors.Wrap(err, "invalid address")
					}
					ips, err := net.DefaultResolver.LookupIP(ctx, "ip", host)
					if err != nil {
						return nil, errors.Wrapf(err, "resolving %q", host)
					}
					for _, ip := range ips {
						if isPrivateIP(ip) {
							return nil, errors.Newf("private address blocked: %s", ip)
						}
					}
				}
				return dialer.DialContext(ctx, network, addr)
			},
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		},
	}
	return b, nil
}

// Fetch implements heal.BridgeFunc.
func (b *HTTPBridge) Fetch(ctx context.Context, entryType, id string) (json.RawMessage, error) {
	u := b.base.JoinPath(url.PathEscape(entryType), url.PathEscape(id))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrBridge, err.Error())
	}
	req.Header.Set("Accept", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrapf(errors.ErrBridgeUnavailable, "legacy read path: %v", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, nil
	case resp.StatusCode >= 500:
		return nil, errors.Wrapf(errors.ErrBridgeUnavailable, "legacy read path answered %s", resp.Status)
	case resp.StatusCode != http.StatusOK:
		return nil, errors.Wrapf(errors.ErrBridge, "legacy read path answered %s for %s/%s", resp.Status, entryType, id)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, errors.Wrapf(errors.ErrBridge, "reading legacy entry %s/%s: %v", entryType, id, err)
	}
	return body, nil
}

func (b *HTTPBridge) checkURL(u *url.URL) error {
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return errors.Newf("scheme %q not allowed for legacy bridge", scheme)
	}
	if u.User != nil {
		return errors.New("credentials in legacy bridge URL not allowed")
	}

	hostname := u.Hostname()
	if hostname == "" {
		return errors.New("legacy bridge URL missing hostname")
	}
	if b.allowPrivate {
		return nil
	}
	if isLocalhost(hostname) {
		return errors.New("localhost legacy bridge blocked, set allow_private_hosts to permit")
	}
	if ip := net.ParseIP(hostname); ip != nil && isPrivateIP(ip) {
		return errors.Newf("private address blocked: %s", hostname)
	}
	return nil
}

func isLocalhost(hostname string) bool {
	hostname = strings.ToLower(hostname)
	return hostname == "localhost" ||
		hostname == "localhost.localdomain" ||
		strings.HasSuffix(hostname, ".localhost")
}

func isPrivateIP(ip net.IP) bool {
	if ip4 := ip.To4(); ip4 != nil {
		return ip4.IsLoopback() || ip4.IsPrivate() || ip4.IsLinkLocalUnicast() ||
			ip4.IsMulticast() || ip4.IsUnspecified() ||
			ip4[0] == 0 || ip4[0] >= 240
	}
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() || ip.IsMulticast() || ip.IsUnspecified()
}
