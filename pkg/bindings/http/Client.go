// Package http is a protocol.Client/protocol.ClientFactory binding over
// net/http: GET/PUT/POST map to read/write/invoke, and subscribeResource
// falls back to long-polling since plain HTTP has no native push
// transport.
package http

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/wostzone/wot-consume/pkg/protocol"
	"github.com/wostzone/wot-consume/pkg/security"
)

// Scheme is the URI scheme this binding registers under.
const Scheme = "http"

// Client is a protocol.Client backed by a single *http.Client. Every call
// issues a request against r.Form.Href; basic/bearer/apikey credentials,
// once installed via SetCredentials, are attached to every outgoing
// request.
type Client struct {
	httpClient *http.Client
	creds      security.Credentials
}

// NewClient returns a Client using httpClient, or http.DefaultClient's
// settings (with a sane timeout) when httpClient is nil.
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{httpClient: httpClient}
}

// SetCredentials implements protocol.Client.
func (c *Client) SetCredentials(creds security.Credentials) error {
	c.creds = creds
	return nil
}

// Start implements protocol.Client. No connection setup is needed for
// net/http's per-request dialing model.
func (c *Client) Start(ctx context.Context) error { return nil }

// Stop implements protocol.Client.
func (c *Client) Stop(ctx context.Context) error { return nil }

func (c *Client) authorize(req *http.Request) error {
	switch creds := c.creds.(type) {
	case nil, security.NoCredentials:
		return nil
	case security.BasicCredentials:
		req.SetBasicAuth(creds.Username, creds.Password)
		return nil
	case security.BearerCredentials:
		req.Header.Set("Authorization", "Bearer "+creds.Token)
		return nil
	case security.APIKeyCredentials:
		switch creds.In {
		case "header", "":
			req.Header.Set(creds.Name, creds.Value)
		case "query":
			q := req.URL.Query()
			q.Set(creds.Name, creds.Value)
			req.URL.RawQuery = q.Encode()
		case "cookie":
			req.AddCookie(&http.Cookie{Name: creds.Name, Value: creds.Value})
		default:
			return fmt.Errorf("http binding: unsupported apikey location %q", creds.In)
		}
		return nil
	default:
		return fmt.Errorf("http binding: unsupported credentials kind %q", c.creds.Kind())
	}
}

// ReadResource issues a GET against r.Form.Href.
func (c *Client) ReadResource(ctx context.Context, r protocol.Resource) (protocol.Content, error) {
	return c.do(ctx, http.MethodGet, r.Form.Href, nil, "")
}

// WriteResource issues a PUT carrying content against r.Form.Href.
func (c *Client) WriteResource(ctx context.Context, r protocol.Resource, content protocol.Content) error {
	_, err := c.do(ctx, http.MethodPut, r.Form.Href, content.Body, content.MediaType)
	return err
}

// InvokeResource issues a POST carrying content (if any) against
// r.Form.Href and returns the response body as Content.
func (c *Client) InvokeResource(ctx context.Context, r protocol.Resource, content *protocol.Content) (protocol.Content, error) {
	var body []byte
	mediaType := r.Form.EffectiveContentType()
	if content != nil {
		body = content.Body
		mediaType = content.MediaType
	}
	return c.do(ctx, http.MethodPost, r.Form.Href, body, mediaType)
}

func (c *Client) do(ctx context.Context, method, href string, body []byte, mediaType string) (protocol.Content, error) {
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, href, reader)
	if err != nil {
		return protocol.Content{}, &protocol.ClientError{Scheme: Scheme, Cause: err}
	}
	if mediaType != "" {
		req.Header.Set("Content-Type", mediaType)
	}
	if err := c.authorize(req); err != nil {
		return protocol.Content{}, &protocol.ClientError{Scheme: Scheme, Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return protocol.Content{}, &protocol.ClientError{Scheme: Scheme, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return protocol.Content{}, &protocol.ClientError{
			Scheme: Scheme,
			Cause:  fmt.Errorf("unexpected status %d for %s %s", resp.StatusCode, method, href),
		}
	}

	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return protocol.Content{}, &protocol.ClientError{Scheme: Scheme, Cause: err}
	}

	return protocol.Content{MediaType: resp.Header.Get("Content-Type"), Body: buf.Bytes()}, nil
}
