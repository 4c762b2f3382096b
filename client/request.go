package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/quayside/nasgate/internal/params"
	"github.com/quayside/nasgate/naserrors"
	"github.com/quayside/nasgate/observability"
)

// RequestOption configures a single request.
type RequestOption func(*requestOptions)

type requestOptions struct {
	post bool
}

// WithPOST sends the request as a form-encoded POST body instead of a query
// string. Endpoints with large or sensitive parameters expect POST.
func WithPOST() RequestOption {
	return func(o *requestOptions) {
		o.post = true
	}
}

// Request dispatches one endpoint call and decodes its envelope.
//
// name is the endpoint name, path its server path (usually resolved through
// the registry). Boolean parameter values are normalized to literal
// "true"/"false" strings before encoding, and the current session id is
// attached under "_sid", empty when not yet authenticated, so callers must
// Connect first.
//
// A non-success envelope is returned alongside the typed error so callers can
// still inspect it.
func (c *Client) Request(ctx context.Context, name, path string, reqParams map[string]any, opts ...RequestOption) (*Envelope, error) {
	var o requestOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	method := ""
	if reqParams != nil {
		method, _ = reqParams["method"].(string)
	}
	c.obs.BeforeRequest(name, method)

	form := url.Values{}
	for k, v := range params.Normalize(reqParams) {
		form.Set(k, v)
	}
	form.Set("api", name)
	form.Set(sidField, c.sid)

	start := time.Now()
	var env *Envelope
	var err error
	if o.post {
		env, err = c.postForm(ctx, name, path, form)
	} else {
		env, err = c.getForm(ctx, name, path, form)
	}
	if err != nil {
		c.obs.Error(name, errorResult(err))
		return nil, err
	}
	if !env.Success {
		c.obs.Error(name, observability.RequestResultAPIError)
		return env, naserrors.FromCode(name, env.errorCode())
	}
	c.obs.AfterResponse(name, method, time.Since(start))
	return env, nil
}

// CompoundRequest is one named sub-request of a batch.
type CompoundRequest struct {
	API     string
	Method  string
	Version int
	Params  map[string]any
}

// MarshalJSON flattens Params next to the api/method/version members, applying
// the same value normalization as single requests.
func (r CompoundRequest) MarshalJSON() ([]byte, error) {
	obj := make(map[string]any, len(r.Params)+3)
	for k, v := range params.Normalize(r.Params) {
		obj[k] = v
	}
	obj["api"] = r.API
	obj["method"] = r.Method
	obj["version"] = r.Version
	return json.Marshal(obj)
}

// RequestCompound packages several sub-requests into one sequential batch call
// and returns the single envelope covering the whole batch.
func (c *Client) RequestCompound(ctx context.Context, reqs []CompoundRequest) (*Envelope, error) {
	blob, err := json.Marshal(reqs)
	if err != nil {
		return nil, naserrors.Decode(apiEntry, err)
	}
	return c.Request(ctx, apiEntry, entryPath, map[string]any{
		"method":   "request",
		"version":  1,
		"mode":     "sequential",
		"compound": string(blob),
	}, WithPOST())
}

func errorResult(err error) observability.RequestResult {
	var typed *naserrors.Error
	if errors.As(err, &typed) && typed.Kind == naserrors.KindDecode {
		return observability.RequestResultDecode
	}
	return observability.RequestResultConnection
}

// endpointURL joins the base address, the webapi prefix, and the endpoint path,
// with an optional query string.
func (c *Client) endpointURL(path string, query url.Values) string {
	u := *c.base
	u.Path = c.base.Path + webapiPrefix + path
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// getForm performs a query-string GET and decodes the envelope.
func (c *Client) getForm(ctx context.Context, api, path string, form url.Values) (*Envelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpointURL(path, form), nil)
	if err != nil {
		return nil, naserrors.Connection(api, err)
	}
	return c.do(api, req)
}

// postForm performs a form-encoded POST and decodes the envelope.
func (c *Client) postForm(ctx context.Context, api, path string, form url.Values) (*Envelope, error) {
	body := strings.NewReader(form.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpointURL(path, nil), body)
	if err != nil {
		return nil, naserrors.Connection(api, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(api, req)
}

// do executes one exchange. Transport failures are always wrapped into a
// connection error; malformed bodies into a decode error.
func (c *Client) do(api string, req *http.Request) (*Envelope, error) {
	if c.csrfToken != "" {
		req.Header.Set(tokenHeader, c.csrfToken)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, naserrors.Connection(api, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, naserrors.Connection(api, fmt.Errorf("http status %d", resp.StatusCode))
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, naserrors.Connection(api, err)
	}
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, naserrors.Decode(api, err)
	}
	if !env.Success && env.Error == nil {
		// A correct server always sends a code when success is false.
		env.Error = &ErrorInfo{}
	}
	return &env, nil
}
