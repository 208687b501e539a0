// Package client talks to the asset store over HTTP.
package client

import (
	"context"
	stdjson "encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	hzclient "github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/common/json"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/yi-nology/asset_tracker/biz/model/api"
	"github.com/yi-nology/asset_tracker/pkg/auth"
)

var (
	ErrBadRequest   = errors.New("request rejected")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrServer       = errors.New("server error")
)

// APIError is a non-2xx reply decoded from the response envelope.
type APIError struct {
	Status  int
	Message string
	Detail  string
}

func (e *APIError) Error() string {
	if e.Detail != "" && e.Detail != e.Message {
		return fmt.Sprintf("%d %s: %s", e.Status, e.Message, e.Detail)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	switch {
	case e.Status == consts.StatusNotFound:
		return ErrNotFound
	case e.Status == consts.StatusUnauthorized:
		return ErrUnauthorized
	case e.Status >= 400 && e.Status < 500:
		return ErrBadRequest
	default:
		return ErrServer
	}
}

// Doer executes one request. *hzclient.Client satisfies it.
type Doer interface {
	Do(ctx context.Context, req *protocol.Request, resp *protocol.Response) error
}

// Client is a typed asset store client. It is safe for concurrent use.
type Client struct {
	baseURL string
	doer    Doer

	mu    sync.RWMutex
	token string
}

// New builds a client on top of an arbitrary Doer.
func New(baseURL string, doer Doer) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), doer: doer}
}

// NewHTTP builds a client backed by the hertz HTTP client.
func NewHTTP(baseURL string, timeout time.Duration) (*Client, error) {
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid server url %q: %w", baseURL, err)
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	hc, err := hzclient.NewClient(
		hzclient.WithDialTimeout(timeout),
		hzclient.WithClientReadTimeout(timeout),
		hzclient.WithWriteTimeout(timeout),
	)
	if err != nil {
		return nil, err
	}
	return New(baseURL, hc), nil
}

// SetToken sets the bearer token sent with every request.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// ListAssets fetches the full list. When etag still names the current
// revision the returned listing is NotModified and has no rows.
func (c *Client) ListAssets(ctx context.Context, etag string) (*api.AssetListing, error) {
	var headers map[string]string
	if etag != "" {
		headers = map[string]string{"If-None-Match": etag}
	}
	var assets []*api.Asset
	res, err := c.call(ctx, consts.MethodGet, "/api/v1/assets", nil, "", headers, &assets)
	if err != nil {
		return nil, err
	}
	listing := &api.AssetListing{Revision: parseRevision(res.etag)}
	if res.status == consts.StatusNotModified {
		listing.NotModified = true
		return listing, nil
	}
	if assets == nil {
		assets = []*api.Asset{}
	}
	listing.Assets = assets
	return listing, nil
}

func (c *Client) GetAsset(ctx context.Context, id uint) (*api.Asset, error) {
	var asset api.Asset
	if _, err := c.call(ctx, consts.MethodGet, "/api/v1/assets/"+strconv.FormatUint(uint64(id), 10), nil, "", nil, &asset); err != nil {
		return nil, err
	}
	return &asset, nil
}

func (c *Client) CreateAsset(ctx context.Context, req *api.CreateAssetRequest) (*api.Asset, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	var asset api.Asset
	if _, err := c.call(ctx, consts.MethodPost, "/api/v1/assets", body, consts.MIMEApplicationJSON, nil, &asset); err != nil {
		return nil, err
	}
	return &asset, nil
}

// UpdateAsset sends change as a tagged variant.
func (c *Client) UpdateAsset(ctx context.Context, id uint, change api.AssetChange) (*api.Asset, error) {
	var req *api.UpdateAssetRequest
	switch ch := change.(type) {
	case api.Transition:
		req = api.NewTransitionRequest(id, ch)
	case api.DetailEdit:
		req = api.NewDetailRequest(id, ch)
	default:
		return nil, fmt.Errorf("%w: unsupported change %T", ErrBadRequest, change)
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	var asset api.Asset
	if _, err := c.call(ctx, consts.MethodPut, "/api/v1/assets", body, consts.MIMEApplicationJSON, nil, &asset); err != nil {
		return nil, err
	}
	return &asset, nil
}

func (c *Client) DeleteAsset(ctx context.Context, id uint) error {
	body, err := json.Marshal(api.DeleteAssetRequest{ID: api.AssetID(id)})
	if err != nil {
		return err
	}
	_, err = c.call(ctx, consts.MethodDelete, "/api/v1/assets", body, consts.MIMEApplicationJSON, nil, nil)
	return err
}

// ImportCSV uploads raw CSV for server-side import.
func (c *Client) ImportCSV(ctx context.Context, fileName string, data []byte) (*api.ImportSummary, error) {
	path := "/api/v1/assets/import?filename=" + url.QueryEscape(fileName)
	var summary api.ImportSummary
	if _, err := c.call(ctx, consts.MethodPost, path, data, "text/csv", nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// Login exchanges credentials for a session token and keeps it.
func (c *Client) Login(ctx context.Context, username, password string) (*api.LoginResponse, error) {
	body, err := json.Marshal(api.LoginRequest{Username: username, Password: password})
	if err != nil {
		return nil, err
	}
	var resp api.LoginResponse
	if _, err := c.call(ctx, consts.MethodPost, "/api/v1/auth/login", body, consts.MIMEApplicationJSON, nil, &resp); err != nil {
		return nil, err
	}
	c.SetToken(resp.Token)
	return &resp, nil
}

// Verify implements auth.Verifier against the server's login endpoint.
func (c *Client) Verify(ctx context.Context, creds auth.Credentials) (*auth.Identity, error) {
	resp, err := c.Login(ctx, creds.Username, creds.Password)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			return nil, fmt.Errorf("%w: %w", auth.ErrInvalidCredentials, err)
		}
		return nil, err
	}
	return &auth.Identity{Username: resp.Username, Token: resp.Token}, nil
}

// Ping checks that the server is reachable.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.call(ctx, consts.MethodGet, "/ping", nil, "", nil, nil)
	return err
}

type envelope struct {
	Code  int                `json:"code"`
	Msg   string             `json:"msg"`
	Error string             `json:"error"`
	Data  stdjson.RawMessage `json:"data"`
}

type result struct {
	status int
	etag   string
}

func (c *Client) call(ctx context.Context, method, path string, body []byte, contentType string, headers map[string]string, out interface{}) (*result, error) {
	req := protocol.AcquireRequest()
	resp := protocol.AcquireResponse()
	defer protocol.ReleaseRequest(req)
	defer protocol.ReleaseResponse(resp)

	req.SetMethod(method)
	req.SetRequestURI(c.baseURL + path)
	if contentType != "" {
		req.Header.SetContentTypeBytes([]byte(contentType))
	}
	if token := c.bearer(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("X-Client-Version", "assetctl/1")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if body != nil {
		req.SetBody(body)
	}

	if err := c.doer.Do(ctx, req, resp); err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	res := &result{status: resp.StatusCode(), etag: string(resp.Header.Peek("ETag"))}
	if res.status == consts.StatusNotModified {
		return res, nil
	}

	var env envelope
	if raw := resp.Body(); len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, fmt.Errorf("%s %s: decode response (status %d): %w", method, path, res.status, err)
		}
	}
	if res.status < 200 || res.status >= 300 {
		msg := env.Msg
		if msg == "" {
			msg = consts.StatusMessage(res.status)
		}
		return nil, &APIError{Status: res.status, Message: msg, Detail: env.Error}
	}
	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("%s %s: decode data: %w", method, path, err)
		}
	}
	return res, nil
}

// parseRevision extracts <rev> from W/"assets-<rev>"; unknown formats give 0.
func parseRevision(etag string) int64 {
	tag := strings.TrimPrefix(etag, "W/")
	tag = strings.Trim(tag, `"`)
	tag = strings.TrimPrefix(tag, "assets-")
	rev, err := strconv.ParseInt(tag, 10, 64)
	if err != nil {
		return 0
	}
	return rev
}
