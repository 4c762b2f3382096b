// Package client implements the secure session lifecycle for the NAS web API:
// login (including credential protection and the pre-login handshake),
// authenticated request dispatch, and logout.
//
// A Client is driven by one logical caller at a time. Concurrent Request calls
// are safe only in that each awaits its own response; Connect and Disconnect
// must not race with anything else.
package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	logging "gopkg.in/op/go-logging.v1"

	"github.com/quayside/nasgate/crypto/hybridenc"
	"github.com/quayside/nasgate/handshake"
	internallog "github.com/quayside/nasgate/internal/logging"
	"github.com/quayside/nasgate/naserrors"
	"github.com/quayside/nasgate/observability"
	"github.com/quayside/nasgate/registry"
)

const (
	apiAuth       = "SYNO.API.Auth"
	apiInfo       = "SYNO.API.Info"
	apiEncryption = "SYNO.API.Encryption"
	apiEntry      = "SYNO.Entry.Request"

	authPath       = "auth.cgi"
	queryPath      = "query.cgi"
	encryptionPath = "encryption.cgi"
	entryPath      = "entry.cgi"

	webapiPrefix = "webapi/"

	// clientID is the fixed client identifier sent with every login.
	clientID = "browser"

	sidField    = "_sid"
	tokenHeader = "X-SYNO-TOKEN"

	// handshakeField carries the Noise IK token on current-generation logins.
	handshakeField = "ik_message"
)

// Client owns one session to one server.
type Client struct {
	cfg    Config
	base   *url.URL
	hc     *http.Client
	obs    observability.SessionObserver
	log    *logging.Logger
	reg    *registry.Registry
	secure bool

	sid         string
	csrfToken   string
	deviceToken string
	connected   bool
}

// New validates cfg and builds a disconnected client.
func New(cfg Config, opts ...Option) (*Client, error) {
	o, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	if cfg.BaseURL == "" {
		return nil, ErrMissingBaseURL
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil || !base.IsAbs() || (base.Scheme != "http" && base.Scheme != "https") {
		return nil, ErrBadBaseURL
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	if cfg.Account == "" {
		return nil, ErrMissingAccount
	}
	if cfg.Password == "" {
		return nil, ErrMissingPassword
	}
	switch cfg.Generation {
	case 0:
		cfg.Generation = GenerationCurrent
	case GenerationLegacy, GenerationCurrent:
	default:
		return nil, ErrBadGeneration
	}
	if cfg.DeviceName != "" && cfg.DeviceID == "" {
		cfg.DeviceID = uuid.NewString()
	}

	c := &Client{
		cfg:    cfg,
		base:   base,
		hc:     o.hc,
		obs:    o.obs,
		log:    internallog.Get("client"),
		reg:    registry.New(),
		secure: base.Scheme == "https",
	}
	if c.hc == nil {
		c.hc = &http.Client{}
	}
	if c.obs == nil {
		c.obs = observability.NoopSessionObserver
	}
	if o.secureSet {
		c.secure = o.secure
	}
	return c, nil
}

// SessionID returns the opaque session id, or "" before login.
func (c *Client) SessionID() string { return c.sid }

// CSRFToken returns the anti-CSRF token, or "" before login.
func (c *Client) CSRFToken() string { return c.csrfToken }

// Connected reports whether a session is established.
func (c *Client) Connected() bool { return c.connected }

// DeviceToken returns the device token issued at login when device enrollment
// was requested, or "" otherwise. Persist it and pass it as Config.DeviceID on
// later logins to skip the OTP prompt.
func (c *Client) DeviceToken() string { return c.deviceToken }

// Registry exposes the endpoint registry populated at login.
func (c *Client) Registry() *registry.Registry { return c.reg }

// Connect runs the login protocol and populates the endpoint registry.
//
// It is idempotent on a live session and attempts login at most once per call;
// after a failure the caller decides whether to call Connect again.
func (c *Client) Connect(ctx context.Context) error {
	if c.sid != "" {
		return nil
	}

	form := url.Values{}
	form.Set("api", apiAuth)
	form.Set("version", strconv.Itoa(authVersion(c.cfg.Generation)))
	form.Set("method", "login")
	form.Set("enable_syno_token", "yes")
	form.Set("client", clientID)

	creds := map[string]string{
		"account": c.cfg.Account,
		"passwd":  c.cfg.Password,
	}
	if c.cfg.OTPCode != "" {
		creds["otp_code"] = c.cfg.OTPCode
	}
	if c.cfg.DeviceID != "" {
		creds["device_id"] = c.cfg.DeviceID
		creds["device_name"] = c.cfg.DeviceName
		form.Set("enable_device_token", "yes")
	}

	if c.cfg.Generation == GenerationCurrent {
		token, err := c.handshakeToken(ctx)
		if err != nil {
			c.obs.Login(observability.LoginResultFailed)
			return err
		}
		form.Set(handshakeField, token)
	}

	if c.secure {
		for k, v := range creds {
			form.Set(k, v)
		}
	} else {
		info, err := c.encryptionInfo(ctx)
		if err != nil {
			c.obs.Login(observability.LoginResultFailed)
			return err
		}
		enc, err := hybridenc.EncryptCredentials(creds, info)
		if err != nil {
			c.obs.Login(observability.LoginResultFailed)
			return naserrors.Connection(apiAuth, err)
		}
		for k, v := range enc {
			form.Set(k, v)
		}
	}

	env, err := c.postForm(ctx, apiAuth, authPath, form)
	if err != nil {
		c.obs.Login(observability.LoginResultFailed)
		return err
	}
	if !env.Success {
		c.obs.Login(observability.LoginResultFailed)
		return naserrors.Login(apiAuth, env.errorCode())
	}

	var data loginData
	if err := env.DecodeData(&data); err != nil {
		c.obs.Login(observability.LoginResultFailed)
		return naserrors.Decode(apiAuth, err)
	}
	if data.SID == "" {
		c.obs.Login(observability.LoginResultFailed)
		return naserrors.Decode(apiAuth, errors.New("login payload missing sid"))
	}
	c.sid = data.SID
	c.csrfToken = data.SynoToken
	c.deviceToken = data.DeviceID

	if err := c.discover(ctx); err != nil {
		c.sid = ""
		c.csrfToken = ""
		c.deviceToken = ""
		c.obs.Login(observability.LoginResultFailed)
		return err
	}

	c.connected = true
	c.obs.Login(observability.LoginResultOK)
	c.obs.Connected()
	c.log.Debugf("connected, %d endpoints discovered", c.reg.Len())
	return nil
}

// Disconnect logs the session out. Session state is cleared whatever the
// logout call returns; the network outcome only decides the returned error.
func (c *Client) Disconnect(ctx context.Context) error {
	if c.sid == "" {
		return nil
	}
	defer func() {
		c.sid = ""
		c.csrfToken = ""
		c.connected = false
		c.obs.Disconnected()
		c.log.Debug("disconnected")
	}()

	form := url.Values{}
	form.Set("api", apiAuth)
	form.Set("version", strconv.Itoa(authVersion(c.cfg.Generation)))
	form.Set("method", "logout")
	form.Set(sidField, c.sid)

	env, err := c.getForm(ctx, apiAuth, authPath, form)
	if err != nil {
		return err
	}
	if !env.Success {
		return naserrors.Logout(apiAuth, env.errorCode())
	}
	return nil
}

// handshakeToken performs the pre-login call and builds the IK token from the
// server key cookie. A missing cookie on a generation that requires the
// handshake is a connection-setup failure, never silently skipped.
func (c *Client) handshakeToken(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpointURL(authPath, nil), nil)
	if err != nil {
		return "", naserrors.Connection(apiAuth, err)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return "", naserrors.Connection(apiAuth, err)
	}
	defer resp.Body.Close()

	cookieValue, err := handshake.FindKeyCookie(resp)
	if err != nil {
		return "", naserrors.Connection(apiAuth, err)
	}
	token, err := handshake.BuildToken(cookieValue, time.Now())
	if err != nil {
		return "", naserrors.Connection(apiAuth, err)
	}
	c.log.Debug("handshake token built")
	return token, nil
}

// encryptionInfo fetches the server key material for credential encryption.
func (c *Client) encryptionInfo(ctx context.Context) (hybridenc.EncryptionInfo, error) {
	form := url.Values{}
	form.Set("api", apiEncryption)
	form.Set("version", "1")
	form.Set("method", "getinfo")

	env, err := c.getForm(ctx, apiEncryption, encryptionPath, form)
	if err != nil {
		return hybridenc.EncryptionInfo{}, err
	}
	if !env.Success {
		return hybridenc.EncryptionInfo{}, naserrors.FromCode(apiEncryption, env.errorCode())
	}
	var info hybridenc.EncryptionInfo
	if err := env.DecodeData(&info); err != nil {
		return hybridenc.EncryptionInfo{}, naserrors.Decode(apiEncryption, err)
	}
	return info, nil
}

// discover populates the endpoint registry after login.
func (c *Client) discover(ctx context.Context) error {
	form := url.Values{}
	form.Set("api", apiInfo)
	form.Set("version", "1")
	form.Set("method", "query")
	form.Set("query", "all")
	form.Set(sidField, c.sid)

	env, err := c.getForm(ctx, apiInfo, queryPath, form)
	if err != nil {
		return err
	}
	if !env.Success {
		return naserrors.FromCode(apiInfo, env.errorCode())
	}
	var found map[string]discoveredEndpoint
	if err := env.DecodeData(&found); err != nil {
		return naserrors.Decode(apiInfo, err)
	}
	endpoints := make(map[string]registry.Endpoint, len(found))
	for name, ep := range found {
		endpoints[name] = registry.Endpoint{
			Path:       ep.Path,
			MinVersion: ep.MinVersion,
			MaxVersion: ep.MaxVersion,
		}
	}
	c.reg.Load(endpoints)
	return nil
}
