package deviceconfig

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/mcompass/compass-cfg/internal/logging"
	"github.com/mcompass/compass-cfg/internal/version"
)

const (
	// DefaultPort is the compass web server port
	DefaultPort = 80

	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 10 * time.Second

	// DefaultMaxRetries is the default number of retry attempts for failed
	// reads. Reads are sent once unless a caller opts in with SetRetry.
	DefaultMaxRetries = 0

	// CommandMaxRetries is the retry count one-shot commands opt in to
	CommandMaxRetries = 3

	// DefaultRetryDelay is the default delay before the first retry
	DefaultRetryDelay = 500 * time.Millisecond

	// DefaultMaxRetryDelay is the maximum delay for exponential backoff
	DefaultMaxRetryDelay = 5 * time.Second
)

// Device API paths. The advanced endpoint's spelling matches the firmware.
const (
	PathPointColors = "/pointColors"
	PathBrightness  = "/brightness"
	PathWiFi        = "/wifi"
	PathSetWiFi     = "/setWiFi"
	PathSpawn       = "/spawn"
	PathInfo        = "/info"
	PathAdvanced    = "/adveancedConfig"
)

// Client talks to one compass over its local HTTP API.
//
// Reads (GET) are sent once by default. With SetRetry they are retried with
// exponential backoff when the failure is retryable. Writes (POST) are
// always sent exactly once.
type Client struct {
	// BaseURL is the base URL for the device (e.g., "http://192.168.4.1")
	BaseURL string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	// MaxRetries is the maximum number of retry attempts for failed reads
	MaxRetries int

	// RetryDelay is the initial delay between retry attempts
	RetryDelay time.Duration

	// MaxRetryDelay is the maximum delay for exponential backoff
	MaxRetryDelay time.Duration

	// UseExponentialBackoff doubles the delay after each failed attempt
	UseExponentialBackoff bool
}

// NewClient creates a client for the device at host:port.
func NewClient(host string, port int) *Client {
	return NewClientWithURL(fmt.Sprintf("http://%s", net.JoinHostPort(host, strconv.Itoa(port))))
}

// NewClientWithURL creates a new client with a full base URL
// baseURL: Full base URL (e.g., "http://192.168.4.1:80")
func NewClientWithURL(baseURL string) *Client {
	return &Client{
		BaseURL:               strings.TrimRight(baseURL, "/"),
		HTTPClient:            &http.Client{Timeout: DefaultTimeout},
		MaxRetries:            DefaultMaxRetries,
		RetryDelay:            DefaultRetryDelay,
		MaxRetryDelay:         DefaultMaxRetryDelay,
		UseExponentialBackoff: true,
	}
}

// ParseAddress splits "host[:port]" and applies DefaultPort. A leading
// "http://" is tolerated.
func ParseAddress(addr string) (string, int, error) {
	addr = strings.TrimSpace(addr)
	addr = strings.TrimPrefix(addr, "http://")
	addr = strings.TrimRight(addr, "/")
	if addr == "" {
		return "", 0, NewValidationError("device address cannot be empty")
	}

	host, portText, err := net.SplitHostPort(addr)
	if err != nil {
		// No port given
		return strings.Trim(addr, "[]"), DefaultPort, nil
	}

	port, err := strconv.Atoi(portText)
	if err != nil || port < 1 || port > 65535 {
		return "", 0, NewValidationError(fmt.Sprintf("invalid port '%s'", portText))
	}
	return host, port, nil
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// SetRetry configures retry behavior for reads
func (c *Client) SetRetry(maxRetries int, retryDelay time.Duration) {
	c.MaxRetries = maxRetries
	c.RetryDelay = retryDelay
}

// Host returns the host part of BaseURL.
func (c *Client) Host() string {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return c.BaseURL
	}
	return u.Hostname()
}

func (c *Client) retryPolicy(ctx context.Context) backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = c.RetryDelay
	eb.MaxInterval = c.MaxRetryDelay
	eb.MaxElapsedTime = 0
	eb.RandomizationFactor = 0
	eb.Multiplier = 2
	if !c.UseExponentialBackoff {
		eb.Multiplier = 1
	}

	// WithMaxRetries treats 0 as unlimited
	if c.MaxRetries <= 0 {
		return backoff.WithContext(&backoff.StopBackOff{}, ctx)
	}
	return backoff.WithContext(backoff.WithMaxRetries(eb, uint64(c.MaxRetries)), ctx)
}

// get fetches path and decodes the JSON body into v, retrying retryable failures.
func (c *Client) get(ctx context.Context, path string, v interface{}) error {
	operation := func() error {
		err := c.getAttempt(ctx, path, v)
		if err != nil && !IsRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	return backoff.Retry(operation, c.retryPolicy(ctx))
}

func (c *Client) getAttempt(ctx context.Context, path string, v interface{}) error {
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return decodeResponse(body, v)
}

// post sends the values as the query string of a body-less POST. The
// response body is ignored.
func (c *Client) post(ctx context.Context, path string, query url.Values) error {
	_, err := c.do(ctx, http.MethodPost, path, query)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values) (body []byte, err error) {
	requestID := uuid.NewString()
	start := time.Now()
	status := 0
	defer func() {
		logging.LogDeviceRequest(requestID, method, path, status, time.Since(start), err)
	}()

	target := c.BaseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return nil, NewNetworkError(fmt.Sprintf("failed to create %s request", method), err)
	}
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		devErr := NewNetworkError(fmt.Sprintf("%s %s failed", method, path), err)
		devErr.Host = c.Host()
		return nil, devErr
	}
	defer func() { _ = resp.Body.Close() }()
	status = resp.StatusCode

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewNetworkError("failed to read response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, NewHTTPError(resp.StatusCode, fmt.Sprintf("%s %s returned status %d", method, path, resp.StatusCode))
	}

	return body, nil
}

// Ping performs a single GET /info without retries.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, PathInfo, nil)
	return err
}

// GetPointColors reads both pointer colors. Missing colors default to red.
func (c *Client) GetPointColors(ctx context.Context) (PointColors, error) {
	var resp pointColorsResponse
	if err := c.get(ctx, PathPointColors, &resp); err != nil {
		return PointColors{}, err
	}
	return resp.toPointColors(), nil
}

// GetBrightness reads the LED brightness. Missing or zero values yield DefaultBrightness.
func (c *Client) GetBrightness(ctx context.Context) (int, error) {
	var resp brightnessResponse
	if err := c.get(ctx, PathBrightness, &resp); err != nil {
		return 0, err
	}
	return resp.toBrightness(), nil
}

// SetPointColors writes both pointer colors.
func (c *Client) SetPointColors(ctx context.Context, colors PointColors) error {
	return c.post(ctx, PathPointColors, colors.ToQuery())
}

// SetBrightness writes the LED brightness.
func (c *Client) SetBrightness(ctx context.Context, brightness int) error {
	return c.post(ctx, PathBrightness, BrightnessQuery(brightness))
}

// GetWiFi reads the stored station credentials.
func (c *Client) GetWiFi(ctx context.Context) (WiFiConfig, error) {
	var resp wifiResponse
	if err := c.get(ctx, PathWiFi, &resp); err != nil {
		return WiFiConfig{}, err
	}
	return resp.toWiFiConfig(), nil
}

// SetWiFi writes the station credentials. The compass uses them on its next boot.
func (c *Client) SetWiFi(ctx context.Context, config WiFiConfig) error {
	return c.post(ctx, PathSetWiFi, config.ToQuery())
}

// GetSpawn reads the spawn point. It returns ErrSpawnNotSet when the device
// reports no coordinates.
func (c *Client) GetSpawn(ctx context.Context) (SpawnConfig, error) {
	var resp spawnResponse
	if err := c.get(ctx, PathSpawn, &resp); err != nil {
		return SpawnConfig{}, err
	}
	return resp.toSpawnConfig()
}

// SetSpawn writes the spawn point.
func (c *Client) SetSpawn(ctx context.Context, config SpawnConfig) error {
	return c.post(ctx, PathSpawn, config.ToQuery())
}

// GetInfo reads build and sensor information.
func (c *Client) GetInfo(ctx context.Context) (DeviceInfo, error) {
	var resp infoResponse
	if err := c.get(ctx, PathInfo, &resp); err != nil {
		return DeviceInfo{}, err
	}
	return resp.toDeviceInfo(), nil
}

// GetAdvanced reads the experimental settings.
func (c *Client) GetAdvanced(ctx context.Context) (AdvancedConfig, error) {
	var resp advancedResponse
	if err := c.get(ctx, PathAdvanced, &resp); err != nil {
		return AdvancedConfig{}, err
	}
	return resp.toAdvancedConfig(), nil
}

// SetAdvanced writes the experimental settings.
func (c *Client) SetAdvanced(ctx context.Context, config AdvancedConfig) error {
	return c.post(ctx, PathAdvanced, config.ToQuery())
}

// LoadColorConfig reads the pointer colors and then the brightness.
//
// If the brightness read fails the colors are still returned, with
// DefaultBrightness, alongside the error.
func (c *Client) LoadColorConfig(ctx context.Context) (PointerColorConfig, error) {
	config := DefaultPointerColorConfig()

	colors, err := c.GetPointColors(ctx)
	if err != nil {
		return config, err
	}
	config.SouthColor = colors.SouthColor
	config.SpawnColor = colors.SpawnColor

	brightness, err := c.GetBrightness(ctx)
	if err != nil {
		return config, fmt.Errorf("colors loaded but brightness failed: %w", err)
	}
	config.Brightness = brightness

	return config, nil
}

// ColorApplyResult reports the outcome of each half of a color save.
type ColorApplyResult struct {
	PointColorsErr error
	BrightnessErr  error
}

// Err combines both outcomes; nil only if both writes succeeded.
func (r *ColorApplyResult) Err() error {
	return multierr.Combine(r.PointColorsErr, r.BrightnessErr)
}

// Partial reports whether exactly one of the two writes succeeded.
func (r *ColorApplyResult) Partial() bool {
	return (r.PointColorsErr == nil) != (r.BrightnessErr == nil)
}

// ApplyColorConfig writes colors and brightness with two independent,
// concurrent POSTs. Neither waits on or undoes the other.
func (c *Client) ApplyColorConfig(ctx context.Context, config PointerColorConfig) *ColorApplyResult {
	result := &ColorApplyResult{}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		result.PointColorsErr = c.SetPointColors(ctx, config.Colors())
	}()
	go func() {
		defer wg.Done()
		result.BrightnessErr = c.SetBrightness(ctx, config.Brightness)
	}()
	wg.Wait()

	return result
}
