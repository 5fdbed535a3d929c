// Package smartapi provides the Angel One SmartAPI transport client and
// session management.
package smartapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	apperrors "github.com/LegitScarf/OptiTrade-Dockerized/internal/errors"
	"github.com/LegitScarf/OptiTrade-Dockerized/internal/logging"
	"github.com/LegitScarf/OptiTrade-Dockerized/internal/models"
	"github.com/LegitScarf/OptiTrade-Dockerized/pkg/utils"
)

const (
	defaultBaseURL = "https://apiconnect.angelbroking.com"

	loginPath  = "/rest/auth/angelbroking/user/v1/loginByPassword"
	ltpPath    = "/rest/secure/angelbroking/order/v1/getLtpData"
	quotePath  = "/rest/secure/angelbroking/market/v1/quote/"
	candlePath = "/rest/secure/angelbroking/historical/v1/getCandleData"

	// Scrip master is served from a public CDN, no session required.
	scripMasterURL = "https://margincalculator.angelbroking.com/OpenAPI_File/files/OpenAPIScripMaster.json"

	candleTimeLayout = "2006-01-02 15:04"
)

// Client is a thin HTTP client for the SmartAPI endpoints the core needs.
type Client struct {
	baseURL   string
	masterURL string
	apiKey    string
	httpc     *http.Client
	retry     utils.RetryConfig
	logger    zerolog.Logger
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API base URL (used by tests).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = u }
}

// WithMasterURL overrides the scrip master URL (used by tests).
func WithMasterURL(u string) ClientOption {
	return func(c *Client) { c.masterURL = u }
}

// WithHTTPClient overrides the underlying http.Client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.httpc = h }
}

// NewClient creates a new SmartAPI client.
func NewClient(apiKey string, logger zerolog.Logger, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:   defaultBaseURL,
		masterURL: scripMasterURL,
		apiKey:    apiKey,
		httpc:     &http.Client{Timeout: 30 * time.Second},
		retry:     utils.DefaultRetryConfig(),
		logger:    logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoginResult carries the token triplet returned by a successful login.
type LoginResult struct {
	JWTToken     string `json:"jwtToken"`
	RefreshToken string `json:"refreshToken"`
	FeedToken    string `json:"feedToken"`
}

// Login performs the credential + one-time-code exchange.
func (c *Client) Login(ctx context.Context, clientID, mpin, totpCode string) (*LoginResult, error) {
	payload := map[string]string{
		"clientcode": clientID,
		"password":   mpin,
		"totp":       totpCode,
	}

	env, err := c.post(ctx, loginPath, "", payload)
	if err != nil {
		return nil, err
	}
	if !env.OK {
		return nil, apperrors.NewAuthError("login", env.Reason, nil)
	}

	var result LoginResult
	if err := json.Unmarshal(env.Data, &result); err != nil {
		return nil, apperrors.NewAuthError("response", "malformed login payload", err)
	}
	if result.JWTToken == "" {
		return nil, apperrors.NewAuthError("response", "login payload missing token", nil)
	}
	return &result, nil
}

// LTP fetches the last traded price for a single instrument.
func (c *Client) LTP(ctx context.Context, session models.Session, exchange, symbol, token string) (float64, error) {
	payload := map[string]string{
		"exchange":      exchange,
		"tradingsymbol": symbol,
		"symboltoken":   token,
	}

	env, err := c.post(ctx, ltpPath, session.Handle, payload)
	if err != nil {
		return 0, err
	}
	if !env.OK {
		return 0, apperrors.NewDataError("ltp", symbol, env.Reason, nil)
	}

	var data struct {
		LTP float64 `json:"ltp"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return 0, apperrors.NewTransportError(ltpPath, string(env.Data), err)
	}
	return data.LTP, nil
}

// quoteItem is one entry of a batch quote response.
type quoteItem struct {
	Exchange    string  `json:"exchange"`
	SymbolToken string  `json:"symbolToken"`
	LTP         float64 `json:"ltp"`
	Open        float64 `json:"open"`
	High        float64 `json:"high"`
	Low         float64 `json:"low"`
	Close       float64 `json:"close"`
	Volume      int64   `json:"tradeVolume"`
}

// BatchLTP fetches last prices for all tokens on one exchange in a single
// call. Per-instrument polling would trip the API rate limit.
func (c *Client) BatchLTP(ctx context.Context, session models.Session, exchange string, tokens []string) (map[string]float64, error) {
	payload := map[string]interface{}{
		"mode":           "LTP",
		"exchangeTokens": map[string][]string{exchange: tokens},
	}

	env, err := c.post(ctx, quotePath, session.Handle, payload)
	if err != nil {
		return nil, err
	}
	if !env.OK {
		return nil, apperrors.NewDataError("batch_ltp", exchange, env.Reason, nil)
	}

	var data struct {
		Fetched []quoteItem `json:"fetched"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, apperrors.NewTransportError(quotePath, string(env.Data), err)
	}

	prices := make(map[string]float64, len(data.Fetched))
	for _, item := range data.Fetched {
		prices[item.SymbolToken] = item.LTP
	}
	return prices, nil
}

// Quote fetches a full OHLC quote for one instrument.
func (c *Client) Quote(ctx context.Context, session models.Session, exchange, token string) (*models.Quote, error) {
	payload := map[string]interface{}{
		"mode":           "FULL",
		"exchangeTokens": map[string][]string{exchange: {token}},
	}

	env, err := c.post(ctx, quotePath, session.Handle, payload)
	if err != nil {
		return nil, err
	}
	if !env.OK {
		return nil, apperrors.NewDataError("quote", token, env.Reason, nil)
	}

	var data struct {
		Fetched []quoteItem `json:"fetched"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, apperrors.NewTransportError(quotePath, string(env.Data), err)
	}
	if len(data.Fetched) == 0 {
		return nil, apperrors.NewDataError("quote", token, "no quote returned", nil)
	}

	q := data.Fetched[0]
	return &models.Quote{
		Symbol:    q.SymbolToken,
		LTP:       q.LTP,
		Open:      q.Open,
		High:      q.High,
		Low:       q.Low,
		Close:     q.Close,
		Volume:    q.Volume,
		Timestamp: time.Now(),
	}, nil
}

// Candles fetches historical OHLC bars. The API returns each candle as a
// positional array [timestamp, open, high, low, close, volume].
func (c *Client) Candles(ctx context.Context, session models.Session, exchange, token, interval string, from, to time.Time) ([]models.Candle, error) {
	payload := map[string]string{
		"exchange":    exchange,
		"symboltoken": token,
		"interval":    interval,
		"fromdate":    from.Format(candleTimeLayout),
		"todate":      to.Format(candleTimeLayout),
	}

	env, err := c.post(ctx, candlePath, session.Handle, payload)
	if err != nil {
		return nil, err
	}
	if !env.OK {
		return nil, apperrors.NewDataError("candles", token, env.Reason, nil)
	}

	var rows [][]interface{}
	if err := json.Unmarshal(env.Data, &rows); err != nil {
		return nil, apperrors.NewTransportError(candlePath, string(env.Data), err)
	}

	candles := make([]models.Candle, 0, len(rows))
	for _, row := range rows {
		if len(row) < 6 {
			continue
		}
		candle, err := parseCandleRow(row)
		if err != nil {
			continue
		}
		candles = append(candles, candle)
	}
	return candles, nil
}

func parseCandleRow(row []interface{}) (models.Candle, error) {
	ts, ok := row[0].(string)
	if !ok {
		return models.Candle{}, fmt.Errorf("candle timestamp is not a string")
	}
	parsed, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return models.Candle{}, fmt.Errorf("parsing candle timestamp: %w", err)
	}

	vals := make([]float64, 5)
	for i := 1; i < 6; i++ {
		f, err := toFloat(row[i])
		if err != nil {
			return models.Candle{}, err
		}
		vals[i-1] = f
	}

	return models.Candle{
		Timestamp: parsed,
		Open:      vals[0],
		High:      vals[1],
		Low:       vals[2],
		Close:     vals[3],
		Volume:    int64(vals[4]),
	}, nil
}

func toFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case string:
		return strconv.ParseFloat(n, 64)
	default:
		return 0, fmt.Errorf("unexpected candle value type %T", v)
	}
}

// ScripRecord is one raw entry of the bulk scrip master as served by the
// CDN. Strike arrives minor-unit-scaled, expiry as "05FEB2026".
type ScripRecord struct {
	Token     string `json:"token"`
	Symbol    string `json:"symbol"`
	Name      string `json:"name"`
	Expiry    string `json:"expiry"`
	Strike    string `json:"strike"`
	LotSize   string `json:"lotsize"`
	InstrType string `json:"instrumenttype"`
	ExchSeg   string `json:"exch_seg"`
}

// ScripMaster downloads the full instrument master.
func (c *Client) ScripMaster(ctx context.Context) ([]ScripRecord, error) {
	start := time.Now()

	body, err := utils.RetryWithResult(ctx, c.retry, func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.masterURL, nil)
		if err != nil {
			return nil, err
		}
		resp, err := c.httpc.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("scrip master: HTTP %d", resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	})
	logging.LogAPICall(c.logger, http.MethodGet, c.masterURL, time.Since(start), err)
	if err != nil {
		return nil, apperrors.NewTransportError(c.masterURL, "", err)
	}

	var records []ScripRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, apperrors.NewTransportError(c.masterURL, string(body[:minInt(len(body), 200)]), err)
	}
	return records, nil
}

// post sends a JSON request and normalizes the response envelope.
func (c *Client) post(ctx context.Context, path, accessToken string, payload interface{}) (Envelope, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("encoding request: %w", err)
	}

	start := time.Now()
	respBody, err := utils.RetryWithResult(ctx, c.retry, func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		c.setHeaders(req, accessToken)

		resp, err := c.httpc.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		return io.ReadAll(resp.Body)
	})
	logging.LogAPICall(c.logger, http.MethodPost, path, time.Since(start), err)
	if err != nil {
		return Envelope{}, apperrors.NewTransportError(path, "", err)
	}

	return Normalize(path, respBody)
}

func (c *Client) setHeaders(req *http.Request, accessToken string) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-UserType", "USER")
	req.Header.Set("X-SourceID", "WEB")
	req.Header.Set("X-ClientLocalIP", "127.0.0.1")
	req.Header.Set("X-ClientPublicIP", "127.0.0.1")
	req.Header.Set("X-MACAddress", "00:00:00:00:00:00")
	req.Header.Set("X-PrivateKey", c.apiKey)
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
