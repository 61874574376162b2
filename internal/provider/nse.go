package provider

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"
	"nse-option-sentry/pkg/types"
)

const (
	nseBaseURL       = "https://www.nseindia.com"
	nseUserAgent     = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	chainSnapshotTTL = 30 * time.Second
)

// NSEChainClient fetches the NSE option chain and serves both the
// open-interest and premium views of it. The chain endpoint requires
// session cookies from a warm-up page load, and the exchange throttles
// aggressively, so one parsed snapshot per instrument is memoized for
// a short window and shared by both views.
type NSEChainClient struct {
	httpClient *http.Client
	baseURL    string

	mutex sync.Mutex
	memo  map[string]chainSnapshot
}

type chainSnapshot struct {
	oi        types.OIChain
	premiums  types.PremiumChain
	fetchedAt time.Time
}

func NewNSEChainClient(networkConfig types.NetworkConfig) *NSEChainClient {
	timeout := networkConfig.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: false},
	}
	if networkConfig.Proxy != "" {
		proxyURL, err := url.Parse(networkConfig.Proxy)
		if err == nil {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	// Cookie jar carries the session cookies from the warm-up request
	// into the chain request.
	jar, _ := cookiejar.New(nil)

	return &NSEChainClient{
		httpClient: &http.Client{Timeout: timeout, Transport: transport, Jar: jar},
		baseURL:    nseBaseURL,
		memo:       make(map[string]chainSnapshot),
	}
}

// FetchOIChain implements OIChainProvider.
func (c *NSEChainClient) FetchOIChain(ctx context.Context, instrument types.InstrumentSpec) types.OIChain {
	return c.snapshot(ctx, instrument).oi
}

// FetchPremiumChain implements PremiumChainProvider.
func (c *NSEChainClient) FetchPremiumChain(ctx context.Context, instrument types.InstrumentSpec) types.PremiumChain {
	return c.snapshot(ctx, instrument).premiums
}

func (c *NSEChainClient) snapshot(ctx context.Context, instrument types.InstrumentSpec) chainSnapshot {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if snap, ok := c.memo[instrument.Symbol]; ok && time.Since(snap.fetchedAt) < chainSnapshotTTL {
		return snap
	}

	snap, err := c.fetchChain(ctx, instrument)
	if err != nil {
		zap.L().Warn("option chain fetch failed",
			zap.String("symbol", instrument.Symbol), zap.Error(err))
		return chainSnapshot{}
	}

	c.memo[instrument.Symbol] = snap
	return snap
}

func (c *NSEChainClient) fetchChain(ctx context.Context, instrument types.InstrumentSpec) (chainSnapshot, error) {
	endpoint := "/api/option-chain-indices"
	if instrument.Kind == types.InstrumentStock {
		endpoint = "/api/option-chain-equities"
	}
	apiURL := fmt.Sprintf("%s%s?symbol=%s", c.baseURL, endpoint, url.QueryEscape(instrument.Symbol))

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if attempt > 1 {
			zap.L().Info("retrying chain fetch",
				zap.String("symbol", instrument.Symbol), zap.Int("attempt", attempt))
			time.Sleep(time.Duration(attempt) * time.Second)
		}

		if err := c.warmUp(ctx); err != nil {
			lastErr = err
			continue
		}

		snap, err := c.fetchChainOnce(ctx, apiURL)
		if err != nil {
			lastErr = err
			continue
		}
		return snap, nil
	}
	return chainSnapshot{}, lastErr
}

// warmUp loads the exchange landing page so the jar holds the session
// cookies the chain API checks for.
func (c *NSEChainClient) warmUp(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", nseUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("session warm-up: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *NSEChainClient) fetchChainOnce(ctx context.Context, apiURL string) (chainSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return chainSnapshot{}, err
	}
	req.Header.Set("User-Agent", nseUserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return chainSnapshot{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return chainSnapshot{}, fmt.Errorf("chain API status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return chainSnapshot{}, err
	}

	var apiResp struct {
		Records struct {
			Data []struct {
				StrikePrice float64 `json:"strikePrice"`
				CE          *struct {
					OpenInterest float64 `json:"openInterest"`
					LastPrice    float64 `json:"lastPrice"`
				} `json:"CE"`
				PE *struct {
					OpenInterest float64 `json:"openInterest"`
					LastPrice    float64 `json:"lastPrice"`
				} `json:"PE"`
			} `json:"data"`
		} `json:"records"`
	}
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return chainSnapshot{}, fmt.Errorf("parse chain response: %w", err)
	}
	if len(apiResp.Records.Data) == 0 {
		return chainSnapshot{}, fmt.Errorf("chain response empty")
	}

	oi := make(types.OIChain)
	premiums := make(types.PremiumChain)

	// The chain lists one row per strike and expiry. Open interest
	// keeps the per-strike maximum across expiries; premiums keep the
	// first quoted price, which the exchange orders nearest-expiry
	// first.
	for _, row := range apiResp.Records.Data {
		strike := int(row.StrikePrice)
		if strike <= 0 {
			continue
		}

		entry := oi[strike]
		premium := premiums[strike]

		if row.CE != nil {
			if callOI := int64(row.CE.OpenInterest); callOI > entry.CallOI {
				entry.CallOI = callOI
			}
			if premium.Call == nil && row.CE.LastPrice > 0 {
				price := row.CE.LastPrice
				premium.Call = &price
			}
		}
		if row.PE != nil {
			if putOI := int64(row.PE.OpenInterest); putOI > entry.PutOI {
				entry.PutOI = putOI
			}
			if premium.Put == nil && row.PE.LastPrice > 0 {
				price := row.PE.LastPrice
				premium.Put = &price
			}
		}

		oi[strike] = entry
		premiums[strike] = premium
	}

	return chainSnapshot{oi: oi, premiums: premiums, fetchedAt: time.Now()}, nil
}
