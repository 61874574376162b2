package provider

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"nse-option-sentry/pkg/types"
)

const (
	yahooBaseURL   = "https://query1.finance.yahoo.com"
	yahooUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// YahooBarProvider pulls the trailing 5-day window of 5-minute bars
// from the Yahoo Finance chart API. Any failure is logged and reported
// as an empty series.
type YahooBarProvider struct {
	httpClient *http.Client
	baseURL    string
}

func NewYahooBarProvider(networkConfig types.NetworkConfig) *YahooBarProvider {
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
			zap.L().Info("bar provider using proxy", zap.String("proxy", networkConfig.Proxy))
		} else {
			zap.L().Warn("invalid proxy address", zap.Error(err))
		}
	}

	return &YahooBarProvider{
		httpClient: &http.Client{Timeout: timeout, Transport: transport},
		baseURL:    yahooBaseURL,
	}
}

// FetchBars implements BarSeriesProvider.
func (p *YahooBarProvider) FetchBars(ctx context.Context, instrument types.InstrumentSpec) []types.Bar {
	symbol := instrument.DataSymbol
	if symbol == "" {
		symbol = instrument.Symbol
	}

	apiURL := fmt.Sprintf("%s/v8/finance/chart/%s?range=5d&interval=5m",
		p.baseURL, url.PathEscape(symbol))

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if attempt > 1 {
			zap.L().Info("retrying bar fetch",
				zap.String("symbol", symbol), zap.Int("attempt", attempt))
			time.Sleep(time.Duration(attempt) * time.Second)
		}

		bars, err := p.fetchOnce(ctx, apiURL, instrument.Symbol)
		if err != nil {
			lastErr = err
			continue
		}
		return bars
	}

	zap.L().Warn("bar fetch failed",
		zap.String("symbol", symbol), zap.Error(lastErr))
	return nil
}

func (p *YahooBarProvider) fetchOnce(ctx context.Context, apiURL, symbol string) ([]types.Bar, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", yahooUserAgent)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chart API status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var apiResp struct {
		Chart struct {
			Result []struct {
				Timestamp  []int64 `json:"timestamp"`
				Indicators struct {
					Quote []struct {
						Open   []*float64 `json:"open"`
						High   []*float64 `json:"high"`
						Low    []*float64 `json:"low"`
						Close  []*float64 `json:"close"`
						Volume []*float64 `json:"volume"`
					} `json:"quote"`
				} `json:"indicators"`
			} `json:"result"`
			Error *struct {
				Code        string `json:"code"`
				Description string `json:"description"`
			} `json:"error"`
		} `json:"chart"`
	}
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("parse chart response: %w", err)
	}
	if apiResp.Chart.Error != nil {
		return nil, fmt.Errorf("chart API error: %s", apiResp.Chart.Error.Code)
	}
	if len(apiResp.Chart.Result) == 0 || len(apiResp.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("chart response empty for %s", symbol)
	}

	result := apiResp.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	bars := make([]types.Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		open := at(quote.Open, i)
		high := at(quote.High, i)
		low := at(quote.Low, i)
		closePx := at(quote.Close, i)
		volume := at(quote.Volume, i)

		// Yahoo pads in-progress and halted intervals with nulls.
		if math.IsNaN(open) || math.IsNaN(high) || math.IsNaN(low) || math.IsNaN(closePx) || math.IsNaN(volume) {
			continue
		}

		bars = append(bars, types.Bar{
			Symbol:    symbol,
			Timestamp: time.Unix(ts, 0),
			Open:      open,
			High:      high,
			Low:       low,
			Close:     closePx,
			Volume:    volume,
		})
	}
	return bars, nil
}

func at(values []*float64, i int) float64 {
	if i >= len(values) || values[i] == nil {
		return math.NaN()
	}
	return *values[i]
}
