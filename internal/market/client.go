package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"
)

// Client is a quote API client.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	logger       arbor.ILogger
	limiter      *rate.Limiter
	maxHeadlines int
}

// NewClient creates a new quote API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter:      rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		maxHeadlines: DefaultMaxHeadlines,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// get performs a GET request to the API and decodes the JSON response.
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	if c.logger != nil {
		c.logger.Debug().
			Str("url", c.baseURL+path).
			Msg("Quote API request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// quoteSummaryResponse mirrors the quoteSummary financialData module.
type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			FinancialData struct {
				CurrentPrice struct {
					Raw float64 `json:"raw"`
				} `json:"currentPrice"`
				TargetMeanPrice struct {
					Raw float64 `json:"raw"`
				} `json:"targetMeanPrice"`
				RecommendationKey string `json:"recommendationKey"`
			} `json:"financialData"`
		} `json:"result"`
	} `json:"quoteSummary"`
}

// GetQuote retrieves current price, analyst recommendation, and target
// price for a symbol.
func (c *Client) GetQuote(ctx context.Context, symbol string) (*Quote, error) {
	params := url.Values{}
	params.Set("modules", "financialData")

	var result quoteSummaryResponse
	if err := c.get(ctx, "/v10/finance/quoteSummary/"+url.PathEscape(symbol), params, &result); err != nil {
		return nil, err
	}

	if len(result.QuoteSummary.Result) == 0 {
		return nil, &APIError{
			StatusCode: http.StatusOK,
			Message:    "empty quoteSummary result",
			Endpoint:   "/v10/finance/quoteSummary/" + symbol,
		}
	}

	fd := result.QuoteSummary.Result[0].FinancialData
	quote := &Quote{
		Recommendation: fd.RecommendationKey,
	}
	if fd.CurrentPrice.Raw != 0 {
		quote.CurrentPrice = fd.CurrentPrice.Raw
		quote.HasPrice = true
	}
	if fd.TargetMeanPrice.Raw != 0 {
		quote.TargetPrice = fd.TargetMeanPrice.Raw
		quote.HasTarget = true
	}

	return quote, nil
}

// newsItem is one entry of the search endpoint's news array.
type newsItem struct {
	Title               string `json:"title"`
	ProviderPublishTime int64  `json:"providerPublishTime"`
}

// searchResponse mirrors the news portion of the search endpoint.
type searchResponse struct {
	News []newsItem `json:"news"`
}

// GetHeadlines retrieves up to maxHeadlines recent news headlines for a
// symbol, most recent first.
func (c *Client) GetHeadlines(ctx context.Context, symbol string) ([]string, error) {
	params := url.Values{}
	params.Set("q", symbol)
	params.Set("newsCount", fmt.Sprintf("%d", c.maxHeadlines))
	params.Set("quotesCount", "0")

	var result searchResponse
	if err := c.get(ctx, "/v1/finance/search", params, &result); err != nil {
		return nil, err
	}

	news := result.News
	sort.SliceStable(news, func(i, j int) bool {
		return news[i].ProviderPublishTime > news[j].ProviderPublishTime
	})

	headlines := make([]string, 0, c.maxHeadlines)
	for _, n := range news {
		if n.Title == "" {
			continue
		}
		headlines = append(headlines, n.Title)
		if len(headlines) >= c.maxHeadlines {
			break
		}
	}

	return headlines, nil
}
