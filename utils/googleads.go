package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"agencydesk/config"
	"agencydesk/insights"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleAdsBaseURL = "https://googleads.googleapis.com"

// 90 days of keyword history, segmented by day so the last conversion date
// can be recovered from the report itself.
const keywordQuery = `
SELECT
  ad_group_criterion.keyword.text,
  segments.date,
  metrics.impressions,
  metrics.clicks,
  metrics.conversions,
  metrics.cost_micros
FROM keyword_view
WHERE segments.date DURING LAST_90_DAYS`

// GoogleAdsCredentials is everything one proxy call needs; nothing is read
// from ambient state so stored and ad-hoc credentials go through the same path.
type GoogleAdsCredentials struct {
	CustomerID     string `json:"customer_id" validate:"required"`
	ClientID       string `json:"client_id" validate:"required"`
	ClientSecret   string `json:"client_secret" validate:"required"`
	DeveloperToken string `json:"developer_token" validate:"required"`
	RefreshToken   string `json:"refresh_token" validate:"required"`
}

// GoogleAdsClient proxies the Google Ads REST searchStream endpoint.
type GoogleAdsClient struct {
	BaseURL string
	Version string
}

func NewGoogleAdsClient() *GoogleAdsClient {
	return &GoogleAdsClient{
		BaseURL: googleAdsBaseURL,
		Version: config.AppConfig.GoogleAdsAPIVersion,
	}
}

type googleAdsRow struct {
	AdGroupCriterion struct {
		Keyword struct {
			Text string `json:"text"`
		} `json:"keyword"`
	} `json:"adGroupCriterion"`
	Segments struct {
		Date string `json:"date"`
	} `json:"segments"`
	Metrics struct {
		Impressions string  `json:"impressions"`
		Clicks      string  `json:"clicks"`
		Conversions float64 `json:"conversions"`
		CostMicros  string  `json:"costMicros"`
	} `json:"metrics"`
}

type googleAdsBatch struct {
	Results []googleAdsRow `json:"results"`
	Error   *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// FetchKeywordPerformance exchanges the refresh token for an access token,
// streams the keyword report and folds the per-day rows into one
// KeywordPerformance entry per keyword.
func (gc *GoogleAdsClient) FetchKeywordPerformance(ctx context.Context, creds GoogleAdsCredentials) ([]insights.KeywordPerformance, error) {
	conf := &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Endpoint:     google.Endpoint,
	}
	httpClient := oauth2.NewClient(ctx, conf.TokenSource(ctx, &oauth2.Token{RefreshToken: creds.RefreshToken}))
	httpClient.Timeout = 60 * time.Second

	body, err := json.Marshal(map[string]string{"query": keywordQuery})
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/%s/customers/%s/googleAds:searchStream", gc.BaseURL, gc.Version, creds.CustomerID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build google ads request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("developer-token", creds.DeveloperToken)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google ads request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read google ads response: %w", err)
	}

	var batches []googleAdsBatch
	if err := json.Unmarshal(raw, &batches); err != nil {
		return nil, fmt.Errorf("failed to decode google ads response (status %d): %w", resp.StatusCode, err)
	}

	return foldKeywordRows(batches)
}

func foldKeywordRows(batches []googleAdsBatch) ([]insights.KeywordPerformance, error) {
	byKeyword := map[string]*insights.KeywordPerformance{}
	var order []string

	for _, batch := range batches {
		if batch.Error != nil {
			return nil, fmt.Errorf("google ads error %s: %s", batch.Error.Status, batch.Error.Message)
		}
		for _, row := range batch.Results {
			text := row.AdGroupCriterion.Keyword.Text
			if text == "" {
				continue
			}
			kp, ok := byKeyword[text]
			if !ok {
				kp = &insights.KeywordPerformance{Keyword: text, Platform: "Google Ads"}
				byKeyword[text] = kp
				order = append(order, text)
			}

			kp.Impressions += int(parseMetricInt(row.Metrics.Impressions))
			kp.Clicks += int(parseMetricInt(row.Metrics.Clicks))
			kp.Conversions += int(row.Metrics.Conversions)
			kp.Cost += float64(parseMetricInt(row.Metrics.CostMicros)) / 1e6

			if row.Metrics.Conversions > 0 {
				if day, err := time.Parse("2006-01-02", row.Segments.Date); err == nil && day.After(kp.LastConversionDate) {
					kp.LastConversionDate = day
				}
			}
		}
	}

	out := make([]insights.KeywordPerformance, 0, len(order))
	for _, text := range order {
		kp := byKeyword[text]
		if kp.Clicks > 0 {
			kp.CPC = kp.Cost / float64(kp.Clicks)
		}
		out = append(out, *kp)
	}
	return out, nil
}

// Google Ads integer metrics arrive as decimal strings.
func parseMetricInt(s string) int64 {
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}
