package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"agencydesk/config"
	"agencydesk/metrics"
)

const facebookGraphURL = "https://graph.facebook.com"

// insight fields requested per campaign
const facebookInsightFields = "spend,clicks,impressions,frequency,actions"

// FacebookClient proxies the Graph API campaign-insights endpoint. The
// aggregation core never sees this client; it only receives the resulting
// campaign array.
type FacebookClient struct {
	BaseURL    string
	Version    string
	HTTPClient *http.Client
}

func NewFacebookClient() *FacebookClient {
	return &FacebookClient{
		BaseURL: facebookGraphURL,
		Version: config.AppConfig.FacebookAPIVersion,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GraphError is the error envelope the Graph API returns.
type GraphError struct {
	Message   string `json:"message"`
	Type      string `json:"type"`
	Code      int    `json:"code"`
	FBTraceID string `json:"fbtrace_id"`
}

func (e *GraphError) Error() string {
	return fmt.Sprintf("facebook graph error %d (%s): %s", e.Code, e.Type, e.Message)
}

type facebookCampaignPage struct {
	Data   []metrics.Campaign `json:"data"`
	Paging struct {
		Next string `json:"next"`
	} `json:"paging"`
	Error *GraphError `json:"error"`
}

// insightsFieldsParam builds the nested fields expression for a campaign
// query. time_increment(1) is required: without it the Graph API collapses
// the whole time_range into one row, and per-day rows are what lets callers
// split one fetch into current and previous comparison windows.
func insightsFieldsParam(since, until string) string {
	return fmt.Sprintf("name,status,objective,insights.time_range({'since':'%s','until':'%s'}).time_increment(1){%s}",
		since, until, facebookInsightFields)
}

// FetchCampaignInsights pulls all campaigns of an ad account with their
// per-day insight rows for [since, until] ("2006-01-02" strings), following
// paging links until exhausted.
func (fc *FacebookClient) FetchCampaignInsights(ctx context.Context, adAccountID, accessToken, since, until string) ([]metrics.Campaign, error) {
	fields := insightsFieldsParam(since, until)

	q := url.Values{}
	q.Set("fields", fields)
	q.Set("access_token", accessToken)
	q.Set("limit", "100")

	next := fmt.Sprintf("%s/%s/act_%s/campaigns?%s", fc.BaseURL, fc.Version, adAccountID, q.Encode())

	var campaigns []metrics.Campaign
	for next != "" {
		page, err := fc.fetchPage(ctx, next)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, page.Data...)
		next = page.Paging.Next
	}
	return campaigns, nil
}

func (fc *FacebookClient) fetchPage(ctx context.Context, pageURL string) (*facebookCampaignPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build graph request: %w", err)
	}

	resp, err := fc.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("graph request failed: %w", err)
	}
	defer resp.Body.Close()

	var page facebookCampaignPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to decode graph response: %w", err)
	}
	if page.Error != nil {
		return nil, page.Error
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("graph request returned status %d", resp.StatusCode)
	}
	return &page, nil
}
