package insights

import "time"

// InsightCategory classifies a generated insight. Carried as structured
// metadata so presentation layers can choose their own glyphs; the category
// is never encoded inside the message text.
type InsightCategory string

const (
	CategoryGrowth         InsightCategory = "growth"
	CategoryDecline        InsightCategory = "decline"
	CategoryWarning        InsightCategory = "warning"
	CategoryHighCost       InsightCategory = "high_cost"
	CategoryHighEngagement InsightCategory = "high_engagement"
	CategoryUrgent         InsightCategory = "urgent"
)

// Insight is one generated advisory. Insights are recomputed on every
// invocation and never persisted.
type Insight struct {
	Category InsightCategory `json:"category"`
	Message  string          `json:"message"`
}

// PlatformMetric is a single named KPI snapshot, optionally scoped to an ad
// account or campaign.
type PlatformMetric struct {
	Platform         string  `json:"platform"`
	Metric           string  `json:"metric"`
	Value            float64 `json:"value"`
	PreviousValue    float64 `json:"previous_value"`
	ChangePercentage float64 `json:"change_percentage"`
	AccountID        string  `json:"account_id,omitempty"`
	CampaignID       string  `json:"campaign_id,omitempty"`
}

// KeywordPerformance is a search-keyword report row.
type KeywordPerformance struct {
	Keyword            string    `json:"keyword"`
	Platform           string    `json:"platform"`
	Impressions        int       `json:"impressions"`
	Clicks             int       `json:"clicks"`
	Conversions        int       `json:"conversions"`
	Cost               float64   `json:"cost"`
	CPC                float64   `json:"cpc"`
	LastConversionDate time.Time `json:"last_conversion_date"`
}

// SocialPost is one published post with its engagement counters.
type SocialPost struct {
	Platform         string    `json:"platform"`
	PostID           string    `json:"post_id"`
	Content          string    `json:"content"`
	Engagement       float64   `json:"engagement"`
	Reach            float64   `json:"reach"`
	Date             time.Time `json:"date"`
	PerformanceScore float64   `json:"performance_score,omitempty"`
}

// CommentCategory buckets qualitative lead feedback.
type CommentCategory string

const (
	CommentDistance   CommentCategory = "distance"
	CommentScheduling CommentCategory = "scheduling"
	CommentPricing    CommentCategory = "pricing"
	CommentOther      CommentCategory = "other"
)

// LeadComment is one categorized remark logged against a sales lead.
type LeadComment struct {
	LeadID   string          `json:"lead_id"`
	ClientID string          `json:"client_id"`
	Comment  string          `json:"comment"`
	Date     time.Time       `json:"date"`
	Category CommentCategory `json:"category,omitempty"`
	Resolved bool            `json:"resolved,omitempty"`
}

// Input carries everything one Generate call scans. SelectedClient is "all"
// or a specific account/campaign/client id.
type Input struct {
	PlatformMetrics    []PlatformMetric     `json:"platform_metrics"`
	KeywordPerformance []KeywordPerformance `json:"keyword_performance"`
	RecentPosts        []SocialPost         `json:"recent_posts"`
	LeadComments       []LeadComment        `json:"lead_comments"`
	SelectedClient     string               `json:"selected_client"`
}
