package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"warroom/internal/models"
)

// ProfileClient fills in the company fields the quote feed does not carry:
// sector and a one-line summary.
type ProfileClient struct {
	client *resty.Client
	apiKey string
}

func NewProfileClient(apiKey string) *ProfileClient {
	client := resty.New()
	client.SetBaseURL("https://finnhub.io/api/v1")
	client.SetTimeout(15 * time.Second)

	return &ProfileClient{
		client: client,
		apiKey: apiKey,
	}
}

type companyProfile struct {
	Name            string  `json:"name"`
	Exchange        string  `json:"exchange"`
	FinnhubIndustry string  `json:"finnhubIndustry"`
	MarketCapM      float64 `json:"marketCapitalization"`
	IPO             string  `json:"ipo"`
	WebURL          string  `json:"weburl"`
}

// Enrich looks up the company profile for the snapshot's symbol and fills
// the blank fields in place.
func (c *ProfileClient) Enrich(ctx context.Context, s *models.QuoteSnapshot) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"symbol": s.Symbol,
			"token":  c.apiKey,
		}).
		Get("/stock/profile2")
	if err != nil {
		return fmt.Errorf("fetch company profile for %s: %w", s.Symbol, err)
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("profile API error %d for %s", resp.StatusCode(), s.Symbol)
	}

	var profile companyProfile
	if err := json.Unmarshal(resp.Body(), &profile); err != nil {
		return fmt.Errorf("parse profile response for %s: %w", s.Symbol, err)
	}

	s.Sector = profile.FinnhubIndustry
	if s.Name == "" {
		s.Name = profile.Name
	}
	if s.MarketCap == 0 && profile.MarketCapM > 0 {
		// Finnhub reports market cap in millions.
		s.MarketCap = int64(profile.MarketCapM * 1e6)
	}

	var parts []string
	if profile.Name != "" {
		parts = append(parts, profile.Name)
	}
	if profile.FinnhubIndustry != "" {
		parts = append(parts, profile.FinnhubIndustry)
	}
	if profile.Exchange != "" {
		parts = append(parts, "listed on "+profile.Exchange)
	}
	s.Summary = strings.Join(parts, ", ")

	return nil
}
