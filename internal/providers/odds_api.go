package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stitts-dev/td-boost/internal/models"
	"github.com/stitts-dev/td-boost/pkg/utils"
	"golang.org/x/time/rate"
)

const oddsSportKey = "americanfootball_nfl"

var ErrOddsAPIKeyMissing = errors.New("odds api key not configured")

// OddsAPIClient fetches NFL totals and spreads from The Odds API v4.
type OddsAPIClient struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	rateLimiter *rate.Limiter
	logger      *logrus.Logger
}

// NewOddsAPIClient creates a new odds client paced at requestsPerMinute.
func NewOddsAPIClient(baseURL, apiKey string, requestsPerMinute int, timeout time.Duration, logger *logrus.Logger) *OddsAPIClient {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 30
	}
	return &OddsAPIClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		rateLimiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1),
		logger:      logger,
	}
}

// The Odds API response structures
type oddsAPIEvent struct {
	ID           string             `json:"id"`
	SportKey     string             `json:"sport_key"`
	CommenceTime time.Time          `json:"commence_time"`
	HomeTeam     string             `json:"home_team"`
	AwayTeam     string             `json:"away_team"`
	Bookmakers   []oddsAPIBookmaker `json:"bookmakers"`
}

type oddsAPIBookmaker struct {
	Key        string          `json:"key"`
	Title      string          `json:"title"`
	LastUpdate time.Time       `json:"last_update"`
	Markets    []oddsAPIMarket `json:"markets"`
}

type oddsAPIMarket struct {
	Key      string           `json:"key"`
	Outcomes []oddsAPIOutcome `json:"outcomes"`
}

type oddsAPIOutcome struct {
	Name  string   `json:"name"`
	Price float64  `json:"price"`
	Point *float64 `json:"point"`
}

// FetchEvents returns upcoming NFL events with totals and spreads quoted by US books.
// Events whose team names cannot be mapped are dropped.
func (c *OddsAPIClient) FetchEvents(ctx context.Context) ([]models.OddsEvent, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: %w", ErrOddsAPIKeyMissing, utils.ErrUpstreamUnavailable)
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait failed: %w", err)
	}

	params := url.Values{}
	params.Set("regions", "us")
	params.Set("markets", models.MarketTotals+","+models.MarketSpreads)
	params.Set("oddsFormat", "american")
	params.Set("apiKey", c.apiKey)
	endpoint := fmt.Sprintf("%s/v4/sports/%s/odds?%s", c.baseURL, oddsSportKey, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch odds: %v: %w", err, utils.ErrUpstreamUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("odds api returned %s (%s): %w", resp.Status, strings.TrimSpace(string(b)), utils.ErrUpstreamUnavailable)
	}

	var raw []oddsAPIEvent
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode odds response: %w", err)
	}

	events := make([]models.OddsEvent, 0, len(raw))
	for _, e := range raw {
		event, ok := c.convertEvent(e)
		if !ok {
			continue
		}
		events = append(events, event)
	}

	c.logger.WithFields(logrus.Fields{
		"component":          "odds_api",
		"events":             len(events),
		"requests_remaining": resp.Header.Get("x-requests-remaining"),
		"duration_ms":        time.Since(start).Milliseconds(),
	}).Info("Fetched odds")

	return events, nil
}

func (c *OddsAPIClient) convertEvent(e oddsAPIEvent) (models.OddsEvent, bool) {
	home, okHome := TeamCode(e.HomeTeam)
	away, okAway := TeamCode(e.AwayTeam)
	if !okHome || !okAway {
		c.logger.WithFields(logrus.Fields{
			"component": "odds_api",
			"event_id":  e.ID,
			"home_team": e.HomeTeam,
			"away_team": e.AwayTeam,
		}).Warn("Unknown team name in odds event, skipping")
		return models.OddsEvent{}, false
	}

	event := models.OddsEvent{
		ID:           e.ID,
		CommenceTime: e.CommenceTime,
		HomeTeam:     home,
		AwayTeam:     away,
		HomeName:     e.HomeTeam,
		AwayName:     e.AwayTeam,
		Bookmakers:   make([]models.Bookmaker, 0, len(e.Bookmakers)),
	}
	for _, b := range e.Bookmakers {
		book := models.Bookmaker{
			Key:     b.Key,
			Title:   b.Title,
			Markets: make([]models.Market, 0, len(b.Markets)),
		}
		for _, m := range b.Markets {
			market := models.Market{Key: m.Key, Outcomes: make([]models.Outcome, 0, len(m.Outcomes))}
			for _, o := range m.Outcomes {
				market.Outcomes = append(market.Outcomes, models.Outcome{Name: o.Name, Price: o.Price, Point: o.Point})
			}
			book.Markets = append(book.Markets, market)
		}
		event.Bookmakers = append(event.Bookmakers, book)
	}
	return event, true
}
