package models

import "time"

// OddsEvent is one game as returned by the odds provider, with team names already
// mapped to internal codes.
type OddsEvent struct {
	ID           string      `json:"id"`
	CommenceTime time.Time   `json:"commence_time"`
	HomeTeam     string      `json:"home_team"`
	AwayTeam     string      `json:"away_team"`
	HomeName     string      `json:"home_name"`
	AwayName     string      `json:"away_name"`
	Bookmakers   []Bookmaker `json:"bookmakers"`
}

// Bookmaker is one sportsbook's quoted markets for an event.
type Bookmaker struct {
	Key     string   `json:"key"`
	Title   string   `json:"title"`
	Markets []Market `json:"markets"`
}

// Market is a single market (totals or spreads) quoted by a bookmaker.
type Market struct {
	Key      string    `json:"key"`
	Outcomes []Outcome `json:"outcomes"`
}

// Outcome is one side of a market. Point is the spread or the total line.
type Outcome struct {
	Name  string   `json:"name"`
	Price float64  `json:"price"`
	Point *float64 `json:"point,omitempty"`
}

const (
	MarketTotals  = "totals"
	MarketSpreads = "spreads"
)

// MarketLine is the line chosen for one game and the implied scoring derived from it.
type MarketLine struct {
	EventID        string  `json:"event_id"`
	Bookmaker      string  `json:"bookmaker"`
	HomeTeam       string  `json:"home_team"`
	AwayTeam       string  `json:"away_team"`
	Total          float64 `json:"game_total"`
	HomeSpread     float64 `json:"home_spread"`
	AwaySpread     float64 `json:"away_spread"`
	HomeImpliedPts float64 `json:"home_implied_points"`
	AwayImpliedPts float64 `json:"away_implied_points"`
	HomeImpliedTDs float64 `json:"home_implied_tds"`
	AwayImpliedTDs float64 `json:"away_implied_tds"`
}

// TeamProjection is one team's blended touchdown projection for a game.
type TeamProjection struct {
	Team            string   `json:"team"`
	Opponent        string   `json:"opponent"`
	IsHome          bool     `json:"is_home"`
	ImpliedPoints   float64  `json:"implied_points"`
	ImpliedTDs      float64  `json:"implied_tds"`
	AdvantagePct    *float64 `json:"td_advantage_pct"`
	CappedAdvantage float64  `json:"capped_advantage_pct"`
	ProjectedTDs    float64  `json:"projected_tds"`
	Rank            int      `json:"rank,omitempty"`
}

// GameProjection pairs a game's market line with both teams' projections.
type GameProjection struct {
	Week        int               `json:"week"`
	GameDate    time.Time         `json:"game_date"`
	Line        MarketLine        `json:"market_line"`
	Home        TeamProjection    `json:"home"`
	Away        TeamProjection    `json:"away"`
	HomeMatchup *MatchupAdvantage `json:"home_matchup,omitempty"`
	AwayMatchup *MatchupAdvantage `json:"away_matchup,omitempty"`
}

// TotalProjectedTDs is the sum of both teams' projected touchdowns.
func (g GameProjection) TotalProjectedTDs() float64 {
	return g.Home.ProjectedTDs + g.Away.ProjectedTDs
}

// WeeklyAnalysis is the ranked output of a full analysis run.
type WeeklyAnalysis struct {
	Season       int              `json:"season"`
	Week         int              `json:"week"`
	Games        []GameProjection `json:"games"`
	TeamRankings []TeamProjection `json:"team_rankings"`
	Skipped      []string         `json:"skipped,omitempty"`
	Weight       float64          `json:"advantage_weight"`
	CapPct       float64          `json:"advantage_cap_pct"`
	GeneratedAt  time.Time        `json:"generated_at"`
}
