package providers

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stitts-dev/td-boost/internal/models"
	"github.com/stitts-dev/td-boost/pkg/utils"
)

// NflverseClient downloads play-by-play and schedule CSVs from nflverse releases.
type NflverseClient struct {
	httpClient     *http.Client
	pbpURLTemplate string
	scheduleURL    string
	logger         *logrus.Logger
}

// NewNflverseClient creates a new nflverse client. pbpURLTemplate takes the season as its only verb.
func NewNflverseClient(pbpURLTemplate, scheduleURL string, timeout time.Duration, logger *logrus.Logger) *NflverseClient {
	return &NflverseClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		pbpURLTemplate: pbpURLTemplate,
		scheduleURL:    scheduleURL,
		logger:         logger,
	}
}

// FetchPlays downloads the play-by-play table for a season. A season that has not
// been published yet yields an empty table rather than an error.
func (c *NflverseClient) FetchPlays(ctx context.Context, season int) ([]models.Play, error) {
	url := fmt.Sprintf(c.pbpURLTemplate, season)
	start := time.Now()

	body, found, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	if !found {
		c.logger.WithFields(logrus.Fields{
			"component": "nflverse",
			"season":    season,
			"url":       url,
		}).Warn("Play-by-play not published for season, using empty table")
		return []models.Play{}, nil
	}
	defer body.Close()

	plays, err := ParsePlays(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse play-by-play %d: %w", season, err)
	}

	c.logger.WithFields(logrus.Fields{
		"component":   "nflverse",
		"season":      season,
		"plays":       len(plays),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("Downloaded play-by-play")

	return plays, nil
}

// FetchSchedule downloads the schedule and keeps the games of one season.
func (c *NflverseClient) FetchSchedule(ctx context.Context, season int) ([]models.ScheduledGame, error) {
	start := time.Now()

	body, found, err := c.get(ctx, c.scheduleURL)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("schedule not found at %s: %w", c.scheduleURL, utils.ErrUpstreamUnavailable)
	}
	defer body.Close()

	games, err := ParseSchedule(body, season)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schedule: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"component":   "nflverse",
		"season":      season,
		"games":       len(games),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("Downloaded schedule")

	return games, nil
}

// get returns the response body, transparently gunzipped. found is false on a 404.
func (c *NflverseClient) get(ctx context.Context, url string) (io.ReadCloser, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "td-boost/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("failed to fetch %s: %v: %w", url, err, utils.ErrUpstreamUnavailable)
	}

	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, false, nil
	}
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, false, fmt.Errorf("%s returned %s (%s): %w", url, resp.Status, strings.TrimSpace(string(b)), utils.ErrUpstreamUnavailable)
	}

	body, err := maybeGunzip(resp.Body)
	if err != nil {
		resp.Body.Close()
		return nil, false, err
	}
	return body, true, nil
}

type gzipBody struct {
	*gzip.Reader
	raw io.Closer
}

func (g gzipBody) Close() error {
	g.Reader.Close()
	return g.raw.Close()
}

type bufferedBody struct {
	*bufio.Reader
	raw io.Closer
}

func (b bufferedBody) Close() error { return b.raw.Close() }

// maybeGunzip sniffs the gzip magic bytes so .csv and .csv.gz releases both work.
func maybeGunzip(rc io.ReadCloser) (io.ReadCloser, error) {
	br := bufio.NewReader(rc)
	magic, err := br.Peek(2)
	if err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		return gzipBody{Reader: zr, raw: rc}, nil
	}
	return bufferedBody{Reader: br, raw: rc}, nil
}

// csvTable reads a CSV with a header row and resolves columns by name.
type csvTable struct {
	reader *csv.Reader
	index  map[string]int
}

func newCSVTable(r io.Reader) (*csvTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return &csvTable{reader: reader, index: index}, nil
}

func (t *csvTable) require(columns ...string) error {
	var missing []string
	for _, col := range columns {
		if _, ok := t.index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("required columns missing: %s", strings.Join(missing, ", "))
	}
	return nil
}

// field returns the trimmed value of a column, or "" when the column is absent.
func (t *csvTable) field(rec []string, col string) string {
	i, ok := t.index[col]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

var playColumns = []string{"game_id", "posteam", "defteam", "drive", "yardline_100", "touchdown", "week"}

// ParsePlays reads a play-by-play CSV. Usage columns are optional.
func ParsePlays(r io.Reader) ([]models.Play, error) {
	t, err := newCSVTable(r)
	if err != nil {
		return nil, err
	}
	if err := t.require(playColumns...); err != nil {
		return nil, err
	}

	plays := make([]models.Play, 0, 50000)
	for {
		rec, err := t.reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		p := models.Play{
			GameID:          parseText(t.field(rec, "game_id")),
			PosTeam:         parseText(t.field(rec, "posteam")),
			DefTeam:         parseText(t.field(rec, "defteam")),
			YardlineToGoal:  parseOptionalFloat(t.field(rec, "yardline_100")),
			Touchdown:       parseFlag(t.field(rec, "touchdown")),
			Week:            parseInt(t.field(rec, "week")),
			RushAttempt:     parseFlag(t.field(rec, "rush_attempt")),
			PassAttempt:     parseFlag(t.field(rec, "pass_attempt")),
			RusherID:        parseText(t.field(rec, "rusher_player_id")),
			RusherName:      parseText(t.field(rec, "rusher_player_name")),
			ReceiverID:      parseText(t.field(rec, "receiver_player_id")),
			ReceiverName:    parseText(t.field(rec, "receiver_player_name")),
			TwoPointAttempt: parseFlag(t.field(rec, "two_point_attempt")),
			RushTouchdown:   parseFlag(t.field(rec, "rush_touchdown")),
			PassTouchdown:   parseFlag(t.field(rec, "pass_touchdown")),
		}
		if d := parseOptionalFloat(t.field(rec, "drive")); d != nil {
			drive := int(*d)
			p.Drive = &drive
		}
		plays = append(plays, p)
	}
	return plays, nil
}

// ParseSchedule reads the nflverse games CSV and keeps rows for season.
func ParseSchedule(r io.Reader, season int) ([]models.ScheduledGame, error) {
	t, err := newCSVTable(r)
	if err != nil {
		return nil, err
	}
	if err := t.require("season", "week", "gameday", "away_team", "home_team"); err != nil {
		return nil, err
	}

	games := make([]models.ScheduledGame, 0, 300)
	for {
		rec, err := t.reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if parseInt(t.field(rec, "season")) != season {
			continue
		}

		g := models.ScheduledGame{
			GameID:   t.field(rec, "game_id"),
			Season:   season,
			GameType: t.field(rec, "game_type"),
			Week:     parseInt(t.field(rec, "week")),
			AwayTeam: t.field(rec, "away_team"),
			HomeTeam: t.field(rec, "home_team"),
		}
		if day, err := time.Parse("2006-01-02", t.field(rec, "gameday")); err == nil {
			g.GameDate = day
		}
		games = append(games, g)
	}
	return games, nil
}

func isMissing(s string) bool {
	return s == "" || s == "NA"
}

func parseText(s string) string {
	if isMissing(s) {
		return ""
	}
	return s
}

func parseOptionalFloat(s string) *float64 {
	if isMissing(s) {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// parseFlag reads 0/1 columns that nflverse sometimes writes as 1.0.
func parseFlag(s string) int {
	if v := parseOptionalFloat(s); v != nil && *v > 0 {
		return 1
	}
	return 0
}

func parseInt(s string) int {
	if v := parseOptionalFloat(s); v != nil {
		return int(*v)
	}
	return 0
}
