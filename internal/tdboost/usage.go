package tdboost

import (
	"sort"

	"github.com/stitts-dev/td-boost/internal/models"
)

type gameDrive struct {
	gameID string
	drive  int
}

type usageTally struct {
	id         string
	name       string
	touches    int
	touchdowns int
}

func (t *usageTally) observeName(name string) {
	if t.name == "" && name != "" {
		t.name = name
	}
}

// PlayerUsage computes each player's share of a team's red-zone opportunities and of
// its offensive touchdowns. Two-point attempts are ignored throughout. Shares are not
// normalised and need not sum to one.
func PlayerUsage(plays []models.Play, team string, season int) models.TeamUsage {
	teamPlays := make([]models.Play, 0)
	for _, p := range plays {
		if p.PosTeam == team && p.TwoPointAttempt == 0 {
			teamPlays = append(teamPlays, p)
		}
	}

	rzCounts := make(map[gameDrive]int)
	for _, p := range teamPlays {
		if p.Drive != nil && p.InRedZone() {
			rzCounts[gameDrive{p.GameID, *p.Drive}]++
		}
	}

	tallies := make(map[string]*usageTally)
	order := make([]string, 0)
	tally := func(id, name string) *usageTally {
		t, ok := tallies[id]
		if !ok {
			t = &usageTally{id: id}
			tallies[id] = t
			order = append(order, id)
		}
		t.observeName(name)
		return t
	}

	usage := models.TeamUsage{Team: team, Season: season}

	for _, p := range teamPlays {
		if p.Drive != nil && p.InRedZone() && rzCounts[gameDrive{p.GameID, *p.Drive}] >= MinRedZonePlays {
			if p.RushAttempt == 1 || p.PassAttempt == 1 {
				usage.RedZoneOpportunity++
			}
			if p.RushAttempt == 1 && p.RusherID != "" {
				tally(p.RusherID, p.RusherName).touches++
			}
			if p.PassAttempt == 1 && p.ReceiverID != "" {
				tally(p.ReceiverID, p.ReceiverName).touches++
			}
		}

		if p.RushTouchdown == 1 || p.PassTouchdown == 1 {
			usage.TeamTouchdowns++
		}
		if p.RushTouchdown == 1 && p.RusherID != "" {
			tally(p.RusherID, p.RusherName).touchdowns++
		}
		if p.PassTouchdown == 1 && p.ReceiverID != "" {
			tally(p.ReceiverID, p.ReceiverName).touchdowns++
		}
	}

	usage.Players = make([]models.PlayerUsage, 0, len(order))
	for _, id := range order {
		t := tallies[id]
		if t.touches == 0 && t.touchdowns == 0 {
			continue
		}
		usage.Players = append(usage.Players, models.PlayerUsage{
			PlayerID:       t.id,
			PlayerName:     t.name,
			RedZoneTouches: t.touches,
			Touchdowns:     t.touchdowns,
			RedZoneShare:   share(t.touches, usage.RedZoneOpportunity),
			TouchdownShare: share(t.touchdowns, usage.TeamTouchdowns),
		})
	}

	sort.SliceStable(usage.Players, func(i, j int) bool {
		a, b := usage.Players[i], usage.Players[j]
		if a.RedZoneShare != b.RedZoneShare {
			return a.RedZoneShare > b.RedZoneShare
		}
		return a.TouchdownShare > b.TouchdownShare
	})
	return usage
}

func share(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return roundTo(float64(part)/float64(whole), 3)
}
