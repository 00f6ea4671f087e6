package tdboost

import (
	"fmt"

	"github.com/stitts-dev/td-boost/internal/models"
)

func intPtr(v int) *int { return &v }

func play(game, off, def string, drive int, yardline float64, td int) models.Play {
	return models.Play{
		GameID:         game,
		PosTeam:        off,
		DefTeam:        def,
		Drive:          intPtr(drive),
		YardlineToGoal: floatPtr(yardline),
		Touchdown:      td,
		Week:           1,
	}
}

// redZoneDrives builds n drives with two red-zone snaps each, the first tds of which
// end in a touchdown.
func redZoneDrives(game, off, def string, n, tds int) []models.Play {
	plays := make([]models.Play, 0, n*2)
	for d := 1; d <= n; d++ {
		td := 0
		if d <= tds {
			td = 1
		}
		g := fmt.Sprintf("%s_%d", game, d)
		plays = append(plays, play(g, off, def, d, 15, 0), play(g, off, def, d, 8, td))
	}
	return plays
}
