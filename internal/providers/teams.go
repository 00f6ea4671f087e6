package providers

import "strings"

// teamCodes maps the full franchise names used by sportsbooks to nflverse team codes.
var teamCodes = map[string]string{
	"Arizona Cardinals":     "ARI",
	"Atlanta Falcons":       "ATL",
	"Baltimore Ravens":      "BAL",
	"Buffalo Bills":         "BUF",
	"Carolina Panthers":     "CAR",
	"Chicago Bears":         "CHI",
	"Cincinnati Bengals":    "CIN",
	"Cleveland Browns":      "CLE",
	"Dallas Cowboys":        "DAL",
	"Denver Broncos":        "DEN",
	"Detroit Lions":         "DET",
	"Green Bay Packers":     "GB",
	"Houston Texans":        "HOU",
	"Indianapolis Colts":    "IND",
	"Jacksonville Jaguars":  "JAX",
	"Kansas City Chiefs":    "KC",
	"Las Vegas Raiders":     "LV",
	"Los Angeles Chargers":  "LAC",
	"Los Angeles Rams":      "LA",
	"Miami Dolphins":        "MIA",
	"Minnesota Vikings":     "MIN",
	"New England Patriots":  "NE",
	"New Orleans Saints":    "NO",
	"New York Giants":       "NYG",
	"New York Jets":         "NYJ",
	"Philadelphia Eagles":   "PHI",
	"Pittsburgh Steelers":   "PIT",
	"San Francisco 49ers":   "SF",
	"Seattle Seahawks":      "SEA",
	"Tampa Bay Buccaneers":  "TB",
	"Tennessee Titans":      "TEN",
	"Washington Commanders": "WAS",
}

// Codes other feeds use for the same franchises.
var teamAliases = map[string]string{
	"LAR": "LA",
	"STL": "LA",
	"SD":  "LAC",
	"OAK": "LV",
	"JAC": "JAX",
	"WSH": "WAS",
}

var validCodes = func() map[string]bool {
	codes := make(map[string]bool, len(teamCodes))
	for _, code := range teamCodes {
		codes[code] = true
	}
	return codes
}()

// TeamCode returns the nflverse code for a full franchise name.
func TeamCode(name string) (string, bool) {
	code, ok := teamCodes[strings.TrimSpace(name)]
	return code, ok
}

// NormalizeTeam upper-cases a team code and resolves legacy aliases.
// It reports false when the result is not one of the 32 current codes.
func NormalizeTeam(code string) (string, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if alias, ok := teamAliases[code]; ok {
		code = alias
	}
	return code, validCodes[code]
}
