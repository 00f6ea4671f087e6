package handlers

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/stitts-dev/td-boost/internal/providers"
	"github.com/stitts-dev/td-boost/internal/tdboost"
	"github.com/stitts-dev/td-boost/pkg/utils"
)

const maxWeek = 22

// parseWeek reads an optional week. Empty means the current week (0).
func parseWeek(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	week, err := strconv.Atoi(raw)
	if err != nil || week < 1 || week > maxWeek {
		return 0, fmt.Errorf("week must be between 1 and %d, got %q: %w", maxWeek, raw, utils.ErrInvalidInput)
	}
	return week, nil
}

func parseTeam(raw string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("team is required: %w", utils.ErrInvalidInput)
	}
	team, ok := providers.NormalizeTeam(raw)
	if !ok {
		return "", fmt.Errorf("unknown team %q: %w", raw, utils.ErrInvalidInput)
	}
	return team, nil
}

// parseBlend reads the optional weight and cap query parameters. It returns nil when
// neither is given so the configured defaults apply.
func parseBlend(c *gin.Context, defaults tdboost.BlendOptions) (*tdboost.BlendOptions, error) {
	rawWeight, hasWeight := c.GetQuery("weight")
	rawCap, hasCap := c.GetQuery("cap")
	if !hasWeight && !hasCap {
		return nil, nil
	}

	opts := defaults
	if hasWeight {
		w, err := strconv.ParseFloat(rawWeight, 64)
		if err != nil || w < 0 || w > 1 {
			return nil, fmt.Errorf("weight must be between 0 and 1, got %q: %w", rawWeight, utils.ErrInvalidInput)
		}
		opts.Weight = w
	}
	if hasCap {
		cp, err := strconv.ParseFloat(rawCap, 64)
		if err != nil || cp < 0 || cp > 100 {
			return nil, fmt.Errorf("cap must be between 0 and 100, got %q: %w", rawCap, utils.ErrInvalidInput)
		}
		opts.CapPct = cp
	}
	return &opts, nil
}
