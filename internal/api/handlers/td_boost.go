package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/stitts-dev/td-boost/pkg/utils"
)

type TDBoostHandler struct {
	analyzer Analyzer
}

func NewTDBoostHandler(analyzer Analyzer) *TDBoostHandler {
	return &TDBoostHandler{
		analyzer: analyzer,
	}
}

// GetWeek returns both-direction matchup advantages for every game of a week
func (h *TDBoostHandler) GetWeek(c *gin.Context) {
	week, err := parseWeek(c.Param("week"))
	if err != nil {
		utils.SendErrorFrom(c, err)
		return
	}

	result, err := h.analyzer.WeekAdvantages(c.Request.Context(), week)
	if err != nil {
		c.Error(err)
		utils.SendErrorFrom(c, err)
		return
	}

	utils.SendSuccessWithMeta(c, result, &utils.Meta{Season: result.Season, Week: result.Week, Total: len(result.Games)})
}

// GetTeam returns the team's current week game from both sides of the ball
func (h *TDBoostHandler) GetTeam(c *gin.Context) {
	team, err := parseTeam(c.Param("team"))
	if err != nil {
		utils.SendErrorFrom(c, err)
		return
	}

	result, err := h.analyzer.TeamAdvantages(c.Request.Context(), team)
	if err != nil {
		c.Error(err)
		utils.SendErrorFrom(c, err)
		return
	}

	utils.SendSuccess(c, result)
}

// GetMatchup computes one offense against defense advantage
func (h *TDBoostHandler) GetMatchup(c *gin.Context) {
	offense, err := parseTeam(c.Query("offense"))
	if err != nil {
		utils.SendErrorFrom(c, fmt.Errorf("offense: %w", err))
		return
	}
	defense, err := parseTeam(c.Query("defense"))
	if err != nil {
		utils.SendErrorFrom(c, fmt.Errorf("defense: %w", err))
		return
	}

	result, err := h.analyzer.Matchup(c.Request.Context(), offense, defense)
	if err != nil {
		c.Error(err)
		utils.SendErrorFrom(c, err)
		return
	}

	utils.SendSuccess(c, result)
}

func (h *TDBoostHandler) GetLeagueAverages(c *gin.Context) {
	league, err := h.analyzer.LeagueAverages(c.Request.Context())
	if err != nil {
		c.Error(err)
		utils.SendErrorFrom(c, err)
		return
	}

	utils.SendSuccess(c, league)
}

// GetSchedule returns the resolved week and its matchups
func (h *TDBoostHandler) GetSchedule(c *gin.Context) {
	week, err := parseWeek(c.Query("week"))
	if err != nil {
		utils.SendErrorFrom(c, err)
		return
	}

	result, err := h.analyzer.ResolveWeek(c.Request.Context(), week)
	if err != nil {
		c.Error(err)
		utils.SendErrorFrom(c, err)
		return
	}

	utils.SendSuccessWithMeta(c, result, &utils.Meta{Season: result.Season, Week: result.Week, Source: string(result.Source), Total: len(result.Matchups)})
}
