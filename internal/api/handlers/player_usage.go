package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/stitts-dev/td-boost/pkg/utils"
)

type PlayerUsageHandler struct {
	analyzer Analyzer
}

func NewPlayerUsageHandler(analyzer Analyzer) *PlayerUsageHandler {
	return &PlayerUsageHandler{
		analyzer: analyzer,
	}
}

// GetTeamUsage returns red zone and touchdown shares for a team's players
func (h *PlayerUsageHandler) GetTeamUsage(c *gin.Context) {
	team, err := parseTeam(c.Param("team"))
	if err != nil {
		utils.SendErrorFrom(c, err)
		return
	}

	usage, err := h.analyzer.PlayerUsage(c.Request.Context(), team)
	if err != nil {
		c.Error(err)
		utils.SendErrorFrom(c, err)
		return
	}

	utils.SendSuccessWithMeta(c, usage, &utils.Meta{Season: usage.Season, Total: len(usage.Players)})
}
