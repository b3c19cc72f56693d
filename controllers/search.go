package controllers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sierra/internal/esg"
)

// SearchController validates search parameters before anything reaches the
// store.
type SearchController struct {
	Service *esg.Service
	Logger  *zap.SugaredLogger
}

func (sc SearchController) ByLevel(c *gin.Context) {
	query, err := esg.ParseLevelQuery(c.Param("category"), c.Param("value"))
	if err != nil {
		RespondErr(c, sc.Logger, err)
		return
	}

	result, err := sc.Service.ByLevel(c.Request.Context(), query)
	if err != nil {
		RespondErr(c, sc.Logger, err)
		return
	}

	RespondOK(c, result)
}

func (sc SearchController) ByScoreGreater(c *gin.Context) {
	query, err := esg.GreaterQuery(c.Param("scoreType"), c.Param("score"))
	sc.byScore(c, query, err)
}

func (sc SearchController) ByScoreLesser(c *gin.Context) {
	query, err := esg.LesserQuery(c.Param("scoreType"), c.Param("score"))
	sc.byScore(c, query, err)
}

func (sc SearchController) ByScoreRange(c *gin.Context) {
	query, err := esg.RangeQuery(c.Param("scoreType"), c.Param("low"), c.Param("high"))
	sc.byScore(c, query, err)
}

func (sc SearchController) byScore(c *gin.Context, query esg.ScoreQuery, err error) {
	if err != nil {
		RespondErr(c, sc.Logger, err)
		return
	}

	result, err := sc.Service.ByScore(c.Request.Context(), query)
	if err != nil {
		RespondErr(c, sc.Logger, err)
		return
	}

	RespondOK(c, result)
}

func (sc SearchController) ByCompany(c *gin.Context) {
	result, err := sc.Service.ByCompany(c.Request.Context(), c.Param("name"))
	if err != nil {
		RespondErr(c, sc.Logger, err)
		return
	}

	RespondOK(c, result)
}
