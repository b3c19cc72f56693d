package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sierra/internal/esg"
)

type ESGController struct {
	Service *esg.Service
	Logger  *zap.SugaredLogger
}

// GetHistory returns every observation of a ticker, newest first.
func (ec ESGController) GetHistory(c *gin.Context) {
	history, err := ec.Service.History(c.Request.Context(), c.Param("ticker"))
	if err != nil {
		RespondErr(c, ec.Logger, err)
		return
	}

	RespondOK(c, history)
}

// GetRecent returns only the latest observation of a ticker.
func (ec ESGController) GetRecent(c *gin.Context) {
	record, err := ec.Service.Recent(c.Request.Context(), c.Param("ticker"))
	if err != nil {
		RespondErr(c, ec.Logger, err)
		return
	}

	RespondOK(c, record)
}

func (ec ESGController) GetAll(c *gin.Context) {
	records, err := ec.Service.All(c.Request.Context())
	if err != nil {
		RespondErr(c, ec.Logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "All ESG data retrieved successfully",
		"data":    records,
	})
}
