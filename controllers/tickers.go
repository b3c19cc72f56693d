package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sierra/internal/accounts"
)

type TickersController struct {
	Accounts *accounts.Service
	Logger   *zap.SugaredLogger
}

func (tc TickersController) Save(c *gin.Context) {
	type saveParams struct {
		Ticker string `json:"ticker"`
	}

	var payload saveParams
	if err := c.ShouldBindJSON(&payload); err != nil {
		RespondMessage(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	receipt, err := tc.Accounts.SaveTicker(c.Request.Context(), CurrentToken(c), payload.Ticker)
	if err != nil {
		RespondErr(c, tc.Logger, err)
		return
	}

	RespondOK(c, receipt)
}

func (tc TickersController) List(c *gin.Context) {
	list, err := tc.Accounts.RetrieveTickers(c.Request.Context(), CurrentToken(c))
	if err != nil {
		RespondErr(c, tc.Logger, err)
		return
	}

	RespondOK(c, list)
}
