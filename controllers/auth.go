package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sierra/internal/accounts"
)

type AuthController struct {
	Accounts *accounts.Service
	Logger   *zap.SugaredLogger
}

func (a AuthController) Register(c *gin.Context) {
	type registerParams struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}

	var payload registerParams
	if err := c.ShouldBindJSON(&payload); err != nil {
		RespondMessage(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := a.Accounts.Register(c.Request.Context(), payload.Email, payload.Password, payload.Name)
	if err != nil {
		RespondErr(c, a.Logger, err)
		return
	}

	RespondCreated(c, session)
}

func (a AuthController) Login(c *gin.Context) {
	type loginParams struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var payload loginParams
	if err := c.ShouldBindJSON(&payload); err != nil {
		RespondMessage(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := a.Accounts.Login(c.Request.Context(), payload.Email, payload.Password)
	if err != nil {
		RespondErr(c, a.Logger, err)
		return
	}

	RespondOK(c, session)
}
