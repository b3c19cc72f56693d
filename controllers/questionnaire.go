package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sierra/internal/questionnaire"
)

type QuestionnaireController struct {
	Service *questionnaire.Service
	Logger  *zap.SugaredLogger
}

func (qc QuestionnaireController) Questions(c *gin.Context) {
	RespondOK(c, gin.H{"questions": questionnaire.Questions()})
}

func (qc QuestionnaireController) SubmitAnswer(c *gin.Context) {
	type submitParams struct {
		AnswerID string `json:"answerId"`
	}

	var payload submitParams
	if err := c.ShouldBindJSON(&payload); err != nil {
		RespondMessage(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	submission, err := qc.Service.SubmitAnswer(c.Request.Context(), CurrentToken(c), c.Param("questionId"), payload.AnswerID)
	if err != nil {
		RespondErr(c, qc.Logger, err)
		return
	}

	RespondOK(c, submission)
}

func (qc QuestionnaireController) Completed(c *gin.Context) {
	completion, err := qc.Service.Complete(c.Request.Context(), CurrentToken(c))
	if err != nil {
		RespondErr(c, qc.Logger, err)
		return
	}

	RespondOK(c, completion)
}
