package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sierra/internal/apierr"
)

const exposeErrorsKey = "exposeErrors"

type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func RespondOK(c *gin.Context, obj any) {
	c.JSON(http.StatusOK, obj)
}

func RespondCreated(c *gin.Context, obj any) {
	c.JSON(http.StatusCreated, obj)
}

func RespondMessage(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, errorResponse{Message: message})
}

func statusOf(kind apierr.Kind) int {
	switch kind {
	case apierr.KindValidation:
		return http.StatusBadRequest
	case apierr.KindNotFound:
		return http.StatusNotFound
	case apierr.KindAuth:
		return http.StatusUnauthorized
	case apierr.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// RespondErr logs err and writes it as {message}. Store failures also carry
// the underlying error text unless the server runs in production.
func RespondErr(c *gin.Context, logger *zap.SugaredLogger, err error) {
	kind := apierr.KindOf(err)
	status := statusOf(kind)

	body := errorResponse{Message: apierr.MessageOf(err, "Internal Server Error")}
	if kind == apierr.KindStore {
		logger.Errorw("Request failed", "path", c.FullPath(), "status", status, "error", err)
		if c.GetBool(exposeErrorsKey) {
			if cause := errorsCause(err); cause != nil {
				body.Error = cause.Error()
			}
		}
	} else {
		logger.Infow("Request rejected", "path", c.FullPath(), "status", status, "kind", kind.String(), "error", err)
	}

	c.AbortWithStatusJSON(status, body)
}

func errorsCause(err error) error {
	var e *apierr.Error
	if errors.As(err, &e) && e.Err != nil {
		return e.Err
	}
	return err
}
