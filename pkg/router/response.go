package router

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sparkloop/backend/pkg/errorx"
	"github.com/sparkloop/backend/pkg/xcontext"
)

type response struct {
	Code   errorx.Code `json:"code"`
	Error  string      `json:"error,omitempty"`
	Detail any         `json:"detail,omitempty"`
	Data   any         `json:"data,omitempty"`
}

func newErrorResponse(err error) (int, response) {
	var errx errorx.Error
	if errors.As(err, &errx) {
		return errx.Code.HTTPStatus(), response{
			Code:   errx.Code,
			Error:  errx.Message,
			Detail: errx.Detail,
		}
	}

	return http.StatusInternalServerError, response{
		Code:  errorx.Unknown.Code,
		Error: errorx.Unknown.Message,
	}
}

func writeResponse(ctx context.Context, c *gin.Context) {
	if c.Writer.Written() {
		return
	}

	if err := xcontext.Error(ctx); err != nil {
		c.JSON(newErrorResponse(err))
		return
	}

	c.JSON(http.StatusOK, response{Data: xcontext.GetResponse(ctx)})
}
