package response

import (
	"net/http"

	"github.com/fathoor/library-service/pkg/errs"
	"github.com/labstack/echo/v4"
)

// Envelope is the shape of every response body.
type Envelope struct {
	Data    interface{} `json:"data"`
	Message string      `json:"message"`
	Error   string      `json:"error"`
}

func WriteSuccessResponse(c echo.Context, message string, data interface{}) error {
	resp := Envelope{}
	resp.Data = data
	resp.Message = message

	return c.JSON(http.StatusOK, resp)
}

func WriteErrorResponse(c echo.Context, err error) error {
	statusCode := errs.GetErrorStatusCode(err)
	resp := Envelope{}
	resp.Message = err.Error()
	if statusCode == http.StatusInternalServerError {
		resp.Message = errs.ErrInternalServer.Error()
		resp.Error = "internal server error"
	}

	return c.JSON(statusCode, resp)
}
