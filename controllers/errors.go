package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/waitlist-app/database"
	"github.com/yeremiapane/waitlist-app/services"
	"github.com/yeremiapane/waitlist-app/utils"
)

// statusFor maps a service error onto the HTTP status returned to the client.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidTransition):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrTableOccupied), errors.Is(err, services.ErrConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func respondServiceError(c *gin.Context, err error) {
	code := statusFor(err)
	_ = c.Error(err)
	if code == http.StatusInternalServerError {
		utils.ErrorLogger.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		utils.RespondJSON(c, code, "internal server error", nil)
		return
	}
	utils.RespondError(c, code, err)
}

// uintParam reads a numeric path parameter, answering 400 itself when it is malformed.
func uintParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid %s %q", name, c.Param(name)))
		return 0, false
	}
	return uint(id), true
}

// pageQuery -> ?skip=&limit= as used by the list endpoints
type pageQuery struct {
	Skip  int `form:"skip" binding:"min=0"`
	Limit int `form:"limit" binding:"min=0,max=500"`
}

func (q pageQuery) page() database.Page {
	return database.Page{Offset: q.Skip, Limit: q.Limit}
}
