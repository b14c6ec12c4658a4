package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/SscSPs/masjid_treasury/internal/core/domain"
	portssvc "github.com/SscSPs/masjid_treasury/internal/core/ports/services"
	"github.com/SscSPs/masjid_treasury/internal/dto"
	"github.com/SscSPs/masjid_treasury/internal/middleware"
	"github.com/gin-gonic/gin"
)

// periodHandler handles month locks.
type periodHandler struct {
	periodService portssvc.PeriodSvcFacade
}

func registerPeriodRoutes(rg *gin.RouterGroup, periodService portssvc.PeriodSvcFacade) {
	h := &periodHandler{periodService: periodService}

	locks := rg.Group("/periods/locks")
	{
		locks.GET("", h.listLocks)
		locks.POST("", h.lockPeriod)
		locks.DELETE("/:year/:month", h.unlockPeriod)
	}
}

// lockPeriod godoc
// @Summary Lock a month
// @Description Closes a month to postings and reversals (Treasurer only)
// @Tags periods
// @Accept  json
// @Produce  json
// @Param   lock body dto.LockPeriodRequest true "Month to lock"
// @Success 201 {object} domain.PeriodLock
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Treasurer capability required"
// @Failure 409 {object} map[string]string "Month already locked"
// @Failure 500 {object} map[string]string "Failed to lock period"
// @Security BearerAuth
// @Router /periods/locks [post]
func (h *periodHandler) lockPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.LockPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for LockPeriod", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	lock, err := h.periodService.LockPeriod(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, err, "Failed to lock period")
		return
	}
	logger.Info("Period locked", slog.String("period", lock.Key()))
	c.JSON(http.StatusCreated, lock)
}

// listLocks godoc
// @Summary List locked months
// @Tags periods
// @Produce  json
// @Success 200 {array} domain.PeriodLock
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list period locks"
// @Security BearerAuth
// @Router /periods/locks [get]
func (h *periodHandler) listLocks(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}
	locks, err := h.periodService.ListLocks(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list period locks")
		return
	}
	if locks == nil {
		locks = []domain.PeriodLock{}
	}
	c.JSON(http.StatusOK, locks)
}

// unlockPeriod godoc
// @Summary Unlock a month
// @Tags periods
// @Param   year path int true "Year"
// @Param   month path int true "Month (1-12)"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid year or month"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Treasurer capability required"
// @Failure 404 {object} map[string]string "Month is not locked"
// @Failure 500 {object} map[string]string "Failed to unlock period"
// @Security BearerAuth
// @Router /periods/locks/{year}/{month} [delete]
func (h *periodHandler) unlockPeriod(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	year, yerr := strconv.Atoi(c.Param("year"))
	month, merr := strconv.Atoi(c.Param("month"))
	if yerr != nil || merr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year and month must be numbers"})
		return
	}
	if err := h.periodService.UnlockPeriod(c.Request.Context(), year, month, actor); err != nil {
		respondError(c, err, "Failed to unlock period")
		return
	}
	c.Status(http.StatusNoContent)
}
