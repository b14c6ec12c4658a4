package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/masjid_treasury/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

// journalHandler serves read access to individual journal entries.
type journalHandler struct {
	transactionService portssvc.TransactionReaderSvc
}

func registerJournalRoutes(rg *gin.RouterGroup, transactionService portssvc.TransactionReaderSvc) {
	h := &journalHandler{transactionService: transactionService}
	rg.GET("/journal-entries/:entryID", h.getJournalEntry)
}

// getJournalEntry godoc
// @Summary Get a journal entry by ID
// @Description Returns a posting or reversal entry with its lines
// @Tags journals
// @Produce  json
// @Param   entryID path string true "Journal entry ID"
// @Success 200 {object} domain.JournalEntry
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Failure 500 {object} map[string]string "Failed to retrieve journal entry"
// @Security BearerAuth
// @Router /journal-entries/{entryID} [get]
func (h *journalHandler) getJournalEntry(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}
	entry, err := h.transactionService.GetJournalEntry(c.Request.Context(), c.Param("entryID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve journal entry")
		return
	}
	c.JSON(http.StatusOK, entry)
}
