package server

import (
	"strconv"

	"hl-action-server/internal/recorder"

	"github.com/gin-gonic/gin"
)

// Actions lists the most recent entries of the action log, newest first.
func (h *Handlers) Actions() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 50
		if raw := c.Query("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 || parsed > 500 {
				h.respondError(c, "actions", &ValidationError{Msg: "limit must be an integer in [1, 500]"})
				return
			}
			limit = parsed
		}
		records, err := h.store.Recent(c.Request.Context(), limit)
		if err != nil {
			h.respondError(c, "actions", err)
			return
		}
		if records == nil {
			records = []recorder.Record{}
		}
		respondOK(c, gin.H{"actions": records})
	}
}
