package adaptor

import (
	"net/http"

	"library-management/pkg/utils"
)

type ActivityHandler struct{}

func NewActivityHandler() *ActivityHandler {
	return &ActivityHandler{}
}

// Heartbeat handles POST /api/activity/heartbeat. The session guard already
// slid the idle window and set the remaining-time header before this runs, so
// an empty 204 is the whole job: clients call it to keep a session alive
// during long reads.
func (h *ActivityHandler) Heartbeat(w http.ResponseWriter, r *http.Request) {
	utils.ResponseNoContent(w)
}
