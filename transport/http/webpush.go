package http

import (
	"net/http"

	"github.com/SWYP-foreigner/Kori-chatting/types"
)

func (h *handler) saveWebPushSubscription(w http.ResponseWriter, r *http.Request) {
	var in types.WebPushSubscription
	if err := h.decode(r, &in); err != nil {
		h.respondErr(w, err)
		return
	}

	if err := h.svc.SaveWebPushSubscription(r.Context(), in); err != nil {
		h.respondErr(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
