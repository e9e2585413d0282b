package http

import (
	"net/http"
	"strconv"

	"github.com/SWYP-foreigner/Kori-chatting/types"
	"github.com/matryer/way"
	"github.com/nicolasparada/go-errs"
)

func (h *handler) groupDetails(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	out, err := h.svc.GroupDetails(ctx, types.RetrieveRoom{RoomID: way.Param(ctx, "room_id")})
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, out, http.StatusOK)
}

func (h *handler) searchGroups(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.SearchGroups(r.Context(), types.SearchGroups{
		Keyword: r.URL.Query().Get("keyword"),
	})
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respondGroups(w, out)
}

func (h *handler) latestGroups(w http.ResponseWriter, r *http.Request) {
	pageArgs, err := parsePageArgs(r.URL.Query())
	if err != nil {
		h.respondErr(w, err)
		return
	}

	out, err := h.svc.LatestGroups(r.Context(), types.ListLatestGroups{PageArgs: pageArgs})
	if err != nil {
		h.respondErr(w, err)
		return
	}

	if out.Items == nil {
		out.Items = []types.GroupListing{} // non null array
	}

	h.respond(w, out, http.StatusOK)
}

func (h *handler) popularGroups(w http.ResponseWriter, r *http.Request) {
	var in types.ListPopularGroups
	if s := r.URL.Query().Get("limit"); s != "" {
		limit, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			h.respondErr(w, errs.InvalidArgumentError("invalid limit"))
			return
		}

		in.Limit = uint(limit)
	}

	out, err := h.svc.PopularGroups(r.Context(), in)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respondGroups(w, out)
}

func (h *handler) respondGroups(w http.ResponseWriter, gg []types.GroupListing) {
	if gg == nil {
		gg = []types.GroupListing{} // non null array
	}
	h.respond(w, gg, http.StatusOK)
}
