package http

import (
	"net/http"

	"github.com/SWYP-foreigner/Kori-chatting/types"
	"github.com/matryer/way"
)

func (h *handler) sendMessage(w http.ResponseWriter, r *http.Request) {
	var in types.SendMessage
	if err := h.decode(r, &in); err != nil {
		h.respondErr(w, err)
		return
	}

	ctx := r.Context()
	in.RoomID = way.Param(ctx, "room_id")
	out, err := h.svc.SendMessage(ctx, in)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, out, http.StatusCreated)
}

func (h *handler) messages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	out, err := h.svc.Messages(ctx, types.ListMessages{
		RoomID: way.Param(ctx, "room_id"),
		Before: emptyStrPtr(r.URL.Query().Get("before")),
	})
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respondMessages(w, out)
}

func (h *handler) firstMessages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	out, err := h.svc.FirstMessages(ctx, types.RetrieveRoom{RoomID: way.Param(ctx, "room_id")})
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respondMessages(w, out)
}

func (h *handler) searchMessages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	out, err := h.svc.SearchMessages(ctx, types.SearchMessages{
		RoomID:  way.Param(ctx, "room_id"),
		Keyword: r.URL.Query().Get("keyword"),
	})
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respondMessages(w, out)
}

func (h *handler) respondMessages(w http.ResponseWriter, mm []types.MessageView) {
	if mm == nil {
		mm = []types.MessageView{} // non null array
	}
	h.respond(w, mm, http.StatusOK)
}

func (h *handler) markAsRead(w http.ResponseWriter, r *http.Request) {
	var in types.MarkAsRead
	if err := h.decode(r, &in); err != nil {
		h.respondErr(w, err)
		return
	}

	ctx := r.Context()
	in.RoomID = way.Param(ctx, "room_id")
	if err := h.svc.MarkAsRead(ctx, in); err != nil {
		h.respondErr(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) markAllRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.svc.MarkAllRead(ctx, types.RetrieveRoom{RoomID: way.Param(ctx, "room_id")}); err != nil {
		h.respondErr(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) typing(w http.ResponseWriter, r *http.Request) {
	var in types.Typing
	if err := h.decode(r, &in); err != nil {
		h.respondErr(w, err)
		return
	}

	ctx := r.Context()
	in.RoomID = way.Param(ctx, "room_id")
	if err := h.svc.Typing(ctx, in); err != nil {
		h.respondErr(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) deleteMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.svc.DeleteMessage(ctx, types.DeleteMessage{MessageID: way.Param(ctx, "message_id")}); err != nil {
		h.respondErr(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) messageStream(w http.ResponseWriter, r *http.Request) {
	stream(h, w, r, h.svc.MessageStream)
}
