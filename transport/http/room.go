package http

import (
	"context"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/SWYP-foreigner/Kori-chatting/types"
	"github.com/matryer/way"
)

const maxImageUploadBytes = 6 << 20

func (h *handler) createOneToOneRoom(w http.ResponseWriter, r *http.Request) {
	var in types.CreateOneToOneRoom
	if err := h.decode(r, &in); err != nil {
		h.respondErr(w, err)
		return
	}

	out, err := h.svc.CreateOneToOneRoom(r.Context(), in)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, out, http.StatusOK)
}

func (h *handler) createGroupRoom(w http.ResponseWriter, r *http.Request) {
	var in types.CreateGroupRoom
	if err := h.decode(r, &in); err != nil {
		h.respondErr(w, err)
		return
	}

	out, err := h.svc.CreateGroupRoom(r.Context(), in)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, out, http.StatusCreated)
}

func (h *handler) roomSummaries(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.RoomSummaries(r.Context())
	if err != nil {
		h.respondErr(w, err)
		return
	}

	if out == nil {
		out = []types.RoomSummary{} // non null array
	}

	h.respond(w, out, http.StatusOK)
}

func (h *handler) searchRoomSummaries(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.SearchRoomSummaries(r.Context(), types.SearchRoomSummaries{
		Keyword: r.URL.Query().Get("keyword"),
	})
	if err != nil {
		h.respondErr(w, err)
		return
	}

	if out == nil {
		out = []types.RoomSummary{} // non null array
	}

	h.respond(w, out, http.StatusOK)
}

func (h *handler) joinGroup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	out, err := h.svc.JoinGroup(ctx, types.RetrieveRoom{RoomID: way.Param(ctx, "room_id")})
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, out, http.StatusOK)
}

func (h *handler) leaveRoom(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	err := h.svc.LeaveRoom(ctx, types.RetrieveRoom{RoomID: way.Param(ctx, "room_id")})
	if err != nil {
		h.respondErr(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) roomParticipants(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	out, err := h.svc.RoomParticipants(ctx, types.RetrieveRoom{RoomID: way.Param(ctx, "room_id")})
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, out, http.StatusOK)
}

func (h *handler) toggleTranslation(w http.ResponseWriter, r *http.Request) {
	var in types.ToggleTranslation
	if err := h.decode(r, &in); err != nil {
		h.respondErr(w, err)
		return
	}

	ctx := r.Context()
	in.RoomID = way.Param(ctx, "room_id")
	out, err := h.svc.ToggleTranslation(ctx, in)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, out, http.StatusOK)
}

// uploadRoomImage takes either a multipart form with an "image" file or the
// raw image as body.
func (h *handler) uploadRoomImage(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	r.Body = http.MaxBytesReader(w, r.Body, maxImageUploadBytes)

	var image io.Reader = r.Body

	mediatype, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err == nil && strings.EqualFold(mediatype, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
			h.respondErr(w, errBadRequest)
			return
		}

		defer r.MultipartForm.RemoveAll()

		f, _, err := r.FormFile("image")
		if err != nil {
			h.respondErr(w, errBadRequest)
			return
		}

		defer f.Close()

		image = f
	}

	ctx := r.Context()
	url, err := h.svc.UploadRoomImage(ctx, types.RetrieveRoom{RoomID: way.Param(ctx, "room_id")}, image)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, struct {
		ImageURL string `json:"imageURL"`
	}{url}, http.StatusOK)
}

func (h *handler) roomStream(w http.ResponseWriter, r *http.Request) {
	roomID := way.Param(r.Context(), "room_id")
	stream(h, w, r, func(ctx context.Context) (<-chan types.RoomStreamItem, error) {
		return h.svc.RoomStream(ctx, types.RetrieveRoom{RoomID: roomID})
	})
}

func (h *handler) roomSummaryStream(w http.ResponseWriter, r *http.Request) {
	stream(h, w, r, h.svc.RoomSummaryStream)
}
