package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/artpar/windowkit/domain/gui"
)

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(h.startTime).String(),
	})
}

func (h *Handler) handleNamespaces(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.windows.Namespaces())
}

func (h *Handler) handleNamespace(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	info, ok := h.windows.Namespace(name)
	if !ok {
		h.respondError(w, http.StatusNotFound, "namespace not registered: "+name)
		return
	}
	h.respondJSON(w, http.StatusOK, info)
}

func (h *Handler) handleModules(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.catalog.Descriptors())
}

// windowInfo is the JSON shape of one live window state.
type windowInfo struct {
	Namespace string    `json:"namespace"`
	User      string    `json:"user"`
	Visible   bool      `json:"visible"`
	Pinned    bool      `json:"pinned"`
	Elements  int       `json:"elements"`
	BuiltAt   time.Time `json:"built_at"`
}

func (h *Handler) handleWindows(w http.ResponseWriter, r *http.Request) {
	out := make([]windowInfo, 0)
	for _, info := range h.windows.Namespaces() {
		states, err := h.windows.States(r.Context(), info.Namespace)
		if err != nil {
			continue
		}
		for _, st := range states {
			out = append(out, windowInfo{
				Namespace: st.Namespace,
				User:      string(st.User),
				Visible:   st.Root.Visible(),
				Pinned:    st.Pinned(),
				Elements:  len(st.Elems),
				BuiltAt:   st.BuiltAt,
			})
		}
	}
	h.respondJSON(w, http.StatusOK, out)
}

type simJoinRequest struct {
	User string `json:"user"`
}

func (h *Handler) handleSimJoin(w http.ResponseWriter, r *http.Request) {
	var req simJoinRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if req.User == "" {
		h.respondError(w, http.StatusBadRequest, "user is required")
		return
	}
	h.host.Join(gui.UserID(req.User))
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "joined", "user": req.User})
}

type simClickRequest struct {
	Namespace string `json:"namespace"`
	User      string `json:"user"`
	Element   string `json:"element"`
}

func (h *Handler) handleSimClick(w http.ResponseWriter, r *http.Request) {
	var req simClickRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if req.Namespace == "" || req.User == "" || req.Element == "" {
		h.respondError(w, http.StatusBadRequest, "namespace, user and element are required")
		return
	}
	if err := h.host.Click(req.Namespace, gui.UserID(req.User), req.Element); err != nil {
		h.respondError(w, http.StatusNotFound, err.Error())
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "clicked", "element": req.Element})
}

type simNamedRequest struct {
	Name string `json:"name"`
	User string `json:"user"`
}

func (h *Handler) handleSimInput(w http.ResponseWriter, r *http.Request) {
	var req simNamedRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" || req.User == "" {
		h.respondError(w, http.StatusBadRequest, "name and user are required")
		return
	}
	h.host.SendCustomInput(req.Name, gui.UserID(req.User))
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "sent", "input": req.Name})
}

func (h *Handler) handleSimShortcut(w http.ResponseWriter, r *http.Request) {
	var req simNamedRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" || req.User == "" {
		h.respondError(w, http.StatusBadRequest, "name and user are required")
		return
	}
	h.host.PressShortcut(req.Name, gui.UserID(req.User))
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "pressed", "shortcut": req.Name})
}
