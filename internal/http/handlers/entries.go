package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"worklog/internal/http/views"
	"worklog/internal/models"
	"worklog/internal/security"
	"worklog/internal/service"
)

type EntryHandler struct {
	responder
	entries *service.EntryService
	now     func() time.Time
}

func NewEntryHandler(entries *service.EntryService, v *views.Views, cookies *security.CookieStore, log logrus.FieldLogger) *EntryHandler {
	return &EntryHandler{
		responder: responder{views: v, cookies: cookies, log: log.WithField("handler", "entry")},
		entries:   entries,
		now:       time.Now,
	}
}

// blankForm is the create form's initial state.
func (h *EntryHandler) blankForm() views.EntryForm {
	return views.EntryForm{
		Flow:      string(models.FlowHigh),
		StartTime: h.now().UTC().Format(views.TimeLayout),
	}
}

func (h *EntryHandler) indexPage(r *http.Request, form views.EntryForm, errs map[string]string) (views.Page, error) {
	mine := r.URL.Query().Get("mine") == "1"

	var (
		list []models.EntryView
		err  error
	)
	if mine {
		list, err = h.entries.ListByOwner(r.Context(), h.identity(r).User)
	} else {
		list, err = h.entries.List(r.Context())
	}
	if err != nil {
		return views.Page{}, err
	}

	return views.Page{
		Title:    "Entries",
		Entries:  list,
		MineOnly: mine,
		Form:     form,
		Errors:   errs,
	}, nil
}

// Index lists entries with the create form on top.
func (h *EntryHandler) Index(w http.ResponseWriter, r *http.Request) {
	page, err := h.indexPage(r, h.blankForm(), nil)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "index", page)
}

func (h *EntryHandler) New(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "new", views.Page{Title: "New entry", Form: h.blankForm()})
}

// Create handles both POST / and POST /new. A rejected form is shown again
// on the page it came from.
func (h *EntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	fromNew := r.URL.Path == "/new"

	fields, form, errs := parseEntryForm(r)
	if len(errs) == 0 {
		_, err := h.entries.Create(r.Context(), h.identity(r).User, fields)
		if err == nil {
			if fromNew {
				h.redirectWithNotice(w, r, "/", NoticeEntrySaved)
				return
			}
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		if !fieldErrors(err, errs) {
			h.handleServiceError(w, r, err)
			return
		}
	}

	if fromNew {
		h.render(w, r, http.StatusBadRequest, "new", views.Page{Title: "New entry", Form: form, Errors: errs})
		return
	}
	page, err := h.indexPage(r, form, errs)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.render(w, r, http.StatusBadRequest, "index", page)
}

func (h *EntryHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := entryID(r)
	if !ok {
		h.handleServiceError(w, r, service.ErrNotFound)
		return
	}

	entry, err := h.entries.GetOwned(r.Context(), h.identity(r).User, id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "edit", views.Page{
		Title:   "Edit entry",
		EntryID: entry.ID,
		Form:    views.FormFromEntry(entry),
	})
}

func (h *EntryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := entryID(r)
	if !ok {
		h.handleServiceError(w, r, service.ErrNotFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	fields, form, errs := parseEntryForm(r)
	if len(errs) == 0 {
		_, err := h.entries.Update(r.Context(), h.identity(r).User, id, fields)
		if err == nil {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		if !fieldErrors(err, errs) {
			h.handleServiceError(w, r, err)
			return
		}
	}

	h.render(w, r, http.StatusBadRequest, "edit", views.Page{
		Title:   "Edit entry",
		EntryID: id,
		Form:    form,
		Errors:  errs,
	})
}

func (h *EntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := entryID(r)
	if !ok {
		h.handleServiceError(w, r, service.ErrNotFound)
		return
	}

	if err := h.entries.Delete(r.Context(), h.identity(r).User, id); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func entryID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
