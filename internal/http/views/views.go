// Package views renders the HTML pages from embedded templates.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"worklog/internal/models"
)

//go:embed templates/*.html
var files embed.FS

// TimeLayout is the start_time format used in forms and listings.
const TimeLayout = "2006-01-02 15:04:05"

var pages = []string{"login", "index", "new", "edit"}

// EntryForm holds the raw form values of an entry so a rejected submission
// can be redisplayed as typed.
type EntryForm struct {
	Cleaned   bool
	Flow      string
	Comment   string
	StartTime string
}

// FormFromEntry fills an EntryForm from a stored entry.
func FormFromEntry(e *models.Entry) EntryForm {
	return EntryForm{
		Cleaned:   e.Cleaned,
		Flow:      string(e.Flow),
		Comment:   e.Comment,
		StartTime: e.StartTime.UTC().Format(TimeLayout),
	}
}

// Page is the data every template receives.
type Page struct {
	Title    string
	User     *models.User
	Flashes  []string
	Errors   map[string]string
	Username string

	Entries  []models.EntryView
	MineOnly bool
	EntryID  int64
	Form     EntryForm
	Flows    []models.Flow
}

type Views struct {
	pages map[string]*template.Template
}

func New() (*Views, error) {
	funcs := template.FuncMap{
		"fmtTime": func(t time.Time) string { return t.UTC().Format(TimeLayout) },
	}

	v := &Views{pages: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		t, err := template.New("layout.html").Funcs(funcs).
			ParseFS(files, "templates/layout.html", "templates/entry_form.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		v.pages[name] = t
	}
	return v, nil
}

// Render executes the named page into a buffer first so a template error
// never produces a half-written response.
func (v *Views) Render(w http.ResponseWriter, status int, name string, page Page) error {
	t, ok := v.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	if page.Flows == nil {
		page.Flows = models.Flows
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, page); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
