package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"worklog/internal/http/views"
	"worklog/internal/models"
	"worklog/internal/service"
)

// startTimeLayouts are tried in order. datetime-local inputs send the
// second and third forms.
var startTimeLayouts = []string{
	views.TimeLayout,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

func parseCheckbox(v string) bool {
	switch strings.ToLower(v) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// parseEntryForm reads the entry fields of a submitted form. It returns the
// raw values for redisplay and the field errors found while parsing.
func parseEntryForm(r *http.Request) (models.EntryFields, views.EntryForm, map[string]string) {
	form := views.EntryForm{
		Cleaned:   parseCheckbox(r.PostFormValue("cleaned")),
		Flow:      r.PostFormValue("flow"),
		Comment:   r.PostFormValue("comment"),
		StartTime: strings.TrimSpace(r.PostFormValue("start_time")),
	}
	fields := models.EntryFields{
		Cleaned: form.Cleaned,
		Flow:    models.Flow(form.Flow),
		Comment: form.Comment,
	}

	errs := map[string]string{}
	if form.StartTime != "" {
		var parsed bool
		for _, layout := range startTimeLayouts {
			t, err := time.ParseInLocation(layout, form.StartTime, time.UTC)
			if err == nil {
				fields.StartTime = t
				parsed = true
				break
			}
		}
		if !parsed {
			errs["start_time"] = "must look like " + views.TimeLayout
		}
	}
	return fields, form, errs
}

// fieldErrors merges the validation messages of err into errs. It reports
// false when err is not a validation error.
func fieldErrors(err error, errs map[string]string) bool {
	var verr *service.ValidationError
	if !errors.As(err, &verr) {
		return false
	}
	for _, f := range verr.Fields {
		errs[f.Field] = f.Message
	}
	return true
}
