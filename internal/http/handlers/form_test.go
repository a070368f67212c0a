package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worklog/internal/models"
	"worklog/internal/service"
)

func postForm(t *testing.T, values url.Values) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	require.NoError(t, req.ParseForm())
	return req
}

func TestParseEntryForm(t *testing.T) {
	want := time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC)

	for _, raw := range []string{"2024-03-01 08:30:00", "2024-03-01T08:30:00", "2024-03-01T08:30"} {
		fields, form, errs := parseEntryForm(postForm(t, url.Values{
			"cleaned":    {"on"},
			"flow":       {"Low"},
			"comment":    {"ok"},
			"start_time": {raw},
		}))
		assert.Empty(t, errs, raw)
		assert.True(t, want.Equal(fields.StartTime), raw)
		assert.True(t, fields.Cleaned)
		assert.Equal(t, models.FlowLow, fields.Flow)
		assert.Equal(t, raw, form.StartTime)
	}
}

func TestParseEntryForm_EmptyAndBadStartTime(t *testing.T) {
	fields, _, errs := parseEntryForm(postForm(t, url.Values{"flow": {"High"}}))
	assert.Empty(t, errs)
	assert.True(t, fields.StartTime.IsZero())
	assert.False(t, fields.Cleaned)

	_, form, errs := parseEntryForm(postForm(t, url.Values{"start_time": {"soon"}}))
	assert.Contains(t, errs, "start_time")
	assert.Equal(t, "soon", form.StartTime)
}

func TestParseCheckbox(t *testing.T) {
	for _, v := range []string{"on", "true", "1", "YES"} {
		assert.True(t, parseCheckbox(v), v)
	}
	for _, v := range []string{"", "off", "0", "no"} {
		assert.False(t, parseCheckbox(v), v)
	}
}

func TestFieldErrors(t *testing.T) {
	errs := map[string]string{}
	verr := &service.ValidationError{Fields: []service.FieldError{{Field: "flow", Message: "bad"}}}

	assert.True(t, fieldErrors(verr, errs))
	assert.Equal(t, "bad", errs["flow"])
	assert.False(t, fieldErrors(service.ErrForbidden, errs))
}
