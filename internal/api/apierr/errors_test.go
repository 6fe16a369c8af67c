package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/skylandly/internal/model"
)

func TestWriteErrorMapsModelErrors(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("%w: limit must be between 1 and 365", model.ErrInvalidInput), http.StatusBadRequest, CodeInvalidRequest},
		{fmt.Errorf("%w: %q", model.ErrUnknownEntity, "Bob"), http.StatusBadRequest, CodeUnknownSkylander},
		{model.ErrPlayerNotFound, http.StatusNotFound, CodeNotFound},
		{fmt.Errorf("commit: %w", model.ErrStoreConflict), http.StatusConflict, CodeConflict},
		{errors.New("disk on fire"), http.StatusInternalServerError, CodeInternalError},
		{NewInvalidRequestError("bad body"), http.StatusBadRequest, CodeInvalidRequest},
	}

	for _, tc := range cases {
		rr := httptest.NewRecorder()
		WriteError(rr, tc.err)

		assert.Equal(t, tc.status, rr.Code, tc.err.Error())
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, tc.code, resp.Error.Code, tc.err.Error())
	}
}

func TestInvalidInputKeepsDetail(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, fmt.Errorf("%w: browser_id is required", model.ErrInvalidInput))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error.Message, "browser_id is required")
}

func TestInternalErrorHidesDetail(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, errors.New("password=hunter2"))
	assert.NotContains(t, rr.Body.String(), "hunter2")
}
