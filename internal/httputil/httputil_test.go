// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMultipartRequest(t *testing.T) {
	var gotField, gotName, gotBody string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method", http.StatusMethodNotAllowed)
			return
		}
		f, hdr, err := r.FormFile("input")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		gotField = "input"
		gotName = hdr.Filename
		gotBody = string(data)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	req, err := NewMultipartRequest(context.Background(), ts.URL, "input", "paper.pdf", []byte("%PDF-1.4 body"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(req.Header.Get("Content-Type"), "multipart/form-data; boundary="))

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "input", gotField)
	assert.Equal(t, "paper.pdf", gotName)
	assert.Equal(t, "%PDF-1.4 body", gotBody)
}

func TestCheckStatus(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantErr  bool
		wantBody string
	}{
		{name: "200 passes", status: http.StatusOK},
		{name: "204 passes", status: http.StatusNoContent},
		{name: "500 fails with body", status: http.StatusInternalServerError, body: "  boom\n", wantErr: true, wantBody: "boom"},
		{name: "503 fails without body", status: http.StatusServiceUnavailable, wantErr: true},
		{name: "long body truncated", status: http.StatusBadRequest, body: strings.Repeat("x", 2000), wantErr: true, wantBody: strings.Repeat("x", maxErrorBody)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer ts.Close()

			resp, err := ts.Client().Get(ts.URL)
			require.NoError(t, err)
			defer resp.Body.Close()

			err = CheckStatus(resp)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var se *StatusError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.status, se.StatusCode)
			assert.Equal(t, tt.wantBody, se.Body)
			assert.Contains(t, se.Error(), ts.URL)
		})
	}
}
