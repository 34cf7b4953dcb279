package keywordplanner

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchVolumeSendsBatchWithBasicAuth(t *testing.T) {
	var gotKeywords []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, searchVolumePath, r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "login", user)
		assert.Equal(t, "secret", pass)

		var tasks []searchVolumeTask
		require.NoError(t, json.NewDecoder(r.Body).Decode(&tasks))
		require.Len(t, tasks, 1)
		gotKeywords = tasks[0].Keywords

		w.Write([]byte(`{"status_code":20000,"status_message":"Ok.","tasks":[{"status_code":20000,"result":[
			{"keyword":"weight loss clinic las vegas","search_volume":800,"competition_index":75,"cpc":12},
			{"keyword":"ozempic las vegas","search_volume":null,"competition_index":50,"cpc":20}
		]}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "login", "secret", "Las Vegas,Nevada,United States")
	metrics, err := c.SearchVolume(context.Background(), []string{"weight loss clinic las vegas", "ozempic las vegas"})

	require.NoError(t, err)
	assert.Equal(t, []string{"weight loss clinic las vegas", "ozempic las vegas"}, gotKeywords)
	require.Len(t, metrics, 2)
	assert.Equal(t, int64(800), metrics[0].Volume)
	assert.Equal(t, 75.0, metrics[0].CompetitionIndex)
	assert.Equal(t, int64(0), metrics[1].Volume)
}

func TestSearchVolumeMissingCredentials(t *testing.T) {
	c := NewClient("http://unused", "", "", "")
	_, err := c.SearchVolume(context.Background(), []string{"x"})
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestSearchVolumeNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status_code":40100,"status_message":"Not authorized"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "login", "bad", "")
	_, err := c.SearchVolume(context.Background(), []string{"x"})
	assert.ErrorContains(t, err, "status 401")
}

func TestSearchVolumeProviderLevelError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status_code":40200,"status_message":"Payment Required."}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "login", "secret", "")
	_, err := c.SearchVolume(context.Background(), []string{"x"})
	assert.ErrorContains(t, err, "40200")
}
