package playerprofile

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/gridiron-loader/internal/domain/registry"
	"github.com/riskibarqy/gridiron-loader/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bradyProfile = `{
  "gsisId": "00-0019596",
  "esbId": "BRA371156",
  "firstName": "Tom",
  "lastName": "Brady",
  "position": "QB",
  "jerseyNumber": 12,
  "status": "ACT",
  "height": "6-4",
  "weight": 225,
  "birthDate": "08/03/1977",
  "yearsOfExperience": 20,
  "college": "Michigan",
  "teamAbbr": "NE"
}`

func newTestClient(baseURL string) *Client {
	return NewClient(ClientConfig{
		BaseURL:      baseURL,
		Timeout:      2 * time.Second,
		MaxRetries:   1,
		RetryBackoff: time.Millisecond,
		Logger:       logging.NewNop(),
		Now:          func() time.Time { return time.Date(2019, 9, 1, 0, 0, 0, 0, time.UTC) },
	})
}

func TestClient_FetchProfile(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(bradyProfile))
	}))
	defer server.Close()

	item, err := newTestClient(server.URL).FetchProfile(context.Background(), "00-0019596")
	require.NoError(t, err)

	assert.Equal(t, "/00-0019596", gotPath)
	assert.Equal(t, registry.Metadata{
		ParticipantID: "00-0019596",
		SecondaryID:   "BRA371156",
		Name:          "Tom Brady",
		ShortName:     "T.Brady",
		FirstName:     "Tom",
		LastName:      "Brady",
		Position:      "QB",
		Number:        12,
		Status:        "ACT",
		HeightCM:      193,
		WeightKG:      102,
		BirthDate:     "1977-08-03",
		Age:           42,
		Experience:    20,
		College:       "Michigan",
		Team:          "NE",
		Active:        true,
	}, item)
}

func TestClient_FetchProfileNotFound(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).FetchProfile(context.Background(), "00-0000000")
	require.Error(t, err)
	assert.True(t, crerr.Is(err, registry.ErrProfileNotFound))
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_FetchProfileRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(bradyProfile))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).FetchProfile(context.Background(), "00-0019596")
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_RejectsMismatchedProfile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(bradyProfile))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).FetchProfile(context.Background(), "00-0023459")
	require.Error(t, err)
}

func TestParseHeight(t *testing.T) {
	cases := []struct {
		raw  string
		want int
		ok   bool
	}{
		{raw: "6-4", want: 193, ok: true},
		{raw: "76", want: 193, ok: true},
		{raw: "", want: 0, ok: true},
		{raw: "six-four", ok: false},
	}
	for _, tc := range cases {
		got, err := parseHeight(tc.raw)
		if !tc.ok {
			assert.Error(t, err, tc.raw)
			continue
		}
		require.NoError(t, err, tc.raw)
		assert.Equal(t, tc.want, got, tc.raw)
	}
}

func TestAgeAt(t *testing.T) {
	birth := time.Date(1977, 8, 3, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 41, ageAt(birth, time.Date(2019, 8, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 42, ageAt(birth, time.Date(2019, 8, 3, 0, 0, 0, 0, time.UTC)))
}
