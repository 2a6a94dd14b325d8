package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "coaching-workers/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/qpv", r.URL.Path)
		assert.Equal(t, "12 rue des Lilas, 93000 Bobigny", r.URL.Query().Get("adresse"))
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"distance_m": 0, "nom_qp": "Abreuvoir"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", "secret", time.Second)
	res, err := client.Lookup(context.Background(), "12 rue des Lilas, 93000 Bobigny")

	require.NoError(t, err)
	require.NotNil(t, res.DistanceMeters)
	assert.Equal(t, 0.0, *res.DistanceMeters)
	assert.Equal(t, "Abreuvoir", *res.ZoneName)
}

func TestLookup_NullAnswer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"distance_m": null, "nom_qp": null}`))
	}))
	defer server.Close()

	res, err := NewClient(server.URL, "", time.Second).Lookup(context.Background(), "somewhere")

	require.NoError(t, err)
	assert.Nil(t, res.DistanceMeters)
	assert.Nil(t, res.ZoneName)
}

func TestLookup_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`not json`))
			},
		},
		{
			name: "timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				time.Sleep(200 * time.Millisecond)
				_, _ = w.Write([]byte(`{"distance_m": 5, "nom_qp": "x"}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			_, err := NewClient(server.URL, "", 50*time.Millisecond).Lookup(context.Background(), "a")

			require.Error(t, err)
			assert.True(t, apperrors.IsExternalUnavailable(err))
		})
	}
}
