package supabase

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-labs/deptchat/internal/core/domain"
)

func newTestStore(t *testing.T, handler http.HandlerFunc) *Store {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store, err := NewStore(Config{
		ProjectURL:        server.URL,
		APIKey:            "test-key",
		Bucket:            "pdfs",
		RequestsPerSecond: 1000,
	})
	require.NoError(t, err)
	return store
}

func TestNewStoreValidation(t *testing.T) {
	_, err := NewStore(Config{APIKey: "key"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = NewStore(Config{ProjectURL: "https://proj.supabase.co"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestList(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/storage/v1/object/list/pdfs", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req listRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, DefaultListPageSize, req.Limit)

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[
			{"name": "handbook.pdf", "metadata": {"size": 1024}},
			{"name": "fees.xlsx", "metadata": {"size": 2048}},
			{"name": ".emptyFolderPlaceholder", "metadata": null}
		]`)
	})

	files, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "handbook.pdf", files[0].Name)
	assert.Equal(t, int64(1024), files[0].Size)
	assert.Equal(t, "fees.xlsx", files[1].Name)
}

func TestListPaginates(t *testing.T) {
	var offsets []int
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		var req listRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		offsets = append(offsets, req.Offset)

		w.Header().Set("Content-Type", "application/json")
		if req.Offset == 0 {
			// A full page forces a second request.
			entries := make([]listEntry, DefaultListPageSize)
			for i := range entries {
				entries[i] = listEntry{Name: "doc.pdf", Metadata: &struct {
					Size int64 `json:"size"`
				}{Size: 1}}
			}
			require.NoError(t, json.NewEncoder(w).Encode(entries))
			return
		}
		io.WriteString(w, `[]`)
	})

	files, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, files, DefaultListPageSize)
	assert.Equal(t, []int{0, DefaultListPageSize}, offsets)
}

func TestListServerError(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"message": "bucket not found"}`, http.StatusNotFound)
	})

	_, err := store.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestDownload(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/storage/v1/object/public/pdfs/handbook.pdf", r.URL.Path)
		io.WriteString(w, "pdf bytes")
	})

	data, err := store.Download(context.Background(), "handbook.pdf")
	require.NoError(t, err)
	assert.Equal(t, "pdf bytes", string(data))
}

func TestDownloadMissingObject(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"message": "Object not found"}`, http.StatusNotFound)
	})

	_, err := store.Download(context.Background(), "missing.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.pdf")
}

func TestUpload(t *testing.T) {
	var uploaded []byte
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/storage/v1/object/pdfs/notes.txt", r.URL.Path)
		assert.Equal(t, "true", r.Header.Get("x-upsert"))

		var err error
		uploaded, err = io.ReadAll(r.Body)
		require.NoError(t, err)
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, store.Upload(context.Background(), "notes.txt", []byte("lecture notes")))
	assert.Equal(t, "lecture notes", string(uploaded))
}

func TestDelete(t *testing.T) {
	var deleted deleteRequest
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/storage/v1/object/pdfs", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&deleted))
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, store.Delete(context.Background(), []string{"old.pdf", "stale.txt"}))
	assert.Equal(t, []string{"old.pdf", "stale.txt"}, deleted.Prefixes)
}

func TestDeleteNothing(t *testing.T) {
	store := newTestStore(t, func(_ http.ResponseWriter, _ *http.Request) {
		t.Fatal("no request expected for an empty delete")
	})

	require.NoError(t, store.Delete(context.Background(), nil))
}

func TestPublicURL(t *testing.T) {
	store, err := NewStore(Config{
		ProjectURL: "https://proj.supabase.co/",
		APIKey:     "key",
	})
	require.NoError(t, err)

	assert.Equal(t,
		"https://proj.supabase.co/storage/v1/object/public/pdfs/course%20plan.pdf",
		store.PublicURL("course plan.pdf"),
	)
}
