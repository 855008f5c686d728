package syncsrv

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"github.com/simmons/tupm/internal/upm/syncsrv/store"
)

func newTestServer(t *testing.T) (*httptest.Server, store.Store) {
	t.Helper()
	st := store.NewMemory()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := New(st, Credentials{User: "alice", Password: "s3kr3t"}, log)
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return ts, st
}

func authed(req *http.Request) *http.Request {
	req.SetBasicAuth("alice", "s3kr3t")
	return req
}

func TestServer_RejectsMissingAuth(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/mydb.db")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestServer_DownloadNotFound(t *testing.T) {
	ts, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/mydb.db", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(authed(req))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_UploadThenDownload(t *testing.T) {
	ts, _ := newTestServer(t)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("userfile", "mydb.db")
	require.NoError(t, err)
	_, err = part.Write([]byte("container-bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.WriteField("db", "mydb"))
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/upload.php", &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp, err := http.DefaultClient.Do(authed(req))
	require.NoError(t, err)
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "OK", string(respBody))

	downloadReq, err := http.NewRequest(http.MethodGet, ts.URL+"/mydb.db", nil)
	require.NoError(t, err)
	downloadResp, err := http.DefaultClient.Do(authed(downloadReq))
	require.NoError(t, err)
	defer downloadResp.Body.Close()
	downloaded, err := io.ReadAll(downloadResp.Body)
	require.NoError(t, err)
	assert.Equal(t, "container-bytes", string(downloaded))
}

func TestServer_RevisionProbe(t *testing.T) {
	ts, st := newTestServer(t)
	_, err := st.Put(context.Background(), "mydb", []byte("v1"))
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/getdbrevision.php?db=mydb", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(authed(req))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "1", string(body))
}

func TestServer_RevisionProbe_UnknownDatabaseReturnsZero(t *testing.T) {
	ts, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/getdbrevision.php?db=neverseen", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(authed(req))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "0", string(body))
}

func TestServer_Delete(t *testing.T) {
	ts, st := newTestServer(t)
	_, err := st.Put(context.Background(), "mydb", []byte("v1"))
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/deletedb.php?db=mydb", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(authed(req))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	_, _, err = st.Get(context.Background(), "mydb")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
