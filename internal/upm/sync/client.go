// Package sync implements the UPM HTTP sync protocol client: a small,
// fixed set of GET/POST endpoints under a base URL, authenticated with
// HTTP Basic auth, used to exchange encrypted database containers with
// a remote repository.
package sync

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/exp/slog"
)

const defaultTimeout = 30 * time.Second

// Client speaks the UPM sync protocol against a single remote
// repository base URL.
type Client struct {
	httpClient *http.Client
	baseURL    string
	user       string
	password   string
	log        *slog.Logger
}

// NewClient constructs a Client for baseURL, authenticating every
// request with HTTP Basic auth using user/password. baseURL has no
// trailing slash requirement; a trailing slash is trimmed here.
func NewClient(baseURL, user, password string) *Client {
	base := &Client{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		user:     user,
		password: password,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	httpClient := &http.Client{Timeout: defaultTimeout}
	httpClient.CheckRedirect = base.checkRedirect
	base.httpClient = httpClient
	return base
}

// SetTimeout overrides the client's request timeout, which defaults
// to 30 seconds.
func (c *Client) SetTimeout(d time.Duration) {
	c.httpClient.Timeout = d
}

// SetLogger replaces the client's logger, which defaults to a discard
// logger. Protocol detail is logged at debug level; credentials and
// container contents are never logged.
func (c *Client) SetLogger(log *slog.Logger) {
	if log != nil {
		c.log = log
	}
}

// checkRedirect enforces that redirects stay within the same scheme
// and host the Client was configured with: a TLS downgrade or
// cross-host redirect would leak the Basic auth credentials to an
// untrusted origin.
func (c *Client) checkRedirect(req *http.Request, via []*http.Request) error {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return err
	}
	if req.URL.Scheme != base.Scheme || req.URL.Host != base.Host {
		return fmt.Errorf("%w: %s", ErrCrossOriginRedirect, req.URL)
	}
	return nil
}

// Download fetches the raw, still-encrypted container bytes for
// dbName from the remote repository. It does not require the UPM
// database passphrase; decoding is the caller's responsibility.
func (c *Client) Download(ctx context.Context, dbName string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+dbName+".db", nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.user, c.password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	c.log.Debug("downloaded database", slog.String("db", dbName), slog.Int("bytes", len(data)))
	return data, nil
}

// ProbeRevision queries the remote repository's current revision for
// dbName without downloading the full database.
func (c *Client) ProbeRevision(ctx context.Context, dbName string) (uint32, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/getdbrevision.php?db="+url.QueryEscape(dbName), nil)
	if err != nil {
		return 0, err
	}
	req.SetBasicAuth(c.user, c.password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return 0, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, err
	}

	revision, err := strconv.ParseUint(strings.TrimSpace(string(body)), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("sync: malformed revision response %q: %w", body, err)
	}
	c.log.Debug("probed remote revision", slog.String("db", dbName), slog.Uint64("revision", revision))
	return uint32(revision), nil
}

// Upload uploads container, the encrypted bytes of a database whose
// revision is localRevision, as dbName. It first probes the remote
// revision; if the remote is already ahead of localRevision, it
// returns a *RemoteNewerError and makes no upload attempt.
func (c *Client) Upload(ctx context.Context, dbName string, localRevision uint32, container []byte) error {
	remoteRevision, err := c.ProbeRevision(ctx, dbName)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	if err == nil && remoteRevision > localRevision {
		return &RemoteNewerError{Local: localRevision, Remote: remoteRevision}
	}

	return c.upload(ctx, dbName, container)
}

func (c *Client) upload(ctx context.Context, dbName string, container []byte) error {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("userfile", dbName+".db")
	if err != nil {
		return err
	}
	if _, err := part.Write(container); err != nil {
		return err
	}
	if err := writer.WriteField("db", dbName); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload.php", &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.SetBasicAuth(c.user, c.password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(strings.TrimSpace(string(respBody)), "OK") {
		return fmt.Errorf("%w: %s", ErrUploadRejected, strings.TrimSpace(string(respBody)))
	}

	c.log.Debug("uploaded database", slog.String("db", dbName), slog.Int("bytes", len(container)))
	return nil
}

// Delete removes the named database from the remote repository. It is
// not required by the core sync flow but is part of the protocol.
func (c *Client) Delete(ctx context.Context, dbName string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/deletedb.php?db="+url.QueryEscape(dbName), nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.user, c.password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	return nil
}

// UploadWithBackup uploads a timestamped backup copy of container
// under dbName's backup naming convention before uploading the
// primary database itself. The primary upload relies on the remote
// repository's insert-or-update semantics to replace any existing
// database at dbName; no delete step is involved. Uploading the
// backup first means a failure during the primary upload never loses
// data outright.
func (c *Client) UploadWithBackup(ctx context.Context, dbName string, localRevision uint32, container []byte, backupSuffix string) error {
	backupName := dbName + "." + backupSuffix
	if err := c.upload(ctx, backupName, container); err != nil {
		return fmt.Errorf("sync: uploading backup %q: %w", backupName, err)
	}

	return c.Upload(ctx, dbName, localRevision, container)
}
