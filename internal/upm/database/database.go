// Package database implements the Database facade: opening, saving,
// and editing a UPMv3 password database, including the local backup
// rotation and sync "dirty window" tracking the original Java and Rust
// UPM clients both provide.
package database

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/simmons/tupm/internal/upm/container"
	"github.com/simmons/tupm/internal/upm/flatpack"
)

// syncValidity is how long after a successful sync the database is
// still considered synced. After this window elapses, IsSynced
// reports false again even without further local edits, mirroring the
// Java UPM client's behavior.
const syncValidity = 5 * time.Minute

// Account is a single credential record held by a Database.
type Account struct {
	Name     string
	User     string
	Password string
	URL      string
	Notes    string
}

// Remote describes the sync repository a Database is configured to
// synchronize against.
type Remote struct {
	URL      string
	User     string
	Password string
}

// Database is an in-memory UPMv3 password database, along with the
// bookkeeping (path, passphrase, sync state) needed to save it back to
// disk or upload it to a remote repository.
//
// Database is not safe for concurrent use; callers that share a
// Database across goroutines must serialize access themselves.
type Database struct {
	revision uint32
	remote   Remote
	accounts []Account

	path       string
	dbName     string
	passphrase string
	lastSynced time.Time
}

// New constructs an empty database not yet associated with a file or
// passphrase.
func New() *Database {
	return &Database{}
}

// Open reads and decrypts a UPMv3 database from path using passphrase.
func Open(path, passphrase string) (*Database, error) {
	if err := validatePath(path); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	db, err := decode(raw, passphrase)
	if err != nil {
		return nil, err
	}
	db.path = path
	return db, nil
}

// FromBytes decrypts an in-memory UPMv3 container, such as one just
// downloaded from a remote repository. The returned Database has no
// associated path.
func FromBytes(raw []byte, passphrase string) (*Database, error) {
	return decode(raw, passphrase)
}

func decode(raw []byte, passphrase string) (*Database, error) {
	plaintext, err := container.Decode(raw, passphrase)
	if err != nil {
		return nil, err
	}
	p, err := flatpack.Decode(plaintext)
	if err != nil {
		return nil, err
	}

	accounts := make([]Account, len(p.Accounts))
	for i, a := range p.Accounts {
		accounts[i] = Account{Name: a.Name, User: a.User, Password: a.Password, URL: a.URL, Notes: a.Notes}
	}

	return &Database{
		revision: p.Header.Revision,
		remote: Remote{
			URL:      p.Header.RemoteURL,
			User:     p.Header.RemoteUser,
			Password: p.Header.RemotePassword,
		},
		accounts:   accounts,
		passphrase: passphrase,
	}, nil
}

// Bytes encrypts the database's current contents under its own
// passphrase, for local saving or upload to a remote repository. The
// passphrase must have been set by Open, FromBytes, or SetPassphrase.
func (db *Database) Bytes() ([]byte, error) {
	return db.bytesWithPassphrase(db.passphrase)
}

// BytesWithPassphrase encrypts the database's current contents under
// an explicitly provided passphrase, without changing the Database's
// own stored passphrase. It is used when changing a database's
// passphrase (re-encrypt under the new one, then SetPassphrase on
// success).
func (db *Database) BytesWithPassphrase(passphrase string) ([]byte, error) {
	return db.bytesWithPassphrase(passphrase)
}

func (db *Database) bytesWithPassphrase(passphrase string) ([]byte, error) {
	plaintext, err := flatpack.Encode(flatpack.Payload{
		Header: flatpack.Header{
			Revision:       db.revision,
			RemoteURL:      db.remote.URL,
			RemoteUser:     db.remote.User,
			RemotePassword: db.remote.Password,
		},
		Accounts: toFlatpackAccounts(db.accounts),
	})
	if err != nil {
		return nil, err
	}
	return container.Encode(plaintext, passphrase)
}

func toFlatpackAccounts(accounts []Account) []flatpack.Account {
	out := make([]flatpack.Account, len(accounts))
	for i, a := range accounts {
		out[i] = flatpack.Account{Name: a.Name, User: a.User, Password: a.Password, URL: a.URL, Notes: a.Notes}
	}
	return out
}

// Save writes the database back to the file it was opened from,
// first backing up the pre-existing file (see MaxBackupFiles). It
// fails with ErrNoPath if the database has no associated path, as is
// the case for a freshly created or remote-only Database.
func (db *Database) Save() error {
	if db.path == "" {
		return ErrNoPath
	}
	return db.SaveAs(db.path)
}

// SaveAs writes the database to path, creating a timestamped backup of
// any pre-existing file at path first. The write is atomic: it writes
// to a temporary sibling file and renames it into place, so a failure
// partway through never destroys the previous contents at path.
//
// On success, path becomes the database's associated path for future
// calls to Save.
func (db *Database) SaveAs(path string) error {
	if err := validatePath(path); err != nil {
		return err
	}

	db.revision++
	data, err := db.Bytes()
	if err != nil {
		db.revision--
		return err
	}

	if err := writeContainer(path, data); err != nil {
		db.revision--
		return err
	}

	db.path = path
	return nil
}

// WriteContainer atomically replaces path with raw container bytes,
// backing up any existing file first. It is used when adopting a
// database downloaded from a remote repository verbatim, so the local
// file stays byte-identical to what the repository holds.
func WriteContainer(path string, data []byte) error {
	if err := validatePath(path); err != nil {
		return err
	}
	return writeContainer(path, data)
}

func writeContainer(path string, data []byte) error {
	if err := backupLocal(path); err != nil {
		return err
	}

	tmpPath := path + ".tmp"
	if err := os.Remove(tmpPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

func validatePath(path string) error {
	if !utf8.ValidString(path) {
		return ErrPathNotUnicode
	}
	if filepath.Base(path) == "." || filepath.Base(path) == string(filepath.Separator) {
		return ErrInvalidPath
	}
	return nil
}

// DBNameFromPath returns the database name a remote sync repository
// would use for path: its base filename with any ".db" extension
// stripped.
func DBNameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, ".db")
}

// Path returns the filesystem path this database was opened from or
// last saved to, or "" if it has none.
func (db *Database) Path() string { return db.path }

// DBName returns the name a remote repository knows this database by:
// the name set with SetDBName if any, otherwise the name derived from
// the database's path.
func (db *Database) DBName() string {
	if db.dbName != "" {
		return db.dbName
	}
	return DBNameFromPath(db.path)
}

// SetDBName overrides the database's remote repository name, which
// otherwise defaults to the path-derived name.
func (db *Database) SetDBName(name string) { db.dbName = name }

// Passphrase returns the passphrase currently associated with this
// database.
func (db *Database) Passphrase() string { return db.passphrase }

// SetPassphrase changes the passphrase used by Bytes and Save. It does
// not itself re-save the database; call Save afterward to persist the
// change.
func (db *Database) SetPassphrase(passphrase string) { db.passphrase = passphrase }

// Revision returns the database's current sync revision number.
func (db *Database) Revision() uint32 { return db.revision }

// SetRevision overrides the database's sync revision number, used when
// adopting a revision downloaded from a remote repository.
func (db *Database) SetRevision(revision uint32) { db.revision = revision }

// Remote returns the database's configured remote sync repository. A
// zero Remote means HasRemote reports false.
func (db *Database) Remote() Remote { return db.remote }

// HasRemote reports whether this database has a remote sync
// repository configured, per its URL field. An empty RemoteURL with a
// non-empty account list, or vice versa, are independent states: a
// database can have a remote configured with zero accounts, or many
// accounts with no remote.
func (db *Database) HasRemote() bool { return db.remote.URL != "" }

// SetRemote configures the database's remote sync repository.
func (db *Database) SetRemote(remote Remote) { db.remote = remote }

// ClearRemote removes the database's remote sync repository
// configuration.
func (db *Database) ClearRemote() { db.remote = Remote{} }

// Accounts returns the database's accounts, sorted by name in
// case-sensitive byte order. The returned slice is a copy; mutating it
// does not affect the database.
func (db *Database) Accounts() []Account {
	out := make([]Account, len(db.accounts))
	copy(out, db.accounts)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Account returns the named account. It returns ErrNotFound if no
// account with that name exists.
func (db *Database) Account(name string) (Account, error) {
	for _, a := range db.accounts {
		if a.Name == name {
			return a, nil
		}
	}
	return Account{}, fmt.Errorf("%w: %q", ErrNotFound, name)
}

// AddAccount adds a new account to the database. It returns
// ErrNameConflict if an account with that name already exists.
func (db *Database) AddAccount(a Account) error {
	if db.contains(a.Name) {
		return fmt.Errorf("%w: %q", ErrNameConflict, a.Name)
	}
	db.accounts = append(db.accounts, a)
	return nil
}

// UpdateAccount replaces the account named name with updated, which
// may itself carry a new name. It returns ErrNotFound if name doesn't
// exist, or ErrNameConflict if updated.Name collides with a different
// existing account.
func (db *Database) UpdateAccount(name string, updated Account) error {
	idx := -1
	for i, a := range db.accounts {
		if a.Name == name {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if updated.Name != name && db.contains(updated.Name) {
		return fmt.Errorf("%w: %q", ErrNameConflict, updated.Name)
	}
	db.accounts[idx] = updated
	return nil
}

// DeleteAccount removes the named account. It returns ErrNotFound if
// no account with that name exists.
func (db *Database) DeleteAccount(name string) error {
	if !db.contains(name) {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	out := db.accounts[:0]
	for _, a := range db.accounts {
		if a.Name != name {
			out = append(out, a)
		}
	}
	db.accounts = out
	return nil
}

func (db *Database) contains(name string) bool {
	for _, a := range db.accounts {
		if a.Name == name {
			return true
		}
	}
	return false
}

// MarkUploaded increments the database's revision to reflect a
// successful sync-upload and records the database as synced. It is
// for consumers that upload a container without re-saving afterward;
// callers that Save after uploading must not also call MarkUploaded,
// since Save performs its own increment. It must not be called before
// the upload is confirmed successful.
func (db *Database) MarkUploaded() {
	db.revision++
	db.MarkSynced()
}

// MarkSynced records that the database was just successfully
// synchronized with its remote repository at the current revision.
func (db *Database) MarkSynced() { db.lastSynced = time.Now() }

// IsSynced reports whether the database has been successfully synced
// within the last syncValidity window. A database that has never been
// synced, or whose last sync has aged out, reports false.
func (db *Database) IsSynced() bool {
	return !db.lastSynced.IsZero() && time.Since(db.lastSynced) < syncValidity
}
