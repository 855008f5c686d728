// Package export produces a deterministic, human-readable text
// rendering of a database's accounts, with no redaction of secrets.
// It is meant for local inspection or migration, never for transport.
package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/simmons/tupm/internal/upm/database"
)

// Flat renders accounts as plain text: one block per account with
// fields in the order name, user, url, password, notes, separated by a
// blank line between blocks. Accounts are sorted by name.
func Flat(accounts []database.Account) string {
	sorted := make([]database.Account, len(accounts))
	copy(sorted, accounts)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	var b strings.Builder
	for i, a := range sorted {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "name: %s\n", a.Name)
		fmt.Fprintf(&b, "user: %s\n", a.User)
		fmt.Fprintf(&b, "url: %s\n", a.URL)
		fmt.Fprintf(&b, "password: %s\n", a.Password)
		fmt.Fprintf(&b, "notes: %s\n", a.Notes)
	}
	return b.String()
}
