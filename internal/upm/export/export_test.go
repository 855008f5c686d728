package export

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/simmons/tupm/internal/upm/database"
)

func TestFlat_OrderedBlocksSortedByName(t *testing.T) {
	accounts := []database.Account{
		{Name: "zebra", User: "z", Password: "zp", URL: "z.example.com", Notes: "last"},
		{Name: "apple", User: "a", Password: "ap", URL: "a.example.com", Notes: "first"},
	}

	out := Flat(accounts)
	expected := "name: apple\n" +
		"user: a\n" +
		"url: a.example.com\n" +
		"password: ap\n" +
		"notes: first\n" +
		"\n" +
		"name: zebra\n" +
		"user: z\n" +
		"url: z.example.com\n" +
		"password: zp\n" +
		"notes: last\n"

	assert.Equal(t, expected, out)
}

func TestFlat_Empty(t *testing.T) {
	assert.Equal(t, "", Flat(nil))
}
