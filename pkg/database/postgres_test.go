package database

import (
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/korey-h/api-yamdb/pkg/utils"
)

func TestConnString(t *testing.T) {
	config := utils.DatabaseConfig{
		Host:     "db.internal",
		Port:     "5433",
		Name:     "yamdb",
		User:     "api",
		Password: "pw",
	}

	parsed, err := pgx.ParseConfig(ConnString(config))
	require.NoError(t, err)

	assert.Equal(t, "db.internal", parsed.Host)
	assert.Equal(t, uint16(5433), parsed.Port)
	assert.Equal(t, "yamdb", parsed.Database)
	assert.Equal(t, "api", parsed.User)
	assert.Equal(t, "pw", parsed.Password)
}

func TestConnStringEscapesCredentials(t *testing.T) {
	passwords := []string{
		"with space",
		`quo'te"s`,
		"p@ss:w/rd?#%",
		`back\slash=`,
	}

	for _, password := range passwords {
		t.Run(password, func(t *testing.T) {
			config := utils.DatabaseConfig{
				Host:     "localhost",
				Port:     "5432",
				Name:     "yamdb",
				User:     "api user",
				Password: password,
			}

			parsed, err := pgx.ParseConfig(ConnString(config))
			require.NoError(t, err)
			assert.Equal(t, password, parsed.Password)
			assert.Equal(t, "api user", parsed.User)
			assert.Equal(t, "yamdb", parsed.Database)
		})
	}
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrations.ReadDir("migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, "00001_init.sql", entries[0].Name())
}
