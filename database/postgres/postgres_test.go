package postgres

import (
	"strings"
	"testing"
)

func TestDSN(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "")
	t.Setenv("DB_USER", "voice")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "")
	t.Setenv("DB_SSLMODE", "require")

	dsn := DSN()

	for _, part := range []string{"host=db.internal", "port=5432", "user=voice", "password=secret", "dbname=braille_voice", "sslmode=require"} {
		if !strings.Contains(dsn, part) {
			t.Errorf("expected %q in %q", part, dsn)
		}
	}
}
