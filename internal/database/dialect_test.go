package database

import "testing"

func TestRewritePlaceholdersToNumbered(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{
			name:  "no placeholders",
			query: "SELECT 1",
			want:  "SELECT 1",
		},
		{
			name:  "single placeholder",
			query: "SELECT * FROM pupils WHERE id = ?",
			want:  "SELECT * FROM pupils WHERE id = $1",
		},
		{
			name:  "multiple placeholders",
			query: "INSERT INTO pupils (username, display_name) VALUES (?, ?)",
			want:  "INSERT INTO pupils (username, display_name) VALUES ($1, $2)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rewritePlaceholdersToNumbered(tt.query); got != tt.want {
				t.Errorf("rewrite = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDialectProperties(t *testing.T) {
	tests := []struct {
		name              string
		dialect           Dialect
		driver            string
		lastInsertID      bool
		migrationsDir     string
		rewritesToNumbers bool
	}{
		{"sqlite", NewSQLiteDialect(), "sqlite3", true, "sqlite", false},
		{"postgres", NewPostgresDialect(), "postgres", false, "postgres", true},
		{"mysql", NewMySQLDialect(), "mysql", true, "mysql", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dialect.DriverName(); got != tt.driver {
				t.Errorf("DriverName = %q, want %q", got, tt.driver)
			}
			if got := tt.dialect.SupportsLastInsertId(); got != tt.lastInsertID {
				t.Errorf("SupportsLastInsertId = %v, want %v", got, tt.lastInsertID)
			}
			if got := tt.dialect.MigrationsDir(); got != tt.migrationsDir {
				t.Errorf("MigrationsDir = %q, want %q", got, tt.migrationsDir)
			}

			rewritten := tt.dialect.RewriteQuery("WHERE a = ? AND b = ?")
			if tt.rewritesToNumbers {
				if rewritten != "WHERE a = $1 AND b = $2" {
					t.Errorf("RewriteQuery = %q", rewritten)
				}
			} else if rewritten != "WHERE a = ? AND b = ?" {
				t.Errorf("RewriteQuery changed query: %q", rewritten)
			}
		})
	}
}
