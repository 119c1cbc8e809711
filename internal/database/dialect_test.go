package database

import (
	"testing"
)

func TestParseDialect(t *testing.T) {
	for _, name := range []string{"postgres", "mysql", "sqlite"} {
		d, err := ParseDialect(name)
		if err != nil {
			t.Errorf("ParseDialect(%q) error: %v", name, err)
		}
		if string(d) != name {
			t.Errorf("ParseDialect(%q) = %q", name, d)
		}
	}

	if _, err := ParseDialect("oracle"); err == nil {
		t.Error("expected error for unsupported driver")
	}
}

func TestBindLimit(t *testing.T) {
	tests := []struct {
		dialect Dialect
		want    int
	}{
		{Postgres, 65535},
		{MySQL, 65535},
		{SQLite, 32766},
	}

	for _, tt := range tests {
		if got := tt.dialect.BindLimit(); got != tt.want {
			t.Errorf("%s.BindLimit() = %d, want %d", tt.dialect, got, tt.want)
		}
	}
}

func TestRebind(t *testing.T) {
	q := "SELECT name FROM worlds WHERE world_id = ? AND data_center_id = ?"

	if got := SQLite.Rebind(q); got != q {
		t.Errorf("SQLite.Rebind() = %q, want unchanged", got)
	}
	if got := MySQL.Rebind(q); got != q {
		t.Errorf("MySQL.Rebind() = %q, want unchanged", got)
	}

	want := "SELECT name FROM worlds WHERE world_id = $1 AND data_center_id = $2"
	if got := Postgres.Rebind(q); got != want {
		t.Errorf("Postgres.Rebind() = %q, want %q", got, want)
	}
}

func TestInsertIgnore(t *testing.T) {
	cols := []string{"item_id", "name"}

	tests := []struct {
		dialect Dialect
		want    string
	}{
		{Postgres, "INSERT INTO items (item_id, name) VALUES (?, ?), (?, ?) ON CONFLICT DO NOTHING"},
		{MySQL, "INSERT IGNORE INTO items (item_id, name) VALUES (?, ?), (?, ?)"},
		{SQLite, "INSERT OR IGNORE INTO items (item_id, name) VALUES (?, ?), (?, ?)"},
	}

	for _, tt := range tests {
		t.Run(string(tt.dialect), func(t *testing.T) {
			if got := tt.dialect.InsertIgnore("items", cols, 2); got != tt.want {
				t.Errorf("InsertIgnore() =\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}

func TestUpsert(t *testing.T) {
	cols := []string{"item_id", "world_id", "sale_score"}
	keys := []string{"item_id", "world_id"}

	tests := []struct {
		dialect Dialect
		want    string
	}{
		{Postgres, "INSERT INTO t (item_id, world_id, sale_score) VALUES (?, ?, ?) ON CONFLICT (item_id, world_id) DO UPDATE SET sale_score = excluded.sale_score"},
		{SQLite, "INSERT INTO t (item_id, world_id, sale_score) VALUES (?, ?, ?) ON CONFLICT (item_id, world_id) DO UPDATE SET sale_score = excluded.sale_score"},
		{MySQL, "INSERT INTO t (item_id, world_id, sale_score) VALUES (?, ?, ?) ON DUPLICATE KEY UPDATE sale_score = VALUES(sale_score)"},
	}

	for _, tt := range tests {
		t.Run(string(tt.dialect), func(t *testing.T) {
			if got := tt.dialect.Upsert("t", cols, keys, 1); got != tt.want {
				t.Errorf("Upsert() =\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}

func TestInClause(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{1, "(?)"},
		{3, "(?, ?, ?)"},
	}

	for _, tt := range tests {
		if got := InClause(tt.n); got != tt.want {
			t.Errorf("InClause(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
