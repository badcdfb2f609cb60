package todo

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Versions must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS todos (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	title      TEXT NOT NULL,
	note       TEXT NOT NULL DEFAULT '',
	due_date   TEXT NOT NULL DEFAULT '',
	priority   TEXT NOT NULL DEFAULT 'medium',
	people     TEXT NOT NULL DEFAULT '[]',
	done       INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE INDEX IF NOT EXISTS idx_todos_done ON todos(done);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}

// LatestVersion is the schema version after all migrations are applied
func LatestVersion() int {
	return migrations[len(migrations)-1].version
}
