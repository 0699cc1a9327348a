package db

import (
	"database/sql"
	"fmt"
	"strconv"
)

const currentSchemaVersion = 2

// auditColumns is shared by boards, containers and cards.
const auditColumns = `
	created_by    INTEGER REFERENCES users(id),
	created_time  TEXT NOT NULL,
	changed_by    INTEGER REFERENCES users(id),
	changed_time  TEXT NOT NULL,
	archived      INTEGER NOT NULL DEFAULT 0,
	archived_by   INTEGER REFERENCES users(id),
	archived_time TEXT`

// schemaDDL contains the CREATE TABLE statements for the initial schema.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT
);

CREATE TABLE IF NOT EXISTS users (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	username   TEXT NOT NULL UNIQUE,
	email      TEXT,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS boards (
	id   INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	slug TEXT NOT NULL UNIQUE,` + auditColumns + `
);

CREATE TABLE IF NOT EXISTS members (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	board_id INTEGER NOT NULL REFERENCES boards(id) ON DELETE CASCADE,
	user_id  INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	starred  INTEGER NOT NULL DEFAULT 0,
	position INTEGER NOT NULL DEFAULT 0,
	UNIQUE(board_id, user_id)
);

CREATE TABLE IF NOT EXISTS tags (
	id      INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	name    TEXT NOT NULL UNIQUE,
	color   TEXT NOT NULL DEFAULT '#aaaaaa'
);

CREATE TABLE IF NOT EXISTS labels (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	board_id INTEGER NOT NULL REFERENCES boards(id) ON DELETE CASCADE,
	name     TEXT NOT NULL UNIQUE,
	color    TEXT NOT NULL DEFAULT '#aaaaaa'
);

CREATE TABLE IF NOT EXISTS attachment_types (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	name           TEXT NOT NULL,
	file_extension INTEGER NOT NULL CHECK (file_extension IN (0, 1))
);

CREATE TABLE IF NOT EXISTS attachments (
	id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	board_id           INTEGER NOT NULL REFERENCES boards(id) ON DELETE CASCADE,
	name               TEXT NOT NULL UNIQUE,
	file_path          TEXT NOT NULL,
	attachment_type_id INTEGER REFERENCES attachment_types(id) ON DELETE SET NULL,
	uploaded_by        INTEGER REFERENCES users(id),
	uploaded_time      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS containers (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	board_id INTEGER NOT NULL REFERENCES boards(id) ON DELETE CASCADE,
	name     TEXT NOT NULL UNIQUE,
	slug     TEXT NOT NULL UNIQUE,
	position INTEGER NOT NULL DEFAULT 0,` + auditColumns + `
);

CREATE TABLE IF NOT EXISTS container_labels (
	container_id INTEGER REFERENCES containers(id) ON DELETE CASCADE,
	label_id     INTEGER REFERENCES labels(id) ON DELETE CASCADE,
	PRIMARY KEY (container_id, label_id)
);

CREATE TABLE IF NOT EXISTS container_tags (
	container_id INTEGER REFERENCES containers(id) ON DELETE CASCADE,
	tag_id       INTEGER REFERENCES tags(id) ON DELETE CASCADE,
	PRIMARY KEY (container_id, tag_id)
);

CREATE TABLE IF NOT EXISTS cards (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	container_id INTEGER NOT NULL REFERENCES containers(id) ON DELETE CASCADE,
	name         TEXT NOT NULL UNIQUE,
	slug         TEXT NOT NULL UNIQUE,
	content      TEXT NOT NULL DEFAULT '',
	start_time   TEXT,
	end_time     TEXT,
	complexity   TEXT,
	hours        TEXT,
	position     INTEGER NOT NULL DEFAULT 0,` + auditColumns + `
);

CREATE TABLE IF NOT EXISTS card_members (
	card_id   INTEGER REFERENCES cards(id) ON DELETE CASCADE,
	member_id INTEGER REFERENCES members(id) ON DELETE CASCADE,
	PRIMARY KEY (card_id, member_id)
);

CREATE TABLE IF NOT EXISTS card_labels (
	card_id  INTEGER REFERENCES cards(id) ON DELETE CASCADE,
	label_id INTEGER REFERENCES labels(id) ON DELETE CASCADE,
	PRIMARY KEY (card_id, label_id)
);

CREATE TABLE IF NOT EXISTS card_tags (
	card_id INTEGER REFERENCES cards(id) ON DELETE CASCADE,
	tag_id  INTEGER REFERENCES tags(id) ON DELETE CASCADE,
	PRIMARY KEY (card_id, tag_id)
);

CREATE TABLE IF NOT EXISTS card_attachments (
	card_id       INTEGER REFERENCES cards(id) ON DELETE CASCADE,
	attachment_id INTEGER REFERENCES attachments(id) ON DELETE CASCADE,
	PRIMARY KEY (card_id, attachment_id)
);

CREATE TABLE IF NOT EXISTS activity_log (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	entity_type   TEXT NOT NULL,
	entity_id     INTEGER NOT NULL,
	field_changed TEXT NOT NULL,
	old_value     TEXT,
	new_value     TEXT,
	changed_by    INTEGER REFERENCES users(id),
	created_at    TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_containers_board_position ON containers(board_id, position);
CREATE INDEX IF NOT EXISTS idx_cards_container_position ON cards(container_id, position);
CREATE INDEX IF NOT EXISTS idx_members_user_position ON members(user_id, position);
` + activityIndexDDL

// activityIndexDDL was added in schema version 2.
const activityIndexDDL = `
CREATE INDEX IF NOT EXISTS idx_activity_entity ON activity_log(entity_type, entity_id, created_at);
`

// Initialize creates all tables if they don't exist and sets the schema version.
func Initialize(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(schemaDDL); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	// Set schema version only if not already set.
	_, err = tx.Exec(
		`INSERT OR IGNORE INTO meta (key, value) VALUES ('schema_version', ?)`,
		strconv.Itoa(currentSchemaVersion),
	)
	if err != nil {
		return fmt.Errorf("setting schema version: %w", err)
	}

	return tx.Commit()
}

// SchemaVersion returns the current schema version from the meta table.
func SchemaVersion(db *sql.DB) (int, error) {
	var val string
	err := db.QueryRow(`SELECT value FROM meta WHERE key = 'schema_version'`).Scan(&val)
	if err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}

	v, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("parsing schema version %q: %w", val, err)
	}

	return v, nil
}

// migrations is a list of migration functions keyed by the version they migrate TO.
// For example, migrations[2] migrates from version 1 to version 2.
var migrations = map[int]func(tx *sql.Tx) error{
	2: func(tx *sql.Tx) error {
		_, err := tx.Exec(activityIndexDDL)
		return err
	},
}

// Migrate checks the current schema version and applies any pending migrations
// sequentially. It is a no-op when already at the latest version.
func Migrate(db *sql.DB) error {
	version, err := SchemaVersion(db)
	if err != nil {
		return err
	}

	if version == currentSchemaVersion {
		return nil
	}
	if version > currentSchemaVersion {
		return fmt.Errorf("database schema version %d is newer than this binary supports (%d)", version, currentSchemaVersion)
	}

	for v := version + 1; v <= currentSchemaVersion; v++ {
		migrateFn, ok := migrations[v]
		if !ok {
			return fmt.Errorf("missing migration for version %d", v)
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("beginning migration %d transaction: %w", v, err)
		}

		if err := migrateFn(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("applying migration %d: %w", v, err)
		}

		if _, err := tx.Exec(
			`UPDATE meta SET value = ? WHERE key = 'schema_version'`,
			strconv.Itoa(v),
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("updating schema version to %d: %w", v, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %d: %w", v, err)
		}
	}

	return nil
}
