package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations of the conversation
// cache. Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS conversations (
	id           TEXT PRIMARY KEY,
	archived     INTEGER NOT NULL DEFAULT 0 CHECK(archived IN (0, 1)),
	position     INTEGER NOT NULL DEFAULT 0,
	subject      TEXT NOT NULL DEFAULT '',
	participants TEXT NOT NULL DEFAULT '[]',
	unread_count INTEGER NOT NULL DEFAULT 0,
	last_message TEXT NOT NULL DEFAULT '',
	updated_at   DATETIME NOT NULL,
	cached_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS messages (
	id              TEXT PRIMARY KEY,
	conversation_id TEXT NOT NULL,
	position        INTEGER NOT NULL DEFAULT 0,
	author          TEXT NOT NULL DEFAULT '{}',
	body            TEXT NOT NULL DEFAULT '',
	attachments     TEXT NOT NULL DEFAULT '[]',
	sent_at         DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_conversations_archived ON conversations(archived, position);
CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id, position);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
