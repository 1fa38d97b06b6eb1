package sqlite

// Schema DDL for the template catalog.
const (
	createTemplates = `CREATE TABLE IF NOT EXISTS templates (
    entry_id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    template_version TEXT NOT NULL,
    format_version TEXT NOT NULL,
    file_count INTEGER NOT NULL,
    size INTEGER NOT NULL,
    path TEXT NOT NULL,
    saved_at TEXT NOT NULL
);`

	idxTemplatesSavedAt = `CREATE INDEX IF NOT EXISTS idx_templates_saved_at ON templates(saved_at);`
)

// schemaDDL lists the statements run on every Attach. All of them are
// idempotent so an existing catalog is kept.
var schemaDDL = []string{
	createTemplates,
	idxTemplatesSavedAt,
}
