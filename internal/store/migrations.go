package store

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id                   INTEGER PRIMARY KEY AUTOINCREMENT,
    kind                 TEXT NOT NULL,
    input                TEXT NOT NULL DEFAULT '',
    final_score          REAL NOT NULL DEFAULT 0,
    positive_score       REAL NOT NULL DEFAULT 0,
    negative_score       REAL NOT NULL DEFAULT 0,
    diversity_multiplier REAL NOT NULL DEFAULT 1,
    oon_multiplier       REAL NOT NULL DEFAULT 1,
    age_multiplier       REAL NOT NULL DEFAULT 1,
    video_bonus          BOOLEAN NOT NULL DEFAULT 0,
    interpretation       TEXT NOT NULL DEFAULT '',
    recommendations      TEXT NOT NULL DEFAULT '[]',
    weights_version      TEXT NOT NULL DEFAULT '',
    created_at           DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_kind ON runs(kind);
CREATE INDEX IF NOT EXISTS idx_runs_final_score ON runs(final_score);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`
