package db

const schema = `
-- Performance and reliability settings
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- Posts table: one row per cafe post, keyed by URL
CREATE TABLE IF NOT EXISTS posts (
    post_id INTEGER PRIMARY KEY AUTOINCREMENT,
    url TEXT NOT NULL UNIQUE,
    title TEXT,
    author TEXT,
    cafe_name TEXT,
    content TEXT NOT NULL,
    extraction_method TEXT NOT NULL,
    quality_score REAL NOT NULL DEFAULT 0,
    success BOOLEAN NOT NULL DEFAULT 0,
    error_message TEXT,
    uploaded BOOLEAN NOT NULL DEFAULT 0,
    extracted_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_posts_cafe ON posts(cafe_name);
CREATE INDEX IF NOT EXISTS idx_posts_method ON posts(extraction_method);
CREATE INDEX IF NOT EXISTS idx_posts_success ON posts(success);
CREATE INDEX IF NOT EXISTS idx_posts_uploaded ON posts(uploaded) WHERE uploaded = 0;
`
