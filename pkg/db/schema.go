package db

const schema = `
-- Performance and reliability settings
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- Scans: one row per scan run over an owner address
CREATE TABLE IF NOT EXISTS scans (
    scan_id TEXT PRIMARY KEY,
    owner_address TEXT NOT NULL,
    now_epoch INTEGER NOT NULL,
    started_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    finished_at TIMESTAMP,
    blob_count INTEGER DEFAULT 0,
    deletable_count INTEGER DEFAULT 0,
    failed_count INTEGER DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_scans_owner ON scans(owner_address, started_at DESC);

-- Classifications: per-blob judgment within a scan
CREATE TABLE IF NOT EXISTS classifications (
    classification_id INTEGER PRIMARY KEY AUTOINCREMENT,
    scan_id TEXT NOT NULL,
    blob_id TEXT NOT NULL,
    category TEXT NOT NULL,
    subcategory TEXT,
    importance TEXT NOT NULL,
    deletable BOOLEAN NOT NULL,
    delete_reason TEXT,
    size_bytes INTEGER NOT NULL DEFAULT 0,
    storage_rebate INTEGER NOT NULL DEFAULT 0,
    referenced_by TEXT,          -- JSON array of blob ids
    site_title TEXT,
    is_file_directory BOOLEAN DEFAULT 0,
    FOREIGN KEY (scan_id) REFERENCES scans(scan_id) ON DELETE CASCADE,
    UNIQUE(scan_id, blob_id)
);

CREATE INDEX IF NOT EXISTS idx_classifications_scan ON classifications(scan_id);
CREATE INDEX IF NOT EXISTS idx_classifications_blob ON classifications(blob_id);
CREATE INDEX IF NOT EXISTS idx_classifications_category ON classifications(category);
CREATE INDEX IF NOT EXISTS idx_classifications_deletable ON classifications(deletable) WHERE deletable = 1;
`
