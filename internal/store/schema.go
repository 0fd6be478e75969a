package store

// schema contains the DDL executed on every open. Using IF NOT EXISTS makes
// it safe to run on an existing catalog. Cascade rules and the item target
// CHECK are part of the on-disk contract and must not drift.
const schema = `
CREATE TABLE IF NOT EXISTS systems (
    id                  INTEGER PRIMARY KEY AUTOINCREMENT,
    name                TEXT NOT NULL,
    overall_assembly_id INTEGER,
    FOREIGN KEY (overall_assembly_id) REFERENCES assemblies(id)
);

CREATE TABLE IF NOT EXISTS assemblies (
    id                 INTEGER PRIMARY KEY AUTOINCREMENT,
    name               TEXT NOT NULL,
    file_location      TEXT NOT NULL,
    image              TEXT,
    system_id          INTEGER,
    parent_assembly_id INTEGER,
    FOREIGN KEY (system_id) REFERENCES systems(id),
    FOREIGN KEY (parent_assembly_id) REFERENCES assemblies(id)
);

CREATE TABLE IF NOT EXISTS parts (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    name          TEXT NOT NULL,
    file_location TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS features (
    id      INTEGER PRIMARY KEY AUTOINCREMENT,
    name    TEXT NOT NULL,
    part_id INTEGER NOT NULL,
    FOREIGN KEY (part_id) REFERENCES parts(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS assembly_items (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    assembly_id     INTEGER NOT NULL,
    part_id         INTEGER,
    sub_assembly_id INTEGER,
    instance_name   TEXT NOT NULL,
    FOREIGN KEY (assembly_id) REFERENCES assemblies(id) ON DELETE CASCADE,
    FOREIGN KEY (part_id) REFERENCES parts(id) ON DELETE CASCADE,
    FOREIGN KEY (sub_assembly_id) REFERENCES assemblies(id) ON DELETE CASCADE,
    CHECK ((part_id IS NOT NULL AND sub_assembly_id IS NULL) OR
           (part_id IS NULL AND sub_assembly_id IS NOT NULL))
);

CREATE TABLE IF NOT EXISTS connectors (
    id                INTEGER PRIMARY KEY AUTOINCREMENT,
    type              TEXT NOT NULL CHECK(type IN ('coincident', 'concentric', 'tangent', 'fixed')),
    feature1_id       INTEGER NOT NULL,
    feature2_id       INTEGER NOT NULL,
    assembly_item1_id INTEGER NOT NULL,
    assembly_item2_id INTEGER NOT NULL,
    FOREIGN KEY (feature1_id) REFERENCES features(id) ON DELETE CASCADE,
    FOREIGN KEY (feature2_id) REFERENCES features(id) ON DELETE CASCADE,
    FOREIGN KEY (assembly_item1_id) REFERENCES assembly_items(id) ON DELETE CASCADE,
    FOREIGN KEY (assembly_item2_id) REFERENCES assembly_items(id) ON DELETE CASCADE
);
`

// Tables lists the catalog tables in creation order.
func Tables() []string {
	return []string{"systems", "assemblies", "parts", "features", "assembly_items", "connectors"}
}
