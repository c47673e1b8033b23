package mysql

const upsertCampusSQL = `
INSERT INTO campuses
  (id, name, address, city, lat, lon, image)
VALUES
  (?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  name       = VALUES(name),
  address    = VALUES(address),
  city       = VALUES(city),
  lat        = VALUES(lat),
  lon        = VALUES(lon),
  image      = VALUES(image),
  updated_at = CURRENT_TIMESTAMP
`

const listCampusesSQL = `
SELECT id, name, address, city, lat, lon, image
FROM campuses
ORDER BY id
`

const insertMissSQL = `
INSERT INTO ingest_misses (campus_id, listing, http_status, reason)
VALUES (?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  http_status = VALUES(http_status),
  reason      = VALUES(reason),
  seen_at     = CURRENT_TIMESTAMP
`

// -----------------------------------------------------------------------------
// LISTING TABLES
// -----------------------------------------------------------------------------
// accommodations, restaurants and clinics share one shape: the filterable
// scalars as columns, the full record as a JSON document. %s is the table name
// and only ever comes from the constants in repo.go.

const deleteListingSQL = `DELETE FROM %s WHERE campus_id = ?`

// Row tuples are appended as "(?,?,?,?)".
const insertListingPrefix = "INSERT INTO %s\n  (id, campus_id, name, doc)\nVALUES "

// A record that moved campus keeps its id.
const insertListingOnDup = " ON DUPLICATE KEY UPDATE\n" +
	"  campus_id = VALUES(campus_id),\n" +
	"  name      = VALUES(name),\n" +
	"  doc       = VALUES(doc)\n"

const selectListingSQL = `SELECT doc FROM %s ORDER BY id`

const selectListingByCampusSQL = `SELECT doc FROM %s WHERE campus_id = ? ORDER BY id`
