package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"campus_life/internal/domain"
)

const (
	tableAccommodations = "accommodations"
	tableRestaurants    = "restaurants"
	tableClinics        = "clinics"
)

// rows per INSERT statement
const insertBatch = 200

func valF64(f float64) any {
	if f == 0 {
		return nil
	}
	return f
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

var (
	_ domain.DirectoryRepository = (*Repo)(nil)
)

func (r *Repo) UpsertCampus(ctx context.Context, c domain.Campus) error {
	_, err := r.db.ExecContext(ctx, upsertCampusSQL,
		c.ID,
		c.Name,
		c.Address,
		c.City,
		valF64(c.Latitude),
		valF64(c.Longitude),
		c.Image,
	)
	return err
}

func (r *Repo) ListCampuses(ctx context.Context) ([]domain.Campus, error) {
	rows, err := r.db.QueryContext(ctx, listCampusesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Campus, 0)
	for rows.Next() {
		var c domain.Campus
		var lat, lon sql.NullFloat64
		if err := rows.Scan(&c.ID, &c.Name, &c.Address, &c.City, &lat, &lon, &c.Image); err != nil {
			return nil, err
		}
		c.Latitude, c.Longitude = lat.Float64, lon.Float64
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) ListAccommodations(ctx context.Context, s domain.Scope) ([]domain.Accommodation, error) {
	return listDocs[domain.Accommodation](ctx, r.db, tableAccommodations, s)
}

func (r *Repo) ListRestaurants(ctx context.Context, s domain.Scope) ([]domain.Restaurant, error) {
	return listDocs[domain.Restaurant](ctx, r.db, tableRestaurants, s)
}

func (r *Repo) ListClinics(ctx context.Context, s domain.Scope) ([]domain.Clinic, error) {
	return listDocs[domain.Clinic](ctx, r.db, tableClinics, s)
}

func (r *Repo) ReplaceAccommodations(ctx context.Context, campusID int64, rs []domain.Accommodation) error {
	return replaceDocs(ctx, r.db, tableAccommodations, campusID, rs, func(a domain.Accommodation) (int64, string) { return a.ID, a.Name })
}

func (r *Repo) ReplaceRestaurants(ctx context.Context, campusID int64, rs []domain.Restaurant) error {
	return replaceDocs(ctx, r.db, tableRestaurants, campusID, rs, func(x domain.Restaurant) (int64, string) { return x.ID, x.Name })
}

func (r *Repo) ReplaceClinics(ctx context.Context, campusID int64, rs []domain.Clinic) error {
	return replaceDocs(ctx, r.db, tableClinics, campusID, rs, func(c domain.Clinic) (int64, string) { return c.ID, c.Name })
}

func (r *Repo) LogMiss(ctx context.Context, campusID int64, table string, status int, reason string) error {
	_, err := r.db.ExecContext(ctx, insertMissSQL, campusID, table, status, reason)
	return err
}

// listDocs reads the stored documents of one listing table. A nil campus reads all of them.
func listDocs[T any](ctx context.Context, db *sql.DB, table string, s domain.Scope) ([]T, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if s.CampusID == nil {
		rows, err = db.QueryContext(ctx, fmt.Sprintf(selectListingSQL, table))
	} else {
		rows, err = db.QueryContext(ctx, fmt.Sprintf(selectListingByCampusSQL, table), *s.CampusID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var v T
		if err := json.Unmarshal(doc, &v); err != nil {
			return nil, fmt.Errorf("%s: decode doc: %w", table, err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// replaceDocs swaps a campus' rows inside one transaction.
func replaceDocs[T any](ctx context.Context, db *sql.DB, table string, campusID int64, items []T, key func(T) (int64, string)) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, fmt.Sprintf(deleteListingSQL, table), campusID); err != nil {
		return err
	}

	for start := 0; start < len(items); start += insertBatch {
		end := min(start+insertBatch, len(items))
		values := make([]string, 0, end-start)
		args := make([]any, 0, (end-start)*4)
		for _, it := range items[start:end] {
			doc, mErr := json.Marshal(it)
			if mErr != nil {
				return fmt.Errorf("%s: encode doc: %w", table, mErr)
			}
			id, name := key(it)
			values = append(values, "(?,?,?,?)")
			args = append(args, id, campusID, name, string(doc))
		}
		q := fmt.Sprintf(insertListingPrefix, table) + strings.Join(values, ",") + insertListingOnDup
		if _, err = tx.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}
	return tx.Commit()
}
