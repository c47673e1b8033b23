//go:build integration

package mysql_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus_life/internal/domain"
	mysqlrepo "campus_life/internal/storage/mysql"
)

func migrationsDir() string {
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	return filepath.Join("..", "..", "..", "migrations")
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := migrationsDir()

	ents, err := os.ReadDir(dir)
	require.NoError(t, err, "read migrations dir %s", dir)
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	require.NotEmpty(t, files, "no .sql files in %s", dir)
	sort.Strings(files)

	for _, f := range files {
		b, err := os.ReadFile(f)
		require.NoError(t, err)
		_, err = db.Exec(string(b))
		require.NoError(t, err, "exec %s", f)
	}
}

// startMySQL runs an isolated MySQL and returns a migrated handle.
func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	require.NoError(t, err)

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=campus_life",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/campus_life?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		resource.GetPort("3306/tcp"))

	var db *sql.DB
	require.NoError(t, pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}))
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)
	return db
}

func TestRepo_MySQL_ReplaceAndList(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	require.NoError(t, repo.UpsertCampus(ctx, domain.Campus{ID: 1, Name: "Anggrek", City: "Jakarta", Latitude: -6.2, Longitude: 106.78}))
	require.NoError(t, repo.UpsertCampus(ctx, domain.Campus{ID: 2, Name: "Alam Sutera", City: "Tangerang"}))

	promo := "10% off first month"
	require.NoError(t, repo.ReplaceAccommodations(ctx, 1, []domain.Accommodation{
		{ID: 10, CampusID: 1, Name: "Kost Mawar", Price: 2500000, Gender: domain.GenderFemale, HasWifi: true, HasPromotion: true, PromotionDetails: &promo},
		{ID: 11, CampusID: 1, Name: "Kost Melati", Price: 1800000, Gender: domain.GenderMixed},
	}))
	require.NoError(t, repo.ReplaceAccommodations(ctx, 2, []domain.Accommodation{
		{ID: 20, CampusID: 2, Name: "Kost Anggrek"},
	}))

	campuses, err := repo.ListCampuses(ctx)
	require.NoError(t, err)
	require.Len(t, campuses, 2)
	assert.Equal(t, "Jakarta", campuses[0].City)

	scoped, err := repo.ListAccommodations(ctx, domain.ScopeFor(&campuses[0]))
	require.NoError(t, err)
	require.Len(t, scoped, 2)
	assert.True(t, scoped[0].HasWifi)
	require.NotNil(t, scoped[0].PromotionDetails)
	assert.Equal(t, promo, *scoped[0].PromotionDetails)

	all, err := repo.ListAccommodations(ctx, domain.Scope{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// a second replace drops what the source no longer lists
	require.NoError(t, repo.ReplaceAccommodations(ctx, 1, []domain.Accommodation{{ID: 11, CampusID: 1, Name: "Kost Melati"}}))
	scoped, err = repo.ListAccommodations(ctx, domain.ScopeFor(&campuses[0]))
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.EqualValues(t, 11, scoped[0].ID)
}

func TestRepo_MySQL_EmptyTablesAndMisses(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	clinics, err := repo.ListClinics(ctx, domain.Scope{})
	require.NoError(t, err)
	assert.NotNil(t, clinics)
	assert.Empty(t, clinics)

	require.NoError(t, repo.ReplaceRestaurants(ctx, 3, nil))
	require.NoError(t, repo.LogMiss(ctx, 3, "restaurants", 404, "not found"))
	require.NoError(t, repo.LogMiss(ctx, 3, "restaurants", 403, "forbidden"))

	var status int
	require.NoError(t, db.QueryRow(`SELECT http_status FROM ingest_misses WHERE campus_id = 3 AND listing = 'restaurants'`).Scan(&status))
	assert.Equal(t, 403, status)
}
