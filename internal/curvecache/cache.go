// Package curvecache stores mass-radius curve points in SQLite so repeated
// sweeps only integrate the points they have not seen.
package curvecache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/san-kum/nstar/internal/dynamo"
	"github.com/san-kum/nstar/internal/physics"
	"github.com/san-kum/nstar/internal/star"
)

var ErrNotFound = errors.New("curve point not found")

const schema = `CREATE TABLE IF NOT EXISTS curve_points (
	model TEXT NOT NULL,
	integrator TEXT NOT NULL,
	settings TEXT NOT NULL,
	central_density REAL NOT NULL,
	particle_mass REAL NOT NULL,
	mass_solar REAL NOT NULL,
	radius_km REAL NOT NULL,
	status TEXT NOT NULL,
	PRIMARY KEY (model, integrator, settings, central_density, particle_mass)
)`

// Key holds the inputs besides model, central density and particle mass
// that a cached point depends on.
type Key struct {
	Integrator string
	Settings   string
}

// NewKey fingerprints the grid, surface tolerance, equation of state,
// physical constants and Newton options of opts. Central density and
// particle mass are stored as their own columns.
func NewKey(integrator string, opts star.Options) Key {
	g := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	c := opts.Constants
	settings := strings.Join([]string{
		"grid=" + g(opts.Grid.Start) + ":" + g(opts.Grid.End) + ":" + strconv.Itoa(opts.Grid.Points),
		"tol=" + g(opts.SurfaceTolerance),
		"eos=" + g(opts.EOS.K) + ":" + g(opts.EOS.Gamma) + ":" + g(opts.EOS.A),
		"hc=" + g(c.Hc),
		"gf=" + g(c.GravityFactor),
		"msun=" + g(c.SolarMass),
		"newton=" + g(opts.Newton.Tolerance) + ":" + strconv.Itoa(opts.Newton.MaxIter),
	}, " ")
	return Key{Integrator: integrator, Settings: settings}
}

// Cache persists curve points keyed on model, Key, central density and
// particle mass.
type Cache struct {
	sqlDB *sql.DB
}

// Open opens or creates the cache database at path.
func Open(path string) (*Cache, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("cache path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := dropUnkeyed(sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Cache{sqlDB: sqlDB}, nil
}

// dropUnkeyed discards a curve_points table written without the settings
// column; its rows cannot be matched to the options that produced them.
func dropUnkeyed(sqlDB *sql.DB) error {
	var columns, settings int
	err := sqlDB.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(name = 'settings'), 0) FROM pragma_table_info('curve_points')`,
	).Scan(&columns, &settings)
	if err != nil {
		return fmt.Errorf("inspect schema: %w", err)
	}
	if columns == 0 || settings > 0 {
		return nil
	}
	if _, err := sqlDB.Exec(`DROP TABLE curve_points`); err != nil {
		return fmt.Errorf("drop stale curve points: %w", err)
	}
	return nil
}

func (c *Cache) Close() error {
	if c == nil || c.sqlDB == nil {
		return nil
	}
	return c.sqlDB.Close()
}

// Put inserts or replaces one point. Points carrying an error are not
// cached.
func (c *Cache) Put(ctx context.Context, k Key, p star.Point) error {
	if p.Err != nil {
		return fmt.Errorf("refusing to cache failed point: %w", p.Err)
	}
	_, err := c.sqlDB.ExecContext(ctx,
		`INSERT INTO curve_points (
		   model, integrator, settings, central_density, particle_mass,
		   mass_solar, radius_km, status
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (model, integrator, settings, central_density, particle_mass)
		 DO UPDATE SET mass_solar = excluded.mass_solar,
		               radius_km = excluded.radius_km,
		               status = excluded.status`,
		p.Model.String(), k.Integrator, k.Settings, p.CentralDensity, p.ParticleMass,
		p.MassSolar, p.RadiusKm, p.Status.String(),
	)
	if err != nil {
		return fmt.Errorf("put curve point: %w", err)
	}
	return nil
}

// Get returns the cached point or ErrNotFound.
func (c *Cache) Get(ctx context.Context, k Key, model physics.Model, centralDensity, particleMass float64) (star.Point, error) {
	row := c.sqlDB.QueryRowContext(ctx,
		`SELECT mass_solar, radius_km, status FROM curve_points
		 WHERE model = ? AND integrator = ? AND settings = ?
		   AND central_density = ? AND particle_mass = ?`,
		model.String(), k.Integrator, k.Settings, centralDensity, particleMass,
	)

	p := star.Point{Model: model, CentralDensity: centralDensity, ParticleMass: particleMass}
	var status string
	if err := row.Scan(&p.MassSolar, &p.RadiusKm, &status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return star.Point{}, ErrNotFound
		}
		return star.Point{}, fmt.Errorf("get curve point: %w", err)
	}
	st, err := parseStatus(status)
	if err != nil {
		return star.Point{}, err
	}
	p.Status = st
	return p, nil
}

// List returns every cached point for one curve, ordered by particle mass.
func (c *Cache) List(ctx context.Context, k Key, model physics.Model, centralDensity float64) ([]star.Point, error) {
	rows, err := c.sqlDB.QueryContext(ctx,
		`SELECT particle_mass, mass_solar, radius_km, status FROM curve_points
		 WHERE model = ? AND integrator = ? AND settings = ? AND central_density = ?
		 ORDER BY particle_mass`,
		model.String(), k.Integrator, k.Settings, centralDensity,
	)
	if err != nil {
		return nil, fmt.Errorf("list curve points: %w", err)
	}
	defer rows.Close()

	var points []star.Point
	for rows.Next() {
		p := star.Point{Model: model, CentralDensity: centralDensity}
		var status string
		if err := rows.Scan(&p.ParticleMass, &p.MassSolar, &p.RadiusKm, &status); err != nil {
			return nil, fmt.Errorf("scan curve point: %w", err)
		}
		if p.Status, err = parseStatus(status); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate curve points: %w", err)
	}
	return points, nil
}

func parseStatus(s string) (dynamo.Status, error) {
	switch s {
	case dynamo.Converged.String():
		return dynamo.Converged, nil
	case dynamo.Truncated.String():
		return dynamo.Truncated, nil
	}
	return 0, fmt.Errorf("unknown status %q in cache", s)
}
