package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/nstar/internal/star"
)

const (
	metadataFile = "metadata.json"
	profileFile  = "profile.csv"
)

var profileHeader = []string{"r_km", "m_solar", "p_mev_fm3"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID               string             `json:"id"`
	Model            string             `json:"model"`
	Integrator       string             `json:"integrator"`
	Timestamp        time.Time          `json:"timestamp"`
	ParticleMass     float64            `json:"particle_mass"`
	CentralDensity   float64            `json:"central_density"`
	RMax             float64            `json:"r_max"`
	Points           int                `json:"points"`
	SurfaceTolerance float64            `json:"surface_tolerance"`
	Status           string             `json:"status"`
	StopIndex        int                `json:"stop_index"`
	InitialDensity   float64            `json:"initial_density"`
	NewtonIterations int                `json:"newton_iterations"`
	MassSolar        float64            `json:"mass_solar"`
	RadiusKm         float64            `json:"radius_km"`
	M0               float64            `json:"m0"`
	R0               float64            `json:"r0"`
	Metrics          map[string]float64 `json:"metrics"`
}

// Save writes one run as <base>/<id>/metadata.json and profile.csv.
func (s *Store) Save(integrator string, opts star.Options, res *star.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", res.Model, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:               runID,
		Model:            res.Model.String(),
		Integrator:       integrator,
		Timestamp:        now,
		ParticleMass:     res.ParticleMass,
		CentralDensity:   res.CentralDensity,
		RMax:             opts.Grid.End,
		Points:           opts.Grid.Points,
		SurfaceTolerance: opts.SurfaceTolerance,
		Status:           res.Status.String(),
		StopIndex:        res.StopIndex,
		InitialDensity:   res.InitialDensity,
		NewtonIterations: res.NewtonIterations,
		MassSolar:        res.SurfaceMassSolar,
		RadiusKm:         res.SurfaceRadiusKm,
		M0:               res.Scale.M0,
		R0:               res.Scale.R0,
		Metrics:          res.Metrics,
	}

	if err := writeFile(filepath.Join(runDir, profileFile), func(w io.Writer) error {
		return WriteProfileCSV(w, res.Profile())
	}); err != nil {
		_ = os.RemoveAll(runDir)
		return "", err
	}
	if err := writeFile(filepath.Join(runDir, metadataFile), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	}); err != nil {
		_ = os.RemoveAll(runDir)
		return "", err
	}

	return runID, nil
}

// writeFile creates path, fills it with write and closes it. A failed
// close is reported like a failed write.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}
	return nil
}

// WriteProfileCSV writes the physical-unit profile with a header row.
func WriteProfileCSV(out io.Writer, p star.Profile) error {
	w := csv.NewWriter(out)

	if err := w.Write(profileHeader); err != nil {
		return err
	}
	for i := range p.RadiusKm {
		row := []string{
			strconv.FormatFloat(p.RadiusKm[i], 'g', -1, 64),
			strconv.FormatFloat(p.MassSolar[i], 'g', -1, 64),
			strconv.FormatFloat(p.PressureMeV[i], 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}

		runs = append(runs, *meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	return &meta, nil
}

func (s *Store) LoadProfile(runID string) (star.Profile, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, profileFile))
	if err != nil {
		return star.Profile{}, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(profileHeader)

	records, err := r.ReadAll()
	if err != nil {
		return star.Profile{}, fmt.Errorf("run %s: %w", runID, err)
	}

	if len(records) < 2 {
		return star.Profile{}, nil
	}

	n := len(records) - 1
	p := star.Profile{
		RadiusKm:    make([]float64, 0, n),
		MassSolar:   make([]float64, 0, n),
		PressureMeV: make([]float64, 0, n),
	}

	for line, record := range records[1:] {
		var vals [3]float64
		for j := range vals {
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				return star.Profile{}, fmt.Errorf("run %s line %d: %w", runID, line+2, err)
			}
			vals[j] = v
		}
		p.RadiusKm = append(p.RadiusKm, vals[0])
		p.MassSolar = append(p.MassSolar, vals[1])
		p.PressureMeV = append(p.PressureMeV, vals[2])
	}

	return p, nil
}
