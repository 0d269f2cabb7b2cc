package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/nstar/internal/star"
)

func runStar(t *testing.T) (star.Options, *star.Result) {
	t.Helper()
	opts := star.DefaultOptions(star.PhysicalNeutronMass)
	res, err := star.Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	return opts, res
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	opts, res := runStar(t)
	runID, err := st.Save("rk4", opts, res)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if !strings.HasPrefix(runID, "relativistic_") {
		t.Errorf("unexpected run id %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if meta.Model != "relativistic" || meta.Integrator != "rk4" {
		t.Errorf("unexpected metadata: %+v", meta)
	}
	if meta.Status != "converged" || meta.StopIndex != res.StopIndex {
		t.Errorf("status %s stop %d, want converged %d", meta.Status, meta.StopIndex, res.StopIndex)
	}
	if meta.MassSolar != res.SurfaceMassSolar || meta.RadiusKm != res.SurfaceRadiusKm {
		t.Errorf("surface values changed: got %v/%v", meta.MassSolar, meta.RadiusKm)
	}
	if meta.Points != 1501 || meta.RMax != 15 {
		t.Errorf("grid not recorded: %+v", meta)
	}

	profile, err := st.LoadProfile(runID)
	if err != nil {
		t.Fatalf("load profile failed: %v", err)
	}

	want := res.Profile()
	if len(profile.RadiusKm) != len(want.RadiusKm) {
		t.Fatalf("expected %d samples, got %d", len(want.RadiusKm), len(profile.RadiusKm))
	}
	last := len(want.RadiusKm) - 1
	if profile.MassSolar[last] != want.MassSolar[last] || profile.PressureMeV[0] != want.PressureMeV[0] {
		t.Error("profile values did not survive the csv round trip")
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	opts, res := runStar(t)
	for i := 0; i < 2; i++ {
		if _, err := st.Save("rk4", opts, res); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	// stray files and unreadable run dirs are skipped
	if err := os.WriteFile(filepath.Join(tmpDir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(tmpDir, "broken"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "nope"))
	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestLoadNonexistent(t *testing.T) {
	st := New(t.TempDir())

	if _, err := st.Load("nonexistent"); err == nil {
		t.Error("expected error loading nonexistent run")
	}
	if _, err := st.LoadProfile("nonexistent"); err == nil {
		t.Error("expected error loading nonexistent profile")
	}
}

func TestLoadProfileMalformed(t *testing.T) {
	tmpDir := t.TempDir()
	runDir := filepath.Join(tmpDir, "bad")
	if err := os.MkdirAll(runDir, 0755); err != nil {
		t.Fatal(err)
	}
	data := "r_km,m_solar,p_mev_fm3\n0,0,696.4\nabc,0.1,600\n"
	if err := os.WriteFile(filepath.Join(runDir, profileFile), []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := New(tmpDir).LoadProfile("bad"); err == nil {
		t.Error("expected parse error")
	}
}

func TestWriteProfileCSV(t *testing.T) {
	p := star.Profile{
		RadiusKm:    []float64{0, 0.1},
		MassSolar:   []float64{0, 1e-5},
		PressureMeV: []float64{696.4, 0.125},
	}

	var buf bytes.Buffer
	if err := WriteProfileCSV(&buf, p); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	want := "r_km,m_solar,p_mev_fm3\n0,0,696.4\n0.1,1e-05,0.125\n"
	if buf.String() != want {
		t.Errorf("got\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestExportJSON(t *testing.T) {
	p := star.Profile{
		RadiusKm:    []float64{0, 0.5, 1},
		MassSolar:   []float64{0, 0.2, 0.4},
		PressureMeV: []float64{10, 5, 0},
	}
	meta := RunMetadata{ID: "classical_1", Model: "classical", MassSolar: 0.4}
	path := filepath.Join(t.TempDir(), "out.json")

	if err := ExportJSON(path, NewExportData(meta, p)); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got ExportData
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got.Samples != 3 || got.Run.ID != "classical_1" {
		t.Errorf("unexpected export: %+v", got)
	}
	if got.MassSolar[2] != 0.4 {
		t.Errorf("mass column = %v", got.MassSolar)
	}
}

func TestSaveRemovesPartialRun(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	opts, res := runStar(t)
	res.Metrics = map[string]float64{"compactness": math.NaN()}
	if _, err := st.Save("rk4", opts, res); err == nil {
		t.Fatal("expected error encoding NaN metadata")
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("partial run left behind: %v", entries)
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	if err := writeFile(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "ok")
		return err
	}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if data, _ := os.ReadFile(path); string(data) != "ok" {
		t.Errorf("content = %q", data)
	}

	errFull := errors.New("disk full")
	err := writeFile(path, func(io.Writer) error { return errFull })
	if !errors.Is(err, errFull) {
		t.Errorf("expected wrapped write error, got %v", err)
	}
	if err := writeFile(filepath.Join(path, "nested"), func(io.Writer) error { return nil }); err == nil {
		t.Error("expected error creating a file under a regular file")
	}
}
