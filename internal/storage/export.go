package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/nstar/internal/star"
)

type ExportData struct {
	Run         RunMetadata `json:"run"`
	Samples     int         `json:"samples"`
	RadiusKm    []float64   `json:"r_km"`
	MassSolar   []float64   `json:"m_solar"`
	PressureMeV []float64   `json:"p_mev_fm3"`
}

func NewExportData(meta RunMetadata, p star.Profile) ExportData {
	return ExportData{
		Run:         meta,
		Samples:     len(p.RadiusKm),
		RadiusKm:    p.RadiusKm,
		MassSolar:   p.MassSolar,
		PressureMeV: p.PressureMeV,
	}
}

func WriteJSON(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSON(path string, data ExportData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, data)
}

func ExportJSONStdout(data ExportData) error {
	return WriteJSON(os.Stdout, data)
}
