package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/turingsim/internal/grid"
)

// ExportData is the JSON document produced for external renderers. U and V
// are row-major, rows running along the first grid index.
type ExportData struct {
	RunMetadata
	Extent [4]float64  `json:"extent"`
	U      [][]float64 `json:"u"`
	V      [][]float64 `json:"v,omitempty"`
}

func NewExportData(meta RunMetadata, u, v *grid.Field) ExportData {
	l := meta.HalfWidth
	data := ExportData{
		RunMetadata: meta,
		Extent:      [4]float64{-l, l, -l, l},
		U:           u.Rows(),
	}
	if v != nil {
		data.V = v.Rows()
	}
	return data
}

func ExportJSON(w io.Writer, meta RunMetadata, u, v *grid.Field) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(meta, u, v))
}

func ExportJSONFile(path string, meta RunMetadata, u, v *grid.Field) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return ExportJSON(file, meta, u, v)
}
