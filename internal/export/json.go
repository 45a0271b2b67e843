package export

import (
	"encoding/json"
	"io"

	"github.com/san-kum/sphfluid/internal/sim"
	"github.com/san-kum/sphfluid/internal/sph"
	"github.com/san-kum/sphfluid/internal/storage"
)

type ExportData struct {
	Run    storage.RunMetadata `json:"run"`
	Frames []ExportFrame       `json:"frames"`
}

// ExportFrame uses [x, y] pairs, the same shape the stream server sends.
type ExportFrame struct {
	Frame     int          `json:"frame"`
	Positions [][2]float64 `json:"positions"`
}

func Pairs(ps []sph.Vec2) [][2]float64 {
	out := make([][2]float64, len(ps))
	for i, p := range ps {
		out[i] = [2]float64{p.X, p.Y}
	}
	return out
}

// WriteJSON writes a stored run and its frames as indented JSON.
func WriteJSON(w io.Writer, meta storage.RunMetadata, frames []sim.Frame) error {
	data := ExportData{
		Run:    meta,
		Frames: make([]ExportFrame, len(frames)),
	}
	for i, f := range frames {
		data.Frames[i] = ExportFrame{Frame: f.Index, Positions: Pairs(f.Positions)}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
