package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/dropsim/internal/scene"
)

type ExportData struct {
	Run    RunMetadata   `json:"run"`
	Frames []ExportFrame `json:"frames"`
}

type ExportFrame struct {
	Frame        uint64  `json:"frame"`
	Time         float64 `json:"time"`
	Spawned      bool    `json:"spawned"`
	Steps        int     `json:"steps"`
	Retained     int     `json:"retained"`
	Reclaimed    int     `json:"reclaimed"`
	Live         int     `json:"live"`
	PrimaryAlive bool    `json:"primary_alive"`
	PrimaryY     float64 `json:"primary_y"`
}

// ExportJSON writes a run and its frames as one indented JSON document.
func ExportJSON(w io.Writer, meta RunMetadata, trace []scene.FrameStats) error {
	data := ExportData{
		Run:    meta,
		Frames: make([]ExportFrame, len(trace)),
	}
	for i, st := range trace {
		data.Frames[i] = ExportFrame{
			Frame:        st.Frame,
			Time:         st.Time.Seconds(),
			Spawned:      st.Spawned,
			Steps:        st.Steps,
			Retained:     st.Retained,
			Reclaimed:    st.Reclaimed,
			Live:         st.Live,
			PrimaryAlive: st.PrimaryAlive,
			PrimaryY:     st.PrimaryY,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
