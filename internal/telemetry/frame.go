// Package telemetry receives shelf controller readings over a websocket
// feed and turns them into samples the shelf manager can apply.
package telemetry

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"
)

var ErrBadFrame = errors.New("malformed telemetry frame")

// frame is the wire shape published by the shelf controllers. Each data
// point may be null when the controller failed to read that load cell.
type frame struct {
	ID   string     `json:"id"`
	Data []*float64 `json:"data"`
}

// Sample is one decoded shelf reading. Values always has one entry per
// slot; unreadable points carry NaN.
type Sample struct {
	Mac    string
	Values []float64
	At     time.Time
}

// DecodeSample parses one raw frame. Frames with an empty id or a data
// array that is not exactly slotCount long are rejected.
func DecodeSample(raw []byte, slotCount int, at time.Time) (Sample, error) {
	var f frame
	if err := json.Unmarshal(raw, &f); err != nil {
		return Sample{}, fmt.Errorf("%w: %v", ErrBadFrame, err)
	}
	if f.ID == "" {
		return Sample{}, fmt.Errorf("%w: missing id", ErrBadFrame)
	}
	if len(f.Data) != slotCount {
		return Sample{}, fmt.Errorf("%w: %d data points, want %d", ErrBadFrame, len(f.Data), slotCount)
	}
	values := make([]float64, slotCount)
	for i, p := range f.Data {
		if p == nil {
			values[i] = math.NaN()
			continue
		}
		values[i] = *p
	}
	return Sample{Mac: f.ID, Values: values, At: at}, nil
}
