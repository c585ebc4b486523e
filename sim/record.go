package sim

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"go.viam.com/mppi/kinematics"
)

// Record captures one tick of a run.
type Record struct {
	Tick         int
	State        kinematics.State
	Action       kinematics.Control
	GoalDistance float64
	SolveLatency time.Duration
	Collided     bool
}

// csvHeader is the column layout of WriteCSV.
var csvHeader = []string{"tick", "x", "y", "theta", "linear", "angular", "goal_distance", "solve_latency_s", "collided"}

// WriteCSV writes the records to w with a header row.
func WriteCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, rec := range records {
		row := []string{
			strconv.Itoa(rec.Tick),
			formatFloat(rec.State.X),
			formatFloat(rec.State.Y),
			formatFloat(rec.State.Theta),
			formatFloat(rec.Action.Linear),
			formatFloat(rec.Action.Angular),
			formatFloat(rec.GoalDistance),
			formatFloat(rec.SolveLatency.Seconds()),
			strconv.FormatBool(rec.Collided),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
