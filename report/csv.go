package report

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

var csvHeader = []string{
	"id", "time", "instrument", "risk_mode", "stop_loss_mode", "profit_mode",
	"lot_size", "aggressive_lot_size", "reduced_lot_size",
	"stop_loss", "profit_target", "risk_percent", "risk_amount", "pip_value",
}

// CSVWriter writes entries as CSV rows, header first.
type CSVWriter struct {
	w *csv.Writer
}

func NewCSV(w io.Writer) (*CSVWriter, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return nil, err
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, err
	}
	return &CSVWriter{w: cw}, nil
}

func (c *CSVWriter) Write(e Entry) error {
	s := e.Setup
	err := c.w.Write([]string{
		e.ID,
		e.At.Format(time.RFC3339),
		s.Instrument,
		string(s.RiskMode),
		string(s.StopLossMode),
		string(s.ProfitMode),
		f(s.LotSize),
		f(s.AggressiveLotSize),
		f(s.ReducedLotSize),
		f(s.StopLoss),
		f(s.ProfitTarget),
		f(s.RiskPercent),
		f(s.RiskAmount),
		f(s.PipValue),
	})
	if err != nil {
		return err
	}
	c.w.Flush()
	return c.w.Error()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 2, 64)
}
