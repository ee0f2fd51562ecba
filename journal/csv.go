// journal/csv.go
package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type CSVJournal struct {
	runs         *csv.Writer
	periods      *csv.Writer
	liquidations *csv.Writer
	rf, pf, lf   *os.File
}

// NewCSV writes runs.csv, periods.csv and liquidations.csv under dir.
func NewCSV(dir string) (*CSVJournal, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	rf, err := os.Create(filepath.Join(dir, "runs.csv"))
	if err != nil {
		return nil, err
	}
	pf, err := os.Create(filepath.Join(dir, "periods.csv"))
	if err != nil {
		return nil, err
	}
	lf, err := os.Create(filepath.Join(dir, "liquidations.csv"))
	if err != nil {
		return nil, err
	}

	rw := csv.NewWriter(rf)
	pw := csv.NewWriter(pf)
	lw := csv.NewWriter(lf)

	if err := rw.Write([]string{"run_id", "scenario", "granularity", "total_periods", "periods_run", "completed", "breached", "survival_horizon", "primary_driver", "total_withdrawn", "total_loss", "final_lcr", "final_cet1", "created_at"}); err != nil {
		return nil, err
	}
	if err := pw.Write([]string{"run_id", "period", "label", "total_assets", "cash", "hqla", "withdrawn", "unmet_outflow", "realized_loss", "lcr", "nsfr", "cet1_ratio", "breaches"}); err != nil {
		return nil, err
	}
	if err := lw.Write([]string{"run_id", "period", "category", "gross", "haircut", "proceeds", "loss"}); err != nil {
		return nil, err
	}

	rw.Flush()
	if err := rw.Error(); err != nil {
		return nil, err
	}
	pw.Flush()
	if err := pw.Error(); err != nil {
		return nil, err
	}
	lw.Flush()
	if err := lw.Error(); err != nil {
		return nil, err
	}

	return &CSVJournal{rw, pw, lw, rf, pf, lf}, nil
}

func (j *CSVJournal) RecordRun(r RunRecord) error {
	err := j.runs.Write([]string{
		r.RunID,
		r.Scenario,
		r.Granularity,
		strconv.Itoa(r.TotalPeriods),
		strconv.Itoa(r.PeriodsRun),
		strconv.FormatBool(r.Completed),
		strconv.FormatBool(r.Breached),
		strconv.Itoa(r.SurvivalHorizon),
		r.PrimaryDriver,
		f(r.TotalWithdrawn),
		f(r.TotalLoss),
		f(r.FinalLCR),
		f(r.FinalCET1),
		r.CreatedAt.Format(time.RFC3339),
	})
	if err != nil {
		return err
	}

	j.runs.Flush()
	return j.runs.Error()
}

func (j *CSVJournal) RecordPeriod(p PeriodRecord) error {
	err := j.periods.Write([]string{
		p.RunID,
		strconv.Itoa(p.Period),
		p.Label,
		f(p.TotalAssets),
		f(p.Cash),
		f(p.HQLA),
		f(p.Withdrawn),
		f(p.UnmetOutflow),
		f(p.RealizedLoss),
		f(p.LCR),
		f(p.NSFR),
		f(p.CET1Ratio),
		p.Breaches,
	})
	if err != nil {
		return err
	}

	j.periods.Flush()
	return j.periods.Error()
}

func (j *CSVJournal) RecordLiquidation(l LiquidationRecord) error {
	err := j.liquidations.Write([]string{
		l.RunID,
		strconv.Itoa(l.Period),
		l.Category,
		f(l.Gross),
		f(l.Haircut),
		f(l.Proceeds),
		f(l.Loss),
	})
	if err != nil {
		return err
	}

	j.liquidations.Flush()
	return j.liquidations.Error()
}

func (j *CSVJournal) Close() error {
	j.runs.Flush()
	if err := j.runs.Error(); err != nil {
		return err
	}
	j.periods.Flush()
	if err := j.periods.Error(); err != nil {
		return err
	}
	j.liquidations.Flush()
	if err := j.liquidations.Error(); err != nil {
		return err
	}

	if err := j.rf.Close(); err != nil {
		return err
	}
	if err := j.pf.Close(); err != nil {
		return err
	}
	if err := j.lf.Close(); err != nil {
		return err
	}
	return nil
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
