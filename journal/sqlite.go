package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordRun(r RunRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO runs
		(run_id, scenario, granularity, total_periods, periods_run, completed, breached,
		 survival_horizon, primary_driver, total_withdrawn, total_loss, final_lcr, final_cet1, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Scenario, r.Granularity, r.TotalPeriods, r.PeriodsRun, r.Completed, r.Breached,
		r.SurvivalHorizon, r.PrimaryDriver, r.TotalWithdrawn, r.TotalLoss, r.FinalLCR, r.FinalCET1, r.CreatedAt,
	)
	return err
}

func (j *SQLiteJournal) RecordPeriod(p PeriodRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO periods
		(run_id, period, label, total_assets, cash, hqla, withdrawn, unmet_outflow,
		 realized_loss, lcr, nsfr, cet1_ratio, breaches)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.RunID, p.Period, p.Label, p.TotalAssets, p.Cash, p.HQLA, p.Withdrawn, p.UnmetOutflow,
		p.RealizedLoss, p.LCR, p.NSFR, p.CET1Ratio, p.Breaches,
	)
	return err
}

func (j *SQLiteJournal) RecordLiquidation(l LiquidationRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO liquidations
		(run_id, period, category, gross, haircut, proceeds, loss)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		l.RunID, l.Period, l.Category, l.Gross, l.Haircut, l.Proceeds, l.Loss,
	)
	return err
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
