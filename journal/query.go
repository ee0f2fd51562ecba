package journal

import (
	"database/sql"
	"fmt"
)

// GetRun returns a single run header by ID.
func (j *SQLiteJournal) GetRun(runID string) (RunRecord, error) {
	var rec RunRecord

	row := j.db.QueryRow(`
		SELECT run_id, scenario, granularity, total_periods, periods_run, completed, breached,
		       survival_horizon, primary_driver, total_withdrawn, total_loss, final_lcr, final_cet1, created_at
		FROM runs
		WHERE run_id = ?`, runID)

	err := row.Scan(
		&rec.RunID,
		&rec.Scenario,
		&rec.Granularity,
		&rec.TotalPeriods,
		&rec.PeriodsRun,
		&rec.Completed,
		&rec.Breached,
		&rec.SurvivalHorizon,
		&rec.PrimaryDriver,
		&rec.TotalWithdrawn,
		&rec.TotalLoss,
		&rec.FinalLCR,
		&rec.FinalCET1,
		&rec.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return RunRecord{}, fmt.Errorf("run %q not found", runID)
		}
		return RunRecord{}, err
	}
	return rec, nil
}

// ListRuns returns all run headers, newest first.
func (j *SQLiteJournal) ListRuns() ([]RunRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, scenario, granularity, total_periods, periods_run, completed, breached,
		       survival_horizon, primary_driver, total_withdrawn, total_loss, final_lcr, final_cet1, created_at
		FROM runs
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var rec RunRecord
		if err := rows.Scan(
			&rec.RunID,
			&rec.Scenario,
			&rec.Granularity,
			&rec.TotalPeriods,
			&rec.PeriodsRun,
			&rec.Completed,
			&rec.Breached,
			&rec.SurvivalHorizon,
			&rec.PrimaryDriver,
			&rec.TotalWithdrawn,
			&rec.TotalLoss,
			&rec.FinalLCR,
			&rec.FinalCET1,
			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListPeriodsByRun returns a run's period rows in simulation order.
func (j *SQLiteJournal) ListPeriodsByRun(runID string) ([]PeriodRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, period, label, total_assets, cash, hqla, withdrawn, unmet_outflow,
		       realized_loss, lcr, nsfr, cet1_ratio, breaches
		FROM periods
		WHERE run_id = ?
		ORDER BY period ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PeriodRecord
	for rows.Next() {
		var rec PeriodRecord
		if err := rows.Scan(
			&rec.RunID,
			&rec.Period,
			&rec.Label,
			&rec.TotalAssets,
			&rec.Cash,
			&rec.HQLA,
			&rec.Withdrawn,
			&rec.UnmetOutflow,
			&rec.RealizedLoss,
			&rec.LCR,
			&rec.NSFR,
			&rec.CET1Ratio,
			&rec.Breaches,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListLiquidationsByRun returns a run's forced sales ordered by period.
func (j *SQLiteJournal) ListLiquidationsByRun(runID string) ([]LiquidationRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, period, category, gross, haircut, proceeds, loss
		FROM liquidations
		WHERE run_id = ?
		ORDER BY period ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LiquidationRecord
	for rows.Next() {
		var rec LiquidationRecord
		if err := rows.Scan(
			&rec.RunID,
			&rec.Period,
			&rec.Category,
			&rec.Gross,
			&rec.Haircut,
			&rec.Proceeds,
			&rec.Loss,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
