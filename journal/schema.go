// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	scenario TEXT NOT NULL,
	granularity TEXT NOT NULL,
	total_periods INTEGER NOT NULL,
	periods_run INTEGER NOT NULL,
	completed BOOLEAN NOT NULL,
	breached BOOLEAN NOT NULL,
	survival_horizon INTEGER NOT NULL,
	primary_driver TEXT NOT NULL,
	total_withdrawn REAL NOT NULL,
	total_loss REAL NOT NULL,
	final_lcr REAL NOT NULL,
	final_cet1 REAL NOT NULL,
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS periods (
	run_id TEXT NOT NULL,
	period INTEGER NOT NULL,
	label TEXT NOT NULL,
	total_assets REAL NOT NULL,
	cash REAL NOT NULL,
	hqla REAL NOT NULL,
	withdrawn REAL NOT NULL,
	unmet_outflow REAL NOT NULL,
	realized_loss REAL NOT NULL,
	lcr REAL NOT NULL,
	nsfr REAL NOT NULL,
	cet1_ratio REAL NOT NULL,
	breaches TEXT NOT NULL,
	PRIMARY KEY (run_id, period)
);

CREATE TABLE IF NOT EXISTS liquidations (
	run_id TEXT NOT NULL,
	period INTEGER NOT NULL,
	category TEXT NOT NULL,
	gross REAL NOT NULL,
	haircut REAL NOT NULL,
	proceeds REAL NOT NULL,
	loss REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_periods_run ON periods(run_id);
CREATE INDEX IF NOT EXISTS idx_liquidations_run ON liquidations(run_id, period);
`
