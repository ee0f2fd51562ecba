package journal

import (
	"bytes"
	"os"
	"text/template"
	"time"
)

var orgFuncs = template.FuncMap{
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
}

// WriteOrg renders the run header as an org-mode entry at path. Handy
// for keeping a stress-test log alongside the database.
func (r *RunRecord) WriteOrg(path string) error {
	t, err := template.New("run").Funcs(orgFuncs).Parse(RunOrgTemplate)
	if err != nil {
		return err
	}

	buf := new(bytes.Buffer)
	if err := t.Execute(buf, r); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

const RunOrgTemplate = `
* STRESS: {{.Scenario}} {{if .Breached}}(breached){{else}}(survived){{end}}
:PROPERTIES:
:RUN_ID:       {{if .RunID}}{{.RunID}}{{else}}(run-id?){{end}}
:SCENARIO:     {{.Scenario}}
:GRANULARITY:  {{.Granularity}}
:PERIODS:      {{.PeriodsRun}}/{{.TotalPeriods}}
:COMPLETED:    {{.Completed}}
:HORIZON:      {{.SurvivalHorizon}}
:DRIVER:       {{if .PrimaryDriver}}{{.PrimaryDriver}}{{else}}(driver?){{end}}
:WITHDRAWN:    {{printf "%.2f" .TotalWithdrawn}}
:LOSSES:       {{printf "%.2f" .TotalLoss}}
:FINAL_LCR:    {{printf "%.1f" .FinalLCR}}
:FINAL_CET1:   {{printf "%.2f" .FinalCET1}}
:CREATED:      [{{(orTime .CreatedAt).Format "2006-01-02 Mon 15:04"}}]
:END:

** Outcome
- Survival horizon:  *{{.SurvivalHorizon}} periods*
- Deposits withdrawn: *{{printf "%.2f" .TotalWithdrawn}}*
- Realized losses:    *{{printf "%.2f" .TotalLoss}}*
- Final LCR:          *{{printf "%.1f" .FinalLCR}}%*
- Final CET1 ratio:   *{{printf "%.2f" .FinalCET1}}%*
`
