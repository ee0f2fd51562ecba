package config

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/banksim/balance"
	"github.com/rustyeddy/banksim/engine"
	"github.com/rustyeddy/banksim/scenario"
)

// Config represents the complete stress-test configuration
type Config struct {
	BalanceSheet BalanceSheetConfig `json:"balance_sheet" yaml:"balance_sheet"`
	Scenario     ScenarioConfig     `json:"scenario" yaml:"scenario"`
	Engine       EngineConfig       `json:"engine" yaml:"engine"`
	Journal      JournalConfig      `json:"journal" yaml:"journal"`
}

// BalanceSheetConfig is the opening position, keyed by category name
type BalanceSheetConfig struct {
	Assets      map[string]float64 `json:"assets" yaml:"assets"`
	Liabilities map[string]float64 `json:"liabilities" yaml:"liabilities"`
	Equity      map[string]float64 `json:"equity" yaml:"equity"`
}

// ScenarioConfig selects a preset by name or spells out the stress
// parameters inline. Preset wins when both are given.
type ScenarioConfig struct {
	Preset string `json:"preset,omitempty" yaml:"preset,omitempty"`

	Name            string                   `json:"name,omitempty" yaml:"name,omitempty"`
	Granularity     string                   `json:"granularity,omitempty" yaml:"granularity,omitempty"`
	Periods         int                      `json:"periods,omitempty" yaml:"periods,omitempty"`
	RunoffRates     map[string]float64       `json:"runoff_rates,omitempty" yaml:"runoff_rates,omitempty"`
	WithdrawalTable map[string][]float64     `json:"withdrawal_table,omitempty" yaml:"withdrawal_table,omitempty"`
	Shocks          map[string]float64       `json:"shocks,omitempty" yaml:"shocks,omitempty"`
	BaseHaircuts    map[string]float64       `json:"base_haircuts,omitempty" yaml:"base_haircuts,omitempty"`
	FireSale        scenario.FireSale        `json:"fire_sale,omitempty" yaml:"fire_sale,omitempty"`
	Credit          scenario.CreditMigration `json:"credit,omitempty" yaml:"credit,omitempty"`
	Description     string                   `json:"description,omitempty" yaml:"description,omitempty"`
}

// EngineConfig contains the run controls
type EngineConfig struct {
	LiquidationPriority []string               `json:"liquidation_priority,omitempty" yaml:"liquidation_priority,omitempty"`
	LCRMin              *float64               `json:"lcr_min,omitempty" yaml:"lcr_min,omitempty"`
	CET1Min             *float64               `json:"cet1_min,omitempty" yaml:"cet1_min,omitempty"`
	CashMin             *float64               `json:"cash_min,omitempty" yaml:"cash_min,omitempty"`
	StopOnFirstBreach   *bool                  `json:"stop_on_first_breach,omitempty" yaml:"stop_on_first_breach,omitempty"`
	RecoveryActions     []RecoveryActionConfig `json:"recovery_actions,omitempty" yaml:"recovery_actions,omitempty"`
}

// RecoveryActionConfig is one contingency funding action
type RecoveryActionConfig struct {
	Name         string  `json:"name" yaml:"name"`
	Trigger      string  `json:"trigger" yaml:"trigger"`
	TriggerValue float64 `json:"trigger_value" yaml:"trigger_value"`
	Action       string  `json:"action" yaml:"action"`
	Amount       float64 `json:"amount" yaml:"amount"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type   string `json:"type" yaml:"type"` // "csv", "sqlite" or "none"
	Dir    string `json:"dir,omitempty" yaml:"dir,omitempty"`
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LoadFromFile loads configuration from a file (JSON or YAML based on extension)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if (len(path) > 5 && path[len(path)-5:] == ".yaml") || (len(path) > 4 && path[len(path)-4:] == ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks the configuration shape. Deep domain validation
// happens when the sheet, scenario and engine config are built.
func (c *Config) Validate() error {
	if len(c.BalanceSheet.Assets) == 0 {
		return fmt.Errorf("balance_sheet.assets is required")
	}
	if len(c.BalanceSheet.Liabilities) == 0 {
		return fmt.Errorf("balance_sheet.liabilities is required")
	}
	if c.Scenario.Preset == "" && c.Scenario.Periods <= 0 {
		return fmt.Errorf("scenario requires a preset or a positive period count")
	}
	if c.Scenario.Preset != "" {
		if _, ok := scenario.PresetByName(c.Scenario.Preset); !ok {
			return fmt.Errorf("unknown scenario preset: %s", c.Scenario.Preset)
		}
	}
	switch c.Journal.Type {
	case "", "none", "csv", "sqlite":
	default:
		return fmt.Errorf("journal.type must be 'csv', 'sqlite' or 'none'")
	}
	if c.Journal.Type == "csv" && c.Journal.Dir == "" {
		return fmt.Errorf("journal dir required for CSV type")
	}
	if c.Journal.Type == "sqlite" && c.Journal.DBPath == "" {
		return fmt.Errorf("journal db_path required for SQLite type")
	}
	return nil
}

// BuildSheet constructs and validates the opening balance sheet.
func (c *Config) BuildSheet() (*balance.Sheet, error) {
	assets := map[balance.AssetCategory]float64{}
	for name, amt := range c.BalanceSheet.Assets {
		cat := balance.AssetCategory(name)
		if !balance.ValidAssetCategory(cat) {
			return nil, fmt.Errorf("unknown asset category: %s", name)
		}
		assets[cat] = amt
	}
	liabilities := map[balance.LiabilityCategory]float64{}
	for name, amt := range c.BalanceSheet.Liabilities {
		cat := balance.LiabilityCategory(name)
		if !balance.ValidLiabilityCategory(cat) {
			return nil, fmt.Errorf("unknown liability category: %s", name)
		}
		liabilities[cat] = amt
	}
	equity := map[balance.EquityComponent]float64{}
	for name, amt := range c.BalanceSheet.Equity {
		switch comp := balance.EquityComponent(name); comp {
		case balance.CET1, balance.AT1, balance.Tier2:
			equity[comp] = amt
		default:
			return nil, fmt.Errorf("unknown equity component: %s", name)
		}
	}

	sheet := balance.New(assets, liabilities, equity)
	if err := sheet.Validate(); err != nil {
		return nil, err
	}
	return sheet, nil
}

// BuildScenario resolves the preset or assembles the inline scenario.
func (c *Config) BuildScenario() (*scenario.Scenario, error) {
	if c.Scenario.Preset != "" {
		scn, ok := scenario.PresetByName(c.Scenario.Preset)
		if !ok {
			return nil, fmt.Errorf("unknown scenario preset: %s", c.Scenario.Preset)
		}
		return scn, nil
	}

	scn := &scenario.Scenario{
		Name:        c.Scenario.Name,
		Granularity: scenario.Granularity(c.Scenario.Granularity),
		Periods:     c.Scenario.Periods,
		FireSale:    c.Scenario.FireSale,
		Credit:      c.Scenario.Credit,
		Description: c.Scenario.Description,
	}
	if scn.Name == "" {
		scn.Name = "custom"
	}
	if scn.Granularity == "" {
		scn.Granularity = scenario.Daily
	}

	if len(c.Scenario.RunoffRates) > 0 {
		scn.RunoffRates = map[balance.LiabilityCategory]float64{}
		for name, rate := range c.Scenario.RunoffRates {
			scn.RunoffRates[balance.LiabilityCategory(name)] = rate
		}
	}
	if len(c.Scenario.WithdrawalTable) > 0 {
		scn.WithdrawalTable = map[balance.LiabilityCategory][]float64{}
		for name, rows := range c.Scenario.WithdrawalTable {
			scn.WithdrawalTable[balance.LiabilityCategory(name)] = rows
		}
	}
	if len(c.Scenario.Shocks) > 0 {
		scn.Shocks = map[balance.AssetCategory]float64{}
		for name, shock := range c.Scenario.Shocks {
			scn.Shocks[balance.AssetCategory(name)] = shock
		}
	}
	if len(c.Scenario.BaseHaircuts) > 0 {
		scn.BaseHaircuts = map[balance.AssetCategory]float64{}
		for name, h := range c.Scenario.BaseHaircuts {
			scn.BaseHaircuts[balance.AssetCategory(name)] = h
		}
	}

	if err := scn.Validate(); err != nil {
		return nil, err
	}
	return scn, nil
}

// BuildEngineConfig overlays the file's engine settings on the defaults.
func (c *Config) BuildEngineConfig() (engine.Config, error) {
	cfg := engine.DefaultConfig()

	if len(c.Engine.LiquidationPriority) > 0 {
		cfg.LiquidationPriority = nil
		for _, name := range c.Engine.LiquidationPriority {
			cfg.LiquidationPriority = append(cfg.LiquidationPriority, balance.AssetCategory(name))
		}
	}
	if c.Engine.LCRMin != nil {
		cfg.Thresholds.LCRMin = *c.Engine.LCRMin
	}
	if c.Engine.CET1Min != nil {
		cfg.Thresholds.CET1Min = *c.Engine.CET1Min
	}
	if c.Engine.CashMin != nil {
		cfg.Thresholds.CashMin = *c.Engine.CashMin
	}
	if c.Engine.StopOnFirstBreach != nil {
		cfg.StopOnFirstBreach = *c.Engine.StopOnFirstBreach
	}
	for _, a := range c.Engine.RecoveryActions {
		cfg.RecoveryActions = append(cfg.RecoveryActions, engine.RecoveryAction{
			Name:         a.Name,
			Trigger:      engine.TriggerMetric(a.Trigger),
			TriggerValue: a.TriggerValue,
			Action:       engine.ActionType(a.Action),
			Amount:       a.Amount,
		})
	}

	if err := cfg.Validate(); err != nil {
		return engine.Config{}, err
	}
	return cfg, nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		BalanceSheet: BalanceSheetConfig{
			Assets: map[string]float64{
				"cash":             100,
				"hqla_l1":          200,
				"hqla_l2a":         50,
				"loans_performing": 600,
				"other_assets":     50,
			},
			Liabilities: map[string]float64{
				"retail_stable":   500,
				"retail_unstable": 150,
				"wholesale":       250,
			},
			Equity: map[string]float64{
				"cet1": 100,
			},
		},
		Scenario: ScenarioConfig{
			Preset: "basel_iii_lcr_standard",
		},
		Journal: JournalConfig{
			Type: "csv",
			Dir:  "./stress-out",
		},
	}
}
