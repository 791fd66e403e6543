package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/riskibarqy/gridiron-loader/internal/domain/scoring"
)

const scoringEnvPrefix = "SCORING_RULE_"

// LoadScoringRules layers the default rules, cfg.FieldGoalMode, the optional
// YAML file at cfg.ScoringRulesFile and SCORING_RULE_* variables, lowest
// precedence first.
func LoadScoringRules(cfg Config) (scoring.Rules, error) {
	base := scoring.DefaultRules()
	if cfg.FieldGoalMode != "" {
		base.FieldGoalMode = cfg.FieldGoalMode
	}

	k := koanf.New(".")
	if cfg.ScoringRulesFile != "" {
		if err := k.Load(file.Provider(cfg.ScoringRulesFile), yaml.Parser()); err != nil {
			return scoring.Rules{}, fmt.Errorf("load scoring rules file %s: %w", cfg.ScoringRulesFile, err)
		}
	}

	// SCORING_RULE_PASSING_TOUCHDOWN=6 -> passing_touchdown
	envProvider := env.ProviderWithValue(scoringEnvPrefix, ".", func(key, value string) (string, any) {
		name := strings.ToLower(strings.TrimPrefix(key, scoringEnvPrefix))
		if name == "defensive_positions" {
			return name, splitCSV(value)
		}
		return name, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return scoring.Rules{}, fmt.Errorf("load scoring rules env: %w", err)
	}

	rules := base
	if err := k.UnmarshalWithConf("", &rules, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return scoring.Rules{}, fmt.Errorf("decode scoring rules: %w", err)
	}
	if err := rules.Validate(); err != nil {
		return scoring.Rules{}, fmt.Errorf("validate scoring rules: %w", err)
	}
	return rules, nil
}
