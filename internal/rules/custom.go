package rules

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/delphia/internal/extract"
)

// ruleFileVersion is the only schema version this build reads.
const ruleFileVersion = 1

// ruleFile is the on-disk shape of a custom rule set.
type ruleFile struct {
	Version int          `yaml:"version"`
	Rules   []customRule `yaml:"rules"`
}

// customRule declares one extra question rule. The answer string may use
// {subject} and {value} placeholders.
type customRule struct {
	Pattern  string `yaml:"pattern"`
	Template string `yaml:"template"`
	Group    string `yaml:"group"`
	Label    string `yaml:"label,omitempty"`
	Answer   string `yaml:"answer"`
}

// WithRulesFile appends the rules declared in path after the built-in table.
// Built-ins keep priority; a custom pattern that shadows one never fires.
func WithRulesFile(path string) Option {
	return func(r *Registry) error {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read rules file: %w", err)
		}

		var f ruleFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			return fmt.Errorf("parse rules file %s: %w", path, err)
		}
		if f.Version != ruleFileVersion {
			return fmt.Errorf("rules file %s: unsupported version %d (want %d)", path, f.Version, ruleFileVersion)
		}

		for i, cr := range f.Rules {
			rule, err := cr.build(r.source)
			if err != nil {
				return fmt.Errorf("rules file %s: rule %d: %w", path, i+1, err)
			}
			r.rules = append(r.rules, rule)
		}
		return nil
	}
}

func (cr customRule) build(source FactSource) (Rule, error) {
	pattern := strings.Fields(cr.Pattern)
	if len(pattern) == 0 {
		return Rule{}, fmt.Errorf("pattern is empty")
	}
	if cr.Group == "" {
		return Rule{}, fmt.Errorf("group is empty")
	}
	if cr.Answer == "" {
		return Rule{}, fmt.Errorf("answer is empty")
	}

	label := cr.Label
	if label == "" {
		label = fmt.Sprintf("Page infobox has no %s information", cr.Group)
	}

	tmpl, err := extract.NewTemplate(cr.Template, cr.Group, label)
	if err != nil {
		return Rule{}, err
	}

	answer := cr.Answer
	return factRule(source, cr.Pattern, tmpl, func(subject, value string) string {
		return strings.NewReplacer("{subject}", subject, "{value}", value).Replace(answer)
	}), nil
}
