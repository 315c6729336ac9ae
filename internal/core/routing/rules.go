package routing

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/metrodocs/docflow/internal/core/domain"
)

// ruleSpec is the YAML shape of one rule. Rules apply in file order.
type ruleSpec struct {
	Name         string   `yaml:"name"`
	TitlePattern string   `yaml:"title_pattern"`
	Category     string   `yaml:"category"`
	TagsAny      []string `yaml:"tags_any"`
	ToDepartment string   `yaml:"to_department"`
	ToRole       string   `yaml:"to_role"`
	ToPriority   string   `yaml:"to_priority"`
}

type ruleFile struct {
	Rules []ruleSpec `yaml:"rules"`
}

// Parse compiles an ordered YAML rule list. A rule with no predicate at all,
// an invalid regex or an unknown priority is rejected here so the engine
// itself can never fail.
func Parse(raw []byte) ([]Rule, error) {
	var file ruleFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode rule file: %w", err)
	}

	rules := make([]Rule, 0, len(file.Rules))
	for i, spec := range file.Rules {
		rule := Rule{
			Name:         spec.Name,
			Category:     spec.Category,
			TagsAny:      spec.TagsAny,
			ToDepartment: spec.ToDepartment,
			ToRole:       spec.ToRole,
		}
		if rule.Name == "" {
			rule.Name = fmt.Sprintf("rule-%d", i+1)
		}
		if spec.TitlePattern != "" {
			compiled, err := regexp.Compile("(?i)" + spec.TitlePattern)
			if err != nil {
				return nil, fmt.Errorf("rule %q: compile title pattern: %w", rule.Name, err)
			}
			rule.TitlePattern = compiled
		}
		if spec.TitlePattern == "" && spec.Category == "" && len(spec.TagsAny) == 0 {
			return nil, fmt.Errorf("rule %q: no predicate", rule.Name)
		}
		if spec.ToPriority != "" {
			priority, err := parsePriority(spec.ToPriority)
			if err != nil {
				return nil, fmt.Errorf("rule %q: %w", rule.Name, err)
			}
			rule.ToPriority = priority
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// LoadFile reads and compiles a YAML rule file.
func LoadFile(path string) ([]Rule, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule file: %w", err)
	}
	return Parse(raw)
}

func parsePriority(raw string) (domain.Priority, error) {
	switch domain.Priority(raw) {
	case domain.PriorityLow, domain.PriorityMedium, domain.PriorityHigh, domain.PriorityUrgent:
		return domain.Priority(raw), nil
	default:
		return "", fmt.Errorf("unknown priority %q", raw)
	}
}

// DefaultRules is the built-in routing table used when no rule file is
// configured.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:         "finance",
			TitlePattern: regexp.MustCompile(`(?i)invoice|payment|bill`),
			Category:     "finance",
			ToDepartment: "Finance",
			ToPriority:   domain.PriorityHigh,
		},
		{
			Name:         "engineering",
			TitlePattern: regexp.MustCompile(`(?i)maintenance|equipment|spares|work order`),
			Category:     "engineering",
			ToDepartment: "Engineering",
		},
		{
			Name:         "legal",
			TitlePattern: regexp.MustCompile(`(?i)circular|regulation|compliance`),
			ToDepartment: "Legal",
			ToPriority:   domain.PriorityUrgent,
		},
	}
}
