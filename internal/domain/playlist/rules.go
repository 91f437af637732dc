package playlist

import (
	"time"

	"github.com/rs/zerolog/log"
)

// Rule is the runtime form of one smart-playlist criterion. Model points into
// the registry; it is nil when hydration could not resolve the stored name,
// in which case RawModel preserves that name so the rule still round-trips.
type Rule struct {
	ID       int64    `json:"id"`
	Model    *Model   `json:"model"`
	RawModel string   `json:"-"`
	Operator string   `json:"operator"`
	Value    []string `json:"value"`
}

// RuleGroup is an ordered set of rules combined by the server; groups
// themselves are combined disjunctively.
type RuleGroup struct {
	ID    int64   `json:"id"`
	Rules []*Rule `json:"rules"`
}

// StoredRule is the wire/storage form of a rule: the model is referenced by
// name instead of by registry identity.
type StoredRule struct {
	ID       int64    `json:"id"`
	Model    string   `json:"model"`
	Operator string   `json:"operator"`
	Value    []string `json:"value"`
}

// StoredRuleGroup is the wire/storage form of a rule group.
type StoredRuleGroup struct {
	ID    int64        `json:"id"`
	Rules []StoredRule `json:"rules"`
}

// NewRule constructs a fresh rule with a timestamp identity, defaulting to
// the first registry model and operator.
func NewRule() *Rule {
	return &Rule{
		ID:       time.Now().UnixMilli(),
		Model:    &Models[0],
		RawModel: Models[0].Name,
		Operator: Operators[0].Name,
		Value:    []string{""},
	}
}

// NewRuleGroup constructs a fresh group holding one fresh rule.
func NewRuleGroup() *RuleGroup {
	return &RuleGroup{
		ID:    time.Now().UnixMilli(),
		Rules: []*Rule{NewRule()},
	}
}

// HydrateRules builds the runtime rule tree from its storage form, resolving
// each model name against the registry. An unknown name leaves that rule
// unresolved and emits a diagnostic; the rest of the tree loads normally.
func HydrateRules(stored []StoredRuleGroup, playlistName string, playlistID int64) []*RuleGroup {
	groups := make([]*RuleGroup, 0, len(stored))
	for _, sg := range stored {
		group := &RuleGroup{ID: sg.ID}
		for _, sr := range sg.Rules {
			rule := &Rule{
				ID:       sr.ID,
				Model:    ModelByName(sr.Model),
				RawModel: sr.Model,
				Operator: sr.Operator,
				Value:    append([]string(nil), sr.Value...),
			}
			if rule.Model == nil {
				log.Error().
					Str("model", sr.Model).
					Str("playlist", playlistName).
					Int64("playlist_id", playlistID).
					Msg("Unknown model in smart playlist rule")
			}
			group.Rules = append(group.Rules, rule)
		}
		groups = append(groups, group)
	}
	return groups
}

// SerializeRulesForStorage deep-clones the rule tree into its storage form,
// replacing each model descriptor with its name. Returns nil for an empty
// tree. Unresolved rules fall back to their preserved raw name, so
// hydrate-then-serialize is lossless.
func SerializeRulesForStorage(groups []*RuleGroup) []StoredRuleGroup {
	if len(groups) == 0 {
		return nil
	}

	stored := make([]StoredRuleGroup, 0, len(groups))
	for _, group := range groups {
		sg := StoredRuleGroup{ID: group.ID}
		for _, rule := range group.Rules {
			name := rule.RawModel
			if rule.Model != nil {
				name = rule.Model.Name
			}
			sg.Rules = append(sg.Rules, StoredRule{
				ID:       rule.ID,
				Model:    name,
				Operator: rule.Operator,
				Value:    append([]string(nil), rule.Value...),
			})
		}
		stored = append(stored, sg)
	}
	return stored
}
