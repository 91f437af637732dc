package playlist

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHydrateRulesResolvesRegistryModels(t *testing.T) {
	stored := []StoredRuleGroup{
		{
			ID: 1,
			Rules: []StoredRule{
				{ID: 10, Model: "title", Operator: "contains", Value: []string{"blue"}},
				{ID: 11, Model: "length", Operator: "isGreaterThan", Value: []string{"300"}},
			},
		},
	}

	groups := HydrateRules(stored, "long blues", 5)

	if len(groups) != 1 || len(groups[0].Rules) != 2 {
		t.Fatalf("unexpected tree shape: %d groups", len(groups))
	}

	title := groups[0].Rules[0]
	if title.Model != ModelByName("title") {
		t.Error("rule model is not the registry instance")
	}
	length := groups[0].Rules[1]
	if length.Model == nil || length.Model.Unit != "seconds" {
		t.Error("length rule did not resolve to the registry descriptor")
	}
}

func TestHydrateRulesKeepsUnknownModelRaw(t *testing.T) {
	stored := []StoredRuleGroup{
		{ID: 1, Rules: []StoredRule{
			{ID: 10, Model: "composer", Operator: "is", Value: []string{"Evans"}},
		}},
	}

	groups := HydrateRules(stored, "odd", 9)

	rule := groups[0].Rules[0]
	if rule.Model != nil {
		t.Error("unknown model resolved to a registry entry")
	}
	if rule.RawModel != "composer" {
		t.Errorf("raw model name not preserved: %q", rule.RawModel)
	}
}

func TestSerializeRoundTripIsLossless(t *testing.T) {
	stored := []StoredRuleGroup{
		{
			ID: 1,
			Rules: []StoredRule{
				{ID: 10, Model: "artist.name", Operator: "is", Value: []string{"Miles Davis"}},
				{ID: 11, Model: "year", Operator: "isBetween", Value: []string{"1955", "1965"}},
				// Unknown to this client version, must survive untouched.
				{ID: 12, Model: "composer", Operator: "is", Value: []string{"Evans"}},
			},
		},
		{
			ID: 2,
			Rules: []StoredRule{
				{ID: 20, Model: "plays", Operator: "isGreaterThan", Value: []string{"10"}},
			},
		},
	}

	out := SerializeRulesForStorage(HydrateRules(stored, "round trip", 3))

	if diff := cmp.Diff(stored, out); diff != "" {
		t.Errorf("round trip not lossless (-in +out):\n%s", diff)
	}
}

func TestSerializeEmptyTreeIsNil(t *testing.T) {
	if got := SerializeRulesForStorage(nil); got != nil {
		t.Errorf("expected nil for empty tree, got %v", got)
	}
	if got := SerializeRulesForStorage([]*RuleGroup{}); got != nil {
		t.Errorf("expected nil for zero-length tree, got %v", got)
	}
}

func TestSerializeClonesValues(t *testing.T) {
	group := &RuleGroup{
		ID: 1,
		Rules: []*Rule{
			{ID: 10, Model: ModelByName("title"), Operator: "is", Value: []string{"original"}},
		},
	}

	stored := SerializeRulesForStorage([]*RuleGroup{group})
	group.Rules[0].Value[0] = "mutated"

	if stored[0].Rules[0].Value[0] != "original" {
		t.Error("serialized value aliases the runtime rule")
	}
}

func TestNewRuleDefaults(t *testing.T) {
	rule := NewRule()

	if rule.ID == 0 {
		t.Error("rule has no identity")
	}
	if rule.Model != &Models[0] {
		t.Error("rule does not default to the first registry model")
	}
	if rule.Operator != Operators[0].Name {
		t.Errorf("rule operator = %q, want %q", rule.Operator, Operators[0].Name)
	}
	if len(rule.Value) != 1 || rule.Value[0] != "" {
		t.Errorf("rule value = %v, want one empty input", rule.Value)
	}
}

func TestOperatorRegistryLookups(t *testing.T) {
	between := OperatorByName("isBetween")
	if between == nil || between.Inputs != 2 {
		t.Error("isBetween should take two inputs")
	}
	if OperatorByName("resembles") != nil {
		t.Error("unknown operator resolved")
	}
	if inLast := OperatorByName("inLast"); inLast == nil || inLast.Unit != "days" {
		t.Error("inLast should carry a day unit")
	}
}
