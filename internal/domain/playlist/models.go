// Package playlist manages regular and smart playlists. Smart playlist
// membership is defined by a rule tree whose rules reference a finite,
// statically known registry of filterable models and comparison operators;
// names appear only at the serialization boundary.
package playlist

// ModelType is the value domain of a filterable model.
type ModelType string

const (
	ModelText   ModelType = "text"
	ModelNumber ModelType = "number"
	ModelDate   ModelType = "date"
)

// Model describes one filterable field of the library.
type Model struct {
	Name  string    `json:"name"`
	Label string    `json:"label"`
	Type  ModelType `json:"type"`
	Unit  string    `json:"unit,omitempty"`
}

// Models is the registry of filterable models, in the order presented to the
// user. The first entry is the default for new rules.
var Models = []Model{
	{Name: "title", Label: "Title", Type: ModelText},
	{Name: "album.name", Label: "Album", Type: ModelText},
	{Name: "artist.name", Label: "Artist", Type: ModelText},
	{Name: "plays", Label: "Plays", Type: ModelNumber},
	{Name: "interactions.updated_at", Label: "Last Played", Type: ModelDate},
	{Name: "length", Label: "Length", Type: ModelNumber, Unit: "seconds"},
	{Name: "created_at", Label: "Date Added", Type: ModelDate},
	{Name: "updated_at", Label: "Date Modified", Type: ModelDate},
	{Name: "genre", Label: "Genre", Type: ModelText},
	{Name: "year", Label: "Year", Type: ModelNumber},
}

// ModelByName resolves a stored model name against the registry. Returns nil
// for names the registry does not know.
func ModelByName(name string) *Model {
	for i := range Models {
		if Models[i].Name == name {
			return &Models[i]
		}
	}
	return nil
}

// Operator describes one comparison kind usable in a rule.
type Operator struct {
	Name   string `json:"operator"`
	Label  string `json:"label"`
	Inputs int    `json:"inputs"`
	Unit   string `json:"unit,omitempty"`
}

// Operators is the registry of comparison operators. The first entry is the
// default for new rules.
var Operators = []Operator{
	{Name: "is", Label: "is", Inputs: 1},
	{Name: "isNot", Label: "is not", Inputs: 1},
	{Name: "contains", Label: "contains", Inputs: 1},
	{Name: "notContain", Label: "does not contain", Inputs: 1},
	{Name: "isBetween", Label: "is between", Inputs: 2},
	{Name: "isGreaterThan", Label: "is greater than", Inputs: 1},
	{Name: "isLessThan", Label: "is less than", Inputs: 1},
	{Name: "beginsWith", Label: "begins with", Inputs: 1},
	{Name: "endsWith", Label: "ends with", Inputs: 1},
	{Name: "inLast", Label: "in the last", Inputs: 1, Unit: "days"},
	{Name: "notInLast", Label: "not in the last", Inputs: 1, Unit: "days"},
}

// OperatorByName resolves an operator name against the registry. Returns nil
// for unknown names.
func OperatorByName(name string) *Operator {
	for i := range Operators {
		if Operators[i].Name == name {
			return &Operators[i]
		}
	}
	return nil
}
