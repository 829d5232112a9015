package eval

import (
	"embed"
	"encoding/json"
	"fmt"
)

//go:embed fixtures/*.json
var fixtureFS embed.FS

type fixtureFile struct {
	Name    string  `json:"name"`
	Entries []Entry `json:"entries"`
}

// LoadFixture reads one embedded labeled-feeds fixture by name.
func LoadFixture(name string) (string, []Entry, error) {
	raw, err := fixtureFS.ReadFile("fixtures/" + name + ".json")
	if err != nil {
		return "", nil, fmt.Errorf("reading fixture %s: %w", name, err)
	}
	var f fixtureFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return "", nil, fmt.Errorf("parsing fixture %s: %w", name, err)
	}
	return f.Name, f.Entries, nil
}
