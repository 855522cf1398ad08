package source

import "strings"

// Schema names the columns of the two source files. Header matching is
// case-insensitive and ignores surrounding whitespace.
type Schema struct {
	// Player file.
	Name     string `koanf:"name"`
	Year     string `koanf:"year"`
	Position string `koanf:"position"`
	Height   string `koanf:"height"`
	Weight   string `koanf:"weight"`
	Team     string `koanf:"team"`
	Round    string `koanf:"round"`
	Pick     string `koanf:"pick"`
	Status   string `koanf:"status"`

	// Test file. Rows are joined on TestPlayer+TestYear when both columns
	// exist, otherwise on TestPlayerID ("Name_Year").
	TestPlayerID string `koanf:"test_player_id"`
	TestPlayer   string `koanf:"test_player"`
	TestYear     string `koanf:"test_year"`
	TestName     string `koanf:"test_name"`
	TestValue    string `koanf:"test_value"`
}

// DefaultSchema matches the combine data provider's export.
func DefaultSchema() Schema {
	return Schema{
		Name:     "Player",
		Year:     "Year",
		Position: "Pos",
		Height:   "Ht",
		Weight:   "Wt",
		Team:     "Team",
		Round:    "Round",
		Pick:     "Pick",
		Status:   "Status",

		TestPlayerID: "Pfr_ID",
		TestPlayer:   "Player",
		TestYear:     "Year",
		TestName:     "Test",
		TestValue:    "Value",
	}
}

// Merge returns s with blank fields filled from DefaultSchema.
func (s Schema) Merge() Schema {
	d := DefaultSchema()
	fill := func(v *string, def string) {
		if strings.TrimSpace(*v) == "" {
			*v = def
		}
	}
	fill(&s.Name, d.Name)
	fill(&s.Year, d.Year)
	fill(&s.Position, d.Position)
	fill(&s.Height, d.Height)
	fill(&s.Weight, d.Weight)
	fill(&s.Team, d.Team)
	fill(&s.Round, d.Round)
	fill(&s.Pick, d.Pick)
	fill(&s.Status, d.Status)
	fill(&s.TestPlayerID, d.TestPlayerID)
	fill(&s.TestPlayer, d.TestPlayer)
	fill(&s.TestYear, d.TestYear)
	fill(&s.TestName, d.TestName)
	fill(&s.TestValue, d.TestValue)
	return s
}

// header maps normalized column names to their index.
type header map[string]int

func newHeader(cols []string) header {
	h := make(header, len(cols))
	for i, c := range cols {
		c = strings.TrimPrefix(c, "\ufeff")
		key := strings.ToLower(strings.TrimSpace(c))
		if _, dup := h[key]; !dup {
			h[key] = i
		}
	}
	return h
}

// index returns the position of col or -1.
func (h header) index(col string) int {
	if i, ok := h[strings.ToLower(strings.TrimSpace(col))]; ok {
		return i
	}
	return -1
}

// field returns the trimmed value at i, or "" if the row is short.
func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}
