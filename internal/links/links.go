package links

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Entry maps a keyword pattern to an official site.
type Entry struct {
	Match string `yaml:"match"` // substring matched against the keyword
	Name  string `yaml:"name"`  // display name of the site
	URL   string `yaml:"url"`
}

// Table answers "does this keyword have an official site worth linking?".
type Table struct {
	entries []Entry
}

// defaultEntries covers the government and portal services most frequently
// hit by benefit/finance keywords.
func defaultEntries() []Entry {
	return []Entry{
		{Match: "연말정산", Name: "국세청 홈택스", URL: "https://www.hometax.go.kr"},
		{Match: "환급", Name: "국세청 홈택스", URL: "https://www.hometax.go.kr"},
		{Match: "청약", Name: "청약홈", URL: "https://www.applyhome.co.kr"},
		{Match: "지원금", Name: "정부24", URL: "https://www.gov.kr"},
		{Match: "복지", Name: "복지로", URL: "https://www.bokjiro.go.kr"},
		{Match: "연금", Name: "국민연금공단", URL: "https://www.nps.or.kr"},
		{Match: "건강보험", Name: "국민건강보험공단", URL: "https://www.nhis.or.kr"},
	}
}

// Load reads the official-link table from a YAML file, falling back to the
// built-in entries when the path is empty.
func Load(path string) (*Table, error) {
	if path == "" {
		return &Table{entries: defaultEntries()}, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read official links file: %w", err)
	}
	var entries []Entry
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse official links file: %w", err)
	}
	if len(entries) == 0 {
		entries = defaultEntries()
	}
	return &Table{entries: entries}, nil
}

// Lookup returns the first entry whose match is contained in the keyword,
// or nil.
func (t *Table) Lookup(keyword string) *Entry {
	lowered := strings.ToLower(keyword)
	for i := range t.entries {
		if strings.Contains(lowered, strings.ToLower(t.entries[i].Match)) {
			return &t.entries[i]
		}
	}
	return nil
}

// Card renders the link card HTML inserted in place of the official-link
// slot.
func (e *Entry) Card() string {
	return fmt.Sprintf(
		`<div class="official-link-card"><p>👉 공식 사이트에서 바로 확인하세요: <a href="%s" target="_blank" rel="noopener">%s</a></p></div>`,
		e.URL, e.Name)
}
