package links

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLookup_Defaults(t *testing.T) {
	table, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	entry := table.Lookup("연말정산 환급 조회")
	if entry == nil {
		t.Fatal("연말정산 should map to an official site")
	}
	if !strings.Contains(entry.URL, "hometax.go.kr") {
		t.Errorf("expected 홈택스, got %s", entry.URL)
	}

	if table.Lookup("갤럭시 S25 출시일") != nil {
		t.Error("unmatched keyword should return nil")
	}
}

func TestLoad_CustomFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "links.yaml")
	yaml := `
- match: 운전면허
  name: 도로교통공단
  url: https://www.koroad.or.kr
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatalf("write links file: %v", err)
	}

	table, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	entry := table.Lookup("운전면허 갱신 방법")
	if entry == nil || entry.Name != "도로교통공단" {
		t.Errorf("custom entry not matched: %+v", entry)
	}
}

func TestCard(t *testing.T) {
	e := Entry{Match: "청약", Name: "청약홈", URL: "https://www.applyhome.co.kr"}
	card := e.Card()
	if !strings.Contains(card, "official-link-card") || !strings.Contains(card, e.URL) {
		t.Errorf("card HTML incomplete: %s", card)
	}
}
