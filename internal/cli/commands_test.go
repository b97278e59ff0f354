package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/khanglvm/calc-hub/internal/assignment"
	"github.com/khanglvm/calc-hub/internal/benchmark"
	"github.com/khanglvm/calc-hub/internal/history"
	"github.com/khanglvm/calc-hub/internal/recommend"
	"github.com/khanglvm/calc-hub/internal/search"
	"github.com/khanglvm/calc-hub/internal/tracking"
)

// testEnv runs commands against a config path and database in a temp dir.
type testEnv struct {
	t      *testing.T
	dir    string
	global []string
}

func newTestEnv(t *testing.T, backend string) *testEnv {
	t.Helper()
	dir := t.TempDir()
	return &testEnv{
		t:   t,
		dir: dir,
		global: []string{
			"--config", filepath.Join(dir, "config.json"),
			"--backend", backend,
			"--db", filepath.Join(dir, "calc-hub."+backend),
		},
	}
}

func (e *testEnv) execute(args ...string) (string, error) {
	e.t.Helper()
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(append(args, e.global...))
	err := cmd.Execute()
	return buf.String(), err
}

func (e *testEnv) mustExecute(args ...string) string {
	e.t.Helper()
	out, err := e.execute(args...)
	if err != nil {
		e.t.Fatalf("%v: %v\n%s", args, err, out)
	}
	return out
}

func (e *testEnv) decode(v interface{}, args ...string) {
	e.t.Helper()
	out := e.mustExecute(args...)
	if err := json.Unmarshal([]byte(out), v); err != nil {
		e.t.Fatalf("%v: invalid JSON output: %v\n%s", args, err, out)
	}
}

func TestUsagePersistsAcrossRuns(t *testing.T) {
	for _, backend := range []string{"sqlite", "bolt"} {
		t.Run(backend, func(t *testing.T) {
			env := newTestEnv(t, backend)

			env.mustExecute("usage", "record", "/tip-calculator", "--visitor", "alice")
			env.mustExecute("usage", "record", "/tip-calculator", "/bmi-calculator", "--visitor", "alice")

			var events []history.UsageEvent
			env.decode(&events, "usage", "history", "--json", "--visitor", "alice")
			if len(events) != 3 {
				t.Fatalf("Expected 3 events, got %d", len(events))
			}
			if events[0].ToolID != "/bmi-calculator" {
				t.Errorf("Expected newest event first, got %q", events[0].ToolID)
			}

			var recent []string
			env.decode(&recent, "usage", "recent", "--json", "--visitor", "alice")
			if len(recent) != 2 || recent[0] != "/bmi-calculator" || recent[1] != "/tip-calculator" {
				t.Errorf("Unexpected recent tools: %v", recent)
			}

			var frequent []history.ToolCount
			env.decode(&frequent, "usage", "frequent", "--json", "--visitor", "alice")
			if len(frequent) == 0 || frequent[0].ToolID != "/tip-calculator" || frequent[0].Count != 2 {
				t.Errorf("Unexpected frequent tools: %v", frequent)
			}

			// Another visitor's history is separate
			var other []history.UsageEvent
			env.decode(&other, "usage", "history", "--json", "--visitor", "bob")
			if len(other) != 0 {
				t.Errorf("Expected empty history for another visitor, got %d events", len(other))
			}

			env.mustExecute("usage", "clear", "--visitor", "alice")
			env.decode(&events, "usage", "history", "--json", "--visitor", "alice")
			if len(events) != 0 {
				t.Errorf("Expected empty history after clear, got %d events", len(events))
			}
		})
	}
}

func TestAssignIsStable(t *testing.T) {
	env := newTestEnv(t, "sqlite")

	var first, second []assignment.Decision
	env.decode(&first, "assign", "result-layout", "--json", "--visitor", "alice")
	env.decode(&second, "assign", "result-layout", "--json", "--visitor", "alice")

	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("Expected one decision per run, got %d and %d", len(first), len(second))
	}
	if first[0].Source != assignment.SourceBucketed {
		t.Errorf("Expected first decision to be bucketed, got %q", first[0].Source)
	}
	if second[0].Source != assignment.SourceStored {
		t.Errorf("Expected second decision to be stored, got %q", second[0].Source)
	}
	if first[0].VariantID != second[0].VariantID {
		t.Errorf("Assignment changed between runs: %q then %q", first[0].VariantID, second[0].VariantID)
	}

	var table map[string]string
	env.decode(&table, "assignments", "list", "--json", "--visitor", "alice")
	if table["result-layout"] != first[0].VariantID {
		t.Errorf("Stored assignment = %q, want %q", table["result-layout"], first[0].VariantID)
	}

	env.mustExecute("assignments", "clear", "--visitor", "alice")
	table = nil
	env.decode(&table, "assignments", "list", "--json", "--visitor", "alice")
	if len(table) != 0 {
		t.Errorf("Expected no assignments after clear, got %v", table)
	}
}

func TestAssignUnknownTestReturnsDefault(t *testing.T) {
	env := newTestEnv(t, "memory")

	var decisions []assignment.Decision
	env.decode(&decisions, "assign", "no-such-test", "--default", "fallback", "--json", "--visitor", "alice")

	if len(decisions) != 1 {
		t.Fatalf("Expected one decision, got %d", len(decisions))
	}
	if decisions[0].VariantID != "fallback" || decisions[0].Source != assignment.SourceDefault {
		t.Errorf("Unexpected decision: %+v", decisions[0])
	}
}

func TestAssignAllActiveTests(t *testing.T) {
	env := newTestEnv(t, "memory")

	var decisions []assignment.Decision
	env.decode(&decisions, "assign", "--json", "--visitor", "alice")

	if len(decisions) == 0 {
		t.Fatal("Expected a decision for every active test")
	}
	for _, d := range decisions {
		if d.VariantID == "" {
			t.Errorf("Test %q has no variant", d.TestID)
		}
	}
}

func TestRecommendCommand(t *testing.T) {
	env := newTestEnv(t, "sqlite")

	var recs []recommend.Recommendation
	env.decode(&recs, "recommend", "/tip-calculator", "--json", "--personalized=false", "--visitor", "alice")
	if len(recs) == 0 || recs[0].ToolID != "/split-bill-calculator" {
		t.Fatalf("Unexpected recommendations: %v", recs)
	}

	env.decode(&recs, "recommend", "/loan-calculator", "--context", "amount=250000", "--limit", "0", "--json", "--visitor", "alice")
	found := false
	for _, r := range recs {
		if r.ToolID == "/mortgage-calculator" {
			found = true
		}
		if r.ToolID == "/loan-calculator" {
			t.Error("Current tool must not be recommended")
		}
	}
	if !found {
		t.Errorf("Expected large loan rule to add /mortgage-calculator: %v", recs)
	}

	env.decode(&recs, "recommend", "/tip-calculator", "--limit", "2", "--json", "--visitor", "alice")
	if len(recs) != 2 {
		t.Errorf("Expected 2 recommendations with --limit 2, got %d", len(recs))
	}

	env.decode(&recs, "recommend", "/no-such-tool", "--json", "--personalized=false", "--visitor", "alice")
	if len(recs) != 0 {
		t.Errorf("Expected no recommendations for an unknown tool, got %v", recs)
	}
}

func TestRecommendBlendsHistory(t *testing.T) {
	env := newTestEnv(t, "sqlite")

	env.mustExecute("usage", "record", "/bmi-calculator", "/bmi-calculator", "/bmi-calculator", "--visitor", "alice")

	var recs []recommend.Recommendation
	env.decode(&recs, "recommend", "/tip-calculator", "--limit", "0", "--personalized", "--json", "--visitor", "alice")

	last := recs[len(recs)-1]
	if last.ToolID != "/bmi-calculator" {
		t.Fatalf("Expected history tool appended last, got %v", recs)
	}
	if last.Priority != recommend.PriorityLow {
		t.Errorf("Expected low priority for history tool, got %q", last.Priority)
	}
}

func TestSearchCommand(t *testing.T) {
	env := newTestEnv(t, "memory")

	var results []search.SearchResult
	env.decode(&results, "search", "loan", "--json", "--visitor", "alice")
	if len(results) == 0 {
		t.Fatal("Expected results for 'loan'")
	}

	found := false
	for _, r := range results {
		if r.Tool.ID == "/loan-calculator" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected /loan-calculator in results: %v", results)
	}

	env.decode(&results, "search", "calculator", "--category", "health", "--limit", "20", "--json", "--visitor", "alice")
	for _, r := range results {
		if r.Tool.Category != "health" {
			t.Errorf("Result %q outside category: %q", r.Tool.ID, r.Tool.Category)
		}
	}
}

func TestEventsExport(t *testing.T) {
	env := newTestEnv(t, "sqlite")

	env.mustExecute("assign", "result-layout", "--visitor", "alice")
	env.mustExecute("usage", "record", "/tip-calculator", "--visitor", "alice")

	output := filepath.Join(env.dir, "events.json")
	env.mustExecute("events", "export", "--output", output)

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("Failed to read export: %v", err)
	}
	var events []tracking.Event
	if err := json.Unmarshal(data, &events); err != nil {
		t.Fatalf("Invalid export: %v", err)
	}

	kinds := map[tracking.Kind]bool{}
	for _, e := range events {
		kinds[e.Kind] = true
		if e.VisitorID != "alice" {
			t.Errorf("Unexpected visitor id %q", e.VisitorID)
		}
	}
	if !kinds[tracking.KindExposure] || !kinds[tracking.KindVisit] {
		t.Errorf("Expected exposure and visit events, got %v", kinds)
	}

	env.mustExecute("events", "clear")
	env.decode(&events, "events", "export")
	if len(events) != 0 {
		t.Errorf("Expected no events after clear, got %d", len(events))
	}
}

func TestVisitorCommand(t *testing.T) {
	env := newTestEnv(t, "sqlite")

	first := strings.TrimSpace(env.mustExecute("visitor"))
	second := strings.TrimSpace(env.mustExecute("visitor"))
	if first == "" || first != second {
		t.Errorf("Expected a stable visitor id, got %q then %q", first, second)
	}

	reset := strings.TrimSpace(env.mustExecute("visitor", "--reset"))
	if reset == first {
		t.Error("Expected a new visitor id after --reset")
	}
	if after := strings.TrimSpace(env.mustExecute("visitor")); after != reset {
		t.Errorf("Expected reset id to persist, got %q then %q", reset, after)
	}

	if override := strings.TrimSpace(env.mustExecute("visitor", "--visitor", "alice")); override != "alice" {
		t.Errorf("Expected override id, got %q", override)
	}
}

func TestTestsCommands(t *testing.T) {
	env := newTestEnv(t, "memory")

	out := env.mustExecute("tests", "list")
	if !strings.Contains(out, "result-layout") {
		t.Errorf("Expected built-in tests in list: %q", out)
	}

	exported := env.mustExecute("tests", "export")
	if !strings.Contains(exported, "tests:") {
		t.Errorf("Expected experiments file layout: %q", exported)
	}

	good := filepath.Join(env.dir, "good.yaml")
	if err := os.WriteFile(good, []byte(exported), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := env.execute("tests", "validate", good); err != nil {
		t.Errorf("Exported tests should validate: %v", err)
	}

	bad := filepath.Join(env.dir, "bad.yaml")
	badYAML := `tests:
  - id: broken
    name: Broken
    enabled: true
    variants:
      - {id: a, name: A, weight: 0.5}
      - {id: b, name: B, weight: 0.2}
`
	if err := os.WriteFile(bad, []byte(badYAML), 0644); err != nil {
		t.Fatal(err)
	}
	out, err := env.execute("tests", "validate", bad)
	if err == nil {
		t.Error("Expected validate to fail for bad weights")
	}
	if !strings.Contains(out, "broken") {
		t.Errorf("Expected problem to name the test: %q", out)
	}
}

func TestTestsSimulate(t *testing.T) {
	env := newTestEnv(t, "memory")

	var result benchmark.SimulationResult
	env.decode(&result, "tests", "simulate", "result-layout", "--visitors", "1000", "--json")
	if result.TestID != "result-layout" || result.Visitors != 1000 {
		t.Errorf("Unexpected result: %+v", result)
	}
	if len(result.Variants) != 2 {
		t.Errorf("Expected 2 variants, got %d", len(result.Variants))
	}

	if _, err := env.execute("tests", "simulate", "no-such-test"); err == nil {
		t.Error("Expected error for an unknown test")
	}
}

func TestExperimentsFileFromConfig(t *testing.T) {
	env := newTestEnv(t, "memory")

	experimentsYAML := `tests:
  - id: only-test
    name: Only test
    enabled: true
    variants:
      - {id: solo, name: Solo, weight: 1.0}
`
	if err := os.WriteFile(filepath.Join(env.dir, "experiments.yaml"), []byte(experimentsYAML), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := `{"experimentsFile": "experiments.yaml"}`
	if err := os.WriteFile(filepath.Join(env.dir, "config.json"), []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}

	var decisions []assignment.Decision
	env.decode(&decisions, "assign", "--json", "--visitor", "alice")
	if len(decisions) != 1 || decisions[0].TestID != "only-test" || decisions[0].VariantID != "solo" {
		t.Errorf("Unexpected decisions: %+v", decisions)
	}
}

func TestConfigCommands(t *testing.T) {
	env := newTestEnv(t, "memory")
	path := filepath.Join(env.dir, "config.json")

	if out := strings.TrimSpace(env.mustExecute("config", "path")); out != path {
		t.Errorf("config path = %q, want %q", out, path)
	}

	env.mustExecute("config", "init")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("Expected config file to be written: %v", err)
	}

	if _, err := env.execute("config", "init"); err == nil {
		t.Error("Expected init to refuse overwriting an existing file")
	}
	env.mustExecute("config", "init", "--force")
	if _, err := os.Stat(path + ".bak"); err != nil {
		t.Errorf("Expected backup after forced init: %v", err)
	}

	var shown map[string]interface{}
	env.decode(&shown, "config", "show")
	if _, ok := shown["storage"]; !ok {
		t.Errorf("Expected storage section in config: %v", shown)
	}
}

func TestInvalidConfigFails(t *testing.T) {
	env := newTestEnv(t, "memory")

	cfg := `{"logging": {"level": "loud"}}`
	if err := os.WriteFile(filepath.Join(env.dir, "config.json"), []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := env.execute("visitor"); err == nil {
		t.Error("Expected an invalid config to fail")
	}
}

func TestBrokenExperimentsFileKeepsCommandsWorking(t *testing.T) {
	broken := `tests:
  - id: result-layout
    name: Result layout
    enabled: true
    variants:
      - {id: control, name: Control, wieght: 1.0}
`

	tests := []struct {
		name    string
		write   bool
		problem string
	}{
		{"typo", true, "wieght"},
		{"missing file", false, "experiments.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, "sqlite")
			if tt.write {
				if err := os.WriteFile(filepath.Join(env.dir, "experiments.yaml"), []byte(broken), 0644); err != nil {
					t.Fatal(err)
				}
			}
			cfg := `{"experimentsFile": "experiments.yaml"}`
			if err := os.WriteFile(filepath.Join(env.dir, "config.json"), []byte(cfg), 0644); err != nil {
				t.Fatal(err)
			}

			var recs []recommend.Recommendation
			env.decode(&recs, "recommend", "/tip-calculator", "--json", "--visitor", "alice")
			if len(recs) == 0 {
				t.Error("Expected recommendations despite the broken experiments file")
			}
			env.mustExecute("usage", "record", "/tip-calculator", "--visitor", "alice")

			var decisions []assignment.Decision
			env.decode(&decisions, "assign", "result-layout", "--default", "control", "--json", "--visitor", "alice")
			if len(decisions) != 1 || decisions[0].Source != assignment.SourceDefault || decisions[0].VariantID != "control" {
				t.Errorf("Expected the default variant, got %+v", decisions)
			}

			decisions = nil
			env.decode(&decisions, "assign", "--json", "--visitor", "alice")
			if len(decisions) != 0 {
				t.Errorf("Expected no active tests, got %+v", decisions)
			}

			out, err := env.execute("tests", "validate")
			if err == nil {
				t.Fatal("Expected validate to fail")
			}
			if !strings.Contains(out, tt.problem) {
				t.Errorf("Expected validate output to name %q:\n%s", tt.problem, out)
			}
		})
	}
}

func TestRecommendUnknownToolPersonalized(t *testing.T) {
	env := newTestEnv(t, "sqlite")

	env.mustExecute("usage", "record", "/bmi-calculator", "/tip-calculator", "--visitor", "alice")

	var recs []recommend.Recommendation
	env.decode(&recs, "recommend", "/no-such-tool", "--json", "--visitor", "alice")
	if len(recs) != 0 {
		t.Errorf("Expected no recommendations for an unknown tool, got %v", recs)
	}
}

func TestSearchIndexPersistsNextToStore(t *testing.T) {
	env := newTestEnv(t, "sqlite")

	for i := 0; i < 2; i++ {
		var results []search.SearchResult
		env.decode(&results, "search", "mortgage", "--json", "--visitor", "alice")
		if len(results) == 0 || results[0].Tool.ID != "/mortgage-calculator" {
			t.Fatalf("Run %d: unexpected results %v", i, results)
		}
	}

	if _, err := os.Stat(filepath.Join(env.dir, "catalog.bleve")); err != nil {
		t.Errorf("Expected the search index next to the store: %v", err)
	}
}

func TestNoTrackRecordsNoEvents(t *testing.T) {
	env := newTestEnv(t, "sqlite")

	env.mustExecute("assign", "result-layout", "--visitor", "alice", "--no-track")
	env.mustExecute("usage", "record", "/tip-calculator", "--visitor", "alice", "--no-track")

	var events []tracking.Event
	env.decode(&events, "events", "export")
	if len(events) != 0 {
		t.Errorf("Expected no events with --no-track, got %d", len(events))
	}

	var visits []history.UsageEvent
	env.decode(&visits, "usage", "history", "--json", "--visitor", "alice")
	if len(visits) != 1 {
		t.Errorf("Expected --no-track to keep usage history, got %d events", len(visits))
	}
}
