// ABOUTME: Tests for CLI helper functions and command execution.
// ABOUTME: Runs commands in-process against a temp data directory.
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/phr/internal/recommend"
	"github.com/harperreed/phr/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func TestParseTime(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "date and time with space", input: "2025-01-31 08:30"},
		{name: "date and time with seconds", input: "2025-01-31 08:30:15"},
		{name: "date and time with T", input: "2025-01-31T08:30"},
		{name: "date only", input: "2025-01-31"},
		{name: "RFC3339", input: "2025-01-31T08:30:00Z"},
		{name: "RFC3339 with offset", input: "2025-01-31T08:30:00+05:00"},
		{name: "invalid format", input: "31-01-2025", wantErr: true},
		{name: "invalid random string", input: "not a date", wantErr: true},
		{name: "empty string", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseTime(tt.input)

			if tt.wantErr {
				if err == nil {
					t.Errorf("parseTime(%q) expected error, got nil", tt.input)
				}
				return
			}
			if err != nil {
				t.Errorf("parseTime(%q) unexpected error: %v", tt.input, err)
				return
			}
			if result.IsZero() {
				t.Errorf("parseTime(%q) returned zero time", tt.input)
			}
		})
	}
}

func TestParseTimeValues(t *testing.T) {
	result, err := parseTime("2025-06-15")
	if err != nil {
		t.Fatalf("parseTime failed: %v", err)
	}
	if result.Year() != 2025 || result.Month() != time.June || result.Day() != 15 {
		t.Errorf("parseTime returned wrong date: got %v", result)
	}
}

func TestParseRange(t *testing.T) {
	from, to, err := parseRange("", "")
	if err != nil || !from.IsZero() || !to.IsZero() {
		t.Errorf("Expected open range, got %v %v %v", from, to, err)
	}
	if _, _, err := parseRange("2025-02-01", "2025-01-01"); err == nil {
		t.Error("Expected error when --to is before --from")
	}
	if _, _, err := parseRange("bogus", ""); err == nil {
		t.Error("Expected error for invalid --from")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"short string no truncation", "hello", 10, "hello"},
		{"exact length", "hello", 5, "hello"},
		{"needs truncation", "hello world this is a long string", 10, "hello w..."},
		{"truncate at boundary", "abcdefghij", 6, "abc..."},
		{"empty string", "", 10, ""},
		{"very short maxLen", "hello", 3, "..."},
		{"multibyte", "héllo wörld", 8, "héllo..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestPadRight(t *testing.T) {
	tests := []struct {
		input  string
		length int
		want   string
	}{
		{"abc", 6, "abc   "},
		{"abcdef", 3, "abcdef"},
		{"", 2, "  "},
		{"é", 3, "é  "},
	}
	for _, tt := range tests {
		if got := padRight(tt.input, tt.length); got != tt.want {
			t.Errorf("padRight(%q, %d) = %q, want %q", tt.input, tt.length, got, tt.want)
		}
	}
}

func TestRootCmdFlags(t *testing.T) {
	if rootCmd.Use != "phr" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "phr")
	}
	for _, name := range []string{"config", "user", "data-dir", "backend", "verbose"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("Expected --%s persistent flag", name)
		}
	}
	if f := rootCmd.PersistentFlags().ShorthandLookup("u"); f == nil || f.Name != "user" {
		t.Error("Expected -u shorthand for --user")
	}
}

func TestAddCmdFlags(t *testing.T) {
	for _, name := range []string{"bp", "sugar", "pulse", "notes", "date"} {
		if addCmd.Flags().Lookup(name) == nil {
			t.Errorf("Expected --%s flag on add command", name)
		}
	}
}

func TestListCmdFlags(t *testing.T) {
	limitFlag := listCmd.Flags().Lookup("limit")
	if limitFlag == nil {
		t.Fatal("Expected --limit flag on list command")
	}
	if limitFlag.DefValue != "20" {
		t.Errorf("Expected default limit 20, got %s", limitFlag.DefValue)
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"add", "list", "recommend", "stats", "outliers", "bmi", "chart",
		"report", "export", "import", "thresholds", "users", "serve", "mcp", "sync", "config", "migrate"}
	registered := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		registered[c.Name()] = true
	}
	for _, name := range want {
		if !registered[name] {
			t.Errorf("Expected %s command to be registered", name)
		}
	}

	subs := map[*cobra.Command][]string{
		thresholdsCmd: {"show", "set", "reset"},
		syncCmd:       {"link", "push", "pull", "status", "wipe"},
		configCmd:     {"show", "init"},
	}
	for parent, names := range subs {
		for _, name := range names {
			found := false
			for _, c := range parent.Commands() {
				if c.Name() == name {
					found = true
				}
			}
			if !found {
				t.Errorf("Expected %s %s subcommand", parent.Name(), name)
			}
		}
	}
}

// testCLI holds the temp directory commands run against.
type testCLI struct {
	dir string
}

// setupTestCLI points config and data at a temp directory.
func setupTestCLI(t *testing.T) *testCLI {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("CHARM_HOST", "localhost")
	color.NoColor = true

	return &testCLI{dir: filepath.Join(dir, "data")}
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// runAs executes the CLI as user and returns its output.
func (c *testCLI) runAs(t *testing.T, user string, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(append(args, "--data-dir", c.dir, "--user", user))

	err := rootCmd.Execute()
	if cerr := closeResources(); cerr != nil {
		t.Errorf("closeResources failed: %v", cerr)
	}
	return buf.String(), err
}

func (c *testCLI) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return c.runAs(t, "tester", args...)
}

func (c *testCLI) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := c.run(t, args...)
	if err != nil {
		t.Fatalf("%v failed: %v\n%s", args, err, out)
	}
	return out
}

func (c *testCLI) records(t *testing.T, user string) int {
	t.Helper()
	repo, err := storage.NewCSVRepository(c.dir, nil)
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	store, err := repo.Store(user)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	records, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return len(records)
}

func TestAddCmd(t *testing.T) {
	cli := setupTestCLI(t)

	out := cli.mustRun(t, "add", "--bp", "120/80", "--sugar", "95", "--date", "2025-01-02 08:00", "--notes", "fasting")
	if !strings.Contains(out, "Added record for tester") {
		t.Errorf("Expected confirmation, got: %s", out)
	}
	if !strings.Contains(out, recommend.AllHealthyMessage) {
		t.Errorf("Expected all-healthy message, got: %s", out)
	}
	if n := cli.records(t, "tester"); n != 1 {
		t.Errorf("Expected 1 record, got %d", n)
	}

	data, err := os.ReadFile(filepath.Join(cli.dir, "tester", storage.RecordsFile))
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if !strings.Contains(string(data), "2025-01-02 08:00:00,120/80,95,,fasting") {
		t.Errorf("Unexpected CSV content: %s", data)
	}
}

func TestAddCmdUnhealthy(t *testing.T) {
	cli := setupTestCLI(t)

	out := cli.mustRun(t, "add", "--bp", "140/90", "--pulse", "55")
	for _, want := range []string{"BP (140/90 mmHg) is high.", "Sugar data missing.", "Pulse (55 bpm) is low."} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output: %s", want, out)
		}
	}
}

func TestAddCmdValidation(t *testing.T) {
	cli := setupTestCLI(t)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"no readings", []string{"add"}, "at least one reading"},
		{"malformed bp", []string{"add", "--bp", "120-80"}, "malformed"},
		{"negative sugar", []string{"add", "--sugar", "-5"}, "invalid number"},
		{"infinite pulse", []string{"add", "--pulse", "inf"}, "invalid number"},
		{"nan sugar", []string{"add", "--sugar", "NaN"}, "invalid number"},
		{"invalid date", []string{"add", "--sugar", "90", "--date", "yesterday"}, "invalid timestamp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := cli.run(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
	if n := cli.records(t, "tester"); n != 0 {
		t.Errorf("Expected no records after rejected input, got %d", n)
	}
}

func TestInvalidUser(t *testing.T) {
	cli := setupTestCLI(t)
	if _, err := cli.runAs(t, "../etc", "add", "--sugar", "90"); err == nil {
		t.Error("Expected error for invalid user")
	}
}

func TestListCmd(t *testing.T) {
	cli := setupTestCLI(t)

	out := cli.mustRun(t, "list")
	if !strings.Contains(out, "No records found.") {
		t.Errorf("Expected empty message, got: %s", out)
	}

	cli.mustRun(t, "add", "--sugar", "90", "--date", "2025-01-01 08:00")
	cli.mustRun(t, "add", "--sugar", "100", "--date", "2025-01-02 08:00", "--notes", "after a very long walk around the lake")
	cli.mustRun(t, "add", "--sugar", "110", "--date", "2025-01-03 08:00")

	out = cli.mustRun(t, "list")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d: %s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "2025-01-03") {
		t.Errorf("Expected most recent first, got: %s", lines[0])
	}
	if !strings.Contains(lines[1], "(after a very long walk arou...)") {
		t.Errorf("Expected truncated notes, got: %s", lines[1])
	}

	out = cli.mustRun(t, "list", "-n", "1")
	if strings.Count(strings.TrimSpace(out), "\n") != 0 {
		t.Errorf("Expected 1 line with --limit 1, got: %s", out)
	}

	out = cli.mustRun(t, "list", "--from", "2025-01-02", "--to", "2025-01-02")
	if !strings.Contains(out, "2025-01-02") || strings.Contains(out, "2025-01-03") {
		t.Errorf("Expected only 2025-01-02, got: %s", out)
	}
}

func TestRecommendCmd(t *testing.T) {
	cli := setupTestCLI(t)

	out := cli.mustRun(t, "recommend")
	if !strings.Contains(out, "No health records for tester yet") {
		t.Errorf("Expected no-records hint, got: %s", out)
	}

	cli.mustRun(t, "add", "--bp", "150/96", "--sugar", "100", "--date", "2025-01-01 08:00")
	cli.mustRun(t, "add", "--bp", "140/90", "--sugar", "120", "--date", "2025-01-02 08:00")

	out = cli.mustRun(t, "recommend")
	for _, want := range []string{"Avg BP (145/93): Elevated", "Avg Sugar (110 mg/dL): Healthy range.", "Recent Records", recommend.Disclaimer} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output: %s", want, out)
		}
	}
}

func TestRecommendCmdWindowWithoutReadings(t *testing.T) {
	cli := setupTestCLI(t)

	userDir := filepath.Join(cli.dir, "tester")
	if err := os.MkdirAll(userDir, 0750); err != nil {
		t.Fatal(err)
	}
	content := "date,blood_pressure,sugar_level,pulse_rate,notes\n" +
		"2025-01-03 08:00:00,,,,skipped breakfast\n"
	if err := os.WriteFile(filepath.Join(userDir, storage.RecordsFile), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	out := cli.mustRun(t, "recommend")
	if !strings.Contains(out, recommend.NoReadingsMsg) {
		t.Errorf("Expected %q in output: %s", recommend.NoReadingsMsg, out)
	}
}

func TestStatsAndOutliersCmd(t *testing.T) {
	cli := setupTestCLI(t)

	cli.mustRun(t, "add", "--bp", "120/80", "--sugar", "100", "--date", "2025-01-01")
	cli.mustRun(t, "add", "--bp", "130/90", "--sugar", "200", "--date", "2025-01-02")

	out := cli.mustRun(t, "stats")
	if !strings.Contains(out, "Sugar Level (mg/dL)") || !strings.Contains(out, "150.00") {
		t.Errorf("Expected sugar mean 150.00, got: %s", out)
	}
	if !strings.Contains(out, "no data") {
		t.Errorf("Expected pulse to show no data, got: %s", out)
	}
	if !strings.Contains(out, "General Health Guidelines") {
		t.Errorf("Expected guidelines, got: %s", out)
	}

	out = cli.mustRun(t, "stats", "--from", "2026-01-01")
	if !strings.Contains(out, "No records in the selected range.") {
		t.Errorf("Expected empty-range message, got: %s", out)
	}

	out = cli.mustRun(t, "outliers")
	if !strings.Contains(out, "200 (high)") || !strings.Contains(out, "90 (high)") {
		t.Errorf("Expected sugar and diastolic outliers, got: %s", out)
	}
}

func TestBMICmd(t *testing.T) {
	cli := setupTestCLI(t)

	out := cli.mustRun(t, "bmi", "--height", "1.75", "--weight", "70")
	if !strings.Contains(out, "BMI: 22.86") || !strings.Contains(out, "Normal weight") {
		t.Errorf("Unexpected BMI output: %s", out)
	}

	if _, err := cli.run(t, "bmi", "--height", "0", "--weight", "70"); err == nil {
		t.Error("Expected error for zero height")
	}
}

func TestChartCmd(t *testing.T) {
	cli := setupTestCLI(t)

	out := cli.mustRun(t, "chart", "sugar")
	if !strings.Contains(out, "No valid data to plot") {
		t.Errorf("Expected no-data message, got: %s", out)
	}

	cli.mustRun(t, "add", "--sugar", "90", "--date", "2025-01-01")
	cli.mustRun(t, "add", "--sugar", "160", "--date", "2025-01-02")

	out = cli.mustRun(t, "chart", "sugar")
	if !strings.Contains(out, "(2 readings)") {
		t.Errorf("Expected reading count in footer, got: %s", out)
	}

	if _, err := cli.run(t, "chart", "weight"); err == nil {
		t.Error("Expected error for unknown metric")
	}
}

func TestReportCmd(t *testing.T) {
	cli := setupTestCLI(t)
	outDir := t.TempDir()

	cli.mustRun(t, "add", "--bp", "120/80", "--sugar", "100", "--date", "2025-03-01 08:00")
	cli.mustRun(t, "add", "--sugar", "130", "--date", "2025-03-04 08:00")

	for _, format := range []string{"md", "xlsx", "pdf"} {
		out := cli.mustRun(t, "report", "--format", format, "-o", outDir)
		path := filepath.Join(outDir, "health_report_2025-03-01_2025-03-04."+format)
		if !strings.Contains(out, path) {
			t.Errorf("Expected path %s in output: %s", path, out)
		}
		info, err := os.Stat(path)
		if err != nil || info.Size() == 0 {
			t.Errorf("Expected non-empty %s report: %v", format, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(outDir, "health_report_2025-03-01_2025-03-04.md"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Average Sugar Level: 115.00 mg/dL") {
		t.Errorf("Expected sugar average in markdown report: %s", data)
	}

	if _, err := cli.run(t, "report", "--format", "docx"); err == nil {
		t.Error("Expected error for unknown format")
	}
}

func TestExportImportCmd(t *testing.T) {
	cli := setupTestCLI(t)
	backup := filepath.Join(t.TempDir(), "backup.json")

	cli.mustRun(t, "add", "--bp", "120/80", "--date", "2025-01-01 08:00")
	cli.mustRun(t, "add", "--pulse", "70", "--date", "2025-01-02 08:00")

	out := cli.mustRun(t, "export", "json", "-o", backup)
	if !strings.Contains(out, "Exported 2 records") {
		t.Errorf("Unexpected export output: %s", out)
	}

	out = cli.mustRun(t, "export", "yaml")
	if !strings.Contains(out, "blood_pressure: 120/80") {
		t.Errorf("Expected YAML export, got: %s", out)
	}

	out, err := cli.runAs(t, "other", "import", backup)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if !strings.Contains(out, "Imported 2 records") {
		t.Errorf("Unexpected import output: %s", out)
	}

	out, err = cli.runAs(t, "other", "import", backup)
	if err != nil {
		t.Fatalf("second import failed: %v", err)
	}
	if !strings.Contains(out, "Imported 0 records") || !strings.Contains(out, "2 already present") {
		t.Errorf("Expected duplicate-free second import, got: %s", out)
	}
	if n := cli.records(t, "other"); n != 2 {
		t.Errorf("Expected 2 records for other, got %d", n)
	}

	if _, err := cli.run(t, "import", filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Expected error for missing file")
	}
	if _, err := cli.run(t, "export", "csv"); err == nil {
		t.Error("Expected error for unknown export format")
	}
}

func TestThresholdsCmd(t *testing.T) {
	cli := setupTestCLI(t)

	out := cli.mustRun(t, "add", "--sugar", "150", "--date", "2025-01-01")
	if !strings.Contains(out, "Sugar (150 mg/dL) is high.") {
		t.Fatalf("Expected high sugar with defaults, got: %s", out)
	}

	cli.mustRun(t, "thresholds", "set", "sugar", "70", "180")
	out = cli.mustRun(t, "thresholds", "show")
	if !strings.Contains(out, "180.0") || !strings.Contains(out, "(custom)") {
		t.Errorf("Expected custom sugar range, got: %s", out)
	}

	out = cli.mustRun(t, "add", "--sugar", "150", "--date", "2025-01-02")
	if !strings.Contains(out, recommend.AllHealthyMessage) {
		t.Errorf("Expected healthy sugar with override, got: %s", out)
	}

	// Overrides are per user.
	out, err := cli.runAs(t, "someone", "thresholds", "show")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "(custom)") {
		t.Errorf("Expected no overrides for another user, got: %s", out)
	}

	cli.mustRun(t, "thresholds", "reset")
	out = cli.mustRun(t, "thresholds", "show")
	if strings.Contains(out, "(custom)") {
		t.Errorf("Expected overrides removed, got: %s", out)
	}

	if _, err := cli.run(t, "thresholds", "set", "weight", "1", "2"); err == nil {
		t.Error("Expected error for unknown metric")
	}
	if _, err := cli.run(t, "thresholds", "set", "sugar", "200", "100"); err == nil {
		t.Error("Expected error for inverted range")
	}
}

func TestUsersCmd(t *testing.T) {
	cli := setupTestCLI(t)

	out := cli.mustRun(t, "users")
	if !strings.Contains(out, "No users yet.") {
		t.Errorf("Expected no users, got: %s", out)
	}

	cli.mustRun(t, "add", "--sugar", "90")
	if _, err := cli.runAs(t, "alice", "add", "--sugar", "95"); err != nil {
		t.Fatal(err)
	}

	out = cli.mustRun(t, "users")
	if !strings.Contains(out, "alice") || !strings.Contains(out, "* tester") {
		t.Errorf("Expected both users with tester marked, got: %s", out)
	}
}

func TestSQLiteBackend(t *testing.T) {
	cli := setupTestCLI(t)

	cli.mustRun(t, "add", "--backend", "sqlite", "--bp", "118/76", "--date", "2025-01-01 07:00")
	out := cli.mustRun(t, "list", "--backend", "sqlite")
	if !strings.Contains(out, "118/76") {
		t.Errorf("Expected record from sqlite backend, got: %s", out)
	}
	if _, err := os.Stat(filepath.Join(cli.dir, "phr.db")); err != nil {
		t.Errorf("Expected phr.db: %v", err)
	}

	if _, err := cli.run(t, "list", "--backend", "mongo"); err == nil {
		t.Error("Expected error for unknown backend")
	}
}

func TestConfigCmd(t *testing.T) {
	cli := setupTestCLI(t)

	out := cli.mustRun(t, "config", "init")
	if !strings.Contains(out, "Wrote") {
		t.Errorf("Unexpected init output: %s", out)
	}
	if _, err := cli.run(t, "config", "init"); err == nil {
		t.Error("Expected error when config already exists")
	}
	cli.mustRun(t, "config", "init", "--force")

	out = cli.mustRun(t, "config", "show")
	for _, want := range []string{"backend: csv", "user: tester", "window_days: 30", "sugar:"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in config show: %s", want, out)
		}
	}
}

func TestMigrateCmd(t *testing.T) {
	cli := setupTestCLI(t)

	cli.mustRun(t, "add", "--sugar", "90", "--date", "2025-01-01")
	cli.mustRun(t, "add", "--sugar", "95", "--date", "2025-01-02")

	out := cli.mustRun(t, "migrate", "--to", "sqlite", "--dry-run")
	if !strings.Contains(out, "Would migrate 2 records for 1 users") {
		t.Errorf("Unexpected dry-run output: %s", out)
	}

	out = cli.mustRun(t, "migrate", "--to", "sqlite")
	if !strings.Contains(out, "Migrated 2 records") {
		t.Errorf("Unexpected migrate output: %s", out)
	}

	out = cli.mustRun(t, "list", "--backend", "sqlite")
	if strings.Count(strings.TrimSpace(out), "\n") != 1 {
		t.Errorf("Expected 2 records in sqlite, got: %s", out)
	}

	_, err := cli.run(t, "migrate", "--to", "sqlite")
	if err == nil || !strings.Contains(err.Error(), "--force") {
		t.Errorf("Expected refusal for non-empty destination, got %v", err)
	}

	out = cli.mustRun(t, "migrate", "--to", "sqlite", "--force")
	if !strings.Contains(out, "Migrated 0 records") || !strings.Contains(out, "2 already present") {
		t.Errorf("Expected idempotent re-run, got: %s", out)
	}

	if _, err := cli.run(t, "migrate", "--to", "csv"); err == nil {
		t.Error("Expected error migrating to the active backend")
	}
}

func TestSyncWipeCanceled(t *testing.T) {
	cli := setupTestCLI(t)

	rootCmd.SetIn(strings.NewReader("no\n"))
	t.Cleanup(func() { rootCmd.SetIn(nil) })

	out := cli.mustRun(t, "sync", "wipe")
	if !strings.Contains(out, "Type 'wipe' to confirm") || !strings.Contains(out, "Canceled.") {
		t.Errorf("Expected canceled wipe, got: %s", out)
	}
}
