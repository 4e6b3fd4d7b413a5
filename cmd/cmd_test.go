package cmd

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.ExecuteContext(context.Background()), out.String())
	return ansi.Strip(out.String())
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestExtract(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "osha_violation1.csv"),
		"activity_nr,violation_description,standard,issuance_date\n"+
			"1,insufficient illumination in the stairwell,1910.37,2019-05-01\n"+
			"2,loose wiring near junction box,1910.303,2020-03-01\n")
	writeFile(t, filepath.Join(dir, "osha_violation2.csv"),
		"activity_nr,violation_description,standard,issuance_date\n"+
			"3,\"employee slipped near exit, unable to see due to low light\",,2020-02-11\n")
	outDir := filepath.Join(dir, "out")

	out := execute(t, "extract",
		"--input", filepath.Join(dir, "osha_violation*.csv"),
		"--output-dir", outDir,
		"--workers", "2",
	)

	assert.Contains(t, out, "Input rows: 3")
	assert.Contains(t, out, "Filtered (kept tags + min_score): 2")
	assert.Contains(t, out, "Used text columns: violation_description")
	assert.Contains(t, out, "CFR column: standard")
	assert.Contains(t, out, "Date column: issuance_date")

	assert.Equal(t,
		"tag,n_records\nlow_light_explicit,1\nunclear_or_other,1\nlow_light_visibility_hazard,1\n",
		readFile(t, filepath.Join(outDir, "summary_by_tag.csv")))
	assert.Equal(t,
		"year,tag,n_records\n2019,low_light_explicit,1\n2020,low_light_visibility_hazard,1\n",
		readFile(t, filepath.Join(outDir, "summary_by_year.csv")))

	filtered := readFile(t, filepath.Join(outDir, "filtered_records.csv"))
	assert.Contains(t, filtered, "activity_nr,violation_description,standard,issuance_date,tag,score,")
	assert.FileExists(t, filepath.Join(outDir, "_debug_head.csv"))
}

func TestStandards(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "osha_violation.csv"),
		"activity_nr,standard,initial_penalty,issuance_date\n"+
			"1,19260056 A,1500,2019-03-01\n"+
			"2,19100303,9000,2019-05-05\n"+
			"3,19100037,250.5,2019-11-20\n")
	outDir := filepath.Join(dir, "out")

	out := execute(t, "standards",
		"--input", filepath.Join(dir, "osha_violation*.csv"),
		"--output-dir", outDir,
	)

	assert.Contains(t, out, "Combined violations rows: 3")
	assert.Contains(t, out, "Matching violations: 2")
	assert.Equal(t,
		"activity_nr,standard,initial_penalty,issuance_date,year\n"+
			"1,19260056 A,1500,2019-03-01,2019\n"+
			"3,19100037,250.5,2019-11-20,2019\n",
		readFile(t, filepath.Join(outDir, standardsViolationsFile)))
	assert.Equal(t,
		"year,n_violations,total_penalty\n2019,2,1750.5\n",
		readFile(t, filepath.Join(outDir, standardsByYearFile)))
}

// One database carrying both OSHA tables.
func writeOSHADatabase(t *testing.T, path string) {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()
	for _, stmt := range []string{
		`CREATE TABLE inspections (activity_nr TEXT, naics_code TEXT)`,
		`INSERT INTO inspections VALUES ('1', '621111'), ('2', '611110')`,
		`CREATE TABLE violations (activity_nr TEXT, standard TEXT)`,
		`INSERT INTO violations VALUES ('1', '19260056'), ('2', '19100303'), ('3', '19100037')`,
	} {
		_, err := db.Exec(stmt)
		require.NoError(t, err, stmt)
	}
}

func TestSector_SharedDatabase(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "osha.db")
	writeOSHADatabase(t, dbPath)
	outDir := filepath.Join(dir, "out")

	out := execute(t, "sector",
		"--inspections", dbPath,
		"--violations", dbPath,
		"--output-dir", outDir,
	)

	assert.Contains(t, out, "Illumination violations: 2")
	assert.Contains(t, out, "Without inspection: 1")
	assert.Contains(t, out, "Health care & social assistance")
	assert.Equal(t,
		"activity_nr,standard,naics_code,sector\n"+
			"1,19260056,621111,Health care & social assistance\n"+
			"3,19100037,,Unknown\n",
		readFile(t, filepath.Join(outDir, sectorJoinedFile)))
	assert.Equal(t,
		"sector,n_violations\nHealth care & social assistance,1\n",
		readFile(t, filepath.Join(outDir, sectorFocusFile)))
}

func TestRules_JSON(t *testing.T) {
	out := execute(t, "rules", "--json")
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Contains(t, doc, "groups")
	assert.Contains(t, doc, "weights")
}

func TestVersion(t *testing.T) {
	assert.Equal(t, "luxscan (devel)\n", execute(t, "version"))
}
