package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"exomatch/internal/catalog"
	"exomatch/internal/testsupport"
)

const squatKey = "Video/groupes-musculaires/fessiers-jambes/1. Squat sumo.mp4"

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath, nil)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "Catalog: sqlite (MUSCLE_GROUPS)")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "", nil)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, "", nil); err == nil {
		t.Fatal("expected init to refuse an existing file")
	}
}

func TestConfigValidateRejectsBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[matching]\nthreshold = 2.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HOME", t.TempDir())
	if _, _, err := runCLI(t, []string{"config", "validate"}, path, nil); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestInspectionCommands(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"--json", "normalize", "10.1 Le squat sumo"}, env.configPath, nil)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	var normalized []struct {
		Raw        string `json:"raw"`
		Normalized string `json:"normalized"`
	}
	if err := json.Unmarshal([]byte(out), &normalized); err != nil {
		t.Fatalf("decode normalize output: %v\n%s", err, out)
	}
	if len(normalized) != 1 || normalized[0].Normalized != "squat sumo" {
		t.Fatalf("normalize output = %+v", normalized)
	}

	out, _, err = runCLI(t, []string{"difficulty", "Débutant"}, env.configPath, nil)
	if err != nil {
		t.Fatalf("difficulty: %v", err)
	}
	requireContains(t, out, "BEGINNER")

	out, _, err = runCLI(t, []string{"--json", "score", "Squat sumo", "squat sumo"}, env.configPath, nil)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	var breakdown struct {
		Score float64 `json:"score"`
	}
	if err := json.Unmarshal([]byte(out), &breakdown); err != nil {
		t.Fatalf("decode score output: %v", err)
	}
	if breakdown.Score != 1 {
		t.Fatalf("score = %v, want 1", breakdown.Score)
	}

	if _, _, err := runCLI(t, []string{"score", "only one"}, env.configPath, nil); err == nil {
		t.Fatal("expected argument error")
	}
}

func TestParseCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteDocx(t, filepath.Join(env.cfg.Paths.DocumentsDir, "seance.docx"), testsupport.Lines(
		"Squat sumo",
		"Muscles ciblés : quadriceps, fessiers",
		"Intensité : débutant",
	))

	out, _, err := runCLI(t, []string{"parse"}, env.configPath, nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	requireContains(t, out, "Squat sumo")
	requireContains(t, out, "1 records from 1 documents, 0 failed")
}

func TestCatalogImportAndList(t *testing.T) {
	env := setupCLITestEnv(t)
	listing := strings.Join([]string{
		squatKey,
		"Video/groupes-musculaires/abdos/2. Crunch au sol.mp4",
		"Video/groupes-musculaires/abdos/notes.txt",
	}, "\n")

	out, _, err := runCLI(t, []string{"catalog", "import-keys"}, env.configPath, strings.NewReader(listing))
	if err != nil {
		t.Fatalf("import-keys: %v", err)
	}
	requireContains(t, out, "created 2 / existing 0 / skipped 1")

	out, _, err = runCLI(t, []string{"catalog", "import-keys", "-"}, env.configPath, strings.NewReader(listing))
	if err != nil {
		t.Fatalf("second import-keys: %v", err)
	}
	requireContains(t, out, "created 0 / existing 2 / skipped 1")

	out, _, err = runCLI(t, []string{"--json", "catalog", "list"}, env.configPath, nil)
	if err != nil {
		t.Fatalf("catalog list: %v", err)
	}
	var videos []catalog.Video
	if err := json.Unmarshal([]byte(out), &videos); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(videos) != 2 {
		t.Fatalf("expected 2 videos, got %d", len(videos))
	}

	out, _, err = runCLI(t, []string{"catalog", "list", "--region", "abdos"}, env.configPath, nil)
	if err != nil {
		t.Fatalf("catalog list --region: %v", err)
	}
	requireContains(t, out, "Crunch au sol")
	if strings.Contains(out, "Squat sumo") {
		t.Fatalf("region filter leaked rows:\n%s", out)
	}
}

func TestMatchDecideApply(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteFile(t, filepath.Join(env.cfg.Paths.DocumentsDir, "programme.txt"),
		"Squat sumo\nMuscles ciblés : quadriceps, fessiers\nIntensité : débutant\n")
	if _, _, err := runCLI(t, []string{"catalog", "import-keys"}, env.configPath, strings.NewReader(squatKey)); err != nil {
		t.Fatalf("import-keys: %v", err)
	}

	out, _, err := runCLI(t, []string{"match"}, env.configPath, nil)
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	requireContains(t, out, "Squat sumo")
	requireContains(t, out, "Report written to")

	id := catalog.KeyID(squatKey)
	out, _, err = runCLI(t, []string{"report", "decide", id, "oui"}, env.configPath, nil)
	if err != nil {
		t.Fatalf("report decide: %v", err)
	}
	requireContains(t, out, id+": OUI")

	out, _, err = runCLI(t, []string{"report", "show"}, env.configPath, nil)
	if err != nil {
		t.Fatalf("report show: %v", err)
	}
	requireContains(t, out, "(run ")
	requireContains(t, out, "threshold 0.70")

	out, _, err = runCLI(t, []string{"apply", "--dry-run"}, env.configPath, nil)
	if err != nil {
		t.Fatalf("apply --dry-run: %v", err)
	}
	requireContains(t, out, "would apply 1")

	out, _, err = runCLI(t, []string{"apply"}, env.configPath, nil)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	requireContains(t, out, "applied 1 / failed 0 / skipped 0")

	out, _, err = runCLI(t, []string{"--json", "catalog", "list"}, env.configPath, nil)
	if err != nil {
		t.Fatalf("catalog list: %v", err)
	}
	var videos []catalog.Video
	if err := json.Unmarshal([]byte(out), &videos); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(videos) != 1 || videos[0].Difficulty != "BEGINNER" || videos[0].Intensity != "débutant" {
		t.Fatalf("catalog not updated: %+v", videos)
	}
}

func TestApplyAcceptTier(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteFile(t, filepath.Join(env.cfg.Paths.DocumentsDir, "programme.txt"),
		"Squat sumo\nMuscles ciblés : quadriceps\nIntensité : avancé\n")
	if _, _, err := runCLI(t, []string{"catalog", "import-keys"}, env.configPath, strings.NewReader(squatKey)); err != nil {
		t.Fatalf("import-keys: %v", err)
	}
	if _, _, err := runCLI(t, []string{"match"}, env.configPath, nil); err != nil {
		t.Fatalf("match: %v", err)
	}

	out, _, err := runCLI(t, []string{"apply", "--accept", "high"}, env.configPath, nil)
	if err != nil {
		t.Fatalf("apply --accept: %v", err)
	}
	requireContains(t, out, "applied 1")

	if _, _, err := runCLI(t, []string{"apply", "--accept", "sometimes"}, env.configPath, nil); err == nil {
		t.Fatal("expected invalid confidence error")
	}
}

func TestApplyWithoutReport(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, []string{"apply"}, env.configPath, nil)
	if err == nil || !strings.Contains(err.Error(), "no report found") {
		t.Fatalf("expected missing report error, got %v", err)
	}
}

func TestDoctor(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"doctor"}, env.configPath, nil)
	if err == nil {
		t.Fatal("expected doctor to fail without documents")
	}
	requireContains(t, out, "Documents")

	testsupport.WriteFile(t, filepath.Join(env.cfg.Paths.DocumentsDir, "programme.md"), "Squat\nMuscles ciblés : quadriceps\n")
	out, _, err = runCLI(t, []string{"doctor"}, env.configPath, nil)
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, out)
	}
	requireContains(t, out, "Catalog")
}
