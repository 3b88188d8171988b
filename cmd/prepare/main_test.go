package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const source = `gender,race_ethnicity,parental_level_of_education,lunch,test_preparation_course,math_score,reading_score,writing_score
female,group B,bachelor's degree,standard,none,72,72,74
female,group C,some college,standard,completed,69,90,88
female,group B,master's degree,standard,none,90,95,93
male,group A,associate's degree,free/reduced,none,47,57,44
male,group C,some college,standard,none,76,78,75
`

func TestRun(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "stud.csv")
	require.NoError(t, os.WriteFile(src, []byte(source), 0o644))

	cfgPath := filepath.Join(dir, "config.yaml")
	yaml := fmt.Sprintf(`source_path: %[1]s
artifact_dir: %[2]s
raw_path: %[2]s/data.csv
train_path: %[2]s/train.csv
test_path: %[2]s/test.csv
preprocessor_path: %[2]s/preprocessor.gob
report_path: %[2]s/distributions.png
log_dir: %[3]s
log_level: debug
`, src, filepath.Join(dir, "artifacts"), filepath.Join(dir, "logs"))
	require.NoError(t, os.WriteFile(cfgPath, []byte(yaml), 0o644))

	require.NoError(t, run([]string{cfgPath}))

	for _, name := range []string{"data.csv", "train.csv", "test.csv", "preprocessor.gob", "distributions.png"} {
		assert.FileExists(t, filepath.Join(dir, "artifacts", name))
	}

	logs, err := os.ReadDir(filepath.Join(dir, "logs"))
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.True(t, strings.HasPrefix(logs[0].Name(), "log_"))
}

func TestRunUsage(t *testing.T) {
	assert.Error(t, run([]string{"a.yaml", "b.yaml"}))
}

func TestRunBadConfig(t *testing.T) {
	assert.Error(t, run([]string{filepath.Join(t.TempDir(), "absent.yaml")}))
}
