package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/linimasa/internal/domain"
	"github.com/alexanderramin/linimasa/internal/registry"
	"github.com/alexanderramin/linimasa/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert_DueOnlyBecomesOneDayTask(t *testing.T) {
	seed := &SeedFile{Tasks: []TaskImport{
		{Title: "API Documentation", DueDate: "2024-01-18", Priority: "medium", Status: "pending", Project: "Backend Services"},
	}}
	tasks, err := Convert(seed)
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	got := tasks[0]
	assert.Equal(t, "API Documentation", got.Name)
	assert.Equal(t, testutil.Date(2024, 1, 18), got.StartDate)
	assert.Equal(t, testutil.Date(2024, 1, 18), got.EndDate)
	assert.Equal(t, domain.PriorityMedium, got.Priority)
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.Equal(t, "Backend Services", got.Project)
}

func TestConvert_BlankVocabularyLeftForDefaults(t *testing.T) {
	tasks, err := Convert(validMinimalSeed())
	require.NoError(t, err)
	assert.Empty(t, tasks[0].Priority)
	assert.Empty(t, tasks[0].Status)
	assert.Zero(t, tasks[0].Progress)
}

func TestLoad_AddsAllRecordsWithDefaults(t *testing.T) {
	reg := registry.New()
	added, err := Load(reg, validMinimalSeed())
	require.NoError(t, err)
	require.Len(t, added, 1)
	assert.NotEmpty(t, added[0].ID)
	assert.Equal(t, domain.PriorityMedium, added[0].Priority)
	assert.Equal(t, domain.StatusNotStarted, added[0].Status)
	assert.Equal(t, 1, reg.Len())
}

func TestLoad_ValidationFailureAddsNothing(t *testing.T) {
	reg := registry.New()
	seed := validMinimalSeed()
	seed.Tasks = append(seed.Tasks, TaskImport{Name: "bad", StartDate: "nope", EndDate: "2024-01-01"})

	_, err := Load(reg, seed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tasks[1].start_date")
	assert.Equal(t, 0, reg.Len())
}

func TestLoad_RegistryConflictRollsBack(t *testing.T) {
	reg := registry.New()
	_, err := reg.Add(testutil.NewTestTask("existing", testutil.WithID("taken")))
	require.NoError(t, err)

	seed := &SeedFile{Tasks: []TaskImport{
		{ID: "fresh", Name: "first", StartDate: "2024-01-01", EndDate: "2024-01-02"},
		{ID: "taken", Name: "clash", StartDate: "2024-01-01", EndDate: "2024-01-02"},
	}}
	_, err = Load(reg, seed)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)

	assert.Equal(t, 1, reg.Len())
	_, err = reg.Get("fresh")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDefaultSeed_LoadsSampleBoard(t *testing.T) {
	seed, err := DefaultSeed()
	require.NoError(t, err)

	reg := registry.New()
	added, err := Load(reg, seed)
	require.NoError(t, err)
	assert.Len(t, added, 11)

	design, err := reg.Get("2")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, design.Status)
	assert.Equal(t, 75, design.Progress)

	beta, err := reg.Get("9")
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityCritical, beta.Priority)
	assert.Equal(t, beta.StartDate, beta.EndDate)

	migration, err := reg.Get("11")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPlanning, migration.Status)
}

func TestParse_AllFormatsAgree(t *testing.T) {
	jsonSeed := `{"tasks":[{"id":"x","name":"Wireframes","start_date":"2024-03-01","end_date":"2024-03-04","progress":20,"priority":"low"}]}`
	yamlSeed := "tasks:\n  - id: x\n    name: Wireframes\n    start_date: \"2024-03-01\"\n    end_date: \"2024-03-04\"\n    progress: 20\n    priority: low\n"
	tomlSeed := "[[tasks]]\nid = 'x'\nname = 'Wireframes'\nstart_date = '2024-03-01'\nend_date = '2024-03-04'\nprogress = 20\npriority = 'low'\n"

	var parsed []*SeedFile
	for _, in := range []struct {
		data   string
		format Format
	}{{jsonSeed, FormatJSON}, {yamlSeed, FormatYAML}, {tomlSeed, FormatTOML}} {
		seed, err := Parse([]byte(in.data), in.format)
		require.NoError(t, err, in.format)
		parsed = append(parsed, seed)
	}
	assert.Equal(t, parsed[0], parsed[1])
	assert.Equal(t, parsed[0], parsed[2])
	assert.Equal(t, 20, *parsed[0].Tasks[0].Progress)
}

func TestParse_MalformedInput(t *testing.T) {
	_, err := Parse([]byte("{"), FormatJSON)
	assert.ErrorContains(t, err, "parsing json seed")

	_, err = Parse([]byte("x"), Format("xml"))
	assert.Error(t, err)
}

func TestReadFile_ByExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "board.yml")
	require.NoError(t, os.WriteFile(path, []byte("tasks:\n  - name: A\n    due_date: \"2024-01-10\"\n"), 0o644))

	seed, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, seed.Tasks, 1)
	assert.Equal(t, "2024-01-10", seed.Tasks[0].DueDate)

	_, err = ReadFile(filepath.Join(dir, "board.csv"))
	assert.ErrorContains(t, err, "unsupported seed file extension")

	_, err = ReadFile(filepath.Join(dir, "missing.json"))
	assert.ErrorContains(t, err, "reading seed file")
}
