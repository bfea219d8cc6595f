package file

import (
	"os"
	"path/filepath"
	"testing"

	"drillbot/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testIndex = `{
	"eng to deu": {"from": "eng", "to": "deu", "lessons": 1, "exercises": 2, "buildTime": "2024-03-01T10:00:00Z"},
	"deu to eng": {"from": "deu", "to": "eng", "lessons": 0, "exercises": 1, "buildTime": "2024-03-01T10:00:00Z"},
	"eng to fra": {"from": "eng", "to": "fra", "lessons": 0, "exercises": 0, "buildTime": "2024-03-01T10:00:00Z"},
	"eng to ita": {"from": "eng", "to": "ita", "lessons": 0, "exercises": 0, "buildTime": "2024-03-01T10:00:00Z"}
}`

const testCourse = `{
	"from": "eng",
	"to": "deu",
	"lessons": [{"title": {"eng": "Greetings"}, "exercises": ["d1"]}],
	"sentences": {
		"eng": [{"id": "e1", "text": "Hello."}],
		"deu": [{"id": "d1", "text": "Hallo."}, {"id": "d2", "text": "Servus."}]
	},
	"links": [["e1", "d1"], ["e1", "d2"]]
}`

func writeCourseDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestCourseRepo_List(t *testing.T) {
	dir := writeCourseDir(t, map[string]string{IndexFile: testIndex})
	repo := NewCourseRepo(dir)

	metas, err := repo.List()

	require.NoError(t, err)
	require.Len(t, metas, 4)
	assert.Equal(t, "deu to eng", metas[0].Key())
	assert.Equal(t, "eng to deu", metas[1].Key())
	assert.Equal(t, 2, metas[1].Exercises)
	assert.Equal(t, 2024, metas[1].BuildTime.Year())
}

func TestCourseRepo_ListWithoutIndex(t *testing.T) {
	repo := NewCourseRepo(t.TempDir())

	_, err := repo.List()

	assert.Error(t, err)
}

func TestCourseRepo_Get(t *testing.T) {
	dir := writeCourseDir(t, map[string]string{
		IndexFile:         testIndex,
		"eng to deu.json": testCourse,
		"deu to eng.json": testCourse,
		"eng to fra.json": `{"from": "eng", "to": "fra", "sentences": {"eng": [{"id": "e1"}]}}`,
		"eng to ita.json": `{not json`,
		"eng to spa.json": testCourse,
	})
	repo := NewCourseRepo(dir)

	course, err := repo.Get("eng to deu")
	require.NoError(t, err)
	assert.Equal(t, "deu", course.To)
	assert.Len(t, course.Exercises(), 2)

	cached, err := repo.Get("eng to deu")
	require.NoError(t, err)
	assert.Same(t, course, cached)

	tests := []struct {
		name string
		key  string
	}{
		{name: "not in index", key: "eng to spa"},
		{name: "file holds another course", key: "deu to eng"},
		{name: "fails validation", key: "eng to fra"},
		{name: "malformed", key: "eng to ita"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.Get(tt.key)
			assert.Error(t, err)
		})
	}

	_, err = repo.Get("eng to spa")
	assert.ErrorIs(t, err, repository.ErrCourseNotFound)
}

func TestCourseRepo_GetMissingFile(t *testing.T) {
	dir := writeCourseDir(t, map[string]string{IndexFile: testIndex})
	repo := NewCourseRepo(dir)

	_, err := repo.Get("eng to deu")

	assert.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrCourseNotFound)
}
