package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/moodflix/internal/model"
	"github.com/user/moodflix/internal/repository"
)

const datasetCSV = `id,title,genres,overview,vote_average,popularity,release_date
1,Happy Film,"[{'id': 35, 'name': 'Comedy'}]",fine,7.0,10,2001-02-03
2,Sad Film,"[{'id': 18, 'name': 'Drama'}]",awful,6.0,5,
1,Happy Film Again,[],,1,1,
`

type mapAnalyzer map[string]float64

func (a mapAnalyzer) Polarity(text string) float64 { return a[text] }

func TestCatalogServiceBuildsSnapshot(t *testing.T) {
	dir := t.TempDir()
	dataset := filepath.Join(dir, "movies.csv")
	snapshot := filepath.Join(dir, "snapshot.csv")
	require.NoError(t, os.WriteFile(dataset, []byte(datasetCSV), 0o644))

	tagger := NewSentimentTagger(mapAnalyzer{"fine": 0.5, "awful": -0.5})
	catalog, err := NewCatalogService(dataset, snapshot, tagger).Load()
	require.NoError(t, err)
	require.Equal(t, 2, catalog.Len())

	happy, ok := catalog.FindByID(1)
	require.True(t, ok)
	assert.Equal(t, "Happy Film", happy.Title)
	assert.Equal(t, model.SentimentPositive, happy.SentimentLabel)
	assert.InDelta(t, 0.75, happy.SentimentScoreNorm, 1e-9)

	sad, _ := catalog.FindByID(2)
	assert.Equal(t, model.SentimentNegative, sad.SentimentLabel)
	assert.Nil(t, sad.ReleaseYear)

	_, err = os.Stat(snapshot)
	require.NoError(t, err)

	// 删除原始数据后仍可以从快照加载
	require.NoError(t, os.Remove(dataset))
	again, err := NewCatalogService(dataset, snapshot, tagger).Load()
	require.NoError(t, err)
	assert.Equal(t, catalog.Films(), again.Films())
}

func TestCatalogServiceMissingDataset(t *testing.T) {
	dir := t.TempDir()
	_, err := NewCatalogService(filepath.Join(dir, "none.csv"), filepath.Join(dir, "snap.csv"), nil).Load()
	assert.Error(t, err)
}

func TestCatalogServiceWithoutSnapshotPath(t *testing.T) {
	dataset := filepath.Join(t.TempDir(), "movies.csv")
	require.NoError(t, os.WriteFile(dataset, []byte(datasetCSV), 0o644))

	catalog, err := NewCatalogService(dataset, "", nil).Load()
	require.NoError(t, err)
	assert.IsType(t, &repository.Catalog{}, catalog)
	assert.Equal(t, 2, catalog.Len())
}
