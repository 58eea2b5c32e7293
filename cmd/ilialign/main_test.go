package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipeline-ili/ilialign/internal/align"
	"github.com/pipeline-ili/ilialign/internal/fsutil"
)

func TestLoadRuns_ParsesDocumentFromFileSystem(t *testing.T) {
	fs := fsutil.NewMemoryFileSystem()
	doc := inputDocument{Runs: []align.RunInput{
		{Year: 2015, Rows: []align.RawRow{{Distance: 1000, FeatureType: "dent", DepthPercent: 10}}},
	}}
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, fs.WriteFile("/runs.json", data, 0644))

	runs, err := loadRuns(fs, "/runs.json")
	require.NoError(t, err)
	assert.Len(t, runs, 1)
	assert.Equal(t, 2015, runs[0].Year)
}

func TestLoadRuns_RejectsEmptyRunList(t *testing.T) {
	fs := fsutil.NewMemoryFileSystem()
	require.NoError(t, fs.WriteFile("/empty.json", []byte(`{"runs": []}`), 0644))

	_, err := loadRuns(fs, "/empty.json")
	require.Error(t, err)
}

func TestWriteResult_WritesIndentedJSONToFileSystem(t *testing.T) {
	fs := fsutil.NewMemoryFileSystem()
	result := &align.EngineResult{Diagnostics: align.EngineDiagnostics{RunsProcessed: 2}}

	require.NoError(t, writeResult(fs, result, "/out.json"))

	data, err := fs.ReadFile("/out.json")
	require.NoError(t, err)

	var decoded align.EngineResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 2, decoded.Diagnostics.RunsProcessed)
}

func TestBuildEngineConfig_AppliesOverridesOnlyWhenPositive(t *testing.T) {
	cfg := cliConfig{AcceptMinSimilarity: 0.75}
	ec := buildEngineConfig(cfg)
	assert.Equal(t, 0.75, ec.AcceptMinSimilarity)
	assert.Equal(t, align.DefaultEngineConfig().ReferenceMatchGateFt, ec.ReferenceMatchGateFt)
}
