package applications

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/spigell/jobhunter/internal/coverletter"
	"github.com/spigell/jobhunter/internal/jobs"
	"github.com/spigell/jobhunter/internal/matching"
	"github.com/spigell/jobhunter/internal/profile"
	"github.com/spigell/jobhunter/internal/tailor"
	"github.com/spigell/jobhunter/internal/tracker"
)

type recorded struct {
	apps []tracker.NewApplication
}

func (r *recorded) Add(in tracker.NewApplication) (int, error) {
	r.apps = append(r.apps, in)
	return len(r.apps), nil
}

func postings() []*jobs.Job {
	return []*jobs.Job{
		{Title: "Junior Data Analyst", Company: "SmallCo", Location: "sydney", URL: "https://indeed/1", Source: jobs.SourceIndeed},
		{Title: "Graduate Data Scientist", Company: "Google", Location: "Sydney, NSW", URL: "https://linkedin/2", Source: jobs.SourceLinkedIn},
	}
}

func newPreparer(t *testing.T, rec Recorder) *Preparer {
	prof := &profile.Profile{
		PersonalInfo: profile.PersonalInfo{Name: "Ada"},
		Summary:      "Builds models.",
		Experience:   []profile.Experience{{Title: "Analyst", Company: "Acme", Achievements: []string{"Python data pipelines"}}},
		Skills:       map[string]any{"programming": []any{"Python", "SQL"}},
	}
	log := zaptest.NewLogger(t)

	return NewPreparer(prof,
		tailor.New(matching.New(nil), log),
		coverletter.New(prof, coverletter.WithLogger(log)),
		WithRecorder(rec),
		WithLogger(log),
	)
}

func prepareBatch(t *testing.T, dir string) (*Batch, *recorded) {
	t.Helper()

	rec := &recorded{}
	batch, err := newPreparer(t, rec).Prepare(context.Background(), dir, postings())
	require.NoError(t, err)
	return batch, rec
}

func TestPrepare(t *testing.T) {
	dir := t.TempDir()
	batch, rec := prepareBatch(t, dir)

	require.Len(t, batch.Prepared, 2)
	assert.Empty(t, batch.Failed)
	assert.Equal(t, filepath.Join(dir, "batch_"+batch.ID[:8]), batch.Dir)

	first := batch.Prepared[0]
	assert.Equal(t, "batch_"+batch.ID[:8]+"/SmallCo_1", first.Folder)
	assert.Equal(t, 42, first.Score())
	assert.Equal(t, "tier_2_should_apply", first.Tier)
	assert.Equal(t, StatusReady, first.Status)
	assert.True(t, strings.HasSuffix(first.SkillMatch, "%"))

	folder := filepath.Join(batch.Dir, "SmallCo_1")
	for _, name := range []string{InfoFile, "resume_SmallCo.txt", "resume_SmallCo.json", "cover_letter_SmallCo.txt"} {
		assert.FileExists(t, filepath.Join(folder, name))
	}

	data, err := os.ReadFile(filepath.Join(folder, InfoFile))
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, batch.ID, raw["batch_id"])
	assert.NotContains(t, raw, "folder")

	require.Len(t, rec.apps, 2)
	assert.Equal(t, tracker.StatusPrepared, rec.apps[1].Status)
	assert.Equal(t, "https://linkedin/2", rec.apps[1].JobURL)
	assert.Contains(t, rec.apps[1].Notes, "Source: LinkedIn")
}

func TestPrepareCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	batch, err := newPreparer(t, nil).Prepare(ctx, t.TempDir(), postings())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, batch.Prepared)
}

func TestStoreList(t *testing.T) {
	dir := t.TempDir()
	batch, _ := prepareBatch(t, dir)

	legacy := filepath.Join(dir, "Canva_7")
	require.NoError(t, os.MkdirAll(legacy, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(legacy, InfoFile),
		[]byte(`{"job_title": "Graduate Data Analyst", "company": "Canva", "location": "Sydney", "status": "Ready to Apply"}`), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "empty"), 0o755))

	infos, err := NewStore(dir, nil).List()
	require.NoError(t, err)
	require.Len(t, infos, 3)

	assert.Equal(t, "Google", infos[0].Company)
	assert.Equal(t, 93, infos[0].Score())
	assert.Equal(t, "Canva_7", infos[1].Folder)
	assert.Equal(t, 90, infos[1].Score())
	assert.Equal(t, "batch_"+batch.ID[:8]+"/SmallCo_1", infos[2].Folder)
}

func TestStoreListMissingDir(t *testing.T) {
	infos, err := NewStore(filepath.Join(t.TempDir(), "absent"), nil).List()
	require.NoError(t, err)
	assert.Empty(t, infos)
}

func TestStoreDetailsAndFiles(t *testing.T) {
	dir := t.TempDir()
	batch, _ := prepareBatch(t, dir)
	store := NewStore(dir, nil)
	folder := batch.Prepared[1].Folder

	details, err := store.Details(folder)
	require.NoError(t, err)
	assert.Equal(t, "Google", details.Info.Company)
	assert.Contains(t, details.Resume, "Ada")
	assert.Contains(t, details.CoverLetter, "Google")

	path, err := store.File(folder, KindCoverLetter)
	require.NoError(t, err)
	assert.Equal(t, "cover_letter_Google.txt", filepath.Base(path))

	_, err = store.File(folder, "photo")
	assert.ErrorIs(t, err, ErrInvalidKind)

	_, err = store.Details("../../etc")
	assert.ErrorIs(t, err, ErrOutsideDir)

	_, err = store.Details("batch_none/Acme_1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMarkApplied(t *testing.T) {
	dir := t.TempDir()
	prepareBatch(t, dir)
	store := NewStore(dir, nil)

	info, err := store.MarkApplied("Google", "Graduate Data Scientist", "2025-10-15T10:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, StatusApplied, info.Status)

	details, err := store.Details(info.Folder)
	require.NoError(t, err)
	assert.Equal(t, StatusApplied, details.Info.Status)
	assert.Equal(t, "2025-10-15T10:00:00Z", details.Info.AppliedDate)

	_, err = store.MarkApplied("Google", "Staff Engineer", "")
	assert.ErrorIs(t, err, ErrNotFound)
}
