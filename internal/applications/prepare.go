package applications

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/jobhunter/internal/coverletter"
	"github.com/spigell/jobhunter/internal/jobs"
	"github.com/spigell/jobhunter/internal/logger"
	"github.com/spigell/jobhunter/internal/priority"
	"github.com/spigell/jobhunter/internal/profile"
	"github.com/spigell/jobhunter/internal/tailor"
	"github.com/spigell/jobhunter/internal/tracker"
	"github.com/spigell/jobhunter/internal/utils"
)

// Recorder stores prepared applications, usually a *tracker.Tracker.
type Recorder interface {
	Add(in tracker.NewApplication) (int, error)
}

// Batch is the result of one Prepare run.
type Batch struct {
	ID       string
	Dir      string
	Prepared []Info
	Failed   []string
}

type Preparer struct {
	profile  *profile.Profile
	tailor   *tailor.Tailor
	letters  *coverletter.Generator
	scorer   *priority.Scorer
	recorder Recorder
	logger   *zap.Logger
}

type PrepareOption func(*Preparer)

func WithRecorder(r Recorder) PrepareOption {
	return func(p *Preparer) { p.recorder = r }
}

func WithScorer(s *priority.Scorer) PrepareOption {
	return func(p *Preparer) { p.scorer = s }
}

func WithLogger(l *zap.Logger) PrepareOption {
	return func(p *Preparer) { p.logger = l }
}

func NewPreparer(prof *profile.Profile, t *tailor.Tailor, letters *coverletter.Generator, opts ...PrepareOption) *Preparer {
	p := &Preparer{
		profile: prof,
		tailor:  t,
		letters: letters,
		scorer:  priority.Default(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Prepare writes one folder per posting into a new batch directory under dir.
// Folders are named <company>_<n> with n starting at 1. A posting that fails is
// logged and skipped; only a done ctx stops the batch.
func (p *Preparer) Prepare(ctx context.Context, dir string, postings []*jobs.Job) (*Batch, error) {
	id := uuid.New().String()
	batch := &Batch{ID: id, Dir: filepath.Join(dir, "batch_"+id[:8])}

	if err := os.MkdirAll(batch.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating batch directory: %w", err)
	}

	p.logger.Info("preparing applications", zap.String("batch_id", id), zap.Int("count", len(postings)))

	for i, job := range postings {
		if err := ctx.Err(); err != nil {
			return batch, err
		}
		if job == nil {
			continue
		}

		log := logger.WithJobFields(p.logger, job)
		folder := filepath.Join(batch.Dir, fmt.Sprintf("%s_%d", utils.SafeName(job.Company), i+1))

		info, err := p.prepareOne(ctx, folder, id, job)
		if err != nil {
			if ctx.Err() != nil {
				return batch, ctx.Err()
			}
			log.Warn("failed to prepare application, skipping", zap.Error(err))
			batch.Failed = append(batch.Failed, job.URL)
			continue
		}

		info.Folder = filepath.ToSlash(filepath.Join(filepath.Base(batch.Dir), filepath.Base(folder)))
		batch.Prepared = append(batch.Prepared, *info)
		log.Info("application prepared", zap.String("folder", info.Folder), zap.String("skill_match", info.SkillMatch))
	}

	return batch, nil
}

func (p *Preparer) prepareOne(ctx context.Context, folder, batchID string, job *jobs.Job) (*Info, error) {
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return nil, fmt.Errorf("creating folder: %w", err)
	}

	description := tailor.DescribeJob(job)
	name := utils.SafeName(job.Company)

	resume := p.tailor.Tailor(p.profile, description, job.Title, job.Company)
	if _, _, err := resume.Save(folder, "resume_"+name); err != nil {
		return nil, fmt.Errorf("saving resume: %w", err)
	}

	letter := p.letters.Generate(ctx, coverletter.Request{
		Description: description,
		JobTitle:    job.Title,
		Company:     job.Company,
	})
	if err := os.WriteFile(filepath.Join(folder, "cover_letter_"+name+".txt"), []byte(letter), 0o644); err != nil {
		return nil, fmt.Errorf("saving cover letter: %w", err)
	}

	score := job.PriorityScore
	if score == 0 {
		score = p.scorer.ScoreJob(job)
	}

	info := &Info{
		BatchID:       batchID,
		PriorityScore: &score,
		Tier:          priority.TierFor(score).Key(),
		JobTitle:      job.Title,
		Company:       job.Company,
		Location:      job.Location,
		URL:           job.URL,
		Source:        job.Source,
		SkillMatch:    resume.MatchLabel(),
		MatchedSkills: resume.SkillMatch.Matched,
		Status:        StatusReady,
	}
	if info.MatchedSkills == nil {
		info.MatchedSkills = []string{}
	}

	if err := writeInfo(folder, info); err != nil {
		return nil, fmt.Errorf("saving %s: %w", InfoFile, err)
	}

	if p.recorder != nil {
		_, err := p.recorder.Add(tracker.NewApplication{
			JobTitle: job.Title,
			Company:  job.Company,
			JobURL:   job.URL,
			Location: job.Location,
			Status:   tracker.StatusPrepared,
			Notes:    fmt.Sprintf("Skill match: %s. Source: %s", info.SkillMatch, job.Source),
		})
		if err != nil {
			p.logger.Warn("failed to record prepared application", zap.String("company", job.Company), zap.Error(err))
		}
	}

	return info, nil
}
