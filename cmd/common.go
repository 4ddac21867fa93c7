package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/jobhunter/internal/ai/gemini"
	"github.com/spigell/jobhunter/internal/applications"
	"github.com/spigell/jobhunter/internal/coverletter"
	"github.com/spigell/jobhunter/internal/filtering"
	"github.com/spigell/jobhunter/internal/keywords"
	"github.com/spigell/jobhunter/internal/logger"
	"github.com/spigell/jobhunter/internal/matching"
	"github.com/spigell/jobhunter/internal/priority"
	"github.com/spigell/jobhunter/internal/profile"
	"github.com/spigell/jobhunter/internal/secrets"
	"github.com/spigell/jobhunter/internal/tailor"
	"github.com/spigell/jobhunter/internal/tracker"
)

// env carries what every command needs.
type env struct {
	ctx    context.Context
	stop   context.CancelFunc
	logger *zap.Logger
	config *Config
}

// setup builds the logger and reads the config. It exits on failure.
func setup() *env {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	return &env{ctx: ctx, stop: stop, logger: logger, config: config}
}

func (e *env) matcher() *matching.Matcher {
	if vocab := e.config.vocabulary(); len(vocab) > 0 {
		return matching.New(keywords.New(vocab))
	}
	return matching.New(nil)
}

func (e *env) scorer() *priority.Scorer {
	return priority.NewScorer(e.config.Priority)
}

func (e *env) profile() *profile.Profile {
	p, err := profile.Load(e.config.ProfileFile)
	if err != nil {
		e.logger.Fatal("loading profile", zap.String("path", e.config.ProfileFile), zap.Error(err))
	}
	return p
}

func (e *env) tracker() *tracker.Tracker {
	t, err := tracker.Open(e.config.TrackerFile)
	if err != nil {
		e.logger.Fatal("opening tracker", zap.String("path", e.config.TrackerFile), zap.Error(err))
	}
	return t
}

func (e *env) filterConfig() *filtering.Config {
	return &filtering.Config{
		ExcludedCompanies: e.config.excludedCompanies(),
		ExcludeFile:       e.config.ExcludeFile,
		MinScore:          e.config.Apply.MinScore,
	}
}

// letters builds the cover letter generator, polished by Gemini when ai.enabled is set.
// A broken AI setup only disables polishing.
func (e *env) letters(p *profile.Profile) *coverletter.Generator {
	opts := []coverletter.Option{coverletter.WithLogger(e.logger)}

	polisher, err := e.polisher()
	switch {
	case err != nil:
		e.logger.Warn("skipping cover letter polishing", zap.Error(err))
	case polisher != nil:
		opts = append(opts, coverletter.WithPolisher(polisher))
	}

	return coverletter.New(p, opts...)
}

func (e *env) polisher() (coverletter.Polisher, error) {
	cfg := e.config.AI
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}
	if cfg.Gemini == nil {
		return nil, fmt.Errorf("gemini configuration is required when ai is enabled")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		Env:  "GEMINI_API_KEY",
		File: cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file, GEMINI_API_KEY_FILE or GEMINI_API_KEY)", err)
	}

	genLogger := logger.WithCommonFields(e.logger, gemini.Provider, cfg.Gemini.Model)

	generator, err := gemini.NewGenerator(e.ctx, apiKey, cfg.Gemini.Model, genLogger)
	if err != nil {
		return nil, err
	}

	return gemini.NewPolisher(generator, e.logger, cfg.Gemini.MaxLogLength), nil
}

func (e *env) preparer(t *tracker.Tracker) *applications.Preparer {
	p := e.profile()

	return applications.NewPreparer(p,
		tailor.New(e.matcher(), e.logger),
		e.letters(p),
		applications.WithRecorder(t),
		applications.WithScorer(e.scorer()),
		applications.WithLogger(e.logger),
	)
}
