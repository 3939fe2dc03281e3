package app

import (
	"context"
	"os"

	"github.com/doeshing/bizlens/internal/application/analysis"
	configapp "github.com/doeshing/bizlens/internal/application/config"
	"github.com/doeshing/bizlens/internal/application/doctor"
	"github.com/doeshing/bizlens/internal/infrastructure/ai"
	"github.com/doeshing/bizlens/internal/infrastructure/clock"
	"github.com/doeshing/bizlens/internal/infrastructure/config"
	"github.com/doeshing/bizlens/internal/infrastructure/fetch"
	"github.com/doeshing/bizlens/internal/infrastructure/htmldoc"
	"github.com/doeshing/bizlens/internal/infrastructure/pdftext"
	"github.com/doeshing/bizlens/internal/pkg/logger"
	"github.com/doeshing/bizlens/internal/ports"
)

// maxPDFPages bounds the pages read from a fetched PDF.
const maxPDFPages = 200

// Options controls how the container is assembled.
type Options struct {
	Verbose    bool
	ConfigPath string
}

// Container wires up application services with infrastructure adapters.
type Container struct {
	ConfigProvider  ports.ConfigProvider
	ConfigLoader    *config.FileLoader
	AnalysisService *analysis.Service
	DoctorService   *doctor.Service
	Clock           ports.Clock
	Logger          ports.Logger
	LookupEnv       configapp.LookupEnv
}

// BuildContainer constructs the dependency graph. It never creates the config
// file. A config file that cannot be loaded does not stop the build; fetch
// settings fall back to defaults and the error surfaces again when a command
// loads the config.
func BuildContainer(ctx context.Context, opts Options) (*Container, error) {
	cfgLoader := config.NewFileLoader(opts.ConfigPath)
	log := logger.NewStd(opts.Verbose)

	fetchOpts := fetch.Options{}
	if !cfgLoader.Exists() {
		log.Debug("no config file yet, fetcher uses defaults", map[string]interface{}{"path": cfgLoader.Path()})
	} else if cfg, err := cfgLoader.Load(ctx); err != nil {
		log.Debug("config unavailable while wiring fetcher", map[string]interface{}{
			"path":  cfgLoader.Path(),
			"error": err.Error(),
		})
	} else {
		fetchOpts = fetch.Options{
			UserAgent:    cfg.GetUserAgent(),
			Timeout:      cfg.GetFetchTimeout(),
			MaxBodyBytes: cfg.GetMaxBodyBytes(),
		}
	}

	systemClock := clock.System{}

	analysisService := &analysis.Service{
		ConfigProvider:  cfgLoader,
		ProviderFactory: ai.NewFactory(),
		Fetcher:         fetch.NewHTTPFetcher(fetchOpts),
		Parser:          htmldoc.NewParser(),
		Articles:        htmldoc.NewArticleExtractor(),
		PDF:             pdftext.NewExtractor(maxPDFPages),
		Clock:           systemClock,
		Logger:          log,
	}

	doctorService := &doctor.Service{
		ConfigProvider: cfgLoader,
		LookupEnv:      os.LookupEnv,
	}

	return &Container{
		ConfigProvider:  cfgLoader,
		ConfigLoader:    cfgLoader,
		AnalysisService: analysisService,
		DoctorService:   doctorService,
		Clock:           systemClock,
		Logger:          log,
		LookupEnv:       os.LookupEnv,
	}, nil
}
