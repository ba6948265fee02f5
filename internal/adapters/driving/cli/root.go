// Package cli provides the deptchat command line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/campus-labs/deptchat/internal/adapters/driven/ai"
	configfile "github.com/campus-labs/deptchat/internal/adapters/driven/config/file"
	"github.com/campus-labs/deptchat/internal/adapters/driven/index/flatfile"
	"github.com/campus-labs/deptchat/internal/adapters/driven/remote/supabase"
	"github.com/campus-labs/deptchat/internal/adapters/driven/storage/sqlite"
	"github.com/campus-labs/deptchat/internal/core/domain"
	"github.com/campus-labs/deptchat/internal/core/ports/driven"
	"github.com/campus-labs/deptchat/internal/core/services"
	"github.com/campus-labs/deptchat/internal/extractors"
	"github.com/campus-labs/deptchat/internal/logger"
	"github.com/campus-labs/deptchat/internal/splitter"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	flagConfigDir string
	flagVerbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "deptchat",
	Short: "Department document assistant",
	Long: `deptchat keeps a local mirror of the department's document bucket,
maintains a vector index over its contents, and answers questions
grounded in those documents.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(flagVerbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "",
		"configuration directory (default ~/.deptchat)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false,
		"enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string printed by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// app bundles the wired adapters and services behind the commands.
// Construction is cheap; network services are only contacted when a
// command actually uses them.
type app struct {
	cfg        configfile.Config
	configPath string

	registry driven.ExtractorRegistry
	splitter driven.Splitter
	indexes  driven.IndexStore
	store    *sqlite.Store
}

// newApp loads configuration and wires the local adapters.
func newApp() (*app, error) {
	cfg, path, err := configfile.Load(flagConfigDir)
	if err != nil {
		return nil, err
	}

	store, err := sqlite.NewStore(cfg.MetadataDir())
	if err != nil {
		return nil, fmt.Errorf("opening metadata store: %w", err)
	}

	return &app{
		cfg:        cfg,
		configPath: path,
		registry:   extractors.NewDefaultRegistry(),
		splitter: splitter.New(
			splitter.WithChunkSize(cfg.Chunking.Size),
			splitter.WithOverlap(cfg.Chunking.Overlap),
		),
		indexes: flatfile.NewStore(cfg.IndexDir()),
		store:   store,
	}, nil
}

// close releases the app's resources.
func (a *app) close() {
	if a.store != nil {
		a.store.Close()
	}
}

// remote constructs the remote document store from configuration.
func (a *app) remote() (driven.RemoteStore, error) {
	if a.cfg.Remote.ProjectURL == "" || a.cfg.Remote.APIKey == "" {
		return nil, fmt.Errorf("%w: set %s and %s (see %s)",
			domain.ErrRemoteUnavailable,
			configfile.EnvSupabaseURL, configfile.EnvSupabaseKey, a.configPath)
	}
	return supabase.NewStore(supabase.Config{
		ProjectURL: a.cfg.Remote.ProjectURL,
		APIKey:     a.cfg.Remote.APIKey,
		Bucket:     a.cfg.Remote.Bucket,
	})
}

// embedder constructs the configured embedding service.
func (a *app) embedder() (driven.EmbeddingService, error) {
	return ai.CreateEmbeddingService(a.cfg.EmbeddingSettings())
}

// llm constructs the configured LLM service.
func (a *app) llm() (driven.LLMService, error) {
	return ai.CreateLLMService(a.cfg.LLMSettings())
}

// rebuilder wires the rebuild pipeline.
func (a *app) rebuilder() (*services.RebuildPipeline, error) {
	embedder, err := a.embedder()
	if err != nil {
		return nil, err
	}
	return services.NewRebuildPipeline(
		a.cfg.CorpusDir(),
		a.registry,
		a.splitter,
		embedder,
		a.indexes,
	), nil
}

// mirror wires the sync service.
func (a *app) mirror() (*services.Mirror, error) {
	remote, err := a.remote()
	if err != nil {
		return nil, err
	}
	rebuilder, err := a.rebuilder()
	if err != nil {
		return nil, err
	}
	return services.NewMirror(
		a.cfg.CorpusDir(),
		remote,
		a.registry,
		rebuilder,
		a.indexes,
		a.store.CatalogStore(),
	), nil
}

// answerer wires the answering service.
func (a *app) answerer() (*services.Answerer, error) {
	embedder, err := a.embedder()
	if err != nil {
		return nil, err
	}
	llm, err := a.llm()
	if err != nil {
		return nil, err
	}
	return services.NewAnswerer(a.indexes, embedder, llm, services.AnswererConfig{
		TopK:            a.cfg.Retrieval.TopK,
		MaxContextChars: a.cfg.Retrieval.MaxContextChars,
		Temperature:     a.cfg.Retrieval.Temperature,
	}), nil
}
