package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/santiagomed/dapp/config"
	"github.com/santiagomed/dapp/contract"
	"github.com/santiagomed/dapp/core"
	"github.com/santiagomed/dapp/fs"
	"github.com/santiagomed/dapp/llm"
	"github.com/santiagomed/dapp/logger"
	"github.com/santiagomed/dapp/store"
	"github.com/santiagomed/dapp/utils"
	"github.com/spf13/afero"
)

const (
	minPlannedComponents = 4
	maxPlannedComponents = 7
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFBA08"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	nameStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
	checkStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("202"))
)

type genFlags struct {
	abi      string
	address  string
	prompt   string
	provider string
	model    string
	out      string
	config   string
	plain    bool
	zip      bool
	upload   bool
}

// genSetup is everything a gen run needs once flags and config are resolved.
type genSetup struct {
	cfg      *config.Config
	flags    genFlags
	abi      contract.ABI
	logger   logger.Logger
	closer   io.Closer
	engine   *Engine
	delivery *delivery
}

func newGenSetup(f genFlags) (*genSetup, error) {
	cfg, err := config.LoadConfig(f.config, genOverride(f))
	if err != nil {
		return nil, err
	}

	abi, err := readABI(f.abi)
	if err != nil {
		return nil, err
	}
	if !contract.IsAddress(f.address) {
		return nil, fmt.Errorf("invalid contract address %q", f.address)
	}

	l, closer, err := logger.NewFileLogger("", cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	l.Debug("Initializing dapp CLI")

	d := &delivery{out: afero.NewOsFs(), outputDir: cfg.OutputDir, zip: cfg.Zip, logger: l}
	if f.upload {
		if !cfg.S3.Enabled() {
			closer.Close()
			return nil, fmt.Errorf("--upload needs s3.endpoint and s3.bucket in the config")
		}
		st, err := store.NewBundles(storeConfig(cfg.S3))
		if err != nil {
			closer.Close()
			return nil, err
		}
		d.store = st
	}

	return &genSetup{
		cfg:      cfg,
		flags:    f,
		abi:      abi,
		logger:   l,
		closer:   closer,
		engine:   NewEngine(providerFactory(cfg, l), l, cfg.Workers, cfg.Timeout),
		delivery: d,
	}, nil
}

func (s *genSetup) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

func (s *genSetup) request(prompt string) *core.Request {
	return core.NewRequest(s.abi, s.flags.address, utils.SanitizeInput(prompt))
}

func genOverride(f genFlags) config.Override {
	return func(cfg *config.Config) { applyGenFlags(cfg, f) }
}

func applyGenFlags(cfg *config.Config, f genFlags) {
	if f.provider != "" {
		cfg.Provider = f.provider
	}
	if f.model != "" {
		cfg.Model = f.model
	}
	if f.out != "" {
		cfg.OutputDir = f.out
	}
	if f.zip {
		cfg.Zip = true
	}
}

func readABI(path string) (contract.ABI, error) {
	if path == "" {
		return nil, fmt.Errorf("--abi is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading ABI file: %w", err)
	}
	return contract.ParseABI(data)
}

func storeConfig(c config.S3Config) store.Config {
	return store.Config{
		Endpoint:  c.Endpoint,
		Region:    c.Region,
		AccessKey: c.AccessKey,
		SecretKey: c.SecretKey,
		Bucket:    c.Bucket,
		Prefix:    c.Prefix,
		UseSSL:    c.UseSSL,
	}
}

func providerFactory(cfg *config.Config, l logger.Logger) ProviderFactory {
	return func(ctx context.Context, batchID string) (llm.Provider, error) {
		return llm.NewProvider(ctx, cfg.LLMConfig(batchID), l)
	}
}

// bundleUploader is the part of store.Bundles delivery needs.
type bundleUploader interface {
	Publish(ctx context.Context, app string, bundle []byte) (*store.Upload, error)
}

// delivery writes a finished result to disk and optionally uploads it.
type delivery struct {
	out       afero.Fs
	outputDir string
	zip       bool
	store     bundleUploader
	logger    logger.Logger
}

// deliver returns the lines to show the user.
func (d *delivery) deliver(ctx context.Context, res *core.Result) ([]string, error) {
	mem := fs.NewMemoryFileSystem()
	if err := mem.WriteBundle(".", res); err != nil {
		return nil, err
	}

	name := utils.FormatProjectName(res.Plan.AppName)
	dir := filepath.Join(d.outputDir, name)
	if err := mem.CopyDir(d.out, ".", dir); err != nil {
		return nil, fmt.Errorf("failed to copy app to disk: %w", err)
	}
	d.logger.Info(fmt.Sprintf("Wrote %d components to %s", len(res.Components), dir))
	lines := []string{fmt.Sprintf("App generated in directory: %s", nameStyle.Render(dir))}

	if d.zip {
		zipPath := dir + ".zip"
		if err := mem.WriteToZip(d.out, zipPath); err != nil {
			return nil, err
		}
		lines = append(lines, fmt.Sprintf("Zip archive: %s", nameStyle.Render(zipPath)))
	}

	if d.store != nil {
		data, err := mem.ZipBytes()
		if err != nil {
			return nil, err
		}
		up, err := d.store.Publish(ctx, name, data)
		if err != nil {
			return nil, fmt.Errorf("failed to upload bundle: %w", err)
		}
		d.logger.Info(fmt.Sprintf("Uploaded bundle to %s (%d bytes)", up.Key, up.Size))
		lines = append(lines,
			fmt.Sprintf("Uploaded: %s", nameStyle.Render(up.Key)),
			fmt.Sprintf("Download (until %s): %s", up.Expires.Format("15:04 MST"), up.URL),
		)
	}

	return lines, nil
}

// planWarning is non-empty when the plan is outside the requested size.
// Such plans are still built.
func planWarning(plan *core.Plan) string {
	if plan == nil {
		return ""
	}
	n := len(plan.Components)
	if n >= minPlannedComponents && n <= maxPlannedComponents {
		return ""
	}
	return fmt.Sprintf("warning: plan has %d components, expected %d to %d", n, minPlannedComponents, maxPlannedComponents)
}

// eventFormatter renders progress events as single lines. Generating events
// arrive in pre-call and post-call pairs, so the formatter tracks which half
// it is in rather than matching component names.
type eventFormatter struct {
	inCall bool
}

func (f *eventFormatter) format(e core.ProgressEvent) string {
	switch e.Stage {
	case core.StagePlanning:
		f.inCall = false
		if e.Plan == nil {
			return "Planning components..."
		}
		return fmt.Sprintf("Planned %d components for %s: %s", e.Total, e.Plan.AppName, strings.Join(e.Plan.Names(), ", "))
	case core.StageGenerating:
		f.inCall = !f.inCall
		if !f.inCall {
			return fmt.Sprintf("[%d/%d] Generated %s", len(e.Completed), e.Total, e.Current)
		}
		return fmt.Sprintf("[%d/%d] Generating %s...", len(e.Completed)+1, e.Total, e.Current)
	case core.StageAssembling:
		return fmt.Sprintf("Assembling %d components...", e.Total)
	case core.StageComplete:
		return "Done."
	default:
		return string(e.Stage)
	}
}

func runPlain(ctx context.Context, s *genSetup, w io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.engine.Start(ctx)
	defer s.engine.Shutdown(5 * time.Second)

	var events eventFormatter
	pub := core.PublisherFunc(func(e core.ProgressEvent) {
		fmt.Fprintln(w, events.format(e))
		if e.Stage == core.StagePlanning {
			if warn := planWarning(e.Plan); warn != "" {
				fmt.Fprintln(w, warnStyle.Render(warn))
			}
		}
	})

	out := <-s.engine.AddRequest(s.request(s.flags.prompt), pub)
	if out.Err != nil {
		return out.Err
	}

	lines, err := s.delivery.deliver(ctx, out.Result)
	if err != nil {
		return err
	}
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
	return nil
}
