// Public domain.

package vizprog

import (
	"io"
	"os"

	"github.com/soniakeys/exit"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fieldviz/fieldviz/internal/config"
	"github.com/fieldviz/fieldviz/internal/logging"
)

const versionString = "fieldviz version 0.4 Go source."
const copyrightString = "Public domain."

func Main() {
	defer exit.Handler()
	if err := NewCommand(os.Stdout, os.Stderr).Execute(); err != nil {
		exit.Log(err)
	}
}

// prog is the state shared by all subcommands, set up by the root
// command's persistent pre-run.
type prog struct {
	stdout, stderr io.Writer

	cfgFile   string
	logLevel  string
	logFormat string

	cfg *config.Config
	log *zap.Logger
}

// NewCommand returns the fieldviz root command writing to stdout and
// stderr.
func NewCommand(stdout, stderr io.Writer) *cobra.Command {
	p := &prog{stdout: stdout, stderr: stderr}
	root := &cobra.Command{
		Use:   "fieldviz",
		Short: "Shape SDSS observation tables for the sky visibility map",
		Long: `fieldviz turns per night observation tables, one row per field or
bright star per timestep, into the field, star and moon tables drawn by
the sky visibility map, and prepares the files the map loads.`,
		Version:           versionString,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: p.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if p.log != nil {
				logging.Sync(p.log)
			}
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetVersionTemplate("{{.Version}}\n" + copyrightString + "\n")
	pf := root.PersistentFlags()
	pf.StringVar(&p.cfgFile, "config", "", "YAML configuration file")
	pf.StringVar(&p.logLevel, "log-level", "", "log level, overrides configuration")
	pf.StringVar(&p.logFormat, "log-format", "", "log format, console or json")

	root.AddCommand(
		p.shapeCmd(),
		p.exportCmd(),
		p.baseCmd(),
		p.calendarCmd(),
		p.priorityCmd(),
		p.expandCmd(),
		p.moonCmd(),
	)
	return root
}

func (p *prog) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(p.cfgFile)
	if err != nil {
		return err
	}
	if p.logLevel != "" {
		cfg.Log.Level = p.logLevel
	}
	if p.logFormat != "" {
		cfg.Log.Format = p.logFormat
	}
	log, err := logging.NewTo(p.stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	p.cfg, p.log = cfg, log.With(zap.String("cmd", cmd.Name()))
	return nil
}
