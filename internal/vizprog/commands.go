// Public domain.

package vizprog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	sexa "github.com/soniakeys/sexagesimal"
	"github.com/soniakeys/unit"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fieldviz/fieldviz/calendar"
	"github.com/fieldviz/fieldviz/ephem"
	"github.com/fieldviz/fieldviz/internal/expand"
	"github.com/fieldviz/fieldviz/internal/export"
	"github.com/fieldviz/fieldviz/internal/priority"
	"github.com/fieldviz/fieldviz/internal/shaper"
	"github.com/fieldviz/fieldviz/obsrow"
)

func (p *prog) shapeCmd() *cobra.Command {
	var out string
	var noMoon bool
	cmd := &cobra.Command{
		Use:   "shape <night.csv>",
		Short: "Shape one night into field, star and moon tables",
		Long: `Shape reads one night's observation table and writes the field, star
and moon tables.  With --out the tables are written as fields.json,
stars.json and moon.json in that directory, otherwise a single JSON
object is written to standard output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := shaper.New(p.cfg.Shape)
			if err != nil {
				return err
			}
			t, err := obsrow.ReadFile(args[0])
			if err != nil {
				return err
			}
			r, err := s.Shape(t, !noMoon)
			if err != nil {
				return err
			}
			p.log.Info("shaped",
				zap.String("file", args[0]),
				zap.Int("fields", len(r.Fields)),
				zap.Int("stars", len(r.Stars)),
				zap.Int("steps", len(r.Steps)),
				zap.String("phase", r.Phase.Name))
			if out != "" {
				return export.WriteNight(out, r, p.cfg.Export.Options)
			}
			return json.NewEncoder(p.stdout).Encode(struct {
				Fields []shaper.Field `json:"fields"`
				Stars  []shaper.Star  `json:"stars"`
				Moon   []shaper.Moon  `json:"moon,omitempty"`
				Phase  string         `json:"phase,omitempty"`
			}{r.Fields, r.Stars, r.Moon, r.Phase.Icon})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "directory for the night's JSON files")
	cmd.Flags().BoolVar(&noMoon, "no-moon", false, "leave out the moon table")
	return cmd
}

// nightFiles returns args, or if there are none the files in dir matching
// the configured pattern, sorted.
func (p *prog) nightFiles(dir string, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	files, err := filepath.Glob(filepath.Join(dir, p.cfg.Export.Pattern))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no files matching %s in %s", p.cfg.Export.Pattern, dir)
	}
	sort.Strings(files)
	return files, nil
}

func (p *prog) exportCmd() *cobra.Command {
	var in, out string
	var quiet bool
	cmd := &cobra.Command{
		Use:   "export [night.csv...]",
		Short: "Shape many nights into per night JSON directories",
		Long: `Export shapes each night file and writes its JSON tables under
<out>/<mjd>/, the MJD taken from the mjd-<N>- part of the file name.
With no arguments the files in --in matching the configured pattern
are used.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := p.nightFiles(in, args)
			if err != nil {
				return err
			}
			s, err := shaper.New(p.cfg.Shape)
			if err != nil {
				return err
			}
			o := export.BatchOptions{
				Options: p.cfg.Export.Options,
				Out:     p.cfg.Export.Out,
				Workers: p.cfg.Export.Workers,
			}
			if out != "" {
				o.Out = out
			}
			if !quiet {
				o.Progress = p.stderr
			}
			return export.Batch(cmd.Context(), files, s, o, p.log)
		},
	}
	cmd.Flags().StringVar(&in, "in", ".", "directory searched when no files are given")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output root, overrides configuration")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "no progress bar")
	return cmd
}

func (p *prog) baseCmd() *cobra.Command {
	var out string
	var pretty bool
	var indent int
	cmd := &cobra.Command{
		Use:   "base <chart.json>",
		Short: "Strip the data from a rendered chart, leaving base.json",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vega, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("pretty") {
				pretty = p.cfg.Export.Pretty
			}
			if !cmd.Flags().Changed("indent") {
				indent = p.cfg.Export.Indent
			}
			b, err := export.Base(vega, pretty, indent)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			return os.WriteFile(out, b, 0o644)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "base.json", "output file")
	cmd.Flags().BoolVarP(&pretty, "pretty", "p", false, "human readable output")
	cmd.Flags().IntVar(&indent, "indent", 4, "indent width with --pretty")
	return cmd
}

func (p *prog) calendarCmd() *cobra.Command {
	var in, out string
	cmd := &cobra.Command{
		Use:   "calendar [night.csv...]",
		Short: "Summarize nights for the calendar view",
		Long: `Calendar writes one summary record per night: moon hours, dark and
bright fractions, date parts and field count.  Output is CSV if --out
ends in .csv, JSON otherwise.  Nights that fail are logged and left out.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := p.nightFiles(in, args)
			if err != nil {
				return err
			}
			var nights []calendar.Night
			for r := range calendar.SummarizeFiles(files, p.cfg.Export.Workers) {
				if r.Err != nil {
					p.log.Warn("night skipped", zap.String("file", r.File), zap.Error(r.Err))
					continue
				}
				nights = append(nights, r.Night)
			}
			w := p.stdout
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			if strings.HasSuffix(out, ".csv") {
				err = calendar.WriteCSV(w, nights)
			} else {
				err = calendar.WriteJSON(w, nights)
			}
			if err != nil {
				return err
			}
			p.log.Info("calendar written", zap.Int("nights", len(nights)))
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", ".", "directory searched when no files are given")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file, standard output if empty")
	return cmd
}

func (p *prog) priorityCmd() *cobra.Command {
	var seed uint64
	var repeatable bool
	cmd := &cobra.Command{
		Use:   "priority <in.csv> <out.csv>",
		Short: "Add synthetic priority and completion columns",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("seed") {
				seed = p.cfg.Priority.Seed
			}
			if !cmd.Flags().Changed("repeatable") {
				repeatable = p.cfg.Priority.Repeatable
			}
			t, err := obsrow.ReadFile(args[0])
			if err != nil {
				return err
			}
			t, err = priority.Assign(t, priority.Source(repeatable, seed))
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			p.log.Debug("priorities assigned", zap.Bool("repeatable", repeatable), zap.Uint64("seed", seed))
			return obsrow.WriteFile(args[1], t)
		},
	}
	cmd.Flags().Uint64Var(&seed, "seed", 1, "seed used with --repeatable")
	cmd.Flags().BoolVarP(&repeatable, "repeatable", "r", false, "same priorities on every run")
	return cmd
}

func (p *prog) expandCmd() *cobra.Command {
	var schedFile, catFile, out string
	cmd := &cobra.Command{
		Use:   "expand --schedule <sched.csv> --catalog <stars.csv> --out <night.csv>",
		Short: "Compute a night's observation table from a schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			sched, err := expand.ReadScheduleFile(schedFile)
			if err != nil {
				return err
			}
			var cat []expand.CatalogStar
			if catFile != "" {
				if cat, err = expand.ReadCatalogFile(catFile); err != nil {
					return err
				}
			}
			o := expand.Options{
				Site:       p.cfg.Site,
				MaxMag:     p.cfg.Expand.MaxMag,
				MaxAirmass: p.cfg.Expand.MaxAirmass,
			}
			t, err := expand.Expand(sched, cat, o, p.log)
			if err != nil {
				return err
			}
			return obsrow.WriteFile(out, t)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&schedFile, "schedule", "s", "", "schedule CSV")
	f.StringVarP(&catFile, "catalog", "c", "", "bright star catalog CSV")
	f.StringVarP(&out, "out", "o", "", "observation table to write")
	cmd.MarkFlagRequired("schedule")
	cmd.MarkFlagRequired("out")
	return cmd
}

func (p *prog) moonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "moon <mjd>",
		Short: "Show the moon at the configured site",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mjd, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("mjd: %w", err)
			}
			m := ephem.Moon(mjd, p.cfg.Site)
			b, err := p.cfg.Shape.Phase(m.Phase)
			if err != nil {
				return err
			}
			return writeMoon(p.stdout, p.cfg.Site, mjd, m, b)
		},
	}
}

func writeMoon(w io.Writer, s ephem.Site, mjd float64, m ephem.MoonState, b shaper.Bucket) error {
	_, err := fmt.Fprintf(w, `site      %s
mjd       %.5f
ra        %.1s
dec       %+.0s
alt       %.2f
az        %.2f
distance  %.0f km
phase     %.3f %s %s
`,
		s.Name, mjd,
		sexa.FmtRA(unit.RAFromDeg(m.RA)),
		sexa.FmtAngle(unit.AngleFromDeg(m.Dec)),
		m.Alt, m.Az, m.Distance, m.Phase, b.Icon, b.Name)
	return err
}
