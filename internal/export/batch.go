// Public domain.

package export

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fieldviz/fieldviz/internal/shaper"
	"github.com/fieldviz/fieldviz/obsrow"
)

var mjdPattern = regexp.MustCompile(`mjd-(\d+)-`)

// NightMJD returns the integer MJD in a night file name such as
// mjd-59418-sdss-simple-expanded-priority.csv.
func NightMJD(fn string) (int, error) {
	m := mjdPattern.FindStringSubmatch(filepath.Base(fn))
	if m == nil {
		return 0, fmt.Errorf("export: no mjd-<N>- in file name %q", fn)
	}
	return strconv.Atoi(m[1])
}

// BatchOptions configure Batch.
type BatchOptions struct {
	Options
	Out      string    // night directories are created under Out
	Workers  int       // concurrent nights, at least 1
	Progress io.Writer // progress bar destination, nil for none
}

// Batch shapes each night file and writes it to Out/<mjd>/.  It stops at
// the first error and returns it.
func Batch(ctx context.Context, files []string, s *shaper.Shaper, o BatchOptions, log *zap.Logger) error {
	if err := o.validate(); err != nil {
		return err
	}
	mjds := make([]int, len(files))
	for i, fn := range files {
		m, err := NightMJD(fn)
		if err != nil {
			return err
		}
		mjds[i] = m
	}
	var bar *progressbar.ProgressBar
	if o.Progress != nil {
		bar = progressbar.NewOptions(len(files),
			progressbar.OptionSetWriter(o.Progress),
			progressbar.OptionSetDescription("nights"),
			progressbar.OptionShowCount(),
		)
	}
	workers := o.Workers
	if workers < 1 {
		workers = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, fn := range files {
		fn, mjd := fn, mjds[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t, err := obsrow.ReadFile(fn)
			if err != nil {
				return err
			}
			r, err := s.Shape(t, true)
			if err != nil {
				return fmt.Errorf("%s: %w", fn, err)
			}
			dir := filepath.Join(o.Out, strconv.Itoa(mjd))
			if err := WriteNight(dir, r, o.Options); err != nil {
				return err
			}
			log.Debug("night written",
				zap.Int("mjd", mjd),
				zap.Int("fields", len(r.Fields)),
				zap.Int("stars", len(r.Stars)),
				zap.Int("moon", len(r.Moon)),
				zap.String("phase", r.Phase.Name))
			if bar != nil {
				return bar.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("batch done", zap.Int("nights", len(files)), zap.String("out", o.Out))
	return nil
}
