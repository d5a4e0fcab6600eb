// Public domain.

package calendar

import "runtime"

// Result is the summary of one file.
type Result struct {
	File  string
	Night Night
	Err   error
}

// SummarizeFiles summarizes files concurrently with up to workers
// goroutines, or GOMAXPROCS if workers < 1.
//
// Results are delivered on the returned channel in the order of files,
// regardless of the order in which they complete.  The channel is closed
// after the last result.  The caller must drain it.
func SummarizeFiles(files []string, workers int) <-chan Result {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	type job struct {
		fn  string
		rch chan Result
	}
	jobs := make(chan job)
	// tickets holds result channels in submission order.  it is buffered so
	// a fast worker can drop off its result without waiting for a slow
	// worker ahead of it.
	tickets := make(chan chan Result, workers*2)
	out := make(chan Result)

	// dispatcher.  wait for a free worker, hand it the file, then queue the
	// ticket for the collector.
	go func() {
		for _, fn := range files {
			rch := make(chan Result, 1)
			jobs <- job{fn, rch}
			tickets <- rch
		}
		close(jobs)
		close(tickets)
	}()

	for n := 0; n < workers; n++ {
		go func() {
			for j := range jobs {
				r := Result{File: j.fn}
				r.Night, r.Err = SummarizeFile(j.fn)
				j.rch <- r // buffered.  drop off and continue
			}
		}()
	}

	// collector, waits on each ticket in turn.
	go func() {
		for rch := range tickets {
			out <- <-rch
		}
		close(out)
	}()
	return out
}
