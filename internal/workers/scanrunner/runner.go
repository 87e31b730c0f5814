package scanrunner

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"orgscan/internal/domain"
	"orgscan/internal/ports"
)

// Run states reported by Status.
const (
	StateRunning  = "running"
	StateDraining = "draining"
	StateDone     = "completed"
)

// Pool schedules one scan job per organization across a fixed number of
// workers. Admission follows source order; completion order is whatever the
// scanners give us. All counter updates happen on the single goroutine
// draining the reports channel, so jobs report outcomes as messages instead
// of mutating shared state.
type Pool struct {
	runner    ports.ScanRunner
	collector ports.ResultCollector
	parallel  int
	timeout   time.Duration
	out       io.Writer

	mu       sync.Mutex
	state    string
	counters domain.RunCounters
}

func New(runner ports.ScanRunner, collector ports.ResultCollector, parallel int, timeout time.Duration, out io.Writer) *Pool {
	if parallel < 1 {
		parallel = 1
	}
	return &Pool{
		runner:    runner,
		collector: collector,
		parallel:  parallel,
		timeout:   timeout,
		out:       out,
	}
}

// Run dispatches every organization and blocks until each admitted job
// reaches a terminal outcome. Canceling ctx stops admission and asks
// in-flight scans to terminate; Run still waits for those jobs to report
// before returning, so no scanner process outlives it.
func (p *Pool) Run(ctx context.Context, orgs []domain.Organization) domain.RunCounters {
	total := len(orgs)
	jobs := make(chan domain.ScanJob)
	reports := make(chan domain.JobReport)

	p.setState(StateRunning)
	stop := context.AfterFunc(ctx, func() { p.setState(StateDraining) })
	defer stop()

	var wg sync.WaitGroup
	for i := 0; i < p.parallel; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				reports <- p.runJob(ctx, job)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i, org := range orgs {
			job := domain.ScanJob{Org: org, Index: i + 1, Total: total}
			select {
			case jobs <- job:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(reports)
	}()

	for rep := range reports {
		p.record(rep)
		fmt.Fprintf(p.out, "[%d/%d] %s: %s\n", rep.Job.Index, rep.Job.Total, rep.Job.Org, describe(rep))
	}

	p.setState(StateDone)
	_, counters := p.Status()
	return counters
}

// runJob runs one scan to its terminal outcome. The collector settles the
// staging artifact before the report is sent: once another job can run, the
// shared staging path is already clear.
func (p *Pool) runJob(ctx context.Context, job domain.ScanJob) domain.JobReport {
	res := p.runner.Run(ctx, job.Org, p.timeout)
	outcome := domain.Classify(res.ExitCode, res.TimedOut, res.ArtifactNonEmpty)
	if err := p.collector.Collect(job.Org, outcome); err != nil {
		log.Printf("collect results for %s: %v", job.Org, err)
	}
	return domain.JobReport{Job: job, Outcome: outcome, ExitCode: res.ExitCode}
}

func (p *Pool) record(rep domain.JobReport) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.counters.Record(rep.Outcome)
}

func (p *Pool) setState(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = s
}

// Status returns the current run state and a copy of the counters. Safe for
// concurrent use by the live status endpoint.
func (p *Pool) Status() (string, domain.RunCounters) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state, p.counters
}

func describe(rep domain.JobReport) string {
	if rep.Outcome == domain.OutcomeFailed && rep.ExitCode > 0 {
		return fmt.Sprintf("%s (exit %d)", rep.Outcome, rep.ExitCode)
	}
	return string(rep.Outcome)
}
