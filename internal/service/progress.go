package service

import (
	"math/rand"
	"sync"
	"time"
)

// ProgressFunc receives upload progress as a percentage in [0,100]
type ProgressFunc func(percent int)

const (
	progressInterval = 200 * time.Millisecond
	progressCeiling  = 90
	progressMaxStep  = 20
)

// progress is a cosmetic upload indicator. It does not count bytes: a
// ticker nudges the value up by a random step until it reaches 90, and
// finish snaps it to 100 on success or 0 on failure.
type progress struct {
	report ProgressFunc
	stop   chan struct{}
	done   chan struct{}

	mu      sync.Mutex
	percent float64
}

func startProgress(report ProgressFunc) *progress {
	p := &progress{
		report: report,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	if report == nil {
		close(p.done)
		return p
	}

	report(0)
	go p.run()
	return p
}

func (p *progress) run() {
	defer close(p.done)
	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
			p.mu.Lock()
			p.percent += rand.Float64() * progressMaxStep
			if p.percent > progressCeiling {
				p.percent = progressCeiling
			}
			value := int(p.percent)
			p.mu.Unlock()
			p.report(value)
		}
	}
}

// finish stops the ticker goroutine and reports the final value. It
// returns only after the goroutine has exited.
func (p *progress) finish(ok bool) {
	if p.report == nil {
		return
	}
	close(p.stop)
	<-p.done
	if ok {
		p.report(100)
	} else {
		p.report(0)
	}
}
