package main

import (
	"io"
	"text/template"
	"time"
)

// Report accumulates per-frame timings for the final summary.
type Report struct {
	Entities int
	Parts    int
	Frames   int64

	Total time.Duration
	Min   time.Duration
	Max   time.Duration
}

func newReport(entities, parts int) *Report {
	return &Report{
		Entities: entities,
		Parts:    parts,
		Min:      time.Duration(1<<63 - 1),
	}
}

func (r *Report) observeFrame(d time.Duration) {
	r.Frames++
	r.Total += d
	if d < r.Min {
		r.Min = d
	}
	if d > r.Max {
		r.Max = d
	}
}

func (r *Report) Avg() time.Duration {
	if r.Frames == 0 {
		return 0
	}
	return r.Total / time.Duration(r.Frames)
}

var reportTemplate = template.Must(template.New("report").Parse(`
=== ECS Stress Report ===
Entities:   {{.Entities}}
Partitions: {{.Parts}}
Frames:     {{.Frames}}

Frame time:
  min {{.Min}}
  avg {{.Avg}}
  max {{.Max}}
`))

func (r *Report) write(w io.Writer) error {
	return reportTemplate.Execute(w, r)
}
