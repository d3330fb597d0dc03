package pipeline

import (
	"os"

	"github.com/cheggaaa/pb/v3"
)

// progressBar is the narrow slice of cheggaaa/pb's API the pipeline needs,
// kept behind an interface so ShowProgress=false costs nothing.
type progressBar interface {
	setCurrent(col uint32)
	finish()
}

type pbProgressBar struct {
	bar *pb.ProgressBar
}

var tmpl = pb.ProgressBarTemplate(`Generating: {{counters . }} columns {{bar . }} {{percent . }} {{etime . }}`)

func newPBProgressBar(total uint64) progressBar {
	bar := tmpl.Start64(int64(total))
	bar.SetWriter(os.Stderr)
	return &pbProgressBar{bar: bar}
}

func (p *pbProgressBar) setCurrent(col uint32) {
	p.bar.SetCurrent(int64(col))
}

func (p *pbProgressBar) finish() {
	p.bar.Finish()
}
