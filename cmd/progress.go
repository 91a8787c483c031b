package cmd

import (
	"fmt"
	"sync"

	"github.com/gosuri/uiprogress"

	"dbkeeper/internal/job"
)

// jobBar is one progress bar scaled to percent, since totals are not
// always known up front.
type jobBar struct {
	bar *uiprogress.Bar

	mu    sync.Mutex
	count int64
}

func newJobBar(title string) *jobBar {
	jb := &jobBar{}
	jb.bar = uiprogress.AddBar(100).AppendCompleted().PrependElapsed()
	jb.bar.PrependFunc(func(b *uiprogress.Bar) string {
		return fmt.Sprintf("%-24s", title)
	})
	jb.bar.AppendFunc(func(b *uiprogress.Bar) string {
		jb.mu.Lock()
		defer jb.mu.Unlock()
		return fmt.Sprintf("%d rows", jb.count)
	})
	return jb
}

// update is used as an OnProgress callback.
func (jb *jobBar) update(p job.Progress) {
	jb.mu.Lock()
	jb.count = p.CountExported
	jb.mu.Unlock()
	if p.TotalRecords > 0 {
		jb.bar.Set(int(min(100, p.PercentComplete)))
	}
}

func (jb *jobBar) done() { jb.bar.Set(100) }

// printSummary prints one line per job and returns the row total.
func printSummary(snaps []job.Snapshot, names map[string]string) int64 {
	fmt.Println("\nSummary Report:")
	var total int64
	for i, s := range snaps {
		icon := "✓"
		if s.Status != job.Completed {
			icon = "!"
		}
		fmt.Printf("[%s] [%02d/%02d] %-24s : %d rows - %s\n", icon, i+1, len(snaps), names[s.ID], s.CountExported, s.Status)
		if s.Err != "" {
			fmt.Printf("    └ Error: %s\n", s.Err)
		}
		total += s.CountExported
	}
	fmt.Println("--------------------------------------------------")
	fmt.Printf("Total rows: %d\n", total)
	return total
}
