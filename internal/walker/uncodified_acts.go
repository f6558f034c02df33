package walker

import (
	"context"
	"strconv"
	"time"

	"github.com/nao1215/valaw/internal/fetch"
)

// FirstUncodifiedYear is the earliest year the uncodified acts endpoint serves.
const FirstUncodifiedYear = 1946

// UncodifiedActs fetches the chapter listing of every year from
// FirstUncodifiedYear through the current year, one request per year.
//
// The document is an object keyed by year. Years whose fetch failed are
// absent.
type UncodifiedActs struct {
	base
	now func() time.Time
}

// Years returns the years the walker requests, in order.
func (w *UncodifiedActs) Years() []int {
	last := w.now().Year()
	if last < FirstUncodifiedYear {
		return nil
	}
	years := make([]int, 0, last-FirstUncodifiedYear+1)
	for y := FirstUncodifiedYear; y <= last; y++ {
		years = append(years, y)
	}
	return years
}

// Walk implements Walker.
func (w *UncodifiedActs) Walk(ctx context.Context, g fetch.Getter) any {
	out := make(map[string]any)
	for _, year := range w.Years() {
		if ctx.Err() != nil {
			break
		}
		y := strconv.Itoa(year)
		resp, err := g.Fetch(ctx, epUncodifiedByYear, y)
		if err != nil {
			continue
		}
		out[y] = resp
	}
	return out
}
