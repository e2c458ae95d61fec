package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sawpanic/scanreport/internal/analysis"
	"github.com/sawpanic/scanreport/internal/config"
	"github.com/sawpanic/scanreport/internal/data/scanlog"
)

const ruleWidth = 80

// Options controls layout and styling of the console report
type Options struct {
	Layout       config.Layout
	Color        bool
	PairsPerScan int
}

// Console renders a Summary as a text report
type Console struct {
	w    io.Writer
	opts Options

	title   *color.Color
	good    *color.Color
	bad     *color.Color
	printer *message.Printer

	buf strings.Builder
}

// NewConsole creates a console renderer writing to w
func NewConsole(w io.Writer, opts Options) *Console {
	c := &Console{
		w:       w,
		opts:    opts,
		title:   color.New(color.FgCyan, color.Bold),
		good:    color.New(color.FgGreen),
		bad:     color.New(color.FgRed),
		printer: message.NewPrinter(language.English),
	}

	for _, col := range []*color.Color{c.title, c.good, c.bad} {
		if opts.Color {
			col.EnableColor()
		} else {
			col.DisableColor()
		}
	}

	return c
}

// Render writes the full report in a single write
func (c *Console) Render(s *analysis.Summary) error {
	c.buf.Reset()

	switch c.opts.Layout {
	case config.LayoutLegacy:
		c.renderLegacy(s)
	case config.LayoutCurrent, "":
		c.renderCurrent(s)
	default:
		return fmt.Errorf("unsupported layout: %s", c.opts.Layout)
	}

	if _, err := io.WriteString(c.w, c.buf.String()); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func (c *Console) println(format string, args ...interface{}) {
	fmt.Fprintf(&c.buf, format, args...)
	c.buf.WriteByte('\n')
}

func (c *Console) banner(text string) {
	rule := strings.Repeat("=", ruleWidth)
	c.println("%s", rule)
	c.println("%s", c.title.Sprint(text))
	c.println("%s", rule)
}

// heading starts a section after a blank line
func (c *Console) heading(text string) {
	c.println("\n%s", c.title.Sprint(text))
}

func (c *Console) thousands(n int) string {
	return c.printer.Sprintf("%d", n)
}

func (c *Console) mark(ok bool) string {
	if ok {
		return c.good.Sprint("✅")
	}
	return c.bad.Sprint("❌")
}

func (c *Console) yesNo(ok bool) string {
	if ok {
		return c.good.Sprint("YES ✅")
	}
	return c.bad.Sprint("NO ❌")
}

func (c *Console) spreadStats(s *analysis.Summary, maxSuffix string) {
	c.heading("💹 Spread statistics:")
	c.println("   Mean:   %.4f%%", s.Spread.Mean)
	c.println("   Median: %.4f%%", s.Spread.Median)
	c.println("   Min:    %.4f%%", s.Spread.Min)
	c.println("   Max:    %.4f%%%s", s.Spread.Max, maxSuffix)
}

func (c *Console) ethStats(title string, s *analysis.Summary) {
	c.heading(title)
	c.println("   Mean:       $%.2f", s.EthPrice.Mean)
	c.println("   Range:      $%.2f ~ $%.2f", s.EthPrice.Min, s.EthPrice.Max)
	if pct, ok := s.EthPrice.VolatilityPct(); ok {
		c.println("   Swing:      $%.2f (%.2f%%)", s.EthPrice.Range(), pct)
	}
}

func (c *Console) pairStats(s *analysis.Summary, withCount bool) {
	c.heading("🔢 Spread by pair:")
	for _, p := range s.Pairs {
		if withCount {
			c.println("   %-12s  mean %.4f%%  |  min %.4f%%  |  max %.4f%%  |  %d records", p.Pair, p.Mean, p.Min, p.Max, p.Count)
		} else {
			c.println("   %-12s  mean %.4f%%  |  min %.4f%%  |  max %.4f%%", p.Pair, p.Mean, p.Min, p.Max)
		}
	}
}

func (c *Console) rejectReasons(s *analysis.Summary, width int, withBelow bool) {
	c.heading("❌ Reject reasons:")
	if len(s.RejectReasons) > 0 {
		for _, rc := range s.RejectReasons {
			c.println("   '%-*s' %4d records (%5.1f%%)", width, truncate(rc.Reason, width), rc.Count, rc.Percent)
		}
		return
	}

	c.println("   (no explicit rejects = spread below the %s%% minSpreadPercent)", trimFloat(s.OpportunityThreshold))
	c.println("   Explicit rejects: %d of %d records", s.ExplicitRejects, s.TotalScans)
	if withBelow {
		pct := 0.0
		if s.TotalScans > 0 {
			pct = float64(s.ImplicitRejects) / float64(s.TotalScans) * 100
		}
		c.println("   Below spread: %d records (%.1f%%)", s.ImplicitRejects, pct)
	}
}

func (c *Console) distribution(s *analysis.Summary, labelWidth int) {
	c.heading(fmt.Sprintf("📊 Spread distribution (%d total):", s.Spread.Count))
	for _, bc := range s.Distribution {
		bar := strings.Repeat("█", int(bc.Percent/2))
		c.println("   %-*s %4d records (%5.1f%%) %s", labelWidth, bc.Bucket.Label, bc.Count, bc.Percent, bar)
	}
	if s.Unbucketed > 0 {
		c.println("   (%d outside all buckets)", s.Unbucketed)
	}
}

// rejectText returns the reject reason or a placeholder
func rejectText(rec scanlog.ScanRecord, placeholder string) string {
	if rec.RejectReason == "" {
		return placeholder
	}
	return rec.RejectReason
}

// truncate cuts s to n characters
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// decimal formats numeric text with a fixed precision, falling back to the
// raw text when it is not a number.
func decimal(raw string, prec int) string {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return raw
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
