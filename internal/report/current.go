package report

import (
	"strings"

	"github.com/sawpanic/scanreport/internal/analysis"
)

func (c *Console) renderCurrent(s *analysis.Summary) {
	c.banner("📊 Scan Data Analysis Report")

	first, last := "N/A", "N/A"
	if s.TotalScans > 0 {
		first, last = s.FirstTimestamp, s.LastTimestamp
	}
	c.println("\n⏱️  Time range: %s ~ %s", first, last)
	c.println("   Total records: %s", c.thousands(s.TotalScans))
	c.println("   Scan cycles: ~%d (%d pairs per cycle)", s.ScanCycles(c.opts.PairsPerScan), c.opts.PairsPerScan)
	c.println("   Monitoring time: ~%.1fh", s.DurationHours)
	c.println("   ✅ Opportunities found: %d", s.Opportunities)
	c.println("   ❌ Opportunity rate: %.2f%%", s.OpportunityRate)

	c.spreadStats(s, "")
	c.ethStats("💎 ETH price statistics:", s)

	c.heading("⛽ Gas price statistics:")
	c.println("   Mean:       %.2f Gwei", s.Gas.Mean)
	c.println("   Range:      %.2f ~ %.2f Gwei", s.Gas.Min, s.Gas.Max)

	c.heading("🏆 Top spread case:")
	if rec := s.MaxSpread; rec != nil {
		c.println("   Pair:          %s", rec.Pair)
		c.println("   Spread:        %.4f%%", rec.SpreadPercent)
		c.println("   Time:          %s", rec.Timestamp)
		c.println("   Opportunity:   %s", c.yesNo(rec.IsOpportunity()))
		c.println("   Reject reason: %s", rejectText(*rec, "(spread too small)"))
		c.println("   ETH price:     $%.2f", rec.EthPriceUSD)
		c.println("   Gas:           %.2f Gwei", rec.GasGwei)
	}

	c.pairStats(s, true)
	c.rejectReasons(s, 50, true)
	c.distribution(s, 12)

	c.heading(c.printer.Sprintf("🔝 Top %d spreads:", s.TopK))
	for i, rec := range s.Top {
		c.println("   %2d. %s %-10s %6.4f%% @ %s ETH=$%.2f Gas=%.2fGwei - %s",
			i+1, c.mark(rec.IsOpportunity()), rec.Pair, rec.SpreadPercent, rec.TimeOfDay(),
			rec.EthPriceUSD, rec.GasGwei, truncate(rejectText(rec, "(below spread)"), 35))
	}

	threshold := trimFloat(s.OpportunityThreshold)
	if s.AnomalyCount > 0 {
		c.println("\n⚠️  Rejected at or above %s%%: %d records", threshold, s.AnomalyCount)
		c.println("   (these most likely point at a logic problem)")
		for i, rec := range s.TopAnomalies {
			c.println("   %2d. %-10s %6.4f%% @ %s ETH=$%.2f Gas=%.2fGwei",
				i+1, rec.Pair, rec.SpreadPercent, rec.TimeOfDay(), rec.EthPriceUSD, rec.GasGwei)
			c.println("       Reject: %s", rejectText(rec, "(no explicit reject)"))
		}
	}

	c.println("\n%s", strings.Repeat("=", ruleWidth))
	c.println("%s", c.title.Sprint("💡 Key findings"))
	c.println("%s", strings.Repeat("=", ruleWidth))
	if s.Opportunities == 0 {
		c.println("❌ Opportunities found: 0")
		c.println("   Mean spread: %.4f%% (minSpreadPercent %s%%)", s.Spread.Mean, threshold)
		if s.AnomalyCount > 0 {
			c.println("   ⚠️  %d records at or above %s%% were rejected → review the logic", s.AnomalyCount, threshold)
		} else {
			c.println("   → most spreads fall short of %s%%", threshold)
		}
	} else {
		c.println("✅ Opportunities found: %d (%.2f%%)", s.Opportunities, s.OpportunityRate)
	}

	c.println("\n➡️  Next steps:")
	if s.AnomalyCount > 0 {
		c.println("   1. Review the cases rejected at or above %s%%", threshold)
		c.println("   2. Check fetch errors (is the price data accurate?)")
		c.println("   3. Review the profitability math (gas cost, fees)")
	} else {
		c.println("   1. Spreads are too small → consider tuning minSpreadPercent")
		c.println("   2. Monitor for a longer period")
		c.println("   3. Test against live mainnet")
	}
	c.println("%s", strings.Repeat("=", ruleWidth))
}
