package report

import (
	"strings"

	"github.com/sawpanic/scanreport/internal/analysis"
)

func (c *Console) renderLegacy(s *analysis.Summary) {
	c.banner("📊 Scan Data Final Analysis")

	threshold := trimFloat(s.OpportunityThreshold)

	if s.TotalScans > 0 {
		c.println("\n⏱️  Time range: %s ~ %s (~%.1fh)", s.FirstTimestamp, s.LastTimestamp, s.DurationHours)
	} else {
		c.println("\n⏱️  Time range: N/A")
	}
	c.println("   Total records: %s", c.thousands(s.TotalScans))
	c.println("   Scan cycles: ~%d (%d pairs per cycle)", s.ScanCycles(c.opts.PairsPerScan), c.opts.PairsPerScan)
	c.println("   ✅ Opportunities found: %d", s.Opportunities)
	if s.Opportunities == 0 {
		c.println("   ❌ Conclusion: no opportunity found in the whole run")
	} else {
		c.println("   ✅ Conclusion: %d opportunities found (%.2f%%)", s.Opportunities, s.OpportunityRate)
	}

	maxSuffix := ""
	if s.MaxSpread != nil && !s.MaxSpread.IsOpportunity() {
		maxSuffix = "  👈 rejected as well"
	}
	c.spreadStats(s, maxSuffix)

	c.heading("🏆 Top spread case:")
	if rec := s.MaxSpread; rec != nil {
		c.println("   Pair:          %s", rec.Pair)
		c.println("   Spread:        %.4f%%", rec.SpreadPercent)
		c.println("   Time:          %s", rec.Timestamp)
		c.println("   Buy DEX:       %s @ $%s", rec.Route.BuyDEX, decimal(rec.Route.BuyPrice, 2))
		c.println("   Sell DEX:      %s @ 1 WETH = %s Token", rec.Route.SellDEX, decimal(rec.Route.SellRate, 6))
		c.println("   Opportunity:   %s", c.yesNo(rec.IsOpportunity()))
		c.println("   Reject reason: %s", rejectText(*rec, "(spread too small)"))
		c.println("   ETH price:     $%.2f", rec.EthPriceUSD)
	}

	c.pairStats(s, false)
	c.ethStats("💎 ETH price statistics (Chainlink):", s)
	c.rejectReasons(s, 45, false)
	c.distribution(s, 10)

	c.heading(c.printer.Sprintf("🔝 Top %d spreads:", s.TopK))
	for i, rec := range s.Top {
		c.println("   %2d. %-10s %6.4f%% @ %s ETH=$%.2f - %s",
			i+1, rec.Pair, rec.SpreadPercent, rec.TimeOfDay(), rec.EthPriceUSD,
			truncate(rejectText(rec, "(too small)"), 30))
	}

	c.println("\n%s", strings.Repeat("=", ruleWidth))
	c.println("%s", c.title.Sprint("💡 Key findings"))
	c.println("%s", strings.Repeat("=", ruleWidth))
	for i, finding := range c.legacyFindings(s, threshold) {
		c.println("%d. %s", i+1, finding)
	}

	if s.Opportunities == 0 {
		c.println("\n➡️  The current strategy (minSpread=%s%%) caught no opportunity in this run", threshold)
		c.println("➡️  Tune the strategy for live conditions or monitor for longer")
	} else {
		c.println("\n➡️  Review the %d flagged opportunities before changing the strategy", s.Opportunities)
	}
	c.println("%s", strings.Repeat("=", ruleWidth))
}

// legacyFindings derives the five concluding points from the data
func (c *Console) legacyFindings(s *analysis.Summary, threshold string) []string {
	findings := make([]string, 0, 5)

	findings = append(findings, c.printer.Sprintf("Opportunities found: %d of %d records", s.Opportunities, s.TotalScans))

	relation := "below"
	if s.Spread.Mean >= s.OpportunityThreshold {
		relation = "at or above"
	}
	findings = append(findings, c.printer.Sprintf("Mean spread: %.4f%% (%s the %s%% minSpreadPercent, %d records below it)",
		s.Spread.Mean, relation, threshold, s.BelowThreshold))

	if rec := s.MaxSpread; rec != nil {
		outcome := "flagged as opportunity"
		if !rec.IsOpportunity() {
			outcome = "rejected: " + rejectText(*rec, "(spread too small)")
		}
		findings = append(findings, c.printer.Sprintf("Max spread: %.4f%% (%s) → %s", rec.SpreadPercent, rec.Pair, outcome))
	} else {
		findings = append(findings, "Max spread: no positive spread recorded")
	}

	if pct, ok := s.EthPrice.VolatilityPct(); ok {
		findings = append(findings, c.printer.Sprintf("ETH price: $%.2f ~ $%.2f (%.1f%% range)", s.EthPrice.Min, s.EthPrice.Max, pct))
	} else {
		findings = append(findings, c.printer.Sprintf("ETH price: $%.2f ~ $%.2f", s.EthPrice.Min, s.EthPrice.Max))
	}

	if top, ok := s.TopReason(); ok {
		findings = append(findings, c.printer.Sprintf("Top reject reason: '%s' (%d records, %.1f%%)", top.Reason, top.Count, top.Percent))
	} else {
		findings = append(findings, c.printer.Sprintf("Top reject reason: none explicit, %d records without a reason", s.ImplicitRejects))
	}

	return findings
}
