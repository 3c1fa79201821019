package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"

	"github.com/TempAcc-hue/Financial-Portfolio/internal/domain"
	"github.com/TempAcc-hue/Financial-Portfolio/internal/usecase/importer"
)

var commands = []subcommands.Command{
	&importCmd{},
	&listCmd{},
	&summaryCmd{},
}

// -----------------------------------------------------------------------------
// import
// -----------------------------------------------------------------------------

type importCmd struct{}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import holdings from a CSV file" }
func (*importCmd) Usage() string {
	return `portfolioctl import <file.csv>

  Creates one holding per well-formed row. The first row is a header.
  Columns: symbol,name,type,quantity,buyPrice[,purchaseDate]
  Malformed rows are skipped.
`
}

func (*importCmd) SetFlags(f *flag.FlagSet) {}

func (*importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "import expects exactly one file")
		return subcommands.ExitUsageError
	}

	file, err := os.Open(f.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer file.Close()

	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	created, err := importer.NewCSVImporter(a.Assets, a.Log).Import(ctx, file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Import stopped after %d assets: %v\n", len(created), err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Imported %d assets\n", len(created))
	return subcommands.ExitSuccess
}

// -----------------------------------------------------------------------------
// list
// -----------------------------------------------------------------------------

type listCmd struct {
	assetType string
	query     string
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list holdings with their current valuation" }
func (*listCmd) Usage() string {
	return `portfolioctl list [-type <TYPE>] [-q <query>]

  Lists holdings in fixed type order. -type restricts to one asset type,
  -q keeps holdings whose symbol or name contains the query.
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.assetType, "type", "", "Only list holdings of this asset type (STOCK, BOND, ETF, ...).")
	f.StringVar(&c.query, "q", "", "Only list holdings whose symbol or name contains this text.")
}

func (c *listCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	var valuations []domain.Valuation
	switch {
	case c.assetType != "":
		assetType, perr := domain.ParseAssetType(c.assetType)
		if perr != nil {
			fmt.Fprintln(os.Stderr, perr)
			return subcommands.ExitUsageError
		}
		valuations, err = a.Portfolio.ListHoldingsByType(ctx, assetType)
	case c.query != "":
		valuations, err = a.Portfolio.SearchHoldings(ctx, c.query)
	default:
		valuations, err = a.Portfolio.ListHoldings(ctx)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	writeHoldings(os.Stdout, valuations)
	return subcommands.ExitSuccess
}

// -----------------------------------------------------------------------------
// summary
// -----------------------------------------------------------------------------

type summaryCmd struct{}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display portfolio totals, allocation and top performers" }
func (*summaryCmd) Usage() string {
	return `portfolioctl summary

  Values every holding and prints the portfolio totals, the allocation
  and performance per asset type and the top gainers and losers.
`
}

func (*summaryCmd) SetFlags(f *flag.FlagSet) {}

func (*summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	summary, err := a.Portfolio.GetSummary(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	perf, err := a.Portfolio.GetPerformanceByType(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	writeSummary(os.Stdout, summary, perf)
	return subcommands.ExitSuccess
}

// -----------------------------------------------------------------------------
// Rendering
// -----------------------------------------------------------------------------

func writeHoldings(w io.Writer, valuations []domain.Valuation) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "SYMBOL\tTYPE\tQUANTITY\tPRICE\tVALUE\tGAIN/LOSS\t%\t")
	for _, v := range valuations {
		price := formatMoney(v.CurrentPrice)
		if !v.LivePrice && v.Type.IsTradeable() {
			price += "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			v.Symbol, v.Type, v.Quantity, price,
			formatMoney(v.CurrentValue), formatSignedMoney(v.GainLoss), formatPercent(v.GainLossPercentage))
	}
	tw.Flush()
}

func writeSummary(w io.Writer, s *domain.PortfolioSummary, perf []domain.TypePerformance) {
	fmt.Fprintf(w, "Total value:      %s\n", formatMoney(s.TotalValue))
	fmt.Fprintf(w, "Total cost basis: %s\n", formatMoney(s.TotalCostBasis))
	fmt.Fprintf(w, "Total gain/loss:  %s (%s)\n", formatSignedMoney(s.TotalGainLoss), formatPercent(s.TotalGainLossPercentage))
	fmt.Fprintf(w, "Assets:           %d\n\n", s.TotalAssets)

	if len(perf) > 0 {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "TYPE\tCOUNT\tVALUE\tALLOCATION\tGAIN/LOSS\t%\t")
		for _, p := range perf {
			pct := "n/a"
			if p.Percentage.Valid {
				pct = formatPercent(p.Percentage.Decimal)
			}
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t\n",
				p.Type, s.CountByType[p.Type], formatMoney(p.Value),
				formatPercent(s.AllocationByType[p.Type]), formatSignedMoney(p.GainLoss), pct)
		}
		tw.Flush()
		fmt.Fprintln(w)
	}

	if len(s.TopGainers) > 0 {
		fmt.Fprintln(w, "Top gainers:")
		writeHoldings(w, s.TopGainers)
		fmt.Fprintln(w)
	}
	if len(s.TopLosers) > 0 {
		fmt.Fprintln(w, "Top losers:")
		writeHoldings(w, s.TopLosers)
	}
}
