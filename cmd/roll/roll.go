package main

import (
	"fmt"
	"io"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ewens/dicelang/pkg/dicelang"
	"github.com/ewens/dicelang/pkg/dicelang/operator"
)

// runOptions is the merged flag and config state for one invocation.
type runOptions struct {
	Mode    dicelang.Mode
	Number  int
	Wrap    int
	Verbose bool
	Stats   bool
	Seed    int64
}

// resolveMode turns the mode flags into a Mode, starting from the
// configured default. Setting more than one mode flag is an error.
func resolveMode(configured string, average, critical, maximum bool) (dicelang.Mode, error) {
	set := 0
	for _, f := range []bool{average, critical, maximum} {
		if f {
			set++
		}
	}
	if set > 1 {
		return dicelang.ModeNormal, fmt.Errorf("the -a, -c, and -m flags are mutually exclusive")
	}
	switch {
	case maximum:
		return dicelang.ModeMax, nil
	case critical:
		return dicelang.ModeCrit, nil
	case average:
		return dicelang.ModeAverage, nil
	}
	return dicelang.ModeFromString(configured)
}

// runRolls evaluates each expression opts.Number times, wrapping output
// lines at opts.Wrap characters the way a terminal user expects.
func runRolls(out io.Writer, exprs []string, opts runOptions) error {
	for _, expr := range exprs {
		compiled, err := dicelang.Compile(expr, 0)
		if err != nil {
			return err
		}

		length := 0
		for i := 0; i < opts.Number; i++ {
			var s string
			if opts.Verbose {
				v, err := dicelang.Verbose(compiled, opts.Mode, 0)
				if err != nil {
					return err
				}
				s = v + " "
			} else {
				v, err := dicelang.Basic(compiled, opts.Mode, 0)
				if err != nil {
					return err
				}
				s = operator.FormatNumber(v) + " "
			}
			if opts.Wrap > 0 {
				length += len(s)
				if length > opts.Wrap {
					fmt.Fprintln(out)
					length = len(s)
				}
			}
			fmt.Fprint(out, s)
		}
		fmt.Fprintln(out)
	}
	return nil
}

// rollStats summarizes repeated rolls of one expression.
type rollStats struct {
	Count int
	Mean  float64
	Min   float64
	Max   float64
	Total float64
}

// collectStats rolls the compiled expression count times.
func collectStats(compiled any, mode dicelang.Mode, count int) (rollStats, error) {
	stats := rollStats{
		Count: count,
		Min:   math.Inf(1),
		Max:   math.Inf(-1),
	}
	for i := 0; i < count; i++ {
		v, err := dicelang.Basic(compiled, mode, 0)
		if err != nil {
			return rollStats{}, err
		}
		stats.Total += v
		stats.Min = math.Min(stats.Min, v)
		stats.Max = math.Max(stats.Max, v)
	}
	stats.Mean = stats.Total / float64(count)
	return stats, nil
}

// runStats rolls each expression opts.Number times and prints a summary
// with locale-aware number formatting.
func runStats(out io.Writer, exprs []string, opts runOptions) error {
	p := message.NewPrinter(language.English)
	for _, expr := range exprs {
		compiled, err := dicelang.Compile(expr, 0)
		if err != nil {
			return err
		}
		stats, err := collectStats(compiled, opts.Mode, opts.Number)
		if err != nil {
			return err
		}
		p.Fprintf(out, "%s: %d rolls, mean %.2f, min %s, max %s, total %s\n",
			expr, stats.Count, stats.Mean,
			operator.FormatNumber(stats.Min),
			operator.FormatNumber(stats.Max),
			operator.FormatNumber(stats.Total))
	}
	return nil
}
