package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/courtsplit/courtsplit/internal/config"
	"github.com/courtsplit/courtsplit/internal/domain/advice"
	"github.com/courtsplit/courtsplit/internal/domain/allocation"
	"github.com/courtsplit/courtsplit/internal/domain/wizard"
	"github.com/courtsplit/courtsplit/internal/gemini"
	"github.com/courtsplit/courtsplit/internal/logging"
	"github.com/spf13/cobra"
)

type calcOptions struct {
	costs      allocation.SessionCosts
	players    []string
	withAdvice bool
	asJSON     bool
}

func newCalcCmd() *cobra.Command {
	var opts calcOptions

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Print each player's share of the court and shuttlecock costs",
		Example: `  courtsplit calc --start 19:00 --end 21:00 --rate 20000 --shuttles 3 --shuttle-price 20000 \
    --player "A=19:00-21:00" --player "B=20:00-21:00"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			players, err := parsePlayers(opts.players)
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			formatter, err := allocation.NewFormatter(cfg.Display.Locale, cfg.Display.CurrencySymbol)
			if err != nil {
				return err
			}
			logger, closer, err := logging.New(logging.Options{
				Level:    cfg.Log.Level,
				Path:     cfg.Log.Path,
				MaxBytes: cfg.Log.MaxBytes,
				Stdio:    true,
			})
			if err != nil {
				return err
			}
			defer closer.Close()

			calc, err := newCalculator(cfg, logger).Calculate(cmd.Context(), opts.costs, players, opts.withAdvice)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(wizard.NewCalculationView(calc, formatter))
			}
			return printCalculation(out, calc, formatter)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.costs.CourtStartTime, "start", "19:00", "Court start time (HH:MM)")
	f.StringVar(&opts.costs.CourtEndTime, "end", "21:00", "Court end time (HH:MM)")
	f.Float64Var(&opts.costs.HourlyRate, "rate", 0, "Court rate per hour")
	f.IntVar(&opts.costs.ShuttlecocksUsed, "shuttles", 0, "Number of shuttlecocks used")
	f.Float64Var(&opts.costs.PricePerShuttlecock, "shuttle-price", 0, "Price per shuttlecock")
	f.StringArrayVar(&opts.players, "player", nil, `Player as "Name=HH:MM-HH:MM" (repeatable)`)
	f.BoolVar(&opts.withAdvice, "advice", false, "Ask the language model for a sharing method")
	f.BoolVar(&opts.asJSON, "json", false, "Print JSON instead of a table")
	_ = cmd.MarkFlagRequired("player")

	return cmd
}

// newCalculator builds a wizard service for one-shot calculations. Calculate
// never touches storage, so no repository is wired.
func newCalculator(cfg config.Config, logger *slog.Logger) *wizard.Service {
	var advisor advice.Advisor
	if cfg.Advice.Enabled {
		advisor = gemini.NewClient(gemini.Config{
			APIKey:      cfg.Advice.APIKey,
			Model:       cfg.Advice.Model,
			BaseURL:     cfg.Advice.BaseURL,
			Timeout:     cfg.Advice.Timeout,
			Temperature: cfg.Advice.Temperature,
		}, logger)
	}
	adviceSvc := advice.NewService(advisor, cfg.Advice.Timeout, logger)
	return wizard.NewService(nil, adviceSvc, nil, logger)
}

func printCalculation(w io.Writer, calc *wizard.Calculation, f *allocation.Formatter) error {
	s := f.Summarize(calc.Result)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Court\t%s - %s\t%s\n", calc.Costs.CourtStartTime, calc.Costs.CourtEndTime, s.CourtDuration)
	fmt.Fprintf(tw, "Court cost\t%s\n", s.CourtCost)
	fmt.Fprintf(tw, "Shuttlecock cost\t%s\n", s.ShuttlecockCost)
	fmt.Fprintf(tw, "Grand total\t%s\n", s.GrandTotal)
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "PLAYER\tARRIVAL\tDEPARTURE\tTIME PLAYED\tCOST")
	for i, line := range s.Players {
		p := calc.Players[i]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", line.Name, p.ArrivalTime, p.DepartureTime, line.TimePlayed, line.Cost)
	}
	if s.Unallocated != "" {
		fmt.Fprintf(tw, "\nNobody played during the court window; %s is unallocated.\n", s.Unallocated)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if calc.Advice != nil {
		fmt.Fprintf(w, "\nSuggested method: %s\n%s\n", calc.Advice.SuggestedMethod, calc.Advice.Reasoning)
	}
	return nil
}
