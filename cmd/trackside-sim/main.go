// Package main provides the simulation and inspection CLI for the wagering
// engine.
package main

import (
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/yourusername/trackside/internal/config"
	"github.com/yourusername/trackside/internal/logger"
	"github.com/yourusername/trackside/internal/schedule"
	"github.com/yourusername/trackside/internal/sim"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile string
	appLog     *logrus.Logger
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "trackside-sim",
	Short: "Simulate and inspect the venue's wagering engine",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadWithDefaults(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := config.Validate(cfg); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		appLog = logger.NewLogger(cfg.App.LogLevel)
		return nil
	},
}

var (
	simDays    int
	simSeed    int64
	simStake   int
	simPurse   int
	simScrip   int
	simRandom  bool
	simSeasons int
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run simulated seasons against a punter policy",
	Run: func(cmd *cobra.Command, args []string) {
		var policy sim.Policy
		if simRandom {
			policy = sim.RandomPolicy{Stake: simStake}
		} else {
			policy = sim.FavoritePolicy{Stake: simStake}
		}
		simulator := sim.NewSimulator(cfg, policy, appLog)

		if simSeasons > 1 {
			result := simulator.RunMonteCarlo(simSeasons, simDays, simSeed, simPurse, simScrip)
			fmt.Printf("Monte Carlo over %d seasons of %d days\n", result.Iterations, simDays)
			fmt.Printf("  final purse: mean %.1f, std %.1f\n", result.MeanFinal, result.StdFinal)
			fmt.Printf("  percentiles: p5 %.0f, p50 %.0f, p95 %.0f\n", result.P5, result.P50, result.P95)
			fmt.Printf("  P(profit) %.3f, P(ruin) %.3f\n", result.ProbabilityOfProfit, result.ProbabilityOfRuin)
			return
		}

		season := simulator.RunSeason(simDays, simSeed, simPurse, simScrip)
		report := sim.SeasonReport{Result: season, Starting: simPurse + simScrip}
		fmt.Print(report.String())
	},
}

var (
	checkDay        int
	checkIterations int
	checkSeed       int64
)

var oddscheckCmd = &cobra.Command{
	Use:   "oddscheck",
	Short: "Compare empirical win frequencies against implied probabilities",
	Run: func(cmd *cobra.Command, args []string) {
		rows := sim.RunConformance(cfg, checkDay, checkIterations, checkSeed)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "RUNNER\tODDS\tIMPLIED\tEMPIRICAL\tDELTA")
		for _, row := range rows {
			fmt.Fprintf(w, "%s\t%s\t%.4f\t%.4f\t%+.4f\n",
				row.Name, row.Odds, row.Implied, row.Empirical, row.Empirical-row.Implied)
		}
		_ = w.Flush()
	},
}

var cardDay int

var cardCmd = &cobra.Command{
	Use:   "card",
	Short: "Print a day's deterministic race card",
	Run: func(cmd *cobra.Command, args []string) {
		gen := schedule.NewGenerator(&cfg.Racing, appLog)
		races := gen.BuildDaySchedule(cardDay)

		fmt.Printf("Race card for day %d\n", cardDay)
		for _, race := range races {
			fmt.Printf("  Race %d at %05.2f\n", race.Index+1, race.PostHour)
			for i, c := range race.Competitors {
				fmt.Printf("    %d. %-24s %d/%d\n", i+1, c.Name, c.Odds.Numerator, c.Odds.Denominator)
			}
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("trackside-sim %s (%s)\n", Version, GitCommit)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to configuration file")

	simulateCmd.Flags().IntVar(&simDays, "days", 30, "Days to simulate per season")
	simulateCmd.Flags().Int64Var(&simSeed, "seed", 1, "Session seed")
	simulateCmd.Flags().IntVar(&simStake, "stake", 10, "Stake per wager")
	simulateCmd.Flags().IntVar(&simPurse, "purse", 1000, "Starting coin")
	simulateCmd.Flags().IntVar(&simScrip, "scrip", 100, "Starting scrip")
	simulateCmd.Flags().BoolVar(&simRandom, "random", false, "Back random runners instead of favorites")
	simulateCmd.Flags().IntVar(&simSeasons, "seasons", 1, "Season count; >1 runs a Monte Carlo")

	oddscheckCmd.Flags().IntVar(&checkDay, "day", 0, "Day index of the reference card")
	oddscheckCmd.Flags().IntVar(&checkIterations, "iterations", 100000, "Resolution draws")
	oddscheckCmd.Flags().Int64Var(&checkSeed, "seed", 1, "Sampling seed")

	cardCmd.Flags().IntVar(&cardDay, "day", 0, "Day index")

	rootCmd.AddCommand(simulateCmd, oddscheckCmd, cardCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}
