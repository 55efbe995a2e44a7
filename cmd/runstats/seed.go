// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/runstats/internal/database"
)

func newSeedCmd(root *rootOptions) *cobra.Command {
	opts := database.DefaultSeedOptions(time.Time{})

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert deterministic mock runs into the event store",
		Long: `seed writes a reproducible demo dataset: a skewed user population,
evening-heavy run times and a sprinkling of malformed events so the
skipped-record counters have something to show.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			db, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore(db)

			opts.Now = time.Now()
			if err := db.SeedMockData(cmd.Context(), opts); err != nil {
				return err
			}

			total, err := db.CountRuns(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "seeded %d runs (%d in store)\n", opts.Runs, total)
			return err
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.Runs, "runs", opts.Runs, "number of runs to insert")
	f.IntVar(&opts.Users, "users", opts.Users, "number of distinct users")
	f.IntVar(&opts.Days, "days", opts.Days, "spread runs over the last N days")
	f.Int64Var(&opts.Seed, "seed", opts.Seed, "random seed")
	f.IntVar(&opts.MalformedEvery, "malformed-every", opts.MalformedEvery, "write one malformed event per N runs, 0 disables")

	return cmd
}
