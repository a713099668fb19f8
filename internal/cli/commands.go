package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/claude/barbell/internal/history"
	"github.com/claude/barbell/internal/models"
	"github.com/claude/barbell/internal/plates"
	"github.com/claude/barbell/internal/progression"
	"github.com/claude/barbell/internal/tracker"
	"github.com/claude/barbell/internal/warmup"
	"github.com/spf13/cobra"
)

func (a *app) planCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Show today's workout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.with(cmd, func(tr *tracker.Tracker, out io.Writer) error {
				printPlan(out, tr.Plan())
				return nil
			})
		},
	}
}

func (a *app) finishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "finish",
		Short: "Log today's workout with every set completed",
		Long: `Marks every planned set done, except for the lifts named with --failed,
and logs the session. Weights advance as if the session was recorded live.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			failedNames, _ := cmd.Flags().GetStringSlice("failed")
			skipAccessories, _ := cmd.Flags().GetBool("skip-accessories")

			failed := map[models.ExerciseKind]bool{}
			for _, name := range failedNames {
				kind, err := models.ParseExerciseKind(name)
				if err != nil {
					return err
				}
				failed[kind] = true
			}

			return a.with(cmd, func(tr *tracker.Tracker, out io.Writer) error {
				plan := tr.Plan()
				for _, ex := range plan.Exercises {
					if failed[ex.Kind] {
						continue
					}
					for i, done := range ex.Completed {
						if !done {
							if _, err := tr.ToggleSet(ex.Kind, i); err != nil {
								return err
							}
						}
					}
				}
				if !skipAccessories {
					for _, acc := range plan.Accessories {
						for i, done := range acc.Completed {
							if !done {
								if _, err := tr.ToggleAccessory(acc.ID, i); err != nil {
									return err
								}
							}
						}
					}
				}

				entry, err := tr.FinishSession(cmd.Context())
				if err != nil {
					return fmt.Errorf("finishing session: %w", err)
				}
				fmt.Fprintf(out, "%s Logged workout %s (%s)\n", green("✓"), bold(entry.WorkoutType), entry.ID)
				printEntry(out, entry)
				fmt.Fprintf(out, "\nNext: workout %s\n", bold(tr.Plan().WorkoutType))
				return nil
			})
		},
	}
	cmd.Flags().StringSlice("failed", nil, "lifts that missed reps (name or slug, repeatable)")
	cmd.Flags().Bool("skip-accessories", false, "do not record accessory work")
	return cmd
}

func (a *app) historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List logged workouts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dateStr, _ := cmd.Flags().GetString("date")
			limit, _ := cmd.Flags().GetInt("limit")

			return a.with(cmd, func(tr *tracker.Tracker, out io.Writer) error {
				if dateStr != "" {
					date, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
					if err != nil {
						return fmt.Errorf("invalid --date %q, use YYYY-MM-DD", dateStr)
					}
					entry, ok := tr.EntryFor(date)
					if !ok {
						fmt.Fprintf(out, "No workout on %s\n", dateStr)
						return nil
					}
					printEntry(out, entry)
					return nil
				}

				entries := tr.Entries()
				if len(entries) == 0 {
					fmt.Fprintln(out, "No workouts logged")
					return nil
				}
				if limit > 0 && len(entries) > limit {
					entries = entries[:limit]
				}
				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "DATE\tTYPE\tID\tLIFTS")
				for _, e := range entries {
					var lifts []string
					for _, r := range e.Exercises {
						lifts = append(lifts, resultMark(r))
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
						e.Date.In(time.Local).Format("2006-01-02"), e.WorkoutType, e.ID, strings.Join(lifts, "  "))
				}
				return w.Flush()
			})
		},
	}
	cmd.Flags().String("date", "", "show the workout on this day (YYYY-MM-DD)")
	cmd.Flags().Int("limit", 0, "show at most this many workouts")
	return cmd
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a logged workout and rebuild weights from the rest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.with(cmd, func(tr *tracker.Tracker, out io.Writer) error {
				removed, err := tr.DeleteLog(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("deleting workout: %w", err)
				}
				if !removed {
					return fmt.Errorf("workout %s not found", args[0])
				}
				fmt.Fprintf(out, "%s Deleted workout %s\n", green("✓"), args[0])
				printWeights(out, tr.State())
				return nil
			})
		},
	}
}

func (a *app) recordsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "records",
		Short: "Show personal records and estimated one-rep maxes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.with(cmd, func(tr *tracker.Tracker, out io.Writer) error {
				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "LIFT\tRECORD\tEST. 1RM\tDATE")
				for _, k := range models.AllKinds() {
					rec, ok := tr.PersonalRecord(k)
					if !ok {
						fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", k, faint("-"), faint("-"), faint("-"))
						continue
					}
					fmt.Fprintf(w, "%s\t%s kg\t%.1f kg\t%s\n",
						k, formatKg(rec.Weight), rec.EstimatedOneRepMax, rec.Date.In(time.Local).Format("2006-01-02"))
				}
				return w.Flush()
			})
		},
	}
}

func (a *app) setWeightCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-weight [lift] [weight]",
		Short: "Override a working weight (not recorded in the log)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := models.ParseExerciseKind(args[0])
			if err != nil {
				return err
			}
			return a.with(cmd, func(tr *tracker.Tracker, out io.Writer) error {
				lift, err := tr.EditWeight(cmd.Context(), kind, args[1])
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s %s working weight set to %s kg\n", green("✓"), kind, formatKg(lift.Weight))
				fmt.Fprintln(out, yellow("  Deleting a workout or running recompute discards this override."))
				return nil
			})
		},
	}
}

func (a *app) recomputeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recompute",
		Short: "Rebuild working weights by replaying the whole log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.with(cmd, func(tr *tracker.Tracker, out io.Writer) error {
				st, err := tr.Recompute(cmd.Context())
				if err != nil {
					return fmt.Errorf("recomputing: %w", err)
				}
				fmt.Fprintf(out, "%s Replayed %d workouts\n", green("✓"), len(tr.Entries()))
				printWeights(out, st)
				return nil
			})
		},
	}
}

func warmupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "warmup [weight]",
		Short: "Show warm-up sets for a working weight",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			weight, err := tracker.ParseWeight(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, s := range warmup.Sets(weight) {
				fmt.Fprintf(out, "%7s kg × %s\n", formatKg(s.Weight), s.Reps)
			}
			return nil
		},
	}
}

func platesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plates [weight]",
		Short: "Show plates per side for a bar weight",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			weight, err := tracker.ParseWeight(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			loads := plates.PerSide(weight)
			if len(loads) == 0 {
				fmt.Fprintln(out, "Empty bar")
				return nil
			}
			fmt.Fprintf(out, "Per side: %s\n", formatPlates(loads))
			if total := plates.Total(loads); total != weight {
				fmt.Fprintf(out, "%s loads %s kg, closest below %s kg\n", yellow("!"), formatKg(total), formatKg(weight))
			}
			return nil
		},
	}
}

func printPlan(out io.Writer, plan models.TodaysPlan) {
	fmt.Fprintf(out, "Workout %s\n\n", bold(plan.WorkoutType))
	for _, ex := range plan.Exercises {
		fmt.Fprintf(out, "%s  %s kg  %d×%d  %s\n",
			bold(ex.Kind), formatKg(ex.Weight), len(ex.Completed), ex.Reps, setMarks(ex.Completed))
		var ramp []string
		for _, s := range ex.Warmup {
			ramp = append(ramp, formatKg(s.Weight)+"×"+s.Reps)
		}
		fmt.Fprintf(out, "  warm-up: %s\n", faint(strings.Join(ramp, ", ")))
		if len(ex.Plates) > 0 {
			fmt.Fprintf(out, "  plates:  %s\n", faint(formatPlates(ex.Plates)))
		}
	}
	if len(plan.Accessories) > 0 {
		fmt.Fprintln(out)
		for _, acc := range plan.Accessories {
			fmt.Fprintf(out, "%s  %s\n", acc.Label, setMarks(acc.Completed))
		}
	}
}

func printEntry(out io.Writer, e models.WorkoutLogEntry) {
	fmt.Fprintf(out, "%s  Workout %s  %s\n", e.Date.In(time.Local).Format("2006-01-02 15:04"), e.WorkoutType, faint(e.ID))
	for _, r := range e.Exercises {
		fmt.Fprintf(out, "  %s\n", resultMark(r))
	}
	for _, acc := range e.AccessoryWork {
		fmt.Fprintf(out, "  %s %s\n", green("✓"), acc.Label)
	}
}

func printWeights(out io.Writer, st progression.WorkingState) {
	for _, k := range models.AllKinds() {
		lift := st.Lifts[k]
		line := fmt.Sprintf("  %-15s %6s kg", k, formatKg(lift.Weight))
		if lift.Failures > 0 {
			line += " " + yellow(fmt.Sprintf("(%d failed)", lift.Failures))
		}
		fmt.Fprintln(out, line)
	}
	fmt.Fprintf(out, "  next workout: %s\n", bold(st.LastWorkoutType.Next()))
}

func resultMark(r models.ExerciseResult) string {
	mark := green("✓")
	if !r.Success {
		mark = red("✗")
	}
	return fmt.Sprintf("%s %s %s", mark, r.Kind, formatKg(r.Weight))
}

func setMarks(flags []bool) string {
	var b strings.Builder
	for _, done := range flags {
		if done {
			b.WriteString(green("●"))
		} else {
			b.WriteString(faint("○"))
		}
	}
	return b.String()
}

func formatPlates(loads []models.PlateLoad) string {
	parts := make([]string, 0, len(loads))
	for _, l := range loads {
		parts = append(parts, fmt.Sprintf("%d×%s", l.Count, formatKg(l.Plate)))
	}
	return strings.Join(parts, " + ")
}

func formatKg(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}

func (a *app) exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the workout log to stdout",
		Long: `Writes the whole log, newest first. The json format is the same document
the server persists; csv has one row per recorded lift.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			if format != "csv" && format != "json" {
				return fmt.Errorf("invalid --format %q, use csv or json", format)
			}
			return a.with(cmd, func(tr *tracker.Tracker, out io.Writer) error {
				entries := tr.Entries()
				if format == "csv" {
					return history.WriteCSV(out, entries)
				}
				data, err := history.Encode(entries)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(data))
				return err
			})
		},
	}
	cmd.Flags().String("format", "csv", "output format: csv or json")
	return cmd
}
