package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"loftcal/internal/app/dto"
	availabilityapp "loftcal/internal/app/handlers/availability"
	"loftcal/internal/app/uow"
	domain "loftcal/internal/domain/availability"
	"loftcal/internal/domain/shared/daterange"
	"loftcal/internal/infra/fixtures"
	"loftcal/internal/infra/i18n"
	"loftcal/internal/infra/storage/memory"
)

func calendarCmd() *cobra.Command {
	var (
		path   string
		from   string
		to     string
		locale string
		today  string
		lofts  []string
	)

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Render the availability board of a fixtures file",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			factory := memory.NewFactory()
			snap, found, err := fixtures.ReadFile(path)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("fixtures file %s not found", path)
			}
			logger := cliLogger(cmd.ErrOrStderr())
			unit, err := factory.Begin(ctx, uow.TxOptions{})
			if err != nil {
				return err
			}
			if _, err := snap.Apply(ctx, unit, logger); err != nil {
				return err
			}

			now := time.Now
			if today != "" {
				day, err := daterange.ParseDay(today)
				if err != nil {
					return fmt.Errorf("--today: %w", err)
				}
				now = func() time.Time { return day }
			}
			if from == "" {
				from = daterange.Key(now())
			}
			if to == "" {
				start, err := daterange.ParseDay(from)
				if err != nil {
					return fmt.Errorf("--from: %w", err)
				}
				to = daterange.Key(start.AddDate(0, 0, 13))
			}

			renderer := &availabilityapp.Renderer{
				UoWFactory:    factory,
				Translate:     i18n.MustNew().Translate,
				DefaultLocale: domain.DefaultLocale,
				Logger:        logger,
				Now:           now,
			}
			handler := &availabilityapp.GetAvailabilityHandler{Renderer: renderer}
			board, err := handler.Handle(ctx, availabilityapp.GetAvailabilityQuery{
				PropertyIDs: lofts,
				From:        from,
				To:          to,
				Locale:      locale,
			})
			if err != nil {
				return err
			}
			if outputJSON {
				return writeJSON(board)
			}
			if len(snap.Lofts) == 0 || len(board.Lofts) == 0 {
				fmt.Println("No lofts.")
				return nil
			}
			return writeBoard(os.Stdout, board)
		},
	}

	cmd.Flags().StringVar(&path, "fixtures", "data/fixtures.json", "Fixtures file with lofts, reservations and overrides")
	cmd.Flags().StringVar(&from, "from", "", "First day (YYYY-MM-DD), defaults to today")
	cmd.Flags().StringVar(&to, "to", "", "Last day (YYYY-MM-DD), defaults to two weeks after --from")
	cmd.Flags().StringVar(&locale, "locale", "", "Label locale (fr, en, ar)")
	cmd.Flags().StringVar(&today, "today", "", "Override the current date (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&lofts, "loft", nil, "Only render these loft ids")
	return cmd
}

func writeBoard(w io.Writer, board dto.AvailabilityBoard) error {
	tw := tabwriter.NewWriter(w, 2, 2, 2, ' ', 0)
	fmt.Fprintf(tw, "%s .. %s (today %s, %s)\n", board.From, board.To, board.Today, board.Locale)
	for _, loft := range board.Lofts {
		name := loft.Name
		if name == "" {
			name = loft.ID
		}
		occupied := ""
		if loft.IsOccupiedToday {
			occupied = " [occupied today]"
		}
		fmt.Fprintf(tw, "\n%s%s\n", name, occupied)
		for _, day := range loft.Days {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", day.Date, day.Status, day.Title)
		}
	}
	if board.Skipped > 0 || board.Duplicates > 0 {
		fmt.Fprintf(tw, "\nskipped rows: %d, duplicate overrides: %d\n", board.Skipped, board.Duplicates)
	}
	parts := make([]string, 0, len(board.Summary))
	for _, status := range []string{"available", "occupied", "maintenance", "renovation", "personal", "blocked", "other"} {
		if n := board.Summary[status]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", status, n))
		}
	}
	fmt.Fprintf(tw, "\n%s\n", strings.Join(parts, " "))
	return tw.Flush()
}
