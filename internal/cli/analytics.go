package cli

import (
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"qrMenu/internal/modules/analytics/domain"
	"qrMenu/internal/shared/format"
)

type dashboardView struct {
	domain.Analytics
	PeakHour     *domain.TimeSlot `json:"peakHour,omitempty"`
	TotalDevices int              `json:"totalDevices"`
}

func newAnalyticsCommand(rt *runtime) *cobra.Command {
	var (
		restaurant string
		days       int
		start      string
		end        string
	)
	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Read scan analytics",
	}
	cmd.PersistentFlags().StringVar(&restaurant, "restaurant", "", "restaurant id (defaults to the current one)")
	cmd.PersistentFlags().IntVar(&days, "days", 0, "limit reports to the last n days")
	cmd.PersistentFlags().StringVar(&start, "start", "", "first day, YYYY-MM-DD")
	cmd.PersistentFlags().StringVar(&end, "end", "", "last day, YYYY-MM-DD")

	window := func() domain.DateRange {
		if start != "" || end != "" {
			return domain.DateRange{Start: start, End: end}
		}
		if days > 0 {
			return domain.LastDays(time.Now(), days)
		}
		return domain.DateRange{}
	}

	var (
		limit int
		asCSV bool
	)
	items := &cobra.Command{
		Use:   "items",
		Short: "Most viewed items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := rt.restaurantID(restaurant)
			if err != nil {
				return err
			}
			popular, err := rt.app.Analytics.PopularItems(cmd.Context(), id, limit)
			if err != nil {
				return err
			}
			if asCSV {
				_, err = io.WriteString(rt.opts.Out, popularCSV(popular)+"\n")
				return err
			}
			return rt.print(popular)
		},
	}
	items.Flags().IntVar(&limit, "limit", 10, "number of items")
	items.Flags().BoolVar(&asCSV, "csv", false, "print CSV with each item's share of the listed views")

	var exportFormat, output string
	export := &cobra.Command{
		Use:   "export",
		Short: "Download a report file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := rt.restaurantID(restaurant)
			if err != nil {
				return err
			}
			parsed, err := domain.ParseExportFormat(exportFormat)
			if err != nil {
				return err
			}
			file, err := rt.app.Analytics.Export(cmd.Context(), id, parsed)
			if err != nil {
				return err
			}
			return writeOutput(rt.opts.Out, output, file.Data)
		},
	}
	export.Flags().StringVar(&exportFormat, "format", "csv", "csv or pdf")
	export.Flags().StringVarP(&output, "output", "o", "", "file to write (stdout when empty)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "dashboard",
			Short: "Aggregated metrics",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := rt.restaurantID(restaurant)
				if err != nil {
					return err
				}
				data, err := rt.app.Analytics.Dashboard(cmd.Context(), id, window())
				if err != nil {
					return err
				}
				view := dashboardView{Analytics: data, TotalDevices: data.Metrics.DeviceTypes.Total()}
				if peak, ok := data.Metrics.PeakHour(); ok {
					view.PeakHour = &peak
				}
				return rt.print(view)
			},
		},
		&cobra.Command{
			Use:   "scans",
			Short: "Scan counts",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := rt.restaurantID(restaurant)
				if err != nil {
					return err
				}
				metrics, err := rt.app.Analytics.Scans(cmd.Context(), id, window())
				if err != nil {
					return err
				}
				return rt.print(metrics)
			},
		},
		items,
		&cobra.Command{
			Use:   "time",
			Short: "Scans per hour of the day",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := rt.restaurantID(restaurant)
				if err != nil {
					return err
				}
				slots, err := rt.app.Analytics.TimeDistribution(cmd.Context(), id, window())
				if err != nil {
					return err
				}
				return rt.print(slots)
			},
		},
		export,
	)
	return cmd
}

func popularCSV(items []domain.PopularItem) string {
	total := 0
	for _, item := range items {
		total += item.Views
	}
	rows := make([]map[string]string, 0, len(items))
	for _, item := range items {
		share := 0.0
		if total > 0 {
			share = float64(item.Views) / float64(total) * 100
		}
		rows = append(rows, map[string]string{
			"itemId":   item.ItemID,
			"itemName": item.ItemName,
			"views":    strconv.Itoa(item.Views),
			"share":    format.FormatPercentage(share, 1),
		})
	}
	return format.CreateCSV(rows, []string{"itemId", "itemName", "views", "share"})
}
