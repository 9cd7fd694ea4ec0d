package main

import (
	"fmt"
	"strings"

	"github.com/cmlabs-hris/wfo-tracker/internal/domain/attendance"
	"github.com/cmlabs-hris/wfo-tracker/internal/domain/location"
	"github.com/cmlabs-hris/wfo-tracker/internal/domain/statistics"
	"github.com/cmlabs-hris/wfo-tracker/internal/pkg/clock"
	"github.com/cmlabs-hris/wfo-tracker/internal/pkg/workday"
	locationService "github.com/cmlabs-hris/wfo-tracker/internal/service/location"
	statisticsService "github.com/cmlabs-hris/wfo-tracker/internal/service/statistics"
	"github.com/spf13/cobra"
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Decide today's work mode from a position",
	Long: `Compare a position with the office and record WFO or WFH for today.
Without --lat/--lon there is no fix and nothing is written.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		ignoreWindow, _ := cmd.Flags().GetBool("ignore-window")

		var source location.Source
		if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon") {
			lat, _ := cmd.Flags().GetFloat64("lat")
			lon, _ := cmd.Flags().GetFloat64("lon")
			req := location.ReportPositionRequest{Latitude: lat, Longitude: lon}
			if err := req.Validate(); err != nil {
				return err
			}
			pos := req.ToPosition(clock.System().Now())
			source = locationService.NewStaticSource(&pos)
		}

		result, err := newAttendanceService(source).DetectAndRecord(cmd.Context(), attendance.DetectRequest{
			Force:        force,
			IgnoreWindow: ignoreWindow,
		})
		if err != nil {
			return err
		}

		printDetection(result)
		return nil
	},
}

var markCmd = &cobra.Command{
	Use:   "mark <date> <wfo|wfh|leave>",
	Short: "Record a day manually",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := attendance.MarkAttendanceRequest{Date: args[0], WorkMode: args[1]}
		if cmd.Flags().Changed("note") {
			note, _ := cmd.Flags().GetString("note")
			req.Note = &note
		}
		if cmd.Flags().Changed("location") {
			loc, _ := cmd.Flags().GetString("location")
			req.Location = &loc
		}

		record, err := newAttendanceService(nil).MarkManual(cmd.Context(), req)
		if err != nil {
			return err
		}

		fmt.Printf("Recorded %s as %s\n", record.Date, record.WorkMode)
		return nil
	},
}

var toggleCmd = &cobra.Command{
	Use:   "toggle [date]",
	Short: "Flip a day between WFO and WFH",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := newAttendanceService(nil)
		date := workday.Key(svc.Today())
		if len(args) > 0 {
			date = args[0]
		}

		record, err := svc.Toggle(cmd.Context(), date)
		if err != nil {
			return err
		}

		fmt.Printf("%s is now %s\n", record.Date, record.WorkMode)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:     "delete <date>",
	Aliases: []string{"rm"},
	Short:   "Remove the record for a day",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newAttendanceService(nil).DeleteAttendance(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted %s\n", args[0])
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show [date]",
	Short: "Show the record for a day (default today)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := newAttendanceService(nil)
		date := workday.Key(svc.Today())
		if len(args) > 0 {
			date = args[0]
		}

		record, err := svc.GetAttendance(cmd.Context(), date)
		if err != nil {
			return err
		}

		printRecord(record)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List records in a date range (default this month)",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")

		result, err := newAttendanceService(nil).ListAttendance(cmd.Context(), attendance.AttendanceFilter{
			StartDate: &from,
			EndDate:   &to,
		})
		if err != nil {
			return err
		}

		fmt.Printf("%s to %s: %d record(s)\n", result.StartDate, result.EndDate, result.TotalCount)
		for _, record := range result.Attendances {
			printRecord(record)
		}
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats [YYYY-MM]",
	Short: "Show WFO statistics for a month (default this month)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		month := ""
		if len(args) > 0 {
			month = args[0]
		}

		result, err := statisticsSvc.Monthly(cmd.Context(), month)
		if err != nil {
			return err
		}

		printStatistics(result)
		return nil
	},
}

var trailingCmd = &cobra.Command{
	Use:   "trailing",
	Short: "Show WFO statistics for recent months",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		months, _ := cmd.Flags().GetInt("months")

		result, err := statisticsSvc.Trailing(cmd.Context(), months)
		if err != nil {
			return err
		}

		fmt.Printf("%-8s %4s %4s %5s %8s %6s\n", "MONTH", "WFO", "WFH", "LEAVE", "REQUIRED", "RATE")
		for _, m := range result.Months {
			fmt.Printf("%-8s %4d %4d %5d %8d %5.0f%%\n", m.Month, m.WFODays, m.WFHDays, m.LeaveDays, m.RequiredDays, m.CurrentRate*100)
		}
		return nil
	},
}

func init() {
	detectCmd.Flags().Float64("lat", 0, "Latitude of the current position")
	detectCmd.Flags().Float64("lon", 0, "Longitude of the current position")
	detectCmd.Flags().Bool("force", false, "Let a WFH verdict replace an existing WFH record")
	detectCmd.Flags().Bool("ignore-window", false, "Run outside workdays and work hours")

	markCmd.Flags().String("note", "", "Free-form note")
	markCmd.Flags().String("location", "", "Location label")

	listCmd.Flags().String("from", "", "Start date (YYYY-MM-DD)")
	listCmd.Flags().String("to", "", "End date (YYYY-MM-DD)")

	trailingCmd.Flags().IntP("months", "n", statisticsService.DefaultTrailingMonths, "Number of months including the current one")
}

func printDetection(result attendance.DetectionResult) {
	date := workday.Key(result.Date)
	distance := ""
	if result.DistanceMeters != nil {
		distance = fmt.Sprintf(" (%.0fm from office)", *result.DistanceMeters)
	}

	switch {
	case result.Written:
		fmt.Printf("%s recorded as %s%s\n", date, result.WorkMode, distance)
	case result.Skipped():
		fmt.Printf("%s skipped: %s%s\n", date, strings.ReplaceAll(string(result.Reason), "_", " "), distance)
	default:
		fmt.Printf("%s unchanged: %s%s\n", date, result.WorkMode, distance)
	}
}

func printRecord(r attendance.AttendanceResponse) {
	line := fmt.Sprintf("%s  %-5s %-6s", r.Date, r.WorkMode, r.RecordType)
	if r.Location != nil {
		line += "  @ " + *r.Location
	}
	if r.Note != nil {
		line += "  " + *r.Note
	}
	fmt.Println(line)
}

func printStatistics(s statistics.MonthlyStatisticsResponse) {
	fmt.Printf("Month:              %s\n", s.Month)
	fmt.Printf("Workdays:           %d (%d after leave)\n", s.TotalWorkdays, s.EffectiveWorkdays)
	fmt.Printf("WFO / WFH / LEAVE:  %d / %d / %d\n", s.WFODays, s.WFHDays, s.LeaveDays)
	fmt.Printf("Required WFO days:  %d (%.0f%%)\n", s.RequiredDays, s.RequiredRate*100)
	fmt.Printf("Still needed:       %d\n", s.RemainingDays)
	fmt.Printf("Workdays left:      %d\n", s.RemainingWorkdays)
	fmt.Printf("Current rate:       %.1f%%\n", s.CurrentRate*100)
	if s.OnTrack {
		fmt.Println("Status:             on track")
	} else {
		fmt.Println("Status:             behind")
	}
}
