package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/yigit/scholarpath/internal/app/matching"
	appServices "github.com/yigit/scholarpath/internal/app/services"
)

var (
	rankStudentID int64
	rankLimit     int
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Print the scholarship ranking for a student",
	RunE: func(cmd *cobra.Command, args []string) error {
		if rankStudentID <= 0 {
			return errors.New("--student must be a positive user ID")
		}
		if rankLimit <= 0 {
			return errors.New("--limit must be positive")
		}

		svc := appServices.NewScholarshipService(
			current.repos.ScholarshipRepository,
			current.repos.StudentProfileRepository,
			current.logger,
		)
		ranked, err := svc.RankForStudent(cmd.Context(), rankStudentID)
		if err != nil {
			return fmt.Errorf("rank student %d: %w", rankStudentID, err)
		}

		renderRanking(os.Stdout, ranked, rankLimit)
		return nil
	},
}

func init() {
	rankCmd.Flags().Int64Var(&rankStudentID, "student", 0, "student user ID")
	rankCmd.Flags().IntVar(&rankLimit, "limit", 10, "number of scholarships to show")
	_ = rankCmd.MarkFlagRequired("student")
}

func renderRanking(w io.Writer, ranked []matching.Ranked, limit int) {
	if len(ranked) == 0 {
		fmt.Fprintln(w, "No scholarships found.")
		return
	}
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "ID", "Title", "Country", "Deadline", "Score"})
	for i, r := range ranked {
		table.Append([]string{
			strconv.Itoa(i + 1),
			strconv.FormatInt(r.Scholarship.ID, 10),
			r.Scholarship.Title,
			r.Scholarship.Country,
			r.Scholarship.Deadline.Format("2006-01-02"),
			strconv.Itoa(r.MatchScore),
		})
	}
	table.Render()
}
