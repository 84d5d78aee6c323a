package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"assignmenttracker/internal/calendar"
	"assignmenttracker/internal/dates"
	"assignmenttracker/internal/filter"
	"assignmenttracker/internal/models"
)

const shortIDLen = 8

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

func (a *app) formatDay(t time.Time) string {
	return t.In(a.cfg.Location()).Format("Mon 2 Jan 2006")
}

func (a *app) status(item models.Assignment) string {
	if item.Completed {
		return "done"
	}
	st := filter.Classify(item, a.opts.Now())
	switch {
	case st.Overdue:
		return "OVERDUE"
	case st.DueSoon:
		return "due soon"
	case st.Started:
		return "started"
	}
	return ""
}

func (a *app) printTable(w io.Writer, list []models.Assignment) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tSUBJECT\tDUE\tPRIORITY\tSTATUS")
	for _, item := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			shortID(item.ID), item.Title, item.Subject, a.formatDay(item.DueDate), item.Priority, a.status(item))
	}
	tw.Flush()
}

func (a *app) printDetail(w io.Writer, item models.Assignment) {
	fmt.Fprintf(w, "%s\n", item.Title)
	fmt.Fprintf(w, "  ID:        %s\n", item.ID)
	fmt.Fprintf(w, "  Subject:   %s\n", item.Subject)
	fmt.Fprintf(w, "  Priority:  %s\n", item.Priority)
	fmt.Fprintf(w, "  Due:       %s\n", a.formatDay(item.DueDate))
	if item.StartDate != nil {
		fmt.Fprintf(w, "  Start:     %s\n", a.formatDay(*item.StartDate))
	}
	if s := a.status(item); s != "" {
		fmt.Fprintf(w, "  Status:    %s\n", s)
	}
	if item.Description != "" {
		fmt.Fprintf(w, "  Notes:     %s\n", item.Description)
	}

	if len(item.WorkDateRanges) == 0 {
		fmt.Fprintln(w, "  No work periods planned.")
		return
	}
	fmt.Fprintln(w, "  Work periods:")
	for _, r := range item.WorkDateRanges {
		fmt.Fprintf(w, "    %s  %s to %s (%d days)\n",
			shortID(r.ID), a.formatDay(r.StartDate), a.formatDay(r.EndDate), dates.DaysInRange(r.StartDate, r.EndDate))
	}
}

// printMonth draws the month of ref. A day is marked ! when something is due,
// + when work is planned and ^ when an assignment starts.
func (a *app) printMonth(w io.Writer, ref time.Time, list []models.Assignment) {
	loc := a.cfg.Location()
	weeks := calendar.MonthGrid(ref.Year(), ref.Month(), a.cfg.WeekStartDay(), loc)
	today := a.today()

	fmt.Fprintf(w, "%s %d\n", ref.Month(), ref.Year())
	var header []string
	for i := 0; i < 7; i++ {
		header = append(header, fmt.Sprintf("%-7s", time.Weekday((int(a.cfg.WeekStartDay())+i)%7).String()[:2]))
	}
	fmt.Fprintln(w, strings.TrimRight(strings.Join(header, ""), " "))

	var due []models.Assignment
	for _, week := range weeks {
		var cells []string
		for _, d := range week {
			if d.Month() != ref.Month() {
				cells = append(cells, "       ")
				continue
			}
			tile := calendar.Tile(list, d)
			marks := ""
			if len(tile.Due) > 0 {
				marks += "!"
				due = append(due, tile.Due...)
			}
			if len(tile.Working) > 0 {
				marks += "+"
			}
			if len(tile.Starting) > 0 {
				marks += "^"
			}
			day := fmt.Sprintf("%2d", d.Day())
			if dates.IsSameDay(d, today) {
				day = fmt.Sprintf("[%d]", d.Day())
			}
			cells = append(cells, fmt.Sprintf("%-7s", day+marks))
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, ""), " "))
	}

	if len(due) > 0 {
		fmt.Fprintln(w)
		for _, item := range due {
			fmt.Fprintf(w, "  %s  %s (%s)\n", item.DueDate.In(loc).Format("Jan 2"), item.Title, item.Subject)
		}
	}
}
