package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"assignmenttracker/internal/calendar"
	"assignmenttracker/internal/dates"
	"assignmenttracker/internal/filter"
	"assignmenttracker/internal/models"
	"assignmenttracker/internal/validation"
)

func (a *app) listCommand() *cobra.Command {
	var (
		hideCompleted bool
		showCompleted bool
		priority      string
		subject       string
		sortBy        string
		desc          bool
		asc           bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List assignments using the configured filters",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := a.cfg.FilterOptions()
			flags := cmd.Flags()
			if flags.Changed("hide-completed") {
				opts.ShowCompleted = !hideCompleted
			}
			if flags.Changed("show-completed") {
				opts.ShowCompleted = showCompleted
			}
			if flags.Changed("priority") {
				opts.Priority = strings.ToLower(priority)
			}
			if flags.Changed("subject") {
				opts.Subject = subject
			}
			if flags.Changed("sort") {
				switch filter.SortField(sortBy) {
				case filter.SortByDueDate, filter.SortByPriority, filter.SortByCreatedAt:
					opts.SortBy = filter.SortField(sortBy)
				default:
					return fmt.Errorf("unknown sort field %q (dueDate, priority, createdAt)", sortBy)
				}
			}
			if desc {
				opts.Direction = filter.Descending
			}
			if asc {
				opts.Direction = filter.Ascending
			}

			if err := a.load(cmd.Context()); err != nil {
				return err
			}
			list := a.store.Project(opts)
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No assignments found.")
				return nil
			}
			a.printTable(cmd.OutOrStdout(), list)
			return nil
		},
	}

	f := cmd.Flags()
	f.BoolVar(&hideCompleted, "hide-completed", false, "Hide completed assignments")
	f.BoolVar(&showCompleted, "show-completed", true, "Show completed assignments")
	f.StringVar(&priority, "priority", "", "Only this priority: all, low, medium, high")
	f.StringVar(&subject, "subject", "", "Only subjects containing this text")
	f.StringVar(&sortBy, "sort", "", "Sort by dueDate, priority or createdAt")
	f.BoolVar(&desc, "desc", false, "Sort descending")
	f.BoolVar(&asc, "asc", false, "Sort ascending")
	cmd.MarkFlagsMutuallyExclusive("desc", "asc")
	cmd.MarkFlagsMutuallyExclusive("hide-completed", "show-completed")
	return cmd
}

func (a *app) addCommand() *cobra.Command {
	var form validation.Form

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an assignment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := validation.ValidateForm(form, a.today())
			if err != nil {
				var verr *validation.ValidationError
				if errors.As(err, &verr) {
					for _, fe := range verr.Fields {
						fmt.Fprintf(cmd.OutOrStdout(), "  %s: %s\n", fe.Field, fe.Message)
					}
					return errors.New("assignment not saved")
				}
				return err
			}

			created, err := a.store.Add(cmd.Context(), input)
			if err != nil {
				return a.storeErr(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s  %s (%s), due %s\n",
				shortID(created.ID), created.Title, created.Subject, a.formatDay(created.DueDate))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&form.Title, "title", "t", "", "Title (required)")
	f.StringVarP(&form.Subject, "subject", "s", "", "Subject (required)")
	f.StringVarP(&form.DueDate, "due", "d", "", "Due date YYYY-MM-DD (required)")
	f.StringVar(&form.StartDate, "start", "", "Start date YYYY-MM-DD, before the due date")
	f.StringVarP(&form.Priority, "priority", "p", "medium", "low, medium or high")
	f.StringVar(&form.Description, "description", "", "Optional notes")
	return cmd
}

func (a *app) showCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show an assignment and its work periods",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(cmd.Context()); err != nil {
				return err
			}
			item, err := a.resolve(args[0])
			if err != nil {
				return err
			}
			a.printDetail(cmd.OutOrStdout(), item)
			return nil
		},
	}
}

func (a *app) editCommand() *cobra.Command {
	var (
		title, subject, description, priority string
		due, start                            string
		clearStart                            bool
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of an assignment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			var patch models.AssignmentPatch

			if flags.Changed("title") {
				t := strings.TrimSpace(title)
				if t == "" {
					return errors.New("title cannot be empty")
				}
				patch.Title = &t
			}
			if flags.Changed("subject") {
				s := strings.TrimSpace(subject)
				if s == "" {
					return errors.New("subject cannot be empty")
				}
				patch.Subject = &s
			}
			if flags.Changed("description") {
				d := strings.TrimSpace(description)
				patch.Description = &d
			}
			if flags.Changed("priority") {
				p := models.Priority(strings.ToLower(priority))
				if !p.Valid() {
					return errors.New("priority must be low, medium or high")
				}
				patch.Priority = &p
			}
			if flags.Changed("due") {
				d, err := a.parseDay(due)
				if err != nil {
					return err
				}
				patch.DueDate = &d
			}
			if flags.Changed("start") {
				s, err := a.parseDay(start)
				if err != nil {
					return err
				}
				patch.StartDate = &s
			}
			patch.ClearStartDate = clearStart
			if patch.IsEmpty() {
				return errors.New("nothing to change, pass at least one field flag")
			}

			if err := a.load(cmd.Context()); err != nil {
				return err
			}
			item, err := a.resolve(args[0])
			if err != nil {
				return err
			}
			updated, err := a.store.Update(cmd.Context(), item.ID, patch)
			if err != nil {
				return a.storeErr(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s  %s\n", shortID(updated.ID), updated.Title)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&title, "title", "", "New title")
	f.StringVar(&subject, "subject", "", "New subject")
	f.StringVar(&description, "description", "", "New description")
	f.StringVar(&priority, "priority", "", "New priority")
	f.StringVar(&due, "due", "", "New due date YYYY-MM-DD")
	f.StringVar(&start, "start", "", "New start date YYYY-MM-DD")
	f.BoolVar(&clearStart, "clear-start", false, "Remove the start date")
	cmd.MarkFlagsMutuallyExclusive("start", "clear-start")
	return cmd
}

func (a *app) doneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle whether an assignment is completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(cmd.Context()); err != nil {
				return err
			}
			item, err := a.resolve(args[0])
			if err != nil {
				return err
			}
			if err := a.store.ToggleCompletion(cmd.Context(), item.ID); err != nil {
				return a.storeErr(err)
			}
			now, _ := a.store.Get(item.ID)
			state := "open"
			if now.Completed {
				state = "completed"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", now.Title, state)
			return nil
		},
	}
}

func (a *app) removeCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete an assignment and its work periods",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(cmd.Context()); err != nil {
				return err
			}
			item, err := a.resolve(args[0])
			if err != nil {
				return err
			}
			if err := a.store.Remove(cmd.Context(), item.ID); err != nil {
				return a.storeErr(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", item.Title)
			return nil
		},
	}
}

func (a *app) planCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "plan <id> <from> <to>",
		Short: "Plan a work period, as if dragging across the calendar from one day to another",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := a.parseDay(args[1])
			if err != nil {
				return err
			}
			to, err := a.parseDay(args[2])
			if err != nil {
				return err
			}
			if err := a.load(cmd.Context()); err != nil {
				return err
			}
			item, err := a.resolve(args[0])
			if err != nil {
				return err
			}

			m := calendar.NewMachine(a.store)
			m.Select(item.ID)
			m.PointerDown(from)
			m.PointerEnter(to)
			if !m.PointerUp(cmd.Context()) {
				return errors.New("a work period must span at least two days")
			}
			m.Wait()
			if msg := a.store.Err(); msg != "" {
				return errors.New(msg)
			}

			start, end := dates.NormalizeRange(from, to)
			fmt.Fprintf(cmd.OutOrStdout(), "Planned %s: %s to %s (%d days)\n",
				item.Title, a.formatDay(start), a.formatDay(end), dates.DaysInRange(start, end))
			return nil
		},
	}
}

func (a *app) unplanCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unplan <id> <range-id>",
		Short: "Remove a work period from an assignment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(cmd.Context()); err != nil {
				return err
			}
			item, err := a.resolve(args[0])
			if err != nil {
				return err
			}

			rangeID := ""
			for _, r := range item.WorkDateRanges {
				if strings.HasPrefix(r.ID, args[1]) {
					if rangeID != "" {
						return fmt.Errorf("%q matches more than one work period", args[1])
					}
					rangeID = r.ID
				}
			}
			if rangeID == "" {
				return fmt.Errorf("%s has no work period %q", item.Title, args[1])
			}

			if err := a.store.RemoveWorkRange(cmd.Context(), item.ID, rangeID); err != nil {
				return a.storeErr(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed work period %s from %s\n", shortID(rangeID), item.Title)
			return nil
		},
	}
}

func (a *app) calendarCommand() *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show a month with due dates and planned work",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := a.today()
			if month != "" {
				m, err := a.parseDay(month + "-01")
				if err != nil {
					return fmt.Errorf("invalid month %q, expected YYYY-MM", month)
				}
				ref = m
			}
			if err := a.load(cmd.Context()); err != nil {
				return err
			}
			a.printMonth(cmd.OutOrStdout(), ref, a.store.All())
			return nil
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "Month to show as YYYY-MM (default: this month)")
	return cmd
}

func (a *app) agendaCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "agenda",
		Short: "Show overdue work and what is due this week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(cmd.Context()); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			now := a.opts.Now()
			all := a.store.All()

			overdue := filter.Overdue(all, now)
			fmt.Fprintf(out, "Overdue (%d)\n", len(overdue))
			for _, item := range overdue {
				fmt.Fprintf(out, "  %s  %s (%s), was due %s\n", shortID(item.ID), item.Title, item.Subject, a.formatDay(item.DueDate))
			}

			upcoming := filter.Upcoming(all, now, limit)
			fmt.Fprintf(out, "Due this week (%d)\n", len(upcoming))
			for _, item := range upcoming {
				fmt.Fprintf(out, "  %s  %s (%s), due %s\n", shortID(item.ID), item.Title, item.Subject, a.formatDay(item.DueDate))
			}

			working := calendar.WorkingOn(all, a.today())
			if len(working) > 0 {
				fmt.Fprintln(out, "Working on today")
				for _, item := range working {
					fmt.Fprintf(out, "  %s  %s\n", shortID(item.ID), item.Title)
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 5, "Maximum number of upcoming assignments")
	return cmd
}

func (a *app) statsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show completion statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(cmd.Context()); err != nil {
				return err
			}
			st := a.store.Stats()
			fmt.Fprintf(cmd.OutOrStdout(), "Total: %d\nCompleted: %d\nProgress: %d%%\n", st.Total, st.Completed, st.Percent)
			return nil
		},
	}
}
