package main

import (
	"fmt"
	"strings"

	"eisenhower-board/internal/board"
	"eisenhower-board/internal/ui"

	"github.com/spf13/cobra"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Print the four-quadrant board",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		return s.renderer.Render(ui.ViewBoard)
	},
}

var (
	viewFilter   string
	viewSortBy   string
	viewSortDesc bool
)

var viewCmd = &cobra.Command{
	Use:   "view <staff|overview|danger|idle|completed>",
	Short: "Print one tab",
	Args:  cobra.ExactArgs(1),
	RunE:  runView,
}

func init() {
	viewCmd.Flags().StringVar(&viewFilter, "filter", "", "staff name filter (staff tab)")
	viewCmd.Flags().StringVar(&viewSortBy, "sort", "", "staff: name|department, completed: due_date|priority")
	viewCmd.Flags().BoolVar(&viewSortDesc, "desc", false, "sort descending")
}

func runView(cmd *cobra.Command, args []string) error {
	id := ui.ViewID(args[0])
	if !ui.ValidTab(id) {
		names := make([]string, len(ui.Tabs))
		for i, t := range ui.Tabs {
			names[i] = string(t)
		}
		return fmt.Errorf("unknown view %q (want one of %s)", id, strings.Join(names, ", "))
	}
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	c := s.controller
	switch id {
	case ui.ViewStaff:
		if err := c.SetStaffFilter(viewFilter); err != nil {
			return err
		}
		key := board.StaffByName
		if viewSortBy == string(board.StaffByDepartment) {
			key = board.StaffByDepartment
		}
		if err := c.SetStaffSort(board.StaffSort{Key: key, Desc: viewSortDesc}); err != nil {
			return err
		}
	case ui.ViewCompleted:
		key := board.CompletedByDueDate
		if viewSortBy == string(board.CompletedByPriority) {
			key = board.CompletedByPriority
		}
		if err := c.SetCompletedSort(board.CompletedSort{Key: key, Desc: viewSortDesc}); err != nil {
			return err
		}
	}
	return c.SwitchTab(id)
}
