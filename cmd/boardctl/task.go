package main

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"eisenhower-board/internal/apiclient"
	"eisenhower-board/internal/models"
	"eisenhower-board/internal/ui"

	"github.com/spf13/cobra"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Create, edit, move and delete tasks",
}

var (
	taskTitle       string
	taskDescription string
	taskOwner       int64
	taskCreatedBy   string
	taskDue         string
	taskStatus      string
	taskPriority    string
	taskQuadrant    int
	assumeYes       bool
)

var taskAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a task",
	Args:  cobra.NoArgs,
	RunE:  runTaskAdd,
}

var taskEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change fields of a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskEdit,
}

var taskMoveCmd = &cobra.Command{
	Use:   "move <id> <quadrant>",
	Short: "Move a task to another quadrant",
	Args:  cobra.ExactArgs(2),
	RunE:  runTaskMove,
}

var taskRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(1),
	RunE:    runTaskRm,
}

func init() {
	for _, c := range []*cobra.Command{taskAddCmd, taskEditCmd} {
		f := c.Flags()
		f.StringVar(&taskTitle, "title", "", "title (max 80 characters)")
		f.StringVar(&taskDescription, "description", "", "description (max 500 characters)")
		f.Int64Var(&taskOwner, "owner", 0, "owner staff id")
		f.StringVar(&taskCreatedBy, "created-by", "", "who created the task")
		f.StringVar(&taskDue, "due", "", "due date (YYYY-MM-DD)")
		f.StringVar(&taskStatus, "status", "", "未着手|進行中|完了")
		f.StringVar(&taskPriority, "priority", "", "高|中|低")
		f.IntVar(&taskQuadrant, "quadrant", 0, "quadrant 1-4")
	}
	taskRmCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "delete without asking")
	taskCmd.AddCommand(taskAddCmd, taskEditCmd, taskMoveCmd, taskRmCmd)
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	in := apiclient.TaskInput{
		Title:       taskTitle,
		Description: taskDescription,
		OwnerID:     taskOwner,
		CreatedBy:   taskCreatedBy,
		Status:      models.TaskStatus(taskStatus),
		Priority:    models.TaskPriority(taskPriority),
		Quadrant:    taskQuadrant,
	}
	if taskDue != "" {
		in.DueDate = &taskDue
	}
	if err := s.controller.OpenTaskForm(0); err != nil {
		return err
	}
	task, err := s.controller.SaveTask(cmd.Context(), 0, in)
	if err != nil {
		return failure(err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "created task #%d\n", task.ID)
	return nil
}

func runTaskEdit(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	current, ok := s.store.Task(id)
	if !ok {
		return fmt.Errorf("task #%d not found", id)
	}

	in := apiclient.TaskInput{
		Title:       current.Title,
		Description: current.Description,
		OwnerID:     current.OwnerID,
		CreatedBy:   current.CreatedBy,
		DueDate:     current.DueDate,
		Status:      current.Status,
		Priority:    current.Priority,
		Quadrant:    current.Quadrant,
	}
	f := cmd.Flags()
	if f.Changed("title") {
		in.Title = taskTitle
	}
	if f.Changed("description") {
		in.Description = taskDescription
	}
	if f.Changed("owner") {
		in.OwnerID = taskOwner
	}
	if f.Changed("created-by") {
		in.CreatedBy = taskCreatedBy
	}
	if f.Changed("due") {
		in.DueDate = &taskDue
	}
	if f.Changed("status") {
		in.Status = models.TaskStatus(taskStatus)
	}
	if f.Changed("priority") {
		in.Priority = models.TaskPriority(taskPriority)
	}
	if f.Changed("quadrant") {
		in.Quadrant = taskQuadrant
	}

	if err := s.controller.OpenTaskForm(id); err != nil {
		return err
	}
	if _, err := s.controller.SaveTask(cmd.Context(), id, in); err != nil {
		return failure(err)
	}
	return nil
}

func runTaskMove(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	quadrant, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid quadrant %q", args[1])
	}
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	payload, err := s.controller.BeginDrag(id)
	if err != nil {
		return fmt.Errorf("task #%d: %w", id, err)
	}
	if _, err := s.controller.Drop(cmd.Context(), quadrant, payload); err != nil {
		return failure(err)
	}
	return nil
}

func runTaskRm(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	return confirmAndDelete(cmd, s, ui.KindTask, id)
}

// confirmAndDelete walks the same two steps as the page: open the
// confirmation, then confirm or cancel.
func confirmAndDelete(cmd *cobra.Command, s *session, kind ui.EntityKind, id int64) error {
	if err := s.controller.RequestDelete(kind, id); err != nil {
		return fmt.Errorf("%s #%d: %w", kind, id, err)
	}
	if !assumeYes {
		fmt.Fprintf(cmd.ErrOrStderr(), "delete %s #%d? [y/N] ", kind, id)
		answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
			s.controller.CancelDelete()
			fmt.Fprintln(cmd.ErrOrStderr(), "cancelled")
			return nil
		}
	}
	if err := s.controller.ConfirmDelete(cmd.Context()); err != nil {
		return failure(err)
	}
	return nil
}
