package main

import (
	"fmt"
	"os"
	"path/filepath"

	"eisenhower-board/internal/apiclient"
	"eisenhower-board/internal/ui"

	"github.com/spf13/cobra"
)

var staffCmd = &cobra.Command{
	Use:   "staff",
	Short: "Manage the staff roster",
}

var (
	staffName       string
	staffDepartment string
	staffPhoto      string
	staffGenerate   bool
)

var staffAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a staff member",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return saveStaff(cmd, 0)
	},
}

var staffEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change a staff member",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return saveStaff(cmd, id)
	},
}

var staffRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Remove a staff member; their tasks stay on the board",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		return confirmAndDelete(cmd, s, ui.KindStaff, id)
	},
}

func init() {
	for _, c := range []*cobra.Command{staffAddCmd, staffEditCmd} {
		f := c.Flags()
		f.StringVar(&staffName, "name", "", "display name")
		f.StringVar(&staffDepartment, "department", "", "department")
		f.StringVar(&staffPhoto, "photo", "", "path to a png/jpg/gif/webp photo")
		f.BoolVar(&staffGenerate, "generate-avatars", false, "generate the four quadrant avatars from the photo")
	}
	staffRmCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "delete without asking")
	staffCmd.AddCommand(staffAddCmd, staffEditCmd, staffRmCmd)
}

func saveStaff(cmd *cobra.Command, id int64) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}

	in := apiclient.StaffInput{Name: staffName, Department: staffDepartment, GenerateAvatars: staffGenerate}
	if id != 0 {
		current, ok := s.store.StaffMember(id)
		if !ok {
			return fmt.Errorf("staff #%d not found", id)
		}
		if !cmd.Flags().Changed("name") {
			in.Name = current.Name
		}
		if !cmd.Flags().Changed("department") {
			in.Department = current.Department
		}
	}
	if staffPhoto != "" {
		f, err := os.Open(staffPhoto)
		if err != nil {
			return err
		}
		defer f.Close()
		in.Photo = &apiclient.Upload{Filename: filepath.Base(staffPhoto), Content: f}
	}

	if err := s.controller.OpenStaffForm(id); err != nil {
		return err
	}
	staff, err := s.controller.SaveStaff(cmd.Context(), id, in)
	if err != nil {
		return failure(err)
	}
	if id == 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "created staff #%d\n", staff.ID)
	}
	return nil
}
