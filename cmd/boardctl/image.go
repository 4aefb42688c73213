package main

import (
	"fmt"
	"strings"

	"eisenhower-board/internal/apiclient"

	"github.com/spf13/cobra"
)

var imageCmd = &cobra.Command{
	Use:   "image <prompt>",
	Short: "Ask the server to generate a test image",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var opts []apiclient.Option
		if token != "" {
			opts = append(opts, apiclient.WithToken(token))
		}
		client := apiclient.New(serverURL, opts...)
		img, err := client.GenerateTestImage(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return failure(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(serverURL, "/")+img.URL)
		return nil
	},
}
