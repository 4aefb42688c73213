package main

import (
	"errors"
	"fmt"

	"eisenhower-board/internal/apiclient"
	"eisenhower-board/internal/board"
	"eisenhower-board/internal/logging"
	"eisenhower-board/internal/termui"
	"eisenhower-board/internal/ui"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// session is one loaded board: the server mirror plus the controller
// that mutates it.
type session struct {
	client     *apiclient.Client
	store      *board.Store
	renderer   *ui.Renderer
	controller *ui.Controller
	log        *zap.Logger
}

func openSession(cmd *cobra.Command) (*session, error) {
	log := logging.New(logging.Options{Level: logLevel, Output: cmd.ErrOrStderr()})

	var opts []apiclient.Option
	if token != "" {
		opts = append(opts, apiclient.WithToken(token))
	}
	client := apiclient.New(serverURL, opts...)

	raw, err := client.Bootstrap(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("load board: %s", apiclient.Message(err))
	}
	store := board.LoadPayload(raw, log)
	renderer := ui.NewRenderer(store, termui.NewPainter(cmd.OutOrStdout()))
	return &session{
		client:     client,
		store:      store,
		renderer:   renderer,
		controller: ui.NewController(store, client, renderer, log),
		log:        log,
	}, nil
}

// failure turns a controller error into the message a user should see.
func failure(err error) error {
	var verr *ui.ValidationError
	if errors.As(err, &verr) {
		return fmt.Errorf("%s: %s", verr.Field, verr.Message)
	}
	return errors.New(apiclient.Message(err))
}
