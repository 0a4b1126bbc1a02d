package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"zooo-feed/pkg/config"
	"zooo-feed/pkg/localstore"
	"zooo-feed/pkg/logging"
	"zooo-feed/pkg/session"
	"zooo-feed/pkg/source"
)

// app is the state shared by all commands.
type app struct {
	cfg *config.Config
	log *logrus.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "zooo-feed",
		Short:         "Vertical video feed player",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			a.cfg = cfg
			logging.Configure(cfg.LogLevel)
			a.log = logging.New(cfg.LogLevel)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.ValidateSource(); err != nil {
				return err
			}
			a.log.WithField("source", a.cfg.FeedSource).Info("Starting Zooo Feed")
			return runShell(a.cfg, a.log)
		},
	}

	cmd.AddCommand(newVideosCmd(a), newSessionCmd(a))
	return cmd
}

func newVideosCmd(a *app) *cobra.Command {
	var asJSON bool
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "videos",
		Short: "Fetch the feed and print it",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.ValidateSource(); err != nil {
				return err
			}
			api, err := newS3(a.cfg, a.log)
			if err != nil {
				return err
			}
			src, err := buildSource(a.cfg, api, a.log)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			videos := source.FetchOrEmpty(ctx, src, a.log)
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(videos)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "#\tKIND\tTITLE\tURL")
			for i, v := range videos {
				kind := "embedded"
				if v.IsDirectMedia() {
					kind = "native"
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i, kind, v.Title, v.VideoURL)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "give up fetching after this long")
	return cmd
}

func newSessionCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect or clear the saved feed position",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the saved position",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(a.cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			for _, key := range []string{session.IndexKey, session.DateKey} {
				value, err := store.Get(key)
				if errors.Is(err, localstore.ErrNotFound) {
					value = "(unset)"
				} else if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s = %s\n", key, value)
			}
			s := session.New(store, nil, a.log)
			fmt.Fprintf(out, "today (%s) restores index %d\n", s.Today(), s.Restore())
			return nil
		},
	}

	reset := &cobra.Command{
		Use:   "reset",
		Short: "Forget the saved position",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(a.cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Delete(session.IndexKey, session.DateKey); err != nil {
				return fmt.Errorf("failed to reset session: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "session cleared")
			return nil
		},
	}

	cmd.AddCommand(show, reset)
	return cmd
}
