package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/goliatone/go-surveyform/pkg/orchestrator"
	"github.com/goliatone/go-surveyform/pkg/renderers/tui"
)

func newFillCmd(flags *globalFlags) *cobra.Command {
	var (
		wordWrap    int
		maxAttempts int
		plain       bool
	)

	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Fill the survey interactively in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				return errors.New("fill: stdin is not a terminal")
			}
			rt, err := flags.build()
			if err != nil {
				return err
			}
			defer func() { _ = rt.logger.Sync() }()

			orch := orchestrator.New(append(
				rt.orchestratorOptions(rt.client),
				orchestrator.WithLogger(rt.logger.Named("orchestrator")),
			)...)
			defer orch.Close()

			filler := tui.NewFiller(
				tui.WithPromptDriver(tui.NewSurveyDriver(os.Stdin, os.Stdout, os.Stderr)),
				tui.WithMaxAttempts(maxAttempts),
				tui.WithLogger(rt.logger.Named("tui")),
			)
			view, err := filler.Fill(cmd.Context(), orch)
			if err != nil {
				if errors.Is(err, tui.ErrAborted) {
					rt.logger.Info("survey aborted")
					return nil
				}
				return err
			}
			return printSummary(cmd.OutOrStdout(), view, wordWrap, plain)
		},
	}
	cmd.Flags().IntVar(&wordWrap, "word-wrap", 80, "wrap the summary at this width")
	cmd.Flags().IntVar(&maxAttempts, "max-attempts", 0, "give up after this many invalid submits (0 = unlimited)")
	cmd.Flags().BoolVar(&plain, "plain", false, "print the summary as raw markdown")
	return cmd
}

func printSummary(w io.Writer, view orchestrator.View, wordWrap int, plain bool) error {
	doc := tui.SummaryMarkdown(view)
	if plain {
		_, err := io.WriteString(w, doc)
		return err
	}
	renderMarkdown, err := tui.NewTerminalRenderer(wordWrap)
	if err != nil {
		return err
	}
	out, err := renderMarkdown(doc)
	if err != nil {
		return fmt.Errorf("fill: render summary: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}
