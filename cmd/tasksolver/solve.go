package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

type solveOptions struct {
	images   []string
	copyCode int
	render   renderOptions
}

func newSolveCmd(a *app) *cobra.Command {
	var opts solveOptions

	cmd := &cobra.Command{
		Use:   "solve [task...]",
		Short: "Solve one task (reads stdin when no task is given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := taskText(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			return runSolve(cmd, a, task, opts)
		},
	}

	f := cmd.Flags()
	f.StringArrayVarP(&opts.images, "image", "i", nil, "attach an image file (repeatable)")
	f.IntVar(&opts.copyCode, "copy-code", 0, "print only the body of the n-th code block")
	addRenderFlags(cmd, &opts.render)
	return cmd
}

func addRenderFlags(cmd *cobra.Command, o *renderOptions) {
	f := cmd.Flags()
	f.BoolVar(&o.markdown, "markdown", false, "render prose as markdown")
	f.BoolVar(&o.noColor, "no-color", false, "disable syntax highlighting")
	f.IntVar(&o.width, "width", 100, "word wrap width for markdown")
}

// taskText joins args, or reads all of stdin when there are none.
func taskText(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if isInteractive(stdin) {
		return "", errors.New("no task given: pass it as arguments or pipe it on stdin")
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func runSolve(cmd *cobra.Command, a *app, task string, opts solveOptions) error {
	images, err := readImages(opts.images)
	if err != nil {
		return err
	}
	if strings.TrimSpace(task) == "" {
		if len(images) > 0 {
			return errors.New("describe the task: images cannot be sent without text")
		}
		return errors.New("the task is empty")
	}

	s, err := newSolver(a.cfg, cmd.InOrStdin())
	if err != nil {
		return err
	}

	reply, err := s.send(cmd.Context(), task, images)
	if err != nil {
		return errors.New(describeError(err))
	}

	out := cmd.OutOrStdout()
	if opts.copyCode > 0 {
		body, err := codeBlock(reply.Text(), opts.copyCode)
		if err != nil {
			return err
		}
		_, err = io.WriteString(out, body)
		return err
	}
	return opts.render.write(out, reply.Text())
}
