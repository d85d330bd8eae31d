package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

const chatHelp = `Commands:
  /new           start a new task
  /image <path>  attach an image to the next message
  /copy <n>      print the body of code block n from the last answer
  /quit          exit
Anything else is sent as the task, or as a correction to the last answer.`

func newChatCmd(a *app) *cobra.Command {
	var render renderOptions

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Solve a task interactively, sending corrections as follow-ups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSolver(a.cfg, cmd.InOrStdin())
			if err != nil {
				return err
			}
			r := &repl{solver: s, render: render, in: cmd.InOrStdin(), out: cmd.OutOrStdout(), errOut: cmd.ErrOrStderr()}
			return r.run(cmd)
		},
	}
	addRenderFlags(cmd, &render)
	return cmd
}

type repl struct {
	solver *solver
	render renderOptions
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	pending []string // image data URIs for the next send
	last    string   // last answer text
}

func (r *repl) run(cmd *cobra.Command) error {
	fmt.Fprintln(r.errOut, dimStyle.Render("Type a task, /help for commands."))

	scanner := bufio.NewScanner(r.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		r.prompt()
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/") {
			if quit := r.command(line); quit {
				return nil
			}
			continue
		}
		if err := cmd.Context().Err(); err != nil {
			return nil
		}
		r.send(cmd, line)
	}
}

func (r *repl) prompt() {
	label := "task"
	if r.solver.session.Len() > 0 {
		label = "correction"
	}
	if n := len(r.pending); n > 0 {
		label += fmt.Sprintf(" +%d image(s)", n)
	}
	fmt.Fprint(r.errOut, promptStyle.Render(label+" › "))
}

func (r *repl) send(cmd *cobra.Command, text string) {
	reply, err := r.solver.send(cmd.Context(), text, r.pending)
	if err != nil {
		fmt.Fprintln(r.errOut, errorStyle.Render(describeError(err)))
		return
	}
	r.pending = nil
	r.last = reply.Text()
	if err := r.render.write(r.out, r.last); err != nil {
		fmt.Fprintln(r.errOut, errorStyle.Render(err.Error()))
	}
}

// command handles a slash command and reports whether the loop should end.
func (r *repl) command(line string) bool {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "/quit", "/exit":
		return true
	case "/help":
		fmt.Fprintln(r.errOut, chatHelp)
	case "/new":
		r.solver.session.Reset()
		r.pending = nil
		r.last = ""
		fmt.Fprintln(r.errOut, dimStyle.Render("Started a new task."))
	case "/image":
		if arg == "" {
			fmt.Fprintln(r.errOut, warnStyle.Render("usage: /image <path>"))
			return false
		}
		images, err := readImages([]string{arg})
		if err != nil {
			fmt.Fprintln(r.errOut, errorStyle.Render(err.Error()))
			return false
		}
		r.pending = append(r.pending, images...)
		fmt.Fprintln(r.errOut, userStyle.Render("Attached "+arg))
	case "/copy":
		n, err := strconv.Atoi(arg)
		if err != nil {
			fmt.Fprintln(r.errOut, warnStyle.Render("usage: /copy <n>"))
			return false
		}
		body, err := codeBlock(r.last, n)
		if err != nil {
			fmt.Fprintln(r.errOut, errorStyle.Render(err.Error()))
			return false
		}
		fmt.Fprint(r.out, body)
	default:
		fmt.Fprintln(r.errOut, warnStyle.Render("unknown command "+name+", try /help"))
	}
	return false
}
