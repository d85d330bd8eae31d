package main

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/germanamz/tasksolver/pkg/assembler"
	"github.com/germanamz/tasksolver/pkg/chats/message"
	"github.com/germanamz/tasksolver/pkg/config"
	"github.com/germanamz/tasksolver/pkg/relayclient"
	"github.com/germanamz/tasksolver/pkg/solution"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

// solver bundles the relay client and the conversation for client commands.
type solver struct {
	client  *relayclient.Client
	session *assembler.Session
	userID  string

	// interactive allows prompting for a missing API key.
	interactive bool
}

func newSolver(cfg config.Config, in io.Reader) (*solver, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	userID, err := loadUserID(dir)
	if err != nil {
		return nil, err
	}

	client := relayclient.New(cfg.RelayURL, relayclient.Auth{}, nil)
	logger := log.Logger.With().Str("component", "session").Str("user", userID).Logger()
	session := assembler.NewSession(
		assembler.NewSubmitter(client, userID),
		assembler.WithAssembler(assembler.New(assembler.WithDirective(cfg.Directive))),
		assembler.WithLogger(logger),
	)

	return &solver{client: client, session: session, userID: userID, interactive: isInteractive(in)}, nil
}

// send submits one turn. When the relay has no API key and the terminal is
// interactive, the user is asked for one and the turn is retried once.
func (s *solver) send(ctx context.Context, text string, images []string) (message.Message, error) {
	submit := func() (message.Message, error) {
		return withSpinner("Solving…", func() (message.Message, error) {
			return s.session.Send(ctx, text, images...)
		})
	}

	reply, err := submit()
	if !errors.Is(err, assembler.ErrCredentialMissing) || !s.interactive {
		return reply, err
	}

	fmt.Fprintln(os.Stderr, warnStyle.Render("The relay has no OpenRouter API key yet."))
	if err := promptAndSaveKey(ctx, s.client); err != nil {
		return message.Message{}, err
	}
	return submit()
}

// promptAndSaveKey asks for the API key with a masked input and stores it on
// the relay.
func promptAndSaveKey(ctx context.Context, client *relayclient.Client) error {
	var key string
	err := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("OpenRouter API key").
			Description("Stored on the relay; clients never see it again.").
			EchoMode(huh.EchoModePassword).
			Value(&key).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("the key is required")
				}
				return nil
			}),
	)).RunWithContext(ctx)
	if err != nil {
		return err
	}
	return client.SaveAPIKey(ctx, strings.TrimSpace(key))
}

// describeError turns a submission failure into the text shown to the user.
func describeError(err error) string {
	var se *assembler.SubmitError
	if !errors.As(err, &se) {
		return err.Error()
	}
	switch se.Kind {
	case assembler.KindCredentialMissing:
		return se.Notice() + " Run `tasksolver key set` to configure it."
	case assembler.KindTransport:
		return se.Notice()
	}
	if se.Status != 0 {
		return fmt.Sprintf("%s (HTTP %d)", se.Notice(), se.Status)
	}
	return se.Notice()
}

// readImages loads image files as data URIs.
func readImages(paths []string) ([]string, error) {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p) //nolint:gosec // user-selected file
		if err != nil {
			return nil, fmt.Errorf("read image: %w", err)
		}
		mime := http.DetectContentType(data)
		if !strings.HasPrefix(mime, "image/") {
			return nil, fmt.Errorf("%s: not an image (%s)", p, mime)
		}
		out = append(out, "data:"+mime+";base64,"+base64.StdEncoding.EncodeToString(data))
	}
	return out, nil
}

// renderOptions holds the display flags shared by solve and chat.
type renderOptions struct {
	markdown bool
	noColor  bool
	width    int
}

func (o renderOptions) write(w io.Writer, text string) error {
	return solution.Render(w, text, solution.Options{
		Width:    o.width,
		Color:    !o.noColor && isTerminal(os.Stdout),
		Markdown: o.markdown,
	})
}

// codeBlock returns the body of the n-th (1-based) code block in text.
func codeBlock(text string, n int) (string, error) {
	blocks := solution.CodeBlocks(text)
	if n < 1 || n > len(blocks) {
		return "", fmt.Errorf("code block %d not found (answer has %d)", n, len(blocks))
	}
	return blocks[n-1].Text, nil
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits in int
}

// isInteractive reports whether r is a terminal a prompt can read from.
func isInteractive(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && isTerminal(f)
}
