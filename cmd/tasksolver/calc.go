package main

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/germanamz/tasksolver/cmd/tasksolver/internal/calcui"
	"github.com/germanamz/tasksolver/pkg/calculator"
	"github.com/spf13/cobra"
)

func newCalcCmd() *cobra.Command {
	var keys string

	cmd := &cobra.Command{
		Use:   "calc [expression]",
		Short: "Calculator: evaluate an expression, replay keys, or open the keypad",
		Example: `  tasksolver calc "(2 + 3) × 4"
  tasksolver calc --keys "7 × 6 ="
  tasksolver calc`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch {
			case keys != "":
				display, err := calculator.NewState().PressAll(strings.Fields(keys)...)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, display)
				return err
			case len(args) > 0:
				v, err := calculator.Eval(strings.Join(args, " "))
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, calculator.FormatResult(v))
				return err
			}
			return runCalcUI(cmd)
		},
	}
	cmd.Flags().StringVar(&keys, "keys", "", `space separated key labels to press, e.g. "7 × 6 ="`)
	return cmd
}

func runCalcUI(cmd *cobra.Command) error {
	if !isInteractive(cmd.InOrStdin()) {
		return errors.New("the keypad needs a terminal; pass an expression or --keys instead")
	}
	_, err := tea.NewProgram(calcui.New(), tea.WithContext(cmd.Context())).Run()
	if errors.Is(err, tea.ErrProgramKilled) && cmd.Context().Err() != nil {
		return nil
	}
	return err
}
