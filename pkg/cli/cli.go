package cli

import (
	"errors"
	"fmt"
	"os"

	gocli "github.com/adrianliechti/go-cli"
	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"
)

type Command = gocli.Command

type Flag = gocli.Flag
type IntFlag = gocli.IntFlag
type StringFlag = gocli.StringFlag
type StringSliceFlag = gocli.StringSliceFlag
type BoolFlag = gocli.BoolFlag

var ErrAborted = errors.New("aborted by user")

func EnvVars(keys ...string) cli.ValueSourceChain {
	return cli.EnvVars(keys...)
}

func ShowAppHelp(cmd *Command) error {
	return gocli.ShowAppHelp(cmd)
}

func ShowCommandHelp(cmd *Command) error {
	return gocli.ShowCommandHelp(cmd)
}

// Info prints a line to stderr so stdout stays machine readable.
func Info(a ...any) {
	fmt.Fprintln(os.Stderr, a...)
}

func Infof(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
}

func Warn(a ...any) {
	gocli.Warn(a...)
}

func Fatal(err error) {
	gocli.Fatal(err)
}

func Prompt(label, placeholder string) (string, error) {
	var s string

	if err := huh.NewInput().
		Title(label).
		Placeholder(placeholder).
		Value(&s).
		Run(); err != nil {
		return "", aborted(err)
	}

	return s, nil
}

// Select asks for one of labels and returns its index.
func Select(label string, labels []string) (int, error) {
	index, _, err := gocli.Select(label, labels)

	if err != nil {
		return 0, aborted(err)
	}

	return index, nil
}

func Confirm(label string, placeholder bool) (bool, error) {
	value := placeholder

	if err := huh.NewConfirm().
		Title(label).
		Affirmative("Yes").
		Negative("No").
		Value(&value).
		Run(); err != nil {
		return false, aborted(err)
	}

	return value, nil
}

func aborted(err error) error {
	if errors.Is(err, gocli.ErrUserAborted) {
		return ErrAborted
	}

	return err
}
