package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

//isTerminal checks whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

type summary struct {
	w io.Writer

	title, key, good, bad func(a ...interface{}) string
}

func newSummary(cmd *cobra.Command) *summary {
	w := cmd.OutOrStdout()
	colorFlag, _ := cmd.Flags().GetString("color")
	useColor := colorFlag == "on" || (colorFlag == "auto" && isTerminal(w))

	paint := func(attrs ...color.Attribute) func(a ...interface{}) string {
		c := color.New(attrs...)
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	return &summary{
		w:     w,
		title: paint(color.Bold),
		key:   paint(color.FgCyan),
		good:  paint(color.FgGreen),
		bad:   paint(color.FgYellow),
	}
}

func (s *summary) header(text string) {
	fmt.Fprintln(s.w, s.title(text))
}

func (s *summary) line(key string, value interface{}) {
	fmt.Fprintf(s.w, "  %s %v\n", s.key(key+":"), value)
}

//status prints value green when ok holds and yellow otherwise.
func (s *summary) status(key string, value interface{}, ok bool) {
	paint := s.good
	if !ok {
		paint = s.bad
	}
	fmt.Fprintf(s.w, "  %s %s\n", s.key(key+":"), paint(fmt.Sprint(value)))
}
