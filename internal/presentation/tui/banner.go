package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{"   __ _                             __ _   ", "#818cf8"},
	{"  / _| | _____      _____ _ __ __ _ / _| |_ ", "#a78bfa"},
	{" | |_| |/ _ \\ \\ /\\ / / __| '__/ _` | |_| __|", "#c084fc"},
	{" |  _| | (_) \\ V  V / (__| | | (_| |  _| |_ ", "#e879f9"},
	{" |_| |_|\\___/ \\_/\\_/ \\___|_|  \\__,_|_|  \\__|", "#f472b6"},
}

// PrintBanner writes the ASCII banner and the version to w.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  v"+version).Faint())
	fmt.Fprintln(w)
}
