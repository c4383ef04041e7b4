package main

import (
	"fmt"
	"io"
	"strings"

	"pbcheck/internal/lottery"
	"pbcheck/internal/models"
	"pbcheck/internal/services"
)

// consoleSink prints renders as plain lines.
type consoleSink struct {
	out    io.Writer
	failed bool
}

func newConsoleSink(out io.Writer) *consoleSink {
	return &consoleSink{out: out}
}

func (c *consoleSink) RenderSelection(sel models.NumberSelection) {
	fmt.Fprintf(c.out, "Your numbers:    %s  PB %02d\n", joinBalls(sel.White[:]), sel.Powerball)
}

func (c *consoleSink) RenderDrawing(drawing models.Drawing, source services.DrawingSource) {
	date := drawing.Date.Long()
	if source == services.SourceFallback {
		date += " (cached)"
	}
	fmt.Fprintf(c.out, "Drawing:         %s\n", date)
	fmt.Fprintf(c.out, "Winning numbers: %s  PB %02d\n", joinBalls(drawing.White[:]), drawing.Powerball)
}

func (c *consoleSink) RenderResult(result models.PrizeResult) {
	fmt.Fprintf(c.out, "Matched:         %d white", result.WhiteMatches)
	if result.PowerballMatch {
		fmt.Fprint(c.out, " + Powerball")
	}
	fmt.Fprintf(c.out, "\n%s\n", services.ResultMessage(result))
}

func (c *consoleSink) RenderValidationError(err *lottery.ValidationError) {
	c.failed = true
	fmt.Fprintln(c.out, err.Message())
}

func (c *consoleSink) RenderStatus(status models.Status, message string) {
	switch status {
	case models.StatusLoading:
		return
	case models.StatusError:
		c.failed = true
	}
	fmt.Fprintln(c.out, message)
}

func joinBalls(balls []int) string {
	parts := make([]string, len(balls))
	for i, b := range balls {
		parts[i] = fmt.Sprintf("%02d", b)
	}
	return strings.Join(parts, " ")
}
