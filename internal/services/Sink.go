package services

import (
	"fmt"

	"pbcheck/internal/lottery"
	"pbcheck/internal/models"
)

// DrawingSource tells the sink where a rendered drawing came from.
type DrawingSource string

const (
	SourceFresh    DrawingSource = "fresh"
	SourceCache    DrawingSource = "cache"
	SourceFallback DrawingSource = "fallback"
)

// Sink receives everything the checker wants to show. Implementations decide how.
type Sink interface {
	RenderSelection(sel models.NumberSelection)
	RenderDrawing(drawing models.Drawing, source DrawingSource)
	RenderResult(result models.PrizeResult)
	RenderValidationError(err *lottery.ValidationError)
	RenderStatus(status models.Status, message string)
}

const (
	MessageLoading      = "Loading..."
	MessageSaved        = "Numbers saved!"
	MessagePrompt       = "Enter your numbers above"
	MessageUnableToLoad = "Could not fetch drawing results"
	MessageSaveFailed   = "Could not save your numbers"
)

func ResultMessage(result models.PrizeResult) string {
	switch {
	case result.Tier == models.TierJackpot:
		return "JACKPOT WINNER!!!"
	case result.Tier.IsWinner():
		return fmt.Sprintf("Congrats - %s!", result.Tier.Label())
	}
	return "Try Again"
}
