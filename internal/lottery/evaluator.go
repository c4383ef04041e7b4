package lottery

import (
	"pbcheck/internal/models"

	"github.com/RoaringBitmap/roaring/v2"
)

type prizeKey struct {
	white     int
	powerball bool
}

// prizeTable is the Powerball base prize table without Power Play. Combinations not listed pay nothing.
var prizeTable = map[prizeKey]models.Tier{
	{5, true}:  models.TierJackpot,
	{5, false}: models.Tier1M,
	{4, true}:  models.Tier50K,
	{4, false}: models.Tier100,
	{3, true}:  models.Tier100,
	{3, false}: models.Tier7,
	{2, true}:  models.Tier7,
	{1, true}:  models.Tier4,
	{0, true}:  models.Tier4,
}

// Evaluate compares a selection with a drawing. It is pure and order independent.
// MatchedWhite is ascending and counts each ball once.
func Evaluate(sel models.NumberSelection, drawing models.Drawing) models.PrizeResult {
	common := roaring.And(ballSet(sel.White[:]), ballSet(drawing.White[:]))

	matched := make([]int, 0, common.GetCardinality())
	it := common.Iterator()
	for it.HasNext() {
		matched = append(matched, int(it.Next()))
	}

	pbMatch := sel.Powerball == drawing.Powerball
	return models.PrizeResult{
		WhiteMatches:   len(matched),
		PowerballMatch: pbMatch,
		Tier:           TierFor(len(matched), pbMatch),
		MatchedWhite:   matched,
	}
}

func ballSet(balls []int) *roaring.Bitmap {
	bm := roaring.New()
	for _, n := range balls {
		if n > 0 {
			bm.Add(uint32(n))
		}
	}
	return bm
}

func TierFor(whiteMatches int, powerballMatch bool) models.Tier {
	if tier, ok := prizeTable[prizeKey{whiteMatches, powerballMatch}]; ok {
		return tier
	}
	return models.TierNone
}
