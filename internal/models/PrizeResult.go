package models

type Tier string

const (
	TierJackpot Tier = "JACKPOT"
	Tier1M      Tier = "TIER_1M"
	Tier50K     Tier = "TIER_50K"
	Tier100     Tier = "TIER_100"
	Tier7       Tier = "TIER_7"
	Tier4       Tier = "TIER_4"
	TierNone    Tier = "NONE"
)

var tierLabels = map[Tier]string{
	TierJackpot: "JACKPOT",
	Tier1M:      "$1,000,000",
	Tier50K:     "$50,000",
	Tier100:     "$100",
	Tier7:       "$7",
	Tier4:       "$4",
}

// Label is the display text for a tier; empty for TierNone.
func (t Tier) Label() string {
	return tierLabels[t]
}

func (t Tier) IsWinner() bool {
	return t != TierNone && t != ""
}

// PrizeResult is derived from a selection and a drawing and is never persisted.
type PrizeResult struct {
	WhiteMatches   int   `json:"whiteMatches"`
	PowerballMatch bool  `json:"powerballMatch"`
	Tier           Tier  `json:"tier"`
	MatchedWhite   []int `json:"matchedWhite"`
}
