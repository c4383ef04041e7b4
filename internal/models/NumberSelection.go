package models

const (
	WhiteCount   = 5
	WhiteMin     = 1
	WhiteMax     = 69
	PowerballMin = 1
	PowerballMax = 26
)

// NumberSelection is the user's saved ticket. A new value replaces the old one wholesale.
type NumberSelection struct {
	White     [WhiteCount]int `json:"white"`
	Powerball int             `json:"powerball"`
}

func InWhiteRange(n int) bool {
	return n >= WhiteMin && n <= WhiteMax
}

func InPowerballRange(n int) bool {
	return n >= PowerballMin && n <= PowerballMax
}
