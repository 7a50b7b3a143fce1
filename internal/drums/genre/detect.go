// Package genre holds genre-specific drum knowledge: free-text genre
// detection, sample-pack selection and velocity profiles.
package genre

import "strings"

type rule struct {
	needles []string
	genre   string
}

// Multi-word and more specific needles come first so that, for example,
// "latin trap" is not read as plain trap.
var detectRules = []rule{
	{[]string{"boom bap", "boombap"}, "boomBap"},
	{[]string{"neo soul", "neo-soul"}, "rnb"},
	{[]string{"hip hop", "hip-hop", "hiphop"}, "hiphop"},
	{[]string{"lo-fi", "lofi"}, "lofi"},
	{[]string{"latin trap"}, "reggaeton"},
	{[]string{"reggaeton", "dembow", "perreo"}, "reggaeton"},
	{[]string{"dancehall"}, "dancehall"},
	{[]string{"amapiano"}, "amapiano"},
	{[]string{"afrobeats", "afro beat"}, "afrobeats"},
	{[]string{"r&b", "rnb"}, "rnb"},
	{[]string{"gospel"}, "gospel"},
	{[]string{"jazz"}, "jazz"},
	{[]string{"house"}, "house"},
	{[]string{"funk"}, "funk"},
	{[]string{"soul"}, "soul"},
	{[]string{"drill"}, "drill"},
	{[]string{"trap"}, "trap"},
	{[]string{"afro"}, "afrobeats"},
}

// Detect finds the first genre mentioned in text. ok is false when no
// known genre is mentioned.
func Detect(text string) (genre string, ok bool) {
	m := strings.ToLower(text)
	for _, r := range detectRules {
		for _, n := range r.needles {
			if strings.Contains(m, n) {
				return r.genre, true
			}
		}
	}
	return "", false
}
