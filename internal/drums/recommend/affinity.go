package recommend

import (
	"slices"
	"strings"
)

// genreAffinity maps a genre to related genres that earn partial credit.
// Keys and values are authored in display case; lookups go through
// relatedGenres, which matches case-insensitively.
var genreAffinity = map[string][]string{
	"trap":       {"drill", "hiphop", "rap"},
	"drill":      {"trap", "hiphop", "rap"},
	"hiphop":     {"trap", "boomBap", "rap", "gfunk", "westcoast"},
	"rap":        {"hiphop", "trap", "drill", "boomBap"},
	"boomBap":    {"hiphop", "lofi", "jazz"},
	"lofi":       {"jazz", "boomBap", "chill"},
	"house":      {"techno", "disco", "deepHouse", "dance", "edm"},
	"deepHouse":  {"house", "techno", "garage"},
	"techno":     {"house", "industrial", "electronic"},
	"disco":      {"house", "funk", "dance"},
	"jazz":       {"lofi", "soul", "bossaNova", "bossa", "swing", "bebop", "fusion"},
	"gospel":     {"soul", "rnb"},
	"soul":       {"gospel", "rnb", "motown", "funk"},
	"rnb":        {"soul", "gospel", "hiphop"},
	"funk":       {"soul", "disco", "secondLine"},
	"rock":       {"alternative", "pop", "punk"},
	"pop":        {"rock", "dance", "edm"},
	"punk":       {"rock", "hardcore"},
	"metal":      {"heavyMetal", "rock"},
	"reggae":     {"dub", "roots", "dancehall"},
	"dub":        {"reggae", "roots"},
	"reggaeton":  {"latin", "dembow", "dancehall"},
	"latin":      {"reggaeton", "samba", "bossa", "calypso", "soca"},
	"bossa":      {"bossaNova", "jazz", "latin"},
	"bossaNova":  {"bossa", "jazz", "latin"},
	"samba":      {"brazilian", "latin"},
	"afrobeat":   {"african", "afrobeats", "funk"},
	"afrobeats":  {"afrobeat", "african", "dancehall"},
	"dnb":        {"jungle", "breakbeat", "electronic"},
	"jungle":     {"dnb", "breakbeat"},
	"breakbeat":  {"breaks", "dnb", "jungle"},
	"ukGarage":   {"2step", "garage", "house"},
	"jerseyClub": {"club", "dance"},
	"soca":       {"caribbean", "calypso", "dancehall"},
	"calypso":    {"caribbean", "soca", "tropical"},
	"waltz":      {"classical", "folk"},
	"ballad":     {"slow", "pop"},
	"edm":        {"electronic", "dance", "house"},
	"electronic": {"edm", "house", "techno"},
}

// moodGenres maps a mood to the genres that typically carry it
var moodGenres = map[string][]string{
	"dark":       {"trap", "drill", "metal", "industrial", "dnb"},
	"chill":      {"lofi", "bossa", "jazz", "deepHouse", "ambient"},
	"uplifting":  {"house", "disco", "gospel", "soca", "pop"},
	"aggressive": {"trap", "drill", "punk", "metal", "dnb"},
	"smooth":     {"jazz", "rnb", "soul", "bossa", "lofi"},
	"energetic":  {"house", "techno", "soca", "punk", "drum-and-bass"},
	"sad":        {"lofi", "ballad", "rnb"},
	"happy":      {"disco", "soca", "calypso", "pop", "house"},
	"dreamy":     {"lofi", "ambient", "deepHouse"},
	"groovy":     {"funk", "disco", "afrobeat", "house"},
	"intense":    {"metal", "dnb", "techno", "drill"},
	"romantic":   {"bossa", "ballad", "rnb", "jazz"},
}

// moodIntensity is the base drum intensity for a mood
var moodIntensity = map[string]float64{
	"chill":      0.45,
	"sad":        0.5,
	"smooth":     0.5,
	"dreamy":     0.4,
	"romantic":   0.45,
	"dark":       0.65,
	"groovy":     0.7,
	"happy":      0.75,
	"uplifting":  0.75,
	"energetic":  0.85,
	"aggressive": 0.9,
	"intense":    0.9,
}

var (
	genreAffinityIndex = lowerIndex(genreAffinity)
	moodGenreIndex     = lowerIndex(moodGenres)
)

// lowerIndex folds keys and values to lower case so that tags written as
// "boomBap" and features normalised to "boombap" meet.
func lowerIndex(in map[string][]string) map[string][]string {
	out := make(map[string][]string, len(in))
	for k, vs := range in {
		lv := make([]string, len(vs))
		for i, v := range vs {
			lv[i] = strings.ToLower(v)
		}
		out[strings.ToLower(k)] = lv
	}
	return out
}

// relatedGenres returns the affinity list for genre, lower-cased
func relatedGenres(genre string) []string {
	return genreAffinityIndex[strings.ToLower(genre)]
}

// genresForMood returns the genre list for mood, lower-cased
func genresForMood(mood string) []string {
	return moodGenreIndex[strings.ToLower(mood)]
}

func related(a, b string) bool {
	return slices.Contains(relatedGenres(a), strings.ToLower(b))
}
