package handlers

const (
	// Request limits
	maxTopN        = 31 // size of the pattern library
	maxChords      = 64
	maxMelodyNotes = 1024
	maxNotationLen = 8 << 10
	maxRenderBars  = 64

	// Render timeout per request
	renderTimeoutSecs = 60

	contentTypeMIDI = "audio/midi"
	contentTypeWAV  = "audio/wav"
)
