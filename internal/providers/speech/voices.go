package speech

// Voice describes one selectable synthesis voice.
type Voice struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Gender string `json:"gender"`
}

// Voices returns the curated voice catalog exposed to clients.
func Voices() []Voice {
	return []Voice{
		{ID: "en-US-AndrewMultilingualNeural", Name: "Andrew Dragon HD Latest", Gender: "Male"},
		{ID: "en-US-AvaMultilingualNeural", Name: "Ava Multilingual", Gender: "Female"},
		{ID: "en-US-AndrewMultilingualNeural", Name: "Andrew Multilingual", Gender: "Male"},
		{ID: "en-US-PhoebeMultilingualNeural", Name: "Phoebe Multilingual", Gender: "Female"},
		{ID: "en-US-ChristopherMultilingualNeural", Name: "Christopher Multilingual", Gender: "Male"},
		{ID: "en-US-BrandonMultilingualNeural", Name: "Brandon Multilingual", Gender: "Male"},
		{ID: "en-US-DustinMultilingualNeural", Name: "Dustin Multilingual", Gender: "Male"},
		{ID: "en-US-SteffanMultilingualNeural", Name: "Steffan Multilingual", Gender: "Male"},
	}
}
