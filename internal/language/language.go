// Package language holds the language preference and the handful of UI
// strings the orchestration core itself produces (welcome turns, error
// substitutions, speech hints). Full localization lives in the presentation
// layer and is out of scope here.
package language

// Tag identifies the active conversation language, carried on every exchange.
type Tag string

const (
	English Tag = "en"
	Amharic Tag = "am"
)

// Toggle flips between the two supported languages.
func (t Tag) Toggle() Tag {
	if t == Amharic {
		return English
	}
	return Amharic
}

// Valid reports whether the tag is one we know how to speak.
func (t Tag) Valid() bool {
	return t == English || t == Amharic
}

// Strings are the core-facing UI strings for one language.
type Strings struct {
	NewChatTitle string
	WelcomeText  string
	ErrorText    string
	Listening    string
	Placeholder  string
	Consulting   string
}

var strings = map[Tag]Strings{
	English: {
		NewChatTitle: "New Consultation",
		WelcomeText:  "I am your digital legal assistant specialized in Ethiopian Law. I can help you understand the Constitution, Criminal Code, and Civil Code. How can I help you today?",
		ErrorText:    "I encountered an error. Please try again.",
		Listening:    "Listening... (Speak now)",
		Placeholder:  "Type a message or use voice...",
		Consulting:   "Consulting Ethiopian Legal Codes...",
	},
	Amharic: {
		NewChatTitle: "አዲስ ምክክር",
		WelcomeText:  "እኔ በኢትዮጵያ ህግ ላይ የተካነ ዲጂታል የህግ ረዳት ነኝ። ህገ-መንግስቱን፣ የወንጀል ህግን እና የፍትሐ ብሄር ህግን እንዲረዱ ልረዳዎ እችላለሁ። ዛሬ ምን ልርዳዎ?",
		ErrorText:    "ስህተት አጋጠመኝ። እባክዎ እንደገና ይሞክሩ።",
		Listening:    "እየሰማሁ ነው... (ይናገሩ)",
		Placeholder:  "መልእክት ይጻፉ ወይም በድምጽ ይናገሩ...",
		Consulting:   "የኢትዮጵያ ህጎችን በማጣቀስ ላይ...",
	},
}

// Lookup returns the strings for a tag, defaulting to English for anything
// unrecognized so a corrupt config never blanks the UI.
func Lookup(t Tag) Strings {
	if s, ok := strings[t]; ok {
		return s
	}
	return strings[English]
}
