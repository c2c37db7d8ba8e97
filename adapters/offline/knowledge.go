package offline

// Fixed response pools and the expandable knowledge table backing the
// offline responder. Time and date responses are rendered at reply time.

var greetingPool = []string{
	"Hello! Great to see you again!",
	"Hi there! How can I help you today?",
	"Hey! What's on your mind?",
	"Good to see you! What would you like to talk about?",
}

var goodbyePool = []string{
	"Goodbye! It was great talking with you!",
	"See you later! Have a wonderful day!",
	"Take care! I'll be here when you need me.",
	"Until next time! Stay safe!",
}

var thanksPool = []string{
	"You're very welcome!",
	"Happy to help!",
	"My pleasure!",
	"Anytime! That's what I'm here for.",
}

var weatherPool = []string{
	"I'd love to help with weather information, but I need internet connectivity for current conditions.",
	"For accurate weather data, I'd need to connect to a weather service.",
}

var robotPool = []string{
	"I'm designed to be part of a robot companion! Right now I can talk, but in the future I could move around and interact with the physical world.",
	"My robot capabilities are currently in development. For now, I focus on being a great conversational companion!",
}

var capabilitiesPool = []string{
	"I can have conversations, answer questions, help with basic calculations, tell you the time and date, and much more! What would you like help with?",
	"My main skills include conversation, basic information lookup, time/date queries, and being a friendly companion. How can I assist you today?",
}

var unknownPool = []string{
	"That's an interesting question! I'm still learning about that topic.",
	"I don't have specific information about that right now, but I'd love to help in other ways!",
	"Hmm, that's not in my current knowledge base. Is there something else I can help you with?",
	"I'm not sure about that particular topic, but I'm always eager to learn! What else can I assist you with?",
}

const mathHelp = "I can help with basic math! Try asking me something like 'what is 15 plus 7' or '10 times 3'"

const assistantPurpose = "your personal AI assistant designed to help with daily tasks"

var builtinFacts = map[string]string{
	"raspberry_pi": "I'm running on a Raspberry Pi, which is a small but powerful computer perfect for robotics and AI projects!",
	"open_source":  "I'm built with open-source technologies and can work completely offline for privacy and independence.",
	"expandable":   "My knowledge base can be easily expanded by adding new topics and responses.",
}

// Keyword tables for rule matching, checked in fixed priority order.
var (
	greetingWords     = []string{"hello", "hi", "hey", "good morning", "good afternoon", "good evening"}
	goodbyeWords      = []string{"goodbye", "bye", "see you", "farewell", "quit", "exit"}
	thanksWords       = []string{"thank", "thanks", "appreciate"}
	timeWords         = []string{"time", "clock", "hour"}
	dateWords         = []string{"date", "day", "today", "calendar"}
	weatherWords      = []string{"weather", "temperature", "rain", "sunny", "cloudy"}
	mathWords         = []string{"calculate", "math", "plus", "minus", "multiply", "divide", "+", "-", "*", "/", "times"}
	robotWords        = []string{"robot", "move", "walk", "drive"}
	capabilitiesWords = []string{"can you", "what can", "help", "do", "abilities", "capabilities"}
	identityWords     = []string{"who are you", "what are you", "tell me about yourself", "introduce yourself"}
)
