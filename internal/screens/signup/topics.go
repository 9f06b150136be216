package signup

// Topic is one entry of the favourite-topics survey.
type Topic struct {
	Slug string
	Name string
}

// TopicGroup is a heading in the survey.
type TopicGroup struct {
	Concept string
	Topics  []Topic
}

// SurveyTopics is the optional survey shown after the account form.
var SurveyTopics = []TopicGroup{
	{Concept: "Science & Technology", Topics: []Topic{
		{"physics", "Physics"}, {"chemistry", "Chemistry"}, {"biology", "Biology"},
		{"ai", "Artificial intelligence"}, {"cs", "Computer science"}, {"math", "Mathematics"},
		{"astronomy", "Astronomy"},
	}},
	{Concept: "History & Society", Topics: []Topic{
		{"history", "History"}, {"countries", "Countries"}, {"economics", "Economics"},
		{"geography", "Geography"}, {"philosophy", "Philosophy"},
	}},
	{Concept: "Arts & Culture", Topics: []Topic{
		{"art", "Art"}, {"music", "Music"}, {"literature", "Literature"},
		{"movies", "Movies"}, {"design", "Design"},
	}},
	{Concept: "Languages", Topics: []Topic{
		{"english", "English"}, {"japanese", "Japanese"}, {"vietnamese", "Vietnamese"},
	}},
	{Concept: "Health & Lifestyle", Topics: []Topic{
		{"health", "Health"}, {"psychology", "Psychology"}, {"food", "Food"}, {"travel", "Travel"},
	}},
	{Concept: "Entertainment & Sports", Topics: []Topic{
		{"sports", "Sports"}, {"football", "Football"}, {"games", "Video games"},
	}},
}

// flatTopics lists every survey topic in display order.
func flatTopics() []Topic {
	var out []Topic
	for _, g := range SurveyTopics {
		out = append(out, g.Topics...)
	}
	return out
}
