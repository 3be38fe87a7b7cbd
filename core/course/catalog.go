package course

// VideoCourses are bundled with the app, they are not stored in any sheet.
var VideoCourses = []VideoCourse{
	{
		ID:          "video_course_1",
		Title:       "Course Videos - Set 1",
		Description: "Islamic learning videos collection - Part 1",
		Videos: []Video{
			{Title: "Video 1", URL: "https://www.youtube.com/embed/zalLv2NY98k"},
			{Title: "Video 2", URL: "https://www.youtube.com/embed/VIDEO_ID_2"},
			{Title: "Video 3", URL: "https://www.youtube.com/embed/VIDEO_ID_3"},
			{Title: "Video 4", URL: "https://www.youtube.com/embed/VIDEO_ID_4"},
			{Title: "Video 5", URL: "https://www.youtube.com/embed/VIDEO_ID_5"},
		},
	},
	{
		ID:          "video_course_2",
		Title:       "Course Videos - Set 2",
		Description: "Islamic learning videos collection - Part 2",
		Videos: []Video{
			{Title: "Video 1", URL: "https://www.youtube.com/embed/VIDEO_ID_6"},
			{Title: "Video 2", URL: "https://www.youtube.com/embed/VIDEO_ID_7"},
			{Title: "Video 3", URL: "https://www.youtube.com/embed/VIDEO_ID_8"},
			{Title: "Video 4", URL: "https://www.youtube.com/embed/VIDEO_ID_9"},
			{Title: "Video 5", URL: "https://www.youtube.com/embed/VIDEO_ID_10"},
		},
	},
}

// QuizCourses are bundled with the app, they are not stored in any sheet.
var QuizCourses = []QuizCourse{
	{
		ID:          "quiz_course_1",
		Title:       "Course Practical - 1",
		Description: "Islamic knowledge quiz - Assessment 1",
		Questions: []Question{
			{Question: "What is the first pillar of Islam?", Options: []string{"Salah", "Shahada", "Zakat"}, Correct: 1},
			{Question: "How many times a day do Muslims pray?", Options: []string{"3 times", "5 times", "7 times"}, Correct: 1},
			{Question: "Which month is the holy month of fasting?", Options: []string{"Ramadan", "Shawwal", "Muharram"}, Correct: 0},
			{Question: "What is the direction Muslims face when praying?", Options: []string{"East", "West", "Qibla"}, Correct: 2},
			{Question: "What is the holy book of Islam?", Options: []string{"Torah", "Quran", "Bible"}, Correct: 1},
		},
	},
	{
		ID:          "quiz_course_2",
		Title:       "Course Practical - 2",
		Description: "Islamic knowledge quiz - Assessment 2",
		Questions: []Question{
			{Question: "Who is the last Prophet of Islam?", Options: []string{"Prophet Isa", "Prophet Muhammad", "Prophet Musa"}, Correct: 1},
			{Question: "What does 'Hajj' refer to?", Options: []string{"Daily prayer", "Pilgrimage to Mecca", "Charity"}, Correct: 1},
			{Question: "In which city is the Kaaba located?", Options: []string{"Medina", "Mecca", "Jerusalem"}, Correct: 1},
			{Question: "What is 'Zakat'?", Options: []string{"Fasting", "Prayer", "Charitable giving"}, Correct: 2},
			{Question: "How many chapters (Surahs) are in the Quran?", Options: []string{"114", "110", "120"}, Correct: 0},
		},
	},
}

func VideoCourseByID(id string) (VideoCourse, bool) {
	for _, c := range VideoCourses {
		if c.ID == id {
			return c, true
		}
	}
	return VideoCourse{}, false
}

func QuizCourseByID(id string) (QuizCourse, bool) {
	for _, c := range QuizCourses {
		if c.ID == id {
			return c, true
		}
	}
	return QuizCourse{}, false
}

// CatalogIDs returns the IDs of all bundled courses.
func CatalogIDs() []string {
	ids := make([]string, 0, len(VideoCourses)+len(QuizCourses))
	for _, c := range VideoCourses {
		ids = append(ids, c.ID)
	}
	for _, c := range QuizCourses {
		ids = append(ids, c.ID)
	}
	return ids
}
