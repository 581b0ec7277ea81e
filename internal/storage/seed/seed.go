// Package seed はアプリケーションの初期コンテンツを提供する。
package seed

import (
	"context"
	"fmt"

	"github.com/hitoshi/soulelevate/internal/model"
	"github.com/hitoshi/soulelevate/internal/storage"
)

// Quotes は初期の名言。先頭のみ注目。
var Quotes = []model.NewQuote{
	{Text: "The journey of a thousand miles begins with a single step.", Author: "Lao Tzu", Featured: true},
	{Text: "You are never too old to set another goal or to dream a new dream.", Author: "C.S. Lewis"},
	{Text: "Success is not final, failure is not fatal: It is the courage to continue that counts.", Author: "Winston Churchill"},
	{Text: "The only way to do great work is to love what you do.", Author: "Steve Jobs"},
	{Text: "Believe you can and you're halfway there.", Author: "Theodore Roosevelt"},
}

// Tips は初期のヒント。
var Tips = []model.NewTip{
	{Title: "Pomodoro Technique", Content: "Work in focused 25-minute intervals with 5-minute breaks. After 4 intervals, take a longer break of 15-30 minutes.", Category: model.CategoryProductivity},
	{Title: "Eisenhower Matrix", Content: "Prioritize tasks by organizing them into four categories: urgent/important, important/not urgent, urgent/not important, and neither.", Category: model.CategoryProductivity},
	{Title: "Two-Minute Rule", Content: "If a task takes less than two minutes to complete, do it immediately instead of putting it off for later.", Category: model.CategoryProductivity},
	{Title: "Growth Mindset", Content: "Embrace challenges, persist in the face of setbacks, and view effort as the path to mastery.", Category: model.CategoryMindset},
	{Title: "Gratitude Practice", Content: "Write down three things you're grateful for each day to increase positivity and resilience.", Category: model.CategoryMindset},
	{Title: "Morning Exercise", Content: "Start your day with 20 minutes of physical activity to boost mood and energy levels.", Category: model.CategoryHealth},
	{Title: "Hydration Habit", Content: "Drink a glass of water first thing in the morning and keep a water bottle with you throughout the day.", Category: model.CategoryHealth},
	{Title: "Goal Setting Framework", Content: "Create SMART goals: Specific, Measurable, Achievable, Relevant, and Time-bound.", Category: model.CategorySuccess},
	{Title: "Feedback Loop", Content: "Regularly seek feedback from trusted sources to identify blind spots and areas for improvement.", Category: model.CategorySuccess},
}

const sampleVideoURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

// Media は初期のメディア。videoとaudioで1件ずつ注目。
var Media = []model.NewMedia{
	{
		Title:           "5 Mindfulness Practices for Daily Life",
		Description:     "Learn simple techniques to stay present and reduce stress throughout your day.",
		Type:            model.MediaTypeVideo,
		URL:             sampleVideoURL,
		Duration:        "5:20",
		DurationSeconds: 320,
		Thumbnail:       "https://images.unsplash.com/photo-1501139083538-0139583c060f?ixlib=rb-4.0.3&auto=format&fit=crop&w=1000&q=80",
		Featured:        true,
		Category:        "Mindfulness",
	},
	{
		Title:           "Productivity Hacks for Working From Home",
		Description:     "Tips to maintain focus and efficiency in a home office environment.",
		Type:            model.MediaTypeVideo,
		URL:             sampleVideoURL,
		Duration:        "10:25",
		DurationSeconds: 625,
		Thumbnail:       "https://images.unsplash.com/photo-1483058712412-4245e9b90334?ixlib=rb-4.0.3&auto=format&fit=crop&w=500&q=80",
		Category:        "Productivity",
	},
	{
		Title:           "Journaling for Mental Clarity",
		Description:     "How to use journaling to process emotions and gain perspective.",
		Type:            model.MediaTypeVideo,
		URL:             sampleVideoURL,
		Duration:        "7:18",
		DurationSeconds: 438,
		Thumbnail:       "https://images.unsplash.com/photo-1464132692293-0c0c7a51d532?ixlib=rb-4.0.3&auto=format&fit=crop&w=500&q=80",
		Category:        "Mental Health",
	},
	{
		Title:           "Morning Routine for Success",
		Description:     "Start your day with purpose using this effective morning routine.",
		Type:            model.MediaTypeVideo,
		URL:             sampleVideoURL,
		Duration:        "15:40",
		DurationSeconds: 940,
		Thumbnail:       "https://images.unsplash.com/photo-1434494878577-86c23bcb06b9?ixlib=rb-4.0.3&auto=format&fit=crop&w=500&q=80",
		Category:        "Productivity",
	},
	{
		Title:           "Guided Meditation for Focus",
		Description:     "10 minute practice",
		Type:            model.MediaTypeAudio,
		URL:             "https://example.com/audio/meditation.mp3",
		Duration:        "10:00",
		DurationSeconds: 600,
		Featured:        true,
		Category:        "Meditation",
	},
	{
		Title:           "Positive Affirmations for Confidence",
		Description:     "Daily Practice",
		Type:            model.MediaTypeAudio,
		URL:             "https://example.com/audio/affirmations.mp3",
		Duration:        "5:20",
		DurationSeconds: 320,
		Category:        "Confidence",
	},
	{
		Title:           "Evening Relaxation Technique",
		Description:     "Sleep Better",
		Type:            model.MediaTypeAudio,
		URL:             "https://example.com/audio/relaxation.mp3",
		Duration:        "7:45",
		DurationSeconds: 465,
		Category:        "Sleep",
	},
	{
		Title:           "Overcoming Self-Doubt",
		Description:     "Motivation",
		Type:            model.MediaTypeAudio,
		URL:             "https://example.com/audio/self-doubt.mp3",
		Duration:        "12:30",
		DurationSeconds: 750,
		Category:        "Confidence",
	},
	{
		Title:           "Focus Enhancement Exercise",
		Description:     "Productivity",
		Type:            model.MediaTypeAudio,
		URL:             "https://example.com/audio/focus.mp3",
		Duration:        "8:15",
		DurationSeconds: 495,
		Category:        "Productivity",
	},
}

// Challenges は初期のチャレンジ。
var Challenges = []model.NewChallenge{
	{
		Title:       "30-Day Productivity Boost",
		Description: "Transform your productivity with daily actionable tasks designed to help you work smarter and accomplish more.",
		Category:    model.CategoryProductivity,
		Difficulty:  model.DifficultyMedium,
		Duration:    30,
		Steps: []string{
			"Create a priority-based to-do list system",
			"Implement time blocking in your calendar",
			"Practice the Pomodoro Technique",
			"Declutter your workspace",
			"Establish a morning routine",
			"Set up digital boundaries (notifications, email times)",
			"Learn keyboard shortcuts for your most-used programs",
		},
	},
	{
		Title:       "Mindfulness Starter Pack",
		Description: "Begin your mindfulness journey with this gentle introduction to present-moment awareness practices.",
		Category:    model.CategoryMindset,
		Difficulty:  model.DifficultyEasy,
		Duration:    14,
		Steps: []string{
			"Practice 5 minutes of focused breathing",
			"Perform a body scan meditation",
			"Try mindful eating for one meal",
			"Take a mindful walking break",
			"Practice gratitude journaling",
			"Do a digital detox for one hour",
			"Observe thoughts without judgment",
		},
	},
	{
		Title:       "Fitness Foundation Builder",
		Description: "Create a sustainable fitness routine with graduated challenges suitable for beginners.",
		Category:    model.CategoryHealth,
		Difficulty:  model.DifficultyMedium,
		Duration:    21,
		Steps: []string{
			"Walk 10,000 steps daily",
			"Complete a beginner's stretching routine",
			"Try a 7-minute high-intensity workout",
			"Take the stairs instead of elevators",
			"Do a beginner's yoga session",
			"Incorporate 3 strength training sessions per week",
			"Schedule active recovery days",
		},
	},
	{
		Title:       "Goal-Setting Mastery",
		Description: "Learn the art and science of effective goal setting to achieve your dreams with greater clarity and purpose.",
		Category:    model.CategorySuccess,
		Difficulty:  model.DifficultyHard,
		Duration:    28,
		Steps: []string{
			"Define your core values and long-term vision",
			"Create SMART goals for 3 life areas",
			"Break down goals into actionable tasks",
			"Establish tracking metrics for each goal",
			"Implement weekly review sessions",
			"Create accountability mechanisms",
			"Learn to pivot when strategies aren't working",
		},
	},
}

// Result は投入件数。
type Result struct {
	Quotes     int
	Tips       int
	Media      int
	Challenges int
}

// Apply は初期コンテンツを投入する。
// 通常の作成処理を通すため、featuredの一意性も同じ規則で保たれる。
// コレクションごとに既存レコードがあれば投入をスキップするので、繰り返し実行しても重複しない。
func Apply(ctx context.Context, s storage.Storage) (Result, error) {
	var res Result

	quotes, err := s.GetAllQuotes(ctx)
	if err != nil {
		return res, fmt.Errorf("名言の取得に失敗しました: %w", err)
	}
	if len(quotes) == 0 {
		for _, q := range Quotes {
			if _, err := s.CreateQuote(ctx, q); err != nil {
				return res, fmt.Errorf("名言の投入に失敗しました: %w", err)
			}
			res.Quotes++
		}
	}

	tips, err := s.GetAllTips(ctx)
	if err != nil {
		return res, fmt.Errorf("ヒントの取得に失敗しました: %w", err)
	}
	if len(tips) == 0 {
		for _, t := range Tips {
			if _, err := s.CreateTip(ctx, t); err != nil {
				return res, fmt.Errorf("ヒントの投入に失敗しました: %w", err)
			}
			res.Tips++
		}
	}

	media, err := s.GetAllMedia(ctx)
	if err != nil {
		return res, fmt.Errorf("メディアの取得に失敗しました: %w", err)
	}
	if len(media) == 0 {
		for _, m := range Media {
			if _, err := s.CreateMedia(ctx, m); err != nil {
				return res, fmt.Errorf("メディアの投入に失敗しました: %w", err)
			}
			res.Media++
		}
	}

	challenges, err := s.GetAllChallenges(ctx)
	if err != nil {
		return res, fmt.Errorf("チャレンジの取得に失敗しました: %w", err)
	}
	if len(challenges) == 0 {
		for _, c := range Challenges {
			if _, err := s.CreateChallenge(ctx, c); err != nil {
				return res, fmt.Errorf("チャレンジの投入に失敗しました: %w", err)
			}
			res.Challenges++
		}
	}

	return res, nil
}
