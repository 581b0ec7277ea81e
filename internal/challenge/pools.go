// Package challenge はユーザー入力からパーソナライズドチャレンジを合成するテンプレートエンジンを提供する。
//
// 生成は決定的である。同一の入力からは常に同一のタイトル・説明・ステップ列が得られる。
package challenge

import (
	"fmt"

	"github.com/hitoshi/soulelevate/internal/model"
)

// poolSize は各カテゴリのステッププールの件数。
const poolSize = 10

// Pool はカテゴリのステップ候補を固定順で返す。
// 未知のカテゴリには汎用プールを返す。
func Pool(category model.Category, interests []string) []string {
	firstInterest := "your chosen"
	if len(interests) > 0 {
		firstInterest = interests[0]
	}

	switch category {
	case model.CategoryProductivity:
		return []string{
			"Create a priority system for your tasks",
			fmt.Sprintf("Implement time blocking for %s activities", firstInterest),
			"Use the Pomodoro technique for focused work",
			"Eliminate distractions in your workspace",
			"Plan your day the night before",
			"Batch similar tasks together",
			"Take regular breaks to maintain energy",
			"Track your productivity patterns",
			"Say no to low-priority requests",
			"Reflect on your daily accomplishments",
		}
	case model.CategoryMindset:
		return []string{
			"Practice 10 minutes of mindfulness meditation",
			"Write down three things you're grateful for",
			"Challenge a limiting belief",
			"Visualize achieving your goals",
			"Read content that inspires personal growth",
			"Practice positive self-talk",
			"Keep a thought journal",
			"Take a digital detox for one hour",
			"Practice mindful breathing when stressed",
			"Reflect on your personal values",
		}
	case model.CategoryHealth:
		return []string{
			"Drink 8 glasses of water daily",
			"Take a 30-minute walk",
			"Try a new healthy recipe",
			"Stretch for 10 minutes after waking up",
			"Get 7-8 hours of sleep",
			"Take the stairs instead of the elevator",
			"Have a meat-free day",
			"Do a 7-minute high-intensity workout",
			"Practice deep breathing for 5 minutes",
			"Schedule regular screen breaks",
		}
	case model.CategorySuccess:
		return []string{
			"Define what success means to you personally",
			"Set a SMART goal related to your interests",
			"Identify potential obstacles and plan around them",
			"Find a mentor or role model in your field",
			"Learn something new related to your goals",
			"Network with people in your area of interest",
			"Track your progress with measurable metrics",
			"Celebrate small wins on your journey",
			"Read about successful people in your field",
			"Reflect on lessons learned from setbacks",
		}
	default:
		return []string{
			"Write down why this challenge matters to you",
			fmt.Sprintf("Spend 15 minutes on %s", firstInterest),
			"Pick one small action and do it today",
			"Share your goal with someone you trust",
			"Remove one obstacle from your environment",
			"Schedule a fixed time for daily practice",
			"Note one thing that went well today",
			"Review what slowed you down this week",
			"Adjust your plan based on what you learned",
			"Reflect on how far you have come",
		}
	}
}
