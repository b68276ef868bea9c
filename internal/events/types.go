package events

import "time"

// Topic identifies the group of tables a change event refers to.
type Topic string

const (
	TopicCategories    Topic = "categories"
	TopicHabits        Topic = "habits"
	TopicCompletions   Topic = "habit_completions"
	TopicSessions      Topic = "time_sessions"
	TopicExpenses      Topic = "expenses"
	TopicTasks         Topic = "daily_tasks"
	TopicSubscriptions Topic = "subscriptions"
	TopicDateCalcs     Topic = "date_calculations"
	TopicBMI           Topic = "bmi_records"
	TopicScreenTime    Topic = "screen_time"
	TopicProfile       Topic = "user_profile"
)

// AllTopics returns every topic, for bulk writers (like a snapshot
// restore) that touch all tables at once.
func AllTopics() []Topic {
	return []Topic{
		TopicCategories, TopicHabits, TopicCompletions, TopicSessions,
		TopicExpenses, TopicTasks, TopicSubscriptions, TopicDateCalcs,
		TopicBMI, TopicScreenTime, TopicProfile,
	}
}

// Event is a table-change notification. It carries no row data; a
// subscriber re-runs its query to get the fresh result set.
type Event struct {
	Topic     Topic
	Timestamp time.Time
	Seq       int64 // monotonically increasing per broker, for ordering
}
