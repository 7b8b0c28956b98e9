// Package seed provides helpers to create demo data for development
// databases. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"strings"
	"time"

	"campusvibe/internal/models"

	"github.com/brianvoe/gofakeit/v6"
)

var (
	pollQuestions = []string{
		"Best place to study on campus?",
		"Which dining hall actually slaps?",
		"Worst 8am class?",
		"How many hours of sleep did you get last night?",
		"Should the library be open 24/7?",
		"Favorite spot for a first date near campus?",
	}

	pollAnswers = []string{
		"Library", "Student center", "Dorm room", "Coffee shop", "Outside",
		"North hall", "South hall", "Neither", "Yes", "No", "Depends",
		"Under 4", "4 to 6", "6 to 8", "More than 8",
	}

	openers = map[models.Category][]string{
		models.CategoryConfession: {"I never told anyone but", "Confession:", "Not proud of it but"},
		models.CategoryCrush:      {"To the person in my", "Crush alert:", "If you sat next to me in"},
		models.CategoryMeme:       {"Me at 3am:", "Nobody:", "POV:"},
		models.CategoryRant:       {"Can we talk about", "Why is it that", "I am so done with"},
		models.CategoryCompliment: {"Shoutout to", "Whoever left a note in", "Huge thanks to"},
	}
)

// Factory builds domain entities with fake but plausible content. It does
// not touch the database.
type Factory struct {
	faker  *gofakeit.Faker
	now    time.Time
	maxAge time.Duration
}

// NewFactory returns a Factory whose output is fully determined by seed.
// Timestamps are spread over maxAge before now.
func NewFactory(seed int64, now time.Time, maxAge time.Duration) *Factory {
	if maxAge <= 0 {
		maxAge = 7 * 24 * time.Hour
	}
	return &Factory{faker: gofakeit.New(seed), now: now.UTC(), maxAge: maxAge}
}

// DeviceID returns a random device identifier.
func (f *Factory) DeviceID() string {
	return "seed-" + f.faker.UUID()
}

// Category picks one of the post categories.
func (f *Factory) Category() models.Category {
	return models.Categories[f.faker.Number(0, len(models.Categories)-1)]
}

// Chance reports true with probability p.
func (f *Factory) Chance(p float64) bool {
	return f.faker.Float64Range(0, 1) < p
}

// Intn returns a value in [0, n).
func (f *Factory) Intn(n int) int {
	if n <= 1 {
		return 0
	}
	return f.faker.Number(0, n-1)
}

// since returns a timestamp at most window before now.
func (f *Factory) since(window time.Duration) time.Time {
	back := time.Duration(f.faker.Number(0, int(window/time.Minute))) * time.Minute
	return f.now.Add(-back)
}

// Post builds a post owned by userID. About one post in five carries a TTL,
// and some of those are already past it.
func (f *Factory) Post(userID string) *models.Post {
	category := f.Category()
	opener := f.faker.RandomString(openers[category])
	post := &models.Post{
		UserID:    userID,
		Category:  category,
		Content:   clip(opener+" "+f.faker.Paragraph(1, f.faker.Number(1, 4), 10, " "), 2000),
		CreatedAt: f.since(f.maxAge),
	}
	if f.Chance(0.3) {
		url := fmt.Sprintf("https://picsum.photos/seed/%s/800/800", f.faker.UUID())
		post.ImageURL = &url
	}
	if f.Chance(0.2) {
		expires := post.CreatedAt.Add(time.Duration(f.faker.Number(1, 48)) * time.Hour)
		post.ExpiresAt = &expires
	}
	return post
}

// Comment builds a comment on post, written after it.
func (f *Factory) Comment(post *models.Post, userID string) *models.Comment {
	age := f.now.Sub(post.CreatedAt)
	createdAt := post.CreatedAt
	if age > time.Minute {
		createdAt = post.CreatedAt.Add(time.Duration(f.faker.Number(1, int(age/time.Minute))) * time.Minute)
	}
	return &models.Comment{
		PostID:    post.ID,
		UserID:    userID,
		Content:   clip(f.faker.Sentence(f.faker.Number(3, 16)), 2000),
		CreatedAt: createdAt,
	}
}

// Story builds a story from the last 36 hours, so roughly a third of the
// generated stories are already out of the feed.
func (f *Factory) Story(userID string) *models.Story {
	story := &models.Story{
		UserID:    userID,
		ImageURL:  fmt.Sprintf("https://picsum.photos/seed/story-%s/1080/1920", f.faker.UUID()),
		CreatedAt: f.since(36 * time.Hour),
	}
	if f.Chance(0.6) {
		caption := clip(f.faker.Sentence(f.faker.Number(2, 8)), 500)
		story.Caption = &caption
	}
	return story
}

// Poll builds a poll with two to four distinct options.
func (f *Factory) Poll(userID string) *models.Poll {
	poll := &models.Poll{
		UserID:    userID,
		Question:  f.faker.RandomString(pollQuestions),
		Category:  f.Category(),
		CreatedAt: f.since(f.maxAge),
	}
	n := f.faker.Number(2, 4)
	answers := append([]string(nil), pollAnswers...)
	f.faker.ShuffleStrings(answers)
	for _, text := range answers[:n] {
		poll.Options = append(poll.Options, models.PollOption{OptionText: text})
	}
	if f.Chance(0.25) {
		expires := poll.CreatedAt.Add(72 * time.Hour)
		poll.ExpiresAt = &expires
	}
	return poll
}

// VoteType leans positive, like real feeds do.
func (f *Factory) VoteType() models.VoteType {
	if f.Chance(0.75) {
		return models.VoteUp
	}
	return models.VoteDown
}

func clip(s string, max int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
