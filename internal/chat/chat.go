// Package chat is the scripted nutrition assistant. Replies come from a
// fixed table of canned answers.
package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	SenderUser      = "user"
	SenderAssistant = "assistant"
)

const (
	Greeting       = "Hi there! I'm your AI nutrition coach. How can I help with your nutrition or weight loss journey today?"
	DefaultReply   = "I can help with nutrition advice, meal ideas, and weight management strategies. What specific question do you have about your nutrition goals?"
	maxQueryLength = 1000
)

var (
	ErrEmptyQuery   = errors.New("query is empty")
	ErrQueryTooLong = errors.New("query is too long")
)

type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Sender    string    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

type canned struct {
	key   string
	reply string
}

// Order matters: when several keys match, the last one wins.
var responses = []canned{
	{
		key: "what's a healthy snack under 150 calories?",
		reply: "Great question! Here are some healthy snack options under 150 calories:\n\n" +
			"• 1 medium apple (95 calories)\n" +
			"• 1 cup of baby carrots with 2 tbsp hummus (130 calories)\n" +
			"• 1 hard-boiled egg with a small piece of fruit (135 calories)\n" +
			"• 1/4 cup of unsalted nuts (140 calories)\n" +
			"• Greek yogurt with berries (120 calories)",
	},
	{
		key: "how do i break a plateau?",
		reply: "Breaking a weight loss plateau requires a few strategic adjustments:\n\n" +
			"1. Recalculate your calorie needs - your metabolism adapts as you lose weight\n" +
			"2. Increase protein intake to preserve muscle mass\n" +
			"3. Mix up your exercise routine to challenge your body differently\n" +
			"4. Ensure adequate sleep and stress management\n" +
			"5. Track your food intake more accurately - hidden calories may be sneaking in\n\n" +
			"Consistency is key! Small adjustments can restart your progress.",
	},
	{
		key: "what are good sources of protein?",
		reply: "Excellent sources of protein include:\n\n" +
			"• Lean meats: chicken breast, turkey, lean beef\n" +
			"• Fish: salmon, tuna, tilapia\n" +
			"• Plant-based: tofu, tempeh, lentils, chickpeas\n" +
			"• Dairy: Greek yogurt, cottage cheese\n" +
			"• Eggs and egg whites\n" +
			"• Protein powders: whey, casein, pea protein\n\n" +
			"Aim for 0.7-1g of protein per pound of body weight for optimal muscle maintenance during weight loss.",
	},
}

// Assistant answers chat queries after an artificial delay.
type Assistant struct {
	delay time.Duration
	now   func() time.Time
}

func NewAssistant(delay time.Duration) *Assistant {
	return &Assistant{delay: delay, now: time.Now}
}

// Suggestions are the questions the assistant has answers for.
func Suggestions() []string {
	out := make([]string, len(responses))
	for i, r := range responses {
		out[i] = r.key
	}
	return out
}

// Lookup returns the canned reply for query. A key matches when either string
// contains the other after lower-casing and trimming.
func Lookup(query string) string {
	q := strings.ToLower(strings.TrimSpace(query))
	reply := DefaultReply
	if q == "" {
		return reply
	}
	for _, r := range responses {
		if strings.Contains(q, r.key) || strings.Contains(r.key, q) {
			reply = r.reply
		}
	}
	return reply
}

// GreetingMessage is the first assistant message of a conversation.
func (a *Assistant) GreetingMessage() Message {
	return a.message(Greeting, SenderAssistant)
}

// Reply waits out the configured delay, then answers. It returns ctx.Err()
// if the context ends first.
func (a *Assistant) Reply(ctx context.Context, query string) (Message, error) {
	if strings.TrimSpace(query) == "" {
		return Message{}, ErrEmptyQuery
	}
	if len(query) > maxQueryLength {
		return Message{}, ErrQueryTooLong
	}

	if a.delay > 0 {
		timer := time.NewTimer(a.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Message{}, ctx.Err()
		case <-timer.C:
		}
	}
	return a.message(Lookup(query), SenderAssistant), nil
}

func (a *Assistant) message(content, sender string) Message {
	return Message{
		ID:        uuid.NewString(),
		Content:   content,
		Sender:    sender,
		Timestamp: a.now().UTC(),
	}
}
