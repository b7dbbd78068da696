package recommend

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/couchqueue/couchqueue-server/internal/domain"
)

// User-facing messages.
const (
	EmptyWatchlistMessage = "Your watchlist is empty! Add some shows first, then come back for recommendations."
	FallbackText          = "Unable to generate recommendations."
	SummaryFallbackText   = "Unable to generate summary."

	noneYet = "(None yet)"
)

// FormatShowList renders one line per show, for example
// `- "Dark" (2017) - tv (IMDB: 8.7, RT: 95%) [Scifi, Mind-bending] — Note: "slow start"`.
// Ratings are only included when includeRatings is set. Sentiment tags are never listed.
func FormatShowList(shows []*domain.Show, includeRatings bool) string {
	lines := make([]string, 0, len(shows))
	for _, s := range shows {
		lines = append(lines, formatShow(s, includeRatings))
	}
	return strings.Join(lines, "\n")
}

func formatShow(s *domain.Show, includeRatings bool) string {
	year := "N/A"
	if s.Year != nil && *s.Year != 0 {
		year = strconv.Itoa(*s.Year)
	}
	parts := []string{fmt.Sprintf("- \"%s\" (%s) - %s", s.Title, year, s.Type)}

	if includeRatings {
		var ratings []string
		if s.IMDBRating != nil && *s.IMDBRating != 0 {
			ratings = append(ratings, "IMDB: "+strconv.FormatFloat(*s.IMDBRating, 'f', -1, 64))
		}
		if s.RottenTomatoesScore != nil && *s.RottenTomatoesScore != 0 {
			ratings = append(ratings, fmt.Sprintf("RT: %d%%", *s.RottenTomatoesScore))
		}
		if len(ratings) > 0 {
			parts = append(parts, "("+strings.Join(ratings, ", ")+")")
		}
	}

	var tags []string
	for _, t := range s.Tags {
		if !domain.IsSentimentTag(t.Name) {
			tags = append(tags, t.Name)
		}
	}
	if len(tags) > 0 {
		parts = append(parts, "["+strings.Join(tags, ", ")+"]")
	}

	if s.Comment != "" {
		parts = append(parts, fmt.Sprintf("— Note: \"%s\"", s.Comment))
	}
	return strings.Join(parts, " ")
}

// Blocks are the formatted show lists a prompt is built from.
type Blocks struct {
	Loved    string
	Liked    string
	Disliked string
	Pool     string
}

// NewBlocks formats a selection. Empty lists render as "(None yet)".
func NewBlocks(sel Selection) Blocks {
	return Blocks{
		Loved:    orNone(FormatShowList(sel.Loved, false)),
		Liked:    orNone(FormatShowList(sel.Liked, false)),
		Disliked: orNone(FormatShowList(sel.Disliked, false)),
		Pool:     orNone(FormatShowList(sel.Pool, true)),
	}
}

func orNone(s string) string {
	if s == "" {
		return noneYet
	}
	return s
}

func (b Blocks) sections() string {
	return "## Shows I LOVED (favorites):\n" + b.Loved + "\n\n" +
		"## Shows I Liked:\n" + b.Liked + "\n\n" +
		"## Shows I Didn't Like (avoid similar):\n" + b.Disliked + "\n\n" +
		"## My Watchlist:\n" + b.Pool
}

// QuickPrompt asks for a short ranked list using only the watchlist data.
func QuickPrompt(b Blocks) string {
	return "Help me decide what to watch next. Rank my watchlist based on my tastes.\n\n" +
		b.sections() + "\n\n" +
		`IMPORTANT: Pay attention to any notes I've included (e.g., "Great aesthetic but very violent"). These notes provide important context about my preferences and concerns. Use them to refine recommendations and warn about similar traits in watchlist shows.` + "\n\n" +
		"Give me a quick ranked list (top 3-5) with one sentence each explaining why. Prioritize shows similar to my loved/liked ones and avoid anything similar to what I didn't like. Format: **Title** - reason."
}

// DeepPrompt asks for web-searched reviews of the most promising titles and a full ranking.
func DeepPrompt(b Blocks) string {
	return "I need help deciding what to watch. Search for reviews of my top watchlist items.\n\n" +
		b.sections() + "\n\n" +
		`IMPORTANT: Pay attention to any notes I've included (e.g., "Great aesthetic but very violent"). These notes provide crucial context about my preferences and concerns. Use them to refine recommendations and warn about similar traits.` + "\n\n" +
		"Search for critical reviews of the top 2-3 most promising shows from my watchlist. Then rank all shows with:\n" +
		"- Why it matches my tastes (reference my loved/liked shows and my notes)\n" +
		"- What critics say\n" +
		"- Any caveats (especially if similar to my disliked shows or address concerns in my notes)\n\n" +
		"Format as numbered list with **bold titles**."
}

// CleanupPrompt asks for a raw deep analysis to be reorganized into one numbered list.
func CleanupPrompt(raw string) string {
	return "Clean up and format this recommendation analysis into a clear, consistent numbered list.\n\n" +
		"Requirements:\n" +
		"- Keep all the substantive content (show recommendations, reasons, critic opinions, caveats)\n" +
		"- Format as a numbered list: 1., 2., 3., etc.\n" +
		"- Each entry should have: **Title** followed by the recommendation text\n" +
		"- Remove redundant headers, excessive line breaks, and formatting inconsistencies\n" +
		"- Keep it concise but preserve key insights\n" +
		"- Don't add new information, just reorganize what's there\n\n" +
		"Raw analysis to clean up:\n" + raw
}

// SummaryPrompt asks for a 2-3 sentence viewer-oriented summary of a title.
func SummaryPrompt(title, overview string, mediaType domain.MediaType) string {
	kind := "movie"
	if mediaType == domain.MediaTV {
		kind = "TV show"
	}
	return fmt.Sprintf("Based on this %s overview, provide a brief 2-3 sentence summary that helps someone decide if they'd enjoy it. Focus on tone, themes, and what kind of viewer would like it.\n\n"+
		"Title: %s\nOverview: %s\n\n"+
		"Keep your response concise and helpful.", kind, title, overview)
}

// NoMatchMessage explains that the pool filters matched nothing.
func NoMatchMessage(poolTags []string) string {
	return fmt.Sprintf("No shows in your watchlist match the selected filters (%s). Try removing some filters.",
		strings.Join(poolTags, ", "))
}
