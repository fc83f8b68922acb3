package comments

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/xaitan80/footbase/internal/chain"
)

var defaultBlockedTerms = []string{"idiot", "moron", "scum", "trash team"}

// profanities get masked rather than rejected.
var profanities = []string{"damn", "crap", "hell"}

var urlPattern = regexp.MustCompile(`(?i)(https?://\S+|www\.\S+)`)

// ModerationOptions tunes the comment chain.
type ModerationOptions struct {
	BlockedTerms []string
	AllowLinks   bool
	MaxLinks     int
}

// NewModerationChain builds the chain every comment passes before it is
// stored.
func NewModerationChain(guard *SpamGuard, opts ModerationOptions, log *logrus.Logger) *chain.Chain[Comment] {
	terms := opts.BlockedTerms
	if terms == nil {
		terms = defaultBlockedTerms
	}
	maxLinks := opts.MaxLinks
	if opts.AllowLinks && maxLinks <= 0 {
		maxLinks = 2
	}
	return chain.New[Comment](log,
		BlockedTermRule{terms: terms},
		SpamRule{guard: guard, log: log},
		LengthRule{},
		LinkRule{allow: opts.AllowLinks, max: maxLinks},
	)
}

// MaskProfanity replaces each profane word with a run of asterisks of the
// same length. Matching is case-insensitive and whole-word.
func MaskProfanity(s string) string {
	for _, p := range profanities {
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(p) + `\b`)
		s = re.ReplaceAllString(s, strings.Repeat("*", len(p)))
	}
	return s
}

// BlockedTermRule rejects comments containing any denylisted term.
type BlockedTermRule struct {
	terms []string
}

func (BlockedTermRule) Name() string  { return "blocked terms" }
func (BlockedTermRule) Priority() int { return 1 }

func (r BlockedTermRule) Check(c Comment) chain.Result {
	body := strings.ToLower(c.Body)
	for _, term := range r.terms {
		if strings.Contains(body, strings.ToLower(term)) {
			return chain.Fail(r.Name(), "comment contains a term that is not allowed")
		}
	}
	return chain.Pass()
}

// SpamRule catches rapid-fire posting, long runs of a repeated character,
// and shouting. Shouting only logs.
type SpamRule struct {
	guard *SpamGuard
	log   *logrus.Logger
}

func (SpamRule) Name() string  { return "spam" }
func (SpamRule) Priority() int { return 2 }

func (r SpamRule) Check(c Comment) chain.Result {
	if r.guard.TooSoon(c.AuthorID) {
		return chain.Fail(r.Name(), "you are commenting too fast, wait a moment")
	}
	if runLength(c.Body) > 5 {
		return chain.Fail(r.Name(), "comment looks like spam (repeated characters)")
	}
	if letters, upper := letterCounts(c.Body); letters >= 10 && float64(upper) > 0.8*float64(letters) {
		r.log.WithField("author", c.AuthorID).Warn("comment is mostly uppercase")
	}
	return chain.Pass()
}

// runLength returns the longest run of one repeated rune.
func runLength(s string) int {
	var best, cur int
	var prev rune
	for i, r := range s {
		if i > 0 && r == prev {
			cur++
		} else {
			cur = 1
		}
		if cur > best {
			best = cur
		}
		prev = r
	}
	return best
}

func letterCounts(s string) (letters, upper int) {
	for _, r := range s {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	return letters, upper
}

// LengthRule bounds the trimmed comment body.
type LengthRule struct{}

func (LengthRule) Name() string  { return "length" }
func (LengthRule) Priority() int { return 3 }

func (r LengthRule) Check(c Comment) chain.Result {
	body := strings.TrimSpace(c.Body)
	if utf8.RuneCountInString(body) < 3 {
		return chain.Fail(r.Name(), "comment must be at least 3 characters")
	}
	if utf8.RuneCountInString(body) > 500 {
		return chain.Fail(r.Name(), "comment must be at most 500 characters")
	}
	return chain.Pass()
}

// LinkRule counts URLs. Links are either disallowed entirely or capped.
type LinkRule struct {
	allow bool
	max   int
}

func (LinkRule) Name() string  { return "links" }
func (LinkRule) Priority() int { return 4 }

func (r LinkRule) Check(c Comment) chain.Result {
	n := len(urlPattern.FindAllString(c.Body, -1))
	if n == 0 {
		return chain.Pass()
	}
	if !r.allow {
		return chain.Fail(r.Name(), "links are not allowed in comments")
	}
	if n > r.max {
		return chain.Fail(r.Name(), fmt.Sprintf("at most %d links per comment", r.max))
	}
	return chain.Pass()
}
