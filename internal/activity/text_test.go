package activity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"activitylog/internal/model"
)

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "community healthcamp 2025", normalizeText("  Community   Health-Camp, 2025! "))
	assert.Equal(t, "കരുണ്യ trust", normalizeText("കരുണ്യ  Trust."))
	assert.Equal(t, "snake_case", normalizeText("Snake_Case"))
	assert.Empty(t, normalizeText("!!! ---"))
}

func TestSubtitlesIdenticalOrganizersCollapse(t *testing.T) {
	ev := model.Event{Title: "Yoga Day", OrganizerML: "Karunya Trust", Organizer: "karunya trust."}
	assert.Equal(t, []string{"Karunya Trust"}, Subtitles(ev))
}

func TestSubtitlesOrganizerEqualToTitle(t *testing.T) {
	ev := model.Event{Title: "Health Camp", TitleML: "ആരോഗ്യ ക്യാമ്പ്", Organizer: "Health Camp", OrganizerML: "ആരോഗ്യ ക്യാമ്പ്"}
	assert.Empty(t, Subtitles(ev))
}

func TestSubtitlesSubstringOfTitleSuppressed(t *testing.T) {
	ev := model.Event{TitleML: "Community Health Camp 2025", OrganizerML: "Community Health Camp"}
	assert.Empty(t, Subtitles(ev))

	ev = model.Event{Title: "Camp", Organizer: "Camp organizers of the Karunya Trust"}
	assert.Empty(t, Subtitles(ev), "superstring of the title is suppressed too")
}

func TestSubtitlesDistinctLinesKeptInOrder(t *testing.T) {
	ev := model.Event{Title: "Onam Feast", OrganizerML: "കരുണ്യ ട്രസ്റ്റ്", Organizer: "Rotary Club Kochi"}
	assert.Equal(t, []string{"കരുണ്യ ട്രസ്റ്റ്", "Rotary Club Kochi"}, Subtitles(ev))
}

func TestSubtitlesOverlapThresholdIsInclusive(t *testing.T) {
	// 3 shared tokens out of 5: exactly 0.6.
	at := model.Event{
		Title:       "Annual Day",
		OrganizerML: "alpha beta gamma delta epsilon",
		Organizer:   "alpha beta gamma zeta eta",
	}
	assert.Equal(t, []string{"alpha beta gamma delta epsilon"}, Subtitles(at))

	// 2 shared tokens out of 4: 0.5, kept.
	below := model.Event{
		Title:       "Annual Day",
		OrganizerML: "alpha beta gamma delta",
		Organizer:   "alpha beta zeta eta",
	}
	assert.Equal(t, []string{"alpha beta gamma delta", "alpha beta zeta eta"}, Subtitles(below))
}

func TestTokenOverlapUsesSmallerSet(t *testing.T) {
	assert.InDelta(t, 1.0, tokenOverlap("a b", "a b c d e"), 1e-9)
	assert.InDelta(t, 0.5, tokenOverlap("a a b c", "a x"), 1e-9)
	assert.True(t, effectivelySame("x y z", "z y x"))
	assert.False(t, effectivelySame("", "x"))
}

func TestSubtitlesEmptyTitleDoesNotSwallowEverything(t *testing.T) {
	ev := model.Event{Organizer: "Rotary Club"}
	assert.Equal(t, []string{"Rotary Club"}, Subtitles(ev))
}
