package activity

import (
	"activitylog/internal/lightbox"
	"activitylog/internal/model"
	"activitylog/internal/scrollspy"
)

const (
	// PlaceholderEmpty is shown when no event survives the filter.
	PlaceholderEmpty = "No events found."
	// PlaceholderLoadFailed is shown when the events document could not be loaded.
	PlaceholderLoadFailed = "Unable to load events."
)

// ViewState is everything besides the event list that shapes the page.
// Maps are keyed by event ID; nil maps mean "all defaults".
type ViewState struct {
	Query string
	Lang  string

	LoadErr error

	SelectedVideo map[string]int
	Playing       map[string]bool
	Expanded      map[string]bool

	// ActiveCard is the anchor of the card whose outline entry is highlighted.
	ActiveCard string

	Lightbox *lightbox.Lightbox
}

// View is the declarative description of the activity page.
type View struct {
	Title       string         `json:"title"`
	Lang        string         `json:"lang"`
	Query       string         `json:"query"`
	Placeholder string         `json:"placeholder,omitempty"`
	Total       int            `json:"total"`
	Cards       []CardView     `json:"cards"`
	Outline     []OutlineMonth `json:"outline"`
	ActiveCard  string         `json:"active_card,omitempty"`
	Lightbox    lightbox.State `json:"lightbox"`
}

// CardView is one rendered event.
type CardView struct {
	ID           string     `json:"id"`
	Anchor       string     `json:"anchor"`
	Title        string     `json:"title"`
	TitleML      string     `json:"title_ml"`
	DateText     string     `json:"date"`
	Subtitles    []string   `json:"subtitles,omitempty"`
	SummaryML    string     `json:"summary_ml,omitempty"`
	Summary      string     `json:"summary,omitempty"`
	IconSrc      string     `json:"icon"`
	IconAlt      string     `json:"icon_alt"`
	FallbackIcon string     `json:"fallback_icon"`
	Season       string     `json:"season"`
	SideGradient string     `json:"side_gradient,omitempty"`
	Gallery      Gallery    `json:"gallery"`
	ToggleLabel  string     `json:"toggle_label,omitempty"`
	Video        *VideoView `json:"video,omitempty"`
}

// VideoView is the video block of a card.
type VideoView struct {
	Poster         string         `json:"poster"`
	FallbackPoster string         `json:"fallback_poster,omitempty"`
	PosterAlt      string         `json:"poster_alt"`
	Caption        string         `json:"caption,omitempty"`
	Playing        bool           `json:"playing"`
	PlayerURL      string         `json:"player_url,omitempty"`
	Selected       int            `json:"selected"`
	Controls       []VideoControl `json:"controls,omitempty"`
	Sources        []VideoSource  `json:"sources"`
}

// VideoSource carries per-entry URLs so the browser can switch entries
// without another request.
type VideoSource struct {
	Embed          string `json:"embed"`
	Poster         string `json:"poster"`
	FallbackPoster string `json:"fallback_poster"`
}

// OutlineMonth is one month block of the side index.
type OutlineMonth struct {
	Key        string        `json:"key"`
	Label      string        `json:"label"`
	Season     string        `json:"season"`
	Glyph      string        `json:"glyph"`
	Gradient   string        `json:"gradient"`
	MonthClass string        `json:"month_class"`
	Links      []OutlineLink `json:"links"`
}

// OutlineLink points at one card.
type OutlineLink struct {
	Anchor  string `json:"anchor"`
	Href    string `json:"href"`
	TitleML string `json:"title_ml"`
	Title   string `json:"title"`
	Active  bool   `json:"active"`
}

// BuildView filters events by st.Query and describes the resulting page.
func BuildView(events []model.Event, st ViewState, opts Options) View {
	lang := st.Lang
	if lang == "" {
		lang = opts.Lang
	}
	v := View{
		Title:      opts.SiteTitle,
		Lang:       lang,
		Query:    st.Query,
		Lightbox: st.Lightbox.Snapshot(),
		Cards:    []CardView{},
		Outline:  []OutlineMonth{},
	}

	if st.LoadErr != nil {
		v.Placeholder = PlaceholderLoadFailed
		return v
	}

	filtered := Filter(events, st.Query)
	v.Total = len(filtered)
	if len(filtered) == 0 {
		v.Placeholder = PlaceholderEmpty
		return v
	}

	for _, ev := range filtered {
		v.Cards = append(v.Cards, buildCard(ev, st, opts))
	}

	for _, m := range GroupByMonth(filtered, opts.Seasons) {
		season := opts.Seasons.Lookup(m.Season)
		om := OutlineMonth{
			Key:        m.Key,
			Label:      m.Label,
			Season:     season.Tag,
			Glyph:      season.Glyph,
			Gradient:   season.Gradient,
			MonthClass: "month--" + season.Tag,
		}
		for _, d := range m.Dates {
			for _, ev := range d.Events {
				om.Links = append(om.Links, OutlineLink{
					Anchor:  ev.Anchor,
					Href:    "#" + ev.Anchor,
					TitleML: ev.TitleML,
					Title:   ev.Title,
				})
			}
		}
		v.Outline = append(v.Outline, om)
	}
	markActive(&v, st.ActiveCard)
	return v
}

// markActive highlights the outline entry for the requested card. An
// anchor that names no rendered card leaves nothing highlighted.
func markActive(v *View, requested string) {
	if requested == "" {
		return
	}
	cards := make([]string, len(v.Cards))
	for i, c := range v.Cards {
		cards[i] = c.Anchor
	}
	var hrefs []string
	for _, m := range v.Outline {
		for _, l := range m.Links {
			hrefs = append(hrefs, l.Href)
		}
	}

	spy := scrollspy.New()
	if !spy.Start(cards, hrefs) {
		return
	}
	if _, ok := spy.Click(requested); !ok {
		return
	}
	v.ActiveCard = spy.Active()
	for i := range v.Outline {
		for j := range v.Outline[i].Links {
			l := &v.Outline[i].Links[j]
			l.Active = l.Href == spy.ActiveLink()
		}
	}
}

func buildCard(ev model.Event, st ViewState, opts Options) CardView {
	name := ev.Title
	if name == "" {
		name = ev.TitleML
	}
	iconName := name
	if iconName == "" {
		iconName = "event"
	}

	season := opts.Seasons.Lookup(ev.Season)
	gallery := NewGallery(ev, opts.Visible)
	gallery.Expanded = st.Expanded[ev.ID]

	c := CardView{
		ID:           ev.ID,
		Anchor:       ev.Anchor,
		Title:        ev.Title,
		TitleML:      ev.TitleML,
		DateText:     FormatDate(ev.Date, ev.Day),
		Subtitles:    Subtitles(ev),
		SummaryML:    ev.SummaryML,
		Summary:      ev.Summary,
		IconSrc:      ev.IconPath,
		IconAlt:      iconName + " icon",
		FallbackIcon: ev.FallbackIconPath,
		Season:       season.Tag,
		SideGradient: season.Gradient,
		Gallery:      gallery,
	}
	if gallery.HasToggle() {
		c.ToggleLabel = gallery.ToggleLabel()
	}

	block := NewVideoBlock(ev.Videos, opts.Platform)
	if block == nil {
		return c
	}
	block.Select(st.SelectedVideo[ev.ID])
	if st.Playing[ev.ID] {
		block.Play()
	}

	posterAlt := name
	if posterAlt == "" {
		posterAlt = "Event video poster"
	}
	vv := &VideoView{
		Poster:         block.PosterURL(),
		FallbackPoster: opts.Platform.FallbackPosterURL(ev.Videos[block.Selected()].ID),
		PosterAlt:      posterAlt,
		Caption:        ev.Organizer,
		Playing:        block.Playing(),
		Selected:       block.Selected(),
		Controls:       block.Controls(),
	}
	if block.Playing() {
		vv.PlayerURL = block.PlayerURL()
	}
	for _, e := range block.Entries() {
		vv.Sources = append(vv.Sources, VideoSource{
			Embed:          embedFor(e, opts.Platform),
			Poster:         opts.Platform.PosterURL(e.ID),
			FallbackPoster: opts.Platform.FallbackPosterURL(e.ID),
		})
	}
	c.Video = vv
	return c
}
