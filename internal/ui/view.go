package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/common-nighthawk/go-figure"

	"karolbroda.com/cakeday/internal/artwork"
	"karolbroda.com/cakeday/internal/assets"
	"karolbroda.com/cakeday/internal/colors"
	"karolbroda.com/cakeday/internal/countdown"
	"karolbroda.com/cakeday/internal/lyrics"
	"karolbroda.com/cakeday/internal/media"
	"karolbroda.com/cakeday/internal/phase"
	"karolbroda.com/cakeday/internal/terminal"
)

const (
	LyricsErrorText = "Lyrics file not found or failed to load."
	PromptText      = "The music is waiting for you."
	HintText        = "Turn the volume up for this one ♪"
	bannerText      = "Happy Birthday"
)

var fieldLabels = [4]string{"days", "hours", "minutes", "seconds"}

func (m Model) View() string {
	width := m.width
	height := m.height
	if width == 0 {
		width = 80
	}
	if height == 0 {
		height = 24
	}

	if m.quitting {
		return ""
	}

	palette := m.palette
	if palette == nil {
		palette = artwork.DefaultPalette()
	}

	footer := m.renderFooter(palette, width)
	bodyHeight := max(1, height-len(footer))

	var body []string
	switch m.phases.Current() {
	case phase.Countdown:
		body = m.renderCountdown(palette, width, bodyHeight)
	case phase.Reveal:
		body = m.renderReveal(palette, width, bodyHeight)
	case phase.Cake:
		body = m.renderCake(palette, width, bodyHeight)
	case phase.Lyrics:
		body = m.renderLyricsScreen(palette, width, bodyHeight)
	case phase.Finale:
		body = m.renderFinale(palette, width, bodyHeight)
	}
	body = fitHeight(body, bodyHeight)

	if msg, ok := m.cakePopup(); ok {
		body = overlay(body, renderPopup(palette, msg, "x to continue"), width, -1)
	}
	if m.hint {
		box := renderPopup(palette, HintText, "x to close")
		body = overlay(body, box, width, bodyHeight-lipgloss.Height(box))
	}
	if m.prompt {
		top := -1
		if m.cakePopupOpen() {
			top = 1
		}
		body = overlay(body, renderPopup(palette, PromptText, "press enter to start the music"), width, top)
	}

	return strings.Join(append(body, footer...), "\n")
}

func (m Model) renderCountdown(palette *artwork.Palette, width int, height int) []string {
	fields := m.remaining.Fields()
	digits := strings.Join(fields[:], ":")

	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Dim)).Italic(true)
	title := "counting down to " + m.countdown.Target().Format("January 2")

	block := []string{centerText(titleStyle.Render(title), lipgloss.Width(title), width), ""}

	if PixelWidth(digits)+4 <= width {
		renderer := NewTextRenderer(palette, &m.animState, width)
		block = append(block, renderer.RenderBanner(digits)...)
		block = append(block, "", m.renderFieldLabels(palette, fields, width))
	} else {
		text, w := compactRemaining(m.remaining, palette)
		block = append(block, centerText(text, w, width))
	}

	return centerVertically(block, height)
}

// renderFieldLabels puts each unit name under the middle of its digits.
func (m Model) renderFieldLabels(palette *artwork.Palette, fields [4]string, width int) string {
	digits := strings.Join(fields[:], ":")
	row := []rune(strings.Repeat(" ", PixelWidth(digits)))

	char := 0
	for i, f := range fields {
		start := char * (charWidth + charGap)
		span := PixelWidth(f)
		label := []rune(fieldLabels[i])
		at := max(0, start+(span-len(label))/2)
		for j, r := range label {
			if at+j < len(row) {
				row[at+j] = r
			}
		}
		char += len([]rune(f)) + 1
	}

	pad := max(0, (width-len(row))/2)
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Secondary))
	return strings.Repeat(" ", pad) + style.Render(string(row))
}

func compactRemaining(r countdown.Remaining, palette *artwork.Palette) (string, int) {
	f := r.Fields()
	text := fmt.Sprintf("%sd %sh %sm %ss", f[0], f[1], f[2], f[3])
	return colors.RenderGradientText(text, palette.Gradient, true), len(text)
}

func (m Model) renderReveal(palette *artwork.Palette, width int, height int) []string {
	var block []string

	if img := m.art[assets.Monkey]; img != nil && height >= 26 {
		block = append(block, centerBlock(artwork.RenderHalfBlockArt(img, 20, 8, 0), width)...)
		block = append(block, "")
	}

	block = append(block, renderBanner(palette, width)...)

	subtitle := "today is all about you"
	subStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Secondary)).Italic(true)
	block = append(block, "", centerText(subStyle.Render(subtitle), len(subtitle), width))

	if m.controls {
		block = append(block, "", "", m.renderControls(palette, width))
	}

	return centerVertically(block, height)
}

// renderBanner draws the greeting with go-figure, dropping to a smaller font
// and then to plain text as the terminal narrows.
func renderBanner(palette *artwork.Palette, width int) []string {
	for _, font := range []string{"standard", "small"} {
		rows := figure.NewFigure(bannerText, font, true).Slicify()
		if blockWidth(rows) > width-2 {
			continue
		}

		out := make([]string, 0, len(rows))
		for _, row := range rows {
			out = append(out, colors.RenderGradientText(row, palette.Gradient, true))
		}
		return centerBlock(out, width)
	}

	text := strings.ToUpper(bannerText)
	return []string{centerText(colors.RenderGradientText(text, palette.Gradient, true), len(text), width)}
}

func (m Model) renderControls(palette *artwork.Palette, width int) string {
	on := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Primary)).Bold(true)
	off := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Dim)).Faint(true)

	button := func(enabled bool, k, label string) (string, int) {
		text := "[" + k + "] " + label
		if enabled {
			return on.Render(text), len(text)
		}
		return off.Render(text), len(text)
	}

	cake, cw := button(m.keys.Cake.Enabled(), "c", "cake ceremony")
	song, sw := button(m.keys.Song.Enabled(), "s", "play our song")

	return centerText(cake+"     "+song, cw+5+sw, width)
}

func (m Model) renderCake(palette *artwork.Palette, width int, height int) []string {
	var block []string
	ended := m.cake != nil && m.cake.Ended()

	if ended {
		if img := m.art[assets.Confetti]; img != nil && height >= 30 {
			block = append(block, centerBlock(artwork.RenderHalfBlockArt(img, 28, 6, 0), width)...)
		} else {
			block = append(block, renderConfetti(palette, min(width, 40), 3, m.tickCount)...)
			block = centerBlock(block, width)
		}
		block = append(block, "")
	}

	block = append(block, centerBlock(renderCakeArt(palette, candlesFor(m.cake), m.tickCount), width)...)
	block = append(block, "")

	clip := m.players[media.Cake]
	if ended {
		msgStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Primary)).Bold(true)
		block = append(block, centerText(msgStyle.Render(CakeMessage), len(CakeMessage), width))
	} else {
		block = append(block, renderProgress(palette, clip.Position(), clip.Duration(), width))
	}

	return centerVertically(block, height)
}

func (m Model) renderLyricsScreen(palette *artwork.Palette, width int, height int) []string {
	var lines []string

	if !m.hideHeader {
		lines = append(lines, m.renderCompactHeader(palette, width)...)
	}

	lyricsHeight := height - len(lines)

	switch {
	case m.song == nil:
		lines = append(lines, m.renderWaitingForLyrics(palette, lyricsHeight, width)...)
	case m.song.LoadErr() != nil:
		lines = append(lines, m.renderErrorSection(palette, lyricsHeight, width)...)
	case m.song.Syncer().Current() >= 0:
		lines = append(lines, m.renderSlidingLyrics(palette, lyricsHeight, width)...)
	default:
		lines = append(lines, m.renderWaitingForLyrics(palette, lyricsHeight, width)...)
	}

	return lines
}

func (m Model) renderCompactHeader(palette *artwork.Palette, width int) []string {
	lines := []string{""}

	artWidth := 12
	artHeight := 6
	if width < 80 {
		artWidth = 8
		artHeight = 4
	}
	if width < 50 || m.height < 25 {
		artWidth = 0
		artHeight = 0
	}

	backdrop := m.art[assets.Backdrop]
	infoLines := m.renderTrackInfo(palette, width)

	kitty := ""
	if m.termCaps != nil && m.termCaps.KittyGraphics && artWidth > 0 && backdrop != nil {
		kitty = terminal.EncodeImageForKitty(backdrop, artWidth, artHeight)
	}

	if kitty != "" {
		lines = append(lines, "  "+kitty)
		for i := 0; i < artHeight-1; i++ {
			lines = append(lines, "  ")
		}
		for _, info := range infoLines {
			lines = append(lines, "  "+info)
		}
	} else {
		var art []string
		if artWidth > 0 {
			art = artwork.RenderHalfBlockArt(backdrop, artWidth, artHeight, 0)
		}

		rows := max(len(infoLines), len(art))
		for i := 0; i < rows; i++ {
			var line strings.Builder
			switch {
			case i < len(art):
				line.WriteString("  " + art[i] + "  ")
			case len(art) > 0:
				line.WriteString(strings.Repeat(" ", artWidth+4))
			default:
				line.WriteString("  ")
			}
			if i < len(infoLines) {
				line.WriteString(infoLines[i])
			}
			lines = append(lines, line.String())
		}
	}

	song := m.players[media.Song]
	lines = append(lines, "", renderProgress(palette, song.Position(), song.Duration(), width), "")

	return lines
}

func (m Model) renderTrackInfo(palette *artwork.Palette, width int) []string {
	title, artist, album := "Our song", "", ""
	if m.songInfo.IsValid() {
		title, artist, album = m.songInfo.Title, m.songInfo.Artist, m.songInfo.Album
	}

	maxWidth := max(20, width-20)
	fit := func(s string) string {
		r := []rune(s)
		if len(r) > maxWidth {
			return string(r[:maxWidth-1]) + "…"
		}
		return s
	}

	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Primary)).Bold(true)
	lines := []string{titleStyle.Render(fit(title))}

	if artist != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Secondary)).Render(fit(artist)))
	}
	if album != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Dim)).Render(fit(album)))
	}

	return lines
}

func renderProgress(palette *artwork.Palette, position, duration time.Duration, width int) string {
	if duration <= 0 {
		return ""
	}

	barWidth := max(20, width-20)
	progress := clamp(float64(position)/float64(duration), 0, 1)
	filled := int(float64(barWidth) * progress)

	filledStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Primary))
	emptyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Dim)).Faint(true)

	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		switch {
		case i < filled:
			bar.WriteString(filledStyle.Render("━"))
		case i == filled:
			bar.WriteString(filledStyle.Render("●"))
		default:
			bar.WriteString(emptyStyle.Render("─"))
		}
	}

	timeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Dim))
	return fmt.Sprintf("  %s  %s  %s",
		timeStyle.Render(colors.FormatTime(int64(position/time.Second))),
		bar.String(),
		timeStyle.Render(colors.FormatTime(int64(duration/time.Second))))
}

func (m Model) renderSlidingLyrics(palette *artwork.Palette, height int, width int) []string {
	syncer := m.song.Syncer()
	track := syncer.Track()
	current := syncer.Current()

	renderer := NewTextRenderer(palette, &m.animState, width)
	slideT := m.animState.SlideOffset()

	contextCount := 2
	if height < 20 {
		contextCount = 1
	}

	type renderedLyric struct {
		lines  []string
		offset int
	}

	var all []renderedLyric
	focus := 0

	for offset := -contextCount - 1; offset <= contextCount+1; offset++ {
		idx := current + offset
		if idx < 0 || idx >= len(track) {
			continue
		}

		text := track[idx].Text
		if text == "" {
			text = "···"
		}

		if offset == 0 {
			focus = len(all)
			all = append(all, renderedLyric{lines: renderer.RenderFocusLyric(text)})
			continue
		}

		dist := max(offset, -offset)
		brightness := max(0.3, 0.5-float64(dist-1)*0.1)
		state := syncer.State(idx)
		switch {
		case state == lyrics.LineFadingOut:
			brightness = lerp(0.7, 0.4, slideT)
		case offset == 1:
			brightness = lerp(0.35, 0.5, slideT)
		}

		all = append(all, renderedLyric{
			lines:  renderer.RenderContextLyric(text, brightness, state, offset < 0),
			offset: offset,
		})
	}

	spacing := 2
	focusHeight := len(all[focus].lines)
	centerY := max(0, (height-focusHeight)/2)

	positions := make([]int, len(all))
	positions[focus] = centerY

	y := centerY
	for i := focus - 1; i >= 0; i-- {
		y -= len(all[i].lines) + spacing
		positions[i] = y
	}
	y = centerY + focusHeight + spacing
	for i := focus + 1; i < len(all); i++ {
		positions[i] = y
		y += len(all[i].lines) + spacing
	}

	// the new line rises into the centre as the transition completes
	shift := int((1 - slideT) * float64(focusHeight+spacing))

	output := make([]string, height)
	for _, pass := range []bool{false, true} {
		for i, rl := range all {
			if (i == focus) != pass {
				continue
			}
			for j, line := range rl.lines {
				row := positions[i] + shift + j
				if row >= 0 && row < height && (output[row] == "" || pass) {
					output[row] = line
				}
			}
		}
	}

	return output
}

func (m Model) renderErrorSection(palette *artwork.Palette, height int, width int) []string {
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	line := centerText(errStyle.Render(LyricsErrorText), len(LyricsErrorText), width)
	return centerVertically([]string{line}, height)
}

func (m Model) renderWaitingForLyrics(palette *artwork.Palette, height int, width int) []string {
	var line string

	switch {
	case m.song != nil && !m.song.Loaded():
		frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
		spinnerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Secondary))
		textStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Dim))
		line = centerText(spinnerStyle.Render(frames[m.tickCount%len(frames)])+textStyle.Render(" loading lyrics"), 16, width)
	case m.song != nil && m.song.Finished():
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Dim))
		line = centerText(style.Render("·"), 1, width)
	default:
		pulse := []string{"·", "•", "♪", "•"}
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Secondary))
		line = centerText(style.Render(pulse[(m.tickCount/4)%len(pulse)]), 1, width)
	}

	return centerVertically([]string{line}, height)
}

func (m Model) renderFinale(palette *artwork.Palette, width int, height int) []string {
	field := strings.Split(m.sparkles.Render(width, height, palette.Background, m.clock.Now()), "\n")

	closing := "with love, on your day and every day"
	closingStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Secondary)).Italic(true)

	block := renderBanner(palette, width)
	block = append(block, "", centerText(closingStyle.Render(closing), len(closing), width))

	top := (height - len(block)) / 2
	for i, line := range block {
		if row := top + i; row >= 0 && row < len(field) {
			field[row] = line
		}
	}

	return field
}

func (m Model) renderFooter(palette *artwork.Palette, width int) []string {
	var lines []string

	var status []string
	if m.phases.Is(phase.Lyrics) && m.syncOffset != 0 {
		status = append(status, fmt.Sprintf("sync %+.1fs", m.syncOffset))
	}
	if m.notice != "" {
		status = append(status, m.notice)
	}
	if len(status) > 0 {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Dim))
		lines = append(lines, "  "+style.Render(strings.Join(status, " • ")))
	}

	for _, line := range strings.Split(m.help.View(m.keys), "\n") {
		lines = append(lines, "  "+line)
	}

	return lines
}

func renderPopup(palette *artwork.Palette, text, hint string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(palette.Accent)).
		Padding(1, 3).
		Align(lipgloss.Center)

	body := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Primary)).Bold(true).Render(text)
	note := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Dim)).Render(hint)

	return box.Render(body + "\n\n" + note)
}

// overlay replaces whole rows of base with box, horizontally centred. A
// negative top centres it vertically.
func overlay(base []string, box string, width int, top int) []string {
	rows := strings.Split(box, "\n")
	if top < 0 {
		top = (len(base) - len(rows)) / 2
	}

	out := append([]string(nil), base...)
	for i, row := range rows {
		if at := top + i; at >= 0 && at < len(out) {
			out[at] = centerText(row, lipgloss.Width(row), width)
		}
	}
	return out
}

func fitHeight(lines []string, height int) []string {
	for len(lines) < height {
		lines = append(lines, "")
	}
	return lines[:height]
}

func centerVertically(block []string, height int) []string {
	top := max(0, (height-len(block))/2)
	out := make([]string, top, top+len(block))
	return append(out, block...)
}

func blockWidth(lines []string) int {
	w := 0
	for _, l := range lines {
		w = max(w, lipgloss.Width(l))
	}
	return w
}

// centerBlock pads every line by the same amount so the block keeps its
// internal alignment.
func centerBlock(lines []string, width int) []string {
	pad := strings.Repeat(" ", max(0, (width-blockWidth(lines))/2))
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = pad + l
	}
	return out
}

func centerText(text string, visualWidth int, screenWidth int) string {
	padding := (screenWidth - visualWidth) / 2
	if padding < 0 {
		padding = 0
	}
	return strings.Repeat(" ", padding) + text
}
