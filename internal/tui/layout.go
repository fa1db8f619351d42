package tui

type pageLayout struct {
	windowWidth      int
	windowHeight     int
	contentWidth     int
	transcriptHeight int
	cardHeight       int
	composerHeight   int
	compactHero      bool
}

func newPageLayout() pageLayout {
	return pageLayout{
		contentWidth:     80,
		transcriptHeight: 8,
		cardHeight:       12,
		composerHeight:   composerHeight,
	}
}

func (l *pageLayout) Update(width, height int) {
	l.windowWidth = width
	l.windowHeight = height
	innerWidth := width - viewportHorizontalPadding
	if innerWidth < minViewportWidth {
		innerWidth = minViewportWidth
	}
	l.contentWidth = innerWidth
	l.composerHeight = composerHeight
	l.compactHero = height < compactHeroBelow

	hero := fullHeroHeight
	if l.compactHero {
		hero = 1
	}
	// section headers, transcript border, status and key lines
	const chrome = 6
	usable := height - hero - chrome - l.composerHeight
	if usable < 12 {
		usable = 12
	}
	l.transcriptHeight = usable * 2 / 5
	if l.transcriptHeight < 4 {
		l.transcriptHeight = 4
	}
	l.cardHeight = usable - l.transcriptHeight
}
