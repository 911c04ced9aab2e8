package render

import (
	"image/color"
	"io"
	"strconv"
	"time"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/jeffreyeugu-sketch/expedientes/internal/model"
)

const (
	imageWidth      = 1400
	imageHeight     = 900
	headerHeight    = 100
	leftLabelsWidth = 80
	legendWidth     = 120
	dayPaddingX     = 8
	blockMinutes    = 30
	minBlockHeight  = 8.0
	blockRadius     = 6.0
	shadowOffset    = 3.0
	totalDaysInWeek = 7
	hourPaddingTop  = 2
	hourPaddingBot  = 2
	defaultMinHour  = 8
	defaultMaxHour  = 20
)

var (
	bgColor        = color.RGBA{245, 246, 248, 255}
	textColor      = color.RGBA{80, 85, 90, 220}
	hourLabelColor = color.RGBA{110, 115, 120, 200}
	hourLineColor  = color.NRGBA{150, 150, 150, 255}
	evenDayColor   = color.NRGBA{240, 240, 240, 255}
	oddDayColor    = color.NRGBA{220, 220, 220, 255}

	scheduledColor  = color.RGBA{133, 193, 85, 220}
	inProgressColor = color.RGBA{255, 204, 128, 255}
	completedColor  = color.RGBA{144, 164, 228, 255}
	defaultColor    = color.RGBA{220, 220, 220, 200}
	blockTextColor  = color.RGBA{20, 24, 28, 230}
	blockShadow     = color.RGBA{0, 0, 0, 20}

	legendItemColor = color.RGBA{70, 74, 78, 220}
)

// hourRange is the span of hours rendered down the left axis.
type hourRange struct {
	start int
	end   int
	total int
}

// WeekImage renders a Monday-to-Sunday agenda grid for the given week and
// writes it to w as PNG. start must be the local midnight of the week's
// Monday; consultations outside the week are ignored.
func WeekImage(w io.Writer, start time.Time, consultations []*model.Consultation) error {
	end := start.AddDate(0, 0, 7)
	byDay := groupByDay(consultations, start, end)
	hours := calculateHourRange(byDay)

	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(bgColor)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	dayWidth := (imageWidth - leftLabelsWidth - legendWidth) / totalDaysInWeek
	dayHeight := imageHeight - headerHeight
	cellHeight := float64(dayHeight) / float64(hours.total)

	drawHeader(dc, start)
	drawHourLabels(dc, hours, cellHeight)

	day := start
	for dayIndex := 0; dayIndex < totalDaysInWeek; dayIndex++ {
		x := float64(leftLabelsWidth + dayIndex*dayWidth)
		y := float64(headerHeight)

		drawDayBackground(dc, x, y, dayWidth, dayHeight, dayIndex)
		drawDayHeader(dc, day, x, y, dayWidth)
		drawHourLines(dc, x, y, dayWidth, hours, cellHeight)
		for _, c := range byDay[day.Format("2006-01-02")] {
			drawConsultation(dc, c, x, dayWidth, hours, cellHeight)
		}

		day = day.AddDate(0, 0, 1)
	}

	drawLegend(dc, dayWidth)

	return dc.EncodePNG(w)
}

func groupByDay(consultations []*model.Consultation, start, end time.Time) map[string][]*model.Consultation {
	byDay := make(map[string][]*model.Consultation)
	for _, c := range consultations {
		at := c.ScheduledAt.In(start.Location())
		if at.Before(start) || !at.Before(end) {
			continue
		}
		key := at.Format("2006-01-02")
		byDay[key] = append(byDay[key], c)
	}
	return byDay
}

func calculateHourRange(byDay map[string][]*model.Consultation) hourRange {
	minHour := 24
	maxHour := 0

	for _, day := range byDay {
		for _, c := range day {
			h := c.ScheduledAt.Hour()
			if h < minHour {
				minHour = h
			}
			if h+1 > maxHour {
				maxHour = h + 1
			}
		}
	}

	if minHour == 24 {
		minHour = defaultMinHour
		maxHour = defaultMaxHour
	}

	startHour := minHour - hourPaddingTop
	endHour := maxHour + hourPaddingBot
	if startHour < 0 {
		startHour = 0
	}
	if endHour > 23 {
		endHour = 23
	}

	return hourRange{
		start: startHour,
		end:   endHour,
		total: endHour - startHour + 1,
	}
}

func drawHeader(dc *gg.Context, start time.Time) {
	end := start.AddDate(0, 0, 6)

	title := start.Month().String()
	if start.Month() != end.Month() {
		title += " - " + end.Month().String()
	}

	dc.SetColor(textColor)
	w, h := dc.MeasureString(title)
	dc.DrawStringAnchored(title, float64(imageWidth)/2-w/2, float64(headerHeight)/8+h/2, 0, 0)
}

func drawHourLabels(dc *gg.Context, hours hourRange, cellHeight float64) {
	dc.SetColor(hourLabelColor)

	for hIdx := 0; hIdx < hours.total; hIdx++ {
		y := float64(headerHeight) + float64(hIdx)*cellHeight
		dc.DrawStringAnchored(formatHourLabel(hours.start+hIdx), float64(leftLabelsWidth)-10, y, 1, 0.5)
	}
}

func drawDayBackground(dc *gg.Context, x, y float64, dayWidth, dayHeight, dayIndex int) {
	if dayIndex%2 == 0 {
		dc.SetColor(evenDayColor)
	} else {
		dc.SetColor(oddDayColor)
	}
	dc.DrawRectangle(x, y, float64(dayWidth), float64(dayHeight))
	dc.Fill()
}

func drawDayHeader(dc *gg.Context, date time.Time, x, y float64, dayWidth int) {
	dc.SetColor(textColor)
	dc.DrawStringAnchored(date.Format("02.01"), x+float64(dayWidth)/2, y, 0.5, -1.6)
	dc.DrawStringAnchored(date.Weekday().String()[:3], x+float64(dayWidth)/2, y, 0.5, -0.4)
}

func drawHourLines(dc *gg.Context, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	dc.SetLineWidth(0.3)
	dc.SetColor(hourLineColor)

	for hIdx := 0; hIdx <= hours.total; hIdx++ {
		hy := y + float64(hIdx)*cellHeight
		dc.DrawLine(x, hy, x+float64(dayWidth), hy)
		dc.Stroke()
	}
}

func drawConsultation(dc *gg.Context, c *model.Consultation, x float64, dayWidth int, hours hourRange, cellHeight float64) {
	startHour := float64(c.ScheduledAt.Hour()) + float64(c.ScheduledAt.Minute())/60.0
	blockY := float64(headerHeight) + (startHour-float64(hours.start))*cellHeight
	blockHeight := float64(blockMinutes) / 60.0 * cellHeight
	if blockHeight < minBlockHeight {
		blockHeight = minBlockHeight
	}

	fillColor := statusColor(c.Status)
	blockWidth := float64(dayWidth) - float64(dayPaddingX*2)

	dc.SetColor(blockShadow)
	dc.DrawRoundedRectangle(x+dayPaddingX+shadowOffset, blockY+2+shadowOffset, blockWidth, blockHeight-4, blockRadius)
	dc.Fill()

	dc.SetColor(fillColor)
	dc.DrawRoundedRectangle(x+float64(dayPaddingX), blockY+2, blockWidth, blockHeight-4, blockRadius)
	dc.Fill()

	dc.SetColor(darken(fillColor, 0.8))
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(x+float64(dayPaddingX), blockY+2, blockWidth, blockHeight-4, blockRadius)
	dc.Stroke()

	dc.SetColor(blockTextColor)
	txtX := x + float64(dayPaddingX) + 8
	txtY := blockY + 8 + 10
	dc.DrawStringAnchored(c.ScheduledAt.Format("15:04"), txtX, txtY, 0, 0)

	if c.Patient != nil && blockHeight > 25 {
		dc.DrawStringAnchored(truncateLabel(c.Patient.FullName(), 20), txtX, txtY+16, 0, 0)
	}
}

func statusColor(status model.ConsultationStatus) color.RGBA {
	switch status {
	case model.StatusScheduled:
		return scheduledColor
	case model.StatusInProgress:
		return inProgressColor
	case model.StatusCompleted:
		return completedColor
	default:
		return defaultColor
	}
}

func darken(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

func drawLegend(dc *gg.Context, dayWidth int) {
	legendX := float64(leftLabelsWidth + totalDaysInWeek*dayWidth + 10)
	legendY := float64(imageHeight) - 100.0

	legendItems := []struct {
		Label string
		Clr   color.Color
	}{
		{"Scheduled", scheduledColor},
		{"In progress", inProgressColor},
		{"Completed", completedColor},
	}

	boxW := 20.0
	boxH := 14.0
	liY := legendY + 22

	for _, item := range legendItems {
		dc.SetColor(item.Clr)
		dc.DrawRoundedRectangle(legendX, liY, boxW, boxH, 3)
		dc.Fill()

		dc.SetColor(legendItemColor)
		dc.DrawStringAnchored(item.Label, legendX+boxW+8, liY+boxH/2+1, 0, 0.2)
		liY += boxH + 14
	}
}

// truncateLabel shortens s to at most max runes, never splitting a
// multibyte character.
func truncateLabel(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

func formatHourLabel(h int) string {
	if h < 10 {
		return "0" + strconv.Itoa(h) + ":00"
	}
	return strconv.Itoa(h) + ":00"
}
