// Package ui is a desktop dashboard for the feeder. It renders telemetry
// lines received over serial and sends console commands back.
package ui

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"io"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/calvinmclean/feedswap"
	"github.com/calvinmclean/feedswap/monitor"
)

const maxLogLines = 200

type FeederUI struct {
	mtx     sync.Mutex
	pending []byte

	activeText *canvas.Text
	lane1Label *widget.Label
	lane2Label *widget.Label
	rateLabel  *widget.Label
	stateLabel *widget.Label
	uptimeText *canvas.Text

	swapTimer  *timer
	lastActive feedswap.LaneID

	logContent *widget.Label
	logLines   []string
}

func NewFeederUI() *FeederUI {
	activeText := canvas.NewText("Active: -", nil)
	activeText.TextSize = 24

	return &FeederUI{
		activeText: activeText,
		lane1Label: widget.NewLabel("Lane 1: -"),
		lane2Label: widget.NewLabel("Lane 2: -"),
		rateLabel:  widget.NewLabel("Rate: -"),
		stateLabel: widget.NewLabel(""),
		uptimeText: canvas.NewText("--:--", nil),
		swapTimer:  newTimer(),
		logContent: widget.NewLabel(""),
	}
}

// Write receives raw serial output. Complete lines that parse as telemetry
// update the dashboard; everything else only lands in the log.
func (ui *FeederUI) Write(p []byte) (int, error) {
	ui.mtx.Lock()
	ui.pending = append(ui.pending, p...)
	var lines []string
	for {
		i := bytes.IndexByte(ui.pending, '\n')
		if i < 0 {
			break
		}
		lines = append(lines, strings.TrimRight(string(ui.pending[:i]), "\r"))
		ui.pending = ui.pending[i+1:]
	}
	ui.mtx.Unlock()

	for _, line := range lines {
		ui.handleLine(line)
	}

	return len(p), nil
}

func (ui *FeederUI) handleLine(line string) {
	if line == "" {
		return
	}

	snap, err := feedswap.ParseSnapshot(line)
	fyne.Do(func() {
		ui.appendLog(line)
		if err != nil {
			return
		}
		ui.applySnapshot(snap)
	})
}

func (ui *FeederUI) appendLog(line string) {
	ui.logLines = append(ui.logLines, line)
	if len(ui.logLines) > maxLogLines {
		ui.logLines = ui.logLines[len(ui.logLines)-maxLogLines:]
	}
	ui.logContent.SetText(strings.Join(ui.logLines, "\n"))
}

func (ui *FeederUI) applySnapshot(snap feedswap.Snapshot) {
	ui.activeText.Text = fmt.Sprintf("Active: Lane %s", snap.Active)
	ui.activeText.Refresh()

	ui.lane1Label.SetText(laneLine(1, snap.Lanes[0]))
	ui.lane2Label.SetText(laneLine(2, snap.Lanes[1]))
	ui.rateLabel.SetText(fmt.Sprintf("Rate: %d steps/s", snap.Rate))
	ui.stateLabel.SetText(stateLine(snap))

	minutes := int(snap.Uptime.Minutes())
	seconds := int(snap.Uptime.Seconds()) % 60
	ui.uptimeText.Text = fmt.Sprintf("%02d:%02d", minutes, seconds)
	ui.uptimeText.Refresh()

	if ui.lastActive != 0 && ui.lastActive != snap.Active {
		ui.swapTimer.Set(time.Now())
	}
	ui.lastActive = snap.Active
}

func laneLine(n int, lane feedswap.LaneSnapshot) string {
	return fmt.Sprintf("Lane %d: %s  in=%s out=%s", n, lane.Mode, mark(lane.In), mark(lane.Out))
}

func stateLine(snap feedswap.Snapshot) string {
	var parts []string
	if snap.Armed {
		parts = append(parts, "swap armed")
	}
	if snap.Manual {
		parts = append(parts, "manual reverse")
	}
	if snap.BufferLow {
		parts = append(parts, "buffer low")
	}
	if snap.BufferHigh {
		parts = append(parts, "buffer high")
	}
	if !snap.YClear {
		parts = append(parts, "junction blocked")
	}
	if len(parts) == 0 {
		return "nominal"
	}
	return strings.Join(parts, ", ")
}

func mark(b bool) string {
	if b {
		return "present"
	}
	return "empty"
}

// Run shows the configuration window, connects to the selected serial port,
// and then shows the dashboard
func (ui *FeederUI) Run(ctx context.Context) {
	application := app.New()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	window := application.NewWindow("Feed Swap")

	ui.swapTimer.Go(ctx)
	ui.swapTimer.text.Color = color.RGBA{R: 139, G: 0, B: 0, A: 255}

	consoleIn, consoleOut := io.Pipe()
	sendCommand := func(cmd string) {
		fmt.Fprint(consoleOut, cmd)
	}

	commandRow := container.NewHBox(
		widget.NewButton("Snapshot", func() { sendCommand("D") }),
		widget.NewButton("Verbose", func() { sendCommand("V") }),
		widget.NewButton("Activate Lane 1", func() { sendCommand("A1") }),
		widget.NewButton("Activate Lane 2", func() { sendCommand("A2") }),
	)

	logScroll := container.NewVScroll(ui.logContent)
	logScroll.SetMinSize(fyne.NewSize(400, 120))
	logAccordion := widget.NewAccordion(
		widget.NewAccordionItem("Logs", logScroll),
	)

	content := container.NewVBox(
		container.NewHBox(
			container.NewPadded(ui.activeText),
			layout.NewSpacer(),
			container.NewPadded(ui.uptimeText),
			container.NewPadded(ui.swapTimer.text),
		),
		ui.lane1Label,
		ui.lane2Label,
		ui.rateLabel,
		ui.stateLabel,
		commandRow,
		logAccordion,
	)

	window.SetContent(content)
	window.Resize(fyne.NewSize(450, 300))

	cfg := &monitor.Config{}
	cw := NewConfigWindow(application)
	cw.OnSubmit = func() {
		m, err := monitor.New(*cfg)
		if err != nil {
			showError(application, window, err)
			return
		}
		go func() {
			defer m.Close()
			runErr := m.Run(ctx, consoleIn, ui)
			if runErr != nil {
				fyne.Do(func() {
					ui.appendLog("serial error: " + runErr.Error())
				})
			}
		}()
		window.Show()
	}
	cw.Show(cfg)

	go func() {
		<-ctx.Done()
		fyne.Do(func() {
			application.Quit()
		})
	}()

	application.Run()
}
