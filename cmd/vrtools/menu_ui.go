package main

import (
	"image/color"
	"strings"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/vrtools/lighttool"
	"golang.org/x/image/font/basicfont"
)

// lightMenuUI is the on-screen light kind picker. It implements
// lighttool.Highlighter so the tool's menu drives which button is lit.
type lightMenuUI struct {
	ui      *ebitenui.UI
	panel   *widget.Container
	group   *widget.RadioGroup
	buttons []*widget.Button
	// syncing is set while the highlighter moves the radio group so the
	// change handler does not re-enter the menu.
	syncing bool
	onPick  func(slot int)
	onClose func()
}

func newLightMenuUI(labels []string, onPick func(slot int), onClose func()) *lightMenuUI {
	m := &lightMenuUI{onPick: onPick, onClose: onClose}

	panelImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 200})
	btnIdle := imageui.NewNineSliceColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 255})
	btnHover := imageui.NewNineSliceColor(color.NRGBA{R: 0x44, G: 0x44, B: 0x44, A: 255})
	btnLit := imageui.NewNineSliceColor(color.NRGBA{R: 0x1f, G: 0x7a, B: 0x8c, A: 255})

	goFace := ebtext.NewGoXFace(basicfont.Face7x13)
	var face ebtext.Face = goFace
	textColor := &widget.ButtonTextColor{Idle: color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}}

	title := widget.NewText(
		widget.TextOpts.Text("Lights", &face, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}),
	)

	m.panel = widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(6),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 10, Bottom: 10, Left: 12, Right: 12}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionStart, VerticalPosition: widget.AnchorLayoutPositionCenter}),
		),
	)
	m.panel.AddChild(title)

	for i, label := range labels {
		btn := widget.NewButton(
			widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnIdle, Hover: btnHover, Pressed: btnLit}),
			widget.ButtonOpts.Text(menuLabel(i, label), &face, textColor),
			widget.ButtonOpts.ToggleMode(),
			widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.MinSize(120, 28)),
		)
		m.buttons = append(m.buttons, btn)
		m.panel.AddChild(btn)
	}

	closeBtn := widget.NewButton(
		widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnIdle, Hover: btnHover, Pressed: btnIdle}),
		widget.ButtonOpts.Text("Close tool", &face, textColor),
		widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.MinSize(120, 28)),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			if m.onClose != nil {
				m.onClose()
			}
		}),
	)
	m.panel.AddChild(closeBtn)

	elements := make([]widget.RadioGroupElement, 0, len(m.buttons))
	for _, b := range m.buttons {
		elements = append(elements, b)
	}
	m.group = widget.NewRadioGroup(
		widget.RadioGroupOpts.Elements(elements...),
		widget.RadioGroupOpts.ChangedHandler(func(args *widget.RadioGroupChangedEventArgs) {
			if m.syncing || m.onPick == nil {
				return
			}
			for idx, b := range m.buttons {
				if args.Active == b {
					m.onPick(idx)
					return
				}
			}
		}),
	)

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	root.AddChild(m.panel)

	m.ui = &ebitenui.UI{Container: root}
	return m
}

// SetHighlighted lights the button for index. Only the "on" call moves the
// radio group; the group clears the others itself.
func (m *lightMenuUI) SetHighlighted(index int, on bool) {
	if !on || index < 0 || index >= len(m.buttons) {
		return
	}
	m.syncing = true
	m.group.SetActive(m.buttons[index])
	m.syncing = false
}

func (m *lightMenuUI) SetVisible(v bool) {
	if v {
		m.panel.GetWidget().Visibility = widget.Visibility_Show
	} else {
		m.panel.GetWidget().Visibility = widget.Visibility_Hide
	}
}

func menuLabel(slot int, kind string) string {
	if kind == "" {
		return ""
	}
	return string(rune('1'+slot)) + "  " + strings.ToUpper(kind[:1]) + kind[1:]
}

// menuLabels lists the kind names in slot order.
func menuLabels(menu *lighttool.Menu) []string {
	labels := make([]string, menu.Slots())
	for i := range labels {
		if k, ok := menu.KindAt(i); ok {
			labels[i] = k.String()
		}
	}
	return labels
}
