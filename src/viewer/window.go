// Package viewer 在桌面窗口中显示渲染好的图片, 每张图片一个标签页.
package viewer

import (
	"bytes"
	"fmt"
	"image/png"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
)

// MaxTabs 最多保留的标签页, 超出时关闭最早的
const MaxTabs = 20

// Window 实现 plot.Viewer
type Window struct {
	app  fyne.App
	win  fyne.Window
	tabs *container.DocTabs
}

// New 创建主窗口, 调用 Run 后才会显示
func New(a fyne.App, title string) *Window {
	w := a.NewWindow(title)
	tabs := container.NewDocTabs()
	w.SetContent(tabs)
	w.Resize(fyne.NewSize(960, 720))
	return &Window{app: a, win: w, tabs: tabs}
}

// Show 解码 PNG 并在新标签页中显示, 可在任意 goroutine 调用
func (w *Window) Show(title string, image []byte) error {
	img, err := png.Decode(bytes.NewReader(image))
	if err != nil {
		return fmt.Errorf("decode image %q: %w", title, err)
	}

	fyne.Do(func() {
		c := canvas.NewImageFromImage(img)
		c.FillMode = canvas.ImageFillContain
		c.SetMinSize(fyne.NewSize(480, 360))

		item := container.NewTabItem(title, c)
		w.tabs.Append(item)
		for len(w.tabs.Items) > MaxTabs {
			w.tabs.RemoveIndex(0)
		}
		w.tabs.Select(item)
	})
	return nil
}

// Titles 当前标签页标题
func (w *Window) Titles() []string {
	titles := make([]string, 0, len(w.tabs.Items))
	for _, item := range w.tabs.Items {
		titles = append(titles, item.Text)
	}
	return titles
}

// Run 显示窗口并阻塞到窗口关闭, onStarted 在事件循环启动后调用
func (w *Window) Run(onStarted func()) {
	if onStarted != nil {
		w.app.Lifecycle().SetOnStarted(onStarted)
	}
	w.win.ShowAndRun()
}

// Quit 结束事件循环
func (w *Window) Quit() {
	fyne.Do(w.app.Quit)
}
