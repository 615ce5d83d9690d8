package commands

import (
	"fmt"
	"io"

	"github.com/Dharmiksheth/seamless-business-mosaic/internal/core/styles"
)

// printer writes styled status lines for humans. Machine output goes
// through iojson instead.
type printer struct {
	w io.Writer
}

func newPrinter(w io.Writer) *printer {
	return &printer{w: w}
}

func (p *printer) Successf(format string, args ...any) {
	_, _ = fmt.Fprintln(p.w, styles.TextSuccessStyle.Render("✔")+" "+fmt.Sprintf(format, args...))
}

func (p *printer) Infof(format string, args ...any) {
	_, _ = fmt.Fprintln(p.w, styles.TextWarningStyle.Render("●")+" "+fmt.Sprintf(format, args...))
}

func (p *printer) Errorf(format string, args ...any) {
	_, _ = fmt.Fprintln(p.w, styles.TextErrorStyle.Render("✘")+" "+fmt.Sprintf(format, args...))
}

func (p *printer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *printer) Header(title string) {
	_, _ = fmt.Fprintln(p.w, styles.TextPrimaryBoldStyle.Render(title))
	_, _ = fmt.Fprintln(p.w, styles.DividerStyle.Render("────────────────────────────────────────"))
}
