package render

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
)

// TerminalPreview shows a just-written frame inline in the terminal by
// first scaling it with an external image tool, then handing the scaled
// copy to a terminal image viewer. Both invocations block; a non-zero
// exit from either is a hard failure.
type TerminalPreview struct {
	// ScalerCmd is an ImageMagick-style resizer: it is invoked as
	// "<cmd> <in> -resize <width> <out>".
	ScalerCmd string

	// ViewerCmd is invoked as "<cmd> <scaled>" and is expected to draw
	// the image into the terminal (kitty icat, timg, chafa...).
	ViewerCmd string

	// Width is the pixel width the preview is scaled to.
	Width int
}

// Show scales and displays one image file. The scaled copy is a temporary
// file removed before returning.
func (tp *TerminalPreview) Show(path string) error {
	tmp, err := os.CreateTemp("", "preview-*"+filepath.Ext(path))
	if err != nil {
		return fmt.Errorf("preview temp file: %w", err)
	}
	scaled := tmp.Name()
	tmp.Close()
	defer os.Remove(scaled)

	scale := exec.Command(tp.ScalerCmd, path, "-resize", strconv.Itoa(tp.Width), scaled)
	scale.Stdout = os.Stdout
	scale.Stderr = os.Stderr
	if err := scale.Run(); err != nil {
		return fmt.Errorf("%s %s: %w", tp.ScalerCmd, path, err)
	}

	view := exec.Command(tp.ViewerCmd, scaled)
	view.Stdout = os.Stdout
	view.Stderr = os.Stderr
	if err := view.Run(); err != nil {
		return fmt.Errorf("%s %s: %w", tp.ViewerCmd, scaled, err)
	}
	return nil
}
