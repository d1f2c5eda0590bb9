package resize

import (
	"context"
	"fmt"
	"io"

	"github.com/chai2010/webp"
	"github.com/nfnt/resize"

	"assetpipe/internal/fileutil"
	"assetpipe/internal/metadata"
)

type builtinEngine struct{}

func (builtinEngine) Resize(ctx context.Context, source string, out Output) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	src, _, err := metadata.DecodeFile(source)
	if err != nil {
		return fmt.Errorf("decode source: %w", err)
	}
	scaled := resize.Resize(uint(out.Width), 0, src, resize.Lanczos3)
	return fileutil.WriteAtomic(out.Path, func(w io.Writer) error {
		return webp.Encode(w, scaled, &webp.Options{Quality: float32(out.Quality)})
	})
}
