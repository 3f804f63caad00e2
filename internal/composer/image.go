package composer

import (
	"bytes"
	"context"
	"fmt"

	"github.com/disintegration/imaging"
)

// Compression targets. Every photo is re-encoded as JPEG, fitted into
// MaxDimension on its longer side and under MaxEncodedBytes on the wire.
const (
	MaxDimension    = 1280
	MaxEncodedBytes = 1 << 20

	qualityStart = 85
	qualityFloor = 40
	qualityStep  = 15
)

// CompressImage shrinks a photo to the upload budget. The work runs in
// its own goroutine so a caller can abandon it when ctx is cancelled;
// the submission must not proceed until it settles either way.
func CompressImage(ctx context.Context, data []byte) ([]byte, error) {
	type result struct {
		data []byte
		err  error
	}

	done := make(chan result, 1)
	go func() {
		out, err := compress(data)
		done <- result{out, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		return res.data, res.err
	}
}

func compress(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > MaxDimension || bounds.Dy() > MaxDimension {
		img = imaging.Fit(img, MaxDimension, MaxDimension, imaging.Lanczos)
	}

	for quality := qualityStart; quality >= qualityFloor; quality -= qualityStep {
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
			return nil, fmt.Errorf("encode image: %w", err)
		}
		if buf.Len() <= MaxEncodedBytes {
			return buf.Bytes(), nil
		}
	}

	return nil, fmt.Errorf("image exceeds %d bytes even at minimum quality", MaxEncodedBytes)
}
