package nikud

import (
	"context"
	"strings"

	"github.com/d7mtg/AlephTools/internal/hebrew"
	"github.com/d7mtg/AlephTools/internal/text"
)

// Gateway is the narrow model boundary: one call in, three per-position
// score matrices out. Implemented by onnx.Predictor.
type Gateway interface {
	// Predict pads indices to the model's fixed length and returns the
	// niqqud, dagesh and sin channel scores, one row per padded position.
	Predict(ctx context.Context, indices []int64) (niqqud, dagesh, sin [][]float32, err error)
	// SequenceLength is the fixed input length of the model.
	SequenceLength() int
}

// Service runs the full vocalization pipeline: strip existing marks,
// segment to the model window, encode, predict and merge each segment,
// then join the segment outputs.
type Service struct {
	gateway Gateway
}

func NewService(gateway Gateway) *Service {
	return &Service{gateway: gateway}
}

// Vocalize restores diacritics to input. It is cancellable between
// segments: a cancelled context aborts with ctx.Err() and no partial
// result. Empty or whitespace-only input returns empty output without
// touching the model.
func (s *Service) Vocalize(ctx context.Context, input string) (string, error) {
	stripped := hebrew.StripDiacritics(input)
	if strings.TrimSpace(stripped) == "" {
		return "", nil
	}

	segments := text.Split(stripped, s.gateway.SequenceLength())
	outputs := make([]string, 0, len(segments))
	for _, seg := range segments {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		runes := []rune(seg.Text)
		indices := hebrew.EncodeString(seg.Text)
		niqqud, dagesh, sin, err := s.gateway.Predict(ctx, indices)
		if err != nil {
			return "", err
		}
		outputs = append(outputs, Merge(runes, indices, niqqud, dagesh, sin, len(runes)))
	}

	return text.Join(segments, outputs), nil
}
