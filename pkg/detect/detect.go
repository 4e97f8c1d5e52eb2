package detect

import (
	"context"
	"fmt"

	"cloud.google.com/go/translate"
	"golang.org/x/text/language"
)

// minimum confidence before a detection result is trusted. Below this the
// input is assumed to be in the indigenous language, which the detection
// api does not know.
const minConfidence = 0.5

// Detector identifies the language of free text via the Cloud Translation
// api. It only has to answer one question: is this the source (Spanish)
// side or not. The client is created once and shared.
type Detector struct {
	client *translate.Client
	source language.Tag
}

func New(ctx context.Context, sourceISO string) (*Detector, error) {
	src, err := language.Parse(sourceISO)
	if err != nil {
		return nil, fmt.Errorf("could not parse source language code %q: %w", sourceISO, err)
	}
	client, err := translate.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not create translation client: %w", err)
	}
	return &Detector{client: client, source: src}, nil
}

// IsSource reports whether text is confidently in the source language.
// Unrecognized or low-confidence input counts as indigenous.
func (d *Detector) IsSource(ctx context.Context, text string) (bool, error) {
	detections, err := d.client.DetectLanguage(ctx, []string{text})
	if err != nil {
		return false, fmt.Errorf("could not detect language: %w", err)
	}
	if len(detections) == 0 || len(detections[0]) == 0 {
		return false, nil
	}
	best := detections[0][0]
	if best.Confidence < minConfidence {
		return false, nil
	}
	base, _ := best.Language.Base()
	srcBase, _ := d.source.Base()
	return base == srcBase, nil
}

func (d *Detector) Close() error {
	return d.client.Close()
}
