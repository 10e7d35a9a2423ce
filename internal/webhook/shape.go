package webhook

import "fmt"

// Shape identifies which of the provider's historical payload dialects a
// delivery uses. The provider changed its wire format several times; all of
// them must keep working.
type Shape string

const (
	// ShapeLegacyFlat: call fields live at the top level of the document.
	ShapeLegacyFlat Shape = "legacy-flat"
	// ShapeCallWrapped: a top-level "call" object, with or without an
	// embedded artifact.
	ShapeCallWrapped Shape = "call-wrapped"
	// ShapeMessageWrapped: the current dialect; everything nests under a
	// top-level "message" object.
	ShapeMessageWrapped Shape = "message-wrapped"
)

// Classified is the one-time shape resolution carried through the rest of the
// pipeline, so no later stage re-tests the document layout.
type Classified struct {
	Shape Shape

	// Doc is the full delivery document.
	Doc map[string]any
	// Call is the sub-document holding call fields (may equal Doc for
	// legacy-flat payloads).
	Call map[string]any
	// Artifact is the post-call conversational bundle, nil when the dialect
	// carries none.
	Artifact map[string]any

	// NeedsEnrichment is set when the dialect carries no conversational
	// artifact and the full call must be fetched from the provider API.
	NeedsEnrichment bool
}

// Classify resolves the dialect of an inbound document. Detection order
// matters: the key sets of the dialects are not mutually exclusive, so the
// first match wins. An unrecognizable document is rejected rather than
// processed with null-filled data.
func Classify(doc map[string]any) (Classified, error) {
	if doc == nil {
		return Classified{}, fmt.Errorf("%w: empty document", ErrMalformedPayload)
	}

	if msg := mapAt(doc, "message"); msg != nil {
		artifact := mapAt(msg, "artifact")
		return Classified{
			Shape:           ShapeMessageWrapped,
			Doc:             doc,
			Call:            mapAt(msg, "call"),
			Artifact:        artifact,
			NeedsEnrichment: artifact == nil,
		}, nil
	}

	if call := mapAt(doc, "call"); call != nil {
		artifact := mapAt(call, "artifact")
		return Classified{
			Shape:           ShapeCallWrapped,
			Doc:             doc,
			Call:            call,
			Artifact:        artifact,
			NeedsEnrichment: artifact == nil,
		}, nil
	}

	if stringAt(doc, "id") != "" && stringAt(doc, "assistantId") != "" && stringAt(doc, "status") != "" {
		return Classified{
			Shape:    ShapeLegacyFlat,
			Doc:      doc,
			Call:     doc,
			Artifact: mapAt(doc, "artifact"),
		}, nil
	}

	return Classified{}, fmt.Errorf("%w: no known dialect matches", ErrUnrecognizedShape)
}
