package webhook

// EventKind is the logical event category of a delivery.
type EventKind string

const (
	EventCallEnded    EventKind = "call-ended"
	EventStatusUpdate EventKind = "status-update"
	EventOther        EventKind = "other"
)

// The provider has used two labels for the end-of-call event across format
// generations; both mean the same logical event.
func parseEventKind(s string) EventKind {
	switch s {
	case "call-end", "end-of-call-report":
		return EventCallEnded
	case "status-update":
		return EventStatusUpdate
	default:
		return EventOther
	}
}

// EventKind resolves the event label from its dialect-specific location.
func (c Classified) EventKind() EventKind {
	if c.Shape == ShapeMessageWrapped {
		return parseEventKind(stringAt(mapAt(c.Doc, "message"), "type"))
	}
	return parseEventKind(stringAt(c.Doc, "type"))
}

// accessor is one candidate location for a logical field. Fallback chains are
// explicit ordered slices so the resolution order stays auditable and
// testable, instead of optional-chaining scattered through the pipeline.
type accessor func(c Classified) string

var assistantIDChain = []accessor{
	func(c Classified) string { return stringAt(mapAt(c.Call, "assistant"), "id") },
	func(c Classified) string { return stringAt(mapAt(c.Doc, "assistant"), "id") },
	func(c Classified) string { return stringAt(c.Call, "assistantId") },
	func(c Classified) string { return stringAt(c.Doc, "assistantId") },
}

var callIDChain = []accessor{
	func(c Classified) string { return stringAt(c.Call, "id") },
	func(c Classified) string { return stringAt(c.Doc, "id") },
}

func resolve(c Classified, chain []accessor) string {
	for _, get := range chain {
		if v := get(c); v != "" {
			return v
		}
	}
	return ""
}

// AssistantID resolves the provider assistant id via ordered fallback.
func (c Classified) AssistantID() (string, error) {
	if v := resolve(c, assistantIDChain); v != "" {
		return v, nil
	}
	return "", ErrMissingAssistantID
}

// CallID resolves the provider call id via ordered fallback.
func (c Classified) CallID() (string, error) {
	if v := resolve(c, callIDChain); v != "" {
		return v, nil
	}
	return "", ErrMissingCallID
}
